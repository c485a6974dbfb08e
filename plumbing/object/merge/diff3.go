package merge

import "sort"

// hunk is one input edit, tagged with which side (ours=0, theirs=2) it
// came from: [oLhs, side, oLen, abLhs, abLen].
type hunk [5]int

type hunkList []*hunk

func (h hunkList) Len() int           { return len(h) }
func (h hunkList) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h hunkList) Less(i, j int) bool { return h[i][0] < h[j][0] }

// diff3MergeIndices merges the edit scripts of (base, ours) and
// (base, theirs) into a single sequence of regions against base. Each
// region is either a plain copy ([1, offset, length]) or a one-sided
// edit ([side, abOffset, abLength]) where side is 0 (ours) or 2
// (theirs), or a genuine overlap ([-1, aLhs, aLen, oLhs, oLen, bLhs,
// bLen]) that both sides touched.
func diff3MergeIndices(o, a, b []string) [][]int {
	m1 := MyersDiff(o, a)
	m2 := MyersDiff(o, b)

	var hunks hunkList
	for _, c := range m1 {
		hunks = append(hunks, &hunk{c.P1, 0, c.Del, c.P2, c.Ins})
	}
	for _, c := range m2 {
		hunks = append(hunks, &hunk{c.P1, 2, c.Del, c.P2, c.Ins})
	}
	sort.Sort(hunks)

	var result [][]int
	commonOffset := 0
	copyCommon := func(upTo int) {
		if upTo > commonOffset {
			result = append(result, []int{1, commonOffset, upTo - commonOffset})
			commonOffset = upTo
		}
	}

	for i := 0; i < len(hunks); i++ {
		first := i
		h := hunks[i]
		regionLhs := h[0]
		regionRhs := regionLhs + h[2]
		for i < len(hunks)-1 {
			next := hunks[i+1]
			// Hunks that only touch end to end (both non-empty) are
			// separate edits; an insertion at the boundary still overlaps.
			if next[0] > regionRhs || (next[0] == regionRhs && regionRhs > regionLhs && next[2] > 0) {
				break
			}
			regionRhs = max(regionRhs, next[0]+next[2])
			i++
		}

		copyCommon(regionLhs)
		if first == i {
			// Only one side touched this region: not a conflict.
			h = hunks[first]
			if h[4] > 0 {
				result = append(result, []int{h[1], h[3], h[4]})
			}
		} else {
			// Both sides touched overlapping regions: a real conflict.
			// regions[0] tracks ours, regions[2] tracks theirs, each as
			// [abLhs, abRhs, oLhs, oRhs].
			regions := [][]int{{len(a), -1, len(o), -1}, nil, {len(b), -1, len(o), -1}}
			for j := first; j <= i; j++ {
				hj := hunks[j]
				r := regions[hj[1]]
				oLhs, oRhs := hj[0], hj[0]+hj[2]
				abLhs, abRhs := hj[3], hj[3]+hj[4]
				r[0] = min(abLhs, r[0])
				r[1] = max(abRhs, r[1])
				r[2] = min(oLhs, r[2])
				r[3] = max(oRhs, r[3])
			}
			aLhs := regions[0][0] + (regionLhs - regions[0][2])
			aRhs := regions[0][1] + (regionRhs - regions[0][3])
			bLhs := regions[2][0] + (regionLhs - regions[2][2])
			bRhs := regions[2][1] + (regionRhs - regions[2][3])
			result = append(result, []int{-1,
				aLhs, aRhs - aLhs,
				regionLhs, regionRhs - regionLhs,
				bLhs, bRhs - bLhs})
		}
		commonOffset = regionRhs
	}

	copyCommon(len(o))
	return result
}

// conflict is a genuine overlapping edit: both sides changed the same
// region of base, and not in the same way.
type conflict struct {
	ours, base, theirs []string
}

// region is one step of a merged result: either a run of agreed-upon
// lines (ok) or a conflict.
type region struct {
	ok       []string
	conflict *conflict
}

// diff3Merge runs diff3MergeIndices and resolves every region against
// the actual line slices, dropping conflicts that turn out to be
// spurious (both sides made the exact same edit).
func diff3Merge(o, a, b []string) []region {
	files := [][]string{a, o, b}
	indices := diff3MergeIndices(o, a, b)

	var result []region
	var pending []string
	flush := func() {
		if len(pending) != 0 {
			result = append(result, region{ok: pending})
		}
		pending = nil
	}
	push := func(lines []string) { pending = append(pending, lines...) }

	isTrueConflict := func(rec []int) bool {
		if rec[2] != rec[6] {
			return true
		}
		aOff, bOff := rec[1], rec[5]
		for j := 0; j < rec[2]; j++ {
			if a[j+aOff] != b[j+bOff] {
				return true
			}
		}
		return false
	}

	for _, rec := range indices {
		side := rec[0]
		if side == -1 {
			if !isTrueConflict(rec) {
				push(a[rec[1] : rec[1]+rec[2]])
				continue
			}
			flush()
			result = append(result, region{conflict: &conflict{
				ours:   a[rec[1] : rec[1]+rec[2]],
				base:   o[rec[3] : rec[3]+rec[4]],
				theirs: b[rec[5] : rec[5]+rec[6]],
			}})
			continue
		}
		push(files[side][rec[1] : rec[1]+rec[2]])
	}
	flush()
	return result
}
