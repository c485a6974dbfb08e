// Package merge implements the three-way merge engine: a Myers line diff
// and diff3 hunk merge for blob content, and a recursive decision-table
// merge for trees.
package merge

// Change is one edit-script entry from a two-way line diff: seq1[P1:P1+Del]
// was removed and seq2[P2:P2+Ins] was inserted in its place.
type Change struct {
	P1, P2   int
	Del, Ins int
}

// MyersDiff computes the minimal edit script turning seq1 into seq2, as a
// sequence of non-overlapping Changes in seq1/seq2 order.
func MyersDiff(seq1, seq2 []string) []Change {
	if len(seq1) == 0 && len(seq2) == 0 {
		return []Change{}
	}
	if len(seq1) == 0 {
		return []Change{{Ins: len(seq2)}}
	}
	if len(seq2) == 0 {
		return []Change{{Del: len(seq1)}}
	}

	getXAfterSnake := func(x, y int) int {
		for x < len(seq1) && y < len(seq2) && seq1[x] == seq2[y] {
			x++
			y++
		}
		return x
	}

	d := 0
	v := newFastIntArray()
	v.set(0, getXAfterSnake(0, 0))
	paths := newSnakePaths()
	if v.get(0) == 0 {
		paths.set(0, nil)
	} else {
		paths.set(0, &snakePath{x: 0, y: 0, length: v.get(0)})
	}

	k := 0
outer:
	for {
		d++
		lowerBound := -min(d, len(seq2)+(d%2))
		upperBound := min(d, len(seq1)+(d%2))
		for k = lowerBound; k <= upperBound; k += 2 {
			top, left := -1, -1
			if k != upperBound {
				top = v.get(k + 1)
			}
			if k != lowerBound {
				left = v.get(k-1) + 1
			}
			x := min(max(top, left), len(seq1))
			y := x - k
			if x > len(seq1) || y > len(seq2) {
				continue
			}

			newX := getXAfterSnake(x, y)
			v.set(k, newX)

			var last *snakePath
			if x == top {
				last = paths.get(k + 1)
			} else {
				last = paths.get(k - 1)
			}
			if newX != x {
				paths.set(k, &snakePath{pre: last, x: x, y: y, length: newX - x})
			} else {
				paths.set(k, last)
			}

			if v.get(k) == len(seq1) && v.get(k)-k == len(seq2) {
				break outer
			}
		}
	}

	p := paths.get(k)
	lastX, lastY := len(seq1), len(seq2)
	var changes []Change
	for {
		var endX, endY int
		if p != nil {
			endX = p.x + p.length
			endY = p.y + p.length
		}
		if endX != lastX || endY != lastY {
			changes = append(changes, Change{P1: endX, P2: endY, Del: lastX - endX, Ins: lastY - endY})
		}
		if p == nil {
			break
		}
		lastX, lastY = p.x, p.y
		p = p.pre
	}
	reverseChanges(changes)
	return changes
}

func reverseChanges(c []Change) {
	for i, j := 0, len(c)-1; i < j; i, j = i+1, j-1 {
		c[i], c[j] = c[j], c[i]
	}
}

// snakePath is one diagonal run recorded while walking the edit graph.
type snakePath struct {
	pre          *snakePath
	x, y, length int
}

// fastIntArray holds V[k] for k ranging over both positive and negative
// diagonals, growing on demand instead of requiring a pre-sized range.
type fastIntArray struct {
	pos, neg []int
}

func newFastIntArray() *fastIntArray {
	return &fastIntArray{pos: make([]int, 10), neg: make([]int, 10)}
}

func (a *fastIntArray) get(i int) int {
	if i < 0 {
		return a.neg[-i-1]
	}
	return a.pos[i]
}

func (a *fastIntArray) set(i, v int) {
	if i < 0 {
		i = -i - 1
		a.neg = growInts(a.neg, i)
		a.neg[i] = v
		return
	}
	a.pos = growInts(a.pos, i)
	a.pos[i] = v
}

func growInts(s []int, i int) []int {
	if i < len(s) {
		return s
	}
	grown := make([]int, len(s)*2)
	copy(grown, s)
	return grown
}

type snakePaths struct {
	pos, neg map[int]*snakePath
}

func newSnakePaths() *snakePaths {
	return &snakePaths{pos: map[int]*snakePath{}, neg: map[int]*snakePath{}}
}

func (p *snakePaths) get(i int) *snakePath {
	if i < 0 {
		return p.neg[-i-1]
	}
	return p.pos[i]
}

func (p *snakePaths) set(i int, v *snakePath) {
	if i < 0 {
		p.neg[-i-1] = v
		return
	}
	p.pos[i] = v
}
