package merkletrie

import (
	"bytes"
	"io"

	"github.com/yusefsweeney/gitcore/internal/merkletrie/noder"
)

// HashEqual reports whether two noders should be treated as unchanged.
// DiffTree uses this instead of a raw byte comparison so callers can
// fold mode-equivalence rules (e.g. treating two historical "regular
// file" mode encodings as the same) into the walk.
type HashEqual func(a, b noder.Hasher) bool

// ByteHashEqual is the default HashEqual: a straight byte comparison,
// except that a non-empty all-zero hash (what the index and working-tree
// sources report for every directory) never counts as equal, so such
// directories are always descended into.
func ByteHashEqual(a, b noder.Hasher) bool {
	ah, bh := a.Hash(), b.Hash()
	for _, h := range [][]byte{ah, bh} {
		if len(h) > 0 && bytes.Count(h, []byte{0}) == len(h) {
			return false
		}
	}
	return bytes.Equal(ah, bh)
}

// DiffTree walks from and to in lock-step pre-order and returns every
// Insert, Delete, and Modify needed to turn from into to. Unchanged
// subtrees (equal hash on both sides) are skipped without being
// descended into — the cost of a no-op diff is proportional to what
// changed, not to the size of either tree.
func DiffTree(from, to noder.Noder, hashEqual HashEqual) (Changes, error) {
	changes := NewChanges()

	it, err := newDoubleIter(from, to, hashEqual)
	if err != nil {
		return nil, err
	}

	for {
		switch it.remaining() {
		case noMoreNoders:
			return changes, nil

		case onlyFromRemains:
			if err := changes.AddRecursiveDelete(it.from.current); err != nil {
				return nil, err
			}
			if err := it.nextFrom(); err != nil {
				return nil, err
			}

		case onlyToRemains:
			if err := changes.AddRecursiveInsert(it.to.current); err != nil {
				return nil, err
			}
			if err := it.nextTo(); err != nil {
				return nil, err
			}

		case bothHaveNodes:
			if err := resolveBoth(it, &changes); err != nil {
				return nil, err
			}
		}
	}
}

func resolveBoth(it *doubleIter, changes *Changes) error {
	switch it.nameComparison() {
	case nameLess: // from sorts first: it has no counterpart in to, yet.
		if err := changes.AddRecursiveDelete(it.from.current); err != nil {
			return err
		}
		return it.nextFrom()

	case nameGreater: // to sorts first: it has no counterpart in from, yet.
		if err := changes.AddRecursiveInsert(it.to.current); err != nil {
			return err
		}
		return it.nextTo()
	}

	// Same name on both sides.
	cmp := it.compare()

	switch {
	case cmp.fileAndDir:
		if err := changes.AddRecursiveDelete(it.from.current); err != nil {
			return err
		}
		if err := changes.AddRecursiveInsert(it.to.current); err != nil {
			return err
		}
		return it.nextBoth()

	case cmp.bothAreDirs:
		if cmp.sameHash {
			return it.nextBoth() // unchanged subtree: skip it entirely.
		}
		return it.stepBoth() // descend into both to find what changed.

	default: // both are files
		if !cmp.sameHash {
			*changes = append(*changes, NewModify(it.from.current, it.to.current))
		}
		return it.nextBoth()
	}
}

// doubleIter drives two Iters in parallel so DiffTree can compare their
// current positions without re-walking either tree from scratch.
type doubleIter struct {
	from struct {
		iter    *Iter
		current noder.Path
	}
	to struct {
		iter    *Iter
		current noder.Path
	}
	hashEqual HashEqual
}

func newDoubleIter(from, to noder.Noder, hashEqual HashEqual) (*doubleIter, error) {
	d := &doubleIter{hashEqual: hashEqual}

	d.from.iter = NewIter(from)
	if err := advanceOrNil(&d.from.current, d.from.iter.Step); err != nil {
		return nil, err
	}

	d.to.iter = NewIter(to)
	if err := advanceOrNil(&d.to.current, d.to.iter.Step); err != nil {
		return nil, err
	}

	return d, nil
}

func advanceOrNil(current *noder.Path, step func() (noder.Path, error)) error {
	p, err := step()
	if err == io.EOF {
		*current = nil
		return nil
	}
	if err != nil {
		return err
	}
	*current = p
	return nil
}

func (d *doubleIter) nextFrom() error { return advanceOrNil(&d.from.current, d.from.iter.Next) }
func (d *doubleIter) nextTo() error   { return advanceOrNil(&d.to.current, d.to.iter.Next) }

func (d *doubleIter) nextBoth() error {
	if err := d.nextFrom(); err != nil {
		return err
	}
	return d.nextTo()
}

func (d *doubleIter) stepBoth() error {
	if err := advanceOrNil(&d.from.current, d.from.iter.Step); err != nil {
		return err
	}
	return advanceOrNil(&d.to.current, d.to.iter.Step)
}

type remaining int

const (
	noMoreNoders remaining = iota
	onlyFromRemains
	onlyToRemains
	bothHaveNodes
)

func (d *doubleIter) remaining() remaining {
	switch {
	case d.from.current == nil && d.to.current == nil:
		return noMoreNoders
	case d.from.current == nil:
		return onlyToRemains
	case d.to.current == nil:
		return onlyFromRemains
	default:
		return bothHaveNodes
	}
}

type nameOrder int

const (
	nameLess nameOrder = iota
	nameEqual
	nameGreater
)

func (d *doubleIter) nameComparison() nameOrder {
	switch c := d.from.current.Compare(d.to.current); {
	case c < 0:
		return nameLess
	case c > 0:
		return nameGreater
	default:
		return nameEqual
	}
}

type comparison struct {
	sameHash     bool
	bothAreFiles bool
	bothAreDirs  bool
	fileAndDir   bool
}

func (d *doubleIter) compare() comparison {
	from, to := d.from.current, d.to.current
	fromIsDir, toIsDir := from.IsDir(), to.IsDir()

	var c comparison
	c.bothAreDirs = fromIsDir && toIsDir
	c.bothAreFiles = !fromIsDir && !toIsDir
	c.fileAndDir = !c.bothAreDirs && !c.bothAreFiles
	if !c.fileAndDir {
		c.sameHash = d.hashEqual(from, to)
	}
	return c
}
