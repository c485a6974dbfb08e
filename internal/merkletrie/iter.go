// Package merkletrie walks and diffs tree-shaped noder.Noder sources —
// object trees, the index, and working directories — without caring
// which one it's looking at.
package merkletrie

import (
	"io"
	"sort"

	"github.com/yusefsweeney/gitcore/internal/merkletrie/noder"
)

type frame struct {
	children []noder.Noder
	index    int
}

// Iter performs a pre-order depth-first walk of a single noder.Noder
// tree. The root itself is never returned — only its descendants are —
// since a root tree/directory has no meaningful identity to diff on its
// own. Every Path it returns is a fresh, independently-owned slice:
// callers can retain one across later calls without it changing
// underneath them.
type Iter struct {
	root    noder.Noder
	stack   []frame
	path    noder.Path
	started bool
}

// NewIter returns an Iter ready to walk root's descendants.
func NewIter(root noder.Noder) *Iter {
	return &Iter{root: root}
}

// Next advances to the next node at the same or a shallower level,
// without descending into the directory just returned — used to skip a
// subtree the caller has already determined is unchanged (equal
// hashes on both sides of a diff).
func (i *Iter) Next() (noder.Path, error) {
	return i.advance(false)
}

// Step advances the walk, descending into the last-returned node's
// children if it was a directory. This is the normal way to drive a
// full traversal; Next is the escape hatch for skipping a subtree.
func (i *Iter) Step() (noder.Path, error) {
	return i.advance(true)
}

func (i *Iter) advance(descend bool) (noder.Path, error) {
	if !i.started {
		i.started = true
		children, err := sortedChildren(i.root)
		if err != nil {
			return nil, err
		}
		i.stack = append(i.stack, frame{children: children})
	} else if descend && i.path.Last().IsDir() {
		children, err := sortedChildren(i.path.Last())
		if err != nil {
			return nil, err
		}
		i.stack = append(i.stack, frame{children: children})
	} else {
		i.path = ancestors(i.path)
	}

	for len(i.stack) > 0 {
		top := &i.stack[len(i.stack)-1]
		if top.index >= len(top.children) {
			i.stack = i.stack[:len(i.stack)-1]
			i.path = ancestors(i.path)
			continue
		}
		child := top.children[top.index]
		top.index++
		i.path = withChild(i.path, child)
		return i.path, nil
	}

	return nil, io.EOF
}

// ancestors returns a fresh copy of p with its last element dropped.
func ancestors(p noder.Path) noder.Path {
	if len(p) == 0 {
		return p
	}
	out := make(noder.Path, len(p)-1)
	copy(out, p)
	return out
}

// withChild returns a fresh copy of p with child appended.
func withChild(p noder.Path, child noder.Noder) noder.Path {
	out := make(noder.Path, len(p)+1)
	copy(out, p)
	out[len(p)] = child
	return out
}

func sortedChildren(n noder.Noder) ([]noder.Noder, error) {
	children, err := n.Children()
	if err != nil {
		return nil, err
	}
	sort.Slice(children, func(a, b int) bool {
		return children[a].Name() < children[b].Name()
	})
	return children, nil
}
