package noder

import "strings"

// Path is a Noder's full path from the tree root: every ancestor in
// order, ending with the node itself. It implements Noder itself so
// comparisons and prints can treat "this node at this path" uniformly.
type Path []Noder

// String renders the path as a "/"-joined name sequence.
func (p Path) String() string {
	names := make([]string, len(p))
	for i, n := range p {
		names[i] = n.Name()
	}
	return strings.Join(names, "/")
}

// Last is the path's final element — the node itself, as opposed to
// one of its ancestors.
func (p Path) Last() Noder {
	return p[len(p)-1]
}

// Hash returns the terminal node's hash.
func (p Path) Hash() []byte { return p.Last().Hash() }

// Name returns the terminal node's own (not full path) name.
func (p Path) Name() string { return p.Last().Name() }

// IsDir reports whether the terminal node has children.
func (p Path) IsDir() bool { return p.Last().IsDir() }

// Children lists the terminal node's direct children.
func (p Path) Children() ([]Noder, error) { return p.Last().Children() }

// NumChildren counts the terminal node's direct children.
func (p Path) NumChildren() (int, error) { return p.Last().NumChildren() }

// Compare orders two paths the way git orders tree entries: name by
// name, with a shorter path that is a strict prefix of a longer one
// sorting first.
func (p Path) Compare(other Path) int {
	for i := 0; i < len(p) && i < len(other); i++ {
		if c := strings.Compare(p[i].Name(), other[i].Name()); c != 0 {
			return c
		}
	}
	switch {
	case len(p) < len(other):
		return -1
	case len(p) > len(other):
		return 1
	default:
		return 0
	}
}
