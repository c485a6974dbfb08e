// Package tree adapts a git tree object into a noder.Noder, lazily
// decoding child trees as the walker descends so that diffing two
// commits never loads more of either tree than the comparison needs.
package tree

import (
	"github.com/yusefsweeney/gitcore/internal/merkletrie/noder"
	"github.com/yusefsweeney/gitcore/plumbing"
	"github.com/yusefsweeney/gitcore/plumbing/filemode"
	"github.com/yusefsweeney/gitcore/plumbing/object"
)

// ObjectGetter is the read-only slice of an object store the tree
// noder needs: enough to fetch a tree or blob payload by OID. Any
// storage backend implementing this trivially satisfies it.
type ObjectGetter interface {
	Object(oid plumbing.OID) (plumbing.ObjectType, []byte, error)
}

// Node wraps a single tree entry (or the root tree itself). Children
// are decoded on first access, not at construction time.
type Node struct {
	getter ObjectGetter
	name   string
	mode   filemode.FileMode
	oid    plumbing.OID

	children []noder.Noder
	loaded   bool
}

// NewRootNode returns the root node for the tree object named by oid.
func NewRootNode(getter ObjectGetter, oid plumbing.OID) noder.Noder {
	return &Node{getter: getter, mode: filemode.Dir, oid: oid}
}

func (n *Node) Hash() []byte {
	return append(n.oid.Bytes(), noder.ModeBytes(uint32(n.mode))...)
}

func (n *Node) Name() string { return n.name }

func (n *Node) IsDir() bool { return n.mode == filemode.Dir }

func (n *Node) Children() ([]noder.Noder, error) {
	if err := n.load(); err != nil {
		return nil, err
	}
	return n.children, nil
}

func (n *Node) NumChildren() (int, error) {
	if err := n.load(); err != nil {
		return -1, err
	}
	return len(n.children), nil
}

func (n *Node) load() error {
	if n.loaded || !n.IsDir() {
		return nil
	}
	n.loaded = true

	typ, payload, err := n.getter.Object(n.oid)
	if err != nil {
		return err
	}
	if typ != plumbing.TreeObject {
		return &plumbing.ErrInvalidObject{Reason: "tree node: " + n.oid.String() + " is not a tree"}
	}

	t, err := object.DecodeTree(n.oid.Format(), payload)
	if err != nil {
		return err
	}

	n.children = make([]noder.Noder, 0, len(t.Entries))
	for _, e := range t.Entries {
		n.children = append(n.children, &Node{
			getter: n.getter,
			name:   e.Name,
			mode:   e.Mode,
			oid:    e.OID,
		})
	}
	return nil
}

var _ noder.Noder = (*Node)(nil)
