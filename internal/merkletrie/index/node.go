// Package index adapts the staging area into a noder.Noder tree, so the
// walker can diff the index against a tree or a working directory the
// same way it diffs any other pair of sources.
package index

import (
	"path"
	"strings"

	"github.com/yusefsweeney/gitcore/internal/merkletrie/noder"
	gitindex "github.com/yusefsweeney/gitcore/plumbing/format/index"
)

// Node is either a real index entry or a directory inferred from the
// entries' paths. It implements noder.Noder.
type Node struct {
	path     string
	entry    *gitindex.Entry
	isDir    bool
	children []noder.Noder
}

// NewRootNode builds the whole tree implied by idx's entry paths in one
// pass and returns its root. Conflicted (non-Resolved-stage) entries are
// skipped: they have no single blob to compare against a tree or a
// working-directory file.
func NewRootNode(idx *gitindex.Index) noder.Noder {
	const rootPath = ""

	nodes := map[string]*Node{rootPath: {isDir: true}}

	for _, e := range idx.Entries {
		if e.Stage != gitindex.Resolved {
			continue
		}

		parts := strings.Split(e.Name, "/")
		var fullpath string
		for _, part := range parts {
			parent := fullpath
			fullpath = path.Join(fullpath, part)

			if _, ok := nodes[fullpath]; ok {
				continue
			}

			n := &Node{path: fullpath}
			if fullpath == e.Name {
				n.entry = e
			} else {
				n.isDir = true
			}

			nodes[fullpath] = n
			nodes[parent].children = append(nodes[parent].children, n)
		}
	}

	return nodes[rootPath]
}

// Hash concatenates the entry's blob OID with its file mode, so the
// walker detects both content and mode changes. A directory's hash is
// all zero bytes — directories are compared by recursing into their
// children, never by their own hash.
func (n *Node) Hash() []byte {
	if n.entry == nil {
		return make([]byte, 24)
	}
	return append(n.entry.OID.Bytes(), noder.ModeBytes(n.entry.Mode)...)
}

func (n *Node) Name() string { return path.Base(n.path) }

func (n *Node) IsDir() bool { return n.isDir }

func (n *Node) Children() ([]noder.Noder, error) { return n.children, nil }

func (n *Node) NumChildren() (int, error) { return len(n.children), nil }

// Entry exposes the underlying index entry, or nil for a synthesized
// directory node.
func (n *Node) Entry() *gitindex.Entry { return n.entry }

var _ noder.Noder = (*Node)(nil)
