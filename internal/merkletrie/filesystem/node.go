// Package filesystem adapts a billy.Filesystem working tree into a
// noder.Noder, so the walker can diff it against a commit's tree or
// against the index exactly as it would diff any other pair of
// sources.
package filesystem

import (
	"io"
	"os"
	"path"

	billy "github.com/go-git/go-billy/v5"

	"github.com/yusefsweeney/gitcore/hash"
	"github.com/yusefsweeney/gitcore/internal/merkletrie/noder"
	"github.com/yusefsweeney/gitcore/plumbing"
	"github.com/yusefsweeney/gitcore/plumbing/filemode"
	"github.com/yusefsweeney/gitcore/plumbing/format/objfile"
)

// ignore lists entries the walker never descends into: the repository's
// own metadata directory isn't part of the tracked working tree.
var ignore = map[string]bool{".git": true}

// Node is a file or directory rooted at a billy.Filesystem path. Its
// hash and children are computed lazily and cached on first access —
// cheap for a walk that skips unchanged subtrees via Iter.Next.
type Node struct {
	fs     billy.Filesystem
	format hash.Format
	path   string

	isDir   bool
	mode    os.FileMode
	size    int64
	hash    []byte
	loaded  bool
	scanned bool
	kids    []noder.Noder
}

// NewRootNode returns the root node for fs's tree, hashed using format.
func NewRootNode(fs billy.Filesystem, format hash.Format) noder.Noder {
	return &Node{fs: fs, format: format, isDir: true}
}

// Hash is the git blob hash of the file's contents concatenated with
// its mode, or all-zero bytes for a directory — directories are never
// compared by hash, only by recursing into their children.
func (n *Node) Hash() []byte {
	if !n.loaded {
		n.calculateHash()
	}
	return n.hash
}

func (n *Node) Name() string { return path.Base(n.path) }

func (n *Node) IsDir() bool { return n.isDir }

func (n *Node) Children() ([]noder.Noder, error) {
	if err := n.scan(); err != nil {
		return nil, err
	}
	return n.kids, nil
}

func (n *Node) NumChildren() (int, error) {
	if err := n.scan(); err != nil {
		return -1, err
	}
	return len(n.kids), nil
}

func (n *Node) scan() error {
	if !n.isDir || n.scanned {
		return nil
	}
	n.scanned = true

	entries, err := n.fs.ReadDir(n.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, fi := range entries {
		if ignore[fi.Name()] {
			continue
		}
		n.kids = append(n.kids, &Node{
			fs:     n.fs,
			format: n.format,
			path:   path.Join(n.path, fi.Name()),
			isDir:  fi.IsDir(),
			mode:   fi.Mode(),
			size:   fi.Size(),
		})
	}
	return nil
}

func (n *Node) calculateHash() {
	n.loaded = true
	if n.isDir {
		n.hash = make([]byte, 24)
		return
	}

	mode, err := filemode.NewFromOSFileMode(n.mode)
	if err != nil {
		n.hash = append(plumbing.ZeroOID.Bytes(), noder.ModeBytes(0)...)
		return
	}

	var content []byte
	if n.mode&os.ModeSymlink != 0 {
		target, err := n.fs.Readlink(n.path)
		if err == nil {
			content = []byte(target)
		}
	} else {
		content, _ = readFile(n.fs, n.path)
	}

	oid := objfile.Hash(n.format, plumbing.BlobObject, content)
	n.hash = append(oid.Bytes(), noder.ModeBytes(uint32(mode))...)
}

func readFile(fs billy.Filesystem, name string) ([]byte, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

var _ noder.Noder = (*Node)(nil)
