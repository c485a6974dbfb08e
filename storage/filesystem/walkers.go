package filesystem

import (
	billy "github.com/go-git/go-billy/v5"

	"github.com/yusefsweeney/gitcore/internal/merkletrie/noder"
	"github.com/yusefsweeney/gitcore/plumbing"
	"github.com/yusefsweeney/gitcore/plumbing/format/index"
	"github.com/yusefsweeney/gitcore/plumbing/object"
	"github.com/yusefsweeney/gitcore/plumbing/object/merge"

	mtindex "github.com/yusefsweeney/gitcore/internal/merkletrie/index"
	mtfs "github.com/yusefsweeney/gitcore/internal/merkletrie/filesystem"
	mttree "github.com/yusefsweeney/gitcore/internal/merkletrie/tree"
)

// TREE builds a merkletrie walker rooted at the tree named oid points
// at — oid may name a tree directly, or a commit, in which case its
// tree is used.
func (r *Repository) TREE(oid plumbing.OID) (noder.Noder, error) {
	treeOID, err := r.resolveTreeOID(oid)
	if err != nil {
		return nil, err
	}
	return mttree.NewRootNode(&r.ObjectStorage, treeOID), nil
}

// WORKDIR builds a merkletrie walker rooted at the repository's working
// tree.
func (r *Repository) WORKDIR() noder.Noder {
	return mtfs.NewRootNode(r.fs, r.format)
}

// STAGE builds a merkletrie walker rooted at the current index.
func (r *Repository) STAGE() (noder.Noder, error) {
	idx, err := r.Index()
	if err != nil {
		return nil, err
	}
	return mtindex.NewRootNode(idx), nil
}

// resolveTreeOID follows a commit to its tree, or passes a tree OID
// through unchanged.
func (r *Repository) resolveTreeOID(oid plumbing.OID) (plumbing.OID, error) {
	if oid.IsZero() || oid.Equal(plumbing.EmptyTreeOID) {
		return oid, nil
	}

	typ, payload, err := r.Object(oid)
	if err != nil {
		return plumbing.OID{}, err
	}
	switch typ {
	case plumbing.TreeObject:
		return oid, nil
	case plumbing.CommitObject:
		c, err := object.DecodeCommit(payload)
		if err != nil {
			return plumbing.OID{}, err
		}
		return c.Tree, nil
	default:
		return plumbing.OID{}, &plumbing.ErrWrongType{Want: "tree or commit", Got: typ.String()}
	}
}

// MergeBlobs runs the diff3 blob merge over three blob contents.
func (r *Repository) MergeBlobs(base, ours, theirs []byte, ourName, theirName string) (content []byte, hasConflict bool, err error) {
	return merge.MergeBlobs(base, ours, theirs, ourName, theirName)
}

// TreeMergeRequest configures MergeTree; OurOID/BaseOID/TheirOID name
// commits or trees (resolved via resolveTreeOID).
type TreeMergeRequest struct {
	BaseOID, OurOID, TheirOID plumbing.OID
	Index                     *index.Index
	Worktree                  billy.Filesystem
	OurName, TheirName        string
	AbortOnConflict           bool
}

// MergeTree runs the recursive three-way tree merge over the commits or
// trees named in req, writing the merged tree into this repository's
// object store and, when req.Index is set, staging any conflicts.
func (r *Repository) MergeTree(req TreeMergeRequest) (plumbing.OID, *merge.ConflictReport, error) {
	base, err := r.resolveTreeOID(req.BaseOID)
	if err != nil {
		return plumbing.OID{}, nil, err
	}
	ours, err := r.resolveTreeOID(req.OurOID)
	if err != nil {
		return plumbing.OID{}, nil, err
	}
	theirs, err := r.resolveTreeOID(req.TheirOID)
	if err != nil {
		return plumbing.OID{}, nil, err
	}

	return merge.MergeTree(merge.TreeMergeOptions{
		Store:           &r.ObjectStorage,
		Base:            base,
		Ours:            ours,
		Theirs:          theirs,
		Index:           req.Index,
		Worktree:        req.Worktree,
		OurName:         req.OurName,
		TheirName:       req.TheirName,
		AbortOnConflict: req.AbortOnConflict,
	})
}
