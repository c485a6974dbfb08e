package filesystem_test

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/require"

	"github.com/yusefsweeney/gitcore/plumbing"
	"github.com/yusefsweeney/gitcore/plumbing/filemode"
	"github.com/yusefsweeney/gitcore/plumbing/format/index"
	"github.com/yusefsweeney/gitcore/plumbing/object"
	"github.com/yusefsweeney/gitcore/storage/filesystem"
)

func TestTreeWalkerOverCommit(t *testing.T) {
	repo, err := filesystem.NewRepository(memfs.New())
	require.NoError(t, err)

	blob, err := repo.WriteObject(plumbing.BlobObject, []byte("hi\n"))
	require.NoError(t, err)
	treePayload, err := object.EncodeTree([]object.TreeEntry{{Name: "a.txt", Mode: filemode.Regular, OID: blob}})
	require.NoError(t, err)
	treeOID, err := repo.WriteObject(plumbing.TreeObject, treePayload)
	require.NoError(t, err)

	n, err := repo.TREE(treeOID)
	require.NoError(t, err)
	children, err := n.Children()
	require.NoError(t, err)
	require.Len(t, children, 1)
	require.Equal(t, "a.txt", children[0].Name())
}

func TestStageWalkerOverIndex(t *testing.T) {
	repo, err := filesystem.NewRepository(memfs.New())
	require.NoError(t, err)

	blob, err := repo.WriteObject(plumbing.BlobObject, []byte("x"))
	require.NoError(t, err)

	idx, err := repo.Index()
	require.NoError(t, err)
	idx.Insert(&index.Entry{Name: "dir/f.txt", Mode: uint32(filemode.Regular), OID: blob})
	require.NoError(t, repo.SetIndex(idx))

	n, err := repo.STAGE()
	require.NoError(t, err)
	children, err := n.Children()
	require.NoError(t, err)
	require.Len(t, children, 1)
	require.Equal(t, "dir", children[0].Name())
	require.True(t, children[0].IsDir())
}

func TestWorkdirWalkerLazy(t *testing.T) {
	repo, err := filesystem.NewRepository(memfs.New())
	require.NoError(t, err)

	n := repo.WORKDIR()
	require.NotNil(t, n)
	require.True(t, n.IsDir())
}

func TestRepositoryMergeTreeConflict(t *testing.T) {
	repo, err := filesystem.NewRepository(memfs.New())
	require.NoError(t, err)

	baseBlob, err := repo.WriteObject(plumbing.BlobObject, []byte("one\ntwo\n"))
	require.NoError(t, err)
	oursBlob, err := repo.WriteObject(plumbing.BlobObject, []byte("one\nOURS\n"))
	require.NoError(t, err)
	theirsBlob, err := repo.WriteObject(plumbing.BlobObject, []byte("one\nTHEIRS\n"))
	require.NoError(t, err)

	writeTree := func(oid plumbing.OID) plumbing.OID {
		payload, err := object.EncodeTree([]object.TreeEntry{{Name: "f", Mode: filemode.Regular, OID: oid}})
		require.NoError(t, err)
		out, err := repo.WriteObject(plumbing.TreeObject, payload)
		require.NoError(t, err)
		return out
	}

	base := writeTree(baseBlob)
	ours := writeTree(oursBlob)
	theirs := writeTree(theirsBlob)

	idx, err := repo.Index()
	require.NoError(t, err)

	_, report, err := repo.MergeTree(filesystem.TreeMergeRequest{
		BaseOID: base, OurOID: ours, TheirOID: theirs,
		Index: idx, OurName: "ours", TheirName: "theirs",
	})
	require.NoError(t, err)
	require.True(t, report.HasConflict())
	require.Equal(t, []string{"f"}, report.BothModified)
}

func TestRepositoryMergeBlobs(t *testing.T) {
	repo, err := filesystem.NewRepository(memfs.New())
	require.NoError(t, err)

	merged, conflict, err := repo.MergeBlobs([]byte("a\n"), []byte("A\n"), []byte("a\n"), "ours", "theirs")
	require.NoError(t, err)
	require.False(t, conflict)
	require.Equal(t, "A\n", string(merged))
}
