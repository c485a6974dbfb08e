package filesystem_test

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/require"

	"github.com/yusefsweeney/gitcore/hash"
	"github.com/yusefsweeney/gitcore/plumbing"
	"github.com/yusefsweeney/gitcore/plumbing/format/index"
	"github.com/yusefsweeney/gitcore/storage/filesystem"
)

func TestInitWritesConfigAndSkeleton(t *testing.T) {
	fs := memfs.New()
	repo, err := filesystem.NewRepository(fs)
	require.NoError(t, err)
	require.NoError(t, repo.Init(hash.SHA1))

	cfg, err := repo.Config()
	require.NoError(t, err)
	require.False(t, cfg.Core.Bare)

	_, err = fs.Stat(fs.Join("refs", "heads"))
	require.NoError(t, err)
}

func TestWriteObjectRoundTrip(t *testing.T) {
	repo, err := filesystem.NewRepository(memfs.New())
	require.NoError(t, err)

	oid, err := repo.WriteObject(plumbing.BlobObject, []byte("hello world"))
	require.NoError(t, err)
	require.True(t, repo.HasObject(oid))

	typ, payload, err := repo.Object(oid)
	require.NoError(t, err)
	require.Equal(t, plumbing.BlobObject, typ)
	require.Equal(t, []byte("hello world"), payload)
}

func TestWriteObjectIsIdempotent(t *testing.T) {
	repo, err := filesystem.NewRepository(memfs.New())
	require.NoError(t, err)

	oid1, err := repo.WriteObject(plumbing.BlobObject, []byte("same"))
	require.NoError(t, err)
	oid2, err := repo.WriteObject(plumbing.BlobObject, []byte("same"))
	require.NoError(t, err)
	require.True(t, oid1.Equal(oid2))
}

func TestIndexRoundTrip(t *testing.T) {
	repo, err := filesystem.NewRepository(memfs.New())
	require.NoError(t, err)

	idx, err := repo.Index()
	require.NoError(t, err)
	require.Equal(t, uint32(2), idx.Version)

	oid, err := repo.WriteObject(plumbing.BlobObject, []byte("x"))
	require.NoError(t, err)
	idx.Insert(&index.Entry{Mode: 0o100644, Size: 1, OID: oid, Name: "a.txt"})
	require.NoError(t, repo.SetIndex(idx))

	reloaded, err := repo.Index()
	require.NoError(t, err)
	require.True(t, reloaded.Has("a.txt"))
}

func TestReferenceSetAndResolve(t *testing.T) {
	repo, err := filesystem.NewRepository(memfs.New())
	require.NoError(t, err)

	oid, err := repo.WriteObject(plumbing.BlobObject, []byte("x"))
	require.NoError(t, err)

	branch := plumbing.NewBranchReferenceName("main")
	require.NoError(t, repo.SetReference(plumbing.NewHashReference(branch, oid), nil))
	require.NoError(t, repo.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, branch), nil))

	resolved, err := repo.ResolveReference(plumbing.HEAD)
	require.NoError(t, err)
	require.Equal(t, plumbing.HashReference, resolved.Type())
	require.True(t, resolved.OID().Equal(oid))
}
