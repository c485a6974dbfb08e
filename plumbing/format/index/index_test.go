package index_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yusefsweeney/gitcore/hash"
	"github.com/yusefsweeney/gitcore/plumbing"
	"github.com/yusefsweeney/gitcore/plumbing/format/index"
)

func oid(t *testing.T, s string) plumbing.OID {
	t.Helper()
	padded := s
	for len(padded) < 40 {
		padded += "0"
	}
	o, err := plumbing.FromHex(padded)
	require.NoError(t, err)
	return o
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	idx := index.NewIndex()
	idx.Insert(&index.Entry{
		Mode: 0o100644,
		Size: 13,
		OID:  oid(t, "aaaa"),
		Name: "README.md",
	})
	idx.Insert(&index.Entry{
		Mode: 0o100644,
		Size: 4,
		OID:  oid(t, "bbbb"),
		Name: "a/b/c/deeply/nested/file.go",
	})

	b, err := index.Encode(idx, hash.SHA1)
	require.NoError(t, err)

	got, err := index.Decode(b, hash.SHA1)
	require.NoError(t, err)

	require.Len(t, got.Entries, 2)
	e0, ok := got.Entry("README.md")
	require.True(t, ok)
	assert.Equal(t, uint32(13), e0.Size)
	assert.Equal(t, oid(t, "aaaa"), e0.OID)

	e1, ok := got.Entry("a/b/c/deeply/nested/file.go")
	require.True(t, ok)
	assert.Equal(t, uint32(4), e1.Size)
}

func TestDecodeRejectsBadSignature(t *testing.T) {
	_, err := index.Decode([]byte("NOTADIRC000000000000000000000000000000000000000000000"), hash.SHA1)
	require.Error(t, err)
}

func TestDecodeRejectsBadChecksum(t *testing.T) {
	idx := index.NewIndex()
	idx.Insert(&index.Entry{Mode: 0o100644, OID: oid(t, "cc"), Name: "x"})
	b, err := index.Encode(idx, hash.SHA1)
	require.NoError(t, err)

	b[len(b)-1] ^= 0xff
	_, err = index.Decode(b, hash.SHA1)
	assert.ErrorIs(t, err, index.ErrInvalidChecksum)
}

func TestUnmergedPathsAndStages(t *testing.T) {
	idx := index.NewIndex()
	idx.Insert(&index.Entry{Mode: 0o100644, OID: oid(t, "1"), Name: "conflict.txt", Stage: index.Base})
	idx.Insert(&index.Entry{Mode: 0o100644, OID: oid(t, "2"), Name: "conflict.txt", Stage: index.Ours})
	idx.Insert(&index.Entry{Mode: 0o100644, OID: oid(t, "3"), Name: "conflict.txt", Stage: index.Theirs})
	idx.Insert(&index.Entry{Mode: 0o100644, OID: oid(t, "4"), Name: "clean.txt"})

	assert.Equal(t, []string{"conflict.txt"}, idx.UnmergedPaths())
	assert.Len(t, idx.StageEntries("conflict.txt"), 3)
	_, resolved := idx.Entry("conflict.txt")
	assert.False(t, resolved)

	// resolving by inserting a stage-0 entry clears the conflict.
	idx.Insert(&index.Entry{Mode: 0o100644, OID: oid(t, "5"), Name: "conflict.txt"})
	assert.Empty(t, idx.UnmergedPaths())
	e, ok := idx.Entry("conflict.txt")
	require.True(t, ok)
	assert.Equal(t, oid(t, "5"), e.OID)
}

func TestDeleteRemovesSubtree(t *testing.T) {
	idx := index.NewIndex()
	idx.Insert(&index.Entry{Mode: 0o100644, OID: oid(t, "1"), Name: "dir/a"})
	idx.Insert(&index.Entry{Mode: 0o100644, OID: oid(t, "2"), Name: "dir/b"})
	idx.Insert(&index.Entry{Mode: 0o100644, OID: oid(t, "3"), Name: "dir-other"})

	idx.Delete("dir")
	assert.False(t, idx.Has("dir/a"))
	assert.False(t, idx.Has("dir/b"))
	assert.True(t, idx.Has("dir-other"))
}

func TestExtendedFlagsRoundTripOnVersion3(t *testing.T) {
	idx := index.NewIndex()
	idx.Version = 3
	idx.Insert(&index.Entry{
		Mode:         0o100644,
		OID:          oid(t, "7"),
		Name:         "wip.go",
		IntentToAdd:  true,
		SkipWorktree: true,
	})

	b, err := index.Encode(idx, hash.SHA1)
	require.NoError(t, err)

	got, err := index.Decode(b, hash.SHA1)
	require.NoError(t, err)

	e, ok := got.Entry("wip.go")
	require.True(t, ok)
	assert.True(t, e.IntentToAdd)
	assert.True(t, e.SkipWorktree)
}
