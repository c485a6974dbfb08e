package dotgit_test

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/require"

	"github.com/yusefsweeney/gitcore/hash"
	"github.com/yusefsweeney/gitcore/plumbing"
	"github.com/yusefsweeney/gitcore/storage/filesystem/dotgit"
)

func oidForRefs(t *testing.T, s string) plumbing.OID {
	t.Helper()
	for len(s) < 40 {
		s += "0"
	}
	o, err := plumbing.FromHex(s)
	require.NoError(t, err)
	return o
}

func TestSetRefAndLookup(t *testing.T) {
	d := dotgit.New(memfs.New(), hash.SHA1)

	foo := plumbing.NewHashReference(plumbing.NewBranchReferenceName("foo"), oidForRefs(t, "aaaa"))
	require.NoError(t, d.SetRef(foo, nil))

	head := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("foo"))
	require.NoError(t, d.SetRef(head, nil))

	got, err := d.Ref(plumbing.NewBranchReferenceName("foo"))
	require.NoError(t, err)
	require.Equal(t, plumbing.HashReference, got.Type())
	require.True(t, got.OID().Equal(foo.OID()))

	gotHead, err := d.Ref(plumbing.HEAD)
	require.NoError(t, err)
	require.Equal(t, plumbing.SymbolicReference, gotHead.Type())
	require.Equal(t, plumbing.NewBranchReferenceName("foo"), gotHead.Target())
}

func TestSetRefCASRejectsStaleOld(t *testing.T) {
	d := dotgit.New(memfs.New(), hash.SHA1)

	name := plumbing.NewBranchReferenceName("main")
	first := plumbing.NewHashReference(name, oidForRefs(t, "aaaa"))
	require.NoError(t, d.SetRef(first, nil))

	staleOld := plumbing.NewHashReference(name, oidForRefs(t, "bbbb"))
	next := plumbing.NewHashReference(name, oidForRefs(t, "cccc"))
	err := d.SetRef(next, staleOld)
	require.ErrorIs(t, err, dotgit.ErrReferenceHasChanged)

	correctOld := plumbing.NewHashReference(name, oidForRefs(t, "aaaa"))
	require.NoError(t, d.SetRef(next, correctOld))

	got, err := d.Ref(name)
	require.NoError(t, err)
	require.True(t, got.OID().Equal(next.OID()))
}

func TestRefsListsLooseAndHEAD(t *testing.T) {
	d := dotgit.New(memfs.New(), hash.SHA1)

	require.NoError(t, d.SetRef(plumbing.NewHashReference(
		plumbing.NewBranchReferenceName("main"), oidForRefs(t, "aaaa")), nil))
	require.NoError(t, d.SetRef(plumbing.NewHashReference(
		plumbing.NewTagReferenceName("v1"), oidForRefs(t, "bbbb")), nil))
	require.NoError(t, d.SetRef(plumbing.NewSymbolicReference(
		plumbing.HEAD, plumbing.NewBranchReferenceName("main")), nil))

	refs, err := d.Refs()
	require.NoError(t, err)
	require.Len(t, refs, 3)
}

func TestRemoveRef(t *testing.T) {
	d := dotgit.New(memfs.New(), hash.SHA1)

	name := plumbing.NewBranchReferenceName("gone")
	require.NoError(t, d.SetRef(plumbing.NewHashReference(name, oidForRefs(t, "aaaa")), nil))

	require.NoError(t, d.RemoveRef(name))

	_, err := d.Ref(name)
	require.Error(t, err)
}
