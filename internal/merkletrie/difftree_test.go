package merkletrie

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiffTreeInsert(t *testing.T) {
	from := dir("")
	to := dir("", file("a"))

	changes, err := DiffTree(from, to, ByteHashEqual)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	action, err := (&changes[0]).Action()
	require.NoError(t, err)
	require.Equal(t, Insert, action)
	require.Equal(t, "a", changes[0].To.String())
}

func TestDiffTreeDelete(t *testing.T) {
	from := dir("", file("a"))
	to := dir("")

	changes, err := DiffTree(from, to, ByteHashEqual)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	action, err := (&changes[0]).Action()
	require.NoError(t, err)
	require.Equal(t, Delete, action)
}

func TestDiffTreeModify(t *testing.T) {
	a := &mockNoder{name: "a", hash: []byte{1}}
	b := &mockNoder{name: "a", hash: []byte{2}}
	from := dir("", a)
	to := dir("", b)

	changes, err := DiffTree(from, to, ByteHashEqual)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	action, err := (&changes[0]).Action()
	require.NoError(t, err)
	require.Equal(t, Modify, action)
}

func TestDiffTreeUnchangedDirSkipsDescend(t *testing.T) {
	same := []byte{9, 9, 9}
	sub := &mockNoder{name: "sub", isDir: true, hash: same}
	from := dir("", sub)
	to := dir("", sub)

	changes, err := DiffTree(from, to, ByteHashEqual)
	require.NoError(t, err)
	require.Empty(t, changes)
}

func TestDiffTreeNoChange(t *testing.T) {
	from := dir("", file("a"))
	to := dir("", file("a"))

	changes, err := DiffTree(from, to, ByteHashEqual)
	require.NoError(t, err)
	require.Empty(t, changes)
}
