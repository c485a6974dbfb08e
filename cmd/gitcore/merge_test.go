package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yusefsweeney/gitcore/plumbing"
	"github.com/yusefsweeney/gitcore/plumbing/filemode"
	"github.com/yusefsweeney/gitcore/plumbing/object"
)

func TestMergeTreeCleanMerge(t *testing.T) {
	repo := newMemRepo(t)

	baseBlob, err := repo.WriteObject(plumbing.BlobObject, []byte("one\ntwo\n"))
	require.NoError(t, err)
	oursBlob, err := repo.WriteObject(plumbing.BlobObject, []byte("ONE\ntwo\n"))
	require.NoError(t, err)
	theirsBlob, err := repo.WriteObject(plumbing.BlobObject, []byte("one\nTWO\n"))
	require.NoError(t, err)

	mkTree := func(oid plumbing.OID) plumbing.OID {
		payload, err := object.EncodeTree([]object.TreeEntry{{Name: "f", Mode: filemode.Regular, OID: oid}})
		require.NoError(t, err)
		out, err := repo.WriteObject(plumbing.TreeObject, payload)
		require.NoError(t, err)
		return out
	}

	base := mkTree(baseBlob)
	ours := mkTree(oursBlob)
	theirs := mkTree(theirsBlob)

	var buf bytes.Buffer
	require.NoError(t, mergeTree(&buf, repo, base.String(), ours.String(), theirs.String()))
	require.Contains(t, buf.String(), "merged tree")
	require.NotContains(t, buf.String(), "conflicts")
}

func TestMergeTreeConflictStagesAndReports(t *testing.T) {
	repo := newMemRepo(t)

	baseBlob, err := repo.WriteObject(plumbing.BlobObject, []byte("one\ntwo\n"))
	require.NoError(t, err)
	oursBlob, err := repo.WriteObject(plumbing.BlobObject, []byte("one\nOURS\n"))
	require.NoError(t, err)
	theirsBlob, err := repo.WriteObject(plumbing.BlobObject, []byte("one\nTHEIRS\n"))
	require.NoError(t, err)

	mkTree := func(oid plumbing.OID) plumbing.OID {
		payload, err := object.EncodeTree([]object.TreeEntry{{Name: "f", Mode: filemode.Regular, OID: oid}})
		require.NoError(t, err)
		out, err := repo.WriteObject(plumbing.TreeObject, payload)
		require.NoError(t, err)
		return out
	}

	base := mkTree(baseBlob)
	ours := mkTree(oursBlob)
	theirs := mkTree(theirsBlob)

	var buf bytes.Buffer
	require.NoError(t, mergeTree(&buf, repo, base.String(), ours.String(), theirs.String()))
	require.Contains(t, buf.String(), "both modified")
	require.Contains(t, buf.String(), "conflicts staged")

	idx, err := repo.Index()
	require.NoError(t, err)
	require.Len(t, idx.StageEntries("f"), 3)
}
