package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yusefsweeney/gitcore/plumbing"
	"github.com/yusefsweeney/gitcore/plumbing/filemode"
	"github.com/yusefsweeney/gitcore/plumbing/object"
)

func TestLsTreeListsEntries(t *testing.T) {
	repo := newMemRepo(t)

	blob, err := repo.WriteObject(plumbing.BlobObject, []byte("hi\n"))
	require.NoError(t, err)

	payload, err := object.EncodeTree([]object.TreeEntry{{Name: "a.txt", Mode: filemode.Regular, OID: blob}})
	require.NoError(t, err)
	treeOID, err := repo.WriteObject(plumbing.TreeObject, payload)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, lsTree(&buf, repo, treeOID.String()))
	require.Contains(t, buf.String(), "a.txt")
	require.Contains(t, buf.String(), blob.String())
}

func TestLsTreeFollowsCommitToTree(t *testing.T) {
	repo := newMemRepo(t)

	blob, err := repo.WriteObject(plumbing.BlobObject, []byte("hi\n"))
	require.NoError(t, err)
	payload, err := object.EncodeTree([]object.TreeEntry{{Name: "a.txt", Mode: filemode.Regular, OID: blob}})
	require.NoError(t, err)
	treeOID, err := repo.WriteObject(plumbing.TreeObject, payload)
	require.NoError(t, err)

	commit := &object.Commit{Tree: treeOID, Message: "initial\n"}
	commitOID, err := repo.WriteObject(plumbing.CommitObject, commit.Encode())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, lsTree(&buf, repo, commitOID.String()))
	require.Contains(t, buf.String(), "a.txt")
}
