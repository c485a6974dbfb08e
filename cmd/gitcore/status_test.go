package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yusefsweeney/gitcore/plumbing"
	"github.com/yusefsweeney/gitcore/plumbing/filemode"
	"github.com/yusefsweeney/gitcore/plumbing/format/index"
)

func TestStatusCleanEmptyRepo(t *testing.T) {
	repo := newMemRepo(t)

	var buf bytes.Buffer
	require.NoError(t, status(&buf, repo))
	require.Equal(t, "nothing to commit, working tree clean\n", buf.String())
}

func TestStatusReportsStagedInsert(t *testing.T) {
	repo := newMemRepo(t)

	blob, err := repo.WriteObject(plumbing.BlobObject, []byte("hi\n"))
	require.NoError(t, err)

	idx, err := repo.Index()
	require.NoError(t, err)
	idx.Entries = append(idx.Entries, &index.Entry{Name: "a.txt", Mode: uint32(filemode.Regular), OID: blob})
	require.NoError(t, repo.SetIndex(idx))

	var buf bytes.Buffer
	require.NoError(t, status(&buf, repo))
	require.Contains(t, buf.String(), "Changes to be committed:")
	require.Contains(t, buf.String(), "a.txt")
}
