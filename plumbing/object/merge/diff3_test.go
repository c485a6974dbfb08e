package merge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiff3MergeNoConflictBothSidesAgree(t *testing.T) {
	o := []string{"a\n", "b\n", "c\n"}
	a := []string{"a\n", "x\n", "c\n"}
	b := []string{"a\n", "x\n", "c\n"}

	regions := diff3Merge(o, a, b)
	for _, r := range regions {
		require.Nil(t, r.conflict)
	}
}

func TestDiff3MergeOneSidedChange(t *testing.T) {
	o := []string{"a\n", "b\n", "c\n"}
	a := []string{"a\n", "B\n", "c\n"}
	b := []string{"a\n", "b\n", "c\n"}

	regions := diff3Merge(o, a, b)
	var merged []string
	for _, r := range regions {
		require.Nil(t, r.conflict)
		merged = append(merged, r.ok...)
	}
	require.Equal(t, a, merged)
}

func TestDiff3MergeGenuineConflict(t *testing.T) {
	o := []string{"a\n", "b\n", "c\n"}
	a := []string{"a\n", "B\n", "c\n"}
	b := []string{"a\n", "BB\n", "c\n"}

	regions := diff3Merge(o, a, b)

	var sawConflict bool
	for _, r := range regions {
		if r.conflict != nil {
			sawConflict = true
			require.Equal(t, []string{"B\n"}, r.conflict.ours)
			require.Equal(t, []string{"BB\n"}, r.conflict.theirs)
		}
	}
	require.True(t, sawConflict)
}
