package merge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func apply(seq1, seq2 []string, changes []Change) []string {
	var out []string
	pos := 0
	for _, c := range changes {
		out = append(out, seq1[pos:c.P1]...)
		out = append(out, seq2[c.P2:c.P2+c.Ins]...)
		pos = c.P1 + c.Del
	}
	out = append(out, seq1[pos:]...)
	return out
}

func TestMyersDiffIdentical(t *testing.T) {
	seq := []string{"a", "b", "c"}
	changes := MyersDiff(seq, seq)
	require.Empty(t, changes)
}

func TestMyersDiffInsertOnly(t *testing.T) {
	changes := MyersDiff(nil, []string{"a", "b"})
	require.Equal(t, []Change{{Ins: 2}}, changes)
}

func TestMyersDiffDeleteOnly(t *testing.T) {
	changes := MyersDiff([]string{"a", "b"}, nil)
	require.Equal(t, []Change{{Del: 2}}, changes)
}

func TestMyersDiffReproducesTarget(t *testing.T) {
	seq1 := []string{"celery", "garlic", "onions", "salmon", "tomatoes", "wine"}
	seq2 := []string{"celery", "salmon", "garlic", "onions", "tomatoes", "wine"}

	changes := MyersDiff(seq1, seq2)
	require.Equal(t, seq2, apply(seq1, seq2, changes))
}

func TestMyersDiffSingleLineChange(t *testing.T) {
	seq1 := []string{"one\n", "two\n", "three\n"}
	seq2 := []string{"one\n", "TWO\n", "three\n"}

	changes := MyersDiff(seq1, seq2)
	require.Equal(t, seq2, apply(seq1, seq2, changes))
	require.Len(t, changes, 1)
}
