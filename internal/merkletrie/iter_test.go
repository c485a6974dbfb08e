package merkletrie

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yusefsweeney/gitcore/internal/merkletrie/noder"
)

type mockNoder struct {
	name     string
	isDir    bool
	hash     []byte
	children []noder.Noder
}

func (n *mockNoder) Hash() []byte { return n.hash }
func (n *mockNoder) Name() string { return n.name }
func (n *mockNoder) IsDir() bool  { return n.isDir }
func (n *mockNoder) Children() ([]noder.Noder, error) {
	return n.children, nil
}
func (n *mockNoder) NumChildren() (int, error) { return len(n.children), nil }

func dir(name string, children ...noder.Noder) *mockNoder {
	return &mockNoder{name: name, isDir: true, children: children}
}

func file(name string) *mockNoder {
	return &mockNoder{name: name}
}

func names(t *testing.T, p noder.Path) string {
	t.Helper()
	return p.String()
}

func TestIterEmptyDir(t *testing.T) {
	it := NewIter(dir(""))
	_, err := it.Next()
	require.Equal(t, io.EOF, err)
}

func TestIterOneFile(t *testing.T) {
	it := NewIter(dir("", file("a")))
	p, err := it.Next()
	require.NoError(t, err)
	require.Equal(t, "a", names(t, p))
	_, err = it.Next()
	require.Equal(t, io.EOF, err)
}

func TestIterThreeSiblingsSorted(t *testing.T) {
	it := NewIter(dir("", file("c"), file("a"), file("b")))
	var got []string
	for {
		p, err := it.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, names(t, p))
	}
	require.Equal(t, []string{"a", "b", "c"}, got)
}

// TestDirWithFile mirrors the "a" containing "b" case: Next never
// descends into a returned directory, Step does.
func TestDirWithFileNextDoesNotDescend(t *testing.T) {
	it := NewIter(dir("", dir("a", file("b"))))
	p, err := it.Next()
	require.NoError(t, err)
	require.Equal(t, "a", names(t, p))

	_, err = it.Next()
	require.Equal(t, io.EOF, err)
}

func TestDirWithFileStepDescends(t *testing.T) {
	it := NewIter(dir("", dir("a", file("b"))))
	p, err := it.Next()
	require.NoError(t, err)
	require.Equal(t, "a", names(t, p))

	p, err = it.Step()
	require.NoError(t, err)
	require.Equal(t, "a/b", names(t, p))

	_, err = it.Next()
	require.Equal(t, io.EOF, err)
}

func TestStepOnLeafBehavesLikeNext(t *testing.T) {
	it := NewIter(dir("", dir("a", file("b")), file("c")))
	p, err := it.Step()
	require.NoError(t, err)
	require.Equal(t, "a", names(t, p))

	p, err = it.Step()
	require.NoError(t, err)
	require.Equal(t, "a/b", names(t, p))

	// "a/b" is a leaf: Step behaves like Next, moving to a's sibling "c".
	p, err = it.Step()
	require.NoError(t, err)
	require.Equal(t, "c", names(t, p))
}

func TestPathsAreIndependentlyOwned(t *testing.T) {
	it := NewIter(dir("", file("a"), file("b")))
	first, err := it.Next()
	require.NoError(t, err)
	firstCopy := append(noder.Path{}, first...)

	_, err = it.Next()
	require.NoError(t, err)

	require.Equal(t, firstCopy, first)
}
