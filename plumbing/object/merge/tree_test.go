package merge

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/require"

	"github.com/yusefsweeney/gitcore/hash"
	"github.com/yusefsweeney/gitcore/plumbing"
	"github.com/yusefsweeney/gitcore/plumbing/filemode"
	"github.com/yusefsweeney/gitcore/plumbing/format/index"
	"github.com/yusefsweeney/gitcore/plumbing/format/objfile"
	"github.com/yusefsweeney/gitcore/plumbing/object"
)

// fakeStore is a minimal in-memory Store: enough for the merge engine to
// exercise real tree/blob encoding without a real on-disk repository.
type fakeStore struct {
	objects map[plumbing.OID]struct {
		typ     plumbing.ObjectType
		payload []byte
	}
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[plumbing.OID]struct {
		typ     plumbing.ObjectType
		payload []byte
	})}
}

func (s *fakeStore) Object(oid plumbing.OID) (plumbing.ObjectType, []byte, error) {
	o, ok := s.objects[oid]
	if !ok {
		return plumbing.InvalidObject, nil, &plumbing.ErrNotFound{What: "object", Key: oid.String()}
	}
	return o.typ, o.payload, nil
}

func (s *fakeStore) WriteObject(t plumbing.ObjectType, payload []byte) (plumbing.OID, error) {
	oid := objfile.Hash(hash.SHA1, t, payload)
	s.objects[oid] = struct {
		typ     plumbing.ObjectType
		payload []byte
	}{t, payload}
	return oid, nil
}

func (s *fakeStore) blob(content string) plumbing.OID {
	oid, err := s.WriteObject(plumbing.BlobObject, []byte(content))
	if err != nil {
		panic(err)
	}
	return oid
}

func (s *fakeStore) tree(entries ...object.TreeEntry) plumbing.OID {
	payload, err := object.EncodeTree(entries)
	if err != nil {
		panic(err)
	}
	oid, err := s.WriteObject(plumbing.TreeObject, payload)
	if err != nil {
		panic(err)
	}
	return oid
}

func TestMergeTreeBothUnchangedEmitsBase(t *testing.T) {
	s := newFakeStore()
	readme := s.blob("hello\n")
	base := s.tree(object.TreeEntry{Name: "README", Mode: filemode.Regular, OID: readme})

	oid, report, err := MergeTree(TreeMergeOptions{Store: s, Base: base, Ours: base, Theirs: base})
	require.NoError(t, err)
	require.False(t, report.HasConflict())
	require.Equal(t, base, oid)
}

func TestMergeTreeOnlyOneSideChanged(t *testing.T) {
	s := newFakeStore()
	v1 := s.blob("v1\n")
	v2 := s.blob("v2\n")
	base := s.tree(object.TreeEntry{Name: "f", Mode: filemode.Regular, OID: v1})
	ours := s.tree(object.TreeEntry{Name: "f", Mode: filemode.Regular, OID: v2})

	oid, report, err := MergeTree(TreeMergeOptions{Store: s, Base: base, Ours: ours, Theirs: base})
	require.NoError(t, err)
	require.False(t, report.HasConflict())

	_, payload, err := s.Object(oid)
	require.NoError(t, err)
	merged, err := object.DecodeTree(hash.SHA1, payload)
	require.NoError(t, err)
	e, ok := merged.Find("f")
	require.True(t, ok)
	require.Equal(t, v2, e.OID)
}

func TestMergeTreeBlobConflictOmitsFromTreeAndStages(t *testing.T) {
	s := newFakeStore()
	baseBlob := s.blob("one\ntwo\nthree\n")
	oursBlob := s.blob("one\nOURS\nthree\n")
	theirsBlob := s.blob("one\nTHEIRS\nthree\n")

	base := s.tree(object.TreeEntry{Name: "f", Mode: filemode.Regular, OID: baseBlob})
	ours := s.tree(object.TreeEntry{Name: "f", Mode: filemode.Regular, OID: oursBlob})
	theirs := s.tree(object.TreeEntry{Name: "f", Mode: filemode.Regular, OID: theirsBlob})

	idx := index.NewIndex()
	wt := memfs.New()

	oid, report, err := MergeTree(TreeMergeOptions{
		Store: s, Base: base, Ours: ours, Theirs: theirs,
		Index: idx, Worktree: wt,
		OurName: "ours", TheirName: "theirs",
	})
	require.NoError(t, err)
	require.True(t, report.HasConflict())
	require.Equal(t, []string{"f"}, report.BothModified)

	_, payload, err := s.Object(oid)
	require.NoError(t, err)
	merged, err := object.DecodeTree(hash.SHA1, payload)
	require.NoError(t, err)
	_, ok := merged.Find("f")
	require.False(t, ok)

	stages := idx.StageEntries("f")
	require.Len(t, stages, 3)

	f, err := wt.Open("f")
	require.NoError(t, err)
	defer f.Close()
}

func TestMergeTreeDeletedByUsModifiedByThemConflicts(t *testing.T) {
	s := newFakeStore()
	baseBlob := s.blob("one\n")
	theirsBlob := s.blob("two\n")

	base := s.tree(object.TreeEntry{Name: "f", Mode: filemode.Regular, OID: baseBlob})
	ours := s.tree()
	theirs := s.tree(object.TreeEntry{Name: "f", Mode: filemode.Regular, OID: theirsBlob})

	_, report, err := MergeTree(TreeMergeOptions{Store: s, Base: base, Ours: ours, Theirs: theirs})
	require.NoError(t, err)
	require.Equal(t, []string{"f"}, report.DeleteByUs)
}

func TestMergeTreeBothDeletedSamePathIsSilent(t *testing.T) {
	s := newFakeStore()
	baseBlob := s.blob("one\n")
	base := s.tree(object.TreeEntry{Name: "f", Mode: filemode.Regular, OID: baseBlob})
	empty := s.tree()

	oid, report, err := MergeTree(TreeMergeOptions{Store: s, Base: base, Ours: empty, Theirs: empty})
	require.NoError(t, err)
	require.False(t, report.HasConflict())
	require.Equal(t, empty, oid)
}

func TestMergeTreeAbortOnConflictReturnsError(t *testing.T) {
	s := newFakeStore()
	baseBlob := s.blob("one\ntwo\n")
	oursBlob := s.blob("one\nOURS\n")
	theirsBlob := s.blob("one\nTHEIRS\n")

	base := s.tree(object.TreeEntry{Name: "f", Mode: filemode.Regular, OID: baseBlob})
	ours := s.tree(object.TreeEntry{Name: "f", Mode: filemode.Regular, OID: oursBlob})
	theirs := s.tree(object.TreeEntry{Name: "f", Mode: filemode.Regular, OID: theirsBlob})

	_, _, err := MergeTree(TreeMergeOptions{Store: s, Base: base, Ours: ours, Theirs: theirs, AbortOnConflict: true})
	require.Error(t, err)

	var conflictErr *plumbing.ErrMergeConflict
	require.ErrorAs(t, err, &conflictErr)
	require.True(t, conflictErr.HasConflict())
}

func TestMergeTreeRecursesIntoSubtrees(t *testing.T) {
	s := newFakeStore()
	v1 := s.blob("v1\n")
	v2 := s.blob("v2\n")
	baseSub := s.tree(object.TreeEntry{Name: "f", Mode: filemode.Regular, OID: v1})
	oursSub := s.tree(object.TreeEntry{Name: "f", Mode: filemode.Regular, OID: v2})

	base := s.tree(object.TreeEntry{Name: "dir", Mode: filemode.Dir, OID: baseSub})
	ours := s.tree(object.TreeEntry{Name: "dir", Mode: filemode.Dir, OID: oursSub})

	oid, report, err := MergeTree(TreeMergeOptions{Store: s, Base: base, Ours: ours, Theirs: base})
	require.NoError(t, err)
	require.False(t, report.HasConflict())
	require.NotEqual(t, base, oid)
}
