package object

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yusefsweeney/gitcore/hash"
	"github.com/yusefsweeney/gitcore/plumbing"
	"github.com/yusefsweeney/gitcore/plumbing/filemode"
)

// TreeEntry is one (mode, name, oid) row of a tree object.
type TreeEntry struct {
	Name string
	Mode filemode.FileMode
	OID  plumbing.OID
}

// Type reports the object kind this entry points at.
func (e TreeEntry) Type() plumbing.ObjectType {
	switch e.Mode {
	case filemode.Dir:
		return plumbing.TreeObject
	case filemode.Submodule:
		return plumbing.CommitObject
	default:
		return plumbing.BlobObject
	}
}

// Tree is the decoded form of a tree object: an ordered list of entries.
type Tree struct {
	Entries []TreeEntry
}

var (
	// ErrDuplicateEntryName is returned when two tree entries share a name.
	ErrDuplicateEntryName = errors.New("object/tree: duplicate entry name")
	// ErrEntryNameUnsafe is returned for a name containing '/' or '\\' or
	// a ".." path-traversal segment.
	ErrEntryNameUnsafe = errors.New("object/tree: unsafe entry name")
)

// sortKey is the name used for tree-entry ordering: directory names are
// compared as if suffixed with "/", per git's tree sort order.
func sortKey(e TreeEntry) string {
	if e.Mode == filemode.Dir {
		return e.Name + "/"
	}
	return e.Name
}

// CompareEntries implements git's tree-entry name ordering.
func CompareEntries(a, b TreeEntry) int {
	return strings.Compare(sortKey(a), sortKey(b))
}

// Sort orders entries in place using git's tree comparison.
func (t *Tree) Sort() {
	sort.Slice(t.Entries, func(i, j int) bool {
		return CompareEntries(t.Entries[i], t.Entries[j]) < 0
	})
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrEntryNameUnsafe, name)
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("%w: %q", ErrEntryNameUnsafe, name)
	}
	return nil
}

// DecodeTree parses the canonical tree object payload:
// ("<mode> <name>\0<oid-bytes>")*
func DecodeTree(f hash.Format, payload []byte) (*Tree, error) {
	t := &Tree{}
	r := bufio.NewReader(bytes.NewReader(payload))
	oidLen := f.Size()

	for {
		modeStr, err := r.ReadString(' ')
		if err != nil {
			break
		}
		modeStr = strings.TrimSuffix(modeStr, " ")

		mode, err := filemode.New(modeStr)
		if err != nil {
			return nil, &plumbing.ErrInvalidObject{Reason: err.Error()}
		}

		name, err := r.ReadString(0)
		if err != nil {
			return nil, &plumbing.ErrInvalidObject{Reason: "tree: truncated entry name"}
		}
		name = strings.TrimSuffix(name, "\x00")

		if err := validateName(name); err != nil {
			return nil, err
		}

		raw := make([]byte, oidLen)
		if _, err := readFull(r, raw); err != nil {
			return nil, &plumbing.ErrInvalidObject{Reason: "tree: truncated entry oid"}
		}

		t.Entries = append(t.Entries, TreeEntry{
			Name: name,
			Mode: mode,
			OID:  plumbing.FromBytes(f, raw),
		})
	}

	seen := make(map[string]struct{}, len(t.Entries))
	for _, e := range t.Entries {
		if _, ok := seen[e.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateEntryName, e.Name)
		}
		seen[e.Name] = struct{}{}
	}

	return t, nil
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// EncodeTree serializes entries in git's tree sort order, validating names.
func EncodeTree(entries []TreeEntry) ([]byte, error) {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return CompareEntries(sorted[i], sorted[j]) < 0 })

	seen := make(map[string]struct{}, len(sorted))
	var buf bytes.Buffer
	for _, e := range sorted {
		if err := validateName(e.Name); err != nil {
			return nil, err
		}
		if _, ok := seen[e.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateEntryName, e.Name)
		}
		seen[e.Name] = struct{}{}

		buf.WriteString(e.Mode.String())
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(e.OID.Bytes())
	}
	return buf.Bytes(), nil
}

// Find returns the entry with the given name, if any.
func (t *Tree) Find(name string) (TreeEntry, bool) {
	for _, e := range t.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return TreeEntry{}, false
}
