// Package index implements the binary staging-area format: the DIRC file
// git keeps at <gitdir>/index, versions 2 and 3, including multi-stage
// (conflicted) entries.
package index

import (
	"sort"
	"strings"

	"github.com/yusefsweeney/gitcore/hash"
	"github.com/yusefsweeney/gitcore/plumbing"
)

// Stage identifies which side of a conflict an entry represents.
type Stage uint8

const (
	// Resolved is the normal, non-conflicted stage.
	Resolved Stage = 0
	// Base is "ours ∩ theirs" common ancestor stage (a.k.a. stage 1).
	Base Stage = 1
	// Ours is the "our side" stage (a.k.a. stage 2).
	Ours Stage = 2
	// Theirs is the "their side" stage (a.k.a. stage 3).
	Theirs Stage = 3
)

// Entry is one index row: stat metadata, the blob OID, and flags.
type Entry struct {
	CreatedAtSec   uint32
	CreatedAtNSec  uint32
	ModifiedAtSec  uint32
	ModifiedAtNSec uint32
	Dev            uint32
	Inode          uint32
	Mode           uint32
	UID            uint32
	GID            uint32
	Size           uint32
	OID            plumbing.OID

	Stage        Stage
	AssumeValid  bool
	IntentToAdd  bool
	SkipWorktree bool

	Name string
}

// Index is the parsed form of the staging-area file.
type Index struct {
	Version uint32
	Entries []*Entry

	// extensions holds any extension chunks encountered at parse time,
	// verbatim; the field is unexported and nothing outside this package
	// reads it. They are never reproduced by Encode — cache-tree/resolve-undo state is
	// treated as disposable, rebuilt by whatever wrote it in the first
	// place rather than carried through this package.
	extensions []rawExtension
}

type rawExtension struct {
	signature [4]byte
	data      []byte
}

// NewIndex returns an empty version-2 index.
func NewIndex() *Index {
	return &Index{Version: 2}
}

// Format returns the hash format implied by the index's entries, or the
// given default if the index has no entries yet.
func (idx *Index) Format(def hash.Format) hash.Format {
	for _, e := range idx.Entries {
		return e.OID.Format()
	}
	return def
}

// sortKey orders entries by path ascending, then by stage ascending —
// the strict ordering the parser and serializer both enforce.
func sortKey(e *Entry) (string, Stage) { return e.Name, e.Stage }

// Sort restores strict (path, stage) ascending order.
func (idx *Index) Sort() {
	sort.SliceStable(idx.Entries, func(i, j int) bool {
		ni, si := sortKey(idx.Entries[i])
		nj, sj := sortKey(idx.Entries[j])
		if ni != nj {
			return ni < nj
		}
		return si < sj
	})
}

// Has reports whether any entry (at any stage) exists for path.
func (idx *Index) Has(path string) bool {
	for _, e := range idx.Entries {
		if e.Name == path {
			return true
		}
	}
	return false
}

// Entry returns the stage-0 entry for path, if resolved.
func (idx *Index) Entry(path string) (*Entry, bool) {
	for _, e := range idx.Entries {
		if e.Name == path && e.Stage == Resolved {
			return e, true
		}
	}
	return nil, false
}

// StageEntries returns every entry (any stage) at path, ordered by stage.
func (idx *Index) StageEntries(path string) []*Entry {
	var out []*Entry
	for _, e := range idx.Entries {
		if e.Name == path {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stage < out[j].Stage })
	return out
}

// UnmergedPaths returns the set of paths that carry any non-zero stage.
func (idx *Index) UnmergedPaths() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range idx.Entries {
		if e.Stage != Resolved && !seen[e.Name] {
			seen[e.Name] = true
			out = append(out, e.Name)
		}
	}
	sort.Strings(out)
	return out
}

// Insert adds or replaces an entry. Inserting a stage-0 entry clears any
// conflicted stages for the same path (resolving it); inserting a
// non-zero stage adds to the conflict set for that path.
func (idx *Index) Insert(e *Entry) {
	if e.Stage == Resolved {
		idx.removeAllStages(e.Name)
		idx.Entries = append(idx.Entries, e)
	} else {
		idx.removeStage(e.Name, e.Stage)
		idx.Entries = append(idx.Entries, e)
	}
	idx.Sort()
}

func (idx *Index) removeAllStages(path string) {
	out := idx.Entries[:0]
	for _, e := range idx.Entries {
		if e.Name != path {
			out = append(out, e)
		}
	}
	idx.Entries = out
}

func (idx *Index) removeStage(path string, stage Stage) {
	out := idx.Entries[:0]
	for _, e := range idx.Entries {
		if e.Name == path && e.Stage == stage {
			continue
		}
		out = append(out, e)
	}
	idx.Entries = out
}

// Delete removes path and, recursively, any path nested under path/.
func (idx *Index) Delete(path string) {
	prefix := path + "/"
	out := idx.Entries[:0]
	for _, e := range idx.Entries {
		if e.Name == path || strings.HasPrefix(e.Name, prefix) {
			continue
		}
		out = append(out, e)
	}
	idx.Entries = out
}

// Clear empties the index.
func (idx *Index) Clear() {
	idx.Entries = nil
	idx.extensions = nil
}
