package merge

import (
	"path"
	"sort"

	billy "github.com/go-git/go-billy/v5"

	"github.com/yusefsweeney/gitcore/plumbing"
	"github.com/yusefsweeney/gitcore/plumbing/filemode"
	"github.com/yusefsweeney/gitcore/plumbing/format/index"
	"github.com/yusefsweeney/gitcore/plumbing/object"
)

// Store is the subset of the object store the tree merge needs: reading
// existing trees and blobs, and writing the merged tree's new objects.
type Store interface {
	Object(oid plumbing.OID) (plumbing.ObjectType, []byte, error)
	WriteObject(t plumbing.ObjectType, payload []byte) (plumbing.OID, error)
}

// ConflictReport categorizes every path a tree merge left conflicted.
type ConflictReport struct {
	BothModified   []string
	DeleteByUs     []string
	DeleteByTheirs []string
}

// HasConflict reports whether any path was recorded.
func (r *ConflictReport) HasConflict() bool {
	return len(r.BothModified)+len(r.DeleteByUs)+len(r.DeleteByTheirs) > 0
}

// TreeMergeOptions configures a single MergeTree call.
type TreeMergeOptions struct {
	Store Store

	// Base, Ours, Theirs are the root tree OIDs of the three sides. A
	// zero OID (or the canonical empty-tree OID) means that side has no
	// tree at all at this path.
	Base, Ours, Theirs plumbing.OID

	// Index, if set, receives a staged entry for every conflicted path
	// (stage Base/Ours/Theirs, whichever sides have it).
	Index *index.Index

	// Worktree, if set, receives the conflict-marked blob content for
	// every blob conflict, unless AbortOnConflict is set.
	Worktree billy.Filesystem

	// OurName/TheirName label blob conflict markers.
	OurName, TheirName string

	// AbortOnConflict turns any conflict into a returned error instead
	// of a value the caller can inspect, and suppresses worktree writes.
	AbortOnConflict bool
}

// MergeTree performs a recursive three-way merge of the three trees in
// opts, writing the merged tree (and any newly merged blobs) via
// opts.Store, staging conflicts into opts.Index, and returning the
// resulting tree OID alongside a report of whatever was left conflicted.
//
// A conflicted blob is omitted from the merged tree entirely — its
// resolution lives only in the index stages and (optionally) the
// worktree — matching how git itself represents an unresolved merge.
func MergeTree(opts TreeMergeOptions) (plumbing.OID, *ConflictReport, error) {
	report := &ConflictReport{}
	oid, err := mergeTree(opts, opts.Base, opts.Ours, opts.Theirs, "", report)
	if err != nil {
		return plumbing.OID{}, nil, err
	}

	if !report.HasConflict() {
		return oid, report, nil
	}
	if opts.AbortOnConflict {
		return plumbing.OID{}, report, &plumbing.ErrMergeConflict{
			BothModified:   report.BothModified,
			DeleteByUs:     report.DeleteByUs,
			DeleteByTheirs: report.DeleteByTheirs,
		}
	}
	return oid, report, nil
}

func isAbsentTree(oid plumbing.OID) bool {
	return oid.IsZero() || oid.Equal(plumbing.EmptyTreeOID)
}

func loadEntries(store Store, oid plumbing.OID) (map[string]object.TreeEntry, error) {
	if isAbsentTree(oid) {
		return map[string]object.TreeEntry{}, nil
	}
	typ, payload, err := store.Object(oid)
	if err != nil {
		return nil, err
	}
	if typ != plumbing.TreeObject {
		return nil, &plumbing.ErrWrongType{Want: "tree", Got: typ.String()}
	}
	t, err := object.DecodeTree(oid.Format(), payload)
	if err != nil {
		return nil, err
	}
	out := make(map[string]object.TreeEntry, len(t.Entries))
	for _, e := range t.Entries {
		out[e.Name] = e
	}
	return out, nil
}

func unionNames(sets ...map[string]object.TreeEntry) []string {
	seen := make(map[string]bool)
	var names []string
	for _, s := range sets {
		for name := range s {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

type entryKind int

const (
	kindBlob entryKind = iota
	kindDir
	kindSubmodule
)

func kindOf(mode filemode.FileMode) entryKind {
	switch mode {
	case filemode.Dir:
		return kindDir
	case filemode.Submodule:
		return kindSubmodule
	default:
		return kindBlob
	}
}

func mergeTree(opts TreeMergeOptions, baseOID, oursOID, theirsOID plumbing.OID, dirPath string, report *ConflictReport) (plumbing.OID, error) {
	base, err := loadEntries(opts.Store, baseOID)
	if err != nil {
		return plumbing.OID{}, err
	}
	ours, err := loadEntries(opts.Store, oursOID)
	if err != nil {
		return plumbing.OID{}, err
	}
	theirs, err := loadEntries(opts.Store, theirsOID)
	if err != nil {
		return plumbing.OID{}, err
	}

	var merged []object.TreeEntry
	for _, name := range unionNames(base, ours, theirs) {
		be, bOK := base[name]
		oe, oOK := ours[name]
		te, tOK := theirs[name]

		childPath := name
		if dirPath != "" {
			childPath = dirPath + "/" + name
		}

		entry, keep, err := mergeEntry(opts, be, bOK, oe, oOK, te, tOK, childPath, report)
		if err != nil {
			return plumbing.OID{}, err
		}
		if keep {
			entry.Name = name
			merged = append(merged, entry)
		}
	}

	payload, err := object.EncodeTree(merged)
	if err != nil {
		return plumbing.OID{}, err
	}
	return opts.Store.WriteObject(plumbing.TreeObject, payload)
}

func mergeEntry(
	opts TreeMergeOptions,
	be object.TreeEntry, bOK bool,
	oe object.TreeEntry, oOK bool,
	te object.TreeEntry, tOK bool,
	entryPath string, report *ConflictReport,
) (object.TreeEntry, bool, error) {
	ourChanged := oOK != bOK || (oOK && bOK && (oe.Mode != be.Mode || !oe.OID.Equal(be.OID)))
	theirChanged := tOK != bOK || (tOK && bOK && (te.Mode != be.Mode || !te.OID.Equal(be.OID)))

	switch {
	case oOK && tOK && kindOf(oe.Mode) != kindOf(te.Mode):
		// Mismatched types added/changed on both sides: keep ours in
		// the tree, but stage all three so the conflict is visible.
		report.BothModified = append(report.BothModified, entryPath)
		stageConflict(opts, entryPath, be, bOK, oe, true, te, true)
		return oe, true, nil

	case !ourChanged && !theirChanged:
		if !bOK {
			return object.TreeEntry{}, false, nil
		}
		return be, true, nil

	case !ourChanged && theirChanged:
		if !tOK && bOK && oOK {
			// Theirs deleted a file ours left untouched: keep it.
			return oe, true, nil
		}
		if !tOK {
			return object.TreeEntry{}, false, nil
		}
		return te, true, nil

	case ourChanged && !theirChanged:
		if !oOK && bOK && tOK {
			// Ours deleted a file theirs left untouched: keep it.
			return te, true, nil
		}
		if !oOK {
			return object.TreeEntry{}, false, nil
		}
		return oe, true, nil

	case !oOK && !tOK:
		// Both sides independently deleted the same path: nothing to
		// merge, nothing to conflict over.
		return object.TreeEntry{}, false, nil

	case oOK && tOK && kindOf(oe.Mode) == kindDir && kindOf(te.Mode) == kindDir:
		sub, err := mergeTree(opts, be.OID, oe.OID, te.OID, entryPath, report)
		if err != nil {
			return object.TreeEntry{}, false, err
		}
		return object.TreeEntry{Mode: filemode.Dir, OID: sub}, true, nil

	case oOK && tOK && kindOf(oe.Mode) == kindBlob && kindOf(te.Mode) == kindBlob:
		return mergeBlobEntry(opts, be, bOK, oe, te, entryPath, report)

	case bOK && tOK && !oOK:
		report.DeleteByUs = append(report.DeleteByUs, entryPath)
		stageConflict(opts, entryPath, be, true, object.TreeEntry{}, false, te, true)
		return object.TreeEntry{}, false, nil

	case bOK && oOK && !tOK:
		report.DeleteByTheirs = append(report.DeleteByTheirs, entryPath)
		stageConflict(opts, entryPath, be, true, oe, true, object.TreeEntry{}, false)
		return object.TreeEntry{}, false, nil

	default:
		return object.TreeEntry{}, false, &plumbing.ErrMergeNotSupported{
			Path:   entryPath,
			Reason: "no supported combination for this add/change pattern",
		}
	}
}

func mergeBlobEntry(opts TreeMergeOptions, be object.TreeEntry, bOK bool, oe, te object.TreeEntry, entryPath string, report *ConflictReport) (object.TreeEntry, bool, error) {
	var baseContent []byte
	if bOK {
		_, payload, err := opts.Store.Object(be.OID)
		if err != nil {
			return object.TreeEntry{}, false, err
		}
		baseContent = payload
	}
	_, oursContent, err := opts.Store.Object(oe.OID)
	if err != nil {
		return object.TreeEntry{}, false, err
	}
	_, theirsContent, err := opts.Store.Object(te.OID)
	if err != nil {
		return object.TreeEntry{}, false, err
	}

	merged, hasConflict, err := MergeBlobs(baseContent, oursContent, theirsContent, opts.OurName, opts.TheirName)
	if err != nil {
		return object.TreeEntry{}, false, err
	}

	if !hasConflict {
		oid, err := opts.Store.WriteObject(plumbing.BlobObject, merged)
		if err != nil {
			return object.TreeEntry{}, false, err
		}
		return object.TreeEntry{Mode: oe.Mode, OID: oid}, true, nil
	}

	report.BothModified = append(report.BothModified, entryPath)
	stageConflict(opts, entryPath, be, bOK, oe, true, te, true)

	if opts.Worktree != nil && !opts.AbortOnConflict {
		if err := writeWorktreeFile(opts.Worktree, entryPath, merged); err != nil {
			return object.TreeEntry{}, false, err
		}
	}

	return object.TreeEntry{}, false, nil
}

func stageConflict(opts TreeMergeOptions, entryPath string, be object.TreeEntry, bOK bool, oe object.TreeEntry, oOK bool, te object.TreeEntry, tOK bool) {
	if opts.Index == nil {
		return
	}
	if bOK {
		opts.Index.Insert(&index.Entry{Name: entryPath, Stage: index.Base, Mode: uint32(be.Mode), OID: be.OID})
	}
	if oOK {
		opts.Index.Insert(&index.Entry{Name: entryPath, Stage: index.Ours, Mode: uint32(oe.Mode), OID: oe.OID})
	}
	if tOK {
		opts.Index.Insert(&index.Entry{Name: entryPath, Stage: index.Theirs, Mode: uint32(te.Mode), OID: te.OID})
	}
}

func writeWorktreeFile(fs billy.Filesystem, name string, content []byte) error {
	if dir := path.Dir(name); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := fs.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(content)
	return err
}
