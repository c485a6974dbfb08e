package filesystem

import (
	"github.com/yusefsweeney/gitcore/plumbing"
	"github.com/yusefsweeney/gitcore/storage/filesystem/dotgit"
)

// ReferenceStorage reads and writes references through dotgit, with no
// caching of its own — refs are small and change often enough that a
// stale cache is a worse tradeoff than the extra filesystem call.
type ReferenceStorage struct {
	dir *dotgit.DotGit
}

// Reference resolves a single reference by name, without following any
// symbolic indirection.
func (r *ReferenceStorage) Reference(name plumbing.ReferenceName) (*plumbing.Reference, error) {
	return r.dir.Ref(name)
}

// SetReference performs a compare-and-swap write: old must match the
// reference's current value (nil old skips the check, for first writes).
func (r *ReferenceStorage) SetReference(newRef, old *plumbing.Reference) error {
	return r.dir.SetRef(newRef, old)
}

// RemoveReference deletes a reference, loose and packed.
func (r *ReferenceStorage) RemoveReference(name plumbing.ReferenceName) error {
	return r.dir.RemoveRef(name)
}

// References lists every reference the repository knows of.
func (r *ReferenceStorage) References() ([]*plumbing.Reference, error) {
	return r.dir.Refs()
}

// ResolveReference follows symbolic references (HEAD -> refs/heads/main
// -> <oid>) until it reaches a direct hash reference or a cycle/missing
// target is detected.
func (r *ReferenceStorage) ResolveReference(name plumbing.ReferenceName) (*plumbing.Reference, error) {
	seen := make(map[plumbing.ReferenceName]bool)
	for {
		if seen[name] {
			return nil, &plumbing.ErrNotFound{What: "reference", Key: "cycle at " + name.String()}
		}
		seen[name] = true

		ref, err := r.dir.Ref(name)
		if err != nil {
			return nil, err
		}
		if ref.Type() != plumbing.SymbolicReference {
			return ref, nil
		}
		name = ref.Target()
	}
}
