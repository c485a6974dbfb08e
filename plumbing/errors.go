package plumbing

import "fmt"

// ErrNotFound reports that an object, ref, short-OID, or path is absent.
type ErrNotFound struct {
	What string // "object", "ref", "path", ...
	Key  string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.What, e.Key)
}

// ErrAmbiguous reports that a short OID or ref name matched more than one
// candidate.
type ErrAmbiguous struct {
	Key        string
	Candidates []string
}

func (e *ErrAmbiguous) Error() string {
	return fmt.Sprintf("ambiguous argument %q: %d candidates", e.Key, len(e.Candidates))
}

// ErrWrongType reports that an object was found but of an unexpected kind.
type ErrWrongType struct {
	Want string
	Got  string
}

func (e *ErrWrongType) Error() string {
	if e.Want == "" {
		return fmt.Sprintf("wrong object type: %s", e.Got)
	}
	return fmt.Sprintf("wrong object type: want %s, got %s", e.Want, e.Got)
}

// ErrUnsafeFilepath reports a tree entry or index path escaping its tree.
type ErrUnsafeFilepath struct {
	Path string
}

func (e *ErrUnsafeFilepath) Error() string {
	return fmt.Sprintf("unsafe file path: %q", e.Path)
}

// ErrInvalidObject reports a structural or checksum validation failure.
type ErrInvalidObject struct {
	Reason string
}

func (e *ErrInvalidObject) Error() string {
	return "invalid object: " + e.Reason
}

// ErrMergeNotSupported reports a three-way combination outside the table
// the merge engine implements.
type ErrMergeNotSupported struct {
	Path   string
	Reason string
}

func (e *ErrMergeNotSupported) Error() string {
	return fmt.Sprintf("merge not supported at %q: %s", e.Path, e.Reason)
}

// ErrUnmergedPaths reports an operation that required a clean index while
// conflicted stages were present.
type ErrUnmergedPaths struct {
	Paths []string
}

func (e *ErrUnmergedPaths) Error() string {
	return fmt.Sprintf("%d unmerged path(s)", len(e.Paths))
}

// ErrCheckoutConflict reports worktree changes that would be clobbered.
type ErrCheckoutConflict struct {
	Paths []string
}

func (e *ErrCheckoutConflict) Error() string {
	return fmt.Sprintf("checkout would overwrite %d path(s)", len(e.Paths))
}

// ErrMergeConflict reports that a three-way merge produced at least one
// conflicted path, categorized by how the conflict arose. It implements
// error so a caller that asked to abort on conflict can treat it as one,
// while a caller that didn't can just inspect the categorized paths.
type ErrMergeConflict struct {
	BothModified   []string
	DeleteByUs     []string
	DeleteByTheirs []string
}

func (e *ErrMergeConflict) Error() string {
	return fmt.Sprintf("merge conflict: %d modified, %d deleted by us, %d deleted by them",
		len(e.BothModified), len(e.DeleteByUs), len(e.DeleteByTheirs))
}

// HasConflict reports whether any path was recorded as conflicted.
func (e *ErrMergeConflict) HasConflict() bool {
	return len(e.BothModified)+len(e.DeleteByUs)+len(e.DeleteByTheirs) > 0
}

// ErrMissingParameter reports an API contract violation by the caller.
type ErrMissingParameter struct {
	Name string
}

func (e *ErrMissingParameter) Error() string {
	return "missing parameter: " + e.Name
}
