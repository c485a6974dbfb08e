package plumbing

import "strings"

// ReferenceName is a ref path such as "refs/heads/main" or "HEAD".
type ReferenceName string

// HEAD is the name of the reference pointing at the current checkout.
const HEAD ReferenceName = "HEAD"

const (
	refHeadsPrefix   = "refs/heads/"
	refTagsPrefix    = "refs/tags/"
	refRemotesPrefix = "refs/remotes/"
	refNotesPrefix   = "refs/notes/"
)

// NewBranchReferenceName builds "refs/heads/<name>".
func NewBranchReferenceName(name string) ReferenceName {
	return ReferenceName(refHeadsPrefix + name)
}

// NewTagReferenceName builds "refs/tags/<name>".
func NewTagReferenceName(name string) ReferenceName {
	return ReferenceName(refTagsPrefix + name)
}

// NewRemoteReferenceName builds "refs/remotes/<remote>/<branch>".
func NewRemoteReferenceName(remote, branch string) ReferenceName {
	return ReferenceName(refRemotesPrefix + remote + "/" + branch)
}

// NewNoteReferenceName builds "refs/notes/<name>".
func NewNoteReferenceName(name string) ReferenceName {
	return ReferenceName(refNotesPrefix + name)
}

// String returns the full ref path.
func (n ReferenceName) String() string { return string(n) }

// IsBranch reports whether n lives under refs/heads/.
func (n ReferenceName) IsBranch() bool { return strings.HasPrefix(string(n), refHeadsPrefix) }

// IsTag reports whether n lives under refs/tags/.
func (n ReferenceName) IsTag() bool { return strings.HasPrefix(string(n), refTagsPrefix) }

// IsRemote reports whether n lives under refs/remotes/.
func (n ReferenceName) IsRemote() bool { return strings.HasPrefix(string(n), refRemotesPrefix) }

// IsNote reports whether n lives under refs/notes/.
func (n ReferenceName) IsNote() bool { return strings.HasPrefix(string(n), refNotesPrefix) }

// Short returns n with its well-known prefix (refs/heads/, refs/tags/,
// refs/remotes/, refs/notes/) stripped, or n unchanged otherwise.
func (n ReferenceName) Short() string {
	s := string(n)
	for _, prefix := range []string{refHeadsPrefix, refTagsPrefix, refRemotesPrefix, refNotesPrefix} {
		if strings.HasPrefix(s, prefix) {
			return strings.TrimPrefix(s, prefix)
		}
	}
	return s
}

// ReferenceType distinguishes a direct (hash) reference from a symbolic one.
type ReferenceType int8

const (
	InvalidReference ReferenceType = iota
	HashReference
	SymbolicReference
)

func (t ReferenceType) String() string {
	switch t {
	case HashReference:
		return "hash-reference"
	case SymbolicReference:
		return "symbolic-reference"
	default:
		return "invalid-reference"
	}
}

// Reference is either a direct pointer at an OID or a symbolic pointer at
// another ReferenceName (as HEAD usually is).
type Reference struct {
	typ    ReferenceType
	name   ReferenceName
	target ReferenceName
	oid    OID
}

// NewHashReference returns a direct reference name -> oid.
func NewHashReference(name ReferenceName, oid OID) *Reference {
	return &Reference{typ: HashReference, name: name, oid: oid}
}

// NewSymbolicReference returns a reference name -> "ref: target".
func NewSymbolicReference(name, target ReferenceName) *Reference {
	return &Reference{typ: SymbolicReference, name: name, target: target}
}

// NewReferenceFromStrings parses the on-disk encoding of a single ref
// ("<hex-oid>\n" or "ref: <target>\n") into a Reference named name.
func NewReferenceFromStrings(name, target string) *Reference {
	target = strings.TrimSpace(target)
	if strings.HasPrefix(target, "ref: ") {
		return NewSymbolicReference(ReferenceName(name), ReferenceName(strings.TrimPrefix(target, "ref: ")))
	}

	oid, err := FromHex(target)
	if err != nil {
		oid = ZeroOID
	}
	return NewHashReference(ReferenceName(name), oid)
}

// Type reports whether this is a hash or symbolic reference.
func (r *Reference) Type() ReferenceType { return r.typ }

// Name is the reference's own path.
func (r *Reference) Name() ReferenceName { return r.name }

// Target is the pointed-at reference name; only meaningful for symbolic refs.
func (r *Reference) Target() ReferenceName { return r.target }

// OID is the pointed-at object; only meaningful for hash refs.
func (r *Reference) OID() OID { return r.oid }

// String renders the on-disk content line for this reference (without a
// trailing newline).
func (r *Reference) String() string {
	switch r.typ {
	case SymbolicReference:
		return "ref: " + r.target.String()
	case HashReference:
		return r.oid.String()
	default:
		return ""
	}
}
