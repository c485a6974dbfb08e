// Package noder defines the minimal interface the N-way tree walker
// needs from whatever it's walking — an object tree, the index, or a
// working directory — so the walker itself never has to know which of
// the three it's looking at.
package noder

import (
	"encoding/binary"
	"errors"
)

// ErrNotEqualNumberOfEntries is returned by a Hasher comparison when the
// two hashes being compared are of different lengths.
var ErrNotEqualNumberOfEntries = errors.New("noder: hashes have different lengths")

// Hasher is satisfied by anything comparable via a byte-slice digest —
// Noder embeds it, but Path also needs to implement it standalone so two
// paths can be compared without walking back up to a common Noder type.
type Hasher interface {
	Hash() []byte
}

// Noder is a single node in one of the three tree sources the walker
// fans across: a TREE (git tree objects), the STAGE (the index), or the
// WORKDIR (a filesystem). Every node, file or directory, must answer
// every method here.
type Noder interface {
	Hasher

	// Name is this node's own name, not its full path.
	Name() string
	// IsDir reports whether this node has children.
	IsDir() bool
	// Children lists this node's direct children in no particular order
	// — the walker sorts by name itself.
	Children() ([]Noder, error)
	// NumChildren is a cheap count, used to short-circuit comparisons
	// without materializing every child.
	NumChildren() (int, error)
}

// NoChildren is returned by leaf nodes' Children/NumChildren.
var NoChildren []Noder

// ModeBytes encodes a file mode as a fixed 4-byte big-endian value, for
// appending to a content hash so the walker can detect a mode-only
// change (e.g. a file gaining the executable bit) even when the blob
// itself is unchanged. Fixed width, unlike the ASCII mode git writes
// into tree objects, so every source (tree, index, working directory)
// produces directly comparable hashes.
func ModeBytes(mode uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, mode)
	return b
}
