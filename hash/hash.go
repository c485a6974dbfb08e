// Package hash provides the hash algorithms used to address git objects.
package hash

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"

	"github.com/pjbgf/sha1cd"
)

// Format identifies the object hash family a repository was created with.
type Format string

const (
	// SHA1 is the historic, and still default, object format.
	SHA1 Format = "sha1"
	// SHA256 is the object format enabled by extensions.objectformat.
	SHA256 Format = "sha256"

	// DefaultFormat is assumed when a repository's config is silent.
	DefaultFormat = SHA1
)

// Size returns the raw byte length of a hash produced in this format.
func (f Format) Size() int {
	switch f {
	case SHA256:
		return 32
	default:
		return 20
	}
}

// HexSize returns the hexadecimal string length of a hash in this format.
func (f Format) HexSize() int {
	return f.Size() * 2
}

// ErrUnsupportedFormat is returned when an unrecognised format is requested.
var ErrUnsupportedFormat = errors.New("unsupported hash format")

// algos maps the crypto.Hash backing each Format. Indirected through a
// registry so a caller can swap in a FIPS-only SHA-1 at init time.
var algos = map[Format]func() hash.Hash{}

func init() {
	reset()
}

func reset() {
	algos[SHA1] = sha1cd.New
	algos[SHA256] = sha256.New
}

// Register overrides the hash.Hash constructor used for a Format.
func Register(f Format, newFunc func() hash.Hash) error {
	if newFunc == nil {
		return fmt.Errorf("cannot register hash: newFunc is nil")
	}
	switch f {
	case SHA1, SHA256:
		algos[f] = newFunc
		return nil
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
}

// New returns a fresh hash.Hash for the given Format. Panics if the format
// was never registered, mirroring crypto.Hash.New's contract.
func New(f Format) hash.Hash {
	newFunc, ok := algos[f]
	if !ok {
		panic(fmt.Sprintf("hash: format not registered: %v", f))
	}
	return newFunc()
}

// Hasher incrementally computes the wrapped-object hash
// ("<type> <size>\0<content>") for a given Format.
type Hasher struct {
	hash.Hash
	format Format
}

// NewHasher returns a Hasher primed with the object header for t/size.
func NewHasher(f Format, t string, size int64) Hasher {
	h := Hasher{format: f, Hash: New(f)}
	h.Reset(t, size)
	return h
}

// Reset rewinds the hasher and rewrites the object header.
func (h Hasher) Reset(t string, size int64) {
	h.Hash.Reset()
	fmt.Fprintf(h.Hash, "%s %d\x00", t, size)
}

// Sum returns the computed OID bytes.
func (h Hasher) Sum() []byte {
	return h.Hash.Sum(nil)
}

// Of is a pure, one-shot convenience for hashing an already-wrapped payload.
func Of(f Format, wrapped []byte) []byte {
	h := New(f)
	h.Write(wrapped)
	return h.Sum(nil)
}
