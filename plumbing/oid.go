// Package plumbing defines the core value types shared across the object
// store, index, reference store, and merge engine: object identifiers,
// object types, and the taxonomy of errors they produce.
package plumbing

import (
	"bytes"
	"encoding/hex"
	"sort"

	"github.com/yusefsweeney/gitcore/hash"
)

// OID is a content hash identifying a git object, in the hash format the
// owning repository was created with.
type OID struct {
	format hash.Format
	size   int
	bytes  [32]byte // big enough for SHA-256; SHA-1 uses the first 20 bytes
}

// ZeroOID is the zero-value OID (all-zero bytes, SHA-1 sized).
var ZeroOID = OID{format: hash.SHA1, size: 20}

// FromHex parses a hex string into an OID. The format is inferred from the
// string length (40 => SHA-1, 64 => SHA-256); any other length is an error.
func FromHex(s string) (OID, error) {
	var o OID
	switch len(s) {
	case hash.SHA1.HexSize():
		o.format = hash.SHA1
		o.size = hash.SHA1.Size()
	case hash.SHA256.HexSize():
		o.format = hash.SHA256
		o.size = hash.SHA256.Size()
	default:
		return OID{}, &ErrInvalidObject{Reason: "oid: wrong hex length " + s}
	}

	n, err := hex.Decode(o.bytes[:o.size], []byte(s))
	if err != nil || n != o.size {
		return OID{}, &ErrInvalidObject{Reason: "oid: invalid hex " + s}
	}
	return o, nil
}

// FromBytes builds an OID in format f from raw hash bytes, copying
// f.Size() bytes of b.
func FromBytes(f hash.Format, b []byte) OID {
	var o OID
	o.format = f
	o.size = f.Size()
	copy(o.bytes[:o.size], b)
	return o
}

// Format reports the hash family of this OID.
func (o OID) Format() hash.Format { return o.format }

// IsZero reports whether this OID is the all-zero sentinel.
func (o OID) IsZero() bool {
	for i := 0; i < o.size; i++ {
		if o.bytes[i] != 0 {
			return false
		}
	}
	return true
}

// Bytes returns the raw hash bytes (length depends on Format).
func (o OID) Bytes() []byte {
	if o.size == 0 {
		return ZeroOID.Bytes()
	}
	out := make([]byte, o.size)
	copy(out, o.bytes[:o.size])
	return out
}

// String returns the lowercase hex representation.
func (o OID) String() string {
	size := o.size
	if size == 0 {
		size = hash.SHA1.Size()
	}
	return hex.EncodeToString(o.bytes[:size])
}

// Compare orders two OIDs byte-wise, matching bytes.Compare semantics.
func (o OID) Compare(other OID) int {
	return bytes.Compare(o.Bytes(), other.Bytes())
}

// Equal reports whether two OIDs name the same object.
func (o OID) Equal(other OID) bool {
	return o.Compare(other) == 0
}

// IsValidHex reports whether s is well-formed hex of a supported length.
func IsValidHex(s string) bool {
	switch len(s) {
	case hash.SHA1.HexSize(), hash.SHA256.HexSize():
		_, err := hex.DecodeString(s)
		return err == nil
	default:
		return false
	}
}

// SortOIDs sorts a slice of OIDs in ascending order.
func SortOIDs(oids []OID) {
	sort.Slice(oids, func(i, j int) bool { return oids[i].Compare(oids[j]) < 0 })
}

// EmptyTreeOID is the canonical OID of an empty tree object, computed over
// the wrapped payload "tree 0\x00". The read path never requires this
// object to exist on disk.
var EmptyTreeOID, _ = FromHex("4b825dc642cb6eb9a060e54bf8d69288fbee4904")

// EmptyBlobOID is the canonical OID of the empty blob.
var EmptyBlobOID, _ = FromHex("e69de29bb2d1d6434b8b29ae775ad8c2e48c5391")
