// Package objfile implements the on-disk loose-object encoding: a header
// of "<type> <size>\0" followed by the object payload, the whole thing
// zlib-deflated.
package objfile

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/yusefsweeney/gitcore/hash"
	"github.com/yusefsweeney/gitcore/plumbing"
)

// Wrap builds the canonical "<type> <size>\0<payload>" byte sequence that
// is hashed to produce an object's OID.
func Wrap(t plumbing.ObjectType, payload []byte) []byte {
	header := fmt.Sprintf("%s %d\x00", t.String(), len(payload))
	out := make([]byte, 0, len(header)+len(payload))
	out = append(out, header...)
	out = append(out, payload...)
	return out
}

// Hash computes the OID of a wrapped object under the given hash format.
func Hash(f hash.Format, t plumbing.ObjectType, payload []byte) plumbing.OID {
	sum := hash.Of(f, Wrap(t, payload))
	return plumbing.FromBytes(f, sum)
}

// Deflate zlib-compresses an already-wrapped object for loose storage.
func Deflate(wrapped []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	// Writes to a bytes.Buffer never fail.
	_, _ = w.Write(wrapped)
	_ = w.Close()
	return buf.Bytes()
}

// Inflate reverses Deflate, returning the wrapped (header + payload) bytes.
func Inflate(deflated []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(deflated))
	if err != nil {
		return nil, fmt.Errorf("objfile: zlib header: %w", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("objfile: inflate: %w", err)
	}
	return out, nil
}

// InflateStream reverses Deflate for streamed reads of large loose objects,
// falling back to the same zlib.Reader codec but avoiding buffering the
// whole compressed input up front.
func InflateStream(r io.Reader) (io.ReadCloser, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("objfile: zlib header: %w", err)
	}
	return zr, nil
}

// ParseHeader splits a freshly-inflated wrapped object into its type, size,
// and payload, validating that the declared size matches the payload.
func ParseHeader(wrapped []byte) (plumbing.ObjectType, []byte, error) {
	nul := bytes.IndexByte(wrapped, 0)
	if nul < 0 {
		return plumbing.InvalidObject, nil, &plumbing.ErrInvalidObject{Reason: "objfile: missing header terminator"}
	}

	header := wrapped[:nul]
	payload := wrapped[nul+1:]

	sp := bytes.IndexByte(header, ' ')
	if sp < 0 {
		return plumbing.InvalidObject, nil, &plumbing.ErrInvalidObject{Reason: "objfile: malformed header"}
	}

	t, err := plumbing.ParseObjectType(string(header[:sp]))
	if err != nil {
		return plumbing.InvalidObject, nil, err
	}

	var size int
	if _, err := fmt.Sscanf(string(header[sp+1:]), "%d", &size); err != nil {
		return plumbing.InvalidObject, nil, &plumbing.ErrInvalidObject{Reason: "objfile: malformed size"}
	}
	if size != len(payload) {
		return plumbing.InvalidObject, nil, &plumbing.ErrInvalidObject{Reason: "objfile: size mismatch"}
	}

	return t, payload, nil
}
