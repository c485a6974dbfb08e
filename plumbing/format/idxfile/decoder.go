package idxfile

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/yusefsweeney/gitcore/hash"
	"github.com/yusefsweeney/gitcore/plumbing"
)

var (
	// ErrMalformedHeader is returned when the file doesn't start with the
	// idx magic bytes.
	ErrMalformedHeader = errors.New("idxfile: malformed header")
	// ErrUnsupportedVersion is returned for any version other than 2.
	ErrUnsupportedVersion = errors.New("idxfile: unsupported version")
	// ErrInvalidChecksum is returned when the trailing idx checksum
	// doesn't match the file body.
	ErrInvalidChecksum = errors.New("idxfile: invalid checksum")
)

func oidLen(f hash.Format) int {
	if f == hash.SHA256 {
		return 32
	}
	return 20
}

// Decode parses a .idx file's bytes using the given hash format.
func Decode(b []byte, f hash.Format) (*Index, error) {
	n := oidLen(f)
	if len(b) < 2*n {
		return nil, fmt.Errorf("idxfile: %w", io.ErrUnexpectedEOF)
	}

	body, sum := b[:len(b)-n], b[len(b)-n:]

	var got []byte
	if f == hash.SHA256 {
		h := sha256.Sum256(body)
		got = h[:]
	} else {
		h := sha1.Sum(body)
		got = h[:]
	}
	if !bytes.Equal(got, sum) {
		return nil, ErrInvalidChecksum
	}

	r := bytes.NewReader(body)

	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	if hdr != magic {
		return nil, ErrMalformedHeader
	}

	var version uint32
	if err := binary.Read(r, binary.BigEndian, &version); err != nil {
		return nil, err
	}
	if version != VersionSupported {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	var fanout [256]uint32
	if err := binary.Read(r, binary.BigEndian, &fanout); err != nil {
		return nil, err
	}
	count := int(fanout[255])

	oids := make([]plumbing.OID, count)
	for i := 0; i < count; i++ {
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		oids[i] = plumbing.FromBytes(f, buf)
	}

	crcs := make([]uint32, count)
	for i := 0; i < count; i++ {
		if err := binary.Read(r, binary.BigEndian, &crcs[i]); err != nil {
			return nil, err
		}
	}

	offsets32 := make([]uint32, count)
	var largeCount int
	for i := 0; i < count; i++ {
		if err := binary.Read(r, binary.BigEndian, &offsets32[i]); err != nil {
			return nil, err
		}
		if offsets32[i]&largeOffsetFlag != 0 {
			largeCount++
		}
	}

	large := make([]uint64, largeCount)
	for i := 0; i < largeCount; i++ {
		if err := binary.Read(r, binary.BigEndian, &large[i]); err != nil {
			return nil, err
		}
	}

	packBuf := make([]byte, n)
	if _, err := io.ReadFull(r, packBuf); err != nil {
		return nil, err
	}

	idx := New(f)
	idx.Version = version
	idx.PackfileChecksum = plumbing.FromBytes(f, packBuf)
	idx.Entries = make([]Entry, count)
	for i := 0; i < count; i++ {
		off := uint64(offsets32[i])
		if offsets32[i]&largeOffsetFlag != 0 {
			off = large[offsets32[i]&^largeOffsetFlag]
		}
		idx.Entries[i] = Entry{OID: oids[i], Offset: off, CRC32: crcs[i]}
	}

	return idx, nil
}
