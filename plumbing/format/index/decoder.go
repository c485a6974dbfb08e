package index

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	gohash "github.com/yusefsweeney/gitcore/hash"
	"github.com/yusefsweeney/gitcore/plumbing"
	gitbinary "github.com/yusefsweeney/gitcore/plumbing/binary"
)

const (
	indexSignature = "DIRC"

	entryExtended = 0x4000
	entryValid    = 0x8000
	nameMask      = 0xfff

	intentToAddMask  = 1 << 13
	skipWorktreeMask = 1 << 14
)

var (
	// ErrMalformedSignature is returned when the file doesn't start with DIRC.
	ErrMalformedSignature = errors.New("index: malformed signature")
	// ErrUnsupportedVersion is returned for any version outside {2, 3}.
	ErrUnsupportedVersion = errors.New("index: unsupported version")
	// ErrInvalidChecksum is returned when the trailing checksum doesn't match.
	ErrInvalidChecksum = errors.New("index: invalid checksum")
	// ErrShortIndex is returned when the file is too small to hold a checksum.
	ErrShortIndex = errors.New("index: file too short")
)

// Decoder parses the binary staging-area format. Because the trailing
// checksum covers the whole file up to itself, Decode reads its input
// fully into memory before parsing rather than hashing a stream.
type Decoder struct {
	r      io.Reader
	format gohash.Format
	oidLen int
}

// NewDecoder returns a Decoder that verifies the trailing checksum using
// the given object hash format — SHA-1 unless extensions.objectformat
// (read from the repository's config ahead of time) says otherwise.
func NewDecoder(r io.Reader, format gohash.Format) *Decoder {
	oidLen := 20
	if format == gohash.SHA256 {
		oidLen = 32
	}
	return &Decoder{r: r, format: format, oidLen: oidLen}
}

// Decode reads a whole index file into idx.
func (d *Decoder) Decode(idx *Index) error {
	buf, err := io.ReadAll(d.r)
	if err != nil {
		return err
	}
	if len(buf) < d.oidLen {
		return ErrShortIndex
	}

	body, sum := buf[:len(buf)-d.oidLen], buf[len(buf)-d.oidLen:]

	var hasher interface{ Sum([]byte) []byte }
	if d.format == gohash.SHA256 {
		h := sha256.New()
		h.Write(body)
		hasher = h
	} else {
		h := sha1.New()
		h.Write(body)
		hasher = h
	}
	if !bytes.Equal(hasher.Sum(nil), sum) {
		return ErrInvalidChecksum
	}

	r := bytes.NewReader(body)

	sig := make([]byte, 4)
	if _, err := io.ReadFull(r, sig); err != nil {
		return err
	}
	if string(sig) != indexSignature {
		return ErrMalformedSignature
	}

	version, err := gitbinary.ReadUint32(r)
	if err != nil {
		return err
	}
	if version != 2 && version != 3 {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	idx.Version = version

	count, err := gitbinary.ReadUint32(r)
	if err != nil {
		return err
	}

	idx.Entries = make([]*Entry, 0, count)
	for i := uint32(0); i < count; i++ {
		e, err := d.readEntry(r, version)
		if err != nil {
			return err
		}
		idx.Entries = append(idx.Entries, e)
	}

	return d.readExtensions(r, idx)
}

func (d *Decoder) readEntry(r *bytes.Reader, version uint32) (*Entry, error) {
	e := &Entry{}
	read := 0

	fields := []*uint32{
		&e.CreatedAtSec, &e.CreatedAtNSec,
		&e.ModifiedAtSec, &e.ModifiedAtNSec,
		&e.Dev, &e.Inode, &e.Mode, &e.UID, &e.GID, &e.Size,
	}
	for _, f := range fields {
		v, err := gitbinary.ReadUint32(r)
		if err != nil {
			return nil, err
		}
		*f = v
		read += 4
	}

	oidBytes, err := gitbinary.ReadHash(r, d.oidLen)
	if err != nil {
		return nil, err
	}
	e.OID = plumbing.FromBytes(d.format, oidBytes)
	read += d.oidLen

	flags, err := gitbinary.ReadUint16(r)
	if err != nil {
		return nil, err
	}
	read += 2

	e.Stage = Stage((flags >> 12) & 0x3)
	e.AssumeValid = flags&entryValid != 0
	nameLen := int(flags & nameMask)

	if flags&entryExtended != 0 && version >= 3 {
		extFlags, err := gitbinary.ReadUint16(r)
		if err != nil {
			return nil, err
		}
		read += 2
		e.IntentToAdd = extFlags&intentToAddMask != 0
		e.SkipWorktree = extFlags&skipWorktreeMask != 0
	}

	var name []byte
	if nameLen < nameMask {
		name = make([]byte, nameLen)
		if _, err := io.ReadFull(r, name); err != nil {
			return nil, err
		}
		read += nameLen
		if _, err := r.ReadByte(); err != nil { // NUL terminator
			return nil, err
		}
		read++
	} else {
		n, err := gitbinary.ReadUntil(r, 0)
		if err != nil {
			return nil, err
		}
		name = n
		read += len(n) + 1
	}
	e.Name = string(name)

	if padding := entryPadding(read); padding > 0 {
		if _, err := r.Seek(int64(padding), io.SeekCurrent); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// entryPadding implements the single mandated padding formula: entries are
// NUL-padded so that the bytes consumed since the entry started land on a
// multiple of 8. The result is always in [1, 8] — even an entry that's
// already 8-aligned gets a full 8 bytes of padding, never 0.
func entryPadding(entryBytesBeforePadding int) int {
	return 8 - (entryBytesBeforePadding % 8)
}

func (d *Decoder) readExtensions(r *bytes.Reader, idx *Index) error {
	for {
		sig := make([]byte, 4)
		n, err := io.ReadFull(r, sig)
		if err == io.EOF || (err == io.ErrUnexpectedEOF && n == 0) {
			return nil
		}
		if err != nil {
			return err
		}
		if !isExtensionSignature(sig) {
			return nil
		}
		size, err := gitbinary.ReadUint32(r)
		if err != nil {
			return err
		}
		data := make([]byte, size)
		if _, err := io.ReadFull(r, data); err != nil {
			return err
		}
		var s [4]byte
		copy(s[:], sig)
		idx.extensions = append(idx.extensions, rawExtension{signature: s, data: data})
	}
}

func isExtensionSignature(b []byte) bool {
	for _, c := range b {
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}

// Decode parses raw index bytes with the given hash format.
func Decode(b []byte, format gohash.Format) (*Index, error) {
	idx := NewIndex()
	if err := NewDecoder(bytes.NewReader(b), format).Decode(idx); err != nil {
		return nil, err
	}
	return idx, nil
}
