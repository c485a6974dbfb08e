package index

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"io"

	gohash "github.com/yusefsweeney/gitcore/hash"
	gitbinary "github.com/yusefsweeney/gitcore/plumbing/binary"
)

// Encoder serializes an Index back to the binary staging-area format.
// Extensions are never reproduced: any chunk a Decoder collected is
// informational only and is dropped on every rewrite, matching the rest
// of the corpus's "index is the one mutable singleton, extensions are
// not round-tripped" stance.
type Encoder struct {
	w      io.Writer
	format gohash.Format
	oidLen int
}

// NewEncoder returns an Encoder writing OIDs in the given hash format.
func NewEncoder(w io.Writer, format gohash.Format) *Encoder {
	oidLen := 20
	if format == gohash.SHA256 {
		oidLen = 32
	}
	return &Encoder{w: w, format: format, oidLen: oidLen}
}

// Encode writes idx to the underlying writer, version 2 or 3 as set on idx.
func (e *Encoder) Encode(idx *Index) error {
	idx.Sort()

	var body bytes.Buffer
	if _, err := body.WriteString(indexSignature); err != nil {
		return err
	}
	version := idx.Version
	if version == 0 {
		version = 2
	}
	if err := gitbinary.WriteUint32(&body, version); err != nil {
		return err
	}
	if err := gitbinary.WriteUint32(&body, uint32(len(idx.Entries))); err != nil {
		return err
	}

	for _, entry := range idx.Entries {
		if err := e.writeEntry(&body, version, entry); err != nil {
			return err
		}
	}

	var sum []byte
	if e.format == gohash.SHA256 {
		h := sha256.Sum256(body.Bytes())
		sum = h[:]
	} else {
		h := sha1.Sum(body.Bytes())
		sum = h[:]
	}

	if _, err := e.w.Write(body.Bytes()); err != nil {
		return err
	}
	_, err := e.w.Write(sum)
	return err
}

func (e *Encoder) writeEntry(w *bytes.Buffer, version uint32, entry *Entry) error {
	read := 0

	fields := []uint32{
		entry.CreatedAtSec, entry.CreatedAtNSec,
		entry.ModifiedAtSec, entry.ModifiedAtNSec,
		entry.Dev, entry.Inode, entry.Mode, entry.UID, entry.GID, entry.Size,
	}
	for _, f := range fields {
		if err := gitbinary.WriteUint32(w, f); err != nil {
			return err
		}
		read += 4
	}

	oidBytes := entry.OID.Bytes()
	if len(oidBytes) != e.oidLen {
		padded := make([]byte, e.oidLen)
		copy(padded, oidBytes)
		oidBytes = padded
	}
	if _, err := w.Write(oidBytes); err != nil {
		return err
	}
	read += e.oidLen

	nameLen := len(entry.Name)
	flagLen := nameLen
	if flagLen > nameMask {
		flagLen = nameMask
	}
	flags := uint16(entry.Stage&0x3) << 12
	if entry.AssumeValid {
		flags |= entryValid
	}
	extended := version >= 3 && (entry.IntentToAdd || entry.SkipWorktree)
	if extended {
		flags |= entryExtended
	}
	flags |= uint16(flagLen)
	if err := gitbinary.WriteUint16(w, flags); err != nil {
		return err
	}
	read += 2

	if extended {
		var extFlags uint16
		if entry.IntentToAdd {
			extFlags |= intentToAddMask
		}
		if entry.SkipWorktree {
			extFlags |= skipWorktreeMask
		}
		if err := gitbinary.WriteUint16(w, extFlags); err != nil {
			return err
		}
		read += 2
	}

	if _, err := w.WriteString(entry.Name); err != nil {
		return err
	}
	read += nameLen
	if err := w.WriteByte(0); err != nil {
		return err
	}
	read++

	padding := entryPadding(read)
	for i := 0; i < padding; i++ {
		if err := w.WriteByte(0); err != nil {
			return err
		}
	}

	return nil
}

// Encode serializes idx into bytes using the given hash format.
func Encode(idx *Index, format gohash.Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf, format).Encode(idx); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
