package idxfile

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/binary"

	"github.com/yusefsweeney/gitcore/hash"
)

// Encode serializes idx to the .idx v2 format, promoting any offset that
// doesn't fit in 31 bits into the large-offset table — the 64-bit
// offsets the teacher's own writer left as a TODO.
func Encode(idx *Index) ([]byte, error) {
	idx.Sort()

	var body bytes.Buffer
	body.Write(magic[:])
	if err := binary.Write(&body, binary.BigEndian, uint32(VersionSupported)); err != nil {
		return nil, err
	}

	var fanout [256]uint32
	for _, e := range idx.Entries {
		fanout[fanoutBucket(e.OID)]++
	}
	var running uint32
	for i := range fanout {
		running += fanout[i]
		fanout[i] = running
	}
	if err := binary.Write(&body, binary.BigEndian, fanout); err != nil {
		return nil, err
	}

	for _, e := range idx.Entries {
		body.Write(e.OID.Bytes())
	}
	for _, e := range idx.Entries {
		if err := binary.Write(&body, binary.BigEndian, e.CRC32); err != nil {
			return nil, err
		}
	}

	var large []uint64
	for _, e := range idx.Entries {
		if e.Offset > 0x7fffffff {
			large = append(large, e.Offset)
			if err := binary.Write(&body, binary.BigEndian, largeOffsetFlag|uint32(len(large)-1)); err != nil {
				return nil, err
			}
			continue
		}
		if err := binary.Write(&body, binary.BigEndian, uint32(e.Offset)); err != nil {
			return nil, err
		}
	}
	for _, off := range large {
		if err := binary.Write(&body, binary.BigEndian, off); err != nil {
			return nil, err
		}
	}

	body.Write(idx.PackfileChecksum.Bytes())

	var sum []byte
	if idx.Format == hash.SHA256 {
		h := sha256.Sum256(body.Bytes())
		sum = h[:]
	} else {
		h := sha1.Sum(body.Bytes())
		sum = h[:]
	}

	out := append([]byte{}, body.Bytes()...)
	out = append(out, sum...)
	return out, nil
}
