package packfile

import (
	"bytes"
	"errors"

	"github.com/yusefsweeney/gitcore/plumbing/binary"
)

// Delta errors.
var (
	ErrInvalidDelta = errors.New("packfile: invalid delta")
	ErrDeltaCmd     = errors.New("packfile: unrecognized delta command")
)

const minDeltaSize = 4

type bitOffset struct {
	mask  byte
	shift uint
}

var copyOffsetBits = []bitOffset{
	{mask: 0x01, shift: 0},
	{mask: 0x02, shift: 8},
	{mask: 0x04, shift: 16},
	{mask: 0x08, shift: 24},
}

var copySizeBits = []bitOffset{
	{mask: 0x10, shift: 0},
	{mask: 0x20, shift: 8},
	{mask: 0x40, shift: 16},
}

const maxCopySize = 0x10000

// PatchDelta applies delta (in git's packfile delta encoding) to base and
// returns the reconstructed target bytes.
func PatchDelta(base, delta []byte) ([]byte, error) {
	if len(delta) < minDeltaSize {
		return nil, ErrInvalidDelta
	}

	srcSz, rest := binary.DecodeLEB128(delta)
	if srcSz != uint(len(base)) {
		return nil, ErrInvalidDelta
	}

	targetSz, rest := binary.DecodeLEB128(rest)

	dst := bytes.NewBuffer(make([]byte, 0, targetSz))
	remaining := targetSz

	for len(rest) > 0 && remaining > 0 {
		cmd := rest[0]
		rest = rest[1:]

		switch {
		case cmd&0x80 != 0: // copy from base
			var offset, size uint
			var err error
			offset, rest, err = decodeBits(cmd, rest, copyOffsetBits)
			if err != nil {
				return nil, err
			}
			size, rest, err = decodeBits(cmd, rest, copySizeBits)
			if err != nil {
				return nil, err
			}
			if size == 0 {
				size = maxCopySize
			}
			if size > remaining || offset+size < offset || offset+size > srcSz {
				return nil, ErrInvalidDelta
			}
			dst.Write(base[offset : offset+size])
			remaining -= size

		case cmd != 0: // insert cmd bytes taken from the delta stream itself
			size := uint(cmd)
			if size > remaining || uint(len(rest)) < size {
				return nil, ErrInvalidDelta
			}
			dst.Write(rest[:size])
			rest = rest[size:]
			remaining -= size

		default:
			return nil, ErrDeltaCmd
		}
	}

	if remaining != 0 {
		return nil, ErrInvalidDelta
	}

	return dst.Bytes(), nil
}

func decodeBits(cmd byte, delta []byte, bits []bitOffset) (uint, []byte, error) {
	var v uint
	for _, b := range bits {
		if cmd&b.mask == 0 {
			continue
		}
		if len(delta) == 0 {
			return 0, nil, ErrInvalidDelta
		}
		v |= uint(delta[0]) << b.shift
		delta = delta[1:]
	}
	return v, delta, nil
}
