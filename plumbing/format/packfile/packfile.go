package packfile

import (
	"compress/zlib"
	"errors"
	"fmt"
	"io"

	"github.com/yusefsweeney/gitcore/hash"
	"github.com/yusefsweeney/gitcore/plumbing"
	"github.com/yusefsweeney/gitcore/plumbing/binary"
)

// VersionSupported is the only packfile version this package reads.
const VersionSupported uint32 = 2

var packSignature = [4]byte{'P', 'A', 'C', 'K'}

var (
	// ErrMalformedPackfile is returned when the signature or version is
	// not recognized.
	ErrMalformedPackfile = errors.New("packfile: malformed header")
	// ErrMaxDeltaDepth is returned when a delta chain exceeds the depth
	// this package is willing to follow, guarding against corrupt or
	// cyclic packs.
	ErrMaxDeltaDepth = errors.New("packfile: delta chain too deep")
	// ErrObjectNotFound is returned when an offset has no object, or a
	// ref-delta's base can't be resolved by the caller-supplied lookup.
	ErrObjectNotFound = errors.New("packfile: object not found")
)

const maxDeltaDepth = 50

// ReaderAtSize is the minimal random-access surface a Packfile needs
// around an on-disk or in-memory pack.
type ReaderAtSize interface {
	io.ReaderAt
	Size() int64
}

// ResolveBase looks up the packfile byte offset of a ref-delta's base
// object by its OID — normally backed by the companion .idx.
type ResolveBase func(oid plumbing.OID) (int64, bool)

// Packfile provides random access to the objects inside a .pack file,
// resolving ofs-delta and ref-delta entries transparently.
type Packfile struct {
	ra      ReaderAtSize
	format  hash.Format
	version uint32
	count   uint32
	resolve ResolveBase
}

// Open parses the packfile header and returns a Packfile ready to serve
// GetByOffset. resolve is used to find a ref-delta's base by OID; it may
// be nil if the pack is known to contain no ref-deltas.
func Open(ra ReaderAtSize, format hash.Format, resolve ResolveBase) (*Packfile, error) {
	hdr := make([]byte, 12)
	if _, err := ra.ReadAt(hdr, 0); err != nil {
		return nil, err
	}
	var sig [4]byte
	copy(sig[:], hdr[:4])
	if sig != packSignature {
		return nil, ErrMalformedPackfile
	}
	version := beUint32(hdr[4:8])
	if version != VersionSupported {
		return nil, fmt.Errorf("%w: version %d", ErrMalformedPackfile, version)
	}
	count := beUint32(hdr[8:12])

	return &Packfile{ra: ra, format: format, version: version, count: count, resolve: resolve}, nil
}

// Header returns the packfile's declared version and object count.
func (p *Packfile) Header() (version, count uint32) { return p.version, p.count }

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func (p *Packfile) oidLen() int {
	if p.format == hash.SHA256 {
		return 32
	}
	return 20
}

// countingReader tracks how many bytes have been pulled through it, so a
// caller can learn exactly where the next packfile entry starts without
// the underlying zlib reader exposing that itself.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func (c *countingReader) ReadByte() (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(c, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// rawEntry is one decoded-but-not-delta-resolved packfile object.
type rawEntry struct {
	typ        objType
	size       int64
	payload    []byte // present for non-delta entries
	delta      []byte // present for delta entries
	baseOffset int64  // valid when typ == ofsDeltaType
	baseOID    plumbing.OID
	nextOffset int64 // byte offset immediately following this entry
}

// readRawAt decodes the object header and inflates the entry's payload
// (literal bytes for a plain object, delta bytes for a delta entry),
// without following any delta chain.
func (p *Packfile) readRawAt(offset int64) (*rawEntry, error) {
	sr := io.NewSectionReader(p.ra, offset, p.ra.Size()-offset)
	cr := &countingReader{r: sr}

	first, err := cr.ReadByte()
	if err != nil {
		return nil, err
	}
	typ := objType((first >> 4) & 0x07)
	size, err := binary.ReadVariableLengthSize(first, cr)
	if err != nil {
		return nil, err
	}

	e := &rawEntry{typ: typ, size: int64(size)}

	switch typ {
	case ofsDeltaType:
		back, err := binary.ReadVariableWidthInt(cr)
		if err != nil {
			return nil, err
		}
		e.baseOffset = offset - back
	case refDeltaType:
		buf := make([]byte, p.oidLen())
		if _, err := io.ReadFull(cr, buf); err != nil {
			return nil, err
		}
		e.baseOID = plumbing.FromBytes(p.format, buf)
	}

	zr, err := zlib.NewReader(cr)
	if err != nil {
		return nil, err
	}
	payload, err := io.ReadAll(io.LimitReader(zr, e.size+1))
	zr.Close()
	if err != nil {
		return nil, err
	}

	if typ.isDelta() {
		e.delta = payload
	} else {
		e.payload = payload
	}

	e.nextOffset = offset + cr.n
	return e, nil
}

// GetByOffset returns the fully-resolved type and payload of the object
// stored at offset, inflating and following any delta chain.
func (p *Packfile) GetByOffset(offset int64) (plumbing.ObjectType, []byte, error) {
	return p.getByOffset(offset, 0)
}

func (p *Packfile) getByOffset(offset int64, depth int) (plumbing.ObjectType, []byte, error) {
	if depth > maxDeltaDepth {
		return plumbing.InvalidObject, nil, ErrMaxDeltaDepth
	}

	e, err := p.readRawAt(offset)
	if err != nil {
		return plumbing.InvalidObject, nil, err
	}

	if !e.typ.isDelta() {
		t, ok := e.typ.toObjectType()
		if !ok {
			return plumbing.InvalidObject, nil, fmt.Errorf("packfile: invalid object type at offset %d", offset)
		}
		return t, e.payload, nil
	}

	var baseOffset int64
	if e.typ == ofsDeltaType {
		baseOffset = e.baseOffset
	} else {
		if p.resolve == nil {
			return plumbing.InvalidObject, nil, ErrObjectNotFound
		}
		off, ok := p.resolve(e.baseOID)
		if !ok {
			return plumbing.InvalidObject, nil, fmt.Errorf("%w: ref-delta base %s", ErrObjectNotFound, e.baseOID)
		}
		baseOffset = off
	}

	baseType, baseBytes, err := p.getByOffset(baseOffset, depth+1)
	if err != nil {
		return plumbing.InvalidObject, nil, err
	}

	target, err := PatchDelta(baseBytes, e.delta)
	if err != nil {
		return plumbing.InvalidObject, nil, err
	}

	return baseType, target, nil
}

// GetByOID resolves oid via resolve and returns its fully patched object.
func (p *Packfile) GetByOID(oid plumbing.OID) (plumbing.ObjectType, []byte, error) {
	if p.resolve == nil {
		return plumbing.InvalidObject, nil, ErrObjectNotFound
	}
	off, ok := p.resolve(oid)
	if !ok {
		return plumbing.InvalidObject, nil, fmt.Errorf("%w: %s", ErrObjectNotFound, oid)
	}
	return p.GetByOffset(off)
}
