package filesystem

import (
	"fmt"
	"io"

	"github.com/yusefsweeney/gitcore/hash"
	"github.com/yusefsweeney/gitcore/plumbing"
	"github.com/yusefsweeney/gitcore/plumbing/format/idxfile"
	"github.com/yusefsweeney/gitcore/plumbing/format/midx"
	"github.com/yusefsweeney/gitcore/plumbing/format/objfile"
	"github.com/yusefsweeney/gitcore/plumbing/format/packfile"
	"github.com/yusefsweeney/gitcore/storage/filesystem/dotgit"
)

// ObjectStorage reads and writes git objects: loose first, falling back
// to every pack the repository has, consulting the multi-pack-index
// when one is present to avoid probing each pack's .idx in turn.
type ObjectStorage struct {
	dir    *dotgit.DotGit
	format hash.Format
}

// HasObject reports whether oid is readable, loose or packed.
func (s *ObjectStorage) HasObject(oid plumbing.OID) bool {
	if oid.Equal(plumbing.EmptyTreeOID) {
		return true
	}
	if s.dir.HasObject(oid) {
		return true
	}
	_, _, err := s.findInPacks(oid)
	return err == nil
}

// Object reads an object's type and inflated payload. The empty tree is
// always readable, even on a repository that has never written it loose:
// every brand-new repository's HEAD resolves to it implicitly.
func (s *ObjectStorage) Object(oid plumbing.OID) (plumbing.ObjectType, []byte, error) {
	if oid.Equal(plumbing.EmptyTreeOID) && !s.dir.HasObject(oid) {
		return plumbing.TreeObject, nil, nil
	}

	if s.dir.HasObject(oid) {
		return s.readLoose(oid)
	}

	t, payload, err := s.readFromPacks(oid)
	if err != nil {
		return plumbing.InvalidObject, nil, err
	}
	return t, payload, nil
}

func (s *ObjectStorage) readLoose(oid plumbing.OID) (plumbing.ObjectType, []byte, error) {
	f, err := s.dir.Object(oid)
	if err != nil {
		return plumbing.InvalidObject, nil, err
	}
	defer f.Close()

	deflated, err := io.ReadAll(f)
	if err != nil {
		return plumbing.InvalidObject, nil, err
	}

	wrapped, err := objfile.Inflate(deflated)
	if err != nil {
		return plumbing.InvalidObject, nil, err
	}

	return objfile.ParseHeader(wrapped)
}

// WriteObject stores payload as a new loose object, returning its OID.
// If the object already exists (loose or packed), this is a no-op.
func (s *ObjectStorage) WriteObject(t plumbing.ObjectType, payload []byte) (plumbing.OID, error) {
	oid := objfile.Hash(s.format, t, payload)
	if s.HasObject(oid) {
		return oid, nil
	}

	w, err := s.dir.NewObject(oid)
	if err != nil {
		return oid, err
	}
	if w == nil {
		return oid, nil
	}
	defer w.Close()

	wrapped := objfile.Wrap(t, payload)
	_, err = w.Write(objfile.Deflate(wrapped))
	return oid, err
}

// findInPacks locates oid's pack and byte offset, preferring the
// multi-pack-index when present.
func (s *ObjectStorage) findInPacks(oid plumbing.OID) (checksum plumbing.OID, offset int64, err error) {
	if m, ok, err := s.loadMIDX(); err == nil && ok {
		if loc, found := m.FindObject(oid); found {
			if loc.PackIndex < 0 || loc.PackIndex >= len(m.PackNames) {
				return plumbing.OID{}, 0, fmt.Errorf("storage: midx pack index out of range")
			}
			checksum, err := packChecksumFromName(m.PackNames[loc.PackIndex])
			if err != nil {
				return plumbing.OID{}, 0, err
			}
			return checksum, int64(loc.Offset), nil
		}
	}

	packs, err := s.dir.ObjectPacks()
	if err != nil {
		return plumbing.OID{}, 0, err
	}
	for _, checksum := range packs {
		idx, err := s.loadIdx(checksum)
		if err != nil {
			continue
		}
		if off, ok := idx.FindOffset(oid); ok {
			return checksum, int64(off), nil
		}
	}
	return plumbing.OID{}, 0, &plumbing.ErrNotFound{What: "object", Key: oid.String()}
}

func (s *ObjectStorage) readFromPacks(oid plumbing.OID) (plumbing.ObjectType, []byte, error) {
	checksum, offset, err := s.findInPacks(oid)
	if err != nil {
		return plumbing.InvalidObject, nil, err
	}

	pf, err := s.openPackfile(checksum)
	if err != nil {
		return plumbing.InvalidObject, nil, err
	}
	return pf.GetByOffset(offset)
}

func (s *ObjectStorage) loadIdx(checksum plumbing.OID) (*idxfile.Index, error) {
	f, err := s.dir.ObjectPackIdx(checksum)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return idxfile.Decode(b, s.format)
}

func (s *ObjectStorage) loadMIDX() (*midx.MIDX, bool, error) {
	f, ok, err := s.dir.MultiPackIndex()
	if err != nil || !ok {
		return nil, ok, err
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, false, err
	}
	m, err := midx.Decode(b, s.format)
	if err != nil {
		return nil, false, err
	}
	return m, true, nil
}

func (s *ObjectStorage) openPackfile(checksum plumbing.OID) (*packfile.Packfile, error) {
	f, err := s.dir.ObjectPack(checksum)
	if err != nil {
		return nil, err
	}

	b, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	idx, err := s.loadIdx(checksum)
	if err != nil {
		return nil, err
	}

	ra := &readerAtBuf{b: b}
	resolve := func(oid plumbing.OID) (int64, bool) {
		off, ok := idx.FindOffset(oid)
		return int64(off), ok
	}
	return packfile.Open(ra, s.format, resolve)
}

// readerAtBuf is an in-memory io.ReaderAt over a whole packfile, avoiding
// the need for a file descriptor to stay open across delta resolution.
type readerAtBuf struct{ b []byte }

func (r *readerAtBuf) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(r.b)) {
		return 0, io.EOF
	}
	n := copy(p, r.b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (r *readerAtBuf) Size() int64 { return int64(len(r.b)) }

func packChecksumFromName(name string) (plumbing.OID, error) {
	// pack file names look like "pack-<hex checksum>.pack"
	const prefix, suffix = "pack-", ".pack"
	if len(name) <= len(prefix)+len(suffix) {
		return plumbing.OID{}, fmt.Errorf("storage: malformed pack name %q", name)
	}
	hex := name[len(prefix) : len(name)-len(suffix)]
	return plumbing.FromHex(hex)
}
