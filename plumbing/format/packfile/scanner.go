package packfile

import (
	"github.com/yusefsweeney/gitcore/hash"
	"github.com/yusefsweeney/gitcore/plumbing"
)

// ScannedEntry describes one object as encountered during a sequential
// walk of a packfile: its offset, resolved type and OID. It carries no
// CRC32, so building an .idx from it needs the CRC computed separately.
type ScannedEntry struct {
	Offset int64
	Type   plumbing.ObjectType
	OID    plumbing.OID
}

// IndexObjects walks every object in the pack once, computing each
// object's final OID (resolving deltas against whatever in-pack bases it
// needs) and offset, which is exactly the information a .idx exists to
// cache. This is how a bare pack is indexed the first time it's seen,
// mirroring the role the teacher's packfile.Observer/idxfile.Writer pair
// plays during `git index-pack`.
func (p *Packfile) IndexObjects() ([]ScannedEntry, error) {
	_, count := p.Header()

	entries := make([]ScannedEntry, 0, count)
	offset := int64(12)

	for i := uint32(0); i < count; i++ {
		raw, err := p.readRawAt(offset)
		if err != nil {
			return nil, err
		}

		typ, payload, err := p.GetByOffset(offset)
		if err != nil {
			return nil, err
		}

		oid := hashObject(p.format, typ, payload)
		entries = append(entries, ScannedEntry{Offset: offset, Type: typ, OID: oid})

		offset = raw.nextOffset
	}

	return entries, nil
}

func hashObject(f hash.Format, t plumbing.ObjectType, payload []byte) plumbing.OID {
	h := hash.NewHasher(f, t.String(), int64(len(payload)))
	h.Write(payload)
	return plumbing.FromBytes(f, h.Sum())
}
