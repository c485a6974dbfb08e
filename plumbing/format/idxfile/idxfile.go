// Package idxfile implements the pack index (.idx) format: a sorted,
// fanout-indexed table mapping object IDs to their byte offset and CRC32
// within a companion packfile.
package idxfile

import (
	"sort"

	"github.com/yusefsweeney/gitcore/hash"
	"github.com/yusefsweeney/gitcore/plumbing"
)

// VersionSupported is the only on-disk idx version this package reads
// and writes.
const VersionSupported = 2

var magic = [4]byte{0xff, 't', 'O', 'c'}

const largeOffsetFlag = 1 << 31

// Entry is one object's row: its OID, byte offset into the packfile, and
// CRC32 of its (still compressed) on-disk representation.
type Entry struct {
	OID    plumbing.OID
	Offset uint64
	CRC32  uint32
}

// Index is the in-memory form of a .idx file, built either by decoding
// one from disk or by a packfile scan that's indexing as it goes.
type Index struct {
	Version          uint32
	Format           hash.Format
	Entries          []Entry
	PackfileChecksum plumbing.OID
}

// New returns an empty Index for the given hash format.
func New(f hash.Format) *Index {
	return &Index{Version: VersionSupported, Format: f}
}

// Add appends one entry. Callers must call Sort before encoding or
// looking entries up by OID.
func (idx *Index) Add(oid plumbing.OID, offset uint64, crc uint32) {
	idx.Entries = append(idx.Entries, Entry{OID: oid, Offset: offset, CRC32: crc})
}

// Sort orders entries by OID ascending, the layout binary search and the
// on-disk format both require.
func (idx *Index) Sort() {
	sort.Slice(idx.Entries, func(i, j int) bool {
		return idx.Entries[i].OID.Compare(idx.Entries[j].OID) < 0
	})
}

// FindOffset returns the packfile offset of oid via a binary search over
// the sorted entry table.
func (idx *Index) FindOffset(oid plumbing.OID) (uint64, bool) {
	n := len(idx.Entries)
	lo, hi := 0, n
	// no fanout narrowing: the on-disk fanout table exists to shrink the
	// search range, but in memory a direct binary search over all of
	// Entries is sufficient and avoids keeping a fanout slice in sync.
	i := sort.Search(hi-lo, func(i int) bool {
		return idx.Entries[lo+i].OID.Compare(oid) >= 0
	})
	i += lo
	if i < n && idx.Entries[i].OID.Equal(oid) {
		return idx.Entries[i].Offset, true
	}
	return 0, false
}

// Contains reports whether oid is present in the index.
func (idx *Index) Contains(oid plumbing.OID) bool {
	_, ok := idx.FindOffset(oid)
	return ok
}

// Entry returns the full entry for oid, if present.
func (idx *Index) Entry(oid plumbing.OID) (Entry, bool) {
	n := len(idx.Entries)
	i := sort.Search(n, func(i int) bool { return idx.Entries[i].OID.Compare(oid) >= 0 })
	if i < n && idx.Entries[i].OID.Equal(oid) {
		return idx.Entries[i], true
	}
	return Entry{}, false
}

func fanoutBucket(oid plumbing.OID) byte {
	b := oid.Bytes()
	if len(b) == 0 {
		return 0
	}
	return b[0]
}
