package midx_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yusefsweeney/gitcore/hash"
	"github.com/yusefsweeney/gitcore/plumbing"
	"github.com/yusefsweeney/gitcore/plumbing/format/midx"
)

func oid(t *testing.T, s string) plumbing.OID {
	t.Helper()
	for len(s) < 40 {
		s += "0"
	}
	o, err := plumbing.FromHex(s)
	require.NoError(t, err)
	return o
}

// buildMIDX hand-assembles a minimal single-pack multi-pack-index with the
// four mandatory chunks, mirroring what Decode expects to find.
func buildMIDX(t *testing.T, oids []plumbing.OID, offsets []uint64) []byte {
	t.Helper()

	pnam := append([]byte("pack-0.pack"), 0)
	for len(pnam)%4 != 0 {
		pnam = append(pnam, 0)
	}

	var fanout bytes.Buffer
	var counts [256]uint32
	for _, o := range oids {
		counts[o.Bytes()[0]]++
	}
	var running uint32
	for _, c := range counts {
		running += c
		binary.Write(&fanout, binary.BigEndian, running)
	}

	var oidl bytes.Buffer
	for _, o := range oids {
		oidl.Write(o.Bytes())
	}

	var ooff bytes.Buffer
	for _, off := range offsets {
		binary.Write(&ooff, binary.BigEndian, uint32(0)) // pack index 0
		binary.Write(&ooff, binary.BigEndian, uint32(off))
	}

	chunks := []struct {
		id   string
		data []byte
	}{
		{"PNAM", pnam},
		{"OIDF", fanout.Bytes()},
		{"OIDL", oidl.Bytes()},
		{"OOFF", ooff.Bytes()},
	}

	headerLen := 12
	tableLen := (len(chunks) + 1) * 12
	offset := uint64(headerLen + tableLen)

	var body bytes.Buffer
	body.WriteString("MIDX")
	body.WriteByte(1) // version
	body.WriteByte(1) // oid version (sha1)
	body.WriteByte(byte(len(chunks)))
	body.WriteByte(0) // base midx count
	binary.Write(&body, binary.BigEndian, uint32(1))

	type entry struct {
		id  string
		off uint64
	}
	var table []entry
	for _, c := range chunks {
		table = append(table, entry{c.id, offset})
		offset += uint64(len(c.data))
	}
	table = append(table, entry{"\x00\x00\x00\x00", offset})

	for _, e := range table {
		body.WriteString(e.id)
		binary.Write(&body, binary.BigEndian, e.off)
	}
	for _, c := range chunks {
		body.Write(c.data)
	}

	return body.Bytes()
}

func TestDecodeAndFind(t *testing.T) {
	oids := []plumbing.OID{oid(t, "aa"), oid(t, "bb"), oid(t, "cc")}
	offsets := []uint64{12, 500, 9000}

	b := buildMIDX(t, oids, offsets)

	m, err := midx.Decode(b, hash.SHA1)
	require.NoError(t, err)
	require.Equal(t, []string{"pack-0.pack"}, m.PackNames)

	loc, ok := m.FindObject(oid(t, "bb"))
	require.True(t, ok)
	require.Equal(t, 0, loc.PackIndex)
	require.Equal(t, uint64(500), loc.Offset)

	_, ok = m.FindObject(oid(t, "dd"))
	require.False(t, ok)
}
