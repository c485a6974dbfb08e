package idxfile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yusefsweeney/gitcore/hash"
	"github.com/yusefsweeney/gitcore/plumbing"
	"github.com/yusefsweeney/gitcore/plumbing/format/idxfile"
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

func TestEncodeDecodeRoundTrip(t *testing.T) {
	idx := idxfile.New(hash.SHA1)
	idx.Add(oid(t, "bb"), 100, 0xdead)
	idx.Add(oid(t, "aa"), 54, 0xbeef)
	idx.Add(oid(t, "cc"), 4000000000, 0x1234) // forces the large-offset table

	idx.PackfileChecksum = oid(t, "ffff")

	b, err := idxfile.Encode(idx)
	require.NoError(t, err)

	got, err := idxfile.Decode(b, hash.SHA1)
	require.NoError(t, err)

	require.Len(t, got.Entries, 3)
	off, ok := got.FindOffset(oid(t, "aa"))
	require.True(t, ok)
	assert.Equal(t, uint64(54), off)

	off, ok = got.FindOffset(oid(t, "cc"))
	require.True(t, ok)
	assert.Equal(t, uint64(4000000000), off)

	_, ok = got.FindOffset(oid(t, "dd"))
	assert.False(t, ok)

	assert.True(t, got.PackfileChecksum.Equal(oid(t, "ffff")))
}

func TestDecodeRejectsBadChecksum(t *testing.T) {
	idx := idxfile.New(hash.SHA1)
	idx.Add(oid(t, "1"), 1, 1)
	idx.PackfileChecksum = oid(t, "2")
	b, err := idxfile.Encode(idx)
	require.NoError(t, err)

	b[len(b)-1] ^= 0xff
	_, err = idxfile.Decode(b, hash.SHA1)
	assert.ErrorIs(t, err, idxfile.ErrInvalidChecksum)
}
