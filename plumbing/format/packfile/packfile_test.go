package packfile_test

import (
	"bytes"
	"compress/zlib"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yusefsweeney/gitcore/hash"
	"github.com/yusefsweeney/gitcore/plumbing"
	"github.com/yusefsweeney/gitcore/plumbing/format/packfile"
)

type readerAtBytes struct {
	b []byte
}

func (r readerAtBytes) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(r.b)) {
		return 0, io.EOF
	}
	n := copy(p, r.b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (r readerAtBytes) Size() int64 { return int64(len(r.b)) }

func writeObjectHeader(buf *bytes.Buffer, typ int, size int) {
	first := byte(typ<<4) | byte(size&0x0f)
	size >>= 4
	if size > 0 {
		first |= 0x80
	}
	buf.WriteByte(first)
	for size > 0 {
		b := byte(size & 0x7f)
		size >>= 7
		if size > 0 {
			b |= 0x80
		}
		buf.WriteByte(b)
	}
}

func buildSimplePack(t *testing.T, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("PACK")
	buf.Write([]byte{0, 0, 0, 2})
	buf.Write([]byte{0, 0, 0, 1})

	writeObjectHeader(&buf, 3, len(payload)) // blobType == 3
	zw := zlib.NewWriter(&buf)
	_, err := zw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func TestGetByOffsetPlainObject(t *testing.T) {
	payload := []byte("hello world")
	b := buildSimplePack(t, payload)

	pf, err := packfile.Open(readerAtBytes{b: b}, hash.SHA1, nil)
	require.NoError(t, err)

	version, count := pf.Header()
	require.Equal(t, uint32(2), version)
	require.Equal(t, uint32(1), count)

	typ, got, err := pf.GetByOffset(12)
	require.NoError(t, err)
	require.Equal(t, plumbing.BlobObject, typ)
	require.Equal(t, payload, got)
}

func TestIndexObjectsSingleBlob(t *testing.T) {
	payload := []byte("indexed content")
	b := buildSimplePack(t, payload)

	pf, err := packfile.Open(readerAtBytes{b: b}, hash.SHA1, nil)
	require.NoError(t, err)

	entries, err := pf.IndexObjects()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, int64(12), entries[0].Offset)
	require.Equal(t, plumbing.BlobObject, entries[0].Type)
}
