package resources

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

// wrapWOFF packs a TrueType font into a WOFF 1.0 container, storing every
// table uncompressed.
func wrapWOFF(t *testing.T, ttf []byte) []byte {
	t.Helper()
	be := binary.BigEndian
	n := int(be.Uint16(ttf[4:]))
	type table struct {
		tag, checksum uint32
		data          []byte
	}
	tables := make([]table, n)
	sfntSize := 12 + 16*n
	for i := range tables {
		rec := ttf[12+16*i:]
		off, length := be.Uint32(rec[8:]), be.Uint32(rec[12:])
		tables[i] = table{tag: be.Uint32(rec), checksum: be.Uint32(rec[4:]), data: ttf[off : off+length]}
		sfntSize += (int(length) + 3) &^ 3
	}
	start := 44 + 20*n
	var dir, data []byte
	for _, tb := range tables {
		dir = be.AppendUint32(dir, tb.tag)
		dir = be.AppendUint32(dir, uint32(start+len(data)))
		dir = be.AppendUint32(dir, uint32(len(tb.data))) // compressed length = original length
		dir = be.AppendUint32(dir, uint32(len(tb.data)))
		dir = be.AppendUint32(dir, tb.checksum)
		data = append(data, tb.data...)
		for len(data)%4 != 0 {
			data = append(data, 0)
		}
	}
	hdr := make([]byte, 0, 44)
	hdr = be.AppendUint32(hdr, 0x774f4646) // "wOFF"
	hdr = be.AppendUint32(hdr, be.Uint32(ttf))
	hdr = be.AppendUint32(hdr, uint32(start+len(data)))
	hdr = be.AppendUint16(hdr, uint16(n))
	hdr = be.AppendUint16(hdr, 0)
	hdr = be.AppendUint32(hdr, uint32(sfntSize))
	hdr = be.AppendUint16(hdr, 1)
	hdr = be.AppendUint16(hdr, 0)
	hdr = append(hdr, make([]byte, 20)...) // no metadata, no private data
	return append(append(hdr, dir...), data...)
}

func TestFetchLocalWOFF(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontstacks.resources")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "GoRegular.woff")
	require.NoError(t, os.WriteFile(path, wrapWOFF(t, goregular.TTF), 0644))
	f := &Fetcher{CacheDir: t.TempDir()}
	got, err := f.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestFetchDownloadedWOFF(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontstacks.resources")
	defer teardown()
	//
	var downloads int
	srv := fontService(t, &downloads)
	f := testFetcher(t, srv, "")
	u := srv.URL + "/fonts/GoRegular.woff"
	got, err := f.Fetch(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, CachedFilePath(f.CacheDir, u), got)
	assert.Equal(t, 1, downloads)
}
