package dexload

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

// makeDex builds a minimal structurally plausible dex unit: valid
// magic, version, endian tag, sizes and header checksum, followed by
// the given payload bytes.
func makeDex(t *testing.T, payload []byte) []byte {
	t.Helper()
	size := int(dexHeaderSize) + len(payload)
	b := make([]byte, size)
	copy(b, "dex\n035\x00")
	copy(b[12:32], bytes.Repeat([]byte{0xAB}, 20)) // signature, not validated here
	binary.LittleEndian.PutUint32(b[32:], uint32(size))
	binary.LittleEndian.PutUint32(b[36:], dexHeaderSize)
	binary.LittleEndian.PutUint32(b[40:], dexEndianConstant)
	binary.LittleEndian.PutUint32(b[104:], uint32(len(payload)))  // data size
	binary.LittleEndian.PutUint32(b[108:], dexHeaderSize)         // data off
	binary.LittleEndian.PutUint32(b[8:], HeaderChecksum(b))
	return b
}

type zipEntry struct {
	name   string
	data   []byte
	method uint16
	// crcOverride forges a wrong CRC in the archive metadata; only
	// honored for stored entries.
	crcOverride uint32
}

func makeZip(t *testing.T, entries []zipEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor())
	for _, e := range entries {
		if e.crcOverride != 0 {
			if e.method != zip.Store {
				t.Fatalf("crcOverride needs a stored entry, got method %d", e.method)
			}
			w, err := zw.CreateRaw(&zip.FileHeader{
				Name:               e.name,
				Method:             zip.Store,
				CRC32:              e.crcOverride,
				CompressedSize64:   uint64(len(e.data)),
				UncompressedSize64: uint64(len(e.data)),
			})
			if err != nil {
				t.Fatalf("CreateRaw %s: %v", e.name, err)
			}
			if _, err := w.Write(e.data); err != nil {
				t.Fatalf("write %s: %v", e.name, err)
			}
			continue
		}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: e.method})
		if err != nil {
			t.Fatalf("CreateHeader %s: %v", e.name, err)
		}
		if _, err := w.Write(e.data); err != nil {
			t.Fatalf("write %s: %v", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip writer: %v", err)
	}
	return buf.Bytes()
}

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("writing temp input: %v", err)
	}
	return path
}

func openTemp(t *testing.T, data []byte) *os.File {
	t.Helper()
	f, err := os.Open(writeTemp(t, data))
	if err != nil {
		t.Fatalf("opening temp input: %v", err)
	}
	return f
}
