package dexload

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		name   string
		prefix []byte
		want   Format
	}{
		{"dex", []byte("dex\n035\x00"), FormatDex},
		{"zip", []byte{'P', 'K', 0x03, 0x04, 0x14, 0x00}, FormatZip},
		{"short", []byte("de"), FormatUnknown},
		{"empty", nil, FormatUnknown},
		{"garbage", []byte{0xDE, 0xAD, 0xBE, 0xEF}, FormatUnknown},
		{"elf", []byte{0x7F, 'E', 'L', 'F'}, FormatUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectFormat(tc.prefix); got != tc.want {
				t.Fatalf("DetectFormat(% x) = %v, want %v", tc.prefix, got, tc.want)
			}
		})
	}
}

func TestParseHeader_Valid(t *testing.T) {
	data := makeDex(t, []byte("payload"))
	h, err := parseHeader(data)
	if err != nil {
		t.Fatalf("parseHeader: %v", err)
	}
	if h.FileSize != uint32(len(data)) {
		t.Fatalf("FileSize = %d, want %d", h.FileSize, len(data))
	}
	if h.HeaderSize != dexHeaderSize {
		t.Fatalf("HeaderSize = %d", h.HeaderSize)
	}
	if h.Checksum != HeaderChecksum(data) {
		t.Fatalf("stored checksum 0x%08x != computed 0x%08x", h.Checksum, HeaderChecksum(data))
	}
}

func TestParseHeader_Invalid(t *testing.T) {
	corrupt := func(mut func([]byte)) []byte {
		data := makeDex(t, nil)
		mut(data)
		return data
	}
	cases := []struct {
		name string
		data []byte
	}{
		{"short", []byte("dex\n035\x00")},
		{"bad magic", corrupt(func(b []byte) { b[0] = 'x' })},
		{"bad version", corrupt(func(b []byte) { b[4] = 'a' })},
		{"unterminated version", corrupt(func(b []byte) { b[7] = '9' })},
		{"bad endian tag", corrupt(func(b []byte) { binary.LittleEndian.PutUint32(b[40:], 0) })},
		{"reverse endian", corrupt(func(b []byte) { binary.LittleEndian.PutUint32(b[40:], dexReverseEndian) })},
		{"header size too small", corrupt(func(b []byte) { binary.LittleEndian.PutUint32(b[36:], 16) })},
		{"file size beyond extent", corrupt(func(b []byte) { binary.LittleEndian.PutUint32(b[32:], 4096) })},
		{"file size below header", corrupt(func(b []byte) { binary.LittleEndian.PutUint32(b[32:], 16) })},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseHeader(tc.data); !errors.Is(err, ErrInvalidHeader) {
				t.Fatalf("expected ErrInvalidHeader, got %v", err)
			}
		})
	}
}

func TestParseHeaderWithExtent(t *testing.T) {
	data := makeDex(t, []byte("0123456789"))
	header := data[:dexHeaderSize]

	// Knowing the true extent makes the header-only prefix parseable.
	if _, err := parseHeaderWithExtent(header, uint64(len(data))); err != nil {
		t.Fatalf("parseHeaderWithExtent: %v", err)
	}
	// The header alone claims a larger file than its own length.
	if _, err := parseHeader(header); !errors.Is(err, ErrInvalidHeader) {
		t.Fatalf("expected ErrInvalidHeader, got %v", err)
	}
}
