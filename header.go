package dexload

import (
	"encoding/binary"
	"fmt"
	"io"
)

// DetectFormat classifies a magic prefix without consuming input.
// Prefixes shorter than four bytes classify as FormatUnknown; the
// caller decides whether that is an error.
func DetectFormat(prefix []byte) Format {
	if len(prefix) < 4 {
		return FormatUnknown
	}
	switch {
	case prefix[0] == DexMagicPrefix[0] && prefix[1] == DexMagicPrefix[1] &&
		prefix[2] == DexMagicPrefix[2] && prefix[3] == DexMagicPrefix[3]:
		return FormatDex
	case prefix[0] == ZipMagicPrefix[0] && prefix[1] == ZipMagicPrefix[1] &&
		prefix[2] == ZipMagicPrefix[2] && prefix[3] == ZipMagicPrefix[3]:
		return FormatZip
	default:
		return FormatUnknown
	}
}

// detectReaderAt classifies the container behind ra without moving any
// read offset. Inputs too short to hold a magic are FormatUnknown.
func detectReaderAt(ra io.ReaderAt) (Format, error) {
	var prefix [4]byte
	n, err := ra.ReadAt(prefix[:], 0)
	if err != nil && err != io.EOF {
		return FormatUnknown, fmt.Errorf("dexload: reading magic: %w", err)
	}
	return DetectFormat(prefix[:n]), nil
}

// parseHeader decodes and sanity-checks the fixed dex header against
// the extent that holds it.
func parseHeader(data []byte) (DexHeader, error) {
	return parseHeaderWithExtent(data, uint64(len(data)))
}

// parseHeaderWithExtent is parseHeader for callers that only read the
// header bytes themselves but know the size of the full extent, such
// as the checksum-only path that never materializes the unit.
func parseHeaderWithExtent(data []byte, extent uint64) (DexHeader, error) {
	var h DexHeader
	if uint64(len(data)) < uint64(dexHeaderSize) {
		return h, fmt.Errorf("%w: %d bytes is shorter than the %d-byte header",
			ErrInvalidHeader, len(data), dexHeaderSize)
	}
	copy(h.Magic[:], data[0:8])
	if DetectFormat(h.Magic[:4]) != FormatDex {
		return h, fmt.Errorf("%w: bad magic % x", ErrInvalidHeader, h.Magic[:4])
	}
	if err := checkDexVersion(h.Magic); err != nil {
		return h, err
	}
	h.Checksum = binary.LittleEndian.Uint32(data[8:12])
	copy(h.Signature[:], data[12:32])
	h.FileSize = binary.LittleEndian.Uint32(data[32:36])
	h.HeaderSize = binary.LittleEndian.Uint32(data[36:40])
	h.EndianTag = binary.LittleEndian.Uint32(data[40:44])
	h.LinkSize = binary.LittleEndian.Uint32(data[44:48])
	h.LinkOff = binary.LittleEndian.Uint32(data[48:52])
	h.MapOff = binary.LittleEndian.Uint32(data[52:56])
	h.StringIdsSize = binary.LittleEndian.Uint32(data[56:60])
	h.StringIdsOff = binary.LittleEndian.Uint32(data[60:64])
	h.TypeIdsSize = binary.LittleEndian.Uint32(data[64:68])
	h.TypeIdsOff = binary.LittleEndian.Uint32(data[68:72])
	h.ProtoIdsSize = binary.LittleEndian.Uint32(data[72:76])
	h.ProtoIdsOff = binary.LittleEndian.Uint32(data[76:80])
	h.FieldIdsSize = binary.LittleEndian.Uint32(data[80:84])
	h.FieldIdsOff = binary.LittleEndian.Uint32(data[84:88])
	h.MethodIdsSize = binary.LittleEndian.Uint32(data[88:92])
	h.MethodIdsOff = binary.LittleEndian.Uint32(data[92:96])
	h.ClassDefsSize = binary.LittleEndian.Uint32(data[96:100])
	h.ClassDefsOff = binary.LittleEndian.Uint32(data[100:104])
	h.DataSize = binary.LittleEndian.Uint32(data[104:108])
	h.DataOff = binary.LittleEndian.Uint32(data[108:112])

	if h.EndianTag != dexEndianConstant {
		if h.EndianTag == dexReverseEndian {
			return h, fmt.Errorf("%w: big-endian dex is not supported", ErrInvalidHeader)
		}
		return h, fmt.Errorf("%w: endian tag 0x%08x", ErrInvalidHeader, h.EndianTag)
	}
	if h.HeaderSize < dexHeaderSize {
		return h, fmt.Errorf("%w: header size %d", ErrInvalidHeader, h.HeaderSize)
	}
	if uint64(h.FileSize) > extent {
		return h, fmt.Errorf("%w: file size %d exceeds extent of %d bytes",
			ErrInvalidHeader, h.FileSize, extent)
	}
	if h.FileSize < dexHeaderSize {
		return h, fmt.Errorf("%w: file size %d", ErrInvalidHeader, h.FileSize)
	}
	return h, nil
}

// checkDexVersion accepts magics of the form "dex\n" NNN "\x00" where
// NNN are ASCII digits. The loader is version-agnostic beyond that; the
// structural verifier is the place for per-version rules.
func checkDexVersion(magic [8]byte) error {
	for _, c := range magic[4:7] {
		if c < '0' || c > '9' {
			return fmt.Errorf("%w: bad version bytes % x", ErrInvalidHeader, magic[4:])
		}
	}
	if magic[7] != 0 {
		return fmt.Errorf("%w: bad version bytes % x", ErrInvalidHeader, magic[4:])
	}
	return nil
}
