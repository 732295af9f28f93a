package dexload

import (
	"hash/adler32"
	"hash/crc32"
)

// HeaderChecksum computes the Adler-32 checksum a well-formed dex
// header stores at offset 8: it covers every byte after the magic and
// the checksum field itself.
func HeaderChecksum(data []byte) uint32 {
	if len(data) < dexChecksumDataStart {
		return 0
	}
	return adler32.Checksum(data[dexChecksumDataStart:])
}

// entryChecksum is the CRC32 an archive records for an entry's
// uncompressed bytes.
func entryChecksum(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// compareChecksum returns a ChecksumError naming location unless the
// two values agree.
func compareChecksum(location string, expected, actual uint32) error {
	if expected != actual {
		return &ChecksumError{Location: location, Expected: expected, Actual: actual}
	}
	return nil
}
