package dexload

// DexMagicPrefix is the 4-byte signature opening every dex header. The
// following four bytes hold the format version ("035\x00" and newer).
var DexMagicPrefix = [4]byte{'d', 'e', 'x', '\n'}

// ZipMagicPrefix is the local-file-header signature of a zip archive.
var ZipMagicPrefix = [4]byte{'P', 'K', 0x03, 0x04}

const (
	dexHeaderSize     uint32 = 112
	dexEndianConstant uint32 = 0x12345678
	dexReverseEndian  uint32 = 0x78563412

	// The header checksum covers every byte after the magic and the
	// checksum field itself.
	dexChecksumDataStart = 12
)

// Format classifies the physical container backing an input.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatDex            // a single raw dex unit
	FormatZip            // a zip archive holding classesN.dex entries
)

func (f Format) String() string {
	switch f {
	case FormatDex:
		return "dex"
	case FormatZip:
		return "zip"
	default:
		return "unknown"
	}
}

// Ownership states whether a call adopts a caller-supplied *os.File.
// Owned inputs are closed by the loader on every path, success or error.
// Borrowed inputs are never closed, even on error.
type Ownership uint8

const (
	Owned Ownership = iota
	Borrowed
)

// MappingMode selects how file-backed extents are materialized.
//
// MapPrivate always gives each unit an independently owned private
// extent. MapShared permits a single read-only mapping of an archive to
// back every unit when all entries are stored uncompressed, and maps
// direct dex files with shared backing.
type MappingMode uint8

const (
	MapPrivate MappingMode = iota
	MapShared
)

// DexHeader is the fixed 112-byte header opening every dex unit.
type DexHeader struct {
	Magic         [8]byte
	Checksum      uint32
	Signature     [20]byte
	FileSize      uint32
	HeaderSize    uint32
	EndianTag     uint32
	LinkSize      uint32
	LinkOff       uint32
	MapOff        uint32
	StringIdsSize uint32
	StringIdsOff  uint32
	TypeIdsSize   uint32
	TypeIdsOff    uint32
	ProtoIdsSize  uint32
	ProtoIdsOff   uint32
	FieldIdsSize  uint32
	FieldIdsOff   uint32
	MethodIdsSize uint32
	MethodIdsOff  uint32
	ClassDefsSize uint32
	ClassDefsOff  uint32
	DataSize      uint32
	DataOff       uint32
}

// DexChecksum pairs a dex location with its checksum: the header
// checksum for a direct dex file, the archive entry CRC32 for archive
// members.
type DexChecksum struct {
	Location string
	Checksum uint32
}
