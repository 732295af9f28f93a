package dexload

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

// archive wraps the zip capability behind the few operations multidex
// resolution needs: entry lookup, CRC and compression-method queries,
// and extraction into owned memory.
type archive struct {
	zr    *zip.Reader
	f     *os.File
	owned bool
	size  int64
}

// openArchive wraps f in a zip reader. Owned inputs are adopted: the
// archive closes them on close(), and openArchive itself closes them
// when the central directory cannot be read. Borrowed inputs are never
// closed.
func openArchive(f *os.File, ownership Ownership) (*archive, error) {
	st, err := f.Stat()
	if err != nil {
		releaseInput(f, ownership)
		return nil, fmt.Errorf("dexload: stat %s: %w", f.Name(), err)
	}
	zr, err := zip.NewReader(f, st.Size())
	if err != nil {
		releaseInput(f, ownership)
		return nil, fmt.Errorf("%w: %v", ErrContainerCorrupt, err)
	}
	// Method 93 entries show up in archives repacked by zstd-aware
	// tooling; deflate and store are handled natively.
	zr.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())
	return &archive{zr: zr, f: f, owned: ownership == Owned, size: st.Size()}, nil
}

func (a *archive) close() error {
	if a.owned {
		a.owned = false
		return a.f.Close()
	}
	return nil
}

// find returns the named file entry, or nil when absent.
func (a *archive) find(name string) *zip.File {
	for _, zf := range a.zr.File {
		if zf.Name == name && !zf.FileInfo().IsDir() {
			return zf
		}
	}
	return nil
}

// multiDexEntries probes classes.dex, classes2.dex, classes3.dex, ...
// and stops at the first absent suffix. The presence set is contiguous
// by construction: an entry beyond a gap is never surfaced. An archive
// without the primary entry is an error.
func (a *archive) multiDexEntries(limits Limits) ([]*zip.File, error) {
	var entries []*zip.File
	for n := 1; ; n++ {
		zf := a.find(multiDexEntryName(n))
		if zf == nil {
			break
		}
		if n > limits.MaxMultiDexEntries {
			return nil, fmt.Errorf("%w: more than %d multidex entries",
				ErrLimitExceeded, limits.MaxMultiDexEntries)
		}
		entries = append(entries, zf)
	}
	if len(entries) == 0 {
		return nil, ErrMissingPrimaryEntry
	}
	return entries, nil
}

// allStored reports whether every entry is stored uncompressed, the
// precondition for backing all units with one shared archive mapping.
func allStored(entries []*zip.File) bool {
	for _, zf := range entries {
		if zf.Method != zip.Store {
			return false
		}
	}
	return true
}

// extract decompresses one entry into an independently owned buffer.
// A CRC disagreement is not an extraction failure here: the bytes are
// returned in full and the checksum validator owns that comparison, so
// the mismatch can be attributed to the entry's dex location.
func (a *archive) extract(zf *zip.File, limits Limits) ([]byte, error) {
	if zf.UncompressedSize64 > limits.MaxDexSize {
		return nil, fmt.Errorf("%w: entry %s declares %d bytes",
			ErrLimitExceeded, zf.Name, zf.UncompressedSize64)
	}
	rc, err := zf.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: opening entry %s: %v", ErrContainerCorrupt, zf.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil && !errors.Is(err, zip.ErrChecksum) {
		return nil, fmt.Errorf("%w: extracting entry %s: %v", ErrContainerCorrupt, zf.Name, err)
	}
	if uint64(len(data)) != zf.UncompressedSize64 {
		return nil, fmt.Errorf("%w: entry %s yielded %d bytes, declared %d",
			ErrContainerCorrupt, zf.Name, len(data), zf.UncompressedSize64)
	}
	return data, nil
}

// storedExtent locates an uncompressed entry's bytes inside the mapped
// archive file.
func storedExtent(region *MappedRegion, zf *zip.File) ([]byte, error) {
	off, err := zf.DataOffset()
	if err != nil {
		return nil, fmt.Errorf("%w: entry %s: %v", ErrContainerCorrupt, zf.Name, err)
	}
	end := off + int64(zf.UncompressedSize64)
	data := region.Bytes()
	if off < 0 || end < off || end > int64(len(data)) {
		return nil, fmt.Errorf("%w: entry %s extent [%d, %d) outside archive of %d bytes",
			ErrContainerCorrupt, zf.Name, off, end, len(data))
	}
	return data[off:end:end], nil
}
