package dexload

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// releaseInput closes f when this call owns it. Keeping the
// owned-versus-borrowed contract in one routine means every error path
// uses the same cleanup instead of duplicating it per call site.
func releaseInput(f *os.File, ownership Ownership) {
	if ownership == Owned {
		_ = f.Close()
	}
}

// checksumKind selects how a unit's checksum is computed and what it
// is compared against.
type checksumKind uint8

const (
	sumHeader checksumKind = iota // Adler-32 against the header field
	sumCaller                     // Adler-32 against a caller-supplied value
	sumEntry                      // CRC32 against the archive entry CRC
)

// checkUnit parses one dex extent and runs the requested checks in
// order: header consistency, checksum, structural verifier. It returns
// the parsed header, the unit checksum to record on the handle, and
// whether checksum verification ran.
func checkUnit(data []byte, location string, expected uint32, kind checksumKind, cfg *openConfig) (DexHeader, uint32, bool, error) {
	h, err := parseHeader(data)
	if err != nil {
		return h, 0, false, err
	}
	sum := expected
	if kind == sumHeader {
		sum = h.Checksum
	}
	verified := false
	if cfg.verifyChecksum {
		var actual uint32
		switch kind {
		case sumEntry:
			actual = entryChecksum(data)
		default:
			actual = HeaderChecksum(data)
		}
		if err := compareChecksum(location, sum, actual); err != nil {
			return h, sum, false, err
		}
		verified = true
	}
	if err := verifyStructure(cfg, data, location); err != nil {
		return h, sum, verified, err
	}
	return h, sum, verified, nil
}

// Open resolves path into its ordered dex units, dispatching on the
// file magic: a raw dex file yields one handle, a zip archive yields
// one handle per classesN.dex entry.
func Open(path string, opts ...OpenOption) ([]*DexFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dexload: open %s: %w", path, err)
	}
	return OpenFile(f, Owned, path, opts...)
}

// OpenFile is the umbrella entry point over an already-open file.
// Owned inputs are closed on every path; Borrowed inputs never are.
// The location string is the caller's label for the input, used for
// derived multidex locations and error attribution.
func OpenFile(f *os.File, ownership Ownership, location string, opts ...OpenOption) ([]*DexFile, error) {
	cfg := newOpenConfig(opts)
	format, err := detectReaderAt(f)
	if err != nil {
		releaseInput(f, ownership)
		return nil, err
	}
	switch format {
	case FormatDex:
		h, err := openDexFromFile(f, ownership, location, &cfg)
		if err != nil {
			return nil, err
		}
		return []*DexFile{h}, nil
	case FormatZip:
		return openAllFromArchive(f, ownership, location, &cfg)
	default:
		releaseInput(f, ownership)
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, location)
	}
}

// OpenZip opens every multidex entry of a zip archive, adopting f.
func OpenZip(f *os.File, location string, opts ...OpenOption) ([]*DexFile, error) {
	cfg := newOpenConfig(opts)
	return openAllFromArchive(f, Owned, location, &cfg)
}

// OpenZipBorrowed is OpenZip without adopting f: the caller keeps
// ownership and f is never closed, not even on error.
func OpenZipBorrowed(f *os.File, location string, opts ...OpenOption) ([]*DexFile, error) {
	cfg := newOpenConfig(opts)
	return openAllFromArchive(f, Borrowed, location, &cfg)
}

// OpenSingle wraps a caller-owned byte extent holding one dex unit.
// The extent must stay alive and unmodified for the handle's lifetime;
// closing the handle does not free it.
func OpenSingle(data []byte, location string, expectedChecksum uint32, opts ...OpenOption) (*DexFile, error) {
	cfg := newOpenConfig(opts)
	h, sum, verified, err := checkUnit(data, location, expectedChecksum, sumCaller, &cfg)
	if err != nil {
		return nil, err
	}
	return &DexFile{
		location: location,
		checksum: sum,
		header:   h,
		data:     data,
		verified: verified,
		c:        newContainer(nil),
	}, nil
}

// OpenMappedRegion wraps a region the caller already mapped, adopting
// it: the region is released by the returned handle's Close, or before
// returning when the open fails.
func OpenMappedRegion(region *MappedRegion, location string, expectedChecksum uint32, opts ...OpenOption) (*DexFile, error) {
	cfg := newOpenConfig(opts)
	return openRegion(region, location, expectedChecksum, sumCaller, &cfg)
}

// openDexFromFile materializes a direct dex file as a single mapped
// unit. The descriptor is not needed once the mapping exists, so owned
// inputs are closed right after mapping, on success and failure alike.
func openDexFromFile(f *os.File, ownership Ownership, location string, cfg *openConfig) (*DexFile, error) {
	st, err := f.Stat()
	if err != nil {
		releaseInput(f, ownership)
		return nil, fmt.Errorf("dexload: stat %s: %w", location, err)
	}
	if uint64(st.Size()) > cfg.limits.MaxDexSize {
		releaseInput(f, ownership)
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrLimitExceeded, location, st.Size())
	}
	region, err := mapFile(f, st.Size(), cfg.mappingMode)
	releaseInput(f, ownership)
	if err != nil {
		return nil, err
	}
	return openRegion(region, location, 0, sumHeader, cfg)
}

// openRegion adopts region and wraps it into one handle, releasing it
// on every error path.
func openRegion(region *MappedRegion, location string, expected uint32, kind checksumKind, cfg *openConfig) (*DexFile, error) {
	h, sum, verified, err := checkUnit(region.Bytes(), location, expected, kind, cfg)
	if err != nil {
		_ = region.release()
		return nil, err
	}
	return &DexFile{
		location: location,
		checksum: sum,
		header:   h,
		data:     region.Bytes(),
		verified: verified,
		c:        newContainer(region),
	}, nil
}

func openAllFromArchive(f *os.File, ownership Ownership, location string, cfg *openConfig) ([]*DexFile, error) {
	a, err := openArchive(f, ownership)
	if err != nil {
		return nil, err
	}
	handles, err := openArchiveEntries(a, location, cfg)
	if err != nil && (handles == nil || !cfg.bestEffort) {
		_ = a.close()
		return nil, err
	}
	if cerr := a.close(); cerr != nil {
		closeHandles(handles)
		return nil, fmt.Errorf("dexload: closing archive %s: %w", location, cerr)
	}
	return handles, err
}

// openArchiveEntries walks the multidex entry set in order. The default
// contract is all-or-nothing: a failing entry releases everything this
// call built and fails the call. Best-effort mode instead records an
// EntryError per failing entry and keeps going, so one bad entry does
// not take its siblings down.
func openArchiveEntries(a *archive, location string, cfg *openConfig) ([]*DexFile, error) {
	entries, err := a.multiDexEntries(cfg.limits)
	if err != nil {
		return nil, err
	}

	// All entries stored and sharing allowed: one mapping of the whole
	// archive backs every unit, refcounted until the last handle closes.
	var shared *container
	if cfg.mappingMode == MapShared && allStored(entries) {
		region, err := mapFile(a.f, a.size, MapShared)
		if err != nil {
			return nil, err
		}
		shared = newContainer(region)
	}

	var handles []*DexFile
	var entryErrs []error
	for i, zf := range entries {
		loc := MultiDexLocation(location, i+1)
		var data []byte
		var err error
		if shared != nil {
			data, err = storedExtent(shared.region, zf)
		} else {
			data, err = a.extract(zf, cfg.limits)
		}
		var h *DexFile
		if err == nil {
			h, err = openArchiveUnit(shared, data, zf.CRC32, loc, cfg)
		}
		if err != nil {
			if cfg.bestEffort {
				entryErrs = append(entryErrs, &EntryError{Location: loc, Err: err})
				continue
			}
			closeHandles(handles)
			if shared != nil {
				_ = shared.release()
			}
			return nil, &EntryError{Location: loc, Err: err}
		}
		handles = append(handles, h)
	}
	if shared != nil {
		// Drop the creator reference; the handles keep their own.
		_ = shared.release()
	}
	if len(entryErrs) > 0 {
		return handles, errors.Join(entryErrs...)
	}
	return handles, nil
}

// openArchiveUnit builds the handle for one entry extent. A nil shared
// container means the extent is an independently owned buffer.
func openArchiveUnit(shared *container, data []byte, crc uint32, location string, cfg *openConfig) (*DexFile, error) {
	h, sum, verified, err := checkUnit(data, location, crc, sumEntry, cfg)
	if err != nil {
		return nil, err
	}
	c := shared
	if c != nil {
		c.retain()
	} else {
		c = newContainer(nil)
	}
	return &DexFile{
		location: location,
		checksum: sum,
		header:   h,
		data:     data,
		verified: verified,
		c:        c,
	}, nil
}

// MultiDexChecksums answers "what are the locations and checksums of
// the units behind path" without materializing any byte extents. The
// boolean result reports whether every archive entry is stored
// uncompressed; it is true for a direct dex file.
func MultiDexChecksums(path string, opts ...OpenOption) ([]DexChecksum, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, fmt.Errorf("dexload: open %s: %w", path, err)
	}
	return MultiDexChecksumsFile(f, Owned, path, opts...)
}

// MultiDexChecksumsFile is MultiDexChecksums over an already-open file
// with an explicit ownership tag. For a direct dex file the checksum is
// the one stored in the header; for an archive it is each entry's CRC32
// straight from the central directory.
func MultiDexChecksumsFile(f *os.File, ownership Ownership, location string, opts ...OpenOption) ([]DexChecksum, bool, error) {
	cfg := newOpenConfig(opts)
	format, err := detectReaderAt(f)
	if err != nil {
		releaseInput(f, ownership)
		return nil, false, err
	}
	switch format {
	case FormatDex:
		sum, err := readHeaderChecksum(f, location)
		releaseInput(f, ownership)
		if err != nil {
			return nil, false, err
		}
		return []DexChecksum{{Location: location, Checksum: sum}}, true, nil
	case FormatZip:
		a, err := openArchive(f, ownership)
		if err != nil {
			return nil, false, err
		}
		entries, err := a.multiDexEntries(cfg.limits)
		if err != nil {
			_ = a.close()
			return nil, false, err
		}
		sums := make([]DexChecksum, len(entries))
		for i, zf := range entries {
			sums[i] = DexChecksum{Location: MultiDexLocation(location, i+1), Checksum: zf.CRC32}
		}
		uncompressed := allStored(entries)
		if cerr := a.close(); cerr != nil {
			return nil, false, fmt.Errorf("dexload: closing archive %s: %w", location, cerr)
		}
		return sums, uncompressed, nil
	default:
		releaseInput(f, ownership)
		return nil, false, fmt.Errorf("%w: %s", ErrUnknownFormat, location)
	}
}

// readHeaderChecksum pulls the stored checksum out of a direct dex
// file's header without mapping the file.
func readHeaderChecksum(f *os.File, location string) (uint32, error) {
	st, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("dexload: stat %s: %w", location, err)
	}
	var buf [dexHeaderSize]byte
	if _, err := f.ReadAt(buf[:], 0); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, fmt.Errorf("%w: %s is shorter than the %d-byte header",
				ErrInvalidHeader, location, dexHeaderSize)
		}
		return 0, fmt.Errorf("dexload: read %s: %w", location, err)
	}
	h, err := parseHeaderWithExtent(buf[:], uint64(st.Size()))
	if err != nil {
		return 0, err
	}
	return h.Checksum, nil
}
