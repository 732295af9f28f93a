//go:build !unix

package dexload

import (
	"fmt"
	"os"
)

// mapFile reads size bytes of f into heap memory on platforms without
// a usable mmap. Callers see the same MappedRegion contract either way.
func mapFile(f *os.File, size int64, _ MappingMode) (*MappedRegion, error) {
	if size != int64(int(size)) {
		return nil, fmt.Errorf("%w: cannot buffer %d bytes", ErrResourceExhausted, size)
	}
	buf := make([]byte, size)
	if _, err := f.ReadAt(buf, 0); err != nil {
		return nil, fmt.Errorf("dexload: read %s: %w", f.Name(), err)
	}
	return &MappedRegion{data: buf}, nil
}

func unmapRegion([]byte) error { return nil }
