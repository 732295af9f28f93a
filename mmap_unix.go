//go:build unix

package dexload

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mapFile maps size bytes of f from offset zero, read-only.
func mapFile(f *os.File, size int64, mode MappingMode) (*MappedRegion, error) {
	if size != int64(int(size)) {
		return nil, fmt.Errorf("%w: cannot map %d bytes", ErrResourceExhausted, size)
	}
	flags := unix.MAP_PRIVATE
	if mode == MapShared {
		flags = unix.MAP_SHARED
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, flags)
	if err != nil {
		if err == unix.ENOMEM {
			return nil, fmt.Errorf("%w: mmap of %d bytes: %v", ErrResourceExhausted, size, err)
		}
		return nil, fmt.Errorf("dexload: mmap %s: %w", f.Name(), err)
	}
	return &MappedRegion{data: data, mapped: true}, nil
}

func unmapRegion(data []byte) error {
	return unix.Munmap(data)
}
