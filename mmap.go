package dexload

import (
	"fmt"
	"os"
)

// MappedRegion is a read-only byte extent backed either by an OS file
// mapping or by heap memory. A region is released exactly once, by the
// container that ends up owning it; callers that hand a region to
// OpenMappedRegion transfer that responsibility.
type MappedRegion struct {
	data     []byte
	mapped   bool
	released bool
}

// NewMappedRegion wraps caller-owned memory in a region. Releasing such
// a region only drops the reference; the memory stays with the caller.
func NewMappedRegion(data []byte) *MappedRegion {
	return &MappedRegion{data: data}
}

// MapFile maps the whole of f read-only. The returned region stays
// valid after f is closed. Mode selects private or shared backing.
func MapFile(f *os.File, mode MappingMode) (*MappedRegion, error) {
	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("dexload: stat %s: %w", f.Name(), err)
	}
	if st.Size() == 0 {
		return nil, fmt.Errorf("dexload: cannot map empty file %s", f.Name())
	}
	return mapFile(f, st.Size(), mode)
}

// Bytes returns the mapped extent. The slice is read-only and valid
// only until the region is released.
func (r *MappedRegion) Bytes() []byte { return r.data }

// Len returns the extent length in bytes.
func (r *MappedRegion) Len() int { return len(r.data) }

func (r *MappedRegion) release() error {
	if r.released {
		return nil
	}
	r.released = true
	data := r.data
	r.data = nil
	if r.mapped {
		return unmapRegion(data)
	}
	return nil
}
