package dexload

import "sync/atomic"

// container owns the backing resource shared by one or more handles.
// The creator holds the initial reference; every handle built on top
// retains one more. The resource is released when the last reference
// is dropped, whichever side drops it.
type container struct {
	refs   atomic.Int32
	region *MappedRegion // nil when the memory is caller-owned or plain heap
}

func newContainer(region *MappedRegion) *container {
	c := &container{region: region}
	c.refs.Store(1)
	return c
}

func (c *container) retain() { c.refs.Add(1) }

func (c *container) release() error {
	if c.refs.Add(-1) == 0 && c.region != nil {
		return c.region.release()
	}
	return nil
}

// DexFile is a read-only handle to one verified, addressable dex unit.
type DexFile struct {
	location string
	checksum uint32
	header   DexHeader
	data     []byte
	verified bool

	c      *container
	closed atomic.Bool
}

// Location returns the unit's externally visible identity: the request
// location for the first unit, location + "!classesN.dex" for later
// multidex units.
func (d *DexFile) Location() string { return d.location }

// Checksum returns the unit checksum: the header Adler-32 for direct
// dex units, the archive entry CRC32 for archive members.
func (d *DexFile) Checksum() uint32 { return d.checksum }

// Header returns the parsed dex header.
func (d *DexFile) Header() DexHeader { return d.header }

// Bytes returns the unit's byte extent. The slice is read-only and
// valid only until Close.
func (d *DexFile) Bytes() []byte { return d.data }

// Size returns the extent length in bytes.
func (d *DexFile) Size() int { return len(d.data) }

// Verified reports whether checksum verification ran and passed for
// this unit.
func (d *DexFile) Verified() bool { return d.verified }

// Close releases this handle's share of the backing container. The
// last handle to close releases the underlying mapping or buffer.
func (d *DexFile) Close() error {
	if d.closed.Swap(true) {
		return ErrClosed
	}
	return d.c.release()
}

func closeHandles(handles []*DexFile) {
	for _, h := range handles {
		_ = h.Close()
	}
}
