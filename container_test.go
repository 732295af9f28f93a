package dexload

import (
	"errors"
	"testing"
)

func TestContainer_SharedRelease(t *testing.T) {
	region := NewMappedRegion(make([]byte, 16))
	c := newContainer(region)

	c.retain() // a handle's share
	if err := c.release(); err != nil {
		t.Fatalf("creator release: %v", err)
	}
	if region.Len() == 0 {
		t.Fatal("region released while a reference remains")
	}
	if err := c.release(); err != nil {
		t.Fatalf("final release: %v", err)
	}
	if region.Len() != 0 {
		t.Fatal("region still alive after last release")
	}
}

func TestMappedRegion_ReleaseIdempotent(t *testing.T) {
	region := NewMappedRegion(make([]byte, 8))
	if err := region.release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := region.release(); err != nil {
		t.Fatalf("second release: %v", err)
	}
}

func TestDexFile_DoubleClose(t *testing.T) {
	dex := makeDex(t, []byte("close me"))
	f, err := OpenSingle(dex, "mem:unit", HeaderChecksum(dex))
	if err != nil {
		t.Fatalf("OpenSingle: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := f.Close(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestMapFile(t *testing.T) {
	dex := makeDex(t, []byte("map me"))
	f := openTemp(t, dex)
	defer f.Close()

	region, err := MapFile(f, MapPrivate)
	if err != nil {
		t.Fatalf("MapFile: %v", err)
	}
	if region.Len() != len(dex) {
		t.Fatalf("region length %d, want %d", region.Len(), len(dex))
	}
	handle, err := OpenMappedRegion(region, "mapped.dex", HeaderChecksum(dex))
	if err != nil {
		t.Fatalf("OpenMappedRegion: %v", err)
	}
	if err := handle.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
