// Package dexload resolves an opaque input into one or more verified,
// addressable dex units, transparently handling inputs stored as a
// single raw .dex file or packed as numbered multidex entries inside a
// zip archive (.apk, .jar).
//
// # Container Resolution
//
// Every entry point starts from the same four magic bytes: "dex\n"
// selects the direct path, "PK\x03\x04" the archive path, anything
// else fails with ErrUnknownFormat. Archives are enumerated by probing
// classes.dex, classes2.dex, classes3.dex, ... until the first absent
// suffix; an entry beyond a gap in the numbering is never surfaced.
// Each resolved unit carries a location string: the input location for
// the first unit, location + "!classesN.dex" for later ones.
//
// # Resource Ownership
//
// Entry points taking an *os.File also take an Ownership tag. Owned
// inputs are closed by the loader on every path, including every error
// path; Borrowed inputs are never closed. Each returned DexFile holds
// a share of its backing container (a file mapping or an extracted
// buffer) and releases it on Close; when all entries of an archive are
// stored uncompressed and MapShared is selected, one mapping of the
// archive backs every handle and is released when the last one closes.
//
// # Basic Usage
//
// To open everything behind a path:
//
//	files, err := dexload.Open("app.apk")
//	if err != nil {
//		// handle error
//	}
//	defer func() {
//		for _, f := range files {
//			f.Close()
//		}
//	}()
//
// To answer "what are the checksums" without materializing anything:
//
//	sums, allStored, err := dexload.MultiDexChecksums("app.apk")
//
// # Verification
//
// Checksum verification (on by default) compares the header Adler-32
// for direct units and the archive entry CRC32 for archive members;
// mismatches surface as ChecksumError. Deep structural verification of
// a unit's tables and bytecode is delegated to a StructuralVerifier
// installed via WithVerifier.
package dexload
