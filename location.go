package dexload

import "fmt"

// PrimaryEntryName is the archive entry holding the first dex unit.
const PrimaryEntryName = "classes.dex"

// multiDexSeparator joins a container location with the entry name of a
// secondary multidex unit.
const multiDexSeparator = '!'

// multiDexEntryName returns the archive entry name for the unit with
// 1-based index n: "classes.dex", "classes2.dex", "classes3.dex", ...
func multiDexEntryName(n int) string {
	if n == 1 {
		return PrimaryEntryName
	}
	return fmt.Sprintf("classes%d.dex", n)
}

// MultiDexLocation derives the externally visible location of the unit
// with 1-based index n inside the container identified by base. The
// first unit keeps the container location unchanged; later units get
// the entry name appended after a '!' separator.
func MultiDexLocation(base string, n int) string {
	if n == 1 {
		return base
	}
	return fmt.Sprintf("%s%c%s", base, multiDexSeparator, multiDexEntryName(n))
}
