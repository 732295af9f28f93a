package dexload

type Limits struct {
	MaxDexSize         uint64 // byte size cap for a single dex unit
	MaxMultiDexEntries int    // cap on the classesN.dex probe
}

func defaultLimits() Limits {
	return Limits{
		MaxDexSize:         1 << 30, // 1 GiB
		MaxMultiDexEntries: 10_000,
	}
}

func (l Limits) withDefaults() Limits {
	d := defaultLimits()
	if l.MaxDexSize == 0 {
		l.MaxDexSize = d.MaxDexSize
	}
	if l.MaxMultiDexEntries == 0 {
		l.MaxMultiDexEntries = d.MaxMultiDexEntries
	}
	return l
}
