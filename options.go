package dexload

type openConfig struct {
	limits          Limits
	verifyChecksum  bool
	verifyStructure bool
	verifier        StructuralVerifier
	mappingMode     MappingMode
	bestEffort      bool
}

func newOpenConfig(opts []OpenOption) openConfig {
	cfg := openConfig{
		limits:          defaultLimits(),
		verifyChecksum:  true,
		verifyStructure: true,
		mappingMode:     MapPrivate,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()
	return cfg
}

type OpenOption func(*openConfig)

func WithLimits(l Limits) OpenOption {
	return func(c *openConfig) { c.limits = l }
}

// WithVerifyChecksum controls per-unit checksum verification. When
// disabled, handles are still constructed but report Verified() false.
func WithVerifyChecksum(v bool) OpenOption {
	return func(c *openConfig) { c.verifyChecksum = v }
}

// WithVerifyStructure controls the structural checks run on each unit:
// header consistency always, plus the verifier installed via
// WithVerifier if any.
func WithVerifyStructure(v bool) OpenOption {
	return func(c *openConfig) { c.verifyStructure = v }
}

// WithVerifier installs an external structural verifier invoked for
// each unit when structure verification is enabled.
func WithVerifier(v StructuralVerifier) OpenOption {
	return func(c *openConfig) { c.verifier = v }
}

// WithMappingMode selects private-copy versus shared-mapping backing.
// See MappingMode.
func WithMappingMode(m MappingMode) OpenOption {
	return func(c *openConfig) { c.mappingMode = m }
}

// WithBestEffort changes archive opens from all-or-nothing to
// best-effort: entries that fail to open are reported as EntryError
// values joined into the returned error, and the handles of the
// entries that succeeded are still returned.
func WithBestEffort(v bool) OpenOption {
	return func(c *openConfig) { c.bestEffort = v }
}
