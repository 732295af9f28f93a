package dexload

// StructuralVerifier checks the internal structure of a single dex
// unit: its tables, offsets and bytecode. Implementations are external
// to this package; the loader only dispatches to one when structure
// verification is requested.
type StructuralVerifier interface {
	VerifyDex(data []byte, location string) error
}

// verifyStructure runs the per-unit structural checks: the header has
// already been parsed and sanity-checked, so only the external verifier
// remains. A nil verifier means header checks are all the caller asked
// this package to do.
func verifyStructure(cfg *openConfig, data []byte, location string) error {
	if !cfg.verifyStructure || cfg.verifier == nil {
		return nil
	}
	if err := cfg.verifier.VerifyDex(data, location); err != nil {
		return &VerificationError{Location: location, Err: err}
	}
	return nil
}
