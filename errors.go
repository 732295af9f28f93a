package dexload

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownFormat       = errors.New("dexload: unknown container format")
	ErrMissingPrimaryEntry = errors.New("dexload: archive has no classes.dex entry")
	ErrContainerCorrupt    = errors.New("dexload: container corrupt")
	ErrInvalidHeader       = errors.New("dexload: invalid dex header")
	ErrChecksumMismatch    = errors.New("dexload: checksum mismatch")
	ErrVerification        = errors.New("dexload: structural verification failed")
	ErrLimitExceeded       = errors.New("dexload: limit exceeded")
	ErrResourceExhausted   = errors.New("dexload: resource exhausted")
	ErrClosed              = errors.New("dexload: use after Close")
)

// ChecksumError reports a checksum disagreement for one dex unit.
// It unwraps to ErrChecksumMismatch.
type ChecksumError struct {
	Location string
	Expected uint32
	Actual   uint32
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("dexload: checksum mismatch for %s: expected 0x%08x, actual 0x%08x",
		e.Location, e.Expected, e.Actual)
}

func (e *ChecksumError) Unwrap() error { return ErrChecksumMismatch }

// VerificationError reports a structural verifier rejection for one dex
// unit. It unwraps to ErrVerification and to the verifier's own error.
type VerificationError struct {
	Location string
	Err      error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("dexload: verification of %s failed: %v", e.Location, e.Err)
}

func (e *VerificationError) Unwrap() []error { return []error{ErrVerification, e.Err} }

// EntryError attributes a failure to a single multidex entry. Best-effort
// opens join one EntryError per failed entry into the returned error
// while still returning the sibling handles that opened cleanly.
type EntryError struct {
	Location string
	Err      error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("dexload: entry %s: %v", e.Location, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }
