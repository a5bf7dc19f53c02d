package simulate

import "errors"

// Estimation errors.
//
// Design decision: We use package-level sentinel errors rather than creating
// new error instances at each call site. This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Lookup misses are always surfaced, never silently
// defaulted, so a typo in a tissue or material name cannot produce a
// plausible-looking result.
var (
	// ErrUnknownTissue is returned when a tissue has no entry in the
	// baseline affinity table.
	ErrUnknownTissue = errors.New("unknown tissue: no baseline affinity entry")

	// ErrUnknownMaterial is returned when a material has no entry in the
	// persistence table.
	ErrUnknownMaterial = errors.New("unknown material: no persistence entry")

	// ErrInvalidDose is returned when a dose is zero or negative.
	ErrInvalidDose = errors.New("invalid dose: must be positive")
)
