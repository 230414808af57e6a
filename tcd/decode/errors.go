package decode

import "errors"

// Error taxonomy for decoding runs. Registry construction errors live
// in the schema package; everything here is per-run.
var (
	// ErrGenerationFailure is returned when the vocabulary produces a
	// degenerate distribution (empty, NaN, or infinite scores). Fatal
	// for the run; never retried at this layer.
	ErrGenerationFailure = errors.New("generation failure")

	// ErrConstraintViolation is returned when an internal invariant
	// fails: an empty candidate set, or the final self-check rejecting
	// the assembled output. Indicates an engine defect.
	ErrConstraintViolation = errors.New("constraint violation")
)
