package contracts

import "errors"

// Error taxonomy of the pipeline. None of these is fatal to a whole run;
// each marks a per-unit condition the caller skips past or reports.
var (
	// ErrDataUnavailable marks a missing or empty source relation for a
	// stock or industry.
	ErrDataUnavailable = errors.New("source data unavailable")

	// ErrMalformedValue marks a line-item value that failed numeric
	// parsing; the concept is treated as absent.
	ErrMalformedValue = errors.New("malformed line-item value")

	// ErrInsufficientFeatures marks a dataset with fewer than two usable
	// training features.
	ErrInsufficientFeatures = errors.New("insufficient training features")

	// ErrPersistence marks a failed artifact write.
	ErrPersistence = errors.New("artifact persistence failed")
)
