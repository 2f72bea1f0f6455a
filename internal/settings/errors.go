package settings

import "errors"

// Sentinel errors for settings operations.
// Use errors.Is() to check for these errors.
var (
	// ErrInvalidValue indicates a setter was given an out-of-range value.
	ErrInvalidValue = errors.New("invalid setting value")
)
