package record

import "errors"

// Sentinel errors that internal/engine inspects (via errors.Is) to assign
// the right Kind to a failure that originated in this package.
var (
	ErrUnsupported      = errors.New("record: unsupported on-disk feature")
	ErrFormatCorruption = errors.New("record: malformed on-disk data")
)
