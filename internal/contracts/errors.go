package contracts

import "errors"

// Sentinel errors shared across packages. Wrap with fmt.Errorf("...: %w", err)
// and match with errors.Is.
var (
	// ErrUnsupportedInput means the file type or table shape is not recognized
	ErrUnsupportedInput = errors.New("unsupported input")

	// ErrFileTooLarge means an upload exceeded the configured size limit
	ErrFileTooLarge = errors.New("file too large")

	// ErrNotFound means a requested record does not exist
	ErrNotFound = errors.New("not found")
)
