package cli

import "errors"

// Common CLI errors
var (
	// ErrTrackedIgnored is returned by `ignored` when tracked files match an ignore rule
	ErrTrackedIgnored = errors.New("tracked files are ignored")

	// ErrNoMatchingCases indicates no parity case matched the filter
	ErrNoMatchingCases = errors.New("no matching cases found")
)
