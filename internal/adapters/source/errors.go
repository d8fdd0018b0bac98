package source

import "github.com/cockroachdb/errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNoLocation = errors.New("source location is empty")
	ErrFetch      = errors.New("fetch source failed")
	ErrPool       = errors.New("loader pool failed")
)
