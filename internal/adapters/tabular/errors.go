package tabular

import "github.com/cockroachdb/errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrUnsupportedFormat = errors.New("unsupported table format")
	ErrEmptyHeader       = errors.New("table has no header")
	ErrNoTable           = errors.New("no table found in document")
	ErrWriteTable        = errors.New("write table failed")
)
