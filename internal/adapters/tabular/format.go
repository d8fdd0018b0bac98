// Package tabular reads source exports into header/rows form and writes report sheets.
package tabular

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// Format names an on-disk table encoding.
type Format string

// Supported formats. FormatAuto picks one from the file name.
const (
	FormatAuto Format = "auto"
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
	FormatJSON Format = "json"
)

// ParseFormat accepts a configured format name; the empty string means auto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatCSV, FormatHTML, FormatJSON:
		return f, nil
	case "htm":
		return FormatHTML, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedFormat, "format %q", s)
	}
}

// Detect resolves FormatAuto from a file name or URL path.
func Detect(name string, f Format) (Format, error) {
	if f != "" && f != FormatAuto {
		return f, nil
	}
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	ext := filepath.Ext(name)
	if ext == "" {
		ext = path.Ext(name)
	}
	switch strings.ToLower(ext) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".html", ".htm":
		return FormatHTML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedFormat, "cannot detect format of %q", name)
	}
}
