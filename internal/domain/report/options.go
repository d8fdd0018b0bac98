package report

import (
	"time"

	"github.com/okian/fantaprice/pkg/logger"
)

// Option applies a configuration option to the Composer.
type Option func(*Composer)

// WithUnifiedExclusions replaces the FPEDIA columns dropped from the unified sheet.
func WithUnifiedExclusions(cols []string) Option {
	return func(c *Composer) {
		if cols == nil {
			return
		}
		c.exclude = make(map[string]struct{}, len(cols))
		for _, col := range cols {
			c.exclude[col] = struct{}{}
		}
	}
}

// WithClock overrides the time source stamped on statistics.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Composer) {
		if l != nil {
			c.log = l
		}
	}
}
