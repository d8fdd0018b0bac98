package source

import (
	"net/http"
	"time"

	"github.com/okian/fantaprice/pkg/logger"
)

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithWorkers bounds how many sources are fetched at once.
func WithWorkers(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithTimeout bounds each http request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header sent to http sources.
func WithUserAgent(ua string) Option {
	return func(l *Loader) {
		if ua != "" {
			l.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the http client. The client is never modified;
// the loader timeout applies per request on top of the client's own.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(lg logger.Logger) Option {
	return func(l *Loader) {
		if lg != nil {
			l.log = lg
		}
	}
}
