// Package source loads the FPEDIA and FSTATS exports from files or http URLs.
package source

import (
	"context"
	"io"
	"mime"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/okian/fantaprice/internal/adapters/tabular"
	"github.com/okian/fantaprice/internal/domain/model"
	"github.com/okian/fantaprice/pkg/logger"
	"github.com/okian/fantaprice/pkg/metrics"
)

const (
	defaultWorkers   = 5
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "fantaprice/1.0"
)

// Dataset names one source export to load.
type Dataset struct {
	Source   model.Source
	Location string // file path or http(s) URL
	Format   tabular.Format
}

// Loader reads source datasets through a bounded worker pool.
type Loader struct {
	workers   int
	timeout   time.Duration
	client    *http.Client
	userAgent string
	log       logger.Logger
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		workers:   defaultWorkers,
		timeout:   defaultTimeout,
		client:    http.DefaultClient,
		userAgent: defaultUserAgent,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches every dataset concurrently and returns the tables by source.
// The first failure is returned after all loads finish.
func (l *Loader) Load(ctx context.Context, datasets ...Dataset) (map[model.Source]*model.Table, error) {
	pool, err := ants.NewPool(l.workers)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "create loader pool"), ErrPool)
	}
	defer pool.Release()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		tables = make(map[model.Source]*model.Table, len(datasets))
		errs   = make([]error, len(datasets))
	)
	for i, ds := range datasets {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			t, err := l.LoadOne(ctx, ds)
			if err != nil {
				errs[i] = err
				return
			}
			mu.Lock()
			tables[ds.Source] = t
			mu.Unlock()
		}); err != nil {
			wg.Done()
			errs[i] = errors.Mark(errors.Wrapf(err, "submit %s", ds.Source), ErrPool)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return tables, nil
}

// LoadOne reads a single dataset.
func (l *Loader) LoadOne(ctx context.Context, ds Dataset) (*model.Table, error) {
	src := string(ds.Source)
	t, n, err := l.load(ctx, ds)
	if err != nil {
		metrics.RecordLoadError(src)
		l.log.Error(ctx, "source load failed",
			logger.String("source", src),
			logger.String("location", ds.Location),
			logger.Error(err))
		return nil, err
	}

	metrics.RecordRowsLoaded(src, t.Len())
	metrics.UpdateSourceBytes(src, n)
	l.log.Info(ctx, "source loaded",
		logger.String("source", src),
		logger.String("location", ds.Location),
		logger.Int("rows", t.Len()),
		logger.Int("columns", len(t.Columns)),
		logger.Int("bytes", n))
	return t, nil
}

func (l *Loader) load(ctx context.Context, ds Dataset) (*model.Table, int, error) {
	if strings.TrimSpace(ds.Location) == "" {
		return nil, 0, errors.Wrapf(ErrNoLocation, "%s", ds.Source)
	}

	rc, contentType, err := l.open(ctx, ds.Location)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rc.Close() }()

	format, err := tabular.Detect(ds.Location, ds.Format)
	if err != nil {
		f, ok := formatOf(contentType)
		if !ok {
			return nil, 0, err
		}
		format = f
	}

	cr := &countingReader{r: rc}
	t, err := tabular.ReadTable(ds.Source, cr, format)
	if err != nil {
		return nil, cr.n, errors.Wrapf(err, "load %s from %s", ds.Source, ds.Location)
	}
	return t, cr.n, nil
}

func (l *Loader) open(ctx context.Context, location string) (io.ReadCloser, string, error) {
	if !isURL(location) {
		f, err := os.Open(location)
		if err != nil {
			return nil, "", errors.Wrapf(err, "open %s", location)
		}
		return f, "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		cancel()
		return nil, "", errors.Mark(errors.Wrapf(err, "build request for %s", location), ErrFetch)
	}
	req.Header.Set("User-Agent", l.userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		cancel()
		return nil, "", errors.Mark(errors.Wrapf(err, "get %s", location), ErrFetch)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		cancel()
		return nil, "", errors.Wrapf(ErrFetch, "get %s: status %d", location, resp.StatusCode)
	}
	return &cancelBody{ReadCloser: resp.Body, cancel: cancel}, resp.Header.Get("Content-Type"), nil
}

// cancelBody releases the request context once the body is closed.
type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

func isURL(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

func formatOf(contentType string) (tabular.Format, bool) {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	switch {
	case strings.HasSuffix(mt, "json"):
		return tabular.FormatJSON, true
	case mt == "text/html":
		return tabular.FormatHTML, true
	case mt == "text/csv":
		return tabular.FormatCSV, true
	}
	return "", false
}

type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}
