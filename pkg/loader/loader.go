// Package loader fetches the model text and cubemap face images off the
// render goroutine. Every fetch reports back over a channel exactly once per
// resource, so the render loop can poll without blocking.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ResourcePrefix marks a source that names a file in the embedded assets.
const ResourcePrefix = "res:"

// MaxTextSize bounds a fetched model file.
const MaxTextSize = 256 << 20

// ErrStatus is wrapped by FetchError when an HTTP server answers with a
// non-success status.
var ErrStatus = errors.New("unexpected HTTP status")

// FetchError reports a resource that could not be retrieved.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Loader resolves sources against the local filesystem, an optional embedded
// resource FS and HTTP.
type Loader struct {
	client    *http.Client
	resources fs.FS
	log       *zap.Logger
	limit     int
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// WithResources sets the FS that "res:" sources are read from.
func WithResources(fsys fs.FS) Option {
	return func(l *Loader) { l.resources = fsys }
}

// WithLogger sets the logger; the default discards.
func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// WithConcurrency caps the number of faces fetched at once.
func WithConcurrency(n int) Option {
	return func(l *Loader) { l.limit = n }
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		client: &http.Client{Timeout: 30 * time.Second},
		log:    zap.NewNop(),
		limit:  3,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.limit < 1 {
		l.limit = 1
	}
	return l
}

// TextResult is the outcome of FetchText.
type TextResult struct {
	Source string
	Text   string
	Err    error
}

// FetchText retrieves src as text in the background. The returned channel
// receives exactly one result and is then closed.
func (l *Loader) FetchText(ctx context.Context, src string) <-chan TextResult {
	out := make(chan TextResult, 1)
	go func() {
		defer close(out)
		start := time.Now()
		data, err := l.read(ctx, src, MaxTextSize)
		if err != nil {
			l.log.Warn("model fetch failed", zap.String("source", src), zap.Error(err))
			out <- TextResult{Source: src, Err: err}
			return
		}
		l.log.Info("model fetched",
			zap.String("source", src),
			zap.Int("bytes", len(data)),
			zap.Duration("elapsed", time.Since(start)))
		out <- TextResult{Source: src, Text: string(data)}
	}()
	return out
}

// Open returns a reader for src. Errors are *FetchError.
func (l *Loader) Open(ctx context.Context, src string) (io.ReadCloser, error) {
	rc, err := l.open(ctx, src)
	if err != nil {
		return nil, &FetchError{Source: src, Err: err}
	}
	return rc, nil
}

func (l *Loader) read(ctx context.Context, src string, max int64) ([]byte, error) {
	rc, err := l.Open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, max+1))
	if err != nil {
		return nil, &FetchError{Source: src, Err: err}
	}
	if int64(len(data)) > max {
		return nil, &FetchError{Source: src, Err: fmt.Errorf("larger than %d bytes", max)}
	}
	return data, nil
}

func (l *Loader) open(ctx context.Context, src string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch {
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, err
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
		}
		return resp.Body, nil
	case strings.HasPrefix(src, ResourcePrefix):
		if l.resources == nil {
			return nil, fs.ErrNotExist
		}
		name := path.Clean(strings.TrimPrefix(src, ResourcePrefix))
		return l.resources.Open(name)
	default:
		return os.Open(src)
	}
}
