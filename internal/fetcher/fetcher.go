package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/observability"
)

// Retry policy for image downloads. Fixed delay, no backoff growth.
const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 1000 * time.Millisecond
)

// ErrEmptyReference is returned when Fetch is called with an empty image
// reference. Callers with no reference must skip the fetch entirely.
var ErrEmptyReference = errors.New("empty image reference")

// Fetcher downloads detection images with bounded retry. It owns no state
// beyond its HTTP client and policy.
type Fetcher struct {
	client      *http.Client
	maxAttempts int
	retryDelay  time.Duration
	metrics     *observability.Metrics
}

func NewFetcher(client *http.Client, maxAttempts int, retryDelay time.Duration, metrics *observability.Metrics) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{
		client:      client,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
		metrics:     metrics,
	}
}

// Fetch GETs the referenced image. A non-2xx status or an empty body counts
// as a failed attempt; attempts are capped at the configured maximum with a
// fixed delay in between. On success the returned handle holds the image
// bytes and must be released exactly once when no longer displayed.
func (f *Fetcher) Fetch(ctx context.Context, reference string) (*Handle, error) {
	if reference == "" {
		return nil, ErrEmptyReference
	}

	var lastErr error
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		f.metrics.FetchAttempts.Inc()

		handle, err := f.attempt(ctx, reference)
		if err == nil {
			return handle, nil
		}
		lastErr = err
		log.Printf("Warning: image fetch attempt %d/%d failed: %v", attempt, f.maxAttempts, err)

		if attempt == f.maxAttempts {
			break
		}

		select {
		case <-time.After(f.retryDelay):
		case <-ctx.Done():
			f.metrics.FetchFailures.Inc()
			return nil, ctx.Err()
		}
	}

	f.metrics.FetchFailures.Inc()
	return nil, fmt.Errorf("image fetch failed after %d attempts: %w", f.maxAttempts, lastErr)
}

func (f *Fetcher) attempt(ctx context.Context, reference string) (*Handle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reference, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty image body")
	}

	return &Handle{
		data:        data,
		contentType: resp.Header.Get("Content-Type"),
	}, nil
}
