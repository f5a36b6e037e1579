package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrHTTPStatus is wrapped by errors returned for non-200 responses.
var ErrHTTPStatus = errors.New("unexpected http status")

// Fetcher performs HTTP GETs with retries. Retries only happen here, never in the
// transforms that consume the fetched data.
type Fetcher struct {
	client     *http.Client
	logger     *zap.Logger
	limiter    *rate.Limiter
	headers    map[string]string
	maxRetries uint64
	maxElapsed time.Duration
	interval   time.Duration
}

type FetcherOption func(*Fetcher)

// WithRateLimit limits the fetcher to rps requests per second with the given burst.
func WithRateLimit(rps float64, burst int) FetcherOption {
	return func(f *Fetcher) {
		f.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) FetcherOption {
	return func(f *Fetcher) {
		f.headers[key] = value
	}
}

// WithRetries sets the maximum number of retries after the first attempt. Zero disables retries.
func WithRetries(n uint64) FetcherOption {
	return func(f *Fetcher) {
		f.maxRetries = n
	}
}

// WithInitialInterval sets the first backoff delay.
func WithInitialInterval(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.interval = d
	}
}

// WithHTTPClient replaces the underlying http client.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = c
	}
}

func NewFetcher(logger *zap.Logger, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:     &http.Client{Timeout: 60 * time.Second},
		logger:     logger.With(zap.String("component", "fetcher")),
		headers:    make(map[string]string),
		maxRetries: 4,
		maxElapsed: 2 * time.Minute,
		interval:   time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Get returns the body of a successful GET of url. Network errors, 429 and 5xx responses are
// retried with exponential backoff; other statuses fail immediately.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	op := func() error {
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx); err != nil {
				return backoff.Permanent(err)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		for k, v := range f.headers {
			req.Header.Set(k, v)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to execute request: %w", err)
		}
		defer resp.Body.Close()

		data, err := SafeRead(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("%w %d from %s: %s", ErrHTTPStatus, resp.StatusCode, url, truncate(data, 256))
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return err
			}
			return backoff.Permanent(err)
		}

		body = data
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = f.interval
	bo.MaxElapsedTime = f.maxElapsed

	notify := func(err error, wait time.Duration) {
		f.logger.Warn("request failed, retrying",
			zap.String("url", url),
			zap.Duration("wait", wait),
			zap.Error(err))
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(backoff.WithMaxRetries(bo, f.maxRetries), ctx), notify); err != nil {
		return nil, err
	}
	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
