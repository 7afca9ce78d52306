package docmill

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultFallbackSources are the public image services tried when a record's
// own photo source fails.
var DefaultFallbackSources = []string{
	"https://picsum.photos/400/300",
	"https://via.placeholder.com/400x300",
	"https://dummyimage.com/400x300/cccccc/969696",
	"https://fakeimg.pl/400x300/",
}

// HTTPDoer is the transport used by ResourceFetcher. *http.Client satisfies
// it; tests substitute their own.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// fetchKey identifies a cached resource. The same URL requested at a
// different size is a distinct entry.
type fetchKey struct {
	url    string
	width  int
	height int
}

// ResourceFetcher retrieves external binary resources through an ordered
// fallback chain with bounded retries per source. Fetch never fails: when
// every source is exhausted it synthesizes a placeholder image. Successful
// downloads are kept in a bounded LRU cache to avoid redundant requests
// within a run. Safe for concurrent use by multiple workers.
type ResourceFetcher struct {
	client HTTPDoer
	policy FetchPolicy
	cache  *lru.Cache[fetchKey, []byte]
	logger Logger
}

// NewResourceFetcher creates a fetcher with the given policy and cache
// capacity. A nil client falls back to a default http.Client; a nil logger
// disables logging.
func NewResourceFetcher(policy FetchPolicy, cacheSize int, client HTTPDoer, logger Logger) (*ResourceFetcher, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if cacheSize <= 0 {
		return nil, fmt.Errorf("%w: %d (must be positive)", ErrInvalidCacheSize, cacheSize)
	}
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}

	cache, err := lru.New[fetchKey, []byte](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCacheSize, err)
	}

	return &ResourceFetcher{
		client: client,
		policy: policy,
		cache:  cache,
		logger: logger,
	}, nil
}

// Fetch returns resource bytes for the first reachable source, trying
// primary then fallbacks in order, each with up to RetryCount+1 attempts.
// Empty source identifiers are skipped. If every source fails, Fetch
// synthesizes a placeholder of the requested size; it never returns an
// error and never returns empty bytes. Placeholder bytes are not cached.
func (f *ResourceFetcher) Fetch(ctx context.Context, primary string, fallbacks []string, size ImageSize) []byte {
	candidates := make([]string, 0, len(fallbacks)+1)
	for _, src := range append([]string{primary}, fallbacks...) {
		if strings.TrimSpace(src) != "" {
			candidates = append(candidates, src)
		}
	}

	for _, src := range candidates {
		key := fetchKey{url: src, width: size.Width, height: size.Height}
		if data, ok := f.cache.Get(key); ok {
			f.logger.Debug("fetch: cache hit for %s", src)
			return data
		}

		data, err := f.fetchWithRetries(ctx, src)
		if err != nil {
			f.logger.Debug("fetch: source %s failed: %v", src, err)
			continue
		}

		f.cache.Add(key, data)
		return data
	}

	f.logger.Warn("fetch: all %d sources exhausted, using %dx%d placeholder",
		len(candidates), size.Width, size.Height)
	return placeholderImage(size)
}

// CacheLen reports the number of cached resources.
func (f *ResourceFetcher) CacheLen() int {
	return f.cache.Len()
}

// fetchWithRetries attempts one source up to RetryCount+1 times with linear
// backoff between attempts. The wait is abandoned when ctx is canceled.
func (f *ResourceFetcher) fetchWithRetries(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= f.policy.RetryCount; attempt++ {
		if attempt > 0 {
			if err := sleepContext(ctx, f.policy.BackoffBase*time.Duration(attempt)); err != nil {
				return nil, err
			}
		}

		data, err := f.fetchOnce(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

// fetchOnce performs a single attempt bounded by the policy timeout.
// Success requires a 2xx status and a non-empty body.
func (f *ResourceFetcher) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, f.policy.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("empty response body")
	}

	return data, nil
}

// sleepContext waits for d unless ctx is canceled first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
