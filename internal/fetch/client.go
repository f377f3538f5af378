// Package fetch downloads the upstream fantasy API payloads that feed the dataset.
package fetch

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/huangsam/fdr/internal/contract"
)

// responseCacheVersion invalidates cached payloads when the key scheme changes.
const responseCacheVersion = 1

// defaultUserAgent identifies the client to the upstream API.
const defaultUserAgent = "fdr/1.0 (+https://github.com/huangsam/fdr)"

// Client fetches raw payloads from the upstream API.
// Responses are cached in Cache for TTL when a store is configured.
type Client struct {
	HTTP      contract.HTTPDoer
	Cache     contract.CacheStore
	BaseURL   string
	UserAgent string
	Delay     time.Duration // Pause before every network request
	TTL       time.Duration // Zero disables the response cache
	Force     bool          // Skip cache reads but still refresh the cache

	now func() time.Time
}

// NewClient builds a client from the validated configuration.
// cache may be nil, in which case every call goes to the network.
func NewClient(cfg *contract.Config, cache contract.CacheStore) *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: 20 * time.Second},
		Cache:     cache,
		BaseURL:   cfg.APIBaseURL,
		UserAgent: defaultUserAgent,
		Delay:     cfg.RequestDelay,
		TTL:       cfg.CacheTTL,
		now:       time.Now,
	}
}

// FetchRaw downloads urlPath (like "/fixtures/") and returns the decoded body.
func (c *Client) FetchRaw(ctx context.Context, urlPath string) ([]byte, error) {
	url := strings.TrimRight(c.BaseURL, "/") + urlPath
	key := cacheKey(url)

	if !c.Force {
		if body, ok := c.cached(key); ok {
			return body, nil
		}
	}

	if err := sleep(ctx, c.Delay); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", urlPath, err)
	}
	defer func() { _ = resp.Body.Close() }()

	reader, err := decodeBody(resp)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", urlPath, err)
	}
	defer func() { _ = reader.Close() }()

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", urlPath, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s failed: %d body=%s", urlPath, resp.StatusCode, truncateBody(body))
	}

	if c.Cache != nil && c.TTL > 0 {
		if err := c.Cache.Set(key, body, responseCacheVersion, c.clock().Unix()); err != nil {
			contract.LogWarn("Failed to cache response", err)
		}
	}
	return body, nil
}

// cached returns a fresh cached payload for key.
func (c *Client) cached(key string) ([]byte, bool) {
	if c.Cache == nil || c.TTL <= 0 {
		return nil, false
	}
	body, version, ts, err := c.Cache.Get(key)
	if err != nil || version != responseCacheVersion {
		return nil, false
	}
	if c.clock().Sub(time.Unix(ts, 0)) > c.TTL {
		return nil, false
	}
	return body, true
}

func (c *Client) userAgent() string {
	if c.UserAgent == "" {
		return defaultUserAgent
	}
	return c.UserAgent
}

func (c *Client) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

// decodeBody unwraps the response according to its Content-Encoding.
// Setting Accept-Encoding by hand turns off the transport's transparent gzip.
func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "deflate":
		return flate.NewReader(resp.Body), nil
	case "br":
		return io.NopCloser(brotli.NewReader(resp.Body)), nil
	case "", "identity":
		return io.NopCloser(resp.Body), nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", resp.Header.Get("Content-Encoding"))
	}
}

// cacheKey hashes the request URL so every backend can store it as a fixed-width key.
func cacheKey(url string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte("fetch:"+url)))
}

// sleep waits for d unless ctx is cancelled first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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

func truncateBody(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
