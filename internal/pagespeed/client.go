package pagespeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/pagepulse/pagepulse/internal/cache"
	"github.com/pagepulse/pagepulse/pkg/models"
)

const defaultEndpoint = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

// categories requested on every run. The API only returns scores for the
// categories named in the query.
var requestedCategories = []string{"performance", "accessibility", "best-practices", "seo"}

// Client wraps the PageSpeed Insights v5 API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	endpoint   string
	diskCache  *cache.Cache
}

// APIError is a non-2xx response from the measurement API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("pagespeed api: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("pagespeed api: status %d", e.StatusCode)
}

// ResolveAPIKey attempts to find an API key from:
// 1. Config file (if passed)
// 2. PAGESPEED_API_KEY environment variable
// An empty key is valid; the API allows a small unauthenticated quota.
func ResolveAPIKey(configKey string) string {
	if configKey != "" {
		return configKey
	}
	return os.Getenv("PAGESPEED_API_KEY")
}

// NewClient creates a new API client with the disk cache enabled.
func NewClient(apiKey string) *Client {
	return NewClientWithCache(apiKey, true)
}

// NewClientWithCache creates a new API client with cache control and a one
// hour cache lifetime.
func NewClientWithCache(apiKey string, useCache bool) *Client {
	return NewClientWithTTL(apiKey, useCache, time.Hour)
}

// NewClientWithTTL creates a new API client with cache control and an
// explicit cache lifetime.
func NewClientWithTTL(apiKey string, useCache bool, ttl time.Duration) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		apiKey:     apiKey,
		endpoint:   defaultEndpoint,
	}

	if useCache {
		cachePath, err := cache.DefaultPath()
		if err == nil {
			dc, err := cache.New(cachePath, ttl)
			if err == nil {
				c.diskCache = dc
			}
		}
	}

	return c
}

// Analyze runs one measurement for the given page and strategy. Results are
// served from the disk cache when a fresh entry exists. The cache stores the
// raw API payload, not the mapped result, so a hit carries the full audit map
// and re-runs the same normalization as a live response.
func (c *Client) Analyze(ctx context.Context, pageURL string, strategy models.Strategy) (*models.PerformanceResult, error) {
	cacheKey := cache.Key(pageURL, string(strategy))

	if c.diskCache != nil {
		var cached apiResponse
		if found, err := c.diskCache.Get(cacheKey, &cached); err == nil && found {
			if result, err := cached.toPerformanceResult(pageURL, strategy); err == nil {
				return result, nil
			}
			// An entry that no longer maps counts as a miss.
		}
	}

	raw, err := c.fetch(ctx, pageURL, strategy)
	if err != nil {
		return nil, err
	}

	result, err := raw.toPerformanceResult(pageURL, strategy)
	if err != nil {
		return nil, err
	}

	if c.diskCache != nil {
		_ = c.diskCache.Set(cacheKey, raw)
	}

	return result, nil
}

func (c *Client) fetch(ctx context.Context, pageURL string, strategy models.Strategy) (*apiResponse, error) {
	q := url.Values{}
	q.Set("url", pageURL)
	q.Set("strategy", string(strategy))
	for _, category := range requestedCategories {
		q.Add("category", category)
	}
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach pagespeed api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: extractAPIMessage(body)}
		if resp.StatusCode == http.StatusTooManyRequests {
			fmt.Fprintln(os.Stderr, "⚠️ PageSpeed API quota exceeded; set an API key or retry later")
		}
		return nil, apiErr
	}

	var raw apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode pagespeed response: %w", err)
	}

	return &raw, nil
}

// extractAPIMessage pulls the error message out of a Google API error body.
func extractAPIMessage(body []byte) string {
	var wrapper struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return ""
	}
	return wrapper.Error.Message
}
