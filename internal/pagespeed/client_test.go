package pagespeed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/pagepulse/pagepulse/internal/cache"
	"github.com/pagepulse/pagepulse/pkg/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClientWithCache("test-key", false)
	c.endpoint = server.URL
	return c, server
}

func TestAnalyze(t *testing.T) {
	var gotQuery map[string][]string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleResponse))
	})

	result, err := c.Analyze(context.Background(), "https://example.com/", models.StrategyDesktop)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if result.Scores.Performance == nil || *result.Scores.Performance != 72 {
		t.Errorf("Expected performance score 72, got %+v", result.Scores.Performance)
	}

	if got := gotQuery["url"]; len(got) != 1 || got[0] != "https://example.com/" {
		t.Errorf("Expected url query param, got %v", got)
	}
	if got := gotQuery["strategy"]; len(got) != 1 || got[0] != "desktop" {
		t.Errorf("Expected desktop strategy param, got %v", got)
	}
	if got := gotQuery["category"]; len(got) != 4 {
		t.Errorf("Expected 4 category params, got %v", got)
	}
	if got := gotQuery["key"]; len(got) != 1 || got[0] != "test-key" {
		t.Errorf("Expected api key param, got %v", got)
	}
}

func TestAnalyzeAPIError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "Invalid value for url"}}`))
	})

	_, err := c.Analyze(context.Background(), "not-a-url", models.StrategyMobile)
	if err == nil {
		t.Fatal("Expected error for 400 response")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "Invalid value for url" {
		t.Errorf("Expected message from error body, got %q", apiErr.Message)
	}
}

func TestAnalyzeContextCancellation(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleResponse))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Analyze(ctx, "https://example.com/", models.StrategyMobile)
	if err == nil {
		t.Fatal("Expected error for cancelled context")
	}
}

func TestResolveAPIKey(t *testing.T) {
	t.Run("config key wins", func(t *testing.T) {
		t.Setenv("PAGESPEED_API_KEY", "env-key")
		if got := ResolveAPIKey("config-key"); got != "config-key" {
			t.Errorf("Expected config-key, got %s", got)
		}
	})

	t.Run("falls back to env", func(t *testing.T) {
		t.Setenv("PAGESPEED_API_KEY", "env-key")
		if got := ResolveAPIKey(""); got != "env-key" {
			t.Errorf("Expected env-key, got %s", got)
		}
	})

	t.Run("empty when unset", func(t *testing.T) {
		old := os.Getenv("PAGESPEED_API_KEY")
		os.Unsetenv("PAGESPEED_API_KEY")
		defer os.Setenv("PAGESPEED_API_KEY", old)
		if got := ResolveAPIKey(""); got != "" {
			t.Errorf("Expected empty key, got %s", got)
		}
	})
}

func TestAnalyzeCacheHitKeepsAudits(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleResponse))
	}))
	t.Cleanup(server.Close)

	dc, err := cache.New(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("cache.New returned error: %v", err)
	}
	c := NewClientWithCache("test-key", false)
	c.endpoint = server.URL
	c.diskCache = dc

	first, err := c.Analyze(context.Background(), "https://example.com/", models.StrategyMobile)
	if err != nil {
		t.Fatalf("first Analyze returned error: %v", err)
	}
	second, err := c.Analyze(context.Background(), "https://example.com/", models.StrategyMobile)
	if err != nil {
		t.Fatalf("second Analyze returned error: %v", err)
	}

	if requests != 1 {
		t.Fatalf("Expected 1 API request, got %d", requests)
	}
	if len(second.Audits) == 0 || len(second.Audits) != len(first.Audits) {
		t.Errorf("Expected cached result to keep %d audits, got %d", len(first.Audits), len(second.Audits))
	}
	if _, ok := second.Audits["unused-javascript"]; !ok {
		t.Error("Expected unused-javascript audit to survive a cache hit")
	}
	if second.Scores.Performance == nil || *second.Scores.Performance != 72 {
		t.Errorf("Expected cached performance score 72, got %+v", second.Scores.Performance)
	}
}
