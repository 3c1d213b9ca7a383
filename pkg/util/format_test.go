package util

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name     string
		bytes    float64
		expected string
	}{
		{"Zero", 0, "0 B"},
		{"Just under a KiB", 1023, "1023 B"},
		{"Exactly one KiB", 1024, "1 KiB"},
		{"Rounded KiB", 1536, "2 KiB"},
		{"Just under a MiB", 1048575, "1024 KiB"},
		{"Exactly one MiB", 1048576, "1.0 MiB"},
		{"Fractional MiB", 2621440, "2.5 MiB"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatBytes(tc.bytes); got != tc.expected {
				t.Errorf("FormatBytes(%v) = %q, want %q", tc.bytes, got, tc.expected)
			}
		})
	}
}

func TestTruncateURL(t *testing.T) {
	short := "https://example.com/app.js"
	if got := TruncateURL(short, 50); got != short {
		t.Errorf("Expected short URL unchanged, got %q", got)
	}

	long := "https://example.com/static/js/vendor/really-long-bundle-name.min.js"
	got := TruncateURL(long, 50)
	if len(got) != 50 {
		t.Errorf("Expected truncated length 50, got %d (%q)", len(got), got)
	}
	if got[47:] != "..." {
		t.Errorf("Expected ellipsis suffix, got %q", got)
	}
	if got[:47] != long[:47] {
		t.Errorf("Expected prefix preserved, got %q", got)
	}

	// Boundary: exactly maxLength stays untouched
	exact := "0123456789"
	if got := TruncateURL(exact, 10); got != exact {
		t.Errorf("Expected exact-length URL unchanged, got %q", got)
	}

	// Multi-byte characters must never be split at the cut point
	unicodeURL := "https://example.com/" + strings.Repeat("ü", 40)
	got = TruncateURL(unicodeURL, 50)
	if !utf8.ValidString(got) {
		t.Errorf("Expected valid UTF-8 after truncation, got %q", got)
	}
	if utf8.RuneCountInString(got) != 50 {
		t.Errorf("Expected 50 runes after truncation, got %d (%q)", utf8.RuneCountInString(got), got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected ellipsis suffix, got %q", got)
	}
}

func TestFormatCacheTTL(t *testing.T) {
	tests := []struct {
		name     string
		ms       float64
		expected string
	}{
		{"No cache", 0, "No cache"},
		{"Seconds", 30000, "30s"},
		{"Just under a minute", 59999, "59s"},
		{"Minutes", 300000, "5m"},
		{"One hour", 3600000, "1h"},
		{"One day", 86400000, "1d"},
		{"Thirty days", 86400000 * 30, "30d"},
		{"One year", 86400000 * 365, "1y"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatCacheTTL(tc.ms); got != tc.expected {
				t.Errorf("FormatCacheTTL(%v) = %q, want %q", tc.ms, got, tc.expected)
			}
		})
	}
}

func TestFormatMilliseconds(t *testing.T) {
	if got := FormatMilliseconds(450); got != "450ms" {
		t.Errorf("Expected 450ms, got %q", got)
	}
	if got := FormatMilliseconds(2500); got != "2.5s" {
		t.Errorf("Expected 2.5s, got %q", got)
	}
}
