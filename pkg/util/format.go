package util

import (
	"fmt"
)

const (
	kib = 1024
	mib = 1024 * 1024
)

// FormatBytes renders a byte count the way the report displays sizes:
// whole bytes below 1 KiB, whole KiB below 1 MiB, otherwise MiB with one
// decimal. Inputs are never negative.
func FormatBytes(bytes float64) string {
	switch {
	case bytes < kib:
		return fmt.Sprintf("%d B", int64(bytes))
	case bytes < mib:
		return fmt.Sprintf("%d KiB", int64(bytes/kib+0.5))
	default:
		return fmt.Sprintf("%.1f MiB", bytes/mib)
	}
}

// TruncateURL shortens a URL to at most maxLength characters, replacing the
// tail with "..." so the result is exactly maxLength long when truncated.
// Length counts runes, so multi-byte URLs never get cut mid-character.
func TruncateURL(url string, maxLength int) string {
	runes := []rune(url)
	if len(runes) <= maxLength {
		return url
	}
	return string(runes[:maxLength-3]) + "..."
}

// DefaultURLLength is the display width used for URLs in tables.
const DefaultURLLength = 50

// FormatCacheTTL renders a cache lifetime in its largest whole unit. Zero
// means the resource is served uncached. Units always floor.
func FormatCacheTTL(ms float64) string {
	if ms == 0 {
		return "No cache"
	}
	seconds := ms / 1000
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", int64(seconds))
	case seconds < 3600:
		return fmt.Sprintf("%dm", int64(seconds/60))
	case seconds < 86400:
		return fmt.Sprintf("%dh", int64(seconds/3600))
	case seconds < 86400*365:
		return fmt.Sprintf("%dd", int64(seconds/86400))
	default:
		return fmt.Sprintf("%dy", int64(seconds/(86400*365)))
	}
}

// FormatMilliseconds renders a duration as whole ms below one second and
// seconds with one decimal above.
func FormatMilliseconds(ms float64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", int64(ms))
	}
	return fmt.Sprintf("%.1fs", ms/1000)
}
