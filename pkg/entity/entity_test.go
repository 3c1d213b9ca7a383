package entity

import (
	"testing"

	"github.com/pagepulse/pagepulse/pkg/models"
)

func TestHostDomain(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"Plain host", "https://example.com/page", "example.com"},
		{"Subdomain", "https://www.example.com", "www.example.com"},
		{"With port", "https://example.com:8080/x", "example.com"},
		{"Malformed", "://nonsense", ""},
		{"Empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := HostDomain(tc.url); got != tc.expected {
				t.Errorf("HostDomain(%q) = %q, want %q", tc.url, got, tc.expected)
			}
		})
	}
}

func TestIsFirstParty(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		host     string
		expected bool
	}{
		{"Same host", "https://example.com/app.js", "example.com", true},
		{"Subdomain", "https://api.example.com/data", "example.com", true},
		{"Different host", "https://cdn.vendor.net/lib.js", "example.com", false},
		{"Malformed URL", "://oops", "example.com", false},
		{"Empty host domain", "https://example.com", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsFirstParty(tc.url, tc.host); got != tc.expected {
				t.Errorf("IsFirstParty(%q, %q) = %v, want %v", tc.url, tc.host, got, tc.expected)
			}
		})
	}
}

func TestEntityFromURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		// "google-analytics" precedes "google" in the table, so the more
		// specific entity wins even though both substrings match.
		{"Google Analytics before Google", "https://www.google-analytics.com/ga.js", "Google Analytics"},
		{"Tag Manager", "https://www.googletagmanager.com/gtm.js", "Google Tag Manager"},
		{"Bare Google", "https://www.google.com/recaptcha/api.js", "Google"},
		{"Google Static", "https://fonts.gstatic.com/s/font.woff2", "Google Static"},
		{"Facebook", "https://connect.facebook.net/sdk.js", "Facebook"},
		{"Named CDN beats generic", "https://cdnjs.cloudflare.com/lib.js", "Cloudflare"},
		{"Generic CDN fallback", "https://cdn.shopify-stuff.io/bundle.js", "CDN"},
		{"Unknown host", "https://www.example.com/app.js", ""},
		{"Malformed", "://x", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := EntityFromURL(tc.url); got != tc.expected {
				t.Errorf("EntityFromURL(%q) = %q, want %q", tc.url, got, tc.expected)
			}
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		entity   string
		expected models.ThirdPartyCategory
	}{
		{"Google Analytics", models.CategoryAnalytics},
		{"Google Tag Manager", models.CategoryAnalytics},
		{"Facebook", models.CategorySocial},
		{"DoubleClick", models.CategoryAdvertising},
		{"Cloudflare", models.CategoryCDN},
		{"Adobe Fonts", models.CategoryFonts},
		{"Intercom", models.CategoryLeadTracking},
		{"Stripe", models.CategoryOther},
		{"", models.CategoryOther},
	}

	for _, tc := range tests {
		if got := Categorize(tc.entity); got != tc.expected {
			t.Errorf("Categorize(%q) = %q, want %q", tc.entity, got, tc.expected)
		}
	}
}

// The "ad" keyword is checked before lead-tracking, so vendors whose names
// merely contain "ad" land in advertising. Documented misclassification that
// downstream consumers depend on.
func TestCategorizeAdSubstringPrecedence(t *testing.T) {
	if got := Categorize("LeadID"); got != models.CategoryAdvertising {
		t.Errorf("Categorize(\"LeadID\") = %q, want %q", got, models.CategoryAdvertising)
	}
	if got := Categorize("Adobe Analytics"); got != models.CategoryAnalytics {
		t.Errorf("Categorize(\"Adobe Analytics\") = %q, want %q", got, models.CategoryAnalytics)
	}
}
