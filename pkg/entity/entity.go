package entity

import (
	"net/url"
	"strings"

	"github.com/pagepulse/pagepulse/pkg/models"
)

// hostPattern maps a hostname substring to the entity it identifies. The
// table is an ordered slice, not a map: more specific substrings must come
// before more generic ones ("google-analytics" before "google", named CDNs
// before the bare "cdn" catch-all), and iteration order is part of the
// contract so results stay reproducible.
type hostPattern struct {
	substring string
	entity    string
}

var hostPatterns = []hostPattern{
	{"google-analytics", "Google Analytics"},
	{"googletagmanager", "Google Tag Manager"},
	{"googlesyndication", "Google Ads"},
	{"doubleclick", "DoubleClick"},
	{"googleadservices", "Google Ads"},
	{"gstatic", "Google Static"},
	{"googleapis", "Google APIs"},
	{"youtube", "YouTube"},
	{"google", "Google"},
	{"facebook", "Facebook"},
	{"fbcdn", "Facebook"},
	{"twitter", "Twitter"},
	{"twimg", "Twitter"},
	{"linkedin", "LinkedIn"},
	{"instagram", "Instagram"},
	{"tiktok", "TikTok"},
	{"hotjar", "Hotjar"},
	{"segment", "Segment"},
	{"mixpanel", "Mixpanel"},
	{"amplitude", "Amplitude"},
	{"intercom", "Intercom"},
	{"hubspot", "HubSpot"},
	{"stripe", "Stripe"},
	{"sentry", "Sentry"},
	{"typekit", "Adobe Fonts"},
	{"fonts.com", "Fonts.com"},
	{"cloudflare", "Cloudflare"},
	{"cloudfront", "CloudFront"},
	{"akamai", "Akamai"},
	{"fastly", "Fastly"},
	{"jsdelivr", "jsDelivr"},
	{"unpkg", "unpkg"},
	{"cdnjs", "cdnjs"},
	{"cdn", "CDN"},
}

// HostDomain extracts the hostname from a URL. Malformed URLs yield an empty
// string rather than an error; classification simply degrades.
func HostDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// IsFirstParty reports whether a resource URL belongs to the analyzed site.
// Subdomains count as first-party: api.example.com matches example.com.
func IsFirstParty(rawURL, hostDomain string) bool {
	if hostDomain == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	hostname := u.Hostname()
	if hostname == "" {
		return false
	}
	return hostname == hostDomain || strings.Contains(hostname, hostDomain)
}

// EntityFromURL resolves a URL's hostname to a known third-party entity name
// using the ordered pattern table; the first matching pattern wins. Returns
// an empty string when the host matches nothing or the URL cannot be parsed.
func EntityFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	hostname := strings.ToLower(u.Hostname())
	if hostname == "" {
		return ""
	}
	for _, p := range hostPatterns {
		if strings.Contains(hostname, p.substring) {
			return p.entity
		}
	}
	return ""
}

// Category keyword sets, checked in a fixed precedence order. Matching is by
// substring on the lower-cased entity name, so short keywords like "ad" are
// known to misfire on names that merely contain them ("LeadID" categorizes as
// advertising, not lead-tracking). That behavior is load-bearing for
// compatibility and must not be "fixed" by reordering.
var categoryKeywords = []struct {
	category models.ThirdPartyCategory
	keywords []string
}{
	{models.CategoryAnalytics, []string{"analytics", "tag manager", "hotjar", "segment", "mixpanel", "amplitude", "heap", "sentry"}},
	{models.CategorySocial, []string{"facebook", "twitter", "linkedin", "instagram", "tiktok", "youtube", "pinterest", "social"}},
	{models.CategoryAdvertising, []string{"ad", "doubleclick", "criteo", "taboola", "outbrain"}},
	{models.CategoryCDN, []string{"cdn", "cloudflare", "cloudfront", "akamai", "fastly", "jsdelivr", "unpkg"}},
	{models.CategoryFonts, []string{"font", "typekit", "gstatic"}},
	{models.CategoryLeadTracking, []string{"lead", "intercom", "hubspot", "drift", "salesforce"}},
}

// Categorize buckets a third-party entity by name.
func Categorize(entityName string) models.ThirdPartyCategory {
	name := strings.ToLower(entityName)
	for _, group := range categoryKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(name, kw) {
				return group.category
			}
		}
	}
	return models.CategoryOther
}
