package insights

import (
	"github.com/pagepulse/pagepulse/pkg/models"
)

// Audit ids the extractors read. Kept as constants so a renamed upstream
// audit only needs one edit.
const (
	auditLongCacheTTL      = "uses-long-cache-ttl"
	auditModernImages      = "modern-image-formats"
	auditResponsiveImages  = "uses-responsive-images"
	auditOffscreenImages   = "offscreen-images"
	auditOptimizedImages   = "uses-optimized-images"
	auditUnusedJavaScript  = "unused-javascript"
	auditUnusedCSS         = "unused-css-rules"
	auditLegacyJavaScript  = "legacy-javascript"
	auditThirdPartySummary = "third-party-summary"
	auditLongTasks         = "long-tasks"
	auditRenderBlocking    = "render-blocking-resources"
	auditLCP               = "largest-contentful-paint"
	auditFCP               = "first-contentful-paint"
	auditServerResponse    = "server-response-time"
)

// auditItems returns the detail items of a named audit, or nil when the audit
// or its details are absent. Extractors treat nil as "nothing to report".
func auditItems(audits models.AuditMap, id string) []map[string]any {
	audit, ok := audits[id]
	if !ok || audit.Details == nil {
		return nil
	}
	return audit.Details.Items
}

// auditNumeric returns an audit's numeric value and whether it was present.
func auditNumeric(audits models.AuditMap, id string) (float64, bool) {
	audit, ok := audits[id]
	if !ok || audit.NumericValue == nil {
		return 0, false
	}
	return *audit.NumericValue, true
}

// itemString reads a string field from a loosely-typed audit item.
func itemString(item map[string]any, key string) string {
	if v, ok := item[key].(string); ok {
		return v
	}
	return ""
}

// itemFloat reads a numeric field from a loosely-typed audit item. JSON
// numbers decode as float64 but hand-built fixtures may carry ints; anything
// else counts as absent.
func itemFloat(item map[string]any, key string) float64 {
	switch v := item[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

// subItems unwraps the nested subItems.items list Lighthouse uses for
// per-entity and per-bundle detail rows.
func subItems(item map[string]any) []map[string]any {
	sub, ok := item["subItems"].(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := sub["items"].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		if m, ok := r.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
