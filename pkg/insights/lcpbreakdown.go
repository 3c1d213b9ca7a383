package insights

import (
	"math"

	"github.com/pagepulse/pagepulse/pkg/models"
)

// resourceLoadShare is the fraction of the FCP-to-LCP window attributed to
// resource loading when the precise phase timings are unavailable. It is an
// approximation, not a measurement; revisit here if a better split becomes
// available upstream.
const resourceLoadShare = 0.6

// ExtractLCPBreakdown approximates the LCP phase split from the paint-timing
// audits. Returns nil when the LCP audit has no numeric value, since nothing
// useful can be derived without it. TTFB falls back to 0 when the
// server-response-time audit is absent.
func ExtractLCPBreakdown(audits models.AuditMap) *models.LCPBreakdown {
	lcp, ok := auditNumeric(audits, auditLCP)
	if !ok {
		return nil
	}
	fcp, _ := auditNumeric(audits, auditFCP)
	ttfb, _ := auditNumeric(audits, auditServerResponse)

	loadDelay := math.Max(0, fcp-ttfb)
	loadDuration := math.Max(0, (lcp-fcp)*resourceLoadShare)
	renderDelay := math.Max(0, lcp-ttfb-loadDelay-loadDuration)

	return &models.LCPBreakdown{
		TTFB:                 math.Round(ttfb),
		ResourceLoadDelay:    math.Round(loadDelay),
		ResourceLoadDuration: math.Round(loadDuration),
		ElementRenderDelay:   math.Round(renderDelay),
	}
}
