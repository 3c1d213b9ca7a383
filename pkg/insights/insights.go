package insights

import (
	"github.com/pagepulse/pagepulse/pkg/models"
)

// Extract runs every extractor over the raw audit map and aggregates the
// results into one DetailedInsights. hostDomain is the analyzed page's host.
//
// TotalSavings sums wasted bytes across unused JS, unused CSS, cache and
// image issues; legacy JS and third parties are reported separately and kept
// out of the total. TotalSavings.TimeMs counts render-blocking wasted
// milliseconds only; long-task and third-party blocking time are excluded,
// and consumers depend on that exact accounting.
func Extract(audits models.AuditMap, hostDomain string) *models.DetailedInsights {
	d := &models.DetailedInsights{
		CacheIssues:      ExtractCacheIssues(audits),
		ImageIssues:      ExtractImageIssues(audits),
		UnusedJavaScript: ExtractUnusedJavaScript(audits, hostDomain),
		UnusedCSS:        ExtractUnusedCSS(audits, hostDomain),
		LegacyJavaScript: ExtractLegacyJavaScript(audits),
		ThirdParties:     ExtractThirdParties(audits),
		LongTasks:        ExtractLongTasks(audits),
		RenderBlocking:   ExtractRenderBlocking(audits),
		LCPBreakdown:     ExtractLCPBreakdown(audits),
	}

	RecalculateTotalSavings(d)

	return d
}

// RecalculateTotalSavings rebuilds TotalSavings from the sections currently
// present. Callers that prune sections must re-total afterwards, or the
// removed issues would keep inflating the summary.
func RecalculateTotalSavings(d *models.DetailedInsights) {
	d.TotalSavings = models.TotalSavings{}
	for _, issue := range d.UnusedJavaScript {
		d.TotalSavings.SizeBytes += issue.WastedBytes
	}
	for _, issue := range d.UnusedCSS {
		d.TotalSavings.SizeBytes += issue.WastedBytes
	}
	for _, issue := range d.CacheIssues {
		d.TotalSavings.SizeBytes += issue.WastedBytes
	}
	for _, issue := range d.ImageIssues {
		d.TotalSavings.SizeBytes += issue.WastedBytes
	}
	for _, res := range d.RenderBlocking {
		d.TotalSavings.TimeMs += res.WastedMs
	}
}
