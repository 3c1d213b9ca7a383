package insights

import (
	"fmt"
	"sort"

	"github.com/pagepulse/pagepulse/pkg/models"
	"github.com/pagepulse/pagepulse/pkg/util"
)

// maxDiagnosticItems caps how many issue records a diagnostic row carries.
// Extractor output is already sorted, so the first ten are the ten largest.
const maxDiagnosticItems = 10

// Per-category severity bands that differ from the defaults.
var (
	cssSeverityBands      = util.SeverityThresholds{Moderate: 50000, Serious: 100000, Critical: 200000}
	legacyJSSeverityBands = util.SeverityThresholds{Moderate: 30000, Serious: 60000, Critical: 100000}
)

// BuildDiagnosticsTable flattens DetailedInsights into one UI-ready row per
// issue category with data, ranked critical first. Categories are examined in
// a fixed order (unused JS, unused CSS, long tasks, render-blocking, third
// parties, cache, images, legacy JS) and ties on severity keep that order.
func BuildDiagnosticsTable(d *models.DetailedInsights) []models.DiagnosticItem {
	items := []models.DiagnosticItem{}
	if d == nil {
		return items
	}

	if len(d.UnusedJavaScript) > 0 {
		totalWasted := 0.0
		for _, issue := range d.UnusedJavaScript {
			totalWasted += issue.WastedBytes
		}
		items = append(items, models.DiagnosticItem{
			ID:           "unused-javascript",
			Title:        "Remove unused JavaScript",
			DisplayValue: fmt.Sprintf("%s unused in %s", util.FormatBytes(totalWasted), pluralize(len(d.UnusedJavaScript), "file", "files")),
			Score:        scoreOf(totalWasted, 150000, 500000),
			Severity:     util.SeverityByBytes(totalWasted),
			Savings:      &models.DiagnosticSavings{Bytes: totalWasted},
			Items:        capItems(d.UnusedJavaScript),
			Category:     models.DiagnosticJavaScript,
		})
	}

	if len(d.UnusedCSS) > 0 {
		totalWasted := 0.0
		for _, issue := range d.UnusedCSS {
			totalWasted += issue.WastedBytes
		}
		items = append(items, models.DiagnosticItem{
			ID:           "unused-css",
			Title:        "Remove unused CSS",
			DisplayValue: fmt.Sprintf("%s unused in %s", util.FormatBytes(totalWasted), pluralize(len(d.UnusedCSS), "stylesheet", "stylesheets")),
			Score:        scoreOf(totalWasted, 50000, 200000),
			Severity:     util.SeverityFor(totalWasted, cssSeverityBands),
			Savings:      &models.DiagnosticSavings{Bytes: totalWasted},
			Items:        capItems(d.UnusedCSS),
			Category:     models.DiagnosticResource,
		})
	}

	if len(d.LongTasks) > 0 {
		count := len(d.LongTasks)
		items = append(items, models.DiagnosticItem{
			ID:           "long-tasks",
			Title:        "Reduce long main-thread tasks",
			DisplayValue: fmt.Sprintf("%s found", pluralize(count, "long task", "long tasks")),
			Score:        scoreOf(float64(count), 2, 5),
			Severity:     longTaskSeverity(count),
			Items:        capItems(d.LongTasks),
			Category:     models.DiagnosticPerformance,
		})
	}

	if len(d.RenderBlocking) > 0 {
		totalWasted := 0.0
		for _, res := range d.RenderBlocking {
			totalWasted += res.WastedMs
		}
		items = append(items, models.DiagnosticItem{
			ID:           "render-blocking",
			Title:        "Eliminate render-blocking resources",
			DisplayValue: fmt.Sprintf("%s delaying first paint by %s", pluralize(len(d.RenderBlocking), "resource", "resources"), util.FormatMilliseconds(totalWasted)),
			Score:        scoreOf(totalWasted, 500, 1500),
			Severity:     util.SeverityByTime(totalWasted),
			Savings:      &models.DiagnosticSavings{TimeMs: totalWasted},
			Items:        capItems(d.RenderBlocking),
			Category:     models.DiagnosticRendering,
		})
	}

	if len(d.ThirdParties) > 0 {
		totalBlocking := 0.0
		for _, tp := range d.ThirdParties {
			totalBlocking += tp.BlockingTime
		}
		items = append(items, models.DiagnosticItem{
			ID:           "third-parties",
			Title:        "Reduce third-party impact",
			DisplayValue: fmt.Sprintf("%s blocking the main thread for %s", pluralize(len(d.ThirdParties), "third party", "third parties"), util.FormatMilliseconds(totalBlocking)),
			Score:        scoreOf(totalBlocking, 250, 1000),
			Severity:     thirdPartySeverity(totalBlocking),
			Savings:      &models.DiagnosticSavings{TimeMs: totalBlocking},
			Items:        capItems(d.ThirdParties),
			Category:     models.DiagnosticNetwork,
		})
	}

	if len(d.CacheIssues) > 0 {
		totalWasted := 0.0
		for _, issue := range d.CacheIssues {
			totalWasted += issue.WastedBytes
		}
		items = append(items, models.DiagnosticItem{
			ID:           "cache-policy",
			Title:        "Serve static assets with an efficient cache policy",
			DisplayValue: fmt.Sprintf("%s with short cache lifetimes", pluralize(len(d.CacheIssues), "resource", "resources")),
			Score:        scoreOf(totalWasted, 100000, 500000),
			Severity:     util.SeverityByBytes(totalWasted),
			Savings:      &models.DiagnosticSavings{Bytes: totalWasted},
			Items:        capItems(d.CacheIssues),
			Category:     models.DiagnosticNetwork,
		})
	}

	if len(d.ImageIssues) > 0 {
		totalWasted := 0.0
		for _, issue := range d.ImageIssues {
			totalWasted += issue.WastedBytes
		}
		items = append(items, models.DiagnosticItem{
			ID:           "image-optimization",
			Title:        "Optimize images",
			DisplayValue: fmt.Sprintf("%s wasted across %s", util.FormatBytes(totalWasted), pluralize(len(d.ImageIssues), "image", "images")),
			Score:        scoreOf(totalWasted, 100000, 500000),
			Severity:     util.SeverityByBytes(totalWasted),
			Savings:      &models.DiagnosticSavings{Bytes: totalWasted},
			Items:        capItems(d.ImageIssues),
			Category:     models.DiagnosticResource,
		})
	}

	if len(d.LegacyJavaScript) > 0 {
		totalWasted := 0.0
		for _, issue := range d.LegacyJavaScript {
			totalWasted += issue.WastedBytes
		}
		items = append(items, models.DiagnosticItem{
			ID:           "legacy-javascript",
			Title:        "Avoid serving legacy JavaScript to modern browsers",
			DisplayValue: fmt.Sprintf("%s of polyfills and transforms in %s", util.FormatBytes(totalWasted), pluralize(len(d.LegacyJavaScript), "bundle", "bundles")),
			Score:        scoreOf(totalWasted, 30000, 100000),
			Severity:     util.SeverityFor(totalWasted, legacyJSSeverityBands),
			Savings:      &models.DiagnosticSavings{Bytes: totalWasted},
			Items:        capItems(d.LegacyJavaScript),
			Category:     models.DiagnosticJavaScript,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return models.SeverityRank(items[i].Severity) < models.SeverityRank(items[j].Severity)
	})
	return items
}

// longTaskSeverity buckets by task count with exclusive bounds: more than 5
// is critical, more than 3 serious, more than 1 moderate.
func longTaskSeverity(count int) models.Severity {
	switch {
	case count > 5:
		return models.SeverityCritical
	case count > 3:
		return models.SeveritySerious
	case count > 1:
		return models.SeverityModerate
	default:
		return models.SeverityMinor
	}
}

// thirdPartySeverity buckets total blocking time with exclusive bounds:
// more than 1000ms is critical, more than 500ms serious, more than 250ms
// moderate.
func thirdPartySeverity(blockingMs float64) models.Severity {
	switch {
	case blockingMs > 1000:
		return models.SeverityCritical
	case blockingMs > 500:
		return models.SeveritySerious
	case blockingMs > 250:
		return models.SeverityModerate
	default:
		return models.SeverityMinor
	}
}

func scoreOf(value, good, poor float64) *float64 {
	s := util.CalculateScore(value, good, poor)
	return &s
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}

// capItems truncates an issue slice to the diagnostic row limit.
func capItems[T any](items []T) []T {
	if len(items) > maxDiagnosticItems {
		return items[:maxDiagnosticItems]
	}
	return items
}
