package report

import (
	"fmt"
	"io"

	"github.com/pagepulse/pagepulse/pkg/models"
	"github.com/pagepulse/pagepulse/pkg/util"
)

// MarkdownRenderer renders reports in Markdown format suitable for CI jobs and
// PR comments
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(report *models.ActionableReport, w io.Writer) error {
	return r.RenderWithOptions(report, w, RenderOptions{})
}

func (r *MarkdownRenderer) RenderWithOptions(report *models.ActionableReport, w io.Writer, opts RenderOptions) error {
	result := report.PerformanceResult
	if result == nil {
		_, _ = fmt.Fprintln(w, "## 📊 Performance Report")
		_, _ = fmt.Fprintln(w, "")
		_, _ = fmt.Fprintln(w, "No measurement result.")
		return nil
	}

	scoreEmoji := "🔴"
	if result.Scores.Performance != nil {
		scoreEmoji = getScoreEmoji(*result.Scores.Performance)
	}

	_, _ = fmt.Fprintf(w, "## %s Performance Report: %s\n", scoreEmoji, result.URL)
	_, _ = fmt.Fprintf(w, "*Strategy: %s*\n\n", result.Strategy)

	// Scores
	_, _ = fmt.Fprintln(w, "| Category | Score |")
	_, _ = fmt.Fprintln(w, "|----------|-------|")
	writeScoreRow(w, "Performance", result.Scores.Performance)
	writeScoreRow(w, "Accessibility", result.Scores.Accessibility)
	writeScoreRow(w, "Best Practices", result.Scores.BestPractices)
	writeScoreRow(w, "SEO", result.Scores.SEO)
	_, _ = fmt.Fprintln(w, "")

	// Core Web Vitals
	_, _ = fmt.Fprintln(w, "#### 📈 Core Web Vitals")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "| Metric | Value | Rating |")
	_, _ = fmt.Fprintln(w, "|--------|-------|--------|")
	writeMetricRow(w, "LCP", result.Metrics.LCP)
	writeMetricRow(w, "FCP", result.Metrics.FCP)
	writeMetricRow(w, "CLS", result.Metrics.CLS)
	writeMetricRow(w, "TBT", result.Metrics.TBT)
	writeMetricRow(w, "TTFB", result.Metrics.TTFB)
	writeMetricRow(w, "Speed Index", result.Metrics.SpeedIndex)
	_, _ = fmt.Fprintln(w, "")

	// Diagnostics
	if len(report.DiagnosticsTable) > 0 {
		_, _ = fmt.Fprintln(w, "#### 🔍 Diagnostics")
		_, _ = fmt.Fprintln(w, "")

		criticalCount := 0
		seriousCount := 0
		otherCount := 0

		_, _ = fmt.Fprintf(w, "<details>\n<summary><b>Diagnostics</b> (%d findings)</summary>\n\n", len(report.DiagnosticsTable))
		for _, item := range report.DiagnosticsTable {
			switch item.Severity {
			case models.SeverityCritical:
				criticalCount++
			case models.SeveritySerious:
				seriousCount++
			default:
				otherCount++
			}
			_, _ = fmt.Fprintf(w, "- %s **%s:** %s\n", severityIcon(item.Severity), item.Title, item.DisplayValue)
			if item.Savings != nil {
				_, _ = fmt.Fprintf(w, "  - *Savings:* %s\n", savingsString(*item.Savings))
			}
		}
		_, _ = fmt.Fprintln(w, "</details>")
		_, _ = fmt.Fprintln(w, "")

		_, _ = fmt.Fprintf(w, "**Summary:** ")
		if criticalCount > 0 {
			_, _ = fmt.Fprintf(w, "🚨 %d critical ", criticalCount)
		}
		if seriousCount > 0 {
			_, _ = fmt.Fprintf(w, "⚠️ %d serious ", seriousCount)
		}
		if otherCount > 0 {
			_, _ = fmt.Fprintf(w, "ℹ️ %d other", otherCount)
		}
		_, _ = fmt.Fprintln(w, "")
		_, _ = fmt.Fprintln(w, "")
	}

	// Opportunities
	if len(report.KeyOpportunities) > 0 {
		_, _ = fmt.Fprintln(w, "#### 💡 Key Opportunities")
		_, _ = fmt.Fprintln(w, "")

		for _, opp := range report.KeyOpportunities {
			_, _ = fmt.Fprintf(w, "> %s **%d. %s:** %s\n", impactIcon(opp.Impact.Level), opp.Priority, opp.Title, opp.Description)
			for _, step := range opp.Steps {
				_, _ = fmt.Fprintf(w, "> %d. %s\n", step.Order, step.Action)
			}
			if opp.FrameworkNotes != "" {
				_, _ = fmt.Fprintf(w, "> \n> 💡 **Framework:** %s\n", opp.FrameworkNotes)
			}
			_, _ = fmt.Fprintln(w, "")
		}
	} else {
		_, _ = fmt.Fprintln(w, "#### ✅ No Key Opportunities")
		_, _ = fmt.Fprintln(w, "")
		_, _ = fmt.Fprintln(w, "This page is in good shape!")
		_, _ = fmt.Fprintln(w, "")
	}

	// Next steps
	if len(report.NextSteps) > 0 {
		_, _ = fmt.Fprintln(w, "#### ✔️ Next Steps")
		_, _ = fmt.Fprintln(w, "")
		for i, step := range report.NextSteps {
			_, _ = fmt.Fprintf(w, "%d. %s %s\n", i+1, urgencyIcon(step.Urgency), step.Action)
		}
		_, _ = fmt.Fprintln(w, "")
	}

	// Summary
	_, _ = fmt.Fprintln(w, "### 📊 Summary")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "| Metric | Value |")
	_, _ = fmt.Fprintln(w, "|--------|-------|")
	_, _ = fmt.Fprintf(w, "| Health | %s |\n", report.Summary.HealthStatus)
	_, _ = fmt.Fprintf(w, "| Quick Wins | %d |\n", report.Summary.QuickWinsCount)
	if report.Summary.PotentialSavings.SizeBytes > 0 {
		_, _ = fmt.Fprintf(w, "| Potential Size Savings | %s |\n", util.FormatBytes(report.Summary.PotentialSavings.SizeBytes))
	}
	if report.Summary.PotentialSavings.TimeMs > 0 {
		_, _ = fmt.Fprintf(w, "| Potential Time Savings | %s |\n", util.FormatMilliseconds(report.Summary.PotentialSavings.TimeMs))
	}
	_, _ = fmt.Fprintln(w, "")

	// Footer
	_, _ = fmt.Fprintf(w, "<sub>Generated by [pagepulse](https://github.com/pagepulse/pagepulse) at %s</sub>\n",
		report.GeneratedAt)

	return nil
}

func writeScoreRow(w io.Writer, label string, score *int) {
	if score == nil {
		_, _ = fmt.Fprintf(w, "| %s | n/a |\n", label)
		return
	}
	_, _ = fmt.Fprintf(w, "| %s | %s %d/100 |\n", label, getScoreEmoji(*score), *score)
}

func writeMetricRow(w io.Writer, label string, m *models.MetricValue) {
	if m == nil {
		return
	}
	val := m.DisplayValue
	if val == "" {
		val = fmt.Sprintf("%.2f", m.Value)
	}
	_, _ = fmt.Fprintf(w, "| %s | %s | %s |\n", label, val, ratingIcon(m.Rating))
}

func getScoreEmoji(score int) string {
	switch {
	case score >= 90:
		return "🟢"
	case score >= 75:
		return "🟡"
	case score >= 50:
		return "🟠"
	default:
		return "🔴"
	}
}
