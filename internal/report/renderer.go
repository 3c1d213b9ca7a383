package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/pagepulse/pagepulse/pkg/models"
	"github.com/pagepulse/pagepulse/pkg/util"
)

type Format string

const (
	FormatJSON     Format = "json"
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
)

// RenderOptions contains options for rendering reports
type RenderOptions struct {
	ShowDiagnosticItems bool
	Verbose             bool
}

type Renderer interface {
	Render(report *models.ActionableReport, w io.Writer) error
	RenderWithOptions(report *models.ActionableReport, w io.Writer, opts RenderOptions) error
}

func NewRenderer(f Format) Renderer {
	switch f {
	case FormatJSON:
		return &JSONRenderer{}
	case FormatText:
		return &TextRenderer{}
	case FormatMarkdown:
		return &MarkdownRenderer{}
	default:
		return &TextRenderer{}
	}
}

type JSONRenderer struct{}

func (r *JSONRenderer) Render(report *models.ActionableReport, w io.Writer) error {
	return r.RenderWithOptions(report, w, RenderOptions{})
}

func (r *JSONRenderer) RenderWithOptions(report *models.ActionableReport, w io.Writer, opts RenderOptions) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

type TextRenderer struct{}

func (r *TextRenderer) Render(report *models.ActionableReport, w io.Writer) error {
	return r.RenderWithOptions(report, w, RenderOptions{})
}

func (r *TextRenderer) RenderWithOptions(report *models.ActionableReport, w io.Writer, opts RenderOptions) error {
	result := report.PerformanceResult
	if result == nil {
		_, _ = fmt.Fprintln(w, "No measurement result.")
		return nil
	}

	_, _ = fmt.Fprintf(w, "\n🔎 PERFORMANCE REPORT: %s (%s)\n", result.URL, result.Strategy)
	_, _ = fmt.Fprintln(w, "==================================================")

	// 1. Category scores
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	writeScore(tw, "Performance", result.Scores.Performance)
	writeScore(tw, "Accessibility", result.Scores.Accessibility)
	writeScore(tw, "Best Practices", result.Scores.BestPractices)
	writeScore(tw, "SEO", result.Scores.SEO)
	_ = tw.Flush()

	// 2. Core Web Vitals
	_, _ = fmt.Fprintln(w, "\n[ core-web-vitals ]")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	writeMetric(tw, "LCP", result.Metrics.LCP)
	writeMetric(tw, "FCP", result.Metrics.FCP)
	writeMetric(tw, "CLS", result.Metrics.CLS)
	writeMetric(tw, "TBT", result.Metrics.TBT)
	writeMetric(tw, "TTFB", result.Metrics.TTFB)
	writeMetric(tw, "Speed Index", result.Metrics.SpeedIndex)
	_ = tw.Flush()

	if result.FieldData != nil {
		_, _ = fmt.Fprintln(w, "\n[ field-data (real users) ]")
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		writeMetric(tw, "LCP", result.FieldData.LCP)
		writeMetric(tw, "FCP", result.FieldData.FCP)
		writeMetric(tw, "CLS", result.FieldData.CLS)
		writeMetric(tw, "INP", result.FieldData.INP)
		_ = tw.Flush()
	}

	// 3. LCP element
	if report.EnhancedLCP != nil {
		r.renderLCP(w, report.EnhancedLCP)
	}

	// 4. Diagnostics table
	if len(report.DiagnosticsTable) > 0 {
		_, _ = fmt.Fprintln(w, "\n[ diagnostics ]")
		for _, item := range report.DiagnosticsTable {
			_, _ = fmt.Fprintf(w, "  %s %s: %s\n", severityIcon(item.Severity), item.Title, item.DisplayValue)
			if item.Savings != nil {
				_, _ = fmt.Fprintf(w, "     Savings: %s\n", savingsString(*item.Savings))
			}
		}
	} else {
		_, _ = fmt.Fprintln(w, "\n[ diagnostics ]")
		_, _ = fmt.Fprintln(w, "  No issues found.")
	}

	// 5. Key opportunities
	if len(report.KeyOpportunities) > 0 {
		_, _ = fmt.Fprintln(w, "\n[ key-opportunities ]")
		for _, opp := range report.KeyOpportunities {
			_, _ = fmt.Fprintf(w, "\n  %d. %s %s\n", opp.Priority, impactIcon(opp.Impact.Level), opp.Title)
			_, _ = fmt.Fprintf(w, "     %s\n", opp.Description)
			if opp.Impact.Description != "" {
				_, _ = fmt.Fprintf(w, "     Impact: %s\n", opp.Impact.Description)
			}
			for _, step := range opp.Steps {
				_, _ = fmt.Fprintf(w, "     %d. %s", step.Order, step.Action)
				if step.EstimatedTime != "" {
					_, _ = fmt.Fprintf(w, " (%s)", step.EstimatedTime)
				}
				_, _ = fmt.Fprintln(w, "")
				if opts.Verbose && step.Details != "" {
					_, _ = fmt.Fprintf(w, "        %s\n", step.Details)
				}
			}
			if opp.FrameworkNotes != "" {
				_, _ = fmt.Fprintf(w, "     💡 %s\n", opp.FrameworkNotes)
			}
		}
	}

	// 6. Next steps
	if len(report.NextSteps) > 0 {
		_, _ = fmt.Fprintln(w, "\n[ next-steps ]")
		for i, step := range report.NextSteps {
			_, _ = fmt.Fprintf(w, "  %d. %s %s\n", i+1, urgencyIcon(step.Urgency), step.Action)
		}
	}

	// 7. Summary
	_, _ = fmt.Fprintln(w, "\n📊 SUMMARY")
	_, _ = fmt.Fprintln(w, "==================================================")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Health:\t%s\n", healthString(report.Summary.HealthStatus))
	_, _ = fmt.Fprintf(tw, "Quick Wins:\t%d\n", report.Summary.QuickWinsCount)
	if report.Summary.PotentialSavings.SizeBytes > 0 {
		_, _ = fmt.Fprintf(tw, "Potential Size Savings:\t%s\n", util.FormatBytes(report.Summary.PotentialSavings.SizeBytes))
	}
	if report.Summary.PotentialSavings.TimeMs > 0 {
		_, _ = fmt.Fprintf(tw, "Potential Time Savings:\t%s\n", util.FormatMilliseconds(report.Summary.PotentialSavings.TimeMs))
	}
	_ = tw.Flush()

	if len(report.Summary.TopPriorities) > 0 {
		_, _ = fmt.Fprintln(w, "\nTop Priorities:")
		for i, p := range report.Summary.TopPriorities {
			_, _ = fmt.Fprintf(w, "  %d. %s\n", i+1, p)
		}
	}
	_, _ = fmt.Fprintln(w, "--------------------------------------------------")

	return nil
}

func (r *TextRenderer) renderLCP(w io.Writer, lcp *models.EnhancedLCPElement) {
	_, _ = fmt.Fprintln(w, "\n[ lcp-element ]")
	_, _ = fmt.Fprintf(w, "  Type:\t%s (loading: %s)\n", lcp.Type, lcp.LoadingMechanism)
	if lcp.URL != "" {
		_, _ = fmt.Fprintf(w, "  URL:\t%s\n", util.TruncateURL(lcp.URL, util.DefaultURLLength))
	}
	if lcp.Selector != "" {
		_, _ = fmt.Fprintf(w, "  Selector:\t%s\n", lcp.Selector)
	}
	for _, rec := range lcp.Recommendations {
		_, _ = fmt.Fprintf(w, "  %s %s: %s\n", impactIcon(rec.Impact), rec.Title, rec.Description)
	}
}

func writeScore(w io.Writer, label string, score *int) {
	if score == nil {
		_, _ = fmt.Fprintf(w, "%s:\tn/a\n", label)
		return
	}
	_, _ = fmt.Fprintf(w, "%s:\t%s\n", label, scoreColor(*score).Sprintf("%d/100", *score))
}

func writeMetric(w io.Writer, label string, m *models.MetricValue) {
	if m == nil {
		return
	}
	val := m.DisplayValue
	if val == "" {
		val = fmt.Sprintf("%.2f", m.Value)
	}
	_, _ = fmt.Fprintf(w, "%s:\t%s %s\n", label, ratingIcon(m.Rating), val)
}

func scoreColor(score int) *color.Color {
	switch {
	case score >= 90:
		return color.New(color.FgGreen)
	case score >= 50:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func ratingIcon(r models.Rating) string {
	switch r {
	case models.RatingGood:
		return "🟢"
	case models.RatingNeedsImprovement:
		return "🟡"
	default:
		return "🔴"
	}
}

func severityIcon(s models.Severity) string {
	switch s {
	case models.SeverityCritical:
		return "🚨"
	case models.SeveritySerious:
		return "⚠️"
	default:
		return "ℹ️"
	}
}

func impactIcon(level models.ImpactLevel) string {
	switch level {
	case models.ImpactCritical:
		return "🚨"
	case models.ImpactHigh:
		return "⚠️"
	default:
		return "ℹ️"
	}
}

func urgencyIcon(u models.Urgency) string {
	switch u {
	case models.UrgencyImmediate:
		return "🚨"
	case models.UrgencySoon:
		return "⚠️"
	default:
		return "📌"
	}
}

func healthString(h models.HealthStatus) string {
	switch h {
	case models.HealthHealthy:
		return color.GreenString("healthy")
	case models.HealthNeedsAttention:
		return color.YellowString("needs attention")
	default:
		return color.RedString("critical")
	}
}

func savingsString(s models.DiagnosticSavings) string {
	switch {
	case s.TimeMs > 0 && s.Bytes > 0:
		return fmt.Sprintf("%s, %s", util.FormatMilliseconds(s.TimeMs), util.FormatBytes(s.Bytes))
	case s.TimeMs > 0:
		return util.FormatMilliseconds(s.TimeMs)
	case s.Bytes > 0:
		return util.FormatBytes(s.Bytes)
	default:
		return "none"
	}
}
