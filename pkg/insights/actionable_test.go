package insights

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/pagepulse/pagepulse/pkg/models"
)

func intPtr(v int) *int { return &v }

func slowPageResult() *models.PerformanceResult {
	return &models.PerformanceResult{
		URL:       "https://example.com",
		Strategy:  models.StrategyMobile,
		Timestamp: time.Now(),
		Scores:    models.CategoryScores{Performance: intPtr(42)},
		Metrics: models.CoreWebVitals{
			LCP: poorMetric(4500),
			CLS: poorMetric(0.3),
		},
		LCPElement: &models.LCPElement{Tag: "img", URL: "https://example.com/hero.jpg"},
		Insights: &models.DetailedInsights{
			UnusedJavaScript: []models.UnusedCodeIssue{{URL: "https://example.com/a.js", WastedBytes: 600000}},
			ImageIssues:      []models.ImageIssue{{URL: "https://example.com/a.jpg", WastedBytes: 600000}},
			ThirdParties:     []models.ThirdPartyIssue{{Entity: "X", BlockingTime: 1500}},
			RenderBlocking:   []models.RenderBlockingResource{{URL: "https://example.com/a.css", WastedMs: 1200}},
			TotalSavings:     models.TotalSavings{TimeMs: 1200, SizeBytes: 1200000},
		},
	}
}

func TestGenerateActionableReportNextStepCap(t *testing.T) {
	report := GenerateActionableReport(slowPageResult(), nil)

	// Six opportunities qualify and the score is under 90, but the list
	// never exceeds five entries.
	if len(report.NextSteps) > maxNextSteps {
		t.Fatalf("Expected at most %d next steps, got %d", maxNextSteps, len(report.NextSteps))
	}
	if len(report.NextSteps) != 5 {
		t.Errorf("Expected exactly 5 next steps for this input, got %d", len(report.NextSteps))
	}

	// Critical opportunities demand immediate action.
	if report.NextSteps[0].Urgency != models.UrgencyImmediate {
		t.Errorf("Expected immediate first step, got %q", report.NextSteps[0].Urgency)
	}
}

func TestGenerateActionableReportMonitoringStepAlwaysPresent(t *testing.T) {
	result := &models.PerformanceResult{
		URL:      "https://example.com",
		Scores:   models.CategoryScores{Performance: intPtr(98)},
		Metrics:  models.CoreWebVitals{LCP: goodMetric(1200), CLS: goodMetric(0.01)},
		Insights: &models.DetailedInsights{},
	}
	report := GenerateActionableReport(result, nil)

	if len(report.NextSteps) != 1 {
		t.Fatalf("Expected only the monitoring step for a healthy page, got %d", len(report.NextSteps))
	}
	if report.NextSteps[0].Urgency != models.UrgencyWhenPossible {
		t.Errorf("Expected when-possible urgency, got %q", report.NextSteps[0].Urgency)
	}
}

func TestGenerateActionableReportHealthStatus(t *testing.T) {
	tests := []struct {
		name     string
		score    *int
		expected models.HealthStatus
	}{
		{"Healthy", intPtr(90), models.HealthHealthy},
		{"Needs attention", intPtr(65), models.HealthNeedsAttention},
		{"Critical", intPtr(30), models.HealthCritical},
		{"Boundary 50", intPtr(50), models.HealthNeedsAttention},
		{"Nil score treated as zero", nil, models.HealthCritical},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := &models.PerformanceResult{
				URL:      "https://example.com",
				Scores:   models.CategoryScores{Performance: tc.score},
				Insights: &models.DetailedInsights{},
			}
			report := GenerateActionableReport(result, nil)
			if report.Summary.HealthStatus != tc.expected {
				t.Errorf("Score %v: status = %q, want %q", tc.score, report.Summary.HealthStatus, tc.expected)
			}
		})
	}
}

func TestGenerateActionableReportSummary(t *testing.T) {
	report := GenerateActionableReport(slowPageResult(), nil)

	if report.Summary.PotentialSavings.SizeBytes != 1200000 {
		t.Errorf("Expected savings from insights totals, got %v", report.Summary.PotentialSavings.SizeBytes)
	}
	if len(report.Summary.TopPriorities) != 3 {
		t.Fatalf("Expected top 3 priorities, got %d", len(report.Summary.TopPriorities))
	}
	if report.Summary.TopPriorities[0] != "Optimize Largest Contentful Paint" {
		t.Errorf("Expected LCP opportunity first, got %q", report.Summary.TopPriorities[0])
	}
	// Every opportunity here carries a minutes-level step or a code example.
	if report.Summary.QuickWinsCount != len(report.KeyOpportunities) {
		t.Errorf("Expected %d quick wins, got %d", len(report.KeyOpportunities), report.Summary.QuickWinsCount)
	}

	if _, err := time.Parse(time.RFC3339, report.GeneratedAt); err != nil {
		t.Errorf("GeneratedAt %q is not RFC3339: %v", report.GeneratedAt, err)
	}
}

func TestGenerateActionableReportDeterministic(t *testing.T) {
	first := GenerateActionableReport(slowPageResult(), nil)
	second := GenerateActionableReport(slowPageResult(), nil)

	// The two runs differ only in their timestamps.
	second.GeneratedAt = first.GeneratedAt
	second.PerformanceResult.Timestamp = first.PerformanceResult.Timestamp

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(a) != string(b) {
		t.Error("Identical input must produce identical reports apart from timestamps")
	}
}

func TestGenerateActionableReportDerivesInsights(t *testing.T) {
	// When the result carries no precomputed insights, the generator runs
	// the extractors over the raw audits.
	result := &models.PerformanceResult{
		URL:    "https://example.com",
		Scores: models.CategoryScores{Performance: intPtr(70)},
		Audits: models.AuditMap{
			auditUnusedJavaScript: tableAudit(
				map[string]any{"url": "https://example.com/a.js", "totalBytes": 500000.0, "wastedBytes": 150000.0},
			),
		},
	}

	report := GenerateActionableReport(result, nil)
	if len(report.DiagnosticsTable) != 1 {
		t.Fatalf("Expected 1 diagnostic from raw audits, got %d", len(report.DiagnosticsTable))
	}
	if report.DiagnosticsTable[0].ID != "unused-javascript" {
		t.Errorf("Unexpected diagnostic %q", report.DiagnosticsTable[0].ID)
	}
}

func TestGenerateActionableReportProjectContextPassthrough(t *testing.T) {
	ctx := &models.ProjectContext{Framework: &models.FrameworkInfo{Name: "next", Version: "14.2.0"}}
	report := GenerateActionableReport(slowPageResult(), ctx)

	if report.ProjectContext != ctx {
		t.Error("Expected project context passed through")
	}
	for _, opp := range report.KeyOpportunities {
		if opp.ID == "optimize-lcp" && opp.FrameworkNotes == "" {
			t.Error("Expected Next.js notes on the LCP opportunity")
		}
	}
	if report.EnhancedLCP == nil {
		t.Fatal("Expected enhanced LCP element")
	}
	if report.EnhancedLCP.Type != models.LCPTypeImage {
		t.Errorf("Expected image LCP type, got %q", report.EnhancedLCP.Type)
	}
}
