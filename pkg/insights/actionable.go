package insights

import (
	"fmt"
	"strings"
	"time"

	"github.com/pagepulse/pagepulse/pkg/entity"
	"github.com/pagepulse/pagepulse/pkg/models"
)

// maxNextSteps caps the to-do list at the end of a report.
const maxNextSteps = 5

// GenerateActionableReport runs the full synthesis pipeline over a
// measurement: detailed insights, the diagnostics table, the enhanced LCP
// element, key opportunities, next steps and the executive summary. ctx may
// be nil; the report then carries generic guidance only.
func GenerateActionableReport(result *models.PerformanceResult, ctx *models.ProjectContext) *models.ActionableReport {
	detailed := result.Insights
	if detailed == nil {
		detailed = Extract(result.Audits, entity.HostDomain(result.URL))
	}

	var lcpValue float64
	if result.Metrics.LCP != nil {
		lcpValue = result.Metrics.LCP.Value
	}
	enhanced := EnhanceLCPElement(result.LCPElement, detailed.LCPBreakdown, lcpValue, ctx)

	diagnostics := BuildDiagnosticsTable(detailed)
	opportunities := SynthesizeOpportunities(result, detailed, enhanced, ctx)

	return &models.ActionableReport{
		PerformanceResult: result,
		ProjectContext:    ctx,
		EnhancedLCP:       enhanced,
		DiagnosticsTable:  diagnostics,
		KeyOpportunities:  opportunities,
		NextSteps:         buildNextSteps(opportunities, result.Scores.Performance),
		Summary:           buildSummary(opportunities, detailed, diagnostics, result.Scores.Performance),
		GeneratedAt:       time.Now().UTC().Format(time.RFC3339),
	}
}

// buildNextSteps turns the top opportunities into a short ordered to-do
// list: one step per critical/high opportunity among the top three, a fixed
// monitoring step, and a CI-testing step when the score is below 90. The
// combined list is capped at five entries in construction order.
func buildNextSteps(opportunities []models.KeyOpportunity, performanceScore *int) []models.NextStep {
	steps := []models.NextStep{}

	top := opportunities
	if len(top) > 3 {
		top = top[:3]
	}
	for _, opp := range top {
		if opp.Impact.Level != models.ImpactCritical && opp.Impact.Level != models.ImpactHigh {
			continue
		}
		urgency := models.UrgencySoon
		if opp.Impact.Level == models.ImpactCritical {
			urgency = models.UrgencyImmediate
		}
		steps = append(steps, models.NextStep{
			Action:      opp.Title,
			Urgency:     urgency,
			RelatedTo:   opp.ID,
			Description: fmt.Sprintf("Work through the %d-step plan in the %s opportunity.", len(opp.Steps), opp.ID),
		})
	}

	steps = append(steps, models.NextStep{
		Action:      "Set up continuous performance monitoring",
		Urgency:     models.UrgencyWhenPossible,
		Description: "Track Core Web Vitals on every deploy so regressions surface before users notice.",
	})

	if scoreOrZero(performanceScore) < 90 {
		steps = append(steps, models.NextStep{
			Action:      "Add performance testing to CI",
			Urgency:     models.UrgencySoon,
			Description: "Fail builds that regress the performance score below an agreed budget.",
		})
	}

	if len(steps) > maxNextSteps {
		steps = steps[:maxNextSteps]
	}
	return steps
}

func buildSummary(opportunities []models.KeyOpportunity, detailed *models.DetailedInsights, diagnostics []models.DiagnosticItem, performanceScore *int) models.ReportSummary {
	score := scoreOrZero(performanceScore)

	status := models.HealthCritical
	switch {
	case score >= 90:
		status = models.HealthHealthy
	case score >= 50:
		status = models.HealthNeedsAttention
	}

	quickWins := 0
	for _, opp := range opportunities {
		if hasQuickWin(opp) {
			quickWins++
		}
	}

	var savings models.TotalSavings
	if detailed != nil {
		savings = detailed.TotalSavings
	} else {
		for _, diag := range diagnostics {
			if diag.Savings == nil {
				continue
			}
			savings.TimeMs += diag.Savings.TimeMs
			savings.SizeBytes += diag.Savings.Bytes
		}
	}

	priorities := []string{}
	for _, opp := range opportunities {
		priorities = append(priorities, opp.Title)
		if len(priorities) == 3 {
			break
		}
	}

	return models.ReportSummary{
		HealthStatus:     status,
		QuickWinsCount:   quickWins,
		PotentialSavings: savings,
		TopPriorities:    priorities,
	}
}

// hasQuickWin reports whether an opportunity contains at least one step a
// developer can land fast: either an estimated time in minutes or a ready
// code example.
func hasQuickWin(opp models.KeyOpportunity) bool {
	for _, step := range opp.Steps {
		if strings.Contains(step.EstimatedTime, "minute") || step.CodeExample != "" {
			return true
		}
	}
	return false
}

func scoreOrZero(score *int) int {
	if score == nil {
		return 0
	}
	return *score
}
