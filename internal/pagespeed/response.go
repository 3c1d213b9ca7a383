package pagespeed

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"time"

	"github.com/pagepulse/pagepulse/pkg/models"
)

// apiResponse mirrors the slice of the v5 API payload this tool consumes.
type apiResponse struct {
	LighthouseResult  *lighthouseResult  `json:"lighthouseResult"`
	LoadingExperience *loadingExperience `json:"loadingExperience"`
}

type lighthouseResult struct {
	RequestedURL string                        `json:"requestedUrl"`
	FinalURL     string                        `json:"finalUrl"`
	FetchTime    string                        `json:"fetchTime"`
	Categories   map[string]lighthouseCategory `json:"categories"`
	Audits       models.AuditMap               `json:"audits"`
}

type lighthouseCategory struct {
	Score *float64 `json:"score"`
}

type loadingExperience struct {
	Metrics map[string]fieldMetric `json:"metrics"`
}

type fieldMetric struct {
	Percentile float64 `json:"percentile"`
	Category   string  `json:"category"`
}

var (
	snippetTagRe = regexp.MustCompile(`^<([a-zA-Z][a-zA-Z0-9-]*)`)
	snippetSrcRe = regexp.MustCompile(`src="([^"]+)"`)
)

// diagnosticAudits are the non-opportunity audits surfaced in the raw
// diagnostics list.
var diagnosticAudits = []string{
	"mainthread-work-breakdown",
	"bootup-time",
	"dom-size",
	"third-party-summary",
	"long-tasks",
	"uses-long-cache-ttl",
	"legacy-javascript",
}

// toPerformanceResult normalizes the API payload into the pipeline's input
// shape. Category scores come back as 0-1 fractions and are scaled to 0-100.
func (r *apiResponse) toPerformanceResult(pageURL string, strategy models.Strategy) (*models.PerformanceResult, error) {
	if r.LighthouseResult == nil {
		return nil, fmt.Errorf("pagespeed response for %s has no lighthouse result", pageURL)
	}
	lh := r.LighthouseResult

	result := &models.PerformanceResult{
		URL:      pageURL,
		Strategy: strategy,
		Scores: models.CategoryScores{
			Performance:   scaledScore(lh.Categories, "performance"),
			Accessibility: scaledScore(lh.Categories, "accessibility"),
			BestPractices: scaledScore(lh.Categories, "best-practices"),
			SEO:           scaledScore(lh.Categories, "seo"),
		},
		Metrics: models.CoreWebVitals{
			LCP:        metricFromAudit(lh.Audits, "largest-contentful-paint"),
			FCP:        metricFromAudit(lh.Audits, "first-contentful-paint"),
			CLS:        metricFromAudit(lh.Audits, "cumulative-layout-shift"),
			TBT:        metricFromAudit(lh.Audits, "total-blocking-time"),
			TTFB:       metricFromAudit(lh.Audits, "server-response-time"),
			SpeedIndex: metricFromAudit(lh.Audits, "speed-index"),
		},
		LCPElement: lcpElementFromAudits(lh.Audits),
		Audits:     lh.Audits,
		FieldData:  fieldDataFrom(r.LoadingExperience),
	}

	if t, err := time.Parse(time.RFC3339, lh.FetchTime); err == nil {
		result.Timestamp = t
	} else {
		result.Timestamp = time.Now().UTC()
	}

	for id, audit := range lh.Audits {
		if audit.Details == nil || audit.Details.Type != "opportunity" {
			continue
		}
		if audit.Score != nil && *audit.Score >= 0.9 {
			continue
		}
		result.Opportunities = append(result.Opportunities, models.OpportunitySummary{
			ID:             id,
			Title:          audit.Title,
			SavingsMs:      audit.Details.OverallSavingsMs,
			SavingsBytes:   audit.Details.OverallSavingsBytes,
			ScoreDisplayed: audit.DisplayValue,
		})
	}
	sortSummaries(result.Opportunities)

	for _, id := range diagnosticAudits {
		audit, ok := lh.Audits[id]
		if !ok {
			continue
		}
		if audit.Score != nil && *audit.Score >= 0.9 {
			continue
		}
		result.Diagnostics = append(result.Diagnostics, models.OpportunitySummary{
			ID:             id,
			Title:          audit.Title,
			ScoreDisplayed: audit.DisplayValue,
		})
	}

	return result, nil
}

// sortSummaries orders opportunities by time savings, largest first, falling
// back to byte savings for ties.
func sortSummaries(summaries []models.OpportunitySummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].SavingsMs != summaries[j].SavingsMs {
			return summaries[i].SavingsMs > summaries[j].SavingsMs
		}
		return summaries[i].SavingsBytes > summaries[j].SavingsBytes
	})
}

func scaledScore(categories map[string]lighthouseCategory, name string) *int {
	category, ok := categories[name]
	if !ok || category.Score == nil {
		return nil
	}
	score := int(math.Round(*category.Score * 100))
	return &score
}

func metricFromAudit(audits models.AuditMap, id string) *models.MetricValue {
	audit, ok := audits[id]
	if !ok || audit.NumericValue == nil {
		return nil
	}

	rating := models.RatingPoor
	if audit.Score != nil {
		rating = models.RatingForScore(*audit.Score)
	}

	return &models.MetricValue{
		Value:        *audit.NumericValue,
		DisplayValue: audit.DisplayValue,
		Rating:       rating,
	}
}

// lcpElementFromAudits reads the largest-contentful-paint-element audit and
// reconstructs the element from the reported node. The tag and any image URL
// come out of the HTML snippet.
func lcpElementFromAudits(audits models.AuditMap) *models.LCPElement {
	audit, ok := audits["largest-contentful-paint-element"]
	if !ok || audit.Details == nil || len(audit.Details.Items) == 0 {
		return nil
	}

	node, ok := audit.Details.Items[0]["node"].(map[string]any)
	if !ok {
		// Newer responses nest the element one table deeper
		if items, ok := audit.Details.Items[0]["items"].([]any); ok && len(items) > 0 {
			if first, ok := items[0].(map[string]any); ok {
				node, _ = first["node"].(map[string]any)
			}
		}
	}
	if node == nil {
		return nil
	}

	element := &models.LCPElement{
		Snippet:   nodeString(node, "snippet"),
		Selector:  nodeString(node, "selector"),
		NodeLabel: nodeString(node, "nodeLabel"),
	}

	if m := snippetTagRe.FindStringSubmatch(element.Snippet); m != nil {
		element.Tag = m[1]
	}
	if m := snippetSrcRe.FindStringSubmatch(element.Snippet); m != nil {
		element.URL = m[1]
	}

	return element
}

func nodeString(node map[string]any, key string) string {
	s, _ := node[key].(string)
	return s
}

func fieldDataFrom(le *loadingExperience) *models.FieldData {
	if le == nil || len(le.Metrics) == 0 {
		return nil
	}

	fd := &models.FieldData{
		LCP: fieldMetricValue(le.Metrics, "LARGEST_CONTENTFUL_PAINT_MS"),
		FCP: fieldMetricValue(le.Metrics, "FIRST_CONTENTFUL_PAINT_MS"),
		CLS: fieldMetricValue(le.Metrics, "CUMULATIVE_LAYOUT_SHIFT_SCORE"),
		INP: fieldMetricValue(le.Metrics, "INTERACTION_TO_NEXT_PAINT"),
	}
	if fd.LCP == nil && fd.FCP == nil && fd.CLS == nil && fd.INP == nil {
		return nil
	}
	return fd
}

func fieldMetricValue(metrics map[string]fieldMetric, key string) *models.MetricValue {
	m, ok := metrics[key]
	if !ok {
		return nil
	}

	value := m.Percentile
	display := fmt.Sprintf("%.0f ms", value)
	if key == "CUMULATIVE_LAYOUT_SHIFT_SCORE" {
		// CrUX reports CLS scaled by 100
		value = value / 100
		display = fmt.Sprintf("%.2f", value)
	}

	return &models.MetricValue{
		Value:        value,
		DisplayValue: display,
		Rating:       ratingForFieldCategory(m.Category),
	}
}

func ratingForFieldCategory(category string) models.Rating {
	switch category {
	case "FAST":
		return models.RatingGood
	case "AVERAGE":
		return models.RatingNeedsImprovement
	default:
		return models.RatingPoor
	}
}
