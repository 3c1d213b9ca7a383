package baseline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pagepulse/pagepulse/pkg/models"
)

// Baseline stores a historical measurement for comparison
type Baseline struct {
	Timestamp time.Time                 `json:"timestamp"`
	Result    *models.PerformanceResult `json:"result"`
}

// ComparisonResult contains the delta between two measurements of the same page
type ComparisonResult struct {
	Current  *models.PerformanceResult `json:"current"`
	Previous *Baseline                 `json:"previous"`
	Scores   []ScoreChange             `json:"scores"`
	Metrics  []MetricChange            `json:"metrics"`
	Summary  ComparisonSummary         `json:"summary"`
}

// ScoreChange represents the change in a category score
type ScoreChange struct {
	Category string `json:"category"`
	Previous int    `json:"previous"`
	Current  int    `json:"current"`
	Delta    int    `json:"delta"`
}

// MetricChange represents the change in a web vital
type MetricChange struct {
	Key          string  `json:"key"`
	Previous     float64 `json:"previous"`
	Current      float64 `json:"current"`
	Delta        float64 `json:"delta"`
	PercentDelta float64 `json:"percent_delta"`
	Improved     bool    `json:"improved"`
}

// ComparisonSummary provides high-level comparison stats
type ComparisonSummary struct {
	HasRegression         bool `json:"has_regression"`
	PerformanceScoreDelta int  `json:"performance_score_delta"`
	ImprovedMetrics       int  `json:"improved_metrics"`
	DegradedMetrics       int  `json:"degraded_metrics"`
}

// Save persists a measurement as a baseline
func Save(result *models.PerformanceResult, path string) error {
	baseline := Baseline{
		Timestamp: time.Now(),
		Result:    result,
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create baseline directory: %w", err)
	}

	data, err := json.MarshalIndent(baseline, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal baseline: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write baseline: %w", err)
	}

	return nil
}

// Load reads a baseline from disk
func Load(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline: %w", err)
	}

	var baseline Baseline
	if err := json.Unmarshal(data, &baseline); err != nil {
		return nil, fmt.Errorf("failed to unmarshal baseline: %w", err)
	}

	return &baseline, nil
}

// Compare generates a comparison between current and baseline measurements
func Compare(current *models.PerformanceResult, previous *Baseline) *ComparisonResult {
	if current == nil || previous == nil || previous.Result == nil {
		return nil
	}

	result := &ComparisonResult{
		Current:  current,
		Previous: previous,
		Scores:   make([]ScoreChange, 0),
		Metrics:  make([]MetricChange, 0),
	}

	prev := previous.Result

	scorePairs := []struct {
		name     string
		current  *int
		previous *int
	}{
		{"performance", current.Scores.Performance, prev.Scores.Performance},
		{"accessibility", current.Scores.Accessibility, prev.Scores.Accessibility},
		{"best-practices", current.Scores.BestPractices, prev.Scores.BestPractices},
		{"seo", current.Scores.SEO, prev.Scores.SEO},
	}
	for _, pair := range scorePairs {
		if pair.current == nil || pair.previous == nil {
			continue
		}
		result.Scores = append(result.Scores, ScoreChange{
			Category: pair.name,
			Previous: *pair.previous,
			Current:  *pair.current,
			Delta:    *pair.current - *pair.previous,
		})
	}

	metricPairs := []struct {
		key      string
		current  *models.MetricValue
		previous *models.MetricValue
	}{
		{"lcp", current.Metrics.LCP, prev.Metrics.LCP},
		{"fcp", current.Metrics.FCP, prev.Metrics.FCP},
		{"cls", current.Metrics.CLS, prev.Metrics.CLS},
		{"tbt", current.Metrics.TBT, prev.Metrics.TBT},
		{"ttfb", current.Metrics.TTFB, prev.Metrics.TTFB},
		{"speed-index", current.Metrics.SpeedIndex, prev.Metrics.SpeedIndex},
	}
	for _, pair := range metricPairs {
		if pair.current == nil || pair.previous == nil {
			continue
		}
		if pair.current.Value == pair.previous.Value {
			continue
		}

		change := MetricChange{
			Key:      pair.key,
			Previous: pair.previous.Value,
			Current:  pair.current.Value,
			Delta:    pair.current.Value - pair.previous.Value,
			// Every tracked vital improves as it shrinks
			Improved: pair.current.Value < pair.previous.Value,
		}
		if pair.previous.Value != 0 {
			change.PercentDelta = change.Delta / pair.previous.Value * 100
		}
		result.Metrics = append(result.Metrics, change)
	}

	result.Summary = generateSummary(result)

	return result
}

// generateSummary creates a high-level comparison summary
func generateSummary(result *ComparisonResult) ComparisonSummary {
	summary := ComparisonSummary{}

	for _, score := range result.Scores {
		if score.Category == "performance" {
			summary.PerformanceScoreDelta = score.Delta
		}
	}

	for _, change := range result.Metrics {
		if change.Improved {
			summary.ImprovedMetrics++
		} else {
			summary.DegradedMetrics++
		}
	}

	// Regression when the score drops noticeably or a vital degrades by more
	// than measurement noise
	summary.HasRegression = summary.PerformanceScoreDelta < -5
	for _, change := range result.Metrics {
		if !change.Improved && change.PercentDelta > 10 {
			summary.HasRegression = true
		}
	}

	return summary
}

// GetDefaultBaselinePath returns the default path for baseline storage
func GetDefaultBaselinePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pagepulse/baseline.json"
	}
	return filepath.Join(home, ".pagepulse", "baseline.json")
}
