package baseline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pagepulse/pagepulse/pkg/models"
)

func intPtr(v int) *int { return &v }

func createTestResult(perfScore int, lcp, cls float64) *models.PerformanceResult {
	return &models.PerformanceResult{
		URL:      "https://example.com",
		Strategy: models.StrategyMobile,
		Scores: models.CategoryScores{
			Performance:   intPtr(perfScore),
			Accessibility: intPtr(95),
		},
		Metrics: models.CoreWebVitals{
			LCP: &models.MetricValue{Value: lcp, Rating: models.RatingNeedsImprovement},
			CLS: &models.MetricValue{Value: cls, Rating: models.RatingGood},
		},
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	baselinePath := filepath.Join(tmpDir, "baseline.json")

	result := createTestResult(85, 2800, 0.05)

	err := Save(result, baselinePath)
	if err != nil {
		t.Fatalf("Failed to save baseline: %v", err)
	}

	if _, err := os.Stat(baselinePath); os.IsNotExist(err) {
		t.Fatal("Baseline file was not created")
	}

	loaded, err := Load(baselinePath)
	if err != nil {
		t.Fatalf("Failed to load baseline: %v", err)
	}

	if loaded.Result.URL != "https://example.com" {
		t.Errorf("Expected URL to round-trip, got %s", loaded.Result.URL)
	}
	if loaded.Result.Scores.Performance == nil || *loaded.Result.Scores.Performance != 85 {
		t.Errorf("Expected performance score 85, got %+v", loaded.Result.Scores.Performance)
	}
	if loaded.Result.Metrics.LCP == nil || loaded.Result.Metrics.LCP.Value != 2800 {
		t.Errorf("Expected LCP 2800, got %+v", loaded.Result.Metrics.LCP)
	}

	if loaded.Timestamp.IsZero() {
		t.Error("Expected non-zero timestamp")
	}
}

func TestLoadNonExistent(t *testing.T) {
	_, err := Load("/nonexistent/path/baseline.json")
	if err == nil {
		t.Error("Expected error when loading nonexistent baseline")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	baselinePath := filepath.Join(tmpDir, "invalid.json")

	err := os.WriteFile(baselinePath, []byte("invalid json"), 0644)
	if err != nil {
		t.Fatalf("Failed to write invalid JSON: %v", err)
	}

	_, err = Load(baselinePath)
	if err == nil {
		t.Error("Expected error when loading invalid JSON")
	}
}

func TestCompareImprovement(t *testing.T) {
	previous := &Baseline{
		Timestamp: time.Now().Add(-24 * time.Hour),
		Result:    createTestResult(80, 3000, 0.1),
	}
	current := createTestResult(85, 2500, 0.05)

	result := Compare(current, previous)
	if result == nil {
		t.Fatal("Expected non-nil comparison result")
	}
	if result.Current != current {
		t.Error("Current result mismatch")
	}
	if result.Previous != previous {
		t.Error("Previous baseline mismatch")
	}

	if result.Summary.PerformanceScoreDelta != 5 {
		t.Errorf("Expected performance delta 5, got %d", result.Summary.PerformanceScoreDelta)
	}
	if result.Summary.ImprovedMetrics != 2 {
		t.Errorf("Expected 2 improved metrics, got %d", result.Summary.ImprovedMetrics)
	}
	if result.Summary.DegradedMetrics != 0 {
		t.Errorf("Expected 0 degraded metrics, got %d", result.Summary.DegradedMetrics)
	}
	if result.Summary.HasRegression {
		t.Error("Expected no regression for improved metrics")
	}
}

func TestCompareScoreRegression(t *testing.T) {
	previous := &Baseline{
		Timestamp: time.Now().Add(-24 * time.Hour),
		Result:    createTestResult(85, 2500, 0.05),
	}
	current := createTestResult(75, 2500, 0.05)

	result := Compare(current, previous)

	if result.Summary.PerformanceScoreDelta != -10 {
		t.Errorf("Expected performance delta -10, got %d", result.Summary.PerformanceScoreDelta)
	}
	if !result.Summary.HasRegression {
		t.Error("Expected regression for score drop > 5")
	}
}

func TestCompareMetricRegression(t *testing.T) {
	previous := &Baseline{
		Timestamp: time.Now().Add(-24 * time.Hour),
		Result:    createTestResult(85, 2500, 0.05),
	}
	// LCP up 20%, score steady
	current := createTestResult(85, 3000, 0.05)

	result := Compare(current, previous)

	if len(result.Metrics) != 1 {
		t.Fatalf("Expected 1 metric change, got %d", len(result.Metrics))
	}
	change := result.Metrics[0]
	if change.Key != "lcp" {
		t.Errorf("Expected lcp change, got %s", change.Key)
	}
	if change.Improved {
		t.Error("Expected LCP increase to be marked degraded")
	}
	if change.Delta != 500 {
		t.Errorf("Expected delta 500, got %f", change.Delta)
	}
	if change.PercentDelta != 20 {
		t.Errorf("Expected percent delta 20, got %f", change.PercentDelta)
	}
	if !result.Summary.HasRegression {
		t.Error("Expected regression for metric degrading > 10%")
	}
}

func TestCompareSmallDegradationNoRegression(t *testing.T) {
	previous := &Baseline{
		Timestamp: time.Now().Add(-24 * time.Hour),
		Result:    createTestResult(85, 2500, 0.05),
	}
	// LCP up 4%, within noise
	current := createTestResult(83, 2600, 0.05)

	result := Compare(current, previous)

	if result.Summary.HasRegression {
		t.Error("Expected no regression for small changes")
	}
	if result.Summary.DegradedMetrics != 1 {
		t.Errorf("Expected 1 degraded metric, got %d", result.Summary.DegradedMetrics)
	}
}

func TestCompareMissingMetrics(t *testing.T) {
	previous := &Baseline{
		Timestamp: time.Now().Add(-24 * time.Hour),
		Result: &models.PerformanceResult{
			Scores: models.CategoryScores{Performance: intPtr(80)},
		},
	}
	current := createTestResult(85, 2500, 0.05)

	result := Compare(current, previous)

	// Metrics absent from the baseline are skipped, not compared against zero
	if len(result.Metrics) != 0 {
		t.Errorf("Expected no metric changes when baseline lacks metrics, got %d", len(result.Metrics))
	}
	if len(result.Scores) != 1 {
		t.Errorf("Expected 1 score change, got %d", len(result.Scores))
	}
}

func TestCompareZeroPreviousValue(t *testing.T) {
	previous := &Baseline{
		Timestamp: time.Now().Add(-24 * time.Hour),
		Result: &models.PerformanceResult{
			Metrics: models.CoreWebVitals{
				CLS: &models.MetricValue{Value: 0},
			},
		},
	}
	current := &models.PerformanceResult{
		Metrics: models.CoreWebVitals{
			CLS: &models.MetricValue{Value: 0.2},
		},
	}

	result := Compare(current, previous)

	if len(result.Metrics) != 1 {
		t.Fatalf("Expected 1 metric change, got %d", len(result.Metrics))
	}
	// PercentDelta stays 0 when dividing by 0
	if result.Metrics[0].PercentDelta != 0 {
		t.Errorf("Expected percent delta 0 for zero previous value, got %f", result.Metrics[0].PercentDelta)
	}
}

func TestCompareNilInputs(t *testing.T) {
	if Compare(nil, &Baseline{Result: createTestResult(80, 2500, 0.05)}) != nil {
		t.Error("Expected nil result for nil current")
	}
	if Compare(createTestResult(80, 2500, 0.05), nil) != nil {
		t.Error("Expected nil result for nil previous")
	}
	if Compare(createTestResult(80, 2500, 0.05), &Baseline{}) != nil {
		t.Error("Expected nil result for baseline without a stored result")
	}
}

func TestGetDefaultBaselinePath(t *testing.T) {
	path := GetDefaultBaselinePath()
	if path == "" {
		t.Error("Expected non-empty default baseline path")
	}

	if !filepath.IsAbs(path) && path != ".pagepulse/baseline.json" {
		t.Errorf("Expected absolute path or '.pagepulse/baseline.json', got '%s'", path)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	baselinePath := filepath.Join(tmpDir, "nested", "dir", "baseline.json")

	result := createTestResult(80, 3000, 0.1)

	err := Save(result, baselinePath)
	if err != nil {
		t.Fatalf("Failed to save baseline: %v", err)
	}

	if _, err := os.Stat(baselinePath); os.IsNotExist(err) {
		t.Fatal("Baseline file was not created in nested directory")
	}
}

func TestBaselineJSONFormat(t *testing.T) {
	tmpDir := t.TempDir()
	baselinePath := filepath.Join(tmpDir, "baseline.json")

	result := createTestResult(85, 2800, 0.05)
	err := Save(result, baselinePath)
	if err != nil {
		t.Fatalf("Failed to save baseline: %v", err)
	}

	data, err := os.ReadFile(baselinePath)
	if err != nil {
		t.Fatalf("Failed to read baseline file: %v", err)
	}

	var rawJSON map[string]interface{}
	err = json.Unmarshal(data, &rawJSON)
	if err != nil {
		t.Fatalf("Baseline is not valid JSON: %v", err)
	}

	if _, ok := rawJSON["timestamp"]; !ok {
		t.Error("Expected 'timestamp' field in baseline JSON")
	}
	if _, ok := rawJSON["result"]; !ok {
		t.Error("Expected 'result' field in baseline JSON")
	}
}
