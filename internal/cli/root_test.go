package cli

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/pagepulse/pagepulse/internal/config"
	"github.com/pagepulse/pagepulse/pkg/models"
)

func intPtr(v int) *int { return &v }

func stubReport(url string, score int) *models.ActionableReport {
	return &models.ActionableReport{
		PerformanceResult: &models.PerformanceResult{
			URL:      url,
			Strategy: models.StrategyMobile,
			Scores: models.CategoryScores{
				Performance: intPtr(score),
			},
		},
		Summary: models.ReportSummary{
			HealthStatus: models.HealthNeedsAttention,
		},
	}
}

func TestRunCmd(t *testing.T) {
	// Keep completion history out of the real config dir
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	// Save original pipelineRunner and restore after test
	originalPipelineRunner := pipelineRunner
	defer func() { pipelineRunner = originalPipelineRunner }()

	var gotOpts AnalysisOptions
	pipelineRunner = func(opts AnalysisOptions) ([]*models.ActionableReport, error) {
		gotOpts = opts
		return []*models.ActionableReport{stubReport("https://example.com", 62)}, nil
	}

	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	rootCmd.SetArgs([]string{"run", "https://example.com"})
	// Reset flags that might have been set by other tests or init()
	flagFormat = "text"
	flagFail = 0

	err := rootCmd.Execute()

	// Restore stdout
	_ = w.Close()
	os.Stdout = oldStdout
	flagFormat = ""

	if err != nil {
		t.Fatalf("runCmd failed: %v", err)
	}

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	output := buf.String()

	if len(gotOpts.URLs) != 1 || gotOpts.URLs[0] != "https://example.com" {
		t.Errorf("pipelineRunner got URLs %v, want [https://example.com]", gotOpts.URLs)
	}

	if !bytes.Contains([]byte(output), []byte("https://example.com")) {
		t.Errorf("Expected rendered report to mention the URL, got: %s", output)
	}
}

func TestRunCmdJSONFormat(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	originalPipelineRunner := pipelineRunner
	defer func() { pipelineRunner = originalPipelineRunner }()

	pipelineRunner = func(opts AnalysisOptions) ([]*models.ActionableReport, error) {
		return []*models.ActionableReport{stubReport("https://example.com", 95)}, nil
	}

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	rootCmd.SetArgs([]string{"run", "https://example.com"})
	flagFormat = "json"
	flagFail = 0

	err := rootCmd.Execute()

	_ = w.Close()
	os.Stdout = oldStdout
	flagFormat = ""

	if err != nil {
		t.Fatalf("runCmd failed: %v", err)
	}

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	output := buf.String()

	if !bytes.Contains([]byte(output), []byte(`"performanceResult"`)) {
		t.Errorf("Expected JSON output, got: %s", output)
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https url", "https://example.com", false},
		{"http url", "http://example.com/path?q=1", false},
		{"missing scheme", "example.com", true},
		{"ftp scheme", "ftp://example.com", true},
		{"scheme only", "https://", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestApplySectionToggles(t *testing.T) {
	detailed := &models.DetailedInsights{
		ImageIssues:      []models.ImageIssue{{URL: "https://example.com/hero.jpg", WastedBytes: 400000}},
		UnusedJavaScript: []models.UnusedCodeIssue{{URL: "https://example.com/app.js", WastedBytes: 50000}},
		ThirdParties:     []models.ThirdPartyIssue{{Entity: "Google Tag Manager"}},
		LongTasks:        []models.LongTask{{Duration: 250}},
		TotalSavings:     models.TotalSavings{SizeBytes: 450000},
	}

	cfg := config.InsightsConfig{
		UnusedCode:     config.SectionConfig{Enabled: true},
		Images:         config.SectionConfig{Enabled: false},
		ThirdParties:   config.SectionConfig{Enabled: true},
		Caching:        config.SectionConfig{Enabled: true},
		RenderBlocking: config.SectionConfig{Enabled: true},
		LongTasks:      config.SectionConfig{Enabled: false},
		LCP:            config.SectionConfig{Enabled: true},
	}

	applySectionToggles(detailed, cfg)

	if detailed.ImageIssues != nil {
		t.Error("expected image issues to be dropped")
	}
	if detailed.LongTasks != nil {
		t.Error("expected long tasks to be dropped")
	}
	if len(detailed.ThirdParties) != 1 {
		t.Error("expected third parties to survive")
	}
	if detailed.TotalSavings.SizeBytes != 50000 {
		t.Errorf("expected savings re-totaled without dropped sections, got %.0f bytes", detailed.TotalSavings.SizeBytes)
	}
}

func TestFrameworkLabel(t *testing.T) {
	if got := frameworkLabel(nil); got != "node (no framework detected)" {
		t.Errorf("expected fallback label for nil context, got %q", got)
	}
	if got := frameworkLabel(&models.ProjectContext{}); got != "node (no framework detected)" {
		t.Errorf("expected fallback label without a framework, got %q", got)
	}

	ctx := &models.ProjectContext{Framework: &models.FrameworkInfo{Name: "next", Version: "14.0.0"}}
	if got := frameworkLabel(ctx); got != "next 14.0.0" {
		t.Errorf("expected framework name and version, got %q", got)
	}

	ctx.Framework.Version = ""
	if got := frameworkLabel(ctx); got != "next" {
		t.Errorf("expected bare framework name, got %q", got)
	}
}
