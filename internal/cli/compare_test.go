package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pagepulse/pagepulse/pkg/models"
)

func TestCompareCmdSaveThenCompare(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	// Save original pipelineRunner and restore after test
	originalPipelineRunner := pipelineRunner
	defer func() { pipelineRunner = originalPipelineRunner }()

	pipelineRunner = func(opts AnalysisOptions) ([]*models.ActionableReport, error) {
		return []*models.ActionableReport{stubReport("https://example.com", 78)}, nil
	}

	baselineFile := filepath.Join(t.TempDir(), "baseline.json")

	// First pass records the baseline
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	rootCmd.SetArgs([]string{"compare", "https://example.com", "--save-baseline", "--baseline", baselineFile})
	err := rootCmd.Execute()

	_ = w.Close()
	os.Stdout = oldStdout
	flagSaveBaseline = false

	if err != nil {
		t.Fatalf("compareCmd --save-baseline failed: %v", err)
	}

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	if !strings.Contains(buf.String(), "Baseline saved") {
		t.Errorf("Expected save confirmation, got: %s", buf.String())
	}

	if _, err := os.Stat(baselineFile); err != nil {
		t.Fatalf("baseline file was not written: %v", err)
	}

	// Second pass compares against it. Identical measurement, so no
	// regression and no non-zero exit.
	r, w, _ = os.Pipe()
	os.Stdout = w

	rootCmd.SetArgs([]string{"compare", "https://example.com", "--baseline", baselineFile})
	err = rootCmd.Execute()

	_ = w.Close()
	os.Stdout = oldStdout

	if err != nil {
		t.Fatalf("compareCmd failed: %v", err)
	}

	buf.Reset()
	_, _ = io.Copy(&buf, r)
	output := buf.String()

	if !strings.Contains(output, "https://example.com") {
		t.Errorf("Expected comparison output to mention the URL, got: %s", output)
	}
}

func TestBaselinePathFlag(t *testing.T) {
	flagBaselinePath = "/tmp/custom.json"
	defer func() { flagBaselinePath = "" }()

	if got := baselinePath(); got != "/tmp/custom.json" {
		t.Errorf("baselinePath() = %q, want /tmp/custom.json", got)
	}

	flagBaselinePath = ""
	if got := baselinePath(); !strings.HasSuffix(got, filepath.Join(".pagepulse", "baseline.json")) {
		t.Errorf("baselinePath() default = %q, want a .pagepulse/baseline.json path", got)
	}
}
