package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pagepulse/pagepulse/internal/report"
	"github.com/pagepulse/pagepulse/pkg/baseline"
	"github.com/spf13/cobra"
)

var (
	flagBaselinePath string
	flagSaveBaseline bool
)

var compareCmd = &cobra.Command{
	Use:   "compare [url]",
	Short: "Compare a page against its saved baseline",
	Long: `Measure a page and diff the result against a previously saved baseline.
Useful for checking whether a deploy moved the needle, in either direction.

Run with --save-baseline first to record the reference measurement.`,
	Example: `  pagepulse compare https://example.com --save-baseline
  pagepulse compare https://example.com
  pagepulse compare https://example.com --baseline ./pre-release.json
  pagepulse compare https://example.com --format=json`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeURLs,
	Run:               runComparison,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	registerRunFlags(compareCmd)
	compareCmd.Flags().StringVar(&flagBaselinePath, "baseline", "", "Path to the baseline file (default ~/.pagepulse/baseline.json)")
	compareCmd.Flags().BoolVar(&flagSaveBaseline, "save-baseline", false, "Save this measurement as the new baseline instead of comparing")
}

func baselinePath() string {
	if flagBaselinePath != "" {
		return flagBaselinePath
	}
	return baseline.GetDefaultBaselinePath()
}

func runComparison(cmd *cobra.Command, args []string) {
	opts := AnalysisOptions{
		URLs:       args,
		Strategy:   flagStrategy,
		ProjectDir: flagProject,
		NoCache:    flagNoCache,
	}

	reports, err := pipelineRunner(opts)
	if err != nil {
		fmt.Printf("Error running analysis: %v\n", err)
		os.Exit(1)
	}
	current := reports[0].PerformanceResult
	recordUsage(args[0])

	path := baselinePath()

	if flagSaveBaseline {
		if err := baseline.Save(current, path); err != nil {
			fmt.Printf("Error saving baseline: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Baseline saved to %s\n", path)
		return
	}

	previous, err := baseline.Load(path)
	if err != nil {
		fmt.Printf("Error loading baseline from %s: %v\n", path, err)
		fmt.Println("Run 'pagepulse compare <url> --save-baseline' to record one first.")
		os.Exit(1)
	}

	result := baseline.Compare(current, previous)
	if result == nil {
		fmt.Println("Error: nothing to compare; the baseline holds no measurement.")
		os.Exit(1)
	}

	if resolveFormat() == report.FormatJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Printf("Error rendering comparison: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	} else {
		renderer := &report.ComparisonTextRenderer{}
		if err := renderer.Render(result, os.Stdout); err != nil {
			fmt.Printf("Error rendering comparison: %v\n", err)
		}
	}

	if result.Summary.HasRegression {
		os.Exit(1)
	}
}
