package cli

import (
	"fmt"
	"os"

	"github.com/pagepulse/pagepulse/internal/config"
	"github.com/pagepulse/pagepulse/internal/report"
	"github.com/spf13/cobra"
)

// Version can be set via build flags: -ldflags "-X 'github.com/pagepulse/pagepulse/internal/cli.Version=v1.0.0'"
var Version = "dev"

var (
	rootCmd = &cobra.Command{
		Use:   "pagepulse",
		Short: "Web Performance Deep Inspection Tool",
		Long: `pagepulse is a CLI tool for comprehensive performance analysis of web pages.
It runs remote Lighthouse measurements, distills the raw audits into actionable
insights, and tells you what to fix first.`,
		Version:          Version,
		PersistentPreRun: checkAndInitConfig,
	}

	runCmd = &cobra.Command{
		Use:   "run [urls...]",
		Short: "Run analysis on one or more pages",
		Long: `Analyze one or more pages.
This command measures each URL remotely, extracts the underlying performance
issues, and produces a prioritized report with concrete remediation steps.`,
		Example: `  pagepulse run https://example.com
  pagepulse run https://example.com https://example.com/pricing --strategy=desktop
  pagepulse run https://example.com --format=json > report.json
  pagepulse run https://example.com --project ./my-app`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeURLs,
		Run:               runAnalysis,
	}
)

// Flags
var (
	flagFormat   string
	flagStrategy string
	flagProject  string
	flagOutput   string
	flagNoCache  bool
	flagFail     int
	flagQuiet    bool
	flagVerbose  bool
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func shouldPrintInfo() bool {
	return !flagQuiet
}

func shouldPrintVerbose() bool {
	return flagVerbose && !flagQuiet
}

func checkAndInitConfig(cmd *cobra.Command, args []string) {
	// Skip for init, config, help, completion, and the auth command
	if cmd == initCmd || cmd == configCmd || cmd == authCmd || cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
		return
	}

	configPath, err := config.GetConfigPath()
	if err != nil {
		// Can't resolve path, probably can't save either. Ignore.
		return
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Printf("ℹ️  Config not found at %s. Initializing default configuration...\n", configPath)
		if err := createDefaultConfig(configPath); err != nil {
			fmt.Printf("⚠️  Failed to auto-create config: %v\n", err)
		} else {
			fmt.Println("✅ Config created.")
		}
	}
}

func registerRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagFormat, "format", "f", "", "Output format (text, json, markdown)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json", "markdown"}, cobra.ShellCompDirectiveNoFileComp
	})

	cmd.Flags().StringVarP(&flagStrategy, "strategy", "s", "", "Device strategy (mobile, desktop)")
	_ = cmd.RegisterFlagCompletionFunc("strategy", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"mobile", "desktop"}, cobra.ShellCompDirectiveNoFileComp
	})

	cmd.Flags().StringVarP(&flagProject, "project", "p", "", "Path to the project source (reads package.json for tailored advice)")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Bypass the response cache and force a fresh measurement")
}

func init() {
	rootCmd.AddCommand(runCmd)
	registerRunFlags(runCmd)
	runCmd.Flags().IntVar(&flagFail, "fail-under", 0, "Exit with error code 1 if any performance score is below this value")

	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print per-page progress details")
}

func runAnalysis(cmd *cobra.Command, args []string) {
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

	for _, target := range args {
		recordUsage(target)
	}

	out := os.Stdout
	if flagOutput != "" {
		f, err := os.Create(flagOutput)
		if err != nil {
			fmt.Printf("Error creating output file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	renderer := report.NewRenderer(resolveFormat())
	failed := false
	for _, actionable := range reports {
		if err := renderer.Render(actionable, out); err != nil {
			fmt.Printf("Error rendering report: %v\n", err)
		}

		if flagFail > 0 {
			score := actionable.PerformanceResult.Scores.Performance
			if score == nil || *score < flagFail {
				failed = true
				got := "n/a"
				if score != nil {
					got = fmt.Sprintf("%d", *score)
				}
				fmt.Printf("\n❌ Failure: %s performance score (%s) is below threshold (%d).\n",
					actionable.PerformanceResult.URL, got, flagFail)
			}
		}
	}

	if flagOutput != "" && shouldPrintInfo() {
		fmt.Printf("Report written to %s\n", flagOutput)
	}

	if failed {
		os.Exit(1)
	}
}

// resolveFormat picks the output format: flag overrides config, config
// overrides the text default.
func resolveFormat() report.Format {
	if flagFormat != "" {
		return report.Format(flagFormat)
	}
	if cfg, err := config.Load(); err == nil && cfg.Global.OutputFormat != "" {
		return report.Format(cfg.Global.OutputFormat)
	}
	return report.FormatText
}
