package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pagepulse/pagepulse/internal/config"
	"github.com/pagepulse/pagepulse/internal/pagespeed"
	"github.com/pagepulse/pagepulse/internal/project"
	"github.com/pagepulse/pagepulse/pkg/entity"
	"github.com/pagepulse/pagepulse/pkg/insights"
	"github.com/pagepulse/pagepulse/pkg/models"
	"github.com/schollz/progressbar/v3"
)

// AnalysisOptions contains the configuration for running page analysis.
type AnalysisOptions struct {
	URLs       []string
	Strategy   string
	ProjectDir string
	NoCache    bool
}

var pipelineRunner = RunAnalysisPipeline

// resolveStrategy picks the device strategy: flag value overrides config,
// config overrides the mobile default.
func resolveStrategy(flagValue string, cfg *config.Config) (models.Strategy, error) {
	value := flagValue
	if value == "" {
		value = cfg.Global.Strategy
	}
	switch value {
	case "", string(models.StrategyMobile):
		return models.StrategyMobile, nil
	case string(models.StrategyDesktop):
		return models.StrategyDesktop, nil
	}
	return "", fmt.Errorf("invalid strategy %q. Use 'mobile' or 'desktop'", value)
}

// validateURL checks that a target is an absolute http(s) URL before we spend
// an API request on it.
func validateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL %q: must start with http:// or https://", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid URL %q: missing host", raw)
	}
	return nil
}

// frameworkLabel names the detected framework for progress output. Projects
// without a recognized framework read as plain node projects.
func frameworkLabel(projectCtx *models.ProjectContext) string {
	if projectCtx == nil || projectCtx.Framework == nil {
		return "node (no framework detected)"
	}
	if projectCtx.Framework.Version != "" {
		return projectCtx.Framework.Name + " " + projectCtx.Framework.Version
	}
	return projectCtx.Framework.Name
}

// applySectionToggles removes insight sections the user disabled in config.
// Disabled sections also stop contributing to the savings totals.
func applySectionToggles(detailed *models.DetailedInsights, cfg config.InsightsConfig) {
	if detailed == nil {
		return
	}
	if !cfg.UnusedCode.Enabled {
		detailed.UnusedJavaScript = nil
		detailed.UnusedCSS = nil
		detailed.LegacyJavaScript = nil
	}
	if !cfg.Images.Enabled {
		detailed.ImageIssues = nil
	}
	if !cfg.ThirdParties.Enabled {
		detailed.ThirdParties = nil
	}
	if !cfg.Caching.Enabled {
		detailed.CacheIssues = nil
	}
	if !cfg.RenderBlocking.Enabled {
		detailed.RenderBlocking = nil
	}
	if !cfg.LongTasks.Enabled {
		detailed.LongTasks = nil
	}
	if !cfg.LCP.Enabled {
		detailed.LCPBreakdown = nil
	}
	insights.RecalculateTotalSavings(detailed)
}

// RunAnalysisPipeline executes the complete measurement workflow for the
// specified URLs. It loads configuration, detects the local project, measures
// each page concurrently, and synthesizes the actionable reports. The
// function supports context cancellation and provides progress feedback.
// Reports come back in the same order the URLs were given.
func RunAnalysisPipeline(opts AnalysisOptions) ([]*models.ActionableReport, error) {
	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// 2. Validate Targets
	for _, target := range opts.URLs {
		if err := validateURL(target); err != nil {
			return nil, err
		}
	}

	strategy, err := resolveStrategy(opts.Strategy, cfg)
	if err != nil {
		return nil, err
	}

	// 3. Setup Dependencies
	apiKey := pagespeed.ResolveAPIKey(cfg.Global.APIKey)
	if apiKey == "" && shouldPrintInfo() {
		fmt.Fprintln(os.Stderr, "⚠️  WARNING: No API key configured. Running on the small unauthenticated quota; run 'pagepulse auth login' to add one.")
	}

	ttl := time.Duration(cfg.Global.CacheTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = time.Hour
	}
	client := pagespeed.NewClientWithTTL(apiKey, !opts.NoCache, ttl)

	var projectCtx *models.ProjectContext
	if opts.ProjectDir != "" {
		projectCtx, err = project.Detect(opts.ProjectDir)
		if err != nil {
			return nil, fmt.Errorf("error reading project at %s: %w", opts.ProjectDir, err)
		}
		if projectCtx == nil {
			fmt.Fprintf(os.Stderr, "⚠️  WARNING: No package.json found at %s. Reports will carry generic guidance only.\n", opts.ProjectDir)
		} else if shouldPrintVerbose() {
			fmt.Printf("Detected project: %s\n", frameworkLabel(projectCtx))
		}
	}

	start := time.Now()

	// Setup context with cancellation support
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\n⚠️  Received interrupt signal. Cancelling analysis...")
		cancel()
	}()

	// Concurrency control
	maxworkers := cfg.Global.Concurrency
	if maxworkers < 1 {
		maxworkers = 1
	}
	sem := make(chan struct{}, maxworkers)
	var wg sync.WaitGroup
	var mu sync.Mutex

	// Track progress
	var completed int
	totalPages := len(opts.URLs)

	// Create progress bar if not in quiet mode
	var bar *progressbar.ProgressBar
	if shouldPrintInfo() {
		bar = progressbar.NewOptions(totalPages,
			progressbar.OptionSetDescription("Measuring pages"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("pages"),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}

	if shouldPrintInfo() {
		fmt.Printf("Queueing %d pages (concurrency: %d)...\n", totalPages, maxworkers)
	}

	reports := make([]*models.ActionableReport, totalPages)
	errs := make([]error, totalPages)

	for i, target := range opts.URLs {
		wg.Add(1)
		go func(idx int, pageURL string) {
			defer wg.Done()

			// Check for cancellation
			select {
			case <-ctx.Done():
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			if shouldPrintVerbose() {
				fmt.Printf("Measuring %s...\n", pageURL)
			}

			result, err := client.Analyze(ctx, pageURL, strategy)
			if err != nil {
				mu.Lock()
				errs[idx] = fmt.Errorf("measuring %s: %w", pageURL, err)
				mu.Unlock()
				return
			}

			if result.Insights == nil {
				result.Insights = insights.Extract(result.Audits, entity.HostDomain(result.URL))
			}
			applySectionToggles(result.Insights, cfg.Insights)

			report := insights.GenerateActionableReport(result, projectCtx)

			mu.Lock()
			reports[idx] = report
			completed++
			if bar != nil {
				_ = bar.Add(1)
			} else if shouldPrintVerbose() {
				fmt.Printf("✓ Completed %s (%d/%d pages)\n", pageURL, completed, totalPages)
			}
			mu.Unlock()
		}(i, target)
	}

	wg.Wait()

	// Finish progress bar
	if bar != nil {
		_ = bar.Finish()
	}

	// Check if analysis was cancelled
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("analysis cancelled by user")
	default:
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	if shouldPrintVerbose() {
		fmt.Printf("Analyzed %d pages in %s\n", completed, time.Since(start).Round(time.Millisecond))
	}

	return reports, nil
}
