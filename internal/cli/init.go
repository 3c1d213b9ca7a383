package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pagepulse/pagepulse/internal/config"
	"github.com/spf13/cobra"
)

const defaultConfig = `# pagepulse Configuration

# Global settings
global:
  concurrency: 3 # Max concurrent page measurements
  strategy: "mobile" # mobile or desktop
  output_format: "text" # text, json, markdown
  cache_ttl_hours: 1
  # api_key: "YOUR_KEY" # Optional: store a Google API key here (or use PAGESPEED_API_KEY)

# Insight sections
# Disable a section to drop it from diagnostics, opportunities and totals
insights:
  unused_code:
    enabled: true
  images:
    enabled: true
  third_parties:
    enabled: true
  caching:
    enabled: true
  render_blocking:
    enabled: true
  long_tasks:
    enabled: true
  lcp:
    enabled: true
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Long: `Creates a default configuration file (config.yaml) in your user configuration directory if it doesn't exist.
Use this to set the device strategy, tune concurrency, and enable/disable insight sections.

Note: 'pagepulse run', 'compare', etc. will automatically create this file if it's missing.
'pagepulse init' is useful if you want to inspect or customize the config before running any analysis.`,
	Run: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// createDefaultConfig writes the default configuration to the specified path
func createDefaultConfig(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfig), 0600)
}

func runInit(cmd *cobra.Command, args []string) {
	configPath, err := config.GetConfigPath()
	if err != nil {
		fmt.Printf("Error getting config path: %v\n", err)
		os.Exit(1)
	}

	// Check if file already exists to prevent overwriting
	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("⚠️  Checking %s... already exists.\n", configPath)
		fmt.Println("Aborting to prevent overwrite. Delete the existing file first if you want to regenerate it.")
		return
	}

	if err := createDefaultConfig(configPath); err != nil {
		fmt.Printf("❌ Error creating config file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Successfully created %s\n", configPath)
	fmt.Println("You can now edit this file to configure the strategy and enabled insight sections.")
}
