package cli

import (
	"fmt"
	"os"

	"github.com/pagepulse/pagepulse/internal/cache"
	"github.com/pagepulse/pagepulse/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagClearStats bool
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the measurement cache",
	Long: `Manage the disk-based cache for PageSpeed measurements.
The cache stores measurement results locally so repeated runs against the same
page do not burn API quota. Entries expire after the configured TTL (1 hour by
default).`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all cached measurements",
	Long: `Remove all cached measurement results from disk.
This forces fresh API calls on the next run.`,
	Example: `  pagepulse cache clear
  pagepulse cache clear --stats`,
	Run: runCacheClear,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Long:  `Display information about the current cache including entry count and total size.`,
	Run:   runCacheStats,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatsCmd)

	cacheClearCmd.Flags().BoolVar(&flagClearStats, "stats", false, "Show statistics before clearing")
}

func openCache() (*cache.Cache, string, error) {
	cachePath, err := cache.DefaultPath()
	if err != nil {
		return nil, "", fmt.Errorf("getting cache path: %w", err)
	}
	c, err := cache.New(cachePath, 0)
	if err != nil {
		return nil, "", fmt.Errorf("initializing cache: %w", err)
	}
	return c, cachePath, nil
}

func runCacheClear(cmd *cobra.Command, args []string) {
	c, _, err := openCache()
	if err != nil {
		fmt.Printf("Error %v\n", err)
		os.Exit(1)
	}

	// Show stats before clearing if requested
	if flagClearStats {
		count, size, err := c.Stats()
		if err != nil {
			fmt.Printf("Error getting cache stats: %v\n", err)
		} else {
			fmt.Printf("Cache statistics before clearing:\n")
			fmt.Printf("  Entries: %d\n", count)
			fmt.Printf("  Size: %.2f MB\n", float64(size)/(1024*1024))
		}
	}

	if err := c.Clear(); err != nil {
		fmt.Printf("Error clearing cache: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✓ Cache cleared successfully")
}

func runCacheStats(cmd *cobra.Command, args []string) {
	c, cachePath, err := openCache()
	if err != nil {
		fmt.Printf("Error %v\n", err)
		os.Exit(1)
	}

	count, size, err := c.Stats()
	if err != nil {
		fmt.Printf("Error getting cache stats: %v\n", err)
		os.Exit(1)
	}

	ttlHours := 1
	if cfg, err := config.Load(); err == nil && cfg.Global.CacheTTLHours > 0 {
		ttlHours = cfg.Global.CacheTTLHours
	}

	fmt.Printf("Cache statistics:\n")
	fmt.Printf("  Location: %s\n", cachePath)
	fmt.Printf("  Entries: %d\n", count)
	fmt.Printf("  Size: %.2f MB\n", float64(size)/(1024*1024))
	fmt.Printf("  TTL: %d hour(s)\n", ttlHours)
}
