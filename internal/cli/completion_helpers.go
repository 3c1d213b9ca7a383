package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// completion_helpers.go provides dynamic shell completion support for pagepulse.
//
// Features:
// - Tracks recently measured URLs
// - Suggests recent URLs during tab completion
// - Stores completion history in ~/.config/pagepulse/completion-history.json
//
// completeURLs is registered with Cobra commands via ValidArgsFunction and
// suggests pages based on usage patterns.

// recentItem tracks recently used items for completions
type recentItem struct {
	Value    string    `json:"value"`
	LastUsed time.Time `json:"last_used"`
	UseCount int       `json:"use_count"`
}

type recentHistory struct {
	Items []recentItem `json:"items"`
}

// getHistoryPath returns the path to the completion history file
func getHistoryPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "pagepulse", "completion-history.json"), nil
}

// loadHistory loads recent completion history
func loadHistory() (*recentHistory, error) {
	path, err := getHistoryPath()
	if err != nil {
		return &recentHistory{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &recentHistory{}, nil
		}
		return nil, err
	}

	var history recentHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return &recentHistory{}, nil // Return empty on parse error
	}

	return &history, nil
}

// saveHistory saves completion history
func saveHistory(history *recentHistory) error {
	path, err := getHistoryPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Limit history size to 100 most recent items
	if len(history.Items) > 100 {
		sort.Slice(history.Items, func(i, j int) bool {
			return history.Items[i].LastUsed.After(history.Items[j].LastUsed)
		})
		history.Items = history.Items[:100]
	}

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// recordUsage records that a URL was measured
func recordUsage(value string) {
	history, err := loadHistory()
	if err != nil {
		return // Silently fail on history tracking errors
	}

	found := false
	for i := range history.Items {
		if history.Items[i].Value == value {
			history.Items[i].LastUsed = time.Now()
			history.Items[i].UseCount++
			found = true
			break
		}
	}

	if !found {
		history.Items = append(history.Items, recentItem{
			Value:    value,
			LastUsed: time.Now(),
			UseCount: 1,
		})
	}

	saveHistory(history)
}

// getRecentURLs returns recent URLs sorted by frequency and recency
func getRecentURLs(limit int) []string {
	history, err := loadHistory()
	if err != nil {
		return nil
	}

	items := append([]recentItem(nil), history.Items...)

	// Sort by use count (descending) then by last used (descending)
	sort.Slice(items, func(i, j int) bool {
		if items[i].UseCount != items[j].UseCount {
			return items[i].UseCount > items[j].UseCount
		}
		return items[i].LastUsed.After(items[j].LastUsed)
	})

	if len(items) > limit {
		items = items[:limit]
	}

	result := make([]string, len(items))
	for i, item := range items {
		result[i] = item.Value
	}

	return result
}

// completeURLs provides completion for page URL arguments
func completeURLs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	recent := getRecentURLs(20)

	// Filter by prefix if provided
	if toComplete != "" {
		var filtered []string
		for _, r := range recent {
			if strings.HasPrefix(r, toComplete) {
				filtered = append(filtered, r)
			}
		}
		recent = filtered
	}

	// Add hint for format
	if len(recent) == 0 {
		return []string{"https://"}, cobra.ShellCompDirectiveNoFileComp
	}

	return recent, cobra.ShellCompDirectiveNoFileComp
}
