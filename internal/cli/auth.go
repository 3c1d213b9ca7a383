package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/pagepulse/pagepulse/internal/config"
	"github.com/pagepulse/pagepulse/internal/pagespeed"
	"github.com/pagepulse/pagepulse/pkg/models"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the PageSpeed API key",
	Long: `Add a Google API key to lift the small unauthenticated quota.
This command helps you by:
1. Securely prompting for an API key.
2. Verifying the key against the measurement API before storing it.

The key is saved to your configuration file for future use.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Add an API key",
	Long:  "Store a Google API key for the PageSpeed Insights API.",
	Run:   runAuth,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check API key status",
	Long:  "Display the configured API key source and whether it works.",
	Run:   runAuthStatus,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored API key",
	Long:  "Remove stored API keys from the configuration file and shell rc files (.bashrc, .zshrc, etc.).",
	Run:   runAuthLogout,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
}

func runAuth(cmd *cobra.Command, args []string) {
	fmt.Println("PageSpeed API Key")
	fmt.Println("-----------------")

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("⚠️  Error loading config: %v\n", err)
		cfg = nil
	}

	var configKey string
	if cfg != nil {
		configKey = cfg.Global.APIKey
	}

	key := pagespeed.ResolveAPIKey(configKey)
	if key != "" {
		fmt.Println("✅ An API key is already configured.")
		fmt.Println()

		if configKey != "" && configKey == key {
			fmt.Println("Key source: Config file")
		} else {
			fmt.Println("Key source: PAGESPEED_API_KEY environment variable")
		}
		fmt.Println()

		if !promptYesNo("Do you want to replace it?") {
			fmt.Println("No changes made.")
			return
		}
		fmt.Println()
	}

	loginWithKey()
}

func loginWithKey() {
	fmt.Println("\nPlease create an API key with the PageSpeed Insights API enabled.")
	fmt.Println("Generate one here: https://console.cloud.google.com/apis/credentials")
	fmt.Print("\nPaste your key: ")

	byteKey, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\n❌ Failed to read key.")
		// Fallback to simple read if term fails (e.g. windows mintty sometimes)
		reader := bufio.NewReader(os.Stdin)
		keyStr, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("❌ Failed to read key from standard input.")
			return
		}
		keyStr = strings.TrimSpace(keyStr)
		if keyStr == "" {
			fmt.Println("❌ Empty key provided.")
			return
		}
		saveKey(keyStr)
		return
	}
	key := strings.TrimSpace(string(byteKey))
	fmt.Println() // Newline after input

	if key == "" {
		fmt.Println("❌ Empty key provided.")
		return
	}

	saveKey(key)
}

// validateKey checks a key by running a single measurement against it.
// This is a variable to allow mocking in tests
var validateKey = func(key string) error {
	client := pagespeed.NewClientWithCache(key, false)
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()
	_, err := client.Analyze(ctx, "https://example.com", models.StrategyMobile)
	return err
}

func saveKey(key string) {
	if !isPlausibleKey(key) {
		fmt.Println("⚠️  This does not look like a Google API key (expected an 'AIza...' string).")
	}

	// Validate against the real API before saving
	fmt.Println("Validating key (runs one test measurement, this can take a minute)...")
	if err := validateKey(key); err != nil {
		fmt.Printf("❌ Key validation failed: %v\n", err)
		fmt.Println("The key may be invalid, or the PageSpeed Insights API is not enabled for it.")
		return
	}

	fmt.Println()
	fmt.Println("✅ Key validated successfully!")

	chooseKeyStorage(key)
}

func chooseKeyStorage(key string) {
	fmt.Println("How would you like to store your API key?")
	fmt.Println()
	fmt.Println("1. Temporary (export for current session only)")
	fmt.Println("2. Persistent shell (add to .bashrc/.zshrc)")
	fmt.Println("3. Config file (store in pagepulse config)")
	fmt.Println("4. Don't store (I'll use PAGESPEED_API_KEY myself)")
	fmt.Println()
	fmt.Print("Enter choice [1-4]: ")

	reader := bufio.NewReader(os.Stdin)
	choice, _ := reader.ReadString('\n')
	choice = strings.TrimSpace(choice)

	switch choice {
	case "1":
		storeKeyTemporary(key)
	case "2":
		storeKeyPersistentShell(key)
	case "3":
		storeKeyConfig(key)
	case "4":
		fmt.Println("\n✅ Key validated but not stored.")
		fmt.Println("💡 Use 'export PAGESPEED_API_KEY=\"your_key\"' before running pagepulse.")
	default:
		fmt.Println("\n❌ Invalid choice. Key not stored.")
	}
}

func storeKeyTemporary(key string) {
	fmt.Println("\n✅ To use this key temporarily, run:")
	fmt.Println()
	fmt.Printf("  export PAGESPEED_API_KEY=\"%s\"\n", key)
	fmt.Println()
	fmt.Println("This will only be available in your current terminal session.")
}

func storeKeyPersistentShell(key string) {
	shell := os.Getenv("SHELL")
	if shell == "" {
		fmt.Println("\n❌ Could not detect shell. Please add manually.")
		return
	}

	shellName := filepath.Base(shell)
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Printf("\n❌ Could not find home directory: %v\n", err)
		return
	}

	var targetFile string
	switch shellName {
	case "bash":
		targetFile = filepath.Join(home, ".bashrc")
	case "zsh":
		targetFile = filepath.Join(home, ".zshrc")
	default:
		fmt.Printf("\n⚠️  Shell '%s' not directly supported. Add this line to your shell config:\n", shellName)
		fmt.Printf("  export PAGESPEED_API_KEY=\"%s\"\n", key)
		return
	}

	fmt.Printf("\nThis will add 'export PAGESPEED_API_KEY=...' to %s\n", targetFile)
	fmt.Println("⚠️  WARNING: This stores the key in plain text in your shell config.")

	if !promptYesNo("Continue?") {
		fmt.Println("Aborted.")
		return
	}

	content, _ := os.ReadFile(targetFile)
	existingContent := stripManagedKeyBlock(string(content))

	separator := "\n"
	if existingContent == "" {
		separator = ""
	} else if strings.HasSuffix(existingContent, "\n") {
		separator = ""
	}
	newContent := fmt.Sprintf("%s%s%s\nexport PAGESPEED_API_KEY=\"%s\"\n", existingContent, separator, managedKeyMarker, key)

	// Write to a temporary file first to avoid data loss on write failure
	dir := filepath.Dir(targetFile)
	tmpFile, err := os.CreateTemp(dir, ".pagepulse-key-*")
	if err != nil {
		fmt.Printf("\n❌ Failed to create temporary file: %v\n", err)
		return
	}
	tmpName := tmpFile.Name()

	if _, err := tmpFile.WriteString(newContent); err != nil {
		fmt.Printf("\n❌ Failed to write to temporary file: %v\n", err)
		_ = tmpFile.Close()
		_ = os.Remove(tmpName)
		return
	}

	if err := tmpFile.Close(); err != nil {
		fmt.Printf("\n❌ Failed to close temporary file: %v\n", err)
		_ = os.Remove(tmpName)
		return
	}

	if err := os.Chmod(tmpName, 0644); err != nil {
		fmt.Printf("\n❌ Failed to set permissions on temporary file: %v\n", err)
		_ = os.Remove(tmpName)
		return
	}

	// Atomically replace the target file with the new content
	if err := os.Rename(tmpName, targetFile); err != nil {
		fmt.Printf("\n❌ Failed to replace shell configuration file: %v\n", err)
		_ = os.Remove(tmpName)
		return
	}

	fmt.Println("\n✅ Key added to shell configuration.")
	fmt.Printf("🔄 Restart your terminal or run 'source %s' to activate.\n", targetFile)
}

const managedKeyMarker = "# PageSpeed API key for pagepulse"

// stripManagedKeyBlock removes the marker comment and the export line that a
// previous 'pagepulse auth login' added. Exports the user wrote themselves
// stay untouched.
func stripManagedKeyBlock(content string) string {
	lines := strings.Split(content, "\n")
	var kept []string
	for i := 0; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == managedKeyMarker {
			if i+1 < len(lines) && strings.Contains(lines[i+1], "PAGESPEED_API_KEY=") {
				i++ // skip the export line as well
			}
			continue
		}
		kept = append(kept, lines[i])
	}
	return strings.Join(kept, "\n")
}

func storeKeyConfig(key string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("\n❌ Error loading config: %v\n", err)
		return
	}

	cfg.Global.APIKey = key
	if err := saveConfig(cfg); err != nil {
		fmt.Printf("\n❌ Failed to save config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n✅ Key saved to configuration file.")
}

func promptYesNo(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [Y/n]: ", question)
	text, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	text = strings.TrimSpace(strings.ToLower(text))
	return text == "" || text == "y" || text == "yes"
}

// isPlausibleKey checks whether a string looks like a Google Cloud API key.
// Keys are 39 characters and start with AIza, but the format is not
// documented, so a mismatch only warns.
func isPlausibleKey(key string) bool {
	return strings.HasPrefix(key, "AIza") && len(key) >= 35
}

func runAuthStatus(cmd *cobra.Command, args []string) {
	fmt.Println("PageSpeed API Key Status")
	fmt.Println("------------------------")

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Error loading config: %v\n", err)
		os.Exit(1)
	}

	key := pagespeed.ResolveAPIKey(cfg.Global.APIKey)
	if key == "" {
		fmt.Println("ℹ️  No API key configured.")
		fmt.Println("   Measurements run on the small unauthenticated quota.")
		fmt.Println("\nRun 'pagepulse auth login' to add a key.")
		return
	}

	if err := validateKey(key); err != nil {
		fmt.Println("❌ Key is invalid or the PageSpeed API rejected it")
		fmt.Printf("   Error: %v\n", err)
		fmt.Println("\nRun 'pagepulse auth login' to replace it.")
		os.Exit(1)
	}

	fmt.Println("✅ Key works")
	if cfg.Global.APIKey != "" {
		fmt.Println("   Key source: config file")
	} else {
		fmt.Println("   Key source: PAGESPEED_API_KEY environment variable")
	}
}

func runAuthLogout(cmd *cobra.Command, args []string) {
	fmt.Println("PageSpeed API Key Removal")
	fmt.Println("-------------------------")
	fmt.Println()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Error loading config: %v\n", err)
		os.Exit(1)
	}

	var foundLocations []string
	hasConfigKey := cfg.Global.APIKey != ""

	if hasConfigKey {
		foundLocations = append(foundLocations, "config file")
	}

	if os.Getenv("PAGESPEED_API_KEY") != "" {
		foundLocations = append(foundLocations, "PAGESPEED_API_KEY environment variable")
	}

	homeDir, _ := os.UserHomeDir()
	shellFiles := []string{".bashrc", ".zshrc", ".bash_profile", ".profile"}
	var foundShellFiles []string
	for _, shellFile := range shellFiles {
		targetFile := filepath.Join(homeDir, shellFile)
		content, err := os.ReadFile(targetFile)
		if err == nil && strings.Contains(string(content), "PAGESPEED_API_KEY=") {
			foundShellFiles = append(foundShellFiles, shellFile)
			foundLocations = append(foundLocations, shellFile)
		}
	}

	if len(foundLocations) == 0 {
		fmt.Println("❌ No stored keys found.")
		return
	}

	fmt.Println("Found keys in the following locations:")
	for i, loc := range foundLocations {
		fmt.Printf("  %d. %s\n", i+1, loc)
	}
	fmt.Println()

	if !promptYesNo("Do you want to remove these keys?") {
		fmt.Println("Removal cancelled.")
		return
	}
	fmt.Println()

	if hasConfigKey {
		cfg.Global.APIKey = ""
		if err := saveConfig(cfg); err != nil {
			fmt.Printf("❌ Failed to save config: %v\n", err)
		} else {
			fmt.Println("✅ Removed key from config file")
		}
	}

	// Only the blocks pagepulse itself added are removed from rc files
	for _, shellFile := range foundShellFiles {
		targetFile := filepath.Join(homeDir, shellFile)
		content, err := os.ReadFile(targetFile)
		if err != nil {
			fmt.Printf("❌ Failed to read %s: %v\n", shellFile, err)
			continue
		}

		stripped := stripManagedKeyBlock(string(content))
		if stripped == string(content) {
			fmt.Printf("ℹ️  %s has a PAGESPEED_API_KEY export that pagepulse did not add; leaving it alone.\n", shellFile)
			continue
		}

		if err := os.WriteFile(targetFile, []byte(stripped), 0644); err != nil {
			fmt.Printf("❌ Failed to update %s: %v\n", shellFile, err)
		} else {
			fmt.Printf("✅ Removed key from %s\n", shellFile)
		}
	}

	if os.Getenv("PAGESPEED_API_KEY") != "" {
		fmt.Println()
		fmt.Println("⚠️  PAGESPEED_API_KEY is set in your current session.")
		fmt.Println("   To remove it, run: unset PAGESPEED_API_KEY")
		fmt.Println("   (This will only affect the current terminal session)")
	}

	fmt.Println()
	fmt.Println("✅ Removal complete.")
}
