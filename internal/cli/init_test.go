package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitCmd(t *testing.T) {
	tmpDir := t.TempDir()

	// Point XDG_CONFIG_HOME at tmpDir so config is written there
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Chdir(tmpDir)

	// Run init command
	rootCmd.SetArgs([]string{"init"})
	if err := rootCmd.Execute(); err != nil {
		t.Errorf("initCmd failed: %v", err)
	}

	configPath := filepath.Join(tmpDir, "pagepulse", "config.yaml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Errorf("config.yaml was not created at %s", configPath)
	}

	// Verify content (simple check)
	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Errorf("Failed to read config.yaml: %v", err)
	}
	if len(content) == 0 {
		t.Error("config.yaml is empty")
	}

	// Run init command again (should detect existing file and not overwrite)
	rootCmd.SetArgs([]string{"init"})
	if err := rootCmd.Execute(); err != nil {
		t.Errorf("initCmd failed on second run: %v", err)
	}
}
