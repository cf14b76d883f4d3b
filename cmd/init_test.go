package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitCommand_CreatesConfig(t *testing.T) {
	tempDir := t.TempDir()
	setupTestEnvironment(t, tempDir)

	output, err := executeCommand("init", "--store", "gh", "--repo", "owner/repo")
	if err != nil {
		t.Fatalf("Init failed: %v\nOutput: %s", err, output)
	}

	configPath := filepath.Join(tempDir, ".totara", "config.toml")
	if _, err := os.Stat(configPath); err != nil {
		t.Errorf("Expected config file at %s: %v", configPath, err)
	}
	if !strings.Contains(output, "initialized") {
		t.Errorf("Expected success notice, got:\n%s", output)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config: %v", err)
	}
	if !strings.Contains(string(data), `store = "gh"`) {
		t.Errorf("Expected store recorded in config, got:\n%s", data)
	}
	if strings.Contains(strings.ToLower(string(data)), "token") {
		t.Errorf("Config must never contain credential fields, got:\n%s", data)
	}
}

func TestInitCommand_AlreadyInitialized(t *testing.T) {
	tempDir := t.TempDir()
	setupTestEnvironment(t, tempDir)

	if _, err := executeCommand("init", "--repo", "owner/repo"); err != nil {
		t.Fatalf("First init failed: %v", err)
	}
	ResetGlobalState()

	output, err := executeCommand("init", "--repo", "owner/repo")
	if err == nil {
		t.Fatal("Expected second init to fail")
	}
	if !strings.Contains(output, "already been initialized") {
		t.Errorf("Expected already-initialized message, got:\n%s", output)
	}
}
