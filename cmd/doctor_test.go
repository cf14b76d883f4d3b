package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/totara/internal/workflows"
)

func TestDoctorCommand_ReportsChecks(t *testing.T) {
	tempDir := t.TempDir()
	setupTestEnvironment(t, tempDir)
	if err := os.WriteFile(filepath.Join(tempDir, ".env"), []byte("A=1\n"), 0600); err != nil {
		t.Fatalf("Failed to create .env: %v", err)
	}

	stub := &stubStore{}
	useStubStore(t, stub)

	var exitCode int
	SetDoctorExitFunc(func(code int) { exitCode = code })

	output, err := executeCommand("doctor", "--repo", "owner/repo")
	if err != nil {
		t.Fatalf("Doctor failed: %v\nOutput: %s", err, output)
	}

	// Uninitialized project is a warning, so exit code 1.
	if exitCode != 1 {
		t.Errorf("Expected exit code 1 for warnings, got: %d", exitCode)
	}
	if !strings.Contains(output, "project config") {
		t.Errorf("Expected project config check in output, got:\n%s", output)
	}
	if !strings.Contains(output, "definition file") {
		t.Errorf("Expected definition file check in output, got:\n%s", output)
	}
}

func TestDoctorCommand_JSONOutput(t *testing.T) {
	tempDir := t.TempDir()
	setupTestEnvironment(t, tempDir)
	if err := os.WriteFile(filepath.Join(tempDir, ".env"), []byte("A=1\n"), 0600); err != nil {
		t.Fatalf("Failed to create .env: %v", err)
	}

	stub := &stubStore{}
	useStubStore(t, stub)
	SetDoctorExitFunc(func(code int) {})

	output, err := executeCommand("doctor", "--repo", "owner/repo", "--json")
	if err != nil {
		t.Fatalf("Doctor failed: %v\nOutput: %s", err, output)
	}

	// The JSON document starts at the first brace; spinner noise may precede it.
	idx := strings.Index(output, "{")
	if idx < 0 {
		t.Fatalf("Expected JSON output, got:\n%s", output)
	}
	var result workflows.DoctorResult
	if err := json.Unmarshal([]byte(output[idx:]), &result); err != nil {
		t.Fatalf("Failed to decode JSON output: %v\nOutput: %s", err, output)
	}
	if len(result.Checks) == 0 {
		t.Error("Expected at least one check in JSON output")
	}
}
