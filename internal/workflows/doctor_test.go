package workflows

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/totara/internal/store"
)

func findCheck(t *testing.T, result *DoctorResult, name string) CheckResult {
	t.Helper()
	for _, check := range result.Checks {
		if check.Name == name {
			return check
		}
	}
	t.Fatalf("Check %q not found in: %+v", name, result.Checks)
	return CheckResult{}
}

func TestDoctor_AllHealthy(t *testing.T) {
	tmpDir := chdirTemp(t)
	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("A=1\n"), 0600); err != nil {
		t.Fatalf("Failed to create .env: %v", err)
	}

	fake := newFakeStore()
	result, err := Doctor(context.Background(), DoctorOptions{
		Repo: "owner/repo",
		NewStore: func(kind string, cfg store.Config) (store.Store, error) {
			return fake, nil
		},
	})
	if err != nil {
		t.Fatalf("Doctor failed: %v", err)
	}

	if check := findCheck(t, result, "project config"); check.Status != CheckWarning {
		t.Errorf("Expected uninitialized project to warn, got: %+v", check)
	}
	if check := findCheck(t, result, "store prerequisites"); check.Status != CheckPass {
		t.Errorf("Expected prerequisites to pass, got: %+v", check)
	}
	if check := findCheck(t, result, "remote key material"); check.Status != CheckPass {
		t.Errorf("Expected key check to pass, got: %+v", check)
	}
	if check := findCheck(t, result, "definition file"); check.Status != CheckPass {
		t.Errorf("Expected file check to pass, got: %+v", check)
	}
	if result.Summary.Errors != 0 {
		t.Errorf("Expected no errors, got: %d", result.Summary.Errors)
	}
}

func TestDoctor_MissingFileAndUnknownStore(t *testing.T) {
	chdirTemp(t)

	result, err := Doctor(context.Background(), DoctorOptions{Store: "vault"})
	if err != nil {
		t.Fatalf("Doctor failed: %v", err)
	}

	if check := findCheck(t, result, "store selection"); check.Status != CheckError {
		t.Errorf("Expected unknown store to error, got: %+v", check)
	}
	if result.Summary.Errors == 0 {
		t.Error("Expected at least one error in summary")
	}
}

func TestDoctor_SkipsKeyFetchWhenPreflightFails(t *testing.T) {
	tmpDir := chdirTemp(t)
	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("A=1\n"), 0600); err != nil {
		t.Fatalf("Failed to create .env: %v", err)
	}

	fake := newFakeStore()
	fake.preflightErr = os.ErrNotExist

	result, err := Doctor(context.Background(), DoctorOptions{
		Repo: "owner/repo",
		NewStore: func(kind string, cfg store.Config) (store.Store, error) {
			return fake, nil
		},
	})
	if err != nil {
		t.Fatalf("Doctor failed: %v", err)
	}

	if check := findCheck(t, result, "store prerequisites"); check.Status != CheckError {
		t.Errorf("Expected prerequisites to error, got: %+v", check)
	}
	if fake.prepareCalls != 0 {
		t.Errorf("Expected no key fetch after failed preflight, got: %d", fake.prepareCalls)
	}
}
