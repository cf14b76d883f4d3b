package workflows

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/PolarWolf314/totara/internal/configs"
	"github.com/PolarWolf314/totara/internal/store"
)

// CheckStatus represents the result status of a health check.
type CheckStatus int

const (
	// CheckPass means the check passed.
	CheckPass CheckStatus = iota
	// CheckWarning means the check found a non-critical issue.
	CheckWarning
	// CheckError means the check found a critical issue.
	CheckError
)

// String returns a string representation of CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "pass"
	case CheckWarning:
		return "warning"
	case CheckError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for CheckStatus.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler for CheckStatus.
func (s *CheckStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw {
	case "pass":
		*s = CheckPass
	case "warning":
		*s = CheckWarning
	case "error":
		*s = CheckError
	default:
		return fmt.Errorf("unknown check status %q", raw)
	}
	return nil
}

// CheckResult holds the result of a single health check.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// DoctorResult holds the complete result of the doctor workflow.
type DoctorResult struct {
	Checks  []CheckResult `json:"checks"`
	Summary DoctorSummary `json:"summary"`
}

// DoctorSummary holds counts of checks by status.
type DoctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

// DoctorOptions configures the doctor workflow. Store, Repo, and File
// override the project config the same way push flags do.
type DoctorOptions struct {
	Store string
	Repo  string
	File  string

	// NewStore overrides store construction in tests. Nil means store.New.
	NewStore func(kind string, cfg store.Config) (store.Store, error)
}

// Doctor runs the same preflight checks a push would, without uploading
// anything:
//   - project configuration presence and validity
//   - store selection
//   - store prerequisites (tool on PATH, token in environment, credentials)
//   - definition file presence
//   - public key retrieval, for stores that encrypt client-side
func Doctor(ctx context.Context, opts DoctorOptions) (*DoctorResult, error) {
	if err := configs.InitProjectSettings(); err != nil {
		return nil, fmt.Errorf("initializing project settings: %w", err)
	}

	result := &DoctorResult{}
	add := func(check CheckResult) {
		result.Checks = append(result.Checks, check)
		switch check.Status {
		case CheckPass:
			result.Summary.Passed++
		case CheckWarning:
			result.Summary.Warnings++
		case CheckError:
			result.Summary.Errors++
		}
	}

	projectConfig, configCheck := checkProjectConfig()
	add(configCheck)

	kind, storeCfg, filePath := resolvePushSettings(PushOptions{
		Store: opts.Store,
		Repo:  opts.Repo,
		File:  opts.File,
	}, projectConfig)

	newStore := opts.NewStore
	if newStore == nil {
		newStore = store.New
	}
	st, err := newStore(kind, storeCfg)
	if err != nil {
		add(CheckResult{
			Name:       "store selection",
			Status:     CheckError,
			Message:    err.Error(),
			Suggestion: "Set push.store in .totara/config.toml to github, gh, or aws",
		})
		return result, nil
	}
	add(CheckResult{
		Name:    "store selection",
		Status:  CheckPass,
		Message: fmt.Sprintf("using the %s store", st.Name()),
	})

	if err := st.Preflight(ctx); err != nil {
		add(CheckResult{
			Name:       "store prerequisites",
			Status:     CheckError,
			Message:    err.Error(),
			Suggestion: "Install the missing tool or export the required credentials",
		})
	} else {
		add(CheckResult{
			Name:    "store prerequisites",
			Status:  CheckPass,
			Message: "tool and credentials available",
		})

		// Only probe the remote key when preflight passed; without
		// credentials the fetch would fail for the wrong reason.
		if err := st.Prepare(ctx); err != nil {
			add(CheckResult{
				Name:       "remote key material",
				Status:     CheckError,
				Message:    err.Error(),
				Suggestion: "Check the repository name and the token's access to it",
			})
		} else {
			add(CheckResult{
				Name:    "remote key material",
				Status:  CheckPass,
				Message: "store is ready to receive secrets",
			})
		}
	}

	add(checkDefinitionFile(filePath))

	return result, nil
}

func checkProjectConfig() (*configs.ProjectConfig, CheckResult) {
	if configs.ProjectTotaraSettings.ProjectPath == "" {
		return nil, CheckResult{
			Name:       "project config",
			Status:     CheckWarning,
			Message:    "no .totara/config.toml found; relying on flags and defaults",
			Suggestion: "Run totara init to record the store and repository",
		}
	}

	projectConfig, err := configs.LoadProjectConfig()
	if err != nil {
		return nil, CheckResult{
			Name:       "project config",
			Status:     CheckError,
			Message:    err.Error(),
			Suggestion: "Fix or regenerate .totara/config.toml",
		}
	}

	return projectConfig, CheckResult{
		Name:    "project config",
		Status:  CheckPass,
		Message: configs.ProjectTotaraSettings.ConfigPath,
	}
}

func checkDefinitionFile(path string) CheckResult {
	info, err := os.Stat(path)
	if err != nil {
		return CheckResult{
			Name:       "definition file",
			Status:     CheckError,
			Message:    fmt.Sprintf("%s does not exist", path),
			Suggestion: "Create the definition file or point --file at it",
		}
	}
	if info.IsDir() {
		return CheckResult{
			Name:       "definition file",
			Status:     CheckError,
			Message:    fmt.Sprintf("%s is a directory", path),
			Suggestion: "Point --file at a NAME=VALUE file",
		}
	}
	return CheckResult{
		Name:    "definition file",
		Status:  CheckPass,
		Message: path,
	}
}
