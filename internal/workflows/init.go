package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/totara/internal/audit"
	"github.com/PolarWolf314/totara/internal/configs"
	kerrors "github.com/PolarWolf314/totara/internal/errors"
)

// InitOptions configures the init workflow.
type InitOptions struct {
	// ProjectName is the name for the project. If empty, uses the directory name.
	ProjectName string

	// Store, Repo, and File seed the push section of the config.
	Store string
	Repo  string
	File  string
}

// InitResult contains the outcome of an init operation.
type InitResult struct {
	// ProjectName is the name of the initialized project.
	ProjectName string

	// ProjectUUID is the unique identifier assigned to the project.
	ProjectUUID string

	// ConfigPath is the path to the written config file.
	ConfigPath string

	// Store is the sink recorded in the config.
	Store string
}

// Init writes a new .totara/config.toml in the current directory, recording
// which secret store pushes should target.
//
// Returns ErrProjectAlreadyInitialized if a .totara directory already exists
// here or in a parent directory.
func Init(ctx context.Context, opts InitOptions) (*InitResult, error) {
	if err := configs.InitProjectSettings(); err != nil {
		return nil, fmt.Errorf("initializing project settings: %w", err)
	}
	if configs.ProjectTotaraSettings.ProjectPath != "" {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrProjectAlreadyInitialized, configs.ProjectTotaraSettings.ProjectPath)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	projectName := opts.ProjectName
	if projectName == "" {
		projectName = filepath.Base(wd)
	}

	storeName := opts.Store
	if storeName == "" {
		storeName = DefaultStore
	}
	filePath := opts.File
	if filePath == "" {
		filePath = DefaultFile
	}

	projectConfig := &configs.ProjectConfig{
		Project: configs.Project{
			UUID: configs.GenerateProjectUUID(),
			Name: projectName,
		},
		Push: configs.PushConfig{
			Store: storeName,
			Repo:  opts.Repo,
			File:  filePath,
		},
	}

	cleanupNeeded := true
	totaraDir := filepath.Join(wd, ".totara")
	defer func() {
		if cleanupNeeded {
			os.RemoveAll(totaraDir)
		}
	}()

	if err := configs.SaveProjectConfig(wd, projectConfig); err != nil {
		return nil, fmt.Errorf("saving project config: %w", err)
	}
	cleanupNeeded = false

	configs.ProjectTotaraSettings = &configs.ProjectSettings{
		ProjectName: projectName,
		ProjectPath: wd,
		ConfigPath:  filepath.Join(totaraDir, "config.toml"),
	}

	audit.Log(audit.Entry{
		Operation:   "init",
		Store:       storeName,
		Repo:        opts.Repo,
		ProjectName: projectName,
		ProjectUUID: projectConfig.Project.UUID,
	})

	return &InitResult{
		ProjectName: projectName,
		ProjectUUID: projectConfig.Project.UUID,
		ConfigPath:  configs.ProjectTotaraSettings.ConfigPath,
		Store:       storeName,
	}, nil
}
