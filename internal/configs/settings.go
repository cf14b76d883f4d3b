package configs

import (
	"os"
	"path/filepath"
)

type ProjectSettings struct {
	ProjectName string
	ProjectPath string // directory containing .totara, "" when not initialized
	ConfigPath  string // path to .totara/config.toml
}

var ProjectTotaraSettings = &ProjectSettings{}

// InitProjectSettings locates the project root by walking up from the
// working directory until a .totara/config.toml is found. Leaves the
// settings empty when no project exists; that is not an error.
func InitProjectSettings() error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	projectPath, err := findProjectRoot(wd)
	if err != nil {
		return err
	}

	if projectPath == "" {
		ProjectTotaraSettings = &ProjectSettings{}
		return nil
	}

	ProjectTotaraSettings = &ProjectSettings{
		ProjectName: filepath.Base(projectPath),
		ProjectPath: projectPath,
		ConfigPath:  filepath.Join(projectPath, ".totara", "config.toml"),
	}
	return nil
}

// findProjectRoot walks up from dir looking for .totara/config.toml.
// Returns "" when the filesystem root is reached without a match.
func findProjectRoot(dir string) (string, error) {
	for {
		candidate := filepath.Join(dir, ".totara", "config.toml")
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		} else if !os.IsNotExist(err) {
			return "", err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
