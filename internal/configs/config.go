package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	kerrors "github.com/PolarWolf314/totara/internal/errors"
)

// ProjectConfig is the on-disk .totara/config.toml.
//
// It intentionally has no field for authentication tokens: credentials come
// from the environment or an ambient session, never from a file that gets
// committed.
type ProjectConfig struct {
	Project Project    `toml:"project"`
	Push    PushConfig `toml:"push"`
	AWS     AWSConfig  `toml:"aws"`
}

type Project struct {
	UUID string `toml:"project_uuid"`
	Name string `toml:"name"`
}

// PushConfig selects the remote sink and the definition file to read.
type PushConfig struct {
	Store string `toml:"store"` // github | gh | aws
	Repo  string `toml:"repo"`  // owner/name
	File  string `toml:"file"`  // definition file path, relative to the project root
}

// AWSConfig holds settings used only by the aws store.
type AWSConfig struct {
	Region string `toml:"region"`
	Prefix string `toml:"prefix"` // prepended to secret names, e.g. "myapp/prod"
}

// LoadProjectConfig reads the project config. Returns nil without error when
// the project is not initialized.
func LoadProjectConfig() (*ProjectConfig, error) {
	configPath := ProjectTotaraSettings.ConfigPath
	if configPath == "" {
		return nil, nil
	}

	config := &ProjectConfig{}
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidProjectConfig, err)
	}
	return config, nil
}

// SaveProjectConfig writes the config to .totara/config.toml under dir,
// creating the .totara directory if needed.
func SaveProjectConfig(dir string, config *ProjectConfig) error {
	totaraDir := filepath.Join(dir, ".totara")
	if err := os.MkdirAll(totaraDir, 0700); err != nil {
		return fmt.Errorf("creating .totara directory: %w", err)
	}

	file, err := os.Create(filepath.Join(totaraDir, "config.toml"))
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(config); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// GenerateProjectUUID generates a new UUID for the project.
func GenerateProjectUUID() string {
	return uuid.New().String()
}
