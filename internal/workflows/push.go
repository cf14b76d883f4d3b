package workflows

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/PolarWolf314/totara/internal/audit"
	"github.com/PolarWolf314/totara/internal/configs"
	"github.com/PolarWolf314/totara/internal/envfile"
	"github.com/PolarWolf314/totara/internal/store"
)

// DefaultStore is used when neither flags nor config select a sink.
const DefaultStore = "github"

// DefaultFile is the definition file read when none is configured.
const DefaultFile = ".env"

// PushOptions configures the push workflow. Store, Repo, and File override
// the project config when non-empty (flag > config > default).
type PushOptions struct {
	Store string
	Repo  string
	File  string

	// OnEntry, when set, is called with each entry's outcome as soon as the
	// upload attempt completes, before the next entry is read.
	OnEntry func(EntryResult)

	// NewStore overrides store construction in tests. Nil means store.New.
	NewStore func(kind string, cfg store.Config) (store.Store, error)
}

// EntryResult is the outcome of a single secret upload.
type EntryResult struct {
	// Name is the secret's name as parsed from the definition file.
	Name string

	// Err is nil on success. Failures wrap ErrEncryptFailed or
	// ErrUploadFailed with the remote's detail.
	Err error
}

// PushResult contains the outcome of a push operation.
type PushResult struct {
	// Store is the name of the sink that was used.
	Store string

	// Repo is the target repository identifier.
	Repo string

	// File is the definition file that was read.
	File string

	// Attempted is the number of entries submitted to the store.
	Attempted int

	// Uploaded is the number of entries the store confirmed.
	Uploaded int

	// Failed is the number of entries that errored.
	Failed int

	// Malformed is the number of lines silently skipped during parsing.
	Malformed int

	// Entries holds the per-entry outcomes in file order.
	Entries []EntryResult
}

// Push uploads every valid entry of a definition file to the configured
// secret store.
//
// Entries are processed sequentially and independently: a failed entry is
// recorded and the run continues with the next one. Only preflight problems
// abort the whole run (a missing prerequisite tool or credential, a missing
// definition file, or a failed public key fetch), and those abort before any
// upload is attempted.
//
// Returns ErrToolNotFound, ErrCredentialsNotFound, or ErrRepoNotSet when the
// store's prerequisites are missing, ErrEnvFileNotFound when the definition
// file is absent, and ErrPublicKeyFetch when key retrieval fails.
func Push(ctx context.Context, opts PushOptions) (*PushResult, error) {
	if err := configs.InitProjectSettings(); err != nil {
		return nil, fmt.Errorf("initializing project settings: %w", err)
	}

	projectConfig, err := configs.LoadProjectConfig()
	if err != nil {
		return nil, err
	}

	kind, storeCfg, filePath := resolvePushSettings(opts, projectConfig)

	newStore := opts.NewStore
	if newStore == nil {
		newStore = store.New
	}
	st, err := newStore(kind, storeCfg)
	if err != nil {
		return nil, err
	}

	if err := st.Preflight(ctx); err != nil {
		return nil, err
	}

	envFile, err := envfile.Load(filePath)
	if err != nil {
		return nil, err
	}

	if err := st.Prepare(ctx); err != nil {
		return nil, err
	}

	result := &PushResult{
		Store:     st.Name(),
		Repo:      storeCfg.Repo,
		File:      filePath,
		Malformed: envFile.Malformed,
	}

	for _, entry := range envFile.Entries {
		putErr := st.Put(ctx, entry.Name, entry.Value)

		entryResult := EntryResult{Name: entry.Name, Err: putErr}
		result.Entries = append(result.Entries, entryResult)
		result.Attempted++
		if putErr != nil {
			result.Failed++
		} else {
			result.Uploaded++
		}

		if opts.OnEntry != nil {
			opts.OnEntry(entryResult)
		}
	}

	audit.Log(audit.Entry{
		Operation: "push",
		Store:     result.Store,
		Repo:      result.Repo,
		File:      result.File,
		Uploaded:  result.Uploaded,
		Failed:    result.Failed,
		Malformed: result.Malformed,
	})

	return result, nil
}

// resolvePushSettings merges flag overrides, project config, and defaults.
func resolvePushSettings(opts PushOptions, projectConfig *configs.ProjectConfig) (string, store.Config, string) {
	kind := opts.Store
	repo := opts.Repo
	filePath := opts.File
	storeCfg := store.Config{}

	if projectConfig != nil {
		if kind == "" {
			kind = projectConfig.Push.Store
		}
		if repo == "" {
			repo = projectConfig.Push.Repo
		}
		storeCfg.AWSRegion = projectConfig.AWS.Region
		storeCfg.AWSPrefix = projectConfig.AWS.Prefix

		if filePath == "" && projectConfig.Push.File != "" {
			filePath = projectConfig.Push.File
			// Config paths are relative to the project root, so a push from
			// a subdirectory still finds the same file.
			if !filepath.IsAbs(filePath) && configs.ProjectTotaraSettings.ProjectPath != "" {
				filePath = filepath.Join(configs.ProjectTotaraSettings.ProjectPath, filePath)
			}
		}
	}

	if kind == "" {
		kind = DefaultStore
	}
	if filePath == "" {
		filePath = DefaultFile
	}
	storeCfg.Repo = repo

	return kind, storeCfg, filePath
}
