package store

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	kerrors "github.com/PolarWolf314/totara/internal/errors"
)

// GHCLIStore uploads repository secrets through the gh CLI, relying on its
// ambient authenticated session. Encryption happens inside gh itself.
type GHCLIStore struct {
	repo string
	bin  string
}

// NewGHCLI creates a gh CLI store for the given repository.
func NewGHCLI(cfg Config) *GHCLIStore {
	return &GHCLIStore{repo: cfg.Repo, bin: "gh"}
}

func (s *GHCLIStore) Name() string { return "gh" }

// Preflight checks the repository is set and gh is on PATH.
func (s *GHCLIStore) Preflight(ctx context.Context) error {
	if s.repo == "" {
		return kerrors.ErrRepoNotSet
	}
	if _, err := exec.LookPath(s.bin); err != nil {
		return fmt.Errorf("%w: %s (install from https://cli.github.com)", kerrors.ErrToolNotFound, s.bin)
	}
	return nil
}

// Prepare is a no-op; gh fetches the repository key itself.
func (s *GHCLIStore) Prepare(ctx context.Context) error { return nil }

// Put invokes gh secret set with the value streamed over stdin. The value
// never appears in argv, so it cannot leak through process listings.
func (s *GHCLIStore) Put(ctx context.Context, name, value string) error {
	cmd := exec.CommandContext(ctx, s.bin, "secret", "set", name, "--repo", s.repo)
	cmd.Stdin = strings.NewReader(value)

	out, err := cmd.CombinedOutput()
	if err != nil {
		detail := firstLine(string(out))
		if detail == "" {
			detail = err.Error()
		}
		return fmt.Errorf("%w: %s", kerrors.ErrUploadFailed, detail)
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return s
}
