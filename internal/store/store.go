package store

import (
	"context"
	"fmt"

	kerrors "github.com/PolarWolf314/totara/internal/errors"
)

// Store is a remote secret sink scoped to a single repository.
//
// Put calls are sequential; implementations are not required to be safe for
// concurrent use.
type Store interface {
	// Name identifies the store for display and audit entries.
	Name() string

	// Preflight verifies the store's prerequisites (tool on PATH, token in
	// the environment, resolvable cloud credentials) without touching the
	// network where possible. A failure aborts the run before any upload.
	Preflight(ctx context.Context) error

	// Prepare performs one-time setup after preflight, before the first Put.
	// For stores that encrypt client-side this fetches the repository's
	// public key material.
	Prepare(ctx context.Context) error

	// Put creates or overwrites the named secret. Errors wrap either
	// ErrEncryptFailed or ErrUploadFailed so callers can classify them.
	Put(ctx context.Context, name, value string) error
}

// PublicKey is the key material a store publishes so clients can encrypt
// values before transmission.
type PublicKey struct {
	Key   string `json:"key"`    // base64-encoded 32-byte key
	KeyID string `json:"key_id"` // opaque identifier echoed back on upload
}

// Config carries the settings a store needs at construction time.
// Credential material is deliberately absent; each store resolves its own
// from the environment or ambient session during Preflight.
type Config struct {
	// Repo is the owner/name repository identifier (GitHub stores).
	Repo string

	// AWSRegion and AWSPrefix configure the aws store.
	AWSRegion string
	AWSPrefix string
}

// New builds the named store. Returns ErrUnknownStore for unrecognized names.
func New(kind string, cfg Config) (Store, error) {
	switch kind {
	case "github":
		return NewGitHub(cfg), nil
	case "gh":
		return NewGHCLI(cfg), nil
	case "aws":
		return NewAWS(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q (expected github, gh, or aws)", kerrors.ErrUnknownStore, kind)
	}
}
