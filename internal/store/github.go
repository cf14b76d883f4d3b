package store

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/nacl/box"

	kerrors "github.com/PolarWolf314/totara/internal/errors"
)

const (
	// DefaultGitHubAPI is the GitHub REST API endpoint.
	DefaultGitHubAPI = "https://api.github.com"

	// GitHubAPIEnvVar overrides the API endpoint, mainly for tests.
	GitHubAPIEnvVar = "TOTARA_GITHUB_API"

	// TokenEnvVar is checked for the access token before GITHUB_TOKEN.
	TokenEnvVar = "TOTARA_GITHUB_TOKEN"

	// HTTP timeout for API calls.
	apiTimeout = 30 * time.Second
)

// GitHubStore uploads repository secrets through the GitHub REST API.
// Values are encrypted client-side against the repository's public key, so
// the API never sees plaintext in transit beyond TLS.
type GitHubStore struct {
	repo    string
	baseURL string
	token   string
	client  *http.Client
	key     *PublicKey
}

// NewGitHub creates a GitHub REST API store for the given repository.
func NewGitHub(cfg Config) *GitHubStore {
	baseURL := os.Getenv(GitHubAPIEnvVar)
	if baseURL == "" {
		baseURL = DefaultGitHubAPI
	}
	return &GitHubStore{
		repo:    cfg.Repo,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: apiTimeout},
	}
}

func (s *GitHubStore) Name() string { return "github" }

// Preflight checks the repository is set and an access token is available in
// the environment. Tokens are never accepted via flags or config files.
func (s *GitHubStore) Preflight(ctx context.Context) error {
	if s.repo == "" {
		return kerrors.ErrRepoNotSet
	}

	token := os.Getenv(TokenEnvVar)
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return fmt.Errorf("%w: set %s or GITHUB_TOKEN", kerrors.ErrCredentialsNotFound, TokenEnvVar)
	}

	s.token = token
	return nil
}

// Prepare fetches the repository's current public key once for the run.
func (s *GitHubStore) Prepare(ctx context.Context) error {
	url := fmt.Sprintf("%s/repos/%s/actions/secrets/public-key", s.baseURL, s.repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrPublicKeyFetch, err)
	}
	s.setHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrPublicKeyFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s from %s", kerrors.ErrPublicKeyFetch, resp.Status, url)
	}

	var key PublicKey
	if err := json.NewDecoder(resp.Body).Decode(&key); err != nil {
		return fmt.Errorf("%w: decoding response: %v", kerrors.ErrPublicKeyFetch, err)
	}
	if key.Key == "" || key.KeyID == "" {
		return fmt.Errorf("%w: response missing key or key_id", kerrors.ErrPublicKeyFetch)
	}

	s.key = &key
	return nil
}

// Put encrypts the value against the fetched public key and submits it.
// A 201 response means created, 204 means overwritten; both are success.
func (s *GitHubStore) Put(ctx context.Context, name, value string) error {
	encrypted, err := sealValue(value, s.key.Key)
	if err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrEncryptFailed, err)
	}

	payload, err := json.Marshal(map[string]string{
		"encrypted_value": encrypted,
		"key_id":          s.key.KeyID,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrUploadFailed, err)
	}

	url := fmt.Sprintf("%s/repos/%s/actions/secrets/%s", s.baseURL, s.repo, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrUploadFailed, err)
	}
	s.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		detail := readErrorDetail(resp.Body)
		if detail == "" {
			detail = resp.Status
		}
		return fmt.Errorf("%w: %s", kerrors.ErrUploadFailed, detail)
	}

	return nil
}

func (s *GitHubStore) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
}

// sealValue encrypts plaintext with an anonymous NaCl sealed box against the
// base64-encoded repository public key and re-encodes the result as base64,
// the shape the secrets API expects.
func sealValue(plaintext, publicKeyB64 string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(publicKeyB64)
	if err != nil {
		return "", fmt.Errorf("decoding public key: %w", err)
	}
	if len(raw) != 32 {
		return "", fmt.Errorf("public key is %d bytes, expected 32", len(raw))
	}

	var publicKey [32]byte
	copy(publicKey[:], raw)

	sealed, err := box.SealAnonymous(nil, []byte(plaintext), &publicKey, rand.Reader)
	if err != nil {
		return "", fmt.Errorf("sealing value: %w", err)
	}

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// readErrorDetail extracts the API's error message from a failed response,
// falling back to the raw body.
func readErrorDetail(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(body) == 0 {
		return ""
	}

	var apiErr struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return apiErr.Message
	}
	return strings.TrimSpace(string(body))
}
