package errors

import "errors"

// Preflight errors abort a push before any upload is attempted.
var (
	// ErrToolNotFound indicates a required external tool is not on PATH.
	ErrToolNotFound = errors.New("required tool not found")

	// ErrCredentialsNotFound indicates no usable authentication material was
	// found in the environment or ambient session.
	ErrCredentialsNotFound = errors.New("no authentication credentials available")

	// ErrRepoNotSet indicates no target repository was configured.
	ErrRepoNotSet = errors.New("target repository not configured")

	// ErrEnvFileNotFound indicates the definition file does not exist.
	ErrEnvFileNotFound = errors.New("definition file not found")

	// ErrPublicKeyFetch indicates the store's public key could not be retrieved.
	ErrPublicKeyFetch = errors.New("failed to fetch repository public key")

	// ErrUnknownStore indicates an unrecognized secret store name.
	ErrUnknownStore = errors.New("unknown secret store")
)

// Entry errors affect a single secret; the run continues with the next entry.
var (
	// ErrEncryptFailed indicates a secret value could not be encrypted.
	ErrEncryptFailed = errors.New("failed to encrypt secret value")

	// ErrUploadFailed indicates the store rejected or failed the upload.
	ErrUploadFailed = errors.New("failed to upload secret")
)

// Project state errors indicate issues with project configuration.
var (
	// ErrProjectAlreadyInitialized indicates a .totara directory already exists.
	ErrProjectAlreadyInitialized = errors.New("project has already been initialized")

	// ErrInvalidProjectConfig indicates the project configuration is malformed.
	ErrInvalidProjectConfig = errors.New("project configuration is invalid")
)
