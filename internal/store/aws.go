package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"

	kerrors "github.com/PolarWolf314/totara/internal/errors"
)

// AWSStore uploads secrets to AWS Secrets Manager. Values are placed one
// secret per entry under an optional name prefix, e.g. "myapp/prod/DB_URI".
type AWSStore struct {
	region string
	prefix string
	client *secretsmanager.Client
}

// NewAWS creates an AWS Secrets Manager store. The client is built during
// Preflight so credential resolution happens inside the run's context.
func NewAWS(cfg Config) *AWSStore {
	return &AWSStore{region: cfg.AWSRegion, prefix: cfg.AWSPrefix}
}

func (s *AWSStore) Name() string { return "aws" }

// Preflight resolves the default credential chain (env vars, shared config,
// SSO session, instance role) and fails fast when nothing usable is found.
func (s *AWSStore) Preflight(ctx context.Context) error {
	opts := []func(*config.LoadOptions) error{}
	if s.region != "" {
		opts = append(opts, config.WithRegion(s.region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return fmt.Errorf("%w: loading AWS config: %v", kerrors.ErrCredentialsNotFound, err)
	}
	if _, err := awsCfg.Credentials.Retrieve(ctx); err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrCredentialsNotFound, err)
	}

	s.client = secretsmanager.NewFromConfig(awsCfg)
	return nil
}

// Prepare is a no-op; Secrets Manager encrypts server-side with KMS.
func (s *AWSStore) Prepare(ctx context.Context) error { return nil }

// Put creates the secret, falling back to a new value version when it
// already exists.
func (s *AWSStore) Put(ctx context.Context, name, value string) error {
	secretName := s.secretName(name)

	_, err := s.client.CreateSecret(ctx, &secretsmanager.CreateSecretInput{
		Name:         aws.String(secretName),
		SecretString: aws.String(value),
	})
	if err == nil {
		return nil
	}

	var exists *types.ResourceExistsException
	if !errors.As(err, &exists) {
		return fmt.Errorf("%w: %v", kerrors.ErrUploadFailed, err)
	}

	_, err = s.client.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:     aws.String(secretName),
		SecretString: aws.String(value),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrUploadFailed, err)
	}
	return nil
}

func (s *AWSStore) secretName(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}
