package docsource

import (
	"context"

	infraS3 "riscore/internal/infra/docs/s3"
)

// S3Config re-exports the infra S3 configuration type.
type S3Config = infraS3.Config

// NewS3 constructs an S3-backed Loader from the provided configuration.
func NewS3(ctx context.Context, cfg S3Config) (Loader, error) {
	return infraS3.New(ctx, cfg)
}

// OpenS3FromEnv constructs an S3-backed Loader using environment variables.
func OpenS3FromEnv(ctx context.Context) (Loader, error) {
	return infraS3.OpenFromEnv(ctx)
}
