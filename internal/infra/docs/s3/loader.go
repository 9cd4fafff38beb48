// Package s3 implements a document source over an S3-compatible backend
// (AWS S3 or MinIO). Minimal surface area: single bucket, optional key
// prefix, objects mapped to document names directly.
package s3

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"riscore/internal/infra/docs/core"
)

// Loader implements core.Loader over one S3 bucket.
type Loader struct {
	client *s3.Client
	bucket string
	prefix string
}

// Config holds explicit construction parameters (mostly for tests). For
// production we rely primarily on environment variables.
type Config struct {
	Region    string
	Bucket    string
	Prefix    string // optional key prefix the documents live under
	Endpoint  string // optional; enables a custom endpoint (e.g. MinIO)
	PathStyle bool
}

// Environment variables:
//   RISCORE_DOCS_DRIVER=s3
//   RISCORE_DOCS_S3_BUCKET=<bucket> (required)
//   RISCORE_DOCS_S3_PREFIX=<prefix> (optional)
//   RISCORE_DOCS_S3_REGION=<region> (default us-east-1)
//   RISCORE_DOCS_S3_ENDPOINT=<url> (optional, for MinIO)
//   RISCORE_DOCS_S3_PATH_STYLE=true|false (default false)
//   AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY / AWS_SESSION_TOKEN (optional)

// New creates an S3 document loader from Config.
func New(ctx context.Context, cfg Config) (*Loader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	prefix := cfg.Prefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Loader{client: client, bucket: cfg.Bucket, prefix: prefix}, nil
}

// OpenFromEnv constructs an S3 loader from process environment.
func OpenFromEnv(ctx context.Context) (*Loader, error) {
	bucket := os.Getenv("RISCORE_DOCS_S3_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("RISCORE_DOCS_S3_BUCKET required for s3 driver")
	}
	cfg := Config{
		Bucket:    bucket,
		Prefix:    os.Getenv("RISCORE_DOCS_S3_PREFIX"),
		Region:    os.Getenv("RISCORE_DOCS_S3_REGION"),
		Endpoint:  os.Getenv("RISCORE_DOCS_S3_ENDPOINT"),
		PathStyle: strings.EqualFold(os.Getenv("RISCORE_DOCS_S3_PATH_STYLE"), "true"),
	}
	return New(ctx, cfg)
}

// Driver returns the document-source driver identifier.
func (l *Loader) Driver() core.Driver { return core.DriverS3 }

// List returns the document object names under the prefix, sorted.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	var names []string
	var token *string
	for {
		out, err := l.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            &l.bucket,
			Prefix:            &l.prefix,
			ContinuationToken: token,
		})
		if err != nil {
			return nil, err
		}
		for _, obj := range out.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), l.prefix)
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			if !isDocumentName(name) {
				continue
			}
			names = append(names, name)
		}
		if out.IsTruncated != nil && *out.IsTruncated && out.NextContinuationToken != nil {
			token = out.NextContinuationToken
			continue
		}
		break
	}
	sort.Strings(names)
	return names, nil
}

// Get returns the raw bytes of one document object.
func (l *Loader) Get(ctx context.Context, name string) ([]byte, error) {
	key := l.prefix + name
	out, err := l.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &l.bucket, Key: &key})
	if err != nil {
		if strings.Contains(err.Error(), "NoSuchKey") {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	defer func() { _ = out.Body.Close() }()
	return io.ReadAll(out.Body)
}

func isDocumentName(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}
