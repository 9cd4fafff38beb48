package docsource

import (
	"context"
	"fmt"
	"os"
)

// Open selects a document Loader implementation using environment variables.
//
//	RISCORE_DOCS_DRIVER: fs|s3|memory (default fs)
//	RISCORE_DOCS_FS_ROOT: directory root when driver=fs (default ./openapi)
//	(S3 specific variables documented in the infra s3 package)
func Open(ctx context.Context) (Loader, error) {
	driver := os.Getenv("RISCORE_DOCS_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		root := os.Getenv("RISCORE_DOCS_FS_ROOT")
		return NewFilesystem(root)
	case DriverS3:
		return OpenS3FromEnv(ctx)
	case DriverMemory:
		return NewMemory(nil), nil
	default:
		return nil, fmt.Errorf("unknown docs driver %s", driver)
	}
}
