// Package docsource abstracts where the source OpenAPI documents live.
// Handlers depend on the Loader interface and the Catalog; the concrete
// drivers are wired in internal/infra/docs and selected by the factory.
package docsource

import (
	"context"
	"errors"

	"riscore/internal/infra/docs/core"
)

type (
	// Driver identifies a document-source backend.
	Driver = core.Driver
	// Loader is the read contract of a document-source backend.
	Loader = core.Loader
)

const (
	// DriverFilesystem reads documents from a local directory.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 reads documents from an S3-compatible bucket.
	DriverS3 = core.DriverS3
	// DriverMemory serves documents from memory, for tests and embedding.
	DriverMemory = core.DriverMemory
)

// ErrNotFound indicates a named document is absent from the source.
var ErrNotFound = core.ErrNotFound

// LoadAll fetches every document of the source as (name, bytes) pairs in
// the loader's listing order.
func LoadAll(ctx context.Context, loader Loader) (map[string][]byte, error) {
	names, err := loader.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(names))
	for _, name := range names {
		data, err := loader.Get(ctx, name)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				// Listing raced a removal; skip the vanished document.
				continue
			}
			return nil, err
		}
		out[name] = data
	}
	return out, nil
}
