package docsource

import (
	"context"

	infraFS "riscore/internal/infra/docs/fs"
)

// FilesystemLoader is a directory-backed Loader that can also watch the
// directory for changes.
type FilesystemLoader = infraFS.Loader

// NewFilesystem returns a Loader reading documents from root. An empty root
// falls back to the default directory.
func NewFilesystem(root string) (*FilesystemLoader, error) {
	return infraFS.New(root)
}

// WatchFilesystem blocks watching the loader's directory and invokes
// onChange whenever a document is created, modified, renamed or removed.
// It returns when ctx is cancelled.
func WatchFilesystem(ctx context.Context, loader *FilesystemLoader, onChange func()) error {
	return loader.Watch(ctx, onChange)
}
