// Package fs implements a directory-backed document source.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"

	"riscore/internal/infra/docs/core"
)

// Loader implements core.Loader over a flat directory of OpenAPI documents.
// Only .yaml, .yml, and .json entries are listed; names are file names
// relative to the root and may not traverse outside it.
type Loader struct {
	root string
}

// New returns a filesystem-backed loader rooted at path.
func New(root string) (*Loader, error) {
	if root == "" {
		root = "./openapi"
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("document root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("document root %s is not a directory", root)
	}
	return &Loader{root: root}, nil
}

// Root returns the directory the loader reads from.
func (l *Loader) Root() string { return l.root }

// Driver returns the document-source driver identifier.
func (l *Loader) Driver() core.Driver { return core.DriverFilesystem }

// List returns the document file names, sorted.
func (l *Loader) List(context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !isDocumentName(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Get returns the raw bytes of one document file.
func (l *Loader) Get(_ context.Context, name string) ([]byte, error) {
	path, err := l.pathFor(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", name, err)
	}
	return data, nil
}

// pathFor resolves name under the root, forbidding traversal and absolute
// names.
func (l *Loader) pathFor(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("empty document name")
	}
	if strings.HasPrefix(name, "/") || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid document name %q", name)
	}
	clean := filepath.ToSlash(filepath.Clean(name))
	if strings.HasPrefix(clean, "..") || strings.Contains(clean, "/") {
		return "", fmt.Errorf("invalid document name %q", name)
	}
	return filepath.Join(l.root, clean), nil
}

func isDocumentName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}

// Watch blocks until ctx is done, invoking onChange after every create,
// write, rename, or remove affecting a document file in the root. Event
// storms from editors are left to the callback to debounce.
func (l *Loader) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch documents: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(l.root); err != nil {
		return fmt.Errorf("watch %s: %w", l.root, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isDocumentName(filepath.Base(event.Name)) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0 {
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", l.root, err)
		}
	}
}
