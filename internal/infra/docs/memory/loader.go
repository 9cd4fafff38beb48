// Package memory implements an in-memory document source for tests and
// embedded document sets.
package memory

import (
	"context"
	"sort"
	"sync"

	"riscore/internal/infra/docs/core"
)

// Loader implements core.Loader backed by process memory.
type Loader struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// New returns an in-memory loader seeded with docs. The byte slices are
// copied so callers cannot alias the stored documents.
func New(docs map[string][]byte) *Loader {
	l := &Loader{docs: make(map[string][]byte, len(docs))}
	for name, data := range docs {
		l.docs[name] = append([]byte(nil), data...)
	}
	return l
}

// Driver returns the document-source driver identifier.
func (l *Loader) Driver() core.Driver { return core.DriverMemory }

// List returns the available document names, sorted.
func (l *Loader) List(context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.docs))
	for name := range l.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Get returns a copy of one document's bytes.
func (l *Loader) Get(_ context.Context, name string) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	data, ok := l.docs[name]
	if !ok {
		return nil, core.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Set stores or replaces one document.
func (l *Loader) Set(name string, data []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.docs[name] = append([]byte(nil), data...)
}
