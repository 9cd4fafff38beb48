package docsource

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"riscore/internal/openapi"
)

// Catalog keeps the decoded OpenAPI documents of one source in memory.
// Documents are ordered by source file name and tagged with the file name
// stripped of its extension. Reload replaces the whole set atomically, so
// readers always observe a consistent snapshot.
type Catalog struct {
	loader Loader

	mu   sync.RWMutex
	docs []*openapi.Document
}

// NewCatalog creates a catalog over loader and performs the initial load.
func NewCatalog(ctx context.Context, loader Loader) (*Catalog, error) {
	c := &Catalog{loader: loader}
	if err := c.Reload(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads and re-decodes every document from the source. On error
// the previously loaded set stays in place.
func (c *Catalog) Reload(ctx context.Context) error {
	raw, err := LoadAll(ctx, c.loader)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	docs := make([]*openapi.Document, 0, len(names))
	for _, name := range names {
		doc, err := openapi.Decode(DocumentTag(name), raw[name])
		if err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}
		docs = append(docs, doc)
	}

	c.mu.Lock()
	c.docs = docs
	c.mu.Unlock()
	return nil
}

// Documents returns the currently loaded documents in tag order.
func (c *Catalog) Documents() []*openapi.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*openapi.Document, len(c.docs))
	copy(out, c.docs)
	return out
}

// Document returns the loaded document with the given tag, or ErrNotFound.
func (c *Catalog) Document(tag string) (*openapi.Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, doc := range c.docs {
		if doc.Tag == tag {
			return doc, nil
		}
	}
	return nil, ErrNotFound
}

// Tags returns the tags of the loaded documents in order.
func (c *Catalog) Tags() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tags := make([]string, len(c.docs))
	for i, doc := range c.docs {
		tags[i] = doc.Tag
	}
	return tags
}

// DocumentTag derives a document tag from its source file name by
// stripping the extension ("org-unit.yaml" -> "org-unit").
func DocumentTag(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}
