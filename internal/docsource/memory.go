package docsource

import (
	memorydocs "riscore/internal/infra/docs/memory"
)

// MemoryLoader serves documents from an in-process map.
type MemoryLoader = memorydocs.Loader

// NewMemory returns a Loader serving the given documents. The map may be nil.
func NewMemory(docs map[string][]byte) *MemoryLoader { return memorydocs.New(docs) }
