// Package core declares the document-source contract shared by the drivers.
package core

import (
	"context"
	"errors"
)

// Driver identifies a document-source backend driver.
type Driver string

// Supported document-source drivers.
const (
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
	DriverMemory     Driver = "memory"
)

// ErrNotFound indicates a named document is absent from the source.
var ErrNotFound = errors.New("document not found")

// Loader is the read contract of a document-source backend. Names are
// driver-relative (file names or object keys without prefix).
type Loader interface {
	Driver() Driver
	// List returns the available document names, sorted.
	List(ctx context.Context) ([]string, error)
	// Get returns the raw bytes of one document.
	Get(ctx context.Context, name string) ([]byte, error)
}
