// Package openapi embeds the source OpenAPI documents for runtime
// distribution. Deployments that do not mount a document directory serve
// these embedded copies through the memory document source.
package openapi

import (
	"embed"
	"io/fs"
)

//go:embed *.yaml
var specFS embed.FS

// Documents returns the embedded OpenAPI documents keyed by file name. The
// returned map and payloads are copies.
func Documents() map[string][]byte {
	entries, err := specFS.ReadDir(".")
	if err != nil {
		panic(err)
	}
	out := make(map[string][]byte, len(entries))
	for _, entry := range entries {
		data, err := fs.ReadFile(specFS, entry.Name())
		if err != nil {
			panic(err)
		}
		out[entry.Name()] = append([]byte(nil), data...)
	}
	return out
}

// Document returns one embedded document by file name, or false when the
// name is unknown.
func Document(name string) ([]byte, bool) {
	data, err := fs.ReadFile(specFS, name)
	if err != nil {
		return nil, false
	}
	return append([]byte(nil), data...), true
}
