// Package openapi models the independently authored OpenAPI documents served
// by riscore and merges them into a single browsable document.
package openapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"riscore/pkg/domain"
)

// PlaceholderToken is the literal server-URL placeholder embedded in the
// source documents. It is substituted verbatim with the externally
// advertised base URL before a document leaves the server.
const PlaceholderToken = "{{SERVER_URL}}"

// httpMethods lists the operation keys recognised inside a path item.
var httpMethods = map[string]struct{}{
	"get": {}, "put": {}, "post": {}, "delete": {},
	"options": {}, "head": {}, "patch": {}, "trace": {},
}

// Document is one OpenAPI description, decoded generically so merge and
// placeholder resolution can treat paths, components, and servers uniformly
// regardless of which spec extensions a source uses. Tag names the logical
// source domain (org-unit, funding, project, info) and disambiguates
// operationId collisions during merge.
type Document struct {
	Tag  string
	root map[string]any
}

// Decode parses YAML or JSON bytes into a Document. YAML is a superset of
// JSON, so both source formats go through the same decoder. The top level
// must be a mapping.
func Decode(tag string, data []byte) (*Document, error) {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", tag, err)
	}
	if len(root) == 0 {
		return nil, fmt.Errorf("decode document %s: empty document", tag)
	}
	return &Document{Tag: tag, root: root}, nil
}

// NewDocument wraps an already decoded document tree.
func NewDocument(tag string, root map[string]any) *Document {
	return &Document{Tag: tag, root: root}
}

// Paths returns the document's path mapping, or nil when absent.
func (d *Document) Paths() map[string]any {
	m, _ := d.root["paths"].(map[string]any)
	return m
}

// Components returns the document's component-type mapping, or nil.
func (d *Document) Components() map[string]any {
	m, _ := d.root["components"].(map[string]any)
	return m
}

// Servers returns the document's server definitions, or nil.
func (d *Document) Servers() []any {
	s, _ := d.root["servers"].([]any)
	return s
}

// OperationIDs collects every operationId in the document, sorted.
func (d *Document) OperationIDs() []string {
	var out []string
	for _, path := range sortedKeys(d.Paths()) {
		item, ok := d.Paths()[path].(map[string]any)
		if !ok {
			continue
		}
		for method, raw := range item {
			if _, ok := httpMethods[strings.ToLower(method)]; !ok {
				continue
			}
			op, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if id, ok := op["operationId"].(string); ok && id != "" {
				out = append(out, id)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Resolved returns a deep copy of the document with every placeholder token
// substituted by serverURL. An empty serverURL is a configuration error,
// never a silent empty substitution.
func (d *Document) Resolved(serverURL string) (*Document, error) {
	if strings.TrimSpace(serverURL) == "" {
		return nil, domain.ConfigError{Kind: domain.ConfigMissingServerURL}
	}
	root := substitute(deepCopy(d.root), serverURL).(map[string]any)
	return &Document{Tag: d.Tag, root: root}, nil
}

// EncodeYAML serializes the document as YAML.
func (d *Document) EncodeYAML() ([]byte, error) {
	return yaml.Marshal(d.root)
}

// EncodeJSON serializes the document as JSON.
func (d *Document) EncodeJSON() ([]byte, error) {
	return json.Marshal(d.root)
}

// deepCopy clones a decoded YAML/JSON tree so merge results never alias
// their source documents.
func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}

// substitute replaces the placeholder token in every string value of the
// tree, in place.
func substitute(v any, serverURL string) any {
	switch t := v.(type) {
	case string:
		return strings.ReplaceAll(t, PlaceholderToken, serverURL)
	case map[string]any:
		for k, val := range t {
			t[k] = substitute(val, serverURL)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = substitute(val, serverURL)
		}
		return t
	default:
		return v
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
