package openapi

import (
	"fmt"
	"reflect"
	"strings"

	"riscore/pkg/domain"
)

// Metadata for the merged document. The sources stay authoritative for
// their own info blocks; the merged document gets its own identity.
const (
	mergedTitle       = "Research Metadata API"
	mergedDescription = "Merged research-metadata API documentation"
	mergedVersion     = "1.0"
)

// Merge concatenates the paths and components of documents, in document
// order, into one placeholder-resolved document.
//
// Identifier rules:
//   - An operationId already claimed by an earlier document is renamed by
//     suffixing the later document's tag (and a counter when the tag alone
//     does not disambiguate). Collisions are never dropped silently.
//   - A component defined identically by several documents is deduplicated;
//     differing bodies under the same name are a hard SchemaError.
//
// An empty serverURL is a ConfigError. Inputs are never mutated, so Merge
// stays safe under concurrent use of the source set.
func Merge(documents []*Document, serverURL string) (*Document, error) {
	if strings.TrimSpace(serverURL) == "" {
		return nil, domain.ConfigError{Kind: domain.ConfigMissingServerURL}
	}

	merged := map[string]any{
		"openapi": "3.0.1",
		"info": map[string]any{
			"title":       mergedTitle,
			"description": mergedDescription,
			"version":     mergedVersion,
		},
		"servers":    []any{map[string]any{"url": serverURL}},
		"paths":      map[string]any{},
		"components": map[string]any{},
	}
	mergedPaths := merged["paths"].(map[string]any)
	mergedComponents := merged["components"].(map[string]any)

	// operationId -> owning document tag, componentKey -> owning tag.
	opOwners := make(map[string]string)
	componentOwners := make(map[string]string)

	for _, doc := range documents {
		if err := mergePaths(mergedPaths, doc, opOwners); err != nil {
			return nil, err
		}
		if err := mergeComponents(mergedComponents, doc, componentOwners); err != nil {
			return nil, err
		}
	}

	root := substitute(merged, serverURL).(map[string]any)
	return &Document{Tag: "merged", root: root}, nil
}

func mergePaths(merged map[string]any, doc *Document, owners map[string]string) error {
	paths := doc.Paths()
	for _, path := range sortedKeys(paths) {
		item, ok := paths[path].(map[string]any)
		if !ok {
			return fmt.Errorf("document %s: path %s is not a mapping", doc.Tag, path)
		}
		copied := deepCopy(item).(map[string]any)
		renameCollidingOperations(copied, doc.Tag, owners)

		existing, ok := merged[path].(map[string]any)
		if !ok {
			merged[path] = copied
			continue
		}
		// Same path contributed twice: later methods win per method key.
		for method, op := range copied {
			existing[method] = op
		}
	}
	return nil
}

// renameCollidingOperations rewrites operationIds already claimed by an
// earlier document, deterministically from document order.
func renameCollidingOperations(item map[string]any, tag string, owners map[string]string) {
	for _, method := range sortedKeys(item) {
		if _, ok := httpMethods[strings.ToLower(method)]; !ok {
			continue
		}
		op, ok := item[method].(map[string]any)
		if !ok {
			continue
		}
		id, ok := op["operationId"].(string)
		if !ok || id == "" {
			continue
		}
		owner, taken := owners[id]
		if !taken {
			owners[id] = tag
			continue
		}
		if owner == tag {
			// Same source document repeated an id; still disambiguate.
			owner = ""
		}
		renamed := id + "_" + tag
		for n := 2; ; n++ {
			if _, clash := owners[renamed]; !clash {
				break
			}
			renamed = fmt.Sprintf("%s_%s_%d", id, tag, n)
		}
		op["operationId"] = renamed
		owners[renamed] = tag
	}
}

func mergeComponents(merged map[string]any, doc *Document, owners map[string]string) error {
	components := doc.Components()
	for _, compType := range sortedKeys(components) {
		group, ok := components[compType].(map[string]any)
		if !ok {
			continue
		}
		target, ok := merged[compType].(map[string]any)
		if !ok {
			target = map[string]any{}
			merged[compType] = target
		}
		for _, name := range sortedKeys(group) {
			key := compType + "/" + name
			existing, present := target[name]
			if !present {
				target[name] = deepCopy(group[name])
				owners[key] = doc.Tag
				continue
			}
			if reflect.DeepEqual(existing, group[name]) {
				// Identical redefinition: deduplicate silently.
				continue
			}
			return domain.SchemaError{
				Component: key,
				Documents: []string{owners[key], doc.Tag},
			}
		}
	}
	return nil
}
