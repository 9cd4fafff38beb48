package openapi

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"riscore/pkg/domain"
)

func mustDecode(t *testing.T, tag, body string) *Document {
	t.Helper()
	doc, err := Decode(tag, []byte(body))
	if err != nil {
		t.Fatalf("decode %s: %v", tag, err)
	}
	return doc
}

func docWithOp(t *testing.T, tag, path, opID string) *Document {
	t.Helper()
	return mustDecode(t, tag, `
openapi: 3.0.1
info:
  title: `+tag+`
  version: "1.0"
paths:
  `+path+`:
    get:
      operationId: `+opID+`
      responses:
        "200":
          description: ok
`)
}

func TestMergeRequiresServerURL(t *testing.T) {
	_, err := Merge(nil, "")
	var cfg domain.ConfigError
	if !errors.As(err, &cfg) || cfg.Kind != domain.ConfigMissingServerURL {
		t.Fatalf("expected missing server url error, got %v", err)
	}
}

func TestMergeConcatenatesPaths(t *testing.T) {
	a := docWithOp(t, "org-unit", "/orgUnits", "listOrgUnits")
	b := docWithOp(t, "funding", "/fundings", "listFundings")

	merged, err := Merge([]*Document{a, b}, "https://api.example.org")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	paths := merged.Paths()
	if len(paths) != 2 {
		t.Fatalf("expected 2 paths, got %v", sortedKeys(paths))
	}
	for _, want := range []string{"/orgUnits", "/fundings"} {
		if _, ok := paths[want]; !ok {
			t.Fatalf("missing path %s in %v", want, sortedKeys(paths))
		}
	}
}

func TestMergeRenamesCollidingOperationIDs(t *testing.T) {
	a := docWithOp(t, "org-unit", "/orgUnits", "findAll")
	b := docWithOp(t, "funding", "/fundings", "findAll")

	merged, err := Merge([]*Document{a, b}, "https://api.example.org")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	got := merged.OperationIDs()
	want := []string{"findAll", "findAll_funding"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected ids %v, got %v", want, got)
	}
}

func TestMergeCollisionRenameIsDeterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		a := docWithOp(t, "org-unit", "/orgUnits", "findAll")
		b := docWithOp(t, "funding", "/fundings", "findAll")
		c := docWithOp(t, "project", "/projects", "findAll")
		merged, err := Merge([]*Document{a, b, c}, "https://api.example.org")
		if err != nil {
			t.Fatalf("merge: %v", err)
		}
		want := []string{"findAll", "findAll_funding", "findAll_project"}
		if got := merged.OperationIDs(); !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestMergeDeduplicatesIdenticalComponents(t *testing.T) {
	schema := `
components:
  schemas:
    Money:
      type: object
      properties:
        amount:
          type: number
`
	a := mustDecode(t, "org-unit", "openapi: 3.0.1\npaths: {}\n"+schema)
	b := mustDecode(t, "funding", "openapi: 3.0.1\npaths: {}\n"+schema)

	merged, err := Merge([]*Document{a, b}, "https://api.example.org")
	if err != nil {
		t.Fatalf("identical components must deduplicate: %v", err)
	}
	schemas, _ := merged.Components()["schemas"].(map[string]any)
	if len(schemas) != 1 {
		t.Fatalf("expected single Money schema, got %v", sortedKeys(schemas))
	}
}

func TestMergeConflictingComponentsFail(t *testing.T) {
	a := mustDecode(t, "org-unit", `
openapi: 3.0.1
paths: {}
components:
  schemas:
    Money:
      type: object
`)
	b := mustDecode(t, "funding", `
openapi: 3.0.1
paths: {}
components:
  schemas:
    Money:
      type: string
`)
	_, err := Merge([]*Document{a, b}, "https://api.example.org")
	var schemaErr domain.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected schema conflict, got %v", err)
	}
	if schemaErr.Component != "schemas/Money" {
		t.Fatalf("conflict must name the component, got %q", schemaErr.Component)
	}
	if len(schemaErr.Documents) != 2 || schemaErr.Documents[0] != "org-unit" || schemaErr.Documents[1] != "funding" {
		t.Fatalf("conflict must name both documents, got %v", schemaErr.Documents)
	}
}

func TestMergeSubstitutesPlaceholders(t *testing.T) {
	a := mustDecode(t, "org-unit", `
openapi: 3.0.1
servers:
  - url: "{{SERVER_URL}}/orgunits"
paths:
  /orgUnits:
    get:
      operationId: listOrgUnits
      description: "reachable at {{SERVER_URL}}/orgUnits"
      responses:
        "200":
          description: ok
`)
	merged, err := Merge([]*Document{a}, "https://api.example.org")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	out, err := merged.EncodeYAML()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if strings.Contains(string(out), PlaceholderToken) {
		t.Fatalf("merged document must not contain placeholders:\n%s", out)
	}
}

func TestMergeAssociativity(t *testing.T) {
	a := docWithOp(t, "org-unit", "/orgUnits", "listOrgUnits")
	b := docWithOp(t, "funding", "/fundings", "listFundings")
	c := docWithOp(t, "project", "/projects", "listProjects")

	const url = "https://api.example.org"

	ab, err := Merge([]*Document{a, b}, url)
	if err != nil {
		t.Fatalf("merge [A B]: %v", err)
	}
	left, err := Merge([]*Document{ab, c}, url)
	if err != nil {
		t.Fatalf("merge [AB C]: %v", err)
	}

	bc, err := Merge([]*Document{b, c}, url)
	if err != nil {
		t.Fatalf("merge [B C]: %v", err)
	}
	right, err := Merge([]*Document{a, bc}, url)
	if err != nil {
		t.Fatalf("merge [A BC]: %v", err)
	}

	if !reflect.DeepEqual(left.Paths(), right.Paths()) {
		t.Fatalf("paths differ:\nleft=%v\nright=%v", left.Paths(), right.Paths())
	}
	if !reflect.DeepEqual(left.Components(), right.Components()) {
		t.Fatalf("components differ")
	}
}

func TestMergeDoesNotMutateSources(t *testing.T) {
	a := docWithOp(t, "org-unit", "/orgUnits", "findAll")
	b := docWithOp(t, "funding", "/fundings", "findAll")

	if _, err := Merge([]*Document{a, b}, "https://api.example.org"); err != nil {
		t.Fatalf("merge: %v", err)
	}
	// b's own operationId must still be the original.
	if got := b.OperationIDs(); !reflect.DeepEqual(got, []string{"findAll"}) {
		t.Fatalf("merge mutated a source document: %v", got)
	}
}
