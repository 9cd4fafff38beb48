package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"riscore/internal/core"
	"riscore/internal/docsource"
	"riscore/pkg/domain"
	"riscore/testutil"
)

type stubStore struct {
	units    []domain.OrgUnit
	funding  []domain.FundingRecord
	projects []domain.Project
}

func (s *stubStore) ListOrgUnits(context.Context) ([]domain.OrgUnit, error) {
	return s.units, nil
}

func (s *stubStore) ListFundingRecords(context.Context) ([]domain.FundingRecord, error) {
	return s.funding, nil
}

func (s *stubStore) ListProjects(context.Context) ([]domain.Project, error) {
	return s.projects, nil
}

func testStore() *stubStore {
	return &stubStore{
		units:    testutil.SampleOrgUnits(),
		funding:  testutil.SampleFunding(),
		projects: testutil.SampleProjects(),
	}
}

func testCatalog(t *testing.T) *docsource.Catalog {
	t.Helper()
	loader := docsource.NewMemory(map[string][]byte{
		"org-unit.yaml": []byte(`openapi: 3.0.1
info:
  title: OrgUnit API
servers:
  - url: "{{SERVER_URL}}"
paths:
  /v1/orgUnits/organigram:
    get:
      operationId: findAll
      responses:
        "200":
          description: ok
`),
		"funding.yaml": []byte(`openapi: 3.0.1
info:
  title: Funding API
servers:
  - url: "{{SERVER_URL}}"
paths:
  /v1/fundings:
    get:
      operationId: findAll
      responses:
        "200":
          description: ok
`),
	})
	catalog, err := docsource.NewCatalog(context.Background(), loader)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	return catalog
}

func newTestHandler(t *testing.T, opts ...HandlerOption) *Handler {
	t.Helper()
	service := core.NewService(testStore())
	return NewHandler(service, testCatalog(t), "https://research.example.org", opts...)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestOrganigramEndpoint(t *testing.T) {
	h := newTestHandler(t)
	rec := get(t, h, "/ris-synergy/v1/orgUnits/organigram")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var tree struct {
		Root *struct {
			ID       string `json:"id"`
			Children []struct {
				ID string `json:"id"`
			} `json:"children"`
		} `json:"root"`
		Units int `json:"units"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &tree); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tree.Root == nil || tree.Root.ID != "A" || len(tree.Root.Children) != 1 {
		t.Fatalf("unexpected tree %s", rec.Body.String())
	}
	if tree.Units != 2 {
		t.Fatalf("units = %d, want 2", tree.Units)
	}
}

func TestOrganigramByDate(t *testing.T) {
	h := newTestHandler(t)
	rec := get(t, h, "/ris-synergy/v1/orgUnits/organigram/2021-06-01")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"asOf"`) {
		t.Fatalf("expected asOf in body %s", rec.Body.String())
	}
}

func TestOrganigramRejectsMalformedDate(t *testing.T) {
	h := newTestHandler(t)
	for _, path := range []string{
		"/ris-synergy/v1/orgUnits/organigram/21-06-01",
		"/ris-synergy/v1/orgUnits/organigram/2021-6-1",
		"/ris-synergy/v1/orgUnits/organigram?date=junk",
	} {
		if rec := get(t, h, path); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", path, rec.Code)
		}
	}
}

func TestOrganigramEmptySnapshotIsNotFound(t *testing.T) {
	service := core.NewService(&stubStore{})
	h := NewHandler(service, testCatalog(t), "https://research.example.org")
	if rec := get(t, h, "/ris-synergy/v1/orgUnits/organigram"); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestOrganigramStructuralErrorIsServerFault(t *testing.T) {
	store := &stubStore{units: []domain.OrgUnit{
		{ID: "A", PartOf: testutil.StrPtr("B"), StartDate: testutil.Date(2020, 1, 1)},
		{ID: "B", PartOf: testutil.StrPtr("A"), StartDate: testutil.Date(2020, 1, 1)},
	}}
	h := NewHandler(core.NewService(store), testCatalog(t), "https://research.example.org")
	rec := get(t, h, "/ris-synergy/v1/orgUnits/organigram")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var payload struct {
		Kind string   `json:"kind"`
		IDs  []string `json:"ids"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Kind != string(domain.StructuralCycle) || len(payload.IDs) == 0 {
		t.Fatalf("unexpected payload %s", rec.Body.String())
	}
}

func TestOrgUnitByID(t *testing.T) {
	h := newTestHandler(t)
	rec := get(t, h, "/ris-synergy/v1/orgUnits/B")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"id":"B"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if rec := get(t, h, "/ris-synergy/v1/orgUnits/missing"); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestFundingsFilter(t *testing.T) {
	h := newTestHandler(t)
	rec := get(t, h, "/ris-synergy/v1/fundings?fundingType=GRANT")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var records []domain.FundingRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 1 || records[0].ID != "F1" {
		t.Fatalf("unexpected records %+v", records)
	}
}

func TestFundingsEmptyResultIsJSONArray(t *testing.T) {
	h := newTestHandler(t)
	rec := get(t, h, "/ris-synergy/v1/fundings?funderId=nobody")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("body = %q, want []", rec.Body.String())
	}
}

func TestFundingsRejectsBadRunningCalls(t *testing.T) {
	h := newTestHandler(t)
	if rec := get(t, h, "/ris-synergy/v1/fundings?runningCalls=maybe"); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestFundingByID(t *testing.T) {
	h := newTestHandler(t)
	if rec := get(t, h, "/ris-synergy/v1/fundings/F2"); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec := get(t, h, "/ris-synergy/v1/fundings/missing"); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestProjectsEndpoints(t *testing.T) {
	h := newTestHandler(t)
	if rec := get(t, h, "/ris-synergy/v1/projects"); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec := get(t, h, "/ris-synergy/v1/projects/P1"); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec := get(t, h, "/ris-synergy/v1/projects/missing"); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestInfoEndpoint(t *testing.T) {
	h := newTestHandler(t)
	rec := get(t, h, "/ris-synergy/v1/info")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "https://research.example.org/ris-synergy/v1/orgUnits/organigram") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestSchemaEndpointResolvesPlaceholder(t *testing.T) {
	h := newTestHandler(t)
	rec := get(t, h, "/ris-synergy/v1/orgUnits/organigram/schema")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if strings.Contains(body, "{{SERVER_URL}}") {
		t.Fatalf("placeholder not substituted: %s", body)
	}
	if !strings.Contains(body, "https://research.example.org") {
		t.Fatalf("server url missing: %s", body)
	}
}

func TestMergedDocumentEndpoints(t *testing.T) {
	h := newTestHandler(t)

	rec := get(t, h, "/ris-synergy/openapi.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var doc map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	paths, _ := doc["paths"].(map[string]any)
	if len(paths) != 2 {
		t.Fatalf("paths = %v", paths)
	}

	rec = get(t, h, "/ris-synergy/openapi.yaml")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/yaml" {
		t.Fatalf("content type = %q", got)
	}
}

func TestMergedDocumentRequiresServerURL(t *testing.T) {
	h := NewHandler(core.NewService(testStore()), testCatalog(t), "")
	if rec := get(t, h, "/ris-synergy/openapi.json"); rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestOnlyGetIsAllowed(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/ris-synergy/v1/projects", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
