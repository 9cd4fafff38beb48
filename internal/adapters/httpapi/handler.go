// Package httpapi exposes the research metadata read API over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"riscore/internal/core"
	"riscore/internal/docsource"
	"riscore/internal/openapi"
	"riscore/pkg/domain"
)

const apiPrefix = "/ris-synergy/v1"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Handler provides HTTP access to the organigram, funding, project and
// OpenAPI document endpoints.
type Handler struct {
	Service   *core.Service
	Catalog   *docsource.Catalog
	ServerURL string
	Verifier  TokenVerifier

	logger *zap.Logger
}

// NewHandler constructs the API handler. A nil logger falls back to a
// no-op logger.
func NewHandler(service *core.Service, catalog *docsource.Catalog, serverURL string, opts ...HandlerOption) *Handler {
	h := &Handler{Service: service, Catalog: catalog, ServerURL: serverURL, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandlerOption customises handler construction.
type HandlerOption func(*Handler)

// WithLogger attaches a structured logger for request-scoped diagnostics.
func WithLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithTokenVerifier protects the organigram and org unit endpoints with
// bearer-token authentication.
func WithTokenVerifier(v TokenVerifier) HandlerOption {
	return func(h *Handler) { h.Verifier = v }
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		writeError(w, http.StatusInternalServerError, "service not configured")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case path == "/ris-synergy/openapi.json" || path == "/ris-synergy/openapi.yaml":
		h.handleMergedDocument(w, r, strings.HasSuffix(path, ".yaml"))
	case path == apiPrefix+"/info":
		h.handleInfo(w, r)
	case path == apiPrefix+"/info/schema":
		h.handleSchema(w, r, "info")
	case path == apiPrefix+"/orgUnits/organigram/schema":
		h.handleSchema(w, r, "org-unit")
	case path == apiPrefix+"/orgUnits/organigram":
		h.handleOrganigram(w, r, r.URL.Query().Get("date"))
	case strings.HasPrefix(path, apiPrefix+"/orgUnits/organigram/"):
		h.handleOrganigram(w, r, strings.TrimPrefix(path, apiPrefix+"/orgUnits/organigram/"))
	case strings.HasPrefix(path, apiPrefix+"/orgUnits/"):
		h.handleOrgUnit(w, r, strings.TrimPrefix(path, apiPrefix+"/orgUnits/"))
	case path == apiPrefix+"/fundings/schema":
		h.handleSchema(w, r, "funding")
	case path == apiPrefix+"/fundings":
		h.handleFundings(w, r)
	case strings.HasPrefix(path, apiPrefix+"/fundings/"):
		h.handleFunding(w, r, strings.TrimPrefix(path, apiPrefix+"/fundings/"))
	case path == apiPrefix+"/projects/schema":
		h.handleSchema(w, r, "project")
	case path == apiPrefix+"/projects":
		h.handleProjects(w, r)
	case strings.HasPrefix(path, apiPrefix+"/projects/"):
		h.handleProject(w, r, strings.TrimPrefix(path, apiPrefix+"/projects/"))
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handleOrganigram(w http.ResponseWriter, r *http.Request, date string) {
	if !h.authorize(w, r) {
		return
	}
	var asOf *time.Time
	if date != "" {
		if !datePattern.MatchString(date) {
			writeError(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
			return
		}
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
			return
		}
		asOf = &parsed
	}
	tree, err := h.Service.Organigram(r.Context(), asOf)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if tree.Root == nil {
		writeError(w, http.StatusNotFound, "no organigram data available")
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (h *Handler) handleOrgUnit(w http.ResponseWriter, r *http.Request, id string) {
	if !h.authorize(w, r) {
		return
	}
	if id == "" {
		http.NotFound(w, r)
		return
	}
	unit, err := h.Service.OrgUnit(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, unit)
}

func (h *Handler) handleFundings(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	records, err := h.Service.FundingRecords(r.Context(), criteria)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if records == nil {
		records = []domain.FundingRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) handleFunding(w http.ResponseWriter, r *http.Request, id string) {
	record, err := h.Service.FundingRecord(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) handleProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Service.Projects(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *Handler) handleProject(w http.ResponseWriter, r *http.Request, id string) {
	project, err := h.Service.Project(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *Handler) handleInfo(w http.ResponseWriter, _ *http.Request) {
	type endpoint struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	base := strings.TrimSuffix(h.ServerURL, "/")
	endpoints := []endpoint{
		{Name: "organigram", URL: base + apiPrefix + "/orgUnits/organigram"},
		{Name: "fundings", URL: base + apiPrefix + "/fundings"},
		{Name: "projects", URL: base + apiPrefix + "/projects"},
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"service":   "riscore",
		"version":   "1.0",
		"endpoints": endpoints,
	})
}

func (h *Handler) handleSchema(w http.ResponseWriter, r *http.Request, tag string) {
	if h.Catalog == nil {
		writeError(w, http.StatusInternalServerError, "document catalog not configured")
		return
	}
	doc, err := h.Catalog.Document(tag)
	if err != nil {
		writeError(w, http.StatusNotFound, "schema not available")
		return
	}
	resolved, err := doc.Resolved(h.ServerURL)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	data, err := resolved.EncodeJSON()
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) handleMergedDocument(w http.ResponseWriter, r *http.Request, asYAML bool) {
	if h.Catalog == nil {
		writeError(w, http.StatusInternalServerError, "document catalog not configured")
		return
	}
	merged, err := openapi.Merge(h.Catalog.Documents(), h.ServerURL)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if asYAML {
		data, err := merged.EncodeYAML()
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}
	data, err := merged.EncodeJSON()
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// writeServiceError maps domain errors onto HTTP statuses. Structural
// snapshot defects and configuration gaps are server faults, unknown ids
// are not found.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound domain.ErrNotFound
	if errors.As(err, &notFound) {
		writeError(w, http.StatusNotFound, notFound.Error())
		return
	}
	var structural domain.StructuralError
	if errors.As(err, &structural) {
		h.logger.Error("snapshot invalid",
			zap.String("path", r.URL.Path),
			zap.String("kind", string(structural.Kind)),
			zap.Strings("ids", structural.IDs))
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "organisation snapshot invalid",
			"kind":  string(structural.Kind),
			"ids":   structural.IDs,
		})
		return
	}
	var config domain.ConfigError
	if errors.As(err, &config) {
		h.logger.Error("configuration error", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, config.Error())
		return
	}
	var schema domain.SchemaError
	if errors.As(err, &schema) {
		h.logger.Error("schema conflict", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, schema.Error())
		return
	}
	h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func criteriaFromQuery(r *http.Request) (domain.FilterCriteria, error) {
	var criteria domain.FilterCriteria
	q := r.URL.Query()
	if v := q.Get("fundingType"); v != "" {
		t := domain.FundingType(v)
		criteria.FundingType = &t
	}
	if v := q.Get("targetGroup"); v != "" {
		g := domain.TargetGroup(v)
		criteria.TargetGroup = &g
	}
	if v := q.Get("runningCalls"); v != "" {
		switch v {
		case "true":
			running := true
			criteria.RunningCalls = &running
		case "false":
			running := false
			criteria.RunningCalls = &running
		default:
			return criteria, errors.New("runningCalls must be true or false")
		}
	}
	if v := q.Get("region"); v != "" {
		region := domain.Region(v)
		criteria.Region = &region
	}
	if v := q.Get("applicantsScope"); v != "" {
		scope := domain.ApplicantsScope(v)
		criteria.ApplicantsScope = &scope
	}
	if v := q.Get("funderId"); v != "" {
		funder := v
		criteria.FunderID = &funder
	}
	return criteria, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
