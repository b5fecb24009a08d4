package portal

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"vidcat/internal/assets"
	"vidcat/internal/catalog"
	"vidcat/internal/export"
	"vidcat/internal/filter"
	"vidcat/internal/issues"
	"vidcat/internal/logging"
	"vidcat/internal/quality"
	"vidcat/internal/services"
)

const maxRequestBody = 64 << 10

// AssetsResponse is the payload of GET /api/assets.
type AssetsResponse struct {
	Assets             []assets.Asset `json:"assets"`
	Total              int            `json:"total"`
	ActiveFilterCount  int            `json:"activeFilterCount"`
	ActiveFilterLabels []string       `json:"activeFilterLabels"`
}

// RecommendationsResponse is the payload of GET /api/recommendations.
type RecommendationsResponse struct {
	Recommendations []quality.Scored     `json:"recommendations"`
	Distribution    quality.Distribution `json:"distribution"`
}

// ReloadResponse is the payload of a successful POST /api/reload.
type ReloadResponse struct {
	Status     string             `json:"status"`
	BuildStats catalog.BuildStats `json:"buildStats"`
	Metadata   assets.Metadata    `json:"metadata"`
}

// currentCatalog returns the served catalog or writes the unavailable state.
func (s *apiServer) currentCatalog(w http.ResponseWriter) *assets.Catalog {
	cat := s.portal.Catalog()
	if cat != nil {
		return cat
	}
	message := "catalog not loaded"
	if err := s.portal.LastError(); err != nil {
		message = err.Error()
	}
	s.writeJSON(w, http.StatusServiceUnavailable, map[string]any{
		"error":     message,
		"retryable": true,
	})
	return nil
}

func (s *apiServer) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	cat := s.currentCatalog(w)
	if cat == nil {
		return
	}
	s.writeJSON(w, http.StatusOK, cat)
}

func (s *apiServer) handleAssets(w http.ResponseWriter, r *http.Request) {
	cat := s.currentCatalog(w)
	if cat == nil {
		return
	}
	criteria, err := criteriaFromRequest(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	matched, total := criteria.Run(cat.Assets)
	if criteria.Query != "" {
		if err := s.portal.store.AddHistory(r.Context(), criteria.Query); err != nil {
			logging.WithContext(r.Context(), s.log()).Warn("search history not recorded", logging.Error(err))
		}
	}
	s.writeJSON(w, http.StatusOK, AssetsResponse{
		Assets:             matched,
		Total:              total,
		ActiveFilterCount:  filter.ActiveFilterCount(criteria.State),
		ActiveFilterLabels: filter.ActiveFilterLabels(criteria.State),
	})
}

func (s *apiServer) handleAsset(w http.ResponseWriter, r *http.Request) {
	cat := s.currentCatalog(w)
	if cat == nil {
		return
	}
	id := chi.URLParam(r, "id")
	asset, ok := cat.Find(id)
	if !ok {
		logging.WithContext(services.WithAssetID(r.Context(), id), s.log()).Debug("asset lookup missed")
		s.writeError(w, http.StatusNotFound, "asset not found")
		return
	}
	s.writeJSON(w, http.StatusOK, quality.Scored{Asset: asset, Score: quality.Score(asset)})
}

func (s *apiServer) handleFacets(w http.ResponseWriter, r *http.Request) {
	cat := s.currentCatalog(w)
	if cat == nil {
		return
	}
	name := strings.TrimSpace(r.URL.Query().Get("facet"))
	if name == "" {
		s.writeJSON(w, http.StatusOK, cat.FacetCounts)
		return
	}
	f, ok := assets.ParseFacet(strings.ToLower(name))
	if !ok {
		s.writeError(w, http.StatusBadRequest, "unknown facet "+strconv.Quote(name))
		return
	}
	values := cat.FacetCounts[f]
	if values == nil {
		values = []assets.FacetValue{}
	}
	s.writeJSON(w, http.StatusOK, values)
}

func (s *apiServer) handleMetadata(w http.ResponseWriter, _ *http.Request) {
	cat := s.currentCatalog(w)
	if cat == nil {
		return
	}
	s.writeJSON(w, http.StatusOK, cat.Metadata)
}

func (s *apiServer) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	cat := s.currentCatalog(w)
	if cat == nil {
		return
	}
	limit, err := intParam(r, "limit")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, RecommendationsResponse{
		Recommendations: quality.Recommend(cat.Assets, limit),
		Distribution:    quality.Distribute(cat.Assets),
	})
}

func (s *apiServer) handleExport(w http.ResponseWriter, r *http.Request) {
	cat := s.currentCatalog(w)
	if cat == nil {
		return
	}
	values := r.URL.Query()
	name := values.Get("format")
	if name == "" {
		name = string(export.FormatCSV)
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	criteria, err := criteriaFromRequest(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	opts := export.Options{
		Format:                 format,
		IncludeScores:          boolParam(r, "include_scores"),
		IncludeRecommendations: boolParam(r, "include_recommendations"),
		Fields:                 listParam(values["fields"]),
	}
	matched, _ := criteria.Run(cat.Assets)
	body, err := export.Bytes(matched, opts)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(format, s.portal.now())+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		s.log().Warn("export write failed", logging.Error(err))
	}
}

func (s *apiServer) handleIssues(w http.ResponseWriter, r *http.Request) {
	if !s.portal.issues.Enabled() {
		s.writeError(w, http.StatusServiceUnavailable, "issue reporting is not configured")
		return
	}
	var sub issues.Submission
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&sub); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	kind := "invalid"
	if k, err := issues.ParseKind(string(sub.Kind)); err == nil {
		kind = string(k)
		sub.Kind = k
	}
	issue, err := s.portal.issues.Submit(r.Context(), sub)
	if err != nil {
		s.portal.metrics.issues.WithLabelValues(kind, "failure").Inc()
		s.writeServiceError(w, r, err)
		return
	}
	s.portal.metrics.issues.WithLabelValues(kind, "success").Inc()
	s.writeJSON(w, http.StatusCreated, issue)
}

func (s *apiServer) handleReload(w http.ResponseWriter, r *http.Request) {
	stats, err := s.portal.Reload(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ReloadResponse{
		Status:     "reloaded",
		BuildStats: stats,
		Metadata:   s.portal.Catalog().Metadata,
	})
}

func (s *apiServer) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.portal.Status())
}

func (s *apiServer) handleSearches(w http.ResponseWriter, r *http.Request) {
	list, err := s.portal.store.ListSearches(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *apiServer) handleSaveSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Query string `json:"query"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	saved, err := s.portal.store.SaveSearch(r.Context(), req.Name, req.Query)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, saved)
}

func (s *apiServer) handleDeleteSearch(w http.ResponseWriter, r *http.Request) {
	if err := s.portal.store.DeleteSearch(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *apiServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.portal.store.History(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, history)
}

// criteriaFromRequest reads search, facet selections, q, sort, order, and
// limit. Facet parameters may repeat or carry comma separated values.
func criteriaFromRequest(r *http.Request) (filter.Criteria, error) {
	values := r.URL.Query()
	var c filter.Criteria
	c.State.Search = strings.TrimSpace(values.Get("search"))
	for _, f := range assets.Facets {
		c.State.Select(f, listParam(values[string(f)])...)
	}
	c.Query = strings.TrimSpace(values.Get("q"))

	by, order, err := filter.ParseSort(values.Get("sort"), values.Get("order"))
	if err != nil {
		return c, services.Wrap(services.ErrValidation, "portal", "parse sort", err.Error(), nil)
	}
	c.Sort, c.Order = by, order

	if c.Limit, err = intParam(r, "limit"); err != nil {
		return c, err
	}
	return c, nil
}

func intParam(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, services.Wrap(services.ErrValidation, "portal", "parse "+name, "must be a non-negative integer", nil)
	}
	return n, nil
}

func boolParam(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

func listParam(raw []string) []string {
	var out []string
	for _, v := range raw {
		for part := range strings.SplitSeq(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
