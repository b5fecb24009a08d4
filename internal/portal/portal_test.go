package portal_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"vidcat/internal/assets"
	"vidcat/internal/config"
	"vidcat/internal/issues"
	"vidcat/internal/logging"
	"vidcat/internal/portal"
	"vidcat/internal/services"
	"vidcat/internal/testsupport"
)

type stubSource struct {
	mu   sync.Mutex
	text string
	err  error
}

func (s *stubSource) Fetch(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text, s.err
}

func (s *stubSource) Location() string { return "stub://catalog" }

func (s *stubSource) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

type stubIssues struct {
	mu          sync.Mutex
	submissions []issues.Submission
}

func (s *stubIssues) Submit(_ context.Context, sub issues.Submission) (issues.Issue, error) {
	if err := sub.Validate(); err != nil {
		return issues.Issue{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = append(s.submissions, sub)
	return issues.Issue{Number: len(s.submissions), URL: "https://tracker.test/1", Title: sub.AssetTitle}, nil
}

func (s *stubIssues) Enabled() bool { return true }

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newPortal(t *testing.T, cfg *config.Config, opts ...portal.Option) *portal.Portal {
	t.Helper()
	st := testsupport.MustOpenStore(t, cfg)
	opts = append([]portal.Option{portal.WithClock(func() time.Time { return fixedNow })}, opts...)
	p, err := portal.New(cfg, st, logging.NewNop(), opts...)
	if err != nil {
		t.Fatalf("portal.New: %v", err)
	}
	t.Cleanup(func() {
		p.Close()
	})
	return p
}

func loadedPortal(t *testing.T, cfg *config.Config, opts ...portal.Option) (*portal.Portal, *stubSource) {
	t.Helper()
	src := &stubSource{text: testsupport.SampleCSV}
	p := newPortal(t, cfg, append([]portal.Option{portal.WithSource(src)}, opts...)...)
	if _, err := p.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	return p, src
}

func serve(t *testing.T, h http.Handler, method, target string, body io.Reader, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func TestPortalStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteSampleCSV(t, cfg.Source.CSVPath)
	p := newPortal(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := p.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	resp, err := http.Get("http://" + p.Address() + "/api/catalog")
	if err != nil {
		t.Fatalf("GET catalog: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", resp.StatusCode)
	}
	var cat assets.Catalog
	if err := json.NewDecoder(resp.Body).Decode(&cat); err != nil {
		t.Fatalf("decode catalog: %v", err)
	}
	if len(cat.Assets) != 3 || cat.Metadata.TotalAssets != 3 {
		t.Fatalf("expected 3 assets, got %d (metadata %d)", len(cat.Assets), cat.Metadata.TotalAssets)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected a request id header")
	}

	if status := p.Status(); !status.Running || status.Assets != 3 || status.LastError != "" {
		t.Fatalf("unexpected status: %+v", status)
	}
	p.Stop()
	if p.Status().Running {
		t.Fatal("expected portal to be stopped")
	}
}

func TestSecondPortalIsLockedOut(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, _ := loadedPortal(t, cfg)
	second, _ := loadedPortal(t, cfg)

	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	err := second.Start(ctx)
	if err == nil || !strings.Contains(err.Error(), "already running") {
		t.Fatalf("expected lock error, got %v", err)
	}
}

func TestAssetsEndpointFilters(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	p, _ := loadedPortal(t, cfg)
	h := p.Handler()

	w := serve(t, h, http.MethodGet, "/api/assets?codec=hevc", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	resp := decode[portal.AssetsResponse](t, w)
	if resp.Total != 1 || len(resp.Assets) != 1 || resp.Assets[0].Host != "cdn.example.org" {
		t.Fatalf("unexpected hevc result: %+v", resp)
	}
	if resp.ActiveFilterCount != 1 || len(resp.ActiveFilterLabels) != 1 || resp.ActiveFilterLabels[0] != "HEVC" {
		t.Fatalf("unexpected active filters: %d %v", resp.ActiveFilterCount, resp.ActiveFilterLabels)
	}

	resp = decode[portal.AssetsResponse](t, serve(t, h, http.MethodGet, "/api/assets?q=protocol:hls", nil))
	if resp.Total != 1 || resp.Assets[0].Host != "example.com" {
		t.Fatalf("unexpected query result: %+v", resp)
	}

	resp = decode[portal.AssetsResponse](t, serve(t, h, http.MethodGet, "/api/assets?sort=resolution&order=desc&limit=2", nil))
	if resp.Total != 3 || len(resp.Assets) != 2 || resp.Assets[0].ResolutionLabel() != "4K" {
		t.Fatalf("unexpected sorted result: total=%d len=%d", resp.Total, len(resp.Assets))
	}

	if w := serve(t, h, http.MethodGet, "/api/assets?sort=size", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown sort, got %d", w.Code)
	}
	if w := serve(t, h, http.MethodGet, "/api/assets?limit=-1", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative limit, got %d", w.Code)
	}
}

func TestAdvancedQueriesAreRecordedInHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	p, _ := loadedPortal(t, cfg)
	h := p.Handler()

	serve(t, h, http.MethodGet, "/api/assets?q=protocol:hls", nil)
	serve(t, h, http.MethodGet, "/api/assets?search=live", nil)

	w := serve(t, h, http.MethodGet, "/api/history", nil)
	history := decode[[]string](t, w)
	if len(history) != 1 || history[0] != "protocol:hls" {
		t.Fatalf("unexpected history: %v", history)
	}
}

func TestAssetEndpoint(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	p, _ := loadedPortal(t, cfg)
	h := p.Handler()
	id := p.Catalog().Assets[0].ID

	w := serve(t, h, http.MethodGet, "/api/assets/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var got struct {
		Asset assets.Asset `json:"asset"`
		Score struct {
			Overall int    `json:"overall"`
			Grade   string `json:"grade"`
		} `json:"qualityScore"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Asset.ID != id || got.Score.Overall <= 0 || got.Score.Grade == "" {
		t.Fatalf("unexpected asset payload: %+v", got)
	}

	if w := serve(t, h, http.MethodGet, "/api/assets/0000000000000000", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestFacetsMetadataAndRecommendations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	p, _ := loadedPortal(t, cfg)
	h := p.Handler()

	facets := decode[assets.FacetCounts](t, serve(t, h, http.MethodGet, "/api/facets", nil))
	if facets.Total(assets.FacetHDR) != 3 {
		t.Fatalf("hdr facet should sum to asset count, got %d", facets.Total(assets.FacetHDR))
	}
	values := decode[[]assets.FacetValue](t, serve(t, h, http.MethodGet, "/api/facets?facet=protocol", nil))
	if len(values) != 3 {
		t.Fatalf("expected 3 protocol values, got %v", values)
	}
	if w := serve(t, h, http.MethodGet, "/api/facets?facet=bitrate", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown facet, got %d", w.Code)
	}

	meta := decode[assets.Metadata](t, serve(t, h, http.MethodGet, "/api/metadata", nil))
	if meta.TotalAssets != 3 || meta.SourceURL != "stub://catalog" || !meta.BuildTimestamp.Equal(fixedNow) {
		t.Fatalf("unexpected metadata: %+v", meta)
	}

	recs := decode[portal.RecommendationsResponse](t, serve(t, h, http.MethodGet, "/api/recommendations?limit=2", nil))
	if len(recs.Recommendations) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs.Recommendations))
	}
	if recs.Recommendations[0].Score.Overall < recs.Recommendations[1].Score.Overall {
		t.Fatal("recommendations should be best first")
	}
	total := 0
	for _, n := range recs.Distribution {
		total += n
	}
	if total != 3 {
		t.Fatalf("distribution should cover every asset, got %d", total)
	}
}

func TestExportEndpoint(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	p, _ := loadedPortal(t, cfg)
	h := p.Handler()

	w := serve(t, h, http.MethodGet, "/api/export?format=csv&codec=hevc", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "video-assets-2024-05-01.csv") {
		t.Fatalf("unexpected content disposition %q", cd)
	}
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[1], "cdn.example.org") {
		t.Fatalf("expected header plus one row, got %q", w.Body.String())
	}

	if w := serve(t, h, http.MethodGet, "/api/export?format=pdf", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown format, got %d", w.Code)
	}
	if w := serve(t, h, http.MethodGet, "/api/export?format=json&fields=bitrate", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", w.Code)
	}
}

func TestCatalogUnavailableUntilFirstLoad(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	p := newPortal(t, cfg)

	_, err := p.Reload(context.Background())
	if err == nil {
		t.Fatal("expected reload of a missing file to fail")
	}
	w := serve(t, p.Handler(), http.MethodGet, "/api/catalog", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	body := decode[map[string]any](t, w)
	if body["retryable"] != true || !strings.Contains(body["error"].(string), "not found") {
		t.Fatalf("unexpected unavailable payload: %v", body)
	}

	testsupport.WriteSampleCSV(t, cfg.Source.CSVPath)
	if _, err := p.Reload(context.Background()); err != nil {
		t.Fatalf("Reload after fix: %v", err)
	}
	if w := serve(t, p.Handler(), http.MethodGet, "/api/catalog", nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200 after reload, got %d", w.Code)
	}
}

func TestFailedReloadKeepsPreviousCatalog(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	p, src := loadedPortal(t, cfg)
	src.fail(services.Wrap(services.ErrTransient, "source", "fetch", "HTTP 500: Internal Server Error", nil))

	w := serve(t, p.Handler(), http.MethodPost, "/api/reload", nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if p.Catalog().Len() != 3 {
		t.Fatalf("previous catalog should stay in service, got %d assets", p.Catalog().Len())
	}
	status := decode[portal.Status](t, serve(t, p.Handler(), http.MethodGet, "/api/status", nil))
	if status.Assets != 3 || !strings.Contains(status.LastError, "HTTP 500") {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestReloadRequiresToken(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithAPIToken("secret"))
	p, _ := loadedPortal(t, cfg)
	h := p.Handler()

	if w := serve(t, h, http.MethodPost, "/api/reload", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
	if w := serve(t, h, http.MethodPost, "/api/reload", nil, "Authorization", "Bearer wrong"); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", w.Code)
	}
	w := serve(t, h, http.MethodPost, "/api/reload", nil, "Authorization", "Bearer secret")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", w.Code, w.Body.String())
	}
	resp := decode[portal.ReloadResponse](t, w)
	if resp.BuildStats.Assets != 3 || resp.BuildStats.Duplicates != 1 || resp.BuildStats.Skipped != 1 {
		t.Fatalf("unexpected build stats: %+v", resp.BuildStats)
	}
	if w := serve(t, h, http.MethodGet, "/api/catalog", nil); w.Code != http.StatusOK {
		t.Fatalf("reads should not require a token, got %d", w.Code)
	}
}

func TestIssueSubmission(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	disabled, _ := loadedPortal(t, cfg)
	body := `{"kind":"broken","assetUrl":"https://example.com/a.mp4","assetTitle":"A","description":"404"}`
	if w := serve(t, disabled.Handler(), http.MethodPost, "/api/issues", strings.NewReader(body)); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when issue filing is disabled, got %d", w.Code)
	}

	cfg = testsupport.NewConfig(t)
	cfg.Portal.IssueRateLimit = 2
	tracker := &stubIssues{}
	p, _ := loadedPortal(t, cfg, portal.WithIssueService(tracker))
	h := p.Handler()

	w := serve(t, h, http.MethodPost, "/api/issues", strings.NewReader(body))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	issue := decode[issues.Issue](t, w)
	if issue.Number != 1 || issue.Title != "A" {
		t.Fatalf("unexpected issue: %+v", issue)
	}

	invalid := `{"kind":"broken","assetUrl":"https://example.com/a.mp4"}`
	if w := serve(t, h, http.MethodPost, "/api/issues", strings.NewReader(invalid)); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", w.Code)
	}
	if w := serve(t, h, http.MethodPost, "/api/issues", strings.NewReader(body)); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after the rate limit, got %d", w.Code)
	}
}

func TestSavedSearchEndpoints(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	p, _ := loadedPortal(t, cfg)
	h := p.Handler()

	w := serve(t, h, http.MethodPost, "/api/searches", strings.NewReader(`{"name":"HEVC","query":"codec:hevc"}`))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var saved struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &saved); err != nil || saved.ID == "" {
		t.Fatalf("decode saved search: %v %q", err, w.Body.String())
	}
	list := decode[[]map[string]any](t, serve(t, h, http.MethodGet, "/api/searches", nil))
	if len(list) != 1 || list[0]["query"] != "codec:hevc" {
		t.Fatalf("unexpected saved searches: %v", list)
	}
	if w := serve(t, h, http.MethodDelete, "/api/searches/"+saved.ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if w := serve(t, h, http.MethodDelete, "/api/searches/"+saved.ID, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", w.Code)
	}
	if w := serve(t, h, http.MethodPost, "/api/searches", strings.NewReader(`{"name":" ","query":"x"}`)); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank name, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	p, _ := loadedPortal(t, cfg)
	h := p.Handler()
	serve(t, h, http.MethodGet, "/api/assets/abc", nil)

	w := serve(t, h, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	text := w.Body.String()
	for _, want := range []string{
		"vidcat_catalog_assets 3",
		`vidcat_catalog_builds_total{outcome="success"} 1`,
		"vidcat_catalog_skipped_rows_total 1",
		`vidcat_http_requests_total{method="GET",route="/api/assets/{id}",status="404"} 1`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("metrics missing %q", want)
		}
	}
}

func TestStartServesPersistedCatalogWhenSourceFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.MustStoreCatalog(t, st, testsupport.SampleCSV)

	p := newPortal(t, cfg)
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if p.Catalog().Len() != 3 {
		t.Fatalf("expected persisted catalog, got %d assets", p.Catalog().Len())
	}
	if p.LastError() == nil {
		t.Fatal("initial load error should stay visible")
	}
	if w := serve(t, p.Handler(), http.MethodGet, "/api/catalog", nil); w.Code != http.StatusOK {
		t.Fatalf("expected persisted catalog to be served, got %d", w.Code)
	}
}
