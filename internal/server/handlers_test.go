package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/kensho/internal/config"
	"github.com/hyperjump/kensho/internal/factcheck"
	"github.com/hyperjump/kensho/internal/graph"
	"github.com/hyperjump/kensho/internal/models"
	"github.com/hyperjump/kensho/internal/signals"
	"github.com/hyperjump/kensho/internal/timeline"
	"github.com/hyperjump/kensho/internal/verify"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	logger := zap.NewNop()
	ctx := context.Background()

	g, err := graph.NewGraph(ctx, nil, cfg.Graph, logger)
	if err != nil {
		t.Fatal(err)
	}
	detector, err := timeline.DetectorFromConfig(cfg.Policy, cfg.Timeline)
	if err != nil {
		t.Fatal(err)
	}
	tl, err := timeline.NewTimeline(ctx, nil, cfg.Timeline, detector, logger)
	if err != nil {
		t.Fatal(err)
	}
	verdicts, err := factcheck.NewIndex(filepath.Join(t.TempDir(), "verdicts.bleve"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { verdicts.Close() })

	// No fetcher: collectors run on local policy only, so results are
	// deterministic.
	collectors := []signals.Collector{
		signals.NewOfficialSource(cfg.Policy, nil, logger),
		signals.NewFactChecker(cfg.Policy, verdicts, nil, logger),
		signals.NewCredibility(cfg.Policy),
		signals.NewTemporal(),
		signals.NewImage(cfg.Policy),
	}
	engine := verify.NewEngine(cfg.Verify, cfg.Cache, collectors, nil, logger)

	return NewServer(engine, g, tl, verdicts, &cfg.Server, logger)
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestHandleVerify(t *testing.T) {
	srv := newTestServer(t)
	routes := srv.routes()

	rec := doJSON(t, routes, http.MethodPost, "/api/v1/verify", map[string]string{
		"title":   "Reserve bank announces rate decision",
		"content": "The central bank held rates steady on Friday.",
		"source":  "Reuters",
		"url":     "https://reuters.example/a",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var v models.ArticleVerification
	decode(t, rec, &v)
	if len(v.Checks) != 5 {
		t.Errorf("expected 5 checks, got %d", len(v.Checks))
	}
	if v.OverallScore <= 0 || v.OverallScore > 1 {
		t.Errorf("score out of range: %v", v.OverallScore)
	}
	if v.ArticleID == "" {
		t.Error("article id missing")
	}
}

func TestHandleVerifyRejectsEmpty(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv.routes(), http.MethodPost, "/api/v1/verify", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleCitationsAndGraph(t *testing.T) {
	srv := newTestServer(t)
	routes := srv.routes()

	rec := doJSON(t, routes, http.MethodPost, "/api/v1/citations", map[string]string{
		"citing": "a-site.com", "cited": "b-site.com", "article_url": "https://a-site.com/1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	doJSON(t, routes, http.MethodPost, "/api/v1/citations", map[string]string{
		"citing": "b-site.com", "cited": "a-site.com",
	})

	rec = doJSON(t, routes, http.MethodGet, "/api/v1/sources/a-site.com/trust", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var trust struct {
		Source     string  `json:"source"`
		TrustScore float64 `json:"trust_score"`
	}
	decode(t, rec, &trust)
	if trust.TrustScore < 0 || trust.TrustScore > 1 {
		t.Errorf("trust score out of range: %v", trust.TrustScore)
	}

	rec = doJSON(t, routes, http.MethodGet, "/api/v1/sources/a-site.com/circular", nil)
	var report models.CircularReport
	decode(t, rec, &report)
	if !report.Circular {
		t.Errorf("a-site.com and b-site.com cite each other: %+v", report)
	}

	rec = doJSON(t, routes, http.MethodGet, "/api/v1/sources/a-site.com/network?depth=1", nil)
	var network models.CitationNetwork
	decode(t, rec, &network)
	if len(network.Nodes) != 2 {
		t.Errorf("expected 2 nodes, got %+v", network.Nodes)
	}
}

func TestHandleNetworkRejectsBadDepth(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv.routes(), http.MethodGet, "/api/v1/sources/x.com/network?depth=zero", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleEchoChambers(t *testing.T) {
	srv := newTestServer(t)
	routes := srv.routes()

	for _, pair := range [][2]string{{"x.com", "y.com"}, {"y.com", "z.com"}, {"z.com", "x.com"}} {
		doJSON(t, routes, http.MethodPost, "/api/v1/citations", map[string]string{
			"citing": pair[0], "cited": pair[1],
		})
	}

	rec := doJSON(t, routes, http.MethodGet, "/api/v1/echo-chambers", nil)
	var resp struct {
		EchoChambers [][]string `json:"echo_chambers"`
		Count        int        `json:"count"`
	}
	decode(t, rec, &resp)
	if resp.Count != 1 || len(resp.EchoChambers[0]) != 3 {
		t.Errorf("expected one triangle chamber, got %+v", resp)
	}
}

func TestHandleClaims(t *testing.T) {
	srv := newTestServer(t)
	routes := srv.routes()

	rec := doJSON(t, routes, http.MethodPost, "/api/v1/claims", map[string]string{
		"text": "Minister will approve the bill", "source": "news.example",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	rec = doJSON(t, routes, http.MethodPost, "/api/v1/claims", map[string]string{
		"text": "Minister will reject the bill", "source": "news.example",
	})
	var claim models.Claim
	decode(t, rec, &claim)
	if len(claim.Contradictions) == 0 {
		t.Error("second claim should contradict the first")
	}

	rec = doJSON(t, routes, http.MethodGet, "/api/v1/sources/news.example/timeline", nil)
	var tlResp struct {
		Claims []*models.Claim `json:"claims"`
		Count  int             `json:"count"`
	}
	decode(t, rec, &tlResp)
	if tlResp.Count != 2 {
		t.Errorf("expected 2 claims, got %d", tlResp.Count)
	}

	rec = doJSON(t, routes, http.MethodGet, "/api/v1/sources/news.example/narrative-shift?days=7", nil)
	var shift models.NarrativeShiftReport
	decode(t, rec, &shift)
	if !shift.ShiftDetected {
		t.Errorf("expected a narrative shift: %+v", shift)
	}
}

func TestHandleClaimsRejectsMissingFields(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv.routes(), http.MethodPost, "/api/v1/claims", map[string]string{"text": "no source"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleFlagged(t *testing.T) {
	srv := newTestServer(t)
	routes := srv.routes()

	// An unreliable source with a stock image scores low enough to flag.
	for i := 0; i < 3; i++ {
		rec := doJSON(t, routes, http.MethodPost, "/api/v1/verify", map[string]string{
			"title":     fmt.Sprintf("Shocking revelation number %d", i),
			"source":    "opindia",
			"url":       "http://opindia.example/a",
			"image_url": "https://www.shutterstock.com/img.jpg",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("verify failed: %d", rec.Code)
		}
	}

	rec := doJSON(t, routes, http.MethodGet, "/api/v1/flagged?limit=2", nil)
	var flagged struct {
		Flagged []*models.FlaggedEntry `json:"flagged"`
		Count   int                    `json:"count"`
	}
	decode(t, rec, &flagged)
	if flagged.Count != 2 {
		t.Fatalf("expected 2 entries with limit=2, got %d", flagged.Count)
	}

	rec = doJSON(t, routes, http.MethodGet, "/api/v1/flagged/stats", nil)
	var stats models.FlaggedStats
	decode(t, rec, &stats)
	if stats.TotalFlagged != 3 {
		t.Errorf("expected 3 flagged total, got %d", stats.TotalFlagged)
	}
	if len(stats.CommonReasons) == 0 {
		t.Error("expected common reasons")
	}
}

func TestHandleVerdicts(t *testing.T) {
	srv := newTestServer(t)
	routes := srv.routes()

	rec := doJSON(t, routes, http.MethodPost, "/api/v1/factcheck/verdicts", map[string]string{
		"title": "Viral video shows flooded airport", "verdict": "false", "site": "altnews.in",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, routes, http.MethodPost, "/api/v1/factcheck/verdicts", map[string]string{"title": "missing verdict"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleHealthAndStatus(t *testing.T) {
	srv := newTestServer(t)
	routes := srv.routes()

	rec := doJSON(t, routes, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, routes, http.MethodGet, "/api/v1/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var status map[string]interface{}
	decode(t, rec, &status)
	for _, key := range []string{"sources", "citation_edges", "claims", "flagged", "verdicts"} {
		if _, ok := status[key]; !ok {
			t.Errorf("status missing %q: %v", key, status)
		}
	}
}
