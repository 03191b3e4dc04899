// Package integration provides end-to-end tests (requires real storage and indices).
package integration

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/kensho/internal/cache"
	"github.com/hyperjump/kensho/internal/config"
	"github.com/hyperjump/kensho/internal/factcheck"
	"github.com/hyperjump/kensho/internal/graph"
	"github.com/hyperjump/kensho/internal/models"
	"github.com/hyperjump/kensho/internal/signals"
	"github.com/hyperjump/kensho/internal/storage"
	"github.com/hyperjump/kensho/internal/timeline"
	"github.com/hyperjump/kensho/internal/verify"
)

func TestIntegration_VerifyPipeline(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Storage.DatabasePath = filepath.Join(dir, "kensho.db")
	cfg.Storage.FactIndexPath = filepath.Join(dir, "verdicts.bleve")
	logger := zap.NewNop()
	ctx := context.Background()

	repo, err := storage.NewSQLiteRepository(cfg.Storage.DatabasePath)
	if err != nil {
		t.Fatal(err)
	}
	defer repo.Close()

	verdicts, err := factcheck.NewIndex(cfg.Storage.FactIndexPath)
	if err != nil {
		t.Fatal(err)
	}
	defer verdicts.Close()

	if err := verdicts.Add(ctx, &models.Verdict{
		Title:   "Viral video shows flooded metro station",
		Verdict: "false",
		Site:    "altnews.in",
	}); err != nil {
		t.Fatal(err)
	}

	collectors := []signals.Collector{
		signals.NewOfficialSource(cfg.Policy, nil, logger),
		signals.NewFactChecker(cfg.Policy, verdicts, nil, logger),
		signals.NewCredibility(cfg.Policy),
		signals.NewTemporal(),
		signals.NewImage(cfg.Policy),
	}
	engine := verify.NewEngine(cfg.Verify, cfg.Cache, collectors, cache.NewMemoryCache(cfg.Cache.MaxEntries), logger)

	v, err := engine.Verify(ctx, &models.Article{
		Title:  "Viral video shows flooded metro station",
		Source: "someblog",
		URL:    "http://someblog.example/flood",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !v.IsFlagged {
		t.Errorf("debunked claim from an unknown source should be flagged, score %v", v.OverallScore)
	}
	if fc := v.Checks[models.CheckFactChecker]; fc.Status != models.StatusDebunked {
		t.Errorf("expected debunked fact-check status, got %+v", fc)
	}

	// Cached on the second pass.
	again, err := engine.Verify(ctx, &models.Article{
		Title:  "Viral video shows flooded metro station",
		Source: "someblog",
		URL:    "http://someblog.example/flood",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !again.FromCache {
		t.Error("second verification should come from cache")
	}
}

func TestIntegration_GraphAndTimelinePersistence(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	dbPath := filepath.Join(dir, "kensho.db")
	logger := zap.NewNop()
	ctx := context.Background()

	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatal(err)
	}

	g, err := graph.NewGraph(ctx, repo, cfg.Graph, logger)
	if err != nil {
		t.Fatal(err)
	}
	g.AddCitation(ctx, "https://a-wire.example/story", "b-agency.example", "")
	g.AddCitation(ctx, "b-agency.example", "a-wire.example", "")

	detector, err := timeline.DetectorFromConfig(cfg.Policy, cfg.Timeline)
	if err != nil {
		t.Fatal(err)
	}
	tl, err := timeline.NewTimeline(ctx, repo, cfg.Timeline, detector, logger)
	if err != nil {
		t.Fatal(err)
	}
	tl.AddClaim(ctx, "Officials confirmed the bridge is safe", "b-agency.example", "")
	tl.AddClaim(ctx, "Officials denied the bridge is safe", "b-agency.example", "")

	if err := repo.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopen and confirm everything survived.
	repo2, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer repo2.Close()

	g2, err := graph.NewGraph(ctx, repo2, cfg.Graph, logger)
	if err != nil {
		t.Fatal(err)
	}
	if g2.EdgeCount() != 2 {
		t.Errorf("expected 2 edges after reload, got %d", g2.EdgeCount())
	}
	report := g2.DetectCircular(ctx, "a-wire.example")
	if !report.Circular {
		t.Errorf("mutual citation should survive reload: %+v", report)
	}

	tl2, err := timeline.NewTimeline(ctx, repo2, cfg.Timeline, detector, logger)
	if err != nil {
		t.Fatal(err)
	}
	claims := tl2.SourceTimeline("b-agency.example")
	if len(claims) != 2 {
		t.Fatalf("expected 2 claims after reload, got %d", len(claims))
	}
	shift := tl2.NarrativeShift("b-agency.example", 7)
	if !shift.ShiftDetected {
		t.Errorf("contradictory claims should report a shift: %+v", shift)
	}
}
