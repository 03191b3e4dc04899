package verify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hyperjump/kensho/internal/cache"
	"github.com/hyperjump/kensho/internal/config"
	"github.com/hyperjump/kensho/internal/models"
	"github.com/hyperjump/kensho/internal/signals"
)

type stubCollector struct {
	name  string
	score float64
	// status defaults to not_found when empty.
	status models.CheckStatus
	err    error
	delay  time.Duration
}

func (s *stubCollector) Name() string { return s.name }

func (s *stubCollector) Evaluate(ctx context.Context, article *models.Article) (*models.CheckResult, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	status := s.status
	if status == "" {
		status = models.StatusNotFound
	}
	return &models.CheckResult{Name: s.name, Score: s.score, Status: status}, nil
}

func stubCollectors(scores map[string]float64) []signals.Collector {
	var collectors []signals.Collector
	for name, score := range scores {
		collectors = append(collectors, &stubCollector{name: name, score: score})
	}
	return collectors
}

func healthyScores() map[string]float64 {
	return map[string]float64{
		models.CheckOfficialSource:    0.95,
		models.CheckFactChecker:       0.70,
		models.CheckSourceCredibility: 0.80,
		models.CheckTemporal:          0.85,
		models.CheckImage:             0.75,
	}
}

func newTestEngine(collectors []signals.Collector, c cache.Cache) *Engine {
	cfg := config.DefaultConfig()
	return NewEngine(cfg.Verify, cfg.Cache, collectors, c, nil)
}

func TestVerifyAggregates(t *testing.T) {
	engine := newTestEngine(stubCollectors(healthyScores()), nil)

	v, err := engine.Verify(context.Background(), &models.Article{Title: "Budget session opens"})
	if err != nil {
		t.Fatal(err)
	}
	if v.OverallScore < 0.824 || v.OverallScore > 0.826 {
		t.Errorf("expected 0.825, got %v", v.OverallScore)
	}
	if v.IsFlagged {
		t.Error("should not be flagged")
	}
	if len(v.Checks) != 5 {
		t.Errorf("expected 5 checks, got %d", len(v.Checks))
	}
	if v.ArticleID == "" {
		t.Error("engine should assign an article id")
	}
	if v.FromCache {
		t.Error("first verification cannot come from cache")
	}
}

func TestVerifyFlagsLowScores(t *testing.T) {
	scores := healthyScores()
	scores[models.CheckFactChecker] = 0.30
	collectors := stubCollectors(scores)
	for _, c := range collectors {
		if sc := c.(*stubCollector); sc.name == models.CheckFactChecker {
			sc.status = models.StatusDebunked
		}
	}
	engine := newTestEngine(collectors, nil)

	v, err := engine.Verify(context.Background(), &models.Article{Title: "Dubious claim"})
	if err != nil {
		t.Fatal(err)
	}
	if !v.IsFlagged {
		t.Fatalf("0.625 must be flagged, got %v", v.OverallScore)
	}
	if len(v.FlagReasons) == 0 {
		t.Error("flagged result must carry reasons")
	}
	if engine.Flagged().Len() != 1 {
		t.Errorf("flagged log should hold the entry, got %d", engine.Flagged().Len())
	}
}

func TestVerifyNeutralOnCollectorFailure(t *testing.T) {
	collectors := stubCollectors(healthyScores())
	collectors[1] = &stubCollector{name: collectors[1].Name(), err: errors.New("upstream down")}
	engine := newTestEngine(collectors, nil)

	v, err := engine.Verify(context.Background(), &models.Article{Title: "Anything"})
	if err != nil {
		t.Fatal(err)
	}
	failed := v.Checks[collectors[1].Name()]
	if failed.Score != 0.5 || failed.Status != models.StatusError {
		t.Errorf("failed collector should degrade to neutral: %+v", failed)
	}
	// The other collectors still contribute their real scores.
	if v.Checks[collectors[0].Name()].Status == models.StatusError {
		t.Error("healthy collectors must not be affected")
	}
}

func TestVerifyCollectorTimeout(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Verify.CollectorTimeoutSeconds = 1

	collectors := stubCollectors(healthyScores())
	collectors[0] = &stubCollector{
		name:  collectors[0].Name(),
		score: 0.9,
		delay: 3 * time.Second,
	}
	engine := NewEngine(cfg.Verify, cfg.Cache, collectors, nil, nil)

	start := time.Now()
	v, err := engine.Verify(context.Background(), &models.Article{Title: "Slow"})
	if err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 2500*time.Millisecond {
		t.Errorf("timeout not enforced, took %v", elapsed)
	}
	slow := v.Checks[collectors[0].Name()]
	if slow.Score != 0.5 || slow.Status != models.StatusError {
		t.Errorf("timed-out collector should degrade to neutral: %+v", slow)
	}
}

func TestVerifyCancellation(t *testing.T) {
	collectors := stubCollectors(healthyScores())
	collectors[0] = &stubCollector{
		name:  collectors[0].Name(),
		score: 0.9,
		delay: 5 * time.Second,
	}
	engine := newTestEngine(collectors, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	if _, err := engine.Verify(ctx, &models.Article{Title: "Cancelled"}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestVerifyCacheIdempotence(t *testing.T) {
	engine := newTestEngine(stubCollectors(healthyScores()), cache.NewMemoryCache(16))
	article := &models.Article{Title: "Budget session opens", URL: "https://news.example/a"}

	first, err := engine.Verify(context.Background(), article)
	if err != nil {
		t.Fatal(err)
	}
	second, err := engine.Verify(context.Background(), article)
	if err != nil {
		t.Fatal(err)
	}

	if !second.FromCache {
		t.Error("second call should be served from cache")
	}
	if second.OverallScore != first.OverallScore {
		t.Errorf("cached score must match: %v vs %v", second.OverallScore, first.OverallScore)
	}
	if first.FromCache {
		t.Error("first call must not be marked from cache")
	}
}

func TestVerifyFlaggedLogBounded(t *testing.T) {
	scores := map[string]float64{
		models.CheckOfficialSource:    0.1,
		models.CheckFactChecker:       0.1,
		models.CheckSourceCredibility: 0.1,
		models.CheckTemporal:          0.1,
		models.CheckImage:             0.1,
	}
	engine := newTestEngine(stubCollectors(scores), nil)

	for i := 0; i < 150; i++ {
		if _, err := engine.Verify(context.Background(), &models.Article{Title: "bad"}); err != nil {
			t.Fatal(err)
		}
	}
	if got := engine.Flagged().Len(); got != 100 {
		t.Errorf("flagged log must cap at 100, got %d", got)
	}
}

func TestEngineUpdate(t *testing.T) {
	engine := newTestEngine(stubCollectors(healthyScores()), nil)

	cfg := config.DefaultConfig().Verify
	cfg.FlagThreshold = 0.90
	engine.Update(cfg, stubCollectors(healthyScores()))

	v, err := engine.Verify(context.Background(), &models.Article{Title: "Now stricter"})
	if err != nil {
		t.Fatal(err)
	}
	if !v.IsFlagged {
		t.Error("raised threshold should flag a 0.825 score")
	}
}
