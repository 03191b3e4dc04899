package verify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/kensho/internal/cache"
	"github.com/hyperjump/kensho/internal/config"
	"github.com/hyperjump/kensho/internal/models"
	"github.com/hyperjump/kensho/internal/signals"
)

// Engine runs the verification pipeline for articles. Collectors and the
// scorer are swappable at runtime for config hot-reload; a verification in
// flight keeps the set it started with.
type Engine struct {
	mu         sync.RWMutex
	collectors []signals.Collector
	scorer     *Scorer
	cfg        config.VerifyConfig

	cache   cache.Cache
	ttl     time.Duration
	flagged *FlaggedLog
	logger  *zap.Logger
}

// NewEngine builds an engine. resultCache may be nil to disable caching.
func NewEngine(cfg config.VerifyConfig, cacheCfg config.CacheConfig, collectors []signals.Collector, resultCache cache.Cache, logger *zap.Logger) *Engine {
	return &Engine{
		collectors: collectors,
		scorer:     NewScorer(cfg),
		cfg:        cfg,
		cache:      resultCache,
		ttl:        time.Duration(cacheCfg.TTLSeconds) * time.Second,
		flagged:    NewFlaggedLog(cfg.FlaggedCapacity),
		logger:     logger,
	}
}

// Update swaps in new collectors and verify config, typically after a config
// reload. The flagged log and cache are kept.
func (e *Engine) Update(cfg config.VerifyConfig, collectors []signals.Collector) {
	e.mu.Lock()
	e.collectors = collectors
	e.scorer = NewScorer(cfg)
	e.cfg = cfg
	e.mu.Unlock()
}

// Flagged returns the flagged-item log.
func (e *Engine) Flagged() *FlaggedLog {
	return e.flagged
}

// Verify scores article through every collector and returns the aggregate
// verdict. Collector failures and timeouts degrade to neutral results;
// cancellation of ctx aborts the whole call.
func (e *Engine) Verify(ctx context.Context, article *models.Article) (*models.ArticleVerification, error) {
	if article.ID == "" {
		article.ID = uuid.New().String()
	}

	e.mu.RLock()
	collectors := e.collectors
	scorer := e.scorer
	cfg := e.cfg
	e.mu.RUnlock()

	key := cache.Key(article.Text(), article.URL, cfg.CrossVerification)
	if e.cache != nil {
		start := time.Now()
		if data, ok := e.cache.Get(ctx, key); ok {
			var cached models.ArticleVerification
			if err := json.Unmarshal(data, &cached); err == nil {
				cached.FromCache = true
				cached.CacheHitMS = time.Since(start).Milliseconds()
				return &cached, nil
			}
			if e.logger != nil {
				e.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
			}
		}
	}

	timeout := time.Duration(cfg.CollectorTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	outcomes := make(chan signals.Outcome, len(collectors))
	for _, collector := range collectors {
		go func(c signals.Collector) {
			cctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			result, err := c.Evaluate(cctx, article)
			outcomes <- signals.Outcome{Name: c.Name(), Result: result, Err: err}
		}(collector)
	}

	checks := make(map[string]*models.CheckResult, len(collectors))
	for range collectors {
		select {
		case out := <-outcomes:
			if out.Err != nil || out.Result == nil {
				reason := "collector failed"
				if out.Err != nil {
					reason = out.Err.Error()
				}
				if e.logger != nil {
					e.logger.Warn("collector degraded to neutral result",
						zap.String("check", out.Name), zap.Error(out.Err))
				}
				checks[out.Name] = models.NeutralCheckResult(out.Name, reason)
				continue
			}
			checks[out.Name] = out.Result
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	verification := &models.ArticleVerification{
		ArticleID:    article.ID,
		URL:          article.URL,
		Title:        article.Title,
		Timestamp:    time.Now().UTC(),
		Checks:       checks,
		OverallScore: scorer.Score(checks),
	}

	if scorer.Flagged(verification.OverallScore) {
		verification.IsFlagged = true
		verification.FlagReasons = scorer.FlagReasons(checks)
		e.flagged.Add(models.NewFlaggedEntry(verification))
		if e.logger != nil {
			e.logger.Info("article flagged",
				zap.String("article_id", verification.ArticleID),
				zap.Float64("score", verification.OverallScore),
				zap.Strings("reasons", verification.FlagReasons))
		}
	}

	if e.cache != nil {
		if data, err := json.Marshal(verification); err == nil {
			e.cache.Set(ctx, key, data, e.ttl)
		}
	}

	return verification, nil
}
