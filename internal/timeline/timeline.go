// Package timeline tracks claims made by sources over time, detecting
// contradictions between a source's statements and narrative shifts within a
// trailing window.
package timeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kensho/internal/config"
	"github.com/hyperjump/kensho/internal/models"
	"github.com/hyperjump/kensho/internal/storage"
	"github.com/hyperjump/kensho/pkg/utils"
)

// Timeline is an append-only, per-source-indexed record of claims.
type Timeline struct {
	mu       sync.Mutex
	claims   []*models.Claim
	bySource map[string][]*models.Claim

	detector *Detector
	repo     storage.TimelineRepository
	cfg      config.TimelineConfig
	logger   *zap.Logger
}

// NewTimeline creates a timeline backed by repo, restoring any persisted
// snapshot.
func NewTimeline(ctx context.Context, repo storage.TimelineRepository, cfg config.TimelineConfig, detector *Detector, logger *zap.Logger) (*Timeline, error) {
	tl := &Timeline{
		bySource: make(map[string][]*models.Claim),
		detector: detector,
		repo:     repo,
		cfg:      cfg,
		logger:   logger,
	}

	if repo != nil {
		snap, err := repo.LoadTimeline(ctx)
		if err != nil {
			return nil, err
		}
		for _, claim := range snap.Claims {
			tl.claims = append(tl.claims, claim)
			tl.bySource[claim.Source] = append(tl.bySource[claim.Source], claim)
		}
	}
	return tl, nil
}

// ClaimID derives the stable identifier for a claim text: the first 16 hex
// characters of the hash of the normalized text.
func ClaimID(text string) string {
	sum := sha256.Sum256([]byte(utils.NormalizeText(text)))
	return hex.EncodeToString(sum[:])[:16]
}

// AddClaim records a claim by source, checking it against every prior claim
// from the same source for contradictions. Persistence failures are logged,
// not returned.
func (tl *Timeline) AddClaim(ctx context.Context, text, source, articleURL string) *models.Claim {
	claim := &models.Claim{
		ClaimID:    ClaimID(text),
		Text:       text,
		Source:     source,
		ArticleURL: articleURL,
		Timestamp:  time.Now().UTC(),
	}

	tl.mu.Lock()
	for _, prior := range tl.bySource[source] {
		if tl.detector != nil && tl.detector.Check(prior.Text, text) {
			claim.Contradictions = append(claim.Contradictions, models.ClaimRef{
				ClaimID:    prior.ClaimID,
				Text:       prior.Text,
				Timestamp:  prior.Timestamp,
				ArticleURL: prior.ArticleURL,
			})
		}
	}
	tl.claims = append(tl.claims, claim)
	tl.bySource[source] = append(tl.bySource[source], claim)
	tl.persistLocked(ctx)
	tl.mu.Unlock()

	if len(claim.Contradictions) > 0 && tl.logger != nil {
		tl.logger.Info("contradictory claim recorded",
			zap.String("source", source),
			zap.String("claim_id", claim.ClaimID),
			zap.Int("contradictions", len(claim.Contradictions)))
	}
	return claim
}

// SourceTimeline returns all claims by source ordered by timestamp ascending.
func (tl *Timeline) SourceTimeline(source string) []*models.Claim {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	claims := make([]*models.Claim, len(tl.bySource[source]))
	copy(claims, tl.bySource[source])
	sort.SliceStable(claims, func(i, j int) bool {
		return claims[i].Timestamp.Before(claims[j].Timestamp)
	})
	return claims
}

// NarrativeShift inspects the source's claims within the trailing days-day
// window and reports every claim that contradicts an earlier statement.
func (tl *Timeline) NarrativeShift(source string, days int) *models.NarrativeShiftReport {
	if days <= 0 {
		days = tl.cfg.DefaultWindowDays
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	tl.mu.Lock()
	defer tl.mu.Unlock()

	report := &models.NarrativeShiftReport{}
	for _, claim := range tl.bySource[source] {
		if claim.Timestamp.Before(cutoff) {
			continue
		}
		report.TotalClaims++
		if len(claim.Contradictions) == 0 {
			continue
		}
		report.ContradictoryClaims++
		for _, ref := range claim.Contradictions {
			report.Details = append(report.Details, models.NarrativeShift{
				Claim:       claim.Text,
				Timestamp:   claim.Timestamp,
				Contradicts: ref,
			})
		}
	}
	report.ShiftDetected = report.ContradictoryClaims > 0
	return report
}

// TotalClaims returns the number of recorded claims across all sources.
func (tl *Timeline) TotalClaims() int {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return len(tl.claims)
}

func (tl *Timeline) persistLocked(ctx context.Context) {
	if tl.repo == nil {
		return
	}
	snap := &storage.TimelineSnapshot{Claims: tl.claims}
	if err := tl.repo.SaveTimeline(ctx, snap); err != nil && tl.logger != nil {
		tl.logger.Warn("failed to persist claim timeline", zap.Error(err))
	}
}

// DetectorFromConfig builds the contradiction detector configured by policy.
func DetectorFromConfig(policy config.PolicyConfig, cfg config.TimelineConfig) (*Detector, error) {
	for _, pair := range policy.AntonymPairs {
		if len(pair) != 2 {
			return nil, fmt.Errorf("antonym pair must have exactly 2 entries, got %v", pair)
		}
	}
	return NewDetector(policy.AntonymPairs, cfg.MinSharedTokens), nil
}
