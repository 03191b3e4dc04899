// Package verify runs the verification pipeline: concurrent signal
// collection, weighted aggregation, flag decisions, and the bounded
// flagged-item log.
package verify

import (
	"fmt"

	"github.com/hyperjump/kensho/internal/config"
	"github.com/hyperjump/kensho/internal/models"
	"github.com/hyperjump/kensho/pkg/utils"
)

// checkOrder fixes reason ordering so repeated runs over the same checks
// produce identical output.
var checkOrder = []string{
	models.CheckOfficialSource,
	models.CheckFactChecker,
	models.CheckSourceCredibility,
	models.CheckTemporal,
	models.CheckImage,
}

// Scorer aggregates check results into an overall score and flag decision.
// The weighted sum is monotonic: lowering any single check score can only
// lower the overall score.
type Scorer struct {
	weights   map[string]float64
	threshold float64
	floor     float64
}

// NewScorer builds a scorer from verify config. Weights are assumed
// validated to sum to 1.
func NewScorer(cfg config.VerifyConfig) *Scorer {
	return &Scorer{
		weights: map[string]float64{
			models.CheckOfficialSource:    cfg.Weights.OfficialSource,
			models.CheckFactChecker:       cfg.Weights.FactChecker,
			models.CheckSourceCredibility: cfg.Weights.SourceCredibility,
			models.CheckTemporal:          cfg.Weights.TemporalConsistency,
			models.CheckImage:             cfg.Weights.ImageAuthenticity,
		},
		threshold: cfg.FlagThreshold,
		floor:     cfg.ReasonFloor,
	}
}

// Score computes the weighted overall score. A check missing from the map
// contributes the neutral score.
func (s *Scorer) Score(checks map[string]*models.CheckResult) float64 {
	total := 0.0
	for name, weight := range s.weights {
		score := 0.5
		if check, ok := checks[name]; ok {
			score = utils.Clamp01(check.Score)
		}
		total += score * weight
	}
	return utils.Clamp01(total)
}

// Flagged reports whether score falls below the flag threshold.
func (s *Scorer) Flagged(score float64) bool {
	return score < s.threshold
}

// FlagReasons explains a flag decision: one canned reason per check scoring
// below the per-check floor, or a single generic reason when no check
// individually qualifies.
func (s *Scorer) FlagReasons(checks map[string]*models.CheckResult) []string {
	var reasons []string
	for _, name := range checkOrder {
		check, ok := checks[name]
		if !ok || check.Score >= s.floor {
			continue
		}
		switch name {
		case models.CheckOfficialSource:
			if check.Status != models.StatusVerified {
				reasons = append(reasons, "Could not verify against official sources")
			}
		case models.CheckFactChecker:
			if check.Status == models.StatusDebunked {
				reasons = append(reasons, fmt.Sprintf("Fact-checkers have flagged this as false/misleading: %s", check.Details))
			}
		case models.CheckSourceCredibility:
			reasons = append(reasons, fmt.Sprintf("Source has credibility concerns: %s", check.Details))
		case models.CheckTemporal:
			reasons = append(reasons, fmt.Sprintf("Suspicious timestamp: %s", check.Details))
		case models.CheckImage:
			if check.Status == models.StatusStockPhoto {
				reasons = append(reasons, "Using stock photography instead of original images")
			}
		}
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "Overall verification score below threshold (< 65%)")
	}
	return reasons
}
