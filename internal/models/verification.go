package models

import "time"

// CheckStatus describes the outcome of a single verification check.
type CheckStatus string

const (
	StatusVerified       CheckStatus = "verified"
	StatusTrustedSource  CheckStatus = "trusted_source"
	StatusNotFound       CheckStatus = "not_found"
	StatusNotChecked     CheckStatus = "not_checked"
	StatusDebunked       CheckStatus = "debunked"
	StatusHighlyTrusted  CheckStatus = "highly_trusted"
	StatusTrusted        CheckStatus = "trusted"
	StatusUnreliable     CheckStatus = "unreliable"
	StatusModerate       CheckStatus = "moderate"
	StatusQuestionable   CheckStatus = "questionable"
	StatusNoImage        CheckStatus = "no_image"
	StatusStockPhoto     CheckStatus = "stock_photo"
	StatusAuthentic      CheckStatus = "authentic"
	StatusExternalSource CheckStatus = "external_source"
	StatusFutureDated    CheckStatus = "future_dated"
	StatusOldContent     CheckStatus = "old_content"
	StatusRecent         CheckStatus = "recent"
	StatusConsistent     CheckStatus = "consistent"
	StatusError          CheckStatus = "error"
)

// CheckResult is the output of a single signal collector. Produced fresh per
// verification call and never mutated after creation.
type CheckResult struct {
	Name    string      `json:"name"`
	Score   float64     `json:"score"`
	Status  CheckStatus `json:"status"`
	Details string      `json:"details,omitempty"`
	// MatchedSources lists the authorities or fact-check sites that produced
	// this result, when any did.
	MatchedSources []string `json:"matched_sources,omitempty"`
}

// NeutralCheckResult is substituted for a collector that failed or timed out.
// It never aborts the overall verification.
func NeutralCheckResult(name string, reason string) *CheckResult {
	return &CheckResult{
		Name:    name,
		Score:   0.5,
		Status:  StatusError,
		Details: reason,
	}
}

// ArticleVerification is the full result of a verify call: the per-check
// breakdown plus the aggregate decision. Only flagged instances are durably
// stored, as FlaggedEntry.
type ArticleVerification struct {
	ArticleID    string                  `json:"article_id"`
	URL          string                  `json:"url,omitempty"`
	Title        string                  `json:"title"`
	Timestamp    time.Time               `json:"timestamp"`
	Checks       map[string]*CheckResult `json:"checks"`
	OverallScore float64                 `json:"overall_score"`
	IsFlagged    bool                    `json:"is_flagged"`
	FlagReasons  []string                `json:"flag_reasons,omitempty"`
	// FromCache is true when the result was served from the result cache.
	FromCache bool `json:"from_cache"`
	// CacheHitMS is the retrieval latency in milliseconds for cache hits.
	CacheHitMS int64 `json:"cache_hit_ms,omitempty"`
}

// CheckSummary is the per-check subset persisted with a flagged entry.
type CheckSummary struct {
	Score  float64     `json:"score"`
	Status CheckStatus `json:"status"`
}

// FlaggedEntry is the subset of an ArticleVerification retained in the
// bounded flagged-item log.
type FlaggedEntry struct {
	ArticleID   string                  `json:"article_id"`
	Title       string                  `json:"title"`
	URL         string                  `json:"url,omitempty"`
	FlaggedAt   time.Time               `json:"flagged_at"`
	Score       float64                 `json:"verification_score"`
	FlagReasons []string                `json:"flag_reasons"`
	Checks      map[string]CheckSummary `json:"checks_summary"`
}

// NewFlaggedEntry builds the durable subset of a flagged verification.
func NewFlaggedEntry(v *ArticleVerification) *FlaggedEntry {
	checks := make(map[string]CheckSummary, len(v.Checks))
	for name, c := range v.Checks {
		checks[name] = CheckSummary{Score: c.Score, Status: c.Status}
	}
	return &FlaggedEntry{
		ArticleID:   v.ArticleID,
		Title:       v.Title,
		URL:         v.URL,
		FlaggedAt:   v.Timestamp,
		Score:       v.OverallScore,
		FlagReasons: v.FlagReasons,
		Checks:      checks,
	}
}

// ReasonCount pairs a flag reason with how often it occurred.
type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// FlaggedStats summarizes the flagged-item log.
type FlaggedStats struct {
	TotalFlagged  int           `json:"total_flagged"`
	CommonReasons []ReasonCount `json:"common_reasons"`
	AverageScore  float64       `json:"average_score"`
}
