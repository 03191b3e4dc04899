package models

import "time"

// ClaimRef points at a previously recorded claim that contradicts a newer one.
type ClaimRef struct {
	ClaimID    string    `json:"claim_id"`
	Text       string    `json:"original_claim"`
	Timestamp  time.Time `json:"timestamp"`
	ArticleURL string    `json:"article_url,omitempty"`
}

// Claim is one entry in a source's timeline. Claims are append-only and never
// deleted. ClaimID is a stable hash of the normalized text, so texts differing
// only by case or whitespace collide intentionally.
type Claim struct {
	ClaimID        string     `json:"claim_id"`
	Text           string     `json:"claim_text"`
	Source         string     `json:"source"`
	ArticleURL     string     `json:"article_url,omitempty"`
	Timestamp      time.Time  `json:"timestamp"`
	Contradictions []ClaimRef `json:"contradictions,omitempty"`
}

// NarrativeShift is one contradictory claim inside the lookback window, one
// row per contradicted prior claim.
type NarrativeShift struct {
	Claim       string    `json:"current_claim"`
	Timestamp   time.Time `json:"timestamp"`
	Contradicts ClaimRef  `json:"contradicts"`
}

// NarrativeShiftReport is derived on demand and not persisted.
type NarrativeShiftReport struct {
	ShiftDetected       bool             `json:"shift_detected"`
	Details             []NarrativeShift `json:"details"`
	TotalClaims         int              `json:"total_claims"`
	ContradictoryClaims int              `json:"contradictory_claims"`
}
