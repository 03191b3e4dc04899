package models

import "time"

// Verdict is a recorded fact-check outcome for a claim or headline, indexed
// locally so the fact-checker collector can match article titles against it
// without a network round trip.
type Verdict struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Verdict    string    `json:"verdict"` // "false", "misleading", "true", ...
	Site       string    `json:"site"`
	URL        string    `json:"url,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Debunking reports whether the verdict marks the claim as false or misleading.
func (v *Verdict) Debunking() bool {
	switch v.Verdict {
	case "false", "fake", "misleading", "debunked":
		return true
	}
	return false
}

// Verifying reports whether the verdict confirms the claim.
func (v *Verdict) Verifying() bool {
	switch v.Verdict {
	case "true", "verified", "correct":
		return true
	}
	return false
}
