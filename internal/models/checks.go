package models

// Canonical check names. These key the Checks map of an ArticleVerification
// and the per-check weight table.
const (
	CheckOfficialSource    = "official_source_match"
	CheckFactChecker       = "fact_checker_status"
	CheckSourceCredibility = "source_credibility"
	CheckTemporal          = "temporal_consistency"
	CheckImage             = "image_authenticity"
)
