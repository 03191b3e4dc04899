package signals

import (
	"context"
	"fmt"
	"strings"

	"github.com/hyperjump/kensho/internal/config"
	"github.com/hyperjump/kensho/internal/graph"
	"github.com/hyperjump/kensho/internal/models"
)

// Credibility scores the article's source against tiered reputation tables,
// falling back to a transport-security heuristic for untiered sources.
type Credibility struct {
	policy config.PolicyConfig
}

// NewCredibility builds the collector from policy.
func NewCredibility(policy config.PolicyConfig) *Credibility {
	return &Credibility{policy: policy}
}

func (c *Credibility) Name() string { return models.CheckSourceCredibility }

func (c *Credibility) Evaluate(ctx context.Context, article *models.Article) (*models.CheckResult, error) {
	result := &models.CheckResult{Name: c.Name()}

	source := strings.ToLower(article.Source)
	articleURL := strings.ToLower(article.URL)
	domain := ""
	if article.URL != "" {
		domain = graph.NormalizeSource(article.URL)
	} else if article.Source != "" {
		domain = graph.NormalizeSource(article.Source)
	}

	matches := func(entries []string) bool {
		for _, entry := range entries {
			e := strings.ToLower(entry)
			if source != "" && strings.Contains(source, e) {
				return true
			}
			if articleURL != "" && strings.Contains(articleURL, strings.ReplaceAll(e, " ", "")) {
				return true
			}
			if domain != "" && domain == e {
				return true
			}
		}
		return false
	}

	switch {
	case matches(c.policy.Tier1Sources):
		result.Score = c.policy.Tier1Score
		result.Status = models.StatusHighlyTrusted
		result.Details = fmt.Sprintf("Source %q is a highly credible news organization", article.Source)
	case matches(c.policy.Tier2Sources):
		result.Score = c.policy.Tier2Score
		result.Status = models.StatusTrusted
		result.Details = fmt.Sprintf("Source %q is a reliable news organization", article.Source)
	case matches(c.policy.UnreliableSources):
		result.Score = c.policy.UnreliableScore
		result.Status = models.StatusUnreliable
		result.Details = fmt.Sprintf("Source %q has credibility concerns", article.Source)
	case strings.HasPrefix(articleURL, "https://"):
		result.Score = 0.70
		result.Status = models.StatusModerate
		result.Details = "Source uses secure connection (HTTPS)"
	default:
		result.Score = 0.50
		result.Status = models.StatusQuestionable
		result.Details = "Source does not use secure connection"
	}

	return result, nil
}
