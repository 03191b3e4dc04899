package signals

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/kensho/internal/config"
	"github.com/hyperjump/kensho/internal/fetch"
	"github.com/hyperjump/kensho/internal/models"
	"github.com/hyperjump/kensho/pkg/utils"
)

// OfficialSource checks an article against official authority releases. The
// authority table is ordered; the first rule whose trigger keywords appear in
// the article is consulted, and a confirmed match short-circuits.
type OfficialSource struct {
	rules    []config.AuthorityRule
	agencies []string
	fetcher  fetch.Fetcher
	logger   *zap.Logger
}

// NewOfficialSource builds the collector from policy. fetcher may be nil, in
// which case authority lookups are skipped and only the agency fallback runs.
func NewOfficialSource(policy config.PolicyConfig, fetcher fetch.Fetcher, logger *zap.Logger) *OfficialSource {
	return &OfficialSource{
		rules:    policy.Authorities,
		agencies: policy.Agencies,
		fetcher:  fetcher,
		logger:   logger,
	}
}

func (c *OfficialSource) Name() string { return models.CheckOfficialSource }

func (c *OfficialSource) Evaluate(ctx context.Context, article *models.Article) (*models.CheckResult, error) {
	result := &models.CheckResult{
		Name:    c.Name(),
		Score:   0.70,
		Status:  models.StatusNotFound,
		Details: "No official source verification available",
	}

	text := strings.ToLower(article.Text())
	keywords := ExtractKeywords(text, 10)

	for _, rule := range c.rules {
		if !utils.ContainsAny(text, rule.Keywords) {
			continue
		}
		if c.fetcher == nil {
			continue
		}
		page, err := c.fetcher.FetchText(ctx, rule.URL)
		if err != nil {
			if c.logger != nil {
				c.logger.Debug("authority lookup failed",
					zap.String("authority", rule.Name), zap.Error(err))
			}
			continue
		}
		page = strings.ToLower(page)
		matches := 0
		for _, keyword := range keywords {
			if strings.Contains(page, keyword) {
				matches++
			}
		}
		if matches >= 2 {
			result.Score = rule.Score
			result.Status = models.StatusVerified
			result.Details = fmt.Sprintf("Verified against official release from %s", rule.Name)
			result.MatchedSources = []string{rule.Name}
			return result, nil
		}
	}

	source := strings.ToLower(article.Source)
	for _, agency := range c.agencies {
		if strings.Contains(source, strings.ToLower(agency)) {
			result.Score = 0.80
			result.Status = models.StatusTrustedSource
			result.Details = "Reputable news agency, no contradicting information found"
			return result, nil
		}
	}

	return result, nil
}
