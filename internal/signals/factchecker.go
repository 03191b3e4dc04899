package signals

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/hyperjump/kensho/internal/config"
	"github.com/hyperjump/kensho/internal/fetch"
	"github.com/hyperjump/kensho/internal/models"
	"github.com/hyperjump/kensho/pkg/utils"
)

const maxLiveSites = 2

// FactChecker matches the article title against recorded fact-check verdicts
// and, when a fetcher is configured, against the search pages of known
// fact-check sites. A debunking verdict always wins over a verifying one.
type FactChecker struct {
	index       VerdictSearcher
	sites       []string
	debunkTerms []string
	verifyTerms []string
	fetcher     fetch.Fetcher
	logger      *zap.Logger
}

// NewFactChecker builds the collector. index and fetcher may each be nil;
// with neither, every article comes back not_checked.
func NewFactChecker(policy config.PolicyConfig, index VerdictSearcher, fetcher fetch.Fetcher, logger *zap.Logger) *FactChecker {
	return &FactChecker{
		index:       index,
		sites:       policy.FactCheckSites,
		debunkTerms: policy.DebunkTerms,
		verifyTerms: policy.VerifyTerms,
		fetcher:     fetcher,
		logger:      logger,
	}
}

func (c *FactChecker) Name() string { return models.CheckFactChecker }

func (c *FactChecker) Evaluate(ctx context.Context, article *models.Article) (*models.CheckResult, error) {
	result := &models.CheckResult{
		Name:    c.Name(),
		Score:   0.70,
		Status:  models.StatusNotChecked,
		Details: "No fact-check found",
	}

	if c.index != nil {
		verdicts, err := c.index.SearchVerdicts(ctx, article.Title)
		if err != nil {
			if c.logger != nil {
				c.logger.Debug("verdict index search failed", zap.Error(err))
			}
		} else if c.applyVerdicts(result, verdicts) {
			return result, nil
		}
	}

	if c.fetcher != nil {
		if c.searchLive(ctx, article.Title, result) {
			return result, nil
		}
	}

	return result, nil
}

func (c *FactChecker) applyVerdicts(result *models.CheckResult, verdicts []*models.Verdict) bool {
	var verified *models.Verdict
	for _, v := range verdicts {
		if v.Debunking() {
			result.Score = 0.30
			result.Status = models.StatusDebunked
			result.Details = fmt.Sprintf("Flagged as misleading by %s", v.Site)
			result.MatchedSources = []string{v.Site}
			return true
		}
		if verified == nil && v.Verifying() {
			verified = v
		}
	}
	if verified != nil {
		result.Score = 0.90
		result.Status = models.StatusVerified
		result.Details = fmt.Sprintf("Verified by %s", verified.Site)
		result.MatchedSources = []string{verified.Site}
		return true
	}
	return false
}

func (c *FactChecker) searchLive(ctx context.Context, title string, result *models.CheckResult) bool {
	query := title
	if len(query) > 50 {
		query = query[:50]
	}

	sites := c.sites
	if len(sites) > maxLiveSites {
		sites = sites[:maxLiveSites]
	}
	for _, site := range sites {
		searchURL := fmt.Sprintf("%s/search?q=%s", strings.TrimRight(site, "/"), url.QueryEscape(query))
		body, err := c.fetcher.FetchText(ctx, searchURL)
		if err != nil {
			if c.logger != nil {
				c.logger.Debug("fact-check site search failed",
					zap.String("site", site), zap.Error(err))
			}
			continue
		}

		verdictText := body
		if gjson.Valid(body) {
			// ClaimReview-style API response; classify the textual ratings
			// instead of the raw payload.
			ratings := gjson.Get(body, "claims.#.claimReview.0.textualRating")
			var parts []string
			ratings.ForEach(func(_, value gjson.Result) bool {
				parts = append(parts, value.String())
				return true
			})
			verdictText = strings.Join(parts, " ")
		}

		if utils.ContainsAny(verdictText, c.debunkTerms) {
			result.Score = 0.30
			result.Status = models.StatusDebunked
			result.Details = fmt.Sprintf("Flagged as misleading by %s", site)
			result.MatchedSources = []string{site}
			return true
		}
		if utils.ContainsAny(verdictText, c.verifyTerms) {
			result.Score = 0.90
			result.Status = models.StatusVerified
			result.Details = fmt.Sprintf("Verified by %s", site)
			result.MatchedSources = []string{site}
			return true
		}
	}
	return false
}
