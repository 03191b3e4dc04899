package signals

import (
	"context"
	"net/url"
	"strings"

	"github.com/hyperjump/kensho/internal/config"
	"github.com/hyperjump/kensho/internal/models"
	"github.com/hyperjump/kensho/pkg/utils"
)

// Image scores the article's lead image by where it is hosted: same-domain
// images read as original, stock-photo domains as recycled imagery.
type Image struct {
	stockDomains []string
}

// NewImage builds the collector from policy.
func NewImage(policy config.PolicyConfig) *Image {
	return &Image{stockDomains: policy.StockPhotoDomains}
}

func (c *Image) Name() string { return models.CheckImage }

func (c *Image) Evaluate(ctx context.Context, article *models.Article) (*models.CheckResult, error) {
	result := &models.CheckResult{
		Name:    c.Name(),
		Score:   0.75,
		Status:  models.StatusNoImage,
		Details: "No image to verify",
	}
	if article.ImageURL == "" {
		return result, nil
	}

	parsed, err := url.Parse(article.ImageURL)
	if err != nil || parsed.Host == "" {
		result.Score = 0.60
		result.Status = models.StatusError
		result.Details = "Image URL could not be parsed"
		return result, nil
	}
	imageHost := strings.ToLower(parsed.Host)

	if utils.ContainsAny(imageHost, c.stockDomains) {
		result.Score = 0.50
		result.Status = models.StatusStockPhoto
		result.Details = "Image appears to be from stock photo website"
		return result, nil
	}

	articleHost := ""
	if u, err := url.Parse(article.URL); err == nil {
		articleHost = strings.ToLower(u.Host)
	}
	if articleHost != "" && (strings.Contains(articleHost, imageHost) || strings.Contains(imageHost, articleHost)) {
		result.Score = 0.85
		result.Status = models.StatusAuthentic
		result.Details = "Image hosted on same domain as article"
	} else {
		result.Score = 0.70
		result.Status = models.StatusExternalSource
		result.Details = "Image from external source"
	}
	return result, nil
}
