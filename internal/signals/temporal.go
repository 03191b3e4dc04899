package signals

import (
	"context"
	"fmt"
	"time"

	"github.com/hyperjump/kensho/internal/models"
)

const staleAfterDays = 7

// Temporal checks the article's publish timestamp against the clock. Future
// dating is the strongest red flag; stale content resurfacing as news is a
// milder one.
type Temporal struct {
	now func() time.Time
}

// NewTemporal builds the collector.
func NewTemporal() *Temporal {
	return &Temporal{now: time.Now}
}

func (c *Temporal) Name() string { return models.CheckTemporal }

func (c *Temporal) Evaluate(ctx context.Context, article *models.Article) (*models.CheckResult, error) {
	result := &models.CheckResult{
		Name:    c.Name(),
		Score:   0.75,
		Status:  models.StatusConsistent,
		Details: "Timestamp appears reasonable",
	}
	if article.PublishedAt == nil {
		return result, nil
	}

	now := c.now()
	published := *article.PublishedAt

	if published.After(now) {
		result.Score = 0.20
		result.Status = models.StatusFutureDated
		result.Details = "Article dated in the future - major credibility issue"
		return result, nil
	}

	ageDays := int(now.Sub(published).Hours() / 24)
	if ageDays > staleAfterDays {
		result.Score = 0.60
		result.Status = models.StatusOldContent
		result.Details = fmt.Sprintf("Article is %d days old", ageDays)
	} else {
		result.Score = 0.85
		result.Status = models.StatusRecent
		result.Details = fmt.Sprintf("Recent article (%d days old)", ageDays)
	}
	return result, nil
}
