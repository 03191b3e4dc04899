// Package signals implements the verification signal collectors. Each
// collector scores one independent aspect of an article; the verify engine
// runs them concurrently and aggregates the results.
package signals

import (
	"context"
	"regexp"

	"github.com/hyperjump/kensho/internal/models"
)

// Collector scores a single verification signal for an article.
type Collector interface {
	Name() string
	Evaluate(ctx context.Context, article *models.Article) (*models.CheckResult, error)
}

// Outcome is one collector's contribution to a verification fan-out.
type Outcome struct {
	Name   string
	Result *models.CheckResult
	Err    error
}

// VerdictSearcher looks up recorded fact-check verdicts matching a title.
type VerdictSearcher interface {
	SearchVerdicts(ctx context.Context, title string) ([]*models.Verdict, error)
}

var wordPattern = regexp.MustCompile(`\b\w+\b`)

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"is": true, "are": true, "was": true, "were": true,
}

// ExtractKeywords pulls up to limit meaningful terms from text, skipping stop
// words and short tokens.
func ExtractKeywords(text string, limit int) []string {
	var keywords []string
	for _, word := range wordPattern.FindAllString(text, -1) {
		if len(word) > 3 && !stopWords[word] {
			keywords = append(keywords, word)
			if len(keywords) >= limit {
				break
			}
		}
	}
	return keywords
}
