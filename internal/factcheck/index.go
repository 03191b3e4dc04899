// Package factcheck provides a Bleve-backed index of recorded fact-check
// verdicts, consulted by the fact-checker collector before any live lookup.
package factcheck

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/google/uuid"

	"github.com/hyperjump/kensho/internal/models"
)

const searchLimit = 10

// Index stores fact-check verdicts keyed by headline for title matching.
type Index struct {
	index bleve.Index
}

// NewIndex creates or opens a Bleve index at path. An existing index is
// opened and reused; remove the directory to force a rebuild after a mapping
// change.
func NewIndex(path string) (*Index, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	titleMapping := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so headline terms
	// match exactly.
	titleMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("title", titleMapping)
	keywordMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("verdict", keywordMapping)
	docMapping.AddFieldMappingsAt("site", keywordMapping)
	docMapping.AddFieldMappingsAt("url", keywordMapping)
	im.AddDocumentMapping("verdict", docMapping)
	im.DefaultType = "verdict"
	im.DefaultMapping = docMapping

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open verdict index: %w", openErr)
		}
		return &Index{index: index}, nil
	}

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create verdict index: %w", err)
	}
	return &Index{index: index}, nil
}

// Add records a verdict, assigning an ID and timestamp if absent.
func (i *Index) Add(ctx context.Context, v *models.Verdict) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.RecordedAt.IsZero() {
		v.RecordedAt = time.Now().UTC()
	}
	return i.index.Index(v.ID, map[string]interface{}{
		"title":       v.Title,
		"verdict":     v.Verdict,
		"site":        v.Site,
		"url":         v.URL,
		"recorded_at": v.RecordedAt.Format(time.RFC3339),
	})
}

// SearchVerdicts returns verdicts whose recorded titles match the given
// headline, best match first.
func (i *Index) SearchVerdicts(ctx context.Context, title string) ([]*models.Verdict, error) {
	query := bleve.NewMatchQuery(title)
	query.SetField("title")
	search := bleve.NewSearchRequest(query)
	search.Size = searchLimit
	search.Fields = []string{"*"}

	results, err := i.index.Search(search)
	if err != nil {
		return nil, fmt.Errorf("verdict search failed: %w", err)
	}

	verdicts := make([]*models.Verdict, 0, len(results.Hits))
	for _, hit := range results.Hits {
		v := &models.Verdict{ID: hit.ID}
		if s, ok := hit.Fields["title"].(string); ok {
			v.Title = s
		}
		if s, ok := hit.Fields["verdict"].(string); ok {
			v.Verdict = s
		}
		if s, ok := hit.Fields["site"].(string); ok {
			v.Site = s
		}
		if s, ok := hit.Fields["url"].(string); ok {
			v.URL = s
		}
		if s, ok := hit.Fields["recorded_at"].(string); ok {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				v.RecordedAt = t
			}
		}
		verdicts = append(verdicts, v)
	}
	return verdicts, nil
}

// Count returns the number of recorded verdicts.
func (i *Index) Count() (uint64, error) {
	return i.index.DocCount()
}

// Close closes the underlying index.
func (i *Index) Close() error {
	return i.index.Close()
}
