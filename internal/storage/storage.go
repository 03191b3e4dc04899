// Package storage defines persistence for the citation graph and the claim
// timeline, with SQLite and plain-file implementations.
package storage

import (
	"context"

	"github.com/hyperjump/kensho/internal/models"
)

// GraphSnapshot is the full persisted state of the citation graph.
type GraphSnapshot struct {
	Edges       []*models.CitationEdge `json:"edges"`
	TrustScores map[string]float64     `json:"trust_scores"`
}

// TimelineSnapshot is the full persisted state of the claim timeline.
type TimelineSnapshot struct {
	Claims []*models.Claim `json:"claims"`
}

// GraphRepository persists citation graph snapshots.
type GraphRepository interface {
	LoadGraph(ctx context.Context) (*GraphSnapshot, error)
	SaveGraph(ctx context.Context, snap *GraphSnapshot) error
	Close() error
}

// TimelineRepository persists claim timeline snapshots.
type TimelineRepository interface {
	LoadTimeline(ctx context.Context) (*TimelineSnapshot, error)
	SaveTimeline(ctx context.Context, snap *TimelineSnapshot) error
	Close() error
}

// Repository combines graph and timeline persistence behind one backend.
type Repository interface {
	GraphRepository
	TimelineRepository
}
