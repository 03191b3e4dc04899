// Package graph maintains the citation graph between news sources: who cites
// whom, derived trust scores, circular-reporting detection, and echo-chamber
// identification.
package graph

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/weppos/publicsuffix-go/publicsuffix"
	"go.uber.org/zap"

	"github.com/hyperjump/kensho/internal/config"
	"github.com/hyperjump/kensho/internal/models"
	"github.com/hyperjump/kensho/internal/storage"
	"github.com/hyperjump/kensho/pkg/utils"
)

// Graph is a directed multigraph of source citations. Parallel edges between
// the same pair of sources are kept, one per citing article.
type Graph struct {
	mu    sync.Mutex
	out   map[string][]*models.CitationEdge
	in    map[string][]*models.CitationEdge
	trust map[string]float64

	repo   storage.GraphRepository
	cfg    config.GraphConfig
	logger *zap.Logger
}

// NewGraph creates a graph backed by repo, restoring any persisted snapshot.
func NewGraph(ctx context.Context, repo storage.GraphRepository, cfg config.GraphConfig, logger *zap.Logger) (*Graph, error) {
	g := &Graph{
		out:    make(map[string][]*models.CitationEdge),
		in:     make(map[string][]*models.CitationEdge),
		trust:  make(map[string]float64),
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}

	if repo != nil {
		snap, err := repo.LoadGraph(ctx)
		if err != nil {
			return nil, err
		}
		for _, edge := range snap.Edges {
			g.addEdgeLocked(edge)
		}
		for source, score := range snap.TrustScores {
			g.trust[source] = score
		}
	}
	return g, nil
}

// NormalizeSource reduces a source name or URL to its registered domain, so
// "https://www.example.co.uk/news" and "example.co.uk" identify the same node.
func NormalizeSource(source string) string {
	s := strings.TrimSpace(strings.ToLower(source))
	if s == "" {
		return s
	}
	if strings.Contains(s, "://") {
		if u, err := url.Parse(s); err == nil && u.Host != "" {
			s = u.Host
		}
	}
	s = strings.TrimPrefix(s, "www.")
	if host, _, ok := strings.Cut(s, ":"); ok {
		s = host
	}
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	if domain, err := publicsuffix.Domain(s); err == nil {
		return domain
	}
	return s
}

// AddCitation records that citing cited cited in the article at articleURL and
// persists the updated graph. Persistence failures are logged, not returned;
// the in-memory graph stays authoritative for the running process.
func (g *Graph) AddCitation(ctx context.Context, citing, cited, articleURL string) *models.CitationEdge {
	edge := &models.CitationEdge{
		Citing:     NormalizeSource(citing),
		Cited:      NormalizeSource(cited),
		ArticleURL: articleURL,
	}

	g.mu.Lock()
	g.addEdgeLocked(edge)
	g.persistLocked(ctx)
	g.mu.Unlock()

	return edge
}

func (g *Graph) addEdgeLocked(edge *models.CitationEdge) {
	g.out[edge.Citing] = append(g.out[edge.Citing], edge)
	g.in[edge.Cited] = append(g.in[edge.Cited], edge)
	if _, ok := g.trust[edge.Citing]; !ok {
		g.trust[edge.Citing] = baseTrust
	}
	if _, ok := g.trust[edge.Cited]; !ok {
		g.trust[edge.Cited] = baseTrust
	}
}

const baseTrust = 0.5

// TrustScore computes the trust score for source and caches it on the node.
// Scores start at a neutral base, rise when trusted sources cite the source or
// when it cites a diverse set of sources, and fall for every circular-reporting
// cycle it participates in.
func (g *Graph) TrustScore(ctx context.Context, source string) float64 {
	source = NormalizeSource(source)

	g.mu.Lock()
	score := g.computeTrustLocked(source)
	g.trust[source] = score
	g.persistLocked(ctx)
	g.mu.Unlock()

	return score
}

func (g *Graph) computeTrustLocked(source string) float64 {
	score := baseTrust

	citers := make(map[string]bool)
	for _, edge := range g.in[source] {
		citers[edge.Citing] = true
	}
	if len(citers) > 0 {
		var citerTrust []float64
		for citer := range citers {
			t, ok := g.trust[citer]
			if !ok {
				t = baseTrust
			}
			citerTrust = append(citerTrust, t)
		}
		score += 0.3 * (utils.Mean(citerTrust) - 0.5)
	}

	cycles, _ := g.cyclesThroughLocked(source)
	score -= 0.2 * float64(len(cycles))

	cited := make(map[string]bool)
	for _, edge := range g.out[source] {
		cited[edge.Cited] = true
	}
	if len(cited) > 5 {
		score += 0.1
	}

	return utils.Clamp01(score)
}

func (g *Graph) persistLocked(ctx context.Context) {
	if g.repo == nil {
		return
	}
	snap := &storage.GraphSnapshot{TrustScores: make(map[string]float64, len(g.trust))}
	for _, edges := range g.out {
		snap.Edges = append(snap.Edges, edges...)
	}
	for source, score := range g.trust {
		snap.TrustScores[source] = score
	}
	if err := g.repo.SaveGraph(ctx, snap); err != nil && g.logger != nil {
		g.logger.Warn("failed to persist citation graph", zap.Error(err))
	}
}

// Sources returns the number of distinct sources in the graph.
func (g *Graph) Sources() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.trust)
}

// EdgeCount returns the total number of citation edges.
func (g *Graph) EdgeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, edges := range g.out {
		n += len(edges)
	}
	return n
}
