package graph

import (
	"context"
	"sort"

	"github.com/hyperjump/kensho/internal/models"
)

// Network returns the citation neighborhood of source up to depth hops,
// following edges in both directions. Each node carries a freshly computed
// trust score and its in- and out-degree.
func (g *Graph) Network(ctx context.Context, source string, depth int) *models.CitationNetwork {
	source = NormalizeSource(source)
	if depth <= 0 {
		depth = 1
	}
	if g.cfg.MaxNetworkDepth > 0 && depth > g.cfg.MaxNetworkDepth {
		depth = g.cfg.MaxNetworkDepth
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	visited := map[string]bool{source: true}
	frontier := []string{source}
	for hop := 0; hop < depth && len(frontier) > 0; hop++ {
		var next []string
		for _, node := range frontier {
			for _, edge := range g.out[node] {
				if !visited[edge.Cited] {
					visited[edge.Cited] = true
					next = append(next, edge.Cited)
				}
			}
			for _, edge := range g.in[node] {
				if !visited[edge.Citing] {
					visited[edge.Citing] = true
					next = append(next, edge.Citing)
				}
			}
		}
		frontier = next
	}

	network := &models.CitationNetwork{}
	for node := range visited {
		score := g.computeTrustLocked(node)
		g.trust[node] = score
		network.Nodes = append(network.Nodes, &models.SourceNode{
			ID:         node,
			TrustScore: score,
			InDegree:   len(g.in[node]),
			OutDegree:  len(g.out[node]),
		})
	}
	sort.Slice(network.Nodes, func(i, j int) bool {
		return network.Nodes[i].ID < network.Nodes[j].ID
	})

	for _, edges := range g.out {
		for _, edge := range edges {
			if visited[edge.Citing] && visited[edge.Cited] {
				network.Edges = append(network.Edges, edge)
			}
		}
	}
	sort.Slice(network.Edges, func(i, j int) bool {
		if network.Edges[i].Citing != network.Edges[j].Citing {
			return network.Edges[i].Citing < network.Edges[j].Citing
		}
		return network.Edges[i].Cited < network.Edges[j].Cited
	})

	return network
}
