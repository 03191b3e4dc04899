package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/hyperjump/kensho/internal/models"
)

// DetectCircular reports the simple cycles through source. Enumeration is
// bounded by the configured max cycle length and max cycle count; hitting
// either bound sets Truncated on the report.
func (g *Graph) DetectCircular(ctx context.Context, source string) *models.CircularReport {
	source = NormalizeSource(source)

	g.mu.Lock()
	cycles, truncated := g.cyclesThroughLocked(source)
	g.mu.Unlock()

	report := &models.CircularReport{
		Circular:  len(cycles) > 0,
		Cycles:    cycles,
		Count:     len(cycles),
		Truncated: truncated,
	}
	if report.Circular {
		report.Warning = fmt.Sprintf("%s participates in circular reporting", source)
	}
	return report
}

// cyclesThroughLocked enumerates simple cycles containing source by DFS from
// source, following out-edges and closing when a path returns to source.
// Fixing the start node means each directed cycle is found once; parallel
// edges between the same pair are collapsed by the node-sequence dedupe.
func (g *Graph) cyclesThroughLocked(source string) ([][]string, bool) {
	maxLen := g.cfg.MaxCycleLength
	if maxLen <= 0 {
		maxLen = 8
	}
	maxCycles := g.cfg.MaxCycles
	if maxCycles <= 0 {
		maxCycles = 256
	}

	var cycles [][]string
	seen := make(map[string]bool)
	truncated := false

	onPath := map[string]bool{source: true}
	path := []string{source}

	var dfs func(node string) bool
	dfs = func(node string) bool {
		for _, edge := range g.out[node] {
			next := edge.Cited
			if next == source {
				cycle := append(append([]string{}, path...), source)
				key := strings.Join(cycle, ">")
				if !seen[key] {
					seen[key] = true
					cycles = append(cycles, cycle)
					if len(cycles) >= maxCycles {
						truncated = true
						return false
					}
				}
				continue
			}
			if onPath[next] || len(path) >= maxLen {
				if len(path) >= maxLen {
					truncated = true
				}
				continue
			}
			onPath[next] = true
			path = append(path, next)
			ok := dfs(next)
			path = path[:len(path)-1]
			delete(onPath, next)
			if !ok {
				return false
			}
		}
		return true
	}
	dfs(source)

	return cycles, truncated
}
