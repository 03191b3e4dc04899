package graph

import "sort"

// EchoChambers returns every strongly connected component with more than two
// members. Within the observed graph such a cluster cites only itself, which
// is the structural signature of an echo chamber.
func (g *Graph) EchoChambers() [][]string {
	g.mu.Lock()
	components := g.stronglyConnectedLocked()
	g.mu.Unlock()

	var chambers [][]string
	for _, comp := range components {
		if len(comp) > 2 {
			sort.Strings(comp)
			chambers = append(chambers, comp)
		}
	}
	sort.Slice(chambers, func(i, j int) bool {
		return chambers[i][0] < chambers[j][0]
	})
	return chambers
}

// stronglyConnectedLocked is Tarjan's algorithm over the out-adjacency.
func (g *Graph) stronglyConnectedLocked() [][]string {
	index := 0
	indices := make(map[string]int)
	lowlink := make(map[string]int)
	onStack := make(map[string]bool)
	var stack []string
	var components [][]string

	var strongconnect func(v string)
	strongconnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, edge := range g.out[v] {
			w := edge.Cited
			if _, visited := indices[w]; !visited {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] && indices[w] < lowlink[v] {
				lowlink[v] = indices[w]
			}
		}

		if lowlink[v] == indices[v] {
			var comp []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			components = append(components, comp)
		}
	}

	for v := range g.trust {
		if _, visited := indices[v]; !visited {
			strongconnect(v)
		}
	}
	return components
}
