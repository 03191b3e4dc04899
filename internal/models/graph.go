package models

// SourceNode is a node in the citation graph. TrustScore is recomputed
// lazily on each query and cached on the node; it is not an authoritative
// stored truth.
type SourceNode struct {
	ID         string  `json:"id"`
	TrustScore float64 `json:"trust_score"`
	InDegree   int     `json:"in_degree"`
	OutDegree  int     `json:"out_degree"`
}

// CitationEdge is a directed citation from one source to another. Multiple
// parallel edges between the same pair are permitted; each carries its own
// article provenance.
type CitationEdge struct {
	Citing     string `json:"source"`
	Cited      string `json:"target"`
	ArticleURL string `json:"url,omitempty"`
}

// CircularReport is the result of circular-reporting detection for a source.
type CircularReport struct {
	Circular bool       `json:"circular"`
	Cycles   [][]string `json:"cycles,omitempty"`
	Count    int        `json:"cycle_count"`
	// Truncated is true when enumeration hit the configured cap; the report
	// is then a partial, not a silent undercount.
	Truncated bool   `json:"truncated,omitempty"`
	Warning   string `json:"warning,omitempty"`
}

// CitationNetwork is the induced subgraph around a source up to a BFS depth.
type CitationNetwork struct {
	Nodes []*SourceNode   `json:"nodes"`
	Edges []*CitationEdge `json:"edges"`
}
