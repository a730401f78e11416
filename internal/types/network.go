package types

// Edge is one undirected interaction between two gene symbols. Score is the
// source's confidence in [0,1].
type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Score  float64 `json:"score"`
}

// NetworkNode is one analyzed node with its topology metrics and the
// category annotation resolved from the gene catalog.
type NetworkNode struct {
	Symbol                string  `json:"symbol"`
	DegreeCentrality      float64 `json:"degree_centrality"`
	BetweennessCentrality float64 `json:"betweenness_centrality"`
	ModuleID              int     `json:"module_id"`
	RawDegree             int     `json:"raw_degree"`
	Category              string  `json:"category"`
	Color                 string  `json:"color"`
}

type HubEntry struct {
	Symbol           string  `json:"symbol"`
	RawDegree        int     `json:"raw_degree"`
	DegreeCentrality float64 `json:"degree_centrality"`
}

type BottleneckEntry struct {
	Symbol                string  `json:"symbol"`
	BetweennessCentrality float64 `json:"betweenness_centrality"`
}

type NetworkStats struct {
	TotalNodes      int               `json:"total_nodes"`
	TotalEdges      int               `json:"total_edges"`
	ModulesDetected int               `json:"modules_detected"`
	TopHubs         []HubEntry        `json:"top_hubs"`
	TopBottlenecks  []BottleneckEntry `json:"top_bottlenecks"`
}

// AnalysisResult is the completed response for one analysis request. The
// graph itself is never persisted; only gene and category rows survive the
// request.
type AnalysisResult struct {
	Status        string        `json:"status"`
	Nodes         []NetworkNode `json:"nodes"`
	Edges         []Edge        `json:"edges"`
	Stats         NetworkStats  `json:"stats"`
	GenesFound    []string      `json:"genes_found"`
	GenesNotFound []string      `json:"genes_not_found"`
}

// PendingGene is a classified gene awaiting category approval. It exists
// only inside a review round trip and is never stored until approval.
type PendingGene struct {
	Symbol      string `json:"symbol"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// ReviewPayload is returned when the classifier proposes categories that do
// not exist yet. The caller round-trips it unchanged on approval; the server
// holds no review state between the two calls.
type ReviewPayload struct {
	Status              string        `json:"status"`
	NewCategories       []string      `json:"new_categories"`
	PendingGenes        []PendingGene `json:"pending_genes"`
	OriginalGeneList    []string      `json:"original_gene_list"`
	ConfidenceThreshold float64       `json:"confidence_threshold"`
}

const (
	StatusComplete       = "complete"
	StatusReviewRequired = "review_required"
)
