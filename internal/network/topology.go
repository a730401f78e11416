package network

import (
  "sort"

  "github.com/bionet-project/bionet-backend/internal/logger"
  "github.com/bionet-project/bionet-backend/internal/types"
)

// Analyzer computes topology metrics over one built graph. Everything here
// is deterministic given the same node and edge order: reproducibility of
// the partition and rankings is part of the contract.
type Analyzer struct {
  log  *logger.Logger
  topN int
}

func NewAnalyzer(log *logger.Logger, topN int) *Analyzer {
  if topN <= 0 {
    topN = 5
  }
  return &Analyzer{log: log.With("service", "TopologyAnalyzer"), topN: topN}
}

// NodeMetrics is the per-node record produced by Analyze, before category
// annotation.
type NodeMetrics struct {
  Symbol                string
  DegreeCentrality      float64
  BetweennessCentrality float64
  ModuleID              int
  RawDegree             int
}

type Analysis struct {
  Nodes           []NodeMetrics
  ModulesDetected int
  TopHubs         []types.HubEntry
  TopBottlenecks  []types.BottleneckEntry
}

type adjacency struct {
  index     map[string]int
  symbols   []string
  neighbors [][]int
}

// buildAdjacency indexes nodes in insertion order; edge endpoints missing
// from the node list are appended, so callers may pass only seed nodes.
func buildAdjacency(nodes []string, edges []types.Edge) *adjacency {
  adj := &adjacency{index: map[string]int{}}
  add := func(symbol string) int {
    if i, ok := adj.index[symbol]; ok {
      return i
    }
    i := len(adj.symbols)
    adj.index[symbol] = i
    adj.symbols = append(adj.symbols, symbol)
    adj.neighbors = append(adj.neighbors, nil)
    return i
  }
  for _, n := range nodes {
    add(n)
  }
  seenPair := map[pairKey]struct{}{}
  for _, e := range edges {
    a := add(e.Source)
    b := add(e.Target)
    if a == b {
      continue
    }
    key := orderedPair(e.Source, e.Target)
    if _, dup := seenPair[key]; dup {
      continue
    }
    seenPair[key] = struct{}{}
    adj.neighbors[a] = append(adj.neighbors[a], b)
    adj.neighbors[b] = append(adj.neighbors[b], a)
  }
  return adj
}

// Analyze computes degree centrality, betweenness centrality and the module
// partition for the given graph. An empty graph produces a well-formed empty
// result.
func (a *Analyzer) Analyze(nodes []string, edges []types.Edge) *Analysis {
  adj := buildAdjacency(nodes, edges)
  n := len(adj.symbols)

  result := &Analysis{
    Nodes:          []NodeMetrics{},
    TopHubs:        []types.HubEntry{},
    TopBottlenecks: []types.BottleneckEntry{},
  }
  if n == 0 {
    return result
  }

  degree := make([]int, n)
  for i := range adj.neighbors {
    degree[i] = len(adj.neighbors[i])
  }

  // Degree centrality normalized by (n-1); a single-node graph has no
  // possible neighbors, so centrality is defined as 0.
  degCent := make([]float64, n)
  if n > 1 {
    for i := range degCent {
      degCent[i] = float64(degree[i]) / float64(n-1)
    }
  }

  betweenness := a.betweenness(adj)
  moduleIDs, moduleCount := detectModules(adj)

  result.Nodes = make([]NodeMetrics, n)
  for i := 0; i < n; i++ {
    result.Nodes[i] = NodeMetrics{
      Symbol:                adj.symbols[i],
      DegreeCentrality:      degCent[i],
      BetweennessCentrality: betweenness[i],
      ModuleID:              moduleIDs[i],
      RawDegree:             degree[i],
    }
  }
  result.ModulesDetected = moduleCount

  result.TopHubs = a.rankHubs(result.Nodes)
  result.TopBottlenecks = a.rankBottlenecks(result.Nodes)

  a.log.Debug("Topology analysis complete", "nodes", n, "edges", len(edges), "modules", moduleCount)
  return result
}

// betweenness runs Brandes' accumulation from every source over the
// unweighted graph, then applies the standard undirected normalization
// 1/((n-1)(n-2)) to the doubled pair counts.
func (a *Analyzer) betweenness(adj *adjacency) []float64 {
  n := len(adj.symbols)
  scores := make([]float64, n)
  if n < 3 {
    return scores
  }

  dist := make([]int, n)
  paths := make([]float64, n)
  delta := make([]float64, n)
  pred := make([][]int, n)
  order := make([]int, 0, n)
  queue := make([]int, 0, n)

  for source := 0; source < n; source++ {
    for i := 0; i < n; i++ {
      dist[i] = -1
      paths[i] = 0
      delta[i] = 0
      pred[i] = pred[i][:0]
    }
    order = order[:0]
    queue = queue[:0]

    dist[source] = 0
    paths[source] = 1
    queue = append(queue, source)

    for len(queue) > 0 {
      curr := queue[0]
      queue = queue[1:]
      order = append(order, curr)

      for _, next := range adj.neighbors[curr] {
        if dist[next] < 0 {
          dist[next] = dist[curr] + 1
          queue = append(queue, next)
        }
        if dist[next] == dist[curr]+1 {
          paths[next] += paths[curr]
          pred[next] = append(pred[next], curr)
        }
      }
    }

    for i := len(order) - 1; i >= 0; i-- {
      w := order[i]
      for _, v := range pred[w] {
        if paths[w] > 0 {
          delta[v] += (paths[v] / paths[w]) * (1 + delta[w])
        }
      }
      if w != source {
        scores[w] += delta[w]
      }
    }
  }

  // Each unordered pair was counted from both endpoints.
  scale := 1.0 / (float64(n-1) * float64(n-2))
  for i := range scores {
    scores[i] *= scale
  }
  return scores
}

func (a *Analyzer) rankHubs(nodes []NodeMetrics) []types.HubEntry {
  ranked := make([]NodeMetrics, len(nodes))
  copy(ranked, nodes)
  sort.SliceStable(ranked, func(i, j int) bool {
    if ranked[i].DegreeCentrality != ranked[j].DegreeCentrality {
      return ranked[i].DegreeCentrality > ranked[j].DegreeCentrality
    }
    return ranked[i].Symbol < ranked[j].Symbol
  })
  top := a.topN
  if top > len(ranked) {
    top = len(ranked)
  }
  out := make([]types.HubEntry, 0, top)
  for _, node := range ranked[:top] {
    out = append(out, types.HubEntry{
      Symbol:           node.Symbol,
      RawDegree:        node.RawDegree,
      DegreeCentrality: node.DegreeCentrality,
    })
  }
  return out
}

func (a *Analyzer) rankBottlenecks(nodes []NodeMetrics) []types.BottleneckEntry {
  ranked := make([]NodeMetrics, len(nodes))
  copy(ranked, nodes)
  sort.SliceStable(ranked, func(i, j int) bool {
    if ranked[i].BetweennessCentrality != ranked[j].BetweennessCentrality {
      return ranked[i].BetweennessCentrality > ranked[j].BetweennessCentrality
    }
    return ranked[i].Symbol < ranked[j].Symbol
  })
  top := a.topN
  if top > len(ranked) {
    top = len(ranked)
  }
  out := make([]types.BottleneckEntry, 0, top)
  for _, node := range ranked[:top] {
    out = append(out, types.BottleneckEntry{
      Symbol:                node.Symbol,
      BetweennessCentrality: node.BetweennessCentrality,
    })
  }
  return out
}
