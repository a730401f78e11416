package network

import (
  "math"
  "testing"

  "github.com/bionet-project/bionet-backend/internal/logger"
  "github.com/bionet-project/bionet-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
  t.Helper()
  log, err := logger.New("test")
  if err != nil {
    t.Fatalf("logger: %v", err)
  }
  return log
}

func almostEqual(a, b float64) bool {
  return math.Abs(a-b) < 1e-9
}

func metricsBySymbol(nodes []NodeMetrics) map[string]NodeMetrics {
  out := map[string]NodeMetrics{}
  for _, n := range nodes {
    out[n.Symbol] = n
  }
  return out
}

func TestAnalyzePathGraph(t *testing.T) {
  a := NewAnalyzer(testLogger(t), 5)

  // A - B - C - D
  nodes := []string{"A", "B", "C", "D"}
  edges := []types.Edge{
    {Source: "A", Target: "B", Score: 0.9},
    {Source: "B", Target: "C", Score: 0.9},
    {Source: "C", Target: "D", Score: 0.9},
  }

  got := a.Analyze(nodes, edges)
  if len(got.Nodes) != 4 {
    t.Fatalf("expected 4 nodes, got %d", len(got.Nodes))
  }
  m := metricsBySymbol(got.Nodes)

  if !almostEqual(m["A"].DegreeCentrality, 1.0/3) || !almostEqual(m["B"].DegreeCentrality, 2.0/3) {
    t.Fatalf("degree centrality: A=%v B=%v", m["A"].DegreeCentrality, m["B"].DegreeCentrality)
  }
  if m["B"].RawDegree != 2 || m["D"].RawDegree != 1 {
    t.Fatalf("raw degree: B=%d D=%d", m["B"].RawDegree, m["D"].RawDegree)
  }

  // Interior nodes each sit on 2 of the 3 endpoint pairs.
  if !almostEqual(m["B"].BetweennessCentrality, 2.0/3) || !almostEqual(m["C"].BetweennessCentrality, 2.0/3) {
    t.Fatalf("betweenness: B=%v C=%v", m["B"].BetweennessCentrality, m["C"].BetweennessCentrality)
  }
  if !almostEqual(m["A"].BetweennessCentrality, 0) || !almostEqual(m["D"].BetweennessCentrality, 0) {
    t.Fatalf("betweenness endpoints: A=%v D=%v", m["A"].BetweennessCentrality, m["D"].BetweennessCentrality)
  }
}

func TestAnalyzeStarHubRanking(t *testing.T) {
  a := NewAnalyzer(testLogger(t), 2)

  nodes := []string{"HUB", "X1", "X2", "X3", "X4"}
  edges := []types.Edge{
    {Source: "HUB", Target: "X1", Score: 0.5},
    {Source: "HUB", Target: "X2", Score: 0.5},
    {Source: "HUB", Target: "X3", Score: 0.5},
    {Source: "HUB", Target: "X4", Score: 0.5},
  }

  got := a.Analyze(nodes, edges)
  if len(got.TopHubs) != 2 {
    t.Fatalf("expected topN=2 hubs, got %d", len(got.TopHubs))
  }
  if got.TopHubs[0].Symbol != "HUB" || got.TopHubs[0].RawDegree != 4 {
    t.Fatalf("top hub: %+v", got.TopHubs[0])
  }
  // Leaves tie on degree; lexical order breaks the tie.
  if got.TopHubs[1].Symbol != "X1" {
    t.Fatalf("tie break: expected X1, got %s", got.TopHubs[1].Symbol)
  }
  if got.TopBottlenecks[0].Symbol != "HUB" {
    t.Fatalf("top bottleneck: %+v", got.TopBottlenecks[0])
  }
  // A star's center lies on every leaf pair.
  if !almostEqual(got.TopBottlenecks[0].BetweennessCentrality, 1.0) {
    t.Fatalf("star center betweenness: %v", got.TopBottlenecks[0].BetweennessCentrality)
  }
}

func TestAnalyzeEmptyAndSingle(t *testing.T) {
  a := NewAnalyzer(testLogger(t), 5)

  empty := a.Analyze(nil, nil)
  if len(empty.Nodes) != 0 || empty.ModulesDetected != 0 || len(empty.TopHubs) != 0 {
    t.Fatalf("empty graph: %+v", empty)
  }

  single := a.Analyze([]string{"TP53"}, nil)
  if len(single.Nodes) != 1 || single.ModulesDetected != 1 {
    t.Fatalf("single node: %+v", single)
  }
  n := single.Nodes[0]
  if n.DegreeCentrality != 0 || n.BetweennessCentrality != 0 || n.ModuleID != 0 {
    t.Fatalf("single node metrics: %+v", n)
  }
}

func TestAnalyzeDuplicateEdgesCountOnce(t *testing.T) {
  a := NewAnalyzer(testLogger(t), 5)

  nodes := []string{"A", "B"}
  edges := []types.Edge{
    {Source: "A", Target: "B", Score: 0.9},
    {Source: "B", Target: "A", Score: 0.8},
    {Source: "A", Target: "A", Score: 0.9},
  }

  got := a.Analyze(nodes, edges)
  m := metricsBySymbol(got.Nodes)
  if m["A"].RawDegree != 1 || m["B"].RawDegree != 1 {
    t.Fatalf("reversed duplicate or self loop counted: A=%d B=%d", m["A"].RawDegree, m["B"].RawDegree)
  }
}

func TestDetectModulesTwoClusters(t *testing.T) {
  a := NewAnalyzer(testLogger(t), 5)

  // Two triangles joined by one bridge edge.
  nodes := []string{"A", "B", "C", "D", "E", "F"}
  edges := []types.Edge{
    {Source: "A", Target: "B", Score: 0.9},
    {Source: "B", Target: "C", Score: 0.9},
    {Source: "A", Target: "C", Score: 0.9},
    {Source: "D", Target: "E", Score: 0.9},
    {Source: "E", Target: "F", Score: 0.9},
    {Source: "D", Target: "F", Score: 0.9},
    {Source: "C", Target: "D", Score: 0.9},
  }

  got := a.Analyze(nodes, edges)
  if got.ModulesDetected != 2 {
    t.Fatalf("expected 2 modules, got %d", got.ModulesDetected)
  }
  m := metricsBySymbol(got.Nodes)
  if m["A"].ModuleID != m["B"].ModuleID || m["B"].ModuleID != m["C"].ModuleID {
    t.Fatalf("first triangle split: A=%d B=%d C=%d", m["A"].ModuleID, m["B"].ModuleID, m["C"].ModuleID)
  }
  if m["D"].ModuleID != m["E"].ModuleID || m["E"].ModuleID != m["F"].ModuleID {
    t.Fatalf("second triangle split: D=%d E=%d F=%d", m["D"].ModuleID, m["E"].ModuleID, m["F"].ModuleID)
  }
  if m["A"].ModuleID == m["D"].ModuleID {
    t.Fatalf("triangles merged into one module")
  }
  // Ids are numbered by smallest member, so A's cluster is module 0.
  if m["A"].ModuleID != 0 || m["D"].ModuleID != 1 {
    t.Fatalf("module numbering: A=%d D=%d", m["A"].ModuleID, m["D"].ModuleID)
  }

  // The bridge endpoints carry all the cross-cluster traffic.
  if got.TopBottlenecks[0].Symbol != "C" && got.TopBottlenecks[0].Symbol != "D" {
    t.Fatalf("expected bridge endpoint on top, got %s", got.TopBottlenecks[0].Symbol)
  }
}

func TestDetectModulesIsolatedNodes(t *testing.T) {
  a := NewAnalyzer(testLogger(t), 5)

  got := a.Analyze([]string{"A", "B", "C"}, []types.Edge{{Source: "A", Target: "B", Score: 0.9}})
  if got.ModulesDetected != 2 {
    t.Fatalf("expected 2 modules, got %d", got.ModulesDetected)
  }
  m := metricsBySymbol(got.Nodes)
  if m["A"].ModuleID != m["B"].ModuleID {
    t.Fatalf("connected pair split: A=%d B=%d", m["A"].ModuleID, m["B"].ModuleID)
  }
  if m["C"].ModuleID == m["A"].ModuleID {
    t.Fatalf("isolated node joined a module")
  }
}

func TestAnalyzeDeterministic(t *testing.T) {
  a := NewAnalyzer(testLogger(t), 5)

  nodes := []string{"A", "B", "C", "D", "E"}
  edges := []types.Edge{
    {Source: "A", Target: "B", Score: 0.9},
    {Source: "B", Target: "C", Score: 0.9},
    {Source: "C", Target: "A", Score: 0.9},
    {Source: "C", Target: "D", Score: 0.9},
    {Source: "D", Target: "E", Score: 0.9},
  }

  first := a.Analyze(nodes, edges)
  for run := 0; run < 10; run++ {
    again := a.Analyze(nodes, edges)
    if again.ModulesDetected != first.ModulesDetected {
      t.Fatalf("run %d: module count changed: %d vs %d", run, again.ModulesDetected, first.ModulesDetected)
    }
    for i := range first.Nodes {
      if again.Nodes[i] != first.Nodes[i] {
        t.Fatalf("run %d: node %d changed: %+v vs %+v", run, i, again.Nodes[i], first.Nodes[i])
      }
    }
  }
}
