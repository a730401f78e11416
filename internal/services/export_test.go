package services

import (
  "encoding/json"
  "strings"
  "testing"

  "github.com/bionet-project/bionet-backend/internal/repos/testutil"
  "github.com/bionet-project/bionet-backend/internal/types"
)

func sampleResult() *types.AnalysisResult {
  return &types.AnalysisResult{
    Status: types.StatusComplete,
    Nodes: []types.NetworkNode{
      {Symbol: "TP53", DegreeCentrality: 1, BetweennessCentrality: 0, ModuleID: 0, RawDegree: 1, Category: "Tumor Suppressor", Color: "#ff3333"},
      {Symbol: "BRCA1", DegreeCentrality: 1, BetweennessCentrality: 0, ModuleID: 0, RawDegree: 1, Category: "Tumor Suppressor", Color: "#ff3333"},
    },
    Edges: []types.Edge{{Source: "BRCA1", Target: "TP53", Score: 0.95}},
    Stats: types.NetworkStats{
      TotalNodes:      2,
      TotalEdges:      1,
      ModulesDetected: 1,
      TopHubs:         []types.HubEntry{{Symbol: "TP53", RawDegree: 1, DegreeCentrality: 1}},
      TopBottlenecks:  []types.BottleneckEntry{{Symbol: "TP53", BetweennessCentrality: 0}},
    },
    GenesFound:    []string{"TP53", "BRCA1"},
    GenesNotFound: []string{},
  }
}

func TestExportCSVSections(t *testing.T) {
  s := NewExportService(testutil.Logger(t))

  out, err := s.ExportCSV(sampleResult())
  if err != nil {
    t.Fatalf("ExportCSV: %v", err)
  }
  text := string(out)

  for _, section := range []string{
    "=== NETWORK NODES ===",
    "=== NETWORK EDGES ===",
    "=== TOP HUBS ===",
    "=== TOP BOTTLENECKS ===",
    "=== NETWORK STATISTICS ===",
  } {
    if !strings.Contains(text, section) {
      t.Fatalf("missing section %q in:\n%s", section, text)
    }
  }
  if !strings.Contains(text, "TP53,1.0000,0.0000,0,1,Tumor Suppressor") {
    t.Fatalf("node row missing in:\n%s", text)
  }
  if !strings.Contains(text, "BRCA1,TP53,0.9500") {
    t.Fatalf("edge row missing in:\n%s", text)
  }
  if !strings.Contains(text, "Total Nodes,2") || !strings.Contains(text, "Modules Detected,1") {
    t.Fatalf("stats rows missing in:\n%s", text)
  }
}

func TestExportJSONRoundTrip(t *testing.T) {
  s := NewExportService(testutil.Logger(t))

  out, err := s.ExportJSON(sampleResult())
  if err != nil {
    t.Fatalf("ExportJSON: %v", err)
  }

  var round types.AnalysisResult
  if err := json.Unmarshal(out, &round); err != nil {
    t.Fatalf("unmarshal: %v", err)
  }
  if round.Status != types.StatusComplete || len(round.Nodes) != 2 || round.Stats.TotalEdges != 1 {
    t.Fatalf("round trip: %+v", round)
  }
}
