package services

import (
  "bytes"
  "encoding/csv"
  "encoding/json"
  "fmt"
  "strconv"

  "github.com/bionet-project/bionet-backend/internal/logger"
  "github.com/bionet-project/bionet-backend/internal/types"
)

// ExportService renders a completed analysis result for download. Formatting
// only; it never touches the store.
type ExportService interface {
  ExportCSV(result *types.AnalysisResult) ([]byte, error)
  ExportJSON(result *types.AnalysisResult) ([]byte, error)
}

type exportService struct {
  log *logger.Logger
}

func NewExportService(log *logger.Logger) ExportService {
  return &exportService{log: log.With("service", "ExportService")}
}

func (s *exportService) ExportCSV(result *types.AnalysisResult) ([]byte, error) {
  var buf bytes.Buffer

  writeSection := func(title string, header []string, rows [][]string) error {
    buf.WriteString("=== " + title + " ===\n")
    w := csv.NewWriter(&buf)
    if err := w.Write(header); err != nil {
      return err
    }
    if err := w.WriteAll(rows); err != nil {
      return err
    }
    w.Flush()
    if err := w.Error(); err != nil {
      return err
    }
    buf.WriteString("\n")
    return nil
  }

  nodeRows := make([][]string, 0, len(result.Nodes))
  for _, n := range result.Nodes {
    nodeRows = append(nodeRows, []string{
      n.Symbol,
      formatFloat(n.DegreeCentrality),
      formatFloat(n.BetweennessCentrality),
      strconv.Itoa(n.ModuleID),
      strconv.Itoa(n.RawDegree),
      n.Category,
    })
  }
  if err := writeSection("NETWORK NODES", []string{"gene", "degree", "betweenness", "module", "connections", "category"}, nodeRows); err != nil {
    return nil, fmt.Errorf("csv nodes: %w", err)
  }

  edgeRows := make([][]string, 0, len(result.Edges))
  for _, e := range result.Edges {
    edgeRows = append(edgeRows, []string{e.Source, e.Target, formatFloat(e.Score)})
  }
  if err := writeSection("NETWORK EDGES", []string{"source", "target", "score"}, edgeRows); err != nil {
    return nil, fmt.Errorf("csv edges: %w", err)
  }

  hubRows := make([][]string, 0, len(result.Stats.TopHubs))
  for _, h := range result.Stats.TopHubs {
    hubRows = append(hubRows, []string{h.Symbol, strconv.Itoa(h.RawDegree), formatFloat(h.DegreeCentrality)})
  }
  if err := writeSection("TOP HUBS", []string{"gene", "degree", "centrality"}, hubRows); err != nil {
    return nil, fmt.Errorf("csv hubs: %w", err)
  }

  bottleneckRows := make([][]string, 0, len(result.Stats.TopBottlenecks))
  for _, b := range result.Stats.TopBottlenecks {
    bottleneckRows = append(bottleneckRows, []string{b.Symbol, formatFloat(b.BetweennessCentrality)})
  }
  if err := writeSection("TOP BOTTLENECKS", []string{"gene", "betweenness"}, bottleneckRows); err != nil {
    return nil, fmt.Errorf("csv bottlenecks: %w", err)
  }

  buf.WriteString("=== NETWORK STATISTICS ===\n")
  buf.WriteString(fmt.Sprintf("Total Nodes,%d\n", result.Stats.TotalNodes))
  buf.WriteString(fmt.Sprintf("Total Edges,%d\n", result.Stats.TotalEdges))
  buf.WriteString(fmt.Sprintf("Modules Detected,%d\n", result.Stats.ModulesDetected))

  return buf.Bytes(), nil
}

func (s *exportService) ExportJSON(result *types.AnalysisResult) ([]byte, error) {
  out, err := json.MarshalIndent(result, "", "  ")
  if err != nil {
    return nil, fmt.Errorf("json export: %w", err)
  }
  return out, nil
}

func formatFloat(f float64) string {
  return strconv.FormatFloat(f, 'f', 4, 64)
}
