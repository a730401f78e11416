package network

import (
  "context"
  "fmt"

  "github.com/bionet-project/bionet-backend/internal/clients/stringdb"
  "github.com/bionet-project/bionet-backend/internal/logger"
  apperrors "github.com/bionet-project/bionet-backend/internal/pkg/errors"
  "github.com/bionet-project/bionet-backend/internal/types"
)

// Builder constructs the per-request interaction graph from the external
// source. The graph lives only for the duration of one analysis.
type Builder struct {
  log *logger.Logger
  ppi stringdb.Client
}

func NewBuilder(log *logger.Logger, ppi stringdb.Client) *Builder {
  return &Builder{log: log.With("service", "NetworkBuilder"), ppi: ppi}
}

// BuildResult holds the deduplicated edge list plus bookkeeping about which
// input genes made it into the graph. Nodes are ordered by first appearance
// so downstream analysis is deterministic.
type BuildResult struct {
  Nodes         []string
  Edges         []types.Edge
  GenesFound    []string
  GenesNotFound []string
}

type pairKey struct {
  a string
  b string
}

func orderedPair(a, b string) pairKey {
  if a < b {
    return pairKey{a: a, b: b}
  }
  return pairKey{a: b, b: a}
}

// Build resolves the gene list against the interaction source and returns
// the scored edge set at or above the confidence threshold. Genes that fail
// resolution are collected in GenesNotFound, not treated as fatal. A source
// outage or malformed payload surfaces as UpstreamUnavailable so callers can
// distinguish "no known interactions" from "service down".
func (b *Builder) Build(ctx context.Context, genes []string, threshold float64) (*BuildResult, error) {
  if threshold < 0 || threshold > 1 {
    return nil, fmt.Errorf("%w: confidence threshold %v outside [0,1]", apperrors.ErrValidation, threshold)
  }

  cleaned := make([]string, 0, len(genes))
  seen := map[string]struct{}{}
  for _, g := range genes {
    symbol := types.NormalizeSymbol(g)
    if symbol == "" {
      continue
    }
    if _, dup := seen[symbol]; dup {
      continue
    }
    seen[symbol] = struct{}{}
    cleaned = append(cleaned, symbol)
  }
  if len(cleaned) == 0 {
    return nil, fmt.Errorf("%w: no valid genes provided", apperrors.ErrValidation)
  }

  resolved, err := b.ppi.ResolveIdentifiers(ctx, cleaned)
  if err != nil {
    return nil, err
  }

  ids := make([]string, 0, len(cleaned))
  idToSymbol := map[string]string{}
  notFound := make([]string, 0)
  for _, symbol := range cleaned {
    id, ok := resolved[symbol]
    if !ok {
      notFound = append(notFound, symbol)
      continue
    }
    ids = append(ids, id)
    idToSymbol[id] = symbol
  }

  if len(ids) == 0 {
    b.log.Warn("No genes resolved by interaction source", "requested", len(cleaned))
    return &BuildResult{
      Nodes:         []string{},
      Edges:         []types.Edge{},
      GenesFound:    []string{},
      GenesNotFound: notFound,
    }, nil
  }

  interactions, err := b.ppi.GetInteractions(ctx, ids, threshold)
  if err != nil {
    return nil, err
  }

  nodes := make([]string, 0)
  nodeSeen := map[string]struct{}{}
  edges := make([]types.Edge, 0, len(interactions))
  edgeIndex := map[pairKey]int{}

  addNode := func(symbol string) {
    if _, ok := nodeSeen[symbol]; !ok {
      nodeSeen[symbol] = struct{}{}
      nodes = append(nodes, symbol)
    }
  }

  for _, in := range interactions {
    // Defensive re-filter; the source is asked for the threshold already.
    if in.Score < threshold {
      continue
    }
    a := in.NameA
    if a == "" {
      a = idToSymbol[in.IDA]
    }
    bSym := in.NameB
    if bSym == "" {
      bSym = idToSymbol[in.IDB]
    }
    if a == "" || bSym == "" || a == bSym {
      continue
    }

    key := orderedPair(a, bSym)
    if idx, dup := edgeIndex[key]; dup {
      // Duplicate or reversed record; the score is symmetric, keep the max.
      if in.Score > edges[idx].Score {
        edges[idx].Score = in.Score
      }
      continue
    }
    edgeIndex[key] = len(edges)
    edges = append(edges, types.Edge{Source: key.a, Target: key.b, Score: in.Score})
    addNode(a)
    addNode(bSym)
  }

  found := make([]string, 0, len(cleaned))
  for _, symbol := range cleaned {
    if _, inGraph := nodeSeen[symbol]; inGraph {
      found = append(found, symbol)
    } else if _, resolvedOK := resolved[symbol]; resolvedOK {
      // Resolved but no interaction above threshold kept it in the graph.
      notFound = append(notFound, symbol)
    }
  }

  b.log.Info("Network built", "nodes", len(nodes), "edges", len(edges), "genes_found", len(found), "genes_not_found", len(notFound))
  return &BuildResult{
    Nodes:         nodes,
    Edges:         edges,
    GenesFound:    found,
    GenesNotFound: notFound,
  }, nil
}
