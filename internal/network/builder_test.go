package network

import (
  "context"
  "errors"
  "testing"

  "github.com/bionet-project/bionet-backend/internal/clients/stringdb"
  apperrors "github.com/bionet-project/bionet-backend/internal/pkg/errors"
)

type fakePPI struct {
  resolved     map[string]string
  interactions []stringdb.Interaction
  resolveErr   error
  interactErr  error
}

func (f *fakePPI) ResolveIdentifiers(ctx context.Context, symbols []string) (map[string]string, error) {
  if f.resolveErr != nil {
    return nil, f.resolveErr
  }
  out := map[string]string{}
  for _, s := range symbols {
    if id, ok := f.resolved[s]; ok {
      out[s] = id
    }
  }
  return out, nil
}

func (f *fakePPI) GetInteractions(ctx context.Context, ids []string, minScore float64) ([]stringdb.Interaction, error) {
  if f.interactErr != nil {
    return nil, f.interactErr
  }
  return f.interactions, nil
}

func (f *fakePPI) GetAnnotation(ctx context.Context, symbol string) (*stringdb.ProteinInfo, error) {
  return nil, errors.New("not used")
}

func TestBuildRejectsBadThreshold(t *testing.T) {
  b := NewBuilder(testLogger(t), &fakePPI{})

  for _, threshold := range []float64{-0.1, 1.1} {
    if _, err := b.Build(context.Background(), []string{"TP53"}, threshold); !errors.Is(err, apperrors.ErrValidation) {
      t.Fatalf("threshold %v: expected validation error, got %v", threshold, err)
    }
  }
  if _, err := b.Build(context.Background(), nil, 0.4); !errors.Is(err, apperrors.ErrValidation) {
    t.Fatalf("empty list: expected validation error, got %v", err)
  }
  if _, err := b.Build(context.Background(), []string{"  ", ""}, 0.4); !errors.Is(err, apperrors.ErrValidation) {
    t.Fatalf("blank symbols: expected validation error, got %v", err)
  }
}

func TestBuildDeduplicatesEdges(t *testing.T) {
  ppi := &fakePPI{
    resolved: map[string]string{"TP53": "9606.1", "BRCA1": "9606.2", "EGFR": "9606.3"},
    interactions: []stringdb.Interaction{
      {IDA: "9606.1", IDB: "9606.2", NameA: "TP53", NameB: "BRCA1", Score: 0.9},
      {IDA: "9606.2", IDB: "9606.1", NameA: "BRCA1", NameB: "TP53", Score: 0.95},
      {IDA: "9606.1", IDB: "9606.3", NameA: "TP53", NameB: "EGFR", Score: 0.2},
      {IDA: "9606.1", IDB: "9606.1", NameA: "TP53", NameB: "TP53", Score: 0.9},
    },
  }
  b := NewBuilder(testLogger(t), ppi)

  // Input casing and duplicates are normalized away.
  got, err := b.Build(context.Background(), []string{"tp53", "TP53 ", "BRCA1", "EGFR"}, 0.4)
  if err != nil {
    t.Fatalf("Build: %v", err)
  }
  if len(got.Edges) != 1 {
    t.Fatalf("expected 1 edge after dedupe, got %d", len(got.Edges))
  }
  e := got.Edges[0]
  if e.Score != 0.95 {
    t.Fatalf("reversed duplicate should keep max score, got %v", e.Score)
  }
  if e.Source != "BRCA1" || e.Target != "TP53" {
    t.Fatalf("edge endpoints not ordered: %+v", e)
  }
  if len(got.Nodes) != 2 {
    t.Fatalf("expected 2 nodes, got %v", got.Nodes)
  }
  // EGFR resolved but its only interaction fell below the threshold.
  if len(got.GenesFound) != 2 || len(got.GenesNotFound) != 1 || got.GenesNotFound[0] != "EGFR" {
    t.Fatalf("bookkeeping: found=%v notFound=%v", got.GenesFound, got.GenesNotFound)
  }
}

func TestBuildUnresolvedGenes(t *testing.T) {
  ppi := &fakePPI{
    resolved: map[string]string{"TP53": "9606.1", "BRCA1": "9606.2"},
    interactions: []stringdb.Interaction{
      {IDA: "9606.1", IDB: "9606.2", NameA: "TP53", NameB: "BRCA1", Score: 0.9},
    },
  }
  b := NewBuilder(testLogger(t), ppi)

  got, err := b.Build(context.Background(), []string{"TP53", "BRCA1", "NOTAGENE"}, 0.4)
  if err != nil {
    t.Fatalf("Build: %v", err)
  }
  if len(got.GenesNotFound) != 1 || got.GenesNotFound[0] != "NOTAGENE" {
    t.Fatalf("unresolved gene missing from bookkeeping: %v", got.GenesNotFound)
  }
  if len(got.GenesFound) != 2 {
    t.Fatalf("resolved genes: %v", got.GenesFound)
  }
}

func TestBuildNothingResolves(t *testing.T) {
  b := NewBuilder(testLogger(t), &fakePPI{resolved: map[string]string{}})

  got, err := b.Build(context.Background(), []string{"FAKE1", "FAKE2"}, 0.4)
  if err != nil {
    t.Fatalf("expected empty result, not error: %v", err)
  }
  if len(got.Nodes) != 0 || len(got.Edges) != 0 {
    t.Fatalf("expected empty graph: %+v", got)
  }
  if len(got.GenesNotFound) != 2 {
    t.Fatalf("expected both genes reported missing: %v", got.GenesNotFound)
  }
}

func TestBuildUpstreamFailure(t *testing.T) {
  upstream := &fakePPI{resolveErr: apperrors.ErrUpstreamUnavailable}
  b := NewBuilder(testLogger(t), upstream)

  if _, err := b.Build(context.Background(), []string{"TP53"}, 0.4); !errors.Is(err, apperrors.ErrUpstreamUnavailable) {
    t.Fatalf("expected upstream error, got %v", err)
  }
}
