package services

import (
  "context"
  "fmt"

  "github.com/bionet-project/bionet-backend/internal/clients/redis"
  "github.com/bionet-project/bionet-backend/internal/logger"
  "github.com/bionet-project/bionet-backend/internal/network"
  apperrors "github.com/bionet-project/bionet-backend/internal/pkg/errors"
  "github.com/bionet-project/bionet-backend/internal/repos"
  "github.com/bionet-project/bionet-backend/internal/types"
)

// AnalysisService ties the pipeline together: reconcile categories, build
// the interaction network, analyze its topology, and annotate nodes from the
// gene catalog. No review state is held between calls; a pending review
// lives entirely in the payload the caller round-trips.
type AnalysisService interface {
  // SubmitAnalysis returns either a completed result or a review payload,
  // never both.
  SubmitAnalysis(ctx context.Context, genes []string, threshold float64) (*types.AnalysisResult, *types.ReviewPayload, error)
  // SubmitApproval persists the payload's categories and genes, then runs
  // the analysis the review interrupted.
  SubmitApproval(ctx context.Context, payload *types.ReviewPayload) (*types.AnalysisResult, error)
  // CancelReview discards a pending review. Nothing was persisted, so there
  // is nothing to roll back.
  CancelReview(ctx context.Context)
}

type analysisService struct {
  log          *logger.Logger
  reconciler   CategoryReconciler
  builder      *network.Builder
  analyzer     *network.Analyzer
  geneRepo     repos.GeneRepo
  categoryRepo repos.CategoryRepo
  cache        redis.ResultCache
}

func NewAnalysisService(log *logger.Logger, reconciler CategoryReconciler, builder *network.Builder, analyzer *network.Analyzer, geneRepo repos.GeneRepo, categoryRepo repos.CategoryRepo, cache redis.ResultCache) AnalysisService {
  serviceLog := log.With("service", "AnalysisService")
  return &analysisService{
    log:          serviceLog,
    reconciler:   reconciler,
    builder:      builder,
    analyzer:     analyzer,
    geneRepo:     geneRepo,
    categoryRepo: categoryRepo,
    cache:        cache,
  }
}

func (s *analysisService) SubmitAnalysis(ctx context.Context, genes []string, threshold float64) (*types.AnalysisResult, *types.ReviewPayload, error) {
  if len(genes) == 0 {
    return nil, nil, fmt.Errorf("%w: empty gene list", apperrors.ErrValidation)
  }
  if threshold < 0 || threshold > 1 {
    return nil, nil, fmt.Errorf("%w: confidence threshold %v outside [0,1]", apperrors.ErrValidation, threshold)
  }

  review, err := s.reconciler.Reconcile(ctx, genes)
  if err != nil {
    return nil, nil, err
  }
  if review != nil {
    review.ConfidenceThreshold = threshold
    return nil, review, nil
  }

  result, err := s.runAnalysis(ctx, genes, threshold)
  if err != nil {
    return nil, nil, err
  }
  return result, nil, nil
}

func (s *analysisService) SubmitApproval(ctx context.Context, payload *types.ReviewPayload) (*types.AnalysisResult, error) {
  if payload == nil || len(payload.OriginalGeneList) == 0 {
    return nil, fmt.Errorf("%w: empty review payload", apperrors.ErrValidation)
  }
  threshold := payload.ConfidenceThreshold
  if threshold < 0 || threshold > 1 {
    return nil, fmt.Errorf("%w: confidence threshold %v outside [0,1]", apperrors.ErrValidation, threshold)
  }

  if err := s.reconciler.Approve(ctx, payload); err != nil {
    return nil, err
  }
  return s.runAnalysis(ctx, payload.OriginalGeneList, threshold)
}

func (s *analysisService) CancelReview(ctx context.Context) {
  s.log.Info("Review cancelled, nothing persisted")
}

func (s *analysisService) runAnalysis(ctx context.Context, genes []string, threshold float64) (*types.AnalysisResult, error) {
  normalized := normalizeSymbols(genes)

  if s.cache != nil {
    if cached, hit := s.cache.Get(ctx, normalized, threshold); hit {
      s.log.Debug("Analysis cache hit", "genes", len(normalized))
      return cached, nil
    }
  }

  built, err := s.builder.Build(ctx, normalized, threshold)
  if err != nil {
    return nil, err
  }

  analysis := s.analyzer.Analyze(built.Nodes, built.Edges)

  annotations, err := s.geneRepo.GetBySymbols(ctx, nil, built.Nodes)
  if err != nil {
    return nil, fmt.Errorf("annotation lookup failed: %w", err)
  }

  nodes := make([]types.NetworkNode, 0, len(analysis.Nodes))
  for _, metrics := range analysis.Nodes {
    category := types.FallbackCategoryName
    color := types.DefaultCategoryColor
    if gene, ok := annotations[metrics.Symbol]; ok && gene.Category != nil {
      category = gene.Category.Name
      color = gene.Category.Color
    }
    nodes = append(nodes, types.NetworkNode{
      Symbol:                metrics.Symbol,
      DegreeCentrality:      metrics.DegreeCentrality,
      BetweennessCentrality: metrics.BetweennessCentrality,
      ModuleID:              metrics.ModuleID,
      RawDegree:             metrics.RawDegree,
      Category:              category,
      Color:                 color,
    })
  }

  result := &types.AnalysisResult{
    Status: types.StatusComplete,
    Nodes:  nodes,
    Edges:  built.Edges,
    Stats: types.NetworkStats{
      TotalNodes:      len(nodes),
      TotalEdges:      len(built.Edges),
      ModulesDetected: analysis.ModulesDetected,
      TopHubs:         analysis.TopHubs,
      TopBottlenecks:  analysis.TopBottlenecks,
    },
    GenesFound:    built.GenesFound,
    GenesNotFound: built.GenesNotFound,
  }

  if s.cache != nil {
    s.cache.Set(ctx, normalized, threshold, result)
  }
  return result, nil
}
