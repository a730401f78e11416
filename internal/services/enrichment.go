package services

import (
  "context"
  "encoding/json"
  "errors"
  "fmt"

  "gorm.io/gorm"

  "github.com/bionet-project/bionet-backend/internal/logger"
  apperrors "github.com/bionet-project/bionet-backend/internal/pkg/errors"
  "github.com/bionet-project/bionet-backend/internal/repos"
  "github.com/bionet-project/bionet-backend/internal/types"
)

// EnrichmentService returns per-gene AI-derived details, cached in the gene
// catalog so repeated lookups skip the external call. Enrichment never
// originates a gene row; the gene must exist from a prior analysis.
type EnrichmentService interface {
  GetOrFetchDetails(ctx context.Context, symbol string) (*types.GeneDetailsResponse, error)
}

type enrichmentService struct {
  log            *logger.Logger
  geneRepo       repos.GeneRepo
  ai             GeneAIClient
  diseaseContext string
}

func NewEnrichmentService(log *logger.Logger, geneRepo repos.GeneRepo, ai GeneAIClient, diseaseContext string) EnrichmentService {
  serviceLog := log.With("service", "EnrichmentService")
  return &enrichmentService{
    log:            serviceLog,
    geneRepo:       geneRepo,
    ai:             ai,
    diseaseContext: diseaseContext,
  }
}

func (s *enrichmentService) GetOrFetchDetails(ctx context.Context, symbol string) (*types.GeneDetailsResponse, error) {
  normalized := types.NormalizeSymbol(symbol)
  if normalized == "" {
    return nil, fmt.Errorf("%w: empty gene symbol", apperrors.ErrValidation)
  }

  gene, err := s.geneRepo.GetBySymbol(ctx, nil, normalized)
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, fmt.Errorf("%w: %s has not been analyzed", apperrors.ErrGeneNotFound, normalized)
    }
    return nil, fmt.Errorf("gene lookup failed: %w", err)
  }

  categoryName := types.FallbackCategoryName
  if gene.Category != nil {
    categoryName = gene.Category.Name
  }

  if gene.IsEnriched && len(gene.ExtendedData) > 0 {
    var details types.GeneDetails
    if err := json.Unmarshal(gene.ExtendedData, &details); err == nil {
      s.log.Debug("Enrichment cache hit", "symbol", normalized)
      return &types.GeneDetailsResponse{
        Symbol:      normalized,
        Description: gene.Description,
        Category:    categoryName,
        Details:     details,
        Cached:      true,
      }, nil
    }
    // Unreadable blob: fall through and re-fetch rather than serve garbage.
    s.log.Warn("Cached extended data unreadable, re-fetching", "symbol", normalized)
  }

  details, err := s.ai.Enrich(ctx, normalized, s.diseaseContext)
  if err != nil {
    // Nothing is cached on failure so a later retry can succeed.
    return nil, err
  }

  blob, err := json.Marshal(details)
  if err != nil {
    return nil, fmt.Errorf("details encode failed: %w", err)
  }
  if err := s.geneRepo.SetExtendedData(ctx, nil, normalized, blob); err != nil {
    return nil, fmt.Errorf("details persist failed: %w", err)
  }

  s.log.Info("Gene enriched", "symbol", normalized)
  return &types.GeneDetailsResponse{
    Symbol:      normalized,
    Description: gene.Description,
    Category:    categoryName,
    Details:     *details,
    Cached:      false,
  }, nil
}
