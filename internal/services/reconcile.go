package services

import (
  "context"
  "fmt"

  "golang.org/x/sync/errgroup"
  "gorm.io/gorm"

  "github.com/bionet-project/bionet-backend/internal/logger"
  apperrors "github.com/bionet-project/bionet-backend/internal/pkg/errors"
  "github.com/bionet-project/bionet-backend/internal/repos"
  "github.com/bionet-project/bionet-backend/internal/types"
)

// CategoryReconciler decides how AI-proposed categories enter the shared
// taxonomy. Nothing is persisted while a review is pending, and approval is
// all-or-nothing for the batch presented in one review.
type CategoryReconciler interface {
  // Reconcile classifies genes missing from the catalog. When every proposed
  // category already exists the genes are persisted immediately and the
  // returned payload is nil. When any category is new, nothing is persisted
  // and the full pending batch comes back for review.
  Reconcile(ctx context.Context, symbols []string) (*types.ReviewPayload, error)
  // Approve creates the payload's new categories (idempotently, safe under
  // concurrent approvals of the same name) and persists the pending genes.
  Approve(ctx context.Context, payload *types.ReviewPayload) error
}

type categoryReconciler struct {
  db             *gorm.DB
  log            *logger.Logger
  geneRepo       repos.GeneRepo
  categoryRepo   repos.CategoryRepo
  ai             GeneAIClient
  diseaseContext string
  classifyLimit  int
}

func NewCategoryReconciler(db *gorm.DB, log *logger.Logger, geneRepo repos.GeneRepo, categoryRepo repos.CategoryRepo, ai GeneAIClient, diseaseContext string) CategoryReconciler {
  serviceLog := log.With("service", "CategoryReconciler")
  return &categoryReconciler{
    db:             db,
    log:            serviceLog,
    geneRepo:       geneRepo,
    categoryRepo:   categoryRepo,
    ai:             ai,
    diseaseContext: diseaseContext,
    classifyLimit:  5,
  }
}

func normalizeSymbols(symbols []string) []string {
  cleaned := make([]string, 0, len(symbols))
  seen := map[string]struct{}{}
  for _, s := range symbols {
    symbol := types.NormalizeSymbol(s)
    if symbol == "" {
      continue
    }
    if _, dup := seen[symbol]; dup {
      continue
    }
    seen[symbol] = struct{}{}
    cleaned = append(cleaned, symbol)
  }
  return cleaned
}

func (r *categoryReconciler) Reconcile(ctx context.Context, symbols []string) (*types.ReviewPayload, error) {
  cleaned := normalizeSymbols(symbols)
  if len(cleaned) == 0 {
    return nil, fmt.Errorf("%w: no valid genes provided", apperrors.ErrValidation)
  }

  existing, err := r.geneRepo.GetBySymbols(ctx, nil, cleaned)
  if err != nil {
    return nil, fmt.Errorf("gene lookup failed: %w", err)
  }

  missing := make([]string, 0)
  for _, symbol := range cleaned {
    if _, ok := existing[symbol]; !ok {
      missing = append(missing, symbol)
    }
  }
  if len(missing) == 0 {
    r.log.Debug("All genes already cataloged", "count", len(cleaned))
    return nil, nil
  }

  r.log.Info("Classifying uncataloged genes", "count", len(missing))

  // Classifier calls run outside any store transaction; a per-gene failure
  // degrades that gene to the fallback category instead of aborting the
  // batch.
  annotations := make([]*GeneAnnotation, len(missing))
  group, groupCtx := errgroup.WithContext(ctx)
  group.SetLimit(r.classifyLimit)
  for i, symbol := range missing {
    group.Go(func() error {
      ann, err := r.ai.Classify(groupCtx, symbol, r.diseaseContext)
      if err != nil {
        r.log.Warn("Classification degraded, using fallback category", "symbol", symbol, "error", err)
        ann = &GeneAnnotation{
          Description: fmt.Sprintf("Gene %s (auto-enrichment pending)", symbol),
          Category:    types.FallbackCategoryName,
        }
      }
      // The classifier interface does not promise normalized names, and the
      // taxonomy namespace is case-normalized.
      ann.Category = types.NormalizeCategoryName(ann.Category)
      if ann.Category == "" {
        ann.Category = types.FallbackCategoryName
      }
      annotations[i] = ann
      return nil
    })
  }
  if err := group.Wait(); err != nil {
    return nil, err
  }

  proposedNames := make([]string, 0)
  nameSeen := map[string]struct{}{}
  for _, ann := range annotations {
    if _, dup := nameSeen[ann.Category]; dup {
      continue
    }
    nameSeen[ann.Category] = struct{}{}
    proposedNames = append(proposedNames, ann.Category)
  }

  existingCats, err := r.categoryRepo.GetByNames(ctx, nil, proposedNames)
  if err != nil {
    return nil, fmt.Errorf("category lookup failed: %w", err)
  }

  newNames := make([]string, 0)
  for _, name := range proposedNames {
    if _, ok := existingCats[name]; !ok {
      newNames = append(newNames, name)
    }
  }

  if len(newNames) > 0 {
    // Pending review: return the entire batch, including genes whose
    // category already exists, so approval can persist everything at once.
    pending := make([]types.PendingGene, len(missing))
    for i, symbol := range missing {
      pending[i] = types.PendingGene{
        Symbol:      symbol,
        Category:    annotations[i].Category,
        Description: annotations[i].Description,
      }
    }
    r.log.Info("New categories require review", "new_categories", newNames)
    return &types.ReviewPayload{
      Status:           types.StatusReviewRequired,
      NewCategories:    newNames,
      PendingGenes:     pending,
      OriginalGeneList: cleaned,
    }, nil
  }

  genesToInsert := make([]*types.Gene, 0, len(missing))
  for i, symbol := range missing {
    cat := existingCats[annotations[i].Category]
    catID := cat.ID
    genesToInsert = append(genesToInsert, &types.Gene{
      Symbol:      symbol,
      CategoryID:  &catID,
      Description: annotations[i].Description,
    })
  }

  if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    _, err := r.geneRepo.Create(ctx, tx, genesToInsert)
    return err
  }); err != nil {
    return nil, fmt.Errorf("gene persist failed: %w", err)
  }
  r.log.Info("Cataloged new genes", "count", len(genesToInsert))
  return nil, nil
}

func (r *categoryReconciler) Approve(ctx context.Context, payload *types.ReviewPayload) error {
  if payload == nil || len(payload.PendingGenes) == 0 {
    return fmt.Errorf("%w: empty review payload", apperrors.ErrValidation)
  }

  return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    for _, rawName := range payload.NewCategories {
      name := types.NormalizeCategoryName(rawName)
      if name == "" {
        return fmt.Errorf("%w: empty category name", apperrors.ErrValidation)
      }
      if _, err := r.categoryRepo.EnsureExists(ctx, tx, name, types.DefaultCategoryColor); err != nil {
        return fmt.Errorf("category create failed for %q: %w", name, err)
      }
    }

    catNames := make([]string, 0, len(payload.PendingGenes))
    for _, pg := range payload.PendingGenes {
      catNames = append(catNames, types.NormalizeCategoryName(pg.Category))
    }
    cats, err := r.categoryRepo.GetByNames(ctx, tx, catNames)
    if err != nil {
      return fmt.Errorf("category lookup failed: %w", err)
    }

    symbols := make([]string, 0, len(payload.PendingGenes))
    for _, pg := range payload.PendingGenes {
      symbols = append(symbols, types.NormalizeSymbol(pg.Symbol))
    }
    already, err := r.geneRepo.GetBySymbols(ctx, tx, symbols)
    if err != nil {
      return fmt.Errorf("gene lookup failed: %w", err)
    }

    genesToInsert := make([]*types.Gene, 0, len(payload.PendingGenes))
    for _, pg := range payload.PendingGenes {
      symbol := types.NormalizeSymbol(pg.Symbol)
      if _, dup := already[symbol]; dup {
        // A concurrent approval already persisted this gene.
        continue
      }
      cat, ok := cats[types.NormalizeCategoryName(pg.Category)]
      if !ok {
        return fmt.Errorf("%w: pending gene %s references unknown category %q", apperrors.ErrValidation, symbol, pg.Category)
      }
      catID := cat.ID
      genesToInsert = append(genesToInsert, &types.Gene{
        Symbol:      symbol,
        CategoryID:  &catID,
        Description: pg.Description,
      })
    }

    if _, err := r.geneRepo.Create(ctx, tx, genesToInsert); err != nil {
      return fmt.Errorf("pending gene persist failed: %w", err)
    }
    r.log.Info("Review approved", "new_categories", len(payload.NewCategories), "genes_persisted", len(genesToInsert))
    return nil
  })
}
