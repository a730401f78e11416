package repos

import (
  "context"

  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/bionet-project/bionet-backend/internal/logger"
  "github.com/bionet-project/bionet-backend/internal/types"
)

type GeneRepo interface {
  Create(ctx context.Context, tx *gorm.DB, genes []*types.Gene) ([]*types.Gene, error)
  GetBySymbol(ctx context.Context, tx *gorm.DB, symbol string) (*types.Gene, error)
  GetBySymbols(ctx context.Context, tx *gorm.DB, symbols []string) (map[string]*types.Gene, error)
  SetExtendedData(ctx context.Context, tx *gorm.DB, symbol string, data datatypes.JSON) error
}

type geneRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewGeneRepo(db *gorm.DB, baseLog *logger.Logger) GeneRepo {
  repoLog := baseLog.With("repo", "GeneRepo")
  return &geneRepo{db: db, log: repoLog}
}

func (gr *geneRepo) Create(ctx context.Context, tx *gorm.DB, genes []*types.Gene) ([]*types.Gene, error) {
  transaction := tx
  if transaction == nil {
    transaction = gr.db
  }

  if len(genes) == 0 {
    return []*types.Gene{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&genes).Error; err != nil {
    return nil, err
  }
  return genes, nil
}

func (gr *geneRepo) GetBySymbol(ctx context.Context, tx *gorm.DB, symbol string) (*types.Gene, error) {
  transaction := tx
  if transaction == nil {
    transaction = gr.db
  }

  var result types.Gene
  if err := transaction.WithContext(ctx).
    Preload("Category").
    Where("symbol = ?", symbol).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (gr *geneRepo) GetBySymbols(ctx context.Context, tx *gorm.DB, symbols []string) (map[string]*types.Gene, error) {
  transaction := tx
  if transaction == nil {
    transaction = gr.db
  }

  result := map[string]*types.Gene{}
  if len(symbols) == 0 {
    return result, nil
  }

  var rows []*types.Gene
  if err := transaction.WithContext(ctx).
    Preload("Category").
    Where("symbol IN ?", symbols).
    Find(&rows).Error; err != nil {
    return nil, err
  }
  for _, row := range rows {
    result[row.Symbol] = row
  }
  return result, nil
}

func (gr *geneRepo) SetExtendedData(ctx context.Context, tx *gorm.DB, symbol string, data datatypes.JSON) error {
  transaction := tx
  if transaction == nil {
    transaction = gr.db
  }

  return transaction.WithContext(ctx).
    Model(&types.Gene{}).
    Where("symbol = ?", symbol).
    Updates(map[string]interface{}{
      "extended_data": data,
      "is_enriched":   true,
    }).Error
}
