package repos

import (
  "context"
  "errors"

  "gorm.io/gorm"
  "gorm.io/gorm/clause"

  "github.com/bionet-project/bionet-backend/internal/logger"
  "github.com/bionet-project/bionet-backend/internal/types"
)

type CategoryRepo interface {
  GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Category, error)
  GetByNames(ctx context.Context, tx *gorm.DB, names []string) (map[string]*types.Category, error)
  // EnsureExists creates the named category with the given color unless a row
  // with that name already exists. A uniqueness conflict from a concurrent
  // insert is resolved by re-fetching the winning row, never surfaced.
  EnsureExists(ctx context.Context, tx *gorm.DB, name string, color string) (*types.Category, error)
}

type categoryRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
  repoLog := baseLog.With("repo", "CategoryRepo")
  return &categoryRepo{db: db, log: repoLog}
}

func (cr *categoryRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Category, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  var results []*types.Category
  if err := transaction.WithContext(ctx).
    Order("name asc").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (cr *categoryRepo) GetByNames(ctx context.Context, tx *gorm.DB, names []string) (map[string]*types.Category, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  result := map[string]*types.Category{}
  if len(names) == 0 {
    return result, nil
  }

  var rows []*types.Category
  if err := transaction.WithContext(ctx).
    Where("name IN ?", names).
    Find(&rows).Error; err != nil {
    return nil, err
  }
  for _, row := range rows {
    result[row.Name] = row
  }
  return result, nil
}

func (cr *categoryRepo) EnsureExists(ctx context.Context, tx *gorm.DB, name string, color string) (*types.Category, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  fetch := func() (*types.Category, error) {
    var existing types.Category
    err := transaction.WithContext(ctx).Where("name = ?", name).First(&existing).Error
    if err != nil {
      return nil, err
    }
    return &existing, nil
  }

  existing, err := fetch()
  if err == nil {
    return existing, nil
  }
  if !errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, err
  }

  // ON CONFLICT DO NOTHING so a lost race against a concurrent approval
  // never errors (and never aborts an enclosing postgres transaction); the
  // winning row is read back either way.
  created := &types.Category{Name: name, Color: color}
  if err := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:   []clause.Column{{Name: "name"}},
      DoNothing: true,
    }).
    Create(created).Error; err != nil {
    return nil, err
  }
  return fetch()
}
