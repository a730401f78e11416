package db

import (
  "fmt"
  "strings"

  "gorm.io/driver/postgres"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"

  "github.com/bionet-project/bionet-backend/internal/logger"
  "github.com/bionet-project/bionet-backend/internal/types"
  "github.com/bionet-project/bionet-backend/internal/utils"
)

type Service struct {
  db  *gorm.DB
  log *logger.Logger
}

// New opens the relational store. DB_DRIVER selects postgres (default) or
// sqlite; sqlite keeps local development and tests self-contained.
func New(log *logger.Logger) (*Service, error) {
  serviceLog := log.With("service", "DBService")

  driver := strings.ToLower(utils.GetEnv("DB_DRIVER", "postgres", log))

  var dialector gorm.Dialector
  switch driver {
  case "sqlite":
    path := utils.GetEnv("SQLITE_PATH", "bionet.db", log)
    dialector = sqlite.Open(path)
  default:
    postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
    postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
    postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
    postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
    postgresName := utils.GetEnv("POSTGRES_NAME", "bionet", log)
    dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)
    dialector = postgres.Open(dsn)
  }

  log.Info("Connecting to database...", "driver", driver)
  gdb, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
  if err != nil {
    serviceLog.Error("Failed to connect to database", "driver", driver, "error", err)
    return nil, fmt.Errorf("failed to connect to database: %w", err)
  }

  return &Service{db: gdb, log: serviceLog}, nil
}

func (s *Service) AutoMigrateAll() error {
  s.log.Info("Auto migrating tables...")
  err := s.db.AutoMigrate(
    &types.Category{},
    &types.Gene{},
  )
  if err != nil {
    s.log.Error("Auto migration failed", "error", err)
    return err
  }
  return nil
}

func (s *Service) DB() *gorm.DB {
  return s.db
}
