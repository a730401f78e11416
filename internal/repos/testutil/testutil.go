package testutil

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/bionet-project/bionet-backend/internal/logger"
	"github.com/bionet-project/bionet-backend/internal/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var (
	logOnce sync.Once
	logg    *logger.Logger
	logErr  error

	dbSeq atomic.Int64
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB opens a fresh in-memory store per call so tests never share rows. The
// shared-cache DSN keeps the database alive across the pooled connections
// gorm opens.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := fmt.Sprintf("file:repotest%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("failed to init test db: %v", err)
	}

	if err := db.AutoMigrate(&types.Category{}, &types.Gene{}); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}
