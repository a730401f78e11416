package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/bionet-project/bionet-backend/internal/logger"
	"github.com/bionet-project/bionet-backend/internal/types"
)

// ResultCache keeps completed analysis results for a short TTL keyed by the
// normalized gene set and threshold. It is a performance layer only; every
// caller must treat a miss or an error as "compute it".
type ResultCache interface {
	Get(ctx context.Context, genes []string, threshold float64) (*types.AnalysisResult, bool)
	Set(ctx context.Context, genes []string, threshold float64, result *types.AnalysisResult)
	Close() error
}

type resultCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewResultCache connects to redis when REDIS_ADDR is set. Callers should
// treat a constructor error as "run without a cache".
func NewResultCache(log *logger.Logger) (ResultCache, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	ttlSec := 300
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &resultCache{
		log: log.With("service", "ResultCache"),
		rdb: rdb,
		ttl: time.Duration(ttlSec) * time.Second,
	}, nil
}

func cacheKey(genes []string, threshold float64) string {
	sorted := make([]string, len(genes))
	copy(sorted, genes)
	sort.Strings(sorted)
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%.3f", strings.Join(sorted, ","), threshold)))
	return "bionet:analysis:" + hex.EncodeToString(sum[:])
}

func (c *resultCache) Get(ctx context.Context, genes []string, threshold float64) (*types.AnalysisResult, bool) {
	raw, err := c.rdb.Get(ctx, cacheKey(genes, threshold)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("Result cache read failed", "error", err)
		}
		return nil, false
	}
	var result types.AnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		c.log.Warn("Result cache entry unreadable", "error", err)
		return nil, false
	}
	return &result, true
}

func (c *resultCache) Set(ctx context.Context, genes []string, threshold float64, result *types.AnalysisResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(genes, threshold), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Result cache write failed", "error", err)
	}
}

func (c *resultCache) Close() error {
	return c.rdb.Close()
}
