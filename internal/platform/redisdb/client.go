package redisdb

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ironvale/inventory-backend/internal/platform/logger"
)

// NewClient dials Redis and verifies the connection. Callers treat Redis as
// optional; a nil client disables caching.
func NewClient(addr string, log *logger.Logger) (*goredis.Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}

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

	if log != nil {
		log.Info("redis connected", "addr", addr)
	}
	return rdb, nil
}
