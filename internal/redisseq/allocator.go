// Package redisseq allocates per-company, per-year case numbers from Redis counters.
package redisseq

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Lllllllleong/lawsuitflow/internal/config"
)

// keyTTL keeps a year's counter around long enough to cover the whole year plus late filings.
const keyTTL = 400 * 24 * time.Hour

// NewClient builds a pooled client and pings it.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// Allocator issues numbers shaped like LC-2024-000123.
type Allocator struct {
	client *redis.Client
	now    func() time.Time
}

func New(client *redis.Client) *Allocator {
	return &Allocator{client: client, now: time.Now}
}

// Key is the counter for one company and year.
func Key(companyID string, year int) string {
	return fmt.Sprintf("case_seq:%s:%d", companyID, year)
}

// Format renders a sequence value as a case number.
func Format(year int, seq int64) string {
	return fmt.Sprintf("LC-%d-%06d", year, seq)
}

func (a *Allocator) NextCaseNumber(ctx context.Context, companyID string) (string, error) {
	year := a.now().UTC().Year()
	key := Key(companyID, year)

	seq, err := a.client.Incr(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("incr %s: %w", key, err)
	}
	if seq == 1 {
		// First number of the year. A failed expire only leaves the key around longer.
		_ = a.client.Expire(ctx, key, keyTTL).Err()
	}
	return Format(year, seq), nil
}
