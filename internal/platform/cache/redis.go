package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces every report key of this service.
const keyPrefix = "erp_ledger:"

// DefaultTTL applies when no expiry is configured.
const DefaultTTL = 10 * time.Minute

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// ReportCache stores balance sheets in Redis as JSON. Keys carry the ledger
// revision, so entries never need explicit invalidation and simply expire.
type ReportCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ portsrepo.ReportCache = (*ReportCache)(nil)

// NewReportCache wraps a Redis client. A non-positive ttl uses DefaultTTL.
func NewReportCache(client redis.UniversalClient, ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ReportCache{client: client, ttl: ttl}
}

// GetBalanceSheet returns (nil, nil) on a miss.
func (c *ReportCache) GetBalanceSheet(ctx context.Context, key string) (*domain.BalanceSheet, error) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	var bs domain.BalanceSheet
	if err := json.Unmarshal(data, &bs); err != nil {
		// A payload written by an incompatible version is treated as a miss.
		c.client.Del(ctx, keyPrefix+key)
		return nil, nil
	}
	return &bs, nil
}

func (c *ReportCache) SetBalanceSheet(ctx context.Context, key string, report *domain.BalanceSheet) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}
