package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/platform/cache"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real server, e.g. REDIS_URL=redis://localhost:6379/15
func TestReportCache_RoundTrip(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	ctx := context.Background()
	client, err := cache.Connect(ctx, url)
	require.NoError(t, err)
	defer client.Close()

	c := cache.NewReportCache(client, time.Minute)
	key := "balance-sheet:test:" + uuid.NewString()

	miss, err := c.GetBalanceSheet(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, miss)

	bs := &domain.BalanceSheet{
		AsOf:           time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		LedgerRevision: 3,
		TotalAssets:    decimal.RequireFromString("199.00"),
		IsBalanced:     true,
	}
	require.NoError(t, c.SetBalanceSheet(ctx, key, bs))

	got, err := c.GetBalanceSheet(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(3), got.LedgerRevision)
	assert.True(t, got.TotalAssets.Equal(bs.TotalAssets))
	assert.True(t, got.IsBalanced)

	ttl, err := client.TTL(ctx, "erp_ledger:"+key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := cache.Connect(context.Background(), "http://not-redis")
	assert.Error(t, err)
}
