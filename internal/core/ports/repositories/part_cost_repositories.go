package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PartCostSupport keeps the last recorded purchase cost of each part.
type PartCostSupport interface {
	RecordPartCosts(ctx context.Context, costs map[string]decimal.Decimal, now time.Time) error
	FindPartCosts(ctx context.Context, partIDs []string) (map[string]decimal.Decimal, error)
}
