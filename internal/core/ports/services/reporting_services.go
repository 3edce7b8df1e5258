package services

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

// BalanceAggregatorSvc computes financial reports from posted vouchers.
type BalanceAggregatorSvc interface {
	// ComputeBalanceSheet parses asOf (YYYY-MM-DD, empty for today) and
	// returns the balance sheet as of the end of that day.
	ComputeBalanceSheet(ctx context.Context, asOf string) (*domain.BalanceSheet, error)
	TrialBalance(ctx context.Context, asOf string) (*domain.TrialBalance, error)
}
