package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

// ReportingRepository reads the data behind financial reports.
type ReportingRepository interface {
	// LedgerRevision returns the current revision counter.
	LedgerRevision(ctx context.Context) (int64, error)

	// ReadLedgerSnapshot reads the chart of accounts and the per-account sums of
	// posted entries dated on or before asOf from a single read snapshot.
	ReadLedgerSnapshot(ctx context.Context, asOf time.Time) (*domain.LedgerSnapshot, error)
}

// ReportCache stores computed balance sheets. A miss returns (nil, nil).
type ReportCache interface {
	GetBalanceSheet(ctx context.Context, key string) (*domain.BalanceSheet, error)
	SetBalanceSheet(ctx context.Context, key string, report *domain.BalanceSheet) error
}
