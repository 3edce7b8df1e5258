package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/platform/metrics"
	"github.com/SscSPs/erp_ledger/internal/utils/accounting"
)

// balanceAggregator computes reports from a consistent snapshot of the ledger.
type balanceAggregator struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	cache         portsrepo.ReportCache
}

// NewBalanceAggregator creates a new BalanceAggregatorSvc. cache may be nil.
func NewBalanceAggregator(repo portsrepo.ReportingRepository, cache portsrepo.ReportCache, options ...ServiceOption) portssvc.BalanceAggregatorSvc {
	svc := &balanceAggregator{reportingRepo: repo, cache: cache}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.BalanceAggregatorSvc = (*balanceAggregator)(nil)

// BalanceSheetCacheKey identifies a balance sheet of one ledger revision.
func BalanceSheetCacheKey(asOf time.Time, revision int64) string {
	return fmt.Sprintf("balance-sheet:%s:r%d", asOf.Format(domain.DateLayout), revision)
}

func (s *balanceAggregator) cachedBalanceSheet(ctx context.Context, asOf time.Time) *domain.BalanceSheet {
	if s.cache == nil {
		return nil
	}
	rev, err := s.reportingRepo.LedgerRevision(ctx)
	if err != nil {
		s.LogWarn(ctx, "Ledger revision unavailable, skipping report cache", slog.String("error", err.Error()))
		return nil
	}
	bs, err := s.cache.GetBalanceSheet(ctx, BalanceSheetCacheKey(asOf, rev))
	if err != nil {
		s.LogWarn(ctx, "Report cache read failed", slog.String("error", err.Error()))
		return nil
	}
	return bs
}

// ComputeBalanceSheet returns the balance sheet as of the end of asOf.
// An unbalanced ledger or a net-income mismatch is reported on the result,
// never as an error.
func (s *balanceAggregator) ComputeBalanceSheet(ctx context.Context, asOf string) (*domain.BalanceSheet, error) {
	start := time.Now()
	date, err := domain.ParseDate(asOf, s.Now())
	if err != nil {
		return nil, err
	}

	if bs := s.cachedBalanceSheet(ctx, date); bs != nil {
		metrics.ReportDuration.WithLabelValues("balance_sheet", "hit").Observe(time.Since(start).Seconds())
		s.LogDebug(ctx, "Balance sheet served from cache", slog.String("asOf", date.Format(domain.DateLayout)))
		return bs, nil
	}

	snap, err := s.reportingRepo.ReadLedgerSnapshot(ctx, date)
	if err != nil {
		s.LogError(ctx, err, "Failed to read ledger snapshot", slog.String("asOf", date.Format(domain.DateLayout)))
		return nil, fmt.Errorf("failed to read ledger snapshot: %w", err)
	}
	bs := accounting.BuildBalanceSheet(*snap)

	if !bs.IsBalanced || !bs.NetIncomeConsistent {
		metrics.ReportImbalancesTotal.Inc()
		s.LogWarn(ctx, "Balance sheet inconsistency",
			slog.String("asOf", date.Format(domain.DateLayout)),
			slog.Bool("is_balanced", bs.IsBalanced),
			slog.String("difference", bs.Difference.StringFixed(2)),
			slog.String("net_income_variance", bs.NetIncomeVariance.StringFixed(2)))
	}
	for _, w := range bs.Warnings {
		s.LogDebug(ctx, "Balance sheet warning", slog.String("warning", w))
	}

	if s.cache != nil {
		if err := s.cache.SetBalanceSheet(ctx, BalanceSheetCacheKey(date, snap.Revision), bs); err != nil {
			s.LogWarn(ctx, "Report cache write failed", slog.String("error", err.Error()))
		}
	}

	metrics.ReportDuration.WithLabelValues("balance_sheet", "miss").Observe(time.Since(start).Seconds())
	s.LogInfo(ctx, "Balance sheet computed",
		slog.String("asOf", date.Format(domain.DateLayout)),
		slog.Int64("revision", snap.Revision),
		slog.Bool("is_balanced", bs.IsBalanced))
	return bs, nil
}

// TrialBalance lists closing balances as of the end of asOf.
func (s *balanceAggregator) TrialBalance(ctx context.Context, asOf string) (*domain.TrialBalance, error) {
	start := time.Now()
	date, err := domain.ParseDate(asOf, s.Now())
	if err != nil {
		return nil, err
	}
	snap, err := s.reportingRepo.ReadLedgerSnapshot(ctx, date)
	if err != nil {
		s.LogError(ctx, err, "Failed to read ledger snapshot", slog.String("asOf", date.Format(domain.DateLayout)))
		return nil, fmt.Errorf("failed to read ledger snapshot: %w", err)
	}
	tb := accounting.BuildTrialBalance(*snap)
	metrics.ReportDuration.WithLabelValues("trial_balance", "none").Observe(time.Since(start).Seconds())
	s.LogInfo(ctx, "Trial balance generated",
		slog.String("asOf", date.Format(domain.DateLayout)),
		slog.Int("row_count", len(tb.Rows)))
	return tb, nil
}
