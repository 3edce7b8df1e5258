package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReportingRepo struct {
	mock.Mock
}

func (m *mockReportingRepo) LedgerRevision(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReportingRepo) ReadLedgerSnapshot(ctx context.Context, asOf time.Time) (*domain.LedgerSnapshot, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerSnapshot), args.Error(1)
}

type mockReportCache struct {
	mock.Mock
}

func (m *mockReportCache) GetBalanceSheet(ctx context.Context, key string) (*domain.BalanceSheet, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheet), args.Error(1)
}

func (m *mockReportCache) SetBalanceSheet(ctx context.Context, key string, report *domain.BalanceSheet) error {
	args := m.Called(ctx, key, report)
	return args.Error(0)
}

var reportDay = time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

func tinySnapshot(revision int64) *domain.LedgerSnapshot {
	return &domain.LedgerSnapshot{
		AsOf:     reportDay,
		Revision: revision,
		MainGroups: []domain.MainGroup{
			{MainGroupID: "g1", Code: "1", Category: domain.CategoryAsset},
			{MainGroupID: "g5", Code: "5", Category: domain.CategoryCapital},
		},
		Subgroups: []domain.Subgroup{
			{SubgroupID: "s101", Code: "101", MainGroupID: "g1"},
			{SubgroupID: "s501", Code: "501", MainGroupID: "g5"},
		},
		Accounts: []domain.Account{
			{AccountID: "cash", Code: "101001", SubgroupID: "s101", OpeningBalance: dec("500")},
			{AccountID: "cap", Code: "501001", SubgroupID: "s501", OpeningBalance: dec("500")},
		},
		Movements: map[string]domain.AccountMovement{},
	}
}

func TestBalanceSheetCacheKey(t *testing.T) {
	assert.Equal(t, "balance-sheet:2026-03-31:r12", services.BalanceSheetCacheKey(reportDay, 12))
}

func TestBalanceAggregator_CacheMissStoresUnderSnapshotRevision(t *testing.T) {
	ctx := context.Background()
	repo := new(mockReportingRepo)
	cache := new(mockReportCache)

	repo.On("LedgerRevision", ctx).Return(int64(4), nil)
	cache.On("GetBalanceSheet", ctx, "balance-sheet:2026-03-31:r4").Return(nil, nil)
	repo.On("ReadLedgerSnapshot", ctx, reportDay).Return(tinySnapshot(5), nil)
	cache.On("SetBalanceSheet", ctx, "balance-sheet:2026-03-31:r5", mock.AnythingOfType("*domain.BalanceSheet")).Return(nil)

	svc := services.NewBalanceAggregator(repo, cache)
	bs, err := svc.ComputeBalanceSheet(ctx, "2026-03-31")
	require.NoError(t, err)
	assert.Equal(t, "500.00", bs.TotalAssets.StringFixed(2))
	assert.True(t, bs.IsBalanced)
	assert.Equal(t, int64(5), bs.LedgerRevision)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestBalanceAggregator_CacheHitSkipsSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := new(mockReportingRepo)
	cache := new(mockReportCache)
	cached := &domain.BalanceSheet{AsOf: reportDay, LedgerRevision: 9, IsBalanced: true}

	repo.On("LedgerRevision", ctx).Return(int64(9), nil)
	cache.On("GetBalanceSheet", ctx, "balance-sheet:2026-03-31:r9").Return(cached, nil)

	svc := services.NewBalanceAggregator(repo, cache)
	bs, err := svc.ComputeBalanceSheet(ctx, "2026-03-31")
	require.NoError(t, err)
	assert.Same(t, cached, bs)

	repo.AssertNotCalled(t, "ReadLedgerSnapshot", mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "SetBalanceSheet", mock.Anything, mock.Anything, mock.Anything)
}

func TestBalanceAggregator_CacheFailuresAreNotFatal(t *testing.T) {
	ctx := context.Background()
	repo := new(mockReportingRepo)
	cache := new(mockReportCache)

	repo.On("LedgerRevision", ctx).Return(int64(1), nil)
	cache.On("GetBalanceSheet", ctx, mock.Anything).Return(nil, errors.New("connection refused"))
	repo.On("ReadLedgerSnapshot", ctx, reportDay).Return(tinySnapshot(1), nil)
	cache.On("SetBalanceSheet", ctx, mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	svc := services.NewBalanceAggregator(repo, cache)
	bs, err := svc.ComputeBalanceSheet(ctx, "2026-03-31")
	require.NoError(t, err)
	assert.True(t, bs.IsBalanced)
}

func TestBalanceAggregator_Errors(t *testing.T) {
	ctx := context.Background()
	repo := new(mockReportingRepo)
	svc := services.NewBalanceAggregator(repo, nil)

	_, err := svc.ComputeBalanceSheet(ctx, "31-03-2026")
	var badDate *apperrors.InvalidDateError
	require.ErrorAs(t, err, &badDate)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	repo.On("ReadLedgerSnapshot", ctx, reportDay).Return(nil, errors.New("db down"))
	_, err = svc.ComputeBalanceSheet(ctx, "2026-03-31")
	assert.Error(t, err)
	_, err = svc.TrialBalance(ctx, "2026-03-31")
	assert.Error(t, err)
	repo.AssertNotCalled(t, "LedgerRevision", mock.Anything)
}

func TestBalanceAggregator_DefaultsToToday(t *testing.T) {
	ctx := context.Background()
	repo := new(mockReportingRepo)
	today := time.Date(2026, 3, 31, 18, 45, 0, 0, time.UTC)
	repo.On("ReadLedgerSnapshot", ctx, reportDay).Return(tinySnapshot(2), nil)

	svc := services.NewBalanceAggregator(repo, nil, services.WithClock(func() time.Time { return today }))
	tb, err := svc.TrialBalance(ctx, "")
	require.NoError(t, err)
	assert.True(t, tb.IsBalanced)
	assert.Equal(t, "500.00", tb.TotalDebit.StringFixed(2))
	repo.AssertExpectations(t)
}
