package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ChartReader defines read operations over the chart of accounts.
type ChartReader interface {
	ListMainGroups(ctx context.Context) ([]domain.MainGroup, error)
	FindMainGroupByID(ctx context.Context, mainGroupID string) (*domain.MainGroup, error)
	ListSubgroups(ctx context.Context) ([]domain.Subgroup, error)
	GetSubgroupsByMainGroup(ctx context.Context, mainGroupID string) ([]domain.Subgroup, error)
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	FindAccountsBySubgroup(ctx context.Context, subgroupID string) ([]domain.Account, error)
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error)
}

// ChartTransactionSupport defines chart-of-accounts writes performed inside a transaction.
type ChartTransactionSupport interface {
	FindMainGroupByCode(ctx context.Context, code string) (*domain.MainGroup, error)
	FindMainGroupByIDInTx(ctx context.Context, mainGroupID string) (*domain.MainGroup, error)
	FindSubgroupByCode(ctx context.Context, code string) (*domain.Subgroup, error)
	InsertMainGroup(ctx context.Context, group domain.MainGroup) error
	InsertSubgroup(ctx context.Context, subgroup domain.Subgroup) error

	// LockSubgroup selects the subgroup FOR UPDATE so account sequences are
	// allocated one at a time.
	LockSubgroup(ctx context.Context, subgroupID string) (*domain.Subgroup, error)
	ListAccountCodesInSubgroup(ctx context.Context, subgroupID string) ([]string, error)
}

// AccountTransactionSupport defines account operations performed inside a transaction.
type AccountTransactionSupport interface {
	FindAccountByIDInTx(ctx context.Context, accountID string) (*domain.Account, error)
	FindAccountByCodeInTx(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByRole returns accounts tagged with role ordered by code.
	FindAccountsByRole(ctx context.Context, role domain.AccountRole) ([]domain.Account, error)

	// LockAccounts selects the accounts FOR UPDATE in a stable order.
	// Missing ids produce an AccountNotFoundError.
	LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ApplyBalanceChanges adds each change to the account's running balance
	// and marks the account as no longer deletable.
	ApplyBalanceChanges(ctx context.Context, changes map[string]decimal.Decimal, actor string, now time.Time) error

	InsertAccount(ctx context.Context, account domain.Account) error
	UpdateAccount(ctx context.Context, account domain.Account) error
	DeleteAccount(ctx context.Context, accountID string) error
}
