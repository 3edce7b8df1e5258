package services

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/dto"
)

// ChartReaderSvc defines the read-only chart-of-accounts lookups.
type ChartReaderSvc interface {
	ListMainGroups(ctx context.Context) ([]domain.MainGroup, error)
	GetSubgroupsByMainGroup(ctx context.Context, mainGroupID string) ([]domain.Subgroup, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	FindAccountsBySubgroup(ctx context.Context, subgroupID string) ([]domain.Account, error)
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error)
}

// ChartWriterSvc defines chart-of-accounts setup operations.
type ChartWriterSvc interface {
	CreateMainGroup(ctx context.Context, req dto.CreateMainGroupRequest, actor string) (*domain.MainGroup, error)
	CreateSubgroup(ctx context.Context, req dto.CreateSubgroupRequest, actor string) (*domain.Subgroup, error)
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor string) (*domain.Account, error)
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actor string) (*domain.Account, error)
	DeleteAccount(ctx context.Context, accountID string, actor string) error
}

// ChartSeederSvc installs a chart definition.
type ChartSeederSvc interface {
	// SeedChart creates every group and account of the definition that does
	// not exist yet. Running it twice creates nothing the second time.
	SeedChart(ctx context.Context, chart domain.ChartDefinition, actor string) (*dto.SeedChartResponse, error)
}

// ChartSvcFacade combines all chart-of-accounts service interfaces.
type ChartSvcFacade interface {
	ChartReaderSvc
	ChartWriterSvc
	ChartSeederSvc
}
