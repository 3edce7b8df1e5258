package services

import (
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// cache may be nil, in which case reports are always computed.
func NewServiceContainer(repos portsrepo.RepositoryProvider, cache portsrepo.ReportCache, options ...ServiceOption) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Chart:      NewChartService(repos.TxManager, repos.Chart, options...),
		Voucher:    NewVoucherService(repos.TxManager, repos.Vouchers, options...),
		Poster:     NewLedgerPoster(repos.TxManager, options...),
		Aggregator: NewBalanceAggregator(repos.Reporting, cache, options...),
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.ChartSvcFacade       = (*chartService)(nil)
	_ portssvc.VoucherSvcFacade     = (*voucherService)(nil)
	_ portssvc.LedgerPosterSvc      = (*ledgerPoster)(nil)
	_ portssvc.BalanceAggregatorSvc = (*balanceAggregator)(nil)
)
