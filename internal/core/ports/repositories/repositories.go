package repositories

// RepositoryProvider bundles the repositories a storage driver provides.
type RepositoryProvider struct {
	TxManager TransactionManager
	Chart     ChartReader
	Vouchers  VoucherReader
	Reporting ReportingRepository
}
