package pgsql

import (
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager: newTxManager(dbPool),
		Chart:     newChartReader(dbPool),
		Vouchers:  newVoucherReader(dbPool),
		Reporting: newReportingRepository(dbPool),
	}
}
