package pgsql

import (
	"context"

	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// txManager runs each business operation in one READ COMMITTED transaction.
// Concurrent postings serialize on the account and sequence rows they lock.
type txManager struct {
	BaseRepository
}

func newTxManager(pool *pgxpool.Pool) portsrepo.TransactionManager {
	return &txManager{BaseRepository: BaseRepository{Pool: pool}}
}

func (m *txManager) RunInTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx, err := m.Begin(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	// Will be ignored if transaction is committed successfully
	defer m.Rollback(ctx, tx)

	if err := fn(ctx, &ledgerTx{tx: tx}); err != nil {
		return err
	}
	return m.Commit(ctx, tx)
}

// ledgerTx implements portsrepo.LedgerTx on top of a pgx transaction.
// Its methods are spread over the chart, account, voucher and sequence files.
type ledgerTx struct {
	tx pgx.Tx
}

var _ portsrepo.LedgerTx = (*ledgerTx)(nil)
