package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

func readRevision(ctx context.Context, q querier) (int64, error) {
	var rev int64
	err := q.QueryRow(ctx, `SELECT value FROM sequences WHERE sequence_key = $1`, ledgerRevisionKey).Scan(&rev)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("error reading ledger revision: %w", err)
	}
	return rev, nil
}

// LedgerRevision returns 0 until the first ledger write.
func (r *reportingRepository) LedgerRevision(ctx context.Context) (int64, error) {
	return readRevision(ctx, r.Pool)
}

// ReadLedgerSnapshot reads the chart, the revision and the posted movements in
// one REPEATABLE READ transaction so every part reflects the same commit point.
func (r *reportingRepository) ReadLedgerSnapshot(ctx context.Context, asOf time.Time) (*domain.LedgerSnapshot, error) {
	tx, err := r.Begin(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	snap := &domain.LedgerSnapshot{
		AsOf:      domain.StartOfDay(asOf),
		Movements: make(map[string]domain.AccountMovement),
	}
	if snap.Revision, err = readRevision(ctx, tx); err != nil {
		return nil, err
	}
	if snap.MainGroups, err = queryMainGroups(ctx, tx); err != nil {
		return nil, err
	}
	if snap.Subgroups, err = querySubgroups(ctx, tx, ""); err != nil {
		return nil, err
	}
	if snap.Accounts, err = queryAccounts(ctx, tx, domain.AccountFilter{}); err != nil {
		return nil, err
	}

	query := `
		SELECT e.account_id, COALESCE(SUM(e.debit), 0), COALESCE(SUM(e.credit), 0)
		FROM voucher_entries e
		JOIN vouchers v ON v.voucher_id = e.voucher_id
		WHERE v.status = $1 AND v.voucher_date <= $2
		GROUP BY e.account_id`
	rows, err := tx.Query(ctx, query, domain.VoucherPosted, snap.AsOf)
	if err != nil {
		return nil, fmt.Errorf("error querying account movements: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			accountID     string
			debit, credit decimal.Decimal
		)
		if err := rows.Scan(&accountID, &debit, &credit); err != nil {
			return nil, fmt.Errorf("error scanning account movement row: %w", err)
		}
		snap.Movements[accountID] = domain.AccountMovement{Debit: debit, Credit: credit}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account movement rows: %w", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return snap, nil
}
