package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/erp_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// postedSourceConstraint allows one posted voucher per DPO or sales invoice.
const postedSourceConstraint = "uq_vouchers_posted_source"

// Drafts have no number yet; the column is NULL until posting.
const voucherSelect = `
	SELECT v.voucher_id, COALESCE(v.voucher_number, ''), v.voucher_type, v.voucher_date, v.narration,
	       v.cash_bank_account_id, v.status, v.total_debit, v.total_credit, v.source_type, v.source_ref,
	       v.posted_at, v.cancelled_at, v.created_at, v.created_by, v.last_updated_at, v.last_updated_by
	FROM vouchers v`

func scanVoucher(row pgx.Row) (domain.Voucher, error) {
	var v domain.Voucher
	err := row.Scan(&v.VoucherID, &v.VoucherNumber, &v.Type, &v.Date, &v.Narration,
		&v.CashBankAccountID, &v.Status, &v.TotalDebit, &v.TotalCredit, &v.SourceType, &v.SourceRef,
		&v.PostedAt, &v.CancelledAt, &v.CreatedAt, &v.CreatedBy, &v.LastUpdatedAt, &v.LastUpdatedBy)
	return v, err
}

// findVoucher loads a header by column and attaches its entries.
func findVoucher(ctx context.Context, q querier, where string, value string, suffix string) (*domain.Voucher, error) {
	v, err := scanVoucher(q.QueryRow(ctx, voucherSelect+` WHERE `+where+` `+suffix, value))
	if err != nil {
		return nil, mapReadError(err, "voucher", value)
	}
	if err := attachEntries(ctx, q, []*domain.Voucher{&v}); err != nil {
		return nil, err
	}
	return &v, nil
}

// attachEntries loads the entries of all given vouchers in one query.
func attachEntries(ctx context.Context, q querier, vouchers []*domain.Voucher) error {
	if len(vouchers) == 0 {
		return nil
	}
	ids := make([]string, len(vouchers))
	byID := make(map[string]*domain.Voucher, len(vouchers))
	for i, v := range vouchers {
		ids[i] = v.VoucherID
		byID[v.VoucherID] = v
		v.Entries = []domain.VoucherEntry{}
	}

	rows, err := q.Query(ctx, `
		SELECT e.entry_id, e.voucher_id, e.account_id, a.code, a.name, e.description,
		       e.debit, e.credit, e.sort_order
		FROM voucher_entries e
		JOIN accounts a ON a.account_id = e.account_id
		WHERE e.voucher_id = ANY($1)
		ORDER BY e.voucher_id, e.sort_order`, ids)
	if err != nil {
		return fmt.Errorf("failed to query voucher entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e domain.VoucherEntry
		if err := rows.Scan(&e.EntryID, &e.VoucherID, &e.AccountID, &e.AccountCode, &e.AccountName,
			&e.Description, &e.Debit, &e.Credit, &e.SortOrder); err != nil {
			return fmt.Errorf("failed to scan voucher entry row: %w", err)
		}
		if v, ok := byID[e.VoucherID]; ok {
			v.Entries = append(v.Entries, e)
		}
	}
	return rows.Err()
}

// voucherReader serves voucher reads from the pool.
type voucherReader struct {
	BaseRepository
}

func newVoucherReader(pool *pgxpool.Pool) portsrepo.VoucherReader {
	return &voucherReader{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.VoucherReader = (*voucherReader)(nil)

func (r *voucherReader) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	return findVoucher(ctx, r.Pool, "v.voucher_id = $1", voucherID, "")
}

func (r *voucherReader) FindVoucherByNumber(ctx context.Context, voucherNumber string) (*domain.Voucher, error) {
	return findVoucher(ctx, r.Pool, "UPPER(v.voucher_number) = UPPER($1)", voucherNumber, "")
}

// ListVouchers pages by (voucher_date, created_at, voucher_id) descending.
// One extra row is fetched to decide whether another page exists.
func (r *voucherReader) ListVouchers(ctx context.Context, filter domain.VoucherFilter, limit int, nextToken *string) ([]domain.Voucher, *string, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Number != "" {
		conds = append(conds, "UPPER(v.voucher_number) = UPPER("+arg(filter.Number)+")")
	}
	if filter.Type != "" {
		conds = append(conds, "v.voucher_type = "+arg(string(filter.Type)))
	}
	if filter.Status != "" {
		conds = append(conds, "v.status = "+arg(string(filter.Status)))
	}
	if filter.FromDate != nil {
		conds = append(conds, "v.voucher_date >= "+arg(*filter.FromDate))
	}
	if filter.ToDate != nil {
		conds = append(conds, "v.voucher_date <= "+arg(*filter.ToDate))
	}
	if filter.Search != "" {
		p := arg("%" + escapeLike(filter.Search) + "%")
		conds = append(conds, fmt.Sprintf(`(v.voucher_number ILIKE %[1]s OR v.narration ILIKE %[1]s OR v.source_ref ILIKE %[1]s
			OR EXISTS (SELECT 1 FROM voucher_entries se WHERE se.voucher_id = v.voucher_id AND se.description ILIKE %[1]s))`, p))
	}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, err
		}
		conds = append(conds, fmt.Sprintf("(v.voucher_date, v.created_at, v.voucher_id) < (%s, %s, %s)",
			arg(cursor.Date), arg(cursor.CreatedAt), arg(cursor.ID)))
	}

	query := voucherSelect
	if len(conds) > 0 {
		query += "\n\tWHERE " + strings.Join(conds, "\n\t  AND ")
	}
	query += "\n\tORDER BY v.voucher_date DESC, v.created_at DESC, v.voucher_id DESC\n\tLIMIT " + arg(limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query vouchers: %w", err)
	}
	defer rows.Close()

	vouchers := []domain.Voucher{}
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan voucher row: %w", err)
		}
		vouchers = append(vouchers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating voucher rows: %w", err)
	}

	var token *string
	if len(vouchers) > limit {
		vouchers = vouchers[:limit]
		last := vouchers[len(vouchers)-1]
		t := pagination.EncodeToken(pagination.Cursor{Date: last.Date, CreatedAt: last.CreatedAt, ID: last.VoucherID})
		token = &t
	}

	ptrs := make([]*domain.Voucher, len(vouchers))
	for i := range vouchers {
		ptrs[i] = &vouchers[i]
	}
	if err := attachEntries(ctx, r.Pool, ptrs); err != nil {
		return nil, nil, err
	}
	return vouchers, token, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (t *ledgerTx) InsertVoucher(ctx context.Context, v domain.Voucher) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO vouchers (voucher_id, voucher_number, voucher_type, voucher_date, narration,
			cash_bank_account_id, status, total_debit, total_credit, source_type, source_ref,
			posted_at, cancelled_at, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		v.VoucherID, nullIfEmpty(v.VoucherNumber), v.Type, v.Date, v.Narration,
		v.CashBankAccountID, v.Status, v.TotalDebit, v.TotalCredit, v.SourceType, v.SourceRef,
		v.PostedAt, v.CancelledAt, v.CreatedAt, v.CreatedBy, v.LastUpdatedAt, v.LastUpdatedBy)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == postedSourceConstraint {
			return fmt.Errorf("%w: %s %s is already posted", apperrors.ErrDuplicate, v.SourceType, v.SourceRef)
		}
		return mapWriteError(err, "voucher "+v.VoucherNumber)
	}

	batch := &pgx.Batch{}
	for _, e := range v.Entries {
		batch.Queue(`
			INSERT INTO voucher_entries (entry_id, voucher_id, account_id, description, debit, credit, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			e.EntryID, v.VoucherID, e.AccountID, e.Description, e.Debit, e.Credit, e.SortOrder)
	}
	br := t.tx.SendBatch(ctx, batch)
	var batchErr error
	for range v.Entries {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to insert voucher entry: %w", err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close voucher entry batch: %w", err)
	}
	return batchErr
}

func (t *ledgerTx) FindVoucherForUpdate(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	return findVoucher(ctx, t.tx, "v.voucher_id = $1", voucherID, "FOR UPDATE")
}

// FindPostedVoucherBySource returns the earliest posted voucher for the document.
func (t *ledgerTx) FindPostedVoucherBySource(ctx context.Context, source domain.SourceType, ref string) (*domain.Voucher, error) {
	v, err := scanVoucher(t.tx.QueryRow(ctx, voucherSelect+`
	WHERE v.source_type = $1 AND v.source_ref = $2 AND v.status = $3
	ORDER BY v.created_at
	LIMIT 1`, source, ref, domain.VoucherPosted))
	if err != nil {
		return nil, mapReadError(err, string(source)+" voucher", ref)
	}
	if err := attachEntries(ctx, t.tx, []*domain.Voucher{&v}); err != nil {
		return nil, err
	}
	return &v, nil
}

func (t *ledgerTx) UpdateVoucherHeader(ctx context.Context, v domain.Voucher) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE vouchers
		SET voucher_number = $2, status = $3, total_debit = $4, total_credit = $5,
		    posted_at = $6, cancelled_at = $7, last_updated_at = $8, last_updated_by = $9
		WHERE voucher_id = $1`,
		v.VoucherID, nullIfEmpty(v.VoucherNumber), v.Status, v.TotalDebit, v.TotalCredit,
		v.PostedAt, v.CancelledAt, v.LastUpdatedAt, v.LastUpdatedBy)
	if err != nil {
		return mapWriteError(err, "voucher "+v.VoucherNumber)
	}
	return nil
}
