package pgsql

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// The normal side is derived from the main group's category on every read.
const accountSelect = `
	SELECT a.account_id, a.code, a.name, a.description, a.subgroup_id, a.kind, a.role,
	       a.opening_balance, a.current_balance, a.status, a.can_delete, g.category,
	       a.created_at, a.created_by, a.last_updated_at, a.last_updated_by
	FROM accounts a
	JOIN subgroups s ON s.subgroup_id = a.subgroup_id
	JOIN main_groups g ON g.main_group_id = s.main_group_id`

func scanAccount(row pgx.Row) (domain.Account, error) {
	var (
		a        domain.Account
		category domain.GroupCategory
	)
	err := row.Scan(&a.AccountID, &a.Code, &a.Name, &a.Description, &a.SubgroupID, &a.Kind, &a.Role,
		&a.OpeningBalance, &a.CurrentBalance, &a.Status, &a.CanDelete, &category,
		&a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy)
	if err != nil {
		return a, err
	}
	a.NormalSide = category.NormalSide()
	return a, nil
}

// findAccount reads one account; suffix may carry a locking clause.
func findAccount(ctx context.Context, q querier, column, value, suffix string) (*domain.Account, error) {
	a, err := scanAccount(q.QueryRow(ctx, accountSelect+` WHERE `+column+` = $1 `+suffix, value))
	if err != nil {
		return nil, mapReadError(err, "account", value)
	}
	return &a, nil
}

func collectAccounts(rows pgx.Rows) ([]domain.Account, error) {
	defer rows.Close()
	accounts := []domain.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

func queryAccounts(ctx context.Context, q querier, filter domain.AccountFilter) ([]domain.Account, error) {
	query := accountSelect + `
	WHERE ($1 = '' OR a.subgroup_id = $1)
	  AND ($2 = '' OR a.status = $2)
	  AND ($3 = '' OR a.role = $3)
	ORDER BY a.code`
	rows, err := q.Query(ctx, query, filter.SubgroupID, string(filter.Status), string(filter.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	return collectAccounts(rows)
}

func (t *ledgerTx) FindAccountByIDInTx(ctx context.Context, accountID string) (*domain.Account, error) {
	return findAccount(ctx, t.tx, "a.account_id", accountID, "")
}

func (t *ledgerTx) FindAccountByCodeInTx(ctx context.Context, code string) (*domain.Account, error) {
	return findAccount(ctx, t.tx, "a.code", code, "")
}

func (t *ledgerTx) FindAccountsByRole(ctx context.Context, role domain.AccountRole) ([]domain.Account, error) {
	return queryAccounts(ctx, t.tx, domain.AccountFilter{Role: role})
}

// LockAccounts takes the row locks in account id order so that two postings
// touching the same accounts cannot deadlock.
func (t *ledgerTx) LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	ids := append([]string(nil), accountIDs...)
	sort.Strings(ids)

	rows, err := t.tx.Query(ctx, accountSelect+`
	WHERE a.account_id = ANY($1)
	ORDER BY a.account_id
	FOR UPDATE OF a`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs for update: %w", err)
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, err
	}

	locked := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		locked[a.AccountID] = a
	}
	for _, id := range ids {
		if _, ok := locked[id]; !ok {
			slog.WarnContext(ctx, "Account requested for update lock was not found", "account_id", id)
			return nil, &apperrors.AccountNotFoundError{Hint: "id " + id}
		}
	}
	return locked, nil
}

// ApplyBalanceChanges updates running balances in one batch.
func (t *ledgerTx) ApplyBalanceChanges(ctx context.Context, changes map[string]decimal.Decimal, actor string, now time.Time) error {
	if len(changes) == 0 {
		return nil
	}
	query := `
		UPDATE accounts
		SET current_balance = current_balance + $2, can_delete = FALSE,
		    last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1`

	ids := make([]string, 0, len(changes))
	for id := range changes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(query, id, changes[id], now, actor)
	}

	br := t.tx.SendBatch(ctx, batch)
	var batchErr error
	for _, id := range ids {
		ct, err := br.Exec()
		switch {
		case err != nil && batchErr == nil:
			batchErr = fmt.Errorf("failed to update balance for account %s: %w", id, err)
		case err == nil && ct.RowsAffected() == 0 && batchErr == nil:
			batchErr = &apperrors.AccountNotFoundError{Hint: "id " + id}
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close balance update batch: %w", err)
	}
	return batchErr
}

func (t *ledgerTx) InsertAccount(ctx context.Context, a domain.Account) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO accounts (account_id, code, name, description, subgroup_id, kind, role,
			opening_balance, current_balance, status, can_delete,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		a.AccountID, a.Code, a.Name, a.Description, a.SubgroupID, a.Kind, a.Role,
		a.OpeningBalance, a.CurrentBalance, a.Status, a.CanDelete,
		a.CreatedAt, a.CreatedBy, a.LastUpdatedAt, a.LastUpdatedBy)
	if err != nil {
		return mapWriteError(err, "account "+a.Code)
	}
	return nil
}

// UpdateAccount writes the editable columns. Balances change only through
// ApplyBalanceChanges.
func (t *ledgerTx) UpdateAccount(ctx context.Context, a domain.Account) error {
	ct, err := t.tx.Exec(ctx, `
		UPDATE accounts
		SET name = $2, description = $3, role = $4, status = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE account_id = $1`,
		a.AccountID, a.Name, a.Description, a.Role, a.Status, a.LastUpdatedAt, a.LastUpdatedBy)
	if err != nil {
		return mapWriteError(err, "account "+a.Code)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + a.AccountID + " not found")
	}
	return nil
}

func (t *ledgerTx) DeleteAccount(ctx context.Context, accountID string) error {
	ct, err := t.tx.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1`, accountID)
	if err != nil {
		return mapWriteError(err, "account "+accountID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + accountID + " not found")
	}
	return nil
}
