package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const mainGroupColumns = `main_group_id, code, name, category, display_order,
	created_at, created_by, last_updated_at, last_updated_by`

const subgroupColumns = `subgroup_id, code, name, main_group_id,
	created_at, created_by, last_updated_at, last_updated_by`

func scanMainGroup(row pgx.Row) (domain.MainGroup, error) {
	var g domain.MainGroup
	err := row.Scan(&g.MainGroupID, &g.Code, &g.Name, &g.Category, &g.DisplayOrder,
		&g.CreatedAt, &g.CreatedBy, &g.LastUpdatedAt, &g.LastUpdatedBy)
	return g, err
}

func scanSubgroup(row pgx.Row) (domain.Subgroup, error) {
	var s domain.Subgroup
	err := row.Scan(&s.SubgroupID, &s.Code, &s.Name, &s.MainGroupID,
		&s.CreatedAt, &s.CreatedBy, &s.LastUpdatedAt, &s.LastUpdatedBy)
	return s, err
}

func queryMainGroups(ctx context.Context, q querier) ([]domain.MainGroup, error) {
	rows, err := q.Query(ctx, `SELECT `+mainGroupColumns+` FROM main_groups ORDER BY display_order, code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query main groups: %w", err)
	}
	defer rows.Close()

	groups := []domain.MainGroup{}
	for rows.Next() {
		g, err := scanMainGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan main group row: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// querySubgroups lists subgroups ordered by code; an empty mainGroupID lists all.
func querySubgroups(ctx context.Context, q querier, mainGroupID string) ([]domain.Subgroup, error) {
	query := `SELECT ` + subgroupColumns + ` FROM subgroups WHERE ($1 = '' OR main_group_id = $1) ORDER BY code`
	rows, err := q.Query(ctx, query, mainGroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subgroups: %w", err)
	}
	defer rows.Close()

	subs := []domain.Subgroup{}
	for rows.Next() {
		s, err := scanSubgroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subgroup row: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func findMainGroup(ctx context.Context, q querier, column, value string) (*domain.MainGroup, error) {
	g, err := scanMainGroup(q.QueryRow(ctx, `SELECT `+mainGroupColumns+` FROM main_groups WHERE `+column+` = $1`, value))
	if err != nil {
		return nil, mapReadError(err, "main group", value)
	}
	return &g, nil
}

func findSubgroup(ctx context.Context, q querier, column, value, suffix string) (*domain.Subgroup, error) {
	s, err := scanSubgroup(q.QueryRow(ctx, `SELECT `+subgroupColumns+` FROM subgroups WHERE `+column+` = $1 `+suffix, value))
	if err != nil {
		return nil, mapReadError(err, "subgroup", value)
	}
	return &s, nil
}

// chartReader serves chart-of-accounts reads from the pool.
type chartReader struct {
	BaseRepository
}

func newChartReader(pool *pgxpool.Pool) portsrepo.ChartReader {
	return &chartReader{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ChartReader = (*chartReader)(nil)

func (r *chartReader) ListMainGroups(ctx context.Context) ([]domain.MainGroup, error) {
	return queryMainGroups(ctx, r.Pool)
}

func (r *chartReader) FindMainGroupByID(ctx context.Context, mainGroupID string) (*domain.MainGroup, error) {
	return findMainGroup(ctx, r.Pool, "main_group_id", mainGroupID)
}

func (r *chartReader) ListSubgroups(ctx context.Context) ([]domain.Subgroup, error) {
	return querySubgroups(ctx, r.Pool, "")
}

func (r *chartReader) GetSubgroupsByMainGroup(ctx context.Context, mainGroupID string) ([]domain.Subgroup, error) {
	return querySubgroups(ctx, r.Pool, mainGroupID)
}

func (r *chartReader) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return findAccount(ctx, r.Pool, "a.account_id", accountID, "")
}

func (r *chartReader) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	return findAccount(ctx, r.Pool, "a.code", code, "")
}

func (r *chartReader) FindAccountsBySubgroup(ctx context.Context, subgroupID string) ([]domain.Account, error) {
	return queryAccounts(ctx, r.Pool, domain.AccountFilter{SubgroupID: subgroupID})
}

func (r *chartReader) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	return queryAccounts(ctx, r.Pool, filter)
}

func (t *ledgerTx) FindMainGroupByCode(ctx context.Context, code string) (*domain.MainGroup, error) {
	return findMainGroup(ctx, t.tx, "code", code)
}

func (t *ledgerTx) FindMainGroupByIDInTx(ctx context.Context, mainGroupID string) (*domain.MainGroup, error) {
	return findMainGroup(ctx, t.tx, "main_group_id", mainGroupID)
}

func (t *ledgerTx) FindSubgroupByCode(ctx context.Context, code string) (*domain.Subgroup, error) {
	return findSubgroup(ctx, t.tx, "code", code, "")
}

func (t *ledgerTx) LockSubgroup(ctx context.Context, subgroupID string) (*domain.Subgroup, error) {
	return findSubgroup(ctx, t.tx, "subgroup_id", subgroupID, "FOR UPDATE")
}

func (t *ledgerTx) InsertMainGroup(ctx context.Context, g domain.MainGroup) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO main_groups (`+mainGroupColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		g.MainGroupID, g.Code, g.Name, g.Category, g.DisplayOrder,
		g.CreatedAt, g.CreatedBy, g.LastUpdatedAt, g.LastUpdatedBy)
	if err != nil {
		return mapWriteError(err, "main group "+g.Code)
	}
	return nil
}

func (t *ledgerTx) InsertSubgroup(ctx context.Context, s domain.Subgroup) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO subgroups (`+subgroupColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.SubgroupID, s.Code, s.Name, s.MainGroupID,
		s.CreatedAt, s.CreatedBy, s.LastUpdatedAt, s.LastUpdatedBy)
	if err != nil {
		return mapWriteError(err, "subgroup "+s.Code)
	}
	return nil
}

func (t *ledgerTx) ListAccountCodesInSubgroup(ctx context.Context, subgroupID string) ([]string, error) {
	rows, err := t.tx.Query(ctx, `SELECT code FROM accounts WHERE subgroup_id = $1 ORDER BY code`, subgroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query account codes: %w", err)
	}
	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan account codes: %w", err)
	}
	return codes, nil
}
