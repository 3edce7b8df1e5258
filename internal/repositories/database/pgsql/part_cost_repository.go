package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func (t *ledgerTx) RecordPartCosts(ctx context.Context, costs map[string]decimal.Decimal, now time.Time) error {
	for partID, cost := range costs {
		_, err := t.tx.Exec(ctx, `
			INSERT INTO part_costs (part_id, unit_cost, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (part_id) DO UPDATE SET unit_cost = EXCLUDED.unit_cost, updated_at = EXCLUDED.updated_at`,
			partID, cost, now)
		if err != nil {
			return fmt.Errorf("failed to record cost for part %s: %w", partID, err)
		}
	}
	return nil
}

func (t *ledgerTx) FindPartCosts(ctx context.Context, partIDs []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(partIDs))
	if len(partIDs) == 0 {
		return out, nil
	}
	rows, err := t.tx.Query(ctx, `SELECT part_id, unit_cost FROM part_costs WHERE part_id = ANY($1)`, partIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query part costs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id   string
			cost decimal.Decimal
		)
		if err := rows.Scan(&id, &cost); err != nil {
			return nil, fmt.Errorf("failed to scan part cost row: %w", err)
		}
		out[id] = cost
	}
	return out, rows.Err()
}
