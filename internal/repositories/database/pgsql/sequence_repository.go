package pgsql

import (
	"context"
	"fmt"
)

const ledgerRevisionKey = "LEDGER_REVISION"

// NextSequence upserts the counter row; the row lock it takes serialises
// concurrent callers until the transaction ends.
func (t *ledgerTx) NextSequence(ctx context.Context, key string) (int64, error) {
	var value int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO sequences (sequence_key, value) VALUES ($1, 1)
		ON CONFLICT (sequence_key) DO UPDATE SET value = sequences.value + 1
		RETURNING value`, key).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("failed to advance sequence %s: %w", key, err)
	}
	return value, nil
}

func (t *ledgerTx) BumpLedgerRevision(ctx context.Context) (int64, error) {
	return t.NextSequence(ctx, ledgerRevisionKey)
}
