package repositories

import "context"

// TransactionManager runs a unit of work inside one database transaction.
// The transaction commits when fn returns nil and rolls back otherwise, so a
// business event either persists all of its vouchers and balance changes or none.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}

// LedgerTx is the set of repository operations available inside a transaction.
type LedgerTx interface {
	ChartTransactionSupport
	AccountTransactionSupport
	VoucherTransactionSupport
	SequenceSupport
	PartCostSupport
}

// SequenceSupport provides persisted counters incremented in the caller's transaction.
type SequenceSupport interface {
	// NextSequence increments and returns the counter stored under key.
	// The first call for a key returns 1.
	NextSequence(ctx context.Context, key string) (int64, error)

	// BumpLedgerRevision increments the revision counter that identifies the
	// current state of the ledger and chart of accounts.
	BumpLedgerRevision(ctx context.Context) (int64, error)
}
