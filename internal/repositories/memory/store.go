// Package memory is an in-process storage driver. A transaction works on a
// copy of the ledger state and swaps it in on commit, so a failed business
// event leaves nothing behind. Transactions are serialized by a single lock.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type state struct {
	mainGroups map[string]domain.MainGroup
	subgroups  map[string]domain.Subgroup
	accounts   map[string]domain.Account
	vouchers   map[string]domain.Voucher
	sequences  map[string]int64
	partCosts  map[string]decimal.Decimal
	revision   int64
}

func newState() *state {
	return &state{
		mainGroups: make(map[string]domain.MainGroup),
		subgroups:  make(map[string]domain.Subgroup),
		accounts:   make(map[string]domain.Account),
		vouchers:   make(map[string]domain.Voucher),
		sequences:  make(map[string]int64),
		partCosts:  make(map[string]decimal.Decimal),
	}
}

func copyVoucher(v domain.Voucher) domain.Voucher {
	v.Entries = append([]domain.VoucherEntry(nil), v.Entries...)
	return v
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.mainGroups {
		c.mainGroups[k] = v
	}
	for k, v := range s.subgroups {
		c.subgroups[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.vouchers {
		c.vouchers[k] = copyVoucher(v)
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	for k, v := range s.partCosts {
		c.partCosts[k] = v
	}
	c.revision = s.revision
	return c
}

func (s *state) sortedMainGroups() []domain.MainGroup {
	out := make([]domain.MainGroup, 0, len(s.mainGroups))
	for _, g := range s.mainGroups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].Code < out[j].Code
	})
	return out
}

func (s *state) sortedSubgroups(keep func(domain.Subgroup) bool) []domain.Subgroup {
	out := make([]domain.Subgroup, 0)
	for _, sg := range s.subgroups {
		if keep == nil || keep(sg) {
			out = append(out, sg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (s *state) sortedAccounts(keep func(domain.Account) bool) []domain.Account {
	out := make([]domain.Account, 0)
	for _, a := range s.accounts {
		if keep == nil || keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Store holds the committed ledger state.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.st)
}

// RunInTx implements portsrepo.TransactionManager.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.st.clone()
	if err := fn(ctx, &ledgerTx{st: working}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = working
	return nil
}

// NewRepositoryProvider exposes the store through the repository ports.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager: store,
		Chart:     &chartReader{store: store},
		Vouchers:  &voucherReader{store: store},
		Reporting: &reportingRepository{store: store},
	}
}

var _ portsrepo.TransactionManager = (*Store)(nil)
