package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/erp_ledger/internal/utils/pagination"
)

type chartReader struct {
	store *Store
}

var _ portsrepo.ChartReader = (*chartReader)(nil)

func (r *chartReader) ListMainGroups(_ context.Context) ([]domain.MainGroup, error) {
	var out []domain.MainGroup
	r.store.read(func(st *state) { out = st.sortedMainGroups() })
	return out, nil
}

func (r *chartReader) FindMainGroupByID(_ context.Context, mainGroupID string) (*domain.MainGroup, error) {
	var (
		g  domain.MainGroup
		ok bool
	)
	r.store.read(func(st *state) { g, ok = st.mainGroups[mainGroupID] })
	if !ok {
		return nil, notFound("main group", mainGroupID)
	}
	return &g, nil
}

func (r *chartReader) ListSubgroups(_ context.Context) ([]domain.Subgroup, error) {
	var out []domain.Subgroup
	r.store.read(func(st *state) { out = st.sortedSubgroups(nil) })
	return out, nil
}

func (r *chartReader) GetSubgroupsByMainGroup(_ context.Context, mainGroupID string) ([]domain.Subgroup, error) {
	var out []domain.Subgroup
	r.store.read(func(st *state) {
		out = st.sortedSubgroups(func(sg domain.Subgroup) bool { return sg.MainGroupID == mainGroupID })
	})
	return out, nil
}

func (r *chartReader) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	var (
		a  domain.Account
		ok bool
	)
	r.store.read(func(st *state) { a, ok = st.accounts[accountID] })
	if !ok {
		return nil, notFound("account", accountID)
	}
	return &a, nil
}

func (r *chartReader) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	var (
		acc *domain.Account
		err error
	)
	r.store.read(func(st *state) { acc, err = (&ledgerTx{st: st}).FindAccountByCodeInTx(ctx, code) })
	return acc, err
}

func (r *chartReader) FindAccountsBySubgroup(_ context.Context, subgroupID string) ([]domain.Account, error) {
	var out []domain.Account
	r.store.read(func(st *state) {
		out = st.sortedAccounts(func(a domain.Account) bool { return a.SubgroupID == subgroupID })
	})
	return out, nil
}

func (r *chartReader) ListAccounts(_ context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	var out []domain.Account
	r.store.read(func(st *state) { out = st.sortedAccounts(filter.Matches) })
	return out, nil
}

type voucherReader struct {
	store *Store
}

var _ portsrepo.VoucherReader = (*voucherReader)(nil)

func (r *voucherReader) FindVoucherByID(_ context.Context, voucherID string) (*domain.Voucher, error) {
	var (
		v  domain.Voucher
		ok bool
	)
	r.store.read(func(st *state) {
		v, ok = st.vouchers[voucherID]
		v = copyVoucher(v)
	})
	if !ok {
		return nil, notFound("voucher", voucherID)
	}
	return &v, nil
}

func (r *voucherReader) FindVoucherByNumber(_ context.Context, voucherNumber string) (*domain.Voucher, error) {
	var found *domain.Voucher
	r.store.read(func(st *state) {
		for _, v := range st.vouchers {
			if v.VoucherNumber != "" && strings.EqualFold(v.VoucherNumber, voucherNumber) {
				c := copyVoucher(v)
				found = &c
				return
			}
		}
	})
	if found == nil {
		return nil, notFound("voucher", voucherNumber)
	}
	return found, nil
}

// ListVouchers orders by voucher date, creation time and id, newest first.
func (r *voucherReader) ListVouchers(_ context.Context, filter domain.VoucherFilter, limit int, nextToken *string) ([]domain.Voucher, *string, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, err
		}
		cursor = &c
	}

	var matched []domain.Voucher
	r.store.read(func(st *state) {
		for _, v := range st.vouchers {
			if !filter.Matches(v) {
				continue
			}
			if cursor != nil && !cursor.Before(v.Date, v.CreatedAt, v.VoucherID) {
				continue
			}
			matched = append(matched, copyVoucher(v))
		}
	})

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		return pagination.Cursor{Date: a.Date, CreatedAt: a.CreatedAt, ID: a.VoucherID}.Before(b.Date, b.CreatedAt, b.VoucherID)
	})

	if len(matched) <= limit {
		if matched == nil {
			matched = []domain.Voucher{}
		}
		return matched, nil, nil
	}
	page := matched[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(pagination.Cursor{Date: last.Date, CreatedAt: last.CreatedAt, ID: last.VoucherID})
	return page, &token, nil
}

type reportingRepository struct {
	store *Store
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

func (r *reportingRepository) LedgerRevision(_ context.Context) (int64, error) {
	var rev int64
	r.store.read(func(st *state) { rev = st.revision })
	return rev, nil
}

// ReadLedgerSnapshot reads under the store's read lock, which gives the same
// consistency as a repeatable-read transaction.
func (r *reportingRepository) ReadLedgerSnapshot(_ context.Context, asOf time.Time) (*domain.LedgerSnapshot, error) {
	cutoff := domain.StartOfDay(asOf)
	snap := &domain.LedgerSnapshot{
		AsOf:      cutoff,
		Movements: make(map[string]domain.AccountMovement),
	}
	r.store.read(func(st *state) {
		snap.Revision = st.revision
		snap.MainGroups = st.sortedMainGroups()
		snap.Subgroups = st.sortedSubgroups(nil)
		snap.Accounts = st.sortedAccounts(nil)
		for _, v := range st.vouchers {
			if v.Status != domain.VoucherPosted || domain.StartOfDay(v.Date).After(cutoff) {
				continue
			}
			for _, e := range v.Entries {
				mv := snap.Movements[e.AccountID]
				mv.Debit = mv.Debit.Add(e.Debit)
				mv.Credit = mv.Credit.Add(e.Credit)
				snap.Movements[e.AccountID] = mv
			}
		}
	})
	return snap, nil
}
