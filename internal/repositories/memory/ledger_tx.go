package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// ledgerTx works on the private copy of a running transaction.
type ledgerTx struct {
	st *state
}

var _ portsrepo.LedgerTx = (*ledgerTx)(nil)

func notFound(what, key string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("%s %s not found", what, key))
}

func (t *ledgerTx) FindMainGroupByCode(_ context.Context, code string) (*domain.MainGroup, error) {
	for _, g := range t.st.mainGroups {
		if g.Code == code {
			return &g, nil
		}
	}
	return nil, notFound("main group", code)
}

func (t *ledgerTx) FindMainGroupByIDInTx(_ context.Context, mainGroupID string) (*domain.MainGroup, error) {
	g, ok := t.st.mainGroups[mainGroupID]
	if !ok {
		return nil, notFound("main group", mainGroupID)
	}
	return &g, nil
}

func (t *ledgerTx) FindSubgroupByCode(_ context.Context, code string) (*domain.Subgroup, error) {
	for _, sg := range t.st.subgroups {
		if sg.Code == code {
			return &sg, nil
		}
	}
	return nil, notFound("subgroup", code)
}

func (t *ledgerTx) InsertMainGroup(_ context.Context, group domain.MainGroup) error {
	if _, err := t.FindMainGroupByCode(context.Background(), group.Code); err == nil {
		return fmt.Errorf("%w: main group code %s", apperrors.ErrDuplicate, group.Code)
	}
	t.st.mainGroups[group.MainGroupID] = group
	return nil
}

func (t *ledgerTx) InsertSubgroup(_ context.Context, subgroup domain.Subgroup) error {
	if _, ok := t.st.mainGroups[subgroup.MainGroupID]; !ok {
		return notFound("main group", subgroup.MainGroupID)
	}
	if _, err := t.FindSubgroupByCode(context.Background(), subgroup.Code); err == nil {
		return fmt.Errorf("%w: subgroup code %s", apperrors.ErrDuplicate, subgroup.Code)
	}
	t.st.subgroups[subgroup.SubgroupID] = subgroup
	return nil
}

// LockSubgroup needs no row lock here: the store lock already serializes transactions.
func (t *ledgerTx) LockSubgroup(_ context.Context, subgroupID string) (*domain.Subgroup, error) {
	sg, ok := t.st.subgroups[subgroupID]
	if !ok {
		return nil, notFound("subgroup", subgroupID)
	}
	return &sg, nil
}

func (t *ledgerTx) ListAccountCodesInSubgroup(_ context.Context, subgroupID string) ([]string, error) {
	var codes []string
	for _, a := range t.st.accounts {
		if a.SubgroupID == subgroupID {
			codes = append(codes, a.Code)
		}
	}
	sort.Strings(codes)
	return codes, nil
}

func (t *ledgerTx) FindAccountByIDInTx(_ context.Context, accountID string) (*domain.Account, error) {
	a, ok := t.st.accounts[accountID]
	if !ok {
		return nil, notFound("account", accountID)
	}
	return &a, nil
}

func (t *ledgerTx) FindAccountByCodeInTx(_ context.Context, code string) (*domain.Account, error) {
	for _, a := range t.st.accounts {
		if a.Code == code {
			return &a, nil
		}
	}
	return nil, notFound("account", code)
}

func (t *ledgerTx) FindAccountsByRole(_ context.Context, role domain.AccountRole) ([]domain.Account, error) {
	return t.st.sortedAccounts(func(a domain.Account) bool { return a.Role == role }), nil
}

func (t *ledgerTx) LockAccounts(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		a, ok := t.st.accounts[id]
		if !ok {
			return nil, &apperrors.AccountNotFoundError{Hint: "id " + id}
		}
		out[id] = a
	}
	return out, nil
}

func (t *ledgerTx) ApplyBalanceChanges(_ context.Context, changes map[string]decimal.Decimal, actor string, now time.Time) error {
	for id, change := range changes {
		a, ok := t.st.accounts[id]
		if !ok {
			return &apperrors.AccountNotFoundError{Hint: "id " + id}
		}
		a.CurrentBalance = a.CurrentBalance.Add(change)
		a.CanDelete = false
		a.LastUpdatedAt = now
		a.LastUpdatedBy = actor
		t.st.accounts[id] = a
	}
	return nil
}

func (t *ledgerTx) InsertAccount(_ context.Context, account domain.Account) error {
	if _, ok := t.st.subgroups[account.SubgroupID]; !ok {
		return notFound("subgroup", account.SubgroupID)
	}
	if _, err := t.FindAccountByCodeInTx(context.Background(), account.Code); err == nil {
		return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
	}
	t.st.accounts[account.AccountID] = account
	return nil
}

func (t *ledgerTx) UpdateAccount(_ context.Context, account domain.Account) error {
	if _, ok := t.st.accounts[account.AccountID]; !ok {
		return notFound("account", account.AccountID)
	}
	t.st.accounts[account.AccountID] = account
	return nil
}

func (t *ledgerTx) DeleteAccount(_ context.Context, accountID string) error {
	acc, ok := t.st.accounts[accountID]
	if !ok {
		return notFound("account", accountID)
	}
	for _, v := range t.st.vouchers {
		referenced := v.CashBankAccountID != nil && *v.CashBankAccountID == accountID
		for _, e := range v.Entries {
			referenced = referenced || e.AccountID == accountID
		}
		if referenced {
			return fmt.Errorf("%w: account %s is used by voucher %s", apperrors.ErrConflict, acc.Code, v.VoucherID)
		}
	}
	delete(t.st.accounts, accountID)
	return nil
}

func (t *ledgerTx) InsertVoucher(_ context.Context, voucher domain.Voucher) error {
	if _, ok := t.st.vouchers[voucher.VoucherID]; ok {
		return fmt.Errorf("%w: voucher %s", apperrors.ErrDuplicate, voucher.VoucherID)
	}
	if voucher.VoucherNumber != "" {
		for _, v := range t.st.vouchers {
			if v.VoucherNumber == voucher.VoucherNumber {
				return fmt.Errorf("%w: voucher number %s", apperrors.ErrDuplicate, voucher.VoucherNumber)
			}
		}
	}
	if voucher.Status == domain.VoucherPosted && uniquePostedSource(voucher.SourceType) {
		for _, v := range t.st.vouchers {
			if v.Status == domain.VoucherPosted && v.SourceType == voucher.SourceType && v.SourceRef == voucher.SourceRef {
				return fmt.Errorf("%w: %s %s is already posted", apperrors.ErrDuplicate, voucher.SourceType, voucher.SourceRef)
			}
		}
	}
	t.st.vouchers[voucher.VoucherID] = copyVoucher(voucher)
	return nil
}

// uniquePostedSource matches the partial unique index on posted vouchers.
func uniquePostedSource(source domain.SourceType) bool {
	return source == domain.SourceDPO || source == domain.SourceSalesInvoice
}

func (t *ledgerTx) FindVoucherForUpdate(_ context.Context, voucherID string) (*domain.Voucher, error) {
	v, ok := t.st.vouchers[voucherID]
	if !ok {
		return nil, notFound("voucher", voucherID)
	}
	v = copyVoucher(v)
	return &v, nil
}

func (t *ledgerTx) FindPostedVoucherBySource(_ context.Context, source domain.SourceType, ref string) (*domain.Voucher, error) {
	var found *domain.Voucher
	for _, v := range t.st.vouchers {
		if v.Status != domain.VoucherPosted || v.SourceType != source || v.SourceRef != ref {
			continue
		}
		if found == nil || v.CreatedAt.Before(found.CreatedAt) {
			c := copyVoucher(v)
			found = &c
		}
	}
	if found == nil {
		return nil, notFound(string(source)+" voucher", ref)
	}
	return found, nil
}

func (t *ledgerTx) UpdateVoucherHeader(_ context.Context, voucher domain.Voucher) error {
	stored, ok := t.st.vouchers[voucher.VoucherID]
	if !ok {
		return notFound("voucher", voucher.VoucherID)
	}
	entries := stored.Entries
	stored = voucher
	stored.Entries = entries
	t.st.vouchers[voucher.VoucherID] = stored
	return nil
}

func (t *ledgerTx) NextSequence(_ context.Context, key string) (int64, error) {
	t.st.sequences[key]++
	return t.st.sequences[key], nil
}

func (t *ledgerTx) BumpLedgerRevision(_ context.Context) (int64, error) {
	t.st.revision++
	return t.st.revision, nil
}

func (t *ledgerTx) RecordPartCosts(_ context.Context, costs map[string]decimal.Decimal, _ time.Time) error {
	for part, cost := range costs {
		t.st.partCosts[part] = cost
	}
	return nil
}

func (t *ledgerTx) FindPartCosts(_ context.Context, partIDs []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(partIDs))
	for _, id := range partIDs {
		if cost, ok := t.st.partCosts[id]; ok {
			out[id] = cost
		}
	}
	return out, nil
}
