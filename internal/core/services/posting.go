package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/erp_ledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// postVoucherInTx validates v, locks the accounts it touches, assigns its
// number and applies its running-balance effect. With insert set the voucher
// and its entries are written; otherwise an existing draft header is updated.
func postVoucherInTx(ctx context.Context, tx portsrepo.LedgerTx, v *domain.Voucher, actor string, now time.Time, insert bool) error {
	if err := v.ValidateEntries(); err != nil {
		return err
	}

	accounts, err := tx.LockAccounts(ctx, v.AccountIDs())
	if err != nil {
		return err
	}
	if err := checkPostingTargets(v, accounts); err != nil {
		return err
	}

	if v.VoucherID == "" {
		v.VoucherID = uuid.NewString()
	}
	for i := range v.Entries {
		e := &v.Entries[i]
		acc := accounts[e.AccountID]
		if e.EntryID == "" {
			e.EntryID = uuid.NewString()
		}
		e.VoucherID = v.VoucherID
		e.AccountCode = acc.Code
		e.AccountName = acc.Name
		e.SortOrder = i + 1
	}

	seq, err := tx.NextSequence(ctx, v.Type.SequenceKey())
	if err != nil {
		return fmt.Errorf("allocating %s number: %w", v.Type, err)
	}
	v.VoucherNumber = domain.FormatVoucherNumber(v.Type, seq)
	v.Status = domain.VoucherPosted
	postedAt := now
	v.PostedAt = &postedAt
	v.LastUpdatedAt = now
	v.LastUpdatedBy = actor
	if v.SourceType == "" {
		v.SourceType = domain.SourceManual
	}

	changes, err := accounting.CalculateBalanceChanges(v.Entries, accounts, false)
	if err != nil {
		return err
	}

	if insert {
		err = tx.InsertVoucher(ctx, *v)
	} else {
		err = tx.UpdateVoucherHeader(ctx, *v)
	}
	if err != nil {
		return fmt.Errorf("saving voucher %s: %w", v.VoucherNumber, err)
	}

	if err := tx.ApplyBalanceChanges(ctx, changes, actor, now); err != nil {
		return fmt.Errorf("applying balances of %s: %w", v.VoucherNumber, err)
	}
	if _, err := tx.BumpLedgerRevision(ctx); err != nil {
		return err
	}
	return nil
}

// checkPostingTargets rejects inactive accounts and enforces the cash/bank
// rules of receipt, payment and contra vouchers.
func checkPostingTargets(v *domain.Voucher, accounts map[string]domain.Account) error {
	var cashBank string
	for _, id := range v.AccountIDs() {
		acc := accounts[id]
		if !acc.IsActive() {
			return &apperrors.AccountNotFoundError{Hint: fmt.Sprintf("account %s is inactive", acc.Code)}
		}
		isCash := acc.Role == domain.RoleCashOrBank
		if v.Type == domain.VoucherContra && !isCash {
			return fmt.Errorf("%w: contra vouchers may only move funds between cash and bank accounts, %s is not one",
				apperrors.ErrValidation, acc.Code)
		}
		if isCash && cashBank == "" {
			cashBank = id
		}
	}

	switch v.Type {
	case domain.VoucherReceipt, domain.VoucherPayment:
		if cashBank == "" {
			return fmt.Errorf("%w: a %s voucher needs a cash or bank line", apperrors.ErrValidation, v.Type)
		}
		if v.CashBankAccountID == nil {
			v.CashBankAccountID = &cashBank
		}
	}
	return nil
}

// resolveRole returns the first active account tagged with role, by code.
func resolveRole(ctx context.Context, tx portsrepo.LedgerTx, role domain.AccountRole) (*domain.Account, error) {
	accounts, err := tx.FindAccountsByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("resolving %s account: %w", role, err)
	}
	for i := range accounts {
		if accounts[i].IsActive() {
			return &accounts[i], nil
		}
	}
	return nil, &apperrors.AccountNotFoundError{Hint: fmt.Sprintf("no active account with role %s", role)}
}

// resolveAccount loads an explicitly referenced account. When wantRole is set
// the account must carry it.
func resolveAccount(ctx context.Context, tx portsrepo.LedgerTx, accountID string, wantRole domain.AccountRole) (*domain.Account, error) {
	acc, err := tx.FindAccountByIDInTx(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, &apperrors.AccountNotFoundError{Hint: "id " + accountID}
		}
		return nil, err
	}
	if !acc.IsActive() {
		return nil, &apperrors.AccountNotFoundError{Hint: fmt.Sprintf("account %s is inactive", acc.Code)}
	}
	if wantRole != domain.RoleNone && acc.Role != wantRole {
		return nil, fmt.Errorf("%w: account %s does not have role %s", apperrors.ErrValidation, acc.Code, wantRole)
	}
	return acc, nil
}

// resolveAccountOrRole uses accountID when given and falls back to the role.
func resolveAccountOrRole(ctx context.Context, tx portsrepo.LedgerTx, accountID string, role domain.AccountRole) (*domain.Account, error) {
	if accountID != "" {
		return resolveAccount(ctx, tx, accountID, domain.RoleNone)
	}
	return resolveRole(ctx, tx, role)
}

// findSourceVoucher returns nil without error when the document has no posted voucher.
func findSourceVoucher(ctx context.Context, tx portsrepo.LedgerTx, source domain.SourceType, ref string) (*domain.Voucher, error) {
	v, err := tx.FindPostedVoucherBySource(ctx, source, ref)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

// debitLines accumulates debit amounts per account in first-seen order.
type debitLines struct {
	order   []string
	amounts map[string]decimal.Decimal
	notes   map[string]string
}

func newDebitLines() *debitLines {
	return &debitLines{
		amounts: make(map[string]decimal.Decimal),
		notes:   make(map[string]string),
	}
}

func (d *debitLines) add(accountID string, amount decimal.Decimal, description string) {
	if _, ok := d.amounts[accountID]; !ok {
		d.order = append(d.order, accountID)
		d.notes[accountID] = description
	}
	d.amounts[accountID] = d.amounts[accountID].Add(amount)
}

// entries rounds each debit line to cents and moves the rounding residual
// onto the largest line so the debits add up to total exactly. Ties keep the
// first line seen.
func (d *debitLines) entries(total decimal.Decimal) []domain.VoucherEntry {
	out := make([]domain.VoucherEntry, 0, len(d.order))
	sum := decimal.Zero
	largest := -1
	for i, id := range d.order {
		amount := domain.Round2(d.amounts[id])
		sum = sum.Add(amount)
		if largest < 0 || amount.GreaterThan(out[largest].Debit) {
			largest = i
		}
		out = append(out, domain.VoucherEntry{
			AccountID:   id,
			Description: d.notes[id],
			Debit:       amount,
			Credit:      decimal.Zero,
		})
	}
	if residual := total.Sub(sum); largest >= 0 && !residual.IsZero() {
		out[largest].Debit = out[largest].Debit.Add(residual)
	}
	return out
}

// twoLineVoucher builds a voucher with a single debit and a single credit.
func twoLineVoucher(vType domain.VoucherType, date time.Time, narration string, debitAcc, creditAcc string,
	amount decimal.Decimal, description string, source domain.SourceType, ref string, audit domain.AuditFields) domain.Voucher {
	return domain.Voucher{
		Type:       vType,
		Date:       date,
		Narration:  narration,
		Status:     domain.VoucherDraft,
		SourceType: source,
		SourceRef:  ref,
		Entries: []domain.VoucherEntry{
			{AccountID: debitAcc, Description: description, Debit: amount, Credit: decimal.Zero},
			{AccountID: creditAcc, Description: description, Debit: decimal.Zero, Credit: amount},
		},
		AuditFields: audit,
	}
}
