package accounting

import (
	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateBalanceChanges folds voucher entries into per-account changes of
// the running balance, signed by each account's normal side. With reverse set
// the changes undo a previously posted voucher.
// It is used by both services and repositories to keep the sign rule in one place.
func CalculateBalanceChanges(entries []domain.VoucherEntry, accounts map[string]domain.Account, reverse bool) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, len(accounts))
	for _, e := range entries {
		acc, ok := accounts[e.AccountID]
		if !ok {
			return nil, &apperrors.AccountNotFoundError{Hint: "account id " + e.AccountID}
		}
		delta := acc.SignedDelta(e.Debit, e.Credit)
		if reverse {
			delta = delta.Neg()
		}
		changes[e.AccountID] = changes[e.AccountID].Add(delta)
	}
	return changes, nil
}

// ClosingBalance returns opening + movement on the given normal side, rounded.
func ClosingBalance(opening decimal.Decimal, side domain.BalanceSide, mv domain.AccountMovement) decimal.Decimal {
	if side == domain.CreditSide {
		return domain.Round2(opening.Add(mv.Credit).Sub(mv.Debit))
	}
	return domain.Round2(opening.Add(mv.Debit).Sub(mv.Credit))
}

// SplitToColumns places a normal-side balance into trial-balance debit/credit columns.
func SplitToColumns(balance decimal.Decimal, side domain.BalanceSide) (debit, credit decimal.Decimal) {
	debitSide := side != domain.CreditSide
	if balance.IsNegative() {
		debitSide = !debitSide
		balance = balance.Abs()
	}
	if debitSide {
		return balance, decimal.Zero
	}
	return decimal.Zero, balance
}
