package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func entry(accountID, debit, credit string) domain.VoucherEntry {
	return domain.VoucherEntry{AccountID: accountID, Debit: dec(debit), Credit: dec(credit)}
}

func TestVoucherType_PrefixAndNumber(t *testing.T) {
	tests := []struct {
		voucherType domain.VoucherType
		want        string
	}{
		{domain.VoucherReceipt, "RV-000001"},
		{domain.VoucherPayment, "PV-000001"},
		{domain.VoucherJournal, "JV-000001"},
		{domain.VoucherContra, "CV-000001"},
	}
	for _, tt := range tests {
		t.Run(string(tt.voucherType), func(t *testing.T) {
			assert.Equal(t, tt.want, domain.FormatVoucherNumber(tt.voucherType, 1))
			assert.True(t, tt.voucherType.Valid())
		})
	}
	assert.Equal(t, "JV-123456", domain.FormatVoucherNumber(domain.VoucherJournal, 123456))
	assert.False(t, domain.VoucherType("transfer").Valid())
}

func TestVoucherStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, domain.VoucherDraft.CanTransitionTo(domain.VoucherPosted))
	assert.True(t, domain.VoucherPosted.CanTransitionTo(domain.VoucherCancelled))

	assert.False(t, domain.VoucherDraft.CanTransitionTo(domain.VoucherCancelled))
	assert.False(t, domain.VoucherPosted.CanTransitionTo(domain.VoucherDraft))
	assert.False(t, domain.VoucherCancelled.CanTransitionTo(domain.VoucherPosted))
	assert.False(t, domain.VoucherCancelled.CanTransitionTo(domain.VoucherDraft))
}

func TestVoucher_ValidateEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []domain.VoucherEntry
		check   func(t *testing.T, err error)
	}{
		{
			name:    "balanced",
			entries: []domain.VoucherEntry{entry("a", "100", "0"), entry("b", "0", "100")},
			check:   func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name: "balanced after rounding",
			entries: []domain.VoucherEntry{
				entry("a", "33.33", "0"), entry("a", "33.33", "0"), entry("a", "33.336", "0"),
				entry("b", "0", "100"),
			},
			check: func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name:    "lines with both sides zero are allowed",
			entries: []domain.VoucherEntry{entry("a", "5", "0"), entry("c", "0", "0"), entry("b", "0", "5")},
			check:   func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name:    "unbalanced by one cent",
			entries: []domain.VoucherEntry{entry("a", "100.01", "0"), entry("b", "0", "100")},
			check: func(t *testing.T, err error) {
				var unbalanced *apperrors.UnbalancedEntryError
				require.True(t, errors.As(err, &unbalanced))
				assert.True(t, unbalanced.Difference().Equal(dec("0.01")))
			},
		},
		{
			name:    "negative debit",
			entries: []domain.VoucherEntry{entry("a", "-1", "0"), entry("b", "0", "-1")},
			check: func(t *testing.T, err error) {
				var invalid *apperrors.InvalidAmountError
				assert.True(t, errors.As(err, &invalid))
			},
		},
		{
			name:    "zero total",
			entries: []domain.VoucherEntry{entry("a", "0", "0"), entry("b", "0", "0")},
			check: func(t *testing.T, err error) {
				var invalid *apperrors.InvalidAmountError
				assert.True(t, errors.As(err, &invalid))
			},
		},
		{
			name:    "both sides on one line",
			entries: []domain.VoucherEntry{entry("a", "10", "10"), entry("b", "0", "0")},
			check:   func(t *testing.T, err error) { assert.ErrorIs(t, err, apperrors.ErrValidation) },
		},
		{
			name:    "single entry",
			entries: []domain.VoucherEntry{entry("a", "10", "0")},
			check:   func(t *testing.T, err error) { assert.ErrorIs(t, err, apperrors.ErrValidation) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := domain.Voucher{Type: domain.VoucherJournal, Entries: tt.entries}
			tt.check(t, v.ValidateEntries())
		})
	}
}

func TestVoucher_ComputeTotalsRoundsHalfAwayFromZero(t *testing.T) {
	v := domain.Voucher{Entries: []domain.VoucherEntry{entry("a", "10.005", "0"), entry("b", "0", "10.005")}}
	v.ComputeTotals()
	assert.Equal(t, "10.01", v.TotalDebit.StringFixed(2))
	assert.Equal(t, "10.01", v.TotalCredit.StringFixed(2))
	assert.True(t, v.IsBalanced())
}

func TestVoucher_AccountIDsDistinct(t *testing.T) {
	v := domain.Voucher{Entries: []domain.VoucherEntry{entry("a", "1", "0"), entry("a", "1", "0"), entry("b", "0", "2")}}
	assert.Equal(t, []string{"a", "b"}, v.AccountIDs())
}

func TestVoucherFilter_Matches(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	v := domain.Voucher{
		VoucherNumber: "RV-000003",
		Type:          domain.VoucherReceipt,
		Status:        domain.VoucherPosted,
		Date:          day,
		Narration:     "Customer receipt",
		Entries: []domain.VoucherEntry{
			{Description: "Receipt for INV 000001"},
		},
	}
	before, after := day.AddDate(0, 0, -1), day.AddDate(0, 0, 1)

	assert.True(t, domain.VoucherFilter{}.Matches(v))
	assert.True(t, domain.VoucherFilter{Search: "receipt for inv 000001"}.Matches(v))
	assert.True(t, domain.VoucherFilter{Number: "rv-000003"}.Matches(v))
	assert.True(t, domain.VoucherFilter{FromDate: &day, ToDate: &day}.Matches(v))
	assert.False(t, domain.VoucherFilter{Type: domain.VoucherJournal}.Matches(v))
	assert.False(t, domain.VoucherFilter{Status: domain.VoucherCancelled}.Matches(v))
	assert.False(t, domain.VoucherFilter{FromDate: &after}.Matches(v))
	assert.False(t, domain.VoucherFilter{ToDate: &before}.Matches(v))
	assert.False(t, domain.VoucherFilter{Search: "COGS"}.Matches(v))
}
