package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cashSaleRequest(post bool) dto.CreateVoucherRequest {
	return dto.CreateVoucherRequest{
		Type:      domain.VoucherReceipt,
		Date:      "2026-04-10",
		Narration: "Counter sale",
		Entries: []dto.VoucherEntryRequest{
			{AccountCode: "101002", Debit: dec("250"), Credit: dec("0")},
			{AccountCode: "701001", Debit: dec("0"), Credit: dec("250")},
		},
		Post: post,
	}
}

func TestVoucherService_CreateAndPostImmediately(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	v, err := l.svc.Voucher.CreateVoucher(ctx, cashSaleRequest(true), actor)
	require.NoError(t, err)

	assert.Equal(t, "RV-000001", v.VoucherNumber)
	assert.Equal(t, domain.VoucherPosted, v.Status)
	assert.Equal(t, domain.SourceManual, v.SourceType)
	require.NotNil(t, v.CashBankAccountID)
	assert.Equal(t, l.account(t, "101002").AccountID, *v.CashBankAccountID)
	assert.Equal(t, "250.00", l.account(t, "101002").CurrentBalance.StringFixed(2))
	assert.Equal(t, "250.00", l.account(t, "701001").CurrentBalance.StringFixed(2))

	byNumber, err := l.svc.Voucher.GetVoucherByNumber(ctx, "RV-000001")
	require.NoError(t, err)
	assert.Equal(t, v.VoucherID, byNumber.VoucherID)
	assert.Len(t, byNumber.Entries, 2)
}

func TestVoucherService_DraftLifecycle(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	req := cashSaleRequest(false)
	req.Entries[1].Credit = dec("200")
	draft, err := l.svc.Voucher.CreateVoucher(ctx, req, actor)
	require.NoError(t, err, "unbalanced drafts can be saved")
	assert.Equal(t, domain.VoucherDraft, draft.Status)
	assert.Empty(t, draft.VoucherNumber)

	_, err = l.svc.Voucher.PostVoucher(ctx, draft.VoucherID, actor)
	var unbalanced *apperrors.UnbalancedEntryError
	require.ErrorAs(t, err, &unbalanced)
	assert.True(t, l.account(t, "101002").CurrentBalance.IsZero())

	balanced, err := l.svc.Voucher.CreateVoucher(ctx, cashSaleRequest(false), actor)
	require.NoError(t, err)
	posted, err := l.svc.Voucher.PostVoucher(ctx, balanced.VoucherID, actor)
	require.NoError(t, err)
	assert.Equal(t, "RV-000001", posted.VoucherNumber, "failed postings do not consume numbers")
	assert.NotNil(t, posted.PostedAt)

	_, err = l.svc.Voucher.PostVoucher(ctx, balanced.VoucherID, actor)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = l.svc.Voucher.CancelVoucher(ctx, draft.VoucherID, actor)
	assert.ErrorIs(t, err, apperrors.ErrConflict, "drafts cannot be cancelled")
}

func TestVoucherService_CancelReversesBalancesAndReports(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	v, err := l.svc.Voucher.CreateVoucher(ctx, cashSaleRequest(true), actor)
	require.NoError(t, err)

	cancelled, err := l.svc.Voucher.CancelVoucher(ctx, v.VoucherID, actor)
	require.NoError(t, err)
	assert.Equal(t, domain.VoucherCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, "RV-000001", cancelled.VoucherNumber)

	assert.True(t, l.account(t, "101002").CurrentBalance.IsZero())
	assert.True(t, l.account(t, "701001").CurrentBalance.IsZero())

	bs, err := l.svc.Aggregator.ComputeBalanceSheet(ctx, "")
	require.NoError(t, err)
	assert.True(t, bs.TotalAssets.IsZero())
	assert.True(t, bs.IsBalanced)

	_, err = l.svc.Voucher.CancelVoucher(ctx, v.VoucherID, actor)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	stored, err := l.svc.Voucher.GetVoucherByID(ctx, v.VoucherID)
	require.NoError(t, err)
	assert.Len(t, stored.Entries, 2, "cancelled vouchers keep their entries")
}

func TestVoucherService_CashBankRules(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	contra := dto.CreateVoucherRequest{
		Type: domain.VoucherContra,
		Entries: []dto.VoucherEntryRequest{
			{AccountCode: "102001", Debit: dec("50")},
			{AccountCode: "101001", Credit: dec("50")},
		},
		Post: true,
	}
	_, err := l.svc.Voucher.CreateVoucher(ctx, contra, actor)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	contra.Entries[1].AccountCode = "101002"
	v, err := l.svc.Voucher.CreateVoucher(ctx, contra, actor)
	require.NoError(t, err)
	assert.Equal(t, "CV-000001", v.VoucherNumber)

	payment := dto.CreateVoucherRequest{
		Type: domain.VoucherPayment,
		Entries: []dto.VoucherEntryRequest{
			{AccountCode: "801002", Debit: dec("30")},
			{AccountCode: "301001", Credit: dec("30")},
		},
		Post: true,
	}
	_, err = l.svc.Voucher.CreateVoucher(ctx, payment, actor)
	assert.ErrorIs(t, err, apperrors.ErrValidation, "payment vouchers need a cash or bank line")

	inventoryID := l.account(t, "101001").AccountID
	receipt := cashSaleRequest(true)
	receipt.CashBankAccountID = &inventoryID
	_, err = l.svc.Voucher.CreateVoucher(ctx, receipt, actor)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestVoucherService_CreateErrors(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	req := cashSaleRequest(true)
	req.Entries[0].AccountCode = "999999"
	_, err := l.svc.Voucher.CreateVoucher(ctx, req, actor)
	var notFound *apperrors.AccountNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "code 999999", notFound.Hint)

	req = cashSaleRequest(true)
	req.Date = "10-04-2026"
	_, err = l.svc.Voucher.CreateVoucher(ctx, req, actor)
	var badDate *apperrors.InvalidDateError
	assert.ErrorAs(t, err, &badDate)

	req = cashSaleRequest(false)
	req.Entries[0].Debit = dec("-1")
	_, err = l.svc.Voucher.CreateVoucher(ctx, req, actor)
	var invalid *apperrors.InvalidAmountError
	assert.ErrorAs(t, err, &invalid, "drafts still reject negative amounts")

	rent := l.account(t, "801002")
	inactive := domain.AccountInactive
	_, err = l.svc.Chart.UpdateAccount(ctx, rent.AccountID, dto.UpdateAccountRequest{Status: &inactive}, actor)
	require.NoError(t, err)
	_, err = l.svc.Voucher.CreateVoucher(ctx, dto.CreateVoucherRequest{
		Type: domain.VoucherJournal,
		Entries: []dto.VoucherEntryRequest{
			{AccountCode: "801002", Debit: dec("10")},
			{AccountCode: "301001", Credit: dec("10")},
		},
		Post: true,
	}, actor)
	assert.ErrorAs(t, err, &notFound)

	assert.Equal(t, 0, l.voucherCount(t))
}

func TestVoucherService_ListVouchers(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	for _, date := range []string{"2026-04-01", "2026-04-05", "2026-04-09"} {
		req := cashSaleRequest(true)
		req.Date = date
		_, err := l.svc.Voucher.CreateVoucher(ctx, req, actor)
		require.NoError(t, err)
	}
	_, err := l.svc.Poster.PostPurchase(ctx, purchaseOf("P", "1", "100"), actor)
	require.NoError(t, err)

	page, err := l.svc.Voucher.ListVouchers(ctx, dto.ListVouchersParams{Type: "receipt", Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Vouchers, 2)
	assert.Equal(t, "2026-04-09", page.Vouchers[0].Date)
	require.NotNil(t, page.NextToken)

	next, err := l.svc.Voucher.ListVouchers(ctx, dto.ListVouchersParams{Type: "receipt", Limit: 2, NextToken: page.NextToken})
	require.NoError(t, err)
	require.Len(t, next.Vouchers, 1)
	assert.Equal(t, "2026-04-01", next.Vouchers[0].Date)
	assert.Nil(t, next.NextToken)

	found, err := l.svc.Voucher.ListVouchers(ctx, dto.ListVouchersParams{Search: "purchase for dpo"})
	require.NoError(t, err)
	require.Len(t, found.Vouchers, 1)
	assert.Equal(t, "JV-000001", found.Vouchers[0].VoucherNumber)

	ranged, err := l.svc.Voucher.ListVouchers(ctx, dto.ListVouchersParams{FromDate: "2026-04-02", ToDate: "2026-04-08"})
	require.NoError(t, err)
	assert.Len(t, ranged.Vouchers, 1)

	_, err = l.svc.Voucher.ListVouchers(ctx, dto.ListVouchersParams{FromDate: "2026-04-08", ToDate: "2026-04-02"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	bad := "not-a-token"
	_, err = l.svc.Voucher.ListVouchers(ctx, dto.ListVouchersParams{NextToken: &bad})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = l.svc.Voucher.GetVoucherByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
