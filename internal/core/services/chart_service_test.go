package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/platform/chartseed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartService_SeedIsIdempotent(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	chart, err := chartseed.Default()
	require.NoError(t, err)
	resp, err := l.svc.Chart.SeedChart(ctx, chart, actor)
	require.NoError(t, err)
	assert.Equal(t, dto.SeedChartResponse{}, *resp)

	groups, err := l.svc.Chart.ListMainGroups(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 9)
	assert.Equal(t, "1", groups[0].Code)

	cash, err := l.svc.Chart.ListAccounts(ctx, dto.ListAccountsParams{Role: string(domain.RoleCashOrBank)})
	require.NoError(t, err)
	require.Len(t, cash, 2)
	assert.Equal(t, "101002", cash[0].Code)
	assert.Equal(t, "102001", cash[1].Code)

	_, err = l.svc.Chart.ListAccounts(ctx, dto.ListAccountsParams{Role: "TREASURY"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestChartService_CreateHierarchy(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	_, err := l.svc.Chart.CreateMainGroup(ctx, dto.CreateMainGroupRequest{Code: "1", Name: "Dup", Category: domain.CategoryAsset}, actor)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	_, err = l.svc.Chart.CreateMainGroup(ctx, dto.CreateMainGroupRequest{Code: "1A", Name: "Bad", Category: domain.CategoryAsset}, actor)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	group, err := l.svc.Chart.CreateMainGroup(ctx, dto.CreateMainGroupRequest{Code: "10", Name: "Investments", Category: domain.CategoryAsset, DisplayOrder: 10}, actor)
	require.NoError(t, err)

	_, err = l.svc.Chart.CreateSubgroup(ctx, dto.CreateSubgroupRequest{Code: "201", Name: "Wrong parent", MainGroupID: group.MainGroupID}, actor)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	sub, err := l.svc.Chart.CreateSubgroup(ctx, dto.CreateSubgroupRequest{Code: "1001", Name: "Shares", MainGroupID: group.MainGroupID}, actor)
	require.NoError(t, err)

	first, err := l.svc.Chart.CreateAccount(ctx, dto.CreateAccountRequest{SubgroupID: sub.SubgroupID, Name: "Listed", OpeningBalance: dec("10.005")}, actor)
	require.NoError(t, err)
	assert.Equal(t, "1001001", first.Code)
	assert.Equal(t, domain.DebitSide, first.NormalSide)
	assert.Equal(t, domain.KindRegular, first.Kind)
	assert.Equal(t, "10.01", first.OpeningBalance.StringFixed(2))
	assert.True(t, first.CanDelete)

	second, err := l.svc.Chart.CreateAccount(ctx, dto.CreateAccountRequest{SubgroupID: sub.SubgroupID, Name: "Unlisted", Kind: domain.KindPerson}, actor)
	require.NoError(t, err)
	assert.Equal(t, "1001002", second.Code)

	subs, err := l.svc.Chart.GetSubgroupsByMainGroup(ctx, group.MainGroupID)
	require.NoError(t, err)
	require.Len(t, subs, 1)

	accounts, err := l.svc.Chart.FindAccountsBySubgroup(ctx, sub.SubgroupID)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	_, err = l.svc.Chart.GetSubgroupsByMainGroup(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = l.svc.Chart.CreateAccount(ctx, dto.CreateAccountRequest{SubgroupID: "missing", Name: "x"}, actor)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestChartService_AccountCodesContinueAfterExisting(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	cash := l.account(t, "101002")
	acc, err := l.svc.Chart.CreateAccount(ctx, dto.CreateAccountRequest{SubgroupID: cash.SubgroupID, Name: "Petty Cash", Role: domain.RoleCashOrBank}, actor)
	require.NoError(t, err)
	assert.Equal(t, "101003", acc.Code)

	payables := l.account(t, "301001")
	supplier, err := l.svc.Chart.CreateAccount(ctx, dto.CreateAccountRequest{SubgroupID: payables.SubgroupID, Name: "Sup", Kind: domain.KindPerson}, actor)
	require.NoError(t, err)
	assert.Equal(t, domain.CreditSide, supplier.NormalSide)
}

func TestChartService_UpdateAndDelete(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	rent := l.account(t, "801002")
	name := "Shop Rent"
	role := domain.AccountRole("NONE")
	updated, err := l.svc.Chart.UpdateAccount(ctx, rent.AccountID, dto.UpdateAccountRequest{Name: &name, Role: &role}, actor)
	require.NoError(t, err)
	assert.Equal(t, "Shop Rent", updated.Name)
	assert.Equal(t, domain.RoleNone, updated.Role)

	bogus := domain.AccountRole("BOGUS")
	_, err = l.svc.Chart.UpdateAccount(ctx, rent.AccountID, dto.UpdateAccountRequest{Role: &bogus}, actor)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	require.NoError(t, l.svc.Chart.DeleteAccount(ctx, rent.AccountID, actor))
	_, err = l.svc.Chart.GetAccountByID(ctx, rent.AccountID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = l.svc.Poster.PostPurchase(ctx, purchaseOf("P", "1", "100"), actor)
	require.NoError(t, err)
	err = l.svc.Chart.DeleteAccount(ctx, l.account(t, "101001").AccountID, actor)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	err = l.svc.Chart.DeleteAccount(ctx, "missing", actor)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestChartService_DeleteAccountUsedByDraftConflicts(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	draft, err := l.svc.Voucher.CreateVoucher(ctx, dto.CreateVoucherRequest{
		Type: domain.VoucherJournal,
		Entries: []dto.VoucherEntryRequest{
			{AccountCode: "701001", Debit: dec("15")},
			{AccountCode: "301001", Credit: dec("15")},
		},
	}, actor)
	require.NoError(t, err)
	require.Equal(t, domain.VoucherDraft, draft.Status)

	acc := l.account(t, "701001")
	require.True(t, acc.CanDelete)
	err = l.svc.Chart.DeleteAccount(ctx, acc.AccountID, actor)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	loaded, err := l.svc.Voucher.GetVoucherByID(ctx, draft.VoucherID)
	require.NoError(t, err)
	assert.Equal(t, acc.AccountID, loaded.Entries[0].AccountID)
}

func TestChartService_SeedRejectsMisplacedAccount(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	chart := domain.ChartDefinition{MainGroups: []domain.MainGroupDefinition{{
		Code:     "1",
		Name:     "Current Assets",
		Category: domain.CategoryAsset,
		Subgroups: []domain.SubgroupDefinition{{
			Code:     "104",
			Name:     "Deposits",
			Accounts: []domain.AccountDefinition{{Code: "105001", Name: "Wrong"}},
		}},
	}}}
	_, err := l.svc.Chart.SeedChart(ctx, chart, actor)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = l.svc.Chart.FindAccountByCode(ctx, "105001")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
