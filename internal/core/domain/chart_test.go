package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupCategory_NormalSideAndSection(t *testing.T) {
	tests := []struct {
		category domain.GroupCategory
		side     domain.BalanceSide
		section  domain.ReportSection
	}{
		{domain.CategoryAsset, domain.DebitSide, domain.SectionAssets},
		{domain.CategoryLiability, domain.CreditSide, domain.SectionLiabilities},
		{domain.CategoryCapital, domain.CreditSide, domain.SectionEquity},
		{domain.CategoryDrawings, domain.DebitSide, domain.SectionEquity},
		{domain.CategoryRevenue, domain.CreditSide, domain.SectionIncomeStatement},
		{domain.CategoryExpense, domain.DebitSide, domain.SectionIncomeStatement},
		{domain.CategoryCost, domain.DebitSide, domain.SectionIncomeStatement},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			assert.True(t, tt.category.Valid())
			assert.Equal(t, tt.side, tt.category.NormalSide())
			assert.Equal(t, tt.section, tt.category.Section())
		})
	}
	assert.False(t, domain.GroupCategory("INCOME").Valid())
}

func TestAccount_SignedDelta(t *testing.T) {
	asset := domain.Account{NormalSide: domain.DebitSide}
	payable := domain.Account{NormalSide: domain.CreditSide}

	assert.True(t, asset.SignedDelta(dec("100"), dec("0")).Equal(dec("100")))
	assert.True(t, asset.SignedDelta(dec("0"), dec("40")).Equal(dec("-40")))
	assert.True(t, payable.SignedDelta(dec("0"), dec("100")).Equal(dec("100")))
	assert.True(t, payable.SignedDelta(dec("1"), dec("0")).Equal(dec("-1")))
}

func TestValidateSubgroupCode(t *testing.T) {
	assert.NoError(t, domain.ValidateSubgroupCode("1", "101"))
	assert.NoError(t, domain.ValidateSubgroupCode("3", "301"))
	assert.Error(t, domain.ValidateSubgroupCode("1", "201"))
	assert.Error(t, domain.ValidateSubgroupCode("1", "1"))
	assert.Error(t, domain.ValidateSubgroupCode("1", "10a"))
}

func TestAccountCodeSequence(t *testing.T) {
	code, err := domain.AccountCodeFor("101", 1)
	require.NoError(t, err)
	assert.Equal(t, "101001", code)

	_, err = domain.AccountCodeFor("101", domain.MaxAccountSequence+1)
	assert.Error(t, err)

	seq, ok := domain.AccountSequence("101", "101042")
	assert.True(t, ok)
	assert.Equal(t, 42, seq)

	_, ok = domain.AccountSequence("101", "102001")
	assert.False(t, ok)

	assert.Equal(t, 1, domain.NextAccountSequence("301", nil))
	assert.Equal(t, 8, domain.NextAccountSequence("301", []string{"301001", "301007", "302099", "3010"}))
}

func TestAccountFilter_Matches(t *testing.T) {
	acc := domain.Account{SubgroupID: "s1", Status: domain.AccountInactive, Role: domain.RoleCashOrBank}
	assert.True(t, domain.AccountFilter{}.Matches(acc))
	assert.True(t, domain.AccountFilter{SubgroupID: "s1", Role: domain.RoleCashOrBank}.Matches(acc))
	assert.False(t, domain.AccountFilter{Status: domain.AccountActive}.Matches(acc))
	assert.False(t, acc.IsActive())
}

func TestParseDate(t *testing.T) {
	now := time.Date(2026, 10, 17, 15, 4, 5, 0, time.UTC)

	got, err := domain.ParseDate("", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), got)

	got, err = domain.ParseDate("2026-01-31", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), got)

	got, err = domain.ParseDate("2026-01-31T22:00:00Z", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), got)

	_, err = domain.ParseDate("31/01/2026", now)
	var invalid *apperrors.InvalidDateError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "31/01/2026", invalid.Input)
}
