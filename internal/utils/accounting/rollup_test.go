package accounting_test

import (
	"testing"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// sampleSnapshot is a small chart with one posted purchase, a payment, a
// sale and its cost, plus an owner's capital opening.
func sampleSnapshot() domain.LedgerSnapshot {
	groups := []domain.MainGroup{
		{MainGroupID: "g1", Code: "1", Name: "Assets", Category: domain.CategoryAsset, DisplayOrder: 1},
		{MainGroupID: "g3", Code: "3", Name: "Liabilities", Category: domain.CategoryLiability, DisplayOrder: 3},
		{MainGroupID: "g4", Code: "4", Name: "Capital", Category: domain.CategoryCapital, DisplayOrder: 4},
		{MainGroupID: "g5", Code: "5", Name: "Drawings", Category: domain.CategoryDrawings, DisplayOrder: 5},
		{MainGroupID: "g6", Code: "6", Name: "Revenue", Category: domain.CategoryRevenue, DisplayOrder: 6},
		{MainGroupID: "g7", Code: "7", Name: "Expenses", Category: domain.CategoryExpense, DisplayOrder: 7},
		{MainGroupID: "g8", Code: "8", Name: "Cost of Sales", Category: domain.CategoryCost, DisplayOrder: 8},
		{MainGroupID: "g9", Code: "9", Name: "Empty Group", Category: domain.CategoryAsset, DisplayOrder: 9},
	}
	subs := []domain.Subgroup{
		{SubgroupID: "s101", Code: "101", Name: "Current Assets", MainGroupID: "g1"},
		{SubgroupID: "s102", Code: "102", Name: "Bank", MainGroupID: "g1"},
		{SubgroupID: "s103", Code: "103", Name: "Empty Subgroup", MainGroupID: "g1"},
		{SubgroupID: "s301", Code: "301", Name: "Payables", MainGroupID: "g3"},
		{SubgroupID: "s401", Code: "401", Name: "Owner Capital", MainGroupID: "g4"},
		{SubgroupID: "s501", Code: "501", Name: "Owner Drawings", MainGroupID: "g5"},
		{SubgroupID: "s601", Code: "601", Name: "Sales", MainGroupID: "g6"},
		{SubgroupID: "s701", Code: "701", Name: "Operating", MainGroupID: "g7"},
		{SubgroupID: "s801", Code: "801", Name: "COGS", MainGroupID: "g8"},
	}
	accounts := []domain.Account{
		{AccountID: "inv", Code: "101001", Name: "Inventory", SubgroupID: "s101"},
		{AccountID: "cash", Code: "101002", Name: "Cash", SubgroupID: "s101", OpeningBalance: dec("1000")},
		{AccountID: "ar", Code: "101003", Name: "Receivables", SubgroupID: "s101"},
		{AccountID: "bank", Code: "102001", Name: "Bank", SubgroupID: "s102", Status: domain.AccountInactive, OpeningBalance: dec("500")},
		{AccountID: "ap", Code: "301001", Name: "Supplier", SubgroupID: "s301"},
		{AccountID: "cap", Code: "401001", Name: "Capital", SubgroupID: "s401", OpeningBalance: dec("1500")},
		{AccountID: "draw", Code: "501001", Name: "Drawings", SubgroupID: "s501"},
		{AccountID: "sales", Code: "601001", Name: "Sales", SubgroupID: "s601"},
		{AccountID: "rent", Code: "701001", Name: "Rent", SubgroupID: "s701"},
		{AccountID: "cogs", Code: "801001", Name: "COGS", SubgroupID: "s801"},
	}
	// Purchase 100 on credit, pay 1, sell for 200 cash, cost 100, pay rent 50, draw 20.
	movements := map[string]domain.AccountMovement{
		"inv":   {Debit: dec("100"), Credit: dec("100")},
		"ap":    {Debit: dec("1"), Credit: dec("100")},
		"cash":  {Debit: dec("200"), Credit: dec("71")},
		"ar":    {Debit: dec("200"), Credit: dec("200")},
		"sales": {Credit: dec("200")},
		"cogs":  {Debit: dec("100")},
		"rent":  {Debit: dec("50")},
		"draw":  {Debit: dec("20")},
	}
	return domain.LedgerSnapshot{
		AsOf:       time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		Revision:   7,
		MainGroups: groups,
		Subgroups:  subs,
		Accounts:   accounts,
		Movements:  movements,
	}
}

func TestBuildBalanceSheet_Totals(t *testing.T) {
	bs := accounting.BuildBalanceSheet(sampleSnapshot())

	// Assets: inv 0 + cash 1129 + ar 0 + bank 500 (inactive but included) = 1629
	assert.Equal(t, "1629.00", bs.TotalAssets.StringFixed(2))
	assert.Equal(t, "99.00", bs.TotalLiabilities.StringFixed(2))
	assert.Equal(t, "1500.00", bs.CapitalTotal.StringFixed(2))
	assert.Equal(t, "20.00", bs.DrawingsTotal.StringFixed(2))
	// 1629 - 99 - (1500 - 20) = 50
	assert.Equal(t, "50.00", bs.NetIncome.StringFixed(2))
	assert.Equal(t, "1530.00", bs.TotalCapital.StringFixed(2))

	expectedBalanced := bs.TotalAssets.Sub(bs.TotalLiabilities.Add(bs.TotalCapital)).Abs().LessThan(dec("0.01"))
	assert.Equal(t, expectedBalanced, bs.IsBalanced)
	assert.True(t, bs.Difference.IsZero())

	// Revenue 200 - expense 50 - cost 100 = 50, matching the plug.
	assert.Equal(t, "50.00", bs.IncomeStatementNetIncome.StringFixed(2))
	assert.True(t, bs.NetIncomeConsistent)
	assert.Empty(t, bs.Warnings)
	assert.Equal(t, int64(7), bs.LedgerRevision)
}

func TestBuildBalanceSheet_SubtotalConsistencyAndEmptyGroups(t *testing.T) {
	bs := accounting.BuildBalanceSheet(sampleSnapshot())

	all := append(append(append(append([]domain.MainGroupRollup{}, bs.Assets...), bs.Liabilities...), bs.Equity...), bs.IncomeStatement...)
	require.Len(t, all, 8)
	for _, g := range all {
		groupSum := decimal.Zero
		for _, s := range g.Subgroups {
			subSum := decimal.Zero
			for _, a := range s.Accounts {
				subSum = subSum.Add(a.Balance)
			}
			assert.True(t, s.Total.Equal(subSum), "subgroup %s", s.Code)
			groupSum = groupSum.Add(s.Total)
		}
		assert.True(t, g.Total.Equal(groupSum), "main group %s", g.Code)
		assert.NotNil(t, g.Subgroups)
	}

	require.Len(t, bs.Assets, 2)
	assert.Equal(t, "9", bs.Assets[1].Code)
	assert.Empty(t, bs.Assets[1].Subgroups)
	assert.True(t, bs.Assets[1].Total.IsZero())

	var empty *domain.SubgroupRollup
	for i := range bs.Assets[0].Subgroups {
		if bs.Assets[0].Subgroups[i].Code == "103" {
			empty = &bs.Assets[0].Subgroups[i]
		}
	}
	require.NotNil(t, empty)
	assert.True(t, empty.Total.IsZero())
	assert.NotNil(t, empty.Accounts)
}

func TestBuildBalanceSheet_Idempotent(t *testing.T) {
	snap := sampleSnapshot()
	first := accounting.BuildBalanceSheet(snap)
	second := accounting.BuildBalanceSheet(snap)
	assert.Equal(t, first, second)
}

func TestBuildBalanceSheet_PlugMismatchIsReportedNotFatal(t *testing.T) {
	snap := sampleSnapshot()
	// An opening balance with no counterpart makes the plug drift from the income statement.
	snap.Accounts[0].OpeningBalance = dec("10")

	bs := accounting.BuildBalanceSheet(snap)
	assert.Equal(t, "60.00", bs.NetIncome.StringFixed(2))
	assert.False(t, bs.NetIncomeConsistent)
	assert.Equal(t, "10.00", bs.NetIncomeVariance.StringFixed(2))
	assert.True(t, bs.IsBalanced)
	assert.Len(t, bs.Warnings, 1)
}

func TestBuildBalanceSheet_DegradesOnMissingMasterData(t *testing.T) {
	snap := sampleSnapshot()
	snap.Subgroups = append(snap.Subgroups, domain.Subgroup{SubgroupID: "orphan", Code: "999", MainGroupID: "missing"})
	snap.Accounts = append(snap.Accounts, domain.Account{AccountID: "lost", Code: "999001", SubgroupID: "gone", OpeningBalance: dec("5")})

	bs := accounting.BuildBalanceSheet(snap)
	assert.Equal(t, "1629.00", bs.TotalAssets.StringFixed(2))
	assert.Len(t, bs.Warnings, 2)

	empty := accounting.BuildBalanceSheet(domain.LedgerSnapshot{})
	assert.True(t, empty.TotalAssets.IsZero())
	assert.True(t, empty.IsBalanced)
	assert.NotNil(t, empty.Assets)
}

func TestBuildTrialBalance(t *testing.T) {
	tb := accounting.BuildTrialBalance(sampleSnapshot())

	assert.True(t, tb.IsBalanced)
	assert.Equal(t, tb.TotalDebit.StringFixed(2), tb.TotalCredit.StringFixed(2))
	// cash 1129 + bank 500 + draw 20 + rent 50 + cogs 100
	assert.Equal(t, "1799.00", tb.TotalDebit.StringFixed(2))
	for _, row := range tb.Rows {
		assert.False(t, row.Debit.IsZero() && row.Credit.IsZero(), row.AccountCode)
	}
	assert.Equal(t, "101002", tb.Rows[0].AccountCode)
}

func TestCalculateBalanceChanges(t *testing.T) {
	accounts := map[string]domain.Account{
		"inv": {AccountID: "inv", NormalSide: domain.DebitSide},
		"ap":  {AccountID: "ap", NormalSide: domain.CreditSide},
	}
	entries := []domain.VoucherEntry{
		{AccountID: "inv", Debit: dec("60")},
		{AccountID: "inv", Debit: dec("40")},
		{AccountID: "ap", Credit: dec("100")},
	}

	changes, err := accounting.CalculateBalanceChanges(entries, accounts, false)
	require.NoError(t, err)
	assert.True(t, changes["inv"].Equal(dec("100")))
	assert.True(t, changes["ap"].Equal(dec("100")))

	reversed, err := accounting.CalculateBalanceChanges(entries, accounts, true)
	require.NoError(t, err)
	assert.True(t, reversed["inv"].Equal(dec("-100")))

	_, err = accounting.CalculateBalanceChanges([]domain.VoucherEntry{{AccountID: "missing"}}, accounts, false)
	assert.Error(t, err)
}

func TestSplitToColumns(t *testing.T) {
	dr, cr := accounting.SplitToColumns(dec("10"), domain.DebitSide)
	assert.True(t, dr.Equal(dec("10")) && cr.IsZero())

	dr, cr = accounting.SplitToColumns(dec("-10"), domain.DebitSide)
	assert.True(t, dr.IsZero() && cr.Equal(dec("10")))

	dr, cr = accounting.SplitToColumns(dec("10"), domain.CreditSide)
	assert.True(t, dr.IsZero() && cr.Equal(dec("10")))
}
