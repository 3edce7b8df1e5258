package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountMovement is the sum of posted debits and credits on one account.
type AccountMovement struct {
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// LedgerSnapshot is the consistent input of a balance sheet or trial balance.
type LedgerSnapshot struct {
	AsOf       time.Time
	Revision   int64
	MainGroups []MainGroup
	Subgroups  []Subgroup
	Accounts   []Account
	Movements  map[string]AccountMovement
}

// AccountBalanceLine is one account inside a subgroup rollup.
type AccountBalanceLine struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Status    AccountStatus   `json:"status"`
	Balance   decimal.Decimal `json:"balance"`
}

// SubgroupRollup totals the accounts of one subgroup.
type SubgroupRollup struct {
	SubgroupID string               `json:"subgroupID"`
	Code       string               `json:"code"`
	Name       string               `json:"name"`
	Accounts   []AccountBalanceLine `json:"accounts"`
	Total      decimal.Decimal      `json:"total"`
}

// MainGroupRollup totals the subgroups of one main group.
type MainGroupRollup struct {
	MainGroupID  string           `json:"mainGroupID"`
	Code         string           `json:"code"`
	Name         string           `json:"name"`
	Category     GroupCategory    `json:"category"`
	DisplayOrder int              `json:"displayOrder"`
	Subgroups    []SubgroupRollup `json:"subgroups"`
	Total        decimal.Decimal  `json:"total"`
}

// BalanceSheet is the hierarchical financial position as of a date.
//
// NetIncome is the residual plug; IncomeStatementNetIncome is derived from the
// revenue, expense and cost groups and NetIncomeConsistent compares the two.
type BalanceSheet struct {
	AsOf            time.Time         `json:"asOf"`
	LedgerRevision  int64             `json:"ledgerRevision"`
	Assets          []MainGroupRollup `json:"assets"`
	Liabilities     []MainGroupRollup `json:"liabilities"`
	Equity          []MainGroupRollup `json:"equity"`
	IncomeStatement []MainGroupRollup `json:"incomeStatement"`

	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	CapitalTotal     decimal.Decimal `json:"capitalTotal"`
	DrawingsTotal    decimal.Decimal `json:"drawingsTotal"`
	NetIncome        decimal.Decimal `json:"netIncome"`
	TotalCapital     decimal.Decimal `json:"totalCapital"`

	TotalRevenue             decimal.Decimal `json:"totalRevenue"`
	TotalExpense             decimal.Decimal `json:"totalExpense"`
	TotalCost                decimal.Decimal `json:"totalCost"`
	IncomeStatementNetIncome decimal.Decimal `json:"incomeStatementNetIncome"`
	NetIncomeVariance        decimal.Decimal `json:"netIncomeVariance"`
	NetIncomeConsistent      bool            `json:"netIncomeConsistent"`

	IsBalanced bool            `json:"isBalanced"`
	Difference decimal.Decimal `json:"difference"`
	Warnings   []string        `json:"warnings"`
}

// TrialBalanceRow is one account's closing balance split into debit/credit columns.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalance lists every account with a non-zero closing balance.
type TrialBalance struct {
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	IsBalanced  bool              `json:"isBalanced"`
}
