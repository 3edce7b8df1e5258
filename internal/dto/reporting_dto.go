package dto

import (
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountBalanceResponse is an account line of the balance sheet.
type AccountBalanceResponse struct {
	AccountID string               `json:"accountID"`
	Code      string               `json:"code"`
	Name      string               `json:"name"`
	Status    domain.AccountStatus `json:"status"`
	Balance   decimal.Decimal      `json:"balance"`
}

// SubgroupBalanceResponse is a subgroup rollup.
type SubgroupBalanceResponse struct {
	SubgroupID string                   `json:"subgroupID"`
	Code       string                   `json:"code"`
	Name       string                   `json:"name"`
	Total      decimal.Decimal          `json:"total"`
	Accounts   []AccountBalanceResponse `json:"accounts"`
}

// MainGroupBalanceResponse is a main group rollup.
type MainGroupBalanceResponse struct {
	MainGroupID string                    `json:"mainGroupID"`
	Code        string                    `json:"code"`
	Name        string                    `json:"name"`
	Category    domain.GroupCategory      `json:"category"`
	Total       decimal.Decimal           `json:"total"`
	Subgroups   []SubgroupBalanceResponse `json:"subgroups"`
}

// IncomeCheckResponse compares the net-income plug with the income statement.
type IncomeCheckResponse struct {
	TotalRevenue             decimal.Decimal `json:"totalRevenue"`
	TotalExpense             decimal.Decimal `json:"totalExpense"`
	TotalCost                decimal.Decimal `json:"totalCost"`
	IncomeStatementNetIncome decimal.Decimal `json:"incomeStatementNetIncome"`
	Variance                 decimal.Decimal `json:"variance"`
	Consistent               bool            `json:"consistent"`
}

// BalanceSheetResponse represents the balance sheet report response.
type BalanceSheetResponse struct {
	AsOf            string                     `json:"asOf"`
	LedgerRevision  int64                      `json:"ledgerRevision"`
	Assets          []MainGroupBalanceResponse `json:"assets"`
	Liabilities     []MainGroupBalanceResponse `json:"liabilities"`
	Equity          []MainGroupBalanceResponse `json:"equity"`
	IncomeStatement []MainGroupBalanceResponse `json:"incomeStatement"`

	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	CapitalTotal     decimal.Decimal `json:"capitalTotal"`
	DrawingsTotal    decimal.Decimal `json:"drawingsTotal"`
	NetIncome        decimal.Decimal `json:"netIncome"`
	TotalCapital     decimal.Decimal `json:"totalCapital"`
	IsBalanced       bool            `json:"isBalanced"`
	Difference       decimal.Decimal `json:"difference"`

	IncomeCheck IncomeCheckResponse `json:"incomeCheck"`
	Warnings    []string            `json:"warnings"`
}

// TrialBalanceRowResponse represents a row in the trial balance report response.
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse represents the trial balance report response.
type TrialBalanceResponse struct {
	AsOf   string                    `json:"asOf"`
	Rows   []TrialBalanceRowResponse `json:"rows"`
	Totals struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
	IsBalanced bool `json:"isBalanced"`
}

func toMainGroupBalanceResponses(groups []domain.MainGroupRollup) []MainGroupBalanceResponse {
	out := make([]MainGroupBalanceResponse, len(groups))
	for i, g := range groups {
		subs := make([]SubgroupBalanceResponse, len(g.Subgroups))
		for j, s := range g.Subgroups {
			accounts := make([]AccountBalanceResponse, len(s.Accounts))
			for k, a := range s.Accounts {
				accounts[k] = AccountBalanceResponse(a)
			}
			subs[j] = SubgroupBalanceResponse{
				SubgroupID: s.SubgroupID,
				Code:       s.Code,
				Name:       s.Name,
				Total:      s.Total,
				Accounts:   accounts,
			}
		}
		out[i] = MainGroupBalanceResponse{
			MainGroupID: g.MainGroupID,
			Code:        g.Code,
			Name:        g.Name,
			Category:    g.Category,
			Total:       g.Total,
			Subgroups:   subs,
		}
	}
	return out
}

// ToBalanceSheetResponse converts a domain.BalanceSheet to its DTO.
func ToBalanceSheetResponse(bs *domain.BalanceSheet) BalanceSheetResponse {
	warnings := bs.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return BalanceSheetResponse{
		AsOf:             bs.AsOf.Format(domain.DateLayout),
		LedgerRevision:   bs.LedgerRevision,
		Assets:           toMainGroupBalanceResponses(bs.Assets),
		Liabilities:      toMainGroupBalanceResponses(bs.Liabilities),
		Equity:           toMainGroupBalanceResponses(bs.Equity),
		IncomeStatement:  toMainGroupBalanceResponses(bs.IncomeStatement),
		TotalAssets:      bs.TotalAssets,
		TotalLiabilities: bs.TotalLiabilities,
		CapitalTotal:     bs.CapitalTotal,
		DrawingsTotal:    bs.DrawingsTotal,
		NetIncome:        bs.NetIncome,
		TotalCapital:     bs.TotalCapital,
		IsBalanced:       bs.IsBalanced,
		Difference:       bs.Difference,
		IncomeCheck: IncomeCheckResponse{
			TotalRevenue:             bs.TotalRevenue,
			TotalExpense:             bs.TotalExpense,
			TotalCost:                bs.TotalCost,
			IncomeStatementNetIncome: bs.IncomeStatementNetIncome,
			Variance:                 bs.NetIncomeVariance,
			Consistent:               bs.NetIncomeConsistent,
		},
		Warnings: warnings,
	}
}

// ToTrialBalanceResponse converts a domain.TrialBalance to its DTO.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	resp := TrialBalanceResponse{
		AsOf:       tb.AsOf.Format(domain.DateLayout),
		Rows:       make([]TrialBalanceRowResponse, len(tb.Rows)),
		IsBalanced: tb.IsBalanced,
	}
	for i, r := range tb.Rows {
		resp.Rows[i] = TrialBalanceRowResponse(r)
	}
	resp.Totals.Debit = tb.TotalDebit
	resp.Totals.Credit = tb.TotalCredit
	return resp
}
