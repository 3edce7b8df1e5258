package accounting

import (
	"fmt"
	"sort"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// hierarchy indexes a snapshot's chart of accounts. Accounts and subgroups
// whose parents are missing are dropped and reported as warnings.
type hierarchy struct {
	groups        []domain.MainGroup
	subsByGroup   map[string][]domain.Subgroup
	accountsBySub map[string][]domain.Account
	categoryOfSub map[string]domain.GroupCategory
	warnings      []string
}

func buildHierarchy(snap domain.LedgerSnapshot) *hierarchy {
	h := &hierarchy{
		subsByGroup:   make(map[string][]domain.Subgroup),
		accountsBySub: make(map[string][]domain.Account),
		categoryOfSub: make(map[string]domain.GroupCategory),
		warnings:      []string{},
	}

	groupCategory := make(map[string]domain.GroupCategory, len(snap.MainGroups))
	for _, g := range snap.MainGroups {
		if !g.Category.Valid() {
			h.warnings = append(h.warnings, fmt.Sprintf("main group %s has unknown category %q and was left out", g.Code, g.Category))
			continue
		}
		groupCategory[g.MainGroupID] = g.Category
		h.groups = append(h.groups, g)
	}
	sort.SliceStable(h.groups, func(i, j int) bool {
		if h.groups[i].DisplayOrder != h.groups[j].DisplayOrder {
			return h.groups[i].DisplayOrder < h.groups[j].DisplayOrder
		}
		return h.groups[i].Code < h.groups[j].Code
	})

	for _, s := range snap.Subgroups {
		cat, ok := groupCategory[s.MainGroupID]
		if !ok {
			h.warnings = append(h.warnings, fmt.Sprintf("subgroup %s references a missing main group", s.Code))
			continue
		}
		h.categoryOfSub[s.SubgroupID] = cat
		h.subsByGroup[s.MainGroupID] = append(h.subsByGroup[s.MainGroupID], s)
	}
	for id := range h.subsByGroup {
		subs := h.subsByGroup[id]
		sort.Slice(subs, func(i, j int) bool { return subs[i].Code < subs[j].Code })
	}

	for _, a := range snap.Accounts {
		if _, ok := h.categoryOfSub[a.SubgroupID]; !ok {
			h.warnings = append(h.warnings, fmt.Sprintf("account %s references a missing subgroup", a.Code))
			continue
		}
		h.accountsBySub[a.SubgroupID] = append(h.accountsBySub[a.SubgroupID], a)
	}
	for id := range h.accountsBySub {
		accs := h.accountsBySub[id]
		sort.Slice(accs, func(i, j int) bool { return accs[i].Code < accs[j].Code })
	}
	return h
}

// BuildBalanceSheet folds a ledger snapshot into the account → subgroup →
// main group rollup, buckets the groups and computes the net-income plug.
// Inactive accounts are included. It never fails: missing master data shows
// up as warnings and zero totals.
//
// Because net income is the plug, TotalCapital always equals assets minus
// liabilities and IsBalanced is true by construction. An out-of-balance
// ledger surfaces through NetIncomeConsistent and NetIncomeVariance instead.
func BuildBalanceSheet(snap domain.LedgerSnapshot) *domain.BalanceSheet {
	h := buildHierarchy(snap)
	bs := &domain.BalanceSheet{
		AsOf:            snap.AsOf,
		LedgerRevision:  snap.Revision,
		Assets:          []domain.MainGroupRollup{},
		Liabilities:     []domain.MainGroupRollup{},
		Equity:          []domain.MainGroupRollup{},
		IncomeStatement: []domain.MainGroupRollup{},
		Warnings:        h.warnings,
	}

	totals := make(map[domain.GroupCategory]decimal.Decimal)
	for _, g := range h.groups {
		rollup := rollupGroup(g, h, snap.Movements)
		totals[g.Category] = totals[g.Category].Add(rollup.Total)

		switch g.Category.Section() {
		case domain.SectionAssets:
			bs.Assets = append(bs.Assets, rollup)
		case domain.SectionLiabilities:
			bs.Liabilities = append(bs.Liabilities, rollup)
		case domain.SectionEquity:
			bs.Equity = append(bs.Equity, rollup)
		default:
			bs.IncomeStatement = append(bs.IncomeStatement, rollup)
		}
	}

	bs.TotalAssets = domain.Round2(totals[domain.CategoryAsset])
	bs.TotalLiabilities = domain.Round2(totals[domain.CategoryLiability])
	bs.CapitalTotal = domain.Round2(totals[domain.CategoryCapital])
	bs.DrawingsTotal = domain.Round2(totals[domain.CategoryDrawings])

	// Drawings are debit-normal, so they reduce equity.
	ownersEquity := bs.CapitalTotal.Sub(bs.DrawingsTotal)
	bs.NetIncome = domain.Round2(bs.TotalAssets.Sub(bs.TotalLiabilities).Sub(ownersEquity))
	bs.TotalCapital = domain.Round2(ownersEquity.Add(bs.NetIncome))

	bs.Difference = domain.Round2(bs.TotalAssets.Sub(bs.TotalLiabilities.Add(bs.TotalCapital)).Abs())
	bs.IsBalanced = bs.Difference.LessThan(domain.Epsilon)

	bs.TotalRevenue = domain.Round2(totals[domain.CategoryRevenue])
	bs.TotalExpense = domain.Round2(totals[domain.CategoryExpense])
	bs.TotalCost = domain.Round2(totals[domain.CategoryCost])
	bs.IncomeStatementNetIncome = domain.Round2(bs.TotalRevenue.Sub(bs.TotalExpense).Sub(bs.TotalCost))
	bs.NetIncomeVariance = domain.Round2(bs.NetIncome.Sub(bs.IncomeStatementNetIncome))
	bs.NetIncomeConsistent = bs.NetIncomeVariance.Abs().LessThan(domain.Epsilon)
	if !bs.NetIncomeConsistent {
		bs.Warnings = append(bs.Warnings, fmt.Sprintf(
			"net income plug %s differs from income statement net income %s by %s",
			bs.NetIncome.StringFixed(2), bs.IncomeStatementNetIncome.StringFixed(2), bs.NetIncomeVariance.StringFixed(2)))
	}
	return bs
}

func rollupGroup(g domain.MainGroup, h *hierarchy, movements map[string]domain.AccountMovement) domain.MainGroupRollup {
	side := g.Category.NormalSide()
	rollup := domain.MainGroupRollup{
		MainGroupID:  g.MainGroupID,
		Code:         g.Code,
		Name:         g.Name,
		Category:     g.Category,
		DisplayOrder: g.DisplayOrder,
		Subgroups:    []domain.SubgroupRollup{},
		Total:        decimal.Zero,
	}
	for _, s := range h.subsByGroup[g.MainGroupID] {
		sub := domain.SubgroupRollup{
			SubgroupID: s.SubgroupID,
			Code:       s.Code,
			Name:       s.Name,
			Accounts:   []domain.AccountBalanceLine{},
			Total:      decimal.Zero,
		}
		for _, a := range h.accountsBySub[s.SubgroupID] {
			balance := ClosingBalance(a.OpeningBalance, side, movements[a.AccountID])
			sub.Accounts = append(sub.Accounts, domain.AccountBalanceLine{
				AccountID: a.AccountID,
				Code:      a.Code,
				Name:      a.Name,
				Status:    a.Status,
				Balance:   balance,
			})
			sub.Total = sub.Total.Add(balance)
		}
		sub.Total = domain.Round2(sub.Total)
		rollup.Subgroups = append(rollup.Subgroups, sub)
		rollup.Total = rollup.Total.Add(sub.Total)
	}
	rollup.Total = domain.Round2(rollup.Total)
	return rollup
}

// BuildTrialBalance lists the closing balance of every account with a
// non-zero balance in debit/credit columns.
func BuildTrialBalance(snap domain.LedgerSnapshot) *domain.TrialBalance {
	h := buildHierarchy(snap)
	tb := &domain.TrialBalance{AsOf: snap.AsOf, Rows: []domain.TrialBalanceRow{}}

	debit, credit := decimal.Zero, decimal.Zero
	for _, g := range h.groups {
		side := g.Category.NormalSide()
		for _, s := range h.subsByGroup[g.MainGroupID] {
			for _, a := range h.accountsBySub[s.SubgroupID] {
				balance := ClosingBalance(a.OpeningBalance, side, snap.Movements[a.AccountID])
				if balance.IsZero() {
					continue
				}
				dr, cr := SplitToColumns(balance, side)
				tb.Rows = append(tb.Rows, domain.TrialBalanceRow{
					AccountID:   a.AccountID,
					AccountCode: a.Code,
					AccountName: a.Name,
					Debit:       dr,
					Credit:      cr,
				})
				debit = debit.Add(dr)
				credit = credit.Add(cr)
			}
		}
	}
	sort.Slice(tb.Rows, func(i, j int) bool { return tb.Rows[i].AccountCode < tb.Rows[j].AccountCode })

	tb.TotalDebit = domain.Round2(debit)
	tb.TotalCredit = domain.Round2(credit)
	tb.IsBalanced = domain.AmountsEqual(tb.TotalDebit, tb.TotalCredit)
	return tb
}
