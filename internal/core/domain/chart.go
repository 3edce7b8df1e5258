package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// GroupCategory classifies a main group. It fixes the normal balance side of
// every account below the group and the report section the group lands in.
type GroupCategory string

const (
	CategoryAsset     GroupCategory = "ASSET"
	CategoryLiability GroupCategory = "LIABILITY"
	CategoryCapital   GroupCategory = "CAPITAL"
	CategoryDrawings  GroupCategory = "DRAWINGS"
	CategoryRevenue   GroupCategory = "REVENUE"
	CategoryExpense   GroupCategory = "EXPENSE"
	CategoryCost      GroupCategory = "COST"
)

// BalanceSide is the side on which an account normally carries its balance.
type BalanceSide string

const (
	DebitSide  BalanceSide = "DEBIT"
	CreditSide BalanceSide = "CREDIT"
)

// ReportSection is the balance-sheet bucket a main group rolls into.
type ReportSection string

const (
	SectionAssets          ReportSection = "ASSETS"
	SectionLiabilities     ReportSection = "LIABILITIES"
	SectionEquity          ReportSection = "EQUITY"
	SectionIncomeStatement ReportSection = "INCOME_STATEMENT"
)

// Valid reports whether c is a known category.
func (c GroupCategory) Valid() bool {
	switch c {
	case CategoryAsset, CategoryLiability, CategoryCapital, CategoryDrawings,
		CategoryRevenue, CategoryExpense, CategoryCost:
		return true
	}
	return false
}

// NormalSide returns the side that increases accounts of this category.
func (c GroupCategory) NormalSide() BalanceSide {
	switch c {
	case CategoryLiability, CategoryCapital, CategoryRevenue:
		return CreditSide
	default:
		return DebitSide
	}
}

// Section returns the report bucket for this category.
func (c GroupCategory) Section() ReportSection {
	switch c {
	case CategoryAsset:
		return SectionAssets
	case CategoryLiability:
		return SectionLiabilities
	case CategoryCapital, CategoryDrawings:
		return SectionEquity
	default:
		return SectionIncomeStatement
	}
}

// MainGroup is the top level of the chart of accounts.
type MainGroup struct {
	MainGroupID  string        `json:"mainGroupID"`
	Code         string        `json:"code"`
	Name         string        `json:"name"`
	Category     GroupCategory `json:"category"`
	DisplayOrder int           `json:"displayOrder"`
	AuditFields
}

// Subgroup belongs to exactly one MainGroup; its code starts with the main group's code.
type Subgroup struct {
	SubgroupID  string `json:"subgroupID"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	MainGroupID string `json:"mainGroupID"`
	AuditFields
}

// AccountKind distinguishes ledger accounts from person (party) accounts.
type AccountKind string

const (
	KindRegular AccountKind = "regular"
	KindPerson  AccountKind = "person"
)

// AccountStatus controls whether an account accepts new postings.
type AccountStatus string

const (
	AccountActive   AccountStatus = "Active"
	AccountInactive AccountStatus = "Inactive"
)

// AccountRole tags an account with the job it plays in automatic postings.
// Posting rules resolve accounts by role, never by code pattern.
type AccountRole string

const (
	RoleNone              AccountRole = ""
	RoleInventory         AccountRole = "INVENTORY"
	RolePayableControl    AccountRole = "PAYABLE_CONTROL"
	RoleReceivableControl AccountRole = "RECEIVABLE_CONTROL"
	RoleCashOrBank        AccountRole = "CASH_OR_BANK"
	RoleRevenue           AccountRole = "REVENUE"
	RoleCOGS              AccountRole = "COGS"
)

// Valid reports whether r is a known role (including RoleNone).
func (r AccountRole) Valid() bool {
	switch r {
	case RoleNone, RoleInventory, RolePayableControl, RoleReceivableControl,
		RoleCashOrBank, RoleRevenue, RoleCOGS:
		return true
	}
	return false
}

// Account is the posting target of the ledger.
// OpeningBalance and CurrentBalance are expressed on the account's normal side.
type Account struct {
	AccountID      string          `json:"accountID"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	SubgroupID     string          `json:"subgroupID"`
	Kind           AccountKind     `json:"kind"`
	Role           AccountRole     `json:"role,omitempty"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	Status         AccountStatus   `json:"status"`
	CanDelete      bool            `json:"canDelete"`
	// NormalSide is derived from the owning main group's category.
	NormalSide BalanceSide `json:"normalSide"`
	AuditFields
}

// IsActive reports whether the account accepts postings.
func (a Account) IsActive() bool {
	return a.Status != AccountInactive
}

// SignedDelta converts a debit/credit pair into the change of the account's
// balance on its normal side.
func (a Account) SignedDelta(debit, credit decimal.Decimal) decimal.Decimal {
	if a.NormalSide == CreditSide {
		return credit.Sub(debit)
	}
	return debit.Sub(credit)
}

// AccountFilter narrows ListAccounts. Empty fields match everything.
type AccountFilter struct {
	SubgroupID string
	Status     AccountStatus
	Role       AccountRole
}

// Matches reports whether a satisfies the filter.
func (f AccountFilter) Matches(a Account) bool {
	if f.SubgroupID != "" && a.SubgroupID != f.SubgroupID {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.Role != "" && a.Role != f.Role {
		return false
	}
	return true
}

// MaxAccountSequence is the largest sequence that fits the 3-digit suffix.
const MaxAccountSequence = 999

// IsNumericCode reports whether code is a non-empty string of ASCII digits.
func IsNumericCode(code string) bool {
	if code == "" {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidateSubgroupCode checks that subgroupCode is numeric and lies within
// the numeric range of its main group (i.e. starts with the main group code).
func ValidateSubgroupCode(mainGroupCode, subgroupCode string) error {
	if !IsNumericCode(subgroupCode) {
		return fmt.Errorf("subgroup code %q must be numeric", subgroupCode)
	}
	if len(subgroupCode) <= len(mainGroupCode) || !strings.HasPrefix(subgroupCode, mainGroupCode) {
		return fmt.Errorf("subgroup code %q must extend main group code %q", subgroupCode, mainGroupCode)
	}
	return nil
}

// AccountCodeFor builds the account code for a sequence within a subgroup.
func AccountCodeFor(subgroupCode string, seq int) (string, error) {
	if seq < 1 || seq > MaxAccountSequence {
		return "", fmt.Errorf("account sequence %d out of range for subgroup %s", seq, subgroupCode)
	}
	return fmt.Sprintf("%s%03d", subgroupCode, seq), nil
}

// AccountSequence extracts the 3-digit sequence from an account code.
// ok is false when code does not belong to the subgroup.
func AccountSequence(subgroupCode, code string) (seq int, ok bool) {
	if len(code) != len(subgroupCode)+3 || !strings.HasPrefix(code, subgroupCode) {
		return 0, false
	}
	n, err := strconv.Atoi(code[len(subgroupCode):])
	if err != nil {
		return 0, false
	}
	return n, true
}

// NextAccountSequence returns max(existing sequence)+1 for the subgroup.
func NextAccountSequence(subgroupCode string, existingCodes []string) int {
	maxSeq := 0
	for _, c := range existingCodes {
		if n, ok := AccountSequence(subgroupCode, c); ok && n > maxSeq {
			maxSeq = n
		}
	}
	return maxSeq + 1
}
