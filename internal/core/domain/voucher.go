package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// VoucherType identifies the kind of transaction a voucher records.
type VoucherType string

const (
	VoucherReceipt VoucherType = "receipt"
	VoucherPayment VoucherType = "payment"
	VoucherJournal VoucherType = "journal"
	VoucherContra  VoucherType = "contra"
)

// Valid reports whether t is a known voucher type.
func (t VoucherType) Valid() bool {
	switch t {
	case VoucherReceipt, VoucherPayment, VoucherJournal, VoucherContra:
		return true
	}
	return false
}

// Prefix returns the number prefix of the voucher type.
func (t VoucherType) Prefix() string {
	switch t {
	case VoucherReceipt:
		return "RV"
	case VoucherPayment:
		return "PV"
	case VoucherContra:
		return "CV"
	default:
		return "JV"
	}
}

// SequenceKey is the key of the persisted counter for this voucher type.
func (t VoucherType) SequenceKey() string {
	return "VOUCHER_" + t.Prefix()
}

// FormatVoucherNumber renders a voucher number such as JV-000042.
func FormatVoucherNumber(t VoucherType, seq int64) string {
	return fmt.Sprintf("%s-%06d", t.Prefix(), seq)
}

// VoucherStatus is the lifecycle state of a voucher.
type VoucherStatus string

const (
	VoucherDraft     VoucherStatus = "draft"
	VoucherPosted    VoucherStatus = "posted"
	VoucherCancelled VoucherStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s VoucherStatus) Valid() bool {
	switch s {
	case VoucherDraft, VoucherPosted, VoucherCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether draft→posted→cancelled allows the move.
func (s VoucherStatus) CanTransitionTo(next VoucherStatus) bool {
	switch s {
	case VoucherDraft:
		return next == VoucherPosted
	case VoucherPosted:
		return next == VoucherCancelled
	}
	return false
}

// SourceType names the business document that produced a voucher.
type SourceType string

const (
	SourceManual       SourceType = "MANUAL"
	SourceDPO          SourceType = "DPO"
	SourceDPOPayment   SourceType = "DPO_PAYMENT"
	SourceSalesInvoice SourceType = "SALES_INVOICE"
	SourceSalesReceipt SourceType = "SALES_RECEIPT"
	SourceSalesCOGS    SourceType = "SALES_COGS"
)

// Voucher is a transaction header grouping balanced debit/credit entries.
type Voucher struct {
	VoucherID         string          `json:"voucherID"`
	VoucherNumber     string          `json:"voucherNumber"`
	Type              VoucherType     `json:"type"`
	Date              time.Time       `json:"date"`
	Narration         string          `json:"narration"`
	CashBankAccountID *string         `json:"cashBankAccountID,omitempty"`
	Status            VoucherStatus   `json:"status"`
	TotalDebit        decimal.Decimal `json:"totalDebit"`
	TotalCredit       decimal.Decimal `json:"totalCredit"`
	SourceType        SourceType      `json:"sourceType"`
	SourceRef         string          `json:"sourceRef,omitempty"`
	Entries           []VoucherEntry  `json:"entries"`
	PostedAt          *time.Time      `json:"postedAt,omitempty"`
	CancelledAt       *time.Time      `json:"cancelledAt,omitempty"`
	AuditFields
}

// VoucherEntry is a single debit or credit line of a voucher.
// AccountCode and AccountName are filled on read.
type VoucherEntry struct {
	EntryID     string          `json:"entryID"`
	VoucherID   string          `json:"voucherID"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode,omitempty"`
	AccountName string          `json:"accountName,omitempty"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	SortOrder   int             `json:"sortOrder"`
}

// ComputeTotals rounds every entry amount and recomputes the header totals.
func (v *Voucher) ComputeTotals() {
	debit, credit := decimal.Zero, decimal.Zero
	for i := range v.Entries {
		v.Entries[i].Debit = Round2(v.Entries[i].Debit)
		v.Entries[i].Credit = Round2(v.Entries[i].Credit)
		debit = debit.Add(v.Entries[i].Debit)
		credit = credit.Add(v.Entries[i].Credit)
	}
	v.TotalDebit = Round2(debit)
	v.TotalCredit = Round2(credit)
}

// IsBalanced reports whether total debits equal total credits within Epsilon.
func (v Voucher) IsBalanced() bool {
	return AmountsEqual(v.TotalDebit, v.TotalCredit)
}

// AccountIDs returns the distinct accounts referenced by the entries.
func (v Voucher) AccountIDs() []string {
	seen := make(map[string]struct{}, len(v.Entries))
	ids := make([]string, 0, len(v.Entries))
	for _, e := range v.Entries {
		if _, ok := seen[e.AccountID]; ok {
			continue
		}
		seen[e.AccountID] = struct{}{}
		ids = append(ids, e.AccountID)
	}
	return ids
}

// ValidateEntries checks line-level rules and the balance of the voucher.
// It calls ComputeTotals first, so totals are always up to date afterwards.
func (v *Voucher) ValidateEntries() error {
	if !v.Type.Valid() {
		return fmt.Errorf("%w: unknown voucher type %q", apperrors.ErrValidation, v.Type)
	}
	if len(v.Entries) < 2 {
		return fmt.Errorf("%w: a voucher needs at least two entries", apperrors.ErrValidation)
	}
	for i, e := range v.Entries {
		if e.AccountID == "" {
			return fmt.Errorf("%w: entry %d has no account", apperrors.ErrValidation, i+1)
		}
		if e.Debit.IsNegative() {
			return &apperrors.InvalidAmountError{Field: fmt.Sprintf("entries[%d].debit", i), Value: e.Debit.String()}
		}
		if e.Credit.IsNegative() {
			return &apperrors.InvalidAmountError{Field: fmt.Sprintf("entries[%d].credit", i), Value: e.Credit.String()}
		}
		if e.Debit.IsPositive() && e.Credit.IsPositive() {
			return fmt.Errorf("%w: entry %d carries both a debit and a credit", apperrors.ErrValidation, i+1)
		}
	}
	v.ComputeTotals()
	if !v.TotalDebit.IsPositive() {
		return &apperrors.InvalidAmountError{Field: "voucher total", Value: v.TotalDebit.String()}
	}
	if !v.IsBalanced() {
		return &apperrors.UnbalancedEntryError{
			VoucherType: string(v.Type),
			TotalDebit:  v.TotalDebit,
			TotalCredit: v.TotalCredit,
		}
	}
	return nil
}

// VoucherFilter narrows voucher queries. Empty fields match everything.
type VoucherFilter struct {
	Search   string
	Number   string
	Type     VoucherType
	Status   VoucherStatus
	FromDate *time.Time
	ToDate   *time.Time
}

// Matches reports whether v satisfies the filter. Search is a
// case-insensitive substring match over the number, narration, source
// reference and entry descriptions.
func (f VoucherFilter) Matches(v Voucher) bool {
	if f.Number != "" && !strings.EqualFold(v.VoucherNumber, f.Number) {
		return false
	}
	if f.Type != "" && v.Type != f.Type {
		return false
	}
	if f.Status != "" && v.Status != f.Status {
		return false
	}
	if f.FromDate != nil && v.Date.Before(*f.FromDate) {
		return false
	}
	if f.ToDate != nil && v.Date.After(*f.ToDate) {
		return false
	}
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(f.Search)
	if strings.Contains(strings.ToLower(v.VoucherNumber), term) ||
		strings.Contains(strings.ToLower(v.Narration), term) ||
		strings.Contains(strings.ToLower(v.SourceRef), term) {
		return true
	}
	for _, e := range v.Entries {
		if strings.Contains(strings.ToLower(e.Description), term) {
			return true
		}
	}
	return false
}
