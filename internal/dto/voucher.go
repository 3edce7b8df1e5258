package dto

import (
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// VoucherEntryRequest is one line of a manually entered voucher.
// The account may be given by id or by code.
type VoucherEntryRequest struct {
	AccountID   string          `json:"accountID" binding:"required_without=AccountCode"`
	AccountCode string          `json:"accountCode" binding:"omitempty,numeric_code"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// CreateVoucherRequest defines a manual voucher. With Post set the voucher
// is posted immediately, otherwise it is saved as a draft.
type CreateVoucherRequest struct {
	Type              domain.VoucherType    `json:"type" binding:"required,oneof=receipt payment journal contra"`
	Date              string                `json:"date"`
	Narration         string                `json:"narration"`
	CashBankAccountID *string               `json:"cashBankAccountID"`
	Entries           []VoucherEntryRequest `json:"entries" binding:"required,min=2,dive"`
	Post              bool                  `json:"post"`
}

// ListVouchersParams defines the query parameters of the voucher search.
type ListVouchersParams struct {
	Search    string  `form:"search"`
	Number    string  `form:"number"`
	Type      string  `form:"type" binding:"omitempty,oneof=receipt payment journal contra"`
	Status    string  `form:"status" binding:"omitempty,oneof=draft posted cancelled"`
	FromDate  string  `form:"fromDate"`
	ToDate    string  `form:"toDate"`
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// VoucherEntryResponse defines the data returned for a voucher line.
type VoucherEntryResponse struct {
	EntryID     string          `json:"entryID"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	SortOrder   int             `json:"sortOrder"`
}

// VoucherResponse defines the data returned for a voucher with its entries.
type VoucherResponse struct {
	VoucherID         string                 `json:"voucherID"`
	VoucherNumber     string                 `json:"voucherNumber"`
	Type              domain.VoucherType     `json:"type"`
	Date              string                 `json:"date"`
	Narration         string                 `json:"narration"`
	CashBankAccountID *string                `json:"cashBankAccountID,omitempty"`
	Status            domain.VoucherStatus   `json:"status"`
	TotalDebit        decimal.Decimal        `json:"totalDebit"`
	TotalCredit       decimal.Decimal        `json:"totalCredit"`
	SourceType        domain.SourceType      `json:"sourceType"`
	SourceRef         string                 `json:"sourceRef,omitempty"`
	Entries           []VoucherEntryResponse `json:"entries"`
	PostedAt          *time.Time             `json:"postedAt,omitempty"`
	CancelledAt       *time.Time             `json:"cancelledAt,omitempty"`
	CreatedAt         time.Time              `json:"createdAt"`
	CreatedBy         string                 `json:"createdBy"`
}

// ListVouchersResponse is one page of vouchers.
type ListVouchersResponse struct {
	Vouchers  []VoucherResponse `json:"vouchers"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToVoucherResponse converts a domain.Voucher to its DTO.
func ToVoucherResponse(v *domain.Voucher) VoucherResponse {
	entries := make([]VoucherEntryResponse, len(v.Entries))
	for i, e := range v.Entries {
		entries[i] = VoucherEntryResponse{
			EntryID:     e.EntryID,
			AccountID:   e.AccountID,
			AccountCode: e.AccountCode,
			AccountName: e.AccountName,
			Description: e.Description,
			Debit:       e.Debit,
			Credit:      e.Credit,
			SortOrder:   e.SortOrder,
		}
	}
	return VoucherResponse{
		VoucherID:         v.VoucherID,
		VoucherNumber:     v.VoucherNumber,
		Type:              v.Type,
		Date:              v.Date.Format(domain.DateLayout),
		Narration:         v.Narration,
		CashBankAccountID: v.CashBankAccountID,
		Status:            v.Status,
		TotalDebit:        v.TotalDebit,
		TotalCredit:       v.TotalCredit,
		SourceType:        v.SourceType,
		SourceRef:         v.SourceRef,
		Entries:           entries,
		PostedAt:          v.PostedAt,
		CancelledAt:       v.CancelledAt,
		CreatedAt:         v.CreatedAt,
		CreatedBy:         v.CreatedBy,
	}
}

// ToVoucherResponses converts a slice of vouchers.
func ToVoucherResponses(vouchers []domain.Voucher) []VoucherResponse {
	out := make([]VoucherResponse, len(vouchers))
	for i := range vouchers {
		out[i] = ToVoucherResponse(&vouchers[i])
	}
	return out
}
