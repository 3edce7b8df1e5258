package repositories

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

// VoucherReader defines read operations for vouchers. Entries are always embedded.
type VoucherReader interface {
	FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error)
	FindVoucherByNumber(ctx context.Context, voucherNumber string) (*domain.Voucher, error)

	// ListVouchers returns vouchers newest first. nextToken is nil on the last page.
	ListVouchers(ctx context.Context, filter domain.VoucherFilter, limit int, nextToken *string) ([]domain.Voucher, *string, error)
}

// VoucherTransactionSupport defines voucher writes performed inside a transaction.
type VoucherTransactionSupport interface {
	// InsertVoucher persists the header and all of its entries.
	InsertVoucher(ctx context.Context, voucher domain.Voucher) error

	// FindVoucherForUpdate loads a voucher with entries and locks its header row.
	FindVoucherForUpdate(ctx context.Context, voucherID string) (*domain.Voucher, error)

	// FindPostedVoucherBySource returns the posted voucher produced by a business document.
	FindPostedVoucherBySource(ctx context.Context, source domain.SourceType, ref string) (*domain.Voucher, error)

	// UpdateVoucherHeader writes number, status, totals and lifecycle timestamps.
	// Entries are immutable once written.
	UpdateVoucherHeader(ctx context.Context, voucher domain.Voucher) error
}
