package services

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/dto"
)

// VoucherReaderSvc defines the voucher query surface.
type VoucherReaderSvc interface {
	GetVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error)
	GetVoucherByNumber(ctx context.Context, voucherNumber string) (*domain.Voucher, error)
	ListVouchers(ctx context.Context, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error)
}

// VoucherWriterSvc defines manual voucher entry and lifecycle transitions.
type VoucherWriterSvc interface {
	CreateVoucher(ctx context.Context, req dto.CreateVoucherRequest, actor string) (*domain.Voucher, error)
	PostVoucher(ctx context.Context, voucherID string, actor string) (*domain.Voucher, error)
	CancelVoucher(ctx context.Context, voucherID string, actor string) (*domain.Voucher, error)
}

// VoucherSvcFacade combines all voucher service interfaces.
type VoucherSvcFacade interface {
	VoucherReaderSvc
	VoucherWriterSvc
}
