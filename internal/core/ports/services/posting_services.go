package services

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

// LedgerPosterSvc turns business events into balanced vouchers.
// Each call is all-or-nothing.
type LedgerPosterSvc interface {
	PostPurchase(ctx context.Context, dpo domain.DirectPurchaseOrder, actor string) (*domain.PurchasePosting, error)
	PostPayment(ctx context.Context, payment domain.DPOPayment, actor string) (*domain.PaymentPosting, error)
	PostSalesRevenue(ctx context.Context, invoice domain.SalesInvoice, actor string) (*domain.SalesPosting, error)
}
