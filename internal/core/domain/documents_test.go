package domain_test

import (
	"testing"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestDirectPurchaseOrder_Total(t *testing.T) {
	dpo := domain.DirectPurchaseOrder{
		Items: []domain.DPOItem{
			{PartID: "P", Quantity: dec("3"), PurchasePrice: dec("33.335")},
			{PartID: "Q", Quantity: dec("1"), PurchasePrice: dec("10")},
		},
		Expenses: []domain.DPOExpense{{Description: "Freight", Amount: dec("5.5")}},
	}
	assert.Equal(t, "115.51", dpo.Total().StringFixed(2))
	assert.True(t, dpo.IsCompleted())

	dpo.Status = "draft"
	assert.False(t, dpo.IsCompleted())
	dpo.Status = "completed"
	assert.True(t, dpo.IsCompleted())
}

func TestSalesInvoice_TotalAndNumbers(t *testing.T) {
	inv := domain.SalesInvoice{Items: []domain.InvoiceItem{{Quantity: dec("2"), UnitPrice: dec("99.995")}}}
	assert.Equal(t, "199.99", inv.Total().StringFixed(2))
	assert.Equal(t, "000012", domain.FormatInvoiceNumber(12))
	assert.Equal(t, "DPO000012", domain.FormatDPONumber(12))
}

func TestSalesPosting_Vouchers(t *testing.T) {
	p := domain.SalesPosting{Revenue: domain.Voucher{VoucherNumber: "JV-000001"}}
	assert.Len(t, p.Vouchers(), 1)

	p.Receipt = &domain.Voucher{VoucherNumber: "RV-000001"}
	p.COGS = &domain.Voucher{VoucherNumber: "JV-000002"}
	got := p.Vouchers()
	assert.Equal(t, []string{"JV-000001", "RV-000001", "JV-000002"},
		[]string{got[0].VoucherNumber, got[1].VoucherNumber, got[2].VoucherNumber})
}

func TestAmountsEqual(t *testing.T) {
	assert.True(t, domain.AmountsEqual(dec("100.004"), dec("100")))
	assert.False(t, domain.AmountsEqual(dec("100.01"), dec("100")))
	assert.Equal(t, "-2.50", domain.Round2(dec("-2.495")).StringFixed(2))
	assert.Equal(t, "3.33", domain.SumRounded(dec("1.111"), dec("1.111"), dec("1.111")).StringFixed(2))
}
