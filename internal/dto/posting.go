package dto

import (
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DPOItemRequest is a purchased line.
type DPOItemRequest struct {
	PartID             string          `json:"partID" binding:"required"`
	PartName           string          `json:"partName"`
	Quantity           decimal.Decimal `json:"quantity"`
	PurchasePrice      decimal.Decimal `json:"purchasePrice"`
	InventoryAccountID string          `json:"inventoryAccountID"`
}

// DPOExpenseRequest is a freight or other charge.
type DPOExpenseRequest struct {
	Description      string          `json:"description" binding:"required"`
	Amount           decimal.Decimal `json:"amount"`
	ExpenseAccountID string          `json:"expenseAccountID"`
}

// CreateDPORequest defines a direct purchase order to be posted.
type CreateDPORequest struct {
	DPONo             string              `json:"dpo_no"`
	Date              string              `json:"date"`
	SupplierName      string              `json:"supplierName" binding:"required"`
	SupplierAccountID string              `json:"supplierAccountID"`
	StoreID           string              `json:"storeID"`
	Status            string              `json:"status"`
	Items             []DPOItemRequest    `json:"items" binding:"required,min=1,dive"`
	Expenses          []DPOExpenseRequest `json:"expenses" binding:"dive"`
}

// ToDomain converts the request into the posting input.
func (r CreateDPORequest) ToDomain(date time.Time) domain.DirectPurchaseOrder {
	dpo := domain.DirectPurchaseOrder{
		DPONo:             r.DPONo,
		Date:              date,
		SupplierName:      r.SupplierName,
		SupplierAccountID: r.SupplierAccountID,
		StoreID:           r.StoreID,
		Status:            r.Status,
		Items:             make([]domain.DPOItem, len(r.Items)),
		Expenses:          make([]domain.DPOExpense, len(r.Expenses)),
	}
	for i, it := range r.Items {
		dpo.Items[i] = domain.DPOItem{
			PartID:             it.PartID,
			PartName:           it.PartName,
			Quantity:           it.Quantity,
			PurchasePrice:      it.PurchasePrice,
			InventoryAccountID: it.InventoryAccountID,
		}
	}
	for i, ex := range r.Expenses {
		dpo.Expenses[i] = domain.DPOExpense{
			Description:      ex.Description,
			Amount:           ex.Amount,
			ExpenseAccountID: ex.ExpenseAccountID,
		}
	}
	return dpo
}

// DPOVouchers names the vouchers produced for a DPO.
type DPOVouchers struct {
	JVNumber string `json:"jvNumber"`
}

// DPOResponse is returned after a DPO is posted.
type DPOResponse struct {
	DPONo    string          `json:"dpo_no"`
	Vouchers DPOVouchers     `json:"vouchers"`
	Voucher  VoucherResponse `json:"voucher"`
}

// ToDPOResponse converts a purchase posting to its DTO.
func ToDPOResponse(p *domain.PurchasePosting) DPOResponse {
	return DPOResponse{
		DPONo:    p.DPONo,
		Vouchers: DPOVouchers{JVNumber: p.Journal.VoucherNumber},
		Voucher:  ToVoucherResponse(&p.Journal),
	}
}

// CreateDPOPaymentRequest defines a payment against a DPO.
type CreateDPOPaymentRequest struct {
	Amount            decimal.Decimal `json:"amount"`
	CashBankAccountID string          `json:"cashBankAccountID" binding:"required"`
	Date              string          `json:"date"`
	Narration         string          `json:"narration"`
}

// ToDomain converts the request into the posting input.
func (r CreateDPOPaymentRequest) ToDomain(dpoNo string, date time.Time) domain.DPOPayment {
	return domain.DPOPayment{
		DPONo:             dpoNo,
		Amount:            r.Amount,
		CashBankAccountID: r.CashBankAccountID,
		Date:              date,
		Narration:         r.Narration,
	}
}

// PaymentResponse is returned after a DPO payment is posted.
type PaymentResponse struct {
	DPONo         string          `json:"dpo_no"`
	VoucherNumber string          `json:"voucherNumber"`
	Voucher       VoucherResponse `json:"voucher"`
}

// ToPaymentResponse converts a payment posting to its DTO.
func ToPaymentResponse(p *domain.PaymentPosting) PaymentResponse {
	return PaymentResponse{
		DPONo:         p.DPONo,
		VoucherNumber: p.Payment.VoucherNumber,
		Voucher:       ToVoucherResponse(&p.Payment),
	}
}

// InvoiceItemRequest is a sold line.
type InvoiceItemRequest struct {
	PartID    string          `json:"partID" binding:"required"`
	PartName  string          `json:"partName"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	UnitCost  decimal.Decimal `json:"unitCost"`
}

// ApproveInvoiceRequest defines a sales invoice being approved.
// An absent amountReceived means the invoice was paid in full at the counter;
// an explicit 0 records a credit sale.
type ApproveInvoiceRequest struct {
	InvoiceNo         string               `json:"invoice_no"`
	Date              string               `json:"date"`
	CustomerName      string               `json:"customerName"`
	CustomerAccountID string               `json:"customerAccountID"`
	Items             []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
	AmountReceived    *decimal.Decimal     `json:"amountReceived"`
	ReceiptAccountID  string               `json:"receiptAccountID"`
}

// ToDomain converts the request into the posting input.
func (r ApproveInvoiceRequest) ToDomain(date time.Time) domain.SalesInvoice {
	inv := domain.SalesInvoice{
		InvoiceNo:         r.InvoiceNo,
		Date:              date,
		CustomerName:      r.CustomerName,
		CustomerAccountID: r.CustomerAccountID,
		Items:             make([]domain.InvoiceItem, len(r.Items)),
		ReceiptAccountID:  r.ReceiptAccountID,
	}
	for i, it := range r.Items {
		inv.Items[i] = domain.InvoiceItem{
			PartID:    it.PartID,
			PartName:  it.PartName,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			UnitCost:  it.UnitCost,
		}
	}
	if r.AmountReceived != nil {
		inv.AmountReceived = *r.AmountReceived
	} else {
		inv.AmountReceived = inv.Total()
	}
	return inv
}

// InvoiceVouchers names the vouchers produced for an invoice.
type InvoiceVouchers struct {
	RevenueJVNumber string `json:"revenueJvNumber"`
	ReceiptNumber   string `json:"receiptNumber,omitempty"`
	COGSJVNumber    string `json:"cogsJvNumber,omitempty"`
}

// InvoicePostingResponse is returned after an invoice is approved.
type InvoicePostingResponse struct {
	InvoiceNo string            `json:"invoice_no"`
	Vouchers  InvoiceVouchers   `json:"vouchers"`
	Details   []VoucherResponse `json:"details"`
}

// ToInvoicePostingResponse converts a sales posting to its DTO.
func ToInvoicePostingResponse(p *domain.SalesPosting) InvoicePostingResponse {
	resp := InvoicePostingResponse{
		InvoiceNo: p.InvoiceNo,
		Vouchers:  InvoiceVouchers{RevenueJVNumber: p.Revenue.VoucherNumber},
		Details:   ToVoucherResponses(p.Vouchers()),
	}
	if p.Receipt != nil {
		resp.Vouchers.ReceiptNumber = p.Receipt.VoucherNumber
	}
	if p.COGS != nil {
		resp.Vouchers.COGSJVNumber = p.COGS.VoucherNumber
	}
	return resp
}
