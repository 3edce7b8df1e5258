package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DPOStatusCompleted is the only purchase-order status that is posted to the ledger.
const DPOStatusCompleted = "Completed"

// DPOItem is a purchased line of a direct purchase order.
type DPOItem struct {
	PartID             string
	PartName           string
	Quantity           decimal.Decimal
	PurchasePrice      decimal.Decimal
	InventoryAccountID string
}

// LineTotal is price × quantity.
func (i DPOItem) LineTotal() decimal.Decimal {
	return i.PurchasePrice.Mul(i.Quantity)
}

// DPOExpense is a freight or other charge on a purchase. Without an expense
// account it is capitalised into inventory.
type DPOExpense struct {
	Description      string
	Amount           decimal.Decimal
	ExpenseAccountID string
}

// DirectPurchaseOrder is a purchase recorded straight against inventory.
type DirectPurchaseOrder struct {
	DPONo             string
	Date              time.Time
	SupplierName      string
	SupplierAccountID string
	StoreID           string
	Status            string
	Items             []DPOItem
	Expenses          []DPOExpense
}

// Total is Σ price × quantity plus Σ expenses, rounded.
func (d DirectPurchaseOrder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range d.Items {
		total = total.Add(it.LineTotal())
	}
	for _, ex := range d.Expenses {
		total = total.Add(ex.Amount)
	}
	return Round2(total)
}

// IsCompleted treats an empty status as completed.
func (d DirectPurchaseOrder) IsCompleted() bool {
	return d.Status == "" || strings.EqualFold(d.Status, DPOStatusCompleted)
}

// FormatDPONumber renders a DPO number such as DPO000007.
func FormatDPONumber(seq int64) string {
	return fmt.Sprintf("DPO%06d", seq)
}

// DPOPayment is a payment made against a posted DPO.
type DPOPayment struct {
	DPONo             string
	Amount            decimal.Decimal
	CashBankAccountID string
	Date              time.Time
	Narration         string
}

// InvoiceItem is a sold line. UnitCost is optional; when zero the part's
// recorded purchase cost is used for cost of goods sold.
type InvoiceItem struct {
	PartID    string
	PartName  string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	UnitCost  decimal.Decimal
}

// SalesInvoice is an approved sale.
type SalesInvoice struct {
	InvoiceNo         string
	Date              time.Time
	CustomerName      string
	CustomerAccountID string
	Items             []InvoiceItem
	AmountReceived    decimal.Decimal
	ReceiptAccountID  string
}

// Total is Σ unit price × quantity, rounded.
func (inv SalesInvoice) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range inv.Items {
		total = total.Add(it.UnitPrice.Mul(it.Quantity))
	}
	return Round2(total)
}

// FormatInvoiceNumber renders a generated invoice number.
func FormatInvoiceNumber(seq int64) string {
	return fmt.Sprintf("%06d", seq)
}

// Sequence keys for generated document numbers.
const (
	SequenceDPO     = "DOC_DPO"
	SequenceInvoice = "DOC_INVOICE"
)

// PurchasePosting is the result of posting a DPO.
type PurchasePosting struct {
	DPONo   string
	Journal Voucher
}

// PaymentPosting is the result of paying against a DPO.
type PaymentPosting struct {
	DPONo   string
	Payment Voucher
}

// SalesPosting is the result of approving a sales invoice.
// Receipt and COGS are nil when no cash was collected or no cost is recorded.
type SalesPosting struct {
	InvoiceNo string
	Revenue   Voucher
	Receipt   *Voucher
	COGS      *Voucher
}

// Vouchers lists every voucher created for the invoice.
func (p SalesPosting) Vouchers() []Voucher {
	out := []Voucher{p.Revenue}
	if p.Receipt != nil {
		out = append(out, *p.Receipt)
	}
	if p.COGS != nil {
		out = append(out, *p.COGS)
	}
	return out
}
