package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/platform/metrics"
	"github.com/shopspring/decimal"
)

const (
	eventPurchase = "purchase"
	eventPayment  = "payment"
	eventSale     = "sale"
)

// ledgerPoster turns purchases, payments and sales into vouchers.
type ledgerPoster struct {
	BaseService
	txManager portsrepo.TransactionManager
}

// NewLedgerPoster creates a new LedgerPosterSvc.
func NewLedgerPoster(txManager portsrepo.TransactionManager, options ...ServiceOption) portssvc.LedgerPosterSvc {
	svc := &ledgerPoster{txManager: txManager}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.LedgerPosterSvc = (*ledgerPoster)(nil)

func (s *ledgerPoster) recordFailure(ctx context.Context, event string, err error) {
	reason := metrics.FailureReason(err)
	metrics.PostingFailuresTotal.WithLabelValues(event, reason).Inc()
	if reason == "internal" {
		s.LogError(ctx, err, "Posting failed", slog.String("event", event))
		return
	}
	s.LogWarn(ctx, "Posting rejected", slog.String("event", event), slog.String("reason", reason), slog.String("error", err.Error()))
}

func recordPosted(vouchers ...domain.Voucher) {
	for _, v := range vouchers {
		metrics.VouchersPostedTotal.WithLabelValues(string(v.Type)).Inc()
	}
}

func validatePurchase(dpo domain.DirectPurchaseOrder) error {
	if len(dpo.Items) == 0 {
		return fmt.Errorf("%w: a purchase order needs at least one item", apperrors.ErrValidation)
	}
	if !dpo.IsCompleted() {
		return fmt.Errorf("%w: purchase order status %q is not %s", apperrors.ErrValidation, dpo.Status, domain.DPOStatusCompleted)
	}
	for i, it := range dpo.Items {
		if !it.Quantity.IsPositive() {
			return &apperrors.InvalidAmountError{Field: fmt.Sprintf("items[%d].quantity", i), Value: it.Quantity.String()}
		}
		if !it.PurchasePrice.IsPositive() {
			return &apperrors.InvalidAmountError{Field: fmt.Sprintf("items[%d].purchasePrice", i), Value: it.PurchasePrice.String()}
		}
	}
	for i, ex := range dpo.Expenses {
		if !ex.Amount.IsPositive() {
			return &apperrors.InvalidAmountError{Field: fmt.Sprintf("expenses[%d].amount", i), Value: ex.Amount.String()}
		}
	}
	return nil
}

// PostPurchase creates the journal voucher of a completed direct purchase:
// inventory and expense accounts are debited, the supplier is credited.
func (s *ledgerPoster) PostPurchase(ctx context.Context, dpo domain.DirectPurchaseOrder, actor string) (_ *domain.PurchasePosting, err error) {
	defer func() {
		if err != nil {
			s.recordFailure(ctx, eventPurchase, err)
		}
	}()

	if err := validatePurchase(dpo); err != nil {
		return nil, err
	}
	now := s.Now()
	if dpo.Date.IsZero() {
		dpo.Date = domain.StartOfDay(now)
	}

	var result *domain.PurchasePosting
	err = s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if dpo.DPONo == "" {
			seq, err := tx.NextSequence(ctx, domain.SequenceDPO)
			if err != nil {
				return fmt.Errorf("allocating DPO number: %w", err)
			}
			dpo.DPONo = domain.FormatDPONumber(seq)
		}
		existing, err := findSourceVoucher(ctx, tx, domain.SourceDPO, dpo.DPONo)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: DPO %s is already posted as %s", apperrors.ErrDuplicate, dpo.DPONo, existing.VoucherNumber)
		}

		var inventory *domain.Account
		defaultInventory := func() (*domain.Account, error) {
			if inventory == nil {
				acc, err := resolveRole(ctx, tx, domain.RoleInventory)
				if err != nil {
					return nil, err
				}
				inventory = acc
			}
			return inventory, nil
		}

		debits := newDebitLines()
		purchaseNote := fmt.Sprintf("Purchase for DPO %s", dpo.DPONo)
		for _, it := range dpo.Items {
			var acc *domain.Account
			if it.InventoryAccountID != "" {
				acc, err = resolveAccount(ctx, tx, it.InventoryAccountID, domain.RoleNone)
			} else {
				acc, err = defaultInventory()
			}
			if err != nil {
				return err
			}
			debits.add(acc.AccountID, it.LineTotal(), purchaseNote)
		}
		for _, ex := range dpo.Expenses {
			var acc *domain.Account
			if ex.ExpenseAccountID != "" {
				acc, err = resolveAccount(ctx, tx, ex.ExpenseAccountID, domain.RoleNone)
			} else {
				acc, err = defaultInventory()
			}
			if err != nil {
				return err
			}
			debits.add(acc.AccountID, ex.Amount, fmt.Sprintf("%s for DPO %s", ex.Description, dpo.DPONo))
		}

		supplier, err := resolveAccountOrRole(ctx, tx, dpo.SupplierAccountID, domain.RolePayableControl)
		if err != nil {
			return err
		}
		if supplier.NormalSide != domain.CreditSide {
			return fmt.Errorf("%w: supplier account %s is not a liability account", apperrors.ErrValidation, supplier.Code)
		}

		total := dpo.Total()
		entries := debits.entries(total)
		entries = append(entries, domain.VoucherEntry{
			AccountID:   supplier.AccountID,
			Description: fmt.Sprintf("Payable to %s for DPO %s", dpo.SupplierName, dpo.DPONo),
			Debit:       decimal.Zero,
			Credit:      total,
		})
		journal := domain.Voucher{
			Type:        domain.VoucherJournal,
			Date:        dpo.Date,
			Narration:   fmt.Sprintf("Direct purchase %s from %s", dpo.DPONo, dpo.SupplierName),
			Status:      domain.VoucherDraft,
			SourceType:  domain.SourceDPO,
			SourceRef:   dpo.DPONo,
			Entries:     entries,
			AuditFields: domain.NewAuditFields(actor, now),
		}
		if err := postVoucherInTx(ctx, tx, &journal, actor, now, true); err != nil {
			return err
		}

		costs := make(map[string]decimal.Decimal, len(dpo.Items))
		for _, it := range dpo.Items {
			costs[it.PartID] = it.PurchasePrice
		}
		if err := tx.RecordPartCosts(ctx, costs, now); err != nil {
			return fmt.Errorf("recording part costs: %w", err)
		}

		result = &domain.PurchasePosting{DPONo: dpo.DPONo, Journal: journal}
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordPosted(result.Journal)
	s.LogInfo(ctx, "Purchase posted",
		slog.String("dpo_no", result.DPONo),
		slog.String("voucher_number", result.Journal.VoucherNumber),
		slog.String("total", result.Journal.TotalDebit.StringFixed(2)))
	return result, nil
}

// PostPayment creates the payment voucher settling (part of) a DPO: the
// payable credited by the purchase is debited and the cash/bank account credited.
func (s *ledgerPoster) PostPayment(ctx context.Context, payment domain.DPOPayment, actor string) (_ *domain.PaymentPosting, err error) {
	defer func() {
		if err != nil {
			s.recordFailure(ctx, eventPayment, err)
		}
	}()

	amount := domain.Round2(payment.Amount)
	if !amount.IsPositive() {
		return nil, &apperrors.InvalidAmountError{Field: "amount", Value: payment.Amount.String()}
	}
	if payment.DPONo == "" {
		return nil, fmt.Errorf("%w: dpo number is required", apperrors.ErrValidation)
	}
	now := s.Now()
	if payment.Date.IsZero() {
		payment.Date = domain.StartOfDay(now)
	}

	var result *domain.PaymentPosting
	err = s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		journal, err := findSourceVoucher(ctx, tx, domain.SourceDPO, payment.DPONo)
		if err != nil {
			return err
		}
		if journal == nil {
			return apperrors.NewNotFoundError(fmt.Sprintf("no posted purchase voucher for DPO %s", payment.DPONo))
		}

		var payableID string
		for _, e := range journal.Entries {
			if e.Credit.IsPositive() {
				payableID = e.AccountID
				break
			}
		}
		if payableID == "" {
			return fmt.Errorf("%w: purchase voucher %s has no credit line", apperrors.ErrInternal, journal.VoucherNumber)
		}
		payable, err := resolveAccount(ctx, tx, payableID, domain.RoleNone)
		if err != nil {
			return err
		}

		var cash *domain.Account
		if payment.CashBankAccountID != "" {
			cash, err = resolveAccount(ctx, tx, payment.CashBankAccountID, domain.RoleCashOrBank)
		} else {
			cash, err = resolveRole(ctx, tx, domain.RoleCashOrBank)
		}
		if err != nil {
			return err
		}

		description := fmt.Sprintf("Payment for DPO %s", payment.DPONo)
		narration := payment.Narration
		if narration == "" {
			narration = description
		}
		voucher := twoLineVoucher(domain.VoucherPayment, payment.Date, narration, payable.AccountID, cash.AccountID,
			amount, description, domain.SourceDPOPayment, payment.DPONo, domain.NewAuditFields(actor, now))
		voucher.CashBankAccountID = &cash.AccountID

		if err := postVoucherInTx(ctx, tx, &voucher, actor, now, true); err != nil {
			return err
		}
		result = &domain.PaymentPosting{DPONo: payment.DPONo, Payment: voucher}
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordPosted(result.Payment)
	s.LogInfo(ctx, "Payment posted",
		slog.String("dpo_no", result.DPONo),
		slog.String("voucher_number", result.Payment.VoucherNumber),
		slog.String("amount", amount.StringFixed(2)))
	return result, nil
}

func validateInvoice(inv domain.SalesInvoice) error {
	if len(inv.Items) == 0 {
		return fmt.Errorf("%w: an invoice needs at least one item", apperrors.ErrValidation)
	}
	for i, it := range inv.Items {
		if !it.Quantity.IsPositive() {
			return &apperrors.InvalidAmountError{Field: fmt.Sprintf("items[%d].quantity", i), Value: it.Quantity.String()}
		}
		if !it.UnitPrice.IsPositive() {
			return &apperrors.InvalidAmountError{Field: fmt.Sprintf("items[%d].unitPrice", i), Value: it.UnitPrice.String()}
		}
		if it.UnitCost.IsNegative() {
			return &apperrors.InvalidAmountError{Field: fmt.Sprintf("items[%d].unitCost", i), Value: it.UnitCost.String()}
		}
	}
	if inv.AmountReceived.IsNegative() {
		return &apperrors.InvalidAmountError{Field: "amountReceived", Value: inv.AmountReceived.String()}
	}
	if domain.Round2(inv.AmountReceived).GreaterThan(inv.Total()) {
		return fmt.Errorf("%w: amount received %s exceeds invoice total %s",
			apperrors.ErrValidation, inv.AmountReceived.StringFixed(2), inv.Total().StringFixed(2))
	}
	return nil
}

// invoiceCost values the shipped quantity at the unit cost given on the line,
// or at the part's recorded purchase cost when the line carries none.
func invoiceCost(ctx context.Context, tx portsrepo.LedgerTx, inv domain.SalesInvoice) (decimal.Decimal, error) {
	var missing []string
	for _, it := range inv.Items {
		if it.UnitCost.IsZero() {
			missing = append(missing, it.PartID)
		}
	}
	recorded := map[string]decimal.Decimal{}
	if len(missing) > 0 {
		var err error
		recorded, err = tx.FindPartCosts(ctx, missing)
		if err != nil {
			return decimal.Zero, fmt.Errorf("loading part costs: %w", err)
		}
	}

	total := decimal.Zero
	for _, it := range inv.Items {
		unitCost := it.UnitCost
		if unitCost.IsZero() {
			unitCost = recorded[it.PartID]
		}
		total = total.Add(unitCost.Mul(it.Quantity))
	}
	return domain.Round2(total), nil
}

// PostSalesRevenue recognises revenue for an approved invoice, records the
// cash collected at the counter and moves the cost of the goods out of
// inventory. The three vouchers balance independently and commit together.
func (s *ledgerPoster) PostSalesRevenue(ctx context.Context, inv domain.SalesInvoice, actor string) (_ *domain.SalesPosting, err error) {
	defer func() {
		if err != nil {
			s.recordFailure(ctx, eventSale, err)
		}
	}()

	if err := validateInvoice(inv); err != nil {
		return nil, err
	}
	now := s.Now()
	if inv.Date.IsZero() {
		inv.Date = domain.StartOfDay(now)
	}
	total := inv.Total()
	received := domain.Round2(inv.AmountReceived)

	var result *domain.SalesPosting
	err = s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if inv.InvoiceNo == "" {
			seq, err := tx.NextSequence(ctx, domain.SequenceInvoice)
			if err != nil {
				return fmt.Errorf("allocating invoice number: %w", err)
			}
			inv.InvoiceNo = domain.FormatInvoiceNumber(seq)
		}
		existing, err := findSourceVoucher(ctx, tx, domain.SourceSalesInvoice, inv.InvoiceNo)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: invoice %s is already posted as %s", apperrors.ErrDuplicate, inv.InvoiceNo, existing.VoucherNumber)
		}

		receivable, err := resolveAccountOrRole(ctx, tx, inv.CustomerAccountID, domain.RoleReceivableControl)
		if err != nil {
			return err
		}
		revenueAcc, err := resolveRole(ctx, tx, domain.RoleRevenue)
		if err != nil {
			return err
		}
		audit := domain.NewAuditFields(actor, now)

		revenue := twoLineVoucher(domain.VoucherJournal, inv.Date,
			fmt.Sprintf("Sales invoice %s to %s", inv.InvoiceNo, inv.CustomerName),
			receivable.AccountID, revenueAcc.AccountID, total,
			fmt.Sprintf("Sales Revenue for INV %s", inv.InvoiceNo),
			domain.SourceSalesInvoice, inv.InvoiceNo, audit)
		if err := postVoucherInTx(ctx, tx, &revenue, actor, now, true); err != nil {
			return err
		}
		result = &domain.SalesPosting{InvoiceNo: inv.InvoiceNo, Revenue: revenue}

		if received.IsPositive() {
			var cash *domain.Account
			if inv.ReceiptAccountID != "" {
				cash, err = resolveAccount(ctx, tx, inv.ReceiptAccountID, domain.RoleCashOrBank)
			} else {
				cash, err = resolveRole(ctx, tx, domain.RoleCashOrBank)
			}
			if err != nil {
				return err
			}
			description := fmt.Sprintf("Receipt for INV %s", inv.InvoiceNo)
			receipt := twoLineVoucher(domain.VoucherReceipt, inv.Date, description,
				cash.AccountID, receivable.AccountID, received, description,
				domain.SourceSalesReceipt, inv.InvoiceNo, audit)
			receipt.CashBankAccountID = &cash.AccountID
			if err := postVoucherInTx(ctx, tx, &receipt, actor, now, true); err != nil {
				return err
			}
			result.Receipt = &receipt
		}

		cost, err := invoiceCost(ctx, tx, inv)
		if err != nil {
			return err
		}
		if cost.IsPositive() {
			cogsAcc, err := resolveRole(ctx, tx, domain.RoleCOGS)
			if err != nil {
				return err
			}
			inventory, err := resolveRole(ctx, tx, domain.RoleInventory)
			if err != nil {
				return err
			}
			description := fmt.Sprintf("COGS for INV %s", inv.InvoiceNo)
			cogs := twoLineVoucher(domain.VoucherJournal, inv.Date, description,
				cogsAcc.AccountID, inventory.AccountID, cost, description,
				domain.SourceSalesCOGS, inv.InvoiceNo, audit)
			if err := postVoucherInTx(ctx, tx, &cogs, actor, now, true); err != nil {
				return err
			}
			result.COGS = &cogs
		} else {
			s.LogWarn(ctx, "No recorded cost for invoice, COGS voucher skipped", slog.String("invoice_no", inv.InvoiceNo))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordPosted(result.Vouchers()...)
	s.LogInfo(ctx, "Sales invoice posted",
		slog.String("invoice_no", result.InvoiceNo),
		slog.Int("vouchers", len(result.Vouchers())),
		slog.String("total", total.StringFixed(2)))
	return result, nil
}
