package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/core/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/platform/chartseed"
	"github.com/SscSPs/erp_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const actor = "tester"

var fixedNow = time.Date(2026, 4, 15, 9, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ledger is a seeded in-memory ledger with every service wired.
type ledger struct {
	repos portsrepo.RepositoryProvider
	svc   *portssvc.ServiceContainer
}

func newLedger(t *testing.T) *ledger {
	t.Helper()
	repos := memory.NewRepositoryProvider(memory.NewStore())
	svc := services.NewServiceContainer(repos, nil, services.WithClock(func() time.Time { return fixedNow }))

	chart, err := chartseed.Default()
	require.NoError(t, err)
	_, err = svc.Chart.SeedChart(context.Background(), chart, actor)
	require.NoError(t, err)
	return &ledger{repos: repos, svc: svc}
}

func (l *ledger) account(t *testing.T, code string) *domain.Account {
	t.Helper()
	acc, err := l.svc.Chart.FindAccountByCode(context.Background(), code)
	require.NoError(t, err)
	return acc
}

func (l *ledger) voucherCount(t *testing.T) int {
	t.Helper()
	resp, err := l.svc.Voucher.ListVouchers(context.Background(), dto.ListVouchersParams{Limit: 100})
	require.NoError(t, err)
	return len(resp.Vouchers)
}

func purchaseOf(partID string, qty, price string) domain.DirectPurchaseOrder {
	return domain.DirectPurchaseOrder{
		SupplierName: "Sup",
		StoreID:      "S",
		Status:       domain.DPOStatusCompleted,
		Items: []domain.DPOItem{
			{PartID: partID, PartName: "Part " + partID, Quantity: dec(qty), PurchasePrice: dec(price)},
		},
	}
}

func saleOf(partID string, qty, price, received string) domain.SalesInvoice {
	return domain.SalesInvoice{
		CustomerName:   "Walk-in",
		Items:          []domain.InvoiceItem{{PartID: partID, Quantity: dec(qty), UnitPrice: dec(price)}},
		AmountReceived: dec(received),
	}
}

// entryFor returns the first entry posted to the account code.
func entryFor(v domain.Voucher, code string) *domain.VoucherEntry {
	for i := range v.Entries {
		if v.Entries[i].AccountCode == code {
			return &v.Entries[i]
		}
	}
	return nil
}
