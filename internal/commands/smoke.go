package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// apiClient talks to a running ledger server.
type apiClient struct {
	baseURL string
	actor   string
	http    *http.Client
}

func (c *apiClient) call(ctx context.Context, method, path string, body, out any, wantStatus int) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.ActorHeader, c.actor)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != wantStatus {
		return fmt.Errorf("%s %s: status %d, want %d: %s", method, path, resp.StatusCode, wantStatus, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (c *apiClient) voucher(ctx context.Context, number string) (dto.VoucherResponse, error) {
	var v dto.VoucherResponse
	err := c.call(ctx, http.MethodGet, "/api/v1/vouchers/number/"+number, nil, &v, http.StatusOK)
	return v, err
}

func hasLine(v dto.VoucherResponse, codePrefix string, debit bool, amount decimal.Decimal) bool {
	for _, e := range v.Entries {
		if !strings.HasPrefix(e.AccountCode, codePrefix) {
			continue
		}
		side := e.Credit
		if debit {
			side = e.Debit
		}
		if side.Equal(amount) {
			return true
		}
	}
	return false
}

// runSmoke drives a purchase, a partial payment, a cash sale and the balance
// sheet through the HTTP API and checks the resulting vouchers.
func runSmoke(ctx context.Context, c *apiClient, w io.Writer, cashAccountCode string) error {
	step := func(format string, args ...any) { fmt.Fprintf(w, format+"\n", args...) }

	if err := c.call(ctx, http.MethodPost, "/api/v1/chart/seed", nil, nil, http.StatusOK); err != nil {
		return err
	}

	partID := "SMOKE-" + uuid.NewString()[:8]
	var dpo dto.DPOResponse
	err := c.call(ctx, http.MethodPost, "/api/v1/purchases/dpo", map[string]any{
		"supplierName": "Smoke Supplier",
		"status":       "Completed",
		"items":        []map[string]any{{"partID": partID, "quantity": "1", "purchasePrice": "100"}},
	}, &dpo, http.StatusCreated)
	if err != nil {
		return fmt.Errorf("purchase: %w", err)
	}
	jv, err := c.voucher(ctx, dpo.Vouchers.JVNumber)
	if err != nil {
		return err
	}
	hundred := decimal.NewFromInt(100)
	if !hasLine(jv, "101001", true, hundred) || !hasLine(jv, "301", false, hundred) {
		return fmt.Errorf("purchase %s: expected Dr 101001 / Cr 301 of 100", jv.VoucherNumber)
	}
	step("purchase   %s -> %s", dpo.DPONo, jv.VoucherNumber)

	var cash dto.AccountResponse
	if err := c.call(ctx, http.MethodGet, "/api/v1/accounts/code/"+cashAccountCode, nil, &cash, http.StatusOK); err != nil {
		return fmt.Errorf("cash account: %w", err)
	}
	var payment dto.PaymentResponse
	err = c.call(ctx, http.MethodPost, "/api/v1/purchases/dpo/"+dpo.DPONo+"/payments", map[string]any{
		"amount":            "1",
		"cashBankAccountID": cash.AccountID,
	}, &payment, http.StatusCreated)
	if err != nil {
		return fmt.Errorf("payment: %w", err)
	}
	pv, err := c.voucher(ctx, payment.VoucherNumber)
	if err != nil {
		return err
	}
	if !hasLine(pv, "301", true, decimal.NewFromInt(1)) {
		return fmt.Errorf("payment %s: expected Dr 301 of 1", pv.VoucherNumber)
	}
	step("payment    %s -> %s", dpo.DPONo, pv.VoucherNumber)

	var sale dto.InvoicePostingResponse
	err = c.call(ctx, http.MethodPost, "/api/v1/sales/invoices/approve", map[string]any{
		"customerName": "Smoke Customer",
		"items":        []map[string]any{{"partID": partID, "quantity": "1", "unitPrice": "200"}},
	}, &sale, http.StatusCreated)
	if err != nil {
		return fmt.Errorf("sale: %w", err)
	}
	if sale.Vouchers.RevenueJVNumber == "" || sale.Vouchers.ReceiptNumber == "" || sale.Vouchers.COGSJVNumber == "" {
		return fmt.Errorf("sale %s: missing vouchers %+v", sale.InvoiceNo, sale.Vouchers)
	}
	step("sale       INV %s -> %s, %s, %s", sale.InvoiceNo,
		sale.Vouchers.RevenueJVNumber, sale.Vouchers.ReceiptNumber, sale.Vouchers.COGSJVNumber)

	var bs dto.BalanceSheetResponse
	if err := c.call(ctx, http.MethodGet, "/api/v1/reports/balance-sheet", nil, &bs, http.StatusOK); err != nil {
		return err
	}
	arithmetic := bs.TotalAssets.Sub(bs.TotalLiabilities.Add(bs.TotalCapital)).Abs().LessThan(decimal.RequireFromString("0.01"))
	if arithmetic != bs.IsBalanced {
		return fmt.Errorf("balance sheet: isBalanced=%t disagrees with totals", bs.IsBalanced)
	}
	step("balance    assets=%s liabilities=%s capital=%s balanced=%t",
		bs.TotalAssets.StringFixed(2), bs.TotalLiabilities.StringFixed(2), bs.TotalCapital.StringFixed(2), bs.IsBalanced)
	if !bs.IsBalanced {
		return fmt.Errorf("balance sheet off by %s", bs.Difference.StringFixed(2))
	}
	return nil
}

func newSmokeCommand() *cobra.Command {
	var server, actor, cashCode string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Post a purchase, payment and sale against a running server and check the balance sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			c := &apiClient{
				baseURL: strings.TrimRight(server, "/"),
				actor:   actor,
				http:    &http.Client{Timeout: timeout},
			}
			return runSmoke(ctx, c, cmd.OutOrStdout(), cashCode)
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:8080", "ledger server base URL")
	cmd.Flags().StringVar(&actor, "actor", "ledgerctl-smoke", "value of the X-Actor header")
	cmd.Flags().StringVar(&cashCode, "cash-account", "102001", "code of the cash or bank account paying the supplier")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall timeout")
	return cmd
}
