package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// postingHandler turns purchase and sales documents into ledger postings.
type postingHandler struct {
	poster portssvc.LedgerPosterSvc
}

func newPostingHandler(p portssvc.LedgerPosterSvc) *postingHandler {
	return &postingHandler{poster: p}
}

func registerPostingRoutes(rg *gin.RouterGroup, p portssvc.LedgerPosterSvc) {
	h := newPostingHandler(p)

	purchases := rg.Group("/purchases/dpo")
	{
		purchases.POST("", h.postPurchase)
		purchases.POST("/:dpo_no/payments", h.postPayment)
	}
	rg.POST("/sales/invoices/approve", h.postSalesRevenue)
}

// postPurchase godoc
// @Summary Post a direct purchase order
// @Description Debits inventory (and expense accounts for charges) and credits the supplier's payable account in one journal voucher
// @Tags postings
// @Accept json
// @Produce json
// @Param dpo body dto.CreateDPORequest true "Completed direct purchase order"
// @Param X-Actor header string false "Acting user"
// @Success 201 {object} dto.DPOResponse
// @Failure 400 {object} map[string]string "Invalid amount, date or status"
// @Failure 409 {object} map[string]string "DPO already posted"
// @Failure 422 {object} map[string]string "Required account missing or unbalanced voucher"
// @Router /purchases/dpo [post]
func (h *postingHandler) postPurchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateDPORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		respondError(c, logger, err, "Invalid date")
		return
	}

	posting, err := h.poster.PostPurchase(c.Request.Context(), req.ToDomain(date), middleware.GetActorFromContext(c))
	if err != nil {
		respondError(c, logger, err, "Failed to post purchase order")
		return
	}
	logger.Info("Purchase order posted", slog.String("dpo_no", posting.DPONo), slog.String("voucher_number", posting.Journal.VoucherNumber))
	c.JSON(http.StatusCreated, dto.ToDPOResponse(posting))
}

// postPayment godoc
// @Summary Pay a supplier against a DPO
// @Description Debits the supplier's payable account and credits the chosen cash or bank account in one payment voucher
// @Tags postings
// @Accept json
// @Produce json
// @Param dpo_no path string true "DPO number"
// @Param payment body dto.CreateDPOPaymentRequest true "Payment"
// @Param X-Actor header string false "Acting user"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid amount or date"
// @Failure 404 {object} map[string]string "DPO has no posted voucher"
// @Failure 422 {object} map[string]string "Cash or payable account missing"
// @Router /purchases/dpo/{dpo_no}/payments [post]
func (h *postingHandler) postPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateDPOPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		respondError(c, logger, err, "Invalid date")
		return
	}

	dpoNo := c.Param("dpo_no")
	posting, err := h.poster.PostPayment(c.Request.Context(), req.ToDomain(dpoNo, date), middleware.GetActorFromContext(c))
	if err != nil {
		respondError(c, logger, err, "Failed to post payment")
		return
	}
	logger.Info("DPO payment posted", slog.String("dpo_no", dpoNo), slog.String("voucher_number", posting.Payment.VoucherNumber))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(posting))
}

// postSalesRevenue godoc
// @Summary Approve a sales invoice
// @Description Posts the revenue journal, a receipt voucher for any amount collected and a cost of goods sold journal
// @Tags postings
// @Accept json
// @Produce json
// @Param invoice body dto.ApproveInvoiceRequest true "Invoice"
// @Param X-Actor header string false "Acting user"
// @Success 201 {object} dto.InvoicePostingResponse
// @Failure 400 {object} map[string]string "Invalid amount or date"
// @Failure 409 {object} map[string]string "Invoice already posted"
// @Failure 422 {object} map[string]string "Required account missing or unbalanced voucher"
// @Router /sales/invoices/approve [post]
func (h *postingHandler) postSalesRevenue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ApproveInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		respondError(c, logger, err, "Invalid date")
		return
	}

	posting, err := h.poster.PostSalesRevenue(c.Request.Context(), req.ToDomain(date), middleware.GetActorFromContext(c))
	if err != nil {
		respondError(c, logger, err, "Failed to post sales invoice")
		return
	}
	logger.Info("Sales invoice posted", slog.String("invoice_no", posting.InvoiceNo), slog.Int("vouchers", len(posting.Vouchers())))
	c.JSON(http.StatusCreated, dto.ToInvoicePostingResponse(posting))
}
