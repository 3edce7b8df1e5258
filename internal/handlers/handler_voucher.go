package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// voucherHandler handles HTTP requests for manually entered vouchers.
type voucherHandler struct {
	voucherService portssvc.VoucherSvcFacade
}

func newVoucherHandler(vs portssvc.VoucherSvcFacade) *voucherHandler {
	return &voucherHandler{voucherService: vs}
}

func registerVoucherRoutes(rg *gin.RouterGroup, vs portssvc.VoucherSvcFacade) {
	h := newVoucherHandler(vs)

	vouchers := rg.Group("/vouchers")
	{
		vouchers.GET("", h.listVouchers)
		vouchers.POST("", h.createVoucher)
		vouchers.GET("/:id", h.getVoucher)
		vouchers.GET("/number/:number", h.getVoucherByNumber)
		vouchers.POST("/:id/post", h.postVoucher)
		vouchers.POST("/:id/cancel", h.cancelVoucher)
	}
}

// createVoucher godoc
// @Summary Create a voucher
// @Description Saves a draft voucher, or posts it immediately when post is true
// @Tags vouchers
// @Accept json
// @Produce json
// @Param voucher body dto.CreateVoucherRequest true "Voucher with entries"
// @Param X-Actor header string false "Acting user"
// @Success 201 {object} dto.VoucherResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "Unbalanced entries or unknown account"
// @Router /vouchers [post]
func (h *voucherHandler) createVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	logger.Info("Received request to create voucher", slog.String("type", string(req.Type)), slog.Bool("post", req.Post))
	voucher, err := h.voucherService.CreateVoucher(c.Request.Context(), req, middleware.GetActorFromContext(c))
	if err != nil {
		respondError(c, logger, err, "Failed to create voucher")
		return
	}
	logger.Info("Voucher created", slog.String("voucher_id", voucher.VoucherID), slog.String("status", string(voucher.Status)))
	c.JSON(http.StatusCreated, dto.ToVoucherResponse(voucher))
}

// getVoucher godoc
// @Summary Get a voucher by ID
// @Tags vouchers
// @Produce json
// @Param id path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 404 {object} map[string]string "Voucher not found"
// @Router /vouchers/{id} [get]
func (h *voucherHandler) getVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	voucher, err := h.voucherService.GetVoucherByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve voucher")
		return
	}
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// getVoucherByNumber godoc
// @Summary Get a voucher by number
// @Tags vouchers
// @Produce json
// @Param number path string true "Voucher number, e.g. JV-000001"
// @Success 200 {object} dto.VoucherResponse
// @Failure 404 {object} map[string]string "Voucher not found"
// @Router /vouchers/number/{number} [get]
func (h *voucherHandler) getVoucherByNumber(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	voucher, err := h.voucherService.GetVoucherByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve voucher")
		return
	}
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// listVouchers godoc
// @Summary Search vouchers
// @Description Lists vouchers newest first with token pagination
// @Tags vouchers
// @Produce json
// @Param search query string false "Matches number, narration, source reference or entry description"
// @Param number query string false "Exact voucher number"
// @Param type query string false "receipt, payment, journal or contra"
// @Param status query string false "draft, posted or cancelled"
// @Param fromDate query string false "YYYY-MM-DD"
// @Param toDate query string false "YYYY-MM-DD"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListVouchersResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Router /vouchers [get]
func (h *voucherHandler) listVouchers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListVouchersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	resp, err := h.voucherService.ListVouchers(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list vouchers")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// postVoucher godoc
// @Summary Post a draft voucher
// @Description Assigns the voucher number and applies the entries to account balances
// @Tags vouchers
// @Produce json
// @Param id path string true "Voucher ID"
// @Param X-Actor header string false "Acting user"
// @Success 200 {object} dto.VoucherResponse
// @Failure 404 {object} map[string]string "Voucher not found"
// @Failure 409 {object} map[string]string "Voucher is not a draft"
// @Failure 422 {object} map[string]string "Unbalanced entries"
// @Router /vouchers/{id}/post [post]
func (h *voucherHandler) postVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	voucher, err := h.voucherService.PostVoucher(c.Request.Context(), c.Param("id"), middleware.GetActorFromContext(c))
	if err != nil {
		respondError(c, logger, err, "Failed to post voucher")
		return
	}
	logger.Info("Voucher posted", slog.String("voucher_number", voucher.VoucherNumber))
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// cancelVoucher godoc
// @Summary Cancel a posted voucher
// @Description Reverses the voucher's effect on account balances
// @Tags vouchers
// @Produce json
// @Param id path string true "Voucher ID"
// @Param X-Actor header string false "Acting user"
// @Success 200 {object} dto.VoucherResponse
// @Failure 404 {object} map[string]string "Voucher not found"
// @Failure 409 {object} map[string]string "Voucher is not posted"
// @Router /vouchers/{id}/cancel [post]
func (h *voucherHandler) cancelVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	voucher, err := h.voucherService.CancelVoucher(c.Request.Context(), c.Param("id"), middleware.GetActorFromContext(c))
	if err != nil {
		respondError(c, logger, err, "Failed to cancel voucher")
		return
	}
	logger.Info("Voucher cancelled", slog.String("voucher_number", voucher.VoucherNumber))
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}
