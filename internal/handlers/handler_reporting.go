package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	aggregator portssvc.BalanceAggregatorSvc
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(a portssvc.BalanceAggregatorSvc) *reportingHandler {
	return &reportingHandler{aggregator: a}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, a portssvc.BalanceAggregatorSvc) {
	h := newReportingHandler(a)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
	}
}

// getBalanceSheet godoc
// @Summary Generate balance sheet report
// @Description Rolls posted balances up the chart of accounts as of the end of a date. Net income is the residual plug and is cross-checked against the income statement.
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	asOf := c.Query("asOf")
	logger = logger.With(slog.String("asOf", asOf))

	bs, err := h.aggregator.ComputeBalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to generate balance sheet report")
		return
	}

	if !bs.IsBalanced {
		logger.Warn("Balance sheet does not balance", slog.String("difference", bs.Difference.StringFixed(2)))
	}
	logger.Info("Balance sheet report generated successfully", slog.Int64("ledger_revision", bs.LedgerRevision))
	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(bs))
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Generates a trial balance report as of a specific date
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	asOf := c.Query("asOf")

	tb, err := h.aggregator.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, logger.With(slog.String("asOf", asOf)), err, "Failed to generate trial balance report")
		return
	}

	logger.Info("Trial balance report generated successfully", slog.Int("row_count", len(tb.Rows)))
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}
