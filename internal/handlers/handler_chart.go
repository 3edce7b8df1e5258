package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// chartHandler handles HTTP requests for the chart of accounts.
type chartHandler struct {
	chartService portssvc.ChartSvcFacade
	seed         ChartSource
}

func newChartHandler(cs portssvc.ChartSvcFacade, seed ChartSource) *chartHandler {
	return &chartHandler{chartService: cs, seed: seed}
}

// registerChartRoutes registers main group, subgroup and account routes.
func registerChartRoutes(rg *gin.RouterGroup, cs portssvc.ChartSvcFacade, seed ChartSource) {
	h := newChartHandler(cs, seed)

	groups := rg.Group("/main-groups")
	{
		groups.GET("", h.listMainGroups)
		groups.POST("", h.createMainGroup)
		groups.GET("/:id/subgroups", h.listSubgroups)
	}

	rg.POST("/subgroups", h.createSubgroup)
	rg.GET("/subgroups/:id/accounts", h.listSubgroupAccounts)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.POST("", h.createAccount)
		accounts.GET("/:id", h.getAccount)
		accounts.GET("/code/:code", h.getAccountByCode)
		accounts.PUT("/:id", h.updateAccount)
		accounts.DELETE("/:id", h.deleteAccount)
	}

	rg.POST("/chart/seed", h.seedChart)
}

// listMainGroups godoc
// @Summary List main groups
// @Tags chart
// @Produce json
// @Success 200 {array} dto.MainGroupResponse
// @Failure 500 {object} map[string]string "Failed to list main groups"
// @Router /main-groups [get]
func (h *chartHandler) listMainGroups(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	groups, err := h.chartService.ListMainGroups(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list main groups")
		return
	}
	c.JSON(http.StatusOK, dto.ToMainGroupResponses(groups))
}

// createMainGroup godoc
// @Summary Create a main group
// @Tags chart
// @Accept json
// @Produce json
// @Param group body dto.CreateMainGroupRequest true "Main group"
// @Param X-Actor header string false "Acting user"
// @Success 201 {object} dto.MainGroupResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Code already used"
// @Router /main-groups [post]
func (h *chartHandler) createMainGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateMainGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	group, err := h.chartService.CreateMainGroup(c.Request.Context(), req, middleware.GetActorFromContext(c))
	if err != nil {
		respondError(c, logger, err, "Failed to create main group")
		return
	}
	logger.Info("Main group created", slog.String("code", group.Code))
	c.JSON(http.StatusCreated, dto.ToMainGroupResponse(group))
}

// listSubgroups godoc
// @Summary List the subgroups of a main group
// @Tags chart
// @Produce json
// @Param id path string true "Main group ID"
// @Success 200 {array} dto.SubgroupResponse
// @Failure 404 {object} map[string]string "Main group not found"
// @Router /main-groups/{id}/subgroups [get]
func (h *chartHandler) listSubgroups(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	subs, err := h.chartService.GetSubgroupsByMainGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list subgroups")
		return
	}
	c.JSON(http.StatusOK, dto.ToSubgroupResponses(subs))
}

// createSubgroup godoc
// @Summary Create a subgroup
// @Tags chart
// @Accept json
// @Produce json
// @Param subgroup body dto.CreateSubgroupRequest true "Subgroup"
// @Param X-Actor header string false "Acting user"
// @Success 201 {object} dto.SubgroupResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Main group not found"
// @Failure 409 {object} map[string]string "Code already used"
// @Router /subgroups [post]
func (h *chartHandler) createSubgroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateSubgroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	sub, err := h.chartService.CreateSubgroup(c.Request.Context(), req, middleware.GetActorFromContext(c))
	if err != nil {
		respondError(c, logger, err, "Failed to create subgroup")
		return
	}
	logger.Info("Subgroup created", slog.String("code", sub.Code))
	c.JSON(http.StatusCreated, dto.ToSubgroupResponse(sub))
}

// listSubgroupAccounts godoc
// @Summary List the accounts of a subgroup
// @Tags chart
// @Produce json
// @Param id path string true "Subgroup ID"
// @Success 200 {array} dto.AccountResponse
// @Router /subgroups/{id}/accounts [get]
func (h *chartHandler) listSubgroupAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accounts, err := h.chartService.FindAccountsBySubgroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponses(accounts))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists accounts ordered by code, optionally filtered by subgroup, status or role
// @Tags accounts
// @Produce json
// @Param subgroupID query string false "Subgroup ID"
// @Param status query string false "Active or Inactive"
// @Param role query string false "Account role"
// @Success 200 {array} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Router /accounts [get]
func (h *chartHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	accounts, err := h.chartService.ListAccounts(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponses(accounts))
}

// createAccount godoc
// @Summary Create an account
// @Description Creates an account; its code is the subgroup code followed by the next free 3-digit sequence
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body dto.CreateAccountRequest true "Account details"
// @Param X-Actor header string false "Acting user"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Subgroup not found"
// @Router /accounts [post]
func (h *chartHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	account, err := h.chartService.CreateAccount(c.Request.Context(), req, middleware.GetActorFromContext(c))
	if err != nil {
		respondError(c, logger, err, "Failed to create account")
		return
	}
	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{id} [get]
func (h *chartHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	account, err := h.chartService.GetAccountByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getAccountByCode godoc
// @Summary Get an account by code
// @Tags accounts
// @Produce json
// @Param code path string true "Account code"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/code/{code} [get]
func (h *chartHandler) getAccountByCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	account, err := h.chartService.FindAccountByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// updateAccount godoc
// @Summary Update an account
// @Description Changes name, description, status or role. Role NONE clears the role.
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param account body dto.UpdateAccountRequest true "Fields to change"
// @Param X-Actor header string false "Acting user"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{id} [put]
func (h *chartHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	account, err := h.chartService.UpdateAccount(c.Request.Context(), c.Param("id"), req, middleware.GetActorFromContext(c))
	if err != nil {
		respondError(c, logger, err, "Failed to update account")
		return
	}
	logger.Info("Account updated", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Only accounts that never received a posting can be deleted
// @Tags accounts
// @Param id path string true "Account ID"
// @Param X-Actor header string false "Acting user"
// @Success 204
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account has postings"
// @Router /accounts/{id} [delete]
func (h *chartHandler) deleteAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	if err := h.chartService.DeleteAccount(c.Request.Context(), accountID, middleware.GetActorFromContext(c)); err != nil {
		respondError(c, logger, err, "Failed to delete account")
		return
	}
	logger.Info("Account deleted", slog.String("account_id", accountID))
	c.Status(http.StatusNoContent)
}

// seedChart godoc
// @Summary Install the configured chart of accounts
// @Description Creates every group, subgroup and account of the configured chart that does not exist yet
// @Tags chart
// @Produce json
// @Param X-Actor header string false "Acting user"
// @Success 200 {object} dto.SeedChartResponse
// @Failure 400 {object} map[string]string "Chart definition is invalid"
// @Router /chart/seed [post]
func (h *chartHandler) seedChart(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	chart, err := h.seed()
	if err != nil {
		respondError(c, logger, err, "Failed to load chart definition")
		return
	}
	resp, err := h.chartService.SeedChart(c.Request.Context(), chart, middleware.GetActorFromContext(c))
	if err != nil {
		respondError(c, logger, err, "Failed to seed chart")
		return
	}
	logger.Info("Chart seeded",
		slog.Int("main_groups", resp.MainGroupsCreated),
		slog.Int("subgroups", resp.SubgroupsCreated),
		slog.Int("accounts", resp.AccountsCreated))
	c.JSON(http.StatusOK, resp)
}
