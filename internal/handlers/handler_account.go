package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/SscSPs/backoffice_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests for bank accounts and cash drawers.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: as}
}

// registerAccountRoutes registers the two account collections. Both share
// the read and update handlers; the path decides the kind.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	banks := rg.Group("/bank-accounts")
	{
		banks.POST("", h.createBankAccount)
		banks.GET("", h.listAccounts(domain.BankAccount))
		banks.GET("/:id", h.getAccount(domain.BankAccount))
		banks.PUT("/:id", h.updateAccount(domain.BankAccount))
	}

	drawers := rg.Group("/cash-drawers")
	{
		drawers.POST("", h.createCashDrawer)
		drawers.GET("", h.listAccounts(domain.CashDrawer))
		drawers.GET("/:id", h.getAccount(domain.CashDrawer))
		drawers.PUT("/:id", h.updateAccount(domain.CashDrawer))
	}
}

// createBankAccount godoc
// @Summary Create a bank account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   account body dto.CreateBankAccountRequest true "Bank account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/bank-accounts [post]
func (h *accountHandler) createBankAccount(c *gin.Context) {
	var req dto.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	account, err := h.accountService.CreateBankAccount(c.Request.Context(), c.Param("workplace_id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create bank account")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Bank account created", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// createCashDrawer godoc
// @Summary Create a cash drawer
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   drawer body dto.CreateCashDrawerRequest true "Cash drawer details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/cash-drawers [post]
func (h *accountHandler) createCashDrawer(c *gin.Context) {
	var req dto.CreateCashDrawerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	account, err := h.accountService.CreateCashDrawer(c.Request.Context(), c.Param("workplace_id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create cash drawer")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Cash drawer created", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get a bank account or cash drawer
// @Tags accounts
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/bank-accounts/{id} [get]
// @Router /workplaces/{workplace_id}/cash-drawers/{id} [get]
func (h *accountHandler) getAccount(kind domain.AccountKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		ref := domain.AccountRef{Kind: kind, ID: c.Param("id")}
		account, err := h.accountService.GetAccount(c.Request.Context(), c.Param("workplace_id"), ref, userID)
		if err != nil {
			respondError(c, err, "Failed to retrieve account")
			return
		}
		c.JSON(http.StatusOK, dto.ToAccountResponse(account))
	}
}

// listAccounts godoc
// @Summary List bank accounts or cash drawers
// @Tags accounts
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListAccountsResponse
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/bank-accounts [get]
// @Router /workplaces/{workplace_id}/cash-drawers [get]
func (h *accountHandler) listAccounts(kind domain.AccountKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params dto.PageParams
		if err := c.ShouldBindQuery(&params); err != nil {
			respondBindError(c, err)
			return
		}
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		accounts, err := h.accountService.ListAccounts(c.Request.Context(), c.Param("workplace_id"), kind, params.Limit, params.Offset, userID)
		if err != nil {
			respondError(c, err, "Failed to list accounts")
			return
		}
		c.JSON(http.StatusOK, dto.ToListAccountsResponse(accounts))
	}
}

// updateAccount godoc
// @Summary Update a bank account or cash drawer
// @Description Only descriptive fields change. Balances move through transactions.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/bank-accounts/{id} [put]
// @Router /workplaces/{workplace_id}/cash-drawers/{id} [put]
func (h *accountHandler) updateAccount(kind domain.AccountKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.UpdateAccountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		ref := domain.AccountRef{Kind: kind, ID: c.Param("id")}
		account, err := h.accountService.UpdateAccount(c.Request.Context(), c.Param("workplace_id"), ref, req, userID)
		if err != nil {
			respondError(c, err, "Failed to update account")
			return
		}
		c.JSON(http.StatusOK, dto.ToAccountResponse(account))
	}
}
