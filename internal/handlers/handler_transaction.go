package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/SscSPs/backoffice_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler serves payments, receipts and transfers.
type transactionHandler struct {
	transactionService    portssvc.TransactionReaderSvc
	reconciliationService portssvc.ReconciliationSvcFacade
}

func registerTransactionRoutes(rg *gin.RouterGroup, transactions portssvc.TransactionReaderSvc, reconciliation portssvc.ReconciliationSvcFacade) {
	h := &transactionHandler{transactionService: transactions, reconciliationService: reconciliation}

	txns := rg.Group("/transactions")
	{
		txns.POST("", h.recordPayment)
		txns.GET("", h.listTransactions)
		txns.GET("/:id", h.getTransaction)
		txns.PUT("/:id", h.updateTransaction)
		txns.DELETE("/:id", h.deleteTransaction)
		txns.GET("/:id/allocations", h.listAllocations)
	}
}

// recordPayment godoc
// @Summary Record a transaction
// @Description Posts the amount to its account (or between two accounts for a transfer) and applies the allocations to invoices in one unit of work.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   transaction body dto.CreateTransactionRequest true "Transaction and allocations"
// @Success 201 {object} dto.RecordedPaymentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/transactions [post]
func (h *transactionHandler) recordPayment(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	recorded, err := h.reconciliationService.RecordPayment(c.Request.Context(), c.Param("workplace_id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to record transaction")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Transaction recorded",
		slog.String("transaction_id", recorded.Transaction.TransactionID),
		slog.Int("allocations", len(recorded.Allocations)))
	c.JSON(http.StatusCreated, dto.ToRecordedPaymentResponse(recorded))
}

// listTransactions godoc
// @Summary List transactions
// @Tags transactions
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   nextToken query string false "Token for the next page"
// @Param   includeVoid query bool false "Include deleted transactions"
// @Success 200 {object} dto.ListTransactionsResponse
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	txns, next, err := h.transactionService.ListTransactions(c.Request.Context(), c.Param("workplace_id"), params, userID)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	resp := dto.ListTransactionsResponse{Transactions: make([]dto.TransactionResponse, len(txns)), NextToken: next}
	for i := range txns {
		resp.Transactions[i] = dto.ToTransactionResponse(&txns[i], nil)
	}
	c.JSON(http.StatusOK, resp)
}

// getTransaction godoc
// @Summary Get a transaction with its allocations
// @Tags transactions
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	txn, allocs, err := h.transactionService.GetTransaction(c.Request.Context(), c.Param("workplace_id"), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn, allocs))
}

// updateTransaction godoc
// @Summary Update a transaction
// @Description Reverses the old postings and applies the new ones. Sending allocations replaces the existing ones; omitting them keeps them.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Transaction ID"
// @Param   transaction body dto.UpdateTransactionRequest true "Fields to update"
// @Success 200 {object} dto.RecordedPaymentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Transaction was deleted"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/transactions/{id} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	recorded, err := h.reconciliationService.UpdateTransaction(c.Request.Context(), c.Param("workplace_id"), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecordedPaymentResponse(recorded))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Reverses its postings and allocations and marks it void.
// @Tags transactions
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Already deleted"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/transactions/{id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.reconciliationService.DeleteTransaction(c.Request.Context(), c.Param("workplace_id"), c.Param("id"), userID); err != nil {
		respondError(c, err, "Failed to delete transaction")
		return
	}
	c.Status(http.StatusNoContent)
}

// listAllocations godoc
// @Summary List the allocations of a transaction
// @Tags transactions
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.ListAllocationsResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/transactions/{id}/allocations [get]
func (h *transactionHandler) listAllocations(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	allocs, err := h.transactionService.ListTransactionAllocations(c.Request.Context(), c.Param("workplace_id"), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to list allocations")
		return
	}
	c.JSON(http.StatusOK, dto.ListAllocationsResponse{Allocations: dto.ToAllocationResponses(allocs)})
}
