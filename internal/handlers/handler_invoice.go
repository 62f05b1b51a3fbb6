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

// invoiceHandler serves sales and purchase invoices. Reads go to the ledger
// read side and every mutation goes through the reconciliation service.
type invoiceHandler struct {
	invoiceService        portssvc.InvoiceReaderSvc
	reconciliationService portssvc.ReconciliationSvcFacade
}

func registerInvoiceRoutes(rg *gin.RouterGroup, invoices portssvc.InvoiceReaderSvc, reconciliation portssvc.ReconciliationSvcFacade) {
	h := &invoiceHandler{invoiceService: invoices, reconciliationService: reconciliation}

	for path, kind := range map[string]domain.InvoiceKind{
		"/sales-invoices":    domain.SalesInvoice,
		"/purchase-invoices": domain.PurchaseInvoice,
	} {
		group := rg.Group(path)
		group.POST("", h.create(kind))
		group.GET("", h.list(kind))
		group.GET("/:id", h.get(kind))
		group.PUT("/:id", h.update(kind))
		group.DELETE("/:id", h.delete(kind))
		group.POST("/:id/cancel", h.cancel(kind))
		group.GET("/:id/allocations", h.allocations(kind))
	}
}

// create godoc
// @Summary Create an invoice, optionally with an initial payment
// @Description A positive paidAmount posts a payment to the default account for the payment method and allocates it to the new invoice. Everything commits or nothing does.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.InvoiceWithPaymentResponse
// @Failure 400 {object} dto.ErrorResponse "Validation error, e.g. credit limit exceeded"
// @Failure 404 {object} dto.ErrorResponse "Counterparty, payment method or default account missing"
// @Failure 409 {object} dto.ErrorResponse "Duplicate invoice number"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/sales-invoices [post]
// @Router /workplaces/{workplace_id}/purchase-invoices [post]
func (h *invoiceHandler) create(kind domain.InvoiceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.CreateInvoiceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		userID, ok := requireUserID(c)
		if !ok {
			return
		}

		result, err := h.reconciliationService.CreateInvoiceWithPayment(c.Request.Context(), c.Param("workplace_id"), kind, req, userID)
		if err != nil {
			respondError(c, err, "Failed to create invoice")
			return
		}
		middleware.GetLoggerFromCtx(c.Request.Context()).Info("Invoice created",
			slog.String("kind", string(kind)),
			slog.String("invoice_id", result.Invoice.InvoiceID))
		c.JSON(http.StatusCreated, dto.ToInvoiceWithPaymentResponse(result))
	}
}

// list godoc
// @Summary List invoices
// @Description Status filtering sees overdue as of today.
// @Tags invoices
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   nextToken query string false "Token for the next page"
// @Param   status query string false "unpaid, partially_paid, paid, overdue or cancelled"
// @Param   counterpartyID query string false "Only invoices of this customer or supplier"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/sales-invoices [get]
// @Router /workplaces/{workplace_id}/purchase-invoices [get]
func (h *invoiceHandler) list(kind domain.InvoiceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params dto.ListInvoicesParams
		if err := c.ShouldBindQuery(&params); err != nil {
			respondBindError(c, err)
			return
		}
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		invoices, next, err := h.invoiceService.ListInvoices(c.Request.Context(), c.Param("workplace_id"), kind, params, userID)
		if err != nil {
			respondError(c, err, "Failed to list invoices")
			return
		}
		c.JSON(http.StatusOK, dto.ToListInvoicesResponse(invoices, next))
	}
}

// get godoc
// @Summary Get an invoice
// @Tags invoices
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/sales-invoices/{id} [get]
// @Router /workplaces/{workplace_id}/purchase-invoices/{id} [get]
func (h *invoiceHandler) get(kind domain.InvoiceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		inv, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("workplace_id"), kind, c.Param("id"), userID)
		if err != nil {
			respondError(c, err, "Failed to retrieve invoice")
			return
		}
		c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
	}
}

// update godoc
// @Summary Update an invoice
// @Description Changing totalAmount or paidAmount moves the counterparty outstanding balance by the balance difference. status=paid without paidAmount marks the invoice fully paid.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Invoice ID"
// @Param   invoice body dto.UpdateInvoiceRequest true "Fields to update"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Invoice is cancelled"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/sales-invoices/{id} [put]
// @Router /workplaces/{workplace_id}/purchase-invoices/{id} [put]
func (h *invoiceHandler) update(kind domain.InvoiceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.UpdateInvoiceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		inv, err := h.reconciliationService.UpdateInvoice(c.Request.Context(), c.Param("workplace_id"), kind, c.Param("id"), req, userID)
		if err != nil {
			respondError(c, err, "Failed to update invoice")
			return
		}
		c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
	}
}

// delete godoc
// @Summary Delete an invoice
// @Description Refused while payments are allocated to the invoice.
// @Tags invoices
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Invoice ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/sales-invoices/{id} [delete]
// @Router /workplaces/{workplace_id}/purchase-invoices/{id} [delete]
func (h *invoiceHandler) delete(kind domain.InvoiceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		if err := h.reconciliationService.DeleteInvoice(c.Request.Context(), c.Param("workplace_id"), kind, c.Param("id"), userID); err != nil {
			respondError(c, err, "Failed to delete invoice")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// cancel godoc
// @Summary Cancel an invoice
// @Tags invoices
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/sales-invoices/{id}/cancel [post]
// @Router /workplaces/{workplace_id}/purchase-invoices/{id}/cancel [post]
func (h *invoiceHandler) cancel(kind domain.InvoiceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		inv, err := h.reconciliationService.CancelInvoice(c.Request.Context(), c.Param("workplace_id"), kind, c.Param("id"), userID)
		if err != nil {
			respondError(c, err, "Failed to cancel invoice")
			return
		}
		c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
	}
}

// allocations godoc
// @Summary List payment allocations settling an invoice
// @Tags invoices
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.ListAllocationsResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/sales-invoices/{id}/allocations [get]
// @Router /workplaces/{workplace_id}/purchase-invoices/{id}/allocations [get]
func (h *invoiceHandler) allocations(kind domain.InvoiceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		target := domain.AllocationTarget{Kind: kind, ID: c.Param("id")}
		allocs, err := h.invoiceService.ListInvoiceAllocations(c.Request.Context(), c.Param("workplace_id"), target, userID)
		if err != nil {
			respondError(c, err, "Failed to list allocations")
			return
		}
		c.JSON(http.StatusOK, dto.ListAllocationsResponse{Allocations: dto.ToAllocationResponses(allocs)})
	}
}
