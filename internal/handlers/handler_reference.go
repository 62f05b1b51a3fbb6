package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

func registerReferenceRoutes(rg *gin.RouterGroup, referenceService portssvc.ReferenceDataSvc) {
	rg.GET("/transaction-types", func(c *gin.Context) {
		types, err := referenceService.ListTransactionTypes(c.Request.Context())
		if err != nil {
			respondError(c, err, "Failed to list transaction types")
			return
		}
		c.JSON(http.StatusOK, dto.ListTransactionTypesResponse{TransactionTypes: types})
	})
	rg.GET("/payment-methods", func(c *gin.Context) {
		methods, err := referenceService.ListPaymentMethods(c.Request.Context())
		if err != nil {
			respondError(c, err, "Failed to list payment methods")
			return
		}
		c.JSON(http.StatusOK, dto.ListPaymentMethodsResponse{PaymentMethods: methods})
	})
}
