package handlers

import (
	"net/http"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

type counterpartyHandler struct {
	counterpartyService portssvc.CounterpartySvcFacade
}

// registerCounterpartyRoutes registers /customers and /suppliers.
func registerCounterpartyRoutes(rg *gin.RouterGroup, counterpartyService portssvc.CounterpartySvcFacade) {
	h := &counterpartyHandler{counterpartyService: counterpartyService}

	for path, kind := range map[string]domain.CounterpartyKind{
		"/customers": domain.Customer,
		"/suppliers": domain.Supplier,
	} {
		group := rg.Group(path)
		group.POST("", h.create(kind))
		group.GET("", h.list(kind))
		group.GET("/:id", h.get(kind))
		group.PUT("/:id", h.update(kind))
	}
}

// create godoc
// @Summary Create a customer or supplier
// @Description Suppliers must leave creditLimit at zero.
// @Tags counterparties
// @Accept  json
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   counterparty body dto.CreateCounterpartyRequest true "Counterparty details"
// @Success 201 {object} dto.CounterpartyResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/customers [post]
// @Router /workplaces/{workplace_id}/suppliers [post]
func (h *counterpartyHandler) create(kind domain.CounterpartyKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.CreateCounterpartyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		cp, err := h.counterpartyService.CreateCounterparty(c.Request.Context(), c.Param("workplace_id"), kind, req, userID)
		if err != nil {
			respondError(c, err, "Failed to create "+string(kind))
			return
		}
		c.JSON(http.StatusCreated, dto.ToCounterpartyResponse(cp))
	}
}

// list godoc
// @Summary List customers or suppliers
// @Tags counterparties
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListCounterpartiesResponse
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/customers [get]
// @Router /workplaces/{workplace_id}/suppliers [get]
func (h *counterpartyHandler) list(kind domain.CounterpartyKind) gin.HandlerFunc {
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
		cps, err := h.counterpartyService.ListCounterparties(c.Request.Context(), c.Param("workplace_id"), kind, params.Limit, params.Offset, userID)
		if err != nil {
			respondError(c, err, "Failed to list "+string(kind)+"s")
			return
		}
		c.JSON(http.StatusOK, dto.ToListCounterpartiesResponse(cps))
	}
}

// get godoc
// @Summary Get a customer or supplier with its balances
// @Tags counterparties
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Counterparty ID"
// @Success 200 {object} dto.CounterpartyResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/customers/{id} [get]
// @Router /workplaces/{workplace_id}/suppliers/{id} [get]
func (h *counterpartyHandler) get(kind domain.CounterpartyKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		ref := domain.CounterpartyRef{Kind: kind, ID: c.Param("id")}
		cp, err := h.counterpartyService.GetCounterparty(c.Request.Context(), c.Param("workplace_id"), ref, userID)
		if err != nil {
			respondError(c, err, "Failed to retrieve "+string(kind))
			return
		}
		c.JSON(http.StatusOK, dto.ToCounterpartyResponse(cp))
	}
}

// update godoc
// @Summary Update a customer or supplier
// @Description Balances are not editable here.
// @Tags counterparties
// @Accept  json
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Counterparty ID"
// @Param   counterparty body dto.UpdateCounterpartyRequest true "Fields to update"
// @Success 200 {object} dto.CounterpartyResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/customers/{id} [put]
// @Router /workplaces/{workplace_id}/suppliers/{id} [put]
func (h *counterpartyHandler) update(kind domain.CounterpartyKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.UpdateCounterpartyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		ref := domain.CounterpartyRef{Kind: kind, ID: c.Param("id")}
		cp, err := h.counterpartyService.UpdateCounterparty(c.Request.Context(), c.Param("workplace_id"), ref, req, userID)
		if err != nil {
			respondError(c, err, "Failed to update "+string(kind))
			return
		}
		c.JSON(http.StatusOK, dto.ToCounterpartyResponse(cp))
	}
}
