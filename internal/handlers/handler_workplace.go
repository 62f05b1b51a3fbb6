package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/SscSPs/backoffice_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// workplaceHandler handles HTTP requests related to workplaces.
type workplaceHandler struct {
	workplaceService portssvc.WorkplaceSvcFacade
}

func newWorkplaceHandler(ws portssvc.WorkplaceSvcFacade) *workplaceHandler {
	return &workplaceHandler{workplaceService: ws}
}

// registerWorkplaceRoutes registers the workplace routes and nests every
// tenant-scoped resource under /workplaces/:workplace_id.
func registerWorkplaceRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newWorkplaceHandler(services.Workplace)

	workplacesTopLevel := rg.Group("/workplaces")
	{
		workplacesTopLevel.POST("", h.createWorkplace)
		workplacesTopLevel.GET("", h.listUserWorkplaces)
	}

	workplaceSpecific := rg.Group("/workplaces/:workplace_id")
	{
		workplaceSpecific.POST("/users", h.addUserToWorkplace)
		workplaceSpecific.GET("/settings", h.getSettings)
		workplaceSpecific.PUT("/settings", h.updateSettings)

		registerAccountRoutes(workplaceSpecific, services.Account)
		registerCounterpartyRoutes(workplaceSpecific, services.Counterparty)
		registerInvoiceRoutes(workplaceSpecific, services.Invoice, services.Reconciliation)
		registerTransactionRoutes(workplaceSpecific, services.Transaction, services.Reconciliation)
		registerReferenceRoutes(workplaceSpecific, services.Reference)
	}
}

// createWorkplace godoc
// @Summary Create a new workplace
// @Description Creates a new workplace and assigns the creator as admin.
// @Tags workplaces
// @Accept  json
// @Produce  json
// @Param   workplace body dto.CreateWorkplaceRequest true "Workplace details"
// @Success 201 {object} dto.WorkplaceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /workplaces [post]
func (h *workplaceHandler) createWorkplace(c *gin.Context) {
	var req dto.CreateWorkplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	creatorUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	newWorkplace, err := h.workplaceService.CreateWorkplace(c.Request.Context(), req.Name, req.Description, creatorUserID)
	if err != nil {
		respondError(c, err, "Failed to create workplace")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Workplace created", slog.String("workplace_id", newWorkplace.WorkplaceID))
	c.JSON(http.StatusCreated, dto.ToWorkplaceResponse(newWorkplace))
}

// listUserWorkplaces godoc
// @Summary List workplaces for current user
// @Tags workplaces
// @Produce  json
// @Success 200 {object} dto.ListWorkplacesResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /workplaces [get]
func (h *workplaceHandler) listUserWorkplaces(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	workplaces, err := h.workplaceService.ListUserWorkplaces(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list workplaces")
		return
	}
	c.JSON(http.StatusOK, dto.ToListWorkplacesResponse(workplaces))
}

// addUserToWorkplace godoc
// @Summary Add a user to a workplace
// @Description Adds a user with a role. Only admins may add users.
// @Tags workplaces
// @Accept  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   membership body dto.AddUserToWorkplaceRequest true "User and role"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/users [post]
func (h *workplaceHandler) addUserToWorkplace(c *gin.Context) {
	var req dto.AddUserToWorkplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	addingUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	err := h.workplaceService.AddUserToWorkplace(c.Request.Context(), addingUserID, req.UserID, c.Param("workplace_id"), req.Role)
	if err != nil {
		respondError(c, err, "Failed to add user to workplace")
		return
	}
	c.Status(http.StatusNoContent)
}

// getSettings godoc
// @Summary Get the default payment accounts of a workplace
// @Tags workplaces
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Success 200 {object} dto.WorkplaceSettingsResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/settings [get]
func (h *workplaceHandler) getSettings(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	settings, err := h.workplaceService.GetSettings(c.Request.Context(), c.Param("workplace_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to load workplace settings")
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkplaceSettingsResponse(settings))
}

// updateSettings godoc
// @Summary Set the default cash drawer and bank account
// @Description An empty string clears a default. Only admins may change settings.
// @Tags workplaces
// @Accept  json
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   settings body dto.UpdateWorkplaceSettingsRequest true "Default accounts"
// @Success 200 {object} dto.WorkplaceSettingsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/settings [put]
func (h *workplaceHandler) updateSettings(c *gin.Context) {
	var req dto.UpdateWorkplaceSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	settings, err := h.workplaceService.UpdateSettings(c.Request.Context(), c.Param("workplace_id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update workplace settings")
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkplaceSettingsResponse(settings))
}
