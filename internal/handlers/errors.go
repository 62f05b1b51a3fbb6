package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/SscSPs/backoffice_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondError renders err as a dto.ErrorResponse with the status of its kind.
// Internal errors are logged and replaced by internalMsg so database details
// never reach the client.
func respondError(c *gin.Context, err error, internalMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	resp := dto.ErrorResponse{
		Error: err.Error(),
		Kind:  apperrors.Kind(err),
		Step:  apperrors.StepOf(err),
	}

	if resp.Kind == apperrors.KindInternal {
		logger.Error(internalMsg, slog.String("error", err.Error()), slog.String("step", resp.Step))
		resp.Error = internalMsg
	} else {
		logger.Warn("Request rejected", slog.String("kind", resp.Kind), slog.String("error", err.Error()))
	}
	c.JSON(apperrors.HTTPStatus(err), resp)
}

// respondBindError reports a request that failed binding or tag validation.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: "Invalid request: " + err.Error(),
		Kind:  apperrors.KindValidation,
	})
}

// requireUserID reads the authenticated user and aborts with 401 when absent.
func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized", Kind: apperrors.KindUnauthorized})
		return "", false
	}
	return userID, true
}
