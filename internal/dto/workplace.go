package dto

import (
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
)

// --- Workplace DTOs ---

// CreateWorkplaceRequest defines data for creating a new workplace.
type CreateWorkplaceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// WorkplaceResponse defines data returned for a workplace.
type WorkplaceResponse struct {
	WorkplaceID   string    `json:"workplaceID"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID
}

// ToWorkplaceResponse converts domain.Workplace to DTO.
func ToWorkplaceResponse(w *domain.Workplace) WorkplaceResponse {
	return WorkplaceResponse{
		WorkplaceID:   w.WorkplaceID,
		Name:          w.Name,
		Description:   w.Description,
		IsActive:      w.IsActive,
		CreatedAt:     w.CreatedAt,
		CreatedBy:     w.CreatedBy,
		LastUpdatedAt: w.LastUpdatedAt,
		LastUpdatedBy: w.LastUpdatedBy,
	}
}

// ListWorkplacesResponse wraps a list of workplaces.
type ListWorkplacesResponse struct {
	Workplaces []WorkplaceResponse `json:"workplaces"`
}

// ToListWorkplacesResponse converts a slice of domain.Workplace to DTO.
func ToListWorkplacesResponse(ws []domain.Workplace) ListWorkplacesResponse {
	list := make([]WorkplaceResponse, len(ws))
	for i := range ws {
		list[i] = ToWorkplaceResponse(&ws[i])
	}
	return ListWorkplacesResponse{Workplaces: list}
}

// --- User Workplace Membership DTOs ---

// AddUserToWorkplaceRequest defines data for adding a user to a workplace.
type AddUserToWorkplaceRequest struct {
	UserID string                   `json:"userID" binding:"required"`
	Role   domain.UserWorkplaceRole `json:"role" binding:"required,oneof=ADMIN MEMBER READONLY"`
}

// --- Settings DTOs ---

// UpdateWorkplaceSettingsRequest sets the default accounts used for invoice payments.
// An empty string clears a default.
type UpdateWorkplaceSettingsRequest struct {
	DefaultCashDrawerID  *string `json:"defaultCashDrawerID"`
	DefaultBankAccountID *string `json:"defaultBankAccountID"`
}

type WorkplaceSettingsResponse struct {
	WorkplaceID          string    `json:"workplaceID"`
	DefaultCashDrawerID  *string   `json:"defaultCashDrawerID"`
	DefaultBankAccountID *string   `json:"defaultBankAccountID"`
	LastUpdatedAt        time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy        string    `json:"lastUpdatedBy"`
}

func ToWorkplaceSettingsResponse(s *domain.WorkplaceSettings) WorkplaceSettingsResponse {
	return WorkplaceSettingsResponse{
		WorkplaceID:          s.WorkplaceID,
		DefaultCashDrawerID:  s.DefaultCashDrawerID,
		DefaultBankAccountID: s.DefaultBankAccountID,
		LastUpdatedAt:        s.LastUpdatedAt,
		LastUpdatedBy:        s.LastUpdatedBy,
	}
}
