package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/google/uuid"
)

// workplaceService handles workplaces, memberships and reconciliation settings.
type workplaceService struct {
	BaseService
	workplaceRepo portsrepo.WorkplaceRepositoryFacade
	accountRepo   portsrepo.AccountReader
}

// NewWorkplaceService creates a new workplace service.
func NewWorkplaceService(wr portsrepo.WorkplaceRepositoryFacade, ar portsrepo.AccountReader) portssvc.WorkplaceSvcFacade {
	svc := &workplaceService{
		workplaceRepo: wr,
		accountRepo:   ar,
	}
	// The workplace service is its own authorizer.
	svc.WorkplaceAuthorizer = svc
	return svc
}

// CreateWorkplace creates a new workplace and makes the creator the initial admin.
func (s *workplaceService) CreateWorkplace(ctx context.Context, name, description, creatorUserID string) (*domain.Workplace, error) {
	now := s.now()
	workplace := domain.Workplace{
		WorkplaceID: uuid.NewString(),
		Name:        name,
		Description: description,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(creatorUserID, now),
	}
	admin := domain.UserWorkplace{
		UserID:      creatorUserID,
		WorkplaceID: workplace.WorkplaceID,
		Role:        domain.RoleAdmin,
		JoinedAt:    now,
	}

	if err := s.workplaceRepo.SaveWorkplace(ctx, workplace, admin); err != nil {
		s.LogError(ctx, err, "Failed to save workplace", slog.String("workplace_name", name))
		return nil, fmt.Errorf("failed to create workplace: %w", err)
	}

	s.LogInfo(ctx, "Workplace created successfully", slog.String("workplace_id", workplace.WorkplaceID), slog.String("creator_user_id", creatorUserID))
	return &workplace, nil
}

// AddUserToWorkplace adds a user to a workplace with a specific role.
func (s *workplaceService) AddUserToWorkplace(ctx context.Context, addingUserID, targetUserID, workplaceID string, role domain.UserWorkplaceRole) error {
	if err := s.AuthorizeUserAction(ctx, addingUserID, workplaceID, domain.RoleAdmin); err != nil {
		return err
	}

	membership := domain.UserWorkplace{
		UserID:      targetUserID,
		WorkplaceID: workplaceID,
		Role:        role,
		JoinedAt:    s.now(),
	}
	if err := s.workplaceRepo.AddUserToWorkplace(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to add user to workplace", slog.String("target_user_id", targetUserID), slog.String("workplace_id", workplaceID))
		return fmt.Errorf("failed to add user %s to workplace %s: %w", targetUserID, workplaceID, err)
	}

	s.LogInfo(ctx, "User added to workplace", slog.String("target_user_id", targetUserID), slog.String("workplace_id", workplaceID), slog.String("role", string(role)))
	return nil
}

// ListUserWorkplaces retrieves the list of workplaces a given user belongs to.
func (s *workplaceService) ListUserWorkplaces(ctx context.Context, userID string) ([]domain.Workplace, error) {
	workplaces, err := s.workplaceRepo.ListWorkplacesByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list workplaces for user", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list workplaces for user %s: %w", userID, err)
	}
	if workplaces == nil {
		return []domain.Workplace{}, nil
	}
	return workplaces, nil
}

func (s *workplaceService) FindWorkplaceByID(ctx context.Context, workplaceID string) (*domain.Workplace, error) {
	workplace, err := s.workplaceRepo.FindWorkplaceByID(ctx, workplaceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find workplace", slog.String("workplace_id", workplaceID))
		}
		return nil, err
	}
	return workplace, nil
}

// GetSettings returns the default accounts used for invoice payments.
func (s *workplaceService) GetSettings(ctx context.Context, workplaceID string, userID string) (*domain.WorkplaceSettings, error) {
	if err := s.AuthorizeUserAction(ctx, userID, workplaceID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.workplaceRepo.FindSettings(ctx, workplaceID)
}

// UpdateSettings changes the default accounts. Each referenced account must
// exist in the workplace.
func (s *workplaceService) UpdateSettings(ctx context.Context, workplaceID string, req dto.UpdateWorkplaceSettingsRequest, userID string) (*domain.WorkplaceSettings, error) {
	if err := s.AuthorizeUserAction(ctx, userID, workplaceID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	settings, err := s.workplaceRepo.FindSettings(ctx, workplaceID)
	if err != nil {
		return nil, err
	}

	if req.DefaultCashDrawerID != nil {
		if settings.DefaultCashDrawerID, err = s.resolveDefault(ctx, workplaceID, domain.CashDrawer, *req.DefaultCashDrawerID); err != nil {
			return nil, err
		}
	}
	if req.DefaultBankAccountID != nil {
		if settings.DefaultBankAccountID, err = s.resolveDefault(ctx, workplaceID, domain.BankAccount, *req.DefaultBankAccountID); err != nil {
			return nil, err
		}
	}
	settings.WorkplaceID = workplaceID
	settings.LastUpdatedAt = s.now()
	settings.LastUpdatedBy = userID

	if err := s.workplaceRepo.SaveSettings(ctx, *settings); err != nil {
		s.LogError(ctx, err, "Failed to save workplace settings", slog.String("workplace_id", workplaceID))
		return nil, fmt.Errorf("failed to save workplace settings: %w", err)
	}
	s.LogInfo(ctx, "Workplace settings updated", slog.String("workplace_id", workplaceID))
	return settings, nil
}

// resolveDefault returns nil for an empty id and otherwise checks the account exists.
func (s *workplaceService) resolveDefault(ctx context.Context, workplaceID string, kind domain.AccountKind, id string) (*string, error) {
	if id == "" {
		return nil, nil
	}
	if _, err := s.accountRepo.FindAccountByID(ctx, workplaceID, domain.AccountRef{Kind: kind, ID: id}); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s %s does not exist in this workplace", apperrors.ErrValidation, kind, id)
		}
		return nil, err
	}
	return &id, nil
}

// AuthorizeUserAction checks if a user has the required role (or higher) within a workplace.
// Returns apperrors.ErrNotFound if the user is not a member, so workplace
// existence is not revealed. Returns apperrors.ErrForbidden if the role is too low.
func (s *workplaceService) AuthorizeUserAction(ctx context.Context, userID, workplaceID string, requiredRole domain.UserWorkplaceRole) error {
	membership, err := s.workplaceRepo.FindUserWorkplaceRole(ctx, userID, workplaceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.GetLogger(ctx).Warn("Authorization failed: user is not a member of the workplace", slog.String("user_id", userID), slog.String("workplace_id", workplaceID))
			return fmt.Errorf("%w: workplace %s", apperrors.ErrNotFound, workplaceID)
		}
		s.LogError(ctx, err, "Failed to check user workplace role", slog.String("user_id", userID), slog.String("workplace_id", workplaceID))
		return fmt.Errorf("failed to check authorization: %w", err)
	}

	if membership.Role == domain.RoleRemoved {
		return fmt.Errorf("%w: workplace %s", apperrors.ErrNotFound, workplaceID)
	}
	if membership.Role.Satisfies(requiredRole) {
		return nil
	}

	s.GetLogger(ctx).Warn("Authorization failed: user lacks required role",
		slog.String("user_id", userID),
		slog.String("workplace_id", workplaceID),
		slog.String("user_role", string(membership.Role)),
		slog.String("required_role", string(requiredRole)))
	return apperrors.ErrForbidden
}
