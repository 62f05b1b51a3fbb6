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
	"github.com/shopspring/decimal"
)

// counterpartyService manages customers and suppliers. Balances are owned by
// the reconciliation service and never written here.
type counterpartyService struct {
	BaseService
	counterpartyRepo portsrepo.CounterpartyRepositoryFacade
}

// NewCounterpartyService creates a new counterparty service.
func NewCounterpartyService(repo portsrepo.CounterpartyRepositoryFacade, authorizer portssvc.WorkplaceAuthorizerSvc) portssvc.CounterpartySvcFacade {
	return &counterpartyService{
		BaseService:      BaseService{WorkplaceAuthorizer: authorizer},
		counterpartyRepo: repo,
	}
}

func (s *counterpartyService) CreateCounterparty(ctx context.Context, workplaceID string, kind domain.CounterpartyKind, req dto.CreateCounterpartyRequest, userID string) (*domain.Counterparty, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleMember); err != nil {
		return nil, err
	}
	if err := checkCreditLimit(kind, req.CreditLimit); err != nil {
		return nil, err
	}

	cp := domain.Counterparty{
		CounterpartyID:     uuid.NewString(),
		WorkplaceID:        workplaceID,
		Kind:               kind,
		Name:               req.Name,
		Email:              req.Email,
		Phone:              req.Phone,
		Address:            req.Address,
		OutstandingBalance: decimal.Zero,
		CreditBalance:      decimal.Zero,
		CreditLimit:        req.CreditLimit,
		IsActive:           true,
		AuditFields:        domain.NewAuditFields(userID, s.now()),
	}
	if err := s.counterpartyRepo.SaveCounterparty(ctx, cp); err != nil {
		s.LogError(ctx, err, "Failed to save counterparty", slog.String("kind", string(kind)), slog.String("workplace_id", workplaceID))
		return nil, fmt.Errorf("failed to create %s: %w", kind, err)
	}

	s.LogInfo(ctx, "Counterparty created", slog.String("kind", string(kind)), slog.String("counterparty_id", cp.CounterpartyID))
	return &cp, nil
}

func (s *counterpartyService) GetCounterparty(ctx context.Context, workplaceID string, ref domain.CounterpartyRef, userID string) (*domain.Counterparty, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	cp, err := s.counterpartyRepo.FindCounterpartyByID(ctx, workplaceID, ref)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get counterparty", slog.String("counterparty_id", ref.ID))
		}
		return nil, err
	}
	return cp, nil
}

func (s *counterpartyService) ListCounterparties(ctx context.Context, workplaceID string, kind domain.CounterpartyKind, limit int, offset int, userID string) ([]domain.Counterparty, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	cps, err := s.counterpartyRepo.ListCounterparties(ctx, workplaceID, kind, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list counterparties", slog.String("kind", string(kind)))
		return nil, fmt.Errorf("failed to list %ss: %w", kind, err)
	}
	if cps == nil {
		return []domain.Counterparty{}, nil
	}
	return cps, nil
}

func (s *counterpartyService) UpdateCounterparty(ctx context.Context, workplaceID string, ref domain.CounterpartyRef, req dto.UpdateCounterpartyRequest, userID string) (*domain.Counterparty, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleMember); err != nil {
		return nil, err
	}

	cp, err := s.counterpartyRepo.FindCounterpartyByID(ctx, workplaceID, ref)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidation)
		}
		cp.Name = *req.Name
	}
	if req.Email != nil {
		cp.Email = *req.Email
	}
	if req.Phone != nil {
		cp.Phone = *req.Phone
	}
	if req.Address != nil {
		cp.Address = *req.Address
	}
	if req.CreditLimit != nil {
		if err := checkCreditLimit(cp.Kind, *req.CreditLimit); err != nil {
			return nil, err
		}
		cp.CreditLimit = *req.CreditLimit
	}
	if req.IsActive != nil {
		cp.IsActive = *req.IsActive
	}
	cp.Touch(userID, s.now())

	if err := s.counterpartyRepo.UpdateCounterparty(ctx, *cp); err != nil {
		s.LogError(ctx, err, "Failed to update counterparty", slog.String("counterparty_id", ref.ID))
		return nil, fmt.Errorf("failed to update %s: %w", ref.Kind, err)
	}
	return cp, nil
}

// checkCreditLimit rejects negative limits and any limit on a supplier.
func checkCreditLimit(kind domain.CounterpartyKind, limit decimal.Decimal) error {
	if limit.IsNegative() {
		return fmt.Errorf("%w: credit limit cannot be negative", apperrors.ErrValidation)
	}
	if kind == domain.Supplier && !limit.IsZero() {
		return fmt.Errorf("%w: suppliers do not carry a credit limit", apperrors.ErrValidation)
	}
	return nil
}
