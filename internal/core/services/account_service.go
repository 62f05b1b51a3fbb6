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

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithWorkplaceAuthorizer adds workplace authorizer dependency
func WithWorkplaceAuthorizer(authorizer portssvc.WorkplaceAuthorizerSvc) AccountServiceOption {
	return func(s *accountService) {
		s.WorkplaceAuthorizer = authorizer
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{accountRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

func (s *accountService) CreateBankAccount(ctx context.Context, workplaceID string, req dto.CreateBankAccountRequest, userID string) (*domain.Account, error) {
	account := domain.Account{
		AccountID:     uuid.NewString(),
		WorkplaceID:   workplaceID,
		Kind:          domain.BankAccount,
		Name:          req.AccountName,
		Balance:       req.OpeningBalance,
		IsActive:      true,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		AccountType:   req.AccountType,
	}
	return s.create(ctx, account, userID)
}

func (s *accountService) CreateCashDrawer(ctx context.Context, workplaceID string, req dto.CreateCashDrawerRequest, userID string) (*domain.Account, error) {
	account := domain.Account{
		AccountID:   uuid.NewString(),
		WorkplaceID: workplaceID,
		Kind:        domain.CashDrawer,
		Name:        req.Name,
		Balance:     req.OpeningBalance,
		IsActive:    true,
		Location:    req.Location,
	}
	return s.create(ctx, account, userID)
}

// create persists a new account. The opening balance is the seed every later
// posting is applied to.
func (s *accountService) create(ctx context.Context, account domain.Account, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, account.WorkplaceID, domain.RoleMember); err != nil {
		s.LogError(ctx, err, "User not authorized to create account",
			slog.String("user_id", userID),
			slog.String("workplace_id", account.WorkplaceID))
		return nil, err
	}

	account.AuditFields = domain.NewAuditFields(userID, s.now())
	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("kind", string(account.Kind)),
			slog.String("workplace_id", account.WorkplaceID))
		return nil, fmt.Errorf("failed to create %s: %w", account.Kind, err)
	}

	s.LogInfo(ctx, "Account created",
		slog.String("account", account.Ref().String()),
		slog.String("workplace_id", account.WorkplaceID))
	return &account, nil
}

func (s *accountService) GetAccount(ctx context.Context, workplaceID string, ref domain.AccountRef, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, workplaceID, ref)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get account", slog.String("account", ref.String()))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, workplaceID string, kind domain.AccountKind, limit int, offset int, userID string) ([]domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, workplaceID, kind, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("workplace_id", workplaceID), slog.String("kind", string(kind)))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// UpdateAccount applies the descriptive fields that belong to the account's kind.
func (s *accountService) UpdateAccount(ctx context.Context, workplaceID string, ref domain.AccountRef, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleMember); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, workplaceID, ref)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidation)
		}
		account.Name = *req.Name
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	switch account.Kind {
	case domain.BankAccount:
		if req.BankName != nil {
			account.BankName = *req.BankName
		}
		if req.AccountNumber != nil {
			account.AccountNumber = *req.AccountNumber
		}
		if req.AccountType != nil {
			account.AccountType = *req.AccountType
		}
	case domain.CashDrawer:
		if req.Location != nil {
			account.Location = *req.Location
		}
		if req.LastCountedAt != nil {
			counted := req.LastCountedAt.UTC()
			account.LastCountedAt = &counted
		}
	}
	account.Touch(userID, s.now())

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account", ref.String()))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}
