package services

import (
	"context"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for bank accounts and cash drawers
type AccountReaderSvc interface {
	// GetAccount retrieves one account of a workplace.
	GetAccount(ctx context.Context, workplaceID string, ref domain.AccountRef, userID string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts of one kind.
	ListAccounts(ctx context.Context, workplaceID string, kind domain.AccountKind, limit int, offset int, userID string) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateBankAccount opens a bank account with its opening balance.
	CreateBankAccount(ctx context.Context, workplaceID string, req dto.CreateBankAccountRequest, userID string) (*domain.Account, error)

	// CreateCashDrawer opens a cash drawer with its opening balance.
	CreateCashDrawer(ctx context.Context, workplaceID string, req dto.CreateCashDrawerRequest, userID string) (*domain.Account, error)

	// UpdateAccount updates descriptive fields. The balance is not writable here.
	UpdateAccount(ctx context.Context, workplaceID string, ref domain.AccountRef, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
