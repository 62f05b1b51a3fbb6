package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) CreateBankAccount(ctx context.Context, workplaceID string, req dto.CreateBankAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, workplaceID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) CreateCashDrawer(ctx context.Context, workplaceID string, req dto.CreateCashDrawerRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, workplaceID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccount(ctx context.Context, workplaceID string, ref domain.AccountRef, userID string) (*domain.Account, error) {
	args := m.Called(ctx, workplaceID, ref, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, workplaceID string, kind domain.AccountKind, limit int, offset int, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, workplaceID, kind, limit, offset, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, workplaceID string, ref domain.AccountRef, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, workplaceID, ref, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// --- Mock ReconciliationService ---
type MockReconciliationService struct {
	mock.Mock
}

var _ portssvc.ReconciliationSvcFacade = (*MockReconciliationService)(nil)

func (m *MockReconciliationService) CreateInvoiceWithPayment(ctx context.Context, workplaceID string, kind domain.InvoiceKind, req dto.CreateInvoiceRequest, userID string) (*domain.InvoiceWithPayment, error) {
	args := m.Called(ctx, workplaceID, kind, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceWithPayment), args.Error(1)
}

func (m *MockReconciliationService) UpdateInvoice(ctx context.Context, workplaceID string, kind domain.InvoiceKind, invoiceID string, req dto.UpdateInvoiceRequest, userID string) (*domain.Invoice, error) {
	args := m.Called(ctx, workplaceID, kind, invoiceID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockReconciliationService) DeleteInvoice(ctx context.Context, workplaceID string, kind domain.InvoiceKind, invoiceID string, userID string) error {
	return m.Called(ctx, workplaceID, kind, invoiceID, userID).Error(0)
}

func (m *MockReconciliationService) CancelInvoice(ctx context.Context, workplaceID string, kind domain.InvoiceKind, invoiceID string, userID string) (*domain.Invoice, error) {
	args := m.Called(ctx, workplaceID, kind, invoiceID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockReconciliationService) RecordPayment(ctx context.Context, workplaceID string, req dto.CreateTransactionRequest, userID string) (*domain.RecordedPayment, error) {
	args := m.Called(ctx, workplaceID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecordedPayment), args.Error(1)
}

func (m *MockReconciliationService) UpdateTransaction(ctx context.Context, workplaceID string, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.RecordedPayment, error) {
	args := m.Called(ctx, workplaceID, transactionID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecordedPayment), args.Error(1)
}

func (m *MockReconciliationService) DeleteTransaction(ctx context.Context, workplaceID string, transactionID string, userID string) error {
	return m.Called(ctx, workplaceID, transactionID, userID).Error(0)
}

// --- Mock ledger read side ---
type MockLedgerReadService struct {
	mock.Mock
}

var (
	_ portssvc.InvoiceReaderSvc     = (*MockLedgerReadService)(nil)
	_ portssvc.TransactionReaderSvc = (*MockLedgerReadService)(nil)
)

func (m *MockLedgerReadService) GetInvoice(ctx context.Context, workplaceID string, kind domain.InvoiceKind, invoiceID string, userID string) (*domain.Invoice, error) {
	args := m.Called(ctx, workplaceID, kind, invoiceID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockLedgerReadService) ListInvoices(ctx context.Context, workplaceID string, kind domain.InvoiceKind, params dto.ListInvoicesParams, userID string) ([]domain.Invoice, *string, error) {
	args := m.Called(ctx, workplaceID, kind, params, userID)
	var next *string
	if s, ok := args.Get(1).(*string); ok {
		next = s
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Invoice), next, args.Error(2)
}

func (m *MockLedgerReadService) ListInvoiceAllocations(ctx context.Context, workplaceID string, target domain.AllocationTarget, userID string) ([]domain.Allocation, error) {
	args := m.Called(ctx, workplaceID, target, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Allocation), args.Error(1)
}

func (m *MockLedgerReadService) GetTransaction(ctx context.Context, workplaceID string, transactionID string, userID string) (*domain.Transaction, []domain.Allocation, error) {
	args := m.Called(ctx, workplaceID, transactionID, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	allocs, _ := args.Get(1).([]domain.Allocation)
	return args.Get(0).(*domain.Transaction), allocs, args.Error(2)
}

func (m *MockLedgerReadService) ListTransactions(ctx context.Context, workplaceID string, params dto.ListTransactionsParams, userID string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, workplaceID, params, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), nil, args.Error(2)
}

func (m *MockLedgerReadService) ListTransactionAllocations(ctx context.Context, workplaceID string, transactionID string, userID string) ([]domain.Allocation, error) {
	args := m.Called(ctx, workplaceID, transactionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Allocation), args.Error(1)
}

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) FindOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Mock TokenService ---
type MockTokenService struct {
	mock.Mock
}

var _ portssvc.TokenSvcFacade = (*MockTokenService)(nil)

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}
