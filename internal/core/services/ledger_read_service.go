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
)

// ledgerReadService serves invoice and transaction reads. Invoice status is
// re-derived against the current date without writing it back.
type ledgerReadService struct {
	BaseService
	invoiceRepo     portsrepo.InvoiceReader
	transactionRepo portsrepo.TransactionReader
	allocationRepo  portsrepo.AllocationReader
}

// NewLedgerReadService creates the read side of the ledger.
func NewLedgerReadService(
	invoices portsrepo.InvoiceReader,
	transactions portsrepo.TransactionReader,
	allocations portsrepo.AllocationReader,
	authorizer portssvc.WorkplaceAuthorizerSvc,
) *ledgerReadService {
	return &ledgerReadService{
		BaseService:     BaseService{WorkplaceAuthorizer: authorizer},
		invoiceRepo:     invoices,
		transactionRepo: transactions,
		allocationRepo:  allocations,
	}
}

var (
	_ portssvc.InvoiceReaderSvc     = (*ledgerReadService)(nil)
	_ portssvc.TransactionReaderSvc = (*ledgerReadService)(nil)
)

func (s *ledgerReadService) GetInvoice(ctx context.Context, workplaceID string, kind domain.InvoiceKind, invoiceID string, userID string) (*domain.Invoice, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, workplaceID, kind, invoiceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get invoice", slog.String("invoice_id", invoiceID))
		}
		return nil, err
	}
	effective := inv.EffectiveAt(s.now())
	return &effective, nil
}

func (s *ledgerReadService) ListInvoices(ctx context.Context, workplaceID string, kind domain.InvoiceKind, params dto.ListInvoicesParams, userID string) ([]domain.Invoice, *string, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleReadOnly); err != nil {
		return nil, nil, err
	}

	now := s.now()
	filter := portsrepo.InvoiceFilter{
		CounterpartyID: params.CounterpartyID,
		Limit:          params.Limit,
		NextToken:      params.NextToken,
		AsOf:           now,
	}
	if params.Status != nil && *params.Status != "" {
		status := domain.InvoiceStatus(*params.Status)
		filter.Status = &status
	}

	invoices, next, err := s.invoiceRepo.ListInvoices(ctx, workplaceID, kind, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices", slog.String("workplace_id", workplaceID), slog.String("kind", string(kind)))
		return nil, nil, err
	}
	out := make([]domain.Invoice, len(invoices))
	for i, inv := range invoices {
		out[i] = inv.EffectiveAt(now)
	}
	return out, next, nil
}

func (s *ledgerReadService) ListInvoiceAllocations(ctx context.Context, workplaceID string, target domain.AllocationTarget, userID string) ([]domain.Allocation, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	if _, err := s.invoiceRepo.FindInvoiceByID(ctx, workplaceID, target.Kind, target.ID); err != nil {
		return nil, err
	}
	allocs, err := s.allocationRepo.ListAllocationsByTarget(ctx, workplaceID, target)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations for %s: %w", target, err)
	}
	if allocs == nil {
		return []domain.Allocation{}, nil
	}
	return allocs, nil
}

func (s *ledgerReadService) GetTransaction(ctx context.Context, workplaceID string, transactionID string, userID string) (*domain.Transaction, []domain.Allocation, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleReadOnly); err != nil {
		return nil, nil, err
	}
	txn, err := s.transactionRepo.FindTransactionByID(ctx, workplaceID, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get transaction", slog.String("transaction_id", transactionID))
		}
		return nil, nil, err
	}
	allocs, err := s.allocationRepo.ListAllocationsByTransaction(ctx, workplaceID, transactionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load allocations: %w", err)
	}
	return txn, allocs, nil
}

func (s *ledgerReadService) ListTransactions(ctx context.Context, workplaceID string, params dto.ListTransactionsParams, userID string) ([]domain.Transaction, *string, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleReadOnly); err != nil {
		return nil, nil, err
	}
	txns, next, err := s.transactionRepo.ListTransactions(ctx, workplaceID, portsrepo.TransactionFilter{
		IncludeVoid: params.IncludeVoid,
		Limit:       params.Limit,
		NextToken:   params.NextToken,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("workplace_id", workplaceID))
		return nil, nil, err
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	return txns, next, nil
}

func (s *ledgerReadService) ListTransactionAllocations(ctx context.Context, workplaceID string, transactionID string, userID string) ([]domain.Allocation, error) {
	_, allocs, err := s.GetTransaction(ctx, workplaceID, transactionID, userID)
	if err != nil {
		return nil, err
	}
	if allocs == nil {
		return []domain.Allocation{}, nil
	}
	return allocs, nil
}

// referenceService exposes seeded reference data. It needs no authorization.
type referenceService struct {
	BaseService
	referenceRepo portsrepo.ReferenceDataReader
}

// NewReferenceService creates the reference data service.
func NewReferenceService(repo portsrepo.ReferenceDataReader) portssvc.ReferenceDataSvc {
	return &referenceService{referenceRepo: repo}
}

func (s *referenceService) ListTransactionTypes(ctx context.Context) ([]domain.TransactionType, error) {
	types, err := s.referenceRepo.ListTransactionTypes(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transaction types")
		return nil, err
	}
	return types, nil
}

func (s *referenceService) ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	methods, err := s.referenceRepo.ListPaymentMethods(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payment methods")
		return nil, err
	}
	return methods, nil
}
