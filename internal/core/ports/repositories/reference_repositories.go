package repositories

import (
	"context"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
)

// ReferenceDataReader reads the seeded transaction types and payment methods.
type ReferenceDataReader interface {
	ListTransactionTypes(ctx context.Context) ([]domain.TransactionType, error)
	FindTransactionTypeByID(ctx context.Context, typeID string) (*domain.TransactionType, error)
	FindTransactionTypeByCode(ctx context.Context, code string) (*domain.TransactionType, error)
	ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error)
	FindPaymentMethodByID(ctx context.Context, methodID string) (*domain.PaymentMethod, error)
}
