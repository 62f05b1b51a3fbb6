package services

import (
	"context"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
)

// CounterpartyReaderSvc defines read operations for customers and suppliers
type CounterpartyReaderSvc interface {
	GetCounterparty(ctx context.Context, workplaceID string, ref domain.CounterpartyRef, userID string) (*domain.Counterparty, error)
	ListCounterparties(ctx context.Context, workplaceID string, kind domain.CounterpartyKind, limit int, offset int, userID string) ([]domain.Counterparty, error)
}

// CounterpartyWriterSvc defines write operations for customers and suppliers
type CounterpartyWriterSvc interface {
	CreateCounterparty(ctx context.Context, workplaceID string, kind domain.CounterpartyKind, req dto.CreateCounterpartyRequest, userID string) (*domain.Counterparty, error)
	UpdateCounterparty(ctx context.Context, workplaceID string, ref domain.CounterpartyRef, req dto.UpdateCounterpartyRequest, userID string) (*domain.Counterparty, error)
}

// CounterpartySvcFacade combines all counterparty-related service interfaces
type CounterpartySvcFacade interface {
	CounterpartyReaderSvc
	CounterpartyWriterSvc
}
