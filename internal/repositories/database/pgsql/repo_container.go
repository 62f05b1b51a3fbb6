package pgsql

import (
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:        &BaseRepository{Pool: dbPool},
		AccountRepo:      newPgxAccountRepository(dbPool),
		CounterpartyRepo: newPgxCounterpartyRepository(dbPool),
		InvoiceRepo:      newPgxInvoiceRepository(dbPool),
		TransactionRepo:  newPgxTransactionRepository(dbPool),
		AllocationRepo:   newPgxAllocationRepository(dbPool),
		ReferenceRepo:    newPgxReferenceRepository(dbPool),
		WorkplaceRepo:    newPgxWorkplaceRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
	}
}
