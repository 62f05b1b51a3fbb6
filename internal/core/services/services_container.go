package services

import (
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/platform/analytics"
	"github.com/SscSPs/backoffice_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, tracker analytics.Tracker) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Workplace first: every other service authorizes through it.
	container.Workplace = NewWorkplaceService(repos.WorkplaceRepo, repos.AccountRepo)
	authorizer := container.Workplace.(portssvc.WorkplaceAuthorizerSvc)

	container.Account = NewAccountService(repos.AccountRepo, WithWorkplaceAuthorizer(authorizer))
	container.Counterparty = NewCounterpartyService(repos.CounterpartyRepo, authorizer)

	reads := NewLedgerReadService(repos.InvoiceRepo, repos.TransactionRepo, repos.AllocationRepo, authorizer)
	container.Invoice = reads
	container.Transaction = reads
	container.Reference = NewReferenceService(repos.ReferenceRepo)

	if tracker == nil {
		tracker = analytics.Noop{}
	}
	container.Reconciliation = NewReconciliationService(
		ReconciliationDeps{
			TxManager:      repos.TxManager,
			Accounts:       repos.AccountRepo,
			Counterparties: repos.CounterpartyRepo,
			Invoices:       repos.InvoiceRepo,
			Transactions:   repos.TransactionRepo,
			Allocations:    repos.AllocationRepo,
			Reference:      repos.ReferenceRepo,
			Settings:       repos.WorkplaceRepo,
		},
		WithReconciliationAuthorizer(authorizer),
		WithOverpaymentPolicy(cfg.OverpaymentPolicy),
		WithTracker(tracker),
	)

	container.User = NewUserService(repos.UserRepo)
	container.TokenService = NewTokenService(cfg)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade            = (*accountService)(nil)
	_ portssvc.CounterpartySvcFacade       = (*counterpartyService)(nil)
	_ portssvc.WorkplaceSvcFacade          = (*workplaceService)(nil)
	_ portssvc.ReconciliationSvcFacade     = (*reconciliationService)(nil)
	_ portssvc.ReferenceDataSvc            = (*referenceService)(nil)
	_ portssvc.UserSvcFacade               = (*userService)(nil)
	_ portssvc.TokenSvcFacade              = (*tokenService)(nil)
	_ portssvc.GoogleOAuthHandlerSvcFacade = (*googleOAuthHandlerService)(nil)
)
