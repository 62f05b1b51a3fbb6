package repositories

// RepositoryProvider holds all repository interfaces needed by services.
type RepositoryProvider struct {
	TxManager        TransactionManager
	AccountRepo      AccountRepositoryFacade
	CounterpartyRepo CounterpartyRepositoryFacade
	InvoiceRepo      InvoiceRepositoryFacade
	TransactionRepo  TransactionRepositoryFacade
	AllocationRepo   AllocationRepositoryFacade
	ReferenceRepo    ReferenceDataReader
	WorkplaceRepo    WorkplaceRepositoryFacade
	UserRepo         UserRepositoryFacade
}
