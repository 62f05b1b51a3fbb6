package services_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type invoiceKey struct {
	kind domain.InvoiceKind
	id   string
}

type ledgerState struct {
	accounts       map[domain.AccountRef]domain.Account
	counterparties map[domain.CounterpartyRef]domain.Counterparty
	invoices       map[invoiceKey]domain.Invoice
	transactions   map[string]domain.Transaction
	allocations    []domain.Allocation
	settings       domain.WorkplaceSettings
}

func (s ledgerState) clone() ledgerState {
	out := ledgerState{
		accounts:       make(map[domain.AccountRef]domain.Account, len(s.accounts)),
		counterparties: make(map[domain.CounterpartyRef]domain.Counterparty, len(s.counterparties)),
		invoices:       make(map[invoiceKey]domain.Invoice, len(s.invoices)),
		transactions:   make(map[string]domain.Transaction, len(s.transactions)),
		allocations:    append([]domain.Allocation(nil), s.allocations...),
		settings:       s.settings,
	}
	for k, v := range s.accounts {
		out.accounts[k] = v
	}
	for k, v := range s.counterparties {
		out.counterparties[k] = v
	}
	for k, v := range s.invoices {
		out.invoices[k] = v
	}
	for k, v := range s.transactions {
		out.transactions[k] = v
	}
	return out
}

// memLedger is an in-memory store for a single workplace. Begin snapshots the
// state and Rollback restores it, so tests can observe atomicity.
type memLedger struct {
	ledgerState
	snapshot *ledgerState

	types   []domain.TransactionType
	methods []domain.PaymentMethod

	// failOn makes the named method return the error.
	failOn map[string]error

	begins, commits, rollbacks int
	lockedAccounts             [][]domain.AccountRef
}

var (
	_ portsrepo.TransactionManager             = (*memLedger)(nil)
	_ portsrepo.AccountTransactionSupport      = (*memLedger)(nil)
	_ portsrepo.CounterpartyTransactionSupport = (*memLedger)(nil)
	_ portsrepo.InvoiceTransactionSupport      = (*memLedger)(nil)
	_ portsrepo.TransactionTransactionSupport  = (*memLedger)(nil)
	_ portsrepo.AllocationTransactionSupport   = (*memLedger)(nil)
	_ portsrepo.ReferenceDataReader            = (*memLedger)(nil)
	_ portsrepo.WorkplaceSettingsStore         = (*memLedger)(nil)
)

func newMemLedger(workplaceID string) *memLedger {
	return &memLedger{
		ledgerState: ledgerState{
			accounts:       map[domain.AccountRef]domain.Account{},
			counterparties: map[domain.CounterpartyRef]domain.Counterparty{},
			invoices:       map[invoiceKey]domain.Invoice{},
			transactions:   map[string]domain.Transaction{},
			settings:       domain.WorkplaceSettings{WorkplaceID: workplaceID},
		},
		types: []domain.TransactionType{
			{TypeID: "tt-cust", Code: domain.TypeCodeCustomerPayment, Name: "Customer Payment", FlowDirection: domain.FlowIn},
			{TypeID: "tt-supp", Code: domain.TypeCodeSupplierPayment, Name: "Supplier Payment", FlowDirection: domain.FlowOut},
			{TypeID: "tt-xfer", Code: domain.TypeCodeInternalTransfer, Name: "Internal Transfer", FlowDirection: domain.FlowTransfer},
			{TypeID: "tt-exp", Code: domain.TypeCodeGeneralExpense, Name: "General Expense", FlowDirection: domain.FlowOut},
		},
		methods: []domain.PaymentMethod{
			{MethodID: "pm-cash", Code: "cash", Name: "Cash", Category: domain.PaymentCategoryCash},
			{MethodID: "pm-bank", Code: "bank_transfer", Name: "Bank Transfer", Category: domain.PaymentCategoryBank},
		},
		failOn: map[string]error{},
	}
}

func (m *memLedger) fail(method string) error {
	return m.failOn[method]
}

// --- seeding and inspection ---

func (m *memLedger) addAccount(kind domain.AccountKind, id string, balance string) domain.AccountRef {
	ref := domain.AccountRef{Kind: kind, ID: id}
	m.accounts[ref] = domain.Account{AccountID: id, Kind: kind, Name: id, Balance: decimal.RequireFromString(balance), IsActive: true}
	return ref
}

func (m *memLedger) addCounterparty(kind domain.CounterpartyKind, id string, creditLimit string) domain.CounterpartyRef {
	ref := domain.CounterpartyRef{Kind: kind, ID: id}
	m.counterparties[ref] = domain.Counterparty{CounterpartyID: id, Kind: kind, Name: id, CreditLimit: decimal.RequireFromString(creditLimit), IsActive: true}
	return ref
}

func (m *memLedger) balance(ref domain.AccountRef) decimal.Decimal {
	return m.accounts[ref].Balance
}

func (m *memLedger) counterparty(ref domain.CounterpartyRef) domain.Counterparty {
	return m.counterparties[ref]
}

func (m *memLedger) invoice(kind domain.InvoiceKind, id string) domain.Invoice {
	return m.invoices[invoiceKey{kind, id}]
}

func (m *memLedger) activeAllocations(transactionID string) []domain.Allocation {
	var out []domain.Allocation
	for _, a := range m.allocations {
		if a.TransactionID == transactionID && !a.IsVoid() {
			out = append(out, a)
		}
	}
	return out
}

// --- TransactionManager ---

func (m *memLedger) Begin(ctx context.Context) (pgx.Tx, error) {
	if err := m.fail("Begin"); err != nil {
		return nil, err
	}
	m.begins++
	snap := m.ledgerState.clone()
	m.snapshot = &snap
	return fakeTx{}, nil
}

func (m *memLedger) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := m.fail("Commit"); err != nil {
		return err
	}
	m.commits++
	m.snapshot = nil
	return nil
}

func (m *memLedger) Rollback(ctx context.Context, tx pgx.Tx) error {
	m.rollbacks++
	if m.snapshot != nil {
		m.ledgerState = *m.snapshot
		m.snapshot = nil
	}
	return nil
}

// --- accounts ---

func (m *memLedger) LockAccountsForUpdate(ctx context.Context, tx pgx.Tx, workplaceID string, refs []domain.AccountRef) (map[domain.AccountRef]domain.Account, error) {
	m.lockedAccounts = append(m.lockedAccounts, append([]domain.AccountRef(nil), refs...))
	out := make(map[domain.AccountRef]domain.Account, len(refs))
	for _, ref := range refs {
		a, ok := m.accounts[ref]
		if !ok {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrNotFound, ref)
		}
		out[ref] = a
	}
	return out, nil
}

func (m *memLedger) ApplyBalanceDeltaInTx(ctx context.Context, tx pgx.Tx, workplaceID string, ref domain.AccountRef, delta decimal.Decimal, userID string, now time.Time) (decimal.Decimal, error) {
	if err := m.fail("ApplyBalanceDeltaInTx"); err != nil {
		return decimal.Zero, err
	}
	a, ok := m.accounts[ref]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", apperrors.ErrNotFound, ref)
	}
	a.Balance = a.Balance.Add(delta)
	a.Touch(userID, now)
	m.accounts[ref] = a
	return a.Balance, nil
}

// --- counterparties ---

func (m *memLedger) FindCounterpartyInTx(ctx context.Context, tx pgx.Tx, workplaceID string, ref domain.CounterpartyRef) (*domain.Counterparty, error) {
	return m.FindCounterpartyForUpdate(ctx, tx, workplaceID, ref)
}

func (m *memLedger) FindCounterpartyForUpdate(ctx context.Context, tx pgx.Tx, workplaceID string, ref domain.CounterpartyRef) (*domain.Counterparty, error) {
	cp, ok := m.counterparties[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, ref.Kind, ref.ID)
	}
	return &cp, nil
}

func (m *memLedger) ApplyOutstandingDeltaInTx(ctx context.Context, tx pgx.Tx, workplaceID string, ref domain.CounterpartyRef, delta decimal.Decimal, userID string, now time.Time) error {
	if err := m.fail("ApplyOutstandingDeltaInTx"); err != nil {
		return err
	}
	cp, ok := m.counterparties[ref]
	if !ok {
		return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, ref.Kind, ref.ID)
	}
	cp.OutstandingBalance = decimal.Max(decimal.Zero, cp.OutstandingBalance.Add(delta))
	m.counterparties[ref] = cp
	return nil
}

func (m *memLedger) ApplyCreditDeltaInTx(ctx context.Context, tx pgx.Tx, workplaceID string, ref domain.CounterpartyRef, delta decimal.Decimal, userID string, now time.Time) error {
	cp, ok := m.counterparties[ref]
	if !ok {
		return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, ref.Kind, ref.ID)
	}
	cp.CreditBalance = cp.CreditBalance.Add(delta)
	m.counterparties[ref] = cp
	return nil
}

// --- invoices ---

func (m *memLedger) SaveInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	if err := m.fail("SaveInvoiceInTx"); err != nil {
		return err
	}
	key := invoiceKey{invoice.Kind, invoice.InvoiceID}
	if _, exists := m.invoices[key]; exists {
		return apperrors.ErrDuplicate
	}
	m.invoices[key] = invoice
	return nil
}

func (m *memLedger) FindInvoiceForUpdate(ctx context.Context, tx pgx.Tx, workplaceID string, kind domain.InvoiceKind, invoiceID string) (*domain.Invoice, error) {
	inv, ok := m.invoices[invoiceKey{kind, invoiceID}]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, kind, invoiceID)
	}
	return &inv, nil
}

func (m *memLedger) UpdateInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	if err := m.fail("UpdateInvoiceInTx"); err != nil {
		return err
	}
	m.invoices[invoiceKey{invoice.Kind, invoice.InvoiceID}] = invoice
	return nil
}

func (m *memLedger) DeleteInvoiceInTx(ctx context.Context, tx pgx.Tx, workplaceID string, kind domain.InvoiceKind, invoiceID string) error {
	delete(m.invoices, invoiceKey{kind, invoiceID})
	return nil
}

// --- transactions ---

func (m *memLedger) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	if err := m.fail("SaveTransactionInTx"); err != nil {
		return err
	}
	m.transactions[txn.TransactionID] = txn
	return nil
}

func (m *memLedger) FindTransactionForUpdate(ctx context.Context, tx pgx.Tx, workplaceID string, transactionID string) (*domain.Transaction, error) {
	txn, ok := m.transactions[transactionID]
	if !ok {
		return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return &txn, nil
}

func (m *memLedger) UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	m.transactions[txn.TransactionID] = txn
	return nil
}

func (m *memLedger) VoidTransactionInTx(ctx context.Context, tx pgx.Tx, workplaceID string, transactionID string, userID string, now time.Time) error {
	if err := m.fail("VoidTransactionInTx"); err != nil {
		return err
	}
	txn, ok := m.transactions[transactionID]
	if !ok || txn.IsVoid() {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	txn.Status = domain.TransactionVoid
	txn.VoidedAt = &now
	txn.VoidedBy = &userID
	m.transactions[transactionID] = txn
	return nil
}

// --- allocations ---

func (m *memLedger) SaveAllocationsInTx(ctx context.Context, tx pgx.Tx, allocations []domain.Allocation) error {
	if err := m.fail("SaveAllocationsInTx"); err != nil {
		return err
	}
	m.allocations = append(m.allocations, allocations...)
	return nil
}

func (m *memLedger) ListAllocationsByTransactionInTx(ctx context.Context, tx pgx.Tx, workplaceID string, transactionID string) ([]domain.Allocation, error) {
	out := m.activeAllocations(transactionID)
	sort.Slice(out, func(i, j int) bool { return out[i].Target.String() < out[j].Target.String() })
	return out, nil
}

func (m *memLedger) CountActiveAllocationsForTargetInTx(ctx context.Context, tx pgx.Tx, workplaceID string, target domain.AllocationTarget) (int, error) {
	n := 0
	for _, a := range m.allocations {
		if a.Target == target && !a.IsVoid() {
			n++
		}
	}
	return n, nil
}

func (m *memLedger) VoidAllocationsByTransactionInTx(ctx context.Context, tx pgx.Tx, workplaceID string, transactionID string, userID string, now time.Time) error {
	for i := range m.allocations {
		if m.allocations[i].TransactionID == transactionID && !m.allocations[i].IsVoid() {
			voided := now
			m.allocations[i].VoidedAt = &voided
		}
	}
	return nil
}

// --- reference data and settings ---

func (m *memLedger) ListTransactionTypes(ctx context.Context) ([]domain.TransactionType, error) {
	return m.types, nil
}

func (m *memLedger) FindTransactionTypeByID(ctx context.Context, typeID string) (*domain.TransactionType, error) {
	for _, t := range m.types {
		if t.TypeID == typeID {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: transaction type %s", apperrors.ErrNotFound, typeID)
}

func (m *memLedger) FindTransactionTypeByCode(ctx context.Context, code string) (*domain.TransactionType, error) {
	for _, t := range m.types {
		if t.Code == code {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: transaction type %s", apperrors.ErrNotFound, code)
}

func (m *memLedger) ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	return m.methods, nil
}

func (m *memLedger) FindPaymentMethodByID(ctx context.Context, methodID string) (*domain.PaymentMethod, error) {
	for _, pm := range m.methods {
		if pm.MethodID == methodID {
			return &pm, nil
		}
	}
	return nil, fmt.Errorf("%w: payment method %s", apperrors.ErrNotFound, methodID)
}

func (m *memLedger) FindSettings(ctx context.Context, workplaceID string) (*domain.WorkplaceSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *memLedger) SaveSettings(ctx context.Context, settings domain.WorkplaceSettings) error {
	m.settings = settings
	return nil
}
