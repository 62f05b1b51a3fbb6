package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/SscSPs/backoffice_ledger/internal/platform/analytics"
	"github.com/SscSPs/backoffice_ledger/internal/platform/config"
	"github.com/SscSPs/backoffice_ledger/internal/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Step names reported with errors raised inside a unit of work.
const (
	stepResolvePaymentMethod = "resolve payment method"
	stepResolveType          = "resolve transaction type"
	stepResolveAccount       = "resolve default account"
	stepLockCounterparty     = "lock counterparty"
	stepResolveCounterparty  = "resolve counterparty"
	stepCreateInvoice        = "create invoice"
	stepLoadInvoice          = "load invoice"
	stepUpdateInvoice        = "update invoice"
	stepDeleteInvoice        = "delete invoice"
	stepAdjustOutstanding    = "adjust counterparty outstanding"
	stepAdjustCredit         = "adjust counterparty credit"
	stepPostTransaction      = "post transaction"
	stepLoadTransaction      = "load transaction"
	stepRepostTransaction    = "repost transaction"
	stepReverseTransaction   = "reverse transaction"
	stepApplyAllocation      = "apply allocation"
	stepUnapplyAllocation    = "unapply allocation"
	stepSaveAllocations      = "save allocations"
	stepVoidAllocations      = "void allocations"
	stepVoidTransaction      = "void transaction"
)

// ReconciliationDeps are the stores the coordinator writes through. Every
// write happens on the pgx.Tx of the current unit of work.
type ReconciliationDeps struct {
	TxManager      portsrepo.TransactionManager
	Accounts       portsrepo.AccountTransactionSupport
	Counterparties portsrepo.CounterpartyTransactionSupport
	Invoices       portsrepo.InvoiceTransactionSupport
	Transactions   portsrepo.TransactionTransactionSupport
	Allocations    portsrepo.AllocationTransactionSupport
	Reference      portsrepo.ReferenceDataReader
	Settings       portsrepo.WorkplaceSettingsStore
}

// reconciliationService keeps invoice, counterparty and account balances
// consistent. Each public method is one atomic unit of work.
type reconciliationService struct {
	BaseService
	ReconciliationDeps
	policy  config.OverpaymentPolicy
	tracker analytics.Tracker
}

// ReconciliationOption is a functional option for configuring the coordinator
type ReconciliationOption func(*reconciliationService)

// WithOverpaymentPolicy selects clamp-and-credit or reject.
func WithOverpaymentPolicy(p config.OverpaymentPolicy) ReconciliationOption {
	return func(s *reconciliationService) {
		s.policy = p
	}
}

// WithTracker sends reconciliation events to an analytics sink.
func WithTracker(t analytics.Tracker) ReconciliationOption {
	return func(s *reconciliationService) {
		if t != nil {
			s.tracker = t
		}
	}
}

// WithReconciliationAuthorizer adds workplace authorizer dependency
func WithReconciliationAuthorizer(authorizer portssvc.WorkplaceAuthorizerSvc) ReconciliationOption {
	return func(s *reconciliationService) {
		s.WorkplaceAuthorizer = authorizer
	}
}

// WithClock pins the time used for audit fields and the overdue overlay.
func WithClock(now func() time.Time) ReconciliationOption {
	return func(s *reconciliationService) {
		s.Now = now
	}
}

// NewReconciliationService creates the reconciliation coordinator.
func NewReconciliationService(deps ReconciliationDeps, options ...ReconciliationOption) portssvc.ReconciliationSvcFacade {
	svc := &reconciliationService{
		ReconciliationDeps: deps,
		policy:             config.OverpaymentCredit,
		tracker:            analytics.Noop{},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// CreateInvoiceWithPayment creates the invoice, raises the counterparty's
// outstanding balance by the unpaid part and, when a paid amount is given,
// posts the payment to the workplace's default account for the payment
// method's category and links it with an allocation.
func (s *reconciliationService) CreateInvoiceWithPayment(ctx context.Context, workplaceID string, kind domain.InvoiceKind, req dto.CreateInvoiceRequest, userID string) (*domain.InvoiceWithPayment, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleMember); err != nil {
		return nil, err
	}

	issueDate, err := dto.ParseDate("issueDate", req.IssueDate)
	if err != nil {
		return nil, err
	}
	dueDate, err := dto.ParseDate("dueDate", req.DueDate)
	if err != nil {
		return nil, err
	}
	if dueDate.Before(issueDate) {
		return nil, fmt.Errorf("%w: due date cannot be before issue date", apperrors.ErrValidation)
	}
	if req.TotalAmount.IsNegative() || req.PaidAmount.IsNegative() {
		return nil, fmt.Errorf("%w: amounts cannot be negative", apperrors.ErrValidation)
	}
	if req.PaidAmount.GreaterThan(req.TotalAmount) && s.policy == config.OverpaymentReject {
		return nil, fmt.Errorf("%w: paid %s exceeds total %s", apperrors.ErrOverpayment,
			utils.FormatMoney(req.PaidAmount), utils.FormatMoney(req.TotalAmount))
	}

	now := s.now()
	invoice := domain.Invoice{
		InvoiceID:      uuid.NewString(),
		WorkplaceID:    workplaceID,
		Kind:           kind,
		InvoiceNumber:  req.InvoiceNumber,
		CounterpartyID: req.CounterpartyID,
		IssueDate:      issueDate,
		DueDate:        dueDate,
		TotalAmount:    req.TotalAmount,
		PaidAmount:     req.PaidAmount,
		Notes:          req.Notes,
		AuditFields:    domain.NewAuditFields(userID, now),
	}
	excess := invoice.Recalculate(now)

	// Payment references are resolved before the unit starts so a bad
	// request never opens a transaction.
	var payment *domain.Transaction
	var flow domain.FlowDirection
	if req.PaidAmount.IsPositive() {
		payment, flow, err = s.initialPayment(ctx, invoice, req, excess, userID, now)
		if err != nil {
			return nil, err
		}
	}

	result := &domain.InvoiceWithPayment{}
	err = withinTx(ctx, s.TxManager, func(tx pgx.Tx) error {
		cp, err := s.Counterparties.FindCounterpartyForUpdate(ctx, tx, workplaceID, invoice.CounterpartyRef())
		if err != nil {
			return apperrors.AtStep(stepLockCounterparty, err)
		}
		if err := cp.CheckCreditLimit(invoice.OutstandingContribution()); err != nil {
			return apperrors.AtStep(stepCreateInvoice, err)
		}

		if err := s.Invoices.SaveInvoiceInTx(ctx, tx, invoice); err != nil {
			return apperrors.AtStep(stepCreateInvoice, err)
		}
		if err := s.adjustOutstanding(ctx, tx, workplaceID, invoice.CounterpartyRef(), invoice.OutstandingContribution(), userID, now); err != nil {
			return err
		}

		if payment == nil {
			return nil
		}
		if err := s.postTransaction(ctx, tx, payment, flow, userID, now); err != nil {
			return err
		}
		alloc := domain.Allocation{
			AllocationID:   uuid.NewString(),
			WorkplaceID:    workplaceID,
			TransactionID:  payment.TransactionID,
			Target:         invoice.Target(),
			Amount:         invoice.PaidAmount,
			CreditedAmount: excess,
			Notes:          "Initial payment",
			AuditFields:    domain.NewAuditFields(userID, now),
		}
		if err := s.Allocations.SaveAllocationsInTx(ctx, tx, []domain.Allocation{alloc}); err != nil {
			return apperrors.AtStep(stepSaveAllocations, err)
		}
		if err := s.adjustCredit(ctx, tx, workplaceID, invoice.CounterpartyRef(), excess, userID, now); err != nil {
			return err
		}
		result.Transaction = payment
		result.Allocation = &alloc
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create invoice",
			slog.String("workplace_id", workplaceID),
			slog.String("kind", string(kind)),
			slog.String("invoice_number", req.InvoiceNumber))
		return nil, err
	}

	result.Invoice = invoice
	s.LogInfo(ctx, "Invoice created",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("kind", string(kind)),
		slog.String("status", string(invoice.Status)),
		slog.String("balance", utils.FormatMoney(invoice.Balance)))
	s.track(userID, workplaceID, "invoice_created", map[string]any{
		"kind":        string(kind),
		"total":       utils.FormatMoney(invoice.TotalAmount),
		"paid":        utils.FormatMoney(invoice.PaidAmount),
		"has_payment": payment != nil,
	})
	return result, nil
}

// initialPayment builds the transaction for an invoice's initial payment.
// The full paid amount is posted. Any excess over the total is credited.
func (s *reconciliationService) initialPayment(ctx context.Context, invoice domain.Invoice, req dto.CreateInvoiceRequest, excess decimal.Decimal, userID string, now time.Time) (*domain.Transaction, domain.FlowDirection, error) {
	if req.PaymentMethodID == nil || *req.PaymentMethodID == "" {
		return nil, "", fmt.Errorf("%w: paymentMethodID is required when paidAmount is greater than zero", apperrors.ErrValidation)
	}
	method, err := s.Reference.FindPaymentMethodByID(ctx, *req.PaymentMethodID)
	if err != nil {
		return nil, "", apperrors.AtStep(stepResolvePaymentMethod, err)
	}
	txnType, err := s.Reference.FindTransactionTypeByCode(ctx, invoice.Kind.PaymentTypeCode())
	if err != nil {
		return nil, "", apperrors.AtStep(stepResolveType, err)
	}
	account, err := s.defaultAccount(ctx, invoice.WorkplaceID, method)
	if err != nil {
		return nil, "", err
	}

	cpRef := invoice.CounterpartyRef()
	txn := &domain.Transaction{
		TransactionID:   uuid.NewString(),
		WorkplaceID:     invoice.WorkplaceID,
		ReferenceNumber: invoice.InvoiceNumber,
		TransactionDate: invoice.IssueDate,
		TransactionTime: now.Format("15:04"),
		TypeID:          txnType.TypeID,
		PaymentMethodID: method.MethodID,
		Amount:          invoice.PaidAmount.Add(excess),
		Account:         &account,
		Counterparty:    &cpRef,
		Description:     "Payment for invoice " + invoice.InvoiceNumber,
		Status:          domain.TransactionCompleted,
		AuditFields:     domain.NewAuditFields(userID, now),
	}
	return txn, txnType.FlowDirection, nil
}

// defaultAccount resolves the configured account for the method's category.
func (s *reconciliationService) defaultAccount(ctx context.Context, workplaceID string, method *domain.PaymentMethod) (domain.AccountRef, error) {
	settings, err := s.Settings.FindSettings(ctx, workplaceID)
	if err != nil {
		return domain.AccountRef{}, apperrors.AtStep(stepResolveAccount, err)
	}
	ref, ok := settings.DefaultAccountFor(method.Category)
	if !ok {
		return domain.AccountRef{}, apperrors.AtStep(stepResolveAccount,
			fmt.Errorf("%w: no default %s account configured for this workplace", apperrors.ErrNotFound, method.Category))
	}
	return ref, nil
}

// UpdateInvoice recomputes the invoice and moves the counterparty's
// outstanding balance by exactly the change in the invoice balance.
func (s *reconciliationService) UpdateInvoice(ctx context.Context, workplaceID string, kind domain.InvoiceKind, invoiceID string, req dto.UpdateInvoiceRequest, userID string) (*domain.Invoice, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleMember); err != nil {
		return nil, err
	}

	var issueDate, dueDate *time.Time
	if req.IssueDate != nil {
		d, err := dto.ParseDate("issueDate", *req.IssueDate)
		if err != nil {
			return nil, err
		}
		issueDate = &d
	}
	if req.DueDate != nil {
		d, err := dto.ParseDate("dueDate", *req.DueDate)
		if err != nil {
			return nil, err
		}
		dueDate = &d
	}

	now := s.now()
	var updated domain.Invoice
	err := withinTx(ctx, s.TxManager, func(tx pgx.Tx) error {
		inv, err := s.Invoices.FindInvoiceForUpdate(ctx, tx, workplaceID, kind, invoiceID)
		if err != nil {
			return apperrors.AtStep(stepLoadInvoice, err)
		}
		if inv.Status == domain.StatusCancelled {
			return apperrors.AtStep(stepUpdateInvoice, fmt.Errorf("%w: invoice %s is cancelled", apperrors.ErrInvalidState, inv.InvoiceNumber))
		}

		oldRef := inv.CounterpartyRef()
		oldContribution := inv.OutstandingContribution()

		if req.InvoiceNumber != nil {
			inv.InvoiceNumber = *req.InvoiceNumber
		}
		if req.CounterpartyID != nil && *req.CounterpartyID != "" {
			inv.CounterpartyID = *req.CounterpartyID
		}
		if issueDate != nil {
			inv.IssueDate = *issueDate
		}
		if dueDate != nil {
			inv.DueDate = *dueDate
		}
		if inv.DueDate.Before(inv.IssueDate) {
			return fmt.Errorf("%w: due date cannot be before issue date", apperrors.ErrValidation)
		}
		if req.TotalAmount != nil {
			inv.TotalAmount = *req.TotalAmount
		}
		switch {
		case req.PaidAmount != nil:
			inv.PaidAmount = *req.PaidAmount
		case req.Status != nil && domain.InvoiceStatus(*req.Status) == domain.StatusPaid:
			inv.PaidAmount = inv.TotalAmount
		}

		// An edit moves no money, so any excess is clamped and never credited.
		excess := inv.Recalculate(now)
		if excess.IsPositive() && s.policy == config.OverpaymentReject {
			return apperrors.AtStep(stepUpdateInvoice, fmt.Errorf("%w: paid exceeds total by %s", apperrors.ErrOverpayment, utils.FormatMoney(excess)))
		}
		inv.Touch(userID, now)

		newRef := inv.CounterpartyRef()
		newContribution := inv.OutstandingContribution()

		cp, err := s.Counterparties.FindCounterpartyForUpdate(ctx, tx, workplaceID, newRef)
		if err != nil {
			return apperrors.AtStep(stepLockCounterparty, err)
		}
		increase := newContribution
		if newRef == oldRef {
			increase = newContribution.Sub(oldContribution)
		}
		if increase.IsPositive() {
			if err := cp.CheckCreditLimit(increase); err != nil {
				return apperrors.AtStep(stepUpdateInvoice, err)
			}
		}

		if err := s.Invoices.UpdateInvoiceInTx(ctx, tx, *inv); err != nil {
			return apperrors.AtStep(stepUpdateInvoice, err)
		}

		if newRef == oldRef {
			if err := s.adjustOutstanding(ctx, tx, workplaceID, newRef, newContribution.Sub(oldContribution), userID, now); err != nil {
				return err
			}
		} else {
			if err := s.adjustOutstanding(ctx, tx, workplaceID, oldRef, oldContribution.Neg(), userID, now); err != nil {
				return err
			}
			if err := s.adjustOutstanding(ctx, tx, workplaceID, newRef, newContribution, userID, now); err != nil {
				return err
			}
		}
		updated = *inv
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update invoice", slog.String("invoice_id", invoiceID))
		return nil, err
	}

	s.LogInfo(ctx, "Invoice updated",
		slog.String("invoice_id", invoiceID),
		slog.String("status", string(updated.Status)),
		slog.String("balance", utils.FormatMoney(updated.Balance)))
	s.track(userID, workplaceID, "invoice_updated", map[string]any{"kind": string(kind), "status": string(updated.Status)})
	return &updated, nil
}

// DeleteInvoice removes the invoice and its contribution to the counterparty's
// outstanding balance. Invoices with live allocations must have their
// payments deleted first.
func (s *reconciliationService) DeleteInvoice(ctx context.Context, workplaceID string, kind domain.InvoiceKind, invoiceID string, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleMember); err != nil {
		return err
	}

	now := s.now()
	err := withinTx(ctx, s.TxManager, func(tx pgx.Tx) error {
		inv, err := s.Invoices.FindInvoiceForUpdate(ctx, tx, workplaceID, kind, invoiceID)
		if err != nil {
			return apperrors.AtStep(stepLoadInvoice, err)
		}
		n, err := s.Allocations.CountActiveAllocationsForTargetInTx(ctx, tx, workplaceID, inv.Target())
		if err != nil {
			return apperrors.AtStep(stepDeleteInvoice, err)
		}
		if n > 0 {
			return apperrors.AtStep(stepDeleteInvoice,
				fmt.Errorf("%w: invoice %s has %d active payment allocation(s)", apperrors.ErrConflict, inv.InvoiceNumber, n))
		}
		if err := s.adjustOutstanding(ctx, tx, workplaceID, inv.CounterpartyRef(), inv.OutstandingContribution().Neg(), userID, now); err != nil {
			return err
		}
		if err := s.Invoices.DeleteInvoiceInTx(ctx, tx, workplaceID, kind, invoiceID); err != nil {
			return apperrors.AtStep(stepDeleteInvoice, err)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete invoice", slog.String("invoice_id", invoiceID))
		return err
	}

	s.LogInfo(ctx, "Invoice deleted", slog.String("invoice_id", invoiceID), slog.String("kind", string(kind)))
	s.track(userID, workplaceID, "invoice_deleted", map[string]any{"kind": string(kind)})
	return nil
}

// CancelInvoice cancels a non-paid invoice and removes its balance from the
// counterparty's outstanding balance.
func (s *reconciliationService) CancelInvoice(ctx context.Context, workplaceID string, kind domain.InvoiceKind, invoiceID string, userID string) (*domain.Invoice, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleMember); err != nil {
		return nil, err
	}

	now := s.now()
	var cancelled domain.Invoice
	err := withinTx(ctx, s.TxManager, func(tx pgx.Tx) error {
		inv, err := s.Invoices.FindInvoiceForUpdate(ctx, tx, workplaceID, kind, invoiceID)
		if err != nil {
			return apperrors.AtStep(stepLoadInvoice, err)
		}
		// Evaluate the overlay first so a fully paid invoice is never cancelled.
		inv.Recalculate(now)
		before := inv.OutstandingContribution()
		if err := inv.Cancel(); err != nil {
			return apperrors.AtStep(stepUpdateInvoice, err)
		}
		inv.Touch(userID, now)
		if err := s.Invoices.UpdateInvoiceInTx(ctx, tx, *inv); err != nil {
			return apperrors.AtStep(stepUpdateInvoice, err)
		}
		if err := s.adjustOutstanding(ctx, tx, workplaceID, inv.CounterpartyRef(), before.Neg(), userID, now); err != nil {
			return err
		}
		cancelled = *inv
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to cancel invoice", slog.String("invoice_id", invoiceID))
		return nil, err
	}

	s.LogInfo(ctx, "Invoice cancelled", slog.String("invoice_id", invoiceID))
	s.track(userID, workplaceID, "invoice_cancelled", map[string]any{"kind": string(kind)})
	return &cancelled, nil
}

// adjustOutstanding applies a non-zero delta to the counterparty's outstanding balance.
func (s *reconciliationService) adjustOutstanding(ctx context.Context, tx pgx.Tx, workplaceID string, ref domain.CounterpartyRef, delta decimal.Decimal, userID string, now time.Time) error {
	if delta.IsZero() {
		return nil
	}
	return apperrors.AtStep(stepAdjustOutstanding,
		s.Counterparties.ApplyOutstandingDeltaInTx(ctx, tx, workplaceID, ref, delta, userID, now))
}

// adjustCredit applies a non-zero delta to the counterparty's credit balance.
func (s *reconciliationService) adjustCredit(ctx context.Context, tx pgx.Tx, workplaceID string, ref domain.CounterpartyRef, delta decimal.Decimal, userID string, now time.Time) error {
	if delta.IsZero() {
		return nil
	}
	return apperrors.AtStep(stepAdjustCredit,
		s.Counterparties.ApplyCreditDeltaInTx(ctx, tx, workplaceID, ref, delta, userID, now))
}

// applyPostings locks every touched account in ref order, then applies each delta.
func (s *reconciliationService) applyPostings(ctx context.Context, tx pgx.Tx, workplaceID string, postings []domain.Posting, userID string, now time.Time) error {
	if len(postings) == 0 {
		return nil
	}
	sorted := make([]domain.Posting, len(postings))
	copy(sorted, postings)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Account.Less(sorted[j].Account) })

	refs := make([]domain.AccountRef, len(sorted))
	for i, p := range sorted {
		refs[i] = p.Account
	}
	if _, err := s.Accounts.LockAccountsForUpdate(ctx, tx, workplaceID, refs); err != nil {
		return err
	}
	for _, p := range sorted {
		balance, err := s.Accounts.ApplyBalanceDeltaInTx(ctx, tx, workplaceID, p.Account, p.Delta, userID, now)
		if err != nil {
			return err
		}
		s.LogDebug(ctx, "Account balance changed",
			slog.String("account", p.Account.String()),
			slog.String("delta", utils.FormatMoney(p.Delta)),
			slog.String("balance", utils.FormatMoney(balance)))
	}
	return nil
}

// postTransaction inserts txn and applies its postings.
func (s *reconciliationService) postTransaction(ctx context.Context, tx pgx.Tx, txn *domain.Transaction, flow domain.FlowDirection, userID string, now time.Time) error {
	postings, err := txn.Postings(flow)
	if err != nil {
		return apperrors.AtStep(stepPostTransaction, err)
	}
	if err := s.Transactions.SaveTransactionInTx(ctx, tx, *txn); err != nil {
		return apperrors.AtStep(stepPostTransaction, err)
	}
	return apperrors.AtStep(stepPostTransaction, s.applyPostings(ctx, tx, txn.WorkplaceID, postings, userID, now))
}

func (s *reconciliationService) track(userID, workplaceID, event string, props map[string]any) {
	props["workplace_id"] = workplaceID
	s.tracker.Enqueue(userID, event, props)
}
