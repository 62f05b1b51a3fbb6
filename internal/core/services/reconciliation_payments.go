package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/SscSPs/backoffice_ledger/internal/platform/config"
	"github.com/SscSPs/backoffice_ledger/internal/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// allocationPlan is a validated allocation request.
type allocationPlan struct {
	target domain.AllocationTarget
	amount decimal.Decimal
	notes  string
}

// RecordPayment posts a transaction and settles the requested invoices with it.
func (s *reconciliationService) RecordPayment(ctx context.Context, workplaceID string, req dto.CreateTransactionRequest, userID string) (*domain.RecordedPayment, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleMember); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}

	date, err := dto.ParseDate("transactionDate", req.TransactionDate)
	if err != nil {
		return nil, err
	}
	now := s.now()
	txn := domain.Transaction{
		TransactionID:     uuid.NewString(),
		WorkplaceID:       workplaceID,
		ReferenceNumber:   req.ReferenceNumber,
		TransactionDate:   date,
		TransactionTime:   req.TransactionTime,
		TypeID:            req.TypeID,
		PaymentMethodID:   req.PaymentMethodID,
		Amount:            req.Amount,
		Account:           toAccountRef(req.Account),
		TransferTo:        toAccountRef(req.TransferTo),
		Counterparty:      toCounterpartyRef(req.Counterparty),
		Description:       req.Description,
		ReferenceDocument: req.ReferenceDocument,
		Status:            domain.TransactionCompleted,
		AuditFields:       domain.NewAuditFields(userID, now),
	}
	if txn.TransactionTime == "" {
		txn.TransactionTime = now.Format("15:04")
	}

	flow, err := s.resolvePosting(ctx, &txn)
	if err != nil {
		return nil, err
	}
	plans, err := planAllocations(req.Allocations, txn, flow)
	if err != nil {
		return nil, err
	}

	result := &domain.RecordedPayment{}
	err = withinTx(ctx, s.TxManager, func(tx pgx.Tx) error {
		if err := s.resolveCounterparty(ctx, tx, txn, flow); err != nil {
			return err
		}
		if err := s.postTransaction(ctx, tx, &txn, flow, userID, now); err != nil {
			return err
		}
		allocs, invoices, err := s.applyAllocations(ctx, tx, txn, plans, userID, now)
		if err != nil {
			return err
		}
		result.Transaction = txn
		result.Allocations = allocs
		result.Invoices = invoices
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record payment", slog.String("workplace_id", workplaceID), slog.String("type_id", req.TypeID))
		return nil, err
	}

	s.LogInfo(ctx, "Payment recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("amount", utils.FormatMoney(txn.Amount)),
		slog.Int("allocations", len(result.Allocations)))
	s.track(userID, workplaceID, "payment_recorded", map[string]any{
		"flow":        string(flow),
		"amount":      utils.FormatMoney(txn.Amount),
		"allocations": len(result.Allocations),
	})
	return result, nil
}

// UpdateTransaction replaces the posting of a completed transaction with the
// posting of its new fields in one unit. Allocations are replaced only when
// the request carries them.
func (s *reconciliationService) UpdateTransaction(ctx context.Context, workplaceID string, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.RecordedPayment, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleMember); err != nil {
		return nil, err
	}
	if req.Amount != nil && !req.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}
	var date *time.Time
	if req.TransactionDate != nil {
		d, err := dto.ParseDate("transactionDate", *req.TransactionDate)
		if err != nil {
			return nil, err
		}
		date = &d
	}

	now := s.now()
	result := &domain.RecordedPayment{}
	err := withinTx(ctx, s.TxManager, func(tx pgx.Tx) error {
		old, err := s.Transactions.FindTransactionForUpdate(ctx, tx, workplaceID, transactionID)
		if err != nil {
			return apperrors.AtStep(stepLoadTransaction, err)
		}
		if old.IsVoid() {
			return apperrors.AtStep(stepLoadTransaction, fmt.Errorf("%w: transaction %s is void", apperrors.ErrInvalidState, transactionID))
		}
		oldType, err := s.Reference.FindTransactionTypeByID(ctx, old.TypeID)
		if err != nil {
			return apperrors.AtStep(stepResolveType, err)
		}

		updated := applyTransactionChanges(*old, req, date)
		updated.Touch(userID, now)
		newFlow, err := s.resolvePosting(ctx, &updated)
		if err != nil {
			return err
		}
		if err := s.resolveCounterparty(ctx, tx, updated, newFlow); err != nil {
			return err
		}

		existing, err := s.Allocations.ListAllocationsByTransactionInTx(ctx, tx, workplaceID, transactionID)
		if err != nil {
			return apperrors.AtStep(stepLoadTransaction, err)
		}
		var plans []allocationPlan
		if req.Allocations != nil {
			if plans, err = planAllocations(*req.Allocations, updated, newFlow); err != nil {
				return err
			}
		} else if err := checkKeptAllocations(existing, *old, updated, newFlow); err != nil {
			return err
		}

		oldPostings, err := old.Postings(oldType.FlowDirection)
		if err != nil {
			return apperrors.AtStep(stepRepostTransaction, err)
		}
		newPostings, err := updated.Postings(newFlow)
		if err != nil {
			return apperrors.AtStep(stepRepostTransaction, err)
		}
		net := netToPostings(domain.NetPostings(domain.ReversePostings(oldPostings), newPostings))
		if err := s.applyPostings(ctx, tx, workplaceID, net, userID, now); err != nil {
			return apperrors.AtStep(stepRepostTransaction, err)
		}
		if err := s.Transactions.UpdateTransactionInTx(ctx, tx, updated); err != nil {
			return apperrors.AtStep(stepRepostTransaction, err)
		}

		result.Transaction = updated
		if req.Allocations == nil {
			result.Allocations = existing
			return nil
		}

		if _, err := s.unapplyAllocations(ctx, tx, workplaceID, existing, userID, now); err != nil {
			return err
		}
		if err := s.Allocations.VoidAllocationsByTransactionInTx(ctx, tx, workplaceID, transactionID, userID, now); err != nil {
			return apperrors.AtStep(stepVoidAllocations, err)
		}
		allocs, invoices, err := s.applyAllocations(ctx, tx, updated, plans, userID, now)
		if err != nil {
			return err
		}
		result.Allocations = allocs
		result.Invoices = invoices
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction updated",
		slog.String("transaction_id", transactionID),
		slog.String("amount", utils.FormatMoney(result.Transaction.Amount)))
	s.track(userID, workplaceID, "transaction_updated", map[string]any{
		"amount":                utils.FormatMoney(result.Transaction.Amount),
		"allocations_replaced": req.Allocations != nil,
	})
	return result, nil
}

// DeleteTransaction reverses the posting, takes every allocation back off its
// invoice and voids both the allocations and the transaction.
func (s *reconciliationService) DeleteTransaction(ctx context.Context, workplaceID string, transactionID string, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleMember); err != nil {
		return err
	}

	now := s.now()
	err := withinTx(ctx, s.TxManager, func(tx pgx.Tx) error {
		txn, err := s.Transactions.FindTransactionForUpdate(ctx, tx, workplaceID, transactionID)
		if err != nil {
			return apperrors.AtStep(stepLoadTransaction, err)
		}
		if txn.IsVoid() {
			return apperrors.AtStep(stepLoadTransaction, fmt.Errorf("%w: transaction %s is already void", apperrors.ErrInvalidState, transactionID))
		}
		txnType, err := s.Reference.FindTransactionTypeByID(ctx, txn.TypeID)
		if err != nil {
			return apperrors.AtStep(stepResolveType, err)
		}
		postings, err := txn.Postings(txnType.FlowDirection)
		if err != nil {
			return apperrors.AtStep(stepReverseTransaction, err)
		}
		if err := s.applyPostings(ctx, tx, workplaceID, domain.ReversePostings(postings), userID, now); err != nil {
			return apperrors.AtStep(stepReverseTransaction, err)
		}

		allocs, err := s.Allocations.ListAllocationsByTransactionInTx(ctx, tx, workplaceID, transactionID)
		if err != nil {
			return apperrors.AtStep(stepUnapplyAllocation, err)
		}
		if _, err := s.unapplyAllocations(ctx, tx, workplaceID, allocs, userID, now); err != nil {
			return err
		}
		if len(allocs) > 0 {
			if err := s.Allocations.VoidAllocationsByTransactionInTx(ctx, tx, workplaceID, transactionID, userID, now); err != nil {
				return apperrors.AtStep(stepVoidAllocations, err)
			}
		}
		return apperrors.AtStep(stepVoidTransaction,
			s.Transactions.VoidTransactionInTx(ctx, tx, workplaceID, transactionID, userID, now))
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return err
	}

	s.LogInfo(ctx, "Transaction voided", slog.String("transaction_id", transactionID))
	s.track(userID, workplaceID, "transaction_deleted", map[string]any{})
	return nil
}

// resolvePosting checks the transaction's type and payment method and fills
// in the default account when a method is given without an account.
func (s *reconciliationService) resolvePosting(ctx context.Context, txn *domain.Transaction) (domain.FlowDirection, error) {
	if !txn.Amount.IsPositive() {
		return "", apperrors.ErrInvalidAmount
	}
	txnType, err := s.Reference.FindTransactionTypeByID(ctx, txn.TypeID)
	if err != nil {
		return "", apperrors.AtStep(stepResolveType, err)
	}

	var method *domain.PaymentMethod
	if txn.PaymentMethodID != "" {
		if method, err = s.Reference.FindPaymentMethodByID(ctx, txn.PaymentMethodID); err != nil {
			return "", apperrors.AtStep(stepResolvePaymentMethod, err)
		}
	}

	switch txnType.FlowDirection {
	case domain.FlowTransfer:
		txn.Counterparty = nil
	default:
		if txn.TransferTo != nil {
			return "", fmt.Errorf("%w: transferTo is only allowed for transfer types", apperrors.ErrValidation)
		}
		if txn.Account == nil && method != nil {
			ref, err := s.defaultAccount(ctx, txn.WorkplaceID, method)
			if err != nil {
				return "", err
			}
			txn.Account = &ref
		}
	}
	// Surface shape errors before any write.
	if _, err := txn.Postings(txnType.FlowDirection); err != nil {
		return "", err
	}
	return txnType.FlowDirection, nil
}

// resolveCounterparty checks that the named counterparty exists in the
// workplace and sits on the right side of the flow. The row is read without
// a lock; settling its invoices takes the locks.
func (s *reconciliationService) resolveCounterparty(ctx context.Context, tx pgx.Tx, txn domain.Transaction, flow domain.FlowDirection) error {
	if txn.Counterparty == nil {
		return nil
	}
	want := domain.Customer
	if flow == domain.FlowOut {
		want = domain.Supplier
	}
	if txn.Counterparty.Kind != want {
		return apperrors.AtStep(stepResolveCounterparty,
			fmt.Errorf("%w: an %q transaction needs a %s counterparty, got %s", apperrors.ErrValidation, flow, want, txn.Counterparty.Kind))
	}
	if _, err := s.Counterparties.FindCounterpartyInTx(ctx, tx, txn.WorkplaceID, *txn.Counterparty); err != nil {
		return apperrors.AtStep(stepResolveCounterparty, err)
	}
	return nil
}

// planAllocations validates allocation requests against the transaction.
// The requested amounts may not exceed the transaction amount, each invoice
// may appear once and the invoice kind must match the money flow.
func planAllocations(reqs []dto.AllocationRequest, txn domain.Transaction, flow domain.FlowDirection) ([]allocationPlan, error) {
	if len(reqs) == 0 {
		return nil, nil
	}
	if flow == domain.FlowTransfer {
		return nil, fmt.Errorf("%w: transfers cannot settle invoices", apperrors.ErrValidation)
	}

	seen := make(map[domain.AllocationTarget]bool, len(reqs))
	plans := make([]allocationPlan, 0, len(reqs))
	total := decimal.Zero
	for _, r := range reqs {
		target, err := domain.ParseAllocationTarget(r.TargetKind, r.TargetID)
		if err != nil {
			return nil, err
		}
		if !r.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: allocation to %s", apperrors.ErrInvalidAmount, target)
		}
		if seen[target] {
			return nil, fmt.Errorf("%w: %s is allocated more than once", apperrors.ErrValidation, target)
		}
		if err := checkTargetFlow(target.Kind, flow); err != nil {
			return nil, err
		}
		seen[target] = true
		total = total.Add(r.Amount)
		plans = append(plans, allocationPlan{target: target, amount: r.Amount, notes: r.Notes})
	}
	if total.GreaterThan(txn.Amount) {
		return nil, fmt.Errorf("%w: allocations total %s exceeds transaction amount %s",
			apperrors.ErrValidation, utils.FormatMoney(total), utils.FormatMoney(txn.Amount))
	}
	// Invoices are locked in target order.
	sort.Slice(plans, func(i, j int) bool { return plans[i].target.String() < plans[j].target.String() })
	return plans, nil
}

// checkKeptAllocations verifies that allocations left untouched by an update
// still fit the edited transaction. Kept allocations pin the counterparty.
func checkKeptAllocations(allocs []domain.Allocation, old, txn domain.Transaction, flow domain.FlowDirection) error {
	if len(allocs) == 0 {
		return nil
	}
	if flow == domain.FlowTransfer {
		return fmt.Errorf("%w: a transaction with allocations cannot become a transfer", apperrors.ErrValidation)
	}
	if !sameCounterparty(old.Counterparty, txn.Counterparty) {
		return fmt.Errorf("%w: the counterparty of a transaction with allocations can only change together with its allocations", apperrors.ErrValidation)
	}
	for _, a := range allocs {
		if err := checkTargetFlow(a.Target.Kind, flow); err != nil {
			return err
		}
	}
	if total := domain.SumAllocations(allocs); total.GreaterThan(txn.Amount) {
		return fmt.Errorf("%w: existing allocations total %s exceeds new amount %s",
			apperrors.ErrValidation, utils.FormatMoney(total), utils.FormatMoney(txn.Amount))
	}
	return nil
}

func sameCounterparty(a, b *domain.CounterpartyRef) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// checkTargetFlow: customers pay sales invoices with money in, suppliers are
// paid for purchase invoices with money out.
func checkTargetFlow(kind domain.InvoiceKind, flow domain.FlowDirection) error {
	want := domain.FlowIn
	if kind == domain.PurchaseInvoice {
		want = domain.FlowOut
	}
	if flow != want {
		return fmt.Errorf("%w: a %s can only be settled by an %q transaction", apperrors.ErrValidation, kind, want)
	}
	return nil
}

// applyAllocations settles each planned invoice and stores the allocations.
func (s *reconciliationService) applyAllocations(ctx context.Context, tx pgx.Tx, txn domain.Transaction, plans []allocationPlan, userID string, now time.Time) ([]domain.Allocation, []domain.Invoice, error) {
	if len(plans) == 0 {
		return []domain.Allocation{}, []domain.Invoice{}, nil
	}
	allocs := make([]domain.Allocation, 0, len(plans))
	invoices := make([]domain.Invoice, 0, len(plans))
	for _, p := range plans {
		inv, applied, excess, err := s.settleInvoice(ctx, tx, txn, p, userID, now)
		if err != nil {
			return nil, nil, err
		}
		allocs = append(allocs, domain.Allocation{
			AllocationID:   uuid.NewString(),
			WorkplaceID:    txn.WorkplaceID,
			TransactionID:  txn.TransactionID,
			Target:         p.target,
			Amount:         applied,
			CreditedAmount: excess,
			Notes:          p.notes,
			AuditFields:    domain.NewAuditFields(userID, now),
		})
		invoices = append(invoices, *inv)
	}
	if err := s.Allocations.SaveAllocationsInTx(ctx, tx, allocs); err != nil {
		return nil, nil, apperrors.AtStep(stepSaveAllocations, err)
	}
	return allocs, invoices, nil
}

// settleInvoice applies one allocation to its locked invoice and moves the
// counterparty balances by the resulting deltas.
func (s *reconciliationService) settleInvoice(ctx context.Context, tx pgx.Tx, txn domain.Transaction, p allocationPlan, userID string, now time.Time) (*domain.Invoice, decimal.Decimal, decimal.Decimal, error) {
	inv, err := s.Invoices.FindInvoiceForUpdate(ctx, tx, txn.WorkplaceID, p.target.Kind, p.target.ID)
	if err != nil {
		return nil, decimal.Zero, decimal.Zero, apperrors.AtStep(stepApplyAllocation, err)
	}
	if txn.Counterparty != nil && *txn.Counterparty != inv.CounterpartyRef() {
		return nil, decimal.Zero, decimal.Zero, apperrors.AtStep(stepApplyAllocation,
			fmt.Errorf("%w: invoice %s belongs to a different %s", apperrors.ErrValidation, inv.InvoiceNumber, inv.Kind.CounterpartyKind()))
	}

	before := inv.OutstandingContribution()
	applied, excess, err := inv.ApplyPayment(p.amount, now)
	if err != nil {
		return nil, decimal.Zero, decimal.Zero, apperrors.AtStep(stepApplyAllocation, err)
	}
	if excess.IsPositive() && s.policy == config.OverpaymentReject {
		return nil, decimal.Zero, decimal.Zero, apperrors.AtStep(stepApplyAllocation,
			fmt.Errorf("%w: %s exceeds the balance of invoice %s", apperrors.ErrOverpayment, utils.FormatMoney(p.amount), inv.InvoiceNumber))
	}
	inv.Touch(userID, now)
	if err := s.Invoices.UpdateInvoiceInTx(ctx, tx, *inv); err != nil {
		return nil, decimal.Zero, decimal.Zero, apperrors.AtStep(stepApplyAllocation, err)
	}

	ref := inv.CounterpartyRef()
	if err := s.adjustOutstanding(ctx, tx, txn.WorkplaceID, ref, inv.OutstandingContribution().Sub(before), userID, now); err != nil {
		return nil, decimal.Zero, decimal.Zero, err
	}
	if err := s.adjustCredit(ctx, tx, txn.WorkplaceID, ref, excess, userID, now); err != nil {
		return nil, decimal.Zero, decimal.Zero, err
	}
	return inv, applied, excess, nil
}

// unapplyAllocations takes each allocation back off its invoice and reverses
// any credit it booked. It does not void the allocation rows.
func (s *reconciliationService) unapplyAllocations(ctx context.Context, tx pgx.Tx, workplaceID string, allocs []domain.Allocation, userID string, now time.Time) ([]domain.Invoice, error) {
	invoices := make([]domain.Invoice, 0, len(allocs))
	for _, a := range allocs {
		inv, err := s.Invoices.FindInvoiceForUpdate(ctx, tx, workplaceID, a.Target.Kind, a.Target.ID)
		if err != nil {
			return nil, apperrors.AtStep(stepUnapplyAllocation, err)
		}
		before := inv.OutstandingContribution()
		if a.Amount.IsPositive() {
			if err := inv.UnapplyPayment(a.Amount, now); err != nil {
				return nil, apperrors.AtStep(stepUnapplyAllocation, err)
			}
			inv.Touch(userID, now)
			if err := s.Invoices.UpdateInvoiceInTx(ctx, tx, *inv); err != nil {
				return nil, apperrors.AtStep(stepUnapplyAllocation, err)
			}
		}
		ref := inv.CounterpartyRef()
		if err := s.adjustOutstanding(ctx, tx, workplaceID, ref, inv.OutstandingContribution().Sub(before), userID, now); err != nil {
			return nil, err
		}
		if err := s.adjustCredit(ctx, tx, workplaceID, ref, a.CreditedAmount.Neg(), userID, now); err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	return invoices, nil
}

// applyTransactionChanges copies the set fields of req onto txn.
func applyTransactionChanges(txn domain.Transaction, req dto.UpdateTransactionRequest, date *time.Time) domain.Transaction {
	if req.ReferenceNumber != nil {
		txn.ReferenceNumber = *req.ReferenceNumber
	}
	if date != nil {
		txn.TransactionDate = *date
	}
	if req.TransactionTime != nil {
		txn.TransactionTime = *req.TransactionTime
	}
	if req.TypeID != nil {
		txn.TypeID = *req.TypeID
	}
	if req.PaymentMethodID != nil {
		txn.PaymentMethodID = *req.PaymentMethodID
	}
	if req.Amount != nil {
		txn.Amount = *req.Amount
	}
	if req.Account != nil {
		txn.Account = toAccountRef(req.Account)
	}
	if req.TransferTo != nil {
		txn.TransferTo = toAccountRef(req.TransferTo)
	}
	if req.Counterparty != nil {
		txn.Counterparty = toCounterpartyRef(req.Counterparty)
	}
	if req.Description != nil {
		txn.Description = *req.Description
	}
	if req.ReferenceDocument != nil {
		txn.ReferenceDocument = *req.ReferenceDocument
	}
	return txn
}

// netToPostings orders net deltas by account.
func netToPostings(net map[domain.AccountRef]decimal.Decimal) []domain.Posting {
	out := make([]domain.Posting, 0, len(net))
	for ref, d := range net {
		out = append(out, domain.Posting{Account: ref, Delta: d})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Account.Less(out[j].Account) })
	return out
}

func toAccountRef(r *dto.AccountRefRequest) *domain.AccountRef {
	if r == nil {
		return nil
	}
	return &domain.AccountRef{Kind: r.Kind, ID: r.ID}
}

func toCounterpartyRef(r *dto.CounterpartyRefRequest) *domain.CounterpartyRef {
	if r == nil {
		return nil
	}
	return &domain.CounterpartyRef{Kind: r.Kind, ID: r.ID}
}
