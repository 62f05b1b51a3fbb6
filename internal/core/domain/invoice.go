package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// InvoiceKind distinguishes sales invoices from purchase invoices.
type InvoiceKind string

const (
	SalesInvoice    InvoiceKind = "sales_invoice"
	PurchaseInvoice InvoiceKind = "purchase_invoice"
)

// ParseInvoiceKind validates a kind received from a caller.
func ParseInvoiceKind(s string) (InvoiceKind, error) {
	switch InvoiceKind(s) {
	case SalesInvoice, PurchaseInvoice:
		return InvoiceKind(s), nil
	default:
		return "", fmt.Errorf("%w: unknown invoice kind %q", apperrors.ErrValidation, s)
	}
}

// CounterpartyKind is the kind of party an invoice of this kind is issued against.
func (k InvoiceKind) CounterpartyKind() CounterpartyKind {
	if k == PurchaseInvoice {
		return Supplier
	}
	return Customer
}

// PaymentTypeCode is the transaction type used to settle an invoice of this kind.
func (k InvoiceKind) PaymentTypeCode() string {
	if k == PurchaseInvoice {
		return TypeCodeSupplierPayment
	}
	return TypeCodeCustomerPayment
}

// InvoiceStatus is derived from the amounts and the due date.
type InvoiceStatus string

const (
	StatusUnpaid        InvoiceStatus = "unpaid"
	StatusPartiallyPaid InvoiceStatus = "partially_paid"
	StatusPaid          InvoiceStatus = "paid"
	StatusOverdue       InvoiceStatus = "overdue"
	StatusCancelled     InvoiceStatus = "cancelled"
)

// Invoice is a sales or purchase invoice.
type Invoice struct {
	InvoiceID      string          `json:"invoiceID"`
	WorkplaceID    string          `json:"workplaceID"`
	Kind           InvoiceKind     `json:"kind"`
	InvoiceNumber  string          `json:"invoiceNumber"`
	CounterpartyID string          `json:"counterpartyID"`
	IssueDate      time.Time       `json:"issueDate"`
	DueDate        time.Time       `json:"dueDate"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	PaidAmount     decimal.Decimal `json:"paidAmount"`
	Balance        decimal.Decimal `json:"balance"`
	Status         InvoiceStatus   `json:"status"`
	Notes          string          `json:"notes"`
	AuditFields
}

// CounterpartyRef returns the party this invoice is issued against.
func (inv Invoice) CounterpartyRef() CounterpartyRef {
	return CounterpartyRef{Kind: inv.Kind.CounterpartyKind(), ID: inv.CounterpartyID}
}

// Target returns the allocation target for this invoice.
func (inv Invoice) Target() AllocationTarget {
	return AllocationTarget{Kind: inv.Kind, ID: inv.InvoiceID}
}

// Recalculate re-derives balance and status after total or paid changed.
// A paid amount above the total is clamped and the excess is returned.
// Cancelled invoices keep their status.
func (inv *Invoice) Recalculate(now time.Time) decimal.Decimal {
	excess := decimal.Zero
	if inv.PaidAmount.GreaterThan(inv.TotalAmount) {
		excess = inv.PaidAmount.Sub(inv.TotalAmount)
		inv.PaidAmount = inv.TotalAmount
	}
	inv.Balance = inv.TotalAmount.Sub(inv.PaidAmount)

	if inv.Status == StatusCancelled {
		return excess
	}

	switch {
	case !inv.Balance.IsPositive():
		inv.Status = StatusPaid
	case inv.PaidAmount.IsPositive():
		inv.Status = StatusPartiallyPaid
	case dateOnly(inv.DueDate).Before(dateOnly(now)):
		inv.Status = StatusOverdue
	default:
		inv.Status = StatusUnpaid
	}
	return excess
}

// ApplyPayment adds amount to the paid total. It returns the part that was
// applied and the excess beyond the invoice total.
func (inv *Invoice) ApplyPayment(amount decimal.Decimal, now time.Time) (applied, excess decimal.Decimal, err error) {
	if !amount.IsPositive() {
		return decimal.Zero, decimal.Zero, apperrors.ErrInvalidAmount
	}
	if inv.Status == StatusCancelled {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: invoice %s is cancelled", apperrors.ErrInvalidState, inv.InvoiceNumber)
	}
	inv.PaidAmount = inv.PaidAmount.Add(amount)
	excess = inv.Recalculate(now)
	return amount.Sub(excess), excess, nil
}

// UnapplyPayment removes a previously applied amount.
func (inv *Invoice) UnapplyPayment(amount decimal.Decimal, now time.Time) error {
	if inv.PaidAmount.LessThan(amount) {
		return fmt.Errorf("%w: removing %s from invoice %s would make paid amount negative",
			apperrors.ErrInvariantViolation, amount.String(), inv.InvoiceNumber)
	}
	inv.PaidAmount = inv.PaidAmount.Sub(amount)
	inv.Recalculate(now)
	return nil
}

// Cancel moves a non-paid invoice to cancelled.
func (inv *Invoice) Cancel() error {
	if inv.Status == StatusPaid || inv.Status == StatusCancelled {
		return fmt.Errorf("%w: cannot cancel invoice in status %s", apperrors.ErrInvalidState, inv.Status)
	}
	inv.Status = StatusCancelled
	return nil
}

// OutstandingContribution is what this invoice adds to its counterparty's
// outstanding balance.
func (inv Invoice) OutstandingContribution() decimal.Decimal {
	if inv.Status == StatusCancelled {
		return decimal.Zero
	}
	return inv.Balance
}

// EffectiveAt returns a copy with the overdue overlay evaluated at now.
func (inv Invoice) EffectiveAt(now time.Time) Invoice {
	inv.Recalculate(now)
	return inv
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
