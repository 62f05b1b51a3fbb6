package domain

import (
	"fmt"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// CounterpartyKind distinguishes customers from suppliers.
type CounterpartyKind string

const (
	Customer CounterpartyKind = "customer"
	Supplier CounterpartyKind = "supplier"
)

// ParseCounterpartyKind validates a kind received from a caller.
func ParseCounterpartyKind(s string) (CounterpartyKind, error) {
	switch CounterpartyKind(s) {
	case Customer, Supplier:
		return CounterpartyKind(s), nil
	default:
		return "", fmt.Errorf("%w: unknown counterparty kind %q", apperrors.ErrValidation, s)
	}
}

// CounterpartyRef points at one customer or one supplier.
type CounterpartyRef struct {
	Kind CounterpartyKind `json:"kind"`
	ID   string           `json:"id"`
}

// IsZero reports whether the ref is unset.
func (r CounterpartyRef) IsZero() bool { return r.ID == "" }

// Counterparty is a customer or supplier with running balances.
//
// OutstandingBalance is the sum of balances of the counterparty's
// non-cancelled invoices and is maintained by deltas. CreditBalance holds
// overpayments that were not applied to any invoice.
type Counterparty struct {
	CounterpartyID     string           `json:"counterpartyID"`
	WorkplaceID        string           `json:"workplaceID"`
	Kind               CounterpartyKind `json:"kind"`
	Name               string           `json:"name"`
	Email              string           `json:"email"`
	Phone              string           `json:"phone"`
	Address            string           `json:"address"`
	OutstandingBalance decimal.Decimal  `json:"outstandingBalance"`
	CreditBalance      decimal.Decimal  `json:"creditBalance"`
	CreditLimit        decimal.Decimal  `json:"creditLimit"` // customers only, zero means unlimited
	IsActive           bool             `json:"isActive"`
	AuditFields
}

// Ref returns the polymorphic reference to this counterparty.
func (c Counterparty) Ref() CounterpartyRef {
	return CounterpartyRef{Kind: c.Kind, ID: c.CounterpartyID}
}

// CheckCreditLimit fails when adding extra to the outstanding balance would
// exceed a configured credit limit.
func (c Counterparty) CheckCreditLimit(extra decimal.Decimal) error {
	if c.Kind != Customer || !c.CreditLimit.IsPositive() {
		return nil
	}
	if c.OutstandingBalance.Add(extra).GreaterThan(c.CreditLimit) {
		return fmt.Errorf("%w: outstanding %s + %s exceeds limit %s",
			apperrors.ErrCreditLimitExceeded, c.OutstandingBalance.StringFixed(2), extra.StringFixed(2), c.CreditLimit.StringFixed(2))
	}
	return nil
}
