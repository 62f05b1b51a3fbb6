package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AllocationTarget is the invoice an allocation settles. Kind can only be
// one of the two invoice kinds.
type AllocationTarget struct {
	Kind InvoiceKind `json:"kind"`
	ID   string      `json:"id"`
}

// ParseAllocationTarget builds a target from untyped caller input.
func ParseAllocationTarget(kind, id string) (AllocationTarget, error) {
	k, err := ParseInvoiceKind(kind)
	if err != nil {
		return AllocationTarget{}, err
	}
	if id == "" {
		return AllocationTarget{}, fmt.Errorf("%w: allocation target id is required", apperrors.ErrValidation)
	}
	return AllocationTarget{Kind: k, ID: id}, nil
}

func (t AllocationTarget) String() string { return string(t.Kind) + ":" + t.ID }

// Allocation records how much of a transaction settles one invoice.
// Amount is what was applied to the invoice. CreditedAmount is the part of
// the requested amount that exceeded the invoice balance and was booked as
// counterparty credit instead.
type Allocation struct {
	AllocationID   string           `json:"allocationID"`
	WorkplaceID    string           `json:"workplaceID"`
	TransactionID  string           `json:"transactionID"`
	Target         AllocationTarget `json:"target"`
	Amount         decimal.Decimal  `json:"amount"`
	CreditedAmount decimal.Decimal  `json:"creditedAmount"`
	Notes          string           `json:"notes"`
	VoidedAt       *time.Time       `json:"voidedAt,omitempty"`
	AuditFields
}

// Requested is the full amount the caller allocated to the target.
func (a Allocation) Requested() decimal.Decimal { return a.Amount.Add(a.CreditedAmount) }

// IsVoid reports whether the allocation has been voided.
func (a Allocation) IsVoid() bool { return a.VoidedAt != nil }

// SumAllocations totals the requested amounts of allocs.
func SumAllocations(allocs []Allocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocs {
		total = total.Add(a.Requested())
	}
	return total
}
