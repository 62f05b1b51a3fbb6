package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// FlowDirection determines the sign a transaction applies to its account.
type FlowDirection string

const (
	FlowIn       FlowDirection = "in"
	FlowOut      FlowDirection = "out"
	FlowTransfer FlowDirection = "transfer"
)

// Seeded transaction type codes.
const (
	TypeCodeCustomerPayment       = "customer_payment"
	TypeCodeSupplierPayment       = "supplier_payment"
	TypeCodeInternalTransfer      = "internal_transfer"
	TypeCodeCashDeposit           = "cash_deposit"
	TypeCodeCashWithdrawal        = "cash_withdrawal"
	TypeCodeGeneralExpense        = "general_expense"
	TypeCodeOtherIncome           = "other_income"
	TypeCodeCustomerCreditPayment = "customer_credit_payment"
)

// TransactionType is immutable reference data.
type TransactionType struct {
	TypeID        string        `json:"typeID"`
	Code          string        `json:"code"`
	Name          string        `json:"name"`
	FlowDirection FlowDirection `json:"flowDirection"`
	Description   string        `json:"description"`
}

// PaymentCategory selects which default account receives a payment.
type PaymentCategory string

const (
	PaymentCategoryCash PaymentCategory = "cash"
	PaymentCategoryBank PaymentCategory = "bank"
)

// PaymentMethod is immutable reference data.
type PaymentMethod struct {
	MethodID    string          `json:"methodID"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Category    PaymentCategory `json:"category"`
	Description string          `json:"description"`
}

// TransactionStatus tracks whether a transaction still has ledger effect.
type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionVoid      TransactionStatus = "void"
)

// Transaction is a money movement posted to at most one account, or to two
// accounts for transfers.
type Transaction struct {
	TransactionID     string            `json:"transactionID"`
	WorkplaceID       string            `json:"workplaceID"`
	ReferenceNumber   string            `json:"referenceNumber"`
	TransactionDate   time.Time         `json:"transactionDate"`
	TransactionTime   string            `json:"transactionTime"` // HH:MM
	TypeID            string            `json:"typeID"`
	PaymentMethodID   string            `json:"paymentMethodID"`
	Amount            decimal.Decimal   `json:"amount"`
	Account           *AccountRef       `json:"account,omitempty"`
	TransferTo        *AccountRef       `json:"transferTo,omitempty"`
	Counterparty      *CounterpartyRef  `json:"counterparty,omitempty"`
	Description       string            `json:"description"`
	ReferenceDocument string            `json:"referenceDocument"`
	Status            TransactionStatus `json:"status"`
	VoidedAt          *time.Time        `json:"voidedAt,omitempty"`
	VoidedBy          *string           `json:"voidedBy,omitempty"`
	AuditFields
}

// IsVoid reports whether the transaction was reversed and voided.
func (t Transaction) IsVoid() bool { return t.Status == TransactionVoid }

// Posting is one signed balance change on one account.
type Posting struct {
	Account AccountRef
	Delta   decimal.Decimal
}

// Postings computes the balance changes this transaction applies under flow.
func (t Transaction) Postings(flow FlowDirection) ([]Posting, error) {
	if !t.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}
	switch flow {
	case FlowIn, FlowOut:
		if t.TransferTo != nil {
			return nil, fmt.Errorf("%w: transfer destination given for a %s transaction", apperrors.ErrValidation, flow)
		}
		if t.Account == nil || t.Account.IsZero() {
			return nil, nil
		}
		delta := t.Amount
		if flow == FlowOut {
			delta = delta.Neg()
		}
		return []Posting{{Account: *t.Account, Delta: delta}}, nil
	case FlowTransfer:
		if t.Account == nil || t.Account.IsZero() || t.TransferTo == nil || t.TransferTo.IsZero() {
			return nil, fmt.Errorf("%w: transfer requires both source and destination accounts", apperrors.ErrValidation)
		}
		if *t.Account == *t.TransferTo {
			return nil, fmt.Errorf("%w: transfer source and destination must differ", apperrors.ErrValidation)
		}
		return []Posting{
			{Account: *t.Account, Delta: t.Amount.Neg()},
			{Account: *t.TransferTo, Delta: t.Amount},
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown flow direction %q", apperrors.ErrValidation, flow)
	}
}

// ReversePostings negates each posting.
func ReversePostings(ps []Posting) []Posting {
	out := make([]Posting, len(ps))
	for i, p := range ps {
		out[i] = Posting{Account: p.Account, Delta: p.Delta.Neg()}
	}
	return out
}

// NetPostings merges postings per account and drops zero deltas.
func NetPostings(ps ...[]Posting) map[AccountRef]decimal.Decimal {
	net := make(map[AccountRef]decimal.Decimal)
	for _, group := range ps {
		for _, p := range group {
			net[p.Account] = net[p.Account].Add(p.Delta)
		}
	}
	for ref, d := range net {
		if d.IsZero() {
			delete(net, ref)
		}
	}
	return net
}
