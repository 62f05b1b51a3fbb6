package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AccountKind distinguishes the two physical account tables.
type AccountKind string

const (
	BankAccount AccountKind = "bank_account"
	CashDrawer  AccountKind = "cash_drawer"
)

// ParseAccountKind validates a kind received from a caller.
func ParseAccountKind(s string) (AccountKind, error) {
	switch AccountKind(s) {
	case BankAccount, CashDrawer:
		return AccountKind(s), nil
	default:
		return "", fmt.Errorf("%w: unknown account kind %q", apperrors.ErrValidation, s)
	}
}

// AccountRef points at one bank account or one cash drawer.
type AccountRef struct {
	Kind AccountKind `json:"kind"`
	ID   string      `json:"id"`
}

// IsZero reports whether the ref is unset.
func (r AccountRef) IsZero() bool { return r.ID == "" }

func (r AccountRef) String() string { return string(r.Kind) + ":" + r.ID }

// Less orders refs for deterministic row locking.
func (r AccountRef) Less(o AccountRef) bool {
	if r.Kind != o.Kind {
		return r.Kind < o.Kind
	}
	return r.ID < o.ID
}

// BankAccountType is the product type of a bank account.
type BankAccountType string

const (
	Checking BankAccountType = "checking"
	Savings  BankAccountType = "savings"
)

// Account is the unified view over bank accounts and cash drawers.
// Balance is only ever changed through postings.
type Account struct {
	AccountID   string          `json:"accountID"`
	WorkplaceID string          `json:"workplaceID"`
	Kind        AccountKind     `json:"kind"`
	Name        string          `json:"name"`
	Balance     decimal.Decimal `json:"balance"`
	IsActive    bool            `json:"isActive"`

	// Bank account details.
	BankName      string          `json:"bankName,omitempty"`
	AccountNumber string          `json:"accountNumber,omitempty"`
	AccountType   BankAccountType `json:"accountType,omitempty"`

	// Cash drawer details.
	Location      string     `json:"location,omitempty"`
	LastCountedAt *time.Time `json:"lastCountedAt,omitempty"`

	AuditFields
}

// Ref returns the polymorphic reference to this account.
func (a Account) Ref() AccountRef {
	return AccountRef{Kind: a.Kind, ID: a.AccountID}
}
