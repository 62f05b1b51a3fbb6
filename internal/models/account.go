package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount is a row of bank_accounts.
type BankAccount struct {
	BankAccountID  string          `db:"bank_account_id"`
	WorkplaceID    string          `db:"workplace_id"`
	BankName       string          `db:"bank_name"`
	AccountNumber  string          `db:"account_number"`
	AccountName    string          `db:"account_name"`
	AccountType    string          `db:"account_type"` // checking | savings
	CurrentBalance decimal.Decimal `db:"current_balance"`
	IsActive       bool            `db:"is_active"`
	AuditFields
}

// CashDrawer is a row of cash_drawers.
type CashDrawer struct {
	CashDrawerID   string          `db:"cash_drawer_id"`
	WorkplaceID    string          `db:"workplace_id"`
	Name           string          `db:"name"`
	Location       string          `db:"location"`
	CurrentBalance decimal.Decimal `db:"current_balance"`
	LastCountedAt  *time.Time      `db:"last_counted_at"` // Nullable
	IsActive       bool            `db:"is_active"`
	AuditFields
}
