package models

import "github.com/shopspring/decimal"

// Counterparty is a row of customers or suppliers. The table specific id
// column is selected as counterparty_id.
type Counterparty struct {
	CounterpartyID     string          `db:"counterparty_id"`
	WorkplaceID        string          `db:"workplace_id"`
	Name               string          `db:"name"`
	Email              string          `db:"email"`
	Phone              string          `db:"phone"`
	Address            string          `db:"address"`
	OutstandingBalance decimal.Decimal `db:"outstanding_balance"`
	CreditBalance      decimal.Decimal `db:"credit_balance"`
	CreditLimit        decimal.Decimal `db:"credit_limit"`
	IsActive           bool            `db:"is_active"`
	AuditFields
}
