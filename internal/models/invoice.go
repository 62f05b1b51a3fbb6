package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a row of sales_invoices or purchase_invoices. customer_id and
// supplier_id are both selected as counterparty_id.
type Invoice struct {
	InvoiceID      string          `db:"invoice_id"`
	WorkplaceID    string          `db:"workplace_id"`
	InvoiceNumber  string          `db:"invoice_number"`
	CounterpartyID string          `db:"counterparty_id"`
	IssueDate      time.Time       `db:"issue_date"`
	DueDate        time.Time       `db:"due_date"`
	TotalAmount    decimal.Decimal `db:"total_amount"`
	PaidAmount     decimal.Decimal `db:"paid_amount"`
	Balance        decimal.Decimal `db:"balance"`
	Status         string          `db:"status"`
	Notes          string          `db:"notes"`
	AuditFields
}
