package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of transactions. Polymorphic references are stored as
// kind/id column pairs that are either both set or both NULL.
type Transaction struct {
	TransactionID     string          `db:"transaction_id"`
	WorkplaceID       string          `db:"workplace_id"`
	ReferenceNumber   string          `db:"reference_number"`
	TransactionDate   time.Time       `db:"transaction_date"`
	TransactionTime   string          `db:"transaction_time"`
	TypeID            string          `db:"type_id"`
	PaymentMethodID   *string         `db:"payment_method_id"`
	Amount            decimal.Decimal `db:"amount"`
	AccountKind       *string         `db:"account_kind"`
	AccountID         *string         `db:"account_id"`
	TransferToKind    *string         `db:"transfer_to_kind"`
	TransferToID      *string         `db:"transfer_to_id"`
	CounterpartyKind  *string         `db:"counterparty_kind"`
	CounterpartyID    *string         `db:"counterparty_id"`
	Description       string          `db:"description"`
	ReferenceDocument string          `db:"reference_document"`
	Status            string          `db:"status"`
	VoidedAt          *time.Time      `db:"voided_at"`
	VoidedBy          *string         `db:"voided_by"`
	AuditFields
}

// Allocation is a row of transaction_allocations.
type Allocation struct {
	AllocationID   string          `db:"allocation_id"`
	WorkplaceID    string          `db:"workplace_id"`
	TransactionID  string          `db:"transaction_id"`
	TargetKind     string          `db:"target_kind"`
	TargetID       string          `db:"target_id"`
	Amount         decimal.Decimal `db:"amount"`
	CreditedAmount decimal.Decimal `db:"credited_amount"`
	Notes          string          `db:"notes"`
	VoidedAt       *time.Time      `db:"voided_at"`
	AuditFields
}

// TransactionType is a row of the seeded transaction_types table.
type TransactionType struct {
	TypeID        string `db:"type_id"`
	Code          string `db:"code"`
	Name          string `db:"name"`
	FlowDirection string `db:"flow_direction"`
	Description   string `db:"description"`
}

// PaymentMethod is a row of the seeded payment_methods table.
type PaymentMethod struct {
	MethodID    string `db:"method_id"`
	Code        string `db:"code"`
	Name        string `db:"name"`
	Category    string `db:"category"`
	Description string `db:"description"`
}
