package models

import "time"

// Workplace is a row of workplaces.
type Workplace struct {
	WorkplaceID string `db:"workplace_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	IsActive    bool   `db:"is_active"`
	AuditFields
}

// UserWorkplace is a row of user_workplaces.
type UserWorkplace struct {
	UserID      string    `db:"user_id"`
	WorkplaceID string    `db:"workplace_id"`
	Role        string    `db:"role"`
	JoinedAt    time.Time `db:"joined_at"`
}

// WorkplaceSettings is a row of workplace_settings.
type WorkplaceSettings struct {
	WorkplaceID          string    `db:"workplace_id"`
	DefaultCashDrawerID  *string   `db:"default_cash_drawer_id"`
	DefaultBankAccountID *string   `db:"default_bank_account_id"`
	LastUpdatedAt        time.Time `db:"last_updated_at"`
	LastUpdatedBy        string    `db:"last_updated_by"`
}
