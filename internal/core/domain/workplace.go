package domain

import "time"

// Workplace is the tenant boundary: every ledger row belongs to exactly one workplace.
type Workplace struct {
	WorkplaceID string `json:"workplaceID"` // Primary Key (e.g., UUID)
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
	AuditFields
}

// WorkplaceSettings holds per-tenant reconciliation defaults.
type WorkplaceSettings struct {
	WorkplaceID          string    `json:"workplaceID"`
	DefaultCashDrawerID  *string   `json:"defaultCashDrawerID"`  // receives cash payments
	DefaultBankAccountID *string   `json:"defaultBankAccountID"` // receives non-cash payments
	LastUpdatedAt        time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy        string    `json:"lastUpdatedBy"`
}

// DefaultAccountFor returns the configured account for a payment method category.
func (s WorkplaceSettings) DefaultAccountFor(category PaymentCategory) (AccountRef, bool) {
	switch category {
	case PaymentCategoryCash:
		if s.DefaultCashDrawerID != nil && *s.DefaultCashDrawerID != "" {
			return AccountRef{Kind: CashDrawer, ID: *s.DefaultCashDrawerID}, true
		}
	case PaymentCategoryBank:
		if s.DefaultBankAccountID != nil && *s.DefaultBankAccountID != "" {
			return AccountRef{Kind: BankAccount, ID: *s.DefaultBankAccountID}, true
		}
	}
	return AccountRef{}, false
}

// UserWorkplaceRole defines the possible roles a user can have within a workplace.
type UserWorkplaceRole string

const (
	RoleAdmin    UserWorkplaceRole = "ADMIN"
	RoleMember   UserWorkplaceRole = "MEMBER"
	RoleReadOnly UserWorkplaceRole = "READONLY" // Users with read-only access to workplace data
	RoleRemoved  UserWorkplaceRole = "REMOVED"  // For users who have been removed from the workplace
)

// Satisfies reports whether r grants at least the required role.
func (r UserWorkplaceRole) Satisfies(required UserWorkplaceRole) bool {
	rank := map[UserWorkplaceRole]int{RoleReadOnly: 1, RoleMember: 2, RoleAdmin: 3}
	have, ok := rank[r]
	if !ok {
		return false
	}
	return have >= rank[required]
}

// UserWorkplace represents the membership of a User in a Workplace.
type UserWorkplace struct {
	UserID      string            `json:"userID"`
	WorkplaceID string            `json:"workplaceID"`
	Role        UserWorkplaceRole `json:"role"`
	JoinedAt    time.Time         `json:"joinedAt"`
}
