package models

import "time"

// User represents a user row. Users created through Google sign-in have no
// password hash.
type User struct {
	UserID         string  `db:"user_id"`
	Username       string  `db:"username"`
	Email          *string `db:"email"`
	Name           string  `db:"name"`
	PasswordHash   *string `db:"password_hash"`
	AuthProvider   string  `db:"auth_provider"`
	ProviderUserID *string `db:"provider_user_id"`
	EmailVerified  bool    `db:"email_verified"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
