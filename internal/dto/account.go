package dto

import (
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBankAccountRequest defines the data needed to open a bank account.
type CreateBankAccountRequest struct {
	BankName       string                 `json:"bankName" binding:"required"`
	AccountNumber  string                 `json:"accountNumber" binding:"required"`
	AccountName    string                 `json:"accountName" binding:"required"`
	AccountType    domain.BankAccountType `json:"accountType" binding:"required,oneof=checking savings"`
	OpeningBalance decimal.Decimal        `json:"openingBalance" swaggertype:"string"`
}

// CreateCashDrawerRequest defines the data needed to open a cash drawer.
type CreateCashDrawerRequest struct {
	Name           string          `json:"name" binding:"required"`
	Location       string          `json:"location"`
	OpeningBalance decimal.Decimal `json:"openingBalance" swaggertype:"string"`
}

// UpdateAccountRequest defines the descriptive fields that may change.
// Fields that do not apply to the account kind are ignored.
type UpdateAccountRequest struct {
	Name          *string                 `json:"name"`
	BankName      *string                 `json:"bankName"`
	AccountNumber *string                 `json:"accountNumber"`
	AccountType   *domain.BankAccountType `json:"accountType" binding:"omitempty,oneof=checking savings"`
	Location      *string                 `json:"location"`
	LastCountedAt *time.Time              `json:"lastCountedAt"`
	IsActive      *bool                   `json:"isActive"`
}

// AccountResponse defines the data returned for a bank account or cash drawer.
type AccountResponse struct {
	AccountID     string                 `json:"accountID"`
	Kind          domain.AccountKind     `json:"kind"`
	Name          string                 `json:"name"`
	Balance       decimal.Decimal        `json:"balance" swaggertype:"string"`
	IsActive      bool                   `json:"isActive"`
	BankName      string                 `json:"bankName,omitempty"`
	AccountNumber string                 `json:"accountNumber,omitempty"`
	AccountType   domain.BankAccountType `json:"accountType,omitempty"`
	Location      string                 `json:"location,omitempty"`
	LastCountedAt *time.Time             `json:"lastCountedAt,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	CreatedBy     string                 `json:"createdBy"`
	LastUpdatedAt time.Time              `json:"lastUpdatedAt"`
	LastUpdatedBy string                 `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Kind:          acc.Kind,
		Name:          acc.Name,
		Balance:       acc.Balance,
		IsActive:      acc.IsActive,
		BankName:      acc.BankName,
		AccountNumber: acc.AccountNumber,
		AccountType:   acc.AccountType,
		Location:      acc.Location,
		LastCountedAt: acc.LastCountedAt,
		CreatedAt:     acc.CreatedAt,
		CreatedBy:     acc.CreatedBy,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
	}
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToListAccountsResponse converts a slice of domain.Account to the list DTO.
func ToListAccountsResponse(accounts []domain.Account) ListAccountsResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return ListAccountsResponse{Accounts: res}
}
