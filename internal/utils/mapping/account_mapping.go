package mapping

import (
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/SscSPs/backoffice_ledger/internal/models"
)

// ToModelBankAccount converts a domain Account of kind bank_account to its row.
func ToModelBankAccount(d domain.Account) models.BankAccount {
	return models.BankAccount{
		BankAccountID:  d.AccountID,
		WorkplaceID:    d.WorkplaceID,
		BankName:       d.BankName,
		AccountNumber:  d.AccountNumber,
		AccountName:    d.Name,
		AccountType:    string(d.AccountType),
		CurrentBalance: d.Balance,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankAccount converts a bank_accounts row to the unified account view.
func ToDomainBankAccount(m models.BankAccount) domain.Account {
	return domain.Account{
		AccountID:     m.BankAccountID,
		WorkplaceID:   m.WorkplaceID,
		Kind:          domain.BankAccount,
		Name:          m.AccountName,
		Balance:       m.CurrentBalance,
		IsActive:      m.IsActive,
		BankName:      m.BankName,
		AccountNumber: m.AccountNumber,
		AccountType:   domain.BankAccountType(m.AccountType),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelCashDrawer converts a domain Account of kind cash_drawer to its row.
func ToModelCashDrawer(d domain.Account) models.CashDrawer {
	return models.CashDrawer{
		CashDrawerID:   d.AccountID,
		WorkplaceID:    d.WorkplaceID,
		Name:           d.Name,
		Location:       d.Location,
		CurrentBalance: d.Balance,
		LastCountedAt:  d.LastCountedAt,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCashDrawer converts a cash_drawers row to the unified account view.
func ToDomainCashDrawer(m models.CashDrawer) domain.Account {
	return domain.Account{
		AccountID:     m.CashDrawerID,
		WorkplaceID:   m.WorkplaceID,
		Kind:          domain.CashDrawer,
		Name:          m.Name,
		Balance:       m.CurrentBalance,
		IsActive:      m.IsActive,
		Location:      m.Location,
		LastCountedAt: m.LastCountedAt,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
