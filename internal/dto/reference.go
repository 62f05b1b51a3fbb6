package dto

import "github.com/SscSPs/backoffice_ledger/internal/core/domain"

type ListTransactionTypesResponse struct {
	TransactionTypes []domain.TransactionType `json:"transactionTypes"`
}

type ListPaymentMethodsResponse struct {
	PaymentMethods []domain.PaymentMethod `json:"paymentMethods"`
}
