package dto

import (
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCounterpartyRequest defines the data needed to create a customer or supplier.
// Suppliers must leave CreditLimit at zero.
type CreateCounterpartyRequest struct {
	Name        string          `json:"name" binding:"required"`
	Email       string          `json:"email" binding:"omitempty,email"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	CreditLimit decimal.Decimal `json:"creditLimit" binding:"decimal_gte0" swaggertype:"string"`
}

// UpdateCounterpartyRequest uses pointers to distinguish omitted fields.
type UpdateCounterpartyRequest struct {
	Name        *string          `json:"name"`
	Email       *string          `json:"email" binding:"omitempty,email"`
	Phone       *string          `json:"phone"`
	Address     *string          `json:"address"`
	CreditLimit *decimal.Decimal `json:"creditLimit" binding:"omitempty,decimal_gte0" swaggertype:"string"`
	IsActive    *bool            `json:"isActive"`
}

type CounterpartyResponse struct {
	CounterpartyID     string                  `json:"counterpartyID"`
	Kind               domain.CounterpartyKind `json:"kind"`
	Name               string                  `json:"name"`
	Email              string                  `json:"email"`
	Phone              string                  `json:"phone"`
	Address            string                  `json:"address"`
	OutstandingBalance decimal.Decimal         `json:"outstandingBalance" swaggertype:"string"`
	CreditBalance      decimal.Decimal         `json:"creditBalance" swaggertype:"string"`
	CreditLimit        decimal.Decimal         `json:"creditLimit" swaggertype:"string"`
	IsActive           bool                    `json:"isActive"`
	CreatedAt          time.Time               `json:"createdAt"`
	LastUpdatedAt      time.Time               `json:"lastUpdatedAt"`
}

func ToCounterpartyResponse(cp *domain.Counterparty) CounterpartyResponse {
	return CounterpartyResponse{
		CounterpartyID:     cp.CounterpartyID,
		Kind:               cp.Kind,
		Name:               cp.Name,
		Email:              cp.Email,
		Phone:              cp.Phone,
		Address:            cp.Address,
		OutstandingBalance: cp.OutstandingBalance,
		CreditBalance:      cp.CreditBalance,
		CreditLimit:        cp.CreditLimit,
		IsActive:           cp.IsActive,
		CreatedAt:          cp.CreatedAt,
		LastUpdatedAt:      cp.LastUpdatedAt,
	}
}

type ListCounterpartiesResponse struct {
	Counterparties []CounterpartyResponse `json:"counterparties"`
}

func ToListCounterpartiesResponse(cps []domain.Counterparty) ListCounterpartiesResponse {
	res := make([]CounterpartyResponse, len(cps))
	for i := range cps {
		res[i] = ToCounterpartyResponse(&cps[i])
	}
	return ListCounterpartiesResponse{Counterparties: res}
}
