package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date sent by a client.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a date in YYYY-MM-DD format", apperrors.ErrValidation, field)
	}
	return t, nil
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Step  string `json:"step,omitempty"`
}

// PageParams are the offset pagination query parameters.
type PageParams struct {
	Limit  int `form:"limit,default=20" binding:"gte=0,lte=200"`
	Offset int `form:"offset,default=0" binding:"gte=0"`
}
