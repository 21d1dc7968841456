package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var thousand = decimal.NewFromInt(1000)

// Service is an orderable SMM product. Rate is the price per 1000 units.
type Service struct {
	ID          ID              `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Rate        decimal.Decimal `json:"rate"`
	Min         int             `json:"min"`
	Max         int             `json:"max"`
	Description string          `json:"description,omitempty"`
}

// EstimateCharge returns the expected charge for quantity units, rounded to
// cents. The server's charge is authoritative.
func (s Service) EstimateCharge(quantity int) decimal.Decimal {
	return s.Rate.Mul(decimal.NewFromInt(int64(quantity))).Div(thousand).Round(2)
}

// CheckQuantity enforces the service's min/max bounds. Zero bounds are unset.
func (s Service) CheckQuantity(quantity int) error {
	if s.Min > 0 && quantity < s.Min {
		return fmt.Errorf("%w: quantity must be at least %d", ErrValidation, s.Min)
	}
	if s.Max > 0 && quantity > s.Max {
		return fmt.Errorf("%w: quantity must be at most %d", ErrValidation, s.Max)
	}
	return nil
}
