package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SMSOffer is a rentable number for a given service and country.
type SMSOffer struct {
	Service   string          `json:"service"`
	Name      string          `json:"name"`
	Country   string          `json:"country"`
	Price     decimal.Decimal `json:"price"`
	Available int             `json:"available"`
}

type RentalStatus string

const (
	RentalWaiting   RentalStatus = "waiting"
	RentalReceived  RentalStatus = "received"
	RentalFinished  RentalStatus = "finished"
	RentalCancelled RentalStatus = "cancelled"
	RentalExpired   RentalStatus = "expired"
)

// Ended reports whether the rental can no longer receive messages.
func (s RentalStatus) Ended() bool {
	return s == RentalFinished || s == RentalCancelled || s == RentalExpired
}

type SMSRental struct {
	RentalID    ID              `json:"rental_id"`
	PhoneNumber string          `json:"phone_number"`
	Service     string          `json:"service"`
	Country     string          `json:"country"`
	Status      RentalStatus    `json:"status"`
	Code        string          `json:"code,omitempty"`
	Cost        decimal.Decimal `json:"cost"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
}

func (r SMSRental) HasCode() bool {
	return r.Code != ""
}
