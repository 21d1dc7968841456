package domain

import "github.com/shopspring/decimal"

type PaymentMethod string

const (
	PaymentInvoice PaymentMethod = "invoice"
	PaymentStatic  PaymentMethod = "static"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentCancel  PaymentStatus = "cancel"
	PaymentFail    PaymentStatus = "fail"
)

// IsFinal reports whether no further transition is expected.
func (s PaymentStatus) IsFinal() bool {
	return s == PaymentPaid || s == PaymentCancel || s == PaymentFail
}

// Payment is a created deposit. Invoice payments carry a URL, static ones a
// wallet address.
type Payment struct {
	OrderID    ID              `json:"order_id"`
	Method     PaymentMethod   `json:"payment_method"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Network    string          `json:"network"`
	PaymentURL string          `json:"payment_url,omitempty"`
	Address    string          `json:"address,omitempty"`
	Status     PaymentStatus   `json:"status"`
}

// Destination is where the user has to send funds.
func (p Payment) Destination() string {
	if p.PaymentURL != "" {
		return p.PaymentURL
	}
	return p.Address
}

// PaymentState is one answer from the status endpoint.
type PaymentState struct {
	OrderID ID            `json:"order_id"`
	Status  PaymentStatus `json:"status"`
	IsFinal bool          `json:"is_final"`
}

// Final trusts the server flag and falls back to the status set.
func (s PaymentState) Final() bool {
	return s.IsFinal || s.Status.IsFinal()
}
