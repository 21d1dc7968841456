package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is reported by the server; the client never drives transitions.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderInProgress OrderStatus = "in_progress"
	OrderCompleted  OrderStatus = "completed"
	OrderPartial    OrderStatus = "partial"
	OrderFailed     OrderStatus = "failed"
	OrderCancelled  OrderStatus = "cancelled"
)

// Tone is the rendering category of a status.
type Tone string

const (
	ToneWaiting Tone = "waiting"
	ToneActive  Tone = "active"
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneDanger  Tone = "danger"
	ToneNeutral Tone = "neutral"
)

var orderTones = map[OrderStatus]Tone{
	OrderPending:    ToneWaiting,
	OrderProcessing: ToneActive,
	OrderInProgress: ToneActive,
	OrderCompleted:  ToneSuccess,
	OrderPartial:    ToneWarning,
	OrderFailed:     ToneDanger,
	OrderCancelled:  ToneDanger,
}

// Tone maps the status to how it should be shown. Unknown values are neutral.
func (s OrderStatus) Tone() Tone {
	if t, ok := orderTones[s]; ok {
		return t
	}
	return ToneNeutral
}

// Known reports whether s belongs to the closed status set.
func (s OrderStatus) Known() bool {
	_, ok := orderTones[s]
	return ok
}

// Terminal reports whether the server will not move the order any further.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderCompleted, OrderPartial, OrderFailed, OrderCancelled:
		return true
	}
	return false
}

// Order is a read-only snapshot of a placed order.
type Order struct {
	OrderID     ID              `json:"order_id"`
	ServiceName string          `json:"service_name"`
	Link        string          `json:"link"`
	Quantity    int             `json:"quantity"`
	StartCount  int             `json:"start_count"`
	Remains     int             `json:"remains"`
	Charge      decimal.Decimal `json:"charge"`
	Status      OrderStatus     `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// Delivered is the amount already served, clamped to [0, Quantity].
func (o Order) Delivered() int {
	d := o.Quantity - o.Remains
	if d < 0 {
		return 0
	}
	if d > o.Quantity {
		return o.Quantity
	}
	return d
}

// PlacedOrder is the answer to an order creation.
type PlacedOrder struct {
	OrderID    ID              `json:"order_id"`
	Charge     decimal.Decimal `json:"charge"`
	NewBalance decimal.Decimal `json:"new_balance"`
	Message    string          `json:"message,omitempty"`
}
