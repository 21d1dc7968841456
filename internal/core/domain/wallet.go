package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletSummary is a snapshot re-fetched on demand.
type WalletSummary struct {
	Balance       decimal.Decimal `json:"balance"`
	TotalDeposits decimal.Decimal `json:"total_deposits"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
}

type TransactionType string

const (
	TransactionDeposit TransactionType = "deposit"
	TransactionOrder   TransactionType = "order"
	TransactionRefund  TransactionType = "refund"
	TransactionBonus   TransactionType = "bonus"
)

// Credit reports whether the transaction added funds.
func (t TransactionType) Credit() bool {
	switch t {
	case TransactionDeposit, TransactionRefund, TransactionBonus:
		return true
	}
	return false
}

type Transaction struct {
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// BonusQuote is the server-computed deposit incentive for Amount.
type BonusQuote struct {
	Amount          decimal.Decimal `json:"amount"`
	BonusPercentage decimal.Decimal `json:"bonus_percentage"`
	BonusAmount     decimal.Decimal `json:"bonus_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

// NoBonus is the quote for amounts the server is not asked about.
func NoBonus(amount decimal.Decimal) BonusQuote {
	return BonusQuote{Amount: amount, TotalAmount: amount}
}
