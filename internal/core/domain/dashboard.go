package domain

import "github.com/shopspring/decimal"

type DashboardStats struct {
	TotalOrders     int             `json:"total_orders"`
	TotalSpent      decimal.Decimal `json:"total_spent"`
	ActiveOrders    int             `json:"active_orders"`
	CompletedOrders int             `json:"completed_orders"`
	WalletBalance   decimal.Decimal `json:"wallet_balance"`
	OpenTickets     int             `json:"open_tickets"`
}

// Overview is everything the dashboard renders at once.
type Overview struct {
	Stats        DashboardStats
	Wallet       WalletSummary
	RecentOrders []Order
}
