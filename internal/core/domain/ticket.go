package domain

import "time"

type TicketStatus string

const (
	TicketOpen      TicketStatus = "open"
	TicketPending   TicketStatus = "pending"
	TicketClosed    TicketStatus = "closed"
	TicketResolved  TicketStatus = "resolved"
	TicketCancelled TicketStatus = "cancelled"
)

// IsOpen reports whether the ticket still accepts replies.
func (s TicketStatus) IsOpen() bool {
	return s == TicketOpen || s == TicketPending
}

type TicketReply struct {
	Message   string    `json:"message"`
	IsStaff   bool      `json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
}

type SupportTicket struct {
	TicketID     ID            `json:"ticket_id"`
	Subject      string        `json:"subject"`
	Message      string        `json:"message"`
	Status       TicketStatus  `json:"status"`
	Priority     string        `json:"priority,omitempty"`
	RepliesCount int           `json:"replies_count"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    *time.Time    `json:"updated_at,omitempty"`
	Replies      []TicketReply `json:"replies,omitempty"`
}
