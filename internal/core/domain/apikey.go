package domain

import "time"

type APIKey struct {
	ID         ID         `json:"id"`
	Name       string     `json:"name"`
	Key        string     `json:"key"`
	IsActive   bool       `json:"is_active"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// Masked hides all but the last four characters of the key.
func (k APIKey) Masked() string {
	if len(k.Key) <= 4 {
		return k.Key
	}
	masked := make([]byte, len(k.Key)-4)
	for i := range masked {
		masked[i] = '*'
	}
	return string(masked) + k.Key[len(k.Key)-4:]
}
