package models

import (
	"fmt"
	"strings"
	"time"
)

// WagerStatus represents the settlement state of a wager
type WagerStatus string

const (
	WagerStatusPending   WagerStatus = "Pending"
	WagerStatusWon       WagerStatus = "Won"
	WagerStatusLost      WagerStatus = "Lost"
	WagerStatusCancelled WagerStatus = "Cancelled"
)

// WagerStatuses lists every known wager status in declaration order
var WagerStatuses = []WagerStatus{
	WagerStatusPending,
	WagerStatusWon,
	WagerStatusLost,
	WagerStatusCancelled,
}

// ParseWagerStatus parses a status name case-insensitively
func ParseWagerStatus(s string) (WagerStatus, error) {
	for _, status := range WagerStatuses {
		if strings.EqualFold(string(status), strings.TrimSpace(s)) {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown wager status %q", s)
}

// IsValid reports whether the status is one of the known values
func (s WagerStatus) IsValid() bool {
	for _, status := range WagerStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsSettled reports whether the wager has reached an outcome.
// Nothing prevents a settled wager from being moved again; this is informational only.
func (s WagerStatus) IsSettled() bool {
	return s == WagerStatusWon || s == WagerStatusLost || s == WagerStatusCancelled
}

// Wager represents a stake placed by an account on an event
type Wager struct {
	ID        uint64      `json:"id"`
	AccountID uint64      `json:"user_id"`
	EventID   uint64      `json:"event_id"`
	Amount    uint64      `json:"amount"`
	Odds      float64     `json:"odds"`
	Status    WagerStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt *time.Time  `json:"updated_at,omitempty"`
}

// PotentialPayout returns the gross payout if the wager wins, rounded down
func (w *Wager) PotentialPayout() uint64 {
	if w.Odds <= 0 {
		return 0
	}
	return uint64(float64(w.Amount) * w.Odds)
}

// IsPending checks if the wager is still awaiting an outcome
func (w *Wager) IsPending() bool {
	return w.Status == WagerStatusPending
}
