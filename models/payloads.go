package models

// BetPayload is the caller-supplied input for placing a wager
type BetPayload struct {
	UserID  uint64  `json:"user_id"`
	EventID uint64  `json:"event_id"`
	Amount  uint64  `json:"amount" validate:"gt=0"`
	Odds    float64 `json:"odds" validate:"gt=0"`
}

// AccountPayload is the caller-supplied input for creating or updating an account
type AccountPayload struct {
	Username string `json:"username" validate:"notblank"`
	Balance  uint64 `json:"balance"`
}

// EventPayload is the caller-supplied input for creating or updating an event.
// An empty Status means Upcoming.
type EventPayload struct {
	Name         string      `json:"name" validate:"notblank"`
	Participants []string    `json:"participants" validate:"min=1"`
	Odds         []float64   `json:"odds" validate:"min=1"`
	Status       EventStatus `json:"status"`
}
