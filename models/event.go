package models

import (
	"fmt"
	"strings"
)

// EventStatus represents the lifecycle state of a wagering event
type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "Upcoming"
	EventStatusOngoing   EventStatus = "Ongoing"
	EventStatusCompleted EventStatus = "Completed"
	EventStatusCancelled EventStatus = "Cancelled"
)

// EventStatuses lists every known event status in declaration order
var EventStatuses = []EventStatus{
	EventStatusUpcoming,
	EventStatusOngoing,
	EventStatusCompleted,
	EventStatusCancelled,
}

// ParseEventStatus parses a status name case-insensitively
func ParseEventStatus(s string) (EventStatus, error) {
	for _, status := range EventStatuses {
		if strings.EqualFold(string(status), strings.TrimSpace(s)) {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown event status %q", s)
}

// IsValid reports whether the status is one of the known values
func (s EventStatus) IsValid() bool {
	for _, status := range EventStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Event represents something that can be wagered on
type Event struct {
	ID           uint64      `json:"id"`
	Name         string      `json:"name"`
	Participants []string    `json:"participants"`
	Odds         []float64   `json:"odds"`
	Status       EventStatus `json:"status"`
}

// OddsFor returns the odds listed at the participant's position.
// Participants and odds are not required to line up, so the lookup can miss.
func (e *Event) OddsFor(participant string) (float64, bool) {
	for i, p := range e.Participants {
		if p == participant {
			if i < len(e.Odds) {
				return e.Odds[i], true
			}
			return 0, false
		}
	}
	return 0, false
}
