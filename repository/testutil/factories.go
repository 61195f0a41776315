package testutil

import (
	"fmt"

	"sportsbook/models"
)

// CreateTestAccountPayload creates an account payload with default values
func CreateTestAccountPayload(username string) models.AccountPayload {
	return models.AccountPayload{
		Username: username,
		Balance:  100000,
	}
}

// CreateTestAccountPayloadWithBalance creates an account payload with a specific balance
func CreateTestAccountPayloadWithBalance(username string, balance uint64) models.AccountPayload {
	payload := CreateTestAccountPayload(username)
	payload.Balance = balance
	return payload
}

// CreateTestEventPayload creates a two-sided event payload
func CreateTestEventPayload(name string) models.EventPayload {
	return models.EventPayload{
		Name:         name,
		Participants: []string{"Home", "Away"},
		Odds:         []float64{1.9, 2.1},
	}
}

// CreateTestEventPayloadWithParticipants creates an event payload with even odds per participant
func CreateTestEventPayloadWithParticipants(name string, participants int) models.EventPayload {
	payload := models.EventPayload{Name: name}
	for i := 0; i < participants; i++ {
		payload.Participants = append(payload.Participants, fmt.Sprintf("Participant %d", i+1))
		payload.Odds = append(payload.Odds, float64(participants))
	}
	return payload
}

// CreateTestBetPayload creates a bet payload for an account and event
func CreateTestBetPayload(accountID, eventID uint64, amount uint64) models.BetPayload {
	return models.BetPayload{
		UserID:  accountID,
		EventID: eventID,
		Amount:  amount,
		Odds:    2.0,
	}
}
