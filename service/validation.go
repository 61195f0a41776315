package service

import (
	"errors"
	"fmt"
	"math"

	"sportsbook/models"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Pagination bounds for list operations
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("failed to register notblank validation: %v", err))
	}
	return v
}

// fieldMessages maps a failing payload field to the message reported to callers
var fieldMessages = map[string]string{
	"BetPayload.Amount":         "Bet amount must be greater than zero",
	"BetPayload.Odds":           "Odds must be greater than zero",
	"AccountPayload.Username":   "Username cannot be empty",
	"EventPayload.Name":         "Event name cannot be empty",
	"EventPayload.Participants": "Event must have at least one participant",
	"EventPayload.Odds":         "Event must have odds defined",
}

func checkStruct(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return models.InvalidInput("%v", err)
	}

	// first failing field in declaration order
	fe := fieldErrs[0]
	if msg, ok := fieldMessages[fe.StructNamespace()]; ok {
		return models.InvalidInput("%s", msg)
	}
	return models.InvalidInput("%s failed %s validation", fe.Field(), fe.Tag())
}

// ValidateBetPayload checks a bet payload before any mutation
func ValidateBetPayload(payload models.BetPayload) error {
	if math.IsNaN(payload.Odds) || math.IsInf(payload.Odds, 0) {
		return models.InvalidInput("Odds must be greater than zero")
	}
	return checkStruct(payload)
}

// ValidateAccountPayload checks an account payload before any mutation
func ValidateAccountPayload(payload models.AccountPayload) error {
	return checkStruct(payload)
}

// ValidateEventPayload checks an event payload before any mutation.
// An empty status is allowed and means Upcoming.
func ValidateEventPayload(payload models.EventPayload) error {
	if err := checkStruct(payload); err != nil {
		return err
	}
	if payload.Status != "" && !payload.Status.IsValid() {
		return models.InvalidInput("Unknown event status %q", payload.Status)
	}
	return nil
}

// ValidateWagerStatus checks a target wager status
func ValidateWagerStatus(status models.WagerStatus) error {
	if !status.IsValid() {
		return models.InvalidInput("Unknown bet status %q", status)
	}
	return nil
}

// ValidateEventStatus checks a target event status
func ValidateEventStatus(status models.EventStatus) error {
	if !status.IsValid() {
		return models.InvalidInput("Unknown event status %q", status)
	}
	return nil
}

// ValidateAmount rejects zero amounts with the given message
func ValidateAmount(amount uint64, msg string) error {
	if amount == 0 {
		return models.InvalidInput("%s", msg)
	}
	return nil
}

// NormalizePage applies list defaults and rejects negative bounds
func NormalizePage(offset, limit int) (int, int, error) {
	if offset < 0 {
		return 0, 0, models.InvalidInput("offset must not be negative")
	}
	if limit < 0 {
		return 0, 0, models.InvalidInput("limit must not be negative")
	}
	if limit == 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return offset, limit, nil
}
