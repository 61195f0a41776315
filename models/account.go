package models

import (
	"errors"
	"math"
)

// Account represents an account holder with a balance and the wagers it has placed
type Account struct {
	ID         uint64   `json:"id"`
	Username   string   `json:"username"`
	Balance    uint64   `json:"balance"`
	BetHistory []uint64 `json:"bet_history"`
}

// HasSufficientBalance checks if the account can cover an amount
func (a *Account) HasSufficientBalance(amount uint64) bool {
	return a.Balance >= amount
}

// Credit adds amount to the balance, failing instead of wrapping around
func (a *Account) Credit(amount uint64) error {
	if amount > math.MaxUint64-a.Balance {
		return errors.New("balance would overflow")
	}
	a.Balance += amount
	return nil
}

// Debit removes amount from the balance, failing if it would go negative
func (a *Account) Debit(amount uint64) error {
	if !a.HasSufficientBalance(amount) {
		return errors.New("insufficient balance")
	}
	a.Balance -= amount
	return nil
}

// RecordBet appends a wager id to the bet history
func (a *Account) RecordBet(wagerID uint64) {
	a.BetHistory = append(a.BetHistory, wagerID)
}

// HasBet checks if a wager id is present in the bet history
func (a *Account) HasBet(wagerID uint64) bool {
	for _, id := range a.BetHistory {
		if id == wagerID {
			return true
		}
	}
	return false
}
