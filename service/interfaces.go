package service

import (
	"context"

	"sportsbook/events"
	"sportsbook/models"
)

// WagerRepository defines the interface for wager data access
type WagerRepository interface {
	// Create validates the payload, allocates an id and stores a Pending wager
	Create(ctx context.Context, payload models.BetPayload) (*models.Wager, error)

	// Get retrieves a wager by id, failing with NotFound when absent
	Get(ctx context.Context, id uint64) (*models.Wager, error)

	// UpdateStatus overwrites the status and stamps UpdatedAt
	UpdateStatus(ctx context.Context, id uint64, status models.WagerStatus) (*models.Wager, error)

	// Delete removes a wager and returns it
	Delete(ctx context.Context, id uint64) (*models.Wager, error)

	// Find returns the wager stored at id, or nil when there is none
	Find(ctx context.Context, id uint64) (*models.Wager, error)

	// List returns wagers in ascending id order
	List(ctx context.Context, offset, limit int) ([]*models.Wager, error)

	// Count returns the number of stored wagers
	Count(ctx context.Context) (int, error)
}

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// Create validates the payload, allocates an id and stores the account
	Create(ctx context.Context, payload models.AccountPayload) (*models.Account, error)

	// Get retrieves an account by id, failing with NotFound when absent
	Get(ctx context.Context, id uint64) (*models.Account, error)

	// Update overwrites username and balance
	Update(ctx context.Context, id uint64, payload models.AccountPayload) (*models.Account, error)

	// Delete removes an account and returns it
	Delete(ctx context.Context, id uint64) (*models.Account, error)

	// Save re-inserts a mutated account
	Save(ctx context.Context, account *models.Account) error

	// Fits checks that the account can be stored without exceeding the value bound
	Fits(account *models.Account) error

	// List returns accounts in ascending id order
	List(ctx context.Context, offset, limit int) ([]*models.Account, error)

	// Count returns the number of stored accounts
	Count(ctx context.Context) (int, error)
}

// EventRepository defines the interface for event data access
type EventRepository interface {
	// Create validates the payload, allocates an id and stores the event
	Create(ctx context.Context, payload models.EventPayload) (*models.Event, error)

	// Get retrieves an event by id, failing with NotFound when absent
	Get(ctx context.Context, id uint64) (*models.Event, error)

	// Update overwrites every mutable field from the payload
	Update(ctx context.Context, id uint64, payload models.EventPayload) (*models.Event, error)

	// Delete removes an event and returns it
	Delete(ctx context.Context, id uint64) (*models.Event, error)

	// Save re-inserts a mutated event
	Save(ctx context.Context, event *models.Event) error

	// List returns events in ascending id order
	List(ctx context.Context, offset, limit int) ([]*models.Event, error)

	// Count returns the number of stored events
	Count(ctx context.Context) (int, error)
}

// IDAllocator hands out ids shared by every entity type
type IDAllocator interface {
	Next(ctx context.Context) (uint64, error)
	Peek(ctx context.Context) (uint64, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// WagerService defines the interface for wager operations
type WagerService interface {
	// PlaceBet creates a wager for an existing account and records it in the bet history
	PlaceBet(ctx context.Context, payload models.BetPayload) (*models.Wager, error)

	// GetBet returns a single wager
	GetBet(ctx context.Context, id uint64) (*models.Wager, error)

	// UpdateBetStatus moves a wager to any status
	UpdateBetStatus(ctx context.Context, id uint64, status models.WagerStatus) (*models.Wager, error)

	// DeleteBet removes a wager, leaving bet histories untouched
	DeleteBet(ctx context.Context, id uint64) (*models.Wager, error)

	// ListBets returns a page of wagers
	ListBets(ctx context.Context, offset, limit int) (*models.Page[models.Wager], error)

	// ListUserBets returns an account's wagers in bet history order, skipping deleted ones
	ListUserBets(ctx context.Context, accountID uint64) ([]*models.Wager, error)
}

// AccountService defines the interface for account operations
type AccountService interface {
	CreateAccount(ctx context.Context, payload models.AccountPayload) (*models.Account, error)
	GetAccount(ctx context.Context, id uint64) (*models.Account, error)
	UpdateAccount(ctx context.Context, id uint64, payload models.AccountPayload) (*models.Account, error)
	DeleteAccount(ctx context.Context, id uint64) (*models.Account, error)
	ListAccounts(ctx context.Context, offset, limit int) (*models.Page[models.Account], error)

	// Deposit credits a positive amount to the account
	Deposit(ctx context.Context, accountID uint64, amount uint64) (*models.Account, error)

	// Withdraw debits a positive amount, refusing to overdraw
	Withdraw(ctx context.Context, accountID uint64, amount uint64) (*models.Account, error)
}

// EventService defines the interface for wagering event operations
type EventService interface {
	CreateEvent(ctx context.Context, payload models.EventPayload) (*models.Event, error)
	GetEvent(ctx context.Context, id uint64) (*models.Event, error)
	UpdateEvent(ctx context.Context, id uint64, payload models.EventPayload) (*models.Event, error)
	DeleteEvent(ctx context.Context, id uint64) (*models.Event, error)
	ListEvents(ctx context.Context, offset, limit int) (*models.Page[models.Event], error)

	// UpdateEventStatus overwrites the event status
	UpdateEventStatus(ctx context.Context, id uint64, status models.EventStatus) (*models.Event, error)
}

// UnitOfWork defines the interface for serialized repository operations.
// Begin blocks until no other unit of work is active.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	WagerRepository() WagerRepository
	AccountRepository() AccountRepository
	EventRepository() EventRepository
	IDAllocator() IDAllocator
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
