package events

import (
	"context"
	"sync"

	"sportsbook/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeAccountCreated     EventType = "account_created"
	EventTypeAccountUpdated     EventType = "account_updated"
	EventTypeAccountDeleted     EventType = "account_deleted"
	EventTypeBalanceChange      EventType = "balance_change"
	EventTypeBetPlaced          EventType = "bet_placed"
	EventTypeBetStatusChanged   EventType = "bet_status_changed"
	EventTypeBetDeleted         EventType = "bet_deleted"
	EventTypeEventCreated       EventType = "event_created"
	EventTypeEventUpdated       EventType = "event_updated"
	EventTypeEventDeleted       EventType = "event_deleted"
	EventTypeEventStatusChanged EventType = "event_status_changed"
)

// AllEventTypes lists every event type the services publish
var AllEventTypes = []EventType{
	EventTypeAccountCreated,
	EventTypeAccountUpdated,
	EventTypeAccountDeleted,
	EventTypeBalanceChange,
	EventTypeBetPlaced,
	EventTypeBetStatusChanged,
	EventTypeBetDeleted,
	EventTypeEventCreated,
	EventTypeEventUpdated,
	EventTypeEventDeleted,
	EventTypeEventStatusChanged,
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeKind says why a balance moved
type BalanceChangeKind string

const (
	BalanceChangeDeposit  BalanceChangeKind = "deposit"
	BalanceChangeWithdraw BalanceChangeKind = "withdraw"
	BalanceChangeOverride BalanceChangeKind = "override"
)

// AccountEvent carries an account snapshot after a create, update or delete
type AccountEvent struct {
	Kind    EventType      `json:"-"`
	Account models.Account `json:"account"`
}

func (e AccountEvent) Type() EventType {
	return e.Kind
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	AccountID    uint64            `json:"account_id"`
	OldBalance   uint64            `json:"old_balance"`
	NewBalance   uint64            `json:"new_balance"`
	ChangeAmount uint64            `json:"change_amount"`
	Kind         BalanceChangeKind `json:"kind"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// BetPlacedEvent represents a wager that was placed
type BetPlacedEvent struct {
	Wager models.Wager `json:"wager"`
}

func (e BetPlacedEvent) Type() EventType {
	return EventTypeBetPlaced
}

// BetStatusChangedEvent represents a wager moving between statuses
type BetStatusChangedEvent struct {
	WagerID   uint64             `json:"wager_id"`
	AccountID uint64             `json:"user_id"`
	OldStatus models.WagerStatus `json:"old_status"`
	NewStatus models.WagerStatus `json:"new_status"`
}

func (e BetStatusChangedEvent) Type() EventType {
	return EventTypeBetStatusChanged
}

// BetDeletedEvent represents a wager that was removed
type BetDeletedEvent struct {
	Wager models.Wager `json:"wager"`
}

func (e BetDeletedEvent) Type() EventType {
	return EventTypeBetDeleted
}

// WageringEvent carries an event snapshot after a create, update or delete
type WageringEvent struct {
	Kind  EventType    `json:"-"`
	Event models.Event `json:"event"`
}

func (e WageringEvent) Type() EventType {
	return e.Kind
}

// EventStatusChangedEvent represents an event moving between statuses
type EventStatusChangedEvent struct {
	EventID   uint64             `json:"event_id"`
	OldStatus models.EventStatus `json:"old_status"`
	NewStatus models.EventStatus `json:"new_status"`
}

func (e EventStatusChangedEvent) Type() EventType {
	return EventTypeEventStatusChanged
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type on main event bus")
}

// SubscribeAll adds a handler for every known event type
func (b *Bus) SubscribeAll(handler Handler) {
	for _, eventType := range AllEventTypes {
		b.Subscribe(eventType, handler)
	}
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers on main event bus")

	// handlers run asynchronously so a slow subscriber never holds up a mutation
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds events raised inside a unit of work until it commits
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Adding event to transactional bus pending queue")
	b.pending = append(b.pending, e)
}

// Pending returns the events queued so far
func (b *TransactionalBus) Pending() []Event {
	return b.pending
}

// Flush emits pending events; called after a successful commit.
// Emission uses a background context so handlers outlive the request.
func (b *TransactionalBus) Flush(_ context.Context) error {
	log.WithFields(log.Fields{
		"pendingEventCount": len(b.pending),
	}).Debug("Flushing pending events from transactional bus to main event bus")

	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops pending events; called on rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
