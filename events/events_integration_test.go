package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"sportsbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEventDeliveryIntegration tests the complete event flow from TransactionalBus to main Bus
func TestEventDeliveryIntegration(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	eventReceived := make(chan BalanceChangeEvent, 1)
	mainBus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, event Event) {
		if balanceEvent, ok := event.(BalanceChangeEvent); ok {
			eventReceived <- balanceEvent
		} else {
			t.Errorf("Expected BalanceChangeEvent, got %T", event)
		}
	})

	testEvent := BalanceChangeEvent{
		AccountID:    1,
		OldBalance:   100,
		NewBalance:   150,
		ChangeAmount: 50,
		Kind:         BalanceChangeDeposit,
	}

	transactionalBus.Publish(testEvent)
	assert.Len(t, transactionalBus.Pending(), 1)

	require.NoError(t, transactionalBus.Flush(context.Background()))
	assert.Empty(t, transactionalBus.Pending())

	select {
	case received := <-eventReceived:
		assert.Equal(t, testEvent, received)
	case <-time.After(2 * time.Second):
		t.Fatal("Event was not received within timeout")
	}
}

// TestMultipleEventsDelivery tests delivering multiple events in sequence
func TestMultipleEventsDelivery(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	eventsReceived := make(chan BetPlacedEvent, 3)
	mainBus.Subscribe(EventTypeBetPlaced, func(ctx context.Context, event Event) {
		if placed, ok := event.(BetPlacedEvent); ok {
			eventsReceived <- placed
		}
	})

	for id := uint64(1); id <= 3; id++ {
		transactionalBus.Publish(BetPlacedEvent{Wager: models.Wager{ID: id, Amount: id * 10}})
	}
	require.NoError(t, transactionalBus.Flush(context.Background()))

	// order may vary because handlers run on their own goroutines
	ids := make(map[uint64]bool)
	for i := 0; i < 3; i++ {
		select {
		case placed := <-eventsReceived:
			ids[placed.Wager.ID] = true
		case <-time.After(2 * time.Second):
			t.Fatalf("Only received %d out of 3 events", len(ids))
		}
	}

	assert.True(t, ids[1])
	assert.True(t, ids[2])
	assert.True(t, ids[3])
}

// TestTransactionalBusDiscard tests that discarded events are not delivered
func TestTransactionalBusDiscard(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	eventReceived := make(chan bool, 1)
	mainBus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, event Event) {
		eventReceived <- true
	})

	transactionalBus.Publish(BalanceChangeEvent{AccountID: 1, OldBalance: 10, NewBalance: 5, ChangeAmount: 5, Kind: BalanceChangeWithdraw})
	transactionalBus.Discard()

	select {
	case <-eventReceived:
		t.Fatal("Event was received despite being discarded")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSubscribeAll(t *testing.T) {
	mainBus := NewBus()

	var mu sync.Mutex
	seen := make(map[EventType]bool)
	var wg sync.WaitGroup
	wg.Add(3)
	mainBus.SubscribeAll(func(ctx context.Context, event Event) {
		defer wg.Done()
		mu.Lock()
		seen[event.Type()] = true
		mu.Unlock()
	})

	mainBus.Emit(context.Background(), AccountEvent{Kind: EventTypeAccountCreated})
	mainBus.Emit(context.Background(), WageringEvent{Kind: EventTypeEventDeleted})
	mainBus.Emit(context.Background(), EventStatusChangedEvent{EventID: 2})
	wg.Wait()

	assert.True(t, seen[EventTypeAccountCreated])
	assert.True(t, seen[EventTypeEventDeleted])
	assert.True(t, seen[EventTypeEventStatusChanged])
}

func TestEmitRecoversFromPanickingHandler(t *testing.T) {
	mainBus := NewBus()

	done := make(chan struct{})
	mainBus.Subscribe(EventTypeBetDeleted, func(ctx context.Context, event Event) {
		panic("boom")
	})
	mainBus.Subscribe(EventTypeBetDeleted, func(ctx context.Context, event Event) {
		close(done)
	})

	mainBus.Emit(context.Background(), BetDeletedEvent{})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second handler did not run")
	}
}
