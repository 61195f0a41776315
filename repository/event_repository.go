package repository

import (
	"context"
	"fmt"
	"math"

	"sportsbook/models"
	"sportsbook/service"
)

// eventRepository implements service.EventRepository over the event map
type eventRepository struct {
	store *Store
}

// NewEventRepository creates an event repository over store
func NewEventRepository(store *Store) service.EventRepository {
	return &eventRepository{store: store}
}

func statusOrDefault(status models.EventStatus) models.EventStatus {
	if status == "" {
		return models.EventStatusUpcoming
	}
	return status
}

func (r *eventRepository) Create(ctx context.Context, payload models.EventPayload) (*models.Event, error) {
	if err := service.ValidateEventPayload(payload); err != nil {
		return nil, err
	}

	event := models.Event{
		ID:           math.MaxInt64,
		Name:         payload.Name,
		Participants: payload.Participants,
		Odds:         payload.Odds,
		Status:       statusOrDefault(payload.Status),
	}
	// sized with the widest id so the insert below cannot overflow the bound
	if err := r.store.Events.Fits(event); err != nil {
		return nil, models.InvalidInput("event payload too large to store")
	}

	id, err := r.store.IDs.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate event id: %w", err)
	}
	event.ID = id

	if _, _, err := r.store.Events.Insert(ctx, id, event); err != nil {
		return nil, fmt.Errorf("failed to insert event %d: %w", id, err)
	}

	return &event, nil
}

func (r *eventRepository) find(ctx context.Context, id uint64) (*models.Event, error) {
	event, ok, err := r.store.Events.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}
	if !ok {
		return nil, nil
	}
	return &event, nil
}

func (r *eventRepository) Get(ctx context.Context, id uint64) (*models.Event, error) {
	event, err := r.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, models.NotFound("An event with id=%d not found", id)
	}
	return event, nil
}

func (r *eventRepository) Update(ctx context.Context, id uint64, payload models.EventPayload) (*models.Event, error) {
	if err := service.ValidateEventPayload(payload); err != nil {
		return nil, err
	}

	event, err := r.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, models.NotFound("Couldn't update an event with id=%d. Event not found", id)
	}

	event.Name = payload.Name
	event.Participants = payload.Participants
	event.Odds = payload.Odds
	event.Status = statusOrDefault(payload.Status)

	if err := r.Save(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (r *eventRepository) Delete(ctx context.Context, id uint64) (*models.Event, error) {
	event, existed, err := r.store.Events.Remove(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete event %d: %w", id, err)
	}
	if !existed {
		return nil, models.NotFound("Couldn't delete an event with id=%d. Event not found.", id)
	}
	return &event, nil
}

func (r *eventRepository) Save(ctx context.Context, event *models.Event) error {
	if _, _, err := r.store.Events.Insert(ctx, event.ID, *event); err != nil {
		return fmt.Errorf("failed to save event %d: %w", event.ID, err)
	}
	return nil
}

func (r *eventRepository) List(ctx context.Context, offset, limit int) ([]*models.Event, error) {
	return listMap(ctx, r.store.Events, offset, limit)
}

func (r *eventRepository) Count(ctx context.Context) (int, error) {
	n, err := r.store.Events.Len(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return n, nil
}
