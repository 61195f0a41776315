package service

import (
	"context"
	"fmt"

	"sportsbook/events"
	"sportsbook/models"

	log "github.com/sirupsen/logrus"
)

// eventService implements the EventService interface
type eventService struct {
	uowFactory UnitOfWorkFactory
}

// NewEventService creates a new wagering event service
func NewEventService(uowFactory UnitOfWorkFactory) EventService {
	return &eventService{
		uowFactory: uowFactory,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, payload models.EventPayload) (*models.Event, error) {
	if err := ValidateEventPayload(payload); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	event, err := uow.EventRepository().Create(ctx, payload)
	if err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.WageringEvent{Kind: events.EventTypeEventCreated, Event: *event})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit unit of work: %w", err)
	}

	log.WithFields(log.Fields{
		"eventID":      event.ID,
		"name":         event.Name,
		"participants": len(event.Participants),
	}).Info("Event created")

	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id uint64) (*models.Event, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	return uow.EventRepository().Get(ctx, id)
}

func (s *eventService) UpdateEvent(ctx context.Context, id uint64, payload models.EventPayload) (*models.Event, error) {
	if err := ValidateEventPayload(payload); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	event, err := uow.EventRepository().Update(ctx, id, payload)
	if err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.WageringEvent{Kind: events.EventTypeEventUpdated, Event: *event})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit unit of work: %w", err)
	}

	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id uint64) (*models.Event, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	event, err := uow.EventRepository().Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.WageringEvent{Kind: events.EventTypeEventDeleted, Event: *event})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit unit of work: %w", err)
	}

	log.WithField("eventID", id).Info("Event deleted")
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, offset, limit int) (*models.Page[models.Event], error) {
	offset, limit, err := NormalizePage(offset, limit)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	items, err := uow.EventRepository().List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	total, err := uow.EventRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	return &models.Page[models.Event]{Items: items, Total: total, Offset: offset, Limit: limit}, nil
}

func (s *eventService) UpdateEventStatus(ctx context.Context, id uint64, status models.EventStatus) (*models.Event, error) {
	if err := ValidateEventStatus(status); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	event, err := uow.EventRepository().Get(ctx, id)
	if err != nil {
		if models.KindOf(err) == models.ErrorKindNotFound {
			return nil, models.NotFound("Event not found")
		}
		return nil, err
	}

	oldStatus := event.Status
	event.Status = status
	if err := uow.EventRepository().Save(ctx, event); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.EventStatusChangedEvent{
		EventID:   event.ID,
		OldStatus: oldStatus,
		NewStatus: status,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit unit of work: %w", err)
	}

	log.WithFields(log.Fields{
		"eventID":   id,
		"oldStatus": oldStatus,
		"newStatus": status,
	}).Info("Event status updated")

	return event, nil
}
