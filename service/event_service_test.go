package service

import (
	"context"
	"testing"

	"sportsbook/events"
	"sportsbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEventService_CreateEvent(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockEventRepo := new(MockEventRepository)
	mockPublisher := new(MockEventPublisher)
	mockUoW.SetRepositories(nil, nil, mockEventRepo, nil, mockPublisher)

	service := NewEventService(mockFactory)

	payload := models.EventPayload{
		Name:         "Final",
		Participants: []string{"Reds", "Blues"},
		Odds:         []float64{1.8, 2.1},
	}
	created := &models.Event{
		ID:           3,
		Name:         "Final",
		Participants: []string{"Reds", "Blues"},
		Odds:         []float64{1.8, 2.1},
		Status:       models.EventStatusUpcoming,
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockEventRepo.On("Create", ctx, payload).Return(created, nil)
	mockPublisher.On("Publish", events.WageringEvent{Kind: events.EventTypeEventCreated, Event: *created}).Return()

	event, err := service.CreateEvent(ctx, payload)

	require.NoError(t, err)
	assert.Equal(t, models.EventStatusUpcoming, event.Status)
	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockEventRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestEventService_CreateEvent_InvalidPayload(t *testing.T) {
	ctx := context.Background()
	mockFactory := new(MockUnitOfWorkFactory)
	service := NewEventService(mockFactory)

	tests := []struct {
		name    string
		payload models.EventPayload
		want    string
	}{
		{
			name:    "blank name",
			payload: models.EventPayload{Name: "", Participants: []string{"a"}, Odds: []float64{1}},
			want:    "InvalidInput: Event name cannot be empty",
		},
		{
			name:    "no participants",
			payload: models.EventPayload{Name: "Final", Odds: []float64{1}},
			want:    "InvalidInput: Event must have at least one participant",
		},
		{
			name:    "no odds",
			payload: models.EventPayload{Name: "Final", Participants: []string{"a"}},
			want:    "InvalidInput: Event must have odds defined",
		},
		{
			name:    "unknown status",
			payload: models.EventPayload{Name: "Final", Participants: []string{"a"}, Odds: []float64{1}, Status: "Paused"},
			want:    `InvalidInput: Unknown event status "Paused"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := service.CreateEvent(ctx, tt.payload)
			assert.Nil(t, event)
			assert.EqualError(t, err, tt.want)
		})
	}

	mockFactory.AssertNotCalled(t, "Create")
}

func TestEventService_UpdateEventStatus(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockEventRepo := new(MockEventRepository)
	mockPublisher := new(MockEventPublisher)
	mockUoW.SetRepositories(nil, nil, mockEventRepo, nil, mockPublisher)

	service := NewEventService(mockFactory)

	existing := &models.Event{ID: 3, Name: "Final", Status: models.EventStatusUpcoming}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockEventRepo.On("Get", ctx, uint64(3)).Return(existing, nil)
	mockEventRepo.On("Save", ctx, mock.MatchedBy(func(e *models.Event) bool {
		return e.ID == 3 && e.Status == models.EventStatusOngoing
	})).Return(nil)
	mockPublisher.On("Publish", events.EventStatusChangedEvent{
		EventID:   3,
		OldStatus: models.EventStatusUpcoming,
		NewStatus: models.EventStatusOngoing,
	}).Return()

	event, err := service.UpdateEventStatus(ctx, 3, models.EventStatusOngoing)

	require.NoError(t, err)
	assert.Equal(t, models.EventStatusOngoing, event.Status)
	mockEventRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestEventService_UpdateEventStatus_NotFound(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockEventRepo := new(MockEventRepository)
	mockPublisher := new(MockEventPublisher)
	mockUoW.SetRepositories(nil, nil, mockEventRepo, nil, mockPublisher)

	service := NewEventService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockEventRepo.On("Get", ctx, uint64(77)).Return(nil, models.NotFound("An event with id=77 not found"))

	event, err := service.UpdateEventStatus(ctx, 77, models.EventStatusCompleted)

	assert.Nil(t, event)
	assert.EqualError(t, err, "NotFound: Event not found")
	mockEventRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	mockPublisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestEventService_DeleteEvent(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockEventRepo := new(MockEventRepository)
	mockPublisher := new(MockEventPublisher)
	mockUoW.SetRepositories(nil, nil, mockEventRepo, nil, mockPublisher)

	service := NewEventService(mockFactory)

	deleted := &models.Event{ID: 3, Name: "Final", Status: models.EventStatusCancelled}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockEventRepo.On("Delete", ctx, uint64(3)).Return(deleted, nil)
	mockPublisher.On("Publish", events.WageringEvent{Kind: events.EventTypeEventDeleted, Event: *deleted}).Return()

	event, err := service.DeleteEvent(ctx, 3)

	require.NoError(t, err)
	assert.Equal(t, deleted, event)
	mockUoW.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}
