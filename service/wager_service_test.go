package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"sportsbook/events"
	"sportsbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type wagerMocks struct {
	uow      *MockUnitOfWork
	factory  *MockUnitOfWorkFactory
	wagers   *MockWagerRepository
	accounts *MockAccountRepository
	ids      *MockIDAllocator
	bus      *MockEventPublisher
}

func newWagerMocks() *wagerMocks {
	m := &wagerMocks{
		uow:      new(MockUnitOfWork),
		factory:  new(MockUnitOfWorkFactory),
		wagers:   new(MockWagerRepository),
		accounts: new(MockAccountRepository),
		ids:      new(MockIDAllocator),
		bus:      new(MockEventPublisher),
	}
	m.uow.SetRepositories(m.wagers, m.accounts, nil, m.ids, m.bus)
	m.factory.On("Create").Return(m.uow)
	return m
}

func (m *wagerMocks) assertExpectations(t *testing.T) {
	m.factory.AssertExpectations(t)
	m.uow.AssertExpectations(t)
	m.wagers.AssertExpectations(t)
	m.accounts.AssertExpectations(t)
	m.ids.AssertExpectations(t)
	m.bus.AssertExpectations(t)
}

func TestWagerService_PlaceBet_Success(t *testing.T) {
	ctx := context.Background()
	m := newWagerMocks()
	service := NewWagerService(m.factory, WagerServiceOptions{})

	payload := models.BetPayload{UserID: 1, EventID: 5, Amount: 100, Odds: 2.5}
	account := &models.Account{ID: 1, Username: "alice", Balance: 1000, BetHistory: []uint64{}}
	created := &models.Wager{
		ID:        6,
		AccountID: 1,
		EventID:   5,
		Amount:    100,
		Odds:      2.5,
		Status:    models.WagerStatusPending,
		CreatedAt: time.Now(),
	}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)

	m.accounts.On("Get", ctx, uint64(1)).Return(account, nil)
	m.ids.On("Peek", ctx).Return(uint64(6), nil)
	m.accounts.On("Fits", mock.MatchedBy(func(a *models.Account) bool {
		return a.ID == 1 && len(a.BetHistory) == 1 && a.BetHistory[0] == 6
	})).Return(nil)
	m.wagers.On("Create", ctx, payload).Return(created, nil)
	m.accounts.On("Save", ctx, mock.MatchedBy(func(a *models.Account) bool {
		return a.ID == 1 && a.HasBet(6)
	})).Return(nil)
	m.bus.On("Publish", events.BetPlacedEvent{Wager: *created}).Return()

	wager, err := service.PlaceBet(ctx, payload)

	require.NoError(t, err)
	assert.Equal(t, uint64(6), wager.ID)
	assert.Equal(t, models.WagerStatusPending, wager.Status)
	assert.Equal(t, []uint64{6}, account.BetHistory)

	m.assertExpectations(t)
}

func TestWagerService_PlaceBet_InvalidPayload(t *testing.T) {
	ctx := context.Background()
	m := newWagerMocks()
	service := NewWagerService(m.factory, WagerServiceOptions{})

	tests := []struct {
		name    string
		payload models.BetPayload
		msg     string
	}{
		{"zero amount", models.BetPayload{UserID: 1, Amount: 0, Odds: 2}, "Bet amount must be greater than zero"},
		{"zero odds", models.BetPayload{UserID: 1, Amount: 10, Odds: 0}, "Odds must be greater than zero"},
		{"negative odds", models.BetPayload{UserID: 1, Amount: 10, Odds: -1.5}, "Odds must be greater than zero"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wager, err := service.PlaceBet(ctx, tt.payload)

			assert.Nil(t, wager)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
			var domainErr *models.Error
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, tt.msg, domainErr.Msg)
		})
	}

	m.factory.AssertNotCalled(t, "Create")
}

func TestWagerService_PlaceBet_AccountNotFound(t *testing.T) {
	ctx := context.Background()
	m := newWagerMocks()
	service := NewWagerService(m.factory, WagerServiceOptions{})

	payload := models.BetPayload{UserID: 7, EventID: 1, Amount: 10, Odds: 1.5}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.accounts.On("Get", ctx, uint64(7)).Return(nil, models.NotFound("A user with id=7 not found"))

	wager, err := service.PlaceBet(ctx, payload)

	assert.Nil(t, wager)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.EqualError(t, err, "NotFound: User with id=7 not found")

	m.wagers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.ids.AssertNotCalled(t, "Peek", mock.Anything)
	m.uow.AssertNotCalled(t, "Commit")
	m.bus.AssertNotCalled(t, "Publish", mock.Anything)
	m.assertExpectations(t)
}

func TestWagerService_PlaceBet_HistoryTooLarge(t *testing.T) {
	ctx := context.Background()
	m := newWagerMocks()
	service := NewWagerService(m.factory, WagerServiceOptions{})

	payload := models.BetPayload{UserID: 1, EventID: 1, Amount: 10, Odds: 1.5}
	account := &models.Account{ID: 1, Username: "alice", Balance: 10}
	tooLarge := errors.New("value exceeds maximum size")

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.accounts.On("Get", ctx, uint64(1)).Return(account, nil)
	m.ids.On("Peek", ctx).Return(uint64(2), nil)
	m.accounts.On("Fits", mock.Anything).Return(tooLarge)

	wager, err := service.PlaceBet(ctx, payload)

	assert.Nil(t, wager)
	assert.ErrorIs(t, err, tooLarge)
	assert.Empty(t, account.BetHistory)

	m.wagers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.accounts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestWagerService_PlaceBet_LegacyOrderKeepsOrphanWager(t *testing.T) {
	ctx := context.Background()
	m := newWagerMocks()
	service := NewWagerService(m.factory, WagerServiceOptions{LegacyPlaceBetOrder: true})

	payload := models.BetPayload{UserID: 9, EventID: 1, Amount: 10, Odds: 1.5}
	created := &models.Wager{ID: 3, AccountID: 9, EventID: 1, Amount: 10, Odds: 1.5, Status: models.WagerStatusPending}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.wagers.On("Create", ctx, payload).Return(created, nil)
	m.accounts.On("Get", ctx, uint64(9)).Return(nil, models.NotFound("A user with id=9 not found"))

	wager, err := service.PlaceBet(ctx, payload)

	assert.Nil(t, wager)
	assert.EqualError(t, err, "NotFound: User with id=9 not found")

	m.wagers.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	m.ids.AssertNotCalled(t, "Peek", mock.Anything)
	m.uow.AssertNotCalled(t, "Commit")
	m.assertExpectations(t)
}

func TestWagerService_UpdateBetStatus(t *testing.T) {
	ctx := context.Background()
	m := newWagerMocks()
	service := NewWagerService(m.factory, WagerServiceOptions{})

	current := &models.Wager{ID: 4, AccountID: 1, Status: models.WagerStatusPending}
	updated := &models.Wager{ID: 4, AccountID: 1, Status: models.WagerStatusWon}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.wagers.On("Find", ctx, uint64(4)).Return(current, nil)
	m.wagers.On("UpdateStatus", ctx, uint64(4), models.WagerStatusWon).Return(updated, nil)
	m.bus.On("Publish", events.BetStatusChangedEvent{
		WagerID:   4,
		AccountID: 1,
		OldStatus: models.WagerStatusPending,
		NewStatus: models.WagerStatusWon,
	}).Return()

	wager, err := service.UpdateBetStatus(ctx, 4, models.WagerStatusWon)

	require.NoError(t, err)
	assert.Equal(t, models.WagerStatusWon, wager.Status)
	m.assertExpectations(t)
}

func TestWagerService_UpdateBetStatus_NotFound(t *testing.T) {
	ctx := context.Background()
	m := newWagerMocks()
	service := NewWagerService(m.factory, WagerServiceOptions{})

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.wagers.On("Find", ctx, uint64(42)).Return(nil, nil)
	m.wagers.On("UpdateStatus", ctx, uint64(42), models.WagerStatusLost).
		Return(nil, models.NotFound("Couldn't update a bet with id=42. Bet not found"))

	wager, err := service.UpdateBetStatus(ctx, 42, models.WagerStatusLost)

	assert.Nil(t, wager)
	assert.ErrorIs(t, err, models.ErrNotFound)
	m.bus.AssertNotCalled(t, "Publish", mock.Anything)
	m.assertExpectations(t)
}

func TestWagerService_UpdateBetStatus_UnknownStatus(t *testing.T) {
	ctx := context.Background()
	m := newWagerMocks()
	service := NewWagerService(m.factory, WagerServiceOptions{})

	wager, err := service.UpdateBetStatus(ctx, 1, models.WagerStatus("Void"))

	assert.Nil(t, wager)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	m.factory.AssertNotCalled(t, "Create")
}

func TestWagerService_DeleteBet(t *testing.T) {
	ctx := context.Background()
	m := newWagerMocks()
	service := NewWagerService(m.factory, WagerServiceOptions{})

	deleted := &models.Wager{ID: 8, AccountID: 2, Status: models.WagerStatusLost}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.wagers.On("Delete", ctx, uint64(8)).Return(deleted, nil)
	m.bus.On("Publish", events.BetDeletedEvent{Wager: *deleted}).Return()

	wager, err := service.DeleteBet(ctx, 8)

	require.NoError(t, err)
	assert.Equal(t, deleted, wager)
	m.accounts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestWagerService_ListBets(t *testing.T) {
	ctx := context.Background()
	m := newWagerMocks()
	service := NewWagerService(m.factory, WagerServiceOptions{})

	items := []*models.Wager{{ID: 2}, {ID: 3}}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.wagers.On("List", ctx, 0, DefaultPageLimit).Return(items, nil)
	m.wagers.On("Count", ctx).Return(2, nil)

	page, err := service.ListBets(ctx, 0, 0)

	require.NoError(t, err)
	assert.Equal(t, items, page.Items)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, DefaultPageLimit, page.Limit)
	m.assertExpectations(t)
}

func TestWagerService_ListUserBets_SkipsDeletedWagers(t *testing.T) {
	ctx := context.Background()
	m := newWagerMocks()
	service := NewWagerService(m.factory, WagerServiceOptions{})

	account := &models.Account{ID: 1, Username: "alice", BetHistory: []uint64{5, 3, 9}}
	w5 := &models.Wager{ID: 5, AccountID: 1}
	w9 := &models.Wager{ID: 9, AccountID: 1}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.accounts.On("Get", ctx, uint64(1)).Return(account, nil)
	m.wagers.On("Find", ctx, uint64(5)).Return(w5, nil)
	m.wagers.On("Find", ctx, uint64(3)).Return(nil, nil)
	m.wagers.On("Find", ctx, uint64(9)).Return(w9, nil)

	wagers, err := service.ListUserBets(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, []*models.Wager{w5, w9}, wagers)
	m.assertExpectations(t)
}

func TestWagerService_ListUserBets_UnknownAccount(t *testing.T) {
	ctx := context.Background()
	m := newWagerMocks()
	service := NewWagerService(m.factory, WagerServiceOptions{})

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.accounts.On("Get", ctx, uint64(99)).Return(nil, models.NotFound("A user with id=99 not found"))

	wagers, err := service.ListUserBets(ctx, 99)

	assert.Nil(t, wagers)
	assert.EqualError(t, err, "NotFound: User not found")
	m.assertExpectations(t)
}

func TestWagerService_BeginFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := newWagerMocks()
	service := NewWagerService(m.factory, WagerServiceOptions{})

	m.uow.On("Begin", ctx).Return(context.Canceled)

	wager, err := service.GetBet(ctx, 1)

	assert.Nil(t, wager)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, models.KindOf(err))
	m.uow.AssertNotCalled(t, "Rollback")
	m.assertExpectations(t)
}
