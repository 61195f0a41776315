package service

import (
	"context"
	"math"
	"testing"

	"sportsbook/events"
	"sportsbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupAccountService() (AccountService, *MockUnitOfWork, *MockAccountRepository, *MockEventPublisher) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(nil, mockAccountRepo, nil, nil, mockPublisher)
	mockFactory.On("Create").Return(mockUoW)

	return NewAccountService(mockFactory), mockUoW, mockAccountRepo, mockPublisher
}

func TestAccountService_CreateAccount(t *testing.T) {
	ctx := context.Background()
	service, mockUoW, mockAccountRepo, mockPublisher := setupAccountService()

	payload := models.AccountPayload{Username: "alice", Balance: 1000}
	created := &models.Account{ID: 1, Username: "alice", Balance: 1000, BetHistory: []uint64{}}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("Create", ctx, payload).Return(created, nil)
	mockPublisher.On("Publish", events.AccountEvent{Kind: events.EventTypeAccountCreated, Account: *created}).Return()

	account, err := service.CreateAccount(ctx, payload)

	require.NoError(t, err)
	assert.Equal(t, created, account)
	mockUoW.AssertExpectations(t)
	mockAccountRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestAccountService_CreateAccount_BlankUsername(t *testing.T) {
	ctx := context.Background()
	service, mockUoW, _, _ := setupAccountService()

	account, err := service.CreateAccount(ctx, models.AccountPayload{Username: "   ", Balance: 5})

	assert.Nil(t, account)
	assert.EqualError(t, err, "InvalidInput: Username cannot be empty")
	mockUoW.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestAccountService_Deposit(t *testing.T) {
	ctx := context.Background()
	service, mockUoW, mockAccountRepo, mockPublisher := setupAccountService()

	existing := &models.Account{ID: 1, Username: "alice", Balance: 1000}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("Get", ctx, uint64(1)).Return(existing, nil)
	mockAccountRepo.On("Save", ctx, mock.MatchedBy(func(a *models.Account) bool {
		return a.ID == 1 && a.Balance == 1500
	})).Return(nil)
	mockPublisher.On("Publish", events.BalanceChangeEvent{
		AccountID:    1,
		OldBalance:   1000,
		NewBalance:   1500,
		ChangeAmount: 500,
		Kind:         events.BalanceChangeDeposit,
	}).Return()

	account, err := service.Deposit(ctx, 1, 500)

	require.NoError(t, err)
	assert.Equal(t, uint64(1500), account.Balance)
	mockUoW.AssertExpectations(t)
	mockAccountRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestAccountService_Deposit_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("zero amount", func(t *testing.T) {
		service, mockUoW, _, _ := setupAccountService()

		_, err := service.Deposit(ctx, 1, 0)

		assert.EqualError(t, err, "InvalidInput: Deposit amount must be greater than zero")
		mockUoW.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("unknown account", func(t *testing.T) {
		service, mockUoW, mockAccountRepo, _ := setupAccountService()
		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Rollback").Return(nil)
		mockAccountRepo.On("Get", ctx, uint64(3)).Return(nil, models.NotFound("A user with id=3 not found"))

		_, err := service.Deposit(ctx, 3, 10)

		assert.EqualError(t, err, "NotFound: User not found")
		mockUoW.AssertNotCalled(t, "Commit")
	})

	t.Run("overflow", func(t *testing.T) {
		service, mockUoW, mockAccountRepo, _ := setupAccountService()
		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Rollback").Return(nil)
		mockAccountRepo.On("Get", ctx, uint64(1)).Return(&models.Account{ID: 1, Balance: math.MaxUint64 - 5}, nil)

		_, err := service.Deposit(ctx, 1, 10)

		assert.ErrorIs(t, err, models.ErrInvalidInput)
		mockAccountRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestAccountService_Withdraw(t *testing.T) {
	ctx := context.Background()
	service, mockUoW, mockAccountRepo, mockPublisher := setupAccountService()

	existing := &models.Account{ID: 2, Username: "bob", Balance: 500}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("Get", ctx, uint64(2)).Return(existing, nil)
	mockAccountRepo.On("Save", ctx, existing).Return(nil)
	mockPublisher.On("Publish", events.BalanceChangeEvent{
		AccountID:    2,
		OldBalance:   500,
		NewBalance:   0,
		ChangeAmount: 500,
		Kind:         events.BalanceChangeWithdraw,
	}).Return()

	account, err := service.Withdraw(ctx, 2, 500)

	require.NoError(t, err)
	assert.Zero(t, account.Balance)
	mockAccountRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestAccountService_Withdraw_InsufficientBalance(t *testing.T) {
	ctx := context.Background()
	service, mockUoW, mockAccountRepo, mockPublisher := setupAccountService()

	existing := &models.Account{ID: 2, Username: "bob", Balance: 500}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("Get", ctx, uint64(2)).Return(existing, nil)

	account, err := service.Withdraw(ctx, 2, 1000)

	assert.Nil(t, account)
	assert.EqualError(t, err, "InvalidInput: Insufficient balance")
	assert.Equal(t, uint64(500), existing.Balance)
	mockAccountRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	mockPublisher.AssertNotCalled(t, "Publish", mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestAccountService_UpdateAccount_PublishesOverride(t *testing.T) {
	ctx := context.Background()
	service, mockUoW, mockAccountRepo, mockPublisher := setupAccountService()

	payload := models.AccountPayload{Username: "alice2", Balance: 50}
	before := &models.Account{ID: 1, Username: "alice", Balance: 200, BetHistory: []uint64{4}}
	after := &models.Account{ID: 1, Username: "alice2", Balance: 50, BetHistory: []uint64{4}}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("Get", ctx, uint64(1)).Return(before, nil)
	mockAccountRepo.On("Update", ctx, uint64(1), payload).Return(after, nil)
	mockPublisher.On("Publish", events.AccountEvent{Kind: events.EventTypeAccountUpdated, Account: *after}).Return()
	mockPublisher.On("Publish", events.BalanceChangeEvent{
		AccountID:    1,
		OldBalance:   200,
		NewBalance:   50,
		ChangeAmount: 150,
		Kind:         events.BalanceChangeOverride,
	}).Return()

	account, err := service.UpdateAccount(ctx, 1, payload)

	require.NoError(t, err)
	assert.Equal(t, "alice2", account.Username)
	assert.Equal(t, []uint64{4}, account.BetHistory)
	mockAccountRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestAccountService_UpdateAccount_NotFound(t *testing.T) {
	ctx := context.Background()
	service, mockUoW, mockAccountRepo, _ := setupAccountService()

	payload := models.AccountPayload{Username: "ghost", Balance: 1}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("Get", ctx, uint64(12)).Return(nil, models.NotFound("A user with id=12 not found"))

	account, err := service.UpdateAccount(ctx, 12, payload)

	assert.Nil(t, account)
	assert.EqualError(t, err, "NotFound: Couldn't update a user with id=12. User not found")
	mockAccountRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountService_ListAccounts_NegativeOffset(t *testing.T) {
	ctx := context.Background()
	service, mockUoW, _, _ := setupAccountService()

	page, err := service.ListAccounts(ctx, -1, 10)

	assert.Nil(t, page)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	mockUoW.AssertNotCalled(t, "Begin", mock.Anything)
}
