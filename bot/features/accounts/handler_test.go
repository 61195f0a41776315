package accounts

import (
	"context"
	"testing"

	"sportsbook/bot/common"
	"sportsbook/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAccountService is a mock implementation of service.AccountService
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, payload models.AccountPayload) (*models.Account, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountService) GetAccount(ctx context.Context, id uint64) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, id uint64, payload models.AccountPayload) (*models.Account, error) {
	args := m.Called(ctx, id, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, id uint64) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, offset, limit int) (*models.Page[models.Account], error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page[models.Account]), args.Error(1)
}

func (m *MockAccountService) Deposit(ctx context.Context, accountID uint64, amount uint64) (*models.Account, error) {
	args := m.Called(ctx, accountID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountService) Withdraw(ctx context.Context, accountID uint64, amount uint64) (*models.Account, error) {
	args := m.Called(ctx, accountID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func intOption(name string, v int64) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionInteger, Value: float64(v)}
}

func TestReply_CreateDefaultsToCaller(t *testing.T) {
	ctx := context.Background()
	svc := new(MockAccountService)
	feature := New(svc)

	svc.On("CreateAccount", ctx, models.AccountPayload{Username: "alice", Balance: 2500}).
		Return(&models.Account{ID: 1, Username: "alice", Balance: 2500}, nil)

	content, err := feature.Reply(ctx, "create", common.OptionsOf([]*discordgo.ApplicationCommandInteractionDataOption{
		intOption("balance", 2500),
	}), "alice")

	require.NoError(t, err)
	assert.Equal(t, "Opened account #1 for **alice** with **2,500**", content)
	svc.AssertExpectations(t)
}

func TestReply_Withdraw(t *testing.T) {
	ctx := context.Background()
	svc := new(MockAccountService)
	feature := New(svc)

	svc.On("Withdraw", ctx, uint64(1), uint64(40)).Return(&models.Account{ID: 1, Balance: 60}, nil)

	content, err := feature.Reply(ctx, "withdraw", common.OptionsOf([]*discordgo.ApplicationCommandInteractionDataOption{
		intOption("id", 1),
		intOption("amount", 40),
	}), "")

	require.NoError(t, err)
	assert.Equal(t, "Withdrew **40**. New balance: **60**", content)
	svc.AssertExpectations(t)
}

func TestReply_ServiceErrorPassesThrough(t *testing.T) {
	ctx := context.Background()
	svc := new(MockAccountService)
	feature := New(svc)

	svc.On("Deposit", ctx, uint64(9), uint64(5)).Return(nil, models.NotFound("User not found"))

	_, err := feature.Reply(ctx, "deposit", common.OptionsOf([]*discordgo.ApplicationCommandInteractionDataOption{
		intOption("id", 9),
		intOption("amount", 5),
	}), "")

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, "User not found", common.UserMessage(err))
}

func TestReply_MissingID(t *testing.T) {
	feature := New(new(MockAccountService))

	_, err := feature.Reply(context.Background(), "show", common.Options{}, "")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = feature.Reply(context.Background(), "close", common.Options{}, "")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
