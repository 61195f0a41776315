package service

import (
	"context"
	"fmt"

	"sportsbook/events"
	"sportsbook/models"

	log "github.com/sirupsen/logrus"
)

// accountService implements the AccountService interface
type accountService struct {
	uowFactory UnitOfWorkFactory
}

// NewAccountService creates a new account service
func NewAccountService(uowFactory UnitOfWorkFactory) AccountService {
	return &accountService{
		uowFactory: uowFactory,
	}
}

func (s *accountService) CreateAccount(ctx context.Context, payload models.AccountPayload) (*models.Account, error) {
	if err := ValidateAccountPayload(payload); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().Create(ctx, payload)
	if err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.AccountEvent{Kind: events.EventTypeAccountCreated, Account: *account})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit unit of work: %w", err)
	}

	log.WithFields(log.Fields{
		"accountID": account.ID,
		"username":  account.Username,
		"balance":   account.Balance,
	}).Info("Account created")

	return account, nil
}

func (s *accountService) GetAccount(ctx context.Context, id uint64) (*models.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	return uow.AccountRepository().Get(ctx, id)
}

// UpdateAccount overwrites username and balance; a balance override is published as a balance change
func (s *accountService) UpdateAccount(ctx context.Context, id uint64, payload models.AccountPayload) (*models.Account, error) {
	if err := ValidateAccountPayload(payload); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	before, err := uow.AccountRepository().Get(ctx, id)
	if err != nil {
		if models.KindOf(err) == models.ErrorKindNotFound {
			return nil, models.NotFound("Couldn't update a user with id=%d. User not found", id)
		}
		return nil, err
	}

	account, err := uow.AccountRepository().Update(ctx, id, payload)
	if err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.AccountEvent{Kind: events.EventTypeAccountUpdated, Account: *account})
	if before.Balance != account.Balance {
		publishBalanceChange(uow, account, before.Balance, events.BalanceChangeOverride)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit unit of work: %w", err)
	}

	return account, nil
}

// DeleteAccount removes the account; its wagers are left in place
func (s *accountService) DeleteAccount(ctx context.Context, id uint64) (*models.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.AccountEvent{Kind: events.EventTypeAccountDeleted, Account: *account})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit unit of work: %w", err)
	}

	log.WithField("accountID", id).Info("Account deleted")
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, offset, limit int) (*models.Page[models.Account], error) {
	offset, limit, err := NormalizePage(offset, limit)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	items, err := uow.AccountRepository().List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	total, err := uow.AccountRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	return &models.Page[models.Account]{Items: items, Total: total, Offset: offset, Limit: limit}, nil
}

func (s *accountService) Deposit(ctx context.Context, accountID uint64, amount uint64) (*models.Account, error) {
	if err := ValidateAmount(amount, "Deposit amount must be greater than zero"); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	account, err := lookupAccount(ctx, uow, accountID, "User not found")
	if err != nil {
		return nil, err
	}

	oldBalance := account.Balance
	if err := account.Credit(amount); err != nil {
		return nil, models.InvalidInput("Deposit would overflow the balance")
	}

	if err := recordBalanceChange(ctx, uow, account, oldBalance, events.BalanceChangeDeposit); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit unit of work: %w", err)
	}

	log.WithFields(log.Fields{
		"accountID":  accountID,
		"amount":     amount,
		"newBalance": account.Balance,
	}).Info("Deposit applied")

	return account, nil
}

func (s *accountService) Withdraw(ctx context.Context, accountID uint64, amount uint64) (*models.Account, error) {
	if err := ValidateAmount(amount, "Withdrawal amount must be greater than zero"); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	account, err := lookupAccount(ctx, uow, accountID, "User not found")
	if err != nil {
		return nil, err
	}

	oldBalance := account.Balance
	if err := account.Debit(amount); err != nil {
		return nil, models.InvalidInput("Insufficient balance")
	}

	if err := recordBalanceChange(ctx, uow, account, oldBalance, events.BalanceChangeWithdraw); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit unit of work: %w", err)
	}

	log.WithFields(log.Fields{
		"accountID":  accountID,
		"amount":     amount,
		"newBalance": account.Balance,
	}).Info("Withdrawal applied")

	return account, nil
}
