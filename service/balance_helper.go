package service

import (
	"context"
	"errors"

	"sportsbook/events"
	"sportsbook/models"
)

// lookupAccount loads an account, replacing a NotFound with notFoundMsg
func lookupAccount(ctx context.Context, uow UnitOfWork, accountID uint64, notFoundMsg string) (*models.Account, error) {
	account, err := uow.AccountRepository().Get(ctx, accountID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NotFound("%s", notFoundMsg)
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

// recordBalanceChange saves the account and queues a balance change event.
// Every balance mutation goes through here.
func recordBalanceChange(ctx context.Context, uow UnitOfWork, account *models.Account, oldBalance uint64, kind events.BalanceChangeKind) error {
	if err := uow.AccountRepository().Save(ctx, account); err != nil {
		return err
	}

	publishBalanceChange(uow, account, oldBalance, kind)
	return nil
}

func publishBalanceChange(uow UnitOfWork, account *models.Account, oldBalance uint64, kind events.BalanceChangeKind) {
	change := account.Balance - oldBalance
	if oldBalance > account.Balance {
		change = oldBalance - account.Balance
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		AccountID:    account.ID,
		OldBalance:   oldBalance,
		NewBalance:   account.Balance,
		ChangeAmount: change,
		Kind:         kind,
	})
}
