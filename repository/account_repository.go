package repository

import (
	"context"
	"fmt"
	"math"

	"sportsbook/models"
	"sportsbook/service"
)

// accountRepository implements service.AccountRepository over the account map
type accountRepository struct {
	store *Store
}

// NewAccountRepository creates an account repository over store
func NewAccountRepository(store *Store) service.AccountRepository {
	return &accountRepository{store: store}
}

func (r *accountRepository) Create(ctx context.Context, payload models.AccountPayload) (*models.Account, error) {
	if err := service.ValidateAccountPayload(payload); err != nil {
		return nil, err
	}

	account := models.Account{
		ID:         math.MaxInt64,
		Username:   payload.Username,
		Balance:    payload.Balance,
		BetHistory: []uint64{},
	}
	// sized with the widest id so the insert below cannot overflow the bound
	if err := r.store.Accounts.Fits(account); err != nil {
		return nil, models.InvalidInput("user payload too large to store")
	}

	id, err := r.store.IDs.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate account id: %w", err)
	}
	account.ID = id

	if _, _, err := r.store.Accounts.Insert(ctx, id, account); err != nil {
		return nil, fmt.Errorf("failed to insert account %d: %w", id, err)
	}

	return &account, nil
}

func (r *accountRepository) find(ctx context.Context, id uint64) (*models.Account, error) {
	account, ok, err := r.store.Accounts.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", id, err)
	}
	if !ok {
		return nil, nil
	}
	return &account, nil
}

func (r *accountRepository) Get(ctx context.Context, id uint64) (*models.Account, error) {
	account, err := r.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, models.NotFound("A user with id=%d not found", id)
	}
	return account, nil
}

// Update overwrites username and balance; the bet history is kept
func (r *accountRepository) Update(ctx context.Context, id uint64, payload models.AccountPayload) (*models.Account, error) {
	if err := service.ValidateAccountPayload(payload); err != nil {
		return nil, err
	}

	account, err := r.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, models.NotFound("Couldn't update a user with id=%d. User not found", id)
	}

	account.Username = payload.Username
	account.Balance = payload.Balance

	if err := r.Save(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (r *accountRepository) Delete(ctx context.Context, id uint64) (*models.Account, error) {
	account, existed, err := r.store.Accounts.Remove(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete account %d: %w", id, err)
	}
	if !existed {
		return nil, models.NotFound("Couldn't delete a user with id=%d. User not found.", id)
	}
	return &account, nil
}

func (r *accountRepository) Save(ctx context.Context, account *models.Account) error {
	if _, _, err := r.store.Accounts.Insert(ctx, account.ID, *account); err != nil {
		return fmt.Errorf("failed to save account %d: %w", account.ID, err)
	}
	return nil
}

func (r *accountRepository) Fits(account *models.Account) error {
	return r.store.Accounts.Fits(*account)
}

func (r *accountRepository) List(ctx context.Context, offset, limit int) ([]*models.Account, error) {
	return listMap(ctx, r.store.Accounts, offset, limit)
}

func (r *accountRepository) Count(ctx context.Context) (int, error) {
	n, err := r.store.Accounts.Len(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return n, nil
}
