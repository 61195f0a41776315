package repository

import (
	"context"
	"fmt"

	"sportsbook/models"
	"sportsbook/service"
)

// wagerRepository implements service.WagerRepository over the wager map
type wagerRepository struct {
	store *Store
}

// NewWagerRepository creates a wager repository over store
func NewWagerRepository(store *Store) service.WagerRepository {
	return &wagerRepository{store: store}
}

// Create stores a new Pending wager. The id is consumed even if the insert fails.
func (r *wagerRepository) Create(ctx context.Context, payload models.BetPayload) (*models.Wager, error) {
	if err := service.ValidateBetPayload(payload); err != nil {
		return nil, err
	}

	id, err := r.store.IDs.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate wager id: %w", err)
	}

	wager := models.Wager{
		ID:        id,
		AccountID: payload.UserID,
		EventID:   payload.EventID,
		Amount:    payload.Amount,
		Odds:      payload.Odds,
		Status:    models.WagerStatusPending,
		CreatedAt: r.store.Now(),
	}

	if _, _, err := r.store.Wagers.Insert(ctx, id, wager); err != nil {
		return nil, fmt.Errorf("failed to insert wager %d: %w", id, err)
	}

	return &wager, nil
}

func (r *wagerRepository) Find(ctx context.Context, id uint64) (*models.Wager, error) {
	wager, ok, err := r.store.Wagers.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get wager %d: %w", id, err)
	}
	if !ok {
		return nil, nil
	}
	return &wager, nil
}

func (r *wagerRepository) Get(ctx context.Context, id uint64) (*models.Wager, error) {
	wager, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if wager == nil {
		return nil, models.NotFound("A bet with id=%d not found", id)
	}
	return wager, nil
}

// UpdateStatus accepts any target status; there is no transition table
func (r *wagerRepository) UpdateStatus(ctx context.Context, id uint64, status models.WagerStatus) (*models.Wager, error) {
	if err := service.ValidateWagerStatus(status); err != nil {
		return nil, err
	}

	wager, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if wager == nil {
		return nil, models.NotFound("Couldn't update a bet with id=%d. Bet not found", id)
	}

	now := r.store.Now()
	wager.Status = status
	wager.UpdatedAt = &now

	if _, _, err := r.store.Wagers.Insert(ctx, id, *wager); err != nil {
		return nil, fmt.Errorf("failed to update wager %d: %w", id, err)
	}
	return wager, nil
}

// Delete removes the wager only; bet histories keep the dangling id
func (r *wagerRepository) Delete(ctx context.Context, id uint64) (*models.Wager, error) {
	wager, existed, err := r.store.Wagers.Remove(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete wager %d: %w", id, err)
	}
	if !existed {
		return nil, models.NotFound("Couldn't delete a bet with id=%d. Bet not found.", id)
	}
	return &wager, nil
}

func (r *wagerRepository) List(ctx context.Context, offset, limit int) ([]*models.Wager, error) {
	return listMap(ctx, r.store.Wagers, offset, limit)
}

func (r *wagerRepository) Count(ctx context.Context) (int, error) {
	n, err := r.store.Wagers.Len(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count wagers: %w", err)
	}
	return n, nil
}
