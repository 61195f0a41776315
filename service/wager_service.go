package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"sportsbook/events"
	"sportsbook/models"

	log "github.com/sirupsen/logrus"
)

// WagerServiceOptions tunes wager placement
type WagerServiceOptions struct {
	// LegacyPlaceBetOrder inserts the wager before checking the account,
	// leaving it stored when the account turns out to be missing.
	LegacyPlaceBetOrder bool
}

type wagerService struct {
	uowFactory UnitOfWorkFactory
	opts       WagerServiceOptions
}

// NewWagerService creates a new wager service
func NewWagerService(uowFactory UnitOfWorkFactory, opts WagerServiceOptions) WagerService {
	return &wagerService{
		uowFactory: uowFactory,
		opts:       opts,
	}
}

// PlaceBet validates the payload, creates a Pending wager and appends it to the account's bet history
func (s *wagerService) PlaceBet(ctx context.Context, payload models.BetPayload) (*models.Wager, error) {
	if err := ValidateBetPayload(payload); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	var (
		wager *models.Wager
		err   error
	)
	if s.opts.LegacyPlaceBetOrder {
		wager, err = placeBetWagerFirst(ctx, uow, payload)
	} else {
		wager, err = placeBetAccountFirst(ctx, uow, payload)
	}
	if err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.BetPlacedEvent{Wager: *wager})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit unit of work: %w", err)
	}

	log.WithFields(log.Fields{
		"wagerID":   wager.ID,
		"accountID": wager.AccountID,
		"eventID":   wager.EventID,
		"amount":    wager.Amount,
		"odds":      wager.Odds,
	}).Info("Bet placed")

	return wager, nil
}

// placeBetAccountFirst checks everything that can fail before consuming an id
func placeBetAccountFirst(ctx context.Context, uow UnitOfWork, payload models.BetPayload) (*models.Wager, error) {
	account, err := lookupAccount(ctx, uow, payload.UserID, fmt.Sprintf("User with id=%d not found", payload.UserID))
	if err != nil {
		return nil, err
	}

	nextID, err := uow.IDAllocator().Peek(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to peek next id: %w", err)
	}
	recorded := *account
	recorded.BetHistory = append(slices.Clone(account.BetHistory), nextID)
	if err := uow.AccountRepository().Fits(&recorded); err != nil {
		return nil, fmt.Errorf("account %d cannot record another bet: %w", account.ID, err)
	}

	wager, err := uow.WagerRepository().Create(ctx, payload)
	if err != nil {
		return nil, err
	}

	account.RecordBet(wager.ID)
	if err := uow.AccountRepository().Save(ctx, account); err != nil {
		return nil, err
	}
	return wager, nil
}

// placeBetWagerFirst stores the wager before looking up the account
func placeBetWagerFirst(ctx context.Context, uow UnitOfWork, payload models.BetPayload) (*models.Wager, error) {
	wager, err := uow.WagerRepository().Create(ctx, payload)
	if err != nil {
		return nil, err
	}

	account, err := lookupAccount(ctx, uow, payload.UserID, fmt.Sprintf("User with id=%d not found", payload.UserID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.WithFields(log.Fields{
				"wagerID":   wager.ID,
				"accountID": payload.UserID,
			}).Warn("Bet stored for missing account")
		}
		return nil, err
	}

	account.RecordBet(wager.ID)
	if err := uow.AccountRepository().Save(ctx, account); err != nil {
		return nil, err
	}
	return wager, nil
}

func (s *wagerService) GetBet(ctx context.Context, id uint64) (*models.Wager, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	return uow.WagerRepository().Get(ctx, id)
}

// UpdateBetStatus accepts any target status, including moving a settled wager again
func (s *wagerService) UpdateBetStatus(ctx context.Context, id uint64, status models.WagerStatus) (*models.Wager, error) {
	if err := ValidateWagerStatus(status); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	var oldStatus models.WagerStatus
	if current, err := uow.WagerRepository().Find(ctx, id); err != nil {
		return nil, err
	} else if current != nil {
		oldStatus = current.Status
	}

	wager, err := uow.WagerRepository().UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.BetStatusChangedEvent{
		WagerID:   wager.ID,
		AccountID: wager.AccountID,
		OldStatus: oldStatus,
		NewStatus: wager.Status,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit unit of work: %w", err)
	}

	log.WithFields(log.Fields{
		"wagerID":   id,
		"oldStatus": oldStatus,
		"newStatus": status,
	}).Info("Bet status updated")

	return wager, nil
}

// DeleteBet removes a wager; its id stays in the owner's bet history
func (s *wagerService) DeleteBet(ctx context.Context, id uint64) (*models.Wager, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	wager, err := uow.WagerRepository().Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.BetDeletedEvent{Wager: *wager})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit unit of work: %w", err)
	}

	log.WithField("wagerID", id).Info("Bet deleted")
	return wager, nil
}

func (s *wagerService) ListBets(ctx context.Context, offset, limit int) (*models.Page[models.Wager], error) {
	offset, limit, err := NormalizePage(offset, limit)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	items, err := uow.WagerRepository().List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	total, err := uow.WagerRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	return &models.Page[models.Wager]{Items: items, Total: total, Offset: offset, Limit: limit}, nil
}

func (s *wagerService) ListUserBets(ctx context.Context, accountID uint64) ([]*models.Wager, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	account, err := lookupAccount(ctx, uow, accountID, "User not found")
	if err != nil {
		return nil, err
	}

	wagers := make([]*models.Wager, 0, len(account.BetHistory))
	for _, wagerID := range account.BetHistory {
		wager, err := uow.WagerRepository().Find(ctx, wagerID)
		if err != nil {
			return nil, err
		}
		if wager == nil {
			// deleted wagers leave their id behind
			continue
		}
		wagers = append(wagers, wager)
	}

	return wagers, nil
}
