package bets

import (
	"context"
	"fmt"

	"sportsbook/bot/common"
	"sportsbook/models"
)

// Reply runs one /bet subcommand
func (f *Feature) Reply(ctx context.Context, sub string, opts common.Options) (string, error) {
	switch sub {
	case "place":
		return f.place(ctx, opts)

	case "show":
		id, err := opts.ID("id")
		if err != nil {
			return "", err
		}
		wager, err := f.wagerService.GetBet(ctx, id)
		if err != nil {
			return "", err
		}
		return common.FormatWager(wager), nil

	case "status":
		id, err := opts.ID("id")
		if err != nil {
			return "", err
		}
		wager, err := f.wagerService.UpdateBetStatus(ctx, id, models.WagerStatus(opts.String("status")))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Bet #%d is now **%s**", wager.ID, wager.Status), nil

	case "list":
		accountID, err := opts.ID("account")
		if err != nil {
			return "", err
		}
		wagers, err := f.wagerService.ListUserBets(ctx, accountID)
		if err != nil {
			return "", err
		}
		return common.FormatWagerList(wagers), nil
	}

	return "", models.InvalidInput("Unknown subcommand %q", sub)
}

func (f *Feature) place(ctx context.Context, opts common.Options) (string, error) {
	accountID, err := opts.ID("account")
	if err != nil {
		return "", err
	}
	eventID, err := opts.ID("event")
	if err != nil {
		return "", err
	}
	amount, err := opts.Amount("amount")
	if err != nil {
		return "", err
	}

	odds := opts.Float("odds")
	if participant := opts.String("participant"); odds == 0 && participant != "" {
		event, err := f.eventService.GetEvent(ctx, eventID)
		if err != nil {
			return "", err
		}
		listed, ok := event.OddsFor(participant)
		if !ok {
			return "", models.InvalidInput("%s has no odds listed on %s", participant, event.Name)
		}
		odds = listed
	}

	wager, err := f.wagerService.PlaceBet(ctx, models.BetPayload{
		UserID:  accountID,
		EventID: eventID,
		Amount:  amount,
		Odds:    odds,
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Placed bet #%d: **%s** at %s, potential payout **%s**",
		wager.ID, common.FormatBalance(wager.Amount), common.FormatOdds(wager.Odds),
		common.FormatBalance(wager.PotentialPayout())), nil
}
