package events

import (
	"context"
	"fmt"

	"sportsbook/bot/common"
	"sportsbook/models"
)

// Reply runs one /event subcommand
func (f *Feature) Reply(ctx context.Context, sub string, opts common.Options) (string, error) {
	id, err := opts.ID("id")
	if err != nil {
		return "", err
	}

	switch sub {
	case "show":
		event, err := f.eventService.GetEvent(ctx, id)
		if err != nil {
			return "", err
		}
		return common.FormatEvent(event), nil

	case "status":
		event, err := f.eventService.UpdateEventStatus(ctx, id, models.EventStatus(opts.String("status")))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("**%s** is now %s", event.Name, event.Status), nil
	}

	return "", models.InvalidInput("Unknown subcommand %q", sub)
}
