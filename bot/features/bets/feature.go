package bets

import (
	"context"

	"sportsbook/bot/common"
	"sportsbook/models"
	"sportsbook/service"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	wagerService service.WagerService
	eventService service.EventService
}

func New(wagerService service.WagerService, eventService service.EventService) *Feature {
	return &Feature{
		wagerService: wagerService,
		eventService: eventService,
	}
}

func statusChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(models.WagerStatuses))
	for _, status := range models.WagerStatuses {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: string(status), Value: string(status)})
	}
	return choices
}

// Command describes /bet and its subcommands
func (f *Feature) Command() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "bet",
		Description: "Place and manage bets",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "place",
				Description: "Place a bet on an event",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "account", Description: "Account placing the bet", Required: true},
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "event", Description: "Event ID", Required: true},
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "Stake in credits", Required: true},
					{Type: discordgo.ApplicationCommandOptionNumber, Name: "odds", Description: "Decimal odds"},
					{Type: discordgo.ApplicationCommandOptionString, Name: "participant", Description: "Take the event's listed odds for this participant"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "show",
				Description: "Show a bet",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "id", Description: "Bet ID", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "status",
				Description: "Set a bet's status",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "id", Description: "Bet ID", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "status", Description: "New status", Required: true, Choices: statusChoices()},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "List an account's bets",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "account", Description: "Account ID", Required: true},
				},
			},
		},
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, opts := common.Subcommand(i.ApplicationCommandData())
	content, err := f.Reply(context.Background(), sub, opts)
	common.RespondWithResult(s, i, content, err)
}
