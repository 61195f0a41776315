package events

import (
	"context"

	"sportsbook/bot/common"
	"sportsbook/models"
	"sportsbook/service"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	eventService service.EventService
}

func New(eventService service.EventService) *Feature {
	return &Feature{
		eventService: eventService,
	}
}

// Command describes /event and its subcommands
func (f *Feature) Command() *discordgo.ApplicationCommand {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(models.EventStatuses))
	for _, status := range models.EventStatuses {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: string(status), Value: string(status)})
	}

	return &discordgo.ApplicationCommand{
		Name:        "event",
		Description: "Inspect and manage events",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "show",
				Description: "Show an event and its odds",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "id", Description: "Event ID", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "status",
				Description: "Set an event's status",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "id", Description: "Event ID", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "status", Description: "New status", Required: true, Choices: choices},
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
