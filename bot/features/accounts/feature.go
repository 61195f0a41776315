package accounts

import (
	"context"

	"sportsbook/bot/common"
	"sportsbook/service"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	accountService service.AccountService
}

func New(accountService service.AccountService) *Feature {
	return &Feature{
		accountService: accountService,
	}
}

// Command describes /account and its subcommands
func (f *Feature) Command() *discordgo.ApplicationCommand {
	idOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "id",
		Description: "Account ID",
		Required:    true,
	}
	amountOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "amount",
		Description: "Amount in credits",
		Required:    true,
	}

	return &discordgo.ApplicationCommand{
		Name:        "account",
		Description: "Create and manage betting accounts",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "create",
				Description: "Open a new account",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "username",
						Description: "Account name (defaults to your Discord name)",
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "balance",
						Description: "Opening balance",
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "show",
				Description: "Show an account's balance",
				Options:     []*discordgo.ApplicationCommandOption{idOption},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "deposit",
				Description: "Credit an account",
				Options:     []*discordgo.ApplicationCommandOption{idOption, amountOption},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "withdraw",
				Description: "Debit an account",
				Options:     []*discordgo.ApplicationCommandOption{idOption, amountOption},
			},
		},
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, opts := common.Subcommand(i.ApplicationCommandData())

	caller := ""
	if i.Member != nil && i.Member.User != nil {
		caller = i.Member.User.Username
	}

	content, err := f.Reply(context.Background(), sub, opts, caller)
	common.RespondWithResult(s, i, content, err)
}
