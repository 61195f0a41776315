package bot

import (
	"context"
	"fmt"

	"sportsbook/bot/features/accounts"
	"sportsbook/bot/features/bets"
	eventsfeature "sportsbook/bot/features/events"
	"sportsbook/events"
	"sportsbook/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string
	// AnnounceChannelID receives bet settlement notices when set
	AnnounceChannelID string
}

// Feature is a slash command together with its handler
type Feature interface {
	Command() *discordgo.ApplicationCommand
	HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate)
}

type Bot struct {
	config   Config
	session  *discordgo.Session
	features map[string]Feature
}

// Features builds the slash command features over the services
func Features(accountService service.AccountService, wagerService service.WagerService, eventService service.EventService) []Feature {
	return []Feature{
		accounts.New(accountService),
		bets.New(wagerService, eventService),
		eventsfeature.New(eventService),
	}
}

func New(config Config, accountService service.AccountService, wagerService service.WagerService, eventService service.EventService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	bot := &Bot{
		config:   config,
		session:  dg,
		features: make(map[string]Feature),
	}
	for _, feature := range Features(accountService, wagerService, eventService) {
		bot.features[feature.Command().Name] = feature
	}

	dg.AddHandler(bot.handleCommands)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	if config.AnnounceChannelID != "" {
		eventBus.Subscribe(events.EventTypeBetStatusChanged, bot.announceStatusChange)
		log.WithField("channelID", config.AnnounceChannelID).Info("Bet status announcements enabled")
	}

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) registerCommands() error {
	for _, feature := range b.features {
		cmd := feature.Command()
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd); err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}
	return nil
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	if feature, ok := b.features[i.ApplicationCommandData().Name]; ok {
		feature.HandleCommand(s, i)
	}
}

func (b *Bot) announceStatusChange(_ context.Context, event events.Event) {
	changed, ok := event.(events.BetStatusChangedEvent)
	if !ok {
		return
	}

	if _, err := b.session.ChannelMessageSend(b.config.AnnounceChannelID, FormatStatusChange(changed)); err != nil {
		log.WithFields(log.Fields{
			"wagerID": changed.WagerID,
			"error":   err,
		}).Error("Failed to announce bet status change")
	}
}

// FormatStatusChange renders a settlement notice
func FormatStatusChange(event events.BetStatusChangedEvent) string {
	return fmt.Sprintf("Bet #%d for account #%d moved from %s to **%s**",
		event.WagerID, event.AccountID, event.OldStatus, event.NewStatus)
}
