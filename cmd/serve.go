package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"sportsbook/api"
	"sportsbook/bot"
	"sportsbook/config"
	"sportsbook/events"
	"sportsbook/infrastructure"
	"sportsbook/metrics"
	"sportsbook/repository"
	"sportsbook/service"
	"sportsbook/storage"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, metrics server and optional Discord bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), config.Get())
		},
	}
}

// App holds everything Run starts
type App struct {
	Store    *repository.Store
	Bus      *events.Bus
	Metrics  *metrics.Metrics
	Accounts service.AccountService
	Wagers   service.WagerService
	Events   service.EventService
	API      *api.Server

	nats *infrastructure.NATSClient
}

// NewApp opens storage and wires the services for cfg
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	m := metrics.New()

	pool, err := storage.Open(ctx, storage.Options{
		Backend:     cfg.StorageBackend,
		SQLitePath:  cfg.SQLitePath,
		DatabaseURL: cfg.GetDatabaseURL(),
		RedisAddr:   cfg.RedisAddr,
		RedisDB:     cfg.RedisDB,
		RedisPrefix: "sportsbook",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	pool = m.InstrumentPool(pool)

	store := repository.NewStore(pool,
		repository.WithMaxValueSize(cfg.StorageMaxValueSize),
		repository.WithAllocator(m.InstrumentAllocator(storage.NewAllocator(pool))),
	)

	eventBus := events.NewBus()
	m.CountEvents(eventBus)

	app := &App{Store: store, Bus: eventBus, Metrics: m}

	if cfg.NATSServers != "" {
		client := infrastructure.NewNATSClient(cfg.NATSServers)
		if err := client.Connect(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		if err := client.EnsureStream(infrastructure.DomainEventStream, infrastructure.AllSubjects()); err != nil {
			_ = client.Close()
			_ = store.Close()
			return nil, fmt.Errorf("failed to ensure event stream: %w", err)
		}
		infrastructure.NewEventForwarder(client).Attach(eventBus)
		app.nats = client
		log.Info("Forwarding domain events to NATS")
	}

	uowFactory := repository.NewUnitOfWorkFactory(store, eventBus)

	app.Accounts = service.NewAccountService(uowFactory)
	app.Wagers = service.NewWagerService(uowFactory, service.WagerServiceOptions{
		LegacyPlaceBetOrder: cfg.PlaceBetLegacyOrder,
	})
	app.Events = service.NewEventService(uowFactory)
	app.API = api.NewServer(app.Wagers, app.Accounts, app.Events, api.Options{
		APIKey:  cfg.APIKey,
		Metrics: m,
	})

	return app, nil
}

// Close releases storage and the NATS connection
func (a *App) Close() error {
	if a.nats != nil {
		if err := a.nats.Close(); err != nil {
			log.WithError(err).Error("Error closing NATS connection")
		}
	}
	return a.Store.Close()
}

// Run initializes and starts the application
func Run(ctx context.Context, cfg *config.Config) error {
	log.WithField("backend", cfg.StorageBackend).Info("Starting sportsbook...")

	app, err := NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.WithError(err).Error("Error closing storage")
		}
	}()

	servers := []*http.Server{app.API.Start(cfg.HTTPAddr)}
	if cfg.MetricsAddr != "" {
		servers = append(servers, metrics.StartMetricsServer(cfg.MetricsAddr, app.Metrics, app.Store.Ping))
	}

	var discordBot *bot.Bot
	if cfg.DiscordToken != "" {
		discordBot, err = bot.New(bot.Config{
			Token:             cfg.DiscordToken,
			GuildID:           cfg.GuildID,
			AnnounceChannelID: cfg.AnnounceChannelID,
		}, app.Accounts, app.Wagers, app.Events, app.Bus)
		if err != nil {
			shutdown(servers)
			return fmt.Errorf("failed to initialize Discord bot: %w", err)
		}
		log.Info("Discord bot initialized successfully")
	}

	log.WithField("environment", cfg.Environment).Info("Sportsbook is running")
	<-ctx.Done()
	log.Info("Shutting down...")

	if discordBot != nil {
		if err := discordBot.Close(); err != nil {
			log.WithError(err).Error("Error closing Discord bot")
		}
	}
	shutdown(servers)

	return nil
}

func shutdown(servers []*http.Server) {
	for _, srv := range servers {
		if err := api.Shutdown(srv, shutdownTimeout); err != nil {
			log.WithFields(log.Fields{
				"addr":  srv.Addr,
				"error": err,
			}).Error("Error shutting down server")
		}
	}
}
