package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"sportsbook/config"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands
type RootOptions struct {
	LogLevel  string
	LogFormat string // "json" | "text"
}

// NewRootCommand creates the sportsbook command tree
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sportsbook",
		Short: "Sportsbook record store",
		Long:  "Keeps wagers, accounts and events in durable storage and serves them over HTTP and Discord.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			level := opts.LogLevel
			if level == "" {
				level = cfg.LogLevel
			}
			format := opts.LogFormat
			if format == "" {
				format = cfg.LogFormat
			}
			return ConfigureLogging(level, format)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "log format, text or json (overrides LOG_FORMAT)")

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewMigrateCommand())

	return cmd
}

// ConfigureLogging sets the global logrus level and formatter
func ConfigureLogging(level, format string) error {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log.SetLevel(parsed)
	log.SetOutput(os.Stdout)

	switch strings.ToLower(format) {
	case "json":
		log.SetFormatter(&log.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	case "text", "":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid log format %q: must be text or json", format)
	}
	return nil
}

// Execute runs the root command until ctx is cancelled or the command returns
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
