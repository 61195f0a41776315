package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"sportsbook/cmd"

	log "github.com/sirupsen/logrus"
)

func main() {
	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		log.WithError(err).Error("sportsbook exited with an error")
		os.Exit(1)
	}
}
