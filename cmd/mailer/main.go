package main

import (
	"aiexchange/internal/app/consumers"
	"aiexchange/internal/app/deps"
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	deps, shutdownDeps := deps.InitDeps()
	defer shutdownDeps()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownConsumers := consumers.InitConsumers(ctx, deps)
	defer shutdownConsumers()

	<-ctx.Done()
	deps.Logger.Info(context.Background(), "Stopping mailer.")
}
