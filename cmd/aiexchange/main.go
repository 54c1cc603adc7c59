package main

import (
	"aiexchange/internal/app"
	"aiexchange/internal/app/deps"
	"aiexchange/internal/app/services"
	dl "aiexchange/internal/core/domain/logging"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 20 * time.Second

func main() {
	deps, shutdownDeps := deps.InitDeps()
	httpServer := app.InitHttpServer(deps, services.InitServices(deps))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		deps.Logger.Info(
			ctx,
			"HTTP server has started.",
			dl.Entry("address", httpServer.Addr),
			dl.Entry("isTestMode", deps.Config.IsTestMode),
			dl.Entry("notificationDispatcher", deps.Config.NotificationDispatcher),
		)
		serverErr <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		deps.Logger.Info(context.Background(), "HTTP service is stopping gracefully.")
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error(context.Background(), "HTTP server failed.", dl.Entry("err", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		deps.Logger.Error(shutdownCtx, "Could not shut down HTTP server.", dl.Entry("err", err))
	}

	shutdownDeps()
	deps.Logger.Info(context.Background(), "HTTP server has shut down.")
}
