package main

import (
	"aiexchange/internal/app/deps"
	"aiexchange/internal/app/services"
	"aiexchange/internal/core/domain/logging"
	purgeresetrequests "aiexchange/internal/core/services/purge_reset_requests"
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	deps, shutdownDeps := deps.InitDeps()
	log := deps.Logger
	defer shutdownDeps()

	services := services.InitServices(deps)

	period := deps.Config.PasswordResetPurgePeriod
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	stopCh, closeCh := createChannel()
	defer closeCh()

	log.Info(
		context.Background(),
		"Starting periodic reset request purger.",
		logging.Entry("periodMinutes", period.Minutes()),
		logging.Entry("retentionDays", deps.Config.PasswordResetRetentionDays),
	)

loop:
	for {
		select {
		case <-stopCh:
			log.Info(context.Background(), "Stopping periodic reset request purger.")
			break loop
		case <-ticker.C:
			log.Info(context.Background(), "Launching reset request purge.")
			_, err := services.PurgeResetRequests.Run(context.Background(), purgeresetrequests.Input{})
			if err != nil {
				log.Error(context.Background(), "Purge service returned an error.", logging.Entry("err", err))
			}
		}
	}
}

func createChannel() (chan os.Signal, func()) {
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	return stopCh, func() {
		close(stopCh)
	}
}
