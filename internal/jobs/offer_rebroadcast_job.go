// Package jobs provides the scheduled background tasks, built on
// github.com/robfig/cron/v3. The only job today is the offer rebroadcast
// sweep, which periodically re-offers ready orders that no driver has
// claimed. Jobs are managed through JobManager so the composition root can
// start and stop them as one unit.
package jobs

import (
	"context"
	"log/slog"

	"github.com/Devmatrix25/SmartEats/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// rebroadcastSchedule fires every 30 seconds. Offers are push-based, so the
// sweep only matters for orders that went ready while no eligible driver was
// connected.
const rebroadcastSchedule = "*/30 * * * * *"

// OfferRebroadcastJob periodically re-offers awaiting orders to the current
// pool of eligible drivers.
type OfferRebroadcastJob struct {
	handler commands.RebroadcastOffersCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewOfferRebroadcastJob creates the rebroadcast sweep job.
func NewOfferRebroadcastJob(handler commands.RebroadcastOffersCommandHandler, logger *slog.Logger) *OfferRebroadcastJob {
	return &OfferRebroadcastJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "offer_rebroadcast_job"),
	}
}

// Start schedules the sweep.
func (j *OfferRebroadcastJob) Start() error {
	_, err := j.cron.AddFunc(rebroadcastSchedule, func() {
		ctx := context.Background()
		cmd := commands.NewRebroadcastOffersCommand()

		if handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			j.logger.ErrorContext(ctx, "Offer rebroadcast sweep failed", "error", handleErr)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Offer rebroadcast job started")
	return nil
}

// Stop stops the sweep.
func (j *OfferRebroadcastJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Offer rebroadcast job stopped")
}
