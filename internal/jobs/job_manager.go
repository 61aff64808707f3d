package jobs

import (
	"fmt"
	"log/slog"

	"github.com/Devmatrix25/SmartEats/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	offerRebroadcastJob *OfferRebroadcastJob
}

// NewJobManager creates a job manager with all required jobs wired to their
// command handlers.
func NewJobManager(
	rebroadcastHandler commands.RebroadcastOffersCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		offerRebroadcastJob: NewOfferRebroadcastJob(rebroadcastHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.offerRebroadcastJob.Start(); err != nil {
		return fmt.Errorf("failed to start offer rebroadcast job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.offerRebroadcastJob.Stop()
}
