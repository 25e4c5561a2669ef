package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/studybuddy-csulb/studybuddy-api/groups"
)

// expiredGroupGrace is how long a group outlives its end time before the
// sweeper removes it. Keeping the document around for a day lets members
// still see where they studied yesterday.
const expiredGroupGrace = 24 * time.Hour

// Scheduler runs the periodic background jobs for study group housekeeping
type Scheduler struct {
	cron      *cron.Cron
	Lifecycle *groups.LifecycleManager
}

// NewScheduler creates a new scheduler instance
func NewScheduler(lifecycle *groups.LifecycleManager) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		Lifecycle: lifecycle,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Sweep expired study groups hourly, on the hour
	_, err := s.cron.AddFunc("0 * * * *", s.sweepExpiredGroups)
	if err != nil {
		zap.S().Errorw("failed to register expired group sweep job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("study group scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("study group scheduler stopped")
}

// sweepExpiredGroups deletes groups whose window ended more than the grace
// period ago, including their projections, requests, and invites
func (s *Scheduler) sweepExpiredGroups() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	removed, err := s.Lifecycle.SweepExpired(ctx, expiredGroupGrace)
	if err != nil {
		zap.S().Errorw("expired group sweep finished with errors", "removed", removed, "error", err)
		return
	}
	if removed > 0 {
		zap.S().Infow("swept expired study groups", "removed", removed)
	}
}
