package app

import (
	"sync"

	"github.com/robfig/cron/v3"

	"whaletrack/internal/common"
)

// Scheduler runs registered jobs on cron schedules. Each job is guarded
// so a tick that fires while the previous run is still going is skipped,
// never queued: cycles must not overlap.
type Scheduler struct {
	cron   *cron.Cron
	logger *common.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(logger *common.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger.WithComponent("scheduler"),
	}
}

// AddJob registers a job under a cron schedule (standard 5-field spec or
// a descriptor such as "@hourly" / "@every 1h").
func (s *Scheduler) AddJob(schedule, name string, fn func() error) error {
	entryID, err := s.cron.AddFunc(schedule, s.wrap(name, fn))
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("job", name).
		Str("schedule", schedule).
		Int("entry", int(entryID)).
		Msg("Job registered")

	return nil
}

// wrap guards a job against overlapping runs and logs the outcome.
func (s *Scheduler) wrap(name string, fn func() error) func() {
	var mu sync.Mutex
	return func() {
		if !mu.TryLock() {
			s.logger.Warn().Str("job", name).Msg("Previous run still in progress; skipping tick")
			return
		}
		defer mu.Unlock()

		s.logger.Debug().Str("job", name).Msg("Running job")
		if err := fn(); err != nil {
			s.logger.Error().Err(err).Str("job", name).Msg("Job failed")
			return
		}
		s.logger.Debug().Str("job", name).Msg("Job completed")
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Msg("Scheduler started")
}

// Stop stops the scheduler and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("Scheduler stopped")
}
