package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dawerha/dawerha-api/internal/api/metrics"
	"github.com/dawerha/dawerha-api/internal/core/ports"
)

const defaultInterval = time.Minute

// Scheduler runs the periodic background work: opening activation windows
// whose weekly schedule is due, and purging expired session rows. Both are
// housekeeping; request-path correctness never depends on a sweep having run.
type Scheduler struct {
	companies ports.CompanyService
	auth      ports.AuthService
	interval  time.Duration
	log       zerolog.Logger
}

// New creates a Scheduler. An interval <= 0 falls back to one minute.
func New(companies ports.CompanyService, auth ports.AuthService, interval time.Duration, log zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Scheduler{companies: companies, auth: auth, interval: interval, log: log}
}

// Start launches the sweep loop in a goroutine. The loop stops when ctx is
// cancelled. One pass runs immediately so a restart does not delay due
// activations by a full interval.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		s.sweep(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
}

func (s *Scheduler) sweep(ctx context.Context) {
	start := time.Now()

	activated, err := s.companies.SweepSchedules(ctx, time.Now().UTC())
	if err != nil {
		s.log.Error().Err(err).Msg("schedule sweep failed")
	} else if activated > 0 {
		metrics.ScheduleActivationsTotal.Add(float64(activated))
		s.log.Info().Int("activated", activated).Msg("schedule sweep activated companies")
	}

	purged, err := s.auth.PurgeExpiredSessions(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("session purge failed")
	} else if purged > 0 {
		metrics.SessionsPurgedTotal.Add(float64(purged))
		s.log.Info().Int64("purged", purged).Msg("purged expired sessions")
	}

	metrics.SweepDuration.Observe(time.Since(start).Seconds())
}
