package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/subcycle/subcycle/internal/config"
	"github.com/subcycle/subcycle/internal/logger"
	"github.com/subcycle/subcycle/internal/service"
)

// Scheduler runs the four daily lifecycle jobs on their configured cron
// expressions. The default schedules stagger renewals before delinquencies
// before suspensions before expirations: each later job reads statuses the
// earlier ones write.
type Scheduler struct {
	cron                *cron.Cron
	subscriptionService service.SubscriptionService
	logger              *logger.Logger
	cfg                 config.SchedulerConfig
}

func NewScheduler(
	subscriptionService service.SubscriptionService,
	cfg *config.Configuration,
	logger *logger.Logger,
) *Scheduler {
	c := cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
	))

	return &Scheduler{
		cron:                c,
		subscriptionService: subscriptionService,
		logger:              logger,
		cfg:                 cfg.Scheduler,
	}
}

// Start registers the jobs and starts the scheduler. It is a no-op when
// the scheduler is disabled in configuration; tests and one-off tooling
// call the service entry points directly instead.
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		s.logger.Infow("scheduler disabled, lifecycle jobs will not run automatically")
		return nil
	}

	jobs := []struct {
		name     string
		schedule string
		run      func(context.Context) error
	}{
		{"renewals", s.cfg.Renewals, func(ctx context.Context) error {
			_, err := s.subscriptionService.ProcessRenewals(ctx)
			return err
		}},
		{"delinquencies", s.cfg.Delinquencies, func(ctx context.Context) error {
			_, err := s.subscriptionService.ProcessDelinquencies(ctx)
			return err
		}},
		{"suspensions", s.cfg.Suspensions, func(ctx context.Context) error {
			_, err := s.subscriptionService.ProcessSuspensions(ctx)
			return err
		}},
		{"expirations", s.cfg.Expirations, func(ctx context.Context) error {
			_, err := s.subscriptionService.ProcessExpirations(ctx)
			return err
		}},
	}

	for _, job := range jobs {
		job := job
		_, err := s.cron.AddFunc(job.schedule, func() {
			s.logger.Infow("running lifecycle job", "job", job.name)
			if err := job.run(context.Background()); err != nil {
				s.logger.Errorw("lifecycle job failed", "job", job.name, "error", err)
			}
		})
		if err != nil {
			return err
		}
		s.logger.Infow("scheduled lifecycle job", "job", job.name, "schedule", job.schedule)
	}

	s.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
