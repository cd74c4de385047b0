package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/costeo/internal/config"
	"github.com/mamadbah2/costeo/internal/domain/models"
)

const (
	jobTimeout     = 2 * time.Minute
	publishTrigger = "cron"
)

// Publisher computes and publishes the upcoming month's allocation.
type Publisher interface {
	PublishNextMonth(ctx context.Context, trigger string) (models.AllocationResult, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	publisher Publisher
	schedule  string
	logger    *zap.Logger
}

// NewScheduler creates a scheduler running in the configured timezone.
func NewScheduler(cfg config.ReportingConfig, publisher Publisher, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	// Standard 5-field cron expressions (min, hour, dom, month, dow).
	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:      c,
		publisher: publisher,
		schedule:  cfg.CronSchedule,
		logger:    logger,
	}, nil
}

// Start registers the monthly publish job and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.publishMonthlyAllocation); err != nil {
		return fmt.Errorf("schedule monthly allocation %q: %w", s.schedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) publishMonthlyAllocation() {
	s.logger.Info("publishing monthly allocation")
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	result, err := s.publisher.PublishNextMonth(ctx, publishTrigger)
	if err != nil {
		s.logger.Error("failed to publish monthly allocation", zap.Error(err))
		return
	}

	s.logger.Info("monthly allocation published",
		zap.String("cost_base_month", result.CostBaseMonth.String()),
		zap.String("target_month", result.TargetMonth.String()),
		zap.Float64("total_cost", result.TotalCost))
}
