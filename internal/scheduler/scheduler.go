// Package scheduler runs periodic feed passes.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"stock-news-advisor/internal/advisor"
	"stock-news-advisor/internal/logger"
)

// Scheduler triggers feed processing on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	service *advisor.Service
	ctx     context.Context
}

// New creates a scheduler bound to the given context; jobs observe its
// cancellation.
func New(ctx context.Context, service *advisor.Service) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		service: service,
		ctx:     ctx,
	}
}

// Register adds the feed-processing job under the given cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.runFeed); err != nil {
		return fmt.Errorf("register feed task (%q): %w", spec, err)
	}
	return nil
}

func (s *Scheduler) runFeed() {
	if s.ctx.Err() != nil {
		return
	}
	logger.Info(s.ctx, "Scheduled feed run starting")
	if _, err := s.service.ProcessFeed(s.ctx); err != nil {
		logger.ErrorWithErr(s.ctx, "Scheduled feed run failed", err)
	}
}

// Start begins firing registered jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info(s.ctx, "Scheduler started")
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	logger.Info(s.ctx, "Scheduler stopped")
}
