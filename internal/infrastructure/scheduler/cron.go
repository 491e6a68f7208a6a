package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"paperscraper/internal/ports"
)

// CronScheduler runs the pipeline on a cron expression in a fixed timezone.
type CronScheduler struct {
	spec   string
	loc    *time.Location
	runner *cron.Cron
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler builds a scheduler configured via cron expression string.
func NewCronScheduler(spec string, loc *time.Location) *CronScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &CronScheduler{spec: spec, loc: loc}
}

// Start registers the job and begins the cron loop.
func (c *CronScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil || c.runner != nil {
		return nil
	}

	runner := cron.New(cron.WithLocation(c.loc))
	if _, err := runner.AddFunc(c.spec, func() {
		job(time.Now().In(c.loc))
	}); err != nil {
		return fmt.Errorf("parse cron expression %q: %w", c.spec, err)
	}

	runner.Start()
	c.runner = runner

	go func() {
		<-ctx.Done()
		runner.Stop()
	}()

	return nil
}

// Stop halts the cron loop, waiting for a running job to finish.
func (c *CronScheduler) Stop(ctx context.Context) error {
	if c.runner == nil {
		return nil
	}

	stopCtx := c.runner.Stop()
	c.runner = nil

	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
