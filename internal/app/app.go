package app

import (
	"context"
	"log/slog"
	"time"

	"paperscraper/internal/config"
	"paperscraper/internal/digest"
	"paperscraper/internal/feed"
	"paperscraper/internal/infrastructure/llm"
	"paperscraper/internal/infrastructure/mail"
	"paperscraper/internal/infrastructure/scheduler"
	"paperscraper/internal/logging"
	"paperscraper/internal/pipeline"
	"paperscraper/internal/ports"
	"paperscraper/internal/state"
)

// Application wires configs to the pipeline and lifecycle orchestration.
type Application struct {
	cfg        config.Config
	dispatcher *pipeline.Dispatcher
	logger     *slog.Logger
}

// New builds a runnable application instance. Missing summarizer or mail
// credentials disable those adapters explicitly; the degraded mode is
// visible in the logs and the run still completes.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	source := feed.NewArxivSource(nil, baseLogger.With("component", "feed.arxiv"))
	store := state.NewStore(cfg.State.Path, baseLogger.With("component", "state"))

	var summarizer ports.Summarizer
	if cfg.Summary.APIKey != "" {
		summarizer = llm.NewOpenAIClient(cfg.Summary)
	} else {
		baseLogger.Info("summaries disabled: no API key configured")
	}

	var mailer ports.Mailer
	if cfg.Mail.Username != "" && cfg.Mail.Password != "" && cfg.Mail.Recipient != "" {
		mailer = mail.NewSMTPMailer(cfg.Mail)
	} else {
		baseLogger.Info("email delivery disabled: missing SMTP credentials or recipient")
	}

	builder := digest.NewBuilder(summarizer, baseLogger.With("component", "digest"))

	dispatcher := pipeline.NewDispatcher(pipeline.Deps{
		Source:  source,
		Store:   store,
		Builder: builder,
		Mailer:  mailer,
		Buckets: cfg.Buckets,
		Feed:    cfg.Feed,
		Logger:  baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, dispatcher: dispatcher, logger: baseLogger}
}

// Run performs a single pipeline pass, or blocks on the cron schedule in
// daemon mode until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if a.dispatcher == nil {
		return nil
	}

	if !a.cfg.Scheduler.Enabled {
		return a.dispatcher.Run(ctx, time.Now().UTC())
	}

	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, a.cfg.Scheduler.Location())
	job := func(trigger time.Time) {
		if err := a.dispatcher.Run(ctx, trigger.UTC()); err != nil {
			a.logger.Error("scheduled run failed", "error", err)
		}
	}

	if err := driver.Start(ctx, job); err != nil {
		return err
	}

	<-ctx.Done()
	return driver.Stop(context.Background())
}
