package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"paperscraper/internal/config"
	"paperscraper/internal/digest"
	"paperscraper/internal/domain"
	"paperscraper/internal/ports"
	"paperscraper/internal/state"
)

// Deps wires all driven adapters into the digest pipeline.
type Deps struct {
	Source  ports.PaperSource
	Store   *state.Store
	Builder *digest.Builder
	Mailer  ports.Mailer
	Buckets []config.BucketConfig
	Feed    config.FeedConfig
	Out     io.Writer
	Logger  *slog.Logger
}

// Dispatcher orchestrates one run: per-bucket search, recency filtering,
// novelty resolution, selection, state commit, and digest delivery. It
// owns the version map exclusively for the lifetime of a run.
type Dispatcher struct {
	source  ports.PaperSource
	store   *state.Store
	builder *digest.Builder
	mailer  ports.Mailer
	buckets []config.BucketConfig
	feed    config.FeedConfig
	out     io.Writer
	logger  *slog.Logger
}

// NewDispatcher constructs the orchestration component.
func NewDispatcher(deps Deps) *Dispatcher {
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}
	return &Dispatcher{
		source:  deps.Source,
		store:   deps.Store,
		builder: deps.Builder,
		mailer:  deps.Mailer,
		buckets: deps.Buckets,
		feed:    deps.Feed,
		out:     out,
		logger:  deps.Logger,
	}
}

// Run executes a single pass. Adapter failures degrade the run instead of
// aborting it: a bucket whose search fails contributes zero results, a
// failed email leaves the console digest and the committed state intact.
func (d *Dispatcher) Run(ctx context.Context, now time.Time) error {
	if d.source == nil || d.store == nil {
		return nil
	}

	versions := d.store.Load()

	var updates, publishes []domain.Candidate
	for _, bucket := range d.buckets {
		papers, err := d.source.Search(ctx, bucket.Categories, d.feed.MaxResults)
		if err != nil {
			d.warn("bucket search failed, treating as empty", "bucket", bucket.Name, "error", err)
			continue
		}

		recentPublished := FilterPublished(papers, now, d.feed.WindowDays)
		recentUpdated := FilterUpdated(papers, now, d.feed.WindowDays, d.feed.MinVersion)

		bucketUpdates, bucketPublishes := Resolve(recentUpdated, recentPublished, versions)
		updates = append(updates, bucketUpdates...)
		publishes = append(publishes, bucketPublishes...)

		d.info("bucket processed",
			"bucket", bucket.Name,
			"fetched", len(papers),
			"updates", len(bucketUpdates),
			"publishes", len(bucketPublishes))
	}

	selectedUpdates, selectedPublishes := Select(updates, publishes, d.feed.SelectionCap)
	if len(selectedUpdates)+len(selectedPublishes) == 0 {
		d.info("no new papers this run")
		return nil
	}

	selection := make([]domain.Candidate, 0, len(selectedUpdates)+len(selectedPublishes))
	selection = append(selection, selectedUpdates...)
	selection = append(selection, selectedPublishes...)

	// Commit before delivery so a reported revision is never re-sent,
	// even when delivery itself fails afterwards.
	if err := d.store.Commit(selection); err != nil {
		d.warn("persist version state failed, duplicates possible next run", "error", err)
	}

	report := d.builder.Build(ctx, now, selectedUpdates, selectedPublishes)
	fmt.Fprintln(d.out, report)

	if d.mailer == nil {
		d.info("mailer not configured, console digest only")
		return nil
	}

	subject := "arXiv paper digest - " + now.Format("2006-01-02")
	if err := d.mailer.Send(ctx, subject, report); err != nil {
		d.warn("email delivery failed", "error", err)
		return nil
	}

	d.info("digest delivered", "papers", len(selection))
	return nil
}

func (d *Dispatcher) info(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Info(msg, args...)
	}
}

func (d *Dispatcher) warn(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Warn(msg, args...)
	}
}
