package ports

import (
	"context"
	"time"

	"paperscraper/internal/domain"
)

// PaperSource queries the upstream paper index for one bucket of
// subject-classification codes, newest updates first.
type PaperSource interface {
	Search(ctx context.Context, categories []string, maxResults int) ([]domain.Paper, error)
}

// Summarizer condenses an abstract into a short digest paragraph.
type Summarizer interface {
	Summarize(ctx context.Context, abstract string) (string, error)
}

// Mailer delivers the rendered digest to the configured recipient.
type Mailer interface {
	Send(ctx context.Context, subject, body string) error
}

// Scheduler controls when pipeline runs execute in daemon mode.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
