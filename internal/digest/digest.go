package digest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"paperscraper/internal/domain"
	"paperscraper/internal/ports"
)

const (
	separatorWidth = 34
	abstractLimit  = 1000
	maxListed      = 5
)

// Builder renders the final selection as a plain-text report. Summaries
// are best effort: a nil or failing summarizer degrades to the raw
// abstract only.
type Builder struct {
	summarizer ports.Summarizer
	logger     *slog.Logger
}

// NewBuilder wires an optional summarizer; pass nil when disabled.
func NewBuilder(summarizer ports.Summarizer, logger *slog.Logger) *Builder {
	return &Builder{summarizer: summarizer, logger: logger}
}

// Build formats the selected updates and publishes, in that order, into
// the digest body.
func (b *Builder) Build(ctx context.Context, now time.Time, updates, publishes []domain.Candidate) string {
	var sb strings.Builder
	separator := strings.Repeat("=", separatorWidth)

	fmt.Fprintf(&sb, "Date: %s\n", now.Format("2006-01-02 15:04"))
	fmt.Fprintf(&sb, "New papers: %d\n\n", len(updates)+len(publishes))
	sb.WriteString(separator)

	count := 1
	for _, c := range updates {
		b.writeEntry(ctx, &sb, c, count, separator)
		count++
	}
	for _, c := range publishes {
		b.writeEntry(ctx, &sb, c, count, separator)
		count++
	}

	return sb.String()
}

func (b *Builder) writeEntry(ctx context.Context, sb *strings.Builder, c domain.Candidate, number int, separator string) {
	tag := "Published"
	if c.Kind == domain.KindUpdated {
		tag = "Updated"
	}

	p := c.Paper
	fmt.Fprintf(sb, "\n[%s] Paper #%d\n", tag, number)
	fmt.Fprintf(sb, "Title: %s\n", p.Title)
	fmt.Fprintf(sb, "Authors: %s\n", strings.Join(firstN(p.Authors, maxListed), ", "))
	if len(p.Authors) > maxListed {
		fmt.Fprintf(sb, "         ... and %d authors in total\n", len(p.Authors))
	}
	fmt.Fprintf(sb, "Published: %s\n", p.Published.Format("2006-01-02"))
	if c.Kind == domain.KindUpdated {
		fmt.Fprintf(sb, "Updated: %s\n", p.Updated.Format("2006-01-02"))
	}
	fmt.Fprintf(sb, "Version: v%d\n", p.Version)
	fmt.Fprintf(sb, "Category: %s\n", p.PrimaryCategory)
	if p.DOI != "" {
		fmt.Fprintf(sb, "DOI: %s\n", p.DOI)
	}
	if p.Comment != "" {
		fmt.Fprintf(sb, "Comment: %s\n", p.Comment)
	}
	if p.JournalRef != "" {
		fmt.Fprintf(sb, "Journal ref: %s\n", p.JournalRef)
	}

	if summary := b.summarize(ctx, p.Abstract); summary != "" {
		fmt.Fprintf(sb, "\nHighlights: %s\n", summary)
	}

	abstract := []rune(p.Abstract)
	fmt.Fprintf(sb, "\nAbstract [%d chars]:\n", len(abstract))
	if len(abstract) > abstractLimit {
		fmt.Fprintf(sb, "%s\n... (%d chars in total)\n", string(abstract[:abstractLimit]), len(abstract))
	} else {
		fmt.Fprintf(sb, "%s\n", p.Abstract)
	}

	fmt.Fprintf(sb, "\nLink: %s\n", p.ID)
	sb.WriteString(separator)
}

func (b *Builder) summarize(ctx context.Context, abstract string) string {
	if b.summarizer == nil || abstract == "" {
		return ""
	}

	summary, err := b.summarizer.Summarize(ctx, abstract)
	if err != nil {
		if b.logger != nil {
			b.logger.Warn("summarization failed, abstract only", "error", err)
		}
		return ""
	}
	return strings.TrimSpace(summary)
}

func firstN(values []string, n int) []string {
	if len(values) <= n {
		return values
	}
	return values[:n]
}
