package digest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paperscraper/internal/domain"
)

type stubSummarizer struct {
	summary string
	err     error
	calls   int
}

func (s *stubSummarizer) Summarize(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.summary, s.err
}

func samplePaper() domain.Paper {
	return domain.Paper{
		ID:              "https://arxiv.org/pdf/2301.07041v2",
		Title:           "Sample Paper",
		Authors:         []string{"Ada Lovelace", "Alan Turing"},
		Abstract:        "An abstract.",
		Published:       time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC),
		Updated:         time.Date(2026, time.August, 20, 17, 30, 0, 0, time.UTC),
		Version:         2,
		PrimaryCategory: "cs.AI",
		DOI:             "10.1000/test.2026",
		Comment:         "10 pages",
		JournalRef:      "J. Test 1 (2026)",
	}
}

func TestBuildUpdatesBeforePublishes(t *testing.T) {
	t.Parallel()

	builder := NewBuilder(nil, nil)
	now := time.Date(2026, time.August, 25, 12, 0, 0, 0, time.UTC)

	updates := []domain.Candidate{{Paper: samplePaper(), Kind: domain.KindUpdated}}
	fresh := samplePaper()
	fresh.Title = "Fresh Paper"
	publishes := []domain.Candidate{{Paper: fresh, Kind: domain.KindPublished}}

	report := builder.Build(context.Background(), now, updates, publishes)

	assert.Contains(t, report, "Date: 2026-08-25 12:00")
	assert.Contains(t, report, "New papers: 2")
	assert.Contains(t, report, "[Updated] Paper #1")
	assert.Contains(t, report, "[Published] Paper #2")
	assert.Less(t, strings.Index(report, "[Updated]"), strings.Index(report, "[Published]"))

	assert.Contains(t, report, "Version: v2")
	assert.Contains(t, report, "Category: cs.AI")
	assert.Contains(t, report, "DOI: 10.1000/test.2026")
	assert.Contains(t, report, "Comment: 10 pages")
	assert.Contains(t, report, "Journal ref: J. Test 1 (2026)")
	assert.Contains(t, report, "Link: https://arxiv.org/pdf/2301.07041v2")
}

func TestBuildUpdatedDateOnlyForUpdates(t *testing.T) {
	t.Parallel()

	builder := NewBuilder(nil, nil)
	now := time.Date(2026, time.August, 25, 12, 0, 0, 0, time.UTC)

	published := builder.Build(context.Background(), now, nil,
		[]domain.Candidate{{Paper: samplePaper(), Kind: domain.KindPublished}})
	assert.NotContains(t, published, "Updated: 2026-08-20")

	updated := builder.Build(context.Background(), now,
		[]domain.Candidate{{Paper: samplePaper(), Kind: domain.KindUpdated}}, nil)
	assert.Contains(t, updated, "Updated: 2026-08-20")
}

func TestBuildTruncatesAuthorList(t *testing.T) {
	t.Parallel()

	paper := samplePaper()
	paper.Authors = nil
	for i := 0; i < 8; i++ {
		paper.Authors = append(paper.Authors, fmt.Sprintf("Author %d", i))
	}

	builder := NewBuilder(nil, nil)
	report := builder.Build(context.Background(), time.Now().UTC(), nil,
		[]domain.Candidate{{Paper: paper, Kind: domain.KindPublished}})

	assert.Contains(t, report, "Author 4")
	assert.NotContains(t, report, "Author 5,")
	assert.Contains(t, report, "... and 8 authors in total")
}

func TestBuildTruncatesLongAbstract(t *testing.T) {
	t.Parallel()

	paper := samplePaper()
	paper.Abstract = strings.Repeat("a", 1500)

	builder := NewBuilder(nil, nil)
	report := builder.Build(context.Background(), time.Now().UTC(), nil,
		[]domain.Candidate{{Paper: paper, Kind: domain.KindPublished}})

	assert.Contains(t, report, "Abstract [1500 chars]:")
	assert.Contains(t, report, "... (1500 chars in total)")
	assert.NotContains(t, report, strings.Repeat("a", 1001))
}

func TestBuildWithSummarizer(t *testing.T) {
	t.Parallel()

	summarizer := &stubSummarizer{summary: "  A tidy summary.  "}
	builder := NewBuilder(summarizer, nil)

	report := builder.Build(context.Background(), time.Now().UTC(), nil,
		[]domain.Candidate{{Paper: samplePaper(), Kind: domain.KindPublished}})

	require.Equal(t, 1, summarizer.calls)
	assert.Contains(t, report, "Highlights: A tidy summary.")
}

func TestBuildSummarizerFailureDegrades(t *testing.T) {
	t.Parallel()

	summarizer := &stubSummarizer{err: fmt.Errorf("no credit")}
	builder := NewBuilder(summarizer, nil)

	report := builder.Build(context.Background(), time.Now().UTC(), nil,
		[]domain.Candidate{{Paper: samplePaper(), Kind: domain.KindPublished}})

	assert.NotContains(t, report, "Highlights:")
	assert.Contains(t, report, "An abstract.", "the raw abstract is still present")
}
