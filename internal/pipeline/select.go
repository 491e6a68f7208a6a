package pipeline

import (
	"sort"
	"time"

	"paperscraper/internal/domain"
)

// Select ranks each candidate list by its relevant timestamp, newest
// first, and truncates it to limit entries. Ties keep input order. The
// truncated-away candidates are not committed and may resurface on a
// later run while still inside the recency window.
func Select(updates, publishes []domain.Candidate, limit int) ([]domain.Candidate, []domain.Candidate) {
	rankedUpdates := rank(updates, func(c domain.Candidate) time.Time { return c.Paper.Updated }, limit)
	rankedPublishes := rank(publishes, func(c domain.Candidate) time.Time { return c.Paper.Published }, limit)
	return rankedUpdates, rankedPublishes
}

func rank(candidates []domain.Candidate, timestamp func(domain.Candidate) time.Time, limit int) []domain.Candidate {
	ranked := make([]domain.Candidate, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		return timestamp(ranked[i]).After(timestamp(ranked[j]))
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
