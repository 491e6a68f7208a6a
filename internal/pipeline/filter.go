package pipeline

import (
	"time"

	"paperscraper/internal/domain"
)

// FilterPublished keeps papers whose first publication falls within the
// window ending at now. The lower bound is inclusive. Input order is
// preserved and the input slice is not mutated.
func FilterPublished(papers []domain.Paper, now time.Time, windowDays int) []domain.Paper {
	cutoff := now.UTC().AddDate(0, 0, -windowDays)

	recent := make([]domain.Paper, 0, len(papers))
	for _, p := range papers {
		if !p.Published.Before(cutoff) {
			recent = append(recent, p)
		}
	}
	return recent
}

// FilterUpdated keeps papers revised within the window that carry at
// least minVersion revisions. With the default minVersion of 2 a paper
// never revised past its first version does not count as updated, even
// when its updated timestamp equals its published timestamp.
func FilterUpdated(papers []domain.Paper, now time.Time, windowDays, minVersion int) []domain.Paper {
	cutoff := now.UTC().AddDate(0, 0, -windowDays)

	recent := make([]domain.Paper, 0, len(papers))
	for _, p := range papers {
		if !p.Updated.Before(cutoff) && p.Version >= minVersion {
			recent = append(recent, p)
		}
	}
	return recent
}
