package pipeline

import "paperscraper/internal/domain"

// IsNewVersion reports whether the given revision is strictly newer than
// what the version map has recorded for its identifier. Identifiers the
// map has never seen are new. No other field participates.
func IsNewVersion(id string, version int, versions map[string]int) bool {
	stored, ok := versions[id]
	if !ok {
		return true
	}
	return version > stored
}

// Resolve turns the filtered subsets into update and publish candidates.
// Updates are resolved first; a title accepted as an update suppresses the
// same title from the publish list, so a revised paper is reported once,
// as an update. The version map is read-only here: only the final
// selection is committed, so candidates dropped by truncation stay
// eligible for a future run.
func Resolve(updated, published []domain.Paper, versions map[string]int) (updates, publishes []domain.Candidate) {
	updatedTitles := make(map[string]struct{}, len(updated))

	for _, p := range updated {
		if !IsNewVersion(p.ID, p.Version, versions) {
			continue
		}
		updates = append(updates, domain.Candidate{Paper: p, Kind: domain.KindUpdated})
		updatedTitles[p.Title] = struct{}{}
	}

	for _, p := range published {
		if _, ok := updatedTitles[p.Title]; ok {
			continue
		}
		if !IsNewVersion(p.ID, p.Version, versions) {
			continue
		}
		publishes = append(publishes, domain.Candidate{Paper: p, Kind: domain.KindPublished})
	}

	return updates, publishes
}
