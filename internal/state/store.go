package state

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"paperscraper/internal/domain"
)

// Store persists the versioned-identifier to revision-number map between
// runs. It is the single source of truth for novelty decisions: an entry
// records the last revision that was actually reported, and entries are
// only added or overwritten with equal-or-later revisions.
type Store struct {
	path     string
	logger   *slog.Logger
	versions map[string]int
}

// NewStore wires a store over the given state file path.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{path: path, logger: logger, versions: map[string]int{}}
}

// Load reads the persisted map. A missing or unparseable file yields an
// empty map; prior-state corruption is never fatal, at the cost of
// potentially re-reporting items once.
func (s *Store) Load() map[string]int {
	s.versions = map[string]int{}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.warn("cannot read state file, starting empty", "path", s.path, "error", err)
		}
		return s.versions
	}

	if err := json.Unmarshal(raw, &s.versions); err != nil {
		s.warn("cannot parse state file, starting empty", "path", s.path, "error", err)
		s.versions = map[string]int{}
	}

	return s.versions
}

// Commit records the final selection and persists the full map in one
// guarded step, so a produced digest is never observable without its
// version-state update.
func (s *Store) Commit(selected []domain.Candidate) error {
	for _, c := range selected {
		s.versions[c.Paper.ID] = c.Paper.Version
	}
	return s.Save()
}

// Save writes the full map with stable, diffable formatting. The write
// goes through a temp file and rename so a crash never leaves a partial
// state file behind.
func (s *Store) Save() error {
	raw, err := json.MarshalIndent(s.versions, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal version state: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close state file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace state file: %w", err)
	}

	return nil
}

func (s *Store) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
