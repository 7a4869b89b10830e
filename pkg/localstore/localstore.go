// Package localstore keeps a small namespaced record of recent calculation
// summaries on local disk. It exists for the lightweight recent-history view
// only and is never synchronized with the database: entries are appended on
// save and silently dropped past the cap.
package localstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/obracalc/backend/internal/model"
)

const fileName = "obracalc_history.json"

// DefaultLimit caps how many summaries are kept per user.
const DefaultLimit = 50

// Store is a file-backed key-value record: user id -> recent summaries,
// newest first.
type Store struct {
	path  string
	limit int

	mu sync.Mutex
}

// New creates a Store under dir, creating the directory if needed.
// A limit <= 0 falls back to DefaultLimit.
func New(dir string, limit int) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{path: filepath.Join(dir, fileName), limit: limit}, nil
}

// Append prepends a summary to the user's history, dropping anything past
// the cap.
func (s *Store) Append(userID string, summary model.CalculationSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	entries := append([]model.CalculationSummary{summary}, data[userID]...)
	if len(entries) > s.limit {
		entries = entries[:s.limit]
	}
	data[userID] = entries
	return s.save(data)
}

// Recent returns the user's summaries, newest first.
func (s *Store) Recent(userID string) ([]model.CalculationSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	return data[userID], nil
}

func (s *Store) load() (map[string][]model.CalculationSummary, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string][]model.CalculationSummary{}, nil
	}
	if err != nil {
		return nil, err
	}
	data := map[string][]model.CalculationSummary{}
	if err := json.Unmarshal(raw, &data); err != nil {
		// A corrupt history file is not worth failing a save over; start fresh.
		return map[string][]model.CalculationSummary{}, nil
	}
	return data, nil
}

func (s *Store) save(data map[string][]model.CalculationSummary) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
