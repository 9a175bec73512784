// Package storage persists user history and preferences behind a small
// store interface, with in-memory and SQLite implementations.
package storage

import (
	"sync"

	"github.com/yourusername/copilot-core/models"
)

// HistoryStore is the persistence boundary for per-user state. Load methods
// return (nil, nil) when no record exists; callers apply their own defaults.
type HistoryStore interface {
	LoadHistory(userID string) (*models.UserHistory, error)
	SaveHistory(history *models.UserHistory) error
	LoadPreferences(userID string) (*models.UserPreferences, error)
	SavePreferences(prefs *models.UserPreferences) error
	Close() error
}

// MemoryStore keeps everything in process memory. Used in tests and as the
// default when no database path is configured.
type MemoryStore struct {
	histories   map[string]*models.UserHistory
	preferences map[string]*models.UserPreferences
	mu          sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		histories:   make(map[string]*models.UserHistory),
		preferences: make(map[string]*models.UserPreferences),
	}
}

func (s *MemoryStore) LoadHistory(userID string) (*models.UserHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.histories[userID]
	if !ok {
		return nil, nil
	}
	copied := *history
	copied.RecentPrompts = append([]string(nil), history.RecentPrompts...)
	copied.PreferredPatterns = append([]string(nil), history.PreferredPatterns...)
	copied.CommonMistakes = append([]string(nil), history.CommonMistakes...)
	return &copied, nil
}

func (s *MemoryStore) SaveHistory(history *models.UserHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *history
	copied.RecentPrompts = append([]string(nil), history.RecentPrompts...)
	copied.PreferredPatterns = append([]string(nil), history.PreferredPatterns...)
	copied.CommonMistakes = append([]string(nil), history.CommonMistakes...)
	s.histories[history.UserID] = &copied
	return nil
}

func (s *MemoryStore) LoadPreferences(userID string) (*models.UserPreferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefs, ok := s.preferences[userID]
	if !ok {
		return nil, nil
	}
	copied := *prefs
	return &copied, nil
}

func (s *MemoryStore) SavePreferences(prefs *models.UserPreferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *prefs
	s.preferences[prefs.UserID] = &copied
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
