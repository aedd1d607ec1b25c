package console

import (
	"context"
	"fmt"
	"sync"
)

// InMemoryPreferenceStore provides a concurrency-safe default store for
// single-process deployments.
type InMemoryPreferenceStore struct {
	mu   sync.RWMutex
	data map[string]ViewPreferences
}

// NewInMemoryPreferenceStore creates an empty preference store.
func NewInMemoryPreferenceStore() *InMemoryPreferenceStore {
	return &InMemoryPreferenceStore{
		data: make(map[string]ViewPreferences),
	}
}

// ViewPreferences returns stored preferences or locale-seeded defaults.
func (s *InMemoryPreferenceStore) ViewPreferences(_ context.Context, session SessionContext) (ViewPreferences, error) {
	if session.UserID == "" {
		return s.defaults(session), nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if prefs, ok := s.data[session.UserID]; ok {
		s.normalize(&prefs, session)
		return prefs, nil
	}
	return s.defaults(session), nil
}

// SaveViewPreferences persists preferences for an administrator.
func (s *InMemoryPreferenceStore) SaveViewPreferences(_ context.Context, session SessionContext, prefs ViewPreferences) error {
	if session.UserID == "" {
		return fmt.Errorf("preference store requires session user id")
	}
	s.normalize(&prefs, session)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[session.UserID] = prefs
	return nil
}

func (s *InMemoryPreferenceStore) defaults(session SessionContext) ViewPreferences {
	return ViewPreferences{
		DefaultSection: ResourceUsers,
		PageSize:       DefaultPageSize,
		HiddenColumns:  map[string][]string{},
		Locale:         session.Locale,
	}
}

func (s *InMemoryPreferenceStore) normalize(prefs *ViewPreferences, session SessionContext) {
	if prefs.DefaultSection == "" {
		prefs.DefaultSection = ResourceUsers
	}
	if prefs.PageSize <= 0 || prefs.PageSize > 100 {
		prefs.PageSize = DefaultPageSize
	}
	if prefs.HiddenColumns == nil {
		prefs.HiddenColumns = map[string][]string{}
	}
	if prefs.Locale == "" {
		prefs.Locale = session.Locale
	}
}
