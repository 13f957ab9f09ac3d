package services

import (
	"sync"

	"budgetex/internal/config"
	apperrors "budgetex/internal/errors"
	"budgetex/internal/logger"
)

// preferencesService holds the preferences loaded at startup. They change
// only through Update, which saves and then reloads the file.
type preferencesService struct {
	mu    sync.RWMutex
	path  string
	prefs config.Preferences
}

// NewPreferencesService loads preferences from path. A malformed file is
// logged and replaced by defaults.
func NewPreferencesService(path string) PreferencesServicer {
	prefs, err := config.LoadPreferences(path)
	if err != nil {
		logger.Get().Warnw("failed to load preferences, using defaults", "path", path, "error", err)
	}
	return &preferencesService{path: path, prefs: prefs}
}

// Get returns the current preferences.
func (s *preferencesService) Get() config.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// Update writes p to disk and reloads it.
func (s *preferencesService) Update(p config.Preferences) (config.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := config.SavePreferences(s.path, p); err != nil {
		return s.prefs, apperrors.Wrap(apperrors.ErrPreferencesFailed, err)
	}
	reloaded, err := config.LoadPreferences(s.path)
	if err != nil {
		return s.prefs, apperrors.Wrap(apperrors.ErrPreferencesFailed, err)
	}
	s.prefs = reloaded
	logger.Get().Infow("preferences saved", "path", s.path)
	return s.prefs, nil
}
