package filestore

import (
	"context"

	"github.com/wardenbot/warden/pkg/entities"
)

func (s *Store) Config(_ context.Context) (*entities.WelcomeConfig, error) {
	defer observe("config").ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadWelcome()
}

func (s *Store) SaveConfig(_ context.Context, cfg *entities.WelcomeConfig) error {
	defer observe("save_config").ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(WelcomeFile, cfg)
}

func (s *Store) AppendLog(_ context.Context, action, userID string) error {
	defer observe("append_log").ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.loadWelcome()
	if err != nil {
		return err
	}

	cfg.AppendLog(action, userID)
	return s.save(WelcomeFile, cfg)
}

// loadWelcome reads the settings record, healing to defaults if missing or
// corrupt. The caller must hold the mutex.
func (s *Store) loadWelcome() (*entities.WelcomeConfig, error) {
	cfg := new(entities.WelcomeConfig)
	if err := s.load(WelcomeFile, cfg); err != nil {
		cfg = entities.DefaultWelcomeConfig()
		if err := s.heal(WelcomeFile, err, cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
