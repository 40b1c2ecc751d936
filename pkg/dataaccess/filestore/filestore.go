// Package filestore persists the bot state as flat JSON documents on disk,
// one document per file, human-editable, overwritten whole on every
// mutation. A single mutex serialises every read-modify-write cycle.
package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/wardenbot/warden/pkg/dataaccess/monitoring"
	"github.com/wardenbot/warden/pkg/logging"
)

const storeName = "filestore"

const (
	// SettingsFile holds the ticket appearance settings.
	SettingsFile = "ticket.json"

	// SectionsFile holds the section registry.
	SectionsFile = "sections.json"

	// CounterFile holds the ticket sequence counter.
	CounterFile = "tickets_counter.json"

	// TicketsFile holds the ticket records keyed by channel ID.
	TicketsFile = "tickets.json"

	// WelcomeFile holds the welcome settings record.
	WelcomeFile = "welcome.json"
)

// Store is a JSON-file backed store. It implements both
// dataaccess.TicketStore and dataaccess.WelcomeStore.
type Store struct {
	// l is the logger.
	l *slog.Logger

	// dir is the directory the documents live in.
	dir string

	// mu serialises every read-modify-write cycle on the documents.
	mu sync.Mutex
}

// New creates a store rooted at dir, creating the directory if needed.
func New(l *slog.Logger, dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating data directory: %w", err)
	}

	return &Store{
		l:   l.With(slog.String(logging.KeyStore, storeName)),
		dir: dir,
	}, nil
}

// observe starts the store metrics for one operation and returns the timer.
func observe(op string) *prometheus.Timer {
	monitoring.StoreTotalRequests.WithLabelValues(storeName, op).Inc()
	return prometheus.NewTimer(monitoring.StoreLatency.WithLabelValues(storeName, op))
}

// load reads one document into v. The caller must hold the mutex.
func (s *Store) load(name string, v any) error {
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}

	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("error decoding %s: %w", name, err)
	}
	return nil
}

// save overwrites one document with v. The caller must hold the mutex.
func (s *Store) save(name string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", name, err)
	}

	if err := os.WriteFile(filepath.Join(s.dir, name), b, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", name, err)
	}
	return nil
}

// heal regenerates a document from defaults after a missing or corrupt
// read, discarding whatever was there. The caller must hold the mutex.
func (s *Store) heal(name string, readErr error, defaults any) error {
	if !errors.Is(readErr, os.ErrNotExist) {
		s.l.Warn("Regenerating corrupt document",
			slog.String("file", name),
			slog.String(logging.KeyError, readErr.Error()),
		)
	}
	return s.save(name, defaults)
}
