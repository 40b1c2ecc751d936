package filestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardenbot/warden/pkg/dataaccess"
	"github.com/wardenbot/warden/pkg/entities"
	"github.com/wardenbot/warden/pkg/logging"
)

var (
	_ dataaccess.TicketStore  = (*Store)(nil)
	_ dataaccess.WelcomeStore = (*Store)(nil)
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	s, err := New(l, t.TempDir())
	require.NoError(t, err, "Failed to create store")
	return s
}

func TestStore_NextTicketNumber_Concurrent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const n = 25

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []int
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := s.NextTicketNumber(ctx)
			assert.NoError(t, err)

			mu.Lock()
			numbers = append(numbers, got)
			mu.Unlock()
		}()
	}
	wg.Wait()

	// Every number in {1..n}, no duplicates.
	sort.Ints(numbers)
	require.Len(t, numbers, n)
	for i, got := range numbers {
		require.Equal(t, i+1, got)
	}

	// The persisted counter equals n.
	next, err := s.NextTicketNumber(ctx)
	require.NoError(t, err)
	require.Equal(t, n+1, next)
}

func TestStore_NextTicketNumber_SurvivesRestart(t *testing.T) {
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err)

	dir := t.TempDir()
	ctx := context.Background()

	s, err := New(l, dir)
	require.NoError(t, err)

	got, err := s.NextTicketNumber(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, got)

	// A new store over the same directory continues the sequence.
	s2, err := New(l, dir)
	require.NoError(t, err)

	got, err = s2.NextTicketNumber(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, got)
}

func TestStore_CreateSection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	section := &entities.Section{
		Title:       "Billing",
		Description: "Billing questions",
		RoleID:      "role-1",
		CategoryID:  "cat-1",
	}

	require.NoError(t, s.CreateSection(ctx, "1", section))

	// Creating the same number again fails without mutating the registry.
	err := s.CreateSection(ctx, "1", &entities.Section{Title: "Other"})
	require.ErrorIs(t, err, dataaccess.ErrSectionExists)

	sections, err := s.Sections(ctx)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	require.Equal(t, "Billing", sections["1"].Title)
}

func TestStore_DeleteSection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.DeleteSection(ctx, "9")
	require.ErrorIs(t, err, dataaccess.ErrSectionNotFound)

	require.NoError(t, s.CreateSection(ctx, "9", &entities.Section{Title: "General"}))
	require.NoError(t, s.DeleteSection(ctx, "9"))

	sections, err := s.Sections(ctx)
	require.NoError(t, err)
	require.Empty(t, sections)
}

func TestStore_TicketRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ticket := &entities.Ticket{
		Number:    1,
		GuildID:   "guild-1",
		ChannelID: "chan-1",
		UserID:    "user-1",
		RoleID:    "role-1",
		Status:    entities.TicketStatusOpen,
	}
	require.NoError(t, s.SaveTicket(ctx, ticket))

	got, err := s.TicketByChannel(ctx, "chan-1")
	require.NoError(t, err)
	require.Equal(t, ticket.Number, got.Number)
	require.Equal(t, ticket.UserID, got.UserID)
	require.Equal(t, entities.TicketStatusOpen, got.Status)

	_, err = s.TicketByChannel(ctx, "missing")
	require.ErrorIs(t, err, dataaccess.ErrTicketNotFound)

	require.NoError(t, s.DeleteTicket(ctx, "chan-1"))
	_, err = s.TicketByChannel(ctx, "chan-1")
	require.ErrorIs(t, err, dataaccess.ErrTicketNotFound)
}

func TestStore_SelfHealsCorruptDocument(t *testing.T) {
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err)

	dir := t.TempDir()
	s, err := New(l, dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, WelcomeFile), []byte(`{not json`), 0o644))

	cfg, err := s.Config(context.Background())
	require.NoError(t, err)
	require.Equal(t, entities.DefaultWelcomeConfig().Title, cfg.Title)

	// The corrupt file was overwritten with defaults.
	b, err := os.ReadFile(filepath.Join(dir, WelcomeFile))
	require.NoError(t, err)
	require.NotContains(t, string(b), "{not json")
}

func TestStore_WelcomeConfigDefaultsWhenMissing(t *testing.T) {
	s := newTestStore(t)

	cfg, err := s.Config(context.Background())
	require.NoError(t, err)
	require.False(t, cfg.Enabled)
	require.Equal(t, entities.DefaultWelcomeConfig().Message, cfg.Message)
}

func TestStore_AppendLogTruncates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= entities.MaxWelcomeLogEntries+1; i++ {
		require.NoError(t, s.AppendLog(ctx, fmt.Sprintf("action-%d", i), "admin"))
	}

	cfg, err := s.Config(ctx)
	require.NoError(t, err)
	require.Len(t, cfg.Logs, entities.MaxWelcomeLogEntries)
	require.Equal(t, "action-2", cfg.Logs[0].Action)
}

func TestStore_Ping(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Ping(context.Background()))

	s.dir = filepath.Join(s.dir, "gone")
	err := s.Ping(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, os.ErrNotExist))
}
