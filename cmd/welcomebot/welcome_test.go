package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wardenbot/warden/pkg/entities"
)

func makeLogs(n int) []entities.WelcomeLogEntry {
	logs := make([]entities.WelcomeLogEntry, 0, n)
	for i := 0; i < n; i++ {
		logs = append(logs, entities.WelcomeLogEntry{
			Action: fmt.Sprintf("action-%d", i+1),
			UserID: "user-1",
		})
	}
	return logs
}

func TestLogsPage(t *testing.T) {
	t.Run("empty log", func(t *testing.T) {
		entries, page, totalPages := logsPage(nil, 0)
		require.Empty(t, entries)
		require.Zero(t, page)
		require.Equal(t, 1, totalPages)
	})

	t.Run("newest first", func(t *testing.T) {
		entries, page, totalPages := logsPage(makeLogs(3), 0)
		require.Len(t, entries, 3)
		require.Zero(t, page)
		require.Equal(t, 1, totalPages)
		require.Equal(t, "action-3", entries[0].Action)
		require.Equal(t, "action-1", entries[2].Action)
	})

	t.Run("pages split at ten entries", func(t *testing.T) {
		entries, page, totalPages := logsPage(makeLogs(25), 1)
		require.Len(t, entries, 10)
		require.Equal(t, 1, page)
		require.Equal(t, 3, totalPages)
		// Page 1 carries entries 15 down to 6.
		require.Equal(t, "action-15", entries[0].Action)
		require.Equal(t, "action-6", entries[9].Action)
	})

	t.Run("last page is partial", func(t *testing.T) {
		entries, page, totalPages := logsPage(makeLogs(25), 2)
		require.Len(t, entries, 5)
		require.Equal(t, 2, page)
		require.Equal(t, 3, totalPages)
		require.Equal(t, "action-1", entries[4].Action)
	})

	t.Run("page clamped into range", func(t *testing.T) {
		entries, page, _ := logsPage(makeLogs(25), 99)
		require.Len(t, entries, 5)
		require.Equal(t, 2, page)

		entries, page, _ = logsPage(makeLogs(25), -4)
		require.Len(t, entries, 10)
		require.Zero(t, page)
	})
}

func TestPageFromCustomID(t *testing.T) {
	tests := []struct {
		name     string
		customID string
		want     int
	}{
		{name: "valid page", customID: "welcome_logs:3", want: 3},
		{name: "no separator", customID: "welcome_logs", want: 0},
		{name: "negative page", customID: "welcome_logs:-1", want: 0},
		{name: "garbage page", customID: "welcome_logs:abc", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, pageFromCustomID(tt.customID))
		})
	}
}

func TestPanelComponents(t *testing.T) {
	cfg := entities.DefaultWelcomeConfig()

	components := panelComponents(cfg)
	require.Len(t, components, 3)

	embed := panelEmbed(cfg)
	require.Equal(t, cfg.EmbedColor(), embed.Color)
	require.Len(t, embed.Fields, 6)
}
