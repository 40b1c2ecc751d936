package entities

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWelcomeConfig_AppendLog(t *testing.T) {
	cfg := DefaultWelcomeConfig()

	for i := 1; i <= MaxWelcomeLogEntries+1; i++ {
		cfg.AppendLog(fmt.Sprintf("action-%d", i), "admin")
	}

	require.Len(t, cfg.Logs, MaxWelcomeLogEntries)

	// The oldest entry was dropped and order is preserved.
	require.Equal(t, "action-2", cfg.Logs[0].Action)
	require.Equal(t, fmt.Sprintf("action-%d", MaxWelcomeLogEntries+1), cfg.Logs[len(cfg.Logs)-1].Action)
}

func TestValidHexColor(t *testing.T) {
	tests := []struct {
		name  string
		color string
		want  bool
	}{
		{name: "SixDigit", color: "#0099ff", want: true},
		{name: "ThreeDigit", color: "#abc", want: true},
		{name: "NoHash", color: "0099ff", want: true},
		{name: "TooShort", color: "#ab", want: false},
		{name: "NotHex", color: "#zzzzzz", want: false},
		{name: "Empty", color: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ValidHexColor(tt.color))
		})
	}
}

func TestHexColor(t *testing.T) {
	tests := []struct {
		name  string
		color string
		want  int
		ok    bool
	}{
		{name: "SixDigit", color: "#0099ff", want: 0x0099ff, ok: true},
		{name: "ThreeDigitExpanded", color: "#abc", want: 0xaabbcc, ok: true},
		{name: "Invalid", color: "nope", want: 0, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := HexColor(tt.color)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestValidImageURL(t *testing.T) {
	require.True(t, ValidImageURL("https://example.com/banner.png"))
	require.True(t, ValidImageURL("http://example.com/logo.png"))
	require.False(t, ValidImageURL("ftp://example.com/banner.png"))
	require.False(t, ValidImageURL("not a url"))
}
