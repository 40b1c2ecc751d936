package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wardenbot/warden/pkg/entities"
)

func TestSectionSelectOptions(t *testing.T) {
	t.Run("empty registry", func(t *testing.T) {
		options := sectionSelectOptions(map[string]*entities.Section{})
		require.Empty(t, options)
	})

	t.Run("sorted by number", func(t *testing.T) {
		sections := map[string]*entities.Section{
			"3": {Title: "Reports", Description: "Report a member"},
			"1": {Title: "Support", Description: "General support"},
			"2": {Title: "Appeals", Description: "Appeal a ban"},
		}

		options := sectionSelectOptions(sections)
		require.Len(t, options, 3)
		require.Equal(t, "Support", options[0].Label)
		require.Equal(t, "Appeals", options[1].Label)
		require.Equal(t, "Reports", options[2].Label)
		require.Equal(t, "1", options[0].Value)
	})

	t.Run("long description truncated", func(t *testing.T) {
		sections := map[string]*entities.Section{
			"1": {Title: "Support", Description: strings.Repeat("a", 250)},
		}

		options := sectionSelectOptions(sections)
		require.Len(t, options, 1)
		require.Len(t, options[0].Description, 100)
	})
}
