package main

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wardenbot/warden/pkg/entities"
	"github.com/wardenbot/warden/pkg/templates"
)

func TestBuildGreetingPlan(t *testing.T) {
	data := templates.Data{
		UserMention: "<@user-1>",
		UserName:    "newbie",
		UserTag:     "newbie#0001",
		ServerName:  "Testers",
		MemberCount: 42,
	}

	t.Run("disabled config produces no plan", func(t *testing.T) {
		cfg := entities.DefaultWelcomeConfig()
		cfg.Enabled = false
		cfg.ChannelID = "chan-1"
		cfg.RoleID = "role-1"
		cfg.DM = true

		plan := buildGreetingPlan(cfg, data)
		require.Nil(t, plan)
		require.True(t, plan.Empty())
	})

	t.Run("enabled with nothing configured is empty", func(t *testing.T) {
		cfg := entities.DefaultWelcomeConfig()
		cfg.Enabled = true

		plan := buildGreetingPlan(cfg, data)
		require.NotNil(t, plan)
		require.True(t, plan.Empty())
	})

	t.Run("tokens rendered into the embed", func(t *testing.T) {
		cfg := entities.DefaultWelcomeConfig()
		cfg.Enabled = true
		cfg.ChannelID = "chan-1"
		cfg.Title = "Welcome to {server.name}!"
		cfg.Message = "{user.mention} makes {member.count} of us."

		plan := buildGreetingPlan(cfg, data)
		require.False(t, plan.Empty())
		require.Equal(t, "Welcome to Testers!", plan.Embed.Title)
		require.Equal(t, "<@user-1> makes 42 of us.", plan.Embed.Description)
	})

	t.Run("all effects carried", func(t *testing.T) {
		cfg := entities.DefaultWelcomeConfig()
		cfg.Enabled = true
		cfg.ChannelID = "chan-1"
		cfg.RoleID = "role-1"
		cfg.DM = true
		cfg.Banner = "https://example.com/banner.png"
		cfg.Thumbnail = "https://example.com/logo.png"

		plan := buildGreetingPlan(cfg, data)
		require.Equal(t, "chan-1", plan.ChannelID)
		require.Equal(t, "role-1", plan.RoleID)
		require.True(t, plan.SendDM)
		require.NotNil(t, plan.Embed.Image)
		require.NotNil(t, plan.Embed.Thumbnail)
	})
}
