package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/wardenbot/warden/cmd/welcomebot/config"
	"github.com/wardenbot/warden/pkg/entities"
	"github.com/wardenbot/warden/pkg/logging"
	"github.com/wardenbot/warden/pkg/templates"
)

// GreetingPlan is the set of effects one join event produces. It is built
// purely from the config and the join data, then executed in order; a
// failed effect never blocks the remaining ones.
type GreetingPlan struct {
	// ChannelID is the channel the greeting embed is sent to. Empty means
	// no channel message.
	ChannelID string

	// Embed is the rendered greeting embed, shared by the channel message
	// and the DM.
	Embed *discordgo.MessageEmbed

	// RoleID is the role granted to the member. Empty means no grant.
	RoleID string

	// SendDM controls whether the greeting is also sent as a direct
	// message.
	SendDM bool
}

// Empty reports whether the plan carries no effects at all.
func (p *GreetingPlan) Empty() bool {
	return p == nil || (p.ChannelID == "" && p.RoleID == "" && !p.SendDM)
}

// buildGreetingPlan renders the configured greeting against one join event.
// A disabled config produces a nil plan.
func buildGreetingPlan(cfg *entities.WelcomeConfig, d templates.Data) *GreetingPlan {
	if !cfg.Enabled {
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title:       templates.Render(cfg.Title, d),
		Description: templates.Render(cfg.Message, d),
		Color:       cfg.EmbedColor(),
	}
	if cfg.Banner != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: cfg.Banner}
	}
	if cfg.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: cfg.Thumbnail}
	}

	return &GreetingPlan{
		ChannelID: cfg.ChannelID,
		Embed:     embed,
		RoleID:    cfg.RoleID,
		SendDM:    cfg.DM,
	}
}

// guildMemberAddHandler greets each new member per the stored config.
func guildMemberAddHandler(a IApp) func(s *discordgo.Session, e *discordgo.GuildMemberAdd) {
	return func(s *discordgo.Session, e *discordgo.GuildMemberAdd) {
		if e.GuildID != config.GuildId || e.User == nil || e.User.Bot {
			return
		}

		ctx := context.Background()

		// Joins can burst; pace the outbound calls.
		if err := a.Limiter().Wait(ctx); err != nil {
			a.Log().Error("Error waiting for rate limiter", slog.String(logging.KeyError, err.Error()))
			return
		}

		cfg, err := a.Store().Config(ctx)
		if err != nil {
			a.Log().Error("Error getting config", slog.String(logging.KeyError, err.Error()))
			return
		}

		plan := buildGreetingPlan(cfg, greetingData(s, e))
		if plan.Empty() {
			return
		}

		executed, failed := executeGreetingPlan(a, e, plan)

		MembersGreeted.Inc()
		if err := a.Store().AppendLog(ctx, "Member greeted", e.User.ID); err != nil {
			a.Log().Warn("Error appending greeting log", slog.String(logging.KeyError, err.Error()))
		}

		// One audit entry and one log line per join, whatever the mix of
		// effect outcomes.
		details := fmt.Sprintf("Effects: %s", strings.Join(executed, ", "))
		if len(failed) > 0 {
			details += fmt.Sprintf(" | Failed: %s", strings.Join(failed, ", "))
		}
		sendAuditLog(a, "Member greeted", e.User.ID, details)

		a.Log().Info("Member greeted",
			slog.String(logging.KeyGuild, e.GuildID),
			slog.String(logging.KeyUser, e.User.ID),
			slog.String("effects", strings.Join(executed, ",")),
			slog.String("failed", strings.Join(failed, ",")),
		)
	}
}

// greetingData builds the substitution set for one join event.
func greetingData(s *discordgo.Session, e *discordgo.GuildMemberAdd) templates.Data {
	d := templates.Data{
		UserMention: e.User.Mention(),
		UserName:    e.User.Username,
		UserTag:     e.User.String(),
	}

	guild, err := s.State.Guild(e.GuildID)
	if err != nil {
		guild, err = s.Guild(e.GuildID)
	}
	if err == nil && guild != nil {
		d.ServerName = guild.Name
		d.MemberCount = guild.MemberCount
	}
	return d
}

// executeGreetingPlan runs each effect, returning the names of the effects
// that succeeded and those that failed.
func executeGreetingPlan(a IApp, e *discordgo.GuildMemberAdd, plan *GreetingPlan) (executed, failed []string) {
	if plan.ChannelID != "" {
		if _, err := a.Session().ChannelMessageSendEmbed(plan.ChannelID, plan.Embed); err != nil {
			a.Log().Warn("Error sending greeting message",
				slog.String(logging.KeyChannel, plan.ChannelID),
				slog.String(logging.KeyError, err.Error()),
			)
			GreetingEffectFailures.WithLabelValues("message").Inc()
			failed = append(failed, "message")
		} else {
			executed = append(executed, "message")
		}
	}

	if plan.RoleID != "" {
		if err := a.Session().GuildMemberRoleAdd(e.GuildID, e.User.ID, plan.RoleID); err != nil {
			a.Log().Warn("Error granting auto-role",
				slog.String(logging.KeyUser, e.User.ID),
				slog.String(logging.KeyError, err.Error()),
			)
			GreetingEffectFailures.WithLabelValues("role").Inc()
			failed = append(failed, "role")
		} else {
			executed = append(executed, "role")
		}
	}

	if plan.SendDM {
		if err := dmUser(a, e.User.ID, &discordgo.MessageSend{
			Embeds: []*discordgo.MessageEmbed{plan.Embed},
		}); err != nil {
			// Closed DMs are normal.
			a.Log().Debug("Error sending greeting DM",
				slog.String(logging.KeyUser, e.User.ID),
				slog.String(logging.KeyError, err.Error()),
			)
			GreetingEffectFailures.WithLabelValues("dm").Inc()
			failed = append(failed, "dm")
		} else {
			executed = append(executed, "dm")
		}
	}
	return executed, failed
}
