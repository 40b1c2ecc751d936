package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/wardenbot/warden/cmd/welcomebot/config"
	"github.com/wardenbot/warden/pkg/logging"
)

func respondEphemeral(a IApp, i *discordgo.InteractionCreate, content string) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// hasRole reports whether the member holds the given role.
func hasRole(member *discordgo.Member, roleID string) bool {
	if member == nil || roleID == "" {
		return false
	}
	for _, r := range member.Roles {
		if r == roleID {
			return true
		}
	}
	return false
}

// isAdmin reports whether the member holds any configured admin role, or is
// the admin-override user.
func isAdmin(member *discordgo.Member, adminRoles []string, adminUserID string) bool {
	if member == nil {
		return false
	}
	if adminUserID != "" && member.User != nil && member.User.ID == adminUserID {
		return true
	}
	for _, roleID := range adminRoles {
		if hasRole(member, roleID) {
			return true
		}
	}
	return false
}

// modalValue extracts the value of a text input from a modal submission.
func modalValue(data discordgo.ModalSubmitInteractionData, customID string) string {
	for _, row := range data.Components {
		ar, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range ar.Components {
			if in, ok := comp.(*discordgo.TextInput); ok && in.CustomID == customID {
				return in.Value
			}
		}
	}
	return ""
}

// dmUser sends a direct message to a user. Failures are the caller's to
// swallow; closed DMs are normal.
func dmUser(a IApp, userID string, send *discordgo.MessageSend) error {
	dm, err := a.Session().UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("error creating DM channel: %w", err)
	}
	if _, err := a.Session().ChannelMessageSendComplex(dm.ID, send); err != nil {
		return fmt.Errorf("error sending DM: %w", err)
	}
	return nil
}

// sendAuditLog sends an action embed to the configured log channel. Best
// effort; a missing or broken log channel never fails the parent operation.
func sendAuditLog(a IApp, action string, actorID, details string) {
	if config.LogsChannelId == "" {
		return
	}

	if details == "" {
		details = "-"
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Welcome log - %s", action),
		Color: 0xffff00,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Action", Value: action, Inline: true},
			{Name: "User", Value: fmt.Sprintf("<@%s>", actorID), Inline: true},
			{Name: "Details", Value: details, Inline: false},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if _, err := a.Session().ChannelMessageSendEmbed(config.LogsChannelId, embed); err != nil {
		a.Log().Warn("Error sending audit log",
			slog.String(logging.KeyChannel, config.LogsChannelId),
			slog.String(logging.KeyError, err.Error()),
		)
	}
}
