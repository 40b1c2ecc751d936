package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/wardenbot/warden/cmd/ticketbot/config"
	"github.com/wardenbot/warden/pkg/custom"
	"github.com/wardenbot/warden/pkg/dataaccess"
	"github.com/wardenbot/warden/pkg/entities"
	"github.com/wardenbot/warden/pkg/logging"
)

const (
	// requesterAllow is the permission set granted to the ticket opener.
	requesterAllow = discordgo.PermissionViewChannel |
		discordgo.PermissionSendMessages |
		discordgo.PermissionReadMessageHistory

	// staffAllow is the permission set granted to the responsible role.
	staffAllow = requesterAllow | discordgo.PermissionManageMessages

	// adminAllow is the permission set granted to the admin roles.
	adminAllow = requesterAllow | discordgo.PermissionManageChannels
)

// ticketOverwrites builds the permission overwrites for a new ticket
// channel: everyone denied, requester and staff allowed. The responsible
// role is omitted when it could not be resolved, as are admin roles.
func ticketOverwrites(guildID, userID, roleID string, adminRoles []string) []*discordgo.PermissionOverwrite {
	overwrites := []*discordgo.PermissionOverwrite{
		// Deny @everyone from seeing the ticket.
		{
			ID:   guildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		// The opener of the ticket can see the ticket.
		{
			ID:    userID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: requesterAllow,
		},
	}

	if roleID != "" {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    roleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: staffAllow,
		})
	}

	for _, adminRole := range adminRoles {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    adminRole,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: adminAllow,
		})
	}
	return overwrites
}

// closedRequesterPerms is the requester overwrite after close: view revoked.
func closedRequesterPerms() (allow, deny int64) {
	return 0, discordgo.PermissionViewChannel
}

// openRequesterPerms is the requester overwrite while open. Reopening with
// these restores exactly the visibility granted at creation.
func openRequesterPerms() (allow, deny int64) {
	return requesterAllow, 0
}

// sectionSelectHandler creates a ticket for the selected section.
func sectionSelectHandler(a IApp, i *discordgo.InteractionCreate) error {
	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return respondEphemeral(a, i, "No section was selected.")
	}
	number := values[0]

	sections, err := a.Store().Sections(context.Background())
	if err != nil {
		return fmt.Errorf("error getting sections: %w", err)
	}

	section, ok := sections[number]
	if !ok {
		return respondEphemeral(a, i, "That section no longer exists.")
	}

	// Channel creation takes a few round trips; acknowledge first.
	if err := deferEphemeral(a, i); err != nil {
		return fmt.Errorf("error deferring interaction: %w", err)
	}

	if !botHasManagePermissions(a, i.GuildID) {
		return editDeferred(a, i, "The bot is missing the permissions needed to create tickets.")
	}

	ticket, err := createTicket(a, i, section)
	if err != nil {
		a.Log().Error("Error creating ticket",
			slog.String(logging.KeyGuild, i.GuildID),
			slog.String(logging.KeyUser, i.Member.User.ID),
			slog.String(logging.KeyError, err.Error()),
		)

		// Tell the requester privately as well; DMs may be closed.
		if dmErr := dmUser(a, i.Member.User.ID, &discordgo.MessageSend{
			Content: "Your ticket could not be created. Please try again later or contact the staff.",
		}); dmErr != nil {
			a.Log().Warn("Error sending ticket failure DM", slog.String(logging.KeyError, dmErr.Error()))
		}

		return editDeferred(a, i, "Your ticket could not be created, please try again.")
	}

	return editDeferred(a, i, fmt.Sprintf("Your ticket has been created here: <#%s>", ticket.ChannelID))
}

// createTicket allocates the next sequence number, creates the dedicated
// channel and persists the ticket record. The counter is not rolled back on
// failure, which leaves a permanent gap in the sequence.
func createTicket(a IApp, i *discordgo.InteractionCreate, section *entities.Section) (*entities.Ticket, error) {
	roleID := ""
	if role := resolveGuildRole(a, i.GuildID, section.RoleID); role != nil {
		roleID = role.ID
	}

	parentID := ""
	if category, err := a.Session().Channel(section.CategoryID); err == nil && category.Type == discordgo.ChannelTypeGuildCategory {
		parentID = category.ID
	}

	number, err := a.Store().NextTicketNumber(context.Background())
	if err != nil {
		return nil, fmt.Errorf("error allocating ticket number: %w", err)
	}

	ticket := &entities.Ticket{
		Number:    number,
		GuildID:   i.GuildID,
		UserID:    i.Member.User.ID,
		RoleID:    roleID,
		Status:    entities.TicketStatusOpen,
		CreatedAt: custom.Datetime(time.Now().UTC()),
	}

	channel, err := a.Session().GuildChannelCreateComplex(i.GuildID, discordgo.GuildChannelCreateData{
		Name:                 ticket.ChannelName(),
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                fmt.Sprintf("Ticket #%d opened by %s", number, i.Member.User.Username),
		ParentID:             parentID,
		PermissionOverwrites: ticketOverwrites(i.GuildID, i.Member.User.ID, roleID, config.AdminRoles),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating ticket channel: %w", err)
	}

	ticket.ChannelID = channel.ID
	if err := a.Store().SaveTicket(context.Background(), ticket); err != nil {
		return nil, fmt.Errorf("error saving ticket: %w", err)
	}

	if err := sendTicketWelcome(a, ticket, section); err != nil {
		// The channel exists and the record is saved; a failed welcome
		// message is not worth abandoning the ticket over.
		a.Log().Warn("Error sending ticket welcome message",
			slog.String(logging.KeyChannel, channel.ID),
			slog.String(logging.KeyError, err.Error()),
		)
	}

	TicketsCreated.Inc()
	sendAuditLog(a, "Ticket created", i.Member.User.ID, channel.Mention(),
		fmt.Sprintf("Section: %s | Number: #%d", section.Title, number))
	return ticket, nil
}

// sendTicketWelcome posts the first message of the ticket with its action
// controls, mentioning the opener and the responsible role when it exists.
func sendTicketWelcome(a IApp, ticket *entities.Ticket, section *entities.Section) error {
	settings, err := a.Store().Settings(context.Background())
	if err != nil {
		return fmt.Errorf("error getting settings: %w", err)
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Ticket #%d - %s", ticket.Number, section.Title),
		Description: section.Description,
		Color:       settings.Color(),
	}
	if settings.ServerBanner != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: settings.ServerBanner}
	}

	content := fmt.Sprintf("<@%s>", ticket.UserID)
	if ticket.RoleID != "" {
		content += fmt.Sprintf(" <@&%s>", ticket.RoleID)
	}

	_, err = a.Session().ChannelMessageSendComplex(ticket.ChannelID, &discordgo.MessageSend{
		Content: content,
		Embeds:  []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Close ticket",
						Style:    discordgo.DangerButton,
						CustomID: CloseTicketButtonID,
					},
					discordgo.Button{
						Label:    "Add member",
						Style:    discordgo.SecondaryButton,
						CustomID: AddMemberButtonID,
					},
					discordgo.Button{
						Label:    "Claim ticket",
						Style:    discordgo.PrimaryButton,
						CustomID: ClaimTicketButtonID,
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("error sending message: %w", err)
	}
	return nil
}

// ticketForStaff loads the ticket for the interaction channel and enforces
// the staff capability. A nil ticket with a nil error means the rejection
// was already sent.
func ticketForStaff(a IApp, i *discordgo.InteractionCreate) (*entities.Ticket, error) {
	ticket, err := a.Store().TicketByChannel(context.Background(), i.ChannelID)
	if errors.Is(err, dataaccess.ErrTicketNotFound) {
		return nil, respondEphemeral(a, i, "This channel is not a ticket.")
	} else if err != nil {
		return nil, fmt.Errorf("error getting ticket: %w", err)
	}

	if !isTicketStaff(i.Member, ticket.RoleID, config.AdminRoles, config.AdminUserId) {
		return nil, respondEphemeral(a, i, "This action is for the ticket staff only.")
	}
	return ticket, nil
}

// claimTicketHandler acknowledges a staff claim. Claims are not exclusive;
// the last claimer wins.
func claimTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	ticket, err := ticketForStaff(a, i)
	if err != nil || ticket == nil {
		return err
	}

	ticket.ClaimedBy = i.Member.User.ID
	if err := a.Store().SaveTicket(context.Background(), ticket); err != nil {
		return fmt.Errorf("error saving ticket: %w", err)
	}

	err = a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("<@%s> has claimed this ticket. How can we help?", i.Member.User.ID),
		},
	})
	if err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}

	sendAuditLog(a, "Ticket claimed", i.Member.User.ID, fmt.Sprintf("#%d", ticket.Number), "")
	return nil
}

// closeTicketButtonHandler opens the close-reason modal.
func closeTicketButtonHandler(a IApp, i *discordgo.InteractionCreate) error {
	ticket, err := ticketForStaff(a, i)
	if err != nil || ticket == nil {
		return err
	}

	if ticket.Status == entities.TicketStatusClosed {
		return respondEphemeral(a, i, "This ticket is already closed.")
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: CloseReasonModalID,
			Title:    "Close ticket",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID: "close_reason",
						Label:    "Close reason (optional)",
						Style:    discordgo.TextInputParagraph,
						Required: false,
					},
				}},
			},
		},
	})
}

// closeReasonModalHandler closes the ticket: renames the channel, revokes
// the requester's view permission and notifies them by DM.
func closeReasonModalHandler(a IApp, i *discordgo.InteractionCreate) error {
	ticket, err := ticketForStaff(a, i)
	if err != nil || ticket == nil {
		return err
	}

	reason := modalValue(i.ModalSubmitData(), "close_reason")
	if reason == "" {
		reason = "no reason provided"
	}

	if err := ticket.Close(i.Member.User.ID, reason); err != nil {
		return respondEphemeral(a, i, "This ticket is already closed.")
	}

	if _, err := a.Session().ChannelEditComplex(ticket.ChannelID, &discordgo.ChannelEdit{
		Name: ticket.ChannelName(),
	}); err != nil {
		return fmt.Errorf("error renaming channel: %w", err)
	}

	allow, deny := closedRequesterPerms()
	if err := a.Session().ChannelPermissionSet(ticket.ChannelID, ticket.UserID, discordgo.PermissionOverwriteTypeMember, allow, deny); err != nil {
		return fmt.Errorf("error revoking requester permissions: %w", err)
	}

	if err := a.Store().SaveTicket(context.Background(), ticket); err != nil {
		return fmt.Errorf("error saving ticket: %w", err)
	}

	// Notify the requester privately. Closed DMs are normal and swallowed.
	if err := dmUser(a, ticket.UserID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title: fmt.Sprintf("Your ticket #%d has been closed", ticket.Number),
			Color: 0xff0000,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Closed by", Value: fmt.Sprintf("<@%s>", i.Member.User.ID), Inline: true},
				{Name: "Reason", Value: reason, Inline: false},
			},
		}},
	}); err != nil {
		a.Log().Warn("Error sending close DM",
			slog.String(logging.KeyUser, ticket.UserID),
			slog.String(logging.KeyError, err.Error()),
		)
	}

	err = a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{{
				Title:       fmt.Sprintf("Ticket #%d closed", ticket.Number),
				Description: fmt.Sprintf("**Reason:** %s", reason),
				Color:       0xff0000,
			}},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.Button{
							Label:    "Delete ticket",
							Style:    discordgo.DangerButton,
							CustomID: DeleteTicketButtonID,
						},
						discordgo.Button{
							Label:    "Reopen ticket",
							Style:    discordgo.SuccessButton,
							CustomID: ReopenTicketButtonID,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}

	TicketsClosed.Inc()
	sendAuditLog(a, "Ticket closed", i.Member.User.ID, fmt.Sprintf("#%d", ticket.Number),
		fmt.Sprintf("Reason: %s", reason))
	return nil
}

// reopenTicketHandler restores the requester's visibility and reopens the
// ticket.
func reopenTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	ticket, err := ticketForStaff(a, i)
	if err != nil || ticket == nil {
		return err
	}

	if err := ticket.Reopen(); err != nil {
		return respondEphemeral(a, i, "This ticket is not closed.")
	}

	allow, deny := openRequesterPerms()
	if err := a.Session().ChannelPermissionSet(ticket.ChannelID, ticket.UserID, discordgo.PermissionOverwriteTypeMember, allow, deny); err != nil {
		return fmt.Errorf("error restoring requester permissions: %w", err)
	}

	if _, err := a.Session().ChannelEditComplex(ticket.ChannelID, &discordgo.ChannelEdit{
		Name: ticket.ChannelName(),
	}); err != nil {
		return fmt.Errorf("error renaming channel: %w", err)
	}

	if err := a.Store().SaveTicket(context.Background(), ticket); err != nil {
		return fmt.Errorf("error saving ticket: %w", err)
	}

	// Replace the close message so the delete/reopen buttons disappear.
	err = a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    "✅ The ticket has been reopened.",
			Embeds:     []*discordgo.MessageEmbed{},
			Components: []discordgo.MessageComponent{},
		},
	})
	if err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}

	sendAuditLog(a, "Ticket reopened", i.Member.User.ID, fmt.Sprintf("#%d", ticket.Number), "")
	return nil
}

// deleteTicketHandler deletes the ticket channel irreversibly and removes
// the record.
func deleteTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	ticket, err := ticketForStaff(a, i)
	if err != nil || ticket == nil {
		return err
	}

	// Acknowledge before the channel, and with it the interaction, goes
	// away.
	if err := respondEphemeral(a, i, "Deleting this ticket."); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}

	if _, err := a.Session().ChannelDelete(ticket.ChannelID); err != nil {
		return fmt.Errorf("error deleting channel: %w", err)
	}

	if err := a.Store().DeleteTicket(context.Background(), ticket.ChannelID); err != nil {
		return fmt.Errorf("error deleting ticket record: %w", err)
	}

	sendAuditLog(a, "Ticket deleted", i.Member.User.ID, fmt.Sprintf("#%d", ticket.Number), "")
	return nil
}

// addMemberButtonHandler opens the add-member modal.
func addMemberButtonHandler(a IApp, i *discordgo.InteractionCreate) error {
	ticket, err := ticketForStaff(a, i)
	if err != nil || ticket == nil {
		return err
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: AddMemberModalID,
			Title:    "Add a member to the ticket",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID: "member_id",
						Label:    "Member ID",
						Style:    discordgo.TextInputShort,
						Required: true,
					},
				}},
			},
		},
	})
}

// addMemberModalHandler grants a guild member visibility into the ticket.
// The grant lives only in Discord's permission store and the audit log.
func addMemberModalHandler(a IApp, i *discordgo.InteractionCreate) error {
	ticket, err := ticketForStaff(a, i)
	if err != nil || ticket == nil {
		return err
	}

	memberID := modalValue(i.ModalSubmitData(), "member_id")

	if _, err := a.Session().GuildMember(i.GuildID, memberID); err != nil {
		return respondEphemeral(a, i, "That member is not in this server.")
	}

	if err := a.Session().ChannelPermissionSet(ticket.ChannelID, memberID, discordgo.PermissionOverwriteTypeMember, requesterAllow, 0); err != nil {
		return fmt.Errorf("error granting member permissions: %w", err)
	}

	if err := respondEphemeral(a, i, fmt.Sprintf("<@%s> has been added to the ticket.", memberID)); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}

	sendAuditLog(a, "Member added to ticket", i.Member.User.ID, fmt.Sprintf("<@%s>", memberID),
		fmt.Sprintf("Ticket: #%d", ticket.Number))
	return nil
}

// botHasManagePermissions reports whether the bot can manage channels and
// roles in the guild, which ticket creation needs.
func botHasManagePermissions(a IApp, guildID string) bool {
	s := a.Session()
	if s.State == nil || s.State.User == nil {
		return false
	}

	member, err := s.GuildMember(guildID, s.State.User.ID)
	if err != nil {
		return false
	}

	roles, err := s.GuildRoles(guildID)
	if err != nil {
		return false
	}

	var perms int64
	for _, role := range roles {
		// The @everyone role carries the guild ID.
		if role.ID == guildID {
			perms |= role.Permissions
			continue
		}
		for _, id := range member.Roles {
			if id == role.ID {
				perms |= role.Permissions
				break
			}
		}
	}

	if perms&discordgo.PermissionAdministrator != 0 {
		return true
	}

	const required = discordgo.PermissionManageChannels | discordgo.PermissionManageRoles
	return perms&int64(required) == int64(required)
}
