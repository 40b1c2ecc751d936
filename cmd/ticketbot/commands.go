package main

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/wardenbot/warden/cmd/ticketbot/config"
)

const (
	// SetupCmdName installs the open-ticket message in the current channel.
	SetupCmdName = "ticket-setup"

	// PanelCmdName opens the admin control panel.
	PanelCmdName = "ticket-panel"
)

// The full closed set of component identifiers. Adding a control means
// adding a constant here and an entry in the dispatch maps in app.go.
const (
	// OpenTicketButtonID is the ID for the open ticket button.
	OpenTicketButtonID = "open_ticket"

	// CloseTicketButtonID is the ID for the close ticket button.
	CloseTicketButtonID = "close_ticket"

	// AddMemberButtonID is the ID for the add member button.
	AddMemberButtonID = "add_member"

	// ClaimTicketButtonID is the ID for the claim ticket button.
	ClaimTicketButtonID = "claim_ticket"

	// DeleteTicketButtonID is the ID for the delete ticket button.
	DeleteTicketButtonID = "delete_ticket"

	// ReopenTicketButtonID is the ID for the reopen ticket button.
	ReopenTicketButtonID = "reopen_ticket"

	// CreateSectionButtonID is the ID for the create section button.
	CreateSectionButtonID = "create_section"

	// DeleteSectionButtonID is the ID for the delete section button.
	DeleteSectionButtonID = "delete_section"

	// EditMessageButtonID is the ID for the edit appearance button.
	EditMessageButtonID = "edit_message"

	// SectionSelectID is the ID for the section select menu.
	SectionSelectID = "ticket_section_select"

	// CreateSectionModalID is the ID for the create section modal.
	CreateSectionModalID = "modal_create_section"

	// DeleteSectionModalID is the ID for the delete section modal.
	DeleteSectionModalID = "modal_delete_section"

	// EditMessageModalID is the ID for the edit appearance modal.
	EditMessageModalID = "modal_edit_message"

	// CloseReasonModalID is the ID for the close reason modal.
	CloseReasonModalID = "close_reason_modal"

	// AddMemberModalID is the ID for the add member modal.
	AddMemberModalID = "add_member_modal"
)

var (
	// adminPermission restricts a command to administrators in the Discord
	// client UI. The capability check in the controller is authoritative.
	adminPermission int64 = discordgo.PermissionAdministrator

	// setupCmd is the command that installs the ticket system.
	setupCmd = &discordgo.ApplicationCommand{
		Name:                     SetupCmdName,
		Type:                     discordgo.ChatApplicationCommand,
		Description:              "Installs the open-ticket message in the current channel.",
		DefaultMemberPermissions: &adminPermission,
	}

	// panelCmd is the command that opens the ticket control panel.
	panelCmd = &discordgo.ApplicationCommand{
		Name:                     PanelCmdName,
		Type:                     discordgo.ChatApplicationCommand,
		Description:              "Opens the ticket control panel.",
		DefaultMemberPermissions: &adminPermission,
	}
)

// adminCmdController gates a processor behind the admin capability check.
func adminCmdController(processor commandProcessor) commandController {
	return func(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
		if !isAdmin(i.Member, config.AdminRoles, config.AdminUserId) {
			if err := respondEphemeral(a, i, "This command is for administrators only."); err != nil {
				return nil, fmt.Errorf("error responding to interaction: %w", err)
			}
			return nil, nil
		}
		return processor, nil
	}
}

// adminComponent gates a component processor behind the admin capability
// check. Component IDs can be replayed by any client, so the panel buttons
// are checked again here.
func adminComponent(processor commandProcessor) commandProcessor {
	return func(a IApp, i *discordgo.InteractionCreate) error {
		if !isAdmin(i.Member, config.AdminRoles, config.AdminUserId) {
			return respondEphemeral(a, i, "This panel is for administrators only.")
		}
		return processor(a, i)
	}
}

// setupCmdProcessor sends the open-ticket embed with its button into the
// channel the command was executed in.
func setupCmdProcessor(a IApp, i *discordgo.InteractionCreate) error {
	settings, err := a.Store().Settings(context.Background())
	if err != nil {
		return fmt.Errorf("error getting settings: %w", err)
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Open a ticket \U0001F39F️",
		Description: settings.MessageContent,
		Color:       settings.Color(),
	}
	if settings.ServerBanner != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: settings.ServerBanner}
	}
	if settings.ServerLogo != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: settings.ServerLogo}
	}

	_, err = a.Session().ChannelMessageSendComplex(i.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Open Ticket",
						Style:    discordgo.PrimaryButton,
						CustomID: OpenTicketButtonID,
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("error sending open ticket message: %w", err)
	}

	if err := respondEphemeral(a, i, "The ticket system has been installed in this channel."); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}

	sendAuditLog(a, "Ticket system installed", i.Member.User.ID, fmt.Sprintf("<#%s>", i.ChannelID), "")
	return nil
}

// panelCmdProcessor replies with the admin control panel.
func panelCmdProcessor(a IApp, i *discordgo.InteractionCreate) error {
	settings, err := a.Store().Settings(context.Background())
	if err != nil {
		return fmt.Errorf("error getting settings: %w", err)
	}

	embed := &discordgo.MessageEmbed{
		Title: "\U0001F39B️ Ticket control panel",
		Color: settings.Color(),
	}
	if settings.ServerBanner != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: settings.ServerBanner}
	}

	err = a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.Button{
							Label:    "Create section",
							Style:    discordgo.SuccessButton,
							CustomID: CreateSectionButtonID,
						},
						discordgo.Button{
							Label:    "Delete section",
							Style:    discordgo.DangerButton,
							CustomID: DeleteSectionButtonID,
						},
						discordgo.Button{
							Label:    "Edit appearance",
							Style:    discordgo.SecondaryButton,
							CustomID: EditMessageButtonID,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}

	sendAuditLog(a, "Control panel opened", i.Member.User.ID, "", "")
	return nil
}
