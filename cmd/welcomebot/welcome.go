package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/wardenbot/warden/cmd/welcomebot/config"
	"github.com/wardenbot/warden/pkg/entities"
)

const (
	// WelcomeCmdName opens the welcome configuration panel.
	WelcomeCmdName = "welcome"
)

// The full closed set of component identifiers. Adding a control means
// adding a constant here and an entry in the dispatch maps in app.go.
const (
	// EditMessageButtonID is the ID for the edit greeting button.
	EditMessageButtonID = "welcome_edit_message"

	// ToggleEnabledButtonID is the ID for the enable/disable toggle.
	ToggleEnabledButtonID = "welcome_toggle_enabled"

	// ToggleDMButtonID is the ID for the direct-message toggle.
	ToggleDMButtonID = "welcome_toggle_dm"

	// ViewLogsButtonID is the ID for the view logs button.
	ViewLogsButtonID = "welcome_view_logs"

	// LogsPageButtonID is the prefix for the log pagination buttons. The
	// page number follows after a colon.
	LogsPageButtonID = "welcome_logs"

	// ChannelSelectID is the ID for the greeting channel select menu.
	ChannelSelectID = "welcome_channel_select"

	// RoleSelectID is the ID for the auto-role select menu.
	RoleSelectID = "welcome_role_select"

	// EditMessageModalID is the ID for the edit greeting modal.
	EditMessageModalID = "welcome_edit_modal"
)

// logsPageSize is the number of audit entries shown per page.
const logsPageSize = 10

var (
	// adminPermission restricts the command to administrators in the
	// Discord client UI. The capability check in the controller is
	// authoritative.
	adminPermission int64 = discordgo.PermissionAdministrator

	// welcomeCmd is the command that opens the configuration panel.
	welcomeCmd = &discordgo.ApplicationCommand{
		Name:                     WelcomeCmdName,
		Type:                     discordgo.ChatApplicationCommand,
		Description:              "Opens the welcome configuration panel.",
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

// welcomeCmdProcessor replies with the configuration panel.
func welcomeCmdProcessor(a IApp, i *discordgo.InteractionCreate) error {
	cfg, err := a.Store().Config(context.Background())
	if err != nil {
		return fmt.Errorf("error getting config: %w", err)
	}

	err = a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{panelEmbed(cfg)},
			Components: panelComponents(cfg),
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}
	return nil
}

// panelEmbed renders the current configuration as a status embed.
func panelEmbed(cfg *entities.WelcomeConfig) *discordgo.MessageEmbed {
	onOff := func(b bool) string {
		if b {
			return "✅ Enabled"
		}
		return "❌ Disabled"
	}

	channel := "Not set"
	if cfg.ChannelID != "" {
		channel = fmt.Sprintf("<#%s>", cfg.ChannelID)
	}

	role := "Not set"
	if cfg.RoleID != "" {
		role = fmt.Sprintf("<@&%s>", cfg.RoleID)
	}

	return &discordgo.MessageEmbed{
		Title:       "\U0001F44B Welcome configuration",
		Description: "Configure how new members are greeted.",
		Color:       cfg.EmbedColor(),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Status", Value: onOff(cfg.Enabled), Inline: true},
			{Name: "Direct message", Value: onOff(cfg.DM), Inline: true},
			{Name: "Channel", Value: channel, Inline: true},
			{Name: "Auto-role", Value: role, Inline: true},
			{Name: "Title", Value: cfg.Title, Inline: false},
			{Name: "Message", Value: cfg.Message, Inline: false},
		},
	}
}

// panelComponents renders the panel controls.
func panelComponents(cfg *entities.WelcomeConfig) []discordgo.MessageComponent {
	toggleLabel := "Enable"
	if cfg.Enabled {
		toggleLabel = "Disable"
	}

	dmLabel := "Enable DM"
	if cfg.DM {
		dmLabel = "Disable DM"
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Edit greeting",
				Style:    discordgo.PrimaryButton,
				CustomID: EditMessageButtonID,
			},
			discordgo.Button{
				Label:    toggleLabel,
				Style:    discordgo.SecondaryButton,
				CustomID: ToggleEnabledButtonID,
			},
			discordgo.Button{
				Label:    dmLabel,
				Style:    discordgo.SecondaryButton,
				CustomID: ToggleDMButtonID,
			},
			discordgo.Button{
				Label:    "View logs",
				Style:    discordgo.SecondaryButton,
				CustomID: ViewLogsButtonID,
			},
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				MenuType:     discordgo.ChannelSelectMenu,
				CustomID:     ChannelSelectID,
				Placeholder:  "Greeting channel",
				ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
			},
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				MenuType:    discordgo.RoleSelectMenu,
				CustomID:    RoleSelectID,
				Placeholder: "Auto-role for new members",
			},
		}},
	}
}

// refreshPanel replaces the invoking panel message with the current
// configuration.
func refreshPanel(a IApp, i *discordgo.InteractionCreate, cfg *entities.WelcomeConfig) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{panelEmbed(cfg)},
			Components: panelComponents(cfg),
		},
	})
}

// editMessageButtonHandler opens the edit greeting modal prefilled with the
// current values.
func editMessageButtonHandler(a IApp, i *discordgo.InteractionCreate) error {
	cfg, err := a.Store().Config(context.Background())
	if err != nil {
		return fmt.Errorf("error getting config: %w", err)
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: EditMessageModalID,
			Title:    "Edit greeting",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID: "title",
						Label:    "Title",
						Style:    discordgo.TextInputShort,
						Value:    cfg.Title,
						Required: true,
					},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID: "message",
						Label:    "Message",
						Style:    discordgo.TextInputParagraph,
						Value:    cfg.Message,
						Required: true,
					},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID: "banner",
						Label:    "Banner URL (optional)",
						Style:    discordgo.TextInputShort,
						Value:    cfg.Banner,
						Required: false,
					},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID: "thumbnail",
						Label:    "Thumbnail URL (optional)",
						Style:    discordgo.TextInputShort,
						Value:    cfg.Thumbnail,
						Required: false,
					},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID: "color",
						Label:    "Embed colour (hex, optional)",
						Style:    discordgo.TextInputShort,
						Value:    cfg.Color,
						Required: false,
					},
				}},
			},
		},
	})
}

// editMessageModalHandler validates and persists the greeting content.
func editMessageModalHandler(a IApp, i *discordgo.InteractionCreate) error {
	data := i.ModalSubmitData()

	title := strings.TrimSpace(modalValue(data, "title"))
	message := strings.TrimSpace(modalValue(data, "message"))
	banner := strings.TrimSpace(modalValue(data, "banner"))
	thumbnail := strings.TrimSpace(modalValue(data, "thumbnail"))
	colour := strings.TrimSpace(modalValue(data, "color"))

	if title == "" || message == "" {
		return respondEphemeral(a, i, "The title and message cannot be empty.")
	}
	if banner != "" && !entities.ValidImageURL(banner) {
		return respondEphemeral(a, i, "The banner must be a valid http(s) URL.")
	}
	if thumbnail != "" && !entities.ValidImageURL(thumbnail) {
		return respondEphemeral(a, i, "The thumbnail must be a valid http(s) URL.")
	}
	if colour != "" && !entities.ValidHexColor(colour) {
		return respondEphemeral(a, i, "The colour must be a hex value such as #0099ff.")
	}

	cfg, err := a.Store().Config(context.Background())
	if err != nil {
		return fmt.Errorf("error getting config: %w", err)
	}

	cfg.Title = title
	cfg.Message = message
	cfg.Banner = banner
	cfg.Thumbnail = thumbnail
	if colour != "" {
		cfg.Color = colour
	}
	cfg.AppendLog("Greeting message updated", i.Member.User.ID)

	if err := a.Store().SaveConfig(context.Background(), cfg); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}

	if err := respondEphemeral(a, i, "The greeting has been updated."); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}

	sendAuditLog(a, "Greeting message updated", i.Member.User.ID, fmt.Sprintf("Title: %s", title))
	return nil
}

// toggleEnabledHandler flips the greeting dispatcher on or off.
func toggleEnabledHandler(a IApp, i *discordgo.InteractionCreate) error {
	return toggleConfig(a, i, func(cfg *entities.WelcomeConfig) string {
		cfg.Enabled = !cfg.Enabled
		if cfg.Enabled {
			return "Welcome system enabled"
		}
		return "Welcome system disabled"
	})
}

// toggleDMHandler flips the direct-message greeting on or off.
func toggleDMHandler(a IApp, i *discordgo.InteractionCreate) error {
	return toggleConfig(a, i, func(cfg *entities.WelcomeConfig) string {
		cfg.DM = !cfg.DM
		if cfg.DM {
			return "Welcome DM enabled"
		}
		return "Welcome DM disabled"
	})
}

// toggleConfig applies a mutation to the config, persists it with an audit
// entry and refreshes the panel.
func toggleConfig(a IApp, i *discordgo.InteractionCreate, mutate func(cfg *entities.WelcomeConfig) string) error {
	cfg, err := a.Store().Config(context.Background())
	if err != nil {
		return fmt.Errorf("error getting config: %w", err)
	}

	action := mutate(cfg)
	cfg.AppendLog(action, i.Member.User.ID)

	if err := a.Store().SaveConfig(context.Background(), cfg); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}

	if err := refreshPanel(a, i, cfg); err != nil {
		return fmt.Errorf("error refreshing panel: %w", err)
	}

	sendAuditLog(a, action, i.Member.User.ID, "")
	return nil
}

// channelSelectHandler persists the greeting channel.
func channelSelectHandler(a IApp, i *discordgo.InteractionCreate) error {
	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return respondEphemeral(a, i, "No channel was selected.")
	}

	cfg, err := a.Store().Config(context.Background())
	if err != nil {
		return fmt.Errorf("error getting config: %w", err)
	}

	cfg.ChannelID = values[0]
	cfg.AppendLog("Greeting channel updated", i.Member.User.ID)

	if err := a.Store().SaveConfig(context.Background(), cfg); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}

	if err := refreshPanel(a, i, cfg); err != nil {
		return fmt.Errorf("error refreshing panel: %w", err)
	}

	sendAuditLog(a, "Greeting channel updated", i.Member.User.ID, fmt.Sprintf("<#%s>", cfg.ChannelID))
	return nil
}

// roleSelectHandler persists the auto-role.
func roleSelectHandler(a IApp, i *discordgo.InteractionCreate) error {
	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return respondEphemeral(a, i, "No role was selected.")
	}

	cfg, err := a.Store().Config(context.Background())
	if err != nil {
		return fmt.Errorf("error getting config: %w", err)
	}

	cfg.RoleID = values[0]
	cfg.AppendLog("Auto-role updated", i.Member.User.ID)

	if err := a.Store().SaveConfig(context.Background(), cfg); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}

	if err := refreshPanel(a, i, cfg); err != nil {
		return fmt.Errorf("error refreshing panel: %w", err)
	}

	sendAuditLog(a, "Auto-role updated", i.Member.User.ID, fmt.Sprintf("<@&%s>", cfg.RoleID))
	return nil
}

// viewLogsHandler shows the first page of the audit log.
func viewLogsHandler(a IApp, i *discordgo.InteractionCreate) error {
	cfg, err := a.Store().Config(context.Background())
	if err != nil {
		return fmt.Errorf("error getting config: %w", err)
	}

	embed, components := logsPageView(cfg, 0)
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
}

// logsPageHandler replaces the log message with the requested page.
func logsPageHandler(a IApp, i *discordgo.InteractionCreate) error {
	page := pageFromCustomID(i.MessageComponentData().CustomID)

	cfg, err := a.Store().Config(context.Background())
	if err != nil {
		return fmt.Errorf("error getting config: %w", err)
	}

	embed, components := logsPageView(cfg, page)
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
}

// pageFromCustomID extracts the page number from a pagination custom ID.
// Malformed input yields the first page.
func pageFromCustomID(customID string) int {
	idx := strings.IndexByte(customID, ':')
	if idx < 0 {
		return 0
	}
	page, err := strconv.Atoi(customID[idx+1:])
	if err != nil || page < 0 {
		return 0
	}
	return page
}

// logsPage slices one page out of the audit log, newest first. The returned
// page is clamped into range.
func logsPage(logs []entities.WelcomeLogEntry, page int) ([]entities.WelcomeLogEntry, int, int) {
	totalPages := (len(logs) + logsPageSize - 1) / logsPageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 0 {
		page = 0
	}
	if page >= totalPages {
		page = totalPages - 1
	}

	// Entries are stored oldest first; display newest first.
	reversed := make([]entities.WelcomeLogEntry, len(logs))
	for idx, entry := range logs {
		reversed[len(logs)-1-idx] = entry
	}

	start := page * logsPageSize
	end := start + logsPageSize
	if start > len(reversed) {
		start = len(reversed)
	}
	if end > len(reversed) {
		end = len(reversed)
	}
	return reversed[start:end], page, totalPages
}

// logsPageView renders one page of the audit log with its pagination
// controls.
func logsPageView(cfg *entities.WelcomeConfig, page int) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	entries, page, totalPages := logsPage(cfg.Logs, page)

	description := "No log entries yet."
	if len(entries) > 0 {
		var sb strings.Builder
		for _, entry := range entries {
			sb.WriteString(fmt.Sprintf("`%s` %s - <@%s>\n", entry.Timestamp.String(), entry.Action, entry.UserID))
		}
		description = sb.String()
	}

	embed := &discordgo.MessageEmbed{
		Title:       "\U0001F4DC Welcome logs",
		Description: description,
		Color:       cfg.EmbedColor(),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d of %d", page+1, totalPages),
		},
	}

	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Previous",
				Style:    discordgo.SecondaryButton,
				CustomID: fmt.Sprintf("%s:%d", LogsPageButtonID, page-1),
				Disabled: page == 0,
			},
			discordgo.Button{
				Label:    "Next",
				Style:    discordgo.SecondaryButton,
				CustomID: fmt.Sprintf("%s:%d", LogsPageButtonID, page+1),
				Disabled: page >= totalPages-1,
			},
		}},
	}
	return embed, components
}
