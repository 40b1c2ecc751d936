package main

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/bwmarrin/discordgo"
	"github.com/wardenbot/warden/pkg/dataaccess"
	"github.com/wardenbot/warden/pkg/entities"
)

// openTicketHandler offers the section select menu to the member. Errors
// out if no sections exist yet.
func openTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	sections, err := a.Store().Sections(context.Background())
	if err != nil {
		return fmt.Errorf("error getting sections: %w", err)
	}

	if len(sections) == 0 {
		return respondEphemeral(a, i, "There are no ticket sections available right now.")
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "\U0001F4C2 Choose the section that fits your request:",
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.SelectMenu{
							MenuType:    discordgo.StringSelectMenu,
							CustomID:    SectionSelectID,
							Placeholder: "Choose a ticket type",
							Options:     sectionSelectOptions(sections),
						},
					},
				},
			},
		},
	})
}

// sectionSelectOptions renders the registry as select menu options, sorted
// by section number for a stable menu.
func sectionSelectOptions(sections map[string]*entities.Section) []discordgo.SelectMenuOption {
	numbers := make([]string, 0, len(sections))
	for number := range sections {
		numbers = append(numbers, number)
	}
	sort.Strings(numbers)

	options := make([]discordgo.SelectMenuOption, 0, len(numbers))
	for _, number := range numbers {
		section := sections[number]

		// Discord caps option descriptions at 100 characters.
		description := section.Description
		if len(description) > 100 {
			description = description[:100]
		}

		options = append(options, discordgo.SelectMenuOption{
			Label:       section.Title,
			Value:       number,
			Description: description,
		})
	}
	return options
}

// createSectionButtonHandler opens the create-section modal.
func createSectionButtonHandler(a IApp, i *discordgo.InteractionCreate) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: CreateSectionModalID,
			Title:    "Create a new section",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "section_number", Label: "Section number", Style: discordgo.TextInputShort, Required: true},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "section_title", Label: "Section title", Style: discordgo.TextInputShort, Required: true},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "section_description", Label: "Section description", Style: discordgo.TextInputParagraph, Required: true},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "section_role", Label: "Responsible role ID", Style: discordgo.TextInputShort, Required: true},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "section_category", Label: "Category ID", Style: discordgo.TextInputShort, Required: true},
				}},
			},
		},
	})
}

// deleteSectionButtonHandler opens the delete-section modal.
func deleteSectionButtonHandler(a IApp, i *discordgo.InteractionCreate) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: DeleteSectionModalID,
			Title:    "Delete a section",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "delete_section_number", Label: "Number of the section to delete", Style: discordgo.TextInputShort, Required: true},
				}},
			},
		},
	})
}

// editMessageButtonHandler opens the appearance modal.
func editMessageButtonHandler(a IApp, i *discordgo.InteractionCreate) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: EditMessageModalID,
			Title:    "Edit ticket appearance",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "new_message_content", Label: "New description", Style: discordgo.TextInputParagraph, Required: false},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "server_banner", Label: "Banner URL", Style: discordgo.TextInputShort, Required: false},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "server_logo", Label: "Logo URL", Style: discordgo.TextInputShort, Required: false},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "embed_color", Label: "Embed colour (e.g. #0099ff)", Style: discordgo.TextInputShort, Required: false},
				}},
			},
		},
	})
}

// createSectionModalHandler validates the submitted section against the
// platform and inserts it into the registry.
func createSectionModalHandler(a IApp, i *discordgo.InteractionCreate) error {
	data := i.ModalSubmitData()

	number := modalValue(data, "section_number")
	section := &entities.Section{
		Title:       modalValue(data, "section_title"),
		Description: modalValue(data, "section_description"),
		RoleID:      modalValue(data, "section_role"),
		CategoryID:  modalValue(data, "section_category"),
	}

	// The role and category must exist at creation time.
	if resolveGuildRole(a, i.GuildID, section.RoleID) == nil {
		return respondEphemeral(a, i, "The given role does not exist.")
	}

	category, err := a.Session().Channel(section.CategoryID)
	if err != nil || category.Type != discordgo.ChannelTypeGuildCategory {
		return respondEphemeral(a, i, "The given category does not exist.")
	}

	if err := a.Store().CreateSection(context.Background(), number, section); err != nil {
		if errors.Is(err, dataaccess.ErrSectionExists) {
			return respondEphemeral(a, i, fmt.Sprintf("A section with number `%s` already exists.", number))
		}
		return fmt.Errorf("error creating section: %w", err)
	}

	if err := respondEphemeral(a, i, fmt.Sprintf("Section `%s` created under category `%s`.", section.Title, section.CategoryID)); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}

	sendAuditLog(a, "Section created", i.Member.User.ID, section.Title,
		fmt.Sprintf("Number: %s | Role: <@&%s>", number, section.RoleID))
	return nil
}

// deleteSectionModalHandler removes a section from the registry.
func deleteSectionModalHandler(a IApp, i *discordgo.InteractionCreate) error {
	number := modalValue(i.ModalSubmitData(), "delete_section_number")

	sections, err := a.Store().Sections(context.Background())
	if err != nil {
		return fmt.Errorf("error getting sections: %w", err)
	}
	section, ok := sections[number]

	if err := a.Store().DeleteSection(context.Background(), number); err != nil {
		if errors.Is(err, dataaccess.ErrSectionNotFound) {
			return respondEphemeral(a, i, "No section found with that number.")
		}
		return fmt.Errorf("error deleting section: %w", err)
	}

	title := number
	if ok {
		title = section.Title
	}

	if err := respondEphemeral(a, i, fmt.Sprintf("Section `%s` (number %s) deleted.", title, number)); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}

	sendAuditLog(a, "Section deleted", i.Member.User.ID, title, fmt.Sprintf("Number: %s", number))
	return nil
}

// editMessageModalHandler overwrites the appearance settings field by
// field; empty inputs leave the stored value alone.
func editMessageModalHandler(a IApp, i *discordgo.InteractionCreate) error {
	data := i.ModalSubmitData()

	content := modalValue(data, "new_message_content")
	banner := modalValue(data, "server_banner")
	logo := modalValue(data, "server_logo")
	color := modalValue(data, "embed_color")

	if color != "" && !entities.ValidHexColor(color) {
		return respondEphemeral(a, i, "The colour must be a 3- or 6-digit hex value, e.g. `#0099ff`.")
	}
	if banner != "" && !entities.ValidImageURL(banner) {
		return respondEphemeral(a, i, "The banner must be a valid http(s) URL.")
	}
	if logo != "" && !entities.ValidImageURL(logo) {
		return respondEphemeral(a, i, "The logo must be a valid http(s) URL.")
	}

	settings, err := a.Store().Settings(context.Background())
	if err != nil {
		return fmt.Errorf("error getting settings: %w", err)
	}

	if content != "" {
		settings.MessageContent = content
	}
	if banner != "" {
		settings.ServerBanner = banner
	}
	if logo != "" {
		settings.ServerLogo = logo
	}
	if color != "" {
		settings.EmbedColor = color
	}

	if err := a.Store().SaveSettings(context.Background(), settings); err != nil {
		return fmt.Errorf("error saving settings: %w", err)
	}

	if err := respondEphemeral(a, i, "Ticket appearance updated."); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}

	sendAuditLog(a, "Appearance updated", i.Member.User.ID, "", "")
	return nil
}

// resolveGuildRole returns the role if it exists in the guild, preferring
// the state cache and falling back to the REST API.
func resolveGuildRole(a IApp, guildID, roleID string) *discordgo.Role {
	if roleID == "" {
		return nil
	}

	if role, err := a.Session().State.Role(guildID, roleID); err == nil {
		return role
	}

	roles, err := a.Session().GuildRoles(guildID)
	if err != nil {
		return nil
	}
	for _, role := range roles {
		if role.ID == roleID {
			return role
		}
	}
	return nil
}
