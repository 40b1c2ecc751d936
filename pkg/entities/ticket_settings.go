package entities

// TicketSettings is the appearance configuration for the ticket bot. It is
// edited field-by-field from the admin panel; empty fields are left alone.
type TicketSettings struct {
	// EmbedColor is the hex colour used for ticket embeds.
	EmbedColor string `json:"embedColor" bson:"embedColor"`

	// MessageContent is the description of the open-ticket message.
	MessageContent string `json:"messageContent" bson:"messageContent"`

	// ServerBanner is the URL of the banner image attached to embeds.
	ServerBanner string `json:"serverBanner,omitempty" bson:"serverBanner,omitempty"`

	// ServerLogo is the URL of the logo used as the embed thumbnail.
	ServerLogo string `json:"serverLogo,omitempty" bson:"serverLogo,omitempty"`
}

// DefaultTicketSettings returns the settings used when storage is missing or
// corrupt.
func DefaultTicketSettings() *TicketSettings {
	return &TicketSettings{
		EmbedColor:     "#0099ff",
		MessageContent: "Choose the type of ticket from the menu below.",
	}
}

// Color returns the embed colour as an integer, falling back to the default
// colour when the stored value does not parse.
func (s *TicketSettings) Color() int {
	if c, ok := HexColor(s.EmbedColor); ok {
		return c
	}
	c, _ := HexColor(DefaultTicketSettings().EmbedColor)
	return c
}
