package entities

import (
	"net/url"
	"time"

	"github.com/wardenbot/warden/pkg/custom"
)

// MaxWelcomeLogEntries is the number of most-recent log entries kept on the
// welcome config.
const MaxWelcomeLogEntries = 50

// WelcomeLogEntry records one settings change or join-greeting outcome.
type WelcomeLogEntry struct {
	// Action describes what happened.
	Action string `json:"action" bson:"action"`

	// UserID is the user the action concerns or the admin that performed it.
	UserID string `json:"userId" bson:"userId"`

	// Timestamp is when the action happened.
	Timestamp custom.Datetime `json:"timestamp" bson:"timestamp"`
}

// WelcomeConfig is the single mutable settings record for the welcome bot.
// It is never deleted, only overwritten.
type WelcomeConfig struct {
	// Title is the greeting embed title template.
	Title string `json:"title" bson:"title"`

	// Message is the greeting embed description template.
	Message string `json:"message" bson:"message"`

	// Banner is the URL of the embed image.
	Banner string `json:"banner,omitempty" bson:"banner,omitempty"`

	// Thumbnail is the URL of the embed thumbnail.
	Thumbnail string `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`

	// ChannelID is the channel the greeting is sent to. Empty disables the
	// channel message.
	ChannelID string `json:"channel" bson:"channel"`

	// RoleID is the role granted to new members. Empty disables the grant.
	RoleID string `json:"role" bson:"role"`

	// Enabled gates the whole greeting dispatcher.
	Enabled bool `json:"enabled" bson:"enabled"`

	// DM controls whether the greeting is also sent as a direct message.
	DM bool `json:"dm" bson:"dm"`

	// Color is the hex colour of the greeting embed.
	Color string `json:"color" bson:"color"`

	// Logs are the most recent settings and greeting audit entries, oldest
	// first, capped at MaxWelcomeLogEntries.
	Logs []WelcomeLogEntry `json:"logs" bson:"logs"`
}

// DefaultWelcomeConfig returns the config used when storage is missing or
// corrupt.
func DefaultWelcomeConfig() *WelcomeConfig {
	return &WelcomeConfig{
		Title:   "Welcome to {server.name}!",
		Message: "{user.mention} just joined, we are now {member.count} members.",
		Color:   "#0099ff",
	}
}

// AppendLog pushes an entry and truncates to the most recent
// MaxWelcomeLogEntries, preserving chronological order.
func (c *WelcomeConfig) AppendLog(action, userID string) {
	c.Logs = append(c.Logs, WelcomeLogEntry{
		Action:    action,
		UserID:    userID,
		Timestamp: custom.Datetime(time.Now().UTC()),
	})

	if len(c.Logs) > MaxWelcomeLogEntries {
		c.Logs = c.Logs[len(c.Logs)-MaxWelcomeLogEntries:]
	}
}

// EmbedColor returns the configured colour as an integer, falling back to
// the default when the stored value does not parse.
func (c *WelcomeConfig) EmbedColor() int {
	if v, ok := HexColor(c.Color); ok {
		return v
	}
	v, _ := HexColor(DefaultWelcomeConfig().Color)
	return v
}

// ValidImageURL reports whether s is a syntactically valid http(s) URL. It
// says nothing about reachability.
func ValidImageURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
