package entities

import (
	"fmt"

	"github.com/wardenbot/warden/pkg/custom"
)

// TicketStatus is the lifecycle status of a ticket.
type TicketStatus string

const (
	// TicketStatusOpen is an open ticket.
	TicketStatusOpen TicketStatus = "open"

	// TicketStatusClosed is a closed ticket. Closed tickets keep their
	// channel and history until they are explicitly deleted.
	TicketStatusClosed TicketStatus = "closed"
)

const (
	// openTicketGlyph prefixes the channel name of an open ticket.
	openTicketGlyph = "\U0001F3AB"

	// closedTicketGlyph prefixes the channel name of a closed ticket.
	closedTicketGlyph = "\U0001F510"

	// glyphSeparator separates the glyph from the ticket number.
	glyphSeparator = "・"
)

// Ticket is one support conversation, identified by a monotonic sequence
// number and backed by a dedicated permission-scoped channel. The record is
// the source of truth for ownership and status; the channel name glyph is
// only a display convention derived from it.
type Ticket struct {
	// Number is the sequence number of the ticket. Strictly increasing,
	// never reused.
	Number int `json:"number" bson:"number"`

	// GuildID is the ID of the guild that the ticket is in.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// ChannelID is the ID of the dedicated ticket channel.
	ChannelID string `json:"channel_id" bson:"channel_id"`

	// UserID is the ID of the user that opened the ticket.
	UserID string `json:"user_id" bson:"user_id"`

	// RoleID is the ID of the responsible role taken from the section the
	// ticket was opened in. Empty if the role could not be resolved at
	// creation time.
	RoleID string `json:"role_id" bson:"role_id"`

	// Status is the lifecycle status of the ticket.
	Status TicketStatus `json:"status" bson:"status"`

	// ClaimedBy is the ID of the last staff member that claimed the
	// ticket. Claims are not exclusive; the last claimer wins.
	ClaimedBy string `json:"claimed_by,omitempty" bson:"claimed_by,omitempty"`

	// ClosedBy is the ID of the staff member that closed the ticket.
	ClosedBy string `json:"closed_by,omitempty" bson:"closed_by,omitempty"`

	// CloseReason is the optional reason given when the ticket was closed.
	CloseReason string `json:"close_reason,omitempty" bson:"close_reason,omitempty"`

	// CreatedAt is the time that the ticket was created.
	CreatedAt custom.Datetime `json:"created_at" bson:"created_at"`
}

// ChannelName is the display name for the ticket channel in its current
// status.
func (t *Ticket) ChannelName() string {
	glyph := openTicketGlyph
	if t.Status == TicketStatusClosed {
		glyph = closedTicketGlyph
	}
	return fmt.Sprintf("%s%s%d", glyph, glyphSeparator, t.Number)
}

// Close transitions the ticket to closed. Closing an already closed ticket
// is an error.
func (t *Ticket) Close(staffID, reason string) error {
	if t.Status == TicketStatusClosed {
		return fmt.Errorf("ticket %d is already closed", t.Number)
	}

	t.Status = TicketStatusClosed
	t.ClosedBy = staffID
	t.CloseReason = reason
	return nil
}

// Reopen transitions the ticket back to open, clearing the close state.
func (t *Ticket) Reopen() error {
	if t.Status != TicketStatusClosed {
		return fmt.Errorf("ticket %d is not closed", t.Number)
	}

	t.Status = TicketStatusOpen
	t.ClosedBy = ""
	t.CloseReason = ""
	return nil
}
