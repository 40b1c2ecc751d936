// Package dataaccess defines the persistent store interfaces consumed by
// the bots. Two backends implement them: filestore (flat JSON documents,
// the default) and mongostore (MongoDB, for deployments that already run
// one).
package dataaccess

import (
	"context"
	"errors"

	"github.com/wardenbot/warden/pkg/entities"
)

var (
	// ErrSectionExists is returned when creating a section with a number
	// that is already taken.
	ErrSectionExists = errors.New("section already exists")

	// ErrSectionNotFound is returned when a section number is not in the
	// registry.
	ErrSectionNotFound = errors.New("section not found")

	// ErrTicketNotFound is returned when no ticket record exists for a
	// channel.
	ErrTicketNotFound = errors.New("ticket not found")
)

// TicketStore is the persistent store for the ticket bot. Implementations
// serialise every read-modify-write cycle, so concurrent callers never drop
// each other's updates within one process.
type TicketStore interface {
	// Settings returns the appearance settings, regenerating defaults if
	// storage is missing or corrupt.
	Settings(ctx context.Context) (*entities.TicketSettings, error)

	// SaveSettings overwrites the appearance settings.
	SaveSettings(ctx context.Context, s *entities.TicketSettings) error

	// Sections returns the full section registry.
	Sections(ctx context.Context) (map[string]*entities.Section, error)

	// CreateSection inserts a section under number. It returns
	// ErrSectionExists without mutating the registry if the number is
	// taken.
	CreateSection(ctx context.Context, number string, s *entities.Section) error

	// DeleteSection removes a section. It returns ErrSectionNotFound if
	// the number is not present.
	DeleteSection(ctx context.Context, number string) error

	// NextTicketNumber allocates the next sequence number. The new value
	// is persisted before it is returned, so numbers survive restarts and
	// are never reused. A ticket-create failure after allocation leaves a
	// permanent gap.
	NextTicketNumber(ctx context.Context) (int, error)

	// SaveTicket upserts a ticket record keyed by its channel ID.
	SaveTicket(ctx context.Context, t *entities.Ticket) error

	// TicketByChannel returns the ticket for a channel, or
	// ErrTicketNotFound.
	TicketByChannel(ctx context.Context, channelID string) (*entities.Ticket, error)

	// DeleteTicket removes the ticket record for a channel.
	DeleteTicket(ctx context.Context, channelID string) error

	// Ping reports whether the backing storage is reachable.
	Ping(ctx context.Context) error
}

// WelcomeStore is the persistent store for the welcome bot.
type WelcomeStore interface {
	// Config returns the settings record, regenerating defaults if storage
	// is missing or corrupt.
	Config(ctx context.Context) (*entities.WelcomeConfig, error)

	// SaveConfig overwrites the settings record.
	SaveConfig(ctx context.Context, c *entities.WelcomeConfig) error

	// AppendLog appends an audit entry, truncating to the most recent
	// entities.MaxWelcomeLogEntries.
	AppendLog(ctx context.Context, action, userID string) error

	// Ping reports whether the backing storage is reachable.
	Ping(ctx context.Context) error
}
