package filestore

import (
	"context"
	"fmt"
	"os"

	"github.com/wardenbot/warden/pkg/dataaccess"
	"github.com/wardenbot/warden/pkg/entities"
)

// sectionsDoc is the on-disk shape of the section registry.
type sectionsDoc struct {
	Sections map[string]*entities.Section `json:"sections"`
}

// counterDoc is the on-disk shape of the ticket sequence counter.
type counterDoc struct {
	LastNumber int `json:"lastNumber"`
}

func (s *Store) Settings(_ context.Context) (*entities.TicketSettings, error) {
	defer observe("settings").ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	settings := new(entities.TicketSettings)
	if err := s.load(SettingsFile, settings); err != nil {
		settings = entities.DefaultTicketSettings()
		if err := s.heal(SettingsFile, err, settings); err != nil {
			return nil, err
		}
	}
	return settings, nil
}

func (s *Store) SaveSettings(_ context.Context, settings *entities.TicketSettings) error {
	defer observe("save_settings").ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(SettingsFile, settings)
}

func (s *Store) Sections(_ context.Context) (map[string]*entities.Section, error) {
	defer observe("sections").ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadSections()
	if err != nil {
		return nil, err
	}
	return doc.Sections, nil
}

func (s *Store) CreateSection(_ context.Context, number string, section *entities.Section) error {
	defer observe("create_section").ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadSections()
	if err != nil {
		return err
	}

	if _, ok := doc.Sections[number]; ok {
		return fmt.Errorf("section %q: %w", number, dataaccess.ErrSectionExists)
	}

	doc.Sections[number] = section
	return s.save(SectionsFile, doc)
}

func (s *Store) DeleteSection(_ context.Context, number string) error {
	defer observe("delete_section").ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadSections()
	if err != nil {
		return err
	}

	if _, ok := doc.Sections[number]; !ok {
		return fmt.Errorf("section %q: %w", number, dataaccess.ErrSectionNotFound)
	}

	delete(doc.Sections, number)
	return s.save(SectionsFile, doc)
}

func (s *Store) NextTicketNumber(_ context.Context) (int, error) {
	defer observe("next_ticket_number").ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	counter := new(counterDoc)
	if err := s.load(CounterFile, counter); err != nil {
		counter = new(counterDoc)
		if err := s.heal(CounterFile, err, counter); err != nil {
			return 0, err
		}
	}

	// Persist the advanced counter before handing the number out, so it is
	// never reused even if the caller fails afterwards.
	counter.LastNumber++
	if err := s.save(CounterFile, counter); err != nil {
		return 0, err
	}
	return counter.LastNumber, nil
}

func (s *Store) SaveTicket(_ context.Context, t *entities.Ticket) error {
	defer observe("save_ticket").ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, err := s.loadTickets()
	if err != nil {
		return err
	}

	tickets[t.ChannelID] = t
	return s.save(TicketsFile, tickets)
}

func (s *Store) TicketByChannel(_ context.Context, channelID string) (*entities.Ticket, error) {
	defer observe("ticket_by_channel").ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, err := s.loadTickets()
	if err != nil {
		return nil, err
	}

	t, ok := tickets[channelID]
	if !ok {
		return nil, fmt.Errorf("channel %s: %w", channelID, dataaccess.ErrTicketNotFound)
	}
	return t, nil
}

func (s *Store) DeleteTicket(_ context.Context, channelID string) error {
	defer observe("delete_ticket").ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, err := s.loadTickets()
	if err != nil {
		return err
	}

	delete(tickets, channelID)
	return s.save(TicketsFile, tickets)
}

func (s *Store) Ping(_ context.Context) error {
	defer observe("ping").ObserveDuration()

	if _, err := os.Stat(s.dir); err != nil {
		return fmt.Errorf("data directory unavailable: %w", err)
	}
	return nil
}

// loadSections reads the registry, healing to an empty one if missing or
// corrupt. The caller must hold the mutex.
func (s *Store) loadSections() (*sectionsDoc, error) {
	doc := new(sectionsDoc)
	if err := s.load(SectionsFile, doc); err != nil {
		doc = &sectionsDoc{Sections: make(map[string]*entities.Section)}
		if err := s.heal(SectionsFile, err, doc); err != nil {
			return nil, err
		}
	}
	if doc.Sections == nil {
		doc.Sections = make(map[string]*entities.Section)
	}
	return doc, nil
}

// loadTickets reads the ticket records, healing to an empty map if missing
// or corrupt. The caller must hold the mutex.
func (s *Store) loadTickets() (map[string]*entities.Ticket, error) {
	tickets := make(map[string]*entities.Ticket)
	if err := s.load(TicketsFile, &tickets); err != nil {
		tickets = make(map[string]*entities.Ticket)
		if err := s.heal(TicketsFile, err, tickets); err != nil {
			return nil, err
		}
	}
	return tickets, nil
}
