package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/wardenbot/warden/pkg/dataaccess"
	"github.com/wardenbot/warden/pkg/entities"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// settingsDocID keys the single appearance settings document.
const settingsDocID = "settings"

// sectionDoc is the on-disk shape of a section, keyed by its number.
type sectionDoc struct {
	Number  string           `bson:"_id"`
	Section entities.Section `bson:"section"`
}

func (s *Store) Settings(ctx context.Context) (*entities.TicketSettings, error) {
	defer observe("settings").ObserveDuration()

	settings := new(entities.TicketSettings)
	err := s.collection(collSettings).FindOne(ctx, bson.M{"_id": settingsDocID}).Decode(settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		settings = entities.DefaultTicketSettings()
		if err := s.SaveSettings(ctx, settings); err != nil {
			return nil, err
		}
		return settings, nil
	} else if err != nil {
		return nil, fmt.Errorf("error getting settings: %w", err)
	}
	return settings, nil
}

func (s *Store) SaveSettings(ctx context.Context, settings *entities.TicketSettings) error {
	defer observe("save_settings").ObserveDuration()

	opts := options.Update().SetUpsert(true)
	_, err := s.collection(collSettings).UpdateOne(ctx, bson.M{"_id": settingsDocID}, bson.M{"$set": settings}, opts)
	if err != nil {
		return fmt.Errorf("error saving settings: %w", err)
	}
	return nil
}

func (s *Store) Sections(ctx context.Context) (map[string]*entities.Section, error) {
	defer observe("sections").ObserveDuration()

	cursor, err := s.collection(collSections).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error listing sections: %w", err)
	}

	var docs []sectionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding sections: %w", err)
	}

	sections := make(map[string]*entities.Section, len(docs))
	for i := range docs {
		sections[docs[i].Number] = &docs[i].Section
	}
	return sections, nil
}

func (s *Store) CreateSection(ctx context.Context, number string, section *entities.Section) error {
	defer observe("create_section").ObserveDuration()

	_, err := s.collection(collSections).InsertOne(ctx, sectionDoc{
		Number:  number,
		Section: *section,
	})
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("section %q: %w", number, dataaccess.ErrSectionExists)
	} else if err != nil {
		return fmt.Errorf("error creating section: %w", err)
	}
	return nil
}

func (s *Store) DeleteSection(ctx context.Context, number string) error {
	defer observe("delete_section").ObserveDuration()

	res, err := s.collection(collSections).DeleteOne(ctx, bson.M{"_id": number})
	if err != nil {
		return fmt.Errorf("error deleting section: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("section %q: %w", number, dataaccess.ErrSectionNotFound)
	}
	return nil
}

func (s *Store) NextTicketNumber(ctx context.Context) (int, error) {
	defer observe("next_ticket_number").ObserveDuration()

	// $inc on a single document keeps allocation atomic across instances.
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var counter struct {
		LastNumber int `bson:"lastNumber"`
	}
	err := s.collection(collCounter).FindOneAndUpdate(ctx,
		bson.M{"_id": "tickets"},
		bson.M{"$inc": bson.M{"lastNumber": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("error advancing ticket counter: %w", err)
	}
	return counter.LastNumber, nil
}

func (s *Store) SaveTicket(ctx context.Context, t *entities.Ticket) error {
	defer observe("save_ticket").ObserveDuration()

	opts := options.Update().SetUpsert(true)
	_, err := s.collection(collTickets).UpdateOne(ctx, bson.M{"channel_id": t.ChannelID}, bson.M{"$set": t}, opts)
	if err != nil {
		return fmt.Errorf("error saving ticket: %w", err)
	}
	return nil
}

func (s *Store) TicketByChannel(ctx context.Context, channelID string) (*entities.Ticket, error) {
	defer observe("ticket_by_channel").ObserveDuration()

	ticket := new(entities.Ticket)
	err := s.collection(collTickets).FindOne(ctx, bson.M{"channel_id": channelID}).Decode(ticket)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("channel %s: %w", channelID, dataaccess.ErrTicketNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("error getting ticket: %w", err)
	}
	return ticket, nil
}

func (s *Store) DeleteTicket(ctx context.Context, channelID string) error {
	defer observe("delete_ticket").ObserveDuration()

	if _, err := s.collection(collTickets).DeleteOne(ctx, bson.M{"channel_id": channelID}); err != nil {
		return fmt.Errorf("error deleting ticket: %w", err)
	}
	return nil
}
