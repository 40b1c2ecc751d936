package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wardenbot/warden/pkg/custom"
	"github.com/wardenbot/warden/pkg/entities"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// welcomeDocID keys the single welcome settings document.
const welcomeDocID = "config"

func (s *Store) Config(ctx context.Context) (*entities.WelcomeConfig, error) {
	defer observe("config").ObserveDuration()

	cfg := new(entities.WelcomeConfig)
	err := s.collection(collWelcome).FindOne(ctx, bson.M{"_id": welcomeDocID}).Decode(cfg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		cfg = entities.DefaultWelcomeConfig()
		if err := s.SaveConfig(ctx, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	} else if err != nil {
		return nil, fmt.Errorf("error getting welcome config: %w", err)
	}
	return cfg, nil
}

func (s *Store) SaveConfig(ctx context.Context, cfg *entities.WelcomeConfig) error {
	defer observe("save_config").ObserveDuration()

	opts := options.Update().SetUpsert(true)
	_, err := s.collection(collWelcome).UpdateOne(ctx, bson.M{"_id": welcomeDocID}, bson.M{"$set": cfg}, opts)
	if err != nil {
		return fmt.Errorf("error saving welcome config: %w", err)
	}
	return nil
}

func (s *Store) AppendLog(ctx context.Context, action, userID string) error {
	defer observe("append_log").ObserveDuration()

	entry := entities.WelcomeLogEntry{
		Action:    action,
		UserID:    userID,
		Timestamp: custom.Datetime(time.Now().UTC()),
	}

	// $push with a negative $slice keeps only the most recent entries,
	// matching the file store's truncation.
	opts := options.Update().SetUpsert(true)
	_, err := s.collection(collWelcome).UpdateOne(ctx,
		bson.M{"_id": welcomeDocID},
		bson.M{"$push": bson.M{"logs": bson.M{
			"$each":  []entities.WelcomeLogEntry{entry},
			"$slice": -entities.MaxWelcomeLogEntries,
		}}},
		opts,
	)
	if err != nil {
		return fmt.Errorf("error appending welcome log: %w", err)
	}
	return nil
}
