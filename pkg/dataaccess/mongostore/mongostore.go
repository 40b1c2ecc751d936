// Package mongostore implements the store interfaces over MongoDB, for
// deployments that already run one. Selected when MONGO_URI is set; the
// flat-file store remains the default backend.
package mongostore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/wardenbot/warden/pkg/dataaccess/monitoring"
	"github.com/wardenbot/warden/pkg/logging"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const storeName = "mongostore"

const (
	// database is the database that all collections live in.
	database = "warden"

	// collSettings holds the single ticket appearance settings document.
	collSettings = "ticket_settings"

	// collSections holds one document per section, keyed by number.
	collSections = "sections"

	// collCounter holds the single ticket sequence counter document.
	collCounter = "counters"

	// collTickets holds one document per ticket, keyed by channel ID.
	collTickets = "tickets"

	// collWelcome holds the single welcome settings document.
	collWelcome = "welcome"
)

// Store is a MongoDB backed store. It implements both
// dataaccess.TicketStore and dataaccess.WelcomeStore.
type Store struct {
	// l is the logger.
	l *slog.Logger

	// client is the database. This is a connection pool.
	client *mongo.Client
}

// Connect connects to MongoDB and returns a store over it.
func Connect(ctx context.Context, l *slog.Logger, uri string) (*Store, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("error connecting to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("error pinging mongo: %w", err)
	}

	return &Store{
		l:      l.With(slog.String(logging.KeyStore, storeName)),
		client: client,
	}, nil
}

// Disconnect closes the underlying connection pool.
func (s *Store) Disconnect(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("error disconnecting from mongo: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	defer observe("ping").ObserveDuration()

	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping mongo: %w", err)
	}
	return nil
}

// collection returns a handle in the store database.
func (s *Store) collection(name string) *mongo.Collection {
	return s.client.Database(database).Collection(name)
}

// observe starts the store metrics for one operation and returns the timer.
func observe(op string) *prometheus.Timer {
	monitoring.StoreTotalRequests.WithLabelValues(storeName, op).Inc()
	return prometheus.NewTimer(monitoring.StoreLatency.WithLabelValues(storeName, op))
}
