// Package database owns the MongoDB connection lifecycle. A single
// Provider is constructed in main and handed to every repository; there is
// no ambient global client.
package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrUnavailable wraps every failed attempt to reach the store, so layers
// above can answer with a retryable condition.
var ErrUnavailable = errors.New("document store unreachable")

const (
	EventsCollection   = "events"
	BookingsCollection = "bookings"

	maxPoolSize    = 10
	connectTimeout = 10 * time.Second
)

// Provider hands out collections backed by one memoized client.
// Lifecycle: dial and ping on first use, then reuse; the driver's server
// monitoring keeps the pooled client healthy, so the reuse path is a
// cached lookup with no network round trip. Only a failed first dial is
// retried on the next call. Concurrent early callers wait on the one
// in-flight dial instead of opening their own.
type Provider struct {
	connString string
	dbName     string
	log        zerolog.Logger

	mu     sync.Mutex
	client *mongo.Client
}

// NewProvider prepares a provider without connecting yet.
func NewProvider(connString, dbName string, log zerolog.Logger) *Provider {
	return &Provider{
		connString: connString,
		dbName:     dbName,
		log:        log.With().Str("component", "database").Logger(),
	}
}

// Collection returns a handle to a named collection, dialing the store
// on the first call.
func (p *Provider) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	client, err := p.connect(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(p.dbName).Collection(name), nil
}

func (p *Provider) connect(ctx context.Context) (*mongo.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(p.connString).
		SetMaxPoolSize(maxPoolSize)
	client, err := mongo.Connect(dialCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// Connect itself is lazy; ping once so an unreachable store surfaces
	// here instead of on the first query.
	if err := client.Ping(dialCtx, nil); err != nil {
		_ = client.Disconnect(dialCtx)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	p.client = client
	p.log.Info().Str("db", p.dbName).Msg("connected to document store")
	return client, nil
}

// Close disconnects the cached client, if any.
func (p *Provider) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		return nil
	}
	err := p.client.Disconnect(ctx)
	p.client = nil
	return err
}

// EnsureIndexes creates the unique constraints the repositories rely on:
// one slug per event, one booking per (event, email) pair regardless of
// booking status.
func (p *Provider) EnsureIndexes(ctx context.Context) error {
	events, err := p.Collection(ctx, EventsCollection)
	if err != nil {
		return err
	}
	_, err = events.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_slug"),
	})
	if err != nil {
		return fmt.Errorf("cannot create slug index: %w", err)
	}

	bookings, err := p.Collection(ctx, BookingsCollection)
	if err != nil {
		return err
	}
	_, err = bookings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "event_id", Value: 1}, {Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_event_email"),
	})
	if err != nil {
		return fmt.Errorf("cannot create booking index: %w", err)
	}

	return nil
}
