// Package dbconn owns the process-wide MongoDB client and the handles to
// the four collections the app uses. It holds no business logic.
package dbconn

import (
	"context"
	"errors"
	"fmt"

	"github.com/lucasmenke/suggestion-app/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Collection names.
const (
	CategoriesCollection  = "categories"
	StatusesCollection    = "statuses"
	SuggestionsCollection = "suggestions"
	UsersCollection       = "users"
)

// Conn is built once at startup and shared. The mongo client pools
// connections internally and is safe for concurrent use; Conn itself is
// read-only after construction.
type Conn struct {
	Client *mongo.Client
	DB     *mongo.Database
	DBName string

	Categories  *mongo.Collection
	Statuses    *mongo.Collection
	Suggestions *mongo.Collection
	Users       *mongo.Collection
}

// Options tunes the client pool. Zero values use driver defaults.
type Options struct {
	MaxPoolSize uint64
	MinPoolSize uint64
}

// Connect dials uri, pings the primary and returns a ready Conn. Any
// failure is returned so startup can abort; there is no degraded mode.
func Connect(ctx context.Context, uri, dbName string, o Options, logger *zap.Logger) (*Conn, error) {
	if dbName == "" {
		return nil, errors.New("dbconn: database name is required")
	}

	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	if o.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(o.MaxPoolSize)
	}
	if o.MinPoolSize > 0 {
		opts.SetMinPoolSize(o.MinPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("dbconn: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("dbconn: ping: %w", err)
	}

	logger.Info("connected to MongoDB", zap.String("database", dbName))
	return New(client, dbName), nil
}

// New wraps an already connected client.
func New(client *mongo.Client, dbName string) *Conn {
	db := client.Database(dbName)
	return &Conn{
		Client:      client,
		DB:          db,
		DBName:      dbName,
		Categories:  db.Collection(CategoriesCollection),
		Statuses:    db.Collection(StatusesCollection),
		Suggestions: db.Collection(SuggestionsCollection),
		Users:       db.Collection(UsersCollection),
	}
}

// Close disconnects the client.
func (c *Conn) Close(ctx context.Context) error {
	return c.Client.Disconnect(ctx)
}
