package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DefaultMongoURI is used when MONGO_TEST_URI is not set.
const DefaultMongoURI = "mongodb://localhost:27017"

// TestContext returns a context with a timeout suitable for a single test.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// SetupTestDB connects to the test MongoDB and returns a fresh database
// that is dropped when the test finishes. The test is skipped when no
// server is reachable, so unit tests still run on machines without Mongo.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		uri = DefaultMongoURI
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(2*time.Second))
	if err != nil {
		t.Skipf("mongo not available (%s): %v", uri, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		t.Skipf("mongo not available (%s): %v", uri, err)
	}

	name := dbName(t)
	db := client.Database(name)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	return db
}

// RequireTransactions skips the test unless db's deployment is a replica
// set or sharded cluster. It also creates the app's collections, since
// older servers refuse to create collections inside a transaction.
func RequireTransactions(t *testing.T, db *mongo.Database) {
	t.Helper()

	ctx, cancel := TestContext()
	defer cancel()

	var hello struct {
		SetName string `bson:"setName"`
		Msg     string `bson:"msg"`
	}
	if err := db.RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello); err != nil {
		t.Skipf("hello command failed: %v", err)
	}
	if hello.SetName == "" && hello.Msg != "isdbgrid" {
		t.Skip("transactions require a replica set; set MONGO_TEST_URI to one")
	}

	for _, c := range []string{"categories", "statuses", "suggestions", "users"} {
		if err := db.CreateCollection(ctx, c); err != nil && !strings.Contains(strings.ToLower(err.Error()), "already exists") {
			t.Fatalf("create collection %s: %v", c, err)
		}
	}
}

// dbName builds a unique, Mongo-safe database name for t.
func dbName(t *testing.T) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, t.Name())
	if len(base) > 40 {
		base = base[:40]
	}
	return fmt.Sprintf("sa_%s_%d", base, time.Now().UnixNano()%1_000_000_000)
}
