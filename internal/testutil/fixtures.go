package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/lucasmenke/suggestion-app/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateCategory inserts a category and returns it with its id.
func (f *Fixtures) CreateCategory(ctx context.Context, name string) models.Category {
	f.t.Helper()

	c := models.Category{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: name + " description",
	}
	if _, err := f.db.Collection("categories").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test category: %v", err)
	}
	return c
}

// CreateStatus inserts a status and returns it with its id.
func (f *Fixtures) CreateStatus(ctx context.Context, name string) models.Status {
	f.t.Helper()

	s := models.Status{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: name + " description",
	}
	if _, err := f.db.Collection("statuses").InsertOne(ctx, s); err != nil {
		f.t.Fatalf("failed to create test status: %v", err)
	}
	return s
}

// CreateUser inserts a user profile with empty authored/voted lists.
func (f *Fixtures) CreateUser(ctx context.Context, displayName, subject string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:                  primitive.NewObjectID(),
		ObjectIdentifier:    subject,
		DisplayName:         displayName,
		FirstName:           displayName,
		LastName:            "Tester",
		Email:               subject + "@example.com",
		AuthoredSuggestions: []models.SuggestionRef{},
		VotedOnSuggestions:  []models.SuggestionRef{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// InsertSuggestion writes s directly, bypassing the store. Useful for
// arranging archived/approved states without going through triage.
func (f *Fixtures) InsertSuggestion(ctx context.Context, s models.Suggestion) models.Suggestion {
	f.t.Helper()

	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if s.UserVotes == nil {
		s.UserVotes = []primitive.ObjectID{}
	}
	if _, err := f.db.Collection("suggestions").InsertOne(ctx, s); err != nil {
		f.t.Fatalf("failed to insert test suggestion: %v", err)
	}
	return s
}
