package validators_test

import (
	"testing"
	"time"

	"github.com/lucasmenke/suggestion-app/internal/app/system/validators"
	"github.com/lucasmenke/suggestion-app/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func ensure(t *testing.T) *mongo.Database {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	return db
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := ensure(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	have := make(map[string]bool)
	for _, n := range names {
		have[n] = true
	}
	for _, want := range []string{"categories", "statuses", "suggestions", "users"} {
		if !have[want] {
			t.Errorf("expected collection %q to exist", want)
		}
	}
}

func TestValidators(t *testing.T) {
	db := ensure(t)

	ref := bson.M{"_id": primitive.NewObjectID(), "display_name": "Ada"}
	validSuggestion := func() bson.M {
		return bson.M{
			"title":                "Add dark mode",
			"description":          "",
			"category":             bson.M{"_id": primitive.NewObjectID(), "name": "Courses"},
			"author":               ref,
			"user_votes":           bson.A{},
			"approved_for_release": false,
			"rejected":             false,
			"archived":             false,
			"created_at":           time.Now(),
		}
	}
	voter := primitive.NewObjectID()

	tests := []struct {
		name    string
		coll    string
		doc     bson.M
		wantErr bool
	}{
		{"category valid", "categories", bson.M{"name": "Courses", "description": "Full courses"}, false},
		{"category blank name", "categories", bson.M{"name": "   "}, true},
		{"status missing name", "statuses", bson.M{"description": "x"}, true},
		{"status valid", "statuses", bson.M{"name": "Completed"}, false},
		{"suggestion valid", "suggestions", validSuggestion(), false},
		{"suggestion blank title", "suggestions", func() bson.M { d := validSuggestion(); d["title"] = ""; return d }(), true},
		{"suggestion missing author", "suggestions", func() bson.M { d := validSuggestion(); delete(d, "author"); return d }(), true},
		{"suggestion duplicate voters", "suggestions", func() bson.M {
			d := validSuggestion()
			d["user_votes"] = bson.A{voter, voter}
			return d
		}(), true},
		{"suggestion voter not an id", "suggestions", func() bson.M {
			d := validSuggestion()
			d["user_votes"] = bson.A{"someone"}
			return d
		}(), true},
		{"user valid", "users", bson.M{
			"object_identifier":    "subject-1",
			"display_name":         "Ada",
			"authored_suggestions": bson.A{},
			"voted_on_suggestions": bson.A{bson.M{"_id": primitive.NewObjectID(), "title": "Add dark mode"}},
		}, false},
		{"user missing subject", "users", bson.M{"display_name": "Ada"}, true},
		{"user ref without id", "users", bson.M{
			"object_identifier":    "subject-2",
			"display_name":         "Ada",
			"voted_on_suggestions": bson.A{bson.M{"title": "Add dark mode"}},
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := testutil.TestContext()
			defer cancel()

			_, err := db.Collection(tt.coll).InsertOne(ctx, tt.doc)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected insert to succeed, got %v", err)
			}
		})
	}
}
