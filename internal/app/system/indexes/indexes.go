// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lucasmenke/suggestion-app/internal/app/store/dbconn"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	for _, step := range []struct {
		coll string
		fn   func(context.Context, *mongo.Database) error
	}{
		{dbconn.UsersCollection, ensureUsers},
		{dbconn.SuggestionsCollection, ensureSuggestions},
		{dbconn.CategoriesCollection, ensureCategories},
		{dbconn.StatusesCollection, ensureStatuses},
	} {
		if err := step.fn(ctx, db); err != nil {
			problems = append(problems, step.coll+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(b *bool) bool {
	return b != nil && *b
}

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var se mongo.ServerError
	if errors.As(err, &se) && se.HasErrorCode(11000) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func listIndexes(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{} // key signature -> index
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

// ensureIndexSet creates each desired index. An existing index on the same
// keys is reused when its name and uniqueness match, otherwise it is dropped
// and recreated.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing, err := listIndexes(ctx, coll)
	if err != nil {
		// A collection that does not exist yet has no indexes to reconcile.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		name := ""
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[sig]; ok {
			if ex.Name == name && isUnique(ex.Unique) == isUnique(unique) {
				zap.L().Info("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", sig))
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
			zap.L().Info("dropped index for recreate",
				zap.String("collection", coll.Name()),
				zap.String("name", ex.Name),
				zap.String("keys", sig))
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isDuplicateKeyErr(err) && isUnique(unique) {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), name))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", isUnique(unique)),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Per-collection index sets                                                  */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection(dbconn.UsersCollection), []mongo.IndexModel{
		// Login resolves the provider subject to a profile. Partial so profiles
		// created before a subject is known don't collide on "".
		{
			Keys: bson.D{{Key: "object_identifier", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_users_object_identifier").
				SetPartialFilterExpression(bson.M{"object_identifier": bson.M{"$gt": ""}}),
		},
		{
			Keys:    bson.D{{Key: "display_name", Value: 1}},
			Options: options.Index().SetName("idx_users_display_name"),
		},
	})
}

func ensureSuggestions(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection(dbconn.SuggestionsCollection), []mongo.IndexModel{
		// The cached list query: non-archived, newest first.
		{
			Keys:    bson.D{{Key: "archived", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_suggestions_archived_created"),
		},
		// Per-user list.
		{
			Keys:    bson.D{{Key: "author._id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_suggestions_author_created"),
		},
	})
}

func ensureCategories(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection(dbconn.CategoriesCollection), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_categories_name"),
		},
	})
}

func ensureStatuses(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection(dbconn.StatusesCollection), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_statuses_name"),
		},
	})
}
