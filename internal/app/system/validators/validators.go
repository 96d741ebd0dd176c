// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/lucasmenke/suggestion-app/internal/app/store/dbconn"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates the app's collections (if missing) and tries to attach
// JSON-Schema validators. Collections must exist before the first
// transaction runs, because older servers refuse to create a collection
// inside one. On servers that don't support collMod/validators we log and
// skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure(dbconn.CategoriesCollection, referenceSchema())
	ensure(dbconn.StatusesCollection, referenceSchema())
	ensure(dbconn.SuggestionsCollection, suggestionsSchema())
	ensure(dbconn.UsersCollection, usersSchema())

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists reports whether name is already there.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection creates name unless it exists. created is true only
// when this call made it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

// referenceSchema covers categories and statuses, which share a shape.
func referenceSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name"},
			"properties": bson.M{
				"name":        nonBlank,
				"description": bson.M{"bsonType": "string"},
			},
		},
	}
}

func refSchema(textField string) bson.M {
	return bson.M{
		"bsonType": "object",
		"required": bson.A{"_id"},
		"properties": bson.M{
			"_id":     bson.M{"bsonType": "objectId"},
			textField: bson.M{"bsonType": "string"},
		},
	}
}

func suggestionsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "category", "author", "user_votes", "archived", "created_at"},
			"properties": bson.M{
				"title":       nonBlank,
				"description": bson.M{"bsonType": "string"},
				"category":    bson.M{"bsonType": "object"},
				"status":      bson.M{"bsonType": bson.A{"object", "null"}},
				"author":      refSchema("display_name"),
				"user_votes": bson.M{
					"bsonType":    "array",
					"uniqueItems": true,
					"items":       bson.M{"bsonType": "objectId"},
				},
				"approved_for_release": bson.M{"bsonType": "bool"},
				"rejected":             bson.M{"bsonType": "bool"},
				"archived":             bson.M{"bsonType": "bool"},
				"owner_notes":          bson.M{"bsonType": "string"},
				"created_at":           bson.M{"bsonType": "date"},
			},
		},
	}
}

func usersSchema() bson.M {
	refs := bson.M{
		"bsonType": bson.A{"array", "null"},
		"items":    refSchema("title"),
	}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"object_identifier", "display_name"},
			"properties": bson.M{
				"object_identifier":    bson.M{"bsonType": "string"},
				"display_name":         bson.M{"bsonType": "string"},
				"first_name":           bson.M{"bsonType": "string"},
				"last_name":            bson.M{"bsonType": "string"},
				"email":                bson.M{"bsonType": "string"},
				"authored_suggestions": refs,
				"voted_on_suggestions": refs,
				"created_at":           bson.M{"bsonType": "date"},
				"updated_at":           bson.M{"bsonType": "date"},
			},
		},
	}
}
