package userstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/lucasmenke/suggestion-app/internal/app/store/dbconn"
	"github.com/lucasmenke/suggestion-app/internal/app/system/normalize"
	"github.com/lucasmenke/suggestion-app/internal/app/system/timeouts"
	"github.com/lucasmenke/suggestion-app/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateIdentity is returned when another profile already holds
	// the identity-provider subject.
	ErrDuplicateIdentity = errors.New("a user with this identity subject already exists")
	// ErrNotFound is returned by Replace when no profile has the given id.
	ErrNotFound = errors.New("user not found")

	errIDRequired = errors.New("user id is required")
)

// Store is the users collection. Lookups return (nil, nil) when nothing
// matches so callers can tell "new user" from a failed query.
//
// Every method accepts a session context, so the suggestion store can call
// GetByID and Replace inside its transactions.
type Store struct {
	c *mongo.Collection
}

func New(conn *dbconn.Conn) *Store {
	return &Store{c: conn.Users}
}

// List returns every user ordered by display name.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), nil, "list users")
	defer cancel()

	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "display_name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.User{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByObjectIdentifier resolves a signed-in subject to its stored profile.
// A nil user with a nil error means the subject has never been provisioned.
func (s *Store) GetByObjectIdentifier(ctx context.Context, subject string) (*models.User, error) {
	subject = normalize.Subject(subject)
	if subject == "" {
		return nil, nil
	}
	return s.findOne(ctx, bson.M{"object_identifier": subject})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), nil, "find user")
	defer cancel()

	var u models.User
	err := s.c.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new profile. The id is always generated here and the
// denormalized suggestion lists always start empty.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	clean(&u)
	u.AuthoredSuggestions = []models.SuggestionRef{}
	u.VotedOnSuggestions = []models.SuggestionRef{}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), nil, "create user")
	defer cancel()
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateIdentity
		}
		return models.User{}, err
	}
	return u, nil
}

// Update writes the profile fields of u, inserting the document when no
// user has u.ID yet, so first-login provisioning never fails on a missing
// row. The subject is written on insert only. AuthoredSuggestions and
// VotedOnSuggestions on u are ignored: only the suggestion store maintains
// them.
func (s *Store) Update(ctx context.Context, u models.User) error {
	if u.ID.IsZero() {
		return errIDRequired
	}
	clean(&u)
	now := time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"display_name": u.DisplayName,
			"first_name":   u.FirstName,
			"last_name":    u.LastName,
			"email":        u.Email,
			"updated_at":   now,
		},
		"$setOnInsert": bson.M{
			"object_identifier":    u.ObjectIdentifier,
			"authored_suggestions": bson.A{},
			"voted_on_suggestions": bson.A{},
			"created_at":           now,
		},
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), nil, "update user")
	defer cancel()
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": u.ID}, update, options.Update().SetUpsert(true))
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateIdentity
		}
		return fmt.Errorf("update user %s: %w", u.ID.Hex(), err)
	}
	return nil
}

// Replace overwrites the whole document, including the denormalized lists.
// It is meant for the suggestion store, which reads the user and writes it
// back inside one transaction.
func (s *Store) Replace(ctx context.Context, u models.User) error {
	if u.ID.IsZero() {
		return errIDRequired
	}
	u.UpdatedAt = time.Now().UTC()

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), nil, "replace user")
	defer cancel()
	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if err != nil {
		return fmt.Errorf("replace user %s: %w", u.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func clean(u *models.User) {
	u.ObjectIdentifier = normalize.Subject(u.ObjectIdentifier)
	u.DisplayName = normalize.Name(u.DisplayName)
	u.FirstName = normalize.Name(u.FirstName)
	u.LastName = normalize.Name(u.LastName)
	u.Email = normalize.Email(u.Email)
}
