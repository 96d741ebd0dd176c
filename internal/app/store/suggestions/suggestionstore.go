// Package suggestionstore owns the suggestions collection and the
// denormalized suggestion references kept on user profiles.
//
// Reads go through the shared suggestion cache. Writes that touch a
// suggestion and a user profile (create, vote toggle) run in one
// multi-document transaction; after a write that changes what the public
// lists show, the fixed list key is dropped so the next read is fresh.
// Per-user entries are left to expire on their own.
package suggestionstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lucasmenke/suggestion-app/internal/app/store/dbconn"
	"github.com/lucasmenke/suggestion-app/internal/app/system/cache"
	"github.com/lucasmenke/suggestion-app/internal/app/system/timeouts"
	"github.com/lucasmenke/suggestion-app/internal/app/system/txn"
	"github.com/lucasmenke/suggestion-app/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// CacheKey holds the non-archived suggestion list every public view derives from.
const CacheKey = "SuggestionData"

// UserCacheKey returns the per-user list key.
func UserCacheKey(userID primitive.ObjectID) string {
	return CacheKey + "_" + userID.Hex()
}

var (
	// ErrNotFound is returned by writes whose target suggestion does not exist.
	ErrNotFound = errors.New("suggestion not found")
	// ErrUserNotFound is returned when the author or voter has no profile.
	ErrUserNotFound = errors.New("user not found")

	ErrTitleRequired    = errors.New("title is required")
	ErrCategoryRequired = errors.New("category is required")
	ErrAuthorRequired   = errors.New("author is required")
	ErrIDRequired       = errors.New("suggestion id is required")
)

// UserStore is the part of the user repository the transactional writes
// need. Both calls must honor a session context so they join the transaction.
type UserStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Replace(ctx context.Context, u models.User) error
}

// Store provides suggestion persistence.
type Store struct {
	db    *mongo.Database
	c     *mongo.Collection
	users UserStore
	cache *cache.Cache
	log   *zap.Logger
}

func New(conn *dbconn.Conn, users UserStore, c *cache.Cache, logger *zap.Logger) *Store {
	return &Store{
		db:    conn.DB,
		c:     conn.Suggestions,
		users: users,
		cache: c,
		log:   logger,
	}
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Suggestion, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.log, "list suggestions")
	defer cancel()

	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Suggestion{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) cachedAll(ctx context.Context) ([]models.Suggestion, error) {
	return cache.GetOrFetch(ctx, s.cache, CacheKey, func(ctx context.Context) ([]models.Suggestion, error) {
		return s.find(ctx, bson.M{"archived": false})
	})
}

func (s *Store) cachedForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Suggestion, error) {
	return cache.GetOrFetch(ctx, s.cache, UserCacheKey(userID), func(ctx context.Context) ([]models.Suggestion, error) {
		return s.find(ctx, bson.M{"author._id": userID})
	})
}

// GetAll returns every non-archived suggestion, newest first.
func (s *Store) GetAll(ctx context.Context) ([]models.Suggestion, error) {
	all, err := s.cachedAll(ctx)
	if err != nil {
		return nil, err
	}
	return filter(all, func(models.Suggestion) bool { return true }), nil
}

// GetAllApproved returns the public feed.
func (s *Store) GetAllApproved(ctx context.Context) ([]models.Suggestion, error) {
	all, err := s.cachedAll(ctx)
	if err != nil {
		return nil, err
	}
	return filter(all, func(sg models.Suggestion) bool { return sg.ApprovedForRelease }), nil
}

// GetAllWaitingForApproval returns suggestions nobody has triaged yet.
func (s *Store) GetAllWaitingForApproval(ctx context.Context) ([]models.Suggestion, error) {
	all, err := s.cachedAll(ctx)
	if err != nil {
		return nil, err
	}
	return filter(all, func(sg models.Suggestion) bool {
		return !sg.ApprovedForRelease && !sg.Rejected
	}), nil
}

// GetUsersSuggestions returns the non-archived suggestions authored by userID.
// The per-user entry is not dropped on writes, so it can lag by up to the TTL.
func (s *Store) GetUsersSuggestions(ctx context.Context, userID primitive.ObjectID) ([]models.Suggestion, error) {
	mine, err := s.cachedForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return filter(mine, func(sg models.Suggestion) bool { return !sg.Archived }), nil
}

// GetUsersArchivedSuggestions returns the archived suggestions authored by userID.
func (s *Store) GetUsersArchivedSuggestions(ctx context.Context, userID primitive.ObjectID) ([]models.Suggestion, error) {
	mine, err := s.cachedForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return filter(mine, func(sg models.Suggestion) bool { return sg.Archived }), nil
}

// GetSuggestion loads one suggestion straight from the database. It returns
// (nil, nil) when nothing matches.
func (s *Store) GetSuggestion(ctx context.Context, id primitive.ObjectID) (*models.Suggestion, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.log, "get suggestion")
	defer cancel()

	var sg models.Suggestion
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sg, nil
}

// UpdateSuggestion writes the triage fields of sg (title, description,
// category, status, flags, owner notes) and drops the list cache.
// The voter set, the author and the creation time are never taken from sg,
// so saving a stale copy cannot undo a vote cast in the meantime.
func (s *Store) UpdateSuggestion(ctx context.Context, sg models.Suggestion) error {
	if sg.ID.IsZero() {
		return ErrIDRequired
	}

	set := bson.M{
		"title":                strings.TrimSpace(sg.Title),
		"description":          strings.TrimSpace(sg.Description),
		"category":             sg.Category,
		"approved_for_release": sg.ApprovedForRelease,
		"rejected":             sg.Rejected,
		"archived":             sg.Archived,
		"owner_notes":          sg.OwnerNotes,
	}
	update := bson.M{"$set": set}
	if sg.Status != nil {
		set["status"] = sg.Status
	} else {
		update["$unset"] = bson.M{"status": ""}
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.log, "update suggestion")
	defer cancel()
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": sg.ID}, update)
	if err != nil {
		return fmt.Errorf("update suggestion %s: %w", sg.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	s.cache.Delete(CacheKey)
	return nil
}

// CreateSuggestion inserts sg and records it on the author's profile in one
// transaction. Triage state is reset and the author's display name is taken
// from the stored profile. The list cache is left alone: a new suggestion
// is not approved yet, so the public feed cannot show it.
func (s *Store) CreateSuggestion(ctx context.Context, sg models.Suggestion) (models.Suggestion, error) {
	sg.Title = strings.TrimSpace(sg.Title)
	sg.Description = strings.TrimSpace(sg.Description)
	switch {
	case sg.Title == "":
		return models.Suggestion{}, ErrTitleRequired
	case sg.Category.ID.IsZero():
		return models.Suggestion{}, ErrCategoryRequired
	case sg.Author.ID.IsZero():
		return models.Suggestion{}, ErrAuthorRequired
	}

	sg.ID = primitive.NewObjectID()
	sg.CreatedAt = time.Now().UTC()
	sg.UserVotes = []primitive.ObjectID{}
	sg.Status = nil
	sg.OwnerNotes = ""
	sg.ApprovedForRelease = false
	sg.Rejected = false
	sg.Archived = false

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Long(), s.log, "create suggestion")
	defer cancel()

	err := txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		author, err := s.users.GetByID(ctx, sg.Author.ID)
		if err != nil {
			return fmt.Errorf("load author: %w", err)
		}
		if author == nil {
			return fmt.Errorf("author %s: %w", sg.Author.ID.Hex(), ErrUserNotFound)
		}
		sg.Author = author.Ref()

		if _, err := s.c.InsertOne(ctx, sg); err != nil {
			return fmt.Errorf("insert suggestion: %w", err)
		}

		author.AuthoredSuggestions = addRef(author.AuthoredSuggestions, sg.Ref())
		if err := s.users.Replace(ctx, *author); err != nil {
			return fmt.Errorf("save author: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Suggestion{}, err
	}
	return sg, nil
}

// ToggleVote adds userID to the voter set of the suggestion, or removes it
// when already present, and mirrors the change on the user's
// VotedOnSuggestions. Both documents are read and written inside one
// transaction. It returns true when the call added a vote.
//
// A missing suggestion or user is an error, not a no-op.
func (s *Store) ToggleVote(ctx context.Context, suggestionID, userID primitive.ObjectID) (bool, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Long(), s.log, "toggle vote")
	defer cancel()

	var added bool
	err := txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		var sg models.Suggestion
		err := s.c.FindOne(ctx, bson.M{"_id": suggestionID}).Decode(&sg)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("toggle vote on %s: %w", suggestionID.Hex(), ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("load suggestion: %w", err)
		}

		sg.UserVotes, added = toggleVoter(sg.UserVotes, userID)
		res, err := s.c.UpdateOne(ctx, bson.M{"_id": sg.ID}, bson.M{"$set": bson.M{"user_votes": sg.UserVotes}})
		if err != nil {
			return fmt.Errorf("save suggestion: %w", err)
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("toggle vote on %s: %w", suggestionID.Hex(), ErrNotFound)
		}

		u, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("load voter: %w", err)
		}
		if u == nil {
			return fmt.Errorf("voter %s: %w", userID.Hex(), ErrUserNotFound)
		}

		if added {
			u.VotedOnSuggestions = addRef(u.VotedOnSuggestions, sg.Ref())
		} else {
			u.VotedOnSuggestions = removeRef(u.VotedOnSuggestions, sg.ID)
		}
		if err := s.users.Replace(ctx, *u); err != nil {
			return fmt.Errorf("save voter: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	s.cache.Delete(CacheKey)
	s.log.Debug("vote toggled",
		zap.String("suggestion_id", suggestionID.Hex()),
		zap.String("user_id", userID.Hex()),
		zap.Bool("added", added))
	return added, nil
}
