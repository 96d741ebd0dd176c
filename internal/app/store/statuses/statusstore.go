package statusstore

import (
	"context"
	"errors"
	"slices"
	"strings"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/lucasmenke/suggestion-app/internal/app/store/dbconn"
	"github.com/lucasmenke/suggestion-app/internal/app/system/cache"
	"github.com/lucasmenke/suggestion-app/internal/app/system/timeouts"
	"github.com/lucasmenke/suggestion-app/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CacheKey is the fixed key the full status list is cached under.
const CacheKey = "StatusData"

var (
	ErrNameRequired  = errors.New("status name is required")
	ErrDuplicateName = errors.New("a status with this name already exists")
)

// Store reads statuses through the reference cache. There is no
// invalidation path: statuses are only ever added, and a new one shows
// up once the cached list expires.
type Store struct {
	c     *mongo.Collection
	cache *cache.Cache
}

func New(conn *dbconn.Conn, c *cache.Cache) *Store {
	return &Store{c: conn.Statuses, cache: c}
}

// GetAll returns every status, sorted by name. The slice is a copy, so
// callers may modify it without touching the cached entry.
func (s *Store) GetAll(ctx context.Context) ([]models.Status, error) {
	list, err := cache.GetOrFetch(ctx, s.cache, CacheKey, s.fetchAll)
	if err != nil {
		return nil, err
	}
	return slices.Clone(list), nil
}

func (s *Store) fetchAll(ctx context.Context) ([]models.Status, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), nil, "list statuses")
	defer cancel()

	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Status{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new status.
func (s *Store) Create(ctx context.Context, st models.Status) (models.Status, error) {
	st.Name = strings.TrimSpace(st.Name)
	st.Description = strings.TrimSpace(st.Description)
	if st.Name == "" {
		return models.Status{}, ErrNameRequired
	}
	st.ID = primitive.NewObjectID()

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), nil, "create status")
	defer cancel()
	if _, err := s.c.InsertOne(ctx, st); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Status{}, ErrDuplicateName
		}
		return models.Status{}, err
	}
	return st, nil
}

// Count returns the number of stored statuses, bypassing the cache.
func (s *Store) Count(ctx context.Context) (int64, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), nil, "count statuses")
	defer cancel()
	return s.c.CountDocuments(ctx, bson.M{})
}
