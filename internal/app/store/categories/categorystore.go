package categorystore

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

// CacheKey is the fixed key the full category list is cached under.
const CacheKey = "CategoryData"

var (
	ErrNameRequired  = errors.New("category name is required")
	ErrDuplicateName = errors.New("a category with this name already exists")
)

// Store reads categories through the reference cache. There is no
// invalidation path: categories are only ever added, and a new one shows
// up once the cached list expires.
type Store struct {
	c     *mongo.Collection
	cache *cache.Cache
}

func New(conn *dbconn.Conn, c *cache.Cache) *Store {
	return &Store{c: conn.Categories, cache: c}
}

// GetAll returns every category, sorted by name. The slice is a copy, so
// callers may modify it without touching the cached entry.
func (s *Store) GetAll(ctx context.Context) ([]models.Category, error) {
	list, err := cache.GetOrFetch(ctx, s.cache, CacheKey, s.fetchAll)
	if err != nil {
		return nil, err
	}
	return slices.Clone(list), nil
}

func (s *Store) fetchAll(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), nil, "list categories")
	defer cancel()

	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Category{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new category.
func (s *Store) Create(ctx context.Context, c models.Category) (models.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(c.Description)
	if c.Name == "" {
		return models.Category{}, ErrNameRequired
	}
	c.ID = primitive.NewObjectID()

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), nil, "create category")
	defer cancel()
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Category{}, ErrDuplicateName
		}
		return models.Category{}, err
	}
	return c, nil
}

// Count returns the number of stored categories, bypassing the cache.
func (s *Store) Count(ctx context.Context) (int64, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), nil, "count categories")
	defer cancel()
	return s.c.CountDocuments(ctx, bson.M{})
}
