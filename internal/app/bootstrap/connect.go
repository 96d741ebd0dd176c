// internal/app/bootstrap/connect.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	categorystore "github.com/lucasmenke/suggestion-app/internal/app/store/categories"
	"github.com/lucasmenke/suggestion-app/internal/app/store/dbconn"
	statusstore "github.com/lucasmenke/suggestion-app/internal/app/store/statuses"
	suggestionstore "github.com/lucasmenke/suggestion-app/internal/app/store/suggestions"
	userstore "github.com/lucasmenke/suggestion-app/internal/app/store/users"
	"github.com/lucasmenke/suggestion-app/internal/app/system/cache"
	"github.com/lucasmenke/suggestion-app/internal/app/system/provision"
	"github.com/lucasmenke/suggestion-app/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ConnectDB opens the single MongoDB client and builds the shared caches
// and stores on top of it. An unreachable database aborts startup.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	conn, err := dbconn.Connect(ctx, appCfg.MongoURI, appCfg.MongoDatabase, dbconn.Options{
		MaxPoolSize: appCfg.MongoMaxPoolSize,
		MinPoolSize: appCfg.MongoMinPoolSize,
	}, logger)
	if err != nil {
		return DBDeps{}, err
	}

	deps, err := newDeps(conn, appCfg, logger)
	if err != nil {
		_ = conn.Close(ctx)
		return DBDeps{}, err
	}
	return deps, nil
}

// newDeps wires caches and stores around an open connection.
func newDeps(conn *dbconn.Conn, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	refCfg := cache.ReferenceConfig()
	refCfg.TTL = appCfg.ReferenceCacheTTL
	refCache, err := cache.New(refCfg)
	if err != nil {
		return DBDeps{}, fmt.Errorf("reference cache: %w", err)
	}

	sugCfg := cache.SuggestionConfig()
	sugCfg.TTL = appCfg.SuggestionCacheTTL
	sugCfg.Capacity = appCfg.CacheCapacity
	sugCache, err := cache.New(sugCfg)
	if err != nil {
		return DBDeps{}, fmt.Errorf("suggestion cache: %w", err)
	}

	users := userstore.New(conn)
	return DBDeps{
		Conn:            conn,
		ReferenceCache:  refCache,
		SuggestionCache: sugCache,
		Categories:      categorystore.New(conn, refCache),
		Statuses:        statusstore.New(conn, refCache),
		Suggestions:     suggestionstore.New(conn, users, sugCache, logger),
		Users:           users,
		Provisioner:     provision.New(users, logger),
	}, nil
}
