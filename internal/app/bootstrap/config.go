// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/lucasmenke/suggestion-app/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the suggestion app.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, suggestion_cache_ttl, etc.
//   - Environment variables: SUGGESTIONAPP_MONGO_URI, SUGGESTIONAPP_SENTRY_DSN, etc.
//   - Command-line flags: --mongo_uri, --seed_reference_data, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI (a replica set is required for transactions)"},
	{Name: "mongo_database", Default: "suggestion_app", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Cache
	{Name: "reference_cache_ttl", Default: "24h", Desc: "How long category and status lists are cached"},
	{Name: "suggestion_cache_ttl", Default: "60s", Desc: "How long suggestion lists are cached"},
	{Name: "cache_capacity", Default: 10000, Desc: "Max entries in the suggestion cache"},

	{Name: "seed_reference_data", Default: true, Desc: "Insert default categories and statuses into empty collections"},

	// Timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for list queries"},
	{Name: "timeout_long", Default: "30s", Desc: "Deadline for multi-collection transactions"},

	// Error reporting
	{Name: "sentry_dsn", Default: "", Desc: "Sentry DSN (blank disables reporting)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (SUGGESTIONAPP_* for app keys) and flags, merged
// with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SUGGESTIONAPP", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    strings.TrimSpace(appValues.String("mongo_database")),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		ReferenceCacheTTL:  appValues.Duration("reference_cache_ttl", 24*time.Hour),
		SuggestionCacheTTL: appValues.Duration("suggestion_cache_ttl", 60*time.Second),
		CacheCapacity:      appValues.Int("cache_capacity"),

		SeedReferenceData: appValues.Bool("seed_reference_data"),

		TimeoutShort:  appValues.Duration("timeout_short", timeouts.DefaultShort),
		TimeoutMedium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
		TimeoutLong:   appValues.Duration("timeout_long", timeouts.DefaultLong),

		SentryDSN: appValues.String("sentry_dsn"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// A bad connection string is caught here, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}
	if appCfg.ReferenceCacheTTL <= 0 || appCfg.SuggestionCacheTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive (reference=%s, suggestion=%s)",
			appCfg.ReferenceCacheTTL, appCfg.SuggestionCacheTTL)
	}
	if appCfg.CacheCapacity <= 0 {
		return fmt.Errorf("cache_capacity must be positive, got %d", appCfg.CacheCapacity)
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}
	return nil
}
