// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers the framework-level settings (ports, TLS,
// logging level, CORS). AppConfig holds what is specific to the
// suggestion app: where the data lives, how long cached reads may be
// served and the per-operation deadlines.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Read-through cache configuration
	ReferenceCacheTTL  time.Duration // categories and statuses
	SuggestionCacheTTL time.Duration // shared suggestion list and per-user lists
	CacheCapacity      int           // max entries in the suggestion cache

	// SeedReferenceData inserts the default categories and statuses into
	// empty collections during EnsureSchema.
	SeedReferenceData bool

	// Per-operation deadlines (see system/timeouts)
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// SentryDSN enables error reporting when set.
	SentryDSN string
}
