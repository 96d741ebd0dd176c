// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	categorystore "github.com/lucasmenke/suggestion-app/internal/app/store/categories"
	"github.com/lucasmenke/suggestion-app/internal/app/store/dbconn"
	statusstore "github.com/lucasmenke/suggestion-app/internal/app/store/statuses"
	suggestionstore "github.com/lucasmenke/suggestion-app/internal/app/store/suggestions"
	userstore "github.com/lucasmenke/suggestion-app/internal/app/store/users"
	"github.com/lucasmenke/suggestion-app/internal/app/system/cache"
	"github.com/lucasmenke/suggestion-app/internal/app/system/provision"
)

// DBDeps holds the process-wide backends. Everything here is built once in
// ConnectDB and shared by every request.
type DBDeps struct {
	Conn *dbconn.Conn

	ReferenceCache  *cache.Cache
	SuggestionCache *cache.Cache

	Categories  *categorystore.Store
	Statuses    *statusstore.Store
	Suggestions *suggestionstore.Store
	Users       *userstore.Store
	Provisioner *provision.Provisioner
}
