// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	healthfeature "github.com/lucasmenke/suggestion-app/internal/app/features/health"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// The repositories are consumed in-process by the UI layer, so the only
// HTTP surface here is the health check used by load balancers and
// orchestrators.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	r := chi.NewRouter()

	healthHandler := healthfeature.NewHandler(deps.Conn.Client, deps.SuggestionCache, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	return r, nil
}
