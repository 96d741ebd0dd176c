// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/lucasmenke/suggestion-app/internal/app/system/errreport"
	"go.uber.org/zap"
)

// Startup runs one-time initialization after DB connections and schema
// setup are complete, but before the HTTP handler is built: error
// reporting is configured and the reference caches are warmed.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := errreport.Init(appCfg.SentryDSN, coreCfg.Env, "", logger); err != nil {
		// Reporting is optional; a bad DSN must not keep the app down.
		logger.Warn("sentry init failed", zap.Error(err))
	}

	cats, err := deps.Categories.GetAll(ctx)
	if err != nil {
		return err
	}
	sts, err := deps.Statuses.GetAll(ctx)
	if err != nil {
		return err
	}
	logger.Info("reference data cached",
		zap.Int("categories", len(cats)),
		zap.Int("statuses", len(sts)))
	return nil
}
