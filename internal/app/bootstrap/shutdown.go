// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/lucasmenke/suggestion-app/internal/app/system/errreport"
	"go.uber.org/zap"
)

// Shutdown flushes pending error reports and disconnects from MongoDB.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.SentryDSN != "" && !errreport.Flush(2*time.Second) {
		logger.Warn("sentry flush timed out")
	}
	if deps.Conn != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.Conn.Close(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
