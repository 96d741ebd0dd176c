// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"github.com/lucasmenke/suggestion-app/internal/app/system/indexes"
	"github.com/lucasmenke/suggestion-app/internal/app/system/triage"
	"github.com/lucasmenke/suggestion-app/internal/app/system/validators"
	"go.uber.org/zap"
)

// EnsureSchema creates collections, validators and indexes, then seeds the
// reference data when enabled. Collections must exist before the first
// transaction runs.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := validators.EnsureAll(ctx, deps.Conn.DB); err != nil {
		return fmt.Errorf("validators: %w", err)
	}
	if err := indexes.EnsureAll(ctx, deps.Conn.DB); err != nil {
		return fmt.Errorf("indexes: %w", err)
	}
	if appCfg.SeedReferenceData {
		if err := seedReferenceData(ctx, deps, logger); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	return nil
}

// seedReferenceData inserts the default categories and statuses into
// whichever of the two collections is empty. Non-empty collections are
// left alone, so admin edits survive restarts.
func seedReferenceData(ctx context.Context, deps DBDeps, logger *zap.Logger) error {
	n, err := deps.Categories.Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		for _, c := range triage.DefaultCategories {
			if _, err := deps.Categories.Create(ctx, c); err != nil {
				return fmt.Errorf("category %q: %w", c.Name, err)
			}
		}
		logger.Info("seeded categories", zap.Int("count", len(triage.DefaultCategories)))
	}

	n, err = deps.Statuses.Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		for _, st := range triage.DefaultStatuses {
			if _, err := deps.Statuses.Create(ctx, st); err != nil {
				return fmt.Errorf("status %q: %w", st.Name, err)
			}
		}
		logger.Info("seeded statuses", zap.Int("count", len(triage.DefaultStatuses)))
	}
	return nil
}
