package bootstrap

import (
	"fmt"

	"github.com/go-authgate/oauth1gate/internal/config"
	"github.com/go-authgate/oauth1gate/internal/store"

	"go.uber.org/zap"
)

// initializeDatabase opens the store, migrating the schema and seeding the
// admin account (and demo consumers when enabled).
func initializeDatabase(cfg *config.Config, logger *zap.Logger) (*store.Store, error) {
	db, err := store.New(cfg.DatabaseDriver, cfg.DatabaseDSN, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.DatabaseDriver, err)
	}
	logger.Info("database ready",
		zap.String("driver", cfg.DatabaseDriver),
		zap.Bool("demo_clients", cfg.SeedDemoClients),
	)
	return db, nil
}
