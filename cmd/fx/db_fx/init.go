package db_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"songdrop/internal/config"
	"songdrop/internal/infra"
)

var Module = fx.Provide(
	provideDB)

// provideDB returns a nil *gorm.DB in memory mode; store providers fall back to the ledger.
func provideDB(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	if cfg.StoreMode() == config.StoreModeMemory {
		log.Warn("STORE_MODE=memory: data lives in process and is lost on restart")
		return nil, nil
	}

	db, err := infra.InitPostgresql(cfg, log)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := infra.Migrate(db, log); err != nil {
			infra.ClosePostgresql(db, log)
			return nil, err
		}
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			infra.ClosePostgresql(db, log)
			return nil
		},
	})
	return db, nil
}
