package controllers_fx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"songdrop/internal/api/controllers"
	"songdrop/internal/infra"
)

var Module = fx.Options(
	fx.Provide(controllers.NewDownloadController),
	fx.Provide(provideHealthController))

func provideHealthController(db *gorm.DB, log *zap.Logger) *controllers.HealthController {
	checks := map[string]controllers.ReadinessCheck{}
	if db != nil {
		checks["postgres"] = func(ctx context.Context) error {
			return infra.PingPostgresql(ctx, db, time.Second)
		}
	}
	return controllers.NewHealthController(checks, log)
}
