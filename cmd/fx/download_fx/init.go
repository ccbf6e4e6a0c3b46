package download_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"songdrop/internal/config"
	"songdrop/internal/repositories"
	"songdrop/internal/services"
	mem "songdrop/pkg/memcache"
)

var Module = fx.Provide(
	provideDownloadTokenRepo, provideDownloadService)

func provideDownloadTokenRepo(db *gorm.DB, ledger *mem.Ledger) repositories.DownloadTokenRepository {
	if db == nil {
		return ledger
	}
	return repositories.NewDownloadTokenRepository(db)
}

func provideDownloadService(tokens repositories.DownloadTokenRepository, signer services.URLSigner, cfg config.Config, log *zap.Logger) services.DownloadService {
	return services.NewDownloadService(tokens, signer, services.DownloadConfig{
		Bucket:       cfg.StorageBucket,
		SignedURLTTL: cfg.SignedURLTTL,
	}, log.Named("download"))
}
