package storage_fx

import (
	"go.uber.org/fx"
	"songdrop/internal/config"
	"songdrop/internal/services"
	"songdrop/pkg/objectstore"
)

var Module = fx.Provide(provideURLSigner)

func provideURLSigner(cfg config.Config) services.URLSigner {
	return objectstore.NewSupabaseStorage(objectstore.SupabaseConfig{
		BaseURL:        cfg.SupabaseURL,
		ServiceRoleKey: cfg.SupabaseServiceRoleKey,
		Timeout:        cfg.StorageTimeout,
	})
}
