package infra

import (
	_ "embed"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	dbm "songdrop/internal/models/db_models"
)

//go:embed sql/verify_download_token.sql
var verifyDownloadTokenSQL string

// Migrate creates the tables and (re)installs the token redemption procedure.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	if err := db.AutoMigrate(&dbm.Song{}, &dbm.DownloadToken{}, &dbm.Payment{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := db.Exec(verifyDownloadTokenSQL).Error; err != nil {
		return fmt.Errorf("install verify_download_token: %w", err)
	}

	log.Info("schema migrated")
	return nil
}
