package repositories

import (
	"context"

	"gorm.io/gorm"
	"songdrop/internal/models/db_models"
)

type DownloadTokenRepository interface {
	// VerifyDownloadToken checks and consumes one redemption in a single round trip.
	// An unknown, exhausted or expired token yields Valid == false, not an error.
	VerifyDownloadToken(ctx context.Context, token string) (*db_models.TokenVerification, error)
}

type downloadTokenRepository struct {
	db *gorm.DB
}

func NewDownloadTokenRepository(db *gorm.DB) DownloadTokenRepository {
	return &downloadTokenRepository{
		db: db,
	}
}

func (r *downloadTokenRepository) VerifyDownloadToken(ctx context.Context, token string) (*db_models.TokenVerification, error) {
	var result db_models.TokenVerification
	err := r.db.WithContext(ctx).
		Raw("SELECT valid, file_path, song_title, song_artist, downloads_remaining FROM verify_download_token(?)", token).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}
