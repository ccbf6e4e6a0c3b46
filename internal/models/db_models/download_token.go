package db_models

import (
	"time"

	"github.com/google/uuid"
)

// DownloadToken is usable only while IsValid && DownloadsRemaining > 0 && now < ExpiresAt.
// It is only ever consumed through verify_download_token.
type DownloadToken struct {
	Token              string    `gorm:"primaryKey"`
	SongID             uuid.UUID `gorm:"type:uuid;index;not null"`
	ExpiresAt          time.Time `gorm:"not null"`
	DownloadsRemaining int       `gorm:"not null;default:3"`
	IsValid            bool      `gorm:"not null;default:true"`
	LastUsedAt         *time.Time
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`

	Song Song `gorm:"foreignKey:SongID"`
}

func (t DownloadToken) Usable(now time.Time) bool {
	return t.IsValid && t.DownloadsRemaining > 0 && now.Before(t.ExpiresAt)
}

// TokenVerification is the single row returned by verify_download_token.
type TokenVerification struct {
	Valid              bool   `gorm:"column:valid"`
	FilePath           string `gorm:"column:file_path"`
	SongTitle          string `gorm:"column:song_title"`
	SongArtist         string `gorm:"column:song_artist"`
	DownloadsRemaining int    `gorm:"column:downloads_remaining"`
}
