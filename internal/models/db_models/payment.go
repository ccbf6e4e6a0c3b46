package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

// Payment moves pending -> completed exactly once; the transition is guarded by the update predicate.
type Payment struct {
	BaseModel
	SongID        uuid.UUID     `gorm:"type:uuid;index;not null"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);index;not null;default:'pending'"`
	AmountMinor   int64
	Currency      string `gorm:"size:3"`

	StripePaymentIntentID *string `gorm:"index"`
	CustomerEmail         *string
	DownloadToken         string `gorm:"index;not null"`

	// Raw payment intent object from the completing event.
	Receipt datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	Song Song `gorm:"foreignKey:SongID"`
}

// PaymentCompletion carries the fields written by the pending -> completed update.
type PaymentCompletion struct {
	SongID          uuid.UUID
	PaymentIntentID string
	CustomerEmail   *string
	Receipt         datatypes.JSON
	CompletedAt     time.Time
}

// CompletedPayment is the payment row joined with its song.
type CompletedPayment struct {
	PaymentID     uuid.UUID `gorm:"column:payment_id"`
	DownloadToken string    `gorm:"column:download_token"`
	CustomerEmail *string   `gorm:"column:customer_email"`
	SongTitle     string    `gorm:"column:song_title"`
	SongArtist    string    `gorm:"column:song_artist"`
}
