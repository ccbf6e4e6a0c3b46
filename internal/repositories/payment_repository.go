package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"songdrop/internal/models/db_models"
)

type PaymentRepository interface {
	// CompletePendingPayment flips pending payments for the song to completed and
	// returns the number of rows changed. Zero rows is not an error. Nothing changes
	// when some payment already carries the same payment intent id.
	CompletePendingPayment(ctx context.Context, completion db_models.PaymentCompletion) (int64, error)
	// FindCompletedPayment returns nil, nil when no row matches.
	FindCompletedPayment(ctx context.Context, songID uuid.UUID, paymentIntentID string) (*db_models.CompletedPayment, error)
	// WithinTransaction runs fn against a repository bound to one transaction.
	// A non-nil error from fn rolls back every write made through tx.
	WithinTransaction(ctx context.Context, fn func(tx PaymentRepository) error) error
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{
		db: db,
	}
}

func (p *paymentRepository) WithinTransaction(ctx context.Context, fn func(tx PaymentRepository) error) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&paymentRepository{db: tx})
	})
}

func (p *paymentRepository) CompletePendingPayment(ctx context.Context, completion db_models.PaymentCompletion) (int64, error) {
	updates := map[string]interface{}{
		"payment_status":           db_models.PaymentStatusCompleted,
		"stripe_payment_intent_id": completion.PaymentIntentID,
		"updated_at":               completion.CompletedAt,
	}
	// An event without an email keeps the one captured at checkout.
	if completion.CustomerEmail != nil {
		updates["customer_email"] = *completion.CustomerEmail
	}
	if len(completion.Receipt) > 0 {
		updates["receipt"] = completion.Receipt
	}

	res := p.db.WithContext(ctx).
		Model(&db_models.Payment{}).
		Where("song_id = ? AND payment_status = ?", completion.SongID, db_models.PaymentStatusPending).
		Where("NOT EXISTS (SELECT 1 FROM payments AS done WHERE done.stripe_payment_intent_id = ?)", completion.PaymentIntentID).
		Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}

	return res.RowsAffected, nil
}

func (p *paymentRepository) FindCompletedPayment(ctx context.Context, songID uuid.UUID, paymentIntentID string) (*db_models.CompletedPayment, error) {
	var payment db_models.CompletedPayment
	res := p.db.WithContext(ctx).
		Table("payments AS p").
		Select("p.id AS payment_id, p.download_token, p.customer_email, s.title AS song_title, s.artist AS song_artist").
		Joins("LEFT JOIN songs AS s ON s.id = p.song_id").
		Where("p.song_id = ? AND p.stripe_payment_intent_id = ? AND p.deleted_at IS NULL", songID, paymentIntentID).
		Limit(1).
		Scan(&payment)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	return &payment, nil
}
