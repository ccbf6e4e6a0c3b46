package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DownloadReady struct {
	PaymentID       uuid.UUID
	PaymentIntentID string
	DownloadToken   string
	CustomerEmail   *string
	SongTitle       string
	SongArtist      string
}

// DownloadNotifier delivers a freshly unlocked download token to the customer.
type DownloadNotifier interface {
	NotifyDownloadReady(ctx context.Context, ready DownloadReady) error
}

type logNotifier struct {
	log *zap.Logger
}

// NewLogNotifier records the hand-off in the service log; no message leaves the process.
func NewLogNotifier(log *zap.Logger) DownloadNotifier {
	return &logNotifier{log: log}
}

func (n *logNotifier) NotifyDownloadReady(_ context.Context, ready DownloadReady) error {
	fields := []zap.Field{
		zap.String("payment_id", ready.PaymentID.String()),
		zap.String("payment_intent_id", ready.PaymentIntentID),
		zap.String("download_token", MaskToken(ready.DownloadToken)),
		zap.String("song_title", ready.SongTitle),
		zap.String("song_artist", ready.SongArtist),
	}
	if ready.CustomerEmail != nil {
		fields = append(fields, zap.String("customer_email", *ready.CustomerEmail))
	}

	n.log.Info("payment completed, download ready", fields...)
	return nil
}
