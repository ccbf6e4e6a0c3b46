package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	dbm "songdrop/internal/models/db_models"
	"songdrop/internal/models/request_models"
	"songdrop/internal/repositories"
	"songdrop/pkg/metrics"
	"songdrop/pkg/utils"
)

type WebhookOutcome string

const (
	// OutcomeCompleted: a pending payment moved to completed and the customer was notified.
	OutcomeCompleted WebhookOutcome = "completed"
	// OutcomeDuplicate: the payment was already completed by an earlier delivery.
	OutcomeDuplicate WebhookOutcome = "duplicate"
	// OutcomeIgnored: the event type is not one this service acts on.
	OutcomeIgnored WebhookOutcome = "ignored"
)

type PaymentService interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) (request_models.StripeEvent, WebhookOutcome, error)
}

type paymentService struct {
	payments repositories.PaymentRepository
	verifier SignatureVerifier
	notifier DownloadNotifier
	log      *zap.Logger
	now      func() time.Time
}

func NewPaymentService(payments repositories.PaymentRepository, verifier SignatureVerifier, notifier DownloadNotifier, log *zap.Logger) PaymentService {
	return &paymentService{
		payments: payments,
		verifier: verifier,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// HandleWebhook validates, decodes and applies one provider event.
// Every validation step runs before the store is touched.
func (p *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) (request_models.StripeEvent, WebhookOutcome, error) {
	if err := p.verifier.Verify(payload, signature); err != nil {
		metrics.WebhookEvents.WithLabelValues("unverified", "rejected").Inc()
		return nil, "", err
	}

	event, err := request_models.DecodeStripeEvent(payload)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("undecodable", "rejected").Inc()
		return nil, "", fmt.Errorf("%w: %v", utils.ErrMalformedPayload, err)
	}

	p.log.Info("received webhook event", zap.String("event_id", event.EventID()), zap.String("type", event.EventType()))

	var outcome WebhookOutcome
	switch e := event.(type) {
	case *request_models.PaymentIntentSucceeded:
		outcome, err = p.handlePaymentIntentSucceeded(ctx, e)
	case *request_models.UnknownEvent:
		outcome = OutcomeIgnored
	default:
		err = fmt.Errorf("unhandled event variant %T", e)
	}

	label := metricsEventType(event)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues(label, string(utils.KindOf(err))).Inc()
		return event, "", err
	}
	metrics.WebhookEvents.WithLabelValues(label, string(outcome)).Inc()
	return event, outcome, nil
}

func (p *paymentService) handlePaymentIntentSucceeded(ctx context.Context, e *request_models.PaymentIntentSucceeded) (WebhookOutcome, error) {
	intent := e.PaymentIntent

	rawSongID := intent.SongID()
	if rawSongID == "" {
		p.log.Warn("no song_id in payment metadata", zap.String("payment_intent_id", intent.ID))
		return "", utils.ErrMissingCorrelationID
	}
	songID, err := uuid.Parse(rawSongID)
	if err != nil {
		p.log.Warn("song_id in payment metadata is not a uuid",
			zap.String("payment_intent_id", intent.ID), zap.String("song_id", rawSongID))
		return "", fmt.Errorf("%w: %q", utils.ErrMissingCorrelationID, rawSongID)
	}
	if intent.ID == "" {
		return "", fmt.Errorf("%w: payment intent without id", utils.ErrMalformedPayload)
	}

	completion := dbm.PaymentCompletion{
		SongID:          songID,
		PaymentIntentID: intent.ID,
		CustomerEmail:   intent.CustomerEmail(),
		Receipt:         datatypes.JSON(e.Raw),
		CompletedAt:     p.now().UTC(),
	}

	// The completion only commits together with a successful re-fetch, so a
	// failed fetch leaves the payment pending for the provider's retry.
	var rows int64
	var payment *dbm.CompletedPayment
	err = p.payments.WithinTransaction(ctx, func(tx repositories.PaymentRepository) error {
		var txErr error
		rows, txErr = tx.CompletePendingPayment(ctx, completion)
		if txErr != nil {
			return fmt.Errorf("%w: %v", utils.ErrUpdateFailed, txErr)
		}

		payment, txErr = tx.FindCompletedPayment(ctx, songID, intent.ID)
		if txErr != nil {
			return fmt.Errorf("%w: fetch payment: %v", utils.ErrStoreUnavailable, txErr)
		}
		if payment == nil {
			p.log.Error("payment record not found after update",
				zap.String("song_id", songID.String()),
				zap.String("payment_intent_id", intent.ID),
				zap.Int64("rows_updated", rows))
			return utils.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if utils.KindOf(err) == utils.KindUnexpected {
			return "", fmt.Errorf("%w: payment transaction: %v", utils.ErrStoreUnavailable, err)
		}
		return "", err
	}

	if rows == 0 {
		p.log.Info("payment already completed, event replay ignored",
			zap.String("payment_id", payment.PaymentID.String()),
			zap.String("payment_intent_id", intent.ID))
		return OutcomeDuplicate, nil
	}

	err = p.notifier.NotifyDownloadReady(ctx, DownloadReady{
		PaymentID:       payment.PaymentID,
		PaymentIntentID: intent.ID,
		DownloadToken:   payment.DownloadToken,
		CustomerEmail:   payment.CustomerEmail,
		SongTitle:       payment.SongTitle,
		SongArtist:      payment.SongArtist,
	})
	if err != nil {
		// The payment is already completed; a failed notification must not make the provider retry.
		p.log.Error("notify customer failed", zap.String("payment_id", payment.PaymentID.String()), zap.Error(err))
	}

	return OutcomeCompleted, nil
}

// metricsEventType keeps label cardinality bounded for provider event types we do not handle.
func metricsEventType(event request_models.StripeEvent) string {
	if _, ok := event.(*request_models.UnknownEvent); ok {
		return "other"
	}
	return event.EventType()
}
