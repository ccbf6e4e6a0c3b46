// pkg/memcache/ledger.go
package mem

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	dbm "songdrop/internal/models/db_models"
	"songdrop/internal/repositories"
)

// Ledger is an in-process Payment/Token Store. Every read-modify-write happens
// under one mutex, which gives the same atomicity as verify_download_token and
// the status-guarded payment update.
type Ledger struct {
	txMu     sync.Mutex
	mu       sync.Mutex
	songs    map[uuid.UUID]dbm.Song
	tokens   map[string]*dbm.DownloadToken
	payments map[uuid.UUID]*dbm.Payment
	now      func() time.Time
}

func NewLedger() *Ledger {
	return &Ledger{
		songs:    make(map[uuid.UUID]dbm.Song),
		tokens:   make(map[string]*dbm.DownloadToken),
		payments: make(map[uuid.UUID]*dbm.Payment),
		now:      time.Now,
	}
}

// WithClock replaces the time source; used by tests to move past expiry.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
	return l
}

func (l *Ledger) PutSong(song dbm.Song) dbm.Song {
	l.mu.Lock()
	defer l.mu.Unlock()
	if song.ID == uuid.Nil {
		song.ID = uuid.New()
	}
	l.songs[song.ID] = song
	return song
}

func (l *Ledger) PutToken(token dbm.DownloadToken) {
	l.mu.Lock()
	defer l.mu.Unlock()
	t := token
	l.tokens[token.Token] = &t
}

func (l *Ledger) PutPayment(payment dbm.Payment) dbm.Payment {
	l.mu.Lock()
	defer l.mu.Unlock()
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	if payment.PaymentStatus == "" {
		payment.PaymentStatus = dbm.PaymentStatusPending
	}
	p := payment
	l.payments[payment.ID] = &p
	return payment
}

// Token returns a copy of the stored token.
func (l *Ledger) Token(token string) (dbm.DownloadToken, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, ok := l.tokens[token]
	if !ok {
		return dbm.DownloadToken{}, false
	}
	return *t, true
}

// Payment returns a copy of the stored payment.
func (l *Ledger) Payment(id uuid.UUID) (dbm.Payment, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.payments[id]
	if !ok {
		return dbm.Payment{}, false
	}
	return *p, true
}

func (l *Ledger) VerifyDownloadToken(ctx context.Context, token string) (*dbm.TokenVerification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	t, ok := l.tokens[token]
	if !ok || !t.Usable(now) {
		return &dbm.TokenVerification{Valid: false}, nil
	}
	song, ok := l.songs[t.SongID]
	if !ok || song.DeletedAt.Valid {
		return &dbm.TokenVerification{Valid: false}, nil
	}

	t.DownloadsRemaining--
	t.IsValid = t.DownloadsRemaining > 0
	t.LastUsedAt = &now
	t.UpdatedAt = now

	return &dbm.TokenVerification{
		Valid:              true,
		FilePath:           song.FilePath,
		SongTitle:          song.Title,
		SongArtist:         song.Artist,
		DownloadsRemaining: t.DownloadsRemaining,
	}, nil
}

func (l *Ledger) CompletePendingPayment(ctx context.Context, completion dbm.PaymentCompletion) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, p := range l.payments {
		if p.StripePaymentIntentID != nil && *p.StripePaymentIntentID == completion.PaymentIntentID {
			return 0, nil
		}
	}

	var rows int64
	for _, p := range l.payments {
		if p.SongID != completion.SongID || p.PaymentStatus != dbm.PaymentStatusPending {
			continue
		}
		intentID := completion.PaymentIntentID
		p.PaymentStatus = dbm.PaymentStatusCompleted
		p.StripePaymentIntentID = &intentID
		if completion.CustomerEmail != nil {
			email := *completion.CustomerEmail
			p.CustomerEmail = &email
		}
		if len(completion.Receipt) > 0 {
			p.Receipt = completion.Receipt
		}
		p.UpdatedAt = completion.CompletedAt
		rows++
	}
	return rows, nil
}

// WithinTransaction serializes fn against other transactions and restores the
// payments as they were before fn when it fails.
func (l *Ledger) WithinTransaction(ctx context.Context, fn func(tx repositories.PaymentRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.txMu.Lock()
	defer l.txMu.Unlock()

	snapshot := l.copyPayments()
	if err := fn(l); err != nil {
		l.mu.Lock()
		l.payments = snapshot
		l.mu.Unlock()
		return err
	}
	return nil
}

func (l *Ledger) copyPayments() map[uuid.UUID]*dbm.Payment {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[uuid.UUID]*dbm.Payment, len(l.payments))
	for id, p := range l.payments {
		c := *p
		out[id] = &c
	}
	return out
}

func (l *Ledger) FindCompletedPayment(ctx context.Context, songID uuid.UUID, paymentIntentID string) (*dbm.CompletedPayment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, p := range l.payments {
		if p.SongID != songID || p.StripePaymentIntentID == nil || *p.StripePaymentIntentID != paymentIntentID {
			continue
		}
		song := l.songs[p.SongID]
		return &dbm.CompletedPayment{
			PaymentID:     p.ID,
			DownloadToken: p.DownloadToken,
			CustomerEmail: p.CustomerEmail,
			SongTitle:     song.Title,
			SongArtist:    song.Artist,
		}, nil
	}
	return nil, nil
}
