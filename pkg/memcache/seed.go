package mem

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	dbm "songdrop/internal/models/db_models"
)

// Seed is the JSON document accepted by LoadSeed.
type Seed struct {
	Songs []struct {
		ID       uuid.UUID `json:"id"`
		Title    string    `json:"title"`
		Artist   string    `json:"artist"`
		FilePath string    `json:"file_path"`
	} `json:"songs"`
	Tokens []struct {
		Token              string    `json:"token"`
		SongID             uuid.UUID `json:"song_id"`
		ExpiresAt          time.Time `json:"expires_at"`
		DownloadsRemaining int       `json:"downloads_remaining"`
	} `json:"tokens"`
	Payments []struct {
		ID            uuid.UUID `json:"id"`
		SongID        uuid.UUID `json:"song_id"`
		DownloadToken string    `json:"download_token"`
		CustomerEmail *string   `json:"customer_email"`
		AmountMinor   int64     `json:"amount_minor"`
		Currency      string    `json:"currency"`
	} `json:"payments"`
}

type SeedCounts struct {
	Songs    int
	Tokens   int
	Payments int
}

// LoadSeed reads a Seed document into the ledger. Tokens and payments must
// reference a song from the same document or one already in the ledger.
func (l *Ledger) LoadSeed(r io.Reader) (SeedCounts, error) {
	var seed Seed
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&seed); err != nil {
		return SeedCounts{}, fmt.Errorf("decode seed: %w", err)
	}

	for _, s := range seed.Songs {
		l.PutSong(dbm.Song{
			BaseModel: dbm.BaseModel{ID: s.ID},
			Title:     s.Title,
			Artist:    s.Artist,
			FilePath:  s.FilePath,
		})
	}

	for _, t := range seed.Tokens {
		if t.Token == "" {
			return SeedCounts{}, fmt.Errorf("seed token without value")
		}
		if !l.hasSong(t.SongID) {
			return SeedCounts{}, fmt.Errorf("seed token %s: unknown song %s", maskToken(t.Token), t.SongID)
		}
		l.PutToken(dbm.DownloadToken{
			Token:              t.Token,
			SongID:             t.SongID,
			ExpiresAt:          t.ExpiresAt,
			DownloadsRemaining: t.DownloadsRemaining,
			IsValid:            t.DownloadsRemaining > 0,
		})
	}

	for _, p := range seed.Payments {
		if !l.hasSong(p.SongID) {
			return SeedCounts{}, fmt.Errorf("seed payment %s: unknown song %s", p.ID, p.SongID)
		}
		l.PutPayment(dbm.Payment{
			BaseModel:     dbm.BaseModel{ID: p.ID},
			SongID:        p.SongID,
			DownloadToken: p.DownloadToken,
			CustomerEmail: p.CustomerEmail,
			AmountMinor:   p.AmountMinor,
			Currency:      p.Currency,
		})
	}

	return SeedCounts{Songs: len(seed.Songs), Tokens: len(seed.Tokens), Payments: len(seed.Payments)}, nil
}

func (l *Ledger) hasSong(id uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.songs[id]
	return ok
}

func maskToken(token string) string {
	if len(token) <= 6 {
		return "***"
	}
	return token[:6] + "..."
}
