package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	dbm "songdrop/internal/models/db_models"
	mem "songdrop/pkg/memcache"
	"songdrop/pkg/utils"
)

type signCall struct {
	bucket string
	path   string
	ttl    time.Duration
}

type fakeSigner struct {
	mu    sync.Mutex
	calls []signCall
	err   error
}

func (f *fakeSigner) SignURL(_ context.Context, bucket, objectPath string, ttl time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, signCall{bucket: bucket, path: objectPath, ttl: ttl})
	if f.err != nil {
		return "", f.err
	}
	return "https://storage.example/signed/" + objectPath + "?token=sig", nil
}

func (f *fakeSigner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type failingTokenRepo struct{}

func (failingTokenRepo) VerifyDownloadToken(context.Context, string) (*dbm.TokenVerification, error) {
	return nil, errors.New("connection refused")
}

var testDownloadCfg = DownloadConfig{Bucket: "songs", SignedURLTTL: 300 * time.Second}

func seedLedgerToken(l *mem.Ledger, token string, uses int, expiresAt time.Time) {
	song := l.PutSong(dbm.Song{Title: "Song A", Artist: "Artist B", FilePath: "songs/xyz.mp3"})
	l.PutToken(dbm.DownloadToken{
		Token:              token,
		SongID:             song.ID,
		ExpiresAt:          expiresAt,
		DownloadsRemaining: uses,
		IsValid:            true,
	})
}

func TestIssueDownloadLink_SingleUseToken(t *testing.T) {
	ledger := mem.NewLedger()
	seedLedgerToken(ledger, "tok_abc", 1, time.Now().Add(time.Hour))
	signer := &fakeSigner{}
	svc := NewDownloadService(ledger, signer, testDownloadCfg, zap.NewNop())

	link, err := svc.IssueDownloadLink(context.Background(), "tok_abc")
	require.NoError(t, err)
	assert.True(t, link.Success)
	assert.Equal(t, "Song A", link.SongTitle)
	assert.Equal(t, "Artist B", link.SongArtist)
	assert.Equal(t, 0, link.DownloadsRemaining)
	assert.Contains(t, link.DownloadURL, "songs/xyz.mp3")

	require.Len(t, signer.calls, 1)
	assert.Equal(t, signCall{bucket: "songs", path: "songs/xyz.mp3", ttl: 300 * time.Second}, signer.calls[0])

	stored, ok := ledger.Token("tok_abc")
	require.True(t, ok)
	assert.False(t, stored.IsValid)
	assert.NotNil(t, stored.LastUsedAt)

	_, err = svc.IssueDownloadLink(context.Background(), "tok_abc")
	assert.ErrorIs(t, err, utils.ErrInvalidOrExpiredToken)
	assert.Equal(t, 1, signer.callCount())
}

func TestIssueDownloadLink_MissingToken(t *testing.T) {
	signer := &fakeSigner{}
	svc := NewDownloadService(mem.NewLedger(), signer, testDownloadCfg, zap.NewNop())

	for _, token := range []string{"", "   "} {
		_, err := svc.IssueDownloadLink(context.Background(), token)
		assert.ErrorIs(t, err, utils.ErrMissingParameter)
	}
	assert.Zero(t, signer.callCount())
}

func TestIssueDownloadLink_ExpiredAndUnknown(t *testing.T) {
	ledger := mem.NewLedger()
	seedLedgerToken(ledger, "tok_old", 3, time.Now().Add(-time.Second))
	signer := &fakeSigner{}
	svc := NewDownloadService(ledger, signer, testDownloadCfg, zap.NewNop())

	_, err := svc.IssueDownloadLink(context.Background(), "tok_old")
	assert.ErrorIs(t, err, utils.ErrInvalidOrExpiredToken)

	_, err = svc.IssueDownloadLink(context.Background(), "tok_missing")
	assert.ErrorIs(t, err, utils.ErrInvalidOrExpiredToken)

	stored, _ := ledger.Token("tok_old")
	assert.Equal(t, 3, stored.DownloadsRemaining)
	assert.Zero(t, signer.callCount())
}

func TestIssueDownloadLink_SigningFailureKeepsRedemption(t *testing.T) {
	ledger := mem.NewLedger()
	seedLedgerToken(ledger, "tok_sign", 2, time.Now().Add(time.Hour))
	signer := &fakeSigner{err: errors.New("bucket not found")}
	svc := NewDownloadService(ledger, signer, testDownloadCfg, zap.NewNop())

	_, err := svc.IssueDownloadLink(context.Background(), "tok_sign")
	require.ErrorIs(t, err, utils.ErrStorageUnavailable)
	assert.Equal(t, utils.KindDependency, utils.KindOf(err))

	stored, _ := ledger.Token("tok_sign")
	assert.Equal(t, 1, stored.DownloadsRemaining)
}

func TestIssueDownloadLink_StoreFailure(t *testing.T) {
	signer := &fakeSigner{}
	svc := NewDownloadService(failingTokenRepo{}, signer, testDownloadCfg, zap.NewNop())

	_, err := svc.IssueDownloadLink(context.Background(), "tok_any")
	assert.ErrorIs(t, err, utils.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, utils.ErrInvalidOrExpiredToken)
	assert.Zero(t, signer.callCount())
}

func TestIssueDownloadLink_ConcurrentRequestsNeverOverRedeem(t *testing.T) {
	ledger := mem.NewLedger()
	seedLedgerToken(ledger, "tok_busy", 3, time.Now().Add(time.Hour))
	signer := &fakeSigner{}
	svc := NewDownloadService(ledger, signer, testDownloadCfg, zap.NewNop())

	const workers = 32
	var issued, denied atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.IssueDownloadLink(context.Background(), "tok_busy")
			switch {
			case err == nil:
				issued.Add(1)
			case errors.Is(err, utils.ErrInvalidOrExpiredToken):
				denied.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(3), issued.Load())
	assert.Equal(t, int32(workers-3), denied.Load())
	assert.Equal(t, 3, signer.callCount())
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "tok_ab...", MaskToken("tok_abcdef123"))
	assert.Equal(t, "***", MaskToken("abc"))
	assert.Equal(t, "", MaskToken(""))
}
