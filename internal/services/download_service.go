package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"songdrop/internal/models/response_models"
	"songdrop/internal/repositories"
	"songdrop/pkg/metrics"
	"songdrop/pkg/utils"
)

// URLSigner mints a time-scoped read URL for one stored object.
type URLSigner interface {
	SignURL(ctx context.Context, bucket, objectPath string, ttl time.Duration) (string, error)
}

type DownloadConfig struct {
	Bucket       string
	SignedURLTTL time.Duration
}

type DownloadService interface {
	IssueDownloadLink(ctx context.Context, token string) (*response_models.DownloadLinkResponse, error)
}

type downloadService struct {
	tokens repositories.DownloadTokenRepository
	signer URLSigner
	cfg    DownloadConfig
	log    *zap.Logger
}

func NewDownloadService(tokens repositories.DownloadTokenRepository, signer URLSigner, cfg DownloadConfig, log *zap.Logger) DownloadService {
	return &downloadService{
		tokens: tokens,
		signer: signer,
		cfg:    cfg,
		log:    log,
	}
}

// IssueDownloadLink redeems one use of token and returns a fresh signed URL.
// The redemption is not given back if signing fails afterwards.
func (d *downloadService) IssueDownloadLink(ctx context.Context, token string) (*response_models.DownloadLinkResponse, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		metrics.DownloadLinks.WithLabelValues("missing_token").Inc()
		return nil, utils.ErrMissingParameter
	}

	verification, err := d.tokens.VerifyDownloadToken(ctx, token)
	if err != nil {
		metrics.DownloadLinks.WithLabelValues("store_error").Inc()
		return nil, fmt.Errorf("%w: verify download token: %v", utils.ErrStoreUnavailable, err)
	}
	if verification == nil || !verification.Valid {
		metrics.DownloadLinks.WithLabelValues("denied").Inc()
		d.log.Info("download token rejected", zap.String("token", MaskToken(token)))
		return nil, utils.ErrInvalidOrExpiredToken
	}

	signedURL, err := d.signer.SignURL(ctx, d.cfg.Bucket, verification.FilePath, d.cfg.SignedURLTTL)
	if err != nil {
		metrics.DownloadLinks.WithLabelValues("storage_error").Inc()
		d.log.Error("error creating signed url",
			zap.String("token", MaskToken(token)),
			zap.String("file_path", verification.FilePath),
			zap.Int("downloads_remaining", verification.DownloadsRemaining),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", utils.ErrStorageUnavailable, err)
	}

	metrics.DownloadLinks.WithLabelValues("issued").Inc()
	d.log.Info("download link issued",
		zap.String("token", MaskToken(token)),
		zap.Int("downloads_remaining", verification.DownloadsRemaining))

	return &response_models.DownloadLinkResponse{
		Success:            true,
		DownloadURL:        signedURL,
		SongTitle:          verification.SongTitle,
		SongArtist:         verification.SongArtist,
		DownloadsRemaining: verification.DownloadsRemaining,
	}, nil
}

// MaskToken keeps enough of a token to correlate log lines without making it redeemable.
func MaskToken(token string) string {
	const keep = 6
	if len(token) <= keep {
		return strings.Repeat("*", len(token))
	}
	return token[:keep] + "..."
}
