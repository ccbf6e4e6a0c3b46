package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v72/webhook"
	"go.uber.org/zap"
	"songdrop/pkg/utils"
)

// SignatureVerifier checks a webhook body against its stripe-signature header.
type SignatureVerifier interface {
	Verify(payload []byte, signatureHeader string) error
}

// NewSignatureVerifier verifies with the shared secret when one is configured.
// Without a secret only the presence of the header is enforced.
func NewSignatureVerifier(secret string, tolerance time.Duration, log *zap.Logger) SignatureVerifier {
	if strings.TrimSpace(secret) == "" {
		log.Warn("STRIPE_WEBHOOK_SECRET not set: webhook signatures are checked for presence only")
		return presenceOnlyVerifier{}
	}
	return &stripeSignatureVerifier{secret: secret, tolerance: tolerance}
}

type stripeSignatureVerifier struct {
	secret    string
	tolerance time.Duration
}

func (v *stripeSignatureVerifier) Verify(payload []byte, signatureHeader string) error {
	if strings.TrimSpace(signatureHeader) == "" {
		return utils.ErrMissingSignature
	}
	if err := webhook.ValidatePayloadWithTolerance(payload, signatureHeader, v.secret, v.tolerance); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrInvalidSignature, err)
	}
	return nil
}

type presenceOnlyVerifier struct{}

func (presenceOnlyVerifier) Verify(_ []byte, signatureHeader string) error {
	if strings.TrimSpace(signatureHeader) == "" {
		return utils.ErrMissingSignature
	}
	return nil
}
