package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"songdrop/pkg/utils"
)

func signedHeader(secret string, payload []byte, at time.Time) string {
	ts := at.Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d.%s", ts, payload)))
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestSignatureVerifier_PresenceOnlyWithoutSecret(t *testing.T) {
	v := NewSignatureVerifier("", time.Minute, zap.NewNop())

	assert.NoError(t, v.Verify([]byte(`{}`), "anything"))
	assert.ErrorIs(t, v.Verify([]byte(`{}`), ""), utils.ErrMissingSignature)
	assert.ErrorIs(t, v.Verify([]byte(`{}`), "   "), utils.ErrMissingSignature)
}

func TestSignatureVerifier_WithSecret(t *testing.T) {
	const secret = "whsec_abc"
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	v := NewSignatureVerifier(secret, 5*time.Minute, zap.NewNop())

	cases := []struct {
		name    string
		header  string
		wantErr error
	}{
		{name: "valid", header: signedHeader(secret, payload, time.Now())},
		{name: "missing", header: "", wantErr: utils.ErrMissingSignature},
		{name: "wrong secret", header: signedHeader("whsec_other", payload, time.Now()), wantErr: utils.ErrInvalidSignature},
		{name: "outside tolerance", header: signedHeader(secret, payload, time.Now().Add(-time.Hour)), wantErr: utils.ErrInvalidSignature},
		{name: "garbage", header: "not-a-signature", wantErr: utils.ErrInvalidSignature},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Verify(payload, tc.header)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
