package request_models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePaymentIntentSucceeded(t *testing.T) {
	payload := []byte(`{
		"id": "evt_1",
		"type": "payment_intent.succeeded",
		"data": {"object": {
			"id": "pi_123",
			"metadata": {"song_id": "0f8fad5b-d9cb-469f-a165-70867728950e"},
			"receipt_email": "buyer@example.com"
		}}
	}`)

	ev, err := DecodeStripeEvent(payload)
	require.NoError(t, err)

	succeeded, ok := ev.(*PaymentIntentSucceeded)
	require.True(t, ok, "expected *PaymentIntentSucceeded, got %T", ev)
	assert.Equal(t, "evt_1", succeeded.EventID())
	assert.Equal(t, "pi_123", succeeded.PaymentIntent.ID)
	assert.Equal(t, "0f8fad5b-d9cb-469f-a165-70867728950e", succeeded.PaymentIntent.SongID())
	require.NotNil(t, succeeded.PaymentIntent.CustomerEmail())
	assert.Equal(t, "buyer@example.com", *succeeded.PaymentIntent.CustomerEmail())
	assert.Contains(t, string(succeeded.Raw), "pi_123")
}

func TestDecodeUnknownEvent(t *testing.T) {
	ev, err := DecodeStripeEvent([]byte(`{"id":"evt_2","type":"charge.failed","data":{}}`))
	require.NoError(t, err)

	unknown, ok := ev.(*UnknownEvent)
	require.True(t, ok)
	assert.Equal(t, "charge.failed", unknown.EventType())
}

func TestDecodeEnvelopeWithoutData(t *testing.T) {
	ev, err := DecodeStripeEvent([]byte(`{"type":"customer.created"}`))
	require.NoError(t, err)
	assert.Equal(t, "customer.created", ev.EventType())
}

func TestDecodeRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":            `{"type":`,
		"succeeded no object": `{"type":"payment_intent.succeeded","data":{}}`,
		"succeeded null":      `{"type":"payment_intent.succeeded","data":{"object":null}}`,
		"object wrong shape":  `{"type":"payment_intent.succeeded","data":{"object":"pi_1"}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeStripeEvent([]byte(body))
			assert.ErrorIs(t, err, ErrUndecodableEvent)
		})
	}
}

func TestCustomerEmailFallback(t *testing.T) {
	details := "details@example.com"
	blank := " "

	pi := PaymentIntent{ReceiptEmail: &blank, CustomerDetails: &CustomerDetails{Email: &details}}
	require.NotNil(t, pi.CustomerEmail())
	assert.Equal(t, details, *pi.CustomerEmail())

	assert.Nil(t, PaymentIntent{}.CustomerEmail())
	assert.Nil(t, PaymentIntent{CustomerDetails: &CustomerDetails{}}.CustomerEmail())
}
