package request_models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const EventTypePaymentIntentSucceeded = "payment_intent.succeeded"

// StripeEvent is the closed set of webhook events this service understands.
// Anything not recognized decodes to *UnknownEvent.
type StripeEvent interface {
	EventID() string
	EventType() string
	isStripeEvent()
}

type PaymentIntentSucceeded struct {
	ID            string
	PaymentIntent PaymentIntent
	// Raw is the undecoded data.object, kept as a receipt snapshot.
	Raw json.RawMessage
}

type UnknownEvent struct {
	ID   string
	Type string
}

func (e *PaymentIntentSucceeded) EventID() string   { return e.ID }
func (e *PaymentIntentSucceeded) EventType() string { return EventTypePaymentIntentSucceeded }
func (*PaymentIntentSucceeded) isStripeEvent()      {}

func (e *UnknownEvent) EventID() string   { return e.ID }
func (e *UnknownEvent) EventType() string { return e.Type }
func (*UnknownEvent) isStripeEvent()      {}

type PaymentIntent struct {
	ID              string            `json:"id"`
	Metadata        map[string]string `json:"metadata"`
	ReceiptEmail    *string           `json:"receipt_email"`
	CustomerDetails *CustomerDetails  `json:"customer_details"`
}

type CustomerDetails struct {
	Email *string `json:"email"`
}

// SongID returns the correlation identifier stored in metadata when the checkout was created.
func (p PaymentIntent) SongID() string {
	return strings.TrimSpace(p.Metadata["song_id"])
}

// CustomerEmail prefers receipt_email and falls back to customer_details.email.
func (p PaymentIntent) CustomerEmail() *string {
	if p.ReceiptEmail != nil && strings.TrimSpace(*p.ReceiptEmail) != "" {
		return p.ReceiptEmail
	}
	if p.CustomerDetails != nil && p.CustomerDetails.Email != nil && strings.TrimSpace(*p.CustomerDetails.Email) != "" {
		return p.CustomerDetails.Email
	}
	return nil
}

type eventEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

var ErrUndecodableEvent = errors.New("undecodable stripe event")

// DecodeStripeEvent parses a webhook body. Only the variants the service acts on
// need a well-formed data.object; other types only need a JSON envelope.
func DecodeStripeEvent(payload []byte) (StripeEvent, error) {
	var env eventEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodableEvent, err)
	}

	switch env.Type {
	case EventTypePaymentIntentSucceeded:
		if len(env.Data.Object) == 0 || string(env.Data.Object) == "null" {
			return nil, fmt.Errorf("%w: %s without data.object", ErrUndecodableEvent, env.Type)
		}
		var pi PaymentIntent
		if err := json.Unmarshal(env.Data.Object, &pi); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUndecodableEvent, err)
		}
		return &PaymentIntentSucceeded{ID: env.ID, PaymentIntent: pi, Raw: env.Data.Object}, nil
	default:
		return &UnknownEvent{ID: env.ID, Type: env.Type}, nil
	}
}
