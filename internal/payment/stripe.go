package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeProcessor issues payment intents and verifies Stripe webhooks.
type StripeProcessor struct {
	intents       paymentintent.Client
	webhookSecret string
	breaker       *gobreaker.CircuitBreaker[*stripe.PaymentIntent]
}

func NewStripeProcessor(secretKey, webhookSecret string) *StripeProcessor {
	return newStripeProcessor(paymentintent.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey}, webhookSecret)
}

func newStripeProcessor(intents paymentintent.Client, webhookSecret string) *StripeProcessor {
	st := gobreaker.Settings{
		Name:        "stripe-payment-intents",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// card and validation errors are the caller's problem, not an outage
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var se *stripe.Error
			return errors.As(err, &se) && se.HTTPStatusCode >= 400 && se.HTTPStatusCode < 500
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("circuit breaker %s: %s -> %s", name, from, to)
		},
	}
	return &StripeProcessor{
		intents:       intents,
		webhookSecret: webhookSecret,
		breaker:       gobreaker.NewCircuitBreaker[*stripe.PaymentIntent](st),
	}
}

func (p *StripeProcessor) CreateAuthorization(ctx context.Context, req AuthorizationRequest) (Authorization, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if req.ReceiptEmail != "" {
		params.ReceiptEmail = stripe.String(req.ReceiptEmail)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := p.breaker.Execute(func() (*stripe.PaymentIntent, error) {
		return p.intents.New(params)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Authorization{}, fmt.Errorf("%w: %v", ErrProcessorUnavailable, err)
		}
		return Authorization{}, fmt.Errorf("create payment intent: %w", err)
	}

	return Authorization{
		ExternalReference: pi.ID,
		ClientSecret:      pi.ClientSecret,
		Amount:            pi.Amount,
		Currency:          string(pi.Currency),
		Metadata:          pi.Metadata,
	}, nil
}

// VerifyEvent checks the Stripe-Signature header before anything in the
// payload is trusted.
func (p *StripeProcessor) VerifyEvent(payload []byte, signatureHeader string) (Event, error) {
	if p.webhookSecret == "" {
		return Event{}, &AuthenticityError{Reason: "webhook secret not configured"}
	}
	if signatureHeader == "" {
		return Event{}, &AuthenticityError{Reason: "missing signature header"}
	}

	evt, err := webhook.ConstructEventWithOptions(payload, signatureHeader, p.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return Event{}, &AuthenticityError{Reason: "signature verification failed", Err: err}
	}

	out := Event{ID: evt.ID, Type: string(evt.Type)}
	if out.Type != EventPaymentSucceeded {
		return out, nil
	}
	if evt.Data == nil {
		return Event{}, fmt.Errorf("event %s has no data", evt.ID)
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(evt.Data.Raw, &pi); err != nil {
		return Event{}, fmt.Errorf("decode payment intent in event %s: %w", evt.ID, err)
	}
	out.Confirmation = confirmationFromIntent(&pi)
	return out, nil
}

func confirmationFromIntent(pi *stripe.PaymentIntent) *Confirmation {
	charged := pi.AmountReceived
	if charged <= 0 {
		charged = pi.Amount
	}
	c := &Confirmation{
		ExternalReference: pi.ID,
		ChargedAmount:     charged,
		Currency:          string(pi.Currency),
		Metadata:          pi.Metadata,
		ReceiptEmail:      pi.ReceiptEmail,
	}
	if pi.Shipping != nil && pi.Shipping.Address != nil {
		a := pi.Shipping.Address
		c.Shipping = &Address{
			Name:       pi.Shipping.Name,
			Line1:      a.Line1,
			Line2:      a.Line2,
			City:       a.City,
			State:      a.State,
			PostalCode: a.PostalCode,
			Country:    a.Country,
		}
	}
	return c
}
