package payment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/webhook"
)

const testWebhookSecret = "whsec_test_secret"

const succeededEvent = `{
  "id": "evt_1",
  "object": "event",
  "type": "payment_intent.succeeded",
  "data": {
    "object": {
      "id": "pi_123",
      "object": "payment_intent",
      "amount": 18850,
      "amount_received": 18850,
      "currency": "cad",
      "receipt_email": "ana@example.com",
      "metadata": {"items": "[{\"id\":\"p1\",\"quantity\":2}]", "customerName": "Ana"},
      "shipping": {
        "name": "Ana",
        "address": {"line1": "1 Main St", "city": "Calgary", "state": "AB", "postal_code": "T2P 1J9", "country": "CA"}
      }
    }
  }
}`

func sign(t *testing.T, payload string, secret string) string {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: []byte(payload),
		Secret:  secret,
	})
	return signed.Header
}

func TestVerifyEvent_Succeeded(t *testing.T) {
	p := NewStripeProcessor("sk_test", testWebhookSecret)

	evt, err := p.VerifyEvent([]byte(succeededEvent), sign(t, succeededEvent, testWebhookSecret))
	require.NoError(t, err)
	assert.Equal(t, EventPaymentSucceeded, evt.Type)
	require.NotNil(t, evt.Confirmation)

	c := evt.Confirmation
	assert.Equal(t, "pi_123", c.ExternalReference)
	assert.Equal(t, int64(18850), c.ChargedAmount)
	assert.Equal(t, "cad", c.Currency)
	assert.Equal(t, "ana@example.com", c.ReceiptEmail)
	assert.Equal(t, "Ana", c.Metadata["customerName"])
	require.NotNil(t, c.Shipping)
	assert.Equal(t, "Calgary", c.Shipping.City)
	assert.Equal(t, "T2P 1J9", c.Shipping.PostalCode)
}

func TestVerifyEvent_FailsClosed(t *testing.T) {
	p := NewStripeProcessor("sk_test", testWebhookSecret)

	cases := map[string]struct {
		proc   *StripeProcessor
		header string
	}{
		"missing header": {proc: p, header: ""},
		"wrong secret":   {proc: p, header: sign(t, succeededEvent, "whsec_other")},
		"garbage header": {proc: p, header: "t=1,v1=deadbeef"},
		"no secret":      {proc: NewStripeProcessor("sk_test", ""), header: sign(t, succeededEvent, testWebhookSecret)},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			evt, err := tc.proc.VerifyEvent([]byte(succeededEvent), tc.header)
			var authErr *AuthenticityError
			require.ErrorAs(t, err, &authErr)
			assert.Nil(t, evt.Confirmation)
		})
	}
}

func TestVerifyEvent_TamperedPayload(t *testing.T) {
	p := NewStripeProcessor("sk_test", testWebhookSecret)
	header := sign(t, succeededEvent, testWebhookSecret)

	tampered := []byte(succeededEvent[:len(succeededEvent)-2] + " }")
	_, err := p.VerifyEvent(tampered, header)
	var authErr *AuthenticityError
	assert.ErrorAs(t, err, &authErr)
}

func TestVerifyEvent_OtherTypesCarryNoConfirmation(t *testing.T) {
	p := NewStripeProcessor("sk_test", testWebhookSecret)
	payload := `{"id":"evt_2","object":"event","type":"charge.refunded","data":{"object":{"id":"ch_1","object":"charge"}}}`

	evt, err := p.VerifyEvent([]byte(payload), sign(t, payload, testWebhookSecret))
	require.NoError(t, err)
	assert.Equal(t, "charge.refunded", evt.Type)
	assert.Nil(t, evt.Confirmation)
}

func TestConfirmationFromIntent_FallsBackToAmount(t *testing.T) {
	c := confirmationFromIntent(&stripe.PaymentIntent{ID: "pi_9", Amount: 1200, Currency: "cad"})
	assert.Equal(t, int64(1200), c.ChargedAmount)
	assert.Nil(t, c.Shipping)
}

func newTestProcessor(t *testing.T, handler http.HandlerFunc) *StripeProcessor {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	return newStripeProcessor(paymentintent.Client{B: backend, Key: "sk_test_123"}, testWebhookSecret)
}

func TestCreateAuthorization(t *testing.T) {
	p := newTestProcessor(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/payment_intents", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "18850", r.PostForm.Get("amount"))
		assert.Equal(t, "cad", r.PostForm.Get("currency"))
		assert.Equal(t, "true", r.PostForm.Get("automatic_payment_methods[enabled]"))
		assert.Equal(t, "ana@example.com", r.PostForm.Get("receipt_email"))
		assert.Equal(t, "delivery", r.PostForm.Get("metadata[deliveryMethod]"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pi_123","object":"payment_intent","amount":18850,"currency":"cad","client_secret":"pi_123_secret_abc"}`))
	})

	auth, err := p.CreateAuthorization(context.Background(), AuthorizationRequest{
		Amount:       18850,
		Currency:     "cad",
		ReceiptEmail: "ana@example.com",
		Metadata:     map[string]string{"deliveryMethod": "delivery"},
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_123", auth.ExternalReference)
	assert.Equal(t, "pi_123_secret_abc", auth.ClientSecret)
	assert.Equal(t, int64(18850), auth.Amount)
}

func TestCreateAuthorization_BreakerOpensOnOutage(t *testing.T) {
	var calls atomic.Int32
	p := newTestProcessor(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"type":"api_error","message":"boom"}}`))
	})

	req := AuthorizationRequest{Amount: 1000, Currency: "cad"}
	for i := 0; i < 5; i++ {
		_, err := p.CreateAuthorization(context.Background(), req)
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrProcessorUnavailable))
	}

	_, err := p.CreateAuthorization(context.Background(), req)
	assert.ErrorIs(t, err, ErrProcessorUnavailable)
	assert.Equal(t, int32(5), calls.Load())
}

func TestCreateAuthorization_CardErrorsDoNotTripBreaker(t *testing.T) {
	p := newTestProcessor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"amount too small"}}`))
	})

	for i := 0; i < 7; i++ {
		_, err := p.CreateAuthorization(context.Background(), AuthorizationRequest{Amount: 1, Currency: "cad"})
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrProcessorUnavailable))
	}
}
