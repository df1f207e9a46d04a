package payment

import (
	"context"
	"errors"
	"fmt"
)

// EventPaymentSucceeded is the only event type that creates orders.
const EventPaymentSucceeded = "payment_intent.succeeded"

var (
	ErrProcessorUnavailable = errors.New("payment processor unavailable")
)

// AuthenticityError means a confirmation event could not be verified against
// the shared signing secret. Nothing may be done with such a payload.
type AuthenticityError struct {
	Reason string
	Err    error
}

func (e *AuthenticityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("event authenticity: %s: %v", e.Reason, e.Err)
	}
	return "event authenticity: " + e.Reason
}

func (e *AuthenticityError) Unwrap() error { return e.Err }

// AuthorizationRequest asks the processor to hold Amount minor units.
type AuthorizationRequest struct {
	Amount       int64
	Currency     string
	ReceiptEmail string
	Metadata     map[string]string
}

// Authorization is what the processor issued for one checkout attempt.
type Authorization struct {
	ExternalReference string            `json:"paymentIntentId"`
	ClientSecret      string            `json:"clientSecret"`
	Amount            int64             `json:"amount"`
	Currency          string            `json:"currency"`
	Metadata          map[string]string `json:"-"`
}

type Address struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Confirmation is the payload of a successful payment.
type Confirmation struct {
	ExternalReference string
	ChargedAmount     int64
	Currency          string
	Metadata          map[string]string
	ReceiptEmail      string
	Shipping          *Address
}

// Event is a verified notification from the processor. Confirmation is only
// set for EventPaymentSucceeded.
type Event struct {
	ID           string
	Type         string
	Confirmation *Confirmation
}

// Processor is the payment provider port.
type Processor interface {
	CreateAuthorization(ctx context.Context, req AuthorizationRequest) (Authorization, error)
	VerifyEvent(payload []byte, signatureHeader string) (Event, error)
}
