package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/wichananm65/storefront-backend/internal/cart"
	"github.com/wichananm65/storefront-backend/internal/payment"
	"github.com/wichananm65/storefront-backend/internal/pricing"
)

var (
	ErrEmptyCart = errors.New("cart is empty")
)

// ProcessorError wraps a failure reported by the payment processor. The
// shopper can retry these.
type ProcessorError struct {
	Err error
}

func (e *ProcessorError) Error() string { return fmt.Sprintf("authorize payment: %v", e.Err) }

func (e *ProcessorError) Unwrap() error { return e.Err }

// Quoter is satisfied by *pricing.Engine.
type Quoter interface {
	Quote(ctx context.Context, lines []pricing.CartLine) (pricing.PriceQuote, error)
}

// Request is one checkout attempt. The identity fields come from the caller's
// verified session. Email and name only fill in what the form left blank;
// IdentityUserID decides who owns the resulting order.
type Request struct {
	Lines          []cart.LineInput
	DeliveryMethod string
	CustomerEmail  string
	CustomerName   string

	IdentityUserID int
	IdentityEmail  string
	IdentityName   string
}

// Result carries the client credential plus the quote for display. The
// charge amount is already fixed on the processor side.
type Result struct {
	Authorization payment.Authorization
	Quote         pricing.PriceQuote
}

type Service struct {
	quoter    Quoter
	processor payment.Processor
	currency  string
}

func NewService(quoter Quoter, processor payment.Processor, currency string) *Service {
	return &Service{quoter: quoter, processor: processor, currency: strings.ToLower(currency)}
}

// Authorize prices the cart server-side and asks the processor to authorize
// exactly that total. Everything needed to rebuild the order later travels in
// the authorization metadata.
func (s *Service) Authorize(ctx context.Context, req Request) (Result, error) {
	if len(req.Lines) == 0 {
		return Result{}, ErrEmptyCart
	}
	method, err := cart.ParseDeliveryMethod(req.DeliveryMethod)
	if err != nil {
		return Result{}, err
	}
	lines, err := cart.Normalize(req.Lines)
	if err != nil {
		return Result{}, err
	}

	quote, err := s.quoter.Quote(ctx, lines)
	if err != nil {
		return Result{}, err
	}

	email := firstNonEmpty(req.CustomerEmail, req.IdentityEmail)
	name := firstNonEmpty(req.CustomerName, req.IdentityName)

	meta, err := payment.EncodeMetadata(payment.CheckoutMetadata{
		Lines:          lines,
		DeliveryMethod: method,
		CustomerEmail:  email,
		CustomerName:   name,
		QuotedTotal:    quote.Total,
		CustomerID:     req.IdentityUserID,
	})
	if err != nil {
		return Result{}, err
	}

	auth, err := s.processor.CreateAuthorization(ctx, payment.AuthorizationRequest{
		Amount:       quote.Total,
		Currency:     s.currency,
		ReceiptEmail: email,
		Metadata:     meta,
	})
	if err != nil {
		log.Printf("authorization failed amount=%d currency=%s err=%v", quote.Total, s.currency, err)
		return Result{}, &ProcessorError{Err: err}
	}

	return Result{Authorization: auth, Quote: quote}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
