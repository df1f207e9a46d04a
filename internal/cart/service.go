package cart

import (
	"context"

	"github.com/wichananm65/storefront-backend/internal/pricing"
)

// Quoter is satisfied by *pricing.Engine.
type Quoter interface {
	Quote(ctx context.Context, lines []pricing.CartLine) (pricing.PriceQuote, error)
}

// Summary is what the cart page renders.
type Summary struct {
	pricing.PriceQuote
	DeliveryMethod       string `json:"deliveryMethod"`
	FreeDeliveryEligible bool   `json:"freeDeliveryEligible"`
}

// Service prices carts for display.
type Service struct {
	quoter Quoter
}

func NewService(q Quoter) *Service {
	return &Service{quoter: q}
}

func (s *Service) Summarize(ctx context.Context, inputs []LineInput, deliveryMethod string) (Summary, error) {
	method, err := ParseDeliveryMethod(deliveryMethod)
	if err != nil {
		return Summary{}, err
	}
	lines, err := Normalize(inputs)
	if err != nil {
		return Summary{}, err
	}
	q, err := s.quoter.Quote(ctx, lines)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		PriceQuote:           q,
		DeliveryMethod:       method,
		FreeDeliveryEligible: method == DeliveryMethodDelivery && q.Subtotal > FreeDeliveryThresholdCents,
	}, nil
}
