package cart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wichananm65/storefront-backend/internal/pricing"
)

const (
	DeliveryMethodDelivery = "delivery"
	DeliveryMethodPickup   = "pickup"

	// FreeDeliveryThresholdCents is the merchandising threshold shown on the
	// cart page. It never changes the amount that is charged.
	FreeDeliveryThresholdCents int64 = 7500
)

var (
	ErrInvalidLine           = errors.New("invalid cart line")
	ErrInvalidDeliveryMethod = errors.New("delivery method must be delivery or pickup")
)

// LineInput is a cart line as posted by the storefront.
type LineInput struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// Normalize validates client lines and merges repeated ids, keeping the order
// in which ids were first seen.
func Normalize(inputs []LineInput) ([]pricing.CartLine, error) {
	out := make([]pricing.CartLine, 0, len(inputs))
	index := make(map[string]int, len(inputs))
	for i, in := range inputs {
		id := strings.TrimSpace(in.ID)
		if id == "" {
			return nil, fmt.Errorf("line %d: missing id: %w", i, ErrInvalidLine)
		}
		if in.Quantity <= 0 || in.Quantity > pricing.MaxLineQuantity {
			return nil, fmt.Errorf("line %d (%s): quantity %d: %w", i, id, in.Quantity, ErrInvalidLine)
		}
		if pos, ok := index[id]; ok {
			if out[pos].Quantity+in.Quantity > pricing.MaxLineQuantity {
				return nil, fmt.Errorf("line %d (%s): merged quantity above %d: %w", i, id, pricing.MaxLineQuantity, ErrInvalidLine)
			}
			out[pos].Quantity += in.Quantity
			continue
		}
		index[id] = len(out)
		out = append(out, pricing.CartLine{ItemID: id, Quantity: in.Quantity})
	}
	return out, nil
}

// ParseDeliveryMethod defaults an empty value to delivery.
func ParseDeliveryMethod(v string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", DeliveryMethodDelivery:
		return DeliveryMethodDelivery, nil
	case DeliveryMethodPickup:
		return DeliveryMethodPickup, nil
	default:
		return "", ErrInvalidDeliveryMethod
	}
}
