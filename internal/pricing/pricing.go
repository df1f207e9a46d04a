package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/wichananm65/storefront-backend/internal/product"
)

const (
	DefaultShippingCents int64 = 1000

	// MaxLineQuantity bounds a single cart line after duplicate ids are merged.
	MaxLineQuantity = 999
)

var (
	DefaultTaxRate = decimal.RequireFromString("0.05")

	ErrInvalidQuantity = errors.New("quantity must be between 1 and 999")
	ErrAmountTooLarge  = errors.New("order amount is too large")
)

// CartLine is one entry of a cart as submitted by the client.
type CartLine struct {
	ItemID   string `json:"id"`
	Quantity int    `json:"quantity"`
}

// PriceQuote is expressed in minor currency units.
type PriceQuote struct {
	Subtotal int64 `json:"subtotal"`
	Tax      int64 `json:"tax"`
	Shipping int64 `json:"shipping"`
	Total    int64 `json:"total"`
}

// UnknownItemError reports a cart line whose id does not resolve in the catalog.
type UnknownItemError struct {
	ItemID string
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("unknown item %q", e.ItemID)
}

// Catalog resolves authoritative product data by id. It must return
// product.ErrNotFound for ids it does not know.
type Catalog interface {
	Lookup(ctx context.Context, id string) (product.Product, error)
}

type Options struct {
	TaxRate       decimal.Decimal
	ShippingCents int64
}

type Engine struct {
	catalog       Catalog
	taxRate       decimal.Decimal
	shippingCents int64
}

// DefaultOptions is 5% tax and a 10.00 flat shipping fee.
func DefaultOptions() Options {
	return Options{TaxRate: DefaultTaxRate, ShippingCents: DefaultShippingCents}
}

// NewEngine builds a pricing engine with opts applied as given, so a zero
// tax rate or shipping fee is honored.
func NewEngine(catalog Catalog, opts Options) *Engine {
	return &Engine{
		catalog:       catalog,
		taxRate:       opts.TaxRate,
		shippingCents: opts.ShippingCents,
	}
}

// Quote prices lines against the catalog. Each line is converted to cents
// before it is added to the subtotal so per-item rounding never drifts across
// lines.
func (e *Engine) Quote(ctx context.Context, lines []CartLine) (PriceQuote, error) {
	var subtotal int64
	for _, line := range lines {
		if line.Quantity <= 0 || line.Quantity > MaxLineQuantity {
			return PriceQuote{}, fmt.Errorf("item %s quantity %d: %w", line.ItemID, line.Quantity, ErrInvalidQuantity)
		}
		p, err := e.catalog.Lookup(ctx, line.ItemID)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				return PriceQuote{}, &UnknownItemError{ItemID: line.ItemID}
			}
			return PriceQuote{}, fmt.Errorf("lookup item %s: %w", line.ItemID, err)
		}
		lineTotal, ok := mulCents(p.UnitPriceCents(), int64(line.Quantity))
		if !ok {
			return PriceQuote{}, fmt.Errorf("item %s: %w", line.ItemID, ErrAmountTooLarge)
		}
		if subtotal, ok = addCents(subtotal, lineTotal); !ok {
			return PriceQuote{}, ErrAmountTooLarge
		}
	}

	tax, ok := e.taxOn(subtotal)
	if !ok {
		return PriceQuote{}, ErrAmountTooLarge
	}
	total, ok := addCents(subtotal, tax)
	if ok {
		total, ok = addCents(total, e.shippingCents)
	}
	if !ok {
		return PriceQuote{}, ErrAmountTooLarge
	}
	return PriceQuote{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: e.shippingCents,
		Total:    total,
	}, nil
}

// TaxOn rounds half away from zero.
func (e *Engine) TaxOn(subtotal int64) int64 {
	tax, _ := e.taxOn(subtotal)
	return tax
}

func (e *Engine) taxOn(subtotal int64) (int64, bool) {
	tax := decimal.NewFromInt(subtotal).Mul(e.taxRate).Round(0)
	if tax.GreaterThan(decimal.NewFromInt(math.MaxInt64)) || tax.LessThan(decimal.NewFromInt(math.MinInt64)) {
		return 0, false
	}
	return tax.IntPart(), true
}

// mulCents and addCents report false instead of wrapping around.
func mulCents(unit, qty int64) (int64, bool) {
	if unit < 0 || qty < 0 {
		return 0, false
	}
	if unit != 0 && qty > math.MaxInt64/unit {
		return 0, false
	}
	return unit * qty, true
}

func addCents(a, b int64) (int64, bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, false
	}
	return a + b, true
}
