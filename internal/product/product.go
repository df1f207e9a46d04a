package product

import "github.com/shopspring/decimal"

// Product represents a catalog entry and maps to the `products` table.
// Price is kept in major currency units exactly as merchandised; anything that
// charges money works from UnitPriceCents.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Badge       *string         `json:"badge,omitempty"`
	Rating      float64         `json:"rating"`
	Reviews     int             `json:"reviews"`
	Stock       int             `json:"stock"`
	Sizes       []string        `json:"sizes,omitempty"`
	Featured    bool            `json:"isFeatured"`
}

var hundred = decimal.NewFromInt(100)

// UnitPriceCents converts the price to minor units, rounding half away from zero.
func (p Product) UnitPriceCents() int64 {
	return p.Price.Mul(hundred).Round(0).IntPart()
}

// AllowedCategories contains the storefront categories in display order.
var AllowedCategories = []string{
	"Perfumes",
	"Skincare",
	"Gadgets",
	"Gifts",
	"Trending",
}

func IsAllowedCategory(category string) bool {
	for _, c := range AllowedCategories {
		if c == category {
			return true
		}
	}
	return false
}
