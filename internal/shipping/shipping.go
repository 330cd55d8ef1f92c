// Package shipping supplies the read-only shipping option catalog and the
// free-shipping cost rule.
package shipping

import (
	"context"

	"github.com/shopspring/decimal"
)

// Option is one entry in the shipping catalog.
type Option struct {
	ID                      string          `json:"id"`
	Name                    string          `json:"name"`
	Price                   decimal.Decimal `json:"price"`
	FreeShippingRequirement decimal.Decimal `json:"freeShippingRequirement"`
	DeliveryTime            string          `json:"deliveryTime"`
	DeliveryDays            int             `json:"deliveryDays"`
}

// Catalog supplies the available shipping options.
type Catalog interface {
	Options(ctx context.Context) ([]Option, error)
}

// Cost returns the shipping price for the chosen option: zero once the
// subtotal reaches the option's free-shipping threshold, otherwise the
// option price.
func Cost(subtotal decimal.Decimal, option Option) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(option.FreeShippingRequirement) {
		return decimal.Zero
	}
	return option.Price
}

// StaticCatalog serves a fixed option list.
type StaticCatalog struct {
	options []Option
}

// NewStaticCatalog returns a catalog over the given options; with none given
// it falls back to the default storefront options.
func NewStaticCatalog(options ...Option) *StaticCatalog {
	if len(options) == 0 {
		options = defaultOptions()
	}
	return &StaticCatalog{options: options}
}

func (c *StaticCatalog) Options(ctx context.Context) ([]Option, error) {
	out := make([]Option, len(c.options))
	copy(out, c.options)
	return out, nil
}

func defaultOptions() []Option {
	return []Option{
		{
			ID:                      "standard",
			Name:                    "Standard Shipping",
			Price:                   decimal.NewFromInt(10),
			FreeShippingRequirement: decimal.NewFromInt(100),
			DeliveryTime:            "5-7 business days",
			DeliveryDays:            7,
		},
		{
			ID:                      "express",
			Name:                    "Express Shipping",
			Price:                   decimal.NewFromInt(25),
			FreeShippingRequirement: decimal.NewFromInt(200),
			DeliveryTime:            "1-2 business days",
			DeliveryDays:            2,
		},
	}
}
