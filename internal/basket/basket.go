package basket

import "github.com/shopspring/decimal"

// Item is one product line in a basket. A basket holds at most one Item per
// ProductID.
type Item struct {
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Name      string          `json:"name"`
}

// Basket is an ordered list of items; insertion order is add order.
type Basket []Item

// Total returns the sum of quantity*price across the basket. It is pure and
// recomputed on every call, never cached.
func Total(b Basket) decimal.Decimal {
	total := decimal.Zero
	for _, item := range b {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
