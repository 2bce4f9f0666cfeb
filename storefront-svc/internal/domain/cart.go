package domain

import "github.com/shopspring/decimal"

// CartLine is one entry of the cart. Total is derived from price and quantity
// and is refreshed by the cart store on every write.
type CartLine struct {
	ID             string          `json:"id"`
	MenuItemID     string          `json:"menuItemId,omitempty"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	Quantity       int             `json:"quantity"`
	Total          decimal.Decimal `json:"lineTotal"`
	RestaurantID   string          `json:"restaurantId"`
	RestaurantName string          `json:"restaurantName,omitempty"`
	ImageURL       string          `json:"imageUrl,omitempty"`
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// WithTotal returns l with Total recomputed.
func (l CartLine) WithTotal() CartLine {
	l.Total = l.LineTotal()
	return l
}

type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

// Rounded returns the totals rounded to cents for display.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal:    t.Subtotal.Round(2),
		DeliveryFee: t.DeliveryFee.Round(2),
		Tax:         t.Tax.Round(2),
		Total:       t.Total.Round(2),
	}
}

// Pricing holds the fee and tax rate applied on top of the cart subtotal.
type Pricing struct {
	DeliveryFee decimal.Decimal
	TaxRate     decimal.Decimal
}

func DefaultPricing() Pricing {
	return Pricing{
		DeliveryFee: decimal.RequireFromString("2.99"),
		TaxRate:     decimal.RequireFromString("0.08"),
	}
}

func (p Pricing) Totals(lines []CartLine) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal())
	}

	fee := decimal.Zero
	if len(lines) > 0 {
		fee = p.DeliveryFee
	}
	tax := subtotal.Mul(p.TaxRate)

	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Tax:         tax,
		Total:       subtotal.Add(fee).Add(tax),
	}
}

type Cart struct {
	Items          []CartLine `json:"items"`
	RestaurantID   string     `json:"restaurantId,omitempty"`
	RestaurantName string     `json:"restaurantName,omitempty"`
	Totals         Totals     `json:"totals"`
}
