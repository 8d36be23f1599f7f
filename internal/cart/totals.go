package cart

import (
	"math"

	"livemart/internal/models"
)

const (
	taxRate         = 0.10
	flatShippingFee = 10.0
)

// TotalLine is one priced line entering the totals computation.
type TotalLine struct {
	UnitPrice float64
	Quantity  int
}

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// ComputeTotals derives the money breakdown for a set of lines: 10% tax on
// the subtotal and a flat shipping fee that pickup orders skip.
func ComputeTotals(lines []TotalLine, fulfillmentMethod string) Totals {
	subtotal := 0.0
	for _, line := range lines {
		subtotal += line.UnitPrice * float64(line.Quantity)
	}
	subtotal = round2(subtotal)

	tax := round2(subtotal * taxRate)

	shipping := flatShippingFee
	if fulfillmentMethod == models.FulfillPickup {
		shipping = 0
	}

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    round2(subtotal + tax + shipping),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
