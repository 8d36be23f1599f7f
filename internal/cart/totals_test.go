package cart

import (
	"testing"

	"livemart/internal/models"
)

func TestComputeTotalsDelivery(t *testing.T) {
	totals := ComputeTotals([]TotalLine{{UnitPrice: 100, Quantity: 3}}, models.FulfillDelivery)

	if totals.Subtotal != 300 {
		t.Fatalf("subtotal: expected 300, got %f", totals.Subtotal)
	}
	if totals.Tax != 30 {
		t.Fatalf("tax: expected 30, got %f", totals.Tax)
	}
	if totals.Shipping != 10 {
		t.Fatalf("shipping: expected 10, got %f", totals.Shipping)
	}
	if totals.Total != 340 {
		t.Fatalf("total: expected 340, got %f", totals.Total)
	}
}

func TestComputeTotalsPickupSkipsShipping(t *testing.T) {
	totals := ComputeTotals([]TotalLine{{UnitPrice: 50, Quantity: 2}}, models.FulfillPickup)

	if totals.Shipping != 0 {
		t.Fatalf("shipping: expected 0, got %f", totals.Shipping)
	}
	if totals.Total != 110 {
		t.Fatalf("total: expected 110, got %f", totals.Total)
	}
}

func TestComputeTotalsRoundsToCents(t *testing.T) {
	totals := ComputeTotals([]TotalLine{{UnitPrice: 19.99, Quantity: 3}}, models.FulfillDelivery)

	if totals.Subtotal != 59.97 {
		t.Fatalf("subtotal: expected 59.97, got %f", totals.Subtotal)
	}
	if totals.Tax != 6.0 {
		t.Fatalf("tax: expected 6.0, got %f", totals.Tax)
	}
	if totals.Total != 75.97 {
		t.Fatalf("total: expected 75.97, got %f", totals.Total)
	}
}

func TestComputeTotalsEmpty(t *testing.T) {
	totals := ComputeTotals(nil, models.FulfillDelivery)

	if totals.Subtotal != 0 || totals.Tax != 0 {
		t.Fatalf("expected zero subtotal and tax, got %+v", totals)
	}
	if totals.Shipping != 10 {
		t.Fatalf("shipping: expected 10, got %f", totals.Shipping)
	}
}
