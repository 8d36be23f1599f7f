package orders

import (
	"testing"

	"livemart/internal/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{models.OrderPending, models.OrderConfirmed, true},
		{models.OrderPending, models.OrderDelivered, true},
		{models.OrderConfirmed, models.OrderShipped, true},
		{models.OrderShipped, models.OrderDelivered, true},
		{models.OrderShipped, models.OrderConfirmed, false},
		{models.OrderDelivered, models.OrderShipped, false},
		{models.OrderDelivered, models.OrderCancelled, false},
		{models.OrderCancelled, models.OrderPending, false},
		{models.OrderPending, models.OrderCancelled, true},
		{models.OrderShipped, models.OrderCancelled, true},
		{models.OrderPending, "unknown", false},
		{"unknown", models.OrderConfirmed, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
