package orders

import "livemart/internal/models"

// statusRank orders the forward chain pending -> confirmed -> processing ->
// shipped -> delivered. Cancellation is reachable from any non-terminal
// state and handled separately.
var statusRank = map[string]int{
	models.OrderPending:    0,
	models.OrderConfirmed:  1,
	models.OrderProcessing: 2,
	models.OrderShipped:    3,
	models.OrderDelivered:  4,
}

// CanTransition reports whether an order may move from one status to
// another. Forward moves may skip intermediate states (a pickup order can go
// straight to delivered); backward moves and moves out of a terminal state
// are rejected.
func CanTransition(from, to string) bool {
	if models.IsTerminalStatus(from) {
		return false
	}
	if to == models.OrderCancelled {
		return true
	}

	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}
