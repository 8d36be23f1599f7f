// Package payment is the boundary to the external payment gateway. Intent
// creation, signature verification and webhook parsing live here; the order
// lifecycle only ever sees paid/failed outcomes.
package payment

import "context"

// Webhook event types reported by the gateway.
const (
	EventSucceeded = "payment_intent.succeeded"
	EventFailed    = "payment_intent.payment_failed"
)

// Intent is the gateway-side handle for a pending payment. ClientSecret is
// returned to the browser to complete the payment.
type Intent struct {
	ID           string `json:"paymentIntentId"`
	ClientSecret string `json:"clientSecret"`
}

// Event is a parsed, signature-verified webhook notification. OrderID comes
// from the metadata attached at intent creation.
type Event struct {
	Type      string
	OrderID   string
	PaymentID string
}

type Gateway interface {
	// CreateIntent registers a payment of amount (major currency units) and
	// attaches metadata so webhook events can be correlated back to orders.
	CreateIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*Intent, error)
	// VerifySignature checks the webhook payload against its HMAC signature.
	VerifySignature(payload []byte, signature string) bool
	// ParseWebhook verifies and decodes a webhook delivery.
	ParseWebhook(payload []byte, signature string) (*Event, error)
}
