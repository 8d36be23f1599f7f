package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateIntentSendsAmountInCents(t *testing.T) {
	var received intentRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)

		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "sk_test", user)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(map[string]string{"id": "pi_1", "client_secret": "cs_1"})
	}))
	defer server.Close()

	gw := NewRESTGateway(server.URL, "sk_test", "whsec")

	intent, err := gw.CreateIntent(context.Background(), 340.0, "usd", map[string]string{"orderId": "abc"})
	require.NoError(t, err)

	assert.Equal(t, int64(34000), received.Amount)
	assert.Equal(t, "usd", received.Currency)
	assert.Equal(t, "abc", received.Metadata["orderId"])
	assert.Equal(t, "pi_1", intent.ID)
	assert.Equal(t, "cs_1", intent.ClientSecret)
}

func TestVerifySignature(t *testing.T) {
	gw := NewRESTGateway("https://example.test", "sk", "whsec")
	payload := []byte(`{"type":"payment_intent.succeeded"}`)

	assert.True(t, gw.VerifySignature(payload, sign("whsec", payload)))
	assert.False(t, gw.VerifySignature(payload, sign("wrong", payload)))
	assert.False(t, gw.VerifySignature(payload, "not-hex"))
}

func TestParseWebhook(t *testing.T) {
	gw := NewRESTGateway("https://example.test", "sk", "whsec")
	payload := []byte(`{
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_9", "metadata": {"orderId": "65f000000000000000000001"}}}
	}`)

	event, err := gw.ParseWebhook(payload, sign("whsec", payload))
	require.NoError(t, err)

	assert.Equal(t, EventSucceeded, event.Type)
	assert.Equal(t, "pi_9", event.PaymentID)
	assert.Equal(t, "65f000000000000000000001", event.OrderID)
}

func TestParseWebhookRejectsBadSignature(t *testing.T) {
	gw := NewRESTGateway("https://example.test", "sk", "whsec")

	_, err := gw.ParseWebhook([]byte(`{}`), "deadbeef")

	require.ErrorIs(t, err, ErrBadSignature)
}
