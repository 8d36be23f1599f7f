package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"
)

// ErrBadSignature rejects webhook deliveries whose signature does not match.
var ErrBadSignature = errors.New("webhook signature verification failed")

// RESTGateway talks to a Stripe-style payment API: intents are created with
// basic-auth REST calls, webhooks carry an HMAC-SHA256 hex signature over
// the raw body.
type RESTGateway struct {
	baseURL       string
	secretKey     string
	webhookSecret string
	client        *http.Client
}

func NewRESTGateway(baseURL, secretKey, webhookSecret string) *RESTGateway {
	return &RESTGateway{
		baseURL:       strings.TrimRight(baseURL, "/"),
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		client:        &http.Client{Timeout: 15 * time.Second},
	}
}

type intentRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

func (g *RESTGateway) CreateIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*Intent, error) {
	// Gateways bill in the smallest currency unit.
	payload := intentRequest{
		Amount:   int64(math.Round(amount * 100)),
		Currency: currency,
		Metadata: metadata,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/payment_intents", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.secretKey, "")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("create intent failed: status %d", resp.StatusCode)
	}

	var decoded intentResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}

	return &Intent{ID: decoded.ID, ClientSecret: decoded.ClientSecret}, nil
}

func (g *RESTGateway) VerifySignature(payload []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.webhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(signature)))
}

type webhookEnvelope struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID       string            `json:"id"`
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

func (g *RESTGateway) ParseWebhook(payload []byte, signature string) (*Event, error) {
	if !g.VerifySignature(payload, signature) {
		return nil, ErrBadSignature
	}

	var envelope webhookEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, err
	}

	return &Event{
		Type:      envelope.Type,
		OrderID:   envelope.Data.Object.Metadata["orderId"],
		PaymentID: envelope.Data.Object.ID,
	}, nil
}
