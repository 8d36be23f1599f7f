package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"livemart/internal/models"
)

// SMSNotifier posts messages to a Twilio-compatible REST endpoint.
type SMSNotifier struct {
	baseURL    string
	accountSID string
	authToken  string
	from       string
	client     *http.Client
}

func NewSMSNotifier(baseURL, accountSID, authToken, from string) *SMSNotifier {
	return &SMSNotifier{
		baseURL:    strings.TrimRight(baseURL, "/"),
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SMSNotifier) SendOrderConfirmation(ctx context.Context, contact Contact, orderNumber string, _ []models.OrderItem) error {
	if contact.Phone == "" {
		return nil
	}
	msg := fmt.Sprintf("Your LiveMart order %s has been placed. We'll notify you when it ships.", orderNumber)
	return s.send(ctx, contact.Phone, msg)
}

func (s *SMSNotifier) SendDeliveryNotification(ctx context.Context, contact Contact, orderNumber, trackingNumber string) error {
	if contact.Phone == "" {
		return nil
	}
	msg := fmt.Sprintf("Your LiveMart order %s has been delivered.", orderNumber)
	if trackingNumber != "" {
		msg = fmt.Sprintf("%s Tracking: %s.", msg, trackingNumber)
	}
	return s.send(ctx, contact.Phone, msg)
}

func (s *SMSNotifier) send(ctx context.Context, to, body string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.baseURL, s.accountSID)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.from)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.accountSID, s.authToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms send failed: status %d", resp.StatusCode)
	}
	return nil
}
