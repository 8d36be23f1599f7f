package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"livemart/internal/models"
)

// EmailNotifier delivers notifications over SMTP.
type EmailNotifier struct {
	host string
	port string
	from string
	auth smtp.Auth
}

func NewEmailNotifier(host, port, username, password, from string) *EmailNotifier {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &EmailNotifier{host: host, port: port, from: from, auth: auth}
}

func (e *EmailNotifier) SendOrderConfirmation(_ context.Context, contact Contact, orderNumber string, items []models.OrderItem) error {
	if contact.Email == "" {
		return nil
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\r\n\r\nYour order %s has been placed.\r\n\r\n", contact.Name, orderNumber)
	for _, item := range items {
		fmt.Fprintf(&body, "  %dx %s @ %.2f\r\n", item.Quantity, item.Name, item.Price)
	}
	body.WriteString("\r\nThank you for shopping with LiveMart.\r\n")

	return e.send(contact.Email, fmt.Sprintf("Order Confirmation - %s", orderNumber), body.String())
}

func (e *EmailNotifier) SendDeliveryNotification(_ context.Context, contact Contact, orderNumber, trackingNumber string) error {
	if contact.Email == "" {
		return nil
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\r\n\r\nYour order %s has been delivered.\r\n", contact.Name, orderNumber)
	if trackingNumber != "" {
		fmt.Fprintf(&body, "Tracking number: %s\r\n", trackingNumber)
	}

	return e.send(contact.Email, fmt.Sprintf("Order Delivered - %s", orderNumber), body.String())
}

func (e *EmailNotifier) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", e.from, to, subject, body)
	addr := e.host + ":" + e.port
	return smtp.SendMail(addr, e.auth, e.from, []string{to}, []byte(msg))
}
