// Package notify is the fire-and-forget notification collaborator. Send
// failures are logged by callers and never fail the triggering operation.
package notify

import (
	"context"
	"errors"

	"livemart/internal/models"
)

// Contact is the destination for a notification. Implementations skip
// channels the contact does not have.
type Contact struct {
	Name  string
	Email string
	Phone string
}

type Notifier interface {
	SendOrderConfirmation(ctx context.Context, contact Contact, orderNumber string, items []models.OrderItem) error
	SendDeliveryNotification(ctx context.Context, contact Contact, orderNumber, trackingNumber string) error
}

// Noop satisfies Notifier without sending anything. Used in tests and when
// no channels are configured.
type Noop struct{}

func (Noop) SendOrderConfirmation(context.Context, Contact, string, []models.OrderItem) error {
	return nil
}

func (Noop) SendDeliveryNotification(context.Context, Contact, string, string) error {
	return nil
}

// Multi fans a notification out to every configured channel and joins the
// failures.
type Multi []Notifier

func (m Multi) SendOrderConfirmation(ctx context.Context, contact Contact, orderNumber string, items []models.OrderItem) error {
	var errs []error
	for _, n := range m {
		if err := n.SendOrderConfirmation(ctx, contact, orderNumber, items); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) SendDeliveryNotification(ctx context.Context, contact Contact, orderNumber, trackingNumber string) error {
	var errs []error
	for _, n := range m {
		if err := n.SendDeliveryNotification(ctx, contact, orderNumber, trackingNumber); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
