package notify

import (
	"fmt"
	"net/url"
	"strings"

	"safi-kitchen/internal/logger"
	"safi-kitchen/internal/models"
)

// ComposeMessage builds the operator alert for a new order. It always carries
// the order id and the item description.
func ComposeMessage(orderID, customer, items string) string {
	return fmt.Sprintf(
		"*NEW SAFI ORDER*\n\n*ID:* %s\n*Customer:* %s\n*Package:* %s\n\nPlease confirm my order!",
		orderID, customer, items,
	)
}

// WhatsAppLink returns the wa.me deep link with the message URL-encoded. The
// phone number is used digits-only.
func WhatsAppLink(phone, message string) string {
	phone = strings.TrimPrefix(phone, "+")
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(message))
}

// Notifier is the fire-and-forget side channel that alerts the kitchen
// operator of a new order. Dispatch failures are logged and swallowed: by the
// time it runs, the order is already persisted, and no delivery confirmation
// or retry exists.
type Notifier struct {
	phone string
	log   *logger.Logger
}

func NewNotifier(phone string, log *logger.Logger) *Notifier {
	return &Notifier{
		phone: phone,
		log:   log,
	}
}

// Dispatch composes the alert and hands the deep link to the operator channel
// asynchronously. The caller never observes an error.
func (n *Notifier) Dispatch(order *models.Order) {
	if n.phone == "" {
		n.log.Debug("NOTIFY", "No contact phone configured, skipping dispatch")
		return
	}

	msg := ComposeMessage(order.ID, order.CustomerName, order.Items)
	link := WhatsAppLink(n.phone, msg)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				n.log.Debug("NOTIFY", fmt.Sprintf("Dispatch failed for order %s: %v", order.ID, r))
			}
		}()
		n.log.LogOrder("NOTIFY", order.ID, "Operator alert link: "+link)
	}()
}

// Link exposes the composed deep link so the order confirmation screen can
// hand it to the customer.
func (n *Notifier) Link(order *models.Order) string {
	return WhatsAppLink(n.phone, ComposeMessage(order.ID, order.CustomerName, order.Items))
}
