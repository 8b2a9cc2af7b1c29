// Package paypal reads PayPal Instant Payment Notifications.
package paypal

import (
	"github.com/marcelsud/notification-inbox/gateways"
	"github.com/marcelsud/notification-inbox/notification"
)

// Name is the registry name of the gateway
const Name = "paypal"

// Notification is a PayPal IPN
type Notification struct {
	*notification.Notification
}

// Definition registers the gateway
func Definition() gateways.Definition {
	return gateways.Definition{
		Name: Name,
		New: func(base *notification.Notification) gateways.Notification {
			return &Notification{Notification: base}
		},
	}
}

// Status maps payment_status onto the normalized statuses
func (n *Notification) Status() notification.Status {
	switch n.Get("payment_status") {
	case "Completed", "Canceled_Reversal":
		return notification.Completed
	case "Pending", "In-Progress", "Processed", "Created":
		return notification.Pending
	case "Denied", "Failed", "Expired", "Voided":
		return notification.Failed
	case "Refunded":
		return notification.Refunded
	case "Reversed":
		return notification.Reversed
	default:
		return notification.Unknown
	}
}

// Gross returns mc_gross
func (n *Notification) Gross() float64 {
	return n.Fields().Float("mc_gross")
}

// Currency returns mc_currency
func (n *Notification) Currency() string {
	return n.Get("mc_currency")
}

// TransactionID returns txn_id
func (n *Notification) TransactionID() string {
	return n.Get("txn_id")
}

// ParentTransactionID links refunds and reversals to the original payment
func (n *Notification) ParentTransactionID() string {
	return n.Get("parent_txn_id")
}

// Receiver is the merchant account the payment was sent to
func (n *Notification) Receiver() string {
	return n.Get("receiver_email")
}

// Test reports whether the IPN came from the sandbox
func (n *Notification) Test() bool {
	return n.Get("test_ipn") == "1"
}

var _ gateways.Notification = (*Notification)(nil)
