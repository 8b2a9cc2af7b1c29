// Package alipay reads Alipay asynchronous payment notifications.
package alipay

import (
	"github.com/marcelsud/notification-inbox/gateways"
	"github.com/marcelsud/notification-inbox/notification"
	sdk "github.com/smartwalle/alipay/v3"
)

const (
	// Name is the registry name of the gateway
	Name = "alipay"

	// DefaultCurrency is used unless the gateway config sets a currency option
	DefaultCurrency = "CNY"
)

// Notification is an Alipay trade notification
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

// Status maps trade_status onto the normalized statuses.
// A closed trade with a refund_fee was refunded; otherwise it expired unpaid.
func (n *Notification) Status() notification.Status {
	switch sdk.TradeStatus(n.Get("trade_status")) {
	case sdk.TradeStatusWaitBuyerPay:
		return notification.Pending
	case sdk.TradeStatusSuccess, sdk.TradeStatusFinished:
		return notification.Completed
	case sdk.TradeStatusClosed:
		if n.Fields().Float("refund_fee") > 0 {
			return notification.Refunded
		}
		return notification.Failed
	default:
		return notification.Unknown
	}
}

// Gross returns total_amount
func (n *Notification) Gross() float64 {
	return n.Fields().Float("total_amount")
}

// Currency returns the configured settlement currency
func (n *Notification) Currency() string {
	if c := n.Option("currency"); c != "" {
		return c
	}
	return DefaultCurrency
}

// TransactionID returns the Alipay trade_no
func (n *Notification) TransactionID() string {
	return n.Get("trade_no")
}

// OrderID returns the merchant's out_trade_no
func (n *Notification) OrderID() string {
	return n.Get("out_trade_no")
}

var _ gateways.Notification = (*Notification)(nil)
