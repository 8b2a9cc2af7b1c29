package inbox

import (
	"time"

	"github.com/marcelsud/notification-inbox/money"
	"github.com/marcelsud/notification-inbox/notification"
)

/* Record is an accepted gateway notification as kept in the inbox
 * Uses value semantics as it represents data, not behavior
 */
type Record struct {
	ID            string
	Gateway       string
	TransactionID string
	Status        notification.Status
	GrossCents    int64
	Currency      string
	Fields        map[string]string
	Raw           string
	SenderIP      string
	ReceivedAt    time.Time
}

// Amount rebuilds the monetary amount of the record
func (r Record) Amount() money.Amount {
	if r.Currency != "" {
		if amount, err := money.New(r.GrossCents, r.Currency); err == nil {
			return amount
		}
	}
	return money.NewWithoutCurrency(r.GrossCents)
}
