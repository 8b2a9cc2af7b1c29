package alipay_test

import (
	"testing"

	"github.com/marcelsud/notification-inbox/gateways"
	"github.com/marcelsud/notification-inbox/gateways/alipay"
	"github.com/marcelsud/notification-inbox/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tradeNotification = "gmt_create=2024-01-05+12%3A00%3A00&charset=utf-8&seller_email=shop%40example.com" +
	"&subject=Order+42&sign=abc%2Bdef%3D%3D&buyer_id=2088102122524333&notify_id=2024010500222" +
	"&trade_no=2024010522001424330501&out_trade_no=ORDER-42&trade_status=TRADE_SUCCESS" +
	"&total_amount=88.88&sign_type=RSA2"

func parse(t *testing.T, body string, options map[string]string) *alipay.Notification {
	t.Helper()
	r, err := gateways.NewRegistry(notification.Production, alipay.Definition())
	require.NoError(t, err)
	require.NoError(t, r.Configure(&gateways.Config{Name: alipay.Name, Options: options}))

	n, err := r.Parse(alipay.Name, []byte(body))
	require.NoError(t, err)
	a, ok := n.(*alipay.Notification)
	require.True(t, ok)
	return a
}

func TestNotification(t *testing.T) {
	n := parse(t, tradeNotification, nil)

	assert.Equal(t, notification.Completed, n.Status())
	assert.Equal(t, 88.88, n.Gross())
	assert.Equal(t, int64(8888), notification.GrossCents(n))
	assert.Equal(t, "2024010522001424330501", n.TransactionID())
	assert.Equal(t, "ORDER-42", n.OrderID())
	assert.Equal(t, "abc+def==", n.Get("sign"))
	assert.Equal(t, "CNY", n.Currency())

	amount := notification.Amount(n)
	assert.Equal(t, "88.88 CNY", amount.String())
}

func TestNotification_Currency(t *testing.T) {
	t.Run("configured currency", func(t *testing.T) {
		n := parse(t, "total_amount=10.00", map[string]string{"currency": "HKD"})

		assert.Equal(t, "HKD", notification.Amount(n).Currency())
	})

	t.Run("invalid configured currency falls back to no currency", func(t *testing.T) {
		n := parse(t, "total_amount=10.00", map[string]string{"currency": "RMB"})

		amount := notification.Amount(n)
		assert.False(t, amount.HasCurrency())
		assert.Equal(t, int64(1000), amount.Cents())
	})
}

func TestNotification_Status(t *testing.T) {
	cases := []struct {
		body string
		want notification.Status
	}{
		{"trade_status=WAIT_BUYER_PAY", notification.Pending},
		{"trade_status=TRADE_SUCCESS", notification.Completed},
		{"trade_status=TRADE_FINISHED", notification.Completed},
		{"trade_status=TRADE_CLOSED", notification.Failed},
		{"trade_status=TRADE_CLOSED&refund_fee=88.88", notification.Refunded},
		{"trade_status=", notification.Unknown},
	}
	for _, tc := range cases {
		t.Run(tc.body, func(t *testing.T) {
			assert.Equal(t, tc.want, parse(t, tc.body, nil).Status())
		})
	}
}
