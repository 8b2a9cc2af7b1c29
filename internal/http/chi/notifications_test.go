package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/marcelsud/notification-inbox/gateways"
	"github.com/marcelsud/notification-inbox/gateways/alipay"
	"github.com/marcelsud/notification-inbox/gateways/paypal"
	"github.com/marcelsud/notification-inbox/inbox"
	"github.com/marcelsud/notification-inbox/inbox/mocks"
	"github.com/marcelsud/notification-inbox/notification"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const ipn = "payment_status=Completed&mc_gross=19.99&mc_currency=USD&txn_id=61E67681CH3238416"

func newTestRouter(t *testing.T, repo inbox.Repository, mode notification.Mode, opts Options) http.Handler {
	t.Helper()
	registry, err := gateways.NewRegistry(mode, paypal.Definition(), alipay.Definition())
	require.NoError(t, err)
	require.NoError(t, registry.Configure(&gateways.Config{
		Name:          paypal.Name,
		ProductionIPs: []string{"192.0.2.0/24"},
	}))

	opts.Logger = zerolog.Nop()
	service := inbox.NewService(repo, registry, nil, zerolog.Nop())
	return NotificationHandlers(context.Background(), service, registry, opts)
}

func postIPN(remoteAddr, target, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = remoteAddr
	return req
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, mocks.NewRepository(t), notification.Production, Options{})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestGetGateways(t *testing.T) {
	h := newTestRouter(t, mocks.NewRepository(t), notification.Production, Options{})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/gateways", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var results []gatewayResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "alipay", results[0].Name)
	assert.Empty(t, results[0].ProductionIPs)
	assert.Equal(t, "paypal", results[1].Name)
	assert.Equal(t, []string{"192.0.2.0/24"}, results[1].ProductionIPs)
}

func TestPostNotification(t *testing.T) {
	t.Run("success - trusted sender", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("Store", mock.Anything, inbox.MatchRecord(func(r inbox.Record) bool {
			return r.SenderIP == "192.0.2.10" && r.GrossCents == 1999
		})).Return("notification-123", nil)
		h := newTestRouter(t, repo, notification.Production, Options{})

		w := httptest.NewRecorder()
		h.ServeHTTP(w, postIPN("192.0.2.10:40000", "/v1/gateways/paypal/notifications", ipn))

		require.Equal(t, http.StatusAccepted, w.Code)
		var result receivedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, "notification-123", result.ID)
		assert.Equal(t, "paypal", result.Gateway)
		assert.Equal(t, "61E67681CH3238416", result.TransactionID)
		assert.Equal(t, "completed", result.Status)
		assert.Equal(t, "19.99", result.Amount)
		assert.Equal(t, "USD", result.Currency)
	})

	t.Run("untrusted sender", func(t *testing.T) {
		h := newTestRouter(t, mocks.NewRepository(t), notification.Production, Options{})

		w := httptest.NewRecorder()
		h.ServeHTTP(w, postIPN("10.0.0.1:40000", "/v1/gateways/paypal/notifications", ipn))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("forwarded header ignored unless trusted", func(t *testing.T) {
		h := newTestRouter(t, mocks.NewRepository(t), notification.Production, Options{})

		req := postIPN("10.0.0.1:40000", "/v1/gateways/paypal/notifications", ipn)
		req.Header.Set("X-Forwarded-For", "192.0.2.10")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("success - forwarded header behind a trusted proxy", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("Store", mock.Anything, inbox.MatchRecord(func(r inbox.Record) bool {
			return r.SenderIP == "192.0.2.10"
		})).Return("notification-456", nil)
		h := newTestRouter(t, repo, notification.Production, Options{TrustForwardedFor: true})

		req := postIPN("10.0.0.1:40000", "/v1/gateways/paypal/notifications", ipn)
		req.Header.Set("X-Forwarded-For", "192.0.2.10")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusAccepted, w.Code)
	})

	t.Run("success - test mode accepts any sender", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("Store", mock.Anything, mock.Anything).Return("notification-789", nil)
		h := newTestRouter(t, repo, notification.Test, Options{})

		w := httptest.NewRecorder()
		h.ServeHTTP(w, postIPN("10.0.0.1:40000", "/v1/gateways/paypal/notifications", ipn))

		assert.Equal(t, http.StatusAccepted, w.Code)
	})

	t.Run("test mode ignored on request", func(t *testing.T) {
		h := newTestRouter(t, mocks.NewRepository(t), notification.Test, Options{})

		w := httptest.NewRecorder()
		h.ServeHTTP(w, postIPN("10.0.0.1:40000", "/v1/gateways/paypal/notifications?ignore_test_mode=true", ipn))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("invalid ignore_test_mode", func(t *testing.T) {
		h := newTestRouter(t, mocks.NewRepository(t), notification.Test, Options{})

		w := httptest.NewRecorder()
		h.ServeHTTP(w, postIPN("10.0.0.1:40000", "/v1/gateways/paypal/notifications?ignore_test_mode=maybe", ipn))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown gateway", func(t *testing.T) {
		h := newTestRouter(t, mocks.NewRepository(t), notification.Production, Options{})

		w := httptest.NewRecorder()
		h.ServeHTTP(w, postIPN("192.0.2.10:40000", "/v1/gateways/stripe/notifications", ipn))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("body too large", func(t *testing.T) {
		h := newTestRouter(t, mocks.NewRepository(t), notification.Production, Options{MaxBodyBytes: 16})

		w := httptest.NewRecorder()
		h.ServeHTTP(w, postIPN("192.0.2.10:40000", "/v1/gateways/paypal/notifications", ipn))

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestGetNotification(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		receivedAt := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
		repo.On("Get", mock.Anything, "notification-123").Return(inbox.Record{
			ID:         "notification-123",
			Gateway:    "paypal",
			Status:     notification.Refunded,
			GrossCents: -1999,
			Currency:   "USD",
			Fields:     map[string]string{"mc_gross": "-19.99"},
			Raw:        "mc_gross=-19.99",
			SenderIP:   "192.0.2.10",
			ReceivedAt: receivedAt,
		}, nil)
		h := newTestRouter(t, repo, notification.Production, Options{})

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/notifications/notification-123", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var result notificationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, "refunded", result.Status)
		assert.Equal(t, "-19.99", result.Amount)
		assert.Equal(t, "mc_gross=-19.99", result.Raw)
		assert.Equal(t, "-19.99", result.Fields["mc_gross"])
		assert.True(t, receivedAt.Equal(result.ReceivedAt))
	})

	t.Run("not found", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("Get", mock.Anything, "missing").Return(inbox.Record{}, inbox.ErrNotFound)
		h := newTestRouter(t, repo, notification.Production, Options{})

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/notifications/missing", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetNotifications(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("ListByGateway", mock.Anything, "paypal", 5).
			Return([]inbox.Record{{ID: "b"}, {ID: "a"}}, nil)
		h := newTestRouter(t, repo, notification.Production, Options{})

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/gateways/paypal/notifications?limit=5", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var results []notificationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
		require.Len(t, results, 2)
		assert.Equal(t, "b", results[0].ID)
	})

	t.Run("invalid limit", func(t *testing.T) {
		h := newTestRouter(t, mocks.NewRepository(t), notification.Production, Options{})

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/gateways/paypal/notifications?limit=ten", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown gateway", func(t *testing.T) {
		h := newTestRouter(t, mocks.NewRepository(t), notification.Production, Options{})

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/gateways/stripe/notifications", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMetricsRoute(t *testing.T) {
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("notification_received_total 1"))
	})
	h := newTestRouter(t, mocks.NewRepository(t), notification.Production, Options{Metrics: metricsHandler})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "notification_received_total")
}
