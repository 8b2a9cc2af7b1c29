package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/notification-inbox/gateways"
	"github.com/marcelsud/notification-inbox/inbox"
	"github.com/marcelsud/notification-inbox/notification"
)

/* HTTP layer DTOs for the notification API
 * Separate from domain entities to avoid leaking internal structure
 */

type receivedResponse struct {
	ID            string `json:"id"`
	Gateway       string `json:"gateway"`
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency,omitempty"`
}

type notificationResponse struct {
	receivedResponse
	Fields     map[string]string `json:"fields"`
	Raw        string            `json:"raw"`
	SenderIP   string            `json:"sender_ip"`
	ReceivedAt time.Time         `json:"received_at"`
}

type gatewayResponse struct {
	Name          string   `json:"name"`
	ProductionIPs []string `json:"production_ips"`
}

func toReceivedResponse(r inbox.Record) receivedResponse {
	return receivedResponse{
		ID:            r.ID,
		Gateway:       r.Gateway,
		TransactionID: r.TransactionID,
		Status:        r.Status.String(),
		Amount:        r.Amount().Decimal().StringFixed(2),
		Currency:      r.Currency,
	}
}

func toNotificationResponse(r inbox.Record) notificationResponse {
	return notificationResponse{
		receivedResponse: toReceivedResponse(r),
		Fields:           r.Fields,
		Raw:              r.Raw,
		SenderIP:         r.SenderIP,
		ReceivedAt:       r.ReceivedAt,
	}
}

// postNotification handles POST /v1/gateways/{gateway}/notifications
func postNotification(service inbox.UseCase, maxBodyBytes int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gateway := chi.URLParam(r, "gateway")
		httplog.LogEntrySetField(r.Context(), "gateway", gateway)

		var opts []notification.SenderOption
		if v := r.URL.Query().Get("ignore_test_mode"); v != "" {
			ignore, err := strconv.ParseBool(v)
			if err != nil {
				http.Error(w, "ignore_test_mode must be a boolean", http.StatusBadRequest)
				return
			}
			if ignore {
				opts = append(opts, notification.IgnoreTestMode())
			}
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		record, err := service.Receive(r.Context(), gateway, body, senderIP(r), opts...)
		if err != nil {
			switch {
			case errors.Is(err, gateways.ErrGatewayNotFound):
				httplog.LogEntrySetField(r.Context(), "outcome", inbox.OutcomeUnknownGateway)
				http.Error(w, "gateway not found: "+gateway, http.StatusNotFound)
			case errors.Is(err, inbox.ErrUntrustedSender):
				httplog.LogEntrySetField(r.Context(), "outcome", inbox.OutcomeUntrusted)
				http.Error(w, "sender not allowed", http.StatusForbidden)
			default:
				httplog.LogEntrySetField(r.Context(), "outcome", inbox.OutcomeStoreFailed)
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}
		httplog.LogEntrySetField(r.Context(), "outcome", inbox.OutcomeAccepted)

		writeJSON(w, http.StatusAccepted, toReceivedResponse(record))
	})
}

// getNotification handles GET /v1/notifications/{id}
func getNotification(service inbox.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		record, err := service.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, inbox.ErrNotFound) {
				http.Error(w, "notification not found: "+id, http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toNotificationResponse(record))
	})
}

// getNotifications handles GET /v1/gateways/{gateway}/notifications
func getNotifications(service inbox.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gateway := chi.URLParam(r, "gateway")

		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				http.Error(w, "limit must be an integer", http.StatusBadRequest)
				return
			}
			limit = n
		}

		records, err := service.List(r.Context(), gateway, limit)
		if err != nil {
			if errors.Is(err, gateways.ErrGatewayNotFound) {
				http.Error(w, "gateway not found: "+gateway, http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		responses := make([]notificationResponse, 0, len(records))
		for _, record := range records {
			responses = append(responses, toNotificationResponse(record))
		}
		writeJSON(w, http.StatusOK, responses)
	})
}

// getGateways handles GET /v1/gateways
func getGateways(registry *gateways.Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		names := registry.Names()

		responses := make([]gatewayResponse, 0, len(names))
		for _, name := range names {
			cfg, err := registry.Get(name)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			responses = append(responses, gatewayResponse{
				Name:          name,
				ProductionIPs: cfg.AllowList().Strings(),
			})
		}

		writeJSON(w, http.StatusOK, responses)
	})
}

// senderIP is the peer address without its port. With RealIP in front it
// is whatever the forwarding proxy reported.
func senderIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
