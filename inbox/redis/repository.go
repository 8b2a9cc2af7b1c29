package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/marcelsud/notification-inbox/inbox"
	"github.com/marcelsud/notification-inbox/notification"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of inbox.Repository
 * Each record lives in a hash, each gateway has a capped list of ids
 * (newest first) and two hashes keep running totals for metrics
 */

const (
	hashPrefix      = "notification"           // Hash naming: notification:{id}
	listPrefix      = "notifications"          // List naming: notifications:{gateway}
	gatewayCountKey = "notifications:counts"   // gateway -> accepted total
	statusCountKey  = "notifications:statuses" // status -> accepted total

	DefaultListCap = 1000
)

type Repository struct {
	client  *redis.Client
	ttl     time.Duration
	listCap int64
}

// Option configures the repository
type Option func(*Repository)

// WithTTL expires record hashes after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(r *Repository) {
		r.ttl = ttl
	}
}

// WithListCap bounds how many ids are kept per gateway list
func WithListCap(n int64) Option {
	return func(r *Repository) {
		if n > 0 {
			r.listCap = n
		}
	}
}

// NewRepository creates a new Redis repository
func NewRepository(addr, password string, db int, opts ...Option) (*Repository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	r := &Repository{
		client:  client,
		listCap: DefaultListCap,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Store saves the record and indexes it under its gateway
func (r *Repository) Store(ctx context.Context, rec inbox.Record) (string, error) {
	fieldsJSON, err := json.Marshal(rec.Fields)
	if err != nil {
		return "", fmt.Errorf("marshaling fields: %w", err)
	}

	hashKey := recordKey(rec.ID)
	listKey := gatewayKey(rec.Gateway)

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, hashKey, map[string]interface{}{
			"id":             rec.ID,
			"gateway":        rec.Gateway,
			"transaction_id": rec.TransactionID,
			"status":         rec.Status.String(),
			"gross_cents":    rec.GrossCents,
			"currency":       rec.Currency,
			"fields":         string(fieldsJSON),
			"raw":            rec.Raw,
			"sender_ip":      rec.SenderIP,
			"received_at":    rec.ReceivedAt.UnixMilli(),
		})
		if r.ttl > 0 {
			pipe.Expire(ctx, hashKey, r.ttl)
		}
		pipe.LPush(ctx, listKey, rec.ID)
		pipe.LTrim(ctx, listKey, 0, r.listCap-1)
		pipe.HIncrBy(ctx, gatewayCountKey, rec.Gateway, 1)
		pipe.HIncrBy(ctx, statusCountKey, rec.Status.String(), 1)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("storing notification: %w", err)
	}

	return rec.ID, nil
}

// Get retrieves a record by ID
func (r *Repository) Get(ctx context.Context, id string) (inbox.Record, error) {
	data, err := r.client.HGetAll(ctx, recordKey(id)).Result()
	if err != nil {
		return inbox.Record{}, fmt.Errorf("getting notification: %w", err)
	}
	if len(data) == 0 {
		return inbox.Record{}, fmt.Errorf("%w: %s", inbox.ErrNotFound, id)
	}

	fields := make(map[string]string)
	if s := data["fields"]; s != "" {
		if err := json.Unmarshal([]byte(s), &fields); err != nil {
			return inbox.Record{}, fmt.Errorf("unmarshaling fields: %w", err)
		}
	}

	return inbox.Record{
		ID:            data["id"],
		Gateway:       data["gateway"],
		TransactionID: data["transaction_id"],
		Status:        notification.NewStatus(data["status"]),
		GrossCents:    parseInt64(data["gross_cents"]),
		Currency:      data["currency"],
		Fields:        fields,
		Raw:           data["raw"],
		SenderIP:      data["sender_ip"],
		ReceivedAt:    time.UnixMilli(parseInt64(data["received_at"])),
	}, nil
}

// ListByGateway returns up to limit records, newest first.
// Ids whose hash already expired are skipped.
func (r *Repository) ListByGateway(ctx context.Context, gateway string, limit int) ([]inbox.Record, error) {
	ids, err := r.client.LRange(ctx, gatewayKey(gateway), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing notification ids: %w", err)
	}

	records := make([]inbox.Record, 0, len(ids))
	for _, id := range ids {
		rec, err := r.Get(ctx, id)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// CountByGateway returns accepted totals per gateway
func (r *Repository) CountByGateway(ctx context.Context) (map[string]int64, error) {
	return r.counts(ctx, gatewayCountKey)
}

// CountByStatus returns accepted totals per status
func (r *Repository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return r.counts(ctx, statusCountKey)
}

func (r *Repository) counts(ctx context.Context, key string) (map[string]int64, error) {
	data, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	counts := make(map[string]int64, len(data))
	for k, v := range data {
		counts[k] = parseInt64(v)
	}
	return counts, nil
}

// Close closes the Redis connection
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Close()
}

// GetClient returns the underlying Redis client for advanced operations
func (r *Repository) GetClient() *redis.Client {
	return r.client
}

func recordKey(id string) string {
	return fmt.Sprintf("%s:%s", hashPrefix, id)
}

func gatewayKey(gateway string) string {
	return fmt.Sprintf("%s:%s", listPrefix, gateway)
}

func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

var _ inbox.Repository = (*Repository)(nil)
