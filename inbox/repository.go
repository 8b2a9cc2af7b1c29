package inbox

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no record exists for an id
var ErrNotFound = errors.New("notification not found")

// Reader provides read operations for stored notifications
type Reader interface {
	Get(ctx context.Context, id string) (Record, error)
	/* ListByGateway returns the newest records of a gateway first
	 * limit is always positive; the service clamps it
	 */
	ListByGateway(ctx context.Context, gateway string, limit int) ([]Record, error)
}

// Writer provides write operations for stored notifications
type Writer interface {
	Store(ctx context.Context, record Record) (string, error)
}

// Counter reports running totals, used by the metrics collector
type Counter interface {
	CountByGateway(ctx context.Context) (map[string]int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type Repository interface {
	Reader
	Writer
	Counter
	Close(ctx context.Context) error
}
