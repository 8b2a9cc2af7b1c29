package metrics

import "context"

// Collector gathers inbox totals for the observable gauges
type Collector interface {
	// GetStoredCounts returns the number of notifications accepted per gateway
	GetStoredCounts(ctx context.Context) (map[string]int64, error)

	// GetStatusCounts returns the number of notifications accepted per payment status
	GetStatusCounts(ctx context.Context) (map[string]int64, error)
}
