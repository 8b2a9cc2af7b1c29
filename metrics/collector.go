package metrics

import "context"

// Counter is the read side of the inbox repository the collector needs
type Counter interface {
	CountByGateway(ctx context.Context) (map[string]int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

/* RepositoryCollector implements Collector on top of the inbox store
 * Gateways that are registered but never received anything report 0
 */
type RepositoryCollector struct {
	counter  Counter
	gateways []string
}

// NewRepositoryCollector creates a collector; gateways lists the registered names
func NewRepositoryCollector(counter Counter, gateways []string) *RepositoryCollector {
	return &RepositoryCollector{
		counter:  counter,
		gateways: gateways,
	}
}

// GetStoredCounts returns accepted totals per gateway
func (c *RepositoryCollector) GetStoredCounts(ctx context.Context) (map[string]int64, error) {
	counts, err := c.counter.CountByGateway(ctx)
	if err != nil {
		return nil, err
	}
	stored := make(map[string]int64, len(c.gateways))
	for _, name := range c.gateways {
		stored[name] = 0
	}
	for name, n := range counts {
		stored[name] = n
	}
	return stored, nil
}

// GetStatusCounts returns accepted totals per status
func (c *RepositoryCollector) GetStatusCounts(ctx context.Context) (map[string]int64, error) {
	return c.counter.CountByStatus(ctx)
}
