package gateways

import (
	"fmt"

	"github.com/marcelsud/notification-inbox/notification"
)

/* Notification is the full contract of a parsed gateway callback
 * Variants get everything but Status, Gross and TransactionID from
 * the embedded *notification.Notification
 */
type Notification interface {
	notification.Gateway
	TransactionID() string
	Raw() string
	Fields() notification.Fields
	Get(key string) string
	ValidSender(ip string, opts ...notification.SenderOption) bool
}

/* Definition registers a gateway variant
 * New wraps an already parsed base notification into the variant
 */
type Definition struct {
	Name string
	New  func(base *notification.Notification) Notification
}

// Config is the per-gateway configuration read from gateways.yaml
type Config struct {
	Name          string
	ProductionIPs []string
	Options       map[string]string

	allowList notification.AllowList
}

// AllowList returns the parsed production IPs. Only valid after Validate.
func (c *Config) AllowList() notification.AllowList {
	return c.allowList
}

// Validate checks the configuration and parses the allow-list
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	list, err := notification.NewAllowList(c.ProductionIPs)
	if err != nil {
		return fmt.Errorf("invalid production_ips for gateway %s: %w", c.Name, err)
	}
	c.allowList = list
	return nil
}
