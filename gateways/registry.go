package gateways

import (
	"errors"
	"fmt"
	"sort"

	"github.com/marcelsud/notification-inbox/notification"
)

// ErrGatewayNotFound is returned for gateway names nobody registered
var ErrGatewayNotFound = errors.New("gateway not found")

type entry struct {
	def Definition
	cfg Config
}

/* Registry maps gateway names to their variant and configuration
 * It is filled at startup and read-only afterwards
 */
type Registry struct {
	mode    notification.Mode
	entries map[string]*entry
}

// NewRegistry creates a registry for the given integration mode
func NewRegistry(mode notification.Mode, defs ...Definition) (*Registry, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}
	r := &Registry{
		mode:    mode,
		entries: make(map[string]*entry, len(defs)),
	}
	for _, def := range defs {
		if def.Name == "" || def.New == nil {
			return nil, fmt.Errorf("gateway definition needs a name and a constructor")
		}
		if _, exists := r.entries[def.Name]; exists {
			return nil, fmt.Errorf("gateway %s registered twice", def.Name)
		}
		r.entries[def.Name] = &entry{def: def, cfg: Config{Name: def.Name}}
	}
	return r, nil
}

// Configure attaches a loaded config to a registered gateway
func (r *Registry) Configure(cfg *Config) error {
	e, exists := r.entries[cfg.Name]
	if !exists {
		return fmt.Errorf("configuring gateway: %w: %s", ErrGatewayNotFound, cfg.Name)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuring gateway: %w", err)
	}
	e.cfg = *cfg
	return nil
}

// ConfigureAll applies every config of a loader
func (r *Registry) ConfigureAll(l *Loader) error {
	for _, cfg := range l.List() {
		if err := r.Configure(cfg); err != nil {
			return err
		}
	}
	return nil
}

// Mode returns the integration mode notifications are built with
func (r *Registry) Mode() notification.Mode {
	return r.mode
}

// Parse builds the notification of the named gateway from a raw body
func (r *Registry) Parse(name string, raw []byte) (Notification, error) {
	e, exists := r.entries[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGatewayNotFound, name)
	}

	opts := []notification.Option{
		notification.WithAllowList(e.cfg.AllowList()),
		notification.WithMode(r.mode),
	}
	for k, v := range e.cfg.Options {
		opts = append(opts, notification.WithOption(k, v))
	}

	return e.def.New(notification.New(raw, opts...)), nil
}

// Get returns the config of a registered gateway
func (r *Registry) Get(name string) (Config, error) {
	e, exists := r.entries[name]
	if !exists {
		return Config{}, fmt.Errorf("%w: %s", ErrGatewayNotFound, name)
	}
	return e.cfg, nil
}

// Exists checks if a gateway is registered
func (r *Registry) Exists(name string) bool {
	_, exists := r.entries[name]
	return exists
}

// Names returns the registered gateway names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
