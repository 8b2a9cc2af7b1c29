package gateways

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

/* Loader reads gateway configuration from gateways.yaml
 * Every entry is validated while loading, so a bad CIDR stops the
 * process at startup instead of surfacing on the first callback
 */

// File represents the structure of gateways.yaml
type File struct {
	Gateways []FileEntry `yaml:"gateways"`
}

// FileEntry represents a single gateway in the YAML file
type FileEntry struct {
	Name          string            `yaml:"name"`
	ProductionIPs []string          `yaml:"production_ips"`
	Options       map[string]string `yaml:"options"`
}

// Loader holds the loaded gateway configs
type Loader struct {
	configs map[string]*Config
}

// NewLoader creates a new gateway config loader
func NewLoader() *Loader {
	return &Loader{
		configs: make(map[string]*Config),
	}
}

// Load reads and parses the gateways file
func (l *Loader) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading gateways file: %w", err)
	}
	return l.Parse(data)
}

// Parse loads gateway configs from YAML bytes
func (l *Loader) Parse(data []byte) error {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing gateways YAML: %w", err)
	}

	for _, entry := range file.Gateways {
		cfg := &Config{
			Name:          entry.Name,
			ProductionIPs: entry.ProductionIPs,
			Options:       entry.Options,
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("validating gateway: %w", err)
		}
		if _, exists := l.configs[cfg.Name]; exists {
			return fmt.Errorf("gateway %s is configured twice", cfg.Name)
		}
		l.configs[cfg.Name] = cfg
	}

	return nil
}

// Get retrieves a gateway config by name
func (l *Loader) Get(name string) (*Config, error) {
	cfg, exists := l.configs[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGatewayNotFound, name)
	}
	return cfg, nil
}

// List returns all loaded configs sorted by name
func (l *Loader) List() []*Config {
	configs := make([]*Config, 0, len(l.configs))
	for _, cfg := range l.configs {
		configs = append(configs, cfg)
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].Name < configs[j].Name })
	return configs
}
