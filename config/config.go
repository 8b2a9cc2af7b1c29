package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/marcelsud/notification-inbox/notification"
	"github.com/spf13/viper"
)

/* Config is read from an optional .env file (TOML) in the working
 * directory; environment variables take precedence
 */
type Config struct {
	Port                 string `mapstructure:"PORT"`
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisDB              int    `mapstructure:"REDIS_DB"`
	IntegrationMode      string `mapstructure:"INTEGRATION_MODE"`
	GatewaysFile         string `mapstructure:"GATEWAYS_FILE"`
	TrustForwardedFor    bool   `mapstructure:"TRUST_FORWARDED_FOR"`
	NotificationTTLHours int    `mapstructure:"NOTIFICATION_TTL_HOURS"`
	MaxBodyBytes         int64  `mapstructure:"MAX_BODY_BYTES"`
}

var defaults = map[string]any{
	"PORT":                   "8080",
	"REDIS_ADDR":             "localhost:6379",
	"REDIS_PASSWORD":         "",
	"REDIS_DB":               0,
	"INTEGRATION_MODE":       "production",
	"GATEWAYS_FILE":          "gateways.yaml",
	"TRUST_FORWARDED_FOR":    false,
	"NOTIFICATION_TTL_HOURS": 0,
	"MAX_BODY_BYTES":         64 << 10,
}

// GetConfig reads the configuration from the working directory and the environment
func GetConfig() (*Config, error) {
	return GetConfigFrom(".")
}

// GetConfigFrom is GetConfig with the .env file looked up in dir
func GetConfigFrom(dir string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigName(".env")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)
	v.AutomaticEnv()

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	if _, err := config.Mode(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &config, nil
}

// Mode returns the parsed INTEGRATION_MODE
func (c *Config) Mode() (notification.Mode, error) {
	return notification.ParseMode(c.IntegrationMode)
}

// NotificationTTL returns how long stored notifications are kept; zero means forever
func (c *Config) NotificationTTL() time.Duration {
	if c.NotificationTTLHours <= 0 {
		return 0
	}
	return time.Duration(c.NotificationTTLHours) * time.Hour
}
