package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/parkwarden/parkwarden/internal/shared/config"
)

type Config struct {
	Server   sharedConfig.ServerConfig   `mapstructure:"server"`
	Database sharedConfig.DatabaseConfig `mapstructure:"database"`
	Logger   sharedConfig.LoggerConfig   `mapstructure:"logger"`
	Auth     sharedConfig.AuthConfig     `mapstructure:"auth"`
	Redis    sharedConfig.RedisConfig    `mapstructure:"redis"`
	RabbitMQ sharedConfig.RabbitMQConfig `mapstructure:"rabbitmq"`
	Tickets  sharedConfig.TicketsConfig  `mapstructure:"tickets"`
	Label    sharedConfig.LabelConfig    `mapstructure:"label"`
	Casbin   sharedConfig.CasbinConfig   `mapstructure:"casbin"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables.
// An explicit configPath takes precedence over the search paths.
func Load(env string, configPath ...string) (*Config, error) {
	v := viper.New()

	if len(configPath) > 0 && configPath[0] != "" {
		v.SetConfigFile(configPath[0])
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix("PARKWARDEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the last loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func (c *Config) validate() error {
	switch c.Tickets.UnresolvedViolationPolicy {
	case "skip", "reject":
	default:
		return fmt.Errorf("tickets.unresolved_violation_policy must be skip or reject, got %q", c.Tickets.UnresolvedViolationPolicy)
	}
	if c.Tickets.SearchMaxRows <= 0 {
		return fmt.Errorf("tickets.search_max_rows must be positive")
	}
	if c.Tickets.IssueRatePerMinute < 0 || c.Tickets.IssueRatePerHour < 0 {
		return fmt.Errorf("tickets issue rate limits cannot be negative")
	}
	if c.Label.WidthDots <= 0 || c.Label.DPI <= 0 {
		return fmt.Errorf("label.width_dots and label.dpi must be positive")
	}
	switch c.Label.DisclaimerFormat {
	case "text", "markdown":
	default:
		return fmt.Errorf("label.disclaimer_format must be text or markdown, got %q", c.Label.DisclaimerFormat)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.shutdown_timeout_seconds", 15)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "parkwarden_dev")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("database.statement_timeout_seconds", 30)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Auth defaults
	v.SetDefault("auth.jwt.secret", "change-me-in-production")
	v.SetDefault("auth.jwt.issuer", "")

	// Redis defaults (empty host disables the settings cache)
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.settings_ttl_seconds", 300)

	// RabbitMQ defaults (empty url disables audit publishing)
	v.SetDefault("rabbitmq.url", "")
	v.SetDefault("rabbitmq.exchange", "parkwarden.audit")

	// Ticket defaults
	v.SetDefault("tickets.search_max_rows", 500)
	v.SetDefault("tickets.unresolved_violation_policy", "skip")
	v.SetDefault("tickets.issue_rate_per_minute", 30)
	v.SetDefault("tickets.issue_rate_per_hour", 0)

	// Label defaults: 4in x 12in media at 203dpi
	v.SetDefault("label.timezone", "America/Chicago")
	v.SetDefault("label.dpi", 203)
	v.SetDefault("label.width_dots", 812)
	v.SetDefault("label.max_length_dots", 2436)
	v.SetDefault("label.logo_graphic", "")
	v.SetDefault("label.logo_height_dots", 0)
	v.SetDefault("label.disclaimer_format", "text")

	v.SetDefault("casbin.model_path", "")
}
