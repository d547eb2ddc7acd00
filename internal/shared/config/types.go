package config

import "fmt"

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
	// ShutdownTimeoutSeconds bounds graceful shutdown of the HTTP server.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	// StatementTimeoutSeconds bounds every statement; the service adds no timeout of its own.
	StatementTimeoutSeconds int `mapstructure:"statement_timeout_seconds"`
}

// GetDSN returns a MySQL DSN. Times are stored and parsed as UTC.
func (d *DatabaseConfig) GetDSN() string {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
	if d.StatementTimeoutSeconds > 0 {
		dsn += fmt.Sprintf("&readTimeout=%ds&writeTimeout=%ds", d.StatementTimeoutSeconds, d.StatementTimeoutSeconds)
	}
	return dsn
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
}

type RedisConfig struct {
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port"`
	Password           string `mapstructure:"password"`
	DB                 int    `mapstructure:"db"`
	SettingsTTLSeconds int    `mapstructure:"settings_ttl_seconds"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Enabled reports whether a redis host is configured.
func (r *RedisConfig) Enabled() bool {
	return r.Host != ""
}

type RabbitMQConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

// Enabled reports whether audit events should also be published to RabbitMQ.
func (r *RabbitMQConfig) Enabled() bool {
	return r.URL != ""
}

type TicketsConfig struct {
	SearchMaxRows int `mapstructure:"search_max_rows"`
	// UnresolvedViolationPolicy is "skip" or "reject".
	UnresolvedViolationPolicy string `mapstructure:"unresolved_violation_policy"`
	// IssueRatePerMinute caps ticket creation per caller; zero disables it.
	// The limit is only enforced when redis is configured.
	IssueRatePerMinute int `mapstructure:"issue_rate_per_minute"`
	IssueRatePerHour   int `mapstructure:"issue_rate_per_hour"`
}

// LabelConfig holds the printer settings used when none are persisted.
type LabelConfig struct {
	Timezone       string `mapstructure:"timezone"`
	DPI            int    `mapstructure:"dpi"`
	WidthDots      int    `mapstructure:"width_dots"`
	MaxLengthDots  int    `mapstructure:"max_length_dots"`
	LogoGraphic    string `mapstructure:"logo_graphic"`
	LogoHeightDots int    `mapstructure:"logo_height_dots"`
	// DisclaimerFormat is "text" (lines printed as written) or "markdown".
	DisclaimerFormat string `mapstructure:"disclaimer_format"`
}

type CasbinConfig struct {
	// ModelPath is optional; the built-in property access model is used when empty.
	ModelPath string `mapstructure:"model_path"`
}
