package config

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Config is the root application configuration.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Auth         AuthConfig         `yaml:"auth"`
	Log          LogConfig          `yaml:"log"`
	CORS         CORSConfig         `yaml:"cors"`
	RateLimit    RateLimitConfig    `yaml:"ratelimit"`
	Redis        RedisConfig        `yaml:"redis"`
	Realtime     RealtimeConfig     `yaml:"realtime"`
	Inbox        InboxConfig        `yaml:"inbox"`
	Pricing      PricingConfig      `yaml:"pricing"`
	Invoicing    InvoicingConfig    `yaml:"invoicing"`
	EmailWebhook EmailWebhookConfig `yaml:"email_webhook"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds access-token verification settings for the hosted identity provider.
type AuthConfig struct {
	JWTSecret    string        `yaml:"jwt_secret"     env:"AUTH_JWT_SECRET"     env-required:"true"`
	JWTIssuer    string        `yaml:"jwt_issuer"     env:"AUTH_JWT_ISSUER"`
	JWTAudience  string        `yaml:"jwt_audience"   env:"AUTH_JWT_AUDIENCE"   env-default:"authenticated"`
	RoleCacheTTL time.Duration `yaml:"role_cache_ttl" env:"AUTH_ROLE_CACHE_TTL" env-default:"5m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RateLimitConfig limits unauthenticated public submissions per client IP.
type RateLimitConfig struct {
	PublicPerMinute int           `yaml:"public_per_minute" env:"RATELIMIT_PUBLIC_PER_MINUTE" env-default:"10"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"  env:"RATELIMIT_CLEANUP_INTERVAL"  env-default:"5m"`
}

// RedisConfig configures the shared presence broker. An empty Addr selects the
// in-process broker.
type RedisConfig struct {
	Addr     string `yaml:"addr"     env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"       env:"REDIS_DB"       env-default:"0"`
}

// RealtimeConfig holds change-notification settings.
type RealtimeConfig struct {
	NotifyChannel    string        `yaml:"notify_channel"    env:"REALTIME_NOTIFY_CHANNEL"    env-default:"table_changes"`
	CoalesceWindow   time.Duration `yaml:"coalesce_window"   env:"REALTIME_COALESCE_WINDOW"   env-default:"250ms"`
	ReconnectBackoff time.Duration `yaml:"reconnect_backoff" env:"REALTIME_RECONNECT_BACKOFF" env-default:"1s"`
	MaxBackoff       time.Duration `yaml:"max_backoff"       env:"REALTIME_MAX_BACKOFF"       env-default:"30s"`
}

// InboxConfig holds unified inbox settings.
type InboxConfig struct {
	BookingSortField string `yaml:"booking_sort_field" env:"INBOX_BOOKING_SORT_FIELD" env-default:"created_at"`
	DefaultLimit     int    `yaml:"default_limit"      env:"INBOX_DEFAULT_LIMIT"      env-default:"50"`
	MaxLimit         int    `yaml:"max_limit"          env:"INBOX_MAX_LIMIT"          env-default:"200"`
}

// PricingConfig identifies the tiered event package.
type PricingConfig struct {
	TierPackageIDRaw string  `yaml:"tier_package_id"     env:"PRICING_TIER_PACKAGE_ID"`
	TierBasePrice    float64 `yaml:"tier_base_price"     env:"PRICING_TIER_BASE_PRICE"     env-default:"8500"`
	TierBaseGuests   int     `yaml:"tier_base_guests"    env:"PRICING_TIER_BASE_GUESTS"    env-default:"70"`
	MatchByBasePrice bool    `yaml:"match_tier_by_price" env:"PRICING_MATCH_TIER_BY_PRICE" env-default:"true"`

	// TierPackageID is parsed from TierPackageIDRaw during validation.
	TierPackageID uuid.UUID `yaml:"-" env:"-"`
}

// InvoicingConfig holds the invoice provider client settings.
type InvoicingConfig struct {
	BaseURL string        `yaml:"base_url" env:"INVOICING_BASE_URL"`
	APIKey  string        `yaml:"api_key"  env:"INVOICING_API_KEY"`
	Timeout time.Duration `yaml:"timeout"  env:"INVOICING_TIMEOUT"  env-default:"15s"`
}

// Enabled reports whether the invoice provider is configured.
func (c InvoicingConfig) Enabled() bool {
	return c.BaseURL != "" && c.APIKey != ""
}

// EmailWebhookConfig holds delivery webhook verification settings.
type EmailWebhookConfig struct {
	Secret    string        `yaml:"secret"    env:"EMAIL_WEBHOOK_SECRET"`
	Tolerance time.Duration `yaml:"tolerance" env:"EMAIL_WEBHOOK_TOLERANCE" env-default:"300s"`
}

// Origins splits the comma-separated allowed origins.
func (c CORSConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
