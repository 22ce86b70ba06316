package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

// validEnv sets the minimum required env vars for a valid config.
func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
	t.Setenv("AUTH_JWT_SECRET", "this-is-a-very-long-jwt-secret-for-testing-32+")
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"
  shutdown_timeout: "5s"

database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 10
  min_conns: 2

auth:
  jwt_secret: "this-is-a-very-long-jwt-secret-for-testing-32+"
  jwt_audience: "authenticated"
  role_cache_ttl: "2m"

log:
  level: "debug"
  format: "text"

realtime:
  notify_channel: "table_changes"
  coalesce_window: "100ms"

inbox:
  booking_sort_field: "event_date"
  default_limit: 25
  max_limit: 100

pricing:
  tier_package_id: "6f4c2a8e-1d7b-4c3e-9a5f-2b8d0e7c1a44"
  tier_base_price: 8500
  tier_base_guests: 70

email_webhook:
  secret: "whsec_c2VjcmV0"
  tolerance: "300s"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Server
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server.read_timeout = %v, want %v", cfg.Server.ReadTimeout, 5*time.Second)
	}

	// Database
	if cfg.Database.MaxConns != 10 {
		t.Errorf("database.max_conns = %d, want 10", cfg.Database.MaxConns)
	}

	// Auth
	if cfg.Auth.RoleCacheTTL != 2*time.Minute {
		t.Errorf("auth.role_cache_ttl = %v, want 2m", cfg.Auth.RoleCacheTTL)
	}

	// Realtime
	if cfg.Realtime.CoalesceWindow != 100*time.Millisecond {
		t.Errorf("realtime.coalesce_window = %v, want 100ms", cfg.Realtime.CoalesceWindow)
	}
	if cfg.Realtime.ReconnectBackoff != time.Second {
		t.Errorf("realtime.reconnect_backoff = %v, want 1s (default)", cfg.Realtime.ReconnectBackoff)
	}

	// Inbox
	if cfg.Inbox.BookingSortField != "event_date" {
		t.Errorf("inbox.booking_sort_field = %q, want event_date", cfg.Inbox.BookingSortField)
	}
	if cfg.Inbox.DefaultLimit != 25 {
		t.Errorf("inbox.default_limit = %d, want 25", cfg.Inbox.DefaultLimit)
	}

	// Pricing
	want := uuid.MustParse("6f4c2a8e-1d7b-4c3e-9a5f-2b8d0e7c1a44")
	if cfg.Pricing.TierPackageID != want {
		t.Errorf("pricing.tier_package_id = %s, want %s", cfg.Pricing.TierPackageID, want)
	}
	if !cfg.Pricing.MatchByBasePrice {
		t.Error("pricing.match_tier_by_price should default to true")
	}

	// Webhook
	if cfg.EmailWebhook.Tolerance != 300*time.Second {
		t.Errorf("email_webhook.tolerance = %v, want 300s", cfg.EmailWebhook.Tolerance)
	}

	// Log
	if cfg.Log.Format != "text" {
		t.Errorf("log.format = %q, want %q", cfg.Log.Format, "text")
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("INBOX_BOOKING_SORT_FIELD", "created_at")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000 (ENV override)", cfg.Server.Port)
	}
	if cfg.Inbox.BookingSortField != "created_at" {
		t.Errorf("inbox.booking_sort_field = %q, want created_at (ENV override)", cfg.Inbox.BookingSortField)
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	validEnv(t)
	t.Setenv("CONFIG_PATH", "")

	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080 (default)", cfg.Server.Port)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("redis.addr = %q, want empty (default)", cfg.Redis.Addr)
	}
	if cfg.Pricing.TierBaseGuests != 70 {
		t.Errorf("pricing.tier_base_guests = %d, want 70 (default)", cfg.Pricing.TierBaseGuests)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("AUTH_JWT_SECRET", "")
	// godotenv never overrides existing variables, so clear them first.
	os.Unsetenv("DATABASE_DSN")
	os.Unsetenv("AUTH_JWT_SECRET")

	dir := t.TempDir()
	dotenv := "DATABASE_DSN=postgres://dotenv@localhost/db\nAUTH_JWT_SECRET=dotenv-secret-that-is-long-enough-0123456789\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	origDir, _ := os.Getwd()
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
		os.Unsetenv("DATABASE_DSN")
		os.Unsetenv("AUTH_JWT_SECRET")
	})
	_ = os.Chdir(dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.DSN != "postgres://dotenv@localhost/db" {
		t.Errorf("database.dsn = %q, want value from .env", cfg.Database.DSN)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "short jwt secret", mutate: func(c *Config) { c.Auth.JWTSecret = "short" }, wantErr: true},
		{name: "empty jwt secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: true},
		{name: "zero role cache ttl", mutate: func(c *Config) { c.Auth.RoleCacheTTL = 0 }, wantErr: true},
		{name: "unknown booking sort field", mutate: func(c *Config) { c.Inbox.BookingSortField = "updated_at" }, wantErr: true},
		{name: "max limit below default", mutate: func(c *Config) { c.Inbox.MaxLimit = 10 }, wantErr: true},
		{name: "zero tier base guests", mutate: func(c *Config) { c.Pricing.TierBaseGuests = 0 }, wantErr: true},
		{name: "negative tier base price", mutate: func(c *Config) { c.Pricing.TierBasePrice = -1 }, wantErr: true},
		{name: "malformed tier package id", mutate: func(c *Config) { c.Pricing.TierPackageIDRaw = "not-a-uuid" }, wantErr: true},
		{
			name: "price matching disabled without id",
			mutate: func(c *Config) {
				c.Pricing.TierPackageIDRaw = ""
				c.Pricing.MatchByBasePrice = false
			},
			wantErr: true,
		},
		{
			name: "price matching disabled with id",
			mutate: func(c *Config) {
				c.Pricing.TierPackageIDRaw = uuid.NewString()
				c.Pricing.MatchByBasePrice = false
			},
		},
		{name: "empty notify channel", mutate: func(c *Config) { c.Realtime.NotifyChannel = "" }, wantErr: true},
		{name: "notify channel without trigger", mutate: func(c *Config) { c.Realtime.NotifyChannel = "inbox_changes" }, wantErr: true},
		{name: "backoff above max", mutate: func(c *Config) { c.Realtime.ReconnectBackoff = time.Minute }, wantErr: true},
		{name: "sub-second webhook tolerance", mutate: func(c *Config) { c.EmailWebhook.Tolerance = 0 }, wantErr: true},
		{name: "zero public rate limit", mutate: func(c *Config) { c.RateLimit.PublicPerMinute = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidate_ParsesTierPackageID(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	id := uuid.New()
	cfg.Pricing.TierPackageIDRaw = id.String()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Pricing.TierPackageID != id {
		t.Errorf("TierPackageID = %s, want %s", cfg.Pricing.TierPackageID, id)
	}
}

func TestCORSConfig_Origins(t *testing.T) {
	t.Parallel()

	c := CORSConfig{AllowedOrigins: " https://a.example , ,https://b.example"}
	got := c.Origins()
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Errorf("Origins() = %v", got)
	}
}

func TestInvoicingConfig_Enabled(t *testing.T) {
	t.Parallel()

	if (InvoicingConfig{BaseURL: "https://api.example"}).Enabled() {
		t.Error("expected disabled without api key")
	}
	if !(InvoicingConfig{BaseURL: "https://api.example", APIKey: "k"}).Enabled() {
		t.Error("expected enabled with base url and api key")
	}
}

func validConfig() Config {
	return Config{
		Auth: AuthConfig{
			JWTSecret:    "this-is-a-very-long-jwt-secret-for-testing-32+",
			RoleCacheTTL: 5 * time.Minute,
		},
		RateLimit: RateLimitConfig{PublicPerMinute: 10},
		Realtime: RealtimeConfig{
			NotifyChannel:    "table_changes",
			CoalesceWindow:   250 * time.Millisecond,
			ReconnectBackoff: time.Second,
			MaxBackoff:       30 * time.Second,
		},
		Inbox: InboxConfig{
			BookingSortField: "created_at",
			DefaultLimit:     50,
			MaxLimit:         200,
		},
		Pricing: PricingConfig{
			TierBasePrice:    8500,
			TierBaseGuests:   70,
			MatchByBasePrice: true,
		},
		EmailWebhook: EmailWebhookConfig{Tolerance: 300 * time.Second},
	}
}
