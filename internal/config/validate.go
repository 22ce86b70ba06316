package config

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.RoleCacheTTL <= 0 {
		return fmt.Errorf("auth.role_cache_ttl must be > 0 (got %v)", c.Auth.RoleCacheTTL)
	}

	if err := c.Inbox.validate(); err != nil {
		return fmt.Errorf("inbox: %w", err)
	}
	if err := c.Pricing.validate(); err != nil {
		return fmt.Errorf("pricing: %w", err)
	}
	if err := c.Realtime.validate(); err != nil {
		return fmt.Errorf("realtime: %w", err)
	}

	if c.EmailWebhook.Tolerance < time.Second {
		return fmt.Errorf("email_webhook.tolerance must be >= 1s (got %v)", c.EmailWebhook.Tolerance)
	}
	if c.RateLimit.PublicPerMinute <= 0 {
		return fmt.Errorf("ratelimit.public_per_minute must be > 0 (got %d)", c.RateLimit.PublicPerMinute)
	}

	return nil
}

func (i *InboxConfig) validate() error {
	if i.BookingSortField != "created_at" && i.BookingSortField != "event_date" {
		return fmt.Errorf("booking_sort_field must be created_at or event_date (got %q)", i.BookingSortField)
	}
	if i.DefaultLimit <= 0 {
		return fmt.Errorf("default_limit must be > 0 (got %d)", i.DefaultLimit)
	}
	if i.MaxLimit < i.DefaultLimit {
		return fmt.Errorf("max_limit must be >= default_limit (got %d < %d)", i.MaxLimit, i.DefaultLimit)
	}
	return nil
}

func (p *PricingConfig) validate() error {
	if p.TierBasePrice <= 0 {
		return fmt.Errorf("tier_base_price must be > 0 (got %v)", p.TierBasePrice)
	}
	if p.TierBaseGuests <= 0 {
		return fmt.Errorf("tier_base_guests must be > 0 (got %d)", p.TierBaseGuests)
	}

	p.TierPackageID = uuid.Nil
	if p.TierPackageIDRaw != "" {
		id, err := uuid.Parse(p.TierPackageIDRaw)
		if err != nil {
			return fmt.Errorf("tier_package_id: %w", err)
		}
		p.TierPackageID = id
	}
	if p.TierPackageID == uuid.Nil && !p.MatchByBasePrice {
		return fmt.Errorf("tier_package_id is required when match_tier_by_price is disabled")
	}
	return nil
}

// TriggerNotifyChannel is the channel the notify_table_change trigger publishes on.
const TriggerNotifyChannel = "table_changes"

func (r *RealtimeConfig) validate() error {
	if r.NotifyChannel != TriggerNotifyChannel {
		return fmt.Errorf("notify_channel must be %q to match the change trigger (got %q)", TriggerNotifyChannel, r.NotifyChannel)
	}
	if r.CoalesceWindow < 0 {
		return fmt.Errorf("coalesce_window must be >= 0 (got %v)", r.CoalesceWindow)
	}
	if r.ReconnectBackoff <= 0 || r.MaxBackoff < r.ReconnectBackoff {
		return fmt.Errorf("reconnect_backoff must be > 0 and <= max_backoff (got %v, %v)", r.ReconnectBackoff, r.MaxBackoff)
	}
	return nil
}
