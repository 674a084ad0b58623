package config

import "time"

// HTTPConfig holds the REST listener configuration
type HTTPConfig struct {
	// Listen address, e.g. ":8080"
	Address string `mapstructure:"address" validate:"required"`

	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`

	// Maximum request body in bytes
	BodyLimit int `mapstructure:"body_limit" validate:"min=1024"`

	// Submissions per minute per client IP on signup/application routes
	SignupRateLimit int `mapstructure:"signup_rate_limit" validate:"min=1"`
}

// AuthConfig configures bearer-token identity and capabilities
type AuthConfig struct {
	// HMAC secret for HS256 tokens; empty disables authentication (every caller is anonymous)
	JWTSecret string `mapstructure:"jwt_secret"`

	// Expected "iss" claim; empty accepts any issuer
	Issuer string `mapstructure:"issuer"`

	// User or Discord ids holding ADMIN
	AdminIDs []string `mapstructure:"admin_ids"`

	// Role names granting CREATE_BATTLE
	CreatorRoles []string `mapstructure:"creator_roles"`
}

// GRPCConfig configures the optional gRPC health endpoint
type GRPCConfig struct {
	// Empty disables the health server
	HealthAddress string `mapstructure:"health_address"`

	// How often the database is pinged
	PingInterval time.Duration `mapstructure:"ping_interval"`
}

// NotifyConfig configures the Discord webhook notification sink
type NotifyConfig struct {
	// Both must be set to enable notifications
	WebhookID    string `mapstructure:"webhook_id"`
	WebhookToken string `mapstructure:"webhook_token"`

	RatePerSecond float64 `mapstructure:"rate_per_second" validate:"gt=0"`
	Burst         int     `mapstructure:"burst" validate:"min=1"`
}

// Enabled reports whether a webhook is configured
func (n NotifyConfig) Enabled() bool {
	return n.WebhookID != "" && n.WebhookToken != ""
}

// MembershipConfig holds membership application settings
type MembershipConfig struct {
	// Cooldown applied on rejection when the reviewer does not choose one; 0 disables
	DefaultCooldownDays int `mapstructure:"default_cooldown_days" validate:"min=0"`
}
