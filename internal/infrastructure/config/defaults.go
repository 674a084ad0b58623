package config

import "time"

// DefaultCooldownDays is the rejection cooldown when none is configured
const DefaultCooldownDays = 30

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "portbattle"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "portbattle"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// HTTP defaults
	if cfg.HTTP.Address == "" {
		cfg.HTTP.Address = ":8080"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 10 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 10 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.BodyLimit == 0 {
		cfg.HTTP.BodyLimit = 1 << 20
	}
	if cfg.HTTP.SignupRateLimit == 0 {
		cfg.HTTP.SignupRateLimit = 20
	}

	// gRPC defaults
	if cfg.GRPC.PingInterval == 0 {
		cfg.GRPC.PingInterval = 15 * time.Second
	}

	// Metrics defaults
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Notify defaults (Discord allows ~5 webhook calls per 2s)
	if cfg.Notify.RatePerSecond == 0 {
		cfg.Notify.RatePerSecond = 2
	}
	if cfg.Notify.Burst == 0 {
		cfg.Notify.Burst = 5
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.SlowRequestMillis == 0 {
		cfg.Logging.SlowRequestMillis = 500
	}
}
