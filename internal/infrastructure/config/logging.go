package config

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// Log format: json, text
	Format string `mapstructure:"format" validate:"required,oneof=json text"`

	// Slow request threshold in milliseconds for the HTTP access log
	SlowRequestMillis int `mapstructure:"slow_request_ms" validate:"min=0"`
}
