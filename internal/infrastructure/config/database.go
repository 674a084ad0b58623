package config

import (
	"fmt"
	"time"
)

// Supported database types
const (
	DatabaseTypePostgres = "postgres"
	DatabaseTypeSQLite   = "sqlite"
)

// SQLiteMemoryPath opens a private in-memory sqlite database
const SQLiteMemoryPath = ":memory:"

// DatabaseConfig selects the store behind the battle repositories. Postgres is
// the production store; sqlite serves tests and single-node trials.
type DatabaseConfig struct {
	Type string `mapstructure:"type" validate:"required,oneof=postgres sqlite"`

	// Full postgres URL; wins over the individual fields below
	URL string `mapstructure:"url"`

	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`

	// sqlite file; empty means in-memory
	Path string `mapstructure:"path"`

	Pool PoolConfig `mapstructure:"pool"`
}

// PoolConfig bounds the postgres connection pool
type PoolConfig struct {
	MaxOpen     int           `mapstructure:"max_open" validate:"min=1"`
	MaxIdle     int           `mapstructure:"max_idle" validate:"min=1"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
}

// IsSQLite reports whether the sqlite driver is selected
func (c DatabaseConfig) IsSQLite() bool {
	return c.Type == DatabaseTypeSQLite
}

// DSN returns the driver connection string: the URL or keyword DSN for
// postgres, the file path for sqlite
func (c DatabaseConfig) DSN() string {
	if c.IsSQLite() {
		if c.Path == "" {
			return SQLiteMemoryPath
		}
		return c.Path
	}
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}
