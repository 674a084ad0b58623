package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  type: sqlite
  path: ":memory:"
http:
  address: ":9000"
`), 0644))

	t.Setenv("PB_HTTP_ADDRESS", ":9100")
	t.Setenv("PB_LOGGING_LEVEL", "debug")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, ":9100", cfg.HTTP.Address)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, DefaultCooldownDays, cfg.Membership.DefaultCooldownDays)
	assert.False(t, cfg.Notify.Enabled())
}

func TestLoadConfig_ExplicitZeroCooldownIsKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("membership:\n  default_cooldown_days: 0\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Membership.DefaultCooldownDays)
}

func TestValidateConfig_RejectsBadValues(t *testing.T) {
	cfg := &Config{}
	SetDefaults(cfg)
	cfg.Database.Type = "mysql"
	cfg.Logging.Format = "xml"

	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.type")
	assert.Contains(t, err.Error(), "logging.format")
}

func TestValidateConfig_PostgresNeedsURLOrHost(t *testing.T) {
	cfg := &Config{}
	SetDefaults(cfg)
	cfg.Database.Host = ""
	cfg.Database.Name = ""

	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.host")
	assert.Contains(t, err.Error(), "database.name")

	cfg.Database.URL = "postgresql://pb:secret@db:5432/portbattle"
	assert.NoError(t, ValidateConfig(cfg))

	cfg.Database.URL = ""
	cfg.Database.Type = DatabaseTypeSQLite
	assert.NoError(t, ValidateConfig(cfg))
}

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{name: "sqlite defaults to memory", cfg: DatabaseConfig{Type: DatabaseTypeSQLite}, want: SQLiteMemoryPath},
		{name: "sqlite file", cfg: DatabaseConfig{Type: DatabaseTypeSQLite, Path: "/var/lib/pb.db"}, want: "/var/lib/pb.db"},
		{name: "postgres url wins", cfg: DatabaseConfig{Type: DatabaseTypePostgres, URL: "postgres://db/pb", Host: "ignored"}, want: "postgres://db/pb"},
		{
			name: "postgres fields",
			cfg:  DatabaseConfig{Type: DatabaseTypePostgres, Host: "db", Port: 5432, User: "pb", Password: "pw", Name: "pb", SSLMode: "disable"},
			want: "host=db port=5432 user=pb password=pw dbname=pb sslmode=disable",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.DSN())
		})
	}
}

func TestUserConfigHandler_RoundTrip(t *testing.T) {
	h, err := NewUserConfigHandlerAt(t.TempDir())
	require.NoError(t, err)

	cfg, err := h.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.DefaultActor)

	require.NoError(t, h.SetDefaultActor("admin-1"))
	require.NoError(t, h.SetDefaultBattle("battle-9"))

	cfg, err = h.Load()
	require.NoError(t, err)
	assert.Equal(t, "admin-1", cfg.DefaultActor)
	assert.Equal(t, "battle-9", cfg.DefaultBattleID)

	require.NoError(t, h.Clear())
	cfg, err = h.Load()
	require.NoError(t, err)
	assert.Equal(t, UserConfig{}, *cfg)
}

func TestValidator_InvalidFieldsUseNameTag(t *testing.T) {
	type body struct {
		PortName string `json:"portName" validate:"required"`
		BRLimit  int    `json:"brLimit" validate:"min=1"`
		Note     string `json:"note"`
	}

	fields, err := NewValidator("json").InvalidFields(&body{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"portName", "brLimit"}, fields)

	fields, err = NewValidator("json").InvalidFields(&body{PortName: "Fort Royal", BRLimit: 500})
	require.NoError(t, err)
	assert.Empty(t, fields)

	_, err = NewValidator("json").InvalidFields(42)
	assert.Error(t, err)
}
