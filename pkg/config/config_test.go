package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validJournalConfig() *JournalConfig {
	cfg := NewJournalConfig()
	cfg.Auth.JWTSecret = "jwt-secret"
	cfg.Auth.SessionSecret = "session-secret"
	return cfg
}

func TestJournalConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*JournalConfig)
		wantErr string
	}{
		{name: "defaults with secrets", mutate: func(*JournalConfig) {}},
		{name: "missing jwt secret", mutate: func(c *JournalConfig) { c.Auth.JWTSecret = "" }, wantErr: "JWT secret"},
		{name: "bad driver", mutate: func(c *JournalConfig) { c.Database.Driver = "mysql" }, wantErr: "unsupported database driver"},
		{name: "kafka without brokers", mutate: func(c *JournalConfig) { c.Events.Driver = EventsKafka }, wantErr: "events.kafka.brokers"},
		{name: "s3 without bucket", mutate: func(c *JournalConfig) { c.Storage.Type = StorageS3 }, wantErr: "storage.s3.bucket"},
		{name: "zero featured limit", mutate: func(c *JournalConfig) { c.Journal.FeaturedLimit = 0 }, wantErr: "featured limit"},
		{name: "sqlite", mutate: func(c *JournalConfig) { c.Database.Driver = DriverSQLite }},
		{name: "unbounded queries", mutate: func(c *JournalConfig) { c.Journal.MaxQueryLimit = 0 }},
		{name: "query cap below latest", mutate: func(c *JournalConfig) { c.Journal.MaxQueryLimit = 2 }, wantErr: "max query limit"},
		{name: "negative query cap", mutate: func(c *JournalConfig) { c.Journal.MaxQueryLimit = -1 }, wantErr: "max query limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validJournalConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestManager_LoadConfig_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
service:
  port: 8181
database:
  driver: sqlite
  sqlite_path: from-file.db
journal:
  latest_limit: 8
`), 0o600))

	t.Setenv("JOURNAL_AUTH_JWT_SECRET", "jwt-secret")
	t.Setenv("JOURNAL_AUTH_SESSION_SECRET", "session-secret")
	t.Setenv("JOURNAL_DATABASE_SQLITE_PATH", "from-env.db")
	t.Setenv("JOURNAL_JOURNAL_SHARED_EDITING", "false")
	t.Setenv("JOURNAL_NOT_A_KEY", "ignored")

	cfg := NewJournalConfig()
	err := NewManager("journal").WithPaths(path).LoadConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "journal", cfg.Service.Name)
	assert.Equal(t, 8181, cfg.Service.Port)
	assert.Equal(t, DefaultGRPCPort, cfg.Service.GRPCPort)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "from-env.db", cfg.Database.SQLitePath)
	assert.Equal(t, 8, cfg.Journal.LatestLimit)
	assert.Equal(t, DefaultFeaturedLimit, cfg.Journal.FeaturedLimit)
	assert.False(t, cfg.Journal.SharedEditing)
	assert.Equal(t, "jwt-secret", cfg.Auth.JWTSecret)
}

func TestManager_LoadConfig_ValidationFailure(t *testing.T) {
	cfg := NewJournalConfig()
	err := NewManager("journal").WithPaths().LoadConfig(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestListenAddresses(t *testing.T) {
	cfg := &ServiceConfig{Port: 8080, GRPCPort: 9090}
	assert.Equal(t, ":8080", GetListenAddress(cfg))
	assert.Equal(t, ":9090", GetGRPCListenAddress(cfg))
}
