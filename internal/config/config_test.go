package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "50051", cfg.Server.GRPCPort)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Redis.BoardTTL)
	assert.Equal(t, 500, cfg.Board.MaxReorderBatch)
	assert.True(t, cfg.IsDevelopment())
	assert.NoError(t, cfg.ValidateConfig())
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=taskboard sslmode=disable", cfg.DatabaseDSN())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("GRPC_PORT", "6000")
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DB_NAME", "boards")
	t.Setenv("REDIS_BOARD_TTL", "90s")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("BOARD_MAX_REORDER_BATCH", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "6000", cfg.Server.GRPCPort)
	assert.False(t, cfg.Server.AutoMigrate)
	assert.Equal(t, 90*time.Second, cfg.Redis.BoardTTL)
	assert.Equal(t, 500, cfg.Board.MaxReorderBatch)
	assert.Equal(t, "file:boards.db?_fk=1&_busy_timeout=5000&_journal_mode=WAL", cfg.DatabaseDSN())
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid development", mutate: func(*Config) {}},
		{name: "bad driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: "unsupported DB_DRIVER"},
		{name: "zero batch", mutate: func(c *Config) { c.Board.MaxReorderBatch = 0 }, wantErr: "BOARD_MAX_REORDER_BATCH"},
		{
			name:    "production with dev secret",
			mutate:  func(c *Config) { c.Server.Environment = "production" },
			wantErr: "JWT_SECRET",
		},
		{
			name: "production ok",
			mutate: func(c *Config) {
				c.Server.Environment = "production"
				c.JWT.Secret = "0123456789abcdef0123456789abcdef"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.ValidateConfig()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
