// pkg/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 65536, cfg.ChunkRows)
	assert.Equal(t, 0, cfg.WorkerPoolSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("CHUNK_ROWS", "1024")
	t.Setenv("WORKER_POOL_SIZE", "4")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.ChunkRows)
	assert.Equal(t, 4, cfg.WorkerPoolSize)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{ChunkRows: 0, LogLevel: "info", LogFormat: "json"}
	assert.Error(t, cfg.Validate())

	cfg = &Config{ChunkRows: 10, WorkerPoolSize: -1, LogLevel: "info", LogFormat: "json"}
	assert.Error(t, cfg.Validate())
}

func TestBuildLogger(t *testing.T) {
	cfg := &Config{ChunkRows: 1, LogLevel: "warn", LogFormat: "console"}
	logger, err := cfg.BuildLogger()
	require.NoError(t, err)
	require.NotNil(t, logger)

	cfg.LogLevel = "not_a_level"
	_, err = cfg.BuildLogger()
	assert.Error(t, err)
}

func TestSQLConfigDSN(t *testing.T) {
	pg := &SQLConfig{
		Driver:   "postgres",
		Host:     "localhost",
		Port:     5432,
		User:     "u",
		Password: "p",
		Database: "db",
		SSLMode:  "disable",
	}
	dsn, err := pg.DSN()
	require.NoError(t, err)
	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "dbname=db")

	bad := &SQLConfig{Driver: "oracle"}
	_, err = bad.DSN()
	assert.Error(t, err)
}

func TestLoadPostgresConfigRequiresHost(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "")
	_, err := LoadPostgresConfig()
	assert.Error(t, err)
}
