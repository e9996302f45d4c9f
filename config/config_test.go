package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerhub/placement-hub/pkg/logger"
)

func noEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "placement-hub", cfg.App.Name)
	assert.Equal(t, EnvDevelopment, cfg.App.Environment)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, LockingLocal, cfg.Locking.Driver)
	assert.Equal(t, IDsSequence, cfg.IDs.Strategy)
	assert.Equal(t, 30*time.Second, cfg.Locking.TTL)
	assert.Equal(t, "@every 1h", cfg.Scheduler.CloseExpired)
	assert.Equal(t, "placement-hub:events", cfg.Events.Channel)
	assert.True(t, cfg.Ops.Enabled)
	assert.Equal(t, 8081, cfg.Ops.Port)
	assert.False(t, cfg.NeedsRedis())
	assert.Equal(t, time.UTC, cfg.Zone().Location())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DB_URL", "postgres://localhost/placement")
	t.Setenv("DB_MAX_CONNS", "20")
	t.Setenv("IDS_STRATEGY", "uuid")
	t.Setenv("LOCK_DRIVER", "redis")
	t.Setenv("LOCK_ACQUIRE_TIMEOUT", "750ms")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("APP_TIMEZONE", "Asia/Singapore")
	t.Setenv("SCHEDULER_CLOSE_EXPIRED", "5 0 * * *")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("OPS_PORT", "9090")

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/placement", cfg.Database.URL)
	assert.EqualValues(t, 20, cfg.Database.MaxConns)
	assert.Equal(t, 750*time.Millisecond, cfg.Locking.AcquireTimeout)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "5 0 * * *", cfg.Scheduler.CloseExpired)
	assert.True(t, cfg.NeedsRedis())
	assert.Equal(t, "Asia/Singapore", cfg.Zone().Location().String())
	assert.Equal(t, logger.LevelDebug, cfg.LoggerOptions().Level)
	assert.Equal(t, 9090, cfg.Ops.Port)
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("APP_NAME=from-dotenv\nEVENTS_WORKERS=4\n"), 0o600))
	t.Setenv("EVENTS_WORKERS", "6")
	t.Cleanup(func() { _ = os.Unsetenv("APP_NAME") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.App.Name)
	assert.Equal(t, 6, cfg.Events.Workers, "real environment wins over .env")
}

func TestLoad_ParseError(t *testing.T) {
	t.Setenv("LOCK_TTL", "forever")
	_, err := Load(noEnvFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestValidate(t *testing.T) {
	valid := func(t *testing.T) *Config {
		t.Helper()
		cfg, err := Load(noEnvFile(t))
		require.NoError(t, err)
		return cfg
	}

	cases := map[string]func(c *Config){
		"unknown env":            func(c *Config) { c.App.Environment = "qa" },
		"bad timezone":           func(c *Config) { c.App.Timezone = "Nowhere/City" },
		"postgres without url":   func(c *Config) { c.Storage.Driver = StoragePostgres; c.IDs.Strategy = IDsUUID },
		"memory in production":   func(c *Config) { c.App.Environment = EnvProduction },
		"unknown storage":        func(c *Config) { c.Storage.Driver = "sqlite" },
		"unknown locker":         func(c *Config) { c.Locking.Driver = "etcd" },
		"zero ttl":               func(c *Config) { c.Locking.TTL = 0 },
		"sequence with postgres": func(c *Config) { c.Storage.Driver = StoragePostgres; c.Database.URL = "postgres://x" },
		"unknown id strategy":    func(c *Config) { c.IDs.Strategy = "snowflake" },
		"redis without addr":     func(c *Config) { c.Events.RedisEnabled = true; c.Redis.Addr = "" },
		"redis db range":         func(c *Config) { c.Redis.DB = 16 },
		"no workers":             func(c *Config) { c.Events.Workers = 0 },
		"empty schedule":         func(c *Config) { c.Scheduler.CloseExpired = " " },
		"log format":             func(c *Config) { c.Observability.Format = "xml" },
		"ops port":               func(c *Config) { c.Ops.Port = 70000 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid(t)
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
