package factory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/mcregbot/internal/config"
	"github.com/mcoot/mcregbot/internal/rcon"
)

func TestFromEnv(t *testing.T) {
	env := &config.Config{
		ServerHost:       "mc.example.com",
		RCONPort:         25575,
		RCONPassword:     "secret",
		RCONTimeout:      3 * time.Second,
		RequestTimeout:   10 * time.Second,
		RotationCooldown: 12 * time.Hour,
		StorageType:      config.StorageRedis,
		RedisURL:         "redis://cache:6379/1",
	}

	cfg := FromEnv(env, nil)

	assert.IsType(t, &rcon.Executor{}, cfg.Executor)
	assert.Equal(t, 3*time.Second, cfg.AllowlistConfig.CommandTimeout)
	assert.Equal(t, 12*time.Hour, cfg.RotationConfig.Cooldown)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	require.NotNil(t, cfg.RedisConfig)
	assert.Equal(t, "redis://cache:6379/1", cfg.RedisConfig.URL)
}

func TestFromEnvWithoutRedis(t *testing.T) {
	cfg := FromEnv(&config.Config{StorageType: config.StorageSQLite, SQLitePath: "x.db"}, nil)
	assert.Nil(t, cfg.RedisConfig)
	assert.Equal(t, "x.db", cfg.SQLitePath)
}

func TestNewTestAppUsesConfiguredCooldown(t *testing.T) {
	app := NewTestApp()
	assert.Equal(t, 24*time.Hour, app.RotationService.Cooldown())
}
