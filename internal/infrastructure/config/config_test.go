package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server:    ServerConfig{Port: 8080},
		Search:    SearchConfig{PageSize: 12, Timeout: 10 * time.Second},
		Redis:     RedisConfig{Addr: "localhost:6379"},
		Planner:   PlannerConfig{StorageKey: "weeklyMeals", ResetWeekday: time.Sunday, ResetHour: 20},
		RateLimit: RateLimitConfig{Enabled: true, Requests: 100, Window: time.Minute},
	}
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid config passes",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server port is required",
		},
		{
			name:    "zero page size",
			mutate:  func(c *Config) { c.Search.PageSize = 0 },
			wantErr: "invalid search page size",
		},
		{
			name:    "redis enabled without address",
			mutate:  func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" },
			wantErr: "redis address is required",
		},
		{
			name:   "redis disabled without address is fine",
			mutate: func(c *Config) { c.Redis.Addr = "" },
		},
		{
			name:    "empty storage key",
			mutate:  func(c *Config) { c.Planner.StorageKey = "" },
			wantErr: "planner storage key is required",
		},
		{
			name:    "reset hour out of range",
			mutate:  func(c *Config) { c.Planner.ResetHour = 24 },
			wantErr: "invalid planner reset hour",
		},
		{
			name:    "rate limit window missing",
			mutate:  func(c *Config) { c.RateLimit.Window = 0 },
			wantErr: "invalid rate limit window",
		},
		{
			name:   "rate limit disabled skips checks",
			mutate: func(c *Config) { c.RateLimit = RateLimitConfig{} },
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tc.mutate(cfg)
			err := validateConfig(cfg)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadConfigDefaultsAndEnv(t *testing.T) {
	t.Setenv("ORAMA_ENDPOINT", "https://cloud.orama.run/v1/indexes/recipes")
	t.Setenv("ORAMA_API_KEY", "abcd1234efgh5678")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 12, cfg.Search.PageSize)
	assert.Equal(t, 10*time.Second, cfg.Search.Timeout)
	assert.Equal(t, "https://cloud.orama.run/v1/indexes/recipes", cfg.Search.Endpoint)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "weeklyMeals", cfg.Planner.StorageKey)
	assert.Equal(t, time.Sunday, cfg.Planner.ResetWeekday)
	assert.Equal(t, 20, cfg.Planner.ResetHour)
	assert.True(t, cfg.SearchConfigured())
}

func TestMaskAPIKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "abcd...5678", maskAPIKey("abcd1234efgh5678"))
}
