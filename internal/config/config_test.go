package config

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 3000, ShutdownTimeout: time.Second, RequestTimeout: time.Minute},
		Import: ImportConfig{
			MaxFileSize:   1024,
			MaxConcurrent: 1,
			MaxWaitTime:   time.Second,
			ResultTTL:     time.Minute,
			FormField:     "file",
		},
		Rate:    RateLimitConfig{Enabled: true, RPS: 5, Burst: 10},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, int64(10485760), cfg.Import.MaxFileSize)
	assert.Equal(t, 4, cfg.Import.MaxConcurrent)
	assert.Equal(t, time.Hour, cfg.Import.ResultTTL)
	assert.Equal(t, "file", cfg.Import.FormField)
	assert.True(t, cfg.Rate.Enabled)
	assert.Equal(t, 10.0, cfg.Rate.RPS)
	assert.Equal(t, 20, cfg.Rate.Burst)
	assert.False(t, cfg.Security.RequireAPIKey)
	assert.True(t, cfg.Security.EnableCSP)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("IMPORT_MAX_CONCURRENT", "10")
	t.Setenv("IMPORT_MAX_WAIT_TIME", "1m30s")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Import.MaxConcurrent)
	assert.Equal(t, 90*time.Second, cfg.Import.MaxWaitTime)
	assert.Equal(t, 2.5, cfg.Rate.RPS)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_AltEnvVar(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("PORT", "4321")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4321, cfg.Server.Port)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "lots")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_BURST")
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.0/12 , ,192.168.0.0/16")
	t.Setenv("REQUIRE_API_KEY", "true")
	t.Setenv("API_KEYS", "alpha,beta")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}, cfg.Security.TrustedProxies)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.Security.APIKeys)
}

func TestLoadStruct_Required(t *testing.T) {
	var target struct {
		Token string `env:"CONFIG_TEST_TOKEN" required:"true"`
	}

	t.Setenv("CONFIG_TEST_TOKEN", "")
	err := loadStruct(reflect.ValueOf(&target).Elem())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONFIG_TEST_TOKEN")

	t.Setenv("CONFIG_TEST_TOKEN", "abc")
	require.NoError(t, loadStruct(reflect.ValueOf(&target).Elem()))
	assert.Equal(t, "abc", target.Token)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 99999 },
			wantErr: "SERVER_PORT",
		},
		{
			name:    "zero import concurrency",
			mutate:  func(c *Config) { c.Import.MaxConcurrent = 0 },
			wantErr: "IMPORT_MAX_CONCURRENT",
		},
		{
			name:    "empty form field",
			mutate:  func(c *Config) { c.Import.FormField = " " },
			wantErr: "IMPORT_FORM_FIELD",
		},
		{
			name:    "rate enabled without rps",
			mutate:  func(c *Config) { c.Rate.RPS = 0 },
			wantErr: "RATE_LIMIT_RPS",
		},
		{
			name:   "rate disabled ignores rps",
			mutate: func(c *Config) { c.Rate = RateLimitConfig{} },
		},
		{
			name:    "api key required but none configured",
			mutate:  func(c *Config) { c.Security.RequireAPIKey = true },
			wantErr: "API_KEYS",
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "invalid log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "LOG_FORMAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
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

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_PORT")
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
		{"::1", 443, "[::1]:443"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		assert.Equal(t, tt.want, cfg.Addr(), "host=%q port=%d", tt.host, tt.port)
	}
}

func TestConfigString_MasksAPIKeys(t *testing.T) {
	cfg := validConfig()
	cfg.Security.APIKeys = []string{"super-secret-key"}

	str := cfg.String()
	assert.NotContains(t, str, "super-secret-key")
	assert.Contains(t, str, "[1 MASKED]")
}
