package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func required() map[string]string {
	return map[string]string{
		"DATABASE_URL":   "postgres://localhost/hub?sslmode=disable",
		"JWT_SECRET_KEY": "secret",
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(env(required()))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 10.0, cfg.RateLimitRPS)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Equal(t, 256, cfg.LogBufferSize)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.False(t, cfg.StorageConfigured())
}

func TestLoad_Overrides(t *testing.T) {
	values := required()
	values["SERVER_PORT"] = "9000"
	values["APP_ENV"] = "Production"
	values["CORS_ALLOWED_ORIGINS"] = "https://a.test, https://b.test ,"
	values["RATE_LIMIT_RPS"] = "2.5"
	values["R2_ACCOUNT_ID"] = "acc"
	values["R2_ACCESS_KEY_ID"] = "key"
	values["R2_SECRET_ACCESS_KEY"] = "secret"
	values["R2_BUCKET_NAME"] = "bucket"
	values["R2_PUBLIC_BASE_URL"] = "https://cdn.test"

	cfg, err := load(env(values))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.ServerPort)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.True(t, cfg.StorageConfigured())
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]func(map[string]string){
		"missing database url": func(v map[string]string) { delete(v, "DATABASE_URL") },
		"missing jwt secret":   func(v map[string]string) { delete(v, "JWT_SECRET_KEY") },
		"bad port":             func(v map[string]string) { v["SERVER_PORT"] = "http" },
		"port out of range":    func(v map[string]string) { v["SERVER_PORT"] = "70000" },
		"zero rps":             func(v map[string]string) { v["RATE_LIMIT_RPS"] = "0" },
		"negative burst":       func(v map[string]string) { v["RATE_LIMIT_BURST"] = "-1" },
		"partial r2":           func(v map[string]string) { v["R2_BUCKET_NAME"] = "bucket" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			values := required()
			mutate(values)
			_, err := load(env(values))
			assert.Error(t, err)
		})
	}
}
