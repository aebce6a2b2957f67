package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("NoConfigFile_ShouldUseDefaults", func(t *testing.T) {
		cfg, err := Load("")

		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "https://api.x.ai/v1", cfg.AI.GrokBaseURL)
		assert.Equal(t, "grok-beta", cfg.AI.GrokModel)
		assert.Equal(t, "codellama:7b", cfg.AI.ValidatorModel)
		assert.Equal(t, 5, cfg.AI.MaxValidationConcurrency)
		assert.Equal(t, 2*time.Minute, cfg.Redis.CandidateTTL)
		assert.True(t, cfg.IsDevelopment())
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	t.Run("Defaults_ShouldBeValid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("PortOutOfRange_ShouldFail", func(t *testing.T) {
		cfg := valid()
		cfg.Server.Port = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("ZeroValidationConcurrency_ShouldFail", func(t *testing.T) {
		cfg := valid()
		cfg.AI.MaxValidationConcurrency = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("EmptyAppName_ShouldFail", func(t *testing.T) {
		cfg := valid()
		cfg.App.Name = ""
		assert.Error(t, cfg.Validate())
	})
}

func TestConnectionStrings(t *testing.T) {
	cfg := Config{
		Database: DatabaseConfig{
			Host: "db", Port: 5432, Username: "hub", Password: "secret",
			Database: "cyberhub", SSLMode: "disable",
		},
		Redis: RedisConfig{Host: "cache", Port: 6379},
	}

	assert.Equal(t, "host=db port=5432 user=hub password=secret dbname=cyberhub sslmode=disable", cfg.GetDSN())
	assert.Equal(t, "cache:6379", cfg.RedisAddr())
}
