package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trustkit/pkg/config"
)

type testConfig struct {
	Name     string        `env:"TRUSTKIT_TEST_NAME" envDefault:"default-name"`
	Limit    int           `env:"TRUSTKIT_TEST_LIMIT" envDefault:"5"`
	Duration time.Duration `env:"TRUSTKIT_TEST_DURATION" envDefault:"30m"`
}

func TestLoadDefaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "default-name", cfg.Name)
	assert.Equal(t, 5, cfg.Limit)
	assert.Equal(t, 30*time.Minute, cfg.Duration)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TRUSTKIT_TEST_NAME", "from-env")
	t.Setenv("TRUSTKIT_TEST_LIMIT", "10")

	var cfg testConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "from-env", cfg.Name)
	assert.Equal(t, 10, cfg.Limit)
}

func TestLoadNilPointer(t *testing.T) {
	var cfg *testConfig
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("TRUSTKIT_TEST_LIMIT", "not-a-number")

	var cfg testConfig
	assert.ErrorIs(t, config.Load(&cfg), config.ErrParsingConfig)
}

func TestMustLoadPanics(t *testing.T) {
	t.Setenv("TRUSTKIT_TEST_DURATION", "garbage")

	assert.Panics(t, func() {
		var cfg testConfig
		config.MustLoad(&cfg)
	})
}
