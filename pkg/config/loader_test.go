package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifier/pkg/config"
)

type testConfig struct {
	Name    string        `env:"NOTIFIER_TEST_NAME" envDefault:"notifier"`
	Timeout time.Duration `env:"NOTIFIER_TEST_TIMEOUT" envDefault:"5s"`
}

type requiredConfig struct {
	Token string `env:"NOTIFIER_TEST_REQUIRED_TOKEN,required"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "notifier", cfg.Name)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestLoad_CachedAcrossCalls(t *testing.T) {
	var first testConfig
	require.NoError(t, config.Load(&first))

	// A second load for the same type returns the cached copy even if the
	// environment changed in between.
	t.Setenv("NOTIFIER_TEST_NAME", "changed")
	var second testConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, first, second)
}

func TestLoad_RequiredMissing(t *testing.T) {
	var cfg requiredConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoad_NilPointer(t *testing.T) {
	var cfg *testConfig
	err := config.Load(cfg)
	assert.ErrorIs(t, err, config.ErrNilPointer)
}
