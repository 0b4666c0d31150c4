package config_test

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sauportal/notifier/pkg/config"
)

type directoryTestConfig struct {
	BaseURL       string        `env:"TEST_DIRECTORY_URL" envDefault:"http://localhost:9000"`
	Timeout       time.Duration `env:"TEST_DIRECTORY_TIMEOUT" envDefault:"2s"`
	GroupsEnabled bool          `env:"TEST_DIRECTORY_GROUPS_ENABLED" envDefault:"true"`
}

type mailTestConfig struct {
	FromAddress string        `env:"TEST_MAIL_FROM,required"`
	Attempts    int           `env:"TEST_MAIL_RETRY_ATTEMPTS" envDefault:"3"`
	RetryDelay  time.Duration `env:"TEST_MAIL_RETRY_DELAY" envDefault:"1500ms"`
}

type singletonTestConfig struct {
	Value string `env:"TEST_SINGLETON_VALUE" envDefault:"default"`
}

func TestLoad_Success(t *testing.T) {
	t.Setenv("TEST_MAIL_FROM", "noreply@sau-portal.de")
	t.Setenv("TEST_MAIL_RETRY_ATTEMPTS", "5")

	var cfg mailTestConfig
	err := config.Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, "noreply@sau-portal.de", cfg.FromAddress)
	assert.Equal(t, 5, cfg.Attempts)
	assert.Equal(t, 1500*time.Millisecond, cfg.RetryDelay)
}

func TestLoad_DefaultValues(t *testing.T) {
	os.Unsetenv("TEST_DIRECTORY_URL")
	os.Unsetenv("TEST_DIRECTORY_TIMEOUT")
	os.Unsetenv("TEST_DIRECTORY_GROUPS_ENABLED")

	var cfg directoryTestConfig
	err := config.Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", cfg.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.True(t, cfg.GroupsEnabled)
}

func TestLoad_MissingRequired(t *testing.T) {
	os.Unsetenv("TEST_MAIL_FROM")

	type requiredOnly struct {
		FromAddress string `env:"TEST_MAIL_FROM,required"`
	}

	var cfg requiredOnly
	err := config.Load(&cfg)

	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrParsingConfig))
}

func TestLoad_Singleton(t *testing.T) {
	t.Setenv("TEST_SINGLETON_VALUE", "first")

	var first singletonTestConfig
	require.NoError(t, config.Load(&first))

	// Changing the environment must not affect the cached copy.
	t.Setenv("TEST_SINGLETON_VALUE", "second")

	var second singletonTestConfig
	require.NoError(t, config.Load(&second))

	assert.Equal(t, first.Value, second.Value)
	assert.Equal(t, "first", second.Value)
}

func TestLoad_NilPointer(t *testing.T) {
	var cfg *mailTestConfig
	err := config.Load(cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrNilPointer)
}
