package email_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sauportal/notifier/pkg/email"
)

func TestExponentialBackoff_NextInterval(t *testing.T) {
	t.Parallel()

	t.Run("doubles from the initial interval", func(t *testing.T) {
		t.Parallel()

		b := email.ExponentialBackoff{
			InitialInterval: 100 * time.Millisecond,
			Multiplier:      2,
		}
		assert.Equal(t, 100*time.Millisecond, b.NextInterval(1))
		assert.Equal(t, 200*time.Millisecond, b.NextInterval(2))
		assert.Equal(t, 400*time.Millisecond, b.NextInterval(3))
	})

	t.Run("caps at the max interval", func(t *testing.T) {
		t.Parallel()

		b := email.ExponentialBackoff{
			InitialInterval: time.Second,
			MaxInterval:     3 * time.Second,
			Multiplier:      2,
		}
		assert.Equal(t, 3*time.Second, b.NextInterval(5))
	})

	t.Run("zero value uses the default schedule", func(t *testing.T) {
		t.Parallel()

		var b email.ExponentialBackoff
		assert.Equal(t, 1500*time.Millisecond, b.NextInterval(1))
		assert.Equal(t, 3*time.Second, b.NextInterval(2))
	})

	t.Run("non-positive attempts yield zero delay", func(t *testing.T) {
		t.Parallel()

		var b email.ExponentialBackoff
		assert.Zero(t, b.NextInterval(0))
		assert.Zero(t, b.NextInterval(-1))
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		b := email.ExponentialBackoff{InitialInterval: 100 * time.Millisecond}
		assert.Equal(t, b.NextInterval(3), b.NextInterval(3))
	})
}

func TestFixedBackoff_NextInterval(t *testing.T) {
	t.Parallel()

	b := email.FixedBackoff{Interval: 5 * time.Second}
	assert.Equal(t, 5*time.Second, b.NextInterval(1))
	assert.Equal(t, 5*time.Second, b.NextInterval(10))
	assert.Zero(t, b.NextInterval(0))
}

func TestDefaultBackoffStrategy(t *testing.T) {
	t.Parallel()

	b := email.DefaultBackoffStrategy()
	assert.Equal(t, 1500*time.Millisecond, b.NextInterval(1))
	assert.Equal(t, 3*time.Second, b.NextInterval(2))
}
