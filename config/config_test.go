package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedHelpers(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BAD_INT", "forty-two")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_DURATION", "250ms")
	t.Setenv("TEST_SECONDS", "7")

	assert.Equal(t, 42, Int("TEST_INT", 1))
	assert.Equal(t, 1, Int("TEST_BAD_INT", 1))
	assert.Equal(t, 3, Int("TEST_UNSET_INT", 3))
	assert.True(t, Bool("TEST_BOOL", false))
	assert.Equal(t, 250*time.Millisecond, Duration("TEST_DURATION", time.Second))
	assert.Equal(t, 7*time.Second, Duration("TEST_SECONDS", time.Second))
	assert.Equal(t, time.Second, Duration("TEST_UNSET_DURATION", time.Second))
	assert.Equal(t, "fallback", String("TEST_UNSET_STRING", "fallback"))
}

func TestLoad(t *testing.T) {
	t.Run("requires jwt key", func(t *testing.T) {
		t.Setenv("JWT_ACCESS_KEY", "")
		t.Setenv("POSTGRES_HOST", "localhost")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("requires postgres host", func(t *testing.T) {
		t.Setenv("JWT_ACCESS_KEY", "secret")
		t.Setenv("POSTGRES_HOST", "")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("JWT_ACCESS_KEY", "secret")
		t.Setenv("POSTGRES_HOST", "db")
		t.Setenv("REDIS_HOST", "")
		t.Setenv("RABBITMQ_HOST", "")
		t.Setenv("STORAGE_TIMEOUT", "")
		t.Setenv("SERVER_PORT", "")

		s, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "8080", s.Server.Port)
		assert.Equal(t, 5*time.Second, s.StorageTimeout)
		assert.Equal(t, "messenger", s.RabbitMQ.Queue)
		assert.False(t, s.Redis.Enabled())
		assert.False(t, s.RabbitMQ.Enabled())
	})
}
