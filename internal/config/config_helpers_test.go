package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestGetEnvAsInt tests the getEnvAsInt helper function
func TestGetEnvAsInt(t *testing.T) {
	t.Run("returns default value when env var not set", func(t *testing.T) {
		os.Unsetenv("TEST_INT_VAR")
		assert.Equal(t, 42, getEnvAsInt("TEST_INT_VAR", 42))
	})

	t.Run("parses valid integer from env var", func(t *testing.T) {
		t.Setenv("TEST_INT_VAR", "100")
		assert.Equal(t, 100, getEnvAsInt("TEST_INT_VAR", 42))
	})

	t.Run("returns default for invalid integer", func(t *testing.T) {
		t.Setenv("TEST_INT_VAR", "not-a-number")
		assert.Equal(t, 42, getEnvAsInt("TEST_INT_VAR", 42), "Should return default for invalid integer")
	})

	t.Run("returns default for float values", func(t *testing.T) {
		t.Setenv("TEST_INT_VAR", "42.5")
		assert.Equal(t, 10, getEnvAsInt("TEST_INT_VAR", 10))
	})
}

// TestGetEnvAsBool tests the getEnvAsBool helper function
func TestGetEnvAsBool(t *testing.T) {
	t.Run("returns default value when env var not set", func(t *testing.T) {
		os.Unsetenv("TEST_BOOL_VAR")
		assert.True(t, getEnvAsBool("TEST_BOOL_VAR", true))
	})

	t.Run("parses false", func(t *testing.T) {
		t.Setenv("TEST_BOOL_VAR", "false")
		assert.False(t, getEnvAsBool("TEST_BOOL_VAR", true))
	})

	t.Run("returns default for garbage", func(t *testing.T) {
		t.Setenv("TEST_BOOL_VAR", "maybe")
		assert.True(t, getEnvAsBool("TEST_BOOL_VAR", true))
	})
}

// TestGetEnvAsDuration tests the getEnvAsDuration helper function
func TestGetEnvAsDuration(t *testing.T) {
	t.Run("returns default value when env var not set", func(t *testing.T) {
		os.Unsetenv("TEST_DURATION_VAR")
		assert.Equal(t, 5*time.Minute, getEnvAsDuration("TEST_DURATION_VAR", 5*time.Minute))
	})

	t.Run("parses valid duration from env var", func(t *testing.T) {
		t.Setenv("TEST_DURATION_VAR", "10m")
		assert.Equal(t, 10*time.Minute, getEnvAsDuration("TEST_DURATION_VAR", 5*time.Minute))
	})

	t.Run("parses milliseconds", func(t *testing.T) {
		t.Setenv("TEST_DURATION_VAR", "500ms")
		assert.Equal(t, 500*time.Millisecond, getEnvAsDuration("TEST_DURATION_VAR", 5*time.Minute))
	})

	t.Run("returns default for bare number", func(t *testing.T) {
		t.Setenv("TEST_DURATION_VAR", "30")
		assert.Equal(t, 5*time.Minute, getEnvAsDuration("TEST_DURATION_VAR", 5*time.Minute))
	})
}
