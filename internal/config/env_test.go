package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("HUNT_TEST_STR", "meadow")
	t.Setenv("HUNT_TEST_INT", "42")
	t.Setenv("HUNT_TEST_FLOAT", "0.25")
	t.Setenv("HUNT_TEST_DUR", "1500ms")
	t.Setenv("HUNT_TEST_BOOL", "false")
	t.Setenv("HUNT_TEST_BAD", "not-a-number")

	assert.Equal(t, "meadow", GetEnv("HUNT_TEST_STR", "x"))
	assert.Equal(t, "x", GetEnv("HUNT_TEST_MISSING", "x"))

	assert.Equal(t, 42, GetEnvInt("HUNT_TEST_INT", 1))
	assert.Equal(t, 1, GetEnvInt("HUNT_TEST_BAD", 1))

	assert.Equal(t, 0.25, GetEnvFloat("HUNT_TEST_FLOAT", 1))
	assert.Equal(t, 1.0, GetEnvFloat("HUNT_TEST_BAD", 1))

	assert.Equal(t, 1500*time.Millisecond, GetEnvDuration("HUNT_TEST_DUR", time.Second))
	assert.Equal(t, time.Second, GetEnvDuration("HUNT_TEST_BAD", time.Second))

	assert.False(t, GetEnvBool("HUNT_TEST_BOOL", true))
	assert.True(t, GetEnvBool("HUNT_TEST_BAD", true))
}

func TestLoadSettings(t *testing.T) {
	t.Setenv("HUNT_DATA_DIR", "/tmp/hunt-data")
	t.Setenv("HUNT_AUTO_AIM", "0")
	t.Setenv("LOG_LEVEL", "debug")

	s := Load()
	assert.Equal(t, "/tmp/hunt-data", s.DataDir)
	assert.False(t, s.AutoAim)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Empty(t, s.QuestsPath)
}
