package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTuning(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tuning.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadTuningOverridesDefaults(t *testing.T) {
	path := writeTuning(t, `
shoot_cooldown = 1.5
arrow_speed = 80
enemy_max_health = 40
`)
	tuning, err := LoadTuning(path)
	require.NoError(t, err)

	assert.Equal(t, 1.5, tuning.ShootCooldown)
	assert.Equal(t, 80.0, tuning.ArrowSpeed)
	assert.Equal(t, 40, tuning.EnemyMaxHealth)
	assert.Equal(t, ShootStopDuration, tuning.ShootStopDuration, "missing keys keep defaults")
	assert.Equal(t, BaseDamage, tuning.BaseDamage)
}

func TestLoadTuningEmptyPath(t *testing.T) {
	tuning, err := LoadTuning("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTuning(), tuning)
}

func TestLoadTuningRejectsInvalid(t *testing.T) {
	_, err := LoadTuning(writeTuning(t, "arrow_speed = -1\n"))
	assert.Error(t, err)

	_, err = LoadTuning(writeTuning(t, "shoot_cooldown = \"soon\"\n"))
	assert.Error(t, err)

	_, err = LoadTuning(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestDefaultTuningIsValid(t *testing.T) {
	assert.NoError(t, DefaultTuning().Validate())
}
