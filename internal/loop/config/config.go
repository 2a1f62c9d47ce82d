// Package config centralizes all tunable game parameters.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// View resolution - the visible field in logical units.
// The whole hunting field fits on screen; there is no camera.
const (
	FieldWidth  = 100 // Logical field width
	FieldHeight = 36  // Logical field height (terminal rows)
)

// Player
const (
	BaseHealth        = 100
	BaseDamage        = 10
	BaseSpeed         = 5
	PlayerMoveScale   = 4.0 // Field units per second per point of the speed stat
	ShootStopDuration = 0.5 // Seconds the player stands still after a shot
	ShootCooldown     = 2.0 // Seconds between shots
)

// Arrows
const (
	ArrowSpeed    = 60.0 // Field units per second
	ArrowLifetime = 1.0  // Seconds before an arrow that hit nothing disappears
)

// Enemies
const (
	EnemyMaxHealth    = 25
	EnemyRadius       = 1.2
	EnemyRunSpeed     = 18.0
	EnemyFleeDistance = 12.0
	EnemyFleeDuration = 1.0 // Seconds an enemy keeps fleeing after a non-lethal hit
	EnemyDeathDelay   = 1.0 // Seconds a dead enemy stays on the field
	ExtraPerObjective = 1   // Spare enemies spawned per kill objective
	SafeSpawnRadius   = 15.0
)

// Progress
const (
	DefaultTotalLevels = 6
)

// Client rendering
const (
	ClientTargetFPS       = 30
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	ClientMaxFrameDelta   = 100 * time.Millisecond // A stalled frame advances the simulation at most this far
	HUDRows               = 2 // Status lines below the field
)

// Inactivity
const (
	InactivityWarnUser       = 240 // Seconds
	InactivityDisconnectUser = 300 // Seconds
)

// Server
const (
	ShutdownDisplaySeconds = 5.0  // How long the shutdown notice stays up
	ShutdownGraceSeconds   = 15.0 // How long the server waits for sessions to leave
)

// Tuning holds the values above that may be overridden from a TOML file.
type Tuning struct {
	ShootStopDuration float64 `toml:"shoot_stop_duration"`
	ShootCooldown     float64 `toml:"shoot_cooldown"`
	ArrowSpeed        float64 `toml:"arrow_speed"`
	ArrowLifetime     float64 `toml:"arrow_lifetime"`
	EnemyMaxHealth    int     `toml:"enemy_max_health"`
	EnemyRunSpeed     float64 `toml:"enemy_run_speed"`
	EnemyFleeDistance float64 `toml:"enemy_flee_distance"`
	EnemyFleeDuration float64 `toml:"enemy_flee_duration"`
	EnemyDeathDelay   float64 `toml:"enemy_death_delay"`
	ExtraPerObjective int     `toml:"extra_per_objective"`
	BaseHealth        int     `toml:"base_health"`
	BaseDamage        int     `toml:"base_damage"`
	BaseSpeed         int     `toml:"base_speed"`
}

// DefaultTuning returns the compiled-in values.
func DefaultTuning() Tuning {
	return Tuning{
		ShootStopDuration: ShootStopDuration,
		ShootCooldown:     ShootCooldown,
		ArrowSpeed:        ArrowSpeed,
		ArrowLifetime:     ArrowLifetime,
		EnemyMaxHealth:    EnemyMaxHealth,
		EnemyRunSpeed:     EnemyRunSpeed,
		EnemyFleeDistance: EnemyFleeDistance,
		EnemyFleeDuration: EnemyFleeDuration,
		EnemyDeathDelay:   EnemyDeathDelay,
		ExtraPerObjective: ExtraPerObjective,
		BaseHealth:        BaseHealth,
		BaseDamage:        BaseDamage,
		BaseSpeed:         BaseSpeed,
	}
}

// LoadTuning decodes a TOML file over the defaults. Keys missing from the
// file keep their default value. An empty path returns the defaults.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return DefaultTuning(), fmt.Errorf("decode tuning %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return DefaultTuning(), fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, nil
}

// Validate rejects values that would break the timers or the damage model.
func (t Tuning) Validate() error {
	switch {
	case t.ShootStopDuration < 0, t.ShootCooldown < 0:
		return fmt.Errorf("shoot durations must not be negative")
	case t.ArrowSpeed <= 0, t.ArrowLifetime <= 0:
		return fmt.Errorf("arrow speed and lifetime must be positive")
	case t.EnemyMaxHealth <= 0:
		return fmt.Errorf("enemy_max_health must be positive")
	case t.EnemyFleeDuration < 0, t.EnemyDeathDelay < 0:
		return fmt.Errorf("enemy timers must not be negative")
	case t.ExtraPerObjective < 0:
		return fmt.Errorf("extra_per_objective must not be negative")
	case t.BaseDamage < 0, t.BaseHealth < 0, t.BaseSpeed < 0:
		return fmt.Errorf("base stats must not be negative")
	}
	return nil
}
