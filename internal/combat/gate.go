// Package combat gates shooting behind a cooldown and a brief post-shot
// movement lock. It knows nothing about where shot requests come from.
package combat

import (
	"math"

	"github.com/tomz197/hunt/internal/physics"
)

// GateState is the phase of the shoot cycle.
type GateState int

const (
	Ready    GateState = iota // A shot may be requested
	Firing                    // Shot released, movement locked
	Cooldown                  // Movement allowed, waiting for the cooldown
)

func (s GateState) String() string {
	switch s {
	case Ready:
		return "ready"
	case Firing:
		return "firing"
	case Cooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

// Shot is the spawn request produced by an accepted RequestShot.
type Shot struct {
	Origin    physics.Vec2
	Direction physics.Vec2 // Unit vector
	Damage    int
}

// Gate is the Ready -> Firing -> Cooldown -> Ready cycle.
type Gate struct {
	StopDuration     float64 // Seconds movement stays locked after a shot
	CooldownDuration float64 // Seconds between shots

	state         GateState
	stopTimer     float64
	cooldownTimer float64
}

// NewGate creates a gate in the Ready state. Negative durations are treated as zero.
func NewGate(stopDuration, cooldown float64) *Gate {
	return &Gate{
		StopDuration:     math.Max(0, stopDuration),
		CooldownDuration: math.Max(0, cooldown),
		state:            Ready,
	}
}

// RequestShot fires if the gate is Ready. The direction comes from the
// caller's aiming and the damage from the shooter's current stats.
// A rejected request has no side effects.
func (g *Gate) RequestShot(origin, direction physics.Vec2, damage int) (Shot, bool) {
	if g.state != Ready {
		return Shot{}, false
	}
	g.state = Firing
	g.stopTimer = g.StopDuration
	g.cooldownTimer = g.CooldownDuration
	return Shot{
		Origin:    origin,
		Direction: direction.Normalized(),
		Damage:    damage,
	}, true
}

// Tick advances both timers by dt seconds.
func (g *Gate) Tick(dt float64) {
	if dt < 0 {
		dt = 0
	}

	if g.state == Firing {
		g.stopTimer -= dt
		if g.stopTimer <= 0 {
			g.stopTimer = 0
			g.state = Cooldown
		}
	}

	if g.cooldownTimer > 0 {
		g.cooldownTimer -= dt
		if g.cooldownTimer < 0 {
			g.cooldownTimer = 0
		}
	}
	if g.state == Cooldown && g.cooldownTimer == 0 {
		g.state = Ready
	}
}

// State returns the current phase.
func (g *Gate) State() GateState {
	return g.state
}

// IsFiring reports whether movement input should be ignored.
func (g *Gate) IsFiring() bool {
	return g.state == Firing
}

// RemainingCooldown returns the seconds left before the next shot.
func (g *Gate) RemainingCooldown() float64 {
	return g.cooldownTimer
}

// RemainingCooldownFraction returns the remaining cooldown in [0,1].
func (g *Gate) RemainingCooldownFraction() float64 {
	if g.CooldownDuration <= 0 {
		return 0
	}
	f := g.cooldownTimer / g.CooldownDuration
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// CountdownSeconds is the whole-second countdown shown next to the cooldown bar.
func (g *Gate) CountdownSeconds() int {
	return int(math.Ceil(g.cooldownTimer))
}

// Reset returns the gate to Ready with no pending timers.
func (g *Gate) Reset() {
	g.state = Ready
	g.stopTimer = 0
	g.cooldownTimer = 0
}
