package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/tomz197/hunt/internal/physics"
)

var (
	origin  = physics.Vec2{X: 10, Y: 10}
	forward = physics.Vec2{X: 0, Y: -2}
)

func TestGateAcceptsFromReady(t *testing.T) {
	g := NewGate(0.5, 2)

	shot, ok := g.RequestShot(origin, forward, 12)
	require.True(t, ok)
	assert.Equal(t, origin, shot.Origin)
	assert.Equal(t, physics.Vec2{X: 0, Y: -1}, shot.Direction)
	assert.Equal(t, 12, shot.Damage)
	assert.Equal(t, Firing, g.State())
	assert.True(t, g.IsFiring())
	assert.Equal(t, 1.0, g.RemainingCooldownFraction())
	assert.Equal(t, 2, g.CountdownSeconds())
}

func TestGateCycle(t *testing.T) {
	g := NewGate(0.5, 2)
	_, ok := g.RequestShot(origin, forward, 1)
	require.True(t, ok)

	g.Tick(0.25)
	assert.Equal(t, Firing, g.State())

	g.Tick(0.25)
	assert.Equal(t, Cooldown, g.State())
	assert.False(t, g.IsFiring())
	assert.InDelta(t, 0.75, g.RemainingCooldownFraction(), 1e-9)

	g.Tick(1.0)
	assert.Equal(t, Cooldown, g.State())
	assert.Equal(t, 1, g.CountdownSeconds())

	g.Tick(0.5)
	assert.Equal(t, Ready, g.State())
	assert.Equal(t, 0.0, g.RemainingCooldown())
	assert.Equal(t, 0.0, g.RemainingCooldownFraction())
}

func TestGateRejectsWithoutResettingTimers(t *testing.T) {
	g := NewGate(0.5, 2)
	_, ok := g.RequestShot(origin, forward, 1)
	require.True(t, ok)

	g.Tick(0.2)
	_, ok = g.RequestShot(origin, forward, 1)
	assert.False(t, ok, "shot during Firing")
	assert.InDelta(t, 1.8, g.RemainingCooldown(), 1e-9)

	g.Tick(0.5)
	require.Equal(t, Cooldown, g.State())
	_, ok = g.RequestShot(origin, forward, 1)
	assert.False(t, ok, "shot during Cooldown")
	assert.InDelta(t, 1.3, g.RemainingCooldown(), 1e-9)
}

// Three requests inside a 2s cooldown with a 0.5s stop: only the first fires.
func TestGateThreeRequestsInsideCooldown(t *testing.T) {
	g := NewGate(0.5, 2)
	spawned := 0

	times := []float64{0, 0.3, 1.5}
	now := 0.0
	for _, at := range times {
		g.Tick(at - now)
		now = at
		if _, ok := g.RequestShot(origin, forward, 1); ok {
			spawned++
		}
	}
	assert.Equal(t, 1, spawned)

	g.Tick(1.0)
	_, ok := g.RequestShot(origin, forward, 1)
	assert.True(t, ok, "cooldown elapsed")
}

func TestGateCooldownShorterThanStop(t *testing.T) {
	g := NewGate(1, 0.25)
	_, ok := g.RequestShot(origin, forward, 1)
	require.True(t, ok)

	g.Tick(0.5)
	assert.Equal(t, Firing, g.State())
	g.Tick(0.5)
	assert.Equal(t, Ready, g.State())
}

func TestGateZeroDurations(t *testing.T) {
	g := NewGate(-1, -1)
	_, ok := g.RequestShot(origin, forward, 1)
	require.True(t, ok)
	assert.Equal(t, 0.0, g.RemainingCooldownFraction())
	g.Tick(0)
	assert.Equal(t, Ready, g.State())
}

func TestGateReset(t *testing.T) {
	g := NewGate(0.5, 2)
	g.RequestShot(origin, forward, 1)
	g.Reset()
	assert.Equal(t, Ready, g.State())
	assert.Equal(t, 0.0, g.RemainingCooldown())
}

func TestGateTimersNeverNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := NewGate(
			rapid.Float64Range(0, 2).Draw(t, "stop"),
			rapid.Float64Range(0, 5).Draw(t, "cooldown"),
		)
		steps := rapid.IntRange(1, 50).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			if rapid.Bool().Draw(t, "shoot") {
				before := g.State()
				_, ok := g.RequestShot(origin, forward, 1)
				if ok != (before == Ready) {
					t.Fatalf("accepted=%v from state %v", ok, before)
				}
			}
			g.Tick(rapid.Float64Range(0, 0.5).Draw(t, "dt"))
			if g.RemainingCooldown() < 0 {
				t.Fatalf("negative cooldown %v", g.RemainingCooldown())
			}
			if f := g.RemainingCooldownFraction(); f < 0 || f > 1 {
				t.Fatalf("fraction out of range: %v", f)
			}
		}
	})
}
