package object

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/hunt/internal/combat"
	"github.com/tomz197/hunt/internal/physics"
)

type spawnRecorder struct {
	objects []Object
}

func (s *spawnRecorder) Spawn(obj Object) {
	s.objects = append(s.objects, obj)
}

func TestProjectileHitsOnce(t *testing.T) {
	kills := &killCounter{}
	a := newTestEnemy(kills)
	b := newTestEnemy(kills)
	p := NewProjectile(physics.Vec2{X: 50, Y: 18}, physics.Vec2{X: 3}, 10, 60, 1)

	assert.True(t, p.TryHit(a))
	assert.False(t, p.TryHit(b))
	assert.False(t, p.TryHit(a))

	assert.Equal(t, 15, a.Health())
	assert.Equal(t, 25, b.Health())
	assert.True(t, p.HasHit())
	assert.True(t, p.IsDestroyed())

	remove, err := p.Update(UpdateContext{Delta: time.Millisecond, Field: testField})
	require.NoError(t, err)
	assert.True(t, remove)
}

func TestProjectileSkipsDeadTargets(t *testing.T) {
	e := newTestEnemy(&killCounter{})
	e.ApplyDamage(100)
	p := NewProjectile(physics.Vec2{}, physics.Vec2{X: 1}, 10, 60, 1)
	assert.False(t, p.TryHit(e))
	assert.False(t, p.HasHit())
}

func TestProjectileMovesAndExpires(t *testing.T) {
	p := NewProjectile(physics.Vec2{X: 10, Y: 10}, physics.Vec2{X: 2}, 10, 20, 1)
	assert.Equal(t, physics.Vec2{X: 1}, p.Dir)

	ctx := UpdateContext{Delta: 400 * time.Millisecond, Field: testField}
	remove, _ := p.Update(ctx)
	assert.False(t, remove)
	assert.Equal(t, physics.Vec2{X: 18, Y: 10}, p.Pos)
	assert.Equal(t, physics.Vec2{X: 10, Y: 10}, p.Prev)

	// The last move only uses what is left of the lifetime.
	ctx.Delta = time.Second
	remove, _ = p.Update(ctx)
	assert.False(t, remove)
	assert.InDelta(t, 30.0, p.Pos.X, 1e-9)
	assert.False(t, p.IsDestroyed(), "last move can still hit")

	remove, _ = p.Update(ctx)
	assert.True(t, remove)
	assert.True(t, p.IsDestroyed())
	assert.False(t, p.TryHit(newTestEnemy(&killCounter{})), "expired arrows cannot hit")
}

func TestProjectileLeavesField(t *testing.T) {
	p := NewProjectile(physics.Vec2{X: 99, Y: 10}, physics.Vec2{X: 1}, 10, 60, 5)
	ctx := UpdateContext{Delta: 100 * time.Millisecond, Field: testField}

	remove, _ := p.Update(ctx)
	assert.False(t, remove)
	assert.Equal(t, physics.Vec2{X: 99, Y: 10}, p.Prev)
	assert.False(t, p.IsDestroyed())

	remove, _ = p.Update(ctx)
	assert.True(t, remove)
	assert.True(t, p.IsDestroyed())
}

func TestArrowGlyph(t *testing.T) {
	assert.Equal(t, '-', arrowGlyph(physics.Vec2{X: 1}))
	assert.Equal(t, '|', arrowGlyph(physics.Vec2{Y: -1}))
	assert.Equal(t, '\\', arrowGlyph(physics.Vec2{X: 1, Y: 1}.Normalized()))
	assert.Equal(t, '/', arrowGlyph(physics.Vec2{X: 1, Y: -1}.Normalized()))
}

type fixedDamage int

func (d fixedDamage) Damage() int { return int(d) }

func TestPlayerShootsThroughGate(t *testing.T) {
	gate := combat.NewGate(0.5, 2)
	p := NewPlayer(physics.Vec2{X: 50, Y: 18}, gate, PlayerConfig{MoveSpeed: 20, ArrowSpeed: 60, ArrowLifetime: 1}, fixedDamage(12), nil)
	spawner := &spawnRecorder{}
	ctx := UpdateContext{Delta: 100 * time.Millisecond, Field: testField, Spawner: spawner}

	ctx.Input = Input{Space: true, Number: -1}
	p.Update(ctx)
	p.Update(ctx)
	p.Update(ctx)

	require.Len(t, spawner.objects, 1)
	arrow := spawner.objects[0].(*Projectile)
	assert.Equal(t, 12, arrow.Damage)
	assert.Equal(t, physics.Vec2{Y: -1}, arrow.Dir)
	assert.Equal(t, combat.Firing, gate.State())
}

func TestPlayerMovesAndTurns(t *testing.T) {
	p := NewPlayer(physics.Vec2{X: 50, Y: 18}, combat.NewGate(0.5, 2), PlayerConfig{MoveSpeed: 10}, fixedDamage(1), nil)
	ctx := UpdateContext{Delta: time.Second, Field: testField, Input: Input{Right: true, Number: -1}}

	p.Update(ctx)
	assert.Equal(t, physics.Vec2{X: 60, Y: 18}, p.Pos)
	assert.Equal(t, physics.Vec2{X: 1}, p.Facing)

	ctx.Delta = 10 * time.Second
	p.Update(ctx)
	assert.Equal(t, 100.0, p.Pos.X, "clamped to the field")
}

func TestNewPlayerRequiresDeps(t *testing.T) {
	assert.Panics(t, func() { NewPlayer(physics.Vec2{}, nil, PlayerConfig{}, fixedDamage(1), nil) })
	assert.Panics(t, func() { NewPlayer(physics.Vec2{}, combat.NewGate(0, 0), PlayerConfig{}, nil, nil) })
}

func TestAutoAimSnapsToTargetInCone(t *testing.T) {
	near := newTestEnemy(&killCounter{})
	near.Pos = physics.Vec2{X: 52, Y: 8}
	behind := newTestEnemy(&killCounter{})
	behind.Pos = physics.Vec2{X: 50, Y: 30}

	aim := AutoAim{
		Targets:  func() []Damageable { return []Damageable{behind, near} },
		MaxAngle: 0.4,
		Range:    60,
	}
	origin := physics.Vec2{X: 50, Y: 18}
	dir := aim.Aim(origin, physics.Vec2{Y: -1})
	want := near.Pos.Sub(origin).Normalized()
	assert.InDelta(t, want.X, dir.X, 1e-9)
	assert.InDelta(t, want.Y, dir.Y, 1e-9)

	dir = aim.Aim(origin, physics.Vec2{X: 1})
	assert.Equal(t, physics.Vec2{X: 1}, dir, "nothing in the cone")

	assert.Equal(t, physics.Vec2{Y: 1}, FacingAim{}.Aim(origin, physics.Vec2{Y: 4}))
}

func newTestRand() *rand.Rand {
	return rand.New(rand.NewSource(3))
}

func TestParticlesExpire(t *testing.T) {
	spawner := &spawnRecorder{}
	SpawnKill(physics.Vec2{X: 50, Y: 18}, newTestRand(), spawner)
	require.NotEmpty(t, spawner.objects)

	for _, obj := range spawner.objects {
		remove, err := obj.Update(UpdateContext{Delta: time.Second, Field: testField})
		require.NoError(t, err)
		assert.True(t, remove)
		ReleaseObject(obj)
	}
}
