package object

import (
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/tomz197/hunt/internal/physics"
)

type killCounter struct {
	kills []EnemyType
}

func (k *killCounter) OnKill(kind EnemyType) {
	k.kills = append(k.kills, kind)
}

var testField = Field{Width: 100, Height: 36}

func testEnemyConfig() EnemyConfig {
	return EnemyConfig{
		MaxHealth:    25,
		Radius:       1.2,
		RunSpeed:     18,
		FleeDistance: 12,
		FleeDuration: 1,
		DeathDelay:   1,
	}
}

func newTestEnemy(kills *killCounter) *Enemy {
	return NewEnemy(Wolf, physics.Vec2{X: 50, Y: 18}, testEnemyConfig(), EnemyDeps{
		Reporter: kills,
		Rand:     rand.New(rand.NewSource(7)),
		Logger:   log.New(io.Discard),
	})
}

func tick(e *Enemy, seconds float64) bool {
	remove, _ := e.Update(UpdateContext{
		Delta: time.Duration(seconds * float64(time.Second)),
		Field: testField,
	})
	return remove
}

func TestEnemyFleesOnNonLethalHit(t *testing.T) {
	kills := &killCounter{}
	e := newTestEnemy(kills)

	e.ApplyDamageFrom(10, physics.Vec2{X: 40, Y: 18})
	assert.Equal(t, Fleeing, e.State())
	assert.Equal(t, 15, e.Health())
	assert.Equal(t, 1.0, e.FleeTimer())
	assert.Equal(t, physics.Vec2{X: 62, Y: 18}, e.FleeTarget(), "runs away from the shot")
	assert.Empty(t, kills.kills)

	tick(e, 0.5)
	assert.Greater(t, e.Pos.X, 50.0)
	assert.Equal(t, Fleeing, e.State())

	tick(e, 0.6)
	assert.Equal(t, Alive, e.State())
	assert.Zero(t, e.FleeTimer())
}

func TestEnemyHitAgainWhileFleeingRestartsTimer(t *testing.T) {
	e := newTestEnemy(&killCounter{})
	e.ApplyDamage(5)
	tick(e, 0.8)
	e.ApplyDamage(5)
	assert.Equal(t, Fleeing, e.State())
	assert.Equal(t, 1.0, e.FleeTimer())
	assert.Equal(t, 15, e.Health())
}

func TestEnemyDiesOnLethalHit(t *testing.T) {
	kills := &killCounter{}
	e := newTestEnemy(kills)
	e.ApplyDamage(5)

	e.ApplyDamage(30)
	assert.Equal(t, Dead, e.State())
	assert.True(t, e.IsDead())
	assert.Zero(t, e.Health())
	assert.Zero(t, e.FleeTimer(), "flee cancelled")
	assert.Equal(t, []EnemyType{Wolf}, kills.kills)

	e.ApplyDamage(10)
	e.ApplyDamageFrom(10, physics.Vec2{})
	assert.Len(t, kills.kills, 1)
	assert.Equal(t, Dead, e.State())
}

func TestEnemyRemovedAfterDeathDelay(t *testing.T) {
	e := newTestEnemy(&killCounter{})
	e.ApplyDamage(25)
	pos := e.Pos

	assert.False(t, tick(e, 0.5))
	assert.Equal(t, pos, e.Pos, "dead enemies do not move")
	assert.True(t, tick(e, 0.5))
}

func TestEnemyIgnoresNegativeDamage(t *testing.T) {
	e := newTestEnemy(&killCounter{})
	e.ApplyDamage(-5)
	assert.Equal(t, Alive, e.State())
	assert.Equal(t, 25, e.Health())
}

func TestEnemyStaysInField(t *testing.T) {
	e := newTestEnemy(&killCounter{})
	e.Pos = physics.Vec2{X: 99, Y: 1}
	tick(e, 0)
	e.ApplyDamageFrom(1, physics.Vec2{X: 90, Y: 10})
	for i := 0; i < 30; i++ {
		tick(e, 0.05)
	}
	assert.True(t, testField.Contains(e.Pos))
	assert.True(t, testField.Contains(e.FleeTarget()))
}

func TestNewEnemyRequiresReporter(t *testing.T) {
	assert.Panics(t, func() {
		NewEnemy(Deer, physics.Vec2{}, testEnemyConfig(), EnemyDeps{})
	})
}

func TestEnemyDamageProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		kills := &killCounter{}
		e := newTestEnemy(kills)
		hits := rapid.SliceOfN(rapid.IntRange(-5, 40), 1, 20).Draw(t, "hits")

		for _, dmg := range hits {
			before := e.Health()
			wasDead := e.IsDead()
			e.ApplyDamage(dmg)

			switch {
			case wasDead || dmg < 0:
				if e.Health() != before {
					t.Fatalf("health changed from %d to %d", before, e.Health())
				}
			case dmg >= before:
				if e.State() != Dead || e.Health() != 0 {
					t.Fatalf("lethal hit %d on %d left state %v", dmg, before, e.State())
				}
			default:
				if e.State() != Fleeing || e.Health() != before-dmg {
					t.Fatalf("hit %d on %d gave state %v health %d", dmg, before, e.State(), e.Health())
				}
			}
			if e.Health() < 0 || e.Health() > e.MaxHealth() {
				t.Fatalf("health %d out of range", e.Health())
			}
		}

		want := 0
		if e.IsDead() {
			want = 1
		}
		if len(kills.kills) != want {
			t.Fatalf("%d kill events for dead=%v", len(kills.kills), e.IsDead())
		}
	})
}

func TestEnemyTypeText(t *testing.T) {
	kind, err := ParseEnemyType(" Wolf ")
	require.NoError(t, err)
	assert.Equal(t, Wolf, kind)

	_, err = ParseEnemyType("dragon")
	assert.Error(t, err)

	text, err := Boar.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "boar", string(text))

	var parsed EnemyType
	require.NoError(t, parsed.UnmarshalText([]byte("rabbit")))
	assert.Equal(t, Rabbit, parsed)
	assert.Equal(t, 'r', parsed.Glyph())

	assert.False(t, EnemyType(0).Valid())
	assert.Len(t, EnemyTypes(), 5)
}
