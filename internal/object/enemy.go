package object

import (
	"math"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	bt "github.com/joeycumines/go-behaviortree"

	"github.com/tomz197/hunt/internal/physics"
)

// HealthState is the phase of an animal's life.
type HealthState int

const (
	Alive   HealthState = iota // Idle
	Fleeing                    // Running away after a non-lethal hit
	Dead                       // Waiting for removal; final
)

func (s HealthState) String() string {
	switch s {
	case Alive:
		return "alive"
	case Fleeing:
		return "fleeing"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

// EnemyConfig holds the per-animal tunables.
type EnemyConfig struct {
	MaxHealth    int
	Radius       float64
	RunSpeed     float64 // Field units per second while fleeing
	FleeDistance float64 // How far away from the hit the animal runs
	FleeDuration float64 // Seconds spent fleeing after each hit
	DeathDelay   float64 // Seconds a dead animal stays before removal
}

// EnemyDeps are the collaborators an Enemy reports to.
type EnemyDeps struct {
	Reporter KillReporter // Required
	Rand     *rand.Rand   // Flee direction when the damage source is unknown
	Logger   *log.Logger
}

// Enemy is an animal that can be shot. It flees when hurt and dies at zero health.
type Enemy struct {
	ID   uuid.UUID
	Type EnemyType
	Pos  physics.Vec2

	cfg        EnemyConfig
	health     int
	state      HealthState
	fleeTimer  float64
	deathTimer float64
	fleeTarget physics.Vec2

	reporter KillReporter
	rng      *rand.Rand
	logger   *log.Logger

	// Locomotion
	brain     bt.Node
	field     Field
	stepDelta float64
}

// Compile-time check that Enemy can be targeted by arrows.
var _ Damageable = (*Enemy)(nil)

// NewEnemy creates a live animal at pos. It panics if deps.Reporter is nil.
func NewEnemy(kind EnemyType, pos physics.Vec2, cfg EnemyConfig, deps EnemyDeps) *Enemy {
	if deps.Reporter == nil {
		panic("object: NewEnemy requires a KillReporter")
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(rand.Int63()))
	}
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	if cfg.MaxHealth < 1 {
		cfg.MaxHealth = 1
	}

	e := &Enemy{
		ID:       uuid.New(),
		Type:     kind,
		Pos:      pos,
		cfg:      cfg,
		health:   cfg.MaxHealth,
		state:    Alive,
		reporter: deps.Reporter,
		rng:      deps.Rand,
	}
	e.logger = deps.Logger.With("enemy", kind.String(), "id", e.ID.String()[:8])
	e.brain = e.newBrain()
	return e
}

// ApplyDamage applies damage from an unknown direction.
func (e *Enemy) ApplyDamage(amount int) {
	e.applyDamage(amount, nil)
}

// ApplyDamageFrom applies damage dealt at source; the animal flees away from it.
func (e *Enemy) ApplyDamageFrom(amount int, source physics.Vec2) {
	e.applyDamage(amount, &source)
}

func (e *Enemy) applyDamage(amount int, source *physics.Vec2) {
	if e.state == Dead {
		return
	}
	if amount < 0 {
		e.logger.Debug("negative damage ignored", "amount", amount)
		return
	}

	e.health -= amount
	if e.health <= 0 {
		e.die()
		return
	}

	e.state = Fleeing
	e.fleeTimer = e.cfg.FleeDuration
	e.fleeTarget = e.pickFleeTarget(source)
}

func (e *Enemy) die() {
	e.health = 0
	e.state = Dead
	e.fleeTimer = 0
	e.fleeTarget = e.Pos
	e.deathTimer = e.cfg.DeathDelay
	e.logger.Debug("killed")
	e.reporter.OnKill(e.Type)
}

// pickFleeTarget points away from source, or in a random direction if the
// source is unknown or on top of the animal.
func (e *Enemy) pickFleeTarget(source *physics.Vec2) physics.Vec2 {
	var dir physics.Vec2
	if source != nil {
		dir = e.Pos.Sub(*source).Normalized()
	}
	if dir.IsZero() {
		dir = physics.FromAngle(e.rng.Float64() * 2 * math.Pi)
	}
	target := e.Pos.Add(dir.Scale(e.cfg.FleeDistance))
	if e.field.Width > 0 {
		target = e.field.Clamp(target)
	}
	return target
}

// Update advances the flee and removal timers and moves the animal.
func (e *Enemy) Update(ctx UpdateContext) (bool, error) {
	dt := ctx.Delta.Seconds()
	e.field = ctx.Field

	switch e.state {
	case Dead:
		e.deathTimer -= dt
		if e.deathTimer <= 0 {
			e.deathTimer = 0
			return true, nil
		}
		return false, nil
	case Fleeing:
		e.fleeTimer -= dt
		if e.fleeTimer <= 0 {
			e.fleeTimer = 0
			e.state = Alive
		}
	}

	e.stepDelta = dt
	if _, err := e.brain.Tick(); err != nil {
		return false, err
	}
	return false, nil
}

// newBrain builds the locomotion tree: run to the flee target while
// fleeing, otherwise stand still.
func (e *Enemy) newBrain() bt.Node {
	isFleeing := bt.New(func([]bt.Node) (bt.Status, error) {
		if e.state == Fleeing {
			return bt.Success, nil
		}
		return bt.Failure, nil
	})
	runAway := bt.New(func([]bt.Node) (bt.Status, error) {
		if e.moveToward(e.fleeTarget, e.cfg.RunSpeed*e.stepDelta) {
			return bt.Success, nil
		}
		return bt.Running, nil
	})
	idle := bt.New(func([]bt.Node) (bt.Status, error) {
		return bt.Success, nil
	})
	return bt.New(bt.Selector, bt.New(bt.Sequence, isFleeing, runAway), idle)
}

// moveToward steps at most maxStep toward target and reports arrival.
func (e *Enemy) moveToward(target physics.Vec2, maxStep float64) bool {
	delta := target.Sub(e.Pos)
	dist := delta.Len()
	if dist <= maxStep || dist < 1e-6 {
		e.Pos = target
	} else {
		e.Pos = e.Pos.Add(delta.Scale(maxStep / dist))
	}
	if e.field.Width > 0 {
		e.Pos = e.field.Clamp(e.Pos)
	}
	return physics.DistanceSquared(e.Pos, target) < 1e-6
}

// Draw renders the animal; dead animals are drawn as a cross until removed.
func (e *Enemy) Draw(ctx DrawContext) error {
	glyph := e.Type.Glyph()
	switch e.state {
	case Dead:
		glyph = 'x'
	case Fleeing:
		if !ShouldRenderBlink(e.fleeTimer, 8.0) {
			return nil
		}
	}
	ctx.Canvas.SetFloat(e.Pos.X, e.Pos.Y, glyph)
	return nil
}

// Health returns the current hit points.
func (e *Enemy) Health() int { return e.health }

// MaxHealth returns the starting hit points.
func (e *Enemy) MaxHealth() int { return e.cfg.MaxHealth }

// State returns the current phase.
func (e *Enemy) State() HealthState { return e.state }

// FleeTimer returns the seconds of fleeing left.
func (e *Enemy) FleeTimer() float64 { return e.fleeTimer }

// FleeTarget returns where the animal is running to.
func (e *Enemy) FleeTarget() physics.Vec2 { return e.fleeTarget }

// DeathTimer returns the seconds until a dead animal is removed.
func (e *Enemy) DeathTimer() float64 { return e.deathTimer }

// Position returns the animal's centre.
func (e *Enemy) Position() physics.Vec2 { return e.Pos }

// Radius returns the hit radius.
func (e *Enemy) Radius() float64 { return e.cfg.Radius }

// IsDead reports whether the animal was killed.
func (e *Enemy) IsDead() bool { return e.state == Dead }
