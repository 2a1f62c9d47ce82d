// Package world runs one hunting session: it owns the tick, the entities,
// the quest tracker and the global freeze flag. It is single-threaded.
package world

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/hunt/internal/combat"
	"github.com/tomz197/hunt/internal/draw"
	"github.com/tomz197/hunt/internal/input"
	"github.com/tomz197/hunt/internal/loop/config"
	"github.com/tomz197/hunt/internal/object"
	"github.com/tomz197/hunt/internal/physics"
	"github.com/tomz197/hunt/internal/quest"
)

// collisionGridCellSize must cover the largest enemy radius.
const collisionGridCellSize = 10.0

// spawnMargin keeps enemies away from the field edge.
const spawnMargin = 2.0

// Presenter receives presentation callbacks from the session.
type Presenter interface {
	quest.Presenter
	OnCooldownUpdated(remainingFraction float64)
}

// Progress is what the session needs from the player's stored progress.
type Progress interface {
	quest.Recorder
	object.DamageSource
	Speed() int
}

// Config holds the session tunables.
type Config struct {
	Field           object.Field
	Tuning          config.Tuning
	EnemyRadius     float64
	SafeSpawnRadius float64
	AutoAim         bool
}

// DefaultConfig returns the compiled-in tunables.
func DefaultConfig() Config {
	return Config{
		Field:           object.Field{Width: config.FieldWidth, Height: config.FieldHeight},
		Tuning:          config.DefaultTuning(),
		EnemyRadius:     config.EnemyRadius,
		SafeSpawnRadius: config.SafeSpawnRadius,
		AutoAim:         true,
	}
}

// Deps are the collaborators of a session.
type Deps struct {
	Progress  Progress  // Required
	Presenter Presenter // Optional
	Logger    *log.Logger
	Rand      *rand.Rand
}

// target is an entity arrows can hit.
type target interface {
	object.Object
	object.Damageable
}

// World is one player's hunting session.
type World struct {
	cfg       Config
	progress  Progress
	presenter Presenter
	base      *log.Logger
	logger    *log.Logger
	rng       *rand.Rand

	clock   Clock
	tracker *quest.Tracker
	runID   uuid.UUID
	level   int
	started bool

	player  *object.Player
	targets []target        // Damageable entities, registered at spawn
	objects []object.Object // Projectiles and effects
	toSpawn []object.Object

	projectileCache []*object.Projectile
	grid            *physics.SpatialGrid
}

// New creates an idle session. It panics if deps.Progress is nil.
func New(cfg Config, deps Deps) *World {
	if deps.Progress == nil {
		panic("world: New requires Progress")
	}
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	w := &World{
		cfg:       cfg,
		progress:  deps.Progress,
		presenter: deps.Presenter,
		base:      deps.Logger,
		logger:    deps.Logger,
		rng:       deps.Rand,
		grid:      physics.NewSpatialGrid(cfg.Field.Width, cfg.Field.Height, collisionGridCellSize),
	}

	var qp quest.Presenter
	if deps.Presenter != nil {
		qp = deps.Presenter
	}
	w.tracker = quest.NewTracker(deps.Progress, qp, &w.clock, deps.Logger)
	return w
}

// StartLevel resets the field and begins q: the player is placed in the
// middle and the quest's animals are scattered around it.
func (w *World) StartLevel(level int, q *quest.Quest) error {
	if q == nil {
		return errors.New("start level: no quest")
	}
	w.reset()

	w.runID = uuid.New()
	w.level = level
	w.logger = w.base.With("run", w.runID.String()[:8])

	t := w.cfg.Tuning
	gate := combat.NewGate(t.ShootStopDuration, t.ShootCooldown)
	var aim object.Aimer = object.FacingAim{}
	if w.cfg.AutoAim {
		aim = object.AutoAim{
			Targets:  w.liveTargets,
			MaxAngle: math.Pi / 8,
			Range:    t.ArrowSpeed * t.ArrowLifetime,
		}
	}
	w.player = object.NewPlayer(w.cfg.Field.Center(), gate, object.PlayerConfig{
		MoveSpeed:     float64(w.progress.Speed()) * config.PlayerMoveScale,
		ArrowSpeed:    t.ArrowSpeed,
		ArrowLifetime: t.ArrowLifetime,
	}, w.progress, aim)

	spawned := 0
	for _, o := range q.Objectives {
		kind, ok := o.Enemy()
		if !ok {
			continue
		}
		for i := 0; i < o.Required+t.ExtraPerObjective; i++ {
			w.SpawnEnemy(kind, w.randomSpawnPoint())
			spawned++
		}
	}

	w.tracker.Start(q, level)
	w.clock.Resume()
	w.started = true
	w.logger.Info("level started", "level", level, "quest", q.ID, "enemies", spawned)
	return nil
}

func (w *World) reset() {
	for _, obj := range w.objects {
		object.ReleaseObject(obj)
	}
	for _, obj := range w.toSpawn {
		object.ReleaseObject(obj)
	}
	w.objects = w.objects[:0]
	w.toSpawn = w.toSpawn[:0]
	w.targets = w.targets[:0]
	w.player = nil
	w.started = false
}

// SpawnEnemy places an animal that reports its death to the quest tracker.
func (w *World) SpawnEnemy(kind object.EnemyType, pos physics.Vec2) *object.Enemy {
	t := w.cfg.Tuning
	e := object.NewEnemy(kind, w.cfg.Field.Clamp(pos), object.EnemyConfig{
		MaxHealth:    t.EnemyMaxHealth,
		Radius:       w.cfg.EnemyRadius,
		RunSpeed:     t.EnemyRunSpeed,
		FleeDistance: t.EnemyFleeDistance,
		FleeDuration: t.EnemyFleeDuration,
		DeathDelay:   t.EnemyDeathDelay,
	}, object.EnemyDeps{
		Reporter: w.tracker,
		Rand:     w.rng,
		Logger:   w.logger,
	})
	w.targets = append(w.targets, e)
	return e
}

// randomSpawnPoint picks a point at least SafeSpawnRadius from the player.
func (w *World) randomSpawnPoint() physics.Vec2 {
	f := w.cfg.Field
	center := f.Center()
	if w.player != nil {
		center = w.player.Pos
	}
	var best physics.Vec2
	bestDist := -1.0
	for attempt := 0; attempt < 64; attempt++ {
		p := physics.Vec2{
			X: spawnMargin + w.rng.Float64()*math.Max(0, f.Width-2*spawnMargin),
			Y: spawnMargin + w.rng.Float64()*math.Max(0, f.Height-2*spawnMargin),
		}
		d := physics.Distance(p, center)
		if d >= w.cfg.SafeSpawnRadius {
			return p
		}
		if d > bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

// Spawn queues an object to be added after the current update cycle.
func (w *World) Spawn(obj object.Object) {
	w.toSpawn = append(w.toSpawn, obj)
}

func (w *World) flushSpawned() {
	w.objects = append(w.objects, w.toSpawn...)
	clear(w.toSpawn)
	w.toSpawn = w.toSpawn[:0]
}

// Step advances the session by dt. While frozen only the presentation is
// refreshed.
func (w *World) Step(dt time.Duration, in input.Input) error {
	if !w.started {
		return nil
	}
	if w.clock.Frozen() {
		w.tracker.RefreshTime()
		w.presentCooldown()
		return nil
	}
	if dt < 0 {
		dt = 0
	}

	w.tracker.Tick(dt.Seconds())

	ctx := object.UpdateContext{
		Delta:   dt,
		Input:   in,
		Field:   w.cfg.Field,
		Spawner: w,
	}
	if _, err := w.player.Update(ctx); err != nil {
		return fmt.Errorf("update player: %w", err)
	}

	ctx.Input = input.Input{Number: -1}
	keptTargets := w.targets[:0]
	for _, t := range w.targets {
		remove, err := t.Update(ctx)
		if err != nil {
			return fmt.Errorf("update enemy: %w", err)
		}
		if !remove {
			keptTargets = append(keptTargets, t)
		}
	}
	clear(w.targets[len(keptTargets):])
	w.targets = keptTargets

	kept := w.objects[:0]
	for _, obj := range w.objects {
		remove, err := obj.Update(ctx)
		if err != nil {
			return fmt.Errorf("update object: %w", err)
		}
		if remove {
			object.ReleaseObject(obj)
		} else {
			kept = append(kept, obj)
		}
	}
	clear(w.objects[len(kept):])
	w.objects = kept

	w.flushSpawned()
	w.checkCollisions()
	w.flushSpawned()
	w.presentCooldown()
	return nil
}

func (w *World) presentCooldown() {
	if w.presenter != nil && w.player != nil {
		w.presenter.OnCooldownUpdated(w.player.Gate().RemainingCooldownFraction())
	}
}

// Draw renders every entity; the player is drawn last.
func (w *World) Draw(canvas *draw.Canvas) error {
	if !w.started {
		return nil
	}
	ctx := object.DrawContext{Canvas: canvas}
	for _, t := range w.targets {
		if err := t.Draw(ctx); err != nil {
			return err
		}
	}
	for _, obj := range w.objects {
		if err := obj.Draw(ctx); err != nil {
			return err
		}
	}
	return w.player.Draw(ctx)
}

func (w *World) liveTargets() []object.Damageable {
	out := make([]object.Damageable, 0, len(w.targets))
	for _, t := range w.targets {
		if !t.IsDead() {
			out = append(out, t)
		}
	}
	return out
}

// Targets returns the damageable entities still on the field.
func (w *World) Targets() []object.Damageable {
	out := make([]object.Damageable, len(w.targets))
	for i, t := range w.targets {
		out[i] = t
	}
	return out
}

// Player returns the hunter, or nil before StartLevel.
func (w *World) Player() *object.Player { return w.player }

// Tracker returns the quest tracker.
func (w *World) Tracker() *quest.Tracker { return w.tracker }

// Frozen reports whether the session clock is stopped.
func (w *World) Frozen() bool { return w.clock.Frozen() }

// Level returns the level being played.
func (w *World) Level() int { return w.level }

// RunID identifies the current attempt in logs.
func (w *World) RunID() uuid.UUID { return w.runID }

// Field returns the field bounds.
func (w *World) Field() object.Field { return w.cfg.Field }
