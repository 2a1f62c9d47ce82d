package object

import (
	"time"

	"github.com/tomz197/hunt/internal/draw"
	"github.com/tomz197/hunt/internal/input"
	"github.com/tomz197/hunt/internal/physics"
)

// Spawner allows objects to spawn new objects during update.
type Spawner interface {
	Spawn(obj Object)
}

// Input is an alias for the input package's Input type.
type Input = input.Input

// Field is the bounded hunting ground, in logical units.
type Field struct {
	Width  float64
	Height float64
}

// Center returns the middle of the field.
func (f Field) Center() physics.Vec2 {
	return physics.Vec2{X: f.Width / 2, Y: f.Height / 2}
}

// Clamp keeps p inside the field.
func (f Field) Clamp(p physics.Vec2) physics.Vec2 {
	return p.Clamp(f.Width, f.Height)
}

// Contains reports whether p lies inside the field.
func (f Field) Contains(p physics.Vec2) bool {
	return p.X >= 0 && p.X <= f.Width && p.Y >= 0 && p.Y <= f.Height
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Delta   time.Duration
	Input   Input
	Field   Field
	Spawner Spawner
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas
}

// Object is a drawable and updatable game entity.
type Object interface {
	// Update updates the object state. Returns true if the object should be removed.
	Update(ctx UpdateContext) (remove bool, err error)

	// Draw draws the object onto the field canvas.
	Draw(ctx DrawContext) error
}

// Damageable is implemented by objects a projectile can hurt. Only objects
// registered with the world as damageable are ever offered to a projectile.
type Damageable interface {
	// ApplyDamageFrom applies damage dealt from source.
	ApplyDamageFrom(amount int, source physics.Vec2)
	Position() physics.Vec2
	Radius() float64
	IsDead() bool
}

// KillReporter receives the death of an enemy, identified by its type.
type KillReporter interface {
	OnKill(kind EnemyType)
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	// Release returns the object to its pool for reuse.
	Release()
}

// ReleaseObject releases an object back to its pool if it implements Releasable.
func ReleaseObject(obj Object) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}

// ShouldRenderBlink returns true if an object with a remaining timer should
// be rendered this frame (for blinking effect).
// Returns true always if remainingTime <= 0.
func ShouldRenderBlink(remainingTime float64, frequency float64) bool {
	if remainingTime <= 0 {
		return true
	}
	phase := int(remainingTime * frequency)
	return phase%2 != 0
}
