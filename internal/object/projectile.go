package object

import (
	"math"

	"github.com/tomz197/hunt/internal/physics"
)

// Projectile is an arrow fired by the player.
type Projectile struct {
	Pos      physics.Vec2 // Position
	Prev     physics.Vec2 // Position before the last move
	Dir      physics.Vec2 // Unit direction
	Speed    float64      // Field units per second
	Damage   int          // Copied from the shooter's damage stat at spawn
	Lifetime float64      // Seconds remaining before removal
	hasHit   bool         // At most one damage application
	final    bool         // Last move made; it can still hit before removal
	gone     bool
}

// NewProjectile creates an arrow at origin travelling along direction.
// The direction is normalized; negative speed and lifetime are treated as zero.
func NewProjectile(origin, direction physics.Vec2, damage int, speed, lifetime float64) *Projectile {
	return &Projectile{
		Pos:      origin,
		Prev:     origin,
		Dir:      direction.Normalized(),
		Speed:    math.Max(0, speed),
		Damage:   damage,
		Lifetime: math.Max(0, lifetime),
	}
}

// HasHit reports whether the arrow already delivered its damage.
func (p *Projectile) HasHit() bool {
	return p.hasHit
}

// IsDestroyed returns true if the arrow hit something or was removed after
// its last move.
func (p *Projectile) IsDestroyed() bool {
	return p.hasHit || p.gone
}

// TryHit applies the arrow's damage to target if the arrow has not hit
// anything yet. It returns whether damage was applied.
func (p *Projectile) TryHit(target Damageable) bool {
	if p.IsDestroyed() || target == nil || target.IsDead() {
		return false
	}
	p.hasHit = true
	target.ApplyDamageFrom(p.Damage, p.Pos)
	return true
}

// Update moves the arrow and checks its lifetime. The move that uses up the
// lifetime or leaves the field is still made, so the collision pass of the
// same tick sees the whole path; the arrow is removed on the next update.
func (p *Projectile) Update(ctx UpdateContext) (bool, error) {
	if p.hasHit || p.final {
		p.gone = true
		return true, nil
	}

	dt := ctx.Delta.Seconds()
	if dt >= p.Lifetime {
		dt = p.Lifetime
		p.final = true
	}
	p.Lifetime -= dt

	p.Prev = p.Pos
	p.Pos = p.Pos.Add(p.Dir.Scale(p.Speed * dt))

	if ctx.Field.Width > 0 && !ctx.Field.Contains(p.Pos) {
		p.final = true
	}

	return false, nil
}

// Draw renders the arrow with a glyph matching its heading.
func (p *Projectile) Draw(ctx DrawContext) error {
	if p.final {
		return nil
	}
	ctx.Canvas.SetFloat(p.Pos.X, p.Pos.Y, arrowGlyph(p.Dir))
	return nil
}

func arrowGlyph(dir physics.Vec2) rune {
	ax, ay := math.Abs(dir.X), math.Abs(dir.Y)
	switch {
	case ax > 2*ay:
		return '-'
	case ay > 2*ax:
		return '|'
	case (dir.X > 0) == (dir.Y > 0):
		return '\\'
	default:
		return '/'
	}
}
