package object

import (
	"math"

	"github.com/tomz197/hunt/internal/physics"
)

// Aimer supplies the direction of the next shot.
type Aimer interface {
	Aim(origin, facing physics.Vec2) physics.Vec2
}

// FacingAim shoots straight along the player's facing.
type FacingAim struct{}

func (FacingAim) Aim(_, facing physics.Vec2) physics.Vec2 {
	return facing.Normalized()
}

// AutoAim samples the facing ray and snaps to the closest living target
// inside a cone around it. Without a target it behaves like FacingAim.
type AutoAim struct {
	Targets  func() []Damageable
	MaxAngle float64 // Half-angle of the cone, radians
	Range    float64
}

func (a AutoAim) Aim(origin, facing physics.Vec2) physics.Vec2 {
	facing = facing.Normalized()
	if a.Targets == nil || facing.IsZero() {
		return facing
	}

	minCos := math.Cos(a.MaxAngle)
	best := facing
	bestDist := math.Inf(1)
	for _, t := range a.Targets() {
		if t == nil || t.IsDead() {
			continue
		}
		to := t.Position().Sub(origin)
		dist := to.Len()
		if dist < 1e-9 || (a.Range > 0 && dist > a.Range) {
			continue
		}
		dir := to.Scale(1 / dist)
		if dir.X*facing.X+dir.Y*facing.Y < minCos {
			continue
		}
		if dist < bestDist {
			best, bestDist = dir, dist
		}
	}
	return best
}
