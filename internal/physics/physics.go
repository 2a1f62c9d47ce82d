// Package physics provides vector math, overlap tests and a broad-phase grid.
package physics

import "math"

// Vec2 is a position or direction on the field.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// IsZero reports whether v is too short to carry a direction.
func (v Vec2) IsZero() bool { return v.X*v.X+v.Y*v.Y < 1e-12 }

// Normalized returns v scaled to unit length, or the zero vector if v is zero.
func (v Vec2) Normalized() Vec2 {
	if v.IsZero() {
		return Vec2{}
	}
	l := v.Len()
	return Vec2{v.X / l, v.Y / l}
}

// FromAngle returns the unit vector pointing at angle radians.
func FromAngle(angle float64) Vec2 {
	return Vec2{math.Cos(angle), math.Sin(angle)}
}

// Clamp keeps v inside [0,w]x[0,h].
func (v Vec2) Clamp(w, h float64) Vec2 {
	return Vec2{clamp(v.X, 0, w), clamp(v.Y, 0, h)}
}

// Distance calculates the Euclidean distance between two points.
func Distance(a, b Vec2) float64 {
	return b.Sub(a).Len()
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(a, b Vec2) float64 {
	d := b.Sub(a)
	return d.X*d.X + d.Y*d.Y
}

// PointInCircle checks if a point is within radius of a target position.
func PointInCircle(p, center Vec2, radius float64) bool {
	return DistanceSquared(p, center) <= radius*radius
}

// CirclesOverlap checks if two circles overlap.
func CirclesOverlap(a Vec2, ra float64, b Vec2, rb float64) bool {
	minDist := ra + rb
	return DistanceSquared(a, b) < minDist*minDist
}

// SegmentIntersectsCircle checks if the segment a-b passes within radius of
// center. Fast movers use it so they cannot step over a target in one tick.
func SegmentIntersectsCircle(a, b, center Vec2, radius float64) bool {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq < 1e-12 {
		return PointInCircle(a, center, radius)
	}
	ac := center.Sub(a)
	t := clamp((ac.X*ab.X+ac.Y*ab.Y)/lenSq, 0, 1)
	return PointInCircle(a.Add(ab.Scale(t)), center, radius)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
