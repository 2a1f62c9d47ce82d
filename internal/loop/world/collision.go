package world

import (
	"github.com/tomz197/hunt/internal/object"
	"github.com/tomz197/hunt/internal/physics"
)

// collectProjectiles extracts live arrows from the object list into a reused slice.
func collectProjectiles(objects []object.Object, projectiles *[]*object.Projectile) {
	*projectiles = (*projectiles)[:0]
	for _, obj := range objects {
		if p, ok := obj.(*object.Projectile); ok && !p.IsDestroyed() {
			*projectiles = append(*projectiles, p)
		}
	}
}

// checkCollisions lets each arrow hit the nearest live target along its last
// move. Candidates come from every grid cell the move crosses, so a long
// frame cannot carry an arrow past a target. Equally near targets resolve in
// grid visiting order. Once a kill completes the quest the remaining arrows
// are left alone.
func (w *World) checkCollisions() {
	collectProjectiles(w.objects, &w.projectileCache)
	if len(w.projectileCache) == 0 || len(w.targets) == 0 {
		return
	}

	w.grid.Clear()
	for i, t := range w.targets {
		if !t.IsDead() {
			w.grid.Insert(t.Position(), i)
		}
	}

	for _, p := range w.projectileCache {
		if w.clock.Frozen() {
			return
		}
		hit := -1
		best := 0.0
		w.grid.QuerySegment(p.Prev, p.Pos, func(i int) bool {
			t := w.targets[i]
			if t.IsDead() || !physics.SegmentIntersectsCircle(p.Prev, p.Pos, t.Position(), t.Radius()) {
				return false
			}
			if d := physics.DistanceSquared(p.Prev, t.Position()); hit < 0 || d < best {
				hit, best = i, d
			}
			return false
		})
		if hit < 0 {
			continue
		}
		t := w.targets[hit]
		if !p.TryHit(t) {
			continue
		}
		if t.IsDead() {
			object.SpawnKill(t.Position(), w.rng, w)
		} else {
			object.SpawnHit(t.Position(), w.rng, w)
		}
	}
}
