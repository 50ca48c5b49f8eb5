package world

import (
	"math"

	"sports-arena/internal/game"
	"sports-arena/internal/game/spatial"
)

const probeEpsilon = 1e-6

// Raycast finds the nearest floor, wall or non-ball object along a ray.
// Colliders containing the origin are ignored.
func (w *World) Raycast(origin, dir game.Vec3, maxDist float64) (game.Hit, bool) {
	return w.cast(origin, 0, dir, maxDist)
}

// SphereCast sweeps a sphere along dir. Colliders already overlapping the
// sphere at the origin are ignored.
func (w *World) SphereCast(origin game.Vec3, radius float64, dir game.Vec3, maxDist float64) (game.Hit, bool) {
	return w.cast(origin, math.Max(0, radius), dir, maxDist)
}

func (w *World) cast(origin game.Vec3, r float64, dir game.Vec3, maxDist float64) (game.Hit, bool) {
	if w.arena == nil || maxDist < 0 {
		return game.Hit{}, false
	}
	d := dir.Normalize()
	if d == game.Zero3 {
		return game.Hit{}, false
	}
	maxDist += probeEpsilon

	best := game.Hit{Distance: math.Inf(1), Object: game.NoObject}
	found := false
	consider := func(t float64, n game.Vec3, id game.ObjectID) {
		if t < best.Distance {
			center := origin.Add(d.Scale(t))
			best = game.Hit{Distance: t, Point: center.Sub(n.Scale(r)), Normal: n, Object: id}
			found = true
		}
	}

	// floor plane
	if floor := w.arena.Get(w.arena.Floor); floor != nil && d.Y < 0 {
		h := floor.Pose.Position.Y + r
		if origin.Y >= h-probeEpsilon {
			if t := (h - origin.Y) / d.Y; t <= maxDist {
				consider(math.Max(0, t), game.Up, floor.ID)
			}
		}
	}

	// walls
	end := origin.Add(d.Scale(maxDist))
	sweep := spatial.Box{
		MinX: math.Min(origin.X, end.X) - r, MaxX: math.Max(origin.X, end.X) + r,
		MinZ: math.Min(origin.Z, end.Z) - r, MaxZ: math.Max(origin.Z, end.Z) + r,
	}
	for _, id := range w.statics.Query(sweep) {
		s := w.arena.Get(game.ObjectID(id))
		if s == nil || s.Kind != game.KindField {
			continue
		}
		if t, n, ok := boxOf(s).expand(r).ray(origin, d, maxDist); ok {
			consider(t, n, s.ID)
		}
	}

	// bodies, except balls
	w.arena.Each(func(o *game.Object) {
		if !o.Dynamic() || o.Kind == game.KindBall {
			return
		}
		c := o.Pose.Position
		if t, ok := raySphere(origin, d, c, radiusOf(o)+r, maxDist); ok {
			consider(t, origin.Add(d.Scale(t)).Sub(c).Normalize(), o.ID)
		}
	})

	return best, found
}
