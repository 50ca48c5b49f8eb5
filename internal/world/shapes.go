package world

import (
	"math"

	"sports-arena/internal/game"
)

// radiusOf is the collision sphere of a dynamic object: half its X scale,
// or the carry radius for balls.
func radiusOf(o *game.Object) float64 {
	if o.Ball != nil && o.Ball.Tuning.CarryRadius > 0 {
		return o.Ball.Tuning.CarryRadius
	}
	r := o.Pose.Scale.X / 2
	if r <= 0 {
		r = 0.5
	}
	return r
}

// aabb is a static object's box: centered on its position, sized by scale.
type aabb struct {
	min, max game.Vec3
}

func boxOf(o *game.Object) aabb {
	h := o.Pose.Scale.Scale(0.5)
	return aabb{min: o.Pose.Position.Sub(h), max: o.Pose.Position.Add(h)}
}

func (b aabb) expand(r float64) aabb {
	e := game.V3(r, r, r)
	return aabb{min: b.min.Sub(e), max: b.max.Add(e)}
}

func (b aabb) contains(p game.Vec3) bool {
	return p.X >= b.min.X && p.X <= b.max.X &&
		p.Y >= b.min.Y && p.Y <= b.max.Y &&
		p.Z >= b.min.Z && p.Z <= b.max.Z
}

func (b aabb) closest(p game.Vec3) game.Vec3 {
	return game.V3(
		math.Max(b.min.X, math.Min(b.max.X, p.X)),
		math.Max(b.min.Y, math.Min(b.max.Y, p.Y)),
		math.Max(b.min.Z, math.Min(b.max.Z, p.Z)),
	)
}

// faceNormal is the outward normal of the face nearest to an inside point.
func (b aabb) faceNormal(p game.Vec3) game.Vec3 {
	best, n := math.Inf(1), game.Up
	try := func(d float64, dir game.Vec3) {
		if d < best {
			best, n = d, dir
		}
	}
	try(p.X-b.min.X, game.V3(-1, 0, 0))
	try(b.max.X-p.X, game.V3(1, 0, 0))
	try(p.Y-b.min.Y, game.Down)
	try(b.max.Y-p.Y, game.Up)
	try(p.Z-b.min.Z, game.V3(0, 0, -1))
	try(b.max.Z-p.Z, game.V3(0, 0, 1))
	return n
}

// sphereOverlaps reports whether a sphere touches the box within skin.
func (b aabb) sphereOverlaps(c game.Vec3, r, skin float64) bool {
	return c.Sub(b.closest(c)).Len() <= r+skin
}

// ray intersects a ray with the box using the slab method. Rays starting
// inside the box do not hit it.
func (b aabb) ray(o, d game.Vec3, maxDist float64) (float64, game.Vec3, bool) {
	if b.contains(o) {
		return 0, game.Vec3{}, false
	}
	tmin, tmax := 0.0, maxDist
	var normal game.Vec3
	axes := [3]struct {
		o, d, lo, hi float64
		n            game.Vec3
	}{
		{o.X, d.X, b.min.X, b.max.X, game.V3(1, 0, 0)},
		{o.Y, d.Y, b.min.Y, b.max.Y, game.Up},
		{o.Z, d.Z, b.min.Z, b.max.Z, game.V3(0, 0, 1)},
	}
	for _, a := range axes {
		if a.d == 0 {
			if a.o < a.lo || a.o > a.hi {
				return 0, game.Vec3{}, false
			}
			continue
		}
		t1, t2 := (a.lo-a.o)/a.d, (a.hi-a.o)/a.d
		n := a.n.Neg()
		if t1 > t2 {
			t1, t2 = t2, t1
			n = a.n
		}
		if t1 > tmin {
			tmin, normal = t1, n
		}
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, game.Vec3{}, false
		}
	}
	return tmin, normal, true
}

// raySphere intersects a ray with a sphere. Rays starting inside miss.
func raySphere(o, d, c game.Vec3, r, maxDist float64) (float64, bool) {
	m := o.Sub(c)
	cc := m.Dot(m) - r*r
	if cc <= 0 {
		return 0, false
	}
	bb := m.Dot(d)
	if bb > 0 {
		return 0, false
	}
	disc := bb*bb - cc
	if disc < 0 {
		return 0, false
	}
	t := -bb - math.Sqrt(disc)
	if t < 0 || t > maxDist {
		return 0, false
	}
	return t, true
}
