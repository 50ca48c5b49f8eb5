// Package world is the host side of the arena: it integrates rigid bodies,
// answers ray and sphere casts, and turns overlaps into contact
// notifications for the simulation.
package world

import (
	"math"
	"sort"

	"sports-arena/internal/game"
	"sports-arena/internal/game/spatial"
)

// Config describes the pitch and the integrator.
type Config struct {
	Bounds      spatial.Box // playable area on X/Z; objects are kept inside
	Gravity     float64
	CellSize    float64
	Step        float64 // fixed step used for acceleration forces
	Restitution float64 // bounciness of dynamic-dynamic contacts
	Skin        float64 // contact tolerance
	BallMass    float64
	PlayerMass  float64
}

// DefaultConfig is a 40x24 pitch centered on the origin.
func DefaultConfig() Config {
	return Config{
		Bounds:      spatial.Box{MinX: -20, MinZ: -12, MaxX: 20, MaxZ: 12},
		Gravity:     9.81,
		CellSize:    4,
		Step:        1.0 / 50,
		Restitution: 0.3,
		Skin:        0.02,
		BallMass:    0.45,
		PlayerMass:  70,
	}
}

// World implements game.Host.
type World struct {
	cfg    Config
	arena  *game.Arena
	bodies map[game.ObjectID]*game.RigidBody

	statics *spatial.Grid
	sap     *spatial.SweepAndPrune

	touching map[pairKey]bool // contacts seen last step, value is trigger
}

// New creates a world. Attach it to an arena before stepping.
func New(cfg Config) *World {
	if cfg.Step <= 0 {
		cfg.Step = DefaultConfig().Step
	}
	if cfg.CellSize <= 0 {
		cfg.CellSize = DefaultConfig().CellSize
	}
	return &World{
		cfg:      cfg,
		bodies:   make(map[game.ObjectID]*game.RigidBody),
		statics:  spatial.NewGrid(cfg.Bounds, cfg.CellSize),
		sap:      spatial.NewSweepAndPrune(64),
		touching: make(map[pairKey]bool),
	}
}

// Attach binds the world to the arena it simulates.
func (w *World) Attach(a *game.Arena) {
	w.arena = a
	a.Bodies = w
	w.Refresh()
}

func (w *World) NewBody(o *game.Object) game.Body {
	mass := 1.0
	switch o.Kind {
	case game.KindBall:
		mass = w.cfg.BallMass
	case game.KindPlayer:
		mass = w.cfg.PlayerMass
	}
	b := game.NewRigidBody(o, mass, w.cfg.Step)
	if o.Kind != game.KindPlayer {
		b.SetConstraints(game.ConstraintNone)
	}
	w.bodies[o.ID] = b
	return b
}

func (w *World) ReleaseBody(o *game.Object) {
	delete(w.bodies, o.ID)
}

// Refresh re-indexes static geometry. Advance calls it every step.
func (w *World) Refresh() {
	w.statics.Clear()
	if w.arena == nil {
		return
	}
	w.arena.Each(func(o *game.Object) {
		if o.Dynamic() || o.Kind == game.KindFloor {
			return
		}
		b := boxOf(o)
		w.statics.Insert(uint32(o.ID), spatial.Box{MinX: b.min.X, MinZ: b.min.Z, MaxX: b.max.X, MaxZ: b.max.Z})
	})
}

// Advance integrates every dynamic body by dt and returns the contact
// changes it observed, ordered by object id.
func (w *World) Advance(dt float64) []game.Contact {
	if w.arena == nil || dt <= 0 {
		return nil
	}
	w.Refresh()

	var movers []*game.Object
	w.arena.Each(func(o *game.Object) {
		if o.Dynamic() && o.Body != nil {
			movers = append(movers, o)
		}
	})

	for _, o := range movers {
		w.integrate(o, dt)
	}
	w.separate(movers)

	return w.contacts(movers)
}

func (w *World) integrate(o *game.Object, dt float64) {
	b := o.Body
	c := b.Constraints()
	if c&game.ConstraintFreezePosition == 0 {
		b.AddForce(game.Down.Scale(w.cfg.Gravity), game.ForceAcceleration)
		o.Pose.Position = o.Pose.Position.Add(b.Velocity().Scale(dt))
	}
	if c&game.ConstraintFreezeRotation == 0 {
		spin := b.AngularVelocity().Scale(dt * 180 / math.Pi)
		o.Pose.Rotation = o.Pose.Rotation.Add(spin)
		o.Pose.Rotation.Y = math.Mod(o.Pose.Rotation.Y+360, 360)
	}

	r := radiusOf(o)
	if floor := w.arena.Get(w.arena.Floor); floor != nil {
		h := floor.Pose.Position.Y
		if o.Pose.Position.Y-r < h {
			o.Pose.Position.Y = h + r
			if v := b.Velocity(); v.Y < 0 {
				b.SetVelocity(v.WithY(0))
			}
		}
	}

	// keep inside the pitch
	p, v := o.Pose.Position, b.Velocity()
	bx := w.cfg.Bounds
	if p.X-r < bx.MinX || p.X+r > bx.MaxX {
		p.X = math.Max(bx.MinX+r, math.Min(bx.MaxX-r, p.X))
		v.X = -v.X * w.cfg.Restitution
	}
	if p.Z-r < bx.MinZ || p.Z+r > bx.MaxZ {
		p.Z = math.Max(bx.MinZ+r, math.Min(bx.MaxZ-r, p.Z))
		v.Z = -v.Z * w.cfg.Restitution
	}
	o.Pose.Position = p
	b.SetVelocity(v)

	w.pushOutOfWalls(o, r)
}

// pushOutOfWalls resolves penetration into solid field boxes.
func (w *World) pushOutOfWalls(o *game.Object, r float64) {
	p := o.Pose.Position
	for _, id := range w.statics.QueryRadius(p.X, p.Z, r) {
		s := w.arena.Get(game.ObjectID(id))
		if s == nil || s.Kind != game.KindField {
			continue
		}
		bx := boxOf(s)
		q := bx.closest(o.Pose.Position)
		d := o.Pose.Position.Sub(q)
		dist := d.Len()
		if dist >= r {
			continue
		}
		n := d.Normalize()
		if dist == 0 {
			n = bx.faceNormal(o.Pose.Position)
		}
		o.Pose.Position = q.Add(n.Scale(r))
		v := o.Body.Velocity()
		if into := v.Dot(n); into < 0 {
			o.Body.SetVelocity(v.Sub(n.Scale(into * (1 + w.cfg.Restitution))))
		}
	}
}

// separate pushes overlapping dynamic spheres apart and removes their
// approaching velocity. A carried ball and its carrier are left alone.
func (w *World) separate(movers []*game.Object) {
	for _, pr := range w.sap.Update(intervals(movers)) {
		a, b := w.arena.Get(game.ObjectID(pr.A)), w.arena.Get(game.ObjectID(pr.B))
		if a == nil || b == nil || carrierPair(a, b) {
			continue
		}
		ra, rb := radiusOf(a), radiusOf(b)
		d := b.Pose.Position.Sub(a.Pose.Position)
		dist := d.Len()
		if dist >= ra+rb || dist == 0 {
			continue
		}
		n := d.Scale(1 / dist)
		ma, mb := massOf(a), massOf(b)
		pen := ra + rb - dist
		a.Pose.Position = a.Pose.Position.Sub(n.Scale(pen * mb / (ma + mb)))
		b.Pose.Position = b.Pose.Position.Add(n.Scale(pen * ma / (ma + mb)))

		va, vb := a.Body.Velocity(), b.Body.Velocity()
		closing := vb.Sub(va).Dot(n)
		if closing >= 0 {
			continue
		}
		j := -(1 + w.cfg.Restitution) * closing / (1/ma + 1/mb)
		a.Body.SetVelocity(va.Sub(n.Scale(j / ma)))
		b.Body.SetVelocity(vb.Add(n.Scale(j / mb)))
	}
}

func carrierPair(a, b *game.Object) bool {
	held := func(ball, p *game.Object) bool {
		return ball.Ball != nil && ball.Ball.CarriedBy == p.ID
	}
	return held(a, b) || held(b, a)
}

func intervals(objs []*game.Object) []spatial.Interval {
	out := make([]spatial.Interval, 0, len(objs))
	for _, o := range objs {
		r := radiusOf(o)
		p := o.Pose.Position
		out = append(out, spatial.Interval{
			ID:   uint32(o.ID),
			MinX: p.X - r, MaxX: p.X + r,
			MinZ: p.Z - r, MaxZ: p.Z + r,
		})
	}
	return out
}

func massOf(o *game.Object) float64 {
	if rb, ok := o.Body.(*game.RigidBody); ok {
		return rb.Mass()
	}
	return 1
}

// sortContacts orders contacts by self, then other, then phase.
func sortContacts(cs []game.Contact) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Self != cs[j].Self {
			return cs[i].Self < cs[j].Self
		}
		if cs[i].Other != cs[j].Other {
			return cs[i].Other < cs[j].Other
		}
		return cs[i].Phase < cs[j].Phase
	})
}
