package game

import (
	"math"
	"sync"
)

// DuplicateGroup is the set of clones sharing one identity. It holds ids,
// never object pointers; the arena resolves them.
type DuplicateGroup struct {
	mu       sync.Mutex
	original ObjectID
	members  []ObjectID
}

func newDuplicateGroup(original ObjectID) *DuplicateGroup {
	return &DuplicateGroup{original: original, members: []ObjectID{original}}
}

// Original is the non-expiring object the group was created from.
func (g *DuplicateGroup) Original() ObjectID { return g.original }

// Len returns the member count, original included.
func (g *DuplicateGroup) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.members)
}

// Members returns a copy of the member ids in join order.
func (g *DuplicateGroup) Members() []ObjectID {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]ObjectID, len(g.members))
	copy(out, g.members)
	return out
}

// tryJoin appends id unless the group is full.
func (g *DuplicateGroup) tryJoin(id ObjectID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.members) >= MaxDuplicates {
		return false
	}
	g.members = append(g.members, id)
	return true
}

func (g *DuplicateGroup) full() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.members) >= MaxDuplicates
}

func (g *DuplicateGroup) remove(id ObjectID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, m := range g.members {
		if m == id {
			g.members = append(g.members[:i], g.members[i+1:]...)
			return
		}
	}
}

// DuplicateReady reports whether the duplication cooldown has elapsed.
func (o *Object) DuplicateReady() bool { return o.dupeCooldown == 0 }

// Duplicate clones o up to n times. It is a no-op while the cooldown runs
// and stops early once the group is full. Returns the created clones.
func (a *Arena) Duplicate(ctx *Context, o *Object, n int) []*Object {
	if !o.Alive() || !o.Dynamic() || o.dupeCooldown > 0 {
		return nil
	}
	o.dupeCooldown = DuplicationCooldown
	if o.Group == nil {
		o.Group = newDuplicateGroup(o.ID)
	}

	var clones []*Object
	for i := 0; i < n; i++ {
		if o.Group.full() {
			break
		}
		c := a.clone(ctx, o)
		if !o.Group.tryJoin(c.ID) {
			a.Destroy(nil, c)
			break
		}
		clones = append(clones, c)
		ctx.emit(ObjectDuplicated(o.ID, c.ID))
		if o.Kind == KindPlayer && ctx.Rules != nil {
			ctx.Rules.AddDuplications(o.Team, 1)
		}
	}
	return clones
}

// clone instantiates a copy of o at its current pose with runtime state reset.
func (a *Arena) clone(ctx *Context, src *Object) *Object {
	opts := ObjectOptions{
		Name: src.Name,
		Kind: src.Kind,
		Caps: src.Caps,
		Team: src.Team,
		Pose: src.Pose,
	}
	tint := src.Tint
	if !src.Expires {
		tint = tint.Darken(DuplicateDarken)
	}
	opts.Tint = &tint
	if src.Player != nil {
		t := src.Player.Tuning
		opts.Player = &t
	}
	if src.Ball != nil {
		t := src.Ball.Tuning
		opts.Ball = &t
	}

	c := a.Spawn(opts)
	c.Spawn = src.Spawn
	c.Group = src.Group
	c.Expires = true
	c.LifeTime = DuplicateLifeTime
	c.JumpSpeed = src.JumpSpeed
	if c.Player != nil {
		c.Player.Input = src.Player.Input
		c.Player.Score = src.Player.Score
	}
	if f := src.Status.FreezeTime(); f > 0 {
		c.ApplyFreeze(ctx, f)
	}
	return c
}

// UnDuplicateAll destroys every other member of o's group.
func (a *Arena) UnDuplicateAll(ctx *Context, o *Object) int {
	if o.Group == nil {
		return 0
	}
	destroyed := 0
	for _, id := range o.Group.Members() {
		if id == o.ID {
			continue
		}
		if m := a.Get(id); m != nil {
			a.Destroy(ctx, m)
			destroyed++
		}
	}
	return destroyed
}

// Respawn returns o to its spawn pose at rest. Expiring objects are
// destroyed instead.
func (a *Arena) Respawn(ctx *Context, o *Object) {
	if !o.Alive() {
		return
	}
	if o.Expires {
		a.Destroy(ctx, o)
		return
	}
	o.Pose = o.Spawn
	if o.Body != nil {
		o.Body.SetVelocity(Zero3)
		o.Body.SetAngularVelocity(Zero3)
	}
}

// tickLifetime counts down cooldown and lifetime. Reports false when the
// object expired and was destroyed.
func (a *Arena) tickLifetime(ctx *Context, o *Object) bool {
	o.dupeCooldown = math.Max(0, o.dupeCooldown-ctx.DT)
	if !o.Expires {
		return true
	}
	o.LifeTime = math.Max(0, o.LifeTime-ctx.DT)
	if o.LifeTime == 0 {
		a.Destroy(ctx, o)
		return false
	}
	return true
}
