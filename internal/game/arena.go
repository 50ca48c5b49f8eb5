package game

// BodyFactory lets the host world attach physics to new objects.
type BodyFactory interface {
	NewBody(o *Object) Body
	ReleaseBody(o *Object)
}

// Arena owns every object. Slots are reused through a free list, so an
// ObjectID stays valid until the object is destroyed.
type Arena struct {
	slots  []*Object
	free   []ObjectID
	count  int
	Floor  ObjectID
	Bodies BodyFactory
}

// NewArena creates an empty arena.
func NewArena(bodies BodyFactory) *Arena {
	return &Arena{Floor: NoObject, Bodies: bodies}
}

// Get returns the live object in slot id, or nil.
func (a *Arena) Get(id ObjectID) *Object {
	if int(id) >= len(a.slots) {
		return nil
	}
	o := a.slots[id]
	if !o.Alive() {
		return nil
	}
	return o
}

// Len returns the number of live objects.
func (a *Arena) Len() int { return a.count }

// Each calls fn for every live object in slot order.
func (a *Arena) Each(fn func(o *Object)) {
	for _, o := range a.slots {
		if o.Alive() {
			fn(o)
		}
	}
}

// IDs returns the live ids in slot order.
func (a *Arena) IDs() []ObjectID {
	ids := make([]ObjectID, 0, a.count)
	for _, o := range a.slots {
		if o.Alive() {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

func (a *Arena) alloc(o *Object) {
	if n := len(a.free); n > 0 {
		o.ID = a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[o.ID] = o
	} else {
		o.ID = ObjectID(len(a.slots))
		a.slots = append(a.slots, o)
	}
	o.alive = true
	a.count++
}

// Spawn adds a new object built from opts.
func (a *Arena) Spawn(opts ObjectOptions) *Object {
	o := &Object{
		Name:      opts.Name,
		Kind:      opts.Kind,
		Caps:      opts.Caps,
		Team:      opts.Team,
		Pose:      opts.Pose,
		Spawn:     opts.Pose,
		Status:    newStatusEffects(),
		Tint:      White,
		JumpSpeed: DefaultJumpSpeed,
	}
	if o.Caps == 0 {
		o.Caps = DefaultCaps(o.Kind)
	}
	if o.Pose.Scale == Zero3 {
		o.Pose.Scale = One3
		o.Spawn.Scale = One3
	}
	if opts.Tint != nil {
		o.Tint = *opts.Tint
	}
	switch o.Kind {
	case KindPlayer:
		t := DefaultPlayerTuning()
		if opts.Player != nil {
			t = *opts.Player
		}
		o.Player = newPlayerState(t.Sanitize())
		o.JumpSpeed = o.Player.Tuning.JumpSpeed
		o.Status.DefaultFreeze = false
	case KindBall:
		t := DefaultBallTuning()
		if opts.Ball != nil {
			t = *opts.Ball
		}
		o.Ball = newBallState(t.Sanitize())
	case KindZone:
		o.Zone = &ZoneState{Members: make(map[ObjectID]struct{})}
	}
	a.alloc(o)
	if o.Kind == KindFloor && a.Floor == NoObject {
		a.Floor = o.ID
	}
	o.Body = opts.Body
	if o.Body == nil && o.Dynamic() && a.Bodies != nil {
		o.Body = a.Bodies.NewBody(o)
	}
	return o
}

// Dynamic reports whether the object moves and ticks.
func (o *Object) Dynamic() bool {
	switch o.Kind {
	case KindField, KindZone, KindFloor:
		return false
	}
	return true
}

// Destroy removes o from the arena. It leaves its duplicate group, drops
// zone memberships and any possession link, then frees the slot.
func (a *Arena) Destroy(ctx *Context, o *Object) {
	if !o.Alive() {
		return
	}
	if o.Group != nil {
		o.Group.remove(o.ID)
		o.Group = nil
	}
	if o.Player != nil && o.Player.CarriedBall != NoObject {
		if b := a.Get(o.Player.CarriedBall); b != nil && b.Ball != nil {
			o.RemoveBall(ctx, b)
		}
	}
	if o.Ball != nil && o.Ball.CarriedBy != NoObject {
		if p := a.Get(o.Ball.CarriedBy); p != nil && p.Player != nil {
			p.RemoveBall(ctx, o)
		}
	}
	for _, z := range a.slots {
		if z.Alive() && z.Zone != nil {
			delete(z.Zone.Members, o.ID)
		}
	}
	if o.Zone != nil {
		for id := range o.Zone.Members {
			delete(o.Zone.Members, id)
		}
	}
	if a.Floor == o.ID {
		a.Floor = NoObject
	}
	if a.Bodies != nil && o.Body != nil {
		a.Bodies.ReleaseBody(o)
	}
	if ctx != nil {
		ctx.emit(ObjectDestroyed(o.ID))
	}
	o.alive = false
	a.slots[o.ID] = nil
	a.free = append(a.free, o.ID)
	a.count--
}
