package game

// ContactPhase is the stage of a contact notification.
type ContactPhase uint8

const (
	ContactEnter ContactPhase = iota
	ContactStay
	ContactExit
)

func (p ContactPhase) String() string {
	switch p {
	case ContactEnter:
		return "enter"
	case ContactStay:
		return "stay"
	default:
		return "exit"
	}
}

// Contact is a collision or trigger notification addressed to Self.
// The host delivers one per participant.
type Contact struct {
	Self    ObjectID
	Other   ObjectID
	Phase   ContactPhase
	Trigger bool
}

// ContactClass is the outcome the router picked for the other party.
type ContactClass uint8

const (
	ClassNone ContactClass = iota
	ClassFloor
	ClassBall
	ClassPlayer
	ClassSports
	ClassZone
	ClassField
	classCount
)

func (c ContactClass) String() string {
	return [...]string{"none", "floor", "ball", "player", "sports", "zone", "field", "?"}[c]
}

// Classify runs the first-match cascade on the other party:
// floor, ball, player, sports, zone, field.
func Classify(a *Arena, other *Object) ContactClass {
	switch {
	case other == nil:
		return ClassNone
	case other.ID == a.Floor:
		return ClassFloor
	case other.Caps.Has(CapBall):
		return ClassBall
	case other.Caps.Has(CapPlayer):
		return ClassPlayer
	case other.Caps.Has(CapSports):
		return ClassSports
	case other.Caps.Has(CapZone):
		return ClassZone
	case other.Caps.Has(CapField):
		return ClassField
	}
	return ClassNone
}

type contactHandler func(ctx *Context, self, other *Object)

// handlers is the per-kind dispatch table. Kinds without an entry (and
// classes without a handler) are no-ops.
var handlers = map[Kind]*[classCount]contactHandler{
	KindPlayer: {
		ClassBall:   handleBallCollision,
		ClassPlayer: handlePlayerCollision,
		ClassSports: handleSportsCollision,
		ClassField:  handleFieldCollision,
	},
}

func lookup(k Kind, c ContactClass) contactHandler {
	if t, ok := handlers[k]; ok {
		return t[c]
	}
	return nil
}

// Dispatch routes one contact through the cascade. Contacts addressed to
// objects that have not started yet are dropped.
func Dispatch(ctx *Context, c Contact) {
	a := ctx.Arena
	self, other := a.Get(c.Self), a.Get(c.Other)
	if self == nil || !self.started {
		return
	}
	switch c.Phase {
	case ContactEnter:
		onEnter(ctx, c, self, other)
	case ContactStay:
		onStay(ctx, self, other)
	case ContactExit:
		onExit(ctx, self, c.Other)
	}
}

func onEnter(ctx *Context, c Contact, self, other *Object) {
	switch class := Classify(ctx.Arena, other); class {
	case ClassNone:
	case ClassFloor:
		self.Grounded = true
	case ClassZone:
		if other.Zone != nil {
			other.Zone.Members[self.ID] = struct{}{}
		}
	default:
		if h := lookup(self.Kind, class); h != nil {
			h(ctx, self, other)
		}
	}
	if !c.Trigger && self.Alive() {
		fx := ctx.fx()
		if !fx.SoundPlaying(self.ID) {
			fx.PlayHitSound(self.ID)
		}
	}
}

// onStay re-runs only the ball and player checks for players.
func onStay(ctx *Context, self, other *Object) {
	if self.Kind != KindPlayer || other == nil {
		return
	}
	switch class := Classify(ctx.Arena, other); class {
	case ClassBall, ClassPlayer:
		if h := lookup(self.Kind, class); h != nil {
			h(ctx, self, other)
		}
	}
}

func onExit(ctx *Context, self *Object, otherID ObjectID) {
	if otherID == ctx.Arena.Floor {
		self.Grounded = false
		return
	}
	if z := ctx.Arena.Get(otherID); z != nil && z.Zone != nil {
		delete(z.Zone.Members, self.ID)
	}
}

func handleSportsCollision(ctx *Context, self, other *Object) {
	ctx.emit(PlayerHitSportsObject(self.ID, other.ID))
}

func handleFieldCollision(ctx *Context, self, other *Object) {
	ctx.emit(PlayerHitFieldObject(self.ID, other.ID))
}
