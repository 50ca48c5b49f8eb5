package game

import "math"

// ObjectID is an arena slot index.
type ObjectID uint32

// NoObject marks an empty reference.
const NoObject ObjectID = math.MaxUint32

// Kind is the closed set of object variants.
type Kind uint8

const (
	KindSports Kind = iota // generic dynamic object
	KindPlayer
	KindBall
	KindField // static field geometry (walls, goals)
	KindZone  // trigger volume
	KindFloor
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindBall:
		return "ball"
	case KindField:
		return "field"
	case KindZone:
		return "zone"
	case KindFloor:
		return "floor"
	default:
		return "sports"
	}
}

// Caps is the capability tag set the collision router classifies on.
type Caps uint8

const (
	CapFloor Caps = 1 << iota
	CapBall
	CapPlayer
	CapSports
	CapField
	CapZone
)

// Has reports whether every bit of c2 is set.
func (c Caps) Has(c2 Caps) bool { return c&c2 == c2 }

// DefaultCaps returns the capability tags a kind carries. Dynamic objects
// are also field objects, matching the object hierarchy the router expects.
func DefaultCaps(k Kind) Caps {
	switch k {
	case KindPlayer:
		return CapPlayer | CapSports | CapField
	case KindBall:
		return CapBall | CapSports | CapField
	case KindSports:
		return CapSports | CapField
	case KindZone:
		return CapZone | CapField
	case KindFloor:
		return CapFloor | CapField
	default:
		return CapField
	}
}

// Duplication and lifetime constants
const (
	MaxDuplicates       = 25
	DuplicationCooldown = 0.5  // seconds between successful Duplicate calls
	DuplicateLifeTime   = 20.0 // seconds a duplicate lives
	DuplicateDarken     = 0.5  // tint factor applied to first-generation duplicates
	DefaultJumpSpeed    = 10.0
)

// Object is a dynamic (or static) participant in the arena.
type Object struct {
	ID    ObjectID
	Name  string
	Kind  Kind
	Caps  Caps
	Team  int
	Pose  Pose
	Spawn Pose
	Body  Body // nil for static objects

	Expires  bool
	LifeTime float64

	Group        *DuplicateGroup
	dupeCooldown float64

	Status StatusEffects
	Tint   Color

	// Grounded is maintained by floor contacts.
	Grounded  bool
	preJump   bool
	JumpSpeed float64

	// Constraints restored when freeze ends.
	startingConstraints Constraints
	started             bool
	alive               bool

	Player *PlayerState
	Ball   *BallState
	Zone   *ZoneState
}

// Alive reports whether the slot still holds a live object.
func (o *Object) Alive() bool { return o != nil && o.alive }

// Forward is the object's facing direction on the pitch.
func (o *Object) Forward() Vec3 { return Forward(o.Pose.Rotation.Y) }

// Yaw is the facing angle in degrees.
func (o *Object) Yaw() float64 { return o.Pose.Rotation.Y }

// StatTracked reports whether effect time is accounted to a team.
func (o *Object) StatTracked() bool { return o.Kind == KindPlayer }

// ObjectOptions configures Spawn.
type ObjectOptions struct {
	Name   string
	Kind   Kind
	Caps   Caps // zero means DefaultCaps(Kind)
	Team   int
	Pose   Pose
	Body   Body
	Tint   *Color
	Player *PlayerTuning
	Ball   *BallTuning
}

// ZoneState tracks which objects overlap a zone.
type ZoneState struct {
	Members map[ObjectID]struct{}
}

// Contains reports membership.
func (z *ZoneState) Contains(id ObjectID) bool {
	_, ok := z.Members[id]
	return ok
}

// Len returns the member count.
func (z *ZoneState) Len() int { return len(z.Members) }
