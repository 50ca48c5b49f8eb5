package game

import "fmt"

// Interfaces the core consumes from the host. The core never owns a physics
// integrator, renderer, mixer or input device; the host adapter implements
// these and the core drives them.

// ForceMode selects how AddForce interprets its vector.
type ForceMode uint8

const (
	ForceAcceleration   ForceMode = iota // v += f * dt, mass ignored
	ForceVelocityChange                  // v += f, mass ignored
	ForceImpulse                         // v += f / mass
)

// Constraints are rigid-body axis locks.
type Constraints uint8

const (
	ConstraintNone           Constraints = 0
	ConstraintFreezeRotation Constraints = 1 << iota
	ConstraintFreezePosition
	ConstraintFreezeAll = ConstraintFreezeRotation | ConstraintFreezePosition
)

// Body is the physics collaborator's handle on one rigid body.
type Body interface {
	Velocity() Vec3
	SetVelocity(v Vec3)
	AngularVelocity() Vec3
	SetAngularVelocity(w Vec3)
	AddForce(f Vec3, mode ForceMode)
	AddTorque(t Vec3, mode ForceMode)
	Constraints() Constraints
	SetConstraints(c Constraints)
	// PointVelocity is the velocity of a world point rigidly attached to the body.
	PointVelocity(p Vec3) Vec3
}

// Hit is a raycast or sphere-cast result.
type Hit struct {
	Distance float64
	Point    Vec3
	Normal   Vec3
	Object   ObjectID // NoObject for static geometry
}

// Probe answers geometry queries. Casts ignore balls.
type Probe interface {
	Raycast(origin, dir Vec3, maxDist float64) (Hit, bool)
	SphereCast(origin Vec3, radius float64, dir Vec3, maxDist float64) (Hit, bool)
}

// EffectKind keys the cosmetic attached above an object.
type EffectKind uint8

const (
	EffectNone EffectKind = iota
	EffectFreeze
	EffectDizzy
	EffectBouncy
)

func (k EffectKind) String() string {
	switch k {
	case EffectFreeze:
		return "freeze"
	case EffectDizzy:
		return "dizzy"
	case EffectBouncy:
		return "bouncy"
	default:
		return "none"
	}
}

func (k EffectKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// ParseEffectKind maps an effect name to its kind.
func ParseEffectKind(s string) (EffectKind, error) {
	for _, k := range []EffectKind{EffectFreeze, EffectDizzy, EffectBouncy} {
		if k.String() == s {
			return k, nil
		}
	}
	return EffectNone, fmt.Errorf("unknown effect %q", s)
}

// Cosmetics receives fire-and-forget presentation requests.
type Cosmetics interface {
	SetEffect(id ObjectID, kind EffectKind)
	SoundPlaying(id ObjectID) bool
	PlayHitSound(id ObjectID)
	PlayTackleSound(id ObjectID)
	PlayParticles(id ObjectID)
}

// Input answers named-axis and named-button queries for one player.
type Input interface {
	Axis(name string) float64
	// ButtonDown reports a press edge observed this tick.
	ButtonDown(name string) bool
}

// noCosmetics is used when the host supplies none.
type noCosmetics struct{}

func (noCosmetics) SetEffect(ObjectID, EffectKind) {}
func (noCosmetics) SoundPlaying(ObjectID) bool     { return true }
func (noCosmetics) PlayHitSound(ObjectID)          {}
func (noCosmetics) PlayTackleSound(ObjectID)       {}
func (noCosmetics) PlayParticles(ObjectID)         {}

// noInput reports no axes and no presses.
type noInput struct{}

func (noInput) Axis(string) float64    { return 0 }
func (noInput) ButtonDown(string) bool { return false }
