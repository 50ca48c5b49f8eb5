package game

// MaxAngularSpeed caps body spin in radians per second.
const MaxAngularSpeed = 7.0

// RigidBody is the default Body. Forces act on velocity immediately; the
// host world integrates position from Velocity once per step.
type RigidBody struct {
	owner       *Object
	mass        float64
	step        float64
	vel         Vec3
	ang         Vec3 // radians per second
	constraints Constraints
}

// NewRigidBody creates a body for o. step is the fixed tick length used for
// acceleration forces.
func NewRigidBody(o *Object, mass, step float64) *RigidBody {
	if mass <= 0 {
		mass = 1
	}
	return &RigidBody{owner: o, mass: mass, step: nonNegative(step), constraints: ConstraintFreezeRotation}
}

func (b *RigidBody) Velocity() Vec3        { return b.vel }
func (b *RigidBody) AngularVelocity() Vec3 { return b.ang }
func (b *RigidBody) Mass() float64         { return b.mass }

func (b *RigidBody) SetVelocity(v Vec3) {
	if b.constraints&ConstraintFreezePosition != 0 {
		return
	}
	b.vel = v
}

func (b *RigidBody) SetAngularVelocity(w Vec3) {
	if b.constraints&ConstraintFreezeRotation != 0 {
		return
	}
	b.ang = w.ClampLen(MaxAngularSpeed)
}

func (b *RigidBody) delta(f Vec3, mode ForceMode) Vec3 {
	switch mode {
	case ForceVelocityChange:
		return f
	case ForceImpulse:
		return f.Scale(1 / b.mass)
	default:
		return f.Scale(b.step)
	}
}

func (b *RigidBody) AddForce(f Vec3, mode ForceMode) {
	if b.constraints&ConstraintFreezePosition != 0 {
		return
	}
	b.vel = b.vel.Add(b.delta(f, mode))
}

func (b *RigidBody) AddTorque(t Vec3, mode ForceMode) {
	if b.constraints&ConstraintFreezeRotation != 0 {
		return
	}
	b.ang = b.ang.Add(b.delta(t, mode)).ClampLen(MaxAngularSpeed)
}

func (b *RigidBody) Constraints() Constraints { return b.constraints }

// SetConstraints applies new axis locks. Locked axes lose their velocity.
func (b *RigidBody) SetConstraints(c Constraints) {
	b.constraints = c
	if c&ConstraintFreezePosition != 0 {
		b.vel = Zero3
	}
	if c&ConstraintFreezeRotation != 0 {
		b.ang = Zero3
	}
}

func (b *RigidBody) PointVelocity(p Vec3) Vec3 {
	if b.owner == nil {
		return b.vel
	}
	r := p.Sub(b.owner.Pose.Position)
	return b.vel.Add(b.ang.Cross(r))
}
