package game

import (
	"math"
	"testing"
)

// TestRigidBodyForceModes verifies how each mode changes velocity
func TestRigidBodyForceModes(t *testing.T) {
	tests := []struct {
		name string
		mode ForceMode
		want Vec3
	}{
		{"acceleration uses the fixed step", ForceAcceleration, V3(0.5, 0, 0)},
		{"velocity change ignores mass", ForceVelocityChange, V3(10, 0, 0)},
		{"impulse divides by mass", ForceImpulse, V3(5, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewRigidBody(nil, 2, 0.05)
			b.AddForce(V3(10, 0, 0), tt.mode)
			if got := b.Velocity(); !approx(got.X, tt.want.X) || got.Y != 0 || got.Z != 0 {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

// TestRigidBodyConstraints verifies locked axes ignore changes and lose velocity
func TestRigidBodyConstraints(t *testing.T) {
	b := NewRigidBody(nil, 1, 0.02)
	if b.Constraints() != ConstraintFreezeRotation {
		t.Fatalf("Expected rotation lock by default, got %v", b.Constraints())
	}

	b.SetAngularVelocity(V3(0, 3, 0))
	b.AddTorque(V3(0, 100, 0), ForceVelocityChange)
	if b.AngularVelocity() != Zero3 {
		t.Errorf("Rotation lock should block spin, got %v", b.AngularVelocity())
	}

	b.SetConstraints(ConstraintNone)
	b.SetAngularVelocity(V3(0, 100, 0))
	if got := b.AngularVelocity().Y; !approx(got, MaxAngularSpeed) {
		t.Errorf("Expected spin capped at %v, got %v", MaxAngularSpeed, got)
	}

	b.SetVelocity(V3(1, 2, 3))
	b.SetConstraints(ConstraintFreezeAll)
	if b.Velocity() != Zero3 || b.AngularVelocity() != Zero3 {
		t.Error("Freezing all axes should stop the body")
	}
	b.SetVelocity(V3(1, 0, 0))
	b.AddForce(V3(1, 0, 0), ForceImpulse)
	if b.Velocity() != Zero3 {
		t.Errorf("Frozen body should ignore velocity changes, got %v", b.Velocity())
	}
}

// TestRigidBodyPointVelocity verifies spin adds tangential speed at an offset
func TestRigidBodyPointVelocity(t *testing.T) {
	o := &Object{Pose: Pose{Position: V3(1, 0, 1)}}
	b := NewRigidBody(o, 1, 0.02)
	b.SetConstraints(ConstraintNone)
	b.SetVelocity(V3(0, 0, 2))
	b.SetAngularVelocity(V3(0, 1, 0))

	// omega (0,1,0) x r (1,0,0) = (0,0,-1)
	got := b.PointVelocity(V3(2, 0, 1))
	if !approx(got.X, 0) || !approx(got.Z, 1) {
		t.Errorf("Expected (0,0,1), got %v", got)
	}
}

// TestYawHelpers verifies facing, heading and turning conventions
func TestYawHelpers(t *testing.T) {
	if f := Forward(90); !approx(f.X, 1) || math.Abs(f.Z) > 1e-12 {
		t.Errorf("Yaw 90 should face +X, got %v", f)
	}
	if y := headingYaw(Vec2{0, 1}); !approx(y, 0) {
		t.Errorf("Stick up should head yaw 0, got %v", y)
	}

	tests := []struct {
		from, target, max, want float64
	}{
		{0, 90, 30, 30},
		{0, 270, 30, 330},
		{350, 10, 45, 10},
		{10, 20, 0, 10},
	}
	for _, tt := range tests {
		if got := rotateTowards(tt.from, tt.target, tt.max); !approx(got, tt.want) {
			t.Errorf("rotateTowards(%v, %v, %v) = %v, want %v", tt.from, tt.target, tt.max, got, tt.want)
		}
	}
}
