package world

import (
	"math"
	"testing"

	"sports-arena/internal/game"
)

func newTestWorld(t *testing.T) (*World, *game.Arena) {
	t.Helper()
	w := New(DefaultConfig())
	a := game.NewArena(nil)
	w.Attach(a)
	return w, a
}

func spawnAt(a *game.Arena, kind game.Kind, pos, scale game.Vec3) *game.Object {
	return a.Spawn(game.ObjectOptions{
		Name: kind.String(),
		Kind: kind,
		Pose: game.Pose{Position: pos, Scale: scale},
	})
}

func TestNewBody(t *testing.T) {
	w, a := newTestWorld(t)
	p := spawnAt(a, game.KindPlayer, game.V3(0, 1, 0), game.V3(1, 2, 1))
	b := spawnAt(a, game.KindBall, game.V3(2, 1, 0), game.Vec3{})
	wall := spawnAt(a, game.KindField, game.V3(5, 1, 0), game.V3(1, 2, 10))

	if wall.Body != nil {
		t.Error("Static objects should not get a body")
	}
	if p.Body.Constraints() != game.ConstraintFreezeRotation {
		t.Errorf("Players should keep the rotation lock, got %v", p.Body.Constraints())
	}
	if b.Body.Constraints() != game.ConstraintNone {
		t.Errorf("Balls should start unconstrained, got %v", b.Body.Constraints())
	}
	if m := b.Body.(*game.RigidBody).Mass(); m != DefaultConfig().BallMass {
		t.Errorf("Expected ball mass %v, got %v", DefaultConfig().BallMass, m)
	}

	a.Destroy(nil, b)
	if len(w.bodies) != 1 {
		t.Errorf("Destroyed body should be released, %d left", len(w.bodies))
	}
}

func TestGravityAndFloor(t *testing.T) {
	w, a := newTestWorld(t)
	floor := spawnAt(a, game.KindFloor, game.Vec3{}, game.V3(40, 0, 24))
	b := spawnAt(a, game.KindBall, game.V3(0, 2, 0), game.Vec3{})

	enters, exits := 0, 0
	for i := 0; i < 100; i++ {
		for _, c := range w.Advance(0.02) {
			if c.Self != b.ID || c.Other != floor.ID {
				continue
			}
			switch c.Phase {
			case game.ContactEnter:
				enters++
			case game.ContactExit:
				exits++
			case game.ContactStay:
				t.Error("Floor contacts should not report stay")
			}
		}
	}

	r := b.Ball.Tuning.CarryRadius
	if math.Abs(b.Pose.Position.Y-r) > 1e-9 {
		t.Errorf("Ball should rest on the floor at %v, got %v", r, b.Pose.Position.Y)
	}
	if b.Body.Velocity().Y != 0 {
		t.Errorf("Resting ball should have no vertical speed, got %v", b.Body.Velocity().Y)
	}
	if enters != 1 || exits != 0 {
		t.Errorf("Expected one floor enter and no exit, got %d/%d", enters, exits)
	}
}

func TestPitchBounds(t *testing.T) {
	w, a := newTestWorld(t)
	b := spawnAt(a, game.KindBall, game.V3(19, 1, 0), game.Vec3{})
	b.Body.SetVelocity(game.V3(100, 0, 0))

	w.Advance(0.02)

	r := b.Ball.Tuning.CarryRadius
	if b.Pose.Position.X > 20-r {
		t.Errorf("Ball should stay inside the pitch, got x=%v", b.Pose.Position.X)
	}
	if v := b.Body.Velocity().X; math.Abs(v+30) > 1e-9 {
		t.Errorf("Expected bounce back at -30, got %v", v)
	}
}

func TestWallPushOut(t *testing.T) {
	w, a := newTestWorld(t)
	spawnAt(a, game.KindField, game.V3(5, 1, 0), game.V3(1, 2, 10))
	o := spawnAt(a, game.KindSports, game.V3(4.2, 1, 0), game.V3(1, 1, 1))
	o.Body.SetVelocity(game.V3(1, 0, 0))

	w.Advance(0.02)

	if o.Pose.Position.X > 4.0+1e-9 {
		t.Errorf("Object should be pushed out of the wall, got x=%v", o.Pose.Position.X)
	}
	if o.Body.Velocity().X >= 0 {
		t.Errorf("Velocity into the wall should be reflected, got %v", o.Body.Velocity())
	}
}

func TestRaycast(t *testing.T) {
	w, a := newTestWorld(t)
	floor := spawnAt(a, game.KindFloor, game.Vec3{}, game.V3(40, 0, 24))
	wall := spawnAt(a, game.KindField, game.V3(5, 1, 0), game.V3(1, 2, 10))
	spawnAt(a, game.KindBall, game.V3(2, 1, 0), game.Vec3{})
	w.Refresh()

	origin := game.V3(0, 1, 0)
	tests := []struct {
		name    string
		dir     game.Vec3
		max     float64
		wantHit bool
		wantID  game.ObjectID
		wantT   float64
		normal  game.Vec3
	}{
		{"wall ahead, ball ignored", game.V3(1, 0, 0), 10, true, wall.ID, 4.5, game.V3(-1, 0, 0)},
		{"wall out of range", game.V3(1, 0, 0), 3, false, game.NoObject, 0, game.Vec3{}},
		{"floor below", game.Down, 2, true, floor.ID, 1, game.Up},
		{"nothing behind", game.V3(-1, 0, 0), 10, false, game.NoObject, 0, game.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := w.Raycast(origin, tt.dir, tt.max)
			if ok != tt.wantHit {
				t.Fatalf("Expected hit=%v, got %v (%+v)", tt.wantHit, ok, hit)
			}
			if !ok {
				return
			}
			if hit.Object != tt.wantID || math.Abs(hit.Distance-tt.wantT) > 1e-9 || hit.Normal != tt.normal {
				t.Errorf("Expected %d at %v normal %v, got %+v", tt.wantID, tt.wantT, tt.normal, hit)
			}
		})
	}
}

func TestSphereCast(t *testing.T) {
	w, a := newTestWorld(t)
	wall := spawnAt(a, game.KindField, game.V3(5, 1, 0), game.V3(1, 2, 10))
	player := spawnAt(a, game.KindPlayer, game.V3(0, 1, 3), game.V3(1, 2, 1))
	w.Refresh()

	hit, ok := w.SphereCast(game.V3(0, 1, 0), 0.5, game.V3(1, 0, 0), 10)
	if !ok || hit.Object != wall.ID {
		t.Fatalf("Expected wall hit, got %v %+v", ok, hit)
	}
	if math.Abs(hit.Distance-4) > 1e-9 || math.Abs(hit.Point.X-4.5) > 1e-9 {
		t.Errorf("Expected contact at distance 4, point x 4.5, got %+v", hit)
	}

	hit, ok = w.SphereCast(game.V3(0, 1, 0), 0.5, game.V3(0, 0, 1), 10)
	if !ok || hit.Object != player.ID {
		t.Fatalf("Expected player hit, got %v %+v", ok, hit)
	}
	if math.Abs(hit.Distance-2) > 1e-9 {
		t.Errorf("Expected distance 2, got %v", hit.Distance)
	}

	// Starting inside the wall ignores it
	if _, ok := w.Raycast(game.V3(5, 1, 0), game.V3(1, 0, 0), 1); ok {
		t.Error("Casts starting inside a collider should ignore it")
	}
}

// TestContactsDriveSimulation runs the world and the simulation together and
// checks floor and zone contacts reach the objects
func TestContactsDriveSimulation(t *testing.T) {
	w, a := newTestWorld(t)
	spawnAt(a, game.KindFloor, game.Vec3{}, game.V3(40, 0, 24))
	zone := spawnAt(a, game.KindZone, game.V3(0, 1, 0), game.V3(4, 2, 4))
	b := spawnAt(a, game.KindBall, game.V3(0, 0.5, 0), game.Vec3{})
	sim := game.NewSimulation(game.Options{Arena: a, Probe: w, Seed: 1})

	step := func() {
		sim.Step(0.02, w.Advance(0.02))
	}

	step()
	if !b.Grounded {
		t.Error("Ball on the floor should be grounded")
	}
	if !zone.Zone.Contains(b.ID) {
		t.Error("Ball inside the zone should be a member")
	}

	step()
	if !zone.Zone.Contains(b.ID) {
		t.Error("Membership should survive a step without contact changes")
	}

	b.Pose.Position = game.V3(10, 0.5, 0)
	step()
	if zone.Zone.Contains(b.ID) {
		t.Error("Ball leaving the zone should be removed")
	}
	if !b.Grounded {
		t.Error("Ball should still be grounded")
	}
}

// TestDynamicPairStays verifies overlapping bodies are separated and then
// report stay while they keep touching
func TestDynamicPairStays(t *testing.T) {
	w, a := newTestWorld(t)
	spawnAt(a, game.KindFloor, game.Vec3{}, game.V3(40, 0, 24))
	p := spawnAt(a, game.KindSports, game.V3(0, 0.5, 0), game.V3(1, 1, 1))
	q := spawnAt(a, game.KindSports, game.V3(0.8, 0.5, 0), game.V3(1, 1, 1))

	phase := func(cs []game.Contact) (game.ContactPhase, bool) {
		for _, c := range cs {
			if c.Self == p.ID && c.Other == q.ID {
				return c.Phase, true
			}
		}
		return 0, false
	}

	got, ok := phase(w.Advance(0.02))
	if !ok || got != game.ContactEnter {
		t.Fatalf("Expected enter, got %v (%v)", got, ok)
	}
	if d := q.Pose.Position.Sub(p.Pose.Position).Len(); math.Abs(d-1) > 1e-9 {
		t.Errorf("Overlap should be resolved to distance 1, got %v", d)
	}

	got, ok = phase(w.Advance(0.02))
	if !ok || got != game.ContactStay {
		t.Errorf("Expected stay, got %v (%v)", got, ok)
	}
}
