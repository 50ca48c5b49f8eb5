package game

import "testing"

// TestDashTackleStealsBall verifies a dash into a carrier steals and tackles
func TestDashTackleStealsBall(t *testing.T) {
	tests := []struct {
		name      string
		stealable bool
		carrying  bool
	}{
		{"stealable ball", true, false},
		{"locked ball", false, false},
		{"carrier dashing with its own ball", true, true},
		{"carrier keeps its ball when the other is locked", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t)
			attacker := w.spawnPlayer("attacker", 0, func(pt *PlayerTuning) { pt.DashWhileCarrying = true })
			victim := w.spawnPlayer("victim", 1, nil)
			b := w.spawnBall(func(bt *BallTuning) { bt.Stealable = tt.stealable })
			own := w.spawnBall(nil)
			w.step(1)
			give(w.ctx(), victim, b)
			if tt.carrying {
				give(w.ctx(), attacker, own)
			}
			attacker.Player.DashTimer = 0.5

			w.sim.Dispatch(Contact{Self: attacker.ID, Other: victim.ID, Phase: ContactEnter})

			if victim.Player.StunnedTimer != attacker.Player.Tuning.TackleDuration {
				t.Errorf("Expected victim stunned for %v, got %v", attacker.Player.Tuning.TackleDuration, victim.Player.StunnedTimer)
			}
			if got := victim.Body.Velocity(); got != V3(0, 8, 7) {
				t.Errorf("Expected launch (0,8,7), got %v", got)
			}
			if got := victim.Body.AngularVelocity().Len(); !approx(got, MaxAngularSpeed) {
				t.Errorf("Expected spin capped at %v, got %v", MaxAngularSpeed, got)
			}
			if victim.Body.Constraints() != ConstraintNone {
				t.Error("Tackled player should lose its rotation lock")
			}
			if attacker.Player.Dashing() {
				t.Error("Dash should stop on player contact")
			}
			if w.rules.count(EventPlayerTacklePlayer) != 1 {
				t.Errorf("Expected one tackle event, got %d", w.rules.count(EventPlayerTacklePlayer))
			}

			if tt.stealable {
				if attacker.Player.CarriedBall != b.ID || b.Ball.CarriedBy != attacker.ID {
					t.Error("Attacker should now carry the ball")
				}
				if victim.Player.Carrying() {
					t.Error("Victim should have lost the ball")
				}
				if w.rules.count(EventPlayerStealBall) != 1 {
					t.Errorf("Expected one steal event, got %d", w.rules.count(EventPlayerStealBall))
				}
				if own.Ball.CarriedBy != NoObject {
					t.Errorf("Attacker's own ball should be dropped, carried by %d", own.Ball.CarriedBy)
				}
			} else {
				if b.Ball.CarriedBy != victim.ID || attacker.Player.CarriedBall == b.ID {
					t.Error("Locked ball should stay with the victim")
				}
				if tt.carrying && (attacker.Player.CarriedBall != own.ID || own.Ball.CarriedBy != attacker.ID) {
					t.Error("Attacker should keep its own ball when the steal fails")
				}
				if !tt.carrying && attacker.Player.Carrying() {
					t.Error("Attacker should not carry anything")
				}
				if w.rules.count(EventPlayerStealBall) != 0 {
					t.Error("No steal event expected")
				}
			}
		})
	}
}

// TestWalkIntoPlayer verifies contact without a dash only reports the hit
func TestWalkIntoPlayer(t *testing.T) {
	w := newTestWorld(t)
	a := w.spawnPlayer("a", 0, nil)
	b := w.spawnPlayer("b", 1, nil)
	w.step(1)

	events := w.sim.Dispatch(Contact{Self: a.ID, Other: b.ID, Phase: ContactEnter})
	if len(events) != 1 || events[0].Kind != EventPlayerHitPlayer {
		t.Fatalf("Expected a single hit event, got %v", events)
	}
	if b.Player.Stunned() {
		t.Error("Walking into a player should not stun them")
	}
}

// TestDashContinuesThroughPlayers verifies DashStopByPlayer can be turned off
func TestDashContinuesThroughPlayers(t *testing.T) {
	w := newTestWorld(t)
	a := w.spawnPlayer("a", 0, func(pt *PlayerTuning) { pt.DashStopByPlayer = false })
	b := w.spawnPlayer("b", 1, nil)
	w.step(1)
	a.Player.DashTimer = 0.5

	w.sim.Dispatch(Contact{Self: a.ID, Other: b.ID, Phase: ContactEnter})

	if a.Player.DashTimer != 0.5 {
		t.Errorf("Dash should continue, got timer %v", a.Player.DashTimer)
	}
	if !b.Player.Stunned() {
		t.Error("Victim should still be tackled")
	}
}

// TestBallPickup verifies touching a loose ball takes it
func TestBallPickup(t *testing.T) {
	w := newTestWorld(t)
	p := w.spawnPlayer("p", 0, nil)
	b := w.spawnBall(nil)
	w.step(1)
	p.Player.DashTimer = 0.3

	w.sim.Dispatch(Contact{Self: p.ID, Other: b.ID, Phase: ContactEnter})

	if p.Player.CarriedBall != b.ID || b.Ball.CarriedBy != p.ID {
		t.Fatal("Player should carry the ball")
	}
	if p.Player.Dashing() {
		t.Error("Picking up a ball should end the dash")
	}
	if w.fx.particles == 0 {
		t.Error("Pickup should play particles")
	}
}

// TestSecondBallIgnored verifies a carrier does not pick up another ball
func TestSecondBallIgnored(t *testing.T) {
	w := newTestWorld(t)
	p := w.spawnPlayer("p", 0, nil)
	first := w.spawnBall(nil)
	second := w.spawnBall(nil)
	w.step(1)
	give(w.ctx(), p, first)

	w.sim.Dispatch(Contact{Self: p.ID, Other: second.ID, Phase: ContactEnter})

	if p.Player.CarriedBall != first.ID {
		t.Error("Player should keep the first ball")
	}
	if second.Ball.CarriedBy != NoObject {
		t.Error("Second ball should stay loose")
	}
}

// TestUltimatePickupStopsCarrier verifies grabbing an ultimate ball halts the player
func TestUltimatePickupStopsCarrier(t *testing.T) {
	w := newTestWorld(t)
	p := w.spawnPlayer("p", 0, nil)
	b := w.spawnBall(func(bt *BallTuning) { bt.Ultimate = true })
	w.step(1)
	p.Body.SetVelocity(V3(3, 0, 3))

	w.sim.Dispatch(Contact{Self: p.ID, Other: b.ID, Phase: ContactEnter})

	if p.Body.Velocity() != Zero3 {
		t.Errorf("Expected carrier at rest, got %v", p.Body.Velocity())
	}
}

// TestStunningBall verifies a shot ball knocks over anyone but its shooter
func TestStunningBall(t *testing.T) {
	tests := []struct {
		name      string
		byShooter bool
		stuns     bool
		want      bool
	}{
		{"hits opponent", false, true, true},
		{"hits shooter", true, true, false},
		{"harmless ball", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t)
			shooter := w.spawnPlayer("shooter", 0, nil)
			victim := w.spawnPlayer("victim", 1, nil)
			b := w.spawnBall(func(bt *BallTuning) { bt.Stuns = tt.stuns })
			w.step(1)

			give(w.ctx(), shooter, b)
			b.Shoot(w.ctx(), V3(10, 0, 0))

			target := victim
			if tt.byShooter {
				target = shooter
			}
			w.sim.Dispatch(Contact{Self: target.ID, Other: b.ID, Phase: ContactEnter})

			if got := target.Player.Stunned(); got != tt.want {
				t.Errorf("Expected stunned=%v, got %v", tt.want, got)
			}
			if target.Player.Carrying() {
				t.Error("A ball in flight cannot be grabbed")
			}
			if tt.want {
				if got := target.Body.Velocity(); got != V3(5, 4, 0) {
					t.Errorf("Expected knockback (5,4,0), got %v", got)
				}
				if w.rules.count(EventPlayerHitInTheFaceByBall) != 1 {
					t.Error("Expected a hit-in-the-face event")
				}
			}
		})
	}
}

// TestGrab verifies the single-carrier rule
func TestGrab(t *testing.T) {
	w := newTestWorld(t)
	a := w.spawnPlayer("a", 0, nil)
	c := w.spawnPlayer("c", 1, nil)
	b := w.spawnBall(nil)
	crate := w.spawn(KindSports, "crate", 0)
	ctx := w.ctx()

	if b.Grab(ctx, crate) {
		t.Error("Only players can grab")
	}
	give(ctx, a, b)
	if !b.Grab(ctx, a) {
		t.Error("Re-grabbing your own ball should succeed")
	}
	give(ctx, c, b)
	if b.Ball.CarriedBy != c.ID || a.Player.Carrying() {
		t.Error("Grab should move the ball from a to c")
	}

	b.Release(ctx)
	if b.Ball.CarriedBy != NoObject || c.Player.Carrying() {
		t.Error("Release should clear both sides")
	}

	// Shooting a loose ball does nothing
	b.Shoot(ctx, V3(1, 0, 0))
	if b.Ball.InFlight() {
		t.Error("Loose ball should not be shot")
	}
}

// TestDestroyCarrierFreesBall verifies destroying either side drops possession
func TestDestroyCarrierFreesBall(t *testing.T) {
	w := newTestWorld(t)
	p := w.spawnPlayer("p", 0, nil)
	b := w.spawnBall(nil)
	give(w.ctx(), p, b)

	w.arena().Destroy(w.ctx(), p)
	if b.Ball.CarriedBy != NoObject {
		t.Error("Ball should be loose after its carrier is destroyed")
	}

	q := w.spawnPlayer("q", 0, nil)
	give(w.ctx(), q, b)
	w.arena().Destroy(w.ctx(), b)
	if q.Player.Carrying() {
		t.Error("Carrier should drop a destroyed ball")
	}
}
