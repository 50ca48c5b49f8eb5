package game

import "testing"

// TestClassifyCascade verifies the first-match order of the contact router
func TestClassifyCascade(t *testing.T) {
	w := newTestWorld(t)
	a := w.arena()
	floor := w.spawn(KindFloor, "pitch", 0)
	secondFloor := w.spawn(KindFloor, "apron", 0)
	hybrid := a.Spawn(ObjectOptions{Name: "hybrid", Kind: KindSports, Caps: CapBall | CapPlayer | CapField})

	tests := []struct {
		name  string
		other *Object
		want  ContactClass
	}{
		{"nil", nil, ClassNone},
		{"floor by identity", floor, ClassFloor},
		{"other floor is field", secondFloor, ClassField},
		{"ball", w.spawnBall(nil), ClassBall},
		{"player", w.spawnPlayer("p", 0, nil), ClassPlayer},
		{"sports", w.spawn(KindSports, "crate", 0), ClassSports},
		{"zone", w.spawn(KindZone, "goal", 0), ClassZone},
		{"field", w.spawn(KindField, "wall", 0), ClassField},
		{"ball wins over player", hybrid, ClassBall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(a, tt.other); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

// TestFloorContactGrounds verifies floor enter and exit maintain Grounded
func TestFloorContactGrounds(t *testing.T) {
	w := newTestWorld(t)
	floor := w.spawn(KindFloor, "pitch", 0)
	o := w.spawn(KindSports, "crate", 0)
	w.step(1)

	w.sim.Dispatch(Contact{Self: o.ID, Other: floor.ID, Phase: ContactEnter})
	if !o.Grounded {
		t.Error("Object should be grounded after floor contact")
	}
	if w.fx.hits != 1 {
		t.Errorf("Expected one hit sound, got %d", w.fx.hits)
	}

	// A sound already playing is not restarted
	w.sim.Dispatch(Contact{Self: o.ID, Other: floor.ID, Phase: ContactEnter})
	if w.fx.hits != 1 {
		t.Errorf("Hit sound should not overlap, got %d", w.fx.hits)
	}

	w.sim.Dispatch(Contact{Self: o.ID, Other: floor.ID, Phase: ContactExit})
	if o.Grounded {
		t.Error("Object should leave the ground on exit")
	}
}

// TestZoneMembership verifies trigger contacts track zone members silently
func TestZoneMembership(t *testing.T) {
	w := newTestWorld(t)
	zone := w.spawn(KindZone, "goal", 0)
	b := w.spawnBall(nil)
	w.step(1)

	w.sim.Dispatch(Contact{Self: b.ID, Other: zone.ID, Phase: ContactEnter, Trigger: true})
	if !zone.Zone.Contains(b.ID) {
		t.Fatal("Ball should be inside the zone")
	}
	if w.fx.hits != 0 {
		t.Errorf("Triggers should not play hit sounds, got %d", w.fx.hits)
	}

	w.sim.Dispatch(Contact{Self: b.ID, Other: zone.ID, Phase: ContactExit, Trigger: true})
	if zone.Zone.Contains(b.ID) {
		t.Error("Ball should leave the zone on exit")
	}

	w.sim.Dispatch(Contact{Self: b.ID, Other: zone.ID, Phase: ContactEnter, Trigger: true})
	w.arena().Destroy(w.ctx(), b)
	if zone.Zone.Len() != 0 {
		t.Errorf("Destroyed objects should leave zones, %d members left", zone.Zone.Len())
	}
}

// TestPlayerContactEvents verifies the player handlers emit their events
func TestPlayerContactEvents(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		want EventKind
	}{
		{"sports object", KindSports, EventPlayerHitSportsObject},
		{"field object", KindField, EventPlayerHitFieldObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t)
			p := w.spawnPlayer("p", 0, nil)
			other := w.spawn(tt.kind, "thing", 0)
			w.step(1)

			events := w.sim.Dispatch(Contact{Self: p.ID, Other: other.ID, Phase: ContactEnter})
			if len(events) != 1 || events[0].Kind != tt.want {
				t.Fatalf("Expected one %s event, got %v", tt.want, events)
			}
			if events[0].Player != p.ID {
				t.Errorf("Expected player %d, got %d", p.ID, events[0].Player)
			}
		})
	}
}

// TestNonPlayersHaveNoHandlers verifies only players react to contacts
func TestNonPlayersHaveNoHandlers(t *testing.T) {
	w := newTestWorld(t)
	crate := w.spawn(KindSports, "crate", 0)
	wall := w.spawn(KindField, "wall", 0)
	p := w.spawnPlayer("p", 0, nil)
	w.step(1)

	for _, other := range []*Object{wall, p} {
		if events := w.sim.Dispatch(Contact{Self: crate.ID, Other: other.ID, Phase: ContactEnter}); len(events) != 0 {
			t.Errorf("Sports object should not emit events, got %v", events)
		}
	}
}

// TestStayOnlyChecksBallAndPlayer verifies stay contacts skip field objects
func TestStayOnlyChecksBallAndPlayer(t *testing.T) {
	w := newTestWorld(t)
	p := w.spawnPlayer("p", 0, nil)
	wall := w.spawn(KindField, "wall", 0)
	b := w.spawnBall(nil)
	w.step(1)

	if events := w.sim.Dispatch(Contact{Self: p.ID, Other: wall.ID, Phase: ContactStay}); len(events) != 0 {
		t.Errorf("Stay against a wall should be silent, got %v", events)
	}

	events := w.sim.Dispatch(Contact{Self: p.ID, Other: b.ID, Phase: ContactStay})
	if len(events) != 1 || events[0].Kind != EventPlayerTouchBall {
		t.Fatalf("Expected a touch event, got %v", events)
	}
	if p.Player.CarriedBall != b.ID {
		t.Error("Stay against a loose ball should pick it up")
	}
}

// TestUnstartedContactsDropped verifies objects created mid-step ignore contacts
func TestUnstartedContactsDropped(t *testing.T) {
	w := newTestWorld(t)
	floor := w.spawn(KindFloor, "pitch", 0)
	o := w.spawn(KindSports, "crate", 0)

	w.sim.Dispatch(Contact{Self: o.ID, Other: floor.ID, Phase: ContactEnter})
	if o.Grounded {
		t.Error("Contacts before the first step should be dropped")
	}

	w.sim.Step(testDT, []Contact{{Self: o.ID, Other: floor.ID, Phase: ContactEnter}})
	if !o.Grounded {
		t.Error("Contacts delivered with the first step should apply")
	}
}

// TestStepRegistersPlayers verifies players register once when they start
func TestStepRegistersPlayers(t *testing.T) {
	w := newTestWorld(t)
	p := w.spawnPlayer("p", 0, nil)
	w.spawnBall(nil)
	w.step(3)

	if len(w.rules.registered) != 1 || w.rules.registered[0] != p.ID {
		t.Errorf("Expected player %d registered once, got %v", p.ID, w.rules.registered)
	}
	if w.sim.TickCount() != 3 || !approx(w.sim.Time(), 0.75) {
		t.Errorf("Expected tick 3 at 0.75s, got tick %d at %v", w.sim.TickCount(), w.sim.Time())
	}
}
