package game

import (
	"math"
	"testing"
)

const testDT = 0.25

// testBodies hands out RigidBodies the way the world does: players keep
// the rotation lock, everything else starts unconstrained.
type testBodies struct{}

func (testBodies) NewBody(o *Object) Body {
	b := NewRigidBody(o, 1, 0.02)
	if o.Kind != KindPlayer {
		b.SetConstraints(ConstraintNone)
	}
	return b
}

func (testBodies) ReleaseBody(*Object) {}

// recordingRules captures every report.
type recordingRules struct {
	registered   []ObjectID
	events       []GameEvent
	scoreUpdates int
	duplications map[int]int
	frozen       map[int]float64
	dizzy        map[int]float64
	bouncy       map[int]float64
}

func newRecordingRules() *recordingRules {
	return &recordingRules{
		duplications: make(map[int]int),
		frozen:       make(map[int]float64),
		dizzy:        make(map[int]float64),
		bouncy:       make(map[int]float64),
	}
}

func (r *recordingRules) RegisterPlayer(p *Object)          { r.registered = append(r.registered, p.ID) }
func (r *recordingRules) SendEvent(e GameEvent)             { r.events = append(r.events, e) }
func (r *recordingRules) UpdateScore()                      { r.scoreUpdates++ }
func (r *recordingRules) AddDuplications(team, n int)       { r.duplications[team] += n }
func (r *recordingRules) AddTimeFrozen(team int, s float64) { r.frozen[team] += s }
func (r *recordingRules) AddTimeDizzy(team int, s float64)  { r.dizzy[team] += s }
func (r *recordingRules) AddTimeBouncy(team int, s float64) { r.bouncy[team] += s }

func (r *recordingRules) count(kind EventKind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// recordingFX captures cosmetic requests.
type recordingFX struct {
	effects   map[ObjectID]EffectKind
	playing   map[ObjectID]bool
	hits      int
	tackles   int
	particles int
}

func newRecordingFX() *recordingFX {
	return &recordingFX{effects: make(map[ObjectID]EffectKind), playing: make(map[ObjectID]bool)}
}

func (f *recordingFX) SetEffect(id ObjectID, k EffectKind) { f.effects[id] = k }
func (f *recordingFX) SoundPlaying(id ObjectID) bool       { return f.playing[id] }
func (f *recordingFX) PlayHitSound(id ObjectID)            { f.hits++; f.playing[id] = true }
func (f *recordingFX) PlayTackleSound(id ObjectID)         { f.tackles++ }
func (f *recordingFX) PlayParticles(id ObjectID)           { f.particles++ }

// fakeProbe reports the ground below everything and an optional wall ahead.
type fakeProbe struct {
	ground bool
	wall   *Hit
}

func (p *fakeProbe) Raycast(origin, dir Vec3, maxDist float64) (Hit, bool) {
	if p.ground && dir.Y < 0 {
		return Hit{Distance: 0.1, Point: origin.WithY(0), Normal: Up, Object: NoObject}, true
	}
	return Hit{}, false
}

func (p *fakeProbe) SphereCast(origin Vec3, radius float64, dir Vec3, maxDist float64) (Hit, bool) {
	if p.wall != nil && dir.Y == 0 {
		return *p.wall, true
	}
	return Hit{}, false
}

// fakeInput answers from fixed maps.
type fakeInput struct {
	axes    map[string]float64
	buttons map[string]bool
}

func (f *fakeInput) Axis(name string) float64    { return f.axes[name] }
func (f *fakeInput) ButtonDown(name string) bool { return f.buttons[name] }

func press(buttons ...string) *fakeInput {
	in := &fakeInput{axes: map[string]float64{}, buttons: map[string]bool{}}
	for _, b := range buttons {
		in.buttons[b] = true
	}
	return in
}

type testWorld struct {
	sim   *Simulation
	rules *recordingRules
	fx    *recordingFX
	probe *fakeProbe
}

func newTestWorld(t *testing.T) *testWorld {
	t.Helper()
	w := &testWorld{rules: newRecordingRules(), fx: newRecordingFX(), probe: &fakeProbe{}}
	w.sim = NewSimulation(Options{
		Arena: NewArena(testBodies{}),
		Rules: w.rules,
		FX:    w.fx,
		Probe: w.probe,
		Seed:  1,
	})
	return w
}

func (w *testWorld) arena() *Arena { return w.sim.Arena() }
func (w *testWorld) ctx() *Context { return w.sim.Context() }

func (w *testWorld) spawn(kind Kind, name string, team int) *Object {
	return w.arena().Spawn(ObjectOptions{Name: name, Kind: kind, Team: team})
}

func (w *testWorld) spawnBall(tune func(*BallTuning)) *Object {
	t := DefaultBallTuning()
	if tune != nil {
		tune(&t)
	}
	return w.arena().Spawn(ObjectOptions{Name: "ball", Kind: KindBall, Ball: &t})
}

func (w *testWorld) spawnPlayer(name string, team int, tune func(*PlayerTuning)) *Object {
	t := DefaultPlayerTuning()
	if tune != nil {
		tune(&t)
	}
	return w.arena().Spawn(ObjectOptions{Name: name, Kind: KindPlayer, Team: team, Player: &t})
}

func (w *testWorld) step(n int) {
	for i := 0; i < n; i++ {
		w.sim.Step(testDT, nil)
	}
}

// give hands a ball to a player the way a pickup does.
func give(ctx *Context, p, b *Object) {
	if b.Grab(ctx, p) {
		p.Player.CarriedBall = b.ID
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
