package game

import "math/rand"

// Context carries everything an operation may need to report or query.
// It replaces ambient globals: a nil Rules disables stat and event reporting.
type Context struct {
	Time  float64 // seconds since the simulation started
	DT    float64
	Tick  uint64
	Rules Rules
	FX    Cosmetics
	Probe Probe
	Rand  *rand.Rand
	Arena *Arena

	events []GameEvent
}

func (c *Context) emit(e GameEvent) {
	if c == nil {
		return
	}
	e.Tick = c.Tick
	c.events = append(c.events, e)
	if c.Rules != nil {
		c.Rules.SendEvent(e)
	}
}

func (c *Context) fx() Cosmetics {
	if c == nil || c.FX == nil {
		return noCosmetics{}
	}
	return c.FX
}

func (c *Context) probe() Probe {
	if c == nil || c.Probe == nil {
		return noProbe{}
	}
	return c.Probe
}

// Events returns the events emitted through this context so far.
func (c *Context) Events() []GameEvent { return c.events }

type noProbe struct{}

func (noProbe) Raycast(Vec3, Vec3, float64) (Hit, bool)             { return Hit{}, false }
func (noProbe) SphereCast(Vec3, float64, Vec3, float64) (Hit, bool) { return Hit{}, false }

// Options configures a Simulation.
type Options struct {
	Arena *Arena
	Rules Rules
	FX    Cosmetics
	Probe Probe
	Seed  int64
}

// Simulation advances the arena with an explicit step function.
type Simulation struct {
	arena *Arena
	rules Rules
	fx    Cosmetics
	probe Probe
	rng   *rand.Rand

	time float64
	tick uint64
}

// NewSimulation creates a simulation over opts.Arena (a fresh one if nil).
func NewSimulation(opts Options) *Simulation {
	a := opts.Arena
	if a == nil {
		a = NewArena(nil)
	}
	return &Simulation{
		arena: a,
		rules: opts.Rules,
		fx:    opts.FX,
		probe: opts.Probe,
		rng:   rand.New(rand.NewSource(opts.Seed)),
	}
}

func (s *Simulation) Arena() *Arena     { return s.arena }
func (s *Simulation) Time() float64     { return s.time }
func (s *Simulation) TickCount() uint64 { return s.tick }

// Context returns an operation context at the current time. Use it for
// commands issued between steps; the returned events are not otherwise
// collected.
func (s *Simulation) Context() *Context {
	return &Context{
		Time:  s.time,
		Tick:  s.tick,
		Rules: s.rules,
		FX:    s.fx,
		Probe: s.probe,
		Rand:  s.rng,
		Arena: s.arena,
	}
}

// Step advances the simulation by dt. Pending contacts are dispatched
// first, then every live object is ticked in slot order. Objects created
// during the step start ticking on the next one.
func (s *Simulation) Step(dt float64, contacts []Contact) []GameEvent {
	dt = nonNegative(dt)
	s.tick++
	s.time += dt
	ctx := s.Context()
	ctx.DT = dt

	ids := s.arena.IDs()
	for _, id := range ids {
		if o := s.arena.Get(id); o != nil && !o.started {
			s.start(ctx, o)
		}
	}

	for _, c := range contacts {
		Dispatch(ctx, c)
	}

	for _, id := range ids {
		o := s.arena.Get(id)
		if o == nil || !o.started || !o.Dynamic() {
			continue
		}
		s.advance(ctx, o)
	}
	return ctx.events
}

// Dispatch routes one contact outside a step. Handlers run synchronously.
func (s *Simulation) Dispatch(c Contact) []GameEvent {
	ctx := s.Context()
	Dispatch(ctx, c)
	return ctx.events
}

func (s *Simulation) start(ctx *Context, o *Object) {
	o.started = true
	if o.Body != nil {
		o.startingConstraints = o.Body.Constraints()
	}
	if o.Player != nil && ctx.Rules != nil {
		ctx.Rules.RegisterPlayer(o)
	}
}

func (s *Simulation) advance(ctx *Context, o *Object) {
	if !s.arena.tickLifetime(ctx, o) {
		return
	}
	o.tickStatus(ctx)
	switch {
	case o.Player != nil:
		o.tickPlayer(ctx)
	case o.Ball != nil:
		o.tickBall(ctx)
	}
}
