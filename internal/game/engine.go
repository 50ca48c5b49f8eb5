package game

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("object not found")
	ErrWrongKind   = errors.New("object has the wrong kind")
	ErrObjectLimit = errors.New("object limit reached")
)

// Host is the physics side the engine drives: it builds bodies, answers
// probes and integrates one step, returning the contacts it observed.
type Host interface {
	BodyFactory
	Probe
	Attach(a *Arena)
	Advance(dt float64) []Contact
}

// EngineConfig configures NewEngine
type EngineConfig struct {
	TickRate int
	Seed     int64
	MatchID  string
	Teams    []string
	Limits   ResourceLimits
	Log      *EventLog
}

// TickStats describes one finished tick
type TickStats struct {
	Duration   time.Duration
	Objects    int
	Duplicates int
	Events     int
}

// Engine runs the simulation on a fixed tick and serves commands from
// other goroutines.
type Engine struct {
	mu sync.RWMutex

	sim     *Simulation
	host    Host
	bus     *Bus
	log     *EventLog
	fx      *CueRecorder
	inputs  map[ObjectID]*InputState
	pending []Contact

	snapshots *SnapshotPublisher
	limits    ResourceLimits
	matchID   string
	dt        float64

	tickRate int
	ticker   *time.Ticker
	stopChan chan struct{}
	running  bool

	onTick func(TickStats)
}

// NewEngine creates an engine. host may be nil for a physics-free arena.
func NewEngine(cfg EngineConfig, host Host) *Engine {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 50
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.MatchID == "" {
		cfg.MatchID = uuid.NewString()
	}
	if cfg.Limits == (ResourceLimits{}) {
		cfg.Limits = DefaultLimits
	}
	if cfg.Log == nil {
		cfg.Log = NewEventLog()
	}

	var bodies BodyFactory
	var probe Probe
	if host != nil {
		bodies, probe = host, host
	}
	bus := NewBus(NewTeamBoard(cfg.Teams...), cfg.Log)
	fx := NewCueRecorder(cfg.Seed)
	bus.Subscribe(func(ev GameEvent) {
		if ev.Kind == EventObjectDestroyed {
			fx.Forget(ev.Object)
		}
	})
	arena := NewArena(bodies)
	if host != nil {
		host.Attach(arena)
	}

	return &Engine{
		sim: NewSimulation(Options{
			Arena: arena,
			Rules: bus,
			FX:    fx,
			Probe: probe,
			Seed:  cfg.Seed,
		}),
		host:      host,
		bus:       bus,
		log:       cfg.Log,
		fx:        fx,
		inputs:    make(map[ObjectID]*InputState),
		snapshots: NewSnapshotPublisher(cfg.Limits),
		limits:    cfg.Limits,
		matchID:   cfg.MatchID,
		dt:        1 / float64(cfg.TickRate),
		tickRate:  cfg.TickRate,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the tick loop
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.ticker = time.NewTicker(time.Second / time.Duration(e.tickRate))
	e.mu.Unlock()

	go func() {
		for {
			select {
			case <-e.ticker.C:
				e.Tick()
			case <-e.stopChan:
				return
			}
		}
	}()

	log.Printf("🏟️ Arena engine started at %d TPS (match %s)", e.tickRate, e.matchID)
}

// Stop halts the tick loop
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}
	e.running = false
	e.ticker.Stop()
	close(e.stopChan)
	log.Println("🛑 Arena engine stopped")
}

// SetTickObserver installs a callback run after every tick, outside the lock.
func (e *Engine) SetTickObserver(fn func(TickStats)) {
	e.mu.Lock()
	e.onTick = fn
	e.mu.Unlock()
}

// Tick advances the arena by one fixed step.
func (e *Engine) Tick() {
	start := time.Now()
	e.mu.Lock()

	events := e.sim.Step(e.dt, e.pending)
	e.pending = nil
	if e.host != nil {
		e.pending = e.host.Advance(e.dt)
	}
	for id, in := range e.inputs {
		in.EndTick()
		if e.sim.Arena().Get(id) == nil {
			delete(e.inputs, id)
		}
	}
	e.fx.Advance(e.dt)
	e.snapshots.Capture(e.sim, e.matchID, events, e.fx.Drain())

	stats := TickStats{
		Objects:    e.sim.Arena().Len(),
		Duplicates: e.countDuplicates(),
		Events:     len(events),
	}
	observer := e.onTick
	e.mu.Unlock()

	stats.Duration = time.Since(start)
	if observer != nil {
		observer(stats)
	}
}

func (e *Engine) countDuplicates() int {
	n := 0
	e.sim.Arena().Each(func(o *Object) {
		if o.Expires && o.Group != nil {
			n++
		}
	})
	return n
}

// SpawnOptions describes an object created through the engine
type SpawnOptions struct {
	Name     string        `json:"name"`
	Kind     string        `json:"kind"`
	Team     int           `json:"team"`
	Position Vec3          `json:"position"`
	Yaw      float64       `json:"yaw"`
	Scale    Vec3          `json:"scale"`
	Player   *PlayerTuning `json:"player,omitempty"`
	Ball     *BallTuning   `json:"ball,omitempty"`
}

// ParseKind maps a kind name to its Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{KindSports, KindPlayer, KindBall, KindField, KindZone, KindFloor} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown kind %q: %w", s, ErrWrongKind)
}

// Spawn adds an object. Players get an InputState the API can feed.
func (e *Engine) Spawn(opts SpawnOptions) (ObjectID, error) {
	kind, err := ParseKind(opts.Kind)
	if err != nil {
		return NoObject, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	a := e.sim.Arena()
	if a.Len() >= e.limits.MaxObjects {
		log.Printf("⚠️ Object limit reached (%d), rejecting: %s", e.limits.MaxObjects, opts.Name)
		return NoObject, ErrObjectLimit
	}
	o := a.Spawn(ObjectOptions{
		Name: opts.Name,
		Kind: kind,
		Team: opts.Team,
		Pose: Pose{
			Position: opts.Position,
			Rotation: V3(0, normalizeYaw(opts.Yaw), 0),
			Scale:    opts.Scale,
		},
		Player: opts.Player,
		Ball:   opts.Ball,
	})
	if o.Player != nil {
		in := NewInputState()
		o.Player.Input = in
		e.inputs[o.ID] = in
		log.Printf("👤 Player joined: %s (team %d, id %d)", o.Name, o.Team, o.ID)
	}
	return o.ID, nil
}

// with runs fn on a live object under the write lock.
func (e *Engine) with(id ObjectID, fn func(ctx *Context, o *Object) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	o := e.sim.Arena().Get(id)
	if o == nil {
		return fmt.Errorf("object %d: %w", id, ErrNotFound)
	}
	return fn(e.sim.Context(), o)
}

// ApplyEffect starts an effect on an object for at least d seconds.
func (e *Engine) ApplyEffect(id ObjectID, kind EffectKind, d float64) error {
	return e.with(id, func(ctx *Context, o *Object) error {
		switch kind {
		case EffectFreeze:
			o.ApplyFreeze(ctx, d)
		case EffectDizzy:
			o.ApplyDizzy(ctx, d)
		case EffectBouncy:
			o.StartBounce(ctx, d)
		default:
			return fmt.Errorf("effect %s: %w", kind, ErrWrongKind)
		}
		return nil
	})
}

// StopEffect ends an effect early.
func (e *Engine) StopEffect(id ObjectID, kind EffectKind) error {
	return e.with(id, func(ctx *Context, o *Object) error {
		switch kind {
		case EffectFreeze:
			o.Unfreeze(ctx)
		case EffectDizzy:
			o.StopDizzy(ctx)
		case EffectBouncy:
			o.StopBounce(ctx)
		default:
			return fmt.Errorf("effect %s: %w", kind, ErrWrongKind)
		}
		return nil
	})
}

// Duplicate clones an object up to n times and returns the new ids.
func (e *Engine) Duplicate(id ObjectID, n int) ([]ObjectID, error) {
	var ids []ObjectID
	err := e.with(id, func(ctx *Context, o *Object) error {
		room := e.limits.MaxObjects - e.sim.Arena().Len()
		if room <= 0 {
			return fmt.Errorf("duplicate %d: %w", id, ErrObjectLimit)
		}
		n = min(n, room)
		// clones share the source's controller
		for _, c := range e.sim.Arena().Duplicate(ctx, o, n) {
			ids = append(ids, c.ID)
		}
		return nil
	})
	if len(ids) > 0 {
		log.Printf("🧬 Object %d duplicated x%d", id, len(ids))
	}
	return ids, err
}

// UnDuplicateAll destroys every clone sharing id's group.
func (e *Engine) UnDuplicateAll(id ObjectID) (int, error) {
	var n int
	err := e.with(id, func(ctx *Context, o *Object) error {
		n = e.sim.Arena().UnDuplicateAll(ctx, o)
		return nil
	})
	return n, err
}

// Respawn resets an object to its spawn pose, or destroys it if it expires.
func (e *Engine) Respawn(id ObjectID) error {
	return e.with(id, func(ctx *Context, o *Object) error {
		e.sim.Arena().Respawn(ctx, o)
		return nil
	})
}

// Destroy removes an object.
func (e *Engine) Destroy(id ObjectID) error {
	return e.with(id, func(ctx *Context, o *Object) error {
		e.sim.Arena().Destroy(ctx, o)
		return nil
	})
}

// ScorePoints credits a player.
func (e *Engine) ScorePoints(id ObjectID, points int) error {
	return e.with(id, func(ctx *Context, o *Object) error {
		if o.Player == nil {
			return fmt.Errorf("object %d: %w", id, ErrWrongKind)
		}
		o.ScorePoints(ctx, points)
		return nil
	})
}

// SetInput feeds a controller frame to a player.
func (e *Engine) SetInput(id ObjectID, f InputFrame) error {
	e.mu.RLock()
	in, ok := e.inputs[id]
	e.mu.RUnlock()
	if !ok {
		return fmt.Errorf("player %d: %w", id, ErrNotFound)
	}
	in.Apply(f)
	return nil
}

// Press taps a button on a player's controller.
func (e *Engine) Press(id ObjectID, button string) error {
	e.mu.RLock()
	in, ok := e.inputs[id]
	e.mu.RUnlock()
	if !ok {
		return fmt.Errorf("player %d: %w", id, ErrNotFound)
	}
	in.Press(button)
	return nil
}

// DropBall releases a carried ball without shooting it. id is either the
// carrying player or the ball itself; nothing carried is not an error.
func (e *Engine) DropBall(id ObjectID) error {
	return e.with(id, func(ctx *Context, o *Object) error {
		switch {
		case o.Player != nil:
			if b := o.carried(ctx); b != nil {
				b.Release(ctx)
			}
		case o.Ball != nil:
			o.Release(ctx)
		default:
			return fmt.Errorf("object %d: %w", id, ErrWrongKind)
		}
		return nil
	})
}

// Snapshot returns the latest published arena state.
func (e *Engine) Snapshot() *ArenaSnapshot { return e.snapshots.Latest() }

// Object returns a copy of one object.
func (e *Engine) Object(id ObjectID) (ObjectSnapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	o := e.sim.Arena().Get(id)
	if o == nil {
		return ObjectSnapshot{}, fmt.Errorf("object %d: %w", id, ErrNotFound)
	}
	return SnapshotOf(o), nil
}

// Teams returns the standings.
func (e *Engine) Teams() []Team { return e.bus.Board().Standings() }

// Subscribe receives every event as it is emitted.
func (e *Engine) Subscribe(fn func(GameEvent)) (cancel func()) { return e.bus.Subscribe(fn) }

// RecentEvents returns the newest logged event records.
func (e *Engine) RecentEvents(n int) []Record { return e.log.Recent(n) }

// StartEventLog starts flushing event records to filePath
func (e *Engine) StartEventLog(filePath string) error { return e.log.Start(filePath) }

func (e *Engine) StopEventLog() { e.log.Stop() }

// EventLogStats returns event log statistics
func (e *Engine) EventLogStats() map[string]uint64 {
	total, dropped := e.log.Stats()
	return map[string]uint64{"total": total, "dropped": dropped, "sent": e.bus.Sent()}
}

func (e *Engine) MatchID() string        { return e.matchID }
func (e *Engine) TickRate() int          { return e.tickRate }
func (e *Engine) Limits() ResourceLimits { return e.limits }
