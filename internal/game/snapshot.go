package game

import (
	"slices"
	"sync/atomic"
	"time"
)

// ResourceLimits caps what a snapshot may carry
type ResourceLimits struct {
	MaxObjects int // Hard cap on objects copied per snapshot
	MaxEvents  int // Events of the last tick kept on the snapshot
	MaxCues    int // Cosmetic cues of the last tick kept on the snapshot
}

// DefaultLimits provides production-safe default limits
var DefaultLimits = ResourceLimits{
	MaxObjects: 1024,
	MaxEvents:  256,
	MaxCues:    256,
}

// ObjectSnapshot is an immutable copy of one object's state
type ObjectSnapshot struct {
	ID       ObjectID `json:"id" msgpack:"id"`
	Name     string   `json:"name" msgpack:"name"`
	Kind     string   `json:"kind" msgpack:"kind"`
	Team     int      `json:"team" msgpack:"team"`
	Position Vec3     `json:"position" msgpack:"position"`
	Yaw      float64  `json:"yaw" msgpack:"yaw"`
	Velocity Vec3     `json:"velocity" msgpack:"velocity"`
	Tint     Color    `json:"tint" msgpack:"tint"`
	Grounded bool     `json:"grounded" msgpack:"grounded"`

	Freeze float64    `json:"freeze" msgpack:"freeze"`
	Dizzy  float64    `json:"dizzy" msgpack:"dizzy"`
	Bounce float64    `json:"bounce" msgpack:"bounce"`
	Effect EffectKind `json:"effect" msgpack:"effect"`

	Expires   bool     `json:"expires" msgpack:"expires"`
	LifeTime  float64  `json:"lifeTime" msgpack:"life_time"`
	Original  ObjectID `json:"original" msgpack:"original"`
	GroupSize int      `json:"groupSize" msgpack:"group_size"`

	Player *PlayerSnapshot `json:"player,omitempty" msgpack:"player,omitempty"`
	Ball   *BallSnapshot   `json:"ball,omitempty" msgpack:"ball,omitempty"`
	Zone   []ObjectID      `json:"zone,omitempty" msgpack:"zone,omitempty"`
}

type PlayerSnapshot struct {
	Dash        float64  `json:"dash" msgpack:"dash"`
	DashCool    float64  `json:"dashCooldown" msgpack:"dash_cooldown"`
	Stunned     float64  `json:"stunned" msgpack:"stunned"`
	CarriedBall ObjectID `json:"carriedBall" msgpack:"carried_ball"`
	Score       int      `json:"score" msgpack:"score"`
	Trail       bool     `json:"trail" msgpack:"trail"`
}

type BallSnapshot struct {
	CarriedBy ObjectID `json:"carriedBy" msgpack:"carried_by"`
	InFlight  bool     `json:"inFlight" msgpack:"in_flight"`
	Ultimate  bool     `json:"ultimate" msgpack:"ultimate"`
}

// ArenaSnapshot is a complete immutable arena state for clients
type ArenaSnapshot struct {
	Sequence  uint64           `json:"sequence" msgpack:"sequence"`
	Timestamp time.Time        `json:"timestamp" msgpack:"timestamp"`
	Tick      uint64           `json:"tick" msgpack:"tick"`
	Time      float64          `json:"time" msgpack:"time"`
	MatchID   string           `json:"matchId" msgpack:"match_id"`
	Objects   []ObjectSnapshot `json:"objects" msgpack:"objects"`
	Events    []GameEvent      `json:"events" msgpack:"events"`
	Cues      []Cue            `json:"cues" msgpack:"cues"`
	Truncated bool             `json:"truncated,omitempty" msgpack:"truncated,omitempty"`
}

// SnapshotPublisher hands the latest snapshot from the tick goroutine to
// readers. Published snapshots are never mutated again.
type SnapshotPublisher struct {
	limits   ResourceLimits
	latest   atomic.Pointer[ArenaSnapshot]
	sequence atomic.Uint64
}

func NewSnapshotPublisher(limits ResourceLimits) *SnapshotPublisher {
	p := &SnapshotPublisher{limits: limits}
	p.latest.Store(&ArenaSnapshot{})
	return p
}

// Capture copies the arena into a new snapshot and publishes it.
func (p *SnapshotPublisher) Capture(s *Simulation, matchID string, events []GameEvent, cues []Cue) *ArenaSnapshot {
	snap := &ArenaSnapshot{
		Sequence:  p.sequence.Add(1),
		Timestamp: time.Now(),
		Tick:      s.TickCount(),
		Time:      s.Time(),
		MatchID:   matchID,
		Objects:   make([]ObjectSnapshot, 0, min(s.Arena().Len(), p.limits.MaxObjects)),
		Events:    capSlice(events, p.limits.MaxEvents),
		Cues:      capSlice(cues, p.limits.MaxCues),
	}
	s.Arena().Each(func(o *Object) {
		if len(snap.Objects) >= p.limits.MaxObjects {
			snap.Truncated = true
			return
		}
		snap.Objects = append(snap.Objects, SnapshotOf(o))
	})
	p.latest.Store(snap)
	return snap
}

// Latest returns the most recently published snapshot.
func (p *SnapshotPublisher) Latest() *ArenaSnapshot { return p.latest.Load() }

func (p *SnapshotPublisher) Limits() ResourceLimits { return p.limits }

func capSlice[T any](in []T, n int) []T {
	if len(in) > n {
		in = in[len(in)-n:]
	}
	return append([]T(nil), in...)
}

// SnapshotOf copies one object.
func SnapshotOf(o *Object) ObjectSnapshot {
	s := ObjectSnapshot{
		ID:       o.ID,
		Name:     o.Name,
		Kind:     o.Kind.String(),
		Team:     o.Team,
		Position: o.Pose.Position,
		Yaw:      o.Pose.Rotation.Y,
		Tint:     o.Tint,
		Grounded: o.Grounded,
		Freeze:   o.Status.FreezeTime(),
		Dizzy:    o.Status.DizzyTime(),
		Bounce:   o.Status.BounceTime(),
		Effect:   o.Status.Effect(),
		Expires:  o.Expires,
		LifeTime: o.LifeTime,
		Original: NoObject,
	}
	if o.Body != nil {
		s.Velocity = o.Body.Velocity()
	}
	if o.Group != nil {
		s.Original = o.Group.Original()
		s.GroupSize = o.Group.Len()
	}
	if p := o.Player; p != nil {
		s.Player = &PlayerSnapshot{
			Dash:        p.DashTimer,
			DashCool:    p.DashCooldownTimer,
			Stunned:     p.StunnedTimer,
			CarriedBall: p.CarriedBall,
			Score:       p.Score,
			Trail:       p.TrailEnabled,
		}
	}
	if b := o.Ball; b != nil {
		s.Ball = &BallSnapshot{
			CarriedBy: b.CarriedBy,
			InFlight:  b.InFlight(),
			Ultimate:  b.Tuning.Ultimate,
		}
	}
	if z := o.Zone; z != nil && len(z.Members) > 0 {
		s.Zone = make([]ObjectID, 0, len(z.Members))
		for id := range z.Members {
			s.Zone = append(s.Zone, id)
		}
		slices.Sort(s.Zone)
	}
	return s
}
