package game

import (
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
)

// EventKind classifies a gameplay event sent to the rules authority.
type EventKind uint8

const (
	EventUnknown EventKind = iota
	EventPlayerTouchBall
	EventPlayerHitInTheFaceByBall
	EventPlayerHitPlayer
	EventPlayerStealBall
	EventPlayerTacklePlayer
	EventPlayerHitSportsObject
	EventPlayerHitFieldObject
	EventPlayerShootBall
	EventObjectDuplicated
	EventObjectDestroyed
)

// EventVersion for backwards compatibility in replay
const EventVersion uint8 = 1

// String returns human-readable event kind
func (k EventKind) String() string {
	switch k {
	case EventPlayerTouchBall:
		return "player_touch_ball"
	case EventPlayerHitInTheFaceByBall:
		return "player_hit_in_the_face_by_ball"
	case EventPlayerHitPlayer:
		return "player_hit_player"
	case EventPlayerStealBall:
		return "player_steal_ball"
	case EventPlayerTacklePlayer:
		return "player_tackle_player"
	case EventPlayerHitSportsObject:
		return "player_hit_sports_object"
	case EventPlayerHitFieldObject:
		return "player_hit_field_object"
	case EventPlayerShootBall:
		return "player_shoot_ball"
	case EventObjectDuplicated:
		return "object_duplicated"
	case EventObjectDestroyed:
		return "object_destroyed"
	default:
		return "unknown"
	}
}

// MarshalText lets kinds appear by name in JSON.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText reads a kind back from the event log. Unknown names decode
// as EventUnknown so older readers survive newer logs.
func (k *EventKind) UnmarshalText(b []byte) error {
	for kind := EventPlayerTouchBall; kind <= EventObjectDestroyed; kind++ {
		if kind.String() == string(b) {
			*k = kind
			return nil
		}
	}
	*k = EventUnknown
	return nil
}

// GameEvent is an immutable notification. Unused roles hold NoObject.
type GameEvent struct {
	Kind   EventKind `json:"kind" msgpack:"kind"`
	Tick   uint64    `json:"tick" msgpack:"tick"`
	Player ObjectID  `json:"player" msgpack:"player"`
	Victim ObjectID  `json:"victim" msgpack:"victim"`
	Ball   ObjectID  `json:"ball" msgpack:"ball"`
	Object ObjectID  `json:"object" msgpack:"object"`
	Field  ObjectID  `json:"field" msgpack:"field"`
}

func newEvent(kind EventKind) GameEvent {
	return GameEvent{
		Kind:   kind,
		Player: NoObject,
		Victim: NoObject,
		Ball:   NoObject,
		Object: NoObject,
		Field:  NoObject,
	}
}

// Event constructors mirror the roles each kind carries.

func PlayerTouchBall(p, b ObjectID) GameEvent {
	e := newEvent(EventPlayerTouchBall)
	e.Player, e.Ball = p, b
	return e
}

func PlayerHitInTheFaceByBall(p, b ObjectID) GameEvent {
	e := newEvent(EventPlayerHitInTheFaceByBall)
	e.Player, e.Ball = p, b
	return e
}

func PlayerHitPlayer(p, victim ObjectID) GameEvent {
	e := newEvent(EventPlayerHitPlayer)
	e.Player, e.Victim = p, victim
	return e
}

func PlayerStealBall(p, victim, b ObjectID) GameEvent {
	e := newEvent(EventPlayerStealBall)
	e.Player, e.Victim, e.Ball = p, victim, b
	return e
}

func PlayerTacklePlayer(p, victim ObjectID) GameEvent {
	e := newEvent(EventPlayerTacklePlayer)
	e.Player, e.Victim = p, victim
	return e
}

func PlayerHitSportsObject(p, obj ObjectID) GameEvent {
	e := newEvent(EventPlayerHitSportsObject)
	e.Player, e.Object = p, obj
	return e
}

func PlayerHitFieldObject(p, field ObjectID) GameEvent {
	e := newEvent(EventPlayerHitFieldObject)
	e.Player, e.Field = p, field
	return e
}

func PlayerShootBall(p, b ObjectID) GameEvent {
	e := newEvent(EventPlayerShootBall)
	e.Player, e.Ball = p, b
	return e
}

func ObjectDuplicated(src, dupe ObjectID) GameEvent {
	e := newEvent(EventObjectDuplicated)
	e.Object, e.Victim = src, dupe
	return e
}

func ObjectDestroyed(id ObjectID) GameEvent {
	e := newEvent(EventObjectDestroyed)
	e.Object = id
	return e
}

// Record is the event log envelope for a GameEvent.
type Record struct {
	ID        ulid.ULID `json:"id"`
	Version   uint8     `json:"version"`
	Timestamp int64     `json:"timestamp"` // Unix nano
	Sequence  uint64    `json:"sequence"`  // Monotonic sequence, set by the log
	Event     GameEvent `json:"event"`
	Source    string    `json:"source"` // Rate-limit key, usually the acting player
}

// NewRecord wraps an event with a fresh ULID and the current timestamp
func NewRecord(e GameEvent, source string) Record {
	now := time.Now()
	return Record{
		ID:        ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()),
		Version:   EventVersion,
		Timestamp: now.UnixNano(),
		Event:     e,
		Source:    source,
	}
}

// EncodeRecord marshals a record to a JSON line (without the newline)
func EncodeRecord(r Record) []byte {
	data, err := json.Marshal(r)
	if err != nil {
		return nil
	}
	return data
}
