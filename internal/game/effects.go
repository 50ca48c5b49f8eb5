package game

import (
	"math/rand"
	"sync"
)

// CueKind is a presentation request recorded for clients.
type CueKind uint8

const (
	CueEffect CueKind = iota
	CueHitSound
	CueTackleSound
	CueParticles
)

func (k CueKind) String() string {
	switch k {
	case CueEffect:
		return "effect"
	case CueHitSound:
		return "hit_sound"
	case CueTackleSound:
		return "tackle_sound"
	default:
		return "particles"
	}
}

func (k CueKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Cue is one cosmetic request. Clip is the sound picked from the pool.
type Cue struct {
	Kind   CueKind    `json:"kind" msgpack:"kind"`
	Object ObjectID   `json:"object" msgpack:"object"`
	Effect EffectKind `json:"effect,omitempty" msgpack:"effect,omitempty"`
	Clip   string     `json:"clip,omitempty" msgpack:"clip,omitempty"`
}

// Sound pools
var (
	HitClips    = []string{"hit_1", "hit_2", "hit_3", "hit_4"}
	TackleClips = []string{"tackle_1", "tackle_2", "tackle_3"}
)

// SoundLength is how long a clip counts as playing
const SoundLength = 0.25

// MaxCuesPerTick bounds the cues kept between drains
const MaxCuesPerTick = 256

// CueRecorder implements Cosmetics by recording requests for the renderer.
// Nothing is drawn or played here.
type CueRecorder struct {
	mu      sync.Mutex
	rng     *rand.Rand
	effects map[ObjectID]EffectKind
	playing map[ObjectID]float64 // remaining clip time
	cues    []Cue
}

func NewCueRecorder(seed int64) *CueRecorder {
	return &CueRecorder{
		rng:     rand.New(rand.NewSource(seed)),
		effects: make(map[ObjectID]EffectKind),
		playing: make(map[ObjectID]float64),
	}
}

func (r *CueRecorder) push(c Cue) {
	if len(r.cues) >= MaxCuesPerTick {
		return
	}
	r.cues = append(r.cues, c)
}

func (r *CueRecorder) SetEffect(id ObjectID, kind EffectKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if kind == EffectNone {
		delete(r.effects, id)
	} else {
		r.effects[id] = kind
	}
	r.push(Cue{Kind: CueEffect, Object: id, Effect: kind})
}

func (r *CueRecorder) SoundPlaying(id ObjectID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playing[id] > 0
}

func (r *CueRecorder) play(id ObjectID, kind CueKind, pool []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.playing[id] = SoundLength
	r.push(Cue{Kind: kind, Object: id, Clip: pool[r.rng.Intn(len(pool))]})
}

func (r *CueRecorder) PlayHitSound(id ObjectID)    { r.play(id, CueHitSound, HitClips) }
func (r *CueRecorder) PlayTackleSound(id ObjectID) { r.play(id, CueTackleSound, TackleClips) }

func (r *CueRecorder) PlayParticles(id ObjectID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.push(Cue{Kind: CueParticles, Object: id})
}

// Advance runs clip timers down by dt.
func (r *CueRecorder) Advance(dt float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.playing {
		if t -= dt; t <= 0 {
			delete(r.playing, id)
		} else {
			r.playing[id] = t
		}
	}
}

// Drain returns and clears the cues recorded since the last call.
func (r *CueRecorder) Drain() []Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.cues
	r.cues = nil
	return out
}

// Effect returns the cosmetic currently shown on id.
func (r *CueRecorder) Effect(id ObjectID) EffectKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.effects[id]
}

// Forget drops state for a destroyed object.
func (r *CueRecorder) Forget(id ObjectID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.effects, id)
	delete(r.playing, id)
}
