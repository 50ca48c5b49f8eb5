package game

import "sync"

// InputState is a thread-safe Input fed by the API. Presses are latched
// until the simulation consumes them at the end of a tick, so an edge
// arriving between ticks is seen exactly once.
type InputState struct {
	mu    sync.Mutex
	axes  map[string]float64
	held  map[string]bool
	edges map[string]bool
}

func NewInputState() *InputState {
	return &InputState{
		axes:  make(map[string]float64),
		held:  make(map[string]bool),
		edges: make(map[string]bool),
	}
}

// InputFrame is a full controller sample.
type InputFrame struct {
	Axes    map[string]float64 `json:"axes" msgpack:"axes"`
	Buttons map[string]bool    `json:"buttons" msgpack:"buttons"`
}

// Apply replaces axes and button states. A button going from released to
// held records an edge.
func (s *InputState) Apply(f InputFrame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range f.Axes {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		s.axes[k] = v
	}
	for k, down := range f.Buttons {
		if down && !s.held[k] {
			s.edges[k] = true
		}
		s.held[k] = down
	}
}

// Press records a tap: an edge without a lasting hold.
func (s *InputState) Press(button string) {
	s.mu.Lock()
	s.edges[button] = true
	s.mu.Unlock()
}

func (s *InputState) Axis(name string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.axes[name]
}

func (s *InputState) ButtonDown(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edges[name]
}

// Held reports whether the button is currently held.
func (s *InputState) Held(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.held[name]
}

// EndTick clears the edges observed this tick.
func (s *InputState) EndTick() {
	s.mu.Lock()
	for k := range s.edges {
		delete(s.edges, k)
	}
	s.mu.Unlock()
}
