package game

import (
	"strconv"
	"sync"
)

// Rules is the rules authority the simulation reports to. It only receives
// writes; nothing it holds is read back by the core.
type Rules interface {
	RegisterPlayer(p *Object)
	SendEvent(e GameEvent)
	UpdateScore()
	AddDuplications(team, n int)
	AddTimeFrozen(team int, seconds float64)
	AddTimeDizzy(team int, seconds float64)
	AddTimeBouncy(team int, seconds float64)
}

// Bus is the default Rules: it keeps the team board, appends events to the
// event log and fans them out to subscribers.
type Bus struct {
	mu      sync.RWMutex
	board   *TeamBoard
	log     *EventLog
	players map[ObjectID]*Object
	subs    map[int]func(GameEvent)
	nextSub int
	sent    uint64
}

// NewBus creates a bus. log may be nil.
func NewBus(board *TeamBoard, log *EventLog) *Bus {
	if board == nil {
		board = NewTeamBoard()
	}
	return &Bus{
		board:   board,
		log:     log,
		players: make(map[ObjectID]*Object),
		subs:    make(map[int]func(GameEvent)),
	}
}

// Board returns the team board.
func (b *Bus) Board() *TeamBoard { return b.board }

// Subscribe registers fn for every event and returns a cancel func.
// fn runs on the simulation goroutine and must not block.
func (b *Bus) Subscribe(fn func(GameEvent)) (cancel func()) {
	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

func (b *Bus) RegisterPlayer(p *Object) {
	b.mu.Lock()
	b.players[p.ID] = p
	b.mu.Unlock()
	b.board.Join(p.Team, p.Name)
}

func (b *Bus) SendEvent(e GameEvent) {
	b.mu.Lock()
	b.sent++
	if e.Kind == EventObjectDestroyed {
		delete(b.players, e.Object)
	}
	subs := make([]func(GameEvent), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.Unlock()

	if b.log != nil {
		b.log.Append(NewRecord(e, eventSource(e)))
	}
	for _, fn := range subs {
		fn(e)
	}
}

// eventSource is the rate-limit key of an event: the acting object.
func eventSource(e GameEvent) string {
	switch {
	case e.Player != NoObject:
		return strconv.FormatUint(uint64(e.Player), 10)
	case e.Object != NoObject:
		return strconv.FormatUint(uint64(e.Object), 10)
	}
	return ""
}

// UpdateScore recomputes every team score from its registered players.
// Teams left without live players drop to 0.
func (b *Bus) UpdateScore() {
	scores := make(map[int]int)
	for _, t := range b.board.Standings() {
		scores[t.ID] = 0
	}
	b.mu.RLock()
	for _, p := range b.players {
		if p.Alive() && p.Player != nil {
			scores[p.Team] += p.Player.Score
		}
	}
	b.mu.RUnlock()
	for team, s := range scores {
		b.board.SetScore(team, s)
	}
}

func (b *Bus) AddDuplications(team, n int)             { b.board.AddDuplications(team, n) }
func (b *Bus) AddTimeFrozen(team int, seconds float64) { b.board.AddTimeFrozen(team, seconds) }
func (b *Bus) AddTimeDizzy(team int, seconds float64)  { b.board.AddTimeDizzy(team, seconds) }
func (b *Bus) AddTimeBouncy(team int, seconds float64) { b.board.AddTimeBouncy(team, seconds) }

// Sent returns how many events passed through the bus.
func (b *Bus) Sent() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sent
}
