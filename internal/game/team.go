package game

import (
	"fmt"
	"sort"
	"sync"
)

// Team holds the cumulative counters the rules keep per team.
type Team struct {
	ID           int      `json:"id" msgpack:"id"`
	Name         string   `json:"name" msgpack:"name"`
	Color        string   `json:"color" msgpack:"color"`
	Score        int      `json:"score" msgpack:"score"`
	Duplications int      `json:"duplications" msgpack:"duplications"`
	TimeFrozen   float64  `json:"timeFrozen" msgpack:"time_frozen"`
	TimeDizzy    float64  `json:"timeDizzy" msgpack:"time_dizzy"`
	TimeBouncy   float64  `json:"timeBouncy" msgpack:"time_bouncy"`
	Players      []string `json:"players" msgpack:"players"`
}

// MaxTeams limits how many teams the board tracks
const MaxTeams = 16

// Team colors available
var TeamColors = []string{
	"red", "blue", "green", "yellow", "purple",
	"orange", "pink", "cyan", "white", "black",
}

// TeamBoard is the per-team accounting table. The simulation only writes
// to it; readers get copies.
type TeamBoard struct {
	mu    sync.RWMutex
	teams map[int]*Team
}

// NewTeamBoard creates a board with the given team names, numbered from 0.
func NewTeamBoard(names ...string) *TeamBoard {
	tb := &TeamBoard{teams: make(map[int]*Team)}
	for i, n := range names {
		tb.ensure(i).Name = n
	}
	return tb
}

// ensure returns team id, creating it on first use. Caller holds mu.
func (tb *TeamBoard) ensure(id int) *Team {
	t, ok := tb.teams[id]
	if !ok {
		t = &Team{
			ID:    id,
			Name:  fmt.Sprintf("Team %d", id+1),
			Color: TeamColors[((id%len(TeamColors))+len(TeamColors))%len(TeamColors)],
		}
		tb.teams[id] = t
	}
	return t
}

// Join records a player name on a team.
func (tb *TeamBoard) Join(team int, player string) error {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if _, ok := tb.teams[team]; !ok && len(tb.teams) >= MaxTeams {
		return fmt.Errorf("maximum teams reached")
	}
	t := tb.ensure(team)
	for _, p := range t.Players {
		if p == player {
			return nil
		}
	}
	t.Players = append(t.Players, player)
	return nil
}

func (tb *TeamBoard) update(team int, fn func(t *Team)) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if _, ok := tb.teams[team]; !ok && len(tb.teams) >= MaxTeams {
		return
	}
	fn(tb.ensure(team))
}

// SetScore overwrites a team score.
func (tb *TeamBoard) SetScore(team, score int) {
	tb.update(team, func(t *Team) { t.Score = score })
}

func (tb *TeamBoard) AddDuplications(team, n int) {
	tb.update(team, func(t *Team) { t.Duplications += n })
}

func (tb *TeamBoard) AddTimeFrozen(team int, seconds float64) {
	tb.update(team, func(t *Team) { t.TimeFrozen += nonNegative(seconds) })
}

func (tb *TeamBoard) AddTimeDizzy(team int, seconds float64) {
	tb.update(team, func(t *Team) { t.TimeDizzy += nonNegative(seconds) })
}

func (tb *TeamBoard) AddTimeBouncy(team int, seconds float64) {
	tb.update(team, func(t *Team) { t.TimeBouncy += nonNegative(seconds) })
}

// Get returns a copy of one team.
func (tb *TeamBoard) Get(team int) (Team, bool) {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	t, ok := tb.teams[team]
	if !ok {
		return Team{}, false
	}
	return copyTeam(t), true
}

// Standings returns every team, highest score first, ties by id.
func (tb *TeamBoard) Standings() []Team {
	tb.mu.RLock()
	out := make([]Team, 0, len(tb.teams))
	for _, t := range tb.teams {
		out = append(out, copyTeam(t))
	}
	tb.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func copyTeam(t *Team) Team {
	c := *t
	c.Players = append([]string(nil), t.Players...)
	return c
}
