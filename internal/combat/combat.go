package combat

import (
	"sort"
	"time"
)

// State is the lifecycle state of a combat encounter.
type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StatePaused     State = "paused"
	StateVictory    State = "victory"
	StateDefeat     State = "defeat"
	StateEscape     State = "escape"
	StateDraw       State = "draw"
)

var states = map[State]bool{
	StateNotStarted: true,
	StateInProgress: true,
	StatePaused:     true,
	StateVictory:    true,
	StateDefeat:     true,
	StateEscape:     true,
	StateDraw:       true,
}

// Valid reports whether the state tag is known.
func (s State) Valid() bool {
	return states[s]
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	switch s {
	case StateVictory, StateDefeat, StateEscape, StateDraw:
		return true
	}
	return false
}

// Active reports whether the combat accepts turn progression.
func (s State) Active() bool {
	return s == StateInProgress || s == StatePaused
}

// Combat is the aggregate root for one encounter: the combatants, the
// turn schedule, the lifecycle state, and the append-only log.
type Combat struct {
	ID                string
	Name              string
	Location          string
	Combatants        []*Combatant
	CurrentRound      int
	CurrentTurn       int
	State             State
	TurnOrder         []string
	Log               []LogEntry
	Environment       map[string]string
	VictoryConditions map[string]string
	DefeatConditions  map[string]string
	CreatedAt         time.Time
	StartedAt         time.Time
	EndedAt           time.Time
}

// Start computes the turn order and moves the combat into progress.
// It returns false if the combat is not in the not_started state.
//
// Turn order is fixed at start: combatants alive at this moment, sorted
// by speed descending, ties keeping insertion order. Combatants that
// die later stay in the order and are skipped via CanAct gating.
func (c *Combat) Start() bool {
	if c.State != StateNotStarted {
		return false
	}

	alive := make([]*Combatant, 0, len(c.Combatants))
	for _, cb := range c.Combatants {
		if cb.IsAlive() {
			alive = append(alive, cb)
		}
	}
	sort.SliceStable(alive, func(i, j int) bool {
		return alive[i].Stats.Speed > alive[j].Stats.Speed
	})

	c.TurnOrder = make([]string, len(alive))
	for i, cb := range alive {
		c.TurnOrder[i] = cb.ID
	}

	c.CurrentRound = 1
	c.CurrentTurn = 0
	c.State = StateInProgress
	c.StartedAt = time.Now()
	return true
}

// NextTurn advances the turn pointer. When the pointer wraps past the
// end of the turn order the round increments and every combatant's
// status effects tick down; expired effect kinds are returned keyed by
// combatant id. Returns ok=false without mutating anything if the
// combat is not active.
func (c *Combat) NextTurn() (expired map[string][]EffectKind, ok bool) {
	if !c.State.Active() {
		return nil, false
	}

	c.CurrentTurn++
	if c.CurrentTurn >= len(c.TurnOrder) {
		c.CurrentTurn = 0
		c.CurrentRound++
		expired = make(map[string][]EffectKind)
		for _, cb := range c.Combatants {
			if kinds := cb.TickEffects(); len(kinds) > 0 {
				expired[cb.ID] = kinds
			}
		}
	}
	return expired, true
}

// Pause suspends an in-progress combat.
func (c *Combat) Pause() bool {
	if c.State != StateInProgress {
		return false
	}
	c.State = StatePaused
	return true
}

// Resume returns a paused combat to progress.
func (c *Combat) Resume() bool {
	if c.State != StatePaused {
		return false
	}
	c.State = StateInProgress
	return true
}

// End moves the combat into a terminal state and stamps the end time.
// Only terminal results are accepted, and only from a non-terminal
// state.
func (c *Combat) End(result State) bool {
	if !result.Terminal() || c.State.Terminal() {
		return false
	}
	c.State = result
	c.EndedAt = time.Now()
	return true
}

// Combatant returns the combatant with the given id, or nil.
func (c *Combat) Combatant(id string) *Combatant {
	for _, cb := range c.Combatants {
		if cb.ID == id {
			return cb
		}
	}
	return nil
}

// RemoveCombatant drops a combatant from the encounter entirely (used
// by a successful flee). The id is also removed from the turn order so
// the order only ever references present combatants; the turn pointer
// is adjusted so the schedule does not skip anyone.
func (c *Combat) RemoveCombatant(id string) bool {
	idx := -1
	for i, cb := range c.Combatants {
		if cb.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	c.Combatants = append(c.Combatants[:idx], c.Combatants[idx+1:]...)

	for i, oid := range c.TurnOrder {
		if oid != id {
			continue
		}
		c.TurnOrder = append(c.TurnOrder[:i], c.TurnOrder[i+1:]...)
		if i < c.CurrentTurn {
			c.CurrentTurn--
		}
		break
	}
	return true
}

// ActiveCombatantID returns the id whose turn it currently is, or ""
// when the pointer sits past the end of the order (about to wrap).
func (c *Combat) ActiveCombatantID() string {
	if c.CurrentTurn < 0 || c.CurrentTurn >= len(c.TurnOrder) {
		return ""
	}
	return c.TurnOrder[c.CurrentTurn]
}

// AliveTeams returns the distinct team labels among living combatants,
// in first-seen order.
func (c *Combat) AliveTeams() []string {
	seen := make(map[string]bool)
	var teams []string
	for _, cb := range c.Combatants {
		if cb.IsAlive() && !seen[cb.Team] {
			seen[cb.Team] = true
			teams = append(teams, cb.Team)
		}
	}
	return teams
}

// AddLog appends an entry to the combat's own log.
func (c *Combat) AddLog(entry LogEntry) {
	c.Log = append(c.Log, entry)
}
