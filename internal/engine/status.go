package engine

import (
	"fmt"
	"time"

	"github.com/emberquest/combat-engine-go/internal/combat"
	"github.com/emberquest/combat-engine-go/internal/repository"
)

// EffectView is a read-only snapshot of an active status effect.
type EffectView struct {
	Kind     string
	Duration int
	Strength float64
	Source   string
}

// CombatantView is a read-only snapshot of one combatant.
type CombatantView struct {
	ID         string
	Name       string
	Team       string
	Health     int
	MaxHealth  int
	Mana       int
	MaxMana    int
	Alive      bool
	CanAct     bool
	Controller string
	Archetype  string
	Position   combat.Position
	Effects    []EffectView
}

// CombatView is a read-only snapshot of one encounter.
type CombatView struct {
	ID                string
	Name              string
	Location          string
	State             string
	Round             int
	Turn              int
	ActiveCombatantID string
	TurnOrder         []string
	AliveTeams        []string
	Combatants        []CombatantView
	CreatedAt         time.Time
	StartedAt         time.Time
	EndedAt           time.Time
}

// Validation reports aggregate invariant checks for one combat.
type Validation struct {
	Valid  bool
	Issues []string
}

// Status produces read-only projections of combat state for external
// consumers.
type Status struct {
	combats repository.CombatRepository
	logs    repository.LogRepository
}

// NewStatus builds a query service over the given repositories.
func NewStatus(combats repository.CombatRepository, logs repository.LogRepository) *Status {
	return &Status{combats: combats, logs: logs}
}

func combatantView(cb *combat.Combatant) CombatantView {
	effects := make([]EffectView, len(cb.Effects))
	for i, e := range cb.Effects {
		effects[i] = EffectView{
			Kind:     string(e.Kind),
			Duration: e.Duration,
			Strength: e.Strength,
			Source:   e.Source,
		}
	}
	return CombatantView{
		ID:         cb.ID,
		Name:       cb.Name,
		Team:       cb.Team,
		Health:     cb.Stats.Health,
		MaxHealth:  cb.Stats.MaxHealth,
		Mana:       cb.Stats.Mana,
		MaxMana:    cb.Stats.MaxMana,
		Alive:      cb.IsAlive(),
		CanAct:     cb.CanAct(),
		Controller: string(cb.Controller),
		Archetype:  string(cb.Archetype),
		Position:   cb.Position,
		Effects:    effects,
	}
}

// CombatStatus returns a snapshot of one encounter.
func (s *Status) CombatStatus(combatID string) (*CombatView, error) {
	c, err := s.combats.Load(combatID)
	if err != nil {
		return nil, err
	}

	combatants := make([]CombatantView, len(c.Combatants))
	for i, cb := range c.Combatants {
		combatants[i] = combatantView(cb)
	}

	return &CombatView{
		ID:                c.ID,
		Name:              c.Name,
		Location:          c.Location,
		State:             string(c.State),
		Round:             c.CurrentRound,
		Turn:              c.CurrentTurn,
		ActiveCombatantID: c.ActiveCombatantID(),
		TurnOrder:         append([]string(nil), c.TurnOrder...),
		AliveTeams:        c.AliveTeams(),
		Combatants:        combatants,
		CreatedAt:         c.CreatedAt,
		StartedAt:         c.StartedAt,
		EndedAt:           c.EndedAt,
	}, nil
}

// CombatantStatus returns a snapshot of one combatant.
func (s *Status) CombatantStatus(combatID, combatantID string) (*CombatantView, error) {
	c, err := s.combats.Load(combatID)
	if err != nil {
		return nil, err
	}
	cb := c.Combatant(combatantID)
	if cb == nil {
		return nil, repository.ErrCombatantNotFound
	}
	view := combatantView(cb)
	return &view, nil
}

// History returns the ordered combat log.
func (s *Status) History(combatID string) ([]combat.LogEntry, error) {
	if _, err := s.combats.Load(combatID); err != nil {
		return nil, err
	}
	return s.logs.ListByCombat(combatID)
}

// Validate checks the aggregate invariants of one combat and reports
// every violation found. It never repairs anything.
func (s *Status) Validate(combatID string) (*Validation, error) {
	c, err := s.combats.Load(combatID)
	if err != nil {
		return nil, err
	}

	var issues []string

	if !c.State.Valid() {
		issues = append(issues, fmt.Sprintf("unknown state %q", c.State))
	}
	if c.CurrentRound < 1 {
		issues = append(issues, fmt.Sprintf("round %d below 1", c.CurrentRound))
	}
	if c.CurrentTurn < 0 || c.CurrentTurn > len(c.TurnOrder) {
		issues = append(issues, fmt.Sprintf("turn index %d outside turn order of length %d", c.CurrentTurn, len(c.TurnOrder)))
	}
	for _, id := range c.TurnOrder {
		if c.Combatant(id) == nil {
			issues = append(issues, fmt.Sprintf("turn order references missing combatant %s", id))
		}
	}

	for _, cb := range c.Combatants {
		if cb.Name == "" || cb.Team == "" {
			issues = append(issues, fmt.Sprintf("combatant %s missing name or team", cb.ID))
		}
		if !cb.Controller.Valid() {
			issues = append(issues, fmt.Sprintf("combatant %s has unknown controller %q", cb.ID, cb.Controller))
		}
		st := cb.Stats
		if st.MaxHealth <= 0 {
			issues = append(issues, fmt.Sprintf("combatant %s has non-positive max health", cb.ID))
		}
		if st.Health < 0 || st.Health > st.MaxHealth {
			issues = append(issues, fmt.Sprintf("combatant %s health %d outside [0,%d]", cb.ID, st.Health, st.MaxHealth))
		}
		if st.Mana < 0 || st.Mana > st.MaxMana {
			issues = append(issues, fmt.Sprintf("combatant %s mana %d outside [0,%d]", cb.ID, st.Mana, st.MaxMana))
		}
		for _, e := range cb.Effects {
			if !e.Kind.Valid() {
				issues = append(issues, fmt.Sprintf("combatant %s has unknown effect %q", cb.ID, e.Kind))
			}
			if e.Duration < 0 {
				issues = append(issues, fmt.Sprintf("combatant %s effect %s has negative duration", cb.ID, e.Kind))
			}
		}
	}

	// Mutual elimination is not modeled as a terminal state; surface it
	// so callers can decide what to do with a stalled encounter.
	if c.State.Active() && len(c.AliveTeams()) == 0 {
		issues = append(issues, "no teams remain alive but combat is still active")
	}

	return &Validation{Valid: len(issues) == 0, Issues: issues}, nil
}
