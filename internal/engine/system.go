// Package engine composes the combat services behind a single facade.
// The System is the only entry point external collaborators use; it is
// constructed explicitly by the application root and carries no hidden
// process-wide state.
package engine

import (
	"go.uber.org/zap"

	"github.com/emberquest/combat-engine-go/internal/combat"
	"github.com/emberquest/combat-engine-go/internal/repository"
)

// Repositories bundles the storage contracts the engine needs.
type Repositories struct {
	Combats    repository.CombatRepository
	Combatants repository.CombatantRepository
	Attacks    repository.AttackRepository
	Actions    repository.ActionRepository
	Logs       repository.LogRepository
}

// StoreRepositories adapts a MemoryStore into the repository bundle.
func StoreRepositories(store *repository.MemoryStore) Repositories {
	return Repositories{
		Combats:    store.Combats(),
		Combatants: store.Combatants(),
		Attacks:    store.Attacks(),
		Actions:    store.Actions(),
		Logs:       store.Logs(),
	}
}

// Options tunes a System. Zero values select the shared math/rand
// roller, the standard AI thresholds, default stat baselines, and a
// no-op logger.
type Options struct {
	Roller     combat.Roller
	Defaults   StatDefaults
	Thresholds AIThresholds
	Logger     *zap.Logger
}

// System is the combat engine facade.
type System struct {
	creator  *Creator
	executor *Executor
	decider  *Decider
	status   *Status
	attacks  repository.AttackRepository
	logger   *zap.Logger
}

// NewSystem wires the creation, execution, AI, and query services over
// one repository bundle.
func NewSystem(repos Repositories, opts Options) *System {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &System{
		creator:  NewCreator(repos.Combats, repos.Combatants, repos.Attacks, opts.Defaults, logger),
		executor: NewExecutor(repos.Combats, repos.Attacks, repos.Actions, repos.Logs, opts.Roller, logger),
		decider:  NewDecider(repos.Combats, repos.Attacks, opts.Roller, opts.Thresholds, logger),
		status:   NewStatus(repos.Combats, repos.Logs),
		attacks:  repos.Attacks,
		logger:   logger,
	}
}

// CreateCombat builds and persists a new encounter.
func (s *System) CreateCombat(p CombatParams) (*combat.Combat, error) {
	return s.creator.CreateCombat(p)
}

// AddCombatant builds and attaches a combatant to an encounter.
func (s *System) AddCombatant(combatID string, p CombatantParams) (*combat.Combatant, error) {
	return s.creator.AddCombatant(combatID, p)
}

// CreateAttack builds and persists a catalogue attack.
func (s *System) CreateAttack(p AttackParams) (*combat.Attack, error) {
	return s.creator.CreateAttack(p)
}

// StartCombat opens an encounter; false if it does not exist or has
// already started.
func (s *System) StartCombat(combatID string) bool {
	return s.executor.StartCombat(combatID)
}

// PauseCombat suspends an in-progress encounter.
func (s *System) PauseCombat(combatID string) bool {
	return s.executor.PauseCombat(combatID)
}

// ResumeCombat returns a paused encounter to progress.
func (s *System) ResumeCombat(combatID string) bool {
	return s.executor.ResumeCombat(combatID)
}

// EndCombat forces an encounter into a terminal state.
func (s *System) EndCombat(combatID string, result combat.State) *ActionResult {
	return s.executor.EndCombat(combatID, result)
}

// ExecuteAction resolves one submitted action.
func (s *System) ExecuteAction(combatID string, action combat.Action) *ActionResult {
	return s.executor.ExecuteAction(combatID, action)
}

// AIAction returns the action an AI combatant would take, or nil.
func (s *System) AIAction(combatID, combatantID string) (*combat.Action, error) {
	return s.decider.Decide(combatID, combatantID)
}

// ExecuteAITurns resolves consecutive AI turns until a player's turn
// comes up, the combat reaches a terminal state, or the safety cap is
// hit. Scheduled combatants that cannot act are skipped.
func (s *System) ExecuteAITurns(combatID string) ([]*ActionResult, error) {
	const maxTurns = 100

	var results []*ActionResult
	for i := 0; i < maxTurns; i++ {
		view, err := s.status.CombatStatus(combatID)
		if err != nil {
			return results, err
		}
		state := combat.State(view.State)
		if !state.Active() {
			return results, nil
		}

		var active *CombatantView
		for j := range view.Combatants {
			if view.Combatants[j].ID == view.ActiveCombatantID {
				active = &view.Combatants[j]
				break
			}
		}
		if active == nil {
			// Stale order slot; should not happen, but never spin on it.
			s.executor.AdvanceTurn(combatID)
			continue
		}
		if active.Controller == string(combat.ControllerPlayer) {
			return results, nil
		}
		if !active.CanAct {
			s.executor.AdvanceTurn(combatID)
			continue
		}

		action, err := s.decider.Decide(combatID, active.ID)
		if err != nil {
			return results, err
		}
		if action == nil {
			s.executor.AdvanceTurn(combatID)
			continue
		}
		results = append(results, s.executor.ExecuteAction(combatID, *action))
	}
	return results, nil
}

// CombatStatus returns a read-only snapshot of an encounter.
func (s *System) CombatStatus(combatID string) (*CombatView, error) {
	return s.status.CombatStatus(combatID)
}

// CombatantStatus returns a read-only snapshot of one combatant.
func (s *System) CombatantStatus(combatID, combatantID string) (*CombatantView, error) {
	return s.status.CombatantStatus(combatID, combatantID)
}

// History returns the ordered combat log.
func (s *System) History(combatID string) ([]combat.LogEntry, error) {
	return s.status.History(combatID)
}

// ValidateCombatState checks aggregate invariants without repairing.
func (s *System) ValidateCombatState(combatID string) (*Validation, error) {
	return s.status.Validate(combatID)
}

// AttacksByType filters the catalogue by attack type.
func (s *System) AttacksByType(t combat.AttackType) ([]*combat.Attack, error) {
	return s.attacks.ByType(t)
}

// AttacksByDamageType filters the catalogue by damage type.
func (s *System) AttacksByDamageType(t combat.DamageType) ([]*combat.Attack, error) {
	return s.attacks.ByDamageType(t)
}
