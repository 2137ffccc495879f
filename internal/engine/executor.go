package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/emberquest/combat-engine-go/internal/combat"
	"github.com/emberquest/combat-engine-go/internal/repository"
)

// ActionResult reports the outcome of one submitted action. Success is
// false only when a precondition failed and nothing was mutated;
// Reason then carries the failure tag. A resolved action that simply
// went badly (a miss, a failed flee) still has Success true.
type ActionResult struct {
	Success bool
	Reason  combat.FailureReason
	Damage  int
	Effects []combat.EffectKind
	Result  string
	State   combat.State
	// ExpiredEffects lists status effects that ran out during the round
	// boundary this action triggered, keyed by combatant id.
	ExpiredEffects map[string][]combat.EffectKind
}

func failure(reason combat.FailureReason, text string) *ActionResult {
	return &ActionResult{Reason: reason, Result: text}
}

// Executor drives the combat state machine: it resolves submitted
// actions against current state, advances turns and rounds, evaluates
// victory conditions, and writes the log.
type Executor struct {
	combats repository.CombatRepository
	attacks repository.AttackRepository
	actions repository.ActionRepository
	logs    repository.LogRepository
	roller  combat.Roller
	logger  *zap.Logger
}

// NewExecutor builds an execution service over the given repositories.
// A nil roller falls back to the shared math/rand source.
func NewExecutor(combats repository.CombatRepository, attacks repository.AttackRepository, actions repository.ActionRepository, logs repository.LogRepository, roller combat.Roller, logger *zap.Logger) *Executor {
	if roller == nil {
		roller = combat.NewRoller()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		combats: combats,
		attacks: attacks,
		actions: actions,
		logs:    logs,
		roller:  roller,
		logger:  logger,
	}
}

// StartCombat computes turn order and opens the encounter. Returns
// false if the combat does not exist or is not in not_started.
func (e *Executor) StartCombat(combatID string) bool {
	c, err := e.combats.Load(combatID)
	if err != nil {
		return false
	}
	if !c.Start() {
		return false
	}
	if err := e.combats.Save(c); err != nil {
		e.logger.Error("failed to persist started combat", zap.String("combat_id", combatID), zap.Error(err))
		return false
	}
	e.logger.Info("combat started",
		zap.String("combat_id", combatID),
		zap.Strings("turn_order", c.TurnOrder),
	)
	return true
}

// EndCombat forces the encounter into a terminal state. Non-terminal
// results are rejected with invalid_result.
func (e *Executor) EndCombat(combatID string, result combat.State) *ActionResult {
	c, err := e.combats.Load(combatID)
	if err != nil {
		return failure(combat.FailCombatNotFound, "combat not found")
	}
	if !result.Terminal() || !c.End(result) {
		return failure(combat.FailInvalidResult, fmt.Sprintf("%q is not a valid end result", result))
	}
	if err := e.combats.Save(c); err != nil {
		return failure(combat.FailInvalidResult, err.Error())
	}
	e.logger.Info("combat ended",
		zap.String("combat_id", combatID),
		zap.String("result", string(result)),
	)
	return &ActionResult{Success: true, State: c.State, Result: fmt.Sprintf("combat ended: %s", result)}
}

// PauseCombat suspends an in-progress encounter.
func (e *Executor) PauseCombat(combatID string) bool {
	c, err := e.combats.Load(combatID)
	if err != nil || !c.Pause() {
		return false
	}
	return e.combats.Save(c) == nil
}

// ResumeCombat returns a paused encounter to progress.
func (e *Executor) ResumeCombat(combatID string) bool {
	c, err := e.combats.Load(combatID)
	if err != nil || !c.Resume() {
		return false
	}
	return e.combats.Save(c) == nil
}

// ExecuteAction resolves one action. Precondition failures short-
// circuit with a tagged reason and no state mutation; otherwise the
// action resolves, the log is written, victory conditions are checked,
// and the turn advances.
func (e *Executor) ExecuteAction(combatID string, action combat.Action) *ActionResult {
	c, err := e.combats.Load(combatID)
	if err != nil {
		return failure(combat.FailCombatNotFound, "combat not found")
	}
	if !c.State.Active() {
		return failure(combat.FailCombatNotActive, fmt.Sprintf("combat is %s", c.State))
	}
	actor := c.Combatant(action.ActorID)
	if actor == nil {
		return failure(combat.FailCombatantNotFound, "acting combatant not found")
	}
	if !actor.CanAct() {
		return failure(combat.FailCannotAct, fmt.Sprintf("%s cannot act", actor.Name))
	}

	var res *ActionResult
	switch action.Type {
	case combat.ActionAttack:
		res = e.resolveAttack(c, actor, action)
	case combat.ActionDefend:
		res = e.resolveDefend(actor)
	case combat.ActionFlee:
		res = e.resolveFlee(c, actor)
	case combat.ActionWait:
		res = e.resolveWait(actor)
	case combat.ActionUseItem:
		res = failure(combat.FailInvalidActionType, "item use is not available in combat")
	default:
		res = failure(combat.FailInvalidActionType, fmt.Sprintf("unknown action type %q", action.Type))
	}
	if !res.Success {
		res.State = c.State
		return res
	}

	e.finishAction(c, actor, action, res)

	if err := e.combats.Save(c); err != nil {
		e.logger.Error("failed to persist combat after action",
			zap.String("combat_id", c.ID),
			zap.Error(err),
		)
	}
	res.State = c.State
	return res
}

// AdvanceTurn skips the current turn without an action, used when the
// scheduled combatant is dead or otherwise unable to act.
func (e *Executor) AdvanceTurn(combatID string) *ActionResult {
	c, err := e.combats.Load(combatID)
	if err != nil {
		return failure(combat.FailCombatNotFound, "combat not found")
	}
	expired, ok := c.NextTurn()
	if !ok {
		return failure(combat.FailCombatNotActive, fmt.Sprintf("combat is %s", c.State))
	}
	if err := e.combats.Save(c); err != nil {
		e.logger.Error("failed to persist combat after skip", zap.String("combat_id", c.ID), zap.Error(err))
	}
	return &ActionResult{Success: true, State: c.State, Result: "turn skipped", ExpiredEffects: expired}
}

// finishAction runs the common trailer: persist the action, write the
// log entry, check victory conditions, and advance the turn. Action and
// log persistence are best-effort and never abort the resolution.
func (e *Executor) finishAction(c *combat.Combat, actor *combat.Combatant, action combat.Action, res *ActionResult) {
	if action.ID == "" {
		action.ID = uuid.NewString()
	}
	if action.CreatedAt.IsZero() {
		action.CreatedAt = time.Now()
	}
	if err := e.actions.Append(c.ID, action); err != nil {
		e.logger.Warn("failed to persist action", zap.String("combat_id", c.ID), zap.Error(err))
	}

	labels := make([]string, len(res.Effects))
	for i, kind := range res.Effects {
		labels[i] = string(kind)
	}
	entry := combat.LogEntry{
		ID:        uuid.NewString(),
		Round:     c.CurrentRound,
		ActorID:   actor.ID,
		Action:    string(action.Type),
		TargetID:  action.TargetID,
		Result:    res.Result,
		Damage:    res.Damage,
		Effects:   labels,
		CreatedAt: time.Now(),
	}
	c.AddLog(entry)
	if err := e.logs.Append(c.ID, entry); err != nil {
		e.logger.Warn("failed to persist log entry", zap.String("combat_id", c.ID), zap.Error(err))
	}

	if end := checkVictory(c); end != "" {
		c.End(end)
		e.logger.Info("combat reached terminal state",
			zap.String("combat_id", c.ID),
			zap.String("state", string(end)),
		)
		return
	}
	if c.Combatant(actor.ID) == nil {
		// The actor fled: removal already shifted the schedule onto the
		// next combatant. Step back one slot so the advance below is
		// net-neutral but still handles the round wrap.
		c.CurrentTurn--
	}
	res.ExpiredEffects, _ = c.NextTurn()
}

func (e *Executor) resolveAttack(c *combat.Combat, actor *combat.Combatant, action combat.Action) *ActionResult {
	if action.TargetID == "" {
		return failure(combat.FailTargetNotFound, "attack requires a target")
	}
	if action.AttackID == "" {
		return failure(combat.FailAttackNotFound, "attack requires an attack id")
	}
	target := c.Combatant(action.TargetID)
	if target == nil {
		return failure(combat.FailTargetNotFound, "target combatant not found")
	}
	atk, err := e.attacks.Load(action.AttackID)
	if err != nil {
		return failure(combat.FailAttackNotFound, "attack not found")
	}
	if actor.Stats.Mana < atk.ManaCost {
		return failure(combat.FailInsufficientMana,
			fmt.Sprintf("%s needs %d mana for %s", actor.Name, atk.ManaCost, atk.Name))
	}

	actor.Stats.UseMana(atk.ManaCost)

	base := atk.BaseDamage + actor.Stats.AttackPower
	if atk.DamageType.Spellbound() {
		base += actor.Stats.MagicPower
	}

	hitChance := float64(actor.Stats.Accuracy+atk.AccuracyBonus-target.Stats.Evasion+100) / 200
	if hitChance < 0.10 {
		hitChance = 0.10
	}
	if hitChance > 0.95 {
		hitChance = 0.95
	}
	if e.roller.Float64() > hitChance {
		// Mana stays spent and the miss is still logged.
		return &ActionResult{
			Success: true,
			Result:  fmt.Sprintf("%s attacks %s with %s but misses", actor.Name, target.Name, atk.Name),
		}
	}

	defense := target.Stats.Defense
	if atk.DamageType != combat.DamagePhysical {
		defense = target.Stats.MagicResistance
	}
	damage := base - defense/2
	if damage < 1 {
		damage = 1
	}

	crit := false
	if e.roller.Float64() < actor.Stats.CriticalChance+atk.CriticalBonus {
		damage = int(float64(damage) * actor.Stats.CriticalMultiplier)
		crit = true
	}

	// TakeDamage applies the target's DamageReduction on top of the
	// defense subtraction above; the mitigation intentionally compounds.
	actual := target.Stats.TakeDamage(damage)

	applied := make([]combat.EffectKind, 0, len(atk.Inflicts))
	for _, kind := range atk.Inflicts {
		target.AddEffect(combat.StatusEffect{
			Kind:     kind,
			Duration: 3,
			Strength: 1.0,
			Source:   atk.Name,
		})
		applied = append(applied, kind)
	}

	text := fmt.Sprintf("%s hits %s with %s for %d damage", actor.Name, target.Name, atk.Name, actual)
	if crit {
		text = fmt.Sprintf("%s critically hits %s with %s for %d damage", actor.Name, target.Name, atk.Name, actual)
	}
	if !target.IsAlive() {
		text += fmt.Sprintf("; %s falls", target.Name)
	}

	return &ActionResult{Success: true, Damage: actual, Effects: applied, Result: text}
}

func (e *Executor) resolveDefend(actor *combat.Combatant) *ActionResult {
	actor.AddEffect(combat.StatusEffect{
		Kind:     combat.EffectProtected,
		Duration: 1,
		Strength: 1.5,
		Source:   "defend",
	})
	return &ActionResult{
		Success: true,
		Effects: []combat.EffectKind{combat.EffectProtected},
		Result:  fmt.Sprintf("%s takes a defensive stance", actor.Name),
	}
}

func (e *Executor) resolveFlee(c *combat.Combat, actor *combat.Combatant) *ActionResult {
	chance := 0.3 + float64(actor.Stats.Speed)/100
	if e.roller.Float64() < chance {
		c.RemoveCombatant(actor.ID)
		return &ActionResult{
			Success: true,
			Result:  fmt.Sprintf("%s flees the battle", actor.Name),
		}
	}
	return &ActionResult{
		Success: true,
		Result:  fmt.Sprintf("%s tries to flee but fails", actor.Name),
	}
}

func (e *Executor) resolveWait(actor *combat.Combatant) *ActionResult {
	restored := actor.Stats.RestoreMana(5)
	return &ActionResult{
		Success: true,
		Result:  fmt.Sprintf("%s waits and recovers %d mana", actor.Name, restored),
	}
}

// checkVictory returns the terminal state the encounter should enter,
// or "" when it continues. Exactly one surviving team wins: victory if
// that team has a player-controlled member, defeat otherwise. Mutual
// elimination (zero teams) produces no terminal state here.
func checkVictory(c *combat.Combat) combat.State {
	teams := c.AliveTeams()
	if len(teams) != 1 {
		return ""
	}
	for _, cb := range c.Combatants {
		if cb.Team == teams[0] && cb.IsAlive() && cb.Controller == combat.ControllerPlayer {
			return combat.StateVictory
		}
	}
	return combat.StateDefeat
}
