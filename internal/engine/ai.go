package engine

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/emberquest/combat-engine-go/internal/combat"
	"github.com/emberquest/combat-engine-go/internal/repository"
)

// AIThresholds tunes archetype decisions, expressed as health
// fractions. Zero values fall back to the standard table.
type AIThresholds struct {
	DefensiveDefend float64 // defensive archetype defends below this
	BalancedDefend  float64 // balanced archetype defends below this
	BalancedFlee    float64 // balanced archetype flees below this
}

func (t AIThresholds) withDefaults() AIThresholds {
	if t.DefensiveDefend == 0 {
		t.DefensiveDefend = 0.3
	}
	if t.BalancedDefend == 0 {
		t.BalancedDefend = 0.5
	}
	if t.BalancedFlee == 0 {
		t.BalancedFlee = 0.2
	}
	return t
}

// Decider selects actions for AI-controlled combatants according to
// their behavior archetype.
type Decider struct {
	combats    repository.CombatRepository
	attacks    repository.AttackRepository
	roller     combat.Roller
	thresholds AIThresholds
	logger     *zap.Logger
}

// NewDecider builds an AI decision service. A nil roller falls back to
// the shared math/rand source.
func NewDecider(combats repository.CombatRepository, attacks repository.AttackRepository, roller combat.Roller, thresholds AIThresholds, logger *zap.Logger) *Decider {
	if roller == nil {
		roller = combat.NewRoller()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decider{
		combats:    combats,
		attacks:    attacks,
		roller:     roller,
		thresholds: thresholds.withDefaults(),
		logger:     logger,
	}
}

// Decide returns the action an AI combatant takes this turn, or nil
// when no action applies (unknown combatant, player-controlled, unable
// to act, or no living enemies).
func (d *Decider) Decide(combatID, combatantID string) (*combat.Action, error) {
	c, err := d.combats.Load(combatID)
	if err != nil {
		return nil, err
	}
	cb := c.Combatant(combatantID)
	if cb == nil || cb.Controller != combat.ControllerAI || !cb.CanAct() {
		return nil, nil
	}

	var enemies []*combat.Combatant
	for _, other := range c.Combatants {
		if other.Team != cb.Team && other.IsAlive() {
			enemies = append(enemies, other)
		}
	}
	if len(enemies) == 0 {
		return nil, nil
	}

	catalogue, err := d.attacks.List()
	if err != nil {
		return nil, err
	}
	var affordable []*combat.Attack
	for _, a := range catalogue {
		if a.ManaCost <= cb.Stats.Mana {
			affordable = append(affordable, a)
		}
	}
	if len(affordable) == 0 {
		return d.action(cb, combat.ActionWait, "", ""), nil
	}

	switch cb.Archetype {
	case combat.ArchetypeAggressive:
		target := weakestOf(enemies)
		attack := strongestOf(affordable)
		return d.action(cb, combat.ActionAttack, target.ID, attack.ID), nil

	case combat.ArchetypeDefensive:
		if cb.Stats.HealthPercent() < d.thresholds.DefensiveDefend {
			return d.action(cb, combat.ActionDefend, "", ""), nil
		}
		target := enemies[d.roller.IntN(len(enemies))]
		attack := weakestAttackOf(affordable)
		return d.action(cb, combat.ActionAttack, target.ID, attack.ID), nil

	default: // balanced, and the fallback for untagged AI combatants
		hp := cb.Stats.HealthPercent()
		if hp < d.thresholds.BalancedFlee {
			return d.action(cb, combat.ActionFlee, "", ""), nil
		}
		if hp < d.thresholds.BalancedDefend {
			return d.action(cb, combat.ActionDefend, "", ""), nil
		}
		target := enemies[d.roller.IntN(len(enemies))]
		attack := affordable[d.roller.IntN(len(affordable))]
		return d.action(cb, combat.ActionAttack, target.ID, attack.ID), nil
	}
}

func (d *Decider) action(cb *combat.Combatant, t combat.ActionType, targetID, attackID string) *combat.Action {
	a := &combat.Action{
		ID:        uuid.NewString(),
		ActorID:   cb.ID,
		Type:      t,
		TargetID:  targetID,
		AttackID:  attackID,
		CreatedAt: time.Now(),
	}
	d.logger.Debug("ai decision",
		zap.String("combatant_id", cb.ID),
		zap.String("archetype", string(cb.Archetype)),
		zap.String("action", string(t)),
		zap.String("target_id", targetID),
	)
	return a
}

// weakestOf picks the enemy with the least current health, first wins
// ties.
func weakestOf(enemies []*combat.Combatant) *combat.Combatant {
	best := enemies[0]
	for _, e := range enemies[1:] {
		if e.Stats.Health < best.Stats.Health {
			best = e
		}
	}
	return best
}

// strongestOf picks the attack with the highest base damage.
func strongestOf(attacks []*combat.Attack) *combat.Attack {
	best := attacks[0]
	for _, a := range attacks[1:] {
		if a.BaseDamage > best.BaseDamage {
			best = a
		}
	}
	return best
}

// weakestAttackOf picks the attack with the lowest base damage.
func weakestAttackOf(attacks []*combat.Attack) *combat.Attack {
	best := attacks[0]
	for _, a := range attacks[1:] {
		if a.BaseDamage < best.BaseDamage {
			best = a
		}
	}
	return best
}
