package engine

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/emberquest/combat-engine-go/internal/combat"
	"github.com/emberquest/combat-engine-go/internal/repository"
)

// StatDefaults supplies baseline accuracy and evasion for combatants
// whose creator left them unset.
type StatDefaults struct {
	Accuracy int
	Evasion  int
}

// Creator validates input and constructs combat entities. Invariant
// violations come back as errors with a nil entity; nothing panics.
type Creator struct {
	validate *validator.Validate
	combats  repository.CombatRepository
	members  repository.CombatantRepository
	attacks  repository.AttackRepository
	defaults StatDefaults
	logger   *zap.Logger
}

// NewCreator builds a creation service over the given repositories.
func NewCreator(combats repository.CombatRepository, members repository.CombatantRepository, attacks repository.AttackRepository, defaults StatDefaults, logger *zap.Logger) *Creator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Creator{
		validate: validator.New(),
		combats:  combats,
		members:  members,
		attacks:  attacks,
		defaults: defaults,
		logger:   logger,
	}
}

// CombatParams describes a new encounter.
type CombatParams struct {
	ID          string
	Name        string `validate:"required"`
	Location    string `validate:"required"`
	Environment map[string]string
}

// CombatantParams describes a new participant. Zero Health/Mana default
// to their max counterparts; zero Accuracy/Evasion fall back to the
// configured baselines; a zero CriticalMultiplier becomes 1.
type CombatantParams struct {
	ID                 string
	Name               string `validate:"required"`
	Team               string `validate:"required"`
	MaxHealth          int    `validate:"gt=0"`
	Health             int    `validate:"gte=0"`
	MaxMana            int    `validate:"gte=0"`
	Mana               int    `validate:"gte=0"`
	AttackPower        int    `validate:"gte=0"`
	Defense            int    `validate:"gte=0"`
	MagicPower         int    `validate:"gte=0"`
	MagicResistance    int    `validate:"gte=0"`
	Speed              int    `validate:"gte=0"`
	Accuracy           int    `validate:"gte=0"`
	Evasion            int    `validate:"gte=0"`
	CriticalChance     float64 `validate:"gte=0,lte=1"`
	CriticalMultiplier float64 `validate:"gte=0"`
	DamageReduction    float64 `validate:"gte=0,lte=1"`
	Position           combat.Position
	Abilities          []string
	Archetype          combat.Archetype  `validate:"omitempty,oneof=none aggressive defensive balanced"`
	Controller         combat.Controller `validate:"required,oneof=player ai"`
}

// AttackParams describes a new catalogue attack.
type AttackParams struct {
	ID            string
	Name          string            `validate:"required"`
	Type          combat.AttackType `validate:"required,oneof=melee ranged magic area dot debuff buff heal"`
	DamageType    combat.DamageType `validate:"required,oneof=physical magical fire ice lightning poison holy dark psychic"`
	BaseDamage    int               `validate:"gte=0"`
	AccuracyBonus int
	CriticalBonus float64
	ManaCost      int `validate:"gte=0"`
	Range         int `validate:"gte=0"`
	AoERadius     int `validate:"gte=0"`
	Inflicts      []combat.EffectKind
	Description   string
}

// CreateCombat validates, constructs, and persists a new encounter in
// the not_started state.
func (cr *Creator) CreateCombat(p CombatParams) (*combat.Combat, error) {
	if err := cr.validate.Struct(p); err != nil {
		return nil, fmt.Errorf("invalid combat params: %w", err)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	c := &combat.Combat{
		ID:           p.ID,
		Name:         p.Name,
		Location:     p.Location,
		State:        combat.StateNotStarted,
		CurrentRound: 1,
		Environment:  p.Environment,
		CreatedAt:    time.Now(),
	}
	if err := cr.combats.Save(c); err != nil {
		return nil, err
	}

	cr.logger.Info("combat created",
		zap.String("combat_id", c.ID),
		zap.String("name", c.Name),
		zap.String("location", c.Location),
	)
	return c, nil
}

// AddCombatant validates, constructs, and attaches a combatant to an
// existing encounter.
func (cr *Creator) AddCombatant(combatID string, p CombatantParams) (*combat.Combatant, error) {
	if err := cr.validate.Struct(p); err != nil {
		return nil, fmt.Errorf("invalid combatant params: %w", err)
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Health == 0 {
		p.Health = p.MaxHealth
	}
	if p.Mana == 0 {
		p.Mana = p.MaxMana
	}
	if p.Accuracy == 0 {
		p.Accuracy = cr.defaults.Accuracy
	}
	if p.Evasion == 0 {
		p.Evasion = cr.defaults.Evasion
	}
	if p.CriticalMultiplier == 0 {
		p.CriticalMultiplier = 1
	}
	if p.CriticalMultiplier < 1 {
		return nil, fmt.Errorf("invalid combatant params: critical multiplier %v below 1", p.CriticalMultiplier)
	}
	if p.Archetype == "" {
		p.Archetype = combat.ArchetypeNone
	}

	cb := &combat.Combatant{
		ID:   p.ID,
		Name: p.Name,
		Team: p.Team,
		Stats: combat.Stats{
			Health:             p.Health,
			MaxHealth:          p.MaxHealth,
			Mana:               p.Mana,
			MaxMana:            p.MaxMana,
			AttackPower:        p.AttackPower,
			Defense:            p.Defense,
			MagicPower:         p.MagicPower,
			MagicResistance:    p.MagicResistance,
			Speed:              p.Speed,
			Accuracy:           p.Accuracy,
			Evasion:            p.Evasion,
			CriticalChance:     p.CriticalChance,
			CriticalMultiplier: p.CriticalMultiplier,
			DamageReduction:    p.DamageReduction,
		},
		Position:   p.Position,
		Abilities:  p.Abilities,
		Archetype:  p.Archetype,
		Controller: p.Controller,
	}

	if err := cr.members.Add(combatID, cb); err != nil {
		return nil, err
	}

	cr.logger.Info("combatant added",
		zap.String("combat_id", combatID),
		zap.String("combatant_id", cb.ID),
		zap.String("team", cb.Team),
		zap.String("controller", string(cb.Controller)),
	)
	return cb, nil
}

// CreateAttack validates, constructs, and persists a catalogue attack.
func (cr *Creator) CreateAttack(p AttackParams) (*combat.Attack, error) {
	if err := cr.validate.Struct(p); err != nil {
		return nil, fmt.Errorf("invalid attack params: %w", err)
	}
	for _, kind := range p.Inflicts {
		if !kind.Valid() {
			return nil, fmt.Errorf("invalid attack params: unknown effect kind %q", kind)
		}
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	a := &combat.Attack{
		ID:            p.ID,
		Name:          p.Name,
		Type:          p.Type,
		DamageType:    p.DamageType,
		BaseDamage:    p.BaseDamage,
		AccuracyBonus: p.AccuracyBonus,
		CriticalBonus: p.CriticalBonus,
		ManaCost:      p.ManaCost,
		Range:         p.Range,
		AoERadius:     p.AoERadius,
		Inflicts:      p.Inflicts,
		Description:   p.Description,
	}
	if err := cr.attacks.Save(a); err != nil {
		return nil, err
	}

	cr.logger.Info("attack created",
		zap.String("attack_id", a.ID),
		zap.String("name", a.Name),
		zap.String("type", string(a.Type)),
	)
	return a, nil
}
