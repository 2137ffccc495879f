package combat

// Archetype selects the decision policy for an AI-controlled combatant.
type Archetype string

const (
	ArchetypeNone       Archetype = "none"
	ArchetypeAggressive Archetype = "aggressive"
	ArchetypeDefensive  Archetype = "defensive"
	ArchetypeBalanced   Archetype = "balanced"
)

// Valid reports whether the archetype tag is known.
func (a Archetype) Valid() bool {
	switch a {
	case ArchetypeNone, ArchetypeAggressive, ArchetypeDefensive, ArchetypeBalanced:
		return true
	}
	return false
}

// Controller distinguishes player- from AI-driven combatants.
type Controller string

const (
	ControllerPlayer Controller = "player"
	ControllerAI     Controller = "ai"
)

// Valid reports whether the controller tag is known.
func (c Controller) Valid() bool {
	return c == ControllerPlayer || c == ControllerAI
}

// Position is a combatant's location on the battle grid.
type Position struct {
	X int
	Y int
}

// Combatant is a participant in a combat encounter. It owns its Stats
// and status effect instances; neither is shared with other combatants.
type Combatant struct {
	ID         string
	Name       string
	Team       string
	Stats      Stats
	Position   Position
	Effects    []StatusEffect
	Abilities  []string
	Archetype  Archetype
	Controller Controller
}

// IsAlive reports whether the combatant has health remaining.
func (c *Combatant) IsAlive() bool {
	return c.Stats.IsAlive()
}

// CanAct reports whether the combatant may submit an action this turn:
// alive and not stunned.
func (c *Combatant) CanAct() bool {
	return c.IsAlive() && !c.HasEffect(EffectStunned)
}

// HasEffect reports whether an effect of the given kind is active.
func (c *Combatant) HasEffect(kind EffectKind) bool {
	for _, e := range c.Effects {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// AddEffect attaches a status effect instance to the combatant.
func (c *Combatant) AddEffect(e StatusEffect) {
	c.Effects = append(c.Effects, e)
}

// TickEffects decrements every active effect's remaining duration by
// one round and removes the ones that expire, returning the expired
// kinds so callers can notify about them.
func (c *Combatant) TickEffects() []EffectKind {
	var expired []EffectKind
	kept := c.Effects[:0]
	for _, e := range c.Effects {
		e.Duration--
		if e.Duration <= 0 {
			expired = append(expired, e.Kind)
			continue
		}
		kept = append(kept, e)
	}
	c.Effects = kept
	return expired
}
