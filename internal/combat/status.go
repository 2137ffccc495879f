package combat

// EffectKind identifies a timed status effect.
type EffectKind string

const (
	EffectStunned   EffectKind = "stunned"
	EffectPoisoned  EffectKind = "poisoned"
	EffectBurning   EffectKind = "burning"
	EffectFrozen    EffectKind = "frozen"
	EffectBleeding  EffectKind = "bleeding"
	EffectBlinded   EffectKind = "blinded"
	EffectSilenced  EffectKind = "silenced"
	EffectHasted    EffectKind = "hasted"
	EffectSlowed    EffectKind = "slowed"
	EffectEnraged   EffectKind = "enraged"
	EffectProtected EffectKind = "protected"
	EffectWeakened  EffectKind = "weakened"
)

var effectKinds = map[EffectKind]bool{
	EffectStunned:   true,
	EffectPoisoned:  true,
	EffectBurning:   true,
	EffectFrozen:    true,
	EffectBleeding:  true,
	EffectBlinded:   true,
	EffectSilenced:  true,
	EffectHasted:    true,
	EffectSlowed:    true,
	EffectEnraged:   true,
	EffectProtected: true,
	EffectWeakened:  true,
}

// Valid reports whether the kind is one of the known status effects.
func (k EffectKind) Valid() bool {
	return effectKinds[k]
}

// StatusEffect is a timed modifier attached to a combatant. Duration
// counts remaining rounds and is decremented once per round boundary;
// an effect whose duration reaches zero is removed.
type StatusEffect struct {
	Kind     EffectKind
	Duration int
	Strength float64
	Source   string
}
