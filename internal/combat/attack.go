package combat

// AttackType categorizes how an attack is delivered.
type AttackType string

const (
	AttackMelee  AttackType = "melee"
	AttackRanged AttackType = "ranged"
	AttackMagic  AttackType = "magic"
	AttackArea   AttackType = "area"
	AttackDoT    AttackType = "dot"
	AttackDebuff AttackType = "debuff"
	AttackBuff   AttackType = "buff"
	AttackHeal   AttackType = "heal"
)

var attackTypes = map[AttackType]bool{
	AttackMelee:  true,
	AttackRanged: true,
	AttackMagic:  true,
	AttackArea:   true,
	AttackDoT:    true,
	AttackDebuff: true,
	AttackBuff:   true,
	AttackHeal:   true,
}

// Valid reports whether the attack type is known.
func (t AttackType) Valid() bool {
	return attackTypes[t]
}

// DamageType categorizes the damage an attack deals.
type DamageType string

const (
	DamagePhysical  DamageType = "physical"
	DamageMagical   DamageType = "magical"
	DamageFire      DamageType = "fire"
	DamageIce       DamageType = "ice"
	DamageLightning DamageType = "lightning"
	DamagePoison    DamageType = "poison"
	DamageHoly      DamageType = "holy"
	DamageDark      DamageType = "dark"
	DamagePsychic   DamageType = "psychic"
)

var damageTypes = map[DamageType]bool{
	DamagePhysical:  true,
	DamageMagical:   true,
	DamageFire:      true,
	DamageIce:       true,
	DamageLightning: true,
	DamagePoison:    true,
	DamageHoly:      true,
	DamageDark:      true,
	DamagePsychic:   true,
}

// Valid reports whether the damage type is known.
func (t DamageType) Valid() bool {
	return damageTypes[t]
}

// Spellbound reports whether the damage type scales with magic power.
func (t DamageType) Spellbound() bool {
	switch t {
	case DamageMagical, DamageFire, DamageIce, DamageLightning:
		return true
	}
	return false
}

// Attack describes a usable attack. Attacks are immutable once
// constructed and shared by reference across combats.
type Attack struct {
	ID            string
	Name          string
	Type          AttackType
	DamageType    DamageType
	BaseDamage    int
	AccuracyBonus int
	CriticalBonus float64
	ManaCost      int
	Range         int
	AoERadius     int
	Inflicts      []EffectKind
	Description   string
}
