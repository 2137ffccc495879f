package combat

// Stats holds the combat-relevant numbers for a single combatant.
// Current values never exceed their max counterpart and never drop
// below zero; the mutation methods maintain both bounds.
type Stats struct {
	Health             int
	MaxHealth          int
	Mana               int
	MaxMana            int
	AttackPower        int
	Defense            int
	MagicPower         int
	MagicResistance    int
	Speed              int
	Accuracy           int
	Evasion            int
	CriticalChance     float64 // 0..1
	CriticalMultiplier float64 // >= 1
	DamageReduction    float64 // 0..1
}

// TakeDamage applies damage after the combatant's own damage reduction
// and returns the amount of health actually lost. Any positive incoming
// amount deals at least 1.
func (s *Stats) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := int(float64(amount) * (1 - s.DamageReduction))
	if actual < 1 {
		actual = 1
	}
	s.Health -= actual
	if s.Health < 0 {
		s.Health = 0
	}
	return actual
}

// Heal restores health up to MaxHealth and returns the amount restored.
func (s *Stats) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	healed := amount
	if room := s.MaxHealth - s.Health; healed > room {
		healed = room
	}
	s.Health += healed
	return healed
}

// UseMana deducts the cost if the pool covers it. A non-positive cost
// trivially succeeds without deduction.
func (s *Stats) UseMana(amount int) bool {
	if amount <= 0 {
		return true
	}
	if s.Mana < amount {
		return false
	}
	s.Mana -= amount
	return true
}

// RestoreMana adds mana up to MaxMana and returns the amount restored.
func (s *Stats) RestoreMana(amount int) int {
	if amount <= 0 {
		return 0
	}
	restored := amount
	if room := s.MaxMana - s.Mana; restored > room {
		restored = room
	}
	s.Mana += restored
	return restored
}

// IsAlive reports whether the combatant still has health left.
func (s *Stats) IsAlive() bool {
	return s.Health > 0
}

// HealthPercent returns current health as a fraction of MaxHealth.
func (s *Stats) HealthPercent() float64 {
	if s.MaxHealth <= 0 {
		return 0
	}
	return float64(s.Health) / float64(s.MaxHealth)
}
