// Package repository defines the storage contracts for the combat
// engine and provides the in-memory reference implementation.
//
// The Combat aggregate is the single source of truth for combatant
// membership: the combatant repository delegates to the combat
// repository instead of owning independent storage. Actions and log
// entries are not part of the aggregate's combatant list but are still
// scoped to a combat id, so those repositories keep their own
// per-combat append-only collections.
package repository

import (
	"errors"

	"github.com/emberquest/combat-engine-go/internal/combat"
)

var (
	ErrCombatNotFound    = errors.New("combat not found")
	ErrCombatantNotFound = errors.New("combatant not found")
	ErrAttackNotFound    = errors.New("attack not found")
)

// CombatRepository stores combat aggregates.
type CombatRepository interface {
	Save(c *combat.Combat) error
	Load(id string) (*combat.Combat, error)
	Delete(id string) error
	List() ([]*combat.Combat, error)
}

// CombatantRepository manages combatants inside their owning aggregate.
type CombatantRepository interface {
	Add(combatID string, cb *combat.Combatant) error
	Get(combatID, combatantID string) (*combat.Combatant, error)
	Remove(combatID, combatantID string) error
	ListByCombat(combatID string) ([]*combat.Combatant, error)
}

// AttackRepository stores the shared attack catalogue.
type AttackRepository interface {
	Save(a *combat.Attack) error
	Load(id string) (*combat.Attack, error)
	List() ([]*combat.Attack, error)
	ByType(t combat.AttackType) ([]*combat.Attack, error)
	ByDamageType(t combat.DamageType) ([]*combat.Attack, error)
}

// ActionRepository keeps the ordered history of submitted actions per
// combat.
type ActionRepository interface {
	Append(combatID string, a combat.Action) error
	ListByCombat(combatID string) ([]combat.Action, error)
}

// LogRepository keeps the ordered combat log per combat.
type LogRepository interface {
	Append(combatID string, e combat.LogEntry) error
	ListByCombat(combatID string) ([]combat.LogEntry, error)
}
