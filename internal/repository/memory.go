package repository

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/emberquest/combat-engine-go/internal/combat"
)

// MemoryStore implements every repository contract over in-process
// maps guarded by a single RWMutex. Aggregates pass through a gob
// round-trip on both save and load so callers never alias stored
// state; a loaded combat can be mutated freely and only becomes
// visible again on the next Save.
type MemoryStore struct {
	logger *zap.Logger

	mu      sync.RWMutex
	combats map[string][]byte
	attacks map[string]*combat.Attack
	actions map[string][]combat.Action
	logs    map[string][]combat.LogEntry
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryStore{
		logger:  logger,
		combats: make(map[string][]byte),
		attacks: make(map[string]*combat.Attack),
		actions: make(map[string][]combat.Action),
		logs:    make(map[string][]combat.LogEntry),
	}
}

func encodeCombat(c *combat.Combat) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encode combat %s: %w", c.ID, err)
	}
	return buf.Bytes(), nil
}

func decodeCombat(data []byte) (*combat.Combat, error) {
	var c combat.Combat
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode combat: %w", err)
	}
	return &c, nil
}

// Save persists a snapshot of the aggregate.
func (s *MemoryStore) Save(c *combat.Combat) error {
	data, err := encodeCombat(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.combats[c.ID] = data
	s.mu.Unlock()

	s.logger.Debug("combat saved",
		zap.String("combat_id", c.ID),
		zap.String("state", string(c.State)),
		zap.Int("round", c.CurrentRound),
	)
	return nil
}

// Load returns a private copy of the aggregate.
func (s *MemoryStore) Load(id string) (*combat.Combat, error) {
	s.mu.RLock()
	data, ok := s.combats[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrCombatNotFound
	}
	return decodeCombat(data)
}

// Delete removes the aggregate along with its action and log history.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.combats[id]; !ok {
		return ErrCombatNotFound
	}
	delete(s.combats, id)
	delete(s.actions, id)
	delete(s.logs, id)
	return nil
}

// List returns copies of all stored combats.
func (s *MemoryStore) List() ([]*combat.Combat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*combat.Combat, 0, len(s.combats))
	for _, data := range s.combats {
		c, err := decodeCombat(data)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Add inserts a combatant into its owning aggregate.
func (s *MemoryStore) Add(combatID string, cb *combat.Combatant) error {
	c, err := s.Load(combatID)
	if err != nil {
		return err
	}
	c.Combatants = append(c.Combatants, cb)
	return s.Save(c)
}

// Get returns a combatant from its owning aggregate.
func (s *MemoryStore) Get(combatID, combatantID string) (*combat.Combatant, error) {
	c, err := s.Load(combatID)
	if err != nil {
		return nil, err
	}
	cb := c.Combatant(combatantID)
	if cb == nil {
		return nil, ErrCombatantNotFound
	}
	return cb, nil
}

// Remove drops a combatant from its owning aggregate.
func (s *MemoryStore) Remove(combatID, combatantID string) error {
	c, err := s.Load(combatID)
	if err != nil {
		return err
	}
	if !c.RemoveCombatant(combatantID) {
		return ErrCombatantNotFound
	}
	return s.Save(c)
}

// ListByCombat returns the combatants of one aggregate.
func (s *MemoryStore) ListByCombat(combatID string) ([]*combat.Combatant, error) {
	c, err := s.Load(combatID)
	if err != nil {
		return nil, err
	}
	return c.Combatants, nil
}

// SaveAttack stores an attack in the shared catalogue.
func (s *MemoryStore) SaveAttack(a *combat.Attack) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attacks[a.ID] = a
	return nil
}

// LoadAttack returns an attack from the catalogue.
func (s *MemoryStore) LoadAttack(id string) (*combat.Attack, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attacks[id]
	if !ok {
		return nil, ErrAttackNotFound
	}
	return a, nil
}

// ListAttacks returns the whole catalogue.
func (s *MemoryStore) ListAttacks() ([]*combat.Attack, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*combat.Attack, 0, len(s.attacks))
	for _, a := range s.attacks {
		out = append(out, a)
	}
	return out, nil
}

// AttacksByType filters the catalogue by attack type.
func (s *MemoryStore) AttacksByType(t combat.AttackType) ([]*combat.Attack, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*combat.Attack
	for _, a := range s.attacks {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out, nil
}

// AttacksByDamageType filters the catalogue by damage type.
func (s *MemoryStore) AttacksByDamageType(t combat.DamageType) ([]*combat.Attack, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*combat.Attack
	for _, a := range s.attacks {
		if a.DamageType == t {
			out = append(out, a)
		}
	}
	return out, nil
}

// AppendAction records a submitted action for its combat.
func (s *MemoryStore) AppendAction(combatID string, a combat.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions[combatID] = append(s.actions[combatID], a)
	return nil
}

// ActionsByCombat returns the ordered action history of a combat.
func (s *MemoryStore) ActionsByCombat(combatID string) ([]combat.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.actions[combatID]
	out := make([]combat.Action, len(history))
	copy(out, history)
	return out, nil
}

// AppendLog records a log entry for its combat.
func (s *MemoryStore) AppendLog(combatID string, e combat.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs[combatID] = append(s.logs[combatID], e)
	return nil
}

// LogsByCombat returns the ordered log of a combat.
func (s *MemoryStore) LogsByCombat(combatID string) ([]combat.LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.logs[combatID]
	out := make([]combat.LogEntry, len(entries))
	copy(out, entries)
	return out, nil
}

// Typed views so one store can stand in for every contract.

type attackStore struct{ *MemoryStore }

func (s attackStore) Save(a *combat.Attack) error          { return s.SaveAttack(a) }
func (s attackStore) Load(id string) (*combat.Attack, error) { return s.LoadAttack(id) }
func (s attackStore) List() ([]*combat.Attack, error)      { return s.ListAttacks() }
func (s attackStore) ByType(t combat.AttackType) ([]*combat.Attack, error) {
	return s.AttacksByType(t)
}
func (s attackStore) ByDamageType(t combat.DamageType) ([]*combat.Attack, error) {
	return s.AttacksByDamageType(t)
}

type actionStore struct{ *MemoryStore }

func (s actionStore) Append(combatID string, a combat.Action) error { return s.AppendAction(combatID, a) }
func (s actionStore) ListByCombat(combatID string) ([]combat.Action, error) {
	return s.ActionsByCombat(combatID)
}

type logStore struct{ *MemoryStore }

func (s logStore) Append(combatID string, e combat.LogEntry) error { return s.AppendLog(combatID, e) }
func (s logStore) ListByCombat(combatID string) ([]combat.LogEntry, error) {
	return s.LogsByCombat(combatID)
}

// Combats returns the store as a CombatRepository.
func (s *MemoryStore) Combats() CombatRepository { return s }

// Combatants returns the store as a CombatantRepository.
func (s *MemoryStore) Combatants() CombatantRepository { return s }

// Attacks returns the store as an AttackRepository.
func (s *MemoryStore) Attacks() AttackRepository { return attackStore{s} }

// Actions returns the store as an ActionRepository.
func (s *MemoryStore) Actions() ActionRepository { return actionStore{s} }

// Logs returns the store as a LogRepository.
func (s *MemoryStore) Logs() LogRepository { return logStore{s} }
