package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberquest/combat-engine-go/internal/combat"
)

func testCombat() *combat.Combat {
	return &combat.Combat{
		ID:       "c1",
		Name:     "test",
		Location: "arena",
		State:    combat.StateInProgress,
		Combatants: []*combat.Combatant{
			{
				ID:   "a",
				Name: "Alpha",
				Team: "heroes",
				Stats: combat.Stats{
					Health: 30, MaxHealth: 40,
					Mana: 10, MaxMana: 20,
					Speed: 12,
				},
				Effects: []combat.StatusEffect{
					{Kind: combat.EffectBurning, Duration: 2, Strength: 1, Source: "fireball"},
				},
				Controller: combat.ControllerPlayer,
				Archetype:  combat.ArchetypeNone,
			},
			{
				ID:         "b",
				Name:       "Beta",
				Team:       "monsters",
				Stats:      combat.Stats{Health: 25, MaxHealth: 25, Speed: 8},
				Controller: combat.ControllerAI,
				Archetype:  combat.ArchetypeAggressive,
			},
		},
		CurrentRound: 3,
		CurrentTurn:  1,
		TurnOrder:    []string{"a", "b"},
		Environment:  map[string]string{"terrain": "mud"},
		CreatedAt:    time.Now(),
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(nil)
	original := testCombat()

	require.NoError(t, store.Save(original))

	loaded, err := store.Load("c1")
	require.NoError(t, err)

	assert.Equal(t, original.State, loaded.State)
	assert.Equal(t, original.CurrentRound, loaded.CurrentRound)
	assert.Equal(t, original.CurrentTurn, loaded.CurrentTurn)
	assert.Equal(t, original.TurnOrder, loaded.TurnOrder)
	assert.Equal(t, original.Environment, loaded.Environment)
	require.Len(t, loaded.Combatants, 2)
	assert.Equal(t, original.Combatants[0].Effects, loaded.Combatants[0].Effects)
	assert.Equal(t, original.Combatants[0].Stats, loaded.Combatants[0].Stats)
}

func TestMemoryStoreLoadReturnsCopy(t *testing.T) {
	store := NewMemoryStore(nil)
	require.NoError(t, store.Save(testCombat()))

	first, err := store.Load("c1")
	require.NoError(t, err)

	// Mutating a loaded aggregate must not leak into the store until
	// the next Save.
	first.Combatant("a").Stats.Health = 1
	first.State = combat.StateDefeat

	second, err := store.Load("c1")
	require.NoError(t, err)
	assert.Equal(t, 30, second.Combatant("a").Stats.Health)
	assert.Equal(t, combat.StateInProgress, second.State)
}

func TestMemoryStoreLoadMissing(t *testing.T) {
	store := NewMemoryStore(nil)
	_, err := store.Load("nope")
	assert.ErrorIs(t, err, ErrCombatNotFound)
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore(nil)
	require.NoError(t, store.Save(testCombat()))
	require.NoError(t, store.AppendAction("c1", combat.Action{ID: "act1", ActorID: "a", Type: combat.ActionWait}))
	require.NoError(t, store.AppendLog("c1", combat.LogEntry{ID: "log1", Round: 1, ActorID: "a"}))

	require.NoError(t, store.Delete("c1"))
	_, err := store.Load("c1")
	assert.ErrorIs(t, err, ErrCombatNotFound)

	actions, err := store.ActionsByCombat("c1")
	require.NoError(t, err)
	assert.Empty(t, actions)

	assert.ErrorIs(t, store.Delete("c1"), ErrCombatNotFound)
}

func TestCombatantRepositoryDelegatesToAggregate(t *testing.T) {
	store := NewMemoryStore(nil)
	require.NoError(t, store.Save(testCombat()))

	cb := &combat.Combatant{
		ID:         "c",
		Name:       "Gamma",
		Team:       "monsters",
		Stats:      combat.Stats{Health: 10, MaxHealth: 10},
		Controller: combat.ControllerAI,
	}
	require.NoError(t, store.Add("c1", cb))

	// The aggregate is the source of truth for membership.
	loaded, err := store.Load("c1")
	require.NoError(t, err)
	assert.NotNil(t, loaded.Combatant("c"))

	got, err := store.Get("c1", "c")
	require.NoError(t, err)
	assert.Equal(t, "Gamma", got.Name)

	members, err := store.ListByCombat("c1")
	require.NoError(t, err)
	assert.Len(t, members, 3)

	require.NoError(t, store.Remove("c1", "c"))
	_, err = store.Get("c1", "c")
	assert.ErrorIs(t, err, ErrCombatantNotFound)

	assert.ErrorIs(t, store.Add("missing", cb), ErrCombatNotFound)
}

func TestAttackCatalogue(t *testing.T) {
	store := NewMemoryStore(nil)

	attacks := []*combat.Attack{
		{ID: "1", Name: "Slash", Type: combat.AttackMelee, DamageType: combat.DamagePhysical, BaseDamage: 10},
		{ID: "2", Name: "Fireball", Type: combat.AttackMagic, DamageType: combat.DamageFire, BaseDamage: 15},
		{ID: "3", Name: "Firestorm", Type: combat.AttackArea, DamageType: combat.DamageFire, BaseDamage: 20},
	}
	for _, a := range attacks {
		require.NoError(t, store.SaveAttack(a))
	}

	got, err := store.LoadAttack("2")
	require.NoError(t, err)
	assert.Equal(t, "Fireball", got.Name)

	_, err = store.LoadAttack("nope")
	assert.ErrorIs(t, err, ErrAttackNotFound)

	all, err := store.ListAttacks()
	require.NoError(t, err)
	assert.Len(t, all, 3)

	melee, err := store.AttacksByType(combat.AttackMelee)
	require.NoError(t, err)
	require.Len(t, melee, 1)
	assert.Equal(t, "Slash", melee[0].Name)

	fire, err := store.AttacksByDamageType(combat.DamageFire)
	require.NoError(t, err)
	assert.Len(t, fire, 2)
}

func TestActionAndLogHistoryOrdered(t *testing.T) {
	store := NewMemoryStore(nil)

	for i, id := range []string{"first", "second", "third"} {
		require.NoError(t, store.AppendAction("c1", combat.Action{ID: id, Type: combat.ActionWait}))
		require.NoError(t, store.AppendLog("c1", combat.LogEntry{ID: id, Round: i + 1}))
	}

	actions, err := store.ActionsByCombat("c1")
	require.NoError(t, err)
	require.Len(t, actions, 3)
	assert.Equal(t, "first", actions[0].ID)
	assert.Equal(t, "third", actions[2].ID)

	logs, err := store.LogsByCombat("c1")
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, 1, logs[0].Round)
	assert.Equal(t, 3, logs[2].Round)
}
