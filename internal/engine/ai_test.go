package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberquest/combat-engine-go/internal/combat"
)

// aiFixture builds a three-attack catalogue and a combat with one AI
// combatant per archetype plus two enemies of distinct health.
func aiFixture(t *testing.T, sys *System) (combatID string, attacks map[string]string) {
	t.Helper()

	c, err := sys.CreateCombat(CombatParams{Name: "ai test", Location: "arena"})
	require.NoError(t, err)

	attacks = make(map[string]string)
	for _, p := range []AttackParams{
		{Name: "Jab", Type: combat.AttackMelee, DamageType: combat.DamagePhysical, BaseDamage: 5},
		{Name: "Slam", Type: combat.AttackMelee, DamageType: combat.DamagePhysical, BaseDamage: 15, ManaCost: 8},
		{Name: "Meteor", Type: combat.AttackMagic, DamageType: combat.DamageFire, BaseDamage: 99, ManaCost: 500},
	} {
		a, err := sys.CreateAttack(p)
		require.NoError(t, err)
		attacks[p.Name] = a.ID
	}
	return c.ID, attacks
}

func addAI(t *testing.T, sys *System, combatID, name string, arch combat.Archetype, health, maxHealth int) string {
	t.Helper()
	cb, err := sys.AddCombatant(combatID, CombatantParams{
		Name: name, Team: "raiders",
		MaxHealth: maxHealth, Health: health, MaxMana: 30,
		Speed: 10, Accuracy: 80, CriticalMultiplier: 1.5,
		Archetype: arch, Controller: combat.ControllerAI,
	})
	require.NoError(t, err)
	return cb.ID
}

func addEnemy(t *testing.T, sys *System, combatID, name string, health int) string {
	t.Helper()
	cb, err := sys.AddCombatant(combatID, CombatantParams{
		Name: name, Team: "heroes",
		MaxHealth: 100, Health: health,
		Speed: 5, Accuracy: 80, CriticalMultiplier: 1.5,
		Controller: combat.ControllerPlayer,
	})
	require.NoError(t, err)
	return cb.ID
}

func TestAIAggressivePicksWeakestTargetStrongestAttack(t *testing.T) {
	sys, _ := newTestSystem(t, &combat.SequenceRoller{})
	combatID, attacks := aiFixture(t, sys)

	ai := addAI(t, sys, combatID, "Brute", combat.ArchetypeAggressive, 100, 100)
	addEnemy(t, sys, combatID, "Sturdy", 90)
	weak := addEnemy(t, sys, combatID, "Wounded", 15)

	action, err := sys.AIAction(combatID, ai)
	require.NoError(t, err)
	require.NotNil(t, action)
	assert.Equal(t, combat.ActionAttack, action.Type)
	assert.Equal(t, weak, action.TargetID)
	// Slam is the strongest attack the brute can afford.
	assert.Equal(t, attacks["Slam"], action.AttackID)
}

func TestAIDefensiveDefendsWhenHurt(t *testing.T) {
	sys, _ := newTestSystem(t, &combat.SequenceRoller{})
	combatID, _ := aiFixture(t, sys)

	ai := addAI(t, sys, combatID, "Turtle", combat.ArchetypeDefensive, 20, 100)
	addEnemy(t, sys, combatID, "Foe", 90)

	action, err := sys.AIAction(combatID, ai)
	require.NoError(t, err)
	require.NotNil(t, action)
	assert.Equal(t, combat.ActionDefend, action.Type)
}

func TestAIDefensivePokesWithWeakestAttackWhenHealthy(t *testing.T) {
	sys, _ := newTestSystem(t, &combat.SequenceRoller{Ints: []int{0}})
	combatID, attacks := aiFixture(t, sys)

	ai := addAI(t, sys, combatID, "Turtle", combat.ArchetypeDefensive, 100, 100)
	addEnemy(t, sys, combatID, "Foe", 90)

	action, err := sys.AIAction(combatID, ai)
	require.NoError(t, err)
	require.NotNil(t, action)
	assert.Equal(t, combat.ActionAttack, action.Type)
	assert.Equal(t, attacks["Jab"], action.AttackID)
}

func TestAIBalancedThresholds(t *testing.T) {
	tests := []struct {
		name   string
		health int
		want   combat.ActionType
	}{
		{"flees when nearly dead", 10, combat.ActionFlee},
		{"defends when hurt", 40, combat.ActionDefend},
		{"attacks when healthy", 90, combat.ActionAttack},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys, _ := newTestSystem(t, &combat.SequenceRoller{Ints: []int{0}})
			combatID, _ := aiFixture(t, sys)
			ai := addAI(t, sys, combatID, "Wary", combat.ArchetypeBalanced, tt.health, 100)
			addEnemy(t, sys, combatID, "Foe", 90)

			action, err := sys.AIAction(combatID, ai)
			require.NoError(t, err)
			require.NotNil(t, action)
			assert.Equal(t, tt.want, action.Type)
		})
	}
}

func TestAIWaitsWhenNoAttackAffordable(t *testing.T) {
	sys, _ := newTestSystem(t, &combat.SequenceRoller{})

	c, err := sys.CreateCombat(CombatParams{Name: "drained", Location: "arena"})
	require.NoError(t, err)
	_, err = sys.CreateAttack(AttackParams{
		Name: "Meteor", Type: combat.AttackMagic, DamageType: combat.DamageFire,
		BaseDamage: 99, ManaCost: 500,
	})
	require.NoError(t, err)

	ai, err := sys.AddCombatant(c.ID, CombatantParams{
		Name: "Dry", Team: "raiders", MaxHealth: 50, MaxMana: 10,
		Speed: 10, Accuracy: 80, CriticalMultiplier: 1.5,
		Archetype: combat.ArchetypeAggressive, Controller: combat.ControllerAI,
	})
	require.NoError(t, err)
	addEnemy(t, sys, c.ID, "Foe", 90)

	action, err := sys.AIAction(c.ID, ai.ID)
	require.NoError(t, err)
	require.NotNil(t, action)
	assert.Equal(t, combat.ActionWait, action.Type)
}

func TestAIReturnsNilWithoutEnemiesOrForPlayers(t *testing.T) {
	sys, _ := newTestSystem(t, &combat.SequenceRoller{})
	combatID, _ := aiFixture(t, sys)

	ai := addAI(t, sys, combatID, "Alone", combat.ArchetypeAggressive, 100, 100)

	// No living enemies.
	action, err := sys.AIAction(combatID, ai)
	require.NoError(t, err)
	assert.Nil(t, action)

	player := addEnemy(t, sys, combatID, "Foe", 90)
	action, err = sys.AIAction(combatID, player)
	require.NoError(t, err)
	assert.Nil(t, action)

	_, err = sys.AIAction("missing", ai)
	assert.Error(t, err)
}

func TestExecuteAITurnsRunsToTermination(t *testing.T) {
	// Every roll hits and nothing crits; both sides are AI so the fight
	// runs until one team is gone.
	roller := &combat.SequenceRoller{Rolls: []float64{0.1, 0.99}, Ints: []int{0}}
	sys, _ := newTestSystem(t, roller)

	c, err := sys.CreateCombat(CombatParams{Name: "skirmish", Location: "bridge"})
	require.NoError(t, err)
	_, err = sys.CreateAttack(AttackParams{
		Name: "Strike", Type: combat.AttackMelee, DamageType: combat.DamagePhysical,
		BaseDamage: 20,
	})
	require.NoError(t, err)

	_, err = sys.AddCombatant(c.ID, CombatantParams{
		Name: "Red", Team: "red", MaxHealth: 60, AttackPower: 10,
		Speed: 20, Accuracy: 90, CriticalMultiplier: 1.5,
		Archetype: combat.ArchetypeAggressive, Controller: combat.ControllerAI,
	})
	require.NoError(t, err)
	_, err = sys.AddCombatant(c.ID, CombatantParams{
		Name: "Blue", Team: "blue", MaxHealth: 60, AttackPower: 10,
		Speed: 10, Accuracy: 90, CriticalMultiplier: 1.5,
		Archetype: combat.ArchetypeAggressive, Controller: combat.ControllerAI,
	})
	require.NoError(t, err)
	require.True(t, sys.StartCombat(c.ID))

	results, err := sys.ExecuteAITurns(c.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, results)

	view, err := sys.CombatStatus(c.ID)
	require.NoError(t, err)
	assert.True(t, combat.State(view.State).Terminal())
	// Two all-AI teams: the survivor is not player-controlled.
	assert.Equal(t, string(combat.StateDefeat), view.State)
}

func TestExecuteAITurnsStopsAtPlayerTurn(t *testing.T) {
	roller := &combat.SequenceRoller{Rolls: []float64{0.1, 0.99}, Ints: []int{0}}
	sys, _ := newTestSystem(t, roller)

	c, err := sys.CreateCombat(CombatParams{Name: "ambush", Location: "road"})
	require.NoError(t, err)
	_, err = sys.CreateAttack(AttackParams{
		Name: "Strike", Type: combat.AttackMelee, DamageType: combat.DamagePhysical,
		BaseDamage: 5,
	})
	require.NoError(t, err)

	_, err = sys.AddCombatant(c.ID, CombatantParams{
		Name: "Bandit", Team: "bandits", MaxHealth: 60,
		Speed: 20, Accuracy: 90, CriticalMultiplier: 1.5,
		Archetype: combat.ArchetypeAggressive, Controller: combat.ControllerAI,
	})
	require.NoError(t, err)
	hero, err := sys.AddCombatant(c.ID, CombatantParams{
		Name: "Hero", Team: "heroes", MaxHealth: 60, Defense: 2,
		Speed: 10, Accuracy: 90, CriticalMultiplier: 1.5,
		Controller: combat.ControllerPlayer,
	})
	require.NoError(t, err)
	require.True(t, sys.StartCombat(c.ID))

	results, err := sys.ExecuteAITurns(c.ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)

	view, err := sys.CombatStatus(c.ID)
	require.NoError(t, err)
	assert.Equal(t, hero.ID, view.ActiveCombatantID)
	assert.Equal(t, string(combat.StateInProgress), view.State)
}
