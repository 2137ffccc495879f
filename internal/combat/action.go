package combat

import "time"

// ActionType identifies what a combatant intends to do on its turn.
type ActionType string

const (
	ActionAttack  ActionType = "attack"
	ActionDefend  ActionType = "defend"
	ActionUseItem ActionType = "use_item"
	ActionFlee    ActionType = "flee"
	ActionWait    ActionType = "wait"
)

var actionTypes = map[ActionType]bool{
	ActionAttack:  true,
	ActionDefend:  true,
	ActionUseItem: true,
	ActionFlee:    true,
	ActionWait:    true,
}

// Valid reports whether the action type is known.
func (t ActionType) Valid() bool {
	return actionTypes[t]
}

// Action is a combatant's declared intent for one turn. It is a value
// object consumed exactly once by the execution service; TargetID,
// AttackID, and Position are only meaningful for the action types that
// use them.
type Action struct {
	ID        string
	ActorID   string
	Type      ActionType
	TargetID  string
	AttackID  string
	Position  *Position
	CreatedAt time.Time
}
