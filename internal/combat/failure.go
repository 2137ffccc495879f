package combat

// FailureReason tags an expected business failure. Failures travel as
// values on action results rather than as errors; only infrastructure
// problems surface as Go errors.
type FailureReason string

const (
	FailCombatNotFound    FailureReason = "combat_not_found"
	FailCombatantNotFound FailureReason = "combatant_not_found"
	FailCannotAct         FailureReason = "combatant_cannot_act"
	FailCombatNotActive   FailureReason = "combat_not_active"
	FailTargetNotFound    FailureReason = "target_not_found"
	FailAttackNotFound    FailureReason = "attack_not_found"
	FailInsufficientMana  FailureReason = "insufficient_mana"
	FailInvalidActionType FailureReason = "invalid_action_type"
	FailInvalidResult     FailureReason = "invalid_result"
)
