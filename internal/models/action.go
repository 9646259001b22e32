package models

// Action names a per-player operation a user can trigger.
type Action string

const (
	ActionDamage     Action = "damage"
	ActionHeal       Action = "heal"
	ActionExperience Action = "experience"
	ActionLevelUp    Action = "level_up"
)

// ValidActions is the set of all valid actions.
var ValidActions = []Action{
	ActionDamage,
	ActionHeal,
	ActionExperience,
	ActionLevelUp,
}

// IsValid returns true if the action is recognized.
func (a Action) IsValid() bool {
	for _, v := range ValidActions {
		if a == v {
			return true
		}
	}
	return false
}
