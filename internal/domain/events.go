package domain

// Event type constants used for event bus subscriptions and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "battle.started")
const (
	// EventTypeKillmailAdmitted is published once per killmail that passed admission
	EventTypeKillmailAdmitted = "killmail.admitted"

	// EventTypeHotspotDetected is published on the killmail that brings a system's window to the threshold
	EventTypeHotspotDetected = "hotspot.detected"

	// EventTypeBattleStarted is published when admission opens a new battle
	EventTypeBattleStarted = "battle.started"

	// EventTypeBattleMilestone is published when a battle's totals make an alert due
	EventTypeBattleMilestone = "battle.milestone"

	// EventTypeBattleEnded is published by the sweep for every battle it closes
	EventTypeBattleEnded = "battle.ended"

	// EventTypeCatastrophicLoss is published for a single killmail above the catastrophic value
	EventTypeCatastrophicLoss = "killmail.catastrophic"

	// EventTypeConflictMilestone is published when a conflict crosses a kill milestone
	EventTypeConflictMilestone = "conflict.milestone"

	// EventTypeConflictAged is published when the sweep moves conflicts toward terminal states
	EventTypeConflictAged = "conflict.aged"
)
