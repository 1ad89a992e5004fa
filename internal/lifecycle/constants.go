package lifecycle

// Error messages
const (
	ErrMsgEndBattlesFailed   = "failed to end idle battles: %w"
	ErrMsgAgeConflictsFailed = "failed to age conflicts: %w"
)

// Log messages
const (
	LogMsgPublishFailed      = "Failed to publish lifecycle event"
	LogMsgPushRecentFailed   = "Failed to cache recent killmail"
	LogMsgConflictFailed     = "Failed to record conflict kill"
	LogMsgParticipantsFailed = "Failed to load battle participants"
	LogMsgBattleEnded        = "Battle ended"
	LogMsgConflictsAged      = "Conflicts aged"
	LogMsgSweepFailed        = "Sweep failed"
	LogMsgSweepFinished      = "Sweep finished"
	LogMsgSweepComplete      = "Sweep complete"
)
