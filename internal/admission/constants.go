package admission

// Error messages
const (
	ErrMsgClaimFailed   = "failed to claim killmail %d: %w"
	ErrMsgHotspotFailed = "failed to record hotspot for killmail %d: %w"
	ErrMsgPersistFailed = "failed to persist killmail %d: %w"
)

// Log messages
const (
	LogMsgDuplicate       = "Duplicate killmail skipped"
	LogMsgAdmitted        = "Killmail admitted"
	LogMsgReleaseFailed   = "Failed to release killmail claim"
	LogMsgRecomputeFailed = "Failed to recompute battle stats"
	LogMsgBattleCreated   = "Battle opened"
	LogMsgLateHotspot     = "Killmail older than the hotspot window, not opening a battle"
)
