package domain

// KillmailAdmittedPayload is the event payload for killmail.admitted events
type KillmailAdmittedPayload struct {
	KillmailID int64   `json:"killmail_id"`
	SystemID   int64   `json:"system_id"`
	BattleID   int64   `json:"battle_id,omitempty"`
	Value      float64 `json:"value"`
	Timestamp  int64   `json:"timestamp"`
}

// HotspotDetectedPayload is the event payload for hotspot.detected events
type HotspotDetectedPayload struct {
	SystemID  int64 `json:"system_id"`
	Count     int   `json:"count"`
	Timestamp int64 `json:"timestamp"`
}

// BattleStartedPayload is the event payload for battle.started events
type BattleStartedPayload struct {
	Battle Battle `json:"battle"`
}

// BattleMilestonePayload carries the battle snapshot and the milestone the
// alert dispatcher should try to claim
type BattleMilestonePayload struct {
	Battle    Battle `json:"battle"`
	Milestone int    `json:"milestone"`
}

// BattleEndedPayload is the event payload for battle.ended events
type BattleEndedPayload struct {
	Battle       Battle              `json:"battle"`
	Participants []BattleParticipant `json:"participants,omitempty"`
}

// CatastrophicLossPayload is the event payload for killmail.catastrophic events
type CatastrophicLossPayload struct {
	Killmail Killmail `json:"killmail"`
	BattleID int64    `json:"battle_id,omitempty"`
}

// ConflictMilestonePayload is the event payload for conflict.milestone events
type ConflictMilestonePayload struct {
	Conflict  Conflict `json:"conflict"`
	Milestone int      `json:"milestone"`
}

// ConflictAgedPayload is the event payload for conflict.aged events
type ConflictAgedPayload struct {
	Dormant   int64 `json:"dormant"`
	Ended     int64 `json:"ended"`
	Timestamp int64 `json:"timestamp"`
}
