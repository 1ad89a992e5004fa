package domain

import "time"

// Battle is sustained combat in one solar system
type Battle struct {
	ID            int64      `json:"id" db:"id"`
	SystemID      int64      `json:"system_id" db:"system_id"`
	RegionID      int64      `json:"region_id" db:"region_id"`
	Status        string     `json:"status" db:"status"`
	StartedAt     time.Time  `json:"started_at" db:"started_at"`
	LastKillAt    time.Time  `json:"last_kill_at" db:"last_kill_at"`
	EndedAt       *time.Time `json:"ended_at,omitempty" db:"ended_at"`
	TotalKills    int        `json:"total_kills" db:"total_kills"`
	TotalValue    float64    `json:"total_value" db:"total_value"`
	HeavyKills    int        `json:"heavy_kills" db:"heavy_kills"`
	LastMilestone int        `json:"last_milestone" db:"last_milestone"`
	MessageID     string     `json:"message_id,omitempty" db:"message_id"`
}

// IsActive reports whether the battle still accepts killmails
func (b *Battle) IsActive() bool {
	return b.Status == BattleStatusActive
}

// Duration is the fixed length of an ended battle, or the elapsed time so far
func (b *Battle) Duration() time.Duration {
	if b.EndedAt != nil {
		return b.EndedAt.Sub(b.StartedAt)
	}
	return b.LastKillAt.Sub(b.StartedAt)
}

// KillsPerMinute is total kills over the elapsed fight time, with a one minute floor
func (b *Battle) KillsPerMinute() float64 {
	minutes := b.LastKillAt.Sub(b.StartedAt).Minutes()
	if minutes < 1 {
		minutes = 1
	}
	return float64(b.TotalKills) / minutes
}

// NextMilestone returns the claim target for the battle's current totals,
// or 0 when nothing new is due. The "new battle" sentinel is returned for a
// battle that has not been announced yet and passes the announce gate.
func (b *Battle) NextMilestone() int {
	target := 0
	for _, m := range BattleMilestones {
		if b.TotalKills >= m {
			target = m
		}
	}
	if target == 0 && b.LastMilestone == 0 &&
		(b.TotalKills >= NewBattleMinKills || b.TotalValue >= NewBattleMinValue) {
		target = NewBattleMilestone
	}
	if target <= b.LastMilestone {
		return 0
	}
	return target
}

// BattleParticipant is a per (battle, alliance, corporation) rollup
type BattleParticipant struct {
	BattleID      int64   `json:"battle_id" db:"battle_id"`
	AllianceID    int64   `json:"alliance_id" db:"alliance_id"`
	CorporationID int64   `json:"corporation_id" db:"corporation_id"`
	Kills         int     `json:"kills" db:"kills"`
	Losses        int     `json:"losses" db:"losses"`
	ISKDestroyed  float64 `json:"isk_destroyed" db:"isk_destroyed"`
	ISKLost       float64 `json:"isk_lost" db:"isk_lost"`
}
