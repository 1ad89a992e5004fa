package domain

import "time"

// Battle statuses
const (
	BattleStatusActive = "active"
	BattleStatusEnded  = "ended"
)

// Conflict statuses
const (
	ConflictStatusActive  = "active"
	ConflictStatusDormant = "dormant"
	ConflictStatusEnded   = "ended"
)

// Battle lifecycle thresholds
const (
	// BattleIdleTimeout ends a battle once no killmail has landed in it for this long
	BattleIdleTimeout = 30 * time.Minute

	// ConflictDormantAfter and ConflictEndedAfter age faction-pair conflicts
	ConflictDormantAfter = 7 * 24 * time.Hour
	ConflictEndedAfter   = 30 * 24 * time.Hour
)

// Hotspot window defaults
const (
	HotspotWindow    = 5 * time.Minute
	HotspotThreshold = 5
)

// Alert thresholds (ISK)
const (
	NewBattleMinKills        = 5
	NewBattleMinValue        = 1_000_000_000
	CatastrophicLossValue    = 10_000_000_000
	NewBattleMilestone       = 1 // sentinel stored in battles.last_milestone once "new battle" went out
	RecentKillmailsPerSystem = 20
)

// BattleMilestones is the ascending list of kill counts that trigger a battle update
var BattleMilestones = []int{10, 25, 50, 100, 200, 500}

// ConflictMilestones is the ascending list of total kills that trigger a conflict alert
var ConflictMilestones = []int{50, 100, 250, 500, 1000}

// Ship classification values
const (
	CategoryOther = "other"
	RoleUnknown   = "unknown"
	UnknownName   = "Unknown"
)
