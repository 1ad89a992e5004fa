package domain

import "time"

// Conflict tracks recurring combat between two alliances. AllianceA is always
// the lower ID.
type Conflict struct {
	ID             int64     `json:"id" db:"id"`
	AllianceA      int64     `json:"alliance_a" db:"alliance_a"`
	AllianceB      int64     `json:"alliance_b" db:"alliance_b"`
	KillsA         int       `json:"kills_a" db:"kills_a"`
	KillsB         int       `json:"kills_b" db:"kills_b"`
	ISKDestroyedA  float64   `json:"isk_destroyed_a" db:"isk_destroyed_a"`
	ISKDestroyedB  float64   `json:"isk_destroyed_b" db:"isk_destroyed_b"`
	Status         string    `json:"status" db:"status"`
	StartedAt      time.Time `json:"started_at" db:"started_at"`
	LastActivityAt time.Time `json:"last_activity_at" db:"last_activity_at"`
}

// TotalKills is the number of killmails between the pair in either direction
func (c *Conflict) TotalKills() int {
	return c.KillsA + c.KillsB
}

// ConflictPair is the canonical (min, max) alliance key
type ConflictPair struct {
	A int64
	B int64
}

// NewConflictPair orders two alliance IDs so the key is order independent
func NewConflictPair(x, y int64) ConflictPair {
	if x > y {
		x, y = y, x
	}
	return ConflictPair{A: x, B: y}
}

// ConflictKill is one killmail attributed to a conflict. Killer is the
// alliance credited with the kill.
type ConflictKill struct {
	Pair       ConflictPair
	KillerID   int64
	Value      float64
	OccurredAt time.Time
}

// ConflictDailyStat is the per-day trend row for a conflict
type ConflictDailyStat struct {
	ConflictID    int64     `json:"conflict_id" db:"conflict_id"`
	Day           time.Time `json:"day" db:"day"`
	KillsA        int       `json:"kills_a" db:"kills_a"`
	KillsB        int       `json:"kills_b" db:"kills_b"`
	ISKDestroyedA float64   `json:"isk_destroyed_a" db:"isk_destroyed_a"`
	ISKDestroyedB float64   `json:"isk_destroyed_b" db:"isk_destroyed_b"`
}
