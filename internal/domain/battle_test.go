package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBattle_NextMilestone(t *testing.T) {
	tests := []struct {
		name          string
		kills         int
		value         float64
		lastMilestone int
		want          int
	}{
		{"quiet battle", 2, 5_000_000, 0, 0},
		{"announce on kills", 5, 0, 0, NewBattleMilestone},
		{"announce on value", 1, 1_500_000_000, 0, NewBattleMilestone},
		{"already announced", 7, 0, NewBattleMilestone, 0},
		{"first milestone", 10, 0, NewBattleMilestone, 10},
		{"skips to highest reached", 57, 0, 10, 50},
		{"unannounced battle past milestone claims milestone", 12, 0, 0, 10},
		{"milestone already claimed", 24, 0, 10, 0},
		{"top milestone", 800, 0, 200, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Battle{TotalKills: tt.kills, TotalValue: tt.value, LastMilestone: tt.lastMilestone}
			assert.Equal(t, tt.want, b.NextMilestone())
		})
	}
}

func TestBattle_KillsPerMinute(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	b := Battle{StartedAt: start, LastKillAt: start.Add(10 * time.Minute), TotalKills: 22}
	assert.InDelta(t, 2.2, b.KillsPerMinute(), 0.0001)

	// Single kill battles use the one minute floor
	b = Battle{StartedAt: start, LastKillAt: start, TotalKills: 1}
	assert.InDelta(t, 1.0, b.KillsPerMinute(), 0.0001)
}

func TestBattle_Duration(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ended := start.Add(45 * time.Minute)

	b := Battle{StartedAt: start, LastKillAt: start.Add(15 * time.Minute)}
	assert.Equal(t, 15*time.Minute, b.Duration())

	b.EndedAt = &ended
	assert.Equal(t, 45*time.Minute, b.Duration())
}

func TestNewConflictPair_OrderIndependent(t *testing.T) {
	assert.Equal(t, NewConflictPair(99003581, 1354830081), NewConflictPair(1354830081, 99003581))
	assert.Equal(t, int64(99003581), NewConflictPair(1354830081, 99003581).A)
}

func TestKillmail_AttackerAlliances(t *testing.T) {
	km := Killmail{Attackers: []Attacker{
		{AllianceID: 1354830081},
		{AllianceID: 0},
		{AllianceID: 99003581},
		{AllianceID: 1354830081},
	}}

	assert.Equal(t, []int64{1354830081, 99003581}, km.AttackerAlliances())
}

func TestKillmail_Summary(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	km := Killmail{
		ID:            123,
		Time:          at,
		SystemID:      30000142,
		Victim:        Victim{ShipTypeID: 587, AllianceID: 42},
		Attackers:     []Attacker{{ShipTypeID: 22456}, {ShipTypeID: 0}},
		AttackerCount: 2,
		Value:         1000,
	}

	s := km.Summary()

	assert.Equal(t, int64(123), s.ID)
	assert.Equal(t, at, s.Time)
	assert.Equal(t, int64(42), s.VictimAllianceID)
	assert.Equal(t, []int64{22456}, s.AttackerShipTypes)
}
