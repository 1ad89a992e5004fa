package postgres

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/osse101/killwatch/internal/domain"
)

// Each test works in its own solar system and killmail id range so tests can
// share one database without truncating.
var (
	nextSystemID   int64 = 31000000
	nextKillmailID int64 = 90000000
)

func requireDB(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if testPool == nil {
		t.Skip("Skipping integration test: database not available")
	}
}

func newSystemID() int64 {
	return atomic.AddInt64(&nextSystemID, 1)
}

func newKillmail(systemID int64, at time.Time) *domain.Killmail {
	id := atomic.AddInt64(&nextKillmailID, 1)
	return &domain.Killmail{
		ID:       id,
		Hash:     "abc123",
		Time:     at,
		SystemID: systemID,
		RegionID: 10000002,
		Security: 0.4,
		Victim: domain.Victim{
			CharacterID:   2112000001,
			CorporationID: 98000001,
			AllianceID:    99000001,
			ShipTypeID:    24690,
			DamageTaken:   54000,
		},
		Attackers: []domain.Attacker{
			{CharacterID: 2112000002, CorporationID: 98000002, AllianceID: 99000002, ShipTypeID: 22456, DamageDone: 30000, FinalBlow: true},
			{CharacterID: 2112000003, CorporationID: 98000002, AllianceID: 99000002, ShipTypeID: 11198, DamageDone: 24000},
			{CorporationID: 1000125, DamageDone: 0},
		},
		Items: []domain.Item{
			{TypeID: 2048, Flag: 11, Quantity: 1},
			{TypeID: 21640, Flag: 5, Quantity: 5000, Dropped: true},
		},
		AttackerCount: 3,
		Value:         180_000_000,
		ShipCategory:  "battleship",
		ShipRole:      "combat",
	}
}

func countRows(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, testPool.QueryRow(context.Background(), query, args...).Scan(&n))
	return n
}
