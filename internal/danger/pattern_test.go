package danger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/killwatch/internal/domain"
	"github.com/osse101/killwatch/internal/testing/fakestate"
	"github.com/osse101/killwatch/internal/universe"
)

const (
	campSystem = int64(30002813)
	sabre      = int64(22456)
	rifter     = int64(587)
)

func testCatalog() universe.Catalog {
	return universe.New(
		[]universe.System{{ID: campSystem, Name: "Tama", RegionID: 10000069, Security: 0.3}},
		[]universe.ShipType{
			{ID: sabre, Name: "Sabre", GroupID: universe.GroupInterdictor},
			{ID: rifter, Name: "Rifter", GroupID: 25},
		},
	)
}

func seed(t *testing.T, store *fakestate.Store, summaries ...domain.KillmailSummary) {
	t.Helper()
	for _, s := range summaries {
		require.NoError(t, store.PushRecent(context.Background(), s, domain.RecentKillmailsPerSystem))
	}
}

func TestDetectPattern_Gatecamp(t *testing.T) {
	store := fakestate.New()
	base := time.Date(2026, 4, 4, 19, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		seed(t, store, domain.KillmailSummary{
			ID:                int64(i + 1),
			Time:              base.Add(time.Duration(i) * time.Minute),
			SystemID:          campSystem,
			VictimAllianceID:  int64(100 + i),
			AttackerCount:     8,
			AttackerShipTypes: []int64{sabre, rifter},
		})
	}

	p, err := NewDetector(store, testCatalog()).DetectPattern(context.Background(), campSystem)

	require.NoError(t, err)
	assert.True(t, p.Detected)
	assert.Equal(t, 100, p.Confidence)
	assert.Len(t, p.Evidence, 4)
	assert.Contains(t, p.Evidence, EvidenceInterdictors)
}

func TestDetectPattern_TooFewSamples(t *testing.T) {
	store := fakestate.New()
	now := time.Now()
	seed(t, store,
		domain.KillmailSummary{ID: 1, Time: now, SystemID: campSystem, AttackerCount: 20},
		domain.KillmailSummary{ID: 2, Time: now, SystemID: campSystem, AttackerCount: 20},
	)

	p, err := NewDetector(store, testCatalog()).DetectPattern(context.Background(), campSystem)

	require.NoError(t, err)
	assert.False(t, p.Detected)
	assert.Zero(t, p.Confidence)
}

func TestDetectPattern_SoloRoaming(t *testing.T) {
	store := fakestate.New()
	base := time.Date(2026, 4, 4, 19, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seed(t, store, domain.KillmailSummary{
			ID:                int64(i + 1),
			Time:              base.Add(time.Duration(i) * 20 * time.Minute),
			SystemID:          campSystem,
			VictimAllianceID:  100,
			AttackerCount:     1,
			AttackerShipTypes: []int64{rifter},
		})
	}

	p, err := NewDetector(store, testCatalog()).DetectPattern(context.Background(), campSystem)

	require.NoError(t, err)
	assert.False(t, p.Detected)
	assert.Zero(t, p.Confidence)
	assert.Empty(t, p.Evidence)
}

func TestDetectPattern_TwoSignalsIsEnough(t *testing.T) {
	store := fakestate.New()
	base := time.Date(2026, 4, 4, 19, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seed(t, store, domain.KillmailSummary{
			ID:               int64(i + 1),
			Time:             base.Add(time.Duration(i) * time.Minute),
			SystemID:         campSystem,
			VictimAllianceID: 100,
			AttackerCount:    6,
		})
	}

	p, err := NewDetector(store, testCatalog()).DetectPattern(context.Background(), campSystem)

	require.NoError(t, err)
	assert.True(t, p.Detected)
	assert.Equal(t, 50, p.Confidence)
}

func TestDetectPattern_StoreError(t *testing.T) {
	store := fakestate.New()
	store.Err = errors.New("timeout")

	_, err := NewDetector(store, testCatalog()).DetectPattern(context.Background(), campSystem)

	require.Error(t, err)
}
